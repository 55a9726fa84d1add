package lsp

import (
	"sort"
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
	"github.com/evanw/css21/internal/css_printer"
	"github.com/evanw/css21/internal/logger"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// The outline has one symbol per rule with declarations as children. Rules
// only record where they start, so the end of each symbol comes from
// scanning the token stream.
func (doc *document) symbols() []protocol.DocumentSymbol {
	return doc.ruleSymbols(doc.tree.Rules)
}

func (doc *document) ruleSymbols(rules []css_ast.Rule) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}

	for _, rule := range rules {
		symbol := protocol.DocumentSymbol{
			Range:          doc.statementRange(rule.Loc.Start, true),
			SelectionRange: doc.lines.rangeOf(doc.firstTokenRange(rule.Loc.Start)),
		}

		switch r := rule.Data.(type) {
		case *css_ast.RRuleset:
			symbol.Name = css_printer.PrintTokens(css_ast.TrimWhitespace(r.Selector), css_printer.Options{})
			symbol.Kind = protocol.SymbolKindClass
			symbol.Children = doc.declarationSymbols(r.Declarations)

		case *css_ast.RAtImport:
			symbol.Name = "@import"
			detail := r.URI
			if len(r.Media) > 0 {
				detail += " " + strings.Join(r.Media, ", ")
			}
			symbol.Detail = &detail
			symbol.Kind = protocol.SymbolKindFile

		case *css_ast.RAtMedia:
			symbol.Name = "@media " + strings.Join(r.Media, ", ")
			symbol.Kind = protocol.SymbolKindNamespace
			symbol.Children = doc.ruleSymbols(r.Rules)

		case *css_ast.RAtPage:
			symbol.Name = "@page"
			if r.Selector != "" {
				symbol.Name += " :" + r.Selector
			}
			symbol.Kind = protocol.SymbolKindModule
			symbol.Children = doc.declarationSymbols(r.Declarations)
		}

		// Clients reject symbols with empty names
		if symbol.Name == "" {
			symbol.Name = "(empty)"
		}
		symbols = append(symbols, symbol)
	}

	return symbols
}

func (doc *document) declarationSymbols(decls []css_ast.Declaration) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, decl := range decls {
		detail := css_printer.PrintTokens(decl.Value, css_printer.Options{})
		if decl.Important {
			detail += " !important"
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           decl.Name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindProperty,
			Range:          doc.statementRange(decl.Loc.Start, false),
			SelectionRange: doc.lines.rangeOf(doc.firstTokenRange(decl.Loc.Start)),
		})
	}
	return symbols
}

func (doc *document) tokenIndex(start int32) int {
	return sort.Search(len(doc.tokens), func(i int) bool {
		return doc.tokens[i].Range.Loc.Start >= start
	})
}

func (doc *document) firstTokenRange(start int32) logger.Range {
	if i := doc.tokenIndex(start); i < len(doc.tokens) {
		return doc.tokens[i].Range
	}
	return logger.Range{Loc: logger.Loc{Start: start}}
}

// A statement ends at a ";" or at the "}" that closes its own block. It also
// ends right before a "}" that closes the block around it. Closing tokens
// that don't match the innermost open block are ignored the same way the
// parser ignores them.
func (doc *document) statementRange(start int32, blockEnds bool) protocol.Range {
	i := doc.tokenIndex(start)
	end := start
	var stack []css_lexer.T
	span := func() protocol.Range {
		return doc.lines.rangeOf(logger.Range{Loc: logger.Loc{Start: start}, Len: end - start})
	}

	for ; i < len(doc.tokens); i++ {
		t := doc.tokens[i]

		switch t.Kind {
		case css_lexer.TOpenBrace:
			stack = append(stack, css_lexer.TCloseBrace)
		case css_lexer.TOpenParen, css_lexer.TFunction:
			stack = append(stack, css_lexer.TCloseParen)
		case css_lexer.TOpenBracket:
			stack = append(stack, css_lexer.TCloseBracket)

		case css_lexer.TCloseBrace, css_lexer.TCloseParen, css_lexer.TCloseBracket:
			if len(stack) == 0 {
				if t.Kind == css_lexer.TCloseBrace {
					return span()
				}
			} else if stack[len(stack)-1] == t.Kind {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && blockEnds && t.Kind == css_lexer.TCloseBrace {
					end = t.Range.End()
					return span()
				}
			}

		case css_lexer.TSemicolon:
			if len(stack) == 0 {
				end = t.Range.End()
				return span()
			}
		}

		if t.Kind != css_lexer.TWhitespace {
			end = t.Range.End()
		}
	}

	return span()
}

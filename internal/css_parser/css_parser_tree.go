package css_parser

import (
	"fmt"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

// Turns the flat token stream into a tree. "{", "(", "[" and function tokens
// own everything up to their matching closing token, or up to the end of the
// input if there isn't one. A closing token that doesn't match the innermost
// open block is kept as an ordinary token. The parser reports it later if it
// ends up somewhere it isn't allowed.
//
// This returns false if the input nests blocks more deeply than the limit.
// In that case the only error is the one about the limit.
func (p *parser) convertTokens(tokens []css_lexer.Token) ([]css_ast.Token, bool) {
	result, _, ok := p.convertTokensHelper(tokens, css_lexer.TEndOfFile, 0)
	return result, ok
}

func (p *parser) convertTokensHelper(tokens []css_lexer.Token, close css_lexer.T, depth int) ([]css_ast.Token, []css_lexer.Token, bool) {
	result := []css_ast.Token{}

	for len(tokens) > 0 {
		t := tokens[0]
		tokens = tokens[1:]
		if t.Kind == close {
			break
		}

		line, column := p.tracker.LineColumn(t.Range.Loc)
		token := css_ast.Token{
			Range:      t.Range,
			Line:       line,
			Column:     column,
			Kind:       t.Kind,
			Text:       t.DecodedText(p.source.Contents),
			UnitOffset: t.UnitOffset,
		}

		var nestedClose css_lexer.T
		switch t.Kind {
		case css_lexer.TOpenBrace:
			nestedClose = css_lexer.TCloseBrace
		case css_lexer.TOpenParen, css_lexer.TFunction:
			nestedClose = css_lexer.TCloseParen
		case css_lexer.TOpenBracket:
			nestedClose = css_lexer.TCloseBracket
		}

		if nestedClose != css_lexer.TEndOfFile {
			if depth >= p.options.MaxNestingDepth {
				p.errorAt(token, fmt.Sprintf("nesting depth limit of %d exceeded", p.options.MaxNestingDepth))
				return nil, nil, false
			}

			var nested []css_ast.Token
			var ok bool
			nested, tokens, ok = p.convertTokensHelper(tokens, nestedClose, depth+1)
			if !ok {
				return nil, nil, false
			}
			token.Children = &nested
		}

		result = append(result, token)
	}

	return result, tokens, true
}

package css_parser

import (
	"fmt"
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
	"github.com/evanw/css21/internal/logger"
)

// This is a CSS 2.1 parser that follows the rules for forward-compatible
// parsing: https://www.w3.org/TR/CSS21/syndata.html#parsing-errors. Anything
// that is malformed is skipped up to the end of the enclosing statement or
// declaration and reported, and parsing always continues afterward.
//
// Parse errors are collected into the returned tree and are also forwarded
// to the log. Lint warnings only go to the log.

const DefaultMaxNestingDepth = 256

type Options struct {
	// The maximum number of blocks that may be open at once. Zero means
	// "DefaultMaxNestingDepth".
	MaxNestingDepth int
}

type parser struct {
	log     logger.Log
	source  logger.Source
	tracker logger.LineColumnTracker
	errors  []css_ast.ParseError
	options Options

	// This is empty until the first ruleset or at-rule other than "@charset"
	// and "@import" is accepted at the top level. After that it describes
	// that rule for the "@import rule not allowed after ..." error.
	importBlockedBy string
}

func newParser(log logger.Log, source logger.Source, options Options) *parser {
	if options.MaxNestingDepth <= 0 {
		options.MaxNestingDepth = DefaultMaxNestingDepth
	}
	return &parser{
		log:     log,
		source:  source,
		tracker: logger.MakeLineColumnTracker(&source),
		options: options,
	}
}

func Parse(log logger.Log, source logger.Source, options Options) css_ast.Stylesheet {
	p := newParser(log, source, options)
	tokens, ok := p.convertTokens(css_lexer.Tokenize(log, source))
	if !ok {
		return css_ast.Stylesheet{Errors: p.errors}
	}

	charset, tokens := p.parseLeadingCharset(tokens)
	rules := p.parseListOfRules(tokens, stylesheetContext)
	return css_ast.Stylesheet{
		Rules:   rules,
		Errors:  p.errors,
		Charset: charset,
	}
}

// Parses the contents of an HTML "style" attribute, which is a list of
// declarations without the surrounding braces.
func ParseStyleAttr(log logger.Log, source logger.Source, options Options) ([]css_ast.Declaration, []css_ast.ParseError) {
	p := newParser(log, source, options)
	tokens, ok := p.convertTokens(css_lexer.Tokenize(log, source))
	if !ok {
		return nil, p.errors
	}
	return p.parseListOfDeclarations(tokens), p.errors
}

// Groups the input into a token tree without interpreting it as rules or
// declarations. The only error this can report is the nesting depth limit.
func ParseTokens(log logger.Log, source logger.Source, options Options) ([]css_ast.Token, []css_ast.ParseError) {
	p := newParser(log, source, options)
	tokens, ok := p.convertTokens(css_lexer.Tokenize(log, source))
	if !ok {
		return nil, p.errors
	}
	return tokens, nil
}

func (p *parser) errorAt(t css_ast.Token, text string) {
	p.errors = append(p.errors, css_ast.ParseError{
		Message: text,
		Range:   t.Range,
		Line:    t.Line,
		Column:  t.Column,
	})
	p.log.AddRangeError(&p.source, t.Range, text)
}

type stopAt uint8

const (
	stopAtSemicolon stopAt = 1 << iota
	stopAtBlock
)

// This is the only way the parser skips input. Every statement is read with
// it before anything about the statement is checked, so a statement with an
// error has already been consumed in full by the time the error is reported.
//
// A semicolon ends the statement without being part of it. A "{}" block ends
// the statement and is returned separately. The end of the input also ends
// the statement.
func consumeUntil(tokens []css_ast.Token, stop stopAt) (head []css_ast.Token, block *css_ast.Token, rest []css_ast.Token) {
	for i, t := range tokens {
		switch {
		case t.Kind == css_lexer.TSemicolon && (stop&stopAtSemicolon) != 0:
			return tokens[:i], nil, tokens[i+1:]

		case t.Kind == css_lexer.TOpenBrace && (stop&stopAtBlock) != 0:
			return tokens[:i], &tokens[i], tokens[i+1:]
		}
	}
	return tokens, nil, nil
}

func (p *parser) parseLeadingCharset(tokens []css_ast.Token) (string, []css_ast.Token) {
	// This must match byte-for-byte, as described in
	// https://www.w3.org/TR/CSS21/syndata.html#charset
	if len(tokens) < 4 || tokens[0].Kind != css_lexer.TAtKeyword ||
		!strings.HasPrefix(p.source.Contents[tokens[0].Range.Loc.Start:], "@charset \"") {
		return "", tokens
	}
	if tokens[1].Kind != css_lexer.TWhitespace || tokens[2].Kind != css_lexer.TString || tokens[3].Kind != css_lexer.TSemicolon {
		return "", tokens
	}
	return tokens[2].Text, tokens[4:]
}

func (p *parser) parseListOfRules(tokens []css_ast.Token, context ruleContext) []css_ast.Rule {
	rules := []css_ast.Rule{}

	for len(tokens) > 0 {
		first := tokens[0]

		switch first.Kind {
		case css_lexer.TWhitespace, css_lexer.TCDO, css_lexer.TCDC:
			tokens = tokens[1:]
			continue

		case css_lexer.TAtKeyword:
			at, rest, ok := p.readAtRule(tokens)
			tokens = rest
			if !ok {
				continue
			}
			if rule, ok := p.parseAtRule(at, context); ok {
				rules = append(rules, rule)
				if context.isTopLevel {
					p.closeImportGate(rule.Data)
				}
			}

		default:
			head, block, rest := consumeUntil(tokens, stopAtBlock)
			tokens = rest
			if rule, ok := p.parseRuleset(head, block); ok {
				rules = append(rules, rule)
				if context.isTopLevel {
					p.closeImportGate(rule.Data)
				}
			}
		}
	}

	return rules
}

func (p *parser) closeImportGate(rule css_ast.R) {
	if p.importBlockedBy != "" {
		return
	}
	switch keyword := rule.AtKeyword(); keyword {
	case "@import":
	case "":
		p.importBlockedBy = "a ruleset"
	default:
		p.importBlockedBy = fmt.Sprintf("an %s rule", keyword)
	}
}

func (p *parser) parseRuleset(selector []css_ast.Token, block *css_ast.Token) (css_ast.Rule, bool) {
	if block == nil {
		// The selector ran to the end of the input
		last := selector[len(selector)-1]
		p.errorAt(last, "no declaration block found for ruleset")
		return css_ast.Rule{}, false
	}

	if len(css_ast.TrimWhitespace(selector)) == 0 {
		p.errorAt(*block, "empty selector")
		return css_ast.Rule{}, false
	}

	for _, t := range selector {
		if !p.validateAny(t, "selector") {
			return css_ast.Rule{}, false
		}
	}

	first := selector[0]
	return css_ast.Rule{
		Loc:    first.Range.Loc,
		Line:   first.Line,
		Column: first.Column,
		Data: &css_ast.RRuleset{
			Selector:     selector,
			Declarations: p.parseListOfDeclarations(*block.Children),
		},
	}, true
}

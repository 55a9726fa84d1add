package css_parser

import (
	"fmt"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

// Reference: https://www.w3.org/TR/CSS21/syndata.html#tokenization
//
// The core grammar only allows certain tokens in selectors, at-rule heads,
// and values. Each of these functions reports the first token that isn't
// allowed and returns false.

func (p *parser) validateValue(tokens []css_ast.Token) bool {
	for _, t := range tokens {
		if t.Kind == css_lexer.TOpenBrace {
			if !p.validateBlock(*t.Children, "property value") {
				return false
			}
		} else if !p.validateAny(t, "property value") {
			return false
		}
	}
	return true
}

// Blocks inside values may also contain ";" and at-keywords
func (p *parser) validateBlock(tokens []css_ast.Token, context string) bool {
	for _, t := range tokens {
		switch t.Kind {
		case css_lexer.TOpenBrace:
			if !p.validateBlock(*t.Children, context) {
				return false
			}

		case css_lexer.TSemicolon, css_lexer.TAtKeyword:

		default:
			if !p.validateAny(t, context) {
				return false
			}
		}
	}
	return true
}

func (p *parser) validateAny(t css_ast.Token, context string) bool {
	switch t.Kind {
	case css_lexer.TFunction, css_lexer.TOpenParen, css_lexer.TOpenBracket:
		// The block's own kind becomes the context for its children
		for _, child := range *t.Children {
			if !p.validateAny(child, t.Kind.String()) {
				return false
			}
		}

	case css_lexer.TWhitespace, css_lexer.TIdent, css_lexer.TDimension, css_lexer.TPercentage,
		css_lexer.TNumber, css_lexer.TInteger, css_lexer.TURI, css_lexer.TDelim, css_lexer.TComma,
		css_lexer.TString, css_lexer.THash, css_lexer.TColon, css_lexer.TUnicodeRange:

	case css_lexer.TCloseBrace, css_lexer.TCloseParen, css_lexer.TCloseBracket:
		p.errorAt(t, fmt.Sprintf("unmatched %s token in %s", t.Kind, context))
		return false

	default:
		p.errorAt(t, fmt.Sprintf("unexpected %s token in %s", t.Kind, context))
		return false
	}
	return true
}

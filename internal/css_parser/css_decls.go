package css_parser

import (
	"fmt"
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

// Parses the inside of a ruleset's block or a style attribute. Declarations
// are separated by semicolons and nothing else. An empty declaration is
// skipped without an error.
func (p *parser) parseListOfDeclarations(tokens []css_ast.Token) []css_ast.Declaration {
	list := []css_ast.Declaration{}

	for len(tokens) > 0 {
		var decl []css_ast.Token
		decl, _, tokens = consumeUntil(tokens, stopAtSemicolon)
		if decl = css_ast.TrimWhitespace(decl); len(decl) == 0 {
			continue
		}
		if d, ok := p.parseDeclaration(decl); ok {
			list = append(list, d)
		}
	}

	return list
}

// Parses the inside of a block that holds both declarations and at-rules,
// such as "@page". At-rules end at a ";" or after their block.
func (p *parser) parseListOfDeclarationsAndAtRules(tokens []css_ast.Token, context ruleContext) []css_ast.Declaration {
	list := []css_ast.Declaration{}

	for len(tokens) > 0 {
		switch tokens[0].Kind {
		case css_lexer.TWhitespace:
			tokens = tokens[1:]

		case css_lexer.TAtKeyword:
			var rule atRule
			var ok bool
			rule, tokens, ok = p.readAtRule(tokens)
			if ok {
				// CSS 2.1 doesn't allow any at-rules here, so this always fails
				p.parseAtRule(rule, context)
			}

		default:
			var decl []css_ast.Token
			decl, _, tokens = consumeUntil(tokens, stopAtSemicolon)
			if decl = css_ast.TrimWhitespace(decl); len(decl) == 0 {
				continue
			}
			if d, ok := p.parseDeclaration(decl); ok {
				list = append(list, d)
			}
		}
	}

	return list
}

// The tokens must not start or end with whitespace and must not be empty.
func (p *parser) parseDeclaration(tokens []css_ast.Token) (css_ast.Declaration, bool) {
	name := tokens[0]
	if name.Kind != css_lexer.TIdent {
		p.errorAt(name, fmt.Sprintf("expected a property name, got %s", name.Kind))
		return css_ast.Declaration{}, false
	}

	// Find the colon
	last := name
	tokens = tokens[1:]
	for {
		if len(tokens) == 0 {
			p.errorAt(last, "expected ':'")
			return css_ast.Declaration{}, false
		}
		last = tokens[0]
		tokens = tokens[1:]
		if last.Kind == css_lexer.TColon {
			break
		}
		if last.Kind != css_lexer.TWhitespace {
			p.errorAt(last, fmt.Sprintf("expected ':', got %s", last.Kind))
			return css_ast.Declaration{}, false
		}
	}

	value := css_ast.TrimWhitespace(tokens)
	if len(value) == 0 {
		p.errorAt(last, "expected a property value")
		return css_ast.Declaration{}, false
	}
	if !p.validateValue(value) {
		return css_ast.Declaration{}, false
	}

	value, important, ok := p.parseValuePriority(value)
	if !ok {
		return css_ast.Declaration{}, false
	}

	lowerName := strings.ToLower(name.Text)
	p.maybeWarnAboutTypo(name, lowerName)

	return css_ast.Declaration{
		Name:      lowerName,
		Value:     value,
		Important: important,
		Loc:       name.Range.Loc,
		Line:      name.Line,
		Column:    name.Column,
	}, true
}

// Strips a trailing "!important" from the value. Whitespace is allowed between
// the "!" and the "important" as well as before the "!".
func (p *parser) parseValuePriority(value []css_ast.Token) ([]css_ast.Token, bool, bool) {
	last := value[len(value)-1]
	if last.Kind != css_lexer.TIdent || !strings.EqualFold(last.Text, "important") {
		return value, false, true
	}

	i := len(value) - 2
	for i >= 0 && value[i].Kind == css_lexer.TWhitespace {
		i--
	}
	if i < 0 || !value[i].IsDelim("!") {
		return value, false, true
	}

	bang := value[i]
	value = css_ast.TrimWhitespace(value[:i])
	if len(value) == 0 {
		p.errorAt(bang, "expected a value before !important")
		return nil, false, false
	}
	return value, true, true
}

func (p *parser) maybeWarnAboutTypo(name css_ast.Token, lowerName string) {
	// Vendor-prefixed properties and the "_property" hack are left alone
	if strings.HasPrefix(lowerName, "-") || strings.HasPrefix(lowerName, "_") {
		return
	}
	if _, ok := css_ast.KnownDeclarations[lowerName]; ok {
		return
	}
	if corrected, ok := css_ast.MaybeCorrectDeclarationTypo(lowerName); ok {
		p.log.AddRangeWarning(&p.source, name.Range,
			fmt.Sprintf("%q is not a known CSS property; did you mean %q?", lowerName, corrected))
	}
}

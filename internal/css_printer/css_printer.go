package css_printer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

const quoteForURL byte = 0

type printer struct {
	options Options
	css     []byte
}

type Options struct {
	MinifyWhitespace bool
	ASCIIOnly        bool
}

func Print(tree css_ast.Stylesheet, options Options) []byte {
	p := printer{options: options}
	if tree.Charset != "" {
		// It's not valid to remove the space in between these two tokens
		p.print("@charset ")

		// It's not valid to print the string with single quotes
		p.printQuotedWithQuote(tree.Charset, '"')
		p.print(";")
		if !p.options.MinifyWhitespace {
			p.print("\n")
		}
	}
	for _, rule := range tree.Rules {
		p.printRule(rule, 0)
	}
	return p.css
}

// Serializes a token list the way it would appear in a stylesheet. Each
// whitespace token becomes a single space.
func PrintTokens(tokens []css_ast.Token, options Options) string {
	p := printer{options: options}
	p.printTokens(tokens)
	return string(p.css)
}

// Serializes declarations the way they would appear in a style attribute
func PrintDeclarations(decls []css_ast.Declaration, options Options) string {
	p := printer{options: options}
	for i, decl := range decls {
		if i > 0 {
			if p.options.MinifyWhitespace {
				p.print(";")
			} else {
				p.print("; ")
			}
		}
		p.printDeclaration(decl)
	}
	return string(p.css)
}

func (p *printer) printRule(rule css_ast.Rule, indent int32) {
	if !p.options.MinifyWhitespace {
		p.printIndent(indent)
	}

	switch r := rule.Data.(type) {
	case *css_ast.RAtImport:
		if p.options.MinifyWhitespace {
			p.print("@import")
		} else {
			p.print("@import ")
		}
		p.printQuoted(r.URI)
		if !isAllMedia(r.Media) {
			p.print(" ")
			p.printMediaList(r.Media)
		}
		p.print(";")

	case *css_ast.RAtMedia:
		p.print("@media ")
		p.printMediaList(r.Media)
		if !p.options.MinifyWhitespace {
			p.print(" ")
		}
		p.printRuleBlock(r.Rules, indent)

	case *css_ast.RAtPage:
		p.print("@page")
		if r.Selector != "" {
			if !p.options.MinifyWhitespace {
				p.print(" ")
			}
			p.print(":")
			p.printIdent(r.Selector, identNormal, canDiscardWhitespaceAfter)
		}
		if !p.options.MinifyWhitespace {
			p.print(" ")
		}
		p.printDeclarationBlock(r.Declarations, indent)

	case *css_ast.RRuleset:
		p.printTokens(css_ast.TrimWhitespace(r.Selector))
		if !p.options.MinifyWhitespace {
			p.print(" ")
		}
		p.printDeclarationBlock(r.Declarations, indent)

	default:
		panic("Internal error")
	}

	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
}

func isAllMedia(media []string) bool {
	return len(media) == 1 && media[0] == "all"
}

func (p *printer) printMediaList(media []string) {
	for i, name := range media {
		if i > 0 {
			if p.options.MinifyWhitespace {
				p.print(",")
			} else {
				p.print(", ")
			}
		}
		p.printIdent(name, identNormal, canDiscardWhitespaceAfter)
	}
}

func (p *printer) printRuleBlock(rules []css_ast.Rule, indent int32) {
	if p.options.MinifyWhitespace {
		p.print("{")
	} else {
		p.print("{\n")
	}

	for _, rule := range rules {
		p.printRule(rule, indent+1)
	}

	if !p.options.MinifyWhitespace {
		p.printIndent(indent)
	}
	p.print("}")
}

func (p *printer) printDeclarationBlock(decls []css_ast.Declaration, indent int32) {
	if p.options.MinifyWhitespace {
		p.print("{")
	} else {
		p.print("{\n")
	}

	for i, decl := range decls {
		if !p.options.MinifyWhitespace {
			p.printIndent(indent + 1)
		}
		p.printDeclaration(decl)
		if !p.options.MinifyWhitespace {
			p.print(";\n")
		} else if i+1 < len(decls) {
			p.print(";")
		}
	}

	if !p.options.MinifyWhitespace {
		p.printIndent(indent)
	}
	p.print("}")
}

func (p *printer) printDeclaration(decl css_ast.Declaration) {
	p.printIdent(decl.Name, identNormal, canDiscardWhitespaceAfter)
	if p.options.MinifyWhitespace {
		p.print(":")
	} else {
		p.print(": ")
	}
	p.printTokens(decl.Value)
	if decl.Important {
		if !p.options.MinifyWhitespace {
			p.print(" ")
		}
		p.print("!important")
	}
}

func (p *printer) print(text string) {
	p.css = append(p.css, text...)
}

func bestQuoteCharForString(text string, forURL bool) byte {
	forURLCost := 0
	singleCost := 2
	doubleCost := 2

	for _, c := range text {
		switch c {
		case '\'':
			forURLCost++
			singleCost++

		case '"':
			forURLCost++
			doubleCost++

		case '(', ')', ' ', '\t':
			forURLCost++

		case '\\', '\n', '\r', '\f':
			forURLCost++
			singleCost++
			doubleCost++
		}
	}

	// Quotes can sometimes be omitted for URL tokens
	if forURL && forURLCost < singleCost && forURLCost < doubleCost {
		return quoteForURL
	}

	// Prefer double quotes to single quotes if there is no cost difference
	if singleCost < doubleCost {
		return '\''
	}

	return '"'
}

func (p *printer) printQuoted(text string) {
	p.printQuotedWithQuote(text, bestQuoteCharForString(text, false))
}

type escapeKind uint8

const (
	escapeNone escapeKind = iota
	escapeBackslash
	escapeHex
)

func (p *printer) printWithEscape(c rune, escape escapeKind, remainingText string, mayNeedWhitespaceAfter bool) {
	var temp [utf8.UTFMax]byte

	if escape == escapeBackslash && isHexDigit(c) {
		// Hexadecimal characters cannot use a plain backslash escape
		escape = escapeHex
	}

	switch escape {
	case escapeNone:
		width := utf8.EncodeRune(temp[:], c)
		p.css = append(p.css, temp[:width]...)

	case escapeBackslash:
		p.css = append(p.css, '\\')
		width := utf8.EncodeRune(temp[:], c)
		p.css = append(p.css, temp[:width]...)

	case escapeHex:
		text := fmt.Sprintf("\\%x", c)
		p.css = append(p.css, text...)

		// Make sure the next character is not interpreted as part of the escape sequence
		if len(text) < 1+6 {
			if next := utf8.RuneLen(c); next < len(remainingText) {
				c = rune(remainingText[next])
				if c == ' ' || c == '\t' || isHexDigit(c) {
					p.css = append(p.css, ' ')
				}
			} else if mayNeedWhitespaceAfter {
				// If the last character is a hexadecimal escape, print a space afterwards
				// for the escape sequence to consume. That way we're sure it won't
				// accidentally consume a semantically significant character afterward.
				p.css = append(p.css, ' ')
			}
		}
	}
}

func (p *printer) printQuotedWithQuote(text string, quote byte) {
	if quote != quoteForURL {
		p.css = append(p.css, quote)
	}

	n := len(text)
	i := 0
	runStart := 0

	for i < n {
		c, width := utf8.DecodeRuneInString(text[i:])
		escape := escapeNone

		switch c {
		case '\x00', '\r', '\n', '\f':
			// Use a hexadecimal escape for characters that would be invalid escapes
			escape = escapeHex

		case '\\', rune(quote):
			escape = escapeBackslash

		case '(', ')', ' ', '\t', '"', '\'':
			// These characters must be escaped in URL tokens
			if quote == quoteForURL {
				escape = escapeBackslash
			}

		default:
			if (p.options.ASCIIOnly && c >= 0x80) || c == '\uFEFF' {
				escape = escapeHex
			}
		}

		if escape != escapeNone {
			if runStart < i {
				p.css = append(p.css, text[runStart:i]...)
			}
			p.printWithEscape(c, escape, text[i:], false)
			runStart = i + width
		}
		i += width
	}

	if runStart < n {
		p.css = append(p.css, text[runStart:]...)
	}

	if quote != quoteForURL {
		p.css = append(p.css, quote)
	}
}

type identMode uint8

const (
	identNormal identMode = iota
	identHash
	identDimensionUnit
	identDimensionUnitAfterExponent
)

type trailingWhitespace uint8

const (
	mayNeedWhitespaceAfter trailingWhitespace = iota
	canDiscardWhitespaceAfter
)

func (p *printer) printIdent(text string, mode identMode, whitespace trailingWhitespace) {
	n := len(text)

	// Special escape behavior for the first character
	initialEscape := escapeNone
	switch mode {
	case identNormal:
		if !css_lexer.WouldStartIdentifierWithoutEscapes(text) {
			initialEscape = escapeBackslash
		}
	case identDimensionUnit, identDimensionUnitAfterExponent:
		if !css_lexer.WouldStartIdentifierWithoutEscapes(text) {
			initialEscape = escapeBackslash
		} else if n > 0 {
			if c := text[0]; c >= '0' && c <= '9' {
				// Unit: "2x"
				initialEscape = escapeHex
			} else if (c == 'e' || c == 'E') && mode != identDimensionUnitAfterExponent {
				if n >= 2 && text[1] >= '0' && text[1] <= '9' {
					// Unit: "e2x"
					initialEscape = escapeHex
				} else if n >= 3 && text[1] == '-' && text[2] >= '0' && text[2] <= '9' {
					// Unit: "e-2x"
					initialEscape = escapeHex
				}
			}
		}
	}

	// Fast path: the identifier does not need to be escaped
	if initialEscape == escapeNone {
		for i := 0; i < n; i++ {
			if c := text[i]; c >= 0x80 || !css_lexer.IsNameContinue(rune(c)) {
				goto slowPath
			}
		}
		p.css = append(p.css, text...)
		return
	slowPath:
	}

	// Slow path: the identifier needs to be escaped
	for i, c := range text {
		escape := escapeNone

		if p.options.ASCIIOnly && c >= 0x80 {
			escape = escapeHex
		} else if c == '\r' || c == '\n' || c == '\f' || c == '\uFEFF' {
			// Use a hexadecimal escape for characters that would be invalid escapes
			escape = escapeHex
		} else {
			// Escape non-identifier characters
			if !css_lexer.IsNameContinue(c) {
				escape = escapeBackslash
			}

			// Special escape behavior for the first character
			if i == 0 && initialEscape != escapeNone {
				escape = initialEscape
			}
		}

		// If the last character is a hexadecimal escape, print a space afterwards
		// for the escape sequence to consume. That way we're sure it won't
		// accidentally consume a semantically significant space afterward.
		mayNeedWhitespaceAfter := whitespace == mayNeedWhitespaceAfter && escape != escapeNone && i+utf8.RuneLen(c) == n
		p.printWithEscape(c, escape, text[i:], mayNeedWhitespaceAfter)
	}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *printer) printIndent(indent int32) {
	for i := int32(0); i < indent; i++ {
		p.css = append(p.css, "  "...)
	}
}

// Comments are not kept, so two tokens that were only separated by a comment
// end up next to each other. Some of those pairs would lex as a single token
// if they were printed without anything in between.
func needsCommentBetween(prev css_ast.Token, next css_ast.Token) bool {
	if next.Kind == css_lexer.TWhitespace {
		return false
	}

	// "-->" would become CDC
	if next.IsDelim(">") && endsWithHyphen(prev) {
		return true
	}

	switch prev.Kind {
	case css_lexer.TIdent, css_lexer.TNumber, css_lexer.TInteger, css_lexer.TDimension,
		css_lexer.THash, css_lexer.TAtKeyword, css_lexer.TUnicodeRange:
		switch next.Kind {
		case css_lexer.TIdent, css_lexer.TFunction, css_lexer.TNumber, css_lexer.TInteger,
			css_lexer.TDimension, css_lexer.TPercentage, css_lexer.TUnicodeRange, css_lexer.TURI:
			return true

		case css_lexer.TOpenParen:
			// "a (" would become a function
			return prev.Kind == css_lexer.TIdent

		case css_lexer.TDelim:
			return next.Text == "-" || (next.Text == "%" && prev.Kind.IsNumeric())
		}

	case css_lexer.TDelim:
		switch prev.Text {
		case "\\":
			return true

		case "@", "#":
			return next.Kind == css_lexer.TIdent || next.Kind == css_lexer.TFunction ||
				next.Kind.IsNumeric() || next.IsDelim("-")

		case "-", "+", ".":
			return next.Kind.IsNumeric() ||
				(prev.Text == "-" && (next.Kind == css_lexer.TIdent || next.Kind == css_lexer.TFunction || next.IsDelim("-")))

		case "/":
			// "/*" would start a comment
			return next.IsDelim("*")
		}
	}
	return false
}

func endsWithHyphen(t css_ast.Token) bool {
	switch t.Kind {
	case css_lexer.TDelim, css_lexer.TIdent, css_lexer.TDimension, css_lexer.THash, css_lexer.TAtKeyword:
		return strings.HasSuffix(t.Text, "-")
	}
	return false
}

// "<!--" would become CDO. This needs the token after the "!" too.
func wouldStartCDO(tokens []css_ast.Token, i int) bool {
	if i == 0 || i+1 >= len(tokens) || !tokens[i-1].IsDelim("<") || !tokens[i].IsDelim("!") {
		return false
	}
	next := tokens[i+1]
	return (next.Kind == css_lexer.TIdent || next.Kind == css_lexer.TFunction) && strings.HasPrefix(next.Text, "--")
}

func (p *printer) printTokens(tokens []css_ast.Token) {
	for i, t := range tokens {
		if i > 0 && (needsCommentBetween(tokens[i-1], t) || wouldStartCDO(tokens, i)) {
			p.print("/**/")
		}

		// Anything else that follows is either whitespace, a character that an
		// escape can't consume, or separated by a comment
		whitespace := canDiscardWhitespaceAfter
		if i+1 < len(tokens) && tokens[i+1].Kind == css_lexer.TWhitespace {
			whitespace = mayNeedWhitespaceAfter
		}

		switch t.Kind {
		case css_lexer.TWhitespace:
			// A backslash followed by a space would turn into an escape
			if i > 0 && tokens[i-1].IsDelim("\\") {
				p.print("\n")
			} else {
				p.print(" ")
			}

		case css_lexer.TIdent:
			p.printIdent(t.Text, identNormal, whitespace)

		case css_lexer.TFunction:
			p.printIdent(t.Text, identNormal, canDiscardWhitespaceAfter)
			p.print("(")

		case css_lexer.TDimension:
			value := t.DimensionValue()
			p.print(value)
			mode := identDimensionUnit
			if strings.ContainsAny(value, "eE") {
				mode = identDimensionUnitAfterExponent
			}
			p.printIdent(t.DimensionUnit(), mode, whitespace)

		case css_lexer.TAtKeyword:
			p.print("@")
			p.printIdent(t.Text, identNormal, whitespace)

		case css_lexer.THash:
			p.print("#")
			p.printIdent(t.Text, identHash, whitespace)

		case css_lexer.TString:
			p.printQuoted(t.Text)

		case css_lexer.TBadString:
			// We must end this with a newline so that this string stays unterminated
			quote := bestQuoteCharForString(t.Text, false)
			p.printQuotedWithQuote(t.Text, quote)
			p.css = p.css[:len(p.css)-1]
			p.print("\n")

		case css_lexer.TURI:
			p.print("url(")
			p.printQuotedWithQuote(t.Text, bestQuoteCharForString(t.Text, true))
			p.print(")")

		default:
			p.print(t.Text)
		}

		if t.Children != nil {
			p.printTokens(*t.Children)

			switch t.Kind {
			case css_lexer.TFunction, css_lexer.TOpenParen:
				p.print(")")

			case css_lexer.TOpenBrace:
				p.print("}")

			case css_lexer.TOpenBracket:
				p.print("]")
			}
		}
	}
}

package css_ast

import (
	"fmt"

	"github.com/evanw/css21/internal/css_lexer"
	"github.com/evanw/css21/internal/helpers"
	"github.com/evanw/css21/internal/logger"
)

// CSS 2.1 syntax comes in two layers: a core syntax that accepts anything
// that looks vaguely like CSS, and the rules that CSS 2.1 actually gives a
// meaning to (rulesets, @import, @page, and @media). The tree here keeps the
// component values of the core syntax as tokens so that values and selectors
// can be written back out again. Only the at-rules of CSS 2.1 have their
// preludes parsed into dedicated fields.
//
// Nothing in this tree points back at its parent and nothing is shared
// between two places in the tree.

type Stylesheet struct {
	Rules  []Rule
	Errors []ParseError

	// The name given by a leading "@charset" rule, if there was one
	Charset string
}

// We create a lot of tokens, so make sure this layout is memory-efficient.
type Token struct {
	// Contains the child tokens for "(", "{", "[", and function tokens. The
	// closing token is implicit and is not stored.
	Children *[]Token // 8 bytes

	// This is the decoded contents of the token. Escapes are resolved. The
	// "@" of at-keywords, the "#" of hashes, the "(" of functions, and the
	// quotes of strings are not included. Whitespace is always a single space.
	Text string // 16 bytes

	// For blocks and functions this only covers the opening token
	Range  logger.Range // 8 bytes
	Line   int32        // 4 bytes, 1-based
	Column int32        // 4 bytes, 1-based, in code points

	// The division between the number and the unit for "TDimension" tokens.
	UnitOffset uint32 // 4 bytes

	Kind css_lexer.T // 1 byte
}

func (a Token) Equal(b Token) bool {
	if a.Kind == b.Kind && a.Text == b.Text && a.UnitOffset == b.UnitOffset {
		if a.Children == nil && b.Children == nil {
			return true
		}

		if a.Children != nil && b.Children != nil && TokensEqual(*a.Children, *b.Children) {
			return true
		}
	}

	return false
}

func TokensEqual(a []Token, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i, ai := range a {
		if !ai.Equal(b[i]) {
			return false
		}
	}
	return true
}

func (t Token) IsBlock() bool {
	return t.Children != nil
}

// Returns the numeric value of a number, integer, dimension, or percentage.
func (t Token) NumericValue() (float64, bool) {
	switch t.Kind {
	case css_lexer.TInteger, css_lexer.TNumber:
		return css_lexer.ParseNumber(t.Text)
	case css_lexer.TDimension:
		return css_lexer.ParseNumber(t.DimensionValue())
	case css_lexer.TPercentage:
		return css_lexer.ParseNumber(t.PercentageValue())
	}
	return 0, false
}

func (t Token) PercentageValue() string {
	return t.Text[:len(t.Text)-1]
}

func (t Token) DimensionValue() string {
	return t.Text[:t.UnitOffset]
}

func (t Token) DimensionUnit() string {
	return t.Text[t.UnitOffset:]
}

// The unit of a dimension or "%" for a percentage
func (t Token) Unit() string {
	switch t.Kind {
	case css_lexer.TDimension:
		return t.DimensionUnit()
	case css_lexer.TPercentage:
		return "%"
	}
	return ""
}

func (t Token) IsDelim(text string) bool {
	return t.Kind == css_lexer.TDelim && t.Text == text
}

func TrimWhitespace(tokens []Token) []Token {
	for len(tokens) > 0 && tokens[0].Kind == css_lexer.TWhitespace {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].Kind == css_lexer.TWhitespace {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

type ParseError struct {
	Message string
	Range   logger.Range
	Line    int32 // 1-based
	Column  int32 // 1-based, in code points
}

func (e ParseError) String() string {
	return fmt.Sprintf("Parse error at %d:%d, %s", e.Line, e.Column, e.Message)
}

type Declaration struct {
	// Always lowercase
	Name string

	// Leading and trailing whitespace is trimmed. The "!important" marker is
	// not part of the value.
	Value     []Token
	Important bool

	Loc    logger.Loc
	Line   int32
	Column int32
}

func (d Declaration) Priority() string {
	if d.Important {
		return "important"
	}
	return ""
}

func DeclarationsEqual(a []Declaration, b []Declaration) bool {
	if len(a) != len(b) {
		return false
	}
	for i, ai := range a {
		bi := b[i]
		if ai.Name != bi.Name || ai.Important != bi.Important || !TokensEqual(ai.Value, bi.Value) {
			return false
		}
	}
	return true
}

type Rule struct {
	Data   R
	Loc    logger.Loc
	Line   int32
	Column int32
}

type R interface {
	// Returns the lowercase at-keyword including the "@", or "" for rulesets
	AtKeyword() string

	Equal(rule R) bool
}

func RulesEqual(a []Rule, b []Rule) bool {
	if len(a) != len(b) {
		return false
	}
	for i, ai := range a {
		if !ai.Data.Equal(b[i].Data) {
			return false
		}
	}
	return true
}

type RRuleset struct {
	// Trailing whitespace before the "{" is kept
	Selector     []Token
	Declarations []Declaration
}

func (*RRuleset) AtKeyword() string { return "" }

func (a *RRuleset) Equal(rule R) bool {
	b, ok := rule.(*RRuleset)
	return ok && TokensEqual(a.Selector, b.Selector) && DeclarationsEqual(a.Declarations, b.Declarations)
}

type RAtImport struct {
	URI   string
	Media []string
}

func (*RAtImport) AtKeyword() string { return "@import" }

func (a *RAtImport) Equal(rule R) bool {
	b, ok := rule.(*RAtImport)
	return ok && a.URI == b.URI && helpers.StringArraysEqual(a.Media, b.Media)
}

// The specificity of an @page selector is (number of ":first", number of
// ":left" or ":right").
type PageSpecificity [2]int

type RAtPage struct {
	// One of "", "first", "left", or "right"
	Selector     string
	Specificity  PageSpecificity
	Declarations []Declaration
}

func (*RAtPage) AtKeyword() string { return "@page" }

func (a *RAtPage) Equal(rule R) bool {
	b, ok := rule.(*RAtPage)
	return ok && a.Selector == b.Selector && DeclarationsEqual(a.Declarations, b.Declarations)
}

type RAtMedia struct {
	Media []string
	Rules []Rule
}

func (*RAtMedia) AtKeyword() string { return "@media" }

func (a *RAtMedia) Equal(rule R) bool {
	b, ok := rule.(*RAtMedia)
	return ok && helpers.StringArraysEqual(a.Media, b.Media) && RulesEqual(a.Rules, b.Rules)
}

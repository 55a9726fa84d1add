package css_parser

import (
	"fmt"
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

type atRuleKind uint8

const (
	atRuleCharset atRuleKind = 1 << iota
	atRuleImport
	atRuleMedia
	atRulePage
)

// These are the at-rules that CSS 2.1 gives a meaning to. Everything else is
// reported as unknown.
var knownAtRules = map[string]atRuleKind{
	"@charset": atRuleCharset,
	"@import":  atRuleImport,
	"@media":   atRuleMedia,
	"@page":    atRulePage,
}

// Each place that rules can appear has its own set of permitted at-rules.
// The name is only used in error messages.
type ruleContext struct {
	name       string
	allowed    atRuleKind
	isTopLevel bool
}

var stylesheetContext = ruleContext{
	name:       "stylesheet",
	allowed:    atRuleImport | atRuleMedia | atRulePage,
	isTopLevel: true,
}

var mediaContext = ruleContext{
	name: "@media",
}

var pageContext = ruleContext{
	name: "@page",
}

type atRule struct {
	// Always lowercase, including the "@"
	keyword string

	token css_ast.Token

	// Leading and trailing whitespace is trimmed
	head []css_ast.Token

	// This is nil if the rule ended with a ";" or with the end of the input
	block *css_ast.Token
}

// Consumes an at-rule up to and including the first ";" or "{}" block. The
// head is validated here so that malformed heads are reported the same way
// no matter which at-rule they belong to.
func (p *parser) readAtRule(tokens []css_ast.Token) (atRule, []css_ast.Token, bool) {
	t := tokens[0]
	head, block, rest := consumeUntil(tokens[1:], stopAtSemicolon|stopAtBlock)
	head = css_ast.TrimWhitespace(head)

	for _, h := range head {
		if !p.validateAny(h, "at-rule head") {
			return atRule{}, rest, false
		}
	}

	return atRule{
		keyword: "@" + strings.ToLower(t.Text),
		token:   t,
		head:    head,
		block:   block,
	}, rest, true
}

func (p *parser) parseAtRule(rule atRule, context ruleContext) (css_ast.Rule, bool) {
	kind, ok := knownAtRules[rule.keyword]
	if !ok {
		p.errorAt(rule.token, fmt.Sprintf("unknown at-rule in %s context: %s", context.name, rule.keyword))
		return css_ast.Rule{}, false
	}

	// A valid "@charset" rule has already been consumed by the time we get here
	if kind == atRuleCharset {
		p.errorAt(rule.token, "mis-placed or malformed @charset rule")
		return css_ast.Rule{}, false
	}

	if (context.allowed & kind) == 0 {
		p.errorAt(rule.token, fmt.Sprintf("%s rule not allowed in %s", rule.keyword, context.name))
		return css_ast.Rule{}, false
	}

	var data css_ast.R
	switch kind {
	case atRuleImport:
		data, ok = p.parseImportRule(rule)
	case atRuleMedia:
		data, ok = p.parseMediaRule(rule)
	case atRulePage:
		data, ok = p.parsePageRule(rule)
	}
	if !ok {
		return css_ast.Rule{}, false
	}

	return css_ast.Rule{
		Data:   data,
		Loc:    rule.token.Range.Loc,
		Line:   rule.token.Line,
		Column: rule.token.Column,
	}, true
}

// Reference: https://www.w3.org/TR/CSS21/cascade.html#at-import
func (p *parser) parseImportRule(rule atRule) (css_ast.R, bool) {
	if p.importBlockedBy != "" {
		p.errorAt(rule.token, "@import rule not allowed after "+p.importBlockedBy)
		return nil, false
	}

	if len(rule.head) == 0 {
		p.errorAt(rule.token, "expected URI or STRING for @import rule")
		return nil, false
	}
	uri := rule.head[0]
	if uri.Kind != css_lexer.TURI && uri.Kind != css_lexer.TString {
		p.errorAt(rule.token, fmt.Sprintf("expected URI or STRING for @import rule, got %s", uri.Kind))
		return nil, false
	}

	media, ok := p.parseMediaList(css_ast.TrimWhitespace(rule.head[1:]))
	if !ok {
		return nil, false
	}

	if rule.block != nil {
		p.errorAt(rule.head[len(rule.head)-1], "expected ';', got a block")
		return nil, false
	}

	return &css_ast.RAtImport{URI: uri.Text, Media: media}, true
}

// Reference: https://www.w3.org/TR/CSS21/media.html#at-media-rule
func (p *parser) parseMediaRule(rule atRule) (css_ast.R, bool) {
	if len(rule.head) == 0 {
		p.errorAt(rule.token, "expected media types for @media")
		return nil, false
	}

	media, ok := p.parseMediaList(rule.head)
	if !ok {
		return nil, false
	}

	if rule.block == nil {
		p.errorAt(rule.token, "invalid @media rule: missing block")
		return nil, false
	}

	rules := p.parseListOfRules(*rule.block.Children, mediaContext)
	p.maybeWarnAboutMediaGroups(media, rules)
	return &css_ast.RAtMedia{Media: media, Rules: rules}, true
}

// Reference: https://www.w3.org/TR/CSS21/page.html#page-box
func (p *parser) parsePageRule(rule atRule) (css_ast.R, bool) {
	selector, specificity, ok := p.parsePageSelector(rule.head)
	if !ok {
		return nil, false
	}

	if rule.block == nil {
		p.errorAt(rule.token, "invalid @page rule: missing block")
		return nil, false
	}

	return &css_ast.RAtPage{
		Selector:     selector,
		Specificity:  specificity,
		Declarations: p.parseListOfDeclarationsAndAtRules(*rule.block.Children, pageContext),
	}, true
}

func (p *parser) parsePageSelector(head []css_ast.Token) (string, css_ast.PageSpecificity, bool) {
	if len(head) == 0 {
		return "", css_ast.PageSpecificity{}, true
	}

	if len(head) == 2 && head[0].Kind == css_lexer.TColon && head[1].Kind == css_lexer.TIdent {
		switch pseudo := strings.ToLower(head[1].Text); pseudo {
		case "first":
			return pseudo, css_ast.PageSpecificity{1, 0}, true
		case "left", "right":
			return pseudo, css_ast.PageSpecificity{0, 1}, true
		}
	}

	p.errorAt(head[0], "invalid @page selector")
	return "", css_ast.PageSpecificity{}, false
}

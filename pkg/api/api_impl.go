package api

import (
	"unicode/utf8"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_parser"
	"github.com/evanw/css21/internal/css_printer"
	"github.com/evanw/css21/internal/logger"
)

func validateSource(text string, options ParseOptions) logger.Source {
	name := options.Sourcefile
	if name == "" {
		name = "<stdin>"
	}
	return logger.Source{PrettyPath: name, Contents: text}
}

func validateParseOptions(options ParseOptions) css_parser.Options {
	return css_parser.Options{MaxNestingDepth: options.MaxNestingDepth}
}

func messageString(msg Message) string {
	return css_ast.ParseError{Message: msg.Text, Line: int32(msg.Line), Column: int32(msg.Column)}.String()
}

func convertErrorsToPublic(errors []css_ast.ParseError) []Message {
	messages := make([]Message, 0, len(errors))
	for _, err := range errors {
		messages = append(messages, Message{
			Text:   err.Message,
			Line:   int(err.Line),
			Column: int(err.Column),
		})
	}
	return messages
}

// Log locations count columns in bytes, but messages count them in code points
func convertWarningsToPublic(msgs []logger.Msg) []Message {
	messages := []Message{}
	for _, msg := range msgs {
		if msg.Kind != logger.Warning {
			continue
		}
		message := Message{Text: msg.Text}
		if loc := msg.Location; loc != nil {
			message.Line = loc.Line
			message.Column = utf8.RuneCountInString(loc.LineText[:loc.Column]) + 1
		}
		messages = append(messages, message)
	}
	return messages
}

func convertTokensToPublic(tokens []css_ast.Token) []Token {
	result := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		token := Token{
			Kind:   t.Kind.String(),
			Value:  t.Text,
			Unit:   t.Unit(),
			Line:   int(t.Line),
			Column: int(t.Column),
		}
		if value, ok := t.NumericValue(); ok {
			token.Number = &value
		}
		if t.Children != nil {
			token.Children = convertTokensToPublic(*t.Children)
		}
		result = append(result, token)
	}
	return result
}

func convertDeclarationsToPublic(decls []css_ast.Declaration) []Declaration {
	result := make([]Declaration, 0, len(decls))
	for _, decl := range decls {
		result = append(result, Declaration{
			Name:      decl.Name,
			Value:     convertTokensToPublic(decl.Value),
			ValueText: css_printer.PrintTokens(decl.Value, css_printer.Options{}),
			Priority:  decl.Priority(),
			Line:      int(decl.Line),
			Column:    int(decl.Column),
		})
	}
	return result
}

func convertRulesToPublic(rules []css_ast.Rule) []Rule {
	result := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		out := Rule{
			Line:   int(rule.Line),
			Column: int(rule.Column),
		}

		switch r := rule.Data.(type) {
		case *css_ast.RRuleset:
			out.Type = RuleRuleset
			out.Selector = convertTokensToPublic(r.Selector)
			out.SelectorText = css_printer.PrintTokens(r.Selector, css_printer.Options{})
			out.Declarations = convertDeclarationsToPublic(r.Declarations)

		case *css_ast.RAtImport:
			out.Type = RuleImport
			out.URI = r.URI
			out.Media = r.Media

		case *css_ast.RAtMedia:
			out.Type = RuleMedia
			out.Media = r.Media
			out.Rules = convertRulesToPublic(r.Rules)

		case *css_ast.RAtPage:
			specificity := [2]int(r.Specificity)
			out.Type = RulePage
			out.PageSelector = r.Selector
			out.Specificity = &specificity
			out.Declarations = convertDeclarationsToPublic(r.Declarations)

		default:
			panic("Internal error")
		}

		result = append(result, out)
	}
	return result
}

func parseStylesheetImpl(text string, options ParseOptions) Stylesheet {
	log := logger.NewDeferLog()
	tree := css_parser.Parse(log, validateSource(text, options), validateParseOptions(options))
	return Stylesheet{
		Charset:  tree.Charset,
		Rules:    convertRulesToPublic(tree.Rules),
		Errors:   convertErrorsToPublic(tree.Errors),
		Warnings: convertWarningsToPublic(log.Done()),
	}
}

func parseStyleAttrImpl(text string, options ParseOptions) ([]Declaration, []Message) {
	log := logger.NewDeferLog()
	decls, errors := css_parser.ParseStyleAttr(log, validateSource(text, options), validateParseOptions(options))
	return convertDeclarationsToPublic(decls), convertErrorsToPublic(errors)
}

func tokenizeImpl(text string, options ParseOptions) ([]Token, []Message) {
	log := logger.NewDeferLog()
	tokens, errors := css_parser.ParseTokens(log, validateSource(text, options), validateParseOptions(options))
	return convertTokensToPublic(tokens), convertErrorsToPublic(errors)
}

func formatImpl(text string, options FormatOptions) FormatResult {
	log := logger.NewDeferLog()
	tree := css_parser.Parse(log, validateSource(text, options.ParseOptions), validateParseOptions(options.ParseOptions))
	code := css_printer.Print(tree, css_printer.Options{
		MinifyWhitespace: options.MinifyWhitespace,
		ASCIIOnly:        options.ASCIIOnly,
	})
	return FormatResult{
		Code:     string(code),
		Errors:   convertErrorsToPublic(tree.Errors),
		Warnings: convertWarningsToPublic(log.Done()),
	}
}

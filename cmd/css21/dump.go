package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evanw/css21/pkg/api"
)

// Plain text renderings of the results of "parse", "tokens", and "style".
// Every line starts with "line:column" of the thing it describes.

func dumpStylesheet(w io.Writer, sheet api.Stylesheet) {
	if sheet.Charset != "" {
		fmt.Fprintf(w, "@charset %q\n", sheet.Charset)
	}
	dumpRules(w, sheet.Rules, "")
	dumpMessages(w, sheet.Errors, sheet.Warnings)
}

func dumpRules(w io.Writer, rules []api.Rule, indent string) {
	for _, r := range rules {
		fmt.Fprintf(w, "%s%d:%d ", indent, r.Line, r.Column)
		switch r.Type {
		case api.RuleRuleset:
			fmt.Fprintf(w, "ruleset %q\n", r.SelectorText)
			dumpDeclarations(w, r.Declarations, indent+"  ")

		case api.RuleImport:
			fmt.Fprintf(w, "@import %q %s\n", r.URI, strings.Join(r.Media, ", "))

		case api.RuleMedia:
			fmt.Fprintf(w, "@media %s\n", strings.Join(r.Media, ", "))
			dumpRules(w, r.Rules, indent+"  ")

		case api.RulePage:
			fmt.Fprintf(w, "@page %q (%d, %d)\n", r.PageSelector, r.Specificity[0], r.Specificity[1])
			dumpDeclarations(w, r.Declarations, indent+"  ")
		}
	}
}

func dumpDeclarations(w io.Writer, decls []api.Declaration, indent string) {
	for _, d := range decls {
		important := ""
		if d.Priority != "" {
			important = " !" + d.Priority
		}
		fmt.Fprintf(w, "%s%d:%d %s: %s%s\n", indent, d.Line, d.Column, d.Name, d.ValueText, important)
	}
}

func dumpTokens(w io.Writer, tokens []api.Token, indent string) {
	for _, t := range tokens {
		fmt.Fprintf(w, "%s%d:%d %s %q", indent, t.Line, t.Column, t.Kind, t.Value)
		if t.Number != nil {
			fmt.Fprintf(w, " number=%s", strconv.FormatFloat(*t.Number, 'g', -1, 64))
		}
		if t.Unit != "" {
			fmt.Fprintf(w, " unit=%q", t.Unit)
		}
		fmt.Fprintln(w)
		dumpTokens(w, t.Children, indent+"  ")
	}
}

func dumpMessages(w io.Writer, errors []api.Message, warnings []api.Message) {
	for _, msg := range errors {
		fmt.Fprintln(w, msg.String())
	}
	for _, msg := range warnings {
		fmt.Fprintf(w, "Warning at %d:%d, %s\n", msg.Line, msg.Column, msg.Text)
	}
}

package css_parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_printer"
	"github.com/evanw/css21/internal/logger"
	"github.com/evanw/css21/internal/test"
)

func describeTokens(tokens []css_ast.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		text := fmt.Sprintf("%s %q", t.Kind, t.Text)
		if t.Children != nil {
			text += " [" + describeTokens(*t.Children) + "]"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}

func describeDeclarations(decls []css_ast.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		text := d.Name + ": " + describeTokens(d.Value)
		if d.Important {
			text += " !important"
		}
		parts = append(parts, text)
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func describeRules(rules []css_ast.Rule, separator string) string {
	parts := make([]string, 0, len(rules))
	for _, rule := range rules {
		switch r := rule.Data.(type) {
		case *css_ast.RRuleset:
			selector := css_printer.PrintTokens(r.Selector, css_printer.Options{})
			parts = append(parts, fmt.Sprintf("ruleset %q %s", selector, describeDeclarations(r.Declarations)))
		case *css_ast.RAtImport:
			parts = append(parts, fmt.Sprintf("@import %q %v", r.URI, r.Media))
		case *css_ast.RAtPage:
			parts = append(parts, fmt.Sprintf("@page %q %v %s", r.Selector, r.Specificity, describeDeclarations(r.Declarations)))
		case *css_ast.RAtMedia:
			parts = append(parts, fmt.Sprintf("@media %v {%s}", r.Media, describeRules(r.Rules, "; ")))
		}
	}
	return strings.Join(parts, separator)
}

func describeErrors(errors []css_ast.ParseError) string {
	text := ""
	for _, err := range errors {
		text += err.Message + "\n"
	}
	return text
}

func expectParse(t *testing.T, contents string, expectedRules string, expectedErrors ...string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree := Parse(log, test.SourceForTest(contents), Options{})
		expected := ""
		for _, msg := range expectedErrors {
			expected += msg + "\n"
		}
		test.AssertEqualWithDiff(t, describeErrors(tree.Errors), expected)
		test.AssertEqualWithDiff(t, describeRules(tree.Rules, "\n"), expectedRules)
	})
}

func expectStyleAttr(t *testing.T, contents string, expectedDecls string, expectedErrors ...string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		decls, errors := ParseStyleAttr(log, test.SourceForTest(contents), Options{})
		expected := ""
		for _, msg := range expectedErrors {
			expected += msg + "\n"
		}
		test.AssertEqualWithDiff(t, describeErrors(errors), expected)
		test.AssertEqualWithDiff(t, describeDeclarations(decls), expectedDecls)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree := Parse(log, test.SourceForTest(contents), Options{})
		test.AssertEqualWithDiff(t, describeErrors(tree.Errors), "")
		test.AssertEqualWithDiff(t, string(css_printer.Print(tree, css_printer.Options{})), expected)
	})
}

func TestAtImport(t *testing.T) {
	expectParse(t, " /* hey */\n", "")
	expectParse(t, "@import \"foo.css\";", "@import \"foo.css\" [all]")
	expectParse(t, "@import url(foo.css);", "@import \"foo.css\" [all]")
	expectParse(t, "@import \"foo.css\" screen, print;", "@import \"foo.css\" [screen print]")
	expectParse(t, "@import \"foo.css\" SCREEN ,print;", "@import \"foo.css\" [screen print]")
	expectParse(t, "@charset \"ascii\"; @import \"foo.css\"; @import \"bar.css\";",
		"@import \"foo.css\" [all]\n@import \"bar.css\" [all]")
	expectParse(t, "@import \"foo.css\"", "@import \"foo.css\" [all]")

	expectParse(t, "foo {} @import \"foo.css\";", "ruleset \"foo \" {}",
		"@import rule not allowed after a ruleset")
	expectParse(t, "@page {} @import \"foo.css\";", "@page \"\" [0 0] {}",
		"@import rule not allowed after an @page rule")
	expectParse(t, "@media all {} @import \"foo.css\";", "@media [all] {}",
		"@import rule not allowed after an @media rule")
	expectParse(t, "@import ;", "",
		"expected URI or STRING for @import rule")
	expectParse(t, "@import foo.css;", "",
		"expected URI or STRING for @import rule, got IDENT")
	expectParse(t, "@import \"foo.css\" {}", "",
		"expected ';', got a block")
	expectParse(t, "@import \"foo.css\" 4;", "",
		"expected a media type, got INTEGER")

	// Rules that fail to parse don't close the gate for "@import"
	expectParse(t, "@media 4 {} foo; @import \"foo.css\";", "",
		"expected a media type, got INTEGER",
		"no declaration block found for ruleset")
	expectParse(t, "@media 4 {} @import \"foo.css\";", "@import \"foo.css\" [all]",
		"expected a media type, got INTEGER")
	expectParse(t, "@foo; @import \"foo.css\";", "@import \"foo.css\" [all]",
		"unknown at-rule in stylesheet context: @foo")
}

func TestAtPage(t *testing.T) {
	expectParse(t, " /* hey */\n", "")
	expectParse(t, "@page {}", "@page \"\" [0 0] {}")
	expectParse(t, "@page:first {}", "@page \"first\" [1 0] {}")
	expectParse(t, "@page :left{}", "@page \"left\" [0 1] {}")
	expectParse(t, "@page\t\n:right {}", "@page \"right\" [0 1] {}")
	expectParse(t, "@page :FIRST {}", "@page \"first\" [1 0] {}")

	expectParse(t, "@page :last {}", "", "invalid @page selector")
	expectParse(t, "@page : right {}", "", "invalid @page selector")
	expectParse(t, "@page table:left {}", "", "invalid @page selector")
	expectParse(t, "@page :left:right {}", "", "invalid @page selector")
	expectParse(t, "@page;", "", "invalid @page rule: missing block")
	expectParse(t, "@page", "", "invalid @page rule: missing block")

	expectParse(t, "@page { a:1; ; b: 2 }",
		"@page \"\" [0 0] {a: INTEGER \"1\"; b: INTEGER \"2\"}")
	expectParse(t, "@page { a:1; c: ; b: 2 }",
		"@page \"\" [0 0] {a: INTEGER \"1\"; b: INTEGER \"2\"}",
		"expected a property value")
	expectParse(t, "@page { a:1; @top-left {} b: 2 }",
		"@page \"\" [0 0] {a: INTEGER \"1\"; b: INTEGER \"2\"}",
		"unknown at-rule in @page context: @top-left")
	expectParse(t, "@page { a:1; @top-left {}; b: 2 }",
		"@page \"\" [0 0] {a: INTEGER \"1\"; b: INTEGER \"2\"}",
		"unknown at-rule in @page context: @top-left")
	expectParse(t, "@page { @page {} @media print; @import \"x\"; a: 1 !important }",
		"@page \"\" [0 0] {a: INTEGER \"1\" !important}",
		"@page rule not allowed in @page",
		"@media rule not allowed in @page",
		"@import rule not allowed in @page")

	expectParse(t, "@media print { @page :first { margin: 1in } }", "@media [print] {}",
		"@page rule not allowed in @media")
}

func TestAtMedia(t *testing.T) {
	expectParse(t, " /* hey */\n", "")
	expectParse(t, "@media all {}", "@media [all] {}")
	expectParse(t, "@media screen, print {}", "@media [screen print] {}")
	expectParse(t, "@media screen ,print {}", "@media [screen print] {}")
	expectParse(t, "@MEDIA Screen {}", "@media [screen] {}")

	expectParse(t, "@media all;", "", "invalid @media rule: missing block")
	expectParse(t, "@media  {}", "", "expected media types for @media")
	expectParse(t, "@media 4 {}", "", "expected a media type, got INTEGER")
	expectParse(t, "@media , screen {}", "", "expected a media type, got DELIM")
	expectParse(t, "@media ! {}", "", "expected a media type, got DELIM")
	expectParse(t, "@media screen ! {}", "", "expected a comma, got S")
	expectParse(t, "@media screen!{}", "", "expected a comma, got DELIM")
	expectParse(t, "@media screen, {}", "", "expected a media type")
	expectParse(t, "@media screen print {}", "", "expected a comma, got S")
	expectParse(t, "@media screen;print {}", "ruleset \"print \" {}",
		"invalid @media rule: missing block")

	expectParse(t, "@media all { @page { a: 1 } @media; @import; foo { a: 1 } }",
		"@media [all] {ruleset \"foo \" {a: INTEGER \"1\"}}",
		"@page rule not allowed in @media",
		"@media rule not allowed in @media",
		"@import rule not allowed in @media")
	expectParse(t, "@media all { <!-- a { b: 1 } --> @font-face { src: url(x) } }",
		"@media [all] {ruleset \"a \" {b: INTEGER \"1\"}}",
		"unknown at-rule in @media context: @font-face")
	expectParse(t, "@media all { @charset \"x\"; }", "@media [all] {}",
		"mis-placed or malformed @charset rule")
}

func TestImportant(t *testing.T) {
	expectStyleAttr(t, " /* hey */\n", "{}")
	expectStyleAttr(t, "a:1; b:2", "{a: INTEGER \"1\"; b: INTEGER \"2\"}")
	expectStyleAttr(t, "a:1 important; b: important",
		"{a: INTEGER \"1\", S \" \", IDENT \"important\"; b: IDENT \"important\"}")
	expectStyleAttr(t, "a:1 !important; b:2", "{a: INTEGER \"1\" !important; b: INTEGER \"2\"}")
	expectStyleAttr(t, "a:1!\t important; b:2", "{a: INTEGER \"1\" !important; b: INTEGER \"2\"}")
	expectStyleAttr(t, "a:1 ! IMPORTANT", "{a: INTEGER \"1\" !important}")
	expectStyleAttr(t, "a:1 2 !important", "{a: INTEGER \"1\", S \" \", INTEGER \"2\" !important}")
	expectStyleAttr(t, "a:1 !imp", "{a: INTEGER \"1\", S \" \", DELIM \"!\", IDENT \"imp\"}")

	expectStyleAttr(t, "a: !important; b:2", "{b: INTEGER \"2\"}",
		"expected a value before !important")
	expectStyleAttr(t, "a: ! important", "{}",
		"expected a value before !important")
}

func TestDeclarations(t *testing.T) {
	expectStyleAttr(t, "", "{}")
	expectStyleAttr(t, ";;", "{}")
	expectStyleAttr(t, "a:1;", "{a: INTEGER \"1\"}")
	expectStyleAttr(t, "COLOR : Red", "{color: IDENT \"Red\"}")
	expectStyleAttr(t, "a: 1  2", "{a: INTEGER \"1\", S \" \", INTEGER \"2\"}")
	expectStyleAttr(t, "a: 1 /* x */ 2", "{a: INTEGER \"1\", S \" \", INTEGER \"2\"}")
	expectStyleAttr(t, "a: f(1, 2)",
		"{a: FUNCTION \"f\" [INTEGER \"1\", DELIM \",\", S \" \", INTEGER \"2\"]}")
	expectStyleAttr(t, "a: {b; @c} d",
		"{a: { \"{\" [IDENT \"b\", ; \";\", S \" \", ATKEYWORD \"c\"], S \" \", IDENT \"d\"}")
	expectStyleAttr(t, "a: url( \"x y\" ) #fff 50% 1.5em U+0-7F",
		"{a: URI \"x y\", S \" \", HASH \"fff\", S \" \", PERCENTAGE \"50%\", S \" \", DIMENSION \"1.5em\", S \" \", UNICODE-RANGE \"U+0-7F\"}")

	expectStyleAttr(t, "a 1; b: 2", "{b: INTEGER \"2\"}", "expected ':', got INTEGER")
	expectStyleAttr(t, "a; b: 2", "{b: INTEGER \"2\"}", "expected ':'")
	expectStyleAttr(t, "1: 2; b: 2", "{b: INTEGER \"2\"}", "expected a property name, got INTEGER")
	expectStyleAttr(t, "@foo; a: 1", "{a: INTEGER \"1\"}", "expected a property name, got ATKEYWORD")
	expectStyleAttr(t, "a: ; b: 2", "{b: INTEGER \"2\"}", "expected a property value")
	expectStyleAttr(t, "a: \"foo\n; b: 2", "{b: INTEGER \"2\"}", "unexpected BAD_STRING token in property value")
	expectStyleAttr(t, "a: url(x y); b: 2", "{b: INTEGER \"2\"}", "unexpected BAD_URI token in property value")
	expectStyleAttr(t, "a: f(}); b: 2", "{b: INTEGER \"2\"}", "unmatched } token in FUNCTION")
	expectStyleAttr(t, "a: (;); b: 2", "{b: INTEGER \"2\"}", "unexpected ; token in (")
	expectStyleAttr(t, "a: [@b]; b: 2", "{b: INTEGER \"2\"}", "unexpected ATKEYWORD token in [")
	expectStyleAttr(t, "a: <!--; b: 2", "{b: INTEGER \"2\"}", "unexpected CDO token in property value")
	expectStyleAttr(t, "a: 1 ); b: 2", "{b: INTEGER \"2\"}", "unmatched ) token in property value")
	expectStyleAttr(t, "a: 1; b: @c; d: 3", "{a: INTEGER \"1\"; d: INTEGER \"3\"}", "unexpected ATKEYWORD token in property value")
}

func TestRulesets(t *testing.T) {
	expectParse(t, "foo { a: 1 } bar { b: 2 }",
		"ruleset \"foo \" {a: INTEGER \"1\"}\nruleset \"bar \" {b: INTEGER \"2\"}")
	expectParse(t, "foo{}", "ruleset \"foo\" {}")
	expectParse(t, "a  >  b, c {}", "ruleset \"a > b, c \" {}")
	expectParse(t, "a[b=\"c\"]:hover {}", "ruleset \"a[b=\\\"c\\\"]:hover \" {}")
	expectParse(t, "<!-- a {} -->", "ruleset \"a \" {}")

	expectParse(t, "foo", "", "no declaration block found for ruleset")
	expectParse(t, "{a: 1} b {}", "ruleset \"b \" {}", "empty selector")
	expectParse(t, "a; b {c: 1} d {}", "ruleset \"d \" {}", "unexpected ; token in selector")
	expectParse(t, "a) {b: 1} d {}", "ruleset \"d \" {}", "unmatched ) token in selector")
	expectParse(t, "a \"b\n {} d {}", "ruleset \"d \" {}", "unexpected BAD_STRING token in selector")
	expectParse(t, "a @b {} d {}", "ruleset \"d \" {}", "unexpected ATKEYWORD token in selector")

	// A bad declaration doesn't remove the ruleset it's in
	expectParse(t, "a { b; c: 1 }", "ruleset \"a \" {c: INTEGER \"1\"}", "expected ':'")

	// Declarations in a ruleset are only split on ";"
	expectParse(t, "a { b: 1 } } c { d: 2 }",
		"ruleset \"a \" {b: INTEGER \"1\"}",
		"unmatched } token in selector")
}

func TestAtRuleHead(t *testing.T) {
	expectParse(t, "@foo ); a {}", "ruleset \"a \" {}", "unmatched ) token in at-rule head")
	expectParse(t, "@media all ) {} a {}", "ruleset \"a \" {}", "unmatched ) token in at-rule head")
	expectParse(t, "@import \"x\n; a {}", "ruleset \"a \" {}", "unexpected BAD_STRING token in at-rule head")
	expectParse(t, "@font-face { src: url(x) } a {}", "ruleset \"a \" {}",
		"unknown at-rule in stylesheet context: @font-face")
	expectParse(t, "@Font-Face; a {}", "ruleset \"a \" {}",
		"unknown at-rule in stylesheet context: @font-face")
}

func TestCharset(t *testing.T) {
	charset := func(contents string) string {
		return Parse(logger.NewDeferLog(), test.SourceForTest(contents), Options{}).Charset
	}
	test.AssertEqual(t, charset("@charset \"utf-8\"; a {}"), "utf-8")
	test.AssertEqual(t, charset("\uFEFF@charset \"utf-8\";"), "utf-8")
	test.AssertEqual(t, charset("a {}"), "")

	expectParse(t, "@charset \"utf-8\"; a {}", "ruleset \"a \" {}")
	expectParse(t, " @charset \"utf-8\";", "", "mis-placed or malformed @charset rule")
	expectParse(t, "a {} @charset \"utf-8\";", "ruleset \"a \" {}", "mis-placed or malformed @charset rule")
	expectParse(t, "@CHARSET \"utf-8\";", "", "mis-placed or malformed @charset rule")
	expectParse(t, "@charset 'utf-8';", "", "mis-placed or malformed @charset rule")
	expectParse(t, "@charset  \"utf-8\";", "", "mis-placed or malformed @charset rule")
	expectParse(t, "@charset \"utf-8\" {}", "", "mis-placed or malformed @charset rule")
	expectParse(t, "@charset \"a\"; @charset \"b\";", "", "mis-placed or malformed @charset rule")
}

func TestNestingDepth(t *testing.T) {
	parse := func(contents string, depth int) css_ast.Stylesheet {
		return Parse(logger.NewDeferLog(), test.SourceForTest(contents), Options{MaxNestingDepth: depth})
	}

	tree := parse("a { b: (1) }", 2)
	test.AssertEqual(t, len(tree.Errors), 0)
	test.AssertEqual(t, len(tree.Rules), 1)

	tree = parse("x {} a { b: ((1)) }", 2)
	test.AssertEqual(t, len(tree.Rules), 0)
	test.AssertEqual(t, len(tree.Errors), 1)
	test.AssertEqual(t, tree.Errors[0].String(), "Parse error at 1:14, nesting depth limit of 2 exceeded")

	// Blocks that are never closed still count
	tree = parse("@media x;"+strings.Repeat("[", DefaultMaxNestingDepth+1), 0)
	test.AssertEqual(t, len(tree.Rules), 0)
	test.AssertEqual(t, describeErrors(tree.Errors), "nesting depth limit of 256 exceeded\n")

	tree = parse("a { b: "+strings.Repeat("(", DefaultMaxNestingDepth-1)+strings.Repeat(")", DefaultMaxNestingDepth-1)+" }", 0)
	test.AssertEqual(t, describeErrors(tree.Errors), "")

	decls, errors := ParseStyleAttr(logger.NewDeferLog(), test.SourceForTest("a: f(g(1))"), Options{MaxNestingDepth: 1})
	test.AssertEqual(t, len(decls), 0)
	test.AssertEqual(t, describeErrors(errors), "nesting depth limit of 1 exceeded\n")
}

func TestPositions(t *testing.T) {
	log := logger.NewDeferLog()
	tree := Parse(log, test.SourceForTest("a {}\n  @import \"x\";\n/* é */ @foo;"), Options{})
	test.AssertEqual(t, len(tree.Errors), 2)
	test.AssertEqual(t, tree.Errors[0].String(), "Parse error at 2:3, @import rule not allowed after a ruleset")
	test.AssertEqual(t, tree.Errors[1].String(), "Parse error at 3:9, unknown at-rule in stylesheet context: @foo")

	// Parse errors are also sent to the log in the same order
	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 2)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)
	test.AssertEqual(t, msgs[0].Text, "@import rule not allowed after a ruleset")
	test.AssertEqual(t, msgs[1].Location.Line, 3)

	tree = Parse(logger.NewDeferLog(), test.SourceForTest("a,\r\nb {\r\n  color: red\r\n}"), Options{})
	rule := tree.Rules[0]
	test.AssertEqual(t, rule.Line, int32(1))
	test.AssertEqual(t, rule.Column, int32(1))
	decl := rule.Data.(*css_ast.RRuleset).Declarations[0]
	test.AssertEqual(t, decl.Loc.Start, int32(11))
	test.AssertEqual(t, decl.Line, int32(3))
	test.AssertEqual(t, decl.Column, int32(3))
	test.AssertEqual(t, decl.Value[0].Column, int32(10))
}

func TestTypoWarnings(t *testing.T) {
	log := logger.NewDeferLog()
	tree := Parse(log, test.SourceForTest("a { colr: red; color: red; -moz-colr: red; fnot-size: 1px }"), Options{})
	test.AssertEqual(t, len(tree.Errors), 0)
	text := ""
	for _, msg := range log.Done() {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	test.AssertEqualWithDiff(t, text,
		"<stdin>: warning: \"colr\" is not a known CSS property; did you mean \"color\"?\n"+
			"<stdin>: warning: \"fnot-size\" is not a known CSS property; did you mean \"font-size\"?\n")
}

func TestMediaGroupWarnings(t *testing.T) {
	warnings := func(contents string) string {
		log := logger.NewDeferLog()
		tree := Parse(log, test.SourceForTest(contents), Options{})
		test.AssertEqual(t, len(tree.Errors), 0)
		text := ""
		for _, msg := range log.Done() {
			text += msg.Text + "\n"
		}
		return text
	}

	test.AssertEqualWithDiff(t, warnings("@media screen { a { azimuth: left; color: red } }"),
		"\"azimuth\" has no effect in \"@media screen\"\n")
	test.AssertEqualWithDiff(t, warnings("@media screen, tty { a { orphans: 2 } }"),
		"\"orphans\" has no effect in \"@media screen, tty\"\n")
	test.AssertEqualWithDiff(t, warnings("@media speech { a { color: red } }"),
		"\"color\" has no effect in \"@media speech\"\n")

	test.AssertEqual(t, warnings("@media print { a { orphans: 2; color: red } }"), "")
	test.AssertEqual(t, warnings("@media screen, aural { a { azimuth: left } }"), "")
	test.AssertEqual(t, warnings("@media all { a { azimuth: left } }"), "")
	test.AssertEqual(t, warnings("@media hologram { a { azimuth: left } }"), "")
	test.AssertEqual(t, warnings("a { azimuth: left }"), "")
}

func TestPrint(t *testing.T) {
	expectPrinted(t, "a{b:1;c:2 !important}", "a {\n  b: 1;\n  c: 2 !important;\n}\n")
	expectPrinted(t, "@media screen,print{a{b:c}}", "@media screen, print {\n  a {\n    b: c;\n  }\n}\n")
	expectPrinted(t, "@import url(x.css) all;", "@import \"x.css\";\n")
	expectPrinted(t, "@import 'x.css' print;", "@import \"x.css\" print;\n")
	expectPrinted(t, "@page:first{margin:0}", "@page :first {\n  margin: 0;\n}\n")
	expectPrinted(t, "@charset \"utf-8\";a  >  b{}", "@charset \"utf-8\";\na > b {\n}\n")
}

// Printing a value and parsing it again must give back the same tokens
func TestValueRoundTrip(t *testing.T) {
	values := []string{
		"1px 2.5em +3 -4% .5 1e3 5E-2px",
		"\"str\" 'q\"' \"a\\\"b\" 'it''s'",
		"url(x.png) url( \"a b\" ) url('c)d')",
		"#fff #123abc U+0-7F u+4??",
		"f(1, 2) (a [b]) {c; @d}",
		"a\\:b \\31 a x\\\"y",
		"a/**/b 1/**/x 1/**/% a/**/-",
		"-x -1 - - + +.5 / * =",
		"é \\E9 \\10FFFF",
		"a//**/*b -/**/-> <!/**/--",
		"a-/**/> <!/**/--x 1/**/-/**/-/**/>",
	}

	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			decls, errors := ParseStyleAttr(logger.NewDeferLog(), test.SourceForTest("x: "+value), Options{})
			test.AssertEqual(t, describeErrors(errors), "")
			test.AssertEqual(t, len(decls), 1)

			printed := css_printer.PrintTokens(decls[0].Value, css_printer.Options{})
			again, errors := ParseStyleAttr(logger.NewDeferLog(), test.SourceForTest("x: "+printed), Options{})
			test.AssertEqual(t, describeErrors(errors), "")
			test.AssertEqual(t, len(again), 1)
			test.AssertEqualWithDiff(t, describeTokens(again[0].Value), describeTokens(decls[0].Value))
		})
	}
}

// Every statement in a stylesheet without errors is kept
func TestNoErrorsKeepsEverything(t *testing.T) {
	contents := "@charset \"x\"; @import \"a\"; <!-- a { b: 1 } --> @media print { c { d: 2 } } @page :left { e: 3 } f { g: 4 }"
	tree := Parse(logger.NewDeferLog(), test.SourceForTest(contents), Options{})
	test.AssertEqual(t, len(tree.Errors), 0)
	test.AssertEqualWithDiff(t, describeRules(tree.Rules, "\n"),
		"@import \"a\" [all]\n"+
			"ruleset \"a \" {b: INTEGER \"1\"}\n"+
			"@media [print] {ruleset \"c \" {d: INTEGER \"2\"}}\n"+
			"@page \"left\" [0 1] {e: INTEGER \"3\"}\n"+
			"ruleset \"f \" {g: INTEGER \"4\"}")
}

func TestParseTokens(t *testing.T) {
	tokens, errors := ParseTokens(logger.NewDeferLog(), test.SourceForTest("f(x [y]) ) {z"), Options{})
	test.AssertEqual(t, len(errors), 0)
	test.AssertEqualWithDiff(t, describeTokens(tokens),
		`FUNCTION "f" [IDENT "x", S " ", [ "[" [IDENT "y"]], S " ", ) ")", S " ", { "{" [IDENT "z"]`)

	tokens, errors = ParseTokens(logger.NewDeferLog(), test.SourceForTest("((("), Options{MaxNestingDepth: 2})
	test.AssertEqual(t, len(tokens), 0)
	test.AssertEqual(t, describeErrors(errors), "nesting depth limit of 2 exceeded\n")
}

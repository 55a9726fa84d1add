package css_lexer

import (
	"strings"
	"testing"

	"github.com/evanw/css21/internal/logger"
	"github.com/evanw/css21/internal/test"
)

func lexToken(contents string) (T, string) {
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest(contents))
	if len(tokens) > 0 {
		t := tokens[0]
		return t.Kind, t.DecodedText(contents)
	}
	return TEndOfFile, ""
}

func lexKinds(contents string) string {
	log := logger.NewDeferLog()
	text := ""
	for i, t := range Tokenize(log, test.SourceForTest(contents)) {
		if i > 0 {
			text += " "
		}
		text += t.Kind.String()
	}
	return text
}

func lexerWarnings(contents string) string {
	log := logger.NewDeferLog()
	Tokenize(log, test.SourceForTest(contents))
	text := ""
	for _, msg := range log.Done() {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	return text
}

func TestTokens(t *testing.T) {
	expected := []struct {
		contents string
		text     string
		token    T
	}{
		{"", "EOF", TEndOfFile},
		{"@media", "ATKEYWORD", TAtKeyword},
		{"url(x y", "BAD_URI", TBadURI},
		{"'abc\n", "BAD_STRING", TBadString},
		{"-->", "CDC", TCDC},
		{"<!--", "CDO", TCDO},
		{"}", "}", TCloseBrace},
		{"]", "]", TCloseBracket},
		{")", ")", TCloseParen},
		{":", ":", TColon},
		{",", "DELIM", TComma},
		{"?", "DELIM", TDelim},
		{"!", "DELIM", TDelim},
		{"1px", "DIMENSION", TDimension},
		{"rgb(", "FUNCTION", TFunction},
		{"#name", "HASH", THash},
		{"name", "IDENT", TIdent},
		{"123", "INTEGER", TInteger},
		{"1.5", "NUMBER", TNumber},
		{"{", "{", TOpenBrace},
		{"[", "[", TOpenBracket},
		{"(", "(", TOpenParen},
		{"50%", "PERCENTAGE", TPercentage},
		{";", ";", TSemicolon},
		{"'abc'", "STRING", TString},
		{"U+00A0-00FF", "UNICODE-RANGE", TUnicodeRange},
		{"url(test)", "URI", TURI},
		{" ", "S", TWhitespace},
	}

	for _, it := range expected {
		contents := it.contents
		token := it.token
		text := it.text
		t.Run(contents, func(t *testing.T) {
			kind, _ := lexToken(contents)
			test.AssertEqual(t, kind, token)
			test.AssertEqual(t, kind.String(), text)
		})
	}
}

func TestNumbers(t *testing.T) {
	test.AssertEqual(t, lexKinds("12"), "INTEGER")
	test.AssertEqual(t, lexKinds("+12"), "INTEGER")
	test.AssertEqual(t, lexKinds("-12"), "INTEGER")
	test.AssertEqual(t, lexKinds(".5"), "NUMBER")
	test.AssertEqual(t, lexKinds("-.5"), "NUMBER")
	test.AssertEqual(t, lexKinds("1e3"), "NUMBER")
	test.AssertEqual(t, lexKinds("1E-3"), "NUMBER")
	test.AssertEqual(t, lexKinds("1em"), "DIMENSION")
	test.AssertEqual(t, lexKinds("1e-x"), "DIMENSION")
	test.AssertEqual(t, lexKinds("1.5e2%"), "PERCENTAGE")
	test.AssertEqual(t, lexKinds("1."), "INTEGER DELIM")
	test.AssertEqual(t, lexKinds("1.2.3"), "NUMBER NUMBER")
	test.AssertEqual(t, lexKinds("+ 1"), "DELIM S INTEGER")
	test.AssertEqual(t, lexKinds("-x"), "IDENT")
	test.AssertEqual(t, lexKinds("- x"), "DELIM S IDENT")

	kind, text := lexToken("12\\70 x")
	test.AssertEqual(t, kind, TDimension)
	test.AssertEqual(t, text, "12px")
}

func TestLongDimension(t *testing.T) {
	contents := strings.Repeat("1", 70000) + "px"
	tokens := Tokenize(logger.NewDeferLog(), test.SourceForTest(contents))
	test.AssertEqual(t, len(tokens), 1)
	test.AssertEqual(t, tokens[0].Kind, TDimension)
	test.AssertEqual(t, tokens[0].UnitOffset, uint32(70000))
	test.AssertEqual(t, tokens[0].DecodedText(contents)[70000:], "px")
}

func TestParseNumber(t *testing.T) {
	value, ok := ParseNumber("-1.5e2")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, value, -150.0)

	value, ok = ParseNumber("+.5")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, value, 0.5)

	_, ok = ParseNumber("x")
	test.AssertEqual(t, ok, false)
}

func TestWhitespaceAndComments(t *testing.T) {
	test.AssertEqual(t, lexKinds("a  \t\n b"), "IDENT S IDENT")
	test.AssertEqual(t, lexKinds("a /* x */ b"), "IDENT S IDENT")
	test.AssertEqual(t, lexKinds("a/* x */b"), "IDENT IDENT")
	test.AssertEqual(t, lexKinds("a/**/ /**/b"), "IDENT S IDENT")
	test.AssertEqual(t, lexKinds("/* only */"), "")
	test.AssertEqual(t, lexKinds("a // b"), "IDENT S DELIM DELIM S IDENT")

	kind, text := lexToken("\r\n\t ")
	test.AssertEqual(t, kind, TWhitespace)
	test.AssertEqual(t, text, " ")
}

func TestComment(t *testing.T) {
	test.AssertEqualWithDiff(t, lexerWarnings("/*"), "<stdin>: warning: Expected \"*/\" to terminate multi-line comment\n")
	test.AssertEqualWithDiff(t, lexerWarnings("a /*/"), "<stdin>: warning: Expected \"*/\" to terminate multi-line comment\n")
	test.AssertEqualWithDiff(t, lexerWarnings("/**/"), "")
	test.AssertEqualWithDiff(t, lexerWarnings("/* a */ /* b **/"), "")
}

func TestStringParsing(t *testing.T) {
	contentsOfStringToken := func(contents string) string {
		t.Helper()
		kind, text := lexToken(contents)
		test.AssertEqual(t, kind, TString)
		return text
	}

	test.AssertEqual(t, contentsOfStringToken("\"foo\""), "foo")
	test.AssertEqual(t, contentsOfStringToken("'foo'"), "foo")
	test.AssertEqual(t, contentsOfStringToken("'f\"o'"), "f\"o")
	test.AssertEqual(t, contentsOfStringToken("\"f\\oo\""), "foo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\"o\""), "f\"o")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\\o\""), "f\\o")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\no\""), "fo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\ro\""), "fo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\r\no\""), "fo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\\fo\""), "fo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\6fo\""), "foo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\6f o\""), "foo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\6f  o\""), "fo o")
	test.AssertEqual(t, contentsOfStringToken("\"f\\6f\r\no\""), "foo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\fffffffo\""), "f\uFFFDfo")
	test.AssertEqual(t, contentsOfStringToken("\"f\\10abcdeo\""), "f\U0010ABCDeo")
}

func TestBadStrings(t *testing.T) {
	test.AssertEqual(t, lexKinds("'abc"), "BAD_STRING")
	test.AssertEqual(t, lexKinds("\"abc\ndef\""), "BAD_STRING S IDENT BAD_STRING")
	test.AssertEqual(t, lexKinds("'\\'"), "BAD_STRING")

	kind, text := lexToken("'abc\n")
	test.AssertEqual(t, kind, TBadString)
	test.AssertEqual(t, text, "abc")

	// Bad strings are not reported by the lexer itself
	test.AssertEqual(t, lexerWarnings("'abc"), "")
}

func TestURIParsing(t *testing.T) {
	contentsOfURIToken := func(expected T, contents string) string {
		t.Helper()
		kind, text := lexToken(contents)
		test.AssertEqual(t, kind, expected)
		return text
	}

	test.AssertEqual(t, contentsOfURIToken(TURI, "url(foo)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "URL(foo)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url()"), "")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(  foo\t\t)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\oo)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\\"o)"), "f\"o")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\'o)"), "f'o")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\)o)"), "f)o")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\6fo)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(f\\6f o)"), "foo")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(\"foo.css\")"), "foo.css")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url( 'f\\'o' )"), "f'o")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url('a b')"), "a b")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(a\\ )"), "a ")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(a\\  )"), "a ")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(\\ )"), " ")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(a\\\\ )"), "a\\")
	test.AssertEqual(t, contentsOfURIToken(TURI, "url(a\\6f )"), "ao")
	test.AssertEqual(t, contentsOfURIToken(TBadURI, "url(f\\6f  o)"), "url(f\\6f  o)")
	test.AssertEqual(t, contentsOfURIToken(TBadURI, "url('a' b)"), "url('a' b)")
	test.AssertEqual(t, contentsOfURIToken(TBadURI, "url(a'b)"), "url(a'b)")
	test.AssertEqual(t, contentsOfURIToken(TBadURI, "url('a\n')"), "url('a\n')")

	test.AssertEqual(t, lexKinds("url(a b) c"), "BAD_URI S IDENT")
	test.AssertEqual(t, lexKinds("urlx(a)"), "FUNCTION IDENT )")
}

func TestIdentifiers(t *testing.T) {
	kind, text := lexToken("id\\65nt")
	test.AssertEqual(t, kind, TIdent)
	test.AssertEqual(t, text, "ident")

	kind, text = lexToken("\\69 dent")
	test.AssertEqual(t, kind, TIdent)
	test.AssertEqual(t, text, "ident")

	kind, text = lexToken("@\\6d edia")
	test.AssertEqual(t, kind, TAtKeyword)
	test.AssertEqual(t, text, "media")

	kind, text = lexToken("#\\31 23")
	test.AssertEqual(t, kind, THash)
	test.AssertEqual(t, text, "123")

	kind, text = lexToken("f\\6e(")
	test.AssertEqual(t, kind, TFunction)
	test.AssertEqual(t, text, "fn")

	test.AssertEqual(t, lexKinds("\\\n"), "DELIM S")
	test.AssertEqual(t, lexKinds("@ x"), "DELIM S IDENT")
	test.AssertEqual(t, lexKinds("# x"), "DELIM S IDENT")
	test.AssertEqual(t, lexKinds("-moz-x(y)"), "FUNCTION IDENT )")
}

func TestUnicodeRange(t *testing.T) {
	test.AssertEqual(t, lexKinds("u+0-7F"), "UNICODE-RANGE")
	test.AssertEqual(t, lexKinds("U+4??"), "UNICODE-RANGE")
	test.AssertEqual(t, lexKinds("u+x"), "IDENT DELIM IDENT")
	test.AssertEqual(t, lexKinds("unicode"), "IDENT")
}

func TestRanges(t *testing.T) {
	contents := "a { b: 'c' }"
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest(contents))
	test.AssertEqual(t, len(tokens), 10)
	test.AssertEqual(t, tokens[4].Kind, TIdent)
	test.AssertEqual(t, tokens[4].Range.Loc.Start, int32(4))
	test.AssertEqual(t, tokens[7].Kind, TString)
	test.AssertEqual(t, tokens[7].Range.Len, int32(3))
}

func TestBOM(t *testing.T) {
	// A byte order mark should not be parsed as an identifier
	kind, _ := lexToken("\uFEFF.")
	test.AssertEqual(t, kind, TDelim)
}

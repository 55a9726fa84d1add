package css_lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/evanw/css21/internal/logger"
)

// The lexer converts a source file to a stream of tokens. It runs to
// completion before the parser begins, resulting in a single array of all
// tokens in the file. Blocks are not grouped here; that happens when the
// parser converts these tokens into a token tree.

type T uint8

const eof = -1
const replacementCharacter = 0xFFFD

const (
	TEndOfFile T = iota

	TAtKeyword
	TBadString
	TBadURI
	TCDC // "-->"
	TCDO // "<!--"
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDelim
	TDimension
	TFunction
	THash
	TIdent
	TInteger
	TNumber
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercentage
	TSemicolon
	TString
	TUnicodeRange
	TURI
	TWhitespace
)

// These are the token names from the CSS 2.1 core grammar. They are what
// appears in error messages such as "expected a media type, got INTEGER".
var tokenToString = []string{
	"EOF",
	"ATKEYWORD",
	"BAD_STRING",
	"BAD_URI",
	"CDC",
	"CDO",
	"}",
	"]",
	")",
	":",

	// The core grammar has no comma token. A comma is just a delimiter there.
	"DELIM",

	"DELIM",
	"DIMENSION",
	"FUNCTION",
	"HASH",
	"IDENT",
	"INTEGER",
	"NUMBER",
	"{",
	"[",
	"(",
	"PERCENTAGE",
	";",
	"STRING",
	"UNICODE-RANGE",
	"URI",
	"S",
}

func (t T) String() string {
	return tokenToString[t]
}

func (t T) IsNumeric() bool {
	return t == TInteger || t == TNumber || t == TDimension || t == TPercentage
}

// This token struct is designed to be memory-efficient. It just references a
// range in the input file instead of directly containing the substring of text
// since a range takes up less memory than a string.
type Token struct {
	Range      logger.Range // 8 bytes
	UnitOffset uint32       // 4 bytes
	Kind       T            // 1 byte
}

func (token Token) DecodedText(contents string) string {
	raw := contents[token.Range.Loc.Start:token.Range.End()]

	switch token.Kind {
	case TIdent:
		return decodeEscapesInToken(raw)

	case TAtKeyword, THash:
		return decodeEscapesInToken(raw[1:])

	case TFunction:
		return decodeEscapesInToken(raw[:len(raw)-1])

	case TString:
		return decodeEscapesInToken(raw[1 : len(raw)-1])

	case TBadString:
		// Only the opening quote is guaranteed to be present
		return decodeEscapesInToken(raw[1:])

	case TDimension:
		return raw[:token.UnitOffset] + decodeEscapesInToken(raw[token.UnitOffset:])

	case TURI:
		start := 4
		end := len(raw) - 1

		// Trim leading and trailing whitespace
		for start < end && isWhitespace(rune(raw[start])) {
			start++
		}
		for start < end && isWhitespace(rune(raw[end-1])) && !endsWithEscape(raw[start:end-1]) {
			end--
		}

		// The value may be a quoted string
		if start < end {
			if c := raw[start]; c == '"' || c == '\'' {
				return decodeEscapesInToken(raw[start+1 : end-1])
			}
		}

		return decodeEscapesInToken(raw[start:end])

	case TWhitespace:
		return " "
	}

	return raw
}

// Reports whether the character after "text" is escaped, which is the case
// when "text" ends in an odd number of backslashes
func endsWithEscape(text string) bool {
	count := 0
	for i := len(text) - 1; i >= 0 && text[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

type lexer struct {
	log       logger.Log
	source    logger.Source
	current   int
	codePoint rune
	Token     Token
}

func Tokenize(log logger.Log, source logger.Source) (tokens []Token) {
	lexer := lexer{
		log:    log,
		source: source,
	}
	lexer.step()

	// A byte order mark is not part of the stylesheet
	if lexer.codePoint == '\uFEFF' {
		lexer.step()
	}

	lexer.next()
	for lexer.Token.Kind != TEndOfFile {
		tokens = append(tokens, lexer.Token)
		lexer.next()
	}
	return
}

func (lexer *lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = eof
	}

	lexer.codePoint = codePoint
	lexer.Token.Range.Len = int32(lexer.current) - lexer.Token.Range.Loc.Start
	lexer.current += width
}

func (lexer *lexer) peek(offset int) byte {
	if i := lexer.current + offset; i < len(lexer.source.Contents) {
		return lexer.source.Contents[i]
	}
	return 0
}

func (lexer *lexer) next() {
	// Reference: https://www.w3.org/TR/CSS21/syndata.html#tokenization

	for {
		lexer.Token = Token{Range: logger.Range{Loc: logger.Loc{Start: lexer.Token.Range.End()}}}

		switch lexer.codePoint {
		case eof:
			lexer.Token.Kind = TEndOfFile

		case '/':
			lexer.step()
			if lexer.codePoint == '*' {
				lexer.step()
				lexer.consumeToEndOfMultiLineComment(lexer.Token.Range)
				continue
			}
			lexer.Token.Kind = TDelim

		case ' ', '\t', '\n', '\r', '\f':
			// Comments between whitespace are dropped so the whole run becomes a
			// single whitespace token
			lexer.step()
			for {
				if isWhitespace(lexer.codePoint) {
					lexer.step()
				} else if lexer.codePoint == '/' && lexer.peek(0) == '*' {
					commentStart := logger.Range{Loc: logger.Loc{Start: lexer.Token.Range.End()}, Len: 2}
					lexer.step()
					lexer.step()
					lexer.consumeToEndOfMultiLineComment(commentStart)
				} else {
					break
				}
			}
			lexer.Token.Kind = TWhitespace

		case '"', '\'':
			lexer.Token.Kind = lexer.consumeString()

		case '#':
			lexer.step()
			if IsNameContinue(lexer.codePoint) || lexer.isValidEscape() {
				lexer.Token.Kind = THash
				lexer.consumeName()
			} else {
				lexer.Token.Kind = TDelim
			}

		case '(':
			lexer.step()
			lexer.Token.Kind = TOpenParen

		case ')':
			lexer.step()
			lexer.Token.Kind = TCloseParen

		case '[':
			lexer.step()
			lexer.Token.Kind = TOpenBracket

		case ']':
			lexer.step()
			lexer.Token.Kind = TCloseBracket

		case '{':
			lexer.step()
			lexer.Token.Kind = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token.Kind = TCloseBrace

		case ',':
			lexer.step()
			lexer.Token.Kind = TComma

		case ':':
			lexer.step()
			lexer.Token.Kind = TColon

		case ';':
			lexer.step()
			lexer.Token.Kind = TSemicolon

		case '+', '.':
			if lexer.wouldStartNumber() {
				lexer.Token.Kind = lexer.consumeNumeric()
			} else {
				lexer.step()
				lexer.Token.Kind = TDelim
			}

		case '-':
			if lexer.wouldStartNumber() {
				lexer.Token.Kind = lexer.consumeNumeric()
			} else if lexer.peek(0) == '-' && lexer.peek(1) == '>' {
				lexer.step()
				lexer.step()
				lexer.step()
				lexer.Token.Kind = TCDC
			} else if lexer.wouldStartIdentifier() {
				lexer.Token.Kind = lexer.consumeIdentLike()
			} else {
				lexer.step()
				lexer.Token.Kind = TDelim
			}

		case '<':
			if lexer.peek(0) == '!' && lexer.peek(1) == '-' && lexer.peek(2) == '-' {
				lexer.step()
				lexer.step()
				lexer.step()
				lexer.step()
				lexer.Token.Kind = TCDO
			} else {
				lexer.step()
				lexer.Token.Kind = TDelim
			}

		case '@':
			lexer.step()
			if lexer.wouldStartIdentifier() {
				lexer.consumeName()
				lexer.Token.Kind = TAtKeyword
			} else {
				lexer.Token.Kind = TDelim
			}

		case '\\':
			if lexer.isValidEscape() {
				lexer.Token.Kind = lexer.consumeIdentLike()
			} else {
				// A backslash before a newline is not an escape
				lexer.step()
				lexer.Token.Kind = TDelim
			}

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			lexer.Token.Kind = lexer.consumeNumeric()

		case 'u', 'U':
			if lexer.wouldStartUnicodeRange() {
				lexer.consumeUnicodeRange()
				lexer.Token.Kind = TUnicodeRange
			} else {
				lexer.Token.Kind = lexer.consumeIdentLike()
			}

		default:
			if IsNameStart(lexer.codePoint) {
				lexer.Token.Kind = lexer.consumeIdentLike()
			} else {
				lexer.step()
				lexer.Token.Kind = TDelim
			}
		}

		return
	}
}

func (lexer *lexer) consumeToEndOfMultiLineComment(startRange logger.Range) {
	for {
		switch lexer.codePoint {
		case '*':
			lexer.step()
			if lexer.codePoint == '/' {
				lexer.step()
				return
			}

		case eof: // This indicates the end of the file
			lexer.log.AddRangeWarning(&lexer.source, startRange, "Expected \"*/\" to terminate multi-line comment")
			return

		default:
			lexer.step()
		}
	}
}

func (lexer *lexer) isValidEscape() bool {
	if lexer.codePoint != '\\' {
		return false
	}
	c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
	return !isNewline(c)
}

func (lexer *lexer) wouldStartIdentifier() bool {
	if IsNameStart(lexer.codePoint) {
		return true
	}

	if lexer.codePoint == '-' {
		c, w := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
		if IsNameStart(c) || c == '-' {
			return true
		}
		if c == '\\' {
			c, _ = utf8.DecodeRuneInString(lexer.source.Contents[lexer.current+w:])
			return !isNewline(c)
		}
		return false
	}

	return lexer.isValidEscape()
}

func WouldStartIdentifierWithoutEscapes(text string) bool {
	if len(text) > 0 {
		c, width := utf8.DecodeRuneInString(text)
		if IsNameStart(c) {
			return true
		} else if c == '-' {
			if c, _ := utf8.DecodeRuneInString(text[width:]); IsNameStart(c) || c == '-' {
				return true
			}
		}
	}
	return false
}

func (lexer *lexer) wouldStartNumber() bool {
	if lexer.codePoint >= '0' && lexer.codePoint <= '9' {
		return true
	} else if lexer.codePoint == '.' {
		c := lexer.peek(0)
		return c >= '0' && c <= '9'
	} else if lexer.codePoint == '+' || lexer.codePoint == '-' {
		c := lexer.peek(0)
		if c >= '0' && c <= '9' {
			return true
		}
		if c == '.' {
			c = lexer.peek(1)
			return c >= '0' && c <= '9'
		}
	}
	return false
}

// "u+" must be followed by a hex digit or "?" to start a unicode range
func (lexer *lexer) wouldStartUnicodeRange() bool {
	if lexer.peek(0) != '+' {
		return false
	}
	c := lexer.peek(1)
	_, ok := isHex(rune(c))
	return ok || c == '?'
}

func (lexer *lexer) consumeUnicodeRange() {
	lexer.step() // Skip the "u"
	lexer.step() // Skip the "+"

	// Up to six hex digits or question marks
	count := 0
	for count < 6 {
		if _, ok := isHex(lexer.codePoint); !ok && lexer.codePoint != '?' {
			break
		}
		lexer.step()
		count++
	}

	// An optional range end of up to six hex digits
	if lexer.codePoint == '-' {
		if _, ok := isHex(rune(lexer.peek(0))); ok {
			lexer.step()
			for i := 0; i < 6; i++ {
				if _, ok := isHex(lexer.codePoint); !ok {
					break
				}
				lexer.step()
			}
		}
	}
}

func (lexer *lexer) consumeName() string {
	// Common case: no escapes, identifier is a substring of the input
	for IsNameContinue(lexer.codePoint) {
		lexer.step()
	}
	raw := lexer.source.Contents[lexer.Token.Range.Loc.Start:lexer.Token.Range.End()]
	if !lexer.isValidEscape() {
		return raw
	}

	// Uncommon case: escapes, identifier is allocated
	sb := strings.Builder{}
	sb.WriteString(raw)
	sb.WriteRune(lexer.consumeEscape())
	for {
		if IsNameContinue(lexer.codePoint) {
			sb.WriteRune(lexer.codePoint)
			lexer.step()
		} else if lexer.isValidEscape() {
			sb.WriteRune(lexer.consumeEscape())
		} else {
			break
		}
	}
	return sb.String()
}

func (lexer *lexer) consumeEscape() rune {
	lexer.step() // Skip the backslash
	c := lexer.codePoint

	if hex, ok := isHex(c); ok {
		lexer.step()
		for i := 0; i < 5; i++ {
			if next, ok := isHex(lexer.codePoint); ok {
				lexer.step()
				hex = hex*16 + next
			} else {
				break
			}
		}
		if lexer.codePoint == '\r' && lexer.peek(0) == '\n' {
			lexer.step()
			lexer.step()
		} else if isWhitespace(lexer.codePoint) {
			lexer.step()
		}
		if hex == 0 || (hex >= 0xD800 && hex <= 0xDFFF) || hex > 0x10FFFF {
			return replacementCharacter
		}
		return rune(hex)
	}

	if c == eof {
		return replacementCharacter
	}

	lexer.step()
	return c
}

func (lexer *lexer) consumeIdentLike() T {
	name := lexer.consumeName()

	if lexer.codePoint == '(' {
		lexer.step()
		if len(name) == 3 {
			u, r, l := name[0], name[1], name[2]
			if (u == 'u' || u == 'U') && (r == 'r' || r == 'R') && (l == 'l' || l == 'L') {
				return lexer.consumeURI()
			}
		}
		return TFunction
	}

	return TIdent
}

// This is called after "url(" has been consumed. Unlike newer CSS syntax
// levels, CSS 2.1 has a single URI token for both the quoted and the unquoted
// forms.
func (lexer *lexer) consumeURI() T {
	for isWhitespace(lexer.codePoint) {
		lexer.step()
	}

	switch lexer.codePoint {
	case '"', '\'':
		if lexer.consumeString() == TBadString {
			return lexer.consumeRemnantsOfBadURI()
		}

	default:
	unquoted:
		for {
			switch lexer.codePoint {
			case ')', eof, ' ', '\t', '\n', '\r', '\f':
				break unquoted

			case '"', '\'', '(':
				return lexer.consumeRemnantsOfBadURI()

			case '\\':
				if !lexer.isValidEscape() {
					return lexer.consumeRemnantsOfBadURI()
				}
				lexer.consumeEscape()

			default:
				if isNonPrintable(lexer.codePoint) {
					return lexer.consumeRemnantsOfBadURI()
				}
				lexer.step()
			}
		}
	}

	for isWhitespace(lexer.codePoint) {
		lexer.step()
	}
	if lexer.codePoint != ')' {
		return lexer.consumeRemnantsOfBadURI()
	}
	lexer.step()
	return TURI
}

func (lexer *lexer) consumeRemnantsOfBadURI() T {
	for {
		switch lexer.codePoint {
		case ')':
			lexer.step()
			return TBadURI

		case eof:
			return TBadURI

		case '\\':
			if lexer.isValidEscape() {
				lexer.consumeEscape()
				continue
			}
		}
		lexer.step()
	}
}

func (lexer *lexer) consumeString() T {
	quote := lexer.codePoint
	lexer.step()

	for {
		switch lexer.codePoint {
		case '\\':
			if lexer.isValidEscape() {
				lexer.consumeEscape()
				continue
			}

			// An escaped newline is removed from the string. Handle Windows CRLF.
			lexer.step()
			if lexer.codePoint == '\r' {
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			}

		case eof, '\n', '\r', '\f':
			return TBadString

		case quote:
			lexer.step()
			return TString
		}
		lexer.step()
	}
}

func (lexer *lexer) consumeNumeric() T {
	isInteger := true

	// Skip over leading sign
	if lexer.codePoint == '+' || lexer.codePoint == '-' {
		lexer.step()
	}

	// Skip over leading digits
	for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
		lexer.step()
	}

	// Skip over digits after dot
	if lexer.codePoint == '.' {
		if c := lexer.peek(0); c >= '0' && c <= '9' {
			isInteger = false
			lexer.step()
			for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
				lexer.step()
			}
		}
	}

	// Skip over exponent
	if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
		// Look ahead before advancing to make sure this is an exponent, not a unit
		c := lexer.peek(0)
		if c == '+' || c == '-' {
			c = lexer.peek(1)
		}

		// Only consume this if it's an exponent
		if c >= '0' && c <= '9' {
			isInteger = false
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
				lexer.step()
			}
		}
	}

	// Determine the numeric type
	if lexer.wouldStartIdentifier() {
		lexer.Token.UnitOffset = uint32(lexer.Token.Range.Len)
		lexer.consumeName()
		return TDimension
	}
	if lexer.codePoint == '%' {
		lexer.step()
		return TPercentage
	}
	if isInteger {
		return TInteger
	}
	return TNumber
}

// Returns the numeric part of a number, dimension, or percentage. The text
// has already been validated by the lexer so this never fails for those.
func ParseNumber(text string) (float64, bool) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Values beyond the range of float64 still come back as +-Inf
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func IsNameStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func IsNameContinue(c rune) bool {
	return IsNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isNewline(c rune) bool {
	switch c {
	case '\n', '\r', '\f':
		return true
	}
	return false
}

func isWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isHex(c rune) (int, bool) {
	if c >= '0' && c <= '9' {
		return int(c - '0'), true
	}
	if c >= 'a' && c <= 'f' {
		return int(c + (10 - 'a')), true
	}
	if c >= 'A' && c <= 'F' {
		return int(c + (10 - 'A')), true
	}
	return 0, false
}

func isNonPrintable(c rune) bool {
	return c <= 0x08 || c == 0x0B || (c >= 0x0E && c <= 0x1F) || c == 0x7F
}

func decodeEscapesInToken(inner string) string {
	i := 0

	for i < len(inner) {
		if inner[i] == '\\' {
			break
		}
		i++
	}

	if i == len(inner) {
		return inner
	}

	sb := strings.Builder{}
	sb.WriteString(inner[:i])
	inner = inner[i:]

	for len(inner) > 0 {
		c, width := utf8.DecodeRuneInString(inner)
		inner = inner[width:]

		if c != '\\' {
			sb.WriteRune(c)
			continue
		}

		if len(inner) == 0 {
			sb.WriteRune(replacementCharacter)
			continue
		}

		c, width = utf8.DecodeRuneInString(inner)
		inner = inner[width:]
		hex, ok := isHex(c)

		if !ok {
			if c == '\n' || c == '\f' {
				continue
			}

			// Handle Windows CRLF
			if c == '\r' {
				c, width = utf8.DecodeRuneInString(inner)
				if c == '\n' {
					inner = inner[width:]
				}
				continue
			}

			// A backslash before any other character stands for that character
			sb.WriteRune(c)
			continue
		}

		// Parse up to five additional hex characters (so six in total)
		for i := 0; i < 5 && len(inner) > 0; i++ {
			c, width = utf8.DecodeRuneInString(inner)
			if next, ok := isHex(c); ok {
				inner = inner[width:]
				hex = hex*16 + next
			} else {
				break
			}
		}

		// One whitespace character (or a CRLF pair) ends the escape
		if len(inner) > 0 {
			if strings.HasPrefix(inner, "\r\n") {
				inner = inner[2:]
			} else if c, width = utf8.DecodeRuneInString(inner); isWhitespace(c) {
				inner = inner[width:]
			}
		}

		if hex == 0 || (hex >= 0xD800 && hex <= 0xDFFF) || hex > 0x10FFFF {
			sb.WriteRune(replacementCharacter)
			continue
		}

		sb.WriteRune(rune(hex))
	}

	return sb.String()
}

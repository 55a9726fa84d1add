package lsp

import (
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
	"github.com/evanw/css21/internal/css_parser"
	"github.com/evanw/css21/internal/helpers"
	"github.com/evanw/css21/internal/logger"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// An open document and everything derived from its current text. Documents
// are never mutated after they are analyzed. An edit creates a new one.
type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string
	lines   lineIndex
	tree    css_ast.Stylesheet

	// Warnings from the log. Parse errors live in "tree.Errors".
	warnings []logger.Msg

	// The flat token stream, used to find where statements end
	tokens []css_lexer.Token
}

func analyze(uri protocol.DocumentUri, version protocol.Integer, text string, options css_parser.Options) *document {
	source := logger.Source{PrettyPath: uri, Contents: text}
	log := logger.NewDeferLog()
	tree := css_parser.Parse(log, source, options)

	var warnings []logger.Msg
	for _, msg := range log.Done() {
		if msg.Kind == logger.Warning {
			warnings = append(warnings, msg)
		}
	}

	return &document{
		uri:      uri,
		version:  version,
		text:     text,
		lines:    makeLineIndex(text),
		tree:     tree,
		warnings: warnings,
		tokens:   css_lexer.Tokenize(logger.NewDeferLog(), source),
	}
}

// Line starts according to the language server protocol, which only
// considers "\n", "\r\n", and "\r" to be line breaks. This is not the same as
// the line numbers in parse errors since CSS also treats "\f" as a newline.
type lineIndex struct {
	text   string
	starts []int
}

func makeLineIndex(text string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return lineIndex{text: text, starts: starts}
}

func (index lineIndex) position(offset int) protocol.Position {
	if offset > len(index.text) {
		offset = len(index.text)
	}

	// Find the last line that starts at or before the offset
	lo, hi := 0, len(index.starts)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if index.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}

	return protocol.Position{
		Line:      protocol.UInteger(lo),
		Character: protocol.UInteger(helpers.UTF16Len(index.text[index.starts[lo]:offset])),
	}
}

func (index lineIndex) offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(index.starts) {
		return len(index.text)
	}
	start := index.starts[line]
	end := len(index.text)
	if line+1 < len(index.starts) {
		end = index.starts[line+1]
	}

	// Don't let the character count run past the line break
	lineText := strings.TrimRight(index.text[start:end], "\r\n")
	return start + helpers.UTF16ToByteOffset(lineText, int(pos.Character))
}

func (index lineIndex) rangeOf(r logger.Range) protocol.Range {
	return protocol.Range{
		Start: index.position(int(r.Loc.Start)),
		End:   index.position(int(r.End())),
	}
}

func (index lineIndex) end() protocol.Position {
	return index.position(len(index.text))
}

// Applies edits in order. An edit without a range replaces everything.
func applyChanges(text string, changes []any) string {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text

		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			index := makeLineIndex(text)
			start := index.offset(c.Range.Start)
			end := index.offset(c.Range.End)
			if end < start {
				start, end = end, start
			}
			text = text[:start] + c.Text + text[end:]
		}
	}
	return text
}

const diagnosticSource = "css21"

func (doc *document) diagnostics() []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := diagnosticSource

	for _, err := range doc.tree.Errors {
		severity := protocol.DiagnosticSeverityError
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    doc.lines.rangeOf(err.Range),
			Severity: &severity,
			Source:   &source,
			Message:  err.Message,
		})
	}

	for _, msg := range doc.warnings {
		if msg.Location == nil {
			continue
		}
		severity := protocol.DiagnosticSeverityWarning
		r := logger.Range{Loc: logger.Loc{Start: int32(msg.Location.Offset)}, Len: int32(msg.Location.Length)}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    doc.lines.rangeOf(r),
			Severity: &severity,
			Source:   &source,
			Message:  msg.Text,
		})
	}

	return diagnostics
}

package lsp

import (
	"strings"
	"sync"

	"github.com/evanw/css21/internal/config"
	"github.com/evanw/css21/internal/css_printer"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "css21"

// Publishes parse errors and typo warnings as diagnostics, and provides a
// document outline and whole-document formatting
type Server struct {
	config  *config.Config
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger

	documentsMutex sync.Mutex
	documents      map[protocol.DocumentUri]*document
}

func NewServer(cfg *config.Config, version string) *Server {
	ls := &Server{
		config:    cfg,
		version:   version,
		log:       commonlog.GetLogger(lsName),
		documents: make(map[protocol.DocumentUri]*document),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFormatting:     ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("ready (max nesting depth %d)", ls.config.Parser.MaxNestingDepth)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	ls.update(ctx, item.URI, item.Version, item.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc := ls.get(uri)
	if doc == nil {
		ls.log.Warningf("change for unknown document %s", uri)
		return nil
	}
	ls.update(ctx, uri, params.TextDocument.Version, applyChanges(doc.text, params.ContentChanges))
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	ls.documentsMutex.Lock()
	delete(ls.documents, uri)
	ls.documentsMutex.Unlock()

	// Clear any diagnostics the client is still showing
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	uri := params.TextDocument.URI
	var version protocol.Integer
	if doc := ls.get(uri); doc != nil {
		version = doc.version
	}
	ls.update(ctx, uri, version, *params.Text)
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.symbols(), nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := ls.get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	edits := doc.formattingEdits()
	if edits == nil {
		ls.log.Debugf("not formatting %s", doc.uri)
	}
	return edits, nil
}

// Formatting drops comments and everything the parser rejected, so documents
// with either are left untouched
func (doc *document) formattingEdits() []protocol.TextEdit {
	if len(doc.tree.Errors) > 0 || strings.Contains(doc.text, "/*") {
		return nil
	}
	formatted := string(css_printer.Print(doc.tree, css_printer.Options{}))
	if formatted == doc.text {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{}, End: doc.lines.end()},
		NewText: formatted,
	}}
}

func (ls *Server) get(uri protocol.DocumentUri) *document {
	ls.documentsMutex.Lock()
	defer ls.documentsMutex.Unlock()
	return ls.documents[uri]
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, version protocol.Integer, text string) {
	doc := analyze(uri, version, text, ls.config.ParserOptions())

	ls.documentsMutex.Lock()
	ls.documents[uri] = doc
	ls.documentsMutex.Unlock()

	diagnostics := doc.diagnostics()
	ls.log.Debugf("%s: %d diagnostics", uri, len(diagnostics))

	published := protocol.UInteger(version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &published,
		Diagnostics: diagnostics,
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}

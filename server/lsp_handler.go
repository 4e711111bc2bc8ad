package server

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/internal/util"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/lsp"
)

const (
	// DefaultMaxDocuments bounds the per-client document cache. The least
	// recently used document is evicted past it.
	DefaultMaxDocuments = 100

	serverName = "Emmet Language Server"
)

// triggerCharacters are the abbreviation characters after which editors
// should ask for completions again
var triggerCharacters = []string{">", "+", "^", "*", ".", "#", "]", "}", ")", ":", "!", "$", "@", "-", "|"}

// GLSPHandler implements the LSP protocol handlers for one client
// connection, wrapping the completion service
type GLSPHandler struct {
	service   *lsp.Service
	documents *lru.Cache[string, *document.Document] // URI → document
	logger    *zap.SugaredLogger

	// defaults are the server-side settings; an editor that sends no
	// extensions path keeps the default one
	defaults lsp.Settings

	mu       sync.RWMutex
	settings lsp.Settings
}

// NewGLSPHandler creates a handler with its own document cache and a copy
// of the default settings
func NewGLSPHandler(service *lsp.Service, settings lsp.Settings, maxDocuments int) (*GLSPHandler, error) {
	if maxDocuments <= 0 {
		maxDocuments = DefaultMaxDocuments
	}
	docs, err := lru.New[string, *document.Document](maxDocuments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create document cache")
	}
	return &GLSPHandler{
		service:   service,
		documents: docs,
		defaults:  settings,
		settings:  settings,
		logger:    logger.ComponentLogger("server.lsp"),
	}, nil
}

// ProtocolHandler wires the handler's methods into a glsp protocol table
func (h *GLSPHandler) ProtocolHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                      h.Initialize,
		Initialized:                     h.Initialized,
		Shutdown:                        h.Shutdown,
		SetTrace:                        h.SetTrace,
		TextDocumentDidOpen:             h.TextDocumentDidOpen,
		TextDocumentDidChange:           h.TextDocumentDidChange,
		TextDocumentDidClose:            h.TextDocumentDidClose,
		TextDocumentCompletion:          h.TextDocumentCompletion,
		WorkspaceDidChangeConfiguration: h.WorkspaceDidChangeConfiguration,
	}
}

// Initialize handles LSP initialize request. Initialization options, when
// present, are read like a configuration change.
func (h *GLSPHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	client := ""
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	h.logger.Infow("LSP client initializing", "client", client)

	if params.InitializationOptions != nil {
		h.applySettings(params.InitializationOptions)
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: triggerCharacters,
		},
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: util.Ptr(serverVersion()),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *GLSPHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.logger.Infow("LSP client initialized successfully")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *GLSPHandler) Shutdown(ctx *glsp.Context) error {
	h.logger.Infow("LSP client shutting down", logger.FieldCount, h.documents.Len())
	h.documents.Purge()
	return nil
}

// SetTrace accepts the client's trace level; the server logs through its
// own logger regardless
func (h *GLSPHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen handles document open notifications
func (h *GLSPHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	doc := document.New(string(item.URI), item.LanguageID, item.Version, item.Text)
	if evicted := h.documents.Add(doc.URI, doc); evicted {
		h.logger.Debugw("Document cache full, evicted least recently used document")
	}

	h.logger.Debugw("Document opened",
		logger.FieldURI, doc.URI,
		logger.FieldLanguage, doc.LanguageID,
		"length", len(item.Text),
		"total_documents", h.documents.Len())
	return nil
}

// TextDocumentDidChange applies full and incremental change events in order
func (h *GLSPHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	doc, ok := h.documents.Get(uri)
	if !ok {
		h.logger.Debugw("Change for unknown document", logger.FieldURI, uri)
		return nil
	}

	version := params.TextDocument.Version
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc = document.New(doc.URI, doc.LanguageID, version, c.Text)
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				doc = document.New(doc.URI, doc.LanguageID, version, c.Text)
				continue
			}
			doc = doc.Apply(*c.Range, c.Text, version)
		}
	}
	h.documents.Add(uri, doc)

	h.logger.Debugw("Document changed",
		logger.FieldURI, uri,
		"changes", len(params.ContentChanges),
		"version", version)
	return nil
}

// TextDocumentDidClose handles document close notifications
func (h *GLSPHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	h.documents.Remove(uri)
	h.logger.Debugw("Document closed", logger.FieldURI, uri)
	return nil
}

// TextDocumentCompletion offers abbreviation expansions at the cursor
func (h *GLSPHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	// Panic recovery: if completion logic panics, return empty list instead of crashing
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in completion handler",
				"panic", r,
				logger.FieldURI, params.TextDocument.URI)
			result = emptyCompletionList()
			err = nil
		}
	}()

	uri := string(params.TextDocument.URI)
	doc, ok := h.documents.Get(uri)
	if !ok {
		return emptyCompletionList(), nil
	}

	h.logger.Debugw("LSP completion",
		logger.FieldURI, uri,
		logger.FieldLine, params.Position.Line,
		logger.FieldCharacter, params.Position.Character)

	candidates := h.service.Complete(doc, params.Position, doc.LanguageID, h.currentSettings())
	items := make([]protocol.CompletionItem, len(candidates))
	for i, c := range candidates {
		items[i] = completionItem(doc, c)
	}

	h.logger.Debugw("LSP completion result", logger.FieldCount, len(items))

	// Incomplete: the list depends on every further keystroke
	return protocol.CompletionList{IsIncomplete: true, Items: items}, nil
}

// WorkspaceDidChangeConfiguration reads the "emmet" section of the new
// settings. A changed extensions path starts a reload.
func (h *GLSPHandler) WorkspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	h.applySettings(params.Settings)
	return nil
}

func (h *GLSPHandler) applySettings(raw any) {
	section := raw
	if m, ok := raw.(map[string]any); ok {
		if emmet, ok := m["emmet"]; ok {
			section = emmet
		}
	}

	settings, err := lsp.DecodeSettings(section)
	if err != nil {
		h.logger.Warnw("Ignoring malformed emmet settings", logger.FieldError, err)
		return
	}
	if settings.ExtensionsPath == "" {
		settings.ExtensionsPath = h.defaults.ExtensionsPath
	}

	h.mu.Lock()
	previous := h.settings.ExtensionsPath
	h.settings = settings
	h.mu.Unlock()

	if settings.ExtensionsPath != previous {
		h.logger.Infow("Extensions path changed, reloading",
			logger.FieldPath, settings.ExtensionsPath)
		h.service.Store().UpdateAsync(settings.ExtensionsPath)
	}
}

func (h *GLSPHandler) currentSettings() lsp.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

func emptyCompletionList() protocol.CompletionList {
	return protocol.CompletionList{IsIncomplete: true, Items: []protocol.CompletionItem{}}
}

// completionItem converts a candidate into an LSP snippet completion whose
// text edit replaces the typed abbreviation
func completionItem(doc *document.Document, c lsp.Candidate) protocol.CompletionItem {
	format := protocol.InsertTextFormatSnippet
	return protocol.CompletionItem{
		Label:            c.Label,
		Kind:             mapCompletionKind(c.Kind),
		Documentation:    c.Documentation,
		SortText:         util.PtrOrNil(c.SortText),
		FilterText:       util.PtrOrNil(doc.TextIn(c.Range)),
		InsertTextFormat: &format,
		TextEdit: protocol.TextEdit{
			Range:   c.Range,
			NewText: c.InsertText,
		},
	}
}

// mapCompletionKind maps candidate kinds to LSP CompletionItemKind
func mapCompletionKind(kind string) *protocol.CompletionItemKind {
	var k protocol.CompletionItemKind
	switch kind {
	case lsp.KindAbbreviation, lsp.KindSnippet:
		k = protocol.CompletionItemKindSnippet
	case lsp.KindProperty:
		k = protocol.CompletionItemKindProperty
	default:
		k = protocol.CompletionItemKindText
	}
	return &k
}

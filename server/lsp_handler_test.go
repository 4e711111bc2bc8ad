package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/emmet/lsp"
	"github.com/teranos/emmet/options"
)

const testURI = "file:///project/index.html"

func newTestHandler(t *testing.T, maxDocuments int) (*GLSPHandler, *options.Store) {
	t.Helper()
	store := options.NewStore()
	t.Cleanup(store.Wait)

	settings := lsp.DefaultSettings()
	settings.ShowAbbreviationSuggestions = false
	h, err := NewGLSPHandler(lsp.NewService(store), settings, maxDocuments)
	require.NoError(t, err)
	return h, store
}

func open(t *testing.T, h *GLSPHandler, uri, lang, text string) {
	t.Helper()
	require.NoError(t, h.TextDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentUri(uri),
			LanguageID: lang,
			Version:    1,
			Text:       text,
		},
	}))
}

func completeAt(t *testing.T, h *GLSPHandler, uri string, line, char uint32) protocol.CompletionList {
	t.Helper()
	result, err := h.TextDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	list, ok := result.(protocol.CompletionList)
	require.True(t, ok, "completion returned %T", result)
	return list
}

func TestCompletion_Item(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, testURI, "html", "<div>ul>li</div>")

	list := completeAt(t, h, testURI, 0, 10)
	assert.True(t, list.IsIncomplete)
	require.NotEmpty(t, list.Items)

	item := list.Items[0]
	assert.Equal(t, "ul>li", item.Label)
	assert.Equal(t, "<ul>\n\t<li>|</li>\n</ul>", item.Documentation)
	require.NotNil(t, item.Kind)
	assert.Equal(t, protocol.CompletionItemKindSnippet, *item.Kind)
	require.NotNil(t, item.InsertTextFormat)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *item.InsertTextFormat)
	require.NotNil(t, item.SortText)
	assert.Equal(t, "0000", *item.SortText)
	require.NotNil(t, item.FilterText)
	assert.Equal(t, "ul>li", *item.FilterText)

	edit, ok := item.TextEdit.(protocol.TextEdit)
	require.True(t, ok)
	assert.Equal(t, "<ul>\n\t<li>${1}</li>\n</ul>", edit.NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 5},
		End:   protocol.Position{Line: 0, Character: 10},
	}, edit.Range)
}

func TestCompletion_StylesheetKind(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, "file:///project/site.css", "css", "m10")

	list := completeAt(t, h, "file:///project/site.css", 0, 3)
	require.NotEmpty(t, list.Items)
	require.NotNil(t, list.Items[0].Kind)
	assert.Equal(t, protocol.CompletionItemKindProperty, *list.Items[0].Kind)
}

func TestCompletion_UnknownDocument(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	list := completeAt(t, h, "file:///nowhere.html", 0, 0)
	assert.True(t, list.IsIncomplete)
	assert.Empty(t, list.Items)
}

func TestCompletion_RecoversFromPanic(t *testing.T) {
	// A handler without a service panics inside completion
	h, err := NewGLSPHandler(nil, lsp.DefaultSettings(), 0)
	require.NoError(t, err)
	open(t, h, testURI, "html", "ul")

	list := completeAt(t, h, testURI, 0, 2)
	assert.Empty(t, list.Items)
}

func TestDidChange_Incremental(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, testURI, "html", "ul\n")

	require.NoError(t, h.TextDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 2},
					End:   protocol.Position{Line: 0, Character: 2},
				},
				Text: ">l",
			},
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 4},
					End:   protocol.Position{Line: 0, Character: 4},
				},
				Text: "i",
			},
		},
	}))

	doc, ok := h.documents.Get(testURI)
	require.True(t, ok)
	assert.Equal(t, "ul>li\n", doc.Text())
	assert.Equal(t, protocol.Integer(2), doc.Version)

	list := completeAt(t, h, testURI, 0, 5)
	require.NotEmpty(t, list.Items)
	assert.Equal(t, "ul>li", list.Items[0].Label)
}

func TestDidChange_Full(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, testURI, "html", "ul")

	require.NoError(t, h.TextDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "ol>li*2"},
		},
	}))

	doc, ok := h.documents.Get(testURI)
	require.True(t, ok)
	assert.Equal(t, "ol>li*2", doc.Text())
	assert.Equal(t, "html", doc.LanguageID)
}

func TestDidClose(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, testURI, "html", "ul")

	require.NoError(t, h.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	assert.Empty(t, completeAt(t, h, testURI, 0, 2).Items)
}

func TestDocumentCacheEvictsLeastRecentlyUsed(t *testing.T) {
	h, _ := newTestHandler(t, 2)
	open(t, h, "file:///a.html", "html", "ul")
	open(t, h, "file:///b.html", "html", "ol")

	// Touch a so that b is the oldest
	completeAt(t, h, "file:///a.html", 0, 2)
	open(t, h, "file:///c.html", "html", "dl")

	assert.True(t, h.documents.Contains("file:///a.html"))
	assert.False(t, h.documents.Contains("file:///b.html"))
	assert.True(t, h.documents.Contains("file:///c.html"))
}

func TestDidChangeConfiguration(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	open(t, h, testURI, "html", "ul")
	require.NotEmpty(t, completeAt(t, h, testURI, 0, 2).Items)

	require.NoError(t, h.WorkspaceDidChangeConfiguration(nil, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{
			"emmet": map[string]any{"showExpandedAbbreviation": "never"},
		},
	}))
	assert.Equal(t, lsp.ShowNever, h.currentSettings().ShowExpandedAbbreviation)
	assert.Empty(t, completeAt(t, h, testURI, 0, 2).Items)
}

func TestDidChangeConfiguration_MalformedKeepsSettings(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	before := h.currentSettings()

	require.NoError(t, h.WorkspaceDidChangeConfiguration(nil, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"emmet": map[string]any{"variables": 42}},
	}))
	assert.Equal(t, before, h.currentSettings())
}

func TestDidChangeConfiguration_ReloadsExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.json"),
		[]byte(`{"html": {"snippets": {"hey": "ul>li*2>span.hello"}}}`), 0o644))

	h, store := newTestHandler(t, 0)
	open(t, h, testURI, "html", "<div>hey</div>")
	assert.Empty(t, completeAt(t, h, testURI, 0, 8).Items)

	require.NoError(t, h.WorkspaceDidChangeConfiguration(nil, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"emmet": map[string]any{"extensionsPath": dir}},
	}))
	store.Wait()
	assert.Equal(t, dir, store.Current().Path)

	list := completeAt(t, h, testURI, 0, 8)
	require.NotEmpty(t, list.Items)
	assert.Equal(t, "hey", list.Items[0].Label)
}

func TestInitialize(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	result, err := h.Initialize(nil, &protocol.InitializeParams{
		InitializationOptions: map[string]any{
			"excludeLanguages": []any{"markdown"},
		},
	})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, serverName, init.ServerInfo.Name)

	require.NotNil(t, init.Capabilities.CompletionProvider)
	assert.Contains(t, init.Capabilities.CompletionProvider.TriggerCharacters, ">")

	assert.Equal(t, []string{"markdown"}, h.currentSettings().ExcludeLanguages)
}

func TestMapCompletionKind(t *testing.T) {
	tests := []struct {
		kind string
		want protocol.CompletionItemKind
	}{
		{lsp.KindAbbreviation, protocol.CompletionItemKindSnippet},
		{lsp.KindSnippet, protocol.CompletionItemKindSnippet},
		{lsp.KindProperty, protocol.CompletionItemKindProperty},
		{"other", protocol.CompletionItemKindText},
	}
	for _, tt := range tests {
		got := mapCompletionKind(tt.kind)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, tt.kind)
	}
}

func TestDidChangeConfiguration_KeepsDefaultExtensionsPath(t *testing.T) {
	store := options.NewStore()
	t.Cleanup(store.Wait)

	defaults := lsp.DefaultSettings()
	defaults.ExtensionsPath = "/srv/emmet"
	h, err := NewGLSPHandler(lsp.NewService(store), defaults, 0)
	require.NoError(t, err)

	require.NoError(t, h.WorkspaceDidChangeConfiguration(nil, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"emmet": map[string]any{"showAbbreviationSuggestions": false}},
	}))
	store.Wait()

	assert.Equal(t, "/srv/emmet", h.currentSettings().ExtensionsPath)
	// Unchanged path: no reload was started
	assert.Equal(t, uint64(0), store.Current().Generation)
}

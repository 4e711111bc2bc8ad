package lsp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/goleak"

	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/options"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func baseSettings() Settings {
	return Settings{
		UseNewEmmet:                 true,
		ShowExpandedAbbreviation:    ShowAlways,
		ShowAbbreviationSuggestions: false,
		SyntaxProfiles:              map[string]any{},
		Variables:                   map[string]string{},
	}
}

func complete(t *testing.T, svc *Service, text, lang string, line, char int, settings Settings) []Candidate {
	t.Helper()
	doc := document.New("test://test/test."+lang, lang, 0, text)
	pos := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
	return svc.Complete(doc, pos, lang, settings)
}

func find(candidates []Candidate, label string) *Candidate {
	for i := range candidates {
		if candidates[i].Label == label {
			return &candidates[i]
		}
	}
	return nil
}

func TestComplete_Expansions(t *testing.T) {
	svc := NewService(options.NewStore())

	tests := []struct {
		content string
		char    int
		label   string
		doc     string
	}{
		{"<div>ul>li*3</div>", 7, "ul", "<ul>|</ul>"},
		{"<div>UL</div>", 7, "UL", "<UL>|</UL>"},
		{"<div>ul>li*3</div>", 10, "ul>li", "<ul>\n\t<li>|</li>\n</ul>"},
		{"<div>ul>li*3</div>", 12, "ul>li*3", "<ul>\n\t<li>|</li>\n\t<li>|</li>\n\t<li>|</li>\n</ul>"},
		{"<div>(ul>li)*3</div>", 14, "(ul>li)*3", "<ul>\n\t<li>|</li>\n</ul>\n<ul>\n\t<li>|</li>\n</ul>\n<ul>\n\t<li>|</li>\n</ul>"},
		{"<div>custom-tag</div>", 15, "custom-tag", "<custom-tag>|</custom-tag>"},
		{"<div>custom:tag</div>", 15, "custom:tag", "<custom:tag>|</custom:tag>"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := complete(t, svc, tt.content, "html", 0, tt.char, baseSettings())
			require.NotEmpty(t, got)
			assert.Equal(t, tt.label, got[0].Label)
			assert.Equal(t, tt.doc, got[0].Documentation)
			assert.Equal(t, "0000", got[0].SortText)
			assert.Equal(t, KindAbbreviation, got[0].Kind)
		})
	}
}

func TestComplete_Range(t *testing.T) {
	svc := NewService(options.NewStore())

	got := complete(t, svc, "<div>ul>li*3</div>", "html", 0, 10, baseSettings())
	require.NotEmpty(t, got)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 5},
		End:   protocol.Position{Line: 0, Character: 10},
	}, got[0].Range)
	assert.Equal(t, "<ul>\n\t<li>${1}</li>\n</ul>", got[0].InsertText)
}

func TestComplete_SnippetPrefixSuggestions(t *testing.T) {
	svc := NewService(options.NewStore())
	settings := baseSettings()
	settings.ShowAbbreviationSuggestions = true

	got := complete(t, svc, "<div> l </div>", "html", 0, 7, settings)

	link := find(got, "link")
	require.NotNil(t, link)
	assert.Equal(t, `<link rel="stylesheet" href="|">`, link.Documentation)
	assert.Equal(t, `<link rel="stylesheet" href="${1}">`, link.InsertText)
	assert.Equal(t, KindSnippet, link.Kind)

	css := find(got, "link:css")
	require.NotNil(t, css)
	assert.Equal(t, `<link rel="stylesheet" href="style.css">`, css.Documentation)
	assert.Equal(t, `<link rel="stylesheet" href="${1:style}.css">`, css.InsertText)

	// "l" alone is noise: every candidate is a suggestion, shortest key first
	require.NotEmpty(t, got)
	assert.NotEqual(t, "l", got[0].Label)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, len(got[i-1].Label), len(got[i].Label), "%s before %s", got[i-1].Label, got[i].Label)
	}
	assert.Equal(t, "0000", got[0].SortText)
}

func TestComplete_SuggestionsExcludeTypedKey(t *testing.T) {
	svc := NewService(options.NewStore())
	settings := baseSettings()
	settings.ShowAbbreviationSuggestions = true

	got := complete(t, svc, "link", "html", 0, 4, settings)
	require.NotEmpty(t, got)
	assert.Equal(t, "link", got[0].Label)
	for _, c := range got[1:] {
		assert.NotEqual(t, "link", c.Label)
		assert.True(t, strings.HasPrefix(c.Label, "link"), c.Label)
	}
}

func TestComplete_StylesheetEscapesDollar(t *testing.T) {
	svc := NewService(options.NewStore())

	got := complete(t, svc, "bim$hello", "scss", 0, 9, baseSettings())
	c := find(got, "background-image: $hello;")
	require.NotNil(t, c)
	assert.Equal(t, "background-image: $hello;", c.Documentation)
	assert.Equal(t, `background-image: \$hello;`, c.InsertText)
	assert.Equal(t, KindProperty, c.Kind)
}

func TestComplete_MarkupKeepsDollar(t *testing.T) {
	svc := NewService(options.NewStore())

	got := complete(t, svc, "div{$5}", "html", 0, 7, baseSettings())
	require.NotEmpty(t, got)
	assert.Equal(t, "<div>$5</div>", got[0].InsertText)
}

func TestComplete_CustomSnippets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.json"),
		[]byte(`{"html": {"snippets": {"hey": "ul>li*2>span.hello"}}}`), 0o644))

	store := options.NewStore()
	require.NoError(t, store.Update(context.Background(), dir))
	svc := NewService(store)

	settings := baseSettings()
	settings.SyntaxProfiles = map[string]any{"html": map[string]any{"tag_case": "lower"}}

	got := complete(t, svc, "<div>hey</div>", "html", 0, 8, settings)
	require.NotEmpty(t, got)
	assert.Equal(t, "hey", got[0].Label)
	assert.Equal(t, "<ul>\n\t<li><span class=\"hello\">|</span></li>\n\t<li><span class=\"hello\">|</span></li>\n</ul>", got[0].Documentation)

	// Clearing the extensions path drops the custom snippet again
	require.NoError(t, store.Update(context.Background(), ""))
	assert.Empty(t, complete(t, svc, "<div>hey</div>", "html", 0, 8, settings))
}

func TestComplete_Noise(t *testing.T) {
	svc := NewService(options.NewStore())

	tests := []struct {
		content string
		char    int
	}{
		{"<div>abc</div>", 8},
		{"<div>Abc</div>", 8},
		{"<div>abc12</div>", 10},
		{"<div>abc.</div>", 9},
		{"<div>(div)</div>", 10},
		{"<div>ul::l</div>", 10},
		{"<div>u:l:l</div>", 10},
		{"<div>u-l-z</div>", 10},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Empty(t, complete(t, svc, tt.content, "html", 0, tt.char, baseSettings()))
		})
	}
}

func TestComplete_StylesheetNoise(t *testing.T) {
	svc := NewService(options.NewStore())

	assert.Empty(t, complete(t, svc, "qqq", "css", 0, 3, baseSettings()))
	assert.NotEmpty(t, complete(t, svc, "m10", "css", 0, 3, baseSettings()))
}

func TestComplete_Lorem(t *testing.T) {
	svc := NewService(options.NewStore())

	got := complete(t, svc, "lorem10.item", "html", 0, 12, baseSettings())
	require.NotEmpty(t, got)
	assert.Equal(t, "lorem10.item", got[0].Label)

	doc := got[0].Documentation
	require.True(t, strings.HasPrefix(doc, `<div class="item">`), doc)
	require.True(t, strings.HasSuffix(doc, `</div>`), doc)
	words := strings.Split(strings.TrimSuffix(strings.TrimPrefix(doc, `<div class="item">`), "</div>"), " ")
	assert.Len(t, words, 10)
	assert.True(t, strings.HasPrefix(words[0], "Lorem"))
}

func TestComplete_OversizeExpansions(t *testing.T) {
	svc := NewService(options.NewStore())

	for _, abbr := range []string{"li*200000", "lorem3000000", "(li*1000)*1000"} {
		t.Run(abbr, func(t *testing.T) {
			start := time.Now()
			got := complete(t, svc, abbr, "html", 0, len(abbr), baseSettings())
			assert.Empty(t, got)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

func TestComplete_Gates(t *testing.T) {
	svc := NewService(options.NewStore())

	t.Run("legacy engine", func(t *testing.T) {
		s := baseSettings()
		s.UseNewEmmet = false
		assert.Empty(t, complete(t, svc, "ul", "html", 0, 2, s))
	})

	t.Run("never", func(t *testing.T) {
		s := baseSettings()
		s.ShowExpandedAbbreviation = ShowNever
		assert.Empty(t, complete(t, svc, "ul", "html", 0, 2, s))
	})

	t.Run("excluded language", func(t *testing.T) {
		s := baseSettings()
		s.ExcludeLanguages = []string{"HTML"}
		assert.Empty(t, complete(t, svc, "ul", "html", 0, 2, s))
	})

	t.Run("known syntaxes only", func(t *testing.T) {
		s := baseSettings()
		s.ShowExpandedAbbreviation = ShowInMarkupAndStylesheetFilesOnly
		assert.NotEmpty(t, complete(t, svc, "ul", "html", 0, 2, s))
		assert.Empty(t, complete(t, svc, "ul", "plaintext", 0, 2, s))
	})

	t.Run("no abbreviation", func(t *testing.T) {
		assert.Empty(t, complete(t, svc, "ul ", "html", 0, 3, baseSettings()))
	})
}

func TestComplete_WithInnerNode(t *testing.T) {
	svc := NewService(options.NewStore())
	s := baseSettings()
	s.ShowExpandedAbbreviation = ShowWithInnerNode

	got := complete(t, svc, "ul>li", "html", 0, 5, s)
	require.Len(t, got, 2)
	assert.Equal(t, "ul>li", got[0].Label)
	assert.Equal(t, "li", got[1].Label)
	assert.Equal(t, "<li>|</li>", got[1].Documentation)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, got[1].Range.Start)
	assert.Equal(t, "0001", got[1].SortText)
}

func TestComplete_Filters(t *testing.T) {
	svc := NewService(options.NewStore())

	got := complete(t, svc, "div.b>div.__e|bem", "html", 0, 17, baseSettings())
	require.NotEmpty(t, got)
	assert.Equal(t, "<div class=\"b\">\n\t<div class=\"b__e\">|</div>\n</div>", got[0].Documentation)
}

func TestLastNode(t *testing.T) {
	assert.Equal(t, "li", lastNode("ul>li"))
	assert.Equal(t, "li[title=a>b]", lastNode("ul>li[title=a>b]"))
	assert.Equal(t, "", lastNode("ul+li"))
	assert.Equal(t, "", lastNode("ul"))
	assert.Equal(t, "", lastNode("(ul>li)"))
}

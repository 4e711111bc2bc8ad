package options

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/emmet/syntax"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestStore_LoadAndClear(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, ""))
	assert.Nil(t, store.Current().BuildConfig("css", Overrides{}).Snippets)

	require.NoError(t, store.Update(ctx, testdata("extensions")))
	snap := store.Current()
	assert.Equal(t, testdata("extensions"), snap.Path)

	css := snap.BuildConfig("css", Overrides{})
	require.NotNil(t, css.Snippets)
	assert.Contains(t, css.Snippets, "ch")

	scss := snap.BuildConfig("scss", Overrides{})
	assert.Contains(t, scss.Snippets, "ch", "scss inherits css snippets")

	html := snap.BuildConfig("html", Overrides{})
	assert.Equal(t, "ul>li*2>span.hello", html.Snippets["hey"])
	assert.NotContains(t, html.Snippets, "ch")

	require.NoError(t, store.Update(ctx, ""))
	assert.Nil(t, store.Current().BuildConfig("css", Overrides{}).Snippets)
	assert.Empty(t, store.Current().BuildConfig("html", Overrides{}).Variables)
}

func TestStore_ExternalVariables(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Update(context.Background(), testdata("extensions")))
	snap := store.Current()

	cfg := snap.BuildConfig("html", Overrides{})
	assert.Equal(t, "fr", cfg.Variables["lang"])

	// Per-syntax variables layer over the global ones
	cfg = snap.BuildConfig("scss", Overrides{})
	assert.Equal(t, "ISO-8859-1", cfg.Variables["charset"])
	assert.Equal(t, "fr", cfg.Variables["lang"])

	// The caller's variables are applied last
	cfg = snap.BuildConfig("html", Overrides{Variables: map[string]string{"lang": "en"}})
	assert.Equal(t, "en", cfg.Variables["lang"])
}

func TestStore_ExternalProfiles(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Update(context.Background(), testdata("extensions")))
	snap := store.Current()

	cfg := snap.BuildConfig("html", Overrides{})
	assert.Equal(t, "upper", cfg.Profile.TagCase)
	assert.Equal(t, "single", cfg.Profile.AttributeQuotes)

	// Settings profiles override the file
	cfg = snap.BuildConfig("html", Overrides{SyntaxProfiles: map[string]any{
		"html": map[string]any{"tag_case": "lower"},
	}})
	assert.Equal(t, "lower", cfg.Profile.TagCase)
	assert.Equal(t, "single", cfg.Profile.AttributeQuotes)

	// A preset name stands in for a whole profile
	assert.Equal(t, SelfClosingXHTML, snap.BuildConfig("xml", Overrides{}).Profile.SelfClosingStyle)
}

func TestStore_ExtendsDeclaration(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Update(context.Background(), testdata("extensions")))
	snap := store.Current()

	cfg := snap.BuildConfig("postcss", Overrides{})
	assert.Equal(t, syntax.Stylesheet, cfg.Family)
	assert.Equal(t, []string{"postcss", "scss", "css"}, cfg.Chain)
	assert.Contains(t, cfg.Snippets, "pc")
	assert.Contains(t, cfg.Snippets, "ch")
}

func TestStore_YAMLAndTOML(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, testdata("extensions-yaml")))
	cfg := store.Current().BuildConfig("html", Overrides{})
	assert.Equal(t, "de", cfg.Variables["lang"])
	assert.Contains(t, cfg.Snippets, "card")
	assert.Equal(t, "upper", cfg.Profile.TagCase)
	assert.Equal(t, 0, cfg.Profile.InlineBreak)

	require.NoError(t, store.Update(ctx, testdata("extensions-toml")))
	snap := store.Current()
	cfg = snap.BuildConfig("scss", Overrides{})
	assert.Equal(t, "nl", cfg.Variables["lang"])
	assert.Equal(t, "@include mixin(${1})", cfg.Snippets["mx"])

	cfg = snap.BuildConfig("html", Overrides{})
	assert.Equal(t, SelfClosingXML, cfg.Profile.SelfClosingStyle)
	assert.Equal(t, 5, cfg.Profile.InlineBreak)
}

func TestStore_MissingOrCorruptSourceIsEmpty(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, dir := range []string{testdata("corrupt"), testdata("does-not-exist")} {
		require.NoError(t, store.Update(ctx, dir))
		cfg := store.Current().BuildConfig("html", Overrides{})
		assert.Nil(t, cfg.Snippets, "%s: no section for html", dir)
		assert.Empty(t, cfg.Variables)
	}
}

func TestStore_StaleLoadDoesNotClobber(t *testing.T) {
	store := NewStore()

	newer := emptySnapshot(5)
	newer.Path = "newer"
	require.True(t, store.commit(newer))

	older := emptySnapshot(3)
	older.Path = "older"
	assert.False(t, store.commit(older))

	assert.Equal(t, "newer", store.Current().Path)
}

func TestStore_ConcurrentUpdatesSettleOnLatest(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := ""
			if i%2 == 0 {
				path = testdata("extensions")
			}
			<-store.UpdateAsync(path)
		}(i)
	}
	wg.Wait()

	// A final sequential update always wins
	require.NoError(t, store.Update(context.Background(), testdata("extensions-yaml")))
	store.Wait()

	snap := store.Current()
	assert.Equal(t, testdata("extensions-yaml"), snap.Path)
	assert.Equal(t, uint64(9), snap.Generation)
}

func TestStore_CancelledWaitStillCommits(t *testing.T) {
	store := NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, testdata("extensions"))
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}

	store.Wait()
	assert.Equal(t, testdata("extensions"), store.Current().Path)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, testdata("extensions"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("/ext/snippets.json"))
	assert.True(t, IsSourceFile("syntaxProfiles.yml"))
	assert.True(t, IsSourceFile("snippets.toml"))
	assert.False(t, IsSourceFile("snippets.json.swp"))
	assert.False(t, IsSourceFile("other.json"))
}

package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/emmet/errors"
)

func newTestWatcher(t *testing.T) (*ExtensionsWatcher, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewExtensionsWatcher(dir)
	require.NoError(t, err)
	w.debouncePeriod = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Stop() })
	return w, dir
}

func TestExtensionsWatcher_ReloadsOnSnippetChange(t *testing.T) {
	w, dir := newTestWatcher(t)

	reloaded := make(chan string, 4)
	w.OnReload(func(path string) error {
		reloaded <- path
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.json"), []byte(`{}`), 0o644))

	select {
	case path := <-reloaded:
		assert.Equal(t, dir, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing snippets.json")
	}
}

func TestExtensionsWatcher_IgnoresOtherFiles(t *testing.T) {
	w, dir := newTestWatcher(t)

	var calls atomic.Int32
	w.OnReload(func(string) error {
		calls.Add(1)
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestExtensionsWatcher_DebouncesBursts(t *testing.T) {
	w, dir := newTestWatcher(t)
	w.debouncePeriod = 200 * time.Millisecond

	var calls atomic.Int32
	w.OnReload(func(string) error {
		calls.Add(1)
		return nil
	})
	w.Start()

	path := filepath.Join(dir, "syntaxProfiles.json")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"html": "xhtml"}`), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExtensionsWatcher_CallbackErrorDoesNotStopOthers(t *testing.T) {
	w, dir := newTestWatcher(t)

	done := make(chan struct{}, 1)
	w.OnReload(func(string) error { return errors.New("boom") })
	w.OnReload(func(string) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.yaml"), []byte("html: {}"), 0o644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second callback not called")
	}
}

func TestExtensionsWatcher_MissingDirectory(t *testing.T) {
	_, err := NewExtensionsWatcher(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestExtensionsWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewExtensionsWatcher(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

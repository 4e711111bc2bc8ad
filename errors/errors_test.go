package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestNewInvalidAbbreviation(t *testing.T) {
	err := NewInvalidAbbreviation("(hello)")
	require.Error(t, err)

	assert.True(t, IsInvalidAbbreviation(err))
	assert.False(t, IsSourceUnavailable(err))
	assert.Contains(t, err.Error(), `"(hello)"`)
	assert.Contains(t, FlattenDetails(err), "abbreviation: (hello)")
}

func TestWrapSourceUnavailable(t *testing.T) {
	err := WrapSourceUnavailable(fs.ErrNotExist, "/tmp/snippets")

	assert.True(t, IsSourceUnavailable(err))
	assert.Contains(t, err.Error(), "/tmp/snippets")
}

func TestSentinelsNil(t *testing.T) {
	assert.False(t, IsSourceUnavailable(nil))
	assert.False(t, IsInvalidAbbreviation(nil))
	assert.False(t, IsExpansionTooLarge(nil))
	assert.True(t, IsExpansionTooLarge(Wrapf(ErrExpansionTooLarge, "repeat count %d", 5000)))
}

func TestWithHint(t *testing.T) {
	err := WithHint(Wrap(ErrCyclicInheritance, "scss"), "remove the extends entry")

	assert.True(t, Is(err, ErrCyclicInheritance))
	assert.Contains(t, FlattenHints(err), "remove the extends entry")
}

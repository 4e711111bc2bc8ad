package abbreviation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/syntax"
)

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func TestExtract_Greedy(t *testing.T) {
	doc := document.New("test://test/test.html", "html", 0, "<div>ul>li*3</div>")

	tests := []struct {
		column int
		want   string
	}{
		{7, "ul"},
		{10, "ul>li"},
		{12, "ul>li*3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Extract(doc, pos(0, tt.column))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Abbreviation)
			assert.Empty(t, got.Filters)
			assert.Equal(t, pos(0, 5), got.Range.Start)
			assert.Equal(t, pos(0, tt.column), got.Range.End)
		})
	}
}

func TestExtract_Filters(t *testing.T) {
	doc := document.New("test://test/test.html", "html", 0, "ul>li|bem")

	got := Extract(doc, pos(0, 9))
	require.NotNil(t, got)
	assert.Equal(t, "ul>li", got.Abbreviation)
	assert.Equal(t, []string{"bem"}, got.Filters)
	// The range covers the filter suffix as well
	assert.Equal(t, pos(0, 0), got.Range.Start)
	assert.Equal(t, pos(0, 9), got.Range.End)
}

func TestExtract_MultipleFilters(t *testing.T) {
	doc := document.New("test://x", "html", 0, "  ul>li|bem|c")
	got := Extract(doc, pos(0, 13))
	require.NotNil(t, got)
	assert.Equal(t, []string{"bem", "c"}, got.Filters)
	assert.Equal(t, pos(0, 2), got.Range.Start)
}

func TestExtract_StopsAtWhitespace(t *testing.T) {
	doc := document.New("test://x", "html", 0, "<div> l </div>")
	got := Extract(doc, pos(0, 7))
	require.NotNil(t, got)
	assert.Equal(t, "l", got.Abbreviation)
	assert.Equal(t, pos(0, 6), got.Range.Start)
}

func TestExtract_AttributesWithSpaces(t *testing.T) {
	doc := document.New("test://x", "html", 0, `x a[title="hello world"]`)
	got := Extract(doc, pos(0, 24))
	require.NotNil(t, got)
	assert.Equal(t, `a[title="hello world"]`, got.Abbreviation)
}

func TestExtract_SecondLine(t *testing.T) {
	doc := document.New("test://x", "css", 0, "a {\n  m10\n}")
	got := Extract(doc, pos(1, 5))
	require.NotNil(t, got)
	assert.Equal(t, "m10", got.Abbreviation)
	assert.Equal(t, pos(1, 2), got.Range.Start)
	assert.Equal(t, pos(1, 5), got.Range.End)
}

func TestExtract_Invalid(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
	}{
		{"empty line", "html", ""},
		{"trailing space", "html", "ul "},
		{"prose group", "html", "(hello)"},
		{"stray bang", "html", "!ul!"},
		{"digits in css", "css", "123"},
		{"unbalanced bracket", "html", "title]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New("test://x", tt.lang, 0, tt.text)
			assert.Nil(t, Extract(doc, doc.PositionAt(len(tt.text))))
		})
	}
}

func TestExtractFor_FamilyOverride(t *testing.T) {
	// A stylesheet family rejects child operators that markup accepts
	doc := document.New("test://x", "html", 0, "ul>li")
	assert.NotNil(t, ExtractFor(doc, pos(0, 5), syntax.Markup))
	assert.Nil(t, ExtractFor(doc, pos(0, 5), syntax.Stylesheet))
}

func TestExtractFromText(t *testing.T) {
	got := ExtractFromText("ul>li")
	require.NotNil(t, got)
	assert.Equal(t, "ul>li", got.Abbreviation)
	assert.Empty(t, got.Filters)

	got = ExtractFromText("ul>li|t")
	require.NotNil(t, got)
	assert.Equal(t, "ul>li", got.Abbreviation)
	assert.Equal(t, []string{"t"}, got.Filters)

	got = ExtractFromText("first line\nsome text div.a")
	require.NotNil(t, got)
	assert.Equal(t, "div.a", got.Abbreviation)

	assert.Nil(t, ExtractFromText("trailing "))
}

func TestSplit_PipeInsideAttribute(t *testing.T) {
	got := split(`a[title="x|y"]`)
	require.NotNil(t, got)
	assert.Equal(t, `a[title="x|y"]`, got.Abbreviation)
	assert.Empty(t, got.Filters)

	got = split(`a{x|y z}|c`)
	require.NotNil(t, got)
	assert.Equal(t, `a{x|y z}`, got.Abbreviation)
	assert.Equal(t, []string{"c"}, got.Filters)
}

package expand

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/options"
)

func TestExpand_Stylesheet(t *testing.T) {
	css := config(t, "css", options.Overrides{})

	tests := []struct {
		abbr string
		want string
	}{
		{"m10", "margin: 10px;"},
		{"m-10", "margin: -10px;"},
		{"m10-20", "margin: 10px 20px;"},
		{"m10--20", "margin: 10px -20px;"},
		{"p10p", "padding: 10%;"},
		{"w1.5", "width: 1.5em;"},
		{"h0", "height: 0;"},
		{"lh1.5", "line-height: 1.5;"},
		{"z10", "z-index: 10;"},
		{"m10e", "margin: 10em;"},
		{"m2r", "margin: 2rem;"},
		{"m:a", "margin: auto;"},
		{"c#f", "color: #fff;"},
		{"c#fc", "color: #fcfcfc;"},
		{"c#abc", "color: #abc;"},
		{"#fc0", "color: #fc0;"},
		{"pos:a", "position: absolute;"},
		{"d:n", "display: none;"},
		{"m", "margin: |;"},
		{"pos", "position: relative;"},
		{"m10+p5", "margin: 10px;\npadding: 5px;"},
		{"m10!", "margin: 10px !important;"},
		{"!", "!important"},
		{"@i", "@import url(|);"},
		{"bim$hello", "background-image: $hello;"},
		{"bgc@brand", "background-color: @brand;"},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			got := expandString(t, tt.abbr, css, options.PreviewField)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Expand(%q) mismatch (-want +got):\n%s", tt.abbr, diff)
			}
		})
	}
}

func TestExpand_StylesheetFields(t *testing.T) {
	css := config(t, "css", options.Overrides{})

	assert.Equal(t, "margin: ${1};", expandString(t, "m", css, nil))
	assert.Equal(t, "border: ${1:1px} ${2:solid} ${3:#000};", expandString(t, "bd", css, nil))
	// Each declaration numbers its own stops from where the last left off
	assert.Equal(t, "margin: ${1};\npadding: ${2};", expandString(t, "m+p", css, nil))
}

func TestExpand_IndentedStylesheet(t *testing.T) {
	sass := config(t, "sass", options.Overrides{})

	assert.Equal(t, "margin: 10px", expandString(t, "m10", sass, options.PreviewField))
	assert.Equal(t, "position: absolute", expandString(t, "pos:a", sass, options.PreviewField))
}

func TestExpand_StylesheetCustomSnippet(t *testing.T) {
	snap := &options.Snapshot{
		Registry: options.Registry{
			"css": {"ch": "color: hsl(${1:0}, ${2:50%}, ${3:50%})"},
		},
	}
	cfg := snap.BuildConfig("scss", options.Overrides{})

	got := expandString(t, "ch", cfg, nil)
	assert.Equal(t, "color: hsl(${1:0}, ${2:50%}, ${3:50%});", got)
}

func TestExpand_StylesheetInvalid(t *testing.T) {
	css := config(t, "css", options.Overrides{})

	_, err := New().Expand("10", css)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidAbbreviation(err))
}

func TestFuzzyProperty(t *testing.T) {
	tests := []struct {
		abbr string
		want string
	}{
		{"bim", "background-image"},
		{"lh", "line-height"},
		{"ta", "text-align"},
		{"fw", "font-weight"},
	}
	for _, tt := range tests {
		got, ok := fuzzyProperty(tt.abbr)
		require.True(t, ok, tt.abbr)
		assert.Equal(t, tt.want, got, tt.abbr)
	}

	_, ok := fuzzyProperty("qqq")
	assert.False(t, ok)
}

func TestSplitValue(t *testing.T) {
	assert.Equal(t, []string{"10", "20"}, splitValue("10-20"))
	assert.Equal(t, []string{"-10", "-20"}, splitValue("-10--20"))
	assert.Equal(t, []string{"1", "s", "#000"}, splitValue("1-s-#000"))
	assert.Equal(t, []string{"$my-var"}, splitValue("$my-var"))
}

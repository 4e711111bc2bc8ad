package abbreviation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_Markup(t *testing.T) {
	valid := []string{
		"ul>li", "ul", "h1", "ul>li*3", "(ul>li)+div", ".hello", "!", "#hello",
		".item[id=ok]", "(ul>li)*3", "custom-tag", "custom:tag", "lorem10.item",
		"div>p^^section", "a{click me}", `a[title="x y"]`, "abc.", "img/", "li.item$*3",
	}
	invalid := []string{
		"", "!ul!", "(hello)", "123", "ul>", ">ul", "ul li", "a(b)", "ul>li*3x",
		"a[title", "(ul>li", "ul>li)", "=x",
	}

	for _, syntaxID := range []string{"html", "haml"} {
		for _, text := range valid {
			assert.True(t, IsValid(syntaxID, text), "%s: %q should be valid", syntaxID, text)
		}
		for _, text := range invalid {
			assert.False(t, IsValid(syntaxID, text), "%s: %q should be invalid", syntaxID, text)
		}
	}
}

func TestIsValid_Stylesheet(t *testing.T) {
	valid := []string{
		"m10", "bim$hello", "p10p", "-webkit-t", "!", "@f", "#fc0", "#ffcc00",
		"m10+p5", "c#f00", "w100!", "lg(top, #fff, #000)",
	}
	invalid := []string{
		"", "123", "#zz", "#fc0fc0f", "div#id", "ul>li", "a*3", "m10 p5",
		"a[b]", "lg(top", "5px",
	}

	for _, syntaxID := range []string{"css", "scss"} {
		for _, text := range valid {
			assert.True(t, IsValid(syntaxID, text), "%s: %q should be valid", syntaxID, text)
		}
		for _, text := range invalid {
			assert.False(t, IsValid(syntaxID, text), "%s: %q should be invalid", syntaxID, text)
		}
	}
}

func TestIsValid_UnknownSyntaxIsMarkup(t *testing.T) {
	assert.True(t, IsValid("foobar", "ul>li"))
	assert.False(t, IsValid("foobar", "(hello)"))
}

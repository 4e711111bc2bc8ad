package syntax

import "strings"

var htmlTags = makeSet(
	"a", "abbr", "address", "area", "article", "aside", "audio",
	"b", "base", "bdi", "bdo", "blockquote", "body", "br", "button",
	"canvas", "caption", "cite", "code", "col", "colgroup",
	"data", "datalist", "dd", "del", "details", "dfn", "dialog", "div", "dl", "dt",
	"em", "embed",
	"fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "hr", "html",
	"i", "iframe", "img", "input", "ins",
	"kbd", "label", "legend", "li", "link",
	"main", "map", "mark", "menu", "meta", "meter",
	"nav", "noscript",
	"object", "ol", "optgroup", "option", "output",
	"p", "param", "picture", "pre", "progress",
	"q", "rp", "rt", "ruby",
	"s", "samp", "script", "search", "section", "select", "slot", "small", "source",
	"span", "strong", "style", "sub", "summary", "sup", "svg",
	"table", "tbody", "td", "template", "textarea", "tfoot", "th", "thead", "time",
	"title", "tr", "track",
	"u", "ul", "var", "video", "wbr",
)

// Elements rendered without a closing tag
var voidTags = makeSet(
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link",
	"meta", "param", "source", "track", "wbr",
)

// Elements that flow inside a line of text
var inlineTags = makeSet(
	"a", "abbr", "acronym", "b", "bdo", "big", "br", "button", "cite", "code",
	"del", "dfn", "em", "font", "i", "img", "input", "ins", "kbd", "label",
	"map", "mark", "object", "q", "s", "samp", "select", "small", "span",
	"strike", "strong", "sub", "sup", "textarea", "tt", "u", "var",
)

// IsHTMLTag reports whether name is a standard HTML element, ignoring case
func IsHTMLTag(name string) bool {
	return htmlTags[strings.ToLower(name)]
}

// IsVoidTag reports whether name is an HTML element without closing tag
func IsVoidTag(name string) bool {
	return voidTags[strings.ToLower(name)]
}

// IsInlineTag reports whether name is an inline-level HTML element
func IsInlineTag(name string) bool {
	return inlineTags[strings.ToLower(name)]
}

func makeSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

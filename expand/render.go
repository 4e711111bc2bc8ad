package expand

import (
	"regexp"
	"strings"

	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/syntax"
)

var listMarker = regexp.MustCompile(`(?m)^\s*(?:[-*\x{2022}]|\d+[.)])\s+`)

// formatSkip lists elements whose children are not indented
var formatSkip = map[string]bool{"html": true}

var jsxAttributes = map[string]string{
	"class": "className",
	"for":   "htmlFor",
}

type renderer struct {
	cfg     *options.Config
	profile options.Profile
	vars    map[string]string
	indent  string
	jsx     bool
	trim    bool
	comment *options.Comment
	out     []piece
}

func newRenderer(cfg *options.Config, vars map[string]string) *renderer {
	r := &renderer{
		cfg:     cfg,
		profile: cfg.Profile,
		vars:    vars,
		indent:  vars["indentation"],
		jsx:     cfg.Addons.Has(options.AddonJSX),
		trim:    cfg.Addons.Has(options.AddonTrim),
	}
	if v, ok := cfg.Addons.Get(options.AddonComment); ok {
		if c, ok := v.(options.Comment); ok {
			r.comment = &c
		}
	}
	return r
}

func (r *renderer) list(nodes []*node, depth int) {
	broken := r.breaks(nodes)
	for i, n := range nodes {
		if i > 0 && broken {
			r.newline(depth)
		}
		r.node(n, depth)
	}
}

func (r *renderer) node(n *node, depth int) {
	if n.isText() {
		r.content(n.text, n.scope)
		return
	}

	if r.comment != nil && r.comment.Before != "" {
		r.commentText(n, r.comment.Before, depth)
	}

	name := r.tagName(n.name)
	r.text("<" + name)
	for _, a := range n.attrs {
		r.attribute(a, n.scope)
	}

	if n.selfClose || (syntax.IsVoidTag(n.name) && len(n.children) == 0 && !n.hasText) {
		r.text(r.selfClosing())
		if r.comment != nil {
			r.commentText(n, r.comment.After, depth)
		}
		return
	}
	r.text(">")

	childDepth := depth + 1
	if formatSkip[strings.ToLower(n.name)] {
		childDepth = depth
	}

	switch {
	case len(n.children) > 0:
		if n.hasText {
			r.content(n.text, n.scope)
		}
		if r.breaks(n.children) {
			for _, c := range n.children {
				r.newline(childDepth)
				r.node(c, childDepth)
			}
			r.newline(depth)
		} else {
			for _, c := range n.children {
				r.node(c, childDepth)
			}
		}
	case n.hasText && n.text != "":
		r.content(n.text, n.scope)
	default:
		r.field(autoIndex, "", n.scope)
	}

	r.text("</" + name + ">")
	if r.comment != nil {
		r.commentText(n, r.comment.After, depth)
	}
}

func (r *renderer) attribute(a attribute, scope int) {
	name := a.name
	if r.jsx {
		if renamed, ok := jsxAttributes[name]; ok {
			name = renamed
		}
	}
	switch r.profile.AttributeCase {
	case "upper":
		name = strings.ToUpper(name)
	case "lower":
		name = strings.ToLower(name)
	}

	if a.boolean {
		if r.profile.SelfClosingStyle == options.SelfClosingHTML && !r.jsx {
			r.text(" " + name)
			return
		}
		r.text(" " + name + "=" + r.quote() + name + r.quote())
		return
	}

	q := r.quote()
	r.text(" " + name + "=" + q)
	if a.value == "" {
		r.field(autoIndex, "", scope)
	} else {
		r.template(a.value, scope)
	}
	r.text(q)
}

func (r *renderer) quote() string {
	if r.profile.AttributeQuotes == "single" && !r.jsx {
		return "'"
	}
	return `"`
}

func (r *renderer) selfClosing() string {
	style := r.profile.SelfClosingStyle
	if r.jsx {
		style = options.SelfClosingXML
	}
	switch style {
	case options.SelfClosingXHTML:
		return " />"
	case options.SelfClosingXML:
		return "/>"
	}
	return ">"
}

func (r *renderer) tagName(name string) string {
	switch r.profile.TagCase {
	case "upper":
		return strings.ToUpper(name)
	case "lower":
		return strings.ToLower(name)
	}
	return name
}

// breaks reports whether siblings go on lines of their own: any block
// element does it, and so do inline runs reaching the inline break
func (r *renderer) breaks(nodes []*node) bool {
	if !r.profile.Format {
		return false
	}
	inline := 0
	for _, n := range nodes {
		if n.isText() {
			continue
		}
		if !isInline(n) {
			return true
		}
		inline++
	}
	return r.profile.InlineBreak > 0 && inline >= r.profile.InlineBreak
}

func isInline(n *node) bool {
	if n.isText() {
		return true
	}
	if !syntax.IsInlineTag(n.name) {
		return false
	}
	for _, c := range n.children {
		if !isInline(c) {
			return false
		}
	}
	return true
}

// commentText writes a comment template for n. [#ID] and [.CLASS] style
// tokens print their bracket content only when the attribute is set.
func (r *renderer) commentText(n *node, tmpl string, depth int) {
	id, _ := n.attr("id")
	class, _ := n.attr("class")
	if id == "" && class == "" {
		return
	}

	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '[' {
			b.WriteByte(tmpl[i])
			continue
		}
		end := strings.IndexByte(tmpl[i:], ']')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		token := tmpl[i+1 : i+end]
		i += end
		switch {
		case strings.Contains(token, "ID") && id != "":
			b.WriteString(strings.Replace(token, "ID", id, 1))
		case strings.Contains(token, "CLASS") && class != "":
			b.WriteString(strings.Replace(token, "CLASS", strings.Join(strings.Fields(class), "."), 1))
		}
	}

	text := b.String()
	if r.profile.Format {
		text = strings.ReplaceAll(text, "\n", "\n"+strings.Repeat(r.indent, depth))
	} else {
		text = strings.ReplaceAll(text, "\n", "")
	}
	r.template(text, n.scope)
}

// content writes element text, stripping list markers under the trim addon
func (r *renderer) content(text string, scope int) {
	if r.trim {
		text = listMarker.ReplaceAllString(text, "")
	}
	r.template(text, scope)
}

func (r *renderer) newline(depth int) {
	r.text("\n" + strings.Repeat(r.indent, depth))
}

func (r *renderer) text(s string) {
	if s == "" {
		return
	}
	if last := len(r.out) - 1; last >= 0 && !r.out[last].field {
		r.out[last].text += s
		return
	}
	r.out = append(r.out, piece{text: s})
}

func (r *renderer) field(index int, placeholder string, scope int) {
	r.out = append(r.out, piece{field: true, index: index, placeholder: placeholder, scope: scope})
}

func (r *renderer) template(s string, scope int) {
	for _, p := range parseTemplate(s, r.vars) {
		if p.field {
			r.field(p.index, p.placeholder, scope)
		} else {
			r.text(p.text)
		}
	}
}

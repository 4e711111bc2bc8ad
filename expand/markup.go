package expand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/syntax"
)

// maxSnippetDepth bounds nested snippet resolution
const maxSnippetDepth = 16

// Expansion limits, per abbreviation. Completion expands on every
// keystroke, so asking for more fails with ErrExpansionTooLarge.
const (
	MaxRepeat     = 1000
	MaxElements   = 10000
	MaxLoremWords = 5000
)

var loremPattern = regexp.MustCompile(`^(?:lorem|lipsum)(\d*)$`)

// markup expands one markup abbreviation
type markup struct {
	cfg      *options.Config
	scopes   int
	elements int
	words    int
}

func (m *markup) newScope() int {
	m.scopes++
	return m.scopes
}

// build parses abbr and turns it into a flat list of concrete top-level
// nodes: snippets resolved, repeats unrolled, implicit names filled in
func (m *markup) build(abbr string) ([]*node, error) {
	var root *node
	if _, ok := lookup(m.cfg.Snippets, markupIndex, abbr); ok {
		// A whole-string snippet key may hold characters the parser treats
		// as operators (ul+, table+)
		root = &node{group: true}
		root.add(&node{name: abbr})
	} else {
		var err error
		if root, err = parse(abbr); err != nil {
			return nil, err
		}
	}

	m.resolve(root, map[string]bool{}, 0)
	top, err := m.unroll(root.children, numbering{}, map[int]int{})
	if err != nil {
		return nil, err
	}
	for _, n := range top {
		n.parent = nil
	}
	if err := m.finish(top, ""); err != nil {
		return nil, err
	}
	return top, nil
}

// resolve replaces elements named after a snippet with the snippet's tree
func (m *markup) resolve(parent *node, visited map[string]bool, depth int) {
	var out []*node
	for _, n := range parent.children {
		if n.resolved {
			out = append(out, n)
			continue
		}
		m.resolve(n, visited, depth)

		value, ok := "", false
		if !n.group && n.name != "" && !visited[n.name] && depth < maxSnippetDepth {
			value, ok = lookup(m.cfg.Snippets, markupIndex, n.name)
		}
		if !ok {
			out = append(out, n)
			continue
		}
		out = append(out, m.instantiate(n, value, visited, depth)...)
	}

	parent.children = nil
	for _, n := range out {
		parent.add(n)
	}
}

// instantiate builds the snippet tree for n and merges n's own attributes,
// text, children and repeat count into it
func (m *markup) instantiate(n *node, value string, visited map[string]bool, depth int) []*node {
	var roots []*node
	if snippetRoot, err := parse(value); err != nil || strings.HasPrefix(strings.TrimSpace(value), "<") {
		roots = []*node{{text: value, hasText: true}}
	} else {
		roots = snippetRoot.children
	}
	if len(roots) == 0 {
		roots = []*node{{hasText: true}}
	}

	scope := m.newScope()
	for _, r := range roots {
		setScope(r, scope)
	}

	// n's children were resolved already; protect them from the snippet's
	// own resolution pass
	for _, c := range n.children {
		c.resolved = true
	}

	if first := roots[0]; !first.group && !first.isText() {
		for _, a := range n.attrs {
			if a.boolean {
				first.attrs = append(first.attrs, a)
				continue
			}
			first.setAttr(a.name, a.value)
		}
		if n.selfClose {
			first.selfClose = true
		}
	} else if len(n.attrs) > 0 {
		// Attributes need an element to land on
		wrapped := &node{group: false, attrs: n.attrs}
		for _, r := range roots {
			wrapped.add(r)
		}
		roots = []*node{wrapped}
	}

	last := deepest(roots[len(roots)-1])
	if n.hasText {
		last.text += n.text
		last.hasText = true
	}
	for _, c := range n.children {
		last.add(c)
	}

	holder := &node{group: true}
	for _, r := range roots {
		holder.add(r)
	}
	next := make(map[string]bool, len(visited)+1)
	for k := range visited {
		next[k] = true
	}
	next[n.name] = true
	m.resolve(holder, next, depth+1)
	roots = holder.children

	if n.repeat > 0 {
		if len(roots) == 1 && roots[0].repeat == 0 {
			roots[0].repeat = n.repeat
		} else {
			group := &node{group: true, repeat: n.repeat}
			for _, r := range roots {
				group.add(r)
			}
			roots = []*node{group}
		}
	}
	return roots
}

func setScope(n *node, scope int) {
	n.scope = scope
	for _, c := range n.children {
		setScope(c, scope)
	}
}

func deepest(n *node) *node {
	for len(n.children) > 0 {
		n = n.children[len(n.children)-1]
	}
	return n
}

// unroll copies repeated nodes, numbers them and flattens groups. Each
// copy gets fresh field scopes so its cursor stops are its own.
func (m *markup) unroll(list []*node, num numbering, scopes map[int]int) ([]*node, error) {
	var out []*node
	for _, n := range list {
		count := 1
		if n.repeat > MaxRepeat {
			return nil, errors.Wrapf(errors.ErrExpansionTooLarge, "repeat count %d exceeds %d", n.repeat, MaxRepeat)
		}
		if n.repeat > 0 {
			count = n.repeat
		}
		for i := 1; i <= count; i++ {
			ctx, copyScopes := num, scopes
			if n.repeat > 0 {
				ctx = numbering{index: i, total: count}
				copyScopes = map[int]int{}
			}

			children, err := m.unroll(n.children, ctx, copyScopes)
			if err != nil {
				return nil, err
			}
			if n.group {
				out = append(out, children...)
				continue
			}

			m.elements++
			if m.elements > MaxElements {
				return nil, errors.Wrapf(errors.ErrExpansionTooLarge, "more than %d elements", MaxElements)
			}
			clone := &node{
				name:      ctx.apply(n.name),
				text:      ctx.apply(n.text),
				hasText:   n.hasText,
				selfClose: n.selfClose,
				scope:     m.remap(copyScopes, n.scope),
			}
			for _, a := range n.attrs {
				clone.attrs = append(clone.attrs, attribute{
					name:    ctx.apply(a.name),
					value:   ctx.apply(a.value),
					boolean: a.boolean,
				})
			}
			for _, c := range children {
				clone.add(c)
			}
			out = append(out, clone)
		}
	}
	return out, nil
}

func (m *markup) remap(scopes map[int]int, scope int) int {
	if s, ok := scopes[scope]; ok {
		return s
	}
	s := m.newScope()
	scopes[scope] = s
	return s
}

// finish generates lorem text and implicit tag names
func (m *markup) finish(list []*node, parentName string) error {
	for _, n := range list {
		if match := loremPattern.FindStringSubmatch(strings.ToLower(n.name)); match != nil {
			count := defaultLoremWords
			if match[1] != "" {
				// Digits only, so the one possible error is ErrRange with count saturated
				count, _ = strconv.Atoi(match[1])
			}
			if count > MaxLoremWords-m.words {
				return errors.Wrapf(errors.ErrExpansionTooLarge, "more than %d lorem words", MaxLoremWords)
			}
			m.words += count
			n.name = ""
			n.text = lorem(count)
			n.hasText = true
			if listParent(parentName) {
				n.name = implicitTag(parentName)
			}
		}
		if n.name == "" && !n.isText() {
			n.name = implicitTag(parentName)
		}
		if err := m.finish(n.children, n.name); err != nil {
			return err
		}
	}
	return nil
}

// listParent reports whether parent only holds elements of one kind, so
// bare text inside it still needs a wrapping element
func listParent(parent string) bool {
	switch tag := implicitTag(parent); tag {
	case "div", "span":
		return false
	}
	return true
}

// implicitTag names an element written without a tag, from its parent
func implicitTag(parent string) string {
	switch strings.ToLower(parent) {
	case "ul", "ol":
		return "li"
	case "table", "tbody", "thead", "tfoot":
		return "tr"
	case "tr":
		return "td"
	case "select", "optgroup", "datalist":
		return "option"
	case "audio", "video", "picture":
		return "source"
	case "map":
		return "area"
	case "dl":
		return "dt"
	}
	if syntax.IsInlineTag(parent) {
		return "span"
	}
	return "div"
}

package expand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/emmet/errors"
)

type attribute struct {
	name    string
	value   string // template text; empty receives a cursor stop
	boolean bool   // written as [name.]: rendered without a value
}

// node is one element, text run or group of a markup abbreviation tree
type node struct {
	name      string
	attrs     []attribute
	text      string
	hasText   bool
	repeat    int // 0 when not multiplied
	selfClose bool
	group     bool

	children []*node
	parent   *node

	scope    int  // field scope; fields are numbered per scope
	resolved bool // snippet resolution already ran on this subtree
}

func (n *node) add(child *node) {
	child.parent = n
	n.children = append(n.children, child)
}

// isText reports whether n renders as bare text without a tag
func (n *node) isText() bool {
	return !n.group && n.name == "" && len(n.attrs) == 0 && len(n.children) == 0 && n.hasText
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// setAttr replaces an attribute in place or appends it. Classes accumulate.
func (n *node) setAttr(name, value string) {
	for i, a := range n.attrs {
		if a.name != name {
			continue
		}
		if name == "class" && a.value != "" && value != "" {
			n.attrs[i].value = a.value + " " + value
		} else if value != "" || name != "class" {
			n.attrs[i].value = value
		}
		return
	}
	n.attrs = append(n.attrs, attribute{name: name, value: value})
}

type parser struct {
	src string
	pos int
}

// parse reads a markup abbreviation into a tree under a root group
func parse(abbr string) (*node, error) {
	p := &parser{src: abbr}
	root := &node{group: true}
	if err := p.expr(root); err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return root, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Wrapf(errors.NewInvalidAbbreviation(p.src), "at %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) expr(container *node) error {
	ctx := container
	var last *node
	dangling := false

	for p.pos < len(p.src) {
		switch ch := p.src[p.pos]; ch {
		case ')':
			if dangling {
				return p.errorf("operator without following element")
			}
			return nil

		case '>':
			if last == nil {
				return p.errorf("child operator without element")
			}
			p.pos++
			ctx, last = last, nil
			dangling = true

		case '+':
			if last == nil {
				return p.errorf("sibling operator without element")
			}
			p.pos++
			last = nil
			dangling = true

		case '^':
			if last == nil && !(p.pos > 0 && p.src[p.pos-1] == '^') {
				return p.errorf("climb operator without element")
			}
			p.pos++
			if ctx != container {
				ctx = ctx.parent
			}
			last = nil
			dangling = true

		case '(':
			p.pos++
			group := &node{group: true}
			if err := p.expr(group); err != nil {
				return err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return p.errorf("unclosed group")
			}
			p.pos++
			if p.peek() == '*' {
				p.pos++
				group.repeat = p.number(1)
			}
			ctx.add(group)
			last, dangling = group, false

		default:
			el, err := p.element()
			if err != nil {
				return err
			}
			ctx.add(el)
			last, dangling = el, false
		}
	}
	if dangling {
		return p.errorf("operator without following element")
	}
	return nil
}

func (p *parser) element() (*node, error) {
	n := &node{}
	start := p.pos
	n.name = p.name()

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.':
			p.pos++
			class := p.name()
			if class == "" && p.pos < len(p.src) && !isOperator(p.src[p.pos]) {
				return nil, p.errorf("empty class name")
			}
			if class != "" {
				n.setAttr("class", class)
			}
		case '#':
			p.pos++
			id := p.name()
			if id == "" {
				return nil, p.errorf("empty id")
			}
			n.setAttr("id", id)
		case '[':
			if err := p.attributes(n); err != nil {
				return nil, err
			}
		case '{':
			end := matchBrace(p.src, p.pos)
			if end < 0 {
				return nil, p.errorf("unclosed text")
			}
			n.text += p.src[p.pos+1 : end]
			n.hasText = true
			p.pos = end + 1
		case '*':
			p.pos++
			n.repeat = p.number(1)
		case '/':
			p.pos++
			n.selfClose = true
		default:
			if p.pos == start {
				return nil, p.errorf("unexpected %q", p.src[p.pos])
			}
			return n, nil
		}
	}

	if p.pos == start {
		return nil, p.errorf("empty element")
	}
	return n, nil
}

func (p *parser) attributes(n *node) error {
	p.pos++ // [
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return p.errorf("unclosed attribute list")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return nil
		}

		start := p.pos
		for p.pos < len(p.src) && strings.IndexByte(" \t=]", p.src[p.pos]) < 0 {
			p.pos++
		}
		name := p.src[start:p.pos]
		if name == "" {
			return p.errorf("empty attribute name")
		}

		if strings.HasSuffix(name, ".") && p.peek() != '=' {
			n.attrs = append(n.attrs, attribute{name: strings.TrimSuffix(name, "."), boolean: true})
			continue
		}

		var value string
		if p.peek() == '=' {
			p.pos++
			v, err := p.attributeValue()
			if err != nil {
				return err
			}
			value = v
		}
		n.setAttr(name, value)
	}
}

func (p *parser) attributeValue() (string, error) {
	if q := p.peek(); q == '"' || q == '\'' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != q {
			if p.src[p.pos] == '\\' {
				p.pos++
			}
			p.pos++
		}
		if p.pos >= len(p.src) {
			return "", p.errorf("unclosed quote")
		}
		v := p.src[start:p.pos]
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte(" \t]", p.src[p.pos]) < 0 {
		if p.src[p.pos] == '$' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '{' {
			end := matchBrace(p.src, p.pos+1)
			if end < 0 {
				return "", p.errorf("unclosed field")
			}
			p.pos = end + 1
			continue
		}
		p.pos++
	}
	return p.src[start:p.pos], nil
}

// name reads an element, class or id name, stopping before a field
func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		if p.src[p.pos] == '$' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '{' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) number(fallback int) int {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return fallback
	}
	// Digits only: an overflow saturates and is rejected by the repeat limit
	n, _ := strconv.Atoi(p.src[start:p.pos])
	if n < 1 {
		return fallback
	}
	return n
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func isNameChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
		strings.IndexByte("_-:$@!%", ch) >= 0
}

func isOperator(ch byte) bool {
	return ch == '>' || ch == '+' || ch == '^' || ch == ')'
}

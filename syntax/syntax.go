// Package syntax classifies editor language identifiers into the two
// abbreviation grammar families and records which syntax each one inherits
// snippets and profiles from.
package syntax

import (
	"strings"

	"github.com/teranos/emmet/errors"
)

// Family is the grammar class an abbreviation is parsed with
type Family int

const (
	// Markup covers html-like dialects (html, xml, jsx, pug, ...)
	Markup Family = iota
	// Stylesheet covers css-like dialects (css, scss, sass, less, ...)
	Stylesheet
)

func (f Family) String() string {
	switch f {
	case Stylesheet:
		return "stylesheet"
	default:
		return "markup"
	}
}

// Base returns the syntax whose built-in snippet library serves the family
func (f Family) Base() string {
	if f == Stylesheet {
		return "css"
	}
	return "html"
}

// Entry describes one syntax
type Entry struct {
	Family Family
	Parent string
	// Addons are flags the syntax always contributes (e.g. jsx)
	Addons []string
	// Terminator ends each stylesheet declaration; empty for indented dialects
	Terminator string
}

// Table maps syntax identifiers to entries. A Table is immutable once built;
// With returns a modified copy.
type Table struct {
	entries map[string]Entry
}

var builtin = map[string]Entry{
	"html":            {Family: Markup},
	"xhtml":           {Family: Markup, Parent: "html"},
	"xml":             {Family: Markup},
	"xsl":             {Family: Markup, Parent: "xml"},
	"jsx":             {Family: Markup, Parent: "html", Addons: []string{"jsx"}},
	"tsx":             {Family: Markup, Parent: "jsx", Addons: []string{"jsx"}},
	"javascriptreact": {Family: Markup, Parent: "jsx", Addons: []string{"jsx"}},
	"typescriptreact": {Family: Markup, Parent: "jsx", Addons: []string{"jsx"}},
	"haml":            {Family: Markup, Parent: "html"},
	"pug":             {Family: Markup, Parent: "html"},
	"jade":            {Family: Markup, Parent: "html"},
	"slim":            {Family: Markup, Parent: "html"},
	"vue":             {Family: Markup, Parent: "html"},
	"svelte":          {Family: Markup, Parent: "html"},
	"php":             {Family: Markup, Parent: "html"},
	"razor":           {Family: Markup, Parent: "html"},
	"handlebars":      {Family: Markup, Parent: "html"},
	"css":             {Family: Stylesheet, Terminator: ";"},
	"scss":            {Family: Stylesheet, Parent: "css", Terminator: ";"},
	"less":            {Family: Stylesheet, Parent: "css", Terminator: ";"},
	"sss":             {Family: Stylesheet, Parent: "css", Terminator: ";"},
	"sass":            {Family: Stylesheet, Parent: "css"},
	"stylus":          {Family: Stylesheet, Parent: "css"},
}

var defaultTable = &Table{entries: builtin}

// Default returns the built-in table
func Default() *Table {
	return defaultTable
}

// Lookup returns the entry for id. Unknown syntaxes resolve to a
// parentless Markup entry and ok=false.
func (t *Table) Lookup(id string) (Entry, bool) {
	e, ok := t.entries[normalize(id)]
	if !ok {
		return Entry{Family: Markup}, false
	}
	return e, true
}

// Family resolves the grammar family of id
func (t *Table) Family(id string) Family {
	e, _ := t.Lookup(id)
	return e.Family
}

// IsStylesheet reports whether id belongs to the stylesheet family
func (t *Table) IsStylesheet(id string) bool {
	return t.Family(id) == Stylesheet
}

// Chain returns id followed by its ancestors, child first. A cycle stops the
// walk before the first repeated id and is reported with ErrCyclicInheritance;
// the chain up to that point is still returned and usable.
func (t *Table) Chain(id string) ([]string, error) {
	id = normalize(id)
	chain := []string{id}
	seen := map[string]bool{id: true}

	for cur := id; ; {
		e, ok := t.entries[cur]
		if !ok || e.Parent == "" {
			return chain, nil
		}
		parent := normalize(e.Parent)
		if seen[parent] {
			return chain, errors.Wrapf(cycleError(chain, parent), "syntax %s", id)
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}
}

func cycleError(chain []string, parent string) error {
	return errors.WithDetailf(errors.ErrCyclicInheritance,
		"%s -> %s", strings.Join(chain, " -> "), parent)
}

// With returns a copy of t where each child in extends inherits from its
// parent. Children the table does not know adopt the parent's family.
func (t *Table) With(extends map[string]string) *Table {
	if len(extends) == 0 {
		return t
	}

	entries := make(map[string]Entry, len(t.entries)+len(extends))
	for id, e := range t.entries {
		entries[id] = e
	}

	for child, parent := range extends {
		child, parent = normalize(child), normalize(parent)
		if child == "" || parent == "" {
			continue
		}
		e, ok := entries[child]
		if !ok {
			// Family of an unknown child follows its declared parent
			pe := t.entries[parent]
			e = Entry{Family: pe.Family, Terminator: pe.Terminator}
		}
		e.Parent = parent
		entries[child] = e
	}

	return &Table{entries: entries}
}

// Known reports whether id has an explicit entry
func (t *Table) Known(id string) bool {
	_, ok := t.entries[normalize(id)]
	return ok
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

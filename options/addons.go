package options

// Filter names recognised after the '|' suffix of an abbreviation
const (
	FilterBEM     = "bem"
	FilterComment = "c"
	FilterTrim    = "t"
)

// Addon names as the expansion engine sees them
const (
	AddonBEM     = "bem"
	AddonComment = "comment"
	AddonTrim    = "trim"
	AddonJSX     = "jsx"
)

// BEM configures block__element_modifier class expansion
type BEM struct {
	Element  string
	Modifier string
}

// Comment configures the comment written around elements with an id or
// class. Tokens in [brackets] are emitted only when the attribute is set.
type Comment struct {
	Before string
	After  string
}

// Addons is an insertion-ordered mapping of addon name to its configuration
// (a struct or a bool flag). Setting an existing name replaces its value
// but keeps its original position.
type Addons struct {
	names  []string
	values map[string]any
}

// Set inserts or replaces an addon
func (a *Addons) Set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, exists := a.values[name]; !exists {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// Get returns an addon's configuration
func (a Addons) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Has reports whether the addon is present and not explicitly false
func (a Addons) Has(name string) bool {
	v, ok := a.values[name]
	if !ok {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return true
}

// Names returns addon names in insertion order
func (a Addons) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of addons
func (a Addons) Len() int {
	return len(a.names)
}

// FilterAddon maps a filter name to the addon it enables. Unknown filters
// become a flag named after themselves.
func FilterAddon(filter string) (string, any) {
	switch filter {
	case FilterBEM:
		return AddonBEM, BEM{Element: "__", Modifier: "_"}
	case FilterComment:
		return AddonComment, Comment{After: "\n<!-- /[#ID][.CLASS] -->"}
	case FilterTrim:
		return AddonTrim, true
	}
	return filter, true
}

// buildAddons assembles filter addons in declared order, then the
// syntax's own addons
func buildAddons(filters, syntaxAddons []string) Addons {
	var a Addons
	for _, f := range filters {
		if f == "" {
			continue
		}
		a.Set(FilterAddon(f))
	}
	for _, name := range syntaxAddons {
		a.Set(name, true)
	}
	return a
}

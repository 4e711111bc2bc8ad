package options

// Registry holds custom snippets per syntax: syntax -> key -> template
type Registry map[string]map[string]string

// Resolve returns the snippets visible along chain (child first, as
// syntax.Table.Chain returns it). Parents are laid down first so a child's
// entry shadows its parent's on the same key. The result is nil unless
// some syntax on the chain has a section, even an empty one.
func (r Registry) Resolve(chain []string) map[string]string {
	var out map[string]string
	for i := len(chain) - 1; i >= 0; i-- {
		section, ok := r[chain[i]]
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(section))
		}
		for k, v := range section {
			out[k] = v
		}
	}
	return out
}

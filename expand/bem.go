package expand

import (
	"strings"

	"github.com/teranos/emmet/options"
)

var bemDefaults = options.BEM{Element: "__", Modifier: "_"}

// applyBEM expands __element and _modifier class shorthands against the
// nearest block class: a block, a block's ancestor element class, or an
// element's own class
func applyBEM(list []*node, cfg options.BEM, block string) {
	for _, n := range list {
		own := block
		if class, ok := n.attr("class"); ok && class != "" {
			var out []string
			var element string
			for _, c := range strings.Fields(class) {
				switch {
				case strings.HasPrefix(c, "__"):
					if own == "" {
						out = append(out, c)
						continue
					}
					element = own + cfg.Element + strings.TrimPrefix(c, "__")
					out = append(out, element)
				case strings.HasPrefix(c, "_") && len(c) > 1:
					base := element
					if base == "" {
						base = own
					}
					if base == "" {
						out = append(out, c)
						continue
					}
					out = append(out, base+cfg.Modifier+strings.TrimPrefix(c, "_"))
				default:
					if own == block {
						// First plain class names the block for the subtree
						own = c
					}
					out = append(out, c)
				}
			}
			n.setClass(strings.Join(dedupe(out), " "))
		}
		applyBEM(n.children, cfg, own)
	}
}

func (n *node) setClass(value string) {
	for i, a := range n.attrs {
		if a.name == "class" {
			n.attrs[i].value = value
			return
		}
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

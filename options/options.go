// Package options assembles the per-request expansion configuration from
// built-in defaults, the externally loaded snippet and profile snapshot,
// and the caller's own settings.
package options

import (
	"strconv"
	"strings"

	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/syntax"
)

// FieldFunc renders a numbered cursor stop with an optional placeholder
type FieldFunc func(index int, placeholder string) string

// SnippetField renders editor snippet syntax: ${1} or ${1:placeholder}
func SnippetField(index int, placeholder string) string {
	if placeholder == "" {
		return "${" + strconv.Itoa(index) + "}"
	}
	return "${" + strconv.Itoa(index) + ":" + placeholder + "}"
}

// PreviewField renders a human preview: the placeholder, or | where the
// cursor lands on an empty stop
func PreviewField(_ int, placeholder string) string {
	if placeholder == "" {
		return "|"
	}
	return placeholder
}

// Config is everything the expansion engine needs for one request
type Config struct {
	Syntax string
	Family syntax.Family
	// Chain is Syntax followed by its ancestors
	Chain []string
	// Terminator ends stylesheet declarations; empty for indented dialects
	Terminator string

	Profile   Profile
	Variables map[string]string
	Addons    Addons
	// Snippets is nil when no extensions directory is loaded
	Snippets map[string]string
	Field    FieldFunc
}

// Overrides are the caller's per-request settings
type Overrides struct {
	// SyntaxProfiles maps syntax -> profile mapping or preset name, in
	// either key schema
	SyntaxProfiles map[string]any
	Variables      map[string]string
	Filters        []string
}

// BuildConfig assembles the expansion configuration for syntaxID. Later
// layers win: built-in defaults, then the snapshot's profiles and
// variables, then the caller's overrides. Unknown syntaxes degrade to
// Markup with no addons.
func (s *Snapshot) BuildConfig(syntaxID string, o Overrides) *Config {
	table := s.Syntaxes
	if table == nil {
		table = syntax.Default()
	}

	id := strings.ToLower(strings.TrimSpace(syntaxID))
	entry, _ := table.Lookup(id)
	chain, err := table.Chain(id)
	if err != nil {
		logger.ComponentLogger("options").Warnw("Syntax inheritance truncated",
			logger.FieldSyntax, id,
			logger.FieldError, err)
	}

	profile := DefaultProfile()
	variables := map[string]string{}

	for i := len(chain) - 1; i >= 0; i-- {
		if layer, ok := s.Profiles[chain[i]]; ok {
			profile = profile.Apply(layer)
		}
	}
	for k, v := range s.Variables {
		variables[k] = v
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range s.SyntaxVariables[chain[i]] {
			variables[k] = v
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if layer := TranslateProfile(lookupFold(o.SyntaxProfiles, chain[i])); layer != nil {
			profile = profile.Apply(layer)
		}
	}
	for k, v := range o.Variables {
		variables[k] = v
	}

	return &Config{
		Syntax:     syntaxID,
		Family:     entry.Family,
		Chain:      chain,
		Terminator: entry.Terminator,
		Profile:    profile,
		Variables:  variables,
		Addons:     buildAddons(o.Filters, entry.Addons),
		Snippets:   s.Registry.Resolve(chain),
		Field:      SnippetField,
	}
}

// lookupFold finds key in m ignoring case
func lookupFold(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// WithField returns a copy of c rendering fields with f
func (c *Config) WithField(f FieldFunc) *Config {
	clone := *c
	clone.Field = f
	return &clone
}

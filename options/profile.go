package options

import (
	"strconv"
	"strings"
)

// Modern profile keys
const (
	KeyTagCase          = "tagCase"
	KeyAttributeCase    = "attributeCase"
	KeyAttributeQuotes  = "attributeQuotes"
	KeyFormat           = "format"
	KeyInlineBreak      = "inlineBreak"
	KeySelfClosingStyle = "selfClosingStyle"
)

// Self-closing styles
const (
	SelfClosingHTML  = "html"  // <br>
	SelfClosingXHTML = "xhtml" // <br />
	SelfClosingXML   = "xml"   // <br/>
)

// Profile holds the output formatting preferences for one expansion
type Profile struct {
	TagCase          string // "", "lower" or "upper"
	AttributeCase    string // "", "lower" or "upper"
	AttributeQuotes  string // "double" or "single"
	Format           bool   // break block elements onto their own lines
	InlineBreak      int    // sibling inline elements that force a line break; 0 disables
	SelfClosingStyle string

	// Extra keeps every key that did not map onto a field, including legacy
	// keys whose value could not be translated
	Extra map[string]any
}

// DefaultProfile returns the built-in profile
func DefaultProfile() Profile {
	return Profile{
		AttributeQuotes:  "double",
		Format:           true,
		InlineBreak:      3,
		SelfClosingStyle: SelfClosingHTML,
	}
}

// presets are the named profiles legacy settings may refer to by string
var presets = map[string]map[string]any{
	"html":  {KeySelfClosingStyle: SelfClosingHTML},
	"xhtml": {KeySelfClosingStyle: SelfClosingXHTML},
	"xml":   {KeySelfClosingStyle: SelfClosingXML},
	"plain": {KeyFormat: false},
	"line":  {KeyFormat: false, KeyInlineBreak: 0},
}

type legacyRule struct {
	key       string
	translate func(any) (any, bool)
}

var legacyKeys = map[string]legacyRule{
	"tag_case":         {KeyTagCase, asString},
	"attr_case":        {KeyAttributeCase, asString},
	"attr_quotes":      {KeyAttributeQuotes, asString},
	"tag_nl":           {KeyFormat, translateFormat},
	"inline_break":     {KeyInlineBreak, asInt},
	"self_closing_tag": {KeySelfClosingStyle, translateSelfClosing},
}

// TranslateProfile converts a profile value into modern-key form. value is
// either a mapping, possibly mixing legacy (tag_case) and modern (tagCase)
// keys, or the name of a preset. Legacy keys whose value cannot be
// translated are kept under their legacy name; unrecognized keys pass
// through. Returns nil for anything else.
func TranslateProfile(value any) map[string]any {
	switch v := value.(type) {
	case string:
		if preset, ok := presets[strings.ToLower(v)]; ok {
			out := make(map[string]any, len(preset))
			for k, pv := range preset {
				out[k] = pv
			}
			return out
		}
		return nil
	case map[string]any:
		out := make(map[string]any, len(v))
		// Modern keys first so a legacy key in the same mapping cannot be
		// shadowed by map iteration order
		for k, raw := range v {
			if _, legacy := legacyKeys[strings.ToLower(k)]; !legacy {
				out[k] = raw
			}
		}
		for k, raw := range v {
			rule, legacy := legacyKeys[strings.ToLower(k)]
			if !legacy {
				continue
			}
			if translated, ok := rule.translate(raw); ok {
				out[rule.key] = translated
			} else {
				out[k] = raw
			}
		}
		return out
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, raw := range v {
			if ks, ok := k.(string); ok {
				m[ks] = raw
			}
		}
		return TranslateProfile(m)
	}
	return nil
}

// Apply overlays a translated profile mapping onto p. Modern keys match
// case-insensitively since configuration files lowercase them.
func (p Profile) Apply(layer map[string]any) Profile {
	owned := false // Extra is shared with the receiver's copies until cloned
	for k, raw := range layer {
		if p.set(k, raw) {
			continue
		}
		if !owned {
			p.Extra = cloneAny(p.Extra)
			owned = true
		}
		p.Extra[k] = raw
	}
	return p
}

func (p *Profile) set(key string, raw any) bool {
	var ok bool
	switch strings.ToLower(key) {
	case "tagcase":
		p.TagCase, ok = asStringValue(raw)
	case "attributecase":
		p.AttributeCase, ok = asStringValue(raw)
	case "attributequotes":
		p.AttributeQuotes, ok = asStringValue(raw)
	case "format":
		var v any
		if v, ok = translateFormat(raw); ok {
			p.Format = v.(bool)
		}
	case "inlinebreak":
		var v any
		if v, ok = asInt(raw); ok {
			p.InlineBreak = v.(int)
		}
	case "selfclosingstyle":
		var v any
		if v, ok = translateSelfClosing(raw); ok {
			p.SelfClosingStyle = v.(string)
		}
	}
	return ok
}

// Get returns a profile value by modern key, or from Extra
func (p Profile) Get(key string) (any, bool) {
	switch strings.ToLower(key) {
	case "tagcase":
		return p.TagCase, true
	case "attributecase":
		return p.AttributeCase, true
	case "attributequotes":
		return p.AttributeQuotes, true
	case "format":
		return p.Format, true
	case "inlinebreak":
		return p.InlineBreak, true
	case "selfclosingstyle":
		return p.SelfClosingStyle, true
	}
	v, ok := p.Extra[key]
	return v, ok
}

func translateFormat(raw any) (any, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "decide", "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

func translateSelfClosing(raw any) (any, bool) {
	switch v := raw.(type) {
	case bool:
		if v {
			return SelfClosingXML, true
		}
		return SelfClosingHTML, true
	case string:
		return v, true
	}
	return nil, false
}

func asString(raw any) (any, bool) {
	s, ok := raw.(string)
	return s, ok
}

func asStringValue(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// asInt accepts the numeric shapes json, yaml and toml decoders produce
func asInt(raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return nil, false
}

func cloneAny(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

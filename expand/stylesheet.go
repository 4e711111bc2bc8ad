package expand

import (
	"strings"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/options"
)

const important = "!important"

var unitAliases = map[string]string{
	"p": "%",
	"e": "em",
	"x": "ex",
	"r": "rem",
}

var keywordAliases = map[string]string{
	"a":   "auto",
	"n":   "none",
	"i":   "inherit",
	"ini": "initial",
	"u":   "unset",
	"t":   "transparent",
}

// propertyTemplates maps a property to its first library template
var propertyTemplates = func() map[string]string {
	m := map[string]string{}
	for _, s := range stylesheetSnippets {
		name, _, ok := strings.Cut(s.Value, ":")
		if !ok {
			continue
		}
		if _, seen := m[name]; !seen {
			m[name] = s.Value
		}
	}
	return m
}()

func expandStylesheet(abbr string, cfg *options.Config, vars map[string]string) ([]piece, error) {
	parts := splitParts(abbr)
	if len(parts) == 0 {
		return nil, errors.NewInvalidAbbreviation(abbr)
	}

	var out []piece
	for i, part := range parts {
		decl, err := declaration(part, cfg)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, piece{text: "\n"})
		}
		// Each declaration numbers its own fields
		for _, p := range parseTemplate(decl, vars) {
			p.scope = i
			out = append(out, p)
		}
	}
	return out, nil
}

// splitParts splits on + outside parentheses
func splitParts(abbr string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(abbr); i++ {
		switch abbr[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '+':
			if depth == 0 {
				if i > start {
					parts = append(parts, abbr[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(abbr) {
		parts = append(parts, abbr[start:])
	}
	return parts
}

// declaration expands one stylesheet part to a template string
func declaration(part string, cfg *options.Config) (string, error) {
	if v, ok := lookup(cfg.Snippets, stylesheetIndex, part); ok {
		return terminate(v, cfg.Terminator), nil
	}

	suffix := ""
	if strings.HasSuffix(part, "!") && part != "!" {
		part = strings.TrimSuffix(part, "!")
		suffix = " " + important
		if v, ok := lookup(cfg.Snippets, stylesheetIndex, part); ok {
			return terminate(v+suffix, cfg.Terminator), nil
		}
	}

	name, value := splitNameValue(part)
	if name == "" && value == "" {
		return "", errors.NewInvalidAbbreviation(part)
	}

	property := resolveProperty(name, value, cfg.Snippets)
	if property == "" {
		return "", errors.NewInvalidAbbreviation(part)
	}
	if value == "" {
		tmpl, ok := propertyTemplates[property]
		if !ok {
			tmpl = property + ": ${1}"
		}
		return terminate(tmpl+suffix, cfg.Terminator), nil
	}

	values, err := formatValues(property, value)
	if err != nil {
		return "", err
	}
	return property + ": " + strings.Join(values, " ") + suffix + cfg.Terminator, nil
}

// terminate appends the declaration terminator to property templates
func terminate(tmpl, terminator string) string {
	if terminator == "" || !strings.Contains(tmpl, ":") {
		return tmpl
	}
	trimmed := strings.TrimRight(tmpl, " \t")
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return tmpl
	}
	return tmpl + terminator
}

// splitNameValue separates the property abbreviation from its value. The
// name is a run of lowercase letters and dashes; a dash before a digit
// starts a negative value. A colon between the two is dropped.
func splitNameValue(part string) (string, string) {
	i := 0
	for i < len(part) {
		ch := part[i]
		if ch == '-' && i > 0 && i+1 < len(part) && isDigitOrDot(part[i+1]) {
			break
		}
		if (ch < 'a' || ch > 'z') && ch != '-' {
			break
		}
		i++
	}
	name, value := part[:i], part[i:]
	value = strings.TrimPrefix(value, ":")
	return name, value
}

// resolveProperty maps a property abbreviation to a property name: an
// exact snippet key first, then the best fuzzy match, else the name as
// typed. A bare colour value is a color declaration.
func resolveProperty(name, value string, custom map[string]string) string {
	if name == "" {
		if strings.HasPrefix(value, "#") {
			return "color"
		}
		return ""
	}
	if tmpl, ok := lookup(custom, stylesheetIndex, name); ok {
		if prop, _, found := strings.Cut(tmpl, ":"); found && !strings.ContainsAny(prop, " {") {
			return prop
		}
	}
	if prop, ok := fuzzyProperty(name); ok {
		return prop
	}
	return name
}

// fuzzyProperty finds the property whose name contains abbr's characters
// in order, starting with the same character. Matches at word starts and
// runs of consecutive characters score higher; ties keep library order.
func fuzzyProperty(abbr string) (string, bool) {
	best, bestScore := "", 0
	for _, prop := range properties {
		if score := fuzzyScore(abbr, prop); score > bestScore {
			best, bestScore = prop, score
		}
	}
	return best, bestScore > 0
}

func fuzzyScore(abbr, candidate string) int {
	if abbr == "" || candidate == "" || abbr[0] != candidate[0] {
		return 0
	}
	score := 3
	pos := 0
	for i := 1; i < len(abbr); i++ {
		ch := abbr[i]
		next := -1
		// Prefer a word start ahead over a mid-word occurrence
		for j := pos + 1; j < len(candidate); j++ {
			if candidate[j] == ch && candidate[j-1] == '-' {
				next = j
				break
			}
		}
		if consecutive := pos + 1; consecutive < len(candidate) && candidate[consecutive] == ch {
			next = consecutive
		}
		if next < 0 {
			next = strings.IndexByte(candidate[pos+1:], ch)
			if next < 0 {
				return 0
			}
			next += pos + 1
		}

		score++
		if candidate[next-1] == '-' {
			score += 2
		}
		if next == pos+1 {
			score++
		}
		pos = next
	}
	return score
}

// formatValues expands value tokens of a declaration
func formatValues(property, value string) ([]string, error) {
	tokens := splitValue(value)
	if len(tokens) == 0 {
		return nil, errors.NewInvalidAbbreviation(value)
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, formatToken(property, tok))
	}
	return out, nil
}

// splitValue splits a value on dashes. A dash opening the value or
// following a separator is a sign;
// $ and @ tokens run to the end since variable names may contain dashes.
func splitValue(value string) []string {
	var tokens []string
	i := 0
	for i < len(value) {
		if value[i] == '$' || value[i] == '@' {
			tokens = append(tokens, value[i:])
			break
		}
		start := i
		if value[i] == '-' {
			i++
		}
		for i < len(value) && value[i] != '-' {
			i++
		}
		if i > start {
			tokens = append(tokens, value[start:i])
		}
		if i < len(value) {
			// Separator; a second dash is the sign of the next token
			i++
		}
	}
	return tokens
}

func formatToken(property, tok string) string {
	if strings.HasPrefix(tok, "#") {
		return expandHex(tok)
	}
	if kw, ok := keywordAliases[tok]; ok {
		return kw
	}

	numEnd := 0
	if numEnd < len(tok) && tok[numEnd] == '-' {
		numEnd++
	}
	digits := numEnd
	for numEnd < len(tok) && isDigitOrDot(tok[numEnd]) {
		numEnd++
	}
	if numEnd == digits {
		return tok
	}

	number, unit := tok[:numEnd], tok[numEnd:]
	if alias, ok := unitAliases[unit]; ok {
		unit = alias
	}
	if unit != "" {
		return number + unit
	}
	if unitless[property] || strings.Trim(number, "-0.") == "" {
		return number
	}
	if strings.Contains(number, ".") {
		return number + "em"
	}
	return number + "px"
}

// expandHex widens #f to #fff and #fc to #fcfcfc
func expandHex(tok string) string {
	hex := tok[1:]
	switch len(hex) {
	case 1:
		return "#" + strings.Repeat(hex, 3)
	case 2:
		return "#" + strings.Repeat(hex, 3)
	}
	return tok
}

func isDigitOrDot(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '.'
}

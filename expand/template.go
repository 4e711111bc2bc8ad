package expand

import (
	"strconv"
	"strings"
)

// autoIndex marks a cursor stop generated for an empty element or
// attribute rather than written in a snippet
const autoIndex = -1

// piece is a run of literal text or a field inside a rendered template
type piece struct {
	text        string
	field       bool
	index       int
	placeholder string
	scope       int
}

// parseTemplate splits s into literal text and ${n} / ${n:placeholder}
// fields. ${name} is a variable: it is replaced by vars[name], or becomes a
// field whose placeholder is the name when the variable is unknown. \$
// escapes a literal dollar sign.
func parseTemplate(s string, vars map[string]string) []piece {
	var out []piece
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, piece{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) && strings.IndexByte("${}", s[i+1]) >= 0 {
			lit.WriteByte(s[i+1])
			i++
			continue
		}
		if ch != '$' || i+1 >= len(s) || s[i+1] != '{' {
			lit.WriteByte(ch)
			continue
		}

		end := matchBrace(s, i+1)
		if end < 0 {
			lit.WriteString(s[i:])
			break
		}
		body := s[i+2 : end]
		i = end

		name, placeholder, _ := strings.Cut(body, ":")
		if n, err := strconv.Atoi(name); err == nil {
			flush()
			out = append(out, piece{
				field:       true,
				index:       n,
				placeholder: flatten(parseTemplate(placeholder, vars)),
			})
			continue
		}
		if v, ok := vars[name]; ok {
			lit.WriteString(v)
			continue
		}
		flush()
		out = append(out, piece{field: true, index: autoIndex, placeholder: name})
	}
	flush()
	return out
}

// flatten renders pieces as plain text, fields as their placeholders
func flatten(pieces []piece) string {
	var b strings.Builder
	for _, p := range pieces {
		if p.field {
			b.WriteString(p.placeholder)
		} else {
			b.WriteString(p.text)
		}
	}
	return b.String()
}

// matchBrace returns the index of the '}' closing the '{' at open, or -1
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// numbering is the position of a copy within its nearest repeated ancestor
type numbering struct {
	index int // 1-based
	total int
}

// apply replaces numbering markers in s: $ runs pad the copy index to
// their length, $@- counts down, $@N starts counting at N. ${ opens a
// field and is left alone.
func (n numbering) apply(s string) string {
	if n.total == 0 || !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) {
			b.WriteByte(ch)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if ch != '$' {
			b.WriteByte(ch)
			continue
		}

		j := i
		for j < len(s) && s[j] == '$' {
			j++
		}
		width := j - i
		if j < len(s) && s[j] == '{' {
			// The last $ belongs to a field or variable
			width--
			j--
		}
		if width == 0 {
			b.WriteByte('$')
			continue
		}

		value := n.index
		if j < len(s) && s[j] == '@' {
			k := j + 1
			reverse := k < len(s) && s[k] == '-'
			if reverse {
				k++
			}
			start := k
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			offset := 1
			if k > start {
				offset, _ = strconv.Atoi(s[start:k])
			}
			if reverse {
				value = n.total - n.index + offset
			} else {
				value = n.index - 1 + offset
			}
			j = k
		}

		num := strconv.Itoa(value)
		if len(num) < width {
			num = strings.Repeat("0", width-len(num)) + num
		}
		b.WriteString(num)
		i = j - 1
	}
	return b.String()
}

// Package abbreviation finds the abbreviation typed just before a cursor
// and checks that it is well formed for the document's syntax family.
package abbreviation

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/syntax"
)

// FilterSeparator introduces the filter suffix (ul>li|bem)
const FilterSeparator = '|'

// Parsed is an abbreviation with its filter suffix split off
type Parsed struct {
	Abbreviation string
	Filters      []string
}

// Extracted is a Parsed abbreviation located in a document. Range ends at
// the cursor and covers exactly the text a completion replaces.
type Extracted struct {
	Parsed
	Range protocol.Range
}

// Extract finds the abbreviation ending at pos, classifying the document
// by its language id with the built-in syntax table. Returns nil when no
// valid abbreviation ends there.
func Extract(doc *document.Document, pos protocol.Position) *Extracted {
	return ExtractFor(doc, pos, syntax.Default().Family(doc.LanguageID))
}

// ExtractFor is Extract with an explicit grammar family
func ExtractFor(doc *document.Document, pos protocol.Position, family syntax.Family) *Extracted {
	offset := doc.OffsetAt(pos)
	lineStart, _ := doc.LineAt(offset)
	line := doc.Text()[lineStart:offset]

	start := scanStart(line, len(line))
	parsed := split(line[start:])
	if parsed == nil || !ValidatorFor(family)(parsed.Abbreviation) {
		return nil
	}

	return &Extracted{
		Parsed: *parsed,
		Range: protocol.Range{
			Start: doc.PositionAt(lineStart + start),
			End:   doc.PositionAt(offset),
		},
	}
}

// ExtractFromText extracts the abbreviation at the end of text, for callers
// that hold a plain string rather than a document. No syntax validation is
// applied.
func ExtractFromText(text string) *Parsed {
	if i := strings.LastIndexAny(text, "\r\n"); i >= 0 {
		text = text[i+1:]
	}
	return split(text[scanStart(text, len(text)):])
}

// scanStart walks left from end and returns the index where the greedy
// abbreviation begins. Bracketed and braced sections are taken whole,
// including spaces and quotes.
func scanStart(line string, end int) int {
	pos := end
	var stack []byte // openers still to be matched

	for pos > 0 {
		ch := line[pos-1]

		if len(stack) > 0 {
			switch {
			case ch == stack[len(stack)-1]:
				stack = stack[:len(stack)-1]
			case ch == ']':
				stack = append(stack, '[')
			case ch == '}':
				stack = append(stack, '{')
			case ch == '"' || ch == '\'':
				q := strings.LastIndexByte(line[:pos-1], ch)
				if q < 0 {
					return end
				}
				pos = q + 1
			}
			pos--
			continue
		}

		switch {
		case ch == ']':
			stack = append(stack, '[')
		case ch == '}':
			stack = append(stack, '{')
		case ch == '>' && isAtHTMLTag(line, pos-1):
			return pos
		case isAbbreviationChar(ch):
		case pos >= 2 && line[pos-2] == '\\':
			pos--
		default:
			return pos
		}
		pos--
	}

	if len(stack) > 0 {
		// Unbalanced brackets: nothing well-formed ends here
		return end
	}
	return pos
}

// isAtHTMLTag reports whether the '>' at index gt closes a markup tag such
// as <div> or <a href="x">, rather than being a child operator.
func isAtHTMLTag(line string, gt int) bool {
	for j := gt - 1; j >= 0; j-- {
		switch ch := line[j]; ch {
		case '"', '\'':
			q := strings.LastIndexByte(line[:j], ch)
			if q < 0 {
				return false
			}
			j = q
		case '>':
			return false
		case '<':
			next := j + 1
			if next < gt && line[next] == '/' {
				next++
			}
			return next < gt && isAlpha(line[next])
		}
	}
	return false
}

func isAbbreviationChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || strings.IndexByte("_-:!@$#.>+^*()|\\%/", ch) >= 0
}

// split trims the text and separates the filter suffix. The first
// unescaped top-level '|' whose tail only holds filter names starts it.
func split(text string) *Parsed {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, idx := range separatorIndexes(text) {
		tail := text[idx+1:]
		if !isFilterTail(tail) {
			continue
		}
		body := strings.TrimSpace(text[:idx])
		if body == "" {
			return nil
		}
		filters := strings.FieldsFunc(tail, func(r rune) bool {
			return r == FilterSeparator || r == ','
		})
		if filters == nil {
			filters = []string{}
		}
		return &Parsed{Abbreviation: body, Filters: filters}
	}

	return &Parsed{Abbreviation: text, Filters: []string{}}
}

// separatorIndexes lists unescaped '|' positions outside brackets, braces and quotes
func separatorIndexes(text string) []int {
	var indexes []int
	var depth int
	var quote byte

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\\':
			i++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case depth > 0 && (ch == '"' || ch == '\''):
			quote = ch
		case ch == '[' || ch == '{':
			depth++
		case ch == ']' || ch == '}':
			if depth > 0 {
				depth--
			}
		case ch == FilterSeparator && depth == 0:
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func isFilterTail(tail string) bool {
	for i := 0; i < len(tail); i++ {
		ch := tail[i]
		if !isAlpha(ch) && !isDigit(ch) && ch != FilterSeparator && ch != ',' {
			return false
		}
	}
	return true
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

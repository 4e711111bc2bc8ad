// Package document holds the immutable text buffers the completion core
// reads from. Positions follow the language-server convention: zero-based
// line and character, where character counts UTF-16 code units.
package document

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an immutable text buffer addressed by protocol positions
type Document struct {
	URI        string
	LanguageID string
	Version    int32

	text        string
	lineOffsets []int // byte offset of the first byte of each line
}

// New creates a document and indexes its line starts
func New(uri, languageID string, version int32, text string) *Document {
	return &Document{
		URI:         uri,
		LanguageID:  languageID,
		Version:     version,
		text:        text,
		lineOffsets: computeLineOffsets(text),
	}
}

// Text returns the full document text
func (d *Document) Text() string {
	return d.text
}

// LineCount returns the number of lines; an empty document has one line
func (d *Document) LineCount() int {
	return len(d.lineOffsets)
}

// OffsetAt converts a position to a byte offset. Positions past the end of
// a line clamp to the line end; lines past the end clamp to the text end.
func (d *Document) OffsetAt(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(d.lineOffsets) {
		return len(d.text)
	}

	start := d.lineOffsets[line]
	end := d.lineEnd(line)

	units := int(pos.Character)
	offset := start
	for offset < end && units > 0 {
		r, size := utf8.DecodeRuneInString(d.text[offset:end])
		units -= utf16Len(r)
		if units < 0 {
			// Position points inside a surrogate pair; stay before the rune
			break
		}
		offset += size
	}
	return offset
}

// PositionAt converts a byte offset to a position
func (d *Document) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}

	// Largest line start <= offset
	line := sort.Search(len(d.lineOffsets), func(i int) bool {
		return d.lineOffsets[i] > offset
	}) - 1

	units := 0
	for _, r := range d.text[d.lineOffsets[line]:offset] {
		units += utf16Len(r)
	}

	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(units),
	}
}

// TextIn returns the text covered by a half-open range
func (d *Document) TextIn(r protocol.Range) string {
	start, end := d.OffsetAt(r.Start), d.OffsetAt(r.End)
	if end < start {
		start, end = end, start
	}
	return d.text[start:end]
}

// LineAt returns the byte offsets [start, end) of the line containing offset,
// excluding the line terminator
func (d *Document) LineAt(offset int) (int, int) {
	line := int(d.PositionAt(offset).Line)
	return d.lineOffsets[line], d.lineEnd(line)
}

// Apply returns a new document with r replaced by text and the version bumped
func (d *Document) Apply(r protocol.Range, text string, version int32) *Document {
	start, end := d.OffsetAt(r.Start), d.OffsetAt(r.End)
	if end < start {
		start, end = end, start
	}
	return New(d.URI, d.LanguageID, version, d.text[:start]+text+d.text[end:])
}

func (d *Document) lineEnd(line int) int {
	end := len(d.text)
	if line+1 < len(d.lineOffsets) {
		end = d.lineOffsets[line+1]
	}
	for end > d.lineOffsets[line] && (d.text[end-1] == '\n' || d.text[end-1] == '\r') {
		end--
	}
	return end
}

func computeLineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			offsets = append(offsets, i+1)
		case '\n':
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	// Invalid runes decode as U+FFFD, one code unit
	return 1
}

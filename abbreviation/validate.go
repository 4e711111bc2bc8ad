package abbreviation

import (
	"regexp"
	"strings"

	"github.com/teranos/emmet/syntax"
)

// Validator reports whether text is a well-formed abbreviation
type Validator func(text string) bool

var validators = map[syntax.Family]Validator{
	syntax.Markup:     validMarkup,
	syntax.Stylesheet: validStylesheet,
}

// ValidatorFor returns the validator of a grammar family
func ValidatorFor(family syntax.Family) Validator {
	if v, ok := validators[family]; ok {
		return v
	}
	return validMarkup
}

// IsValid reports whether text is a well-formed abbreviation for syntaxID.
// Validity is purely syntactic: a valid abbreviation may still match no
// snippet.
func IsValid(syntaxID, text string) bool {
	return ValidatorFor(syntax.Default().Family(syntaxID))(text)
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{1,6}$`)

func validStylesheet(text string) bool {
	if text == "" || isDigits(text) {
		return false
	}

	first := text[0]
	if !isAlpha(first) && first != '-' && first != '!' && first != '@' && first != '#' {
		return false
	}
	if first == '#' {
		return hexColor.MatchString(text)
	}
	// "div#id" is someone typing a selector, not a property
	if i := strings.IndexByte(text, '#'); i > 0 && syntax.IsHTMLTag(text[:i]) {
		return false
	}

	depth := 0
	for i := 0; i < len(text); i++ {
		switch ch := text[i]; {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return false
			}
		case ch == ' ' || ch == '\t':
			if depth == 0 {
				return false
			}
		case depth == 0 && strings.IndexByte(">^*[]{}|", ch) >= 0:
			return false
		}
	}
	return depth == 0
}

func validMarkup(text string) bool {
	if text == "" || isDigits(text) {
		return false
	}

	// "!" alone (or repeated) is the doctype shorthand; any other '!' is stray
	if text[0] == '!' {
		return strings.Trim(text, "!") == ""
	}
	if !isAlpha(text[0]) && strings.IndexByte("([#.{", text[0]) < 0 {
		return false
	}

	t := markupTokenizer{text: text, expectElement: true}
	return t.run()
}

type markupTokenizer struct {
	text string
	pos  int

	// openers holds, per open group, whether it directly follows an operator
	openers []bool

	expectElement bool // next token must start an element
	afterOperator bool // previous token was > + or ^
}

func (t *markupTokenizer) run() bool {
	for t.pos < len(t.text) {
		if !t.step() {
			return false
		}
	}
	return len(t.openers) == 0 && !t.expectElement
}

func (t *markupTokenizer) step() bool {
	ch := t.text[t.pos]

	switch {
	case ch == '(':
		if !t.expectElement {
			return false
		}
		t.openers = append(t.openers, t.afterOperator)
		t.afterOperator = false
		t.pos++

	case ch == ')':
		if t.expectElement || len(t.openers) == 0 {
			return false
		}
		followsOperator := t.openers[len(t.openers)-1]
		t.openers = t.openers[:len(t.openers)-1]
		t.pos++
		next := t.peek()
		if !isBoundary(next) && next != '*' {
			return false
		}
		// A group must touch an operator or multiplier: "(hello)" is prose
		if !followsOperator && !isOperator(next) && next != '*' {
			return false
		}
		t.afterOperator = false

	case ch == '>' || ch == '+':
		if t.expectElement {
			return false
		}
		t.expectElement, t.afterOperator = true, true
		t.pos++

	case ch == '^':
		// Climbing several levels repeats the operator: a^^b
		if t.expectElement && !(t.pos > 0 && t.text[t.pos-1] == '^') {
			return false
		}
		t.expectElement, t.afterOperator = true, true
		t.pos++

	case ch == '*':
		if t.expectElement {
			return false
		}
		t.pos++
		for t.pos < len(t.text) && isDigit(t.text[t.pos]) {
			t.pos++
		}
		if !isBoundary(t.peek()) {
			return false
		}

	case ch == '/':
		if t.expectElement {
			return false
		}
		t.pos++
		if !isBoundary(t.peek()) {
			return false
		}

	case ch == '.' || ch == '#':
		start := t.pos + 1
		t.pos = start
		t.readName()
		if t.pos == start {
			// Only a trailing '.' may be empty; noise filtering handles "word."
			if ch != '.' || t.pos != len(t.text) {
				return false
			}
		}
		t.element()

	case ch == '[':
		end := matchBracket(t.text, t.pos, '[', ']')
		if end < 0 {
			return false
		}
		t.pos = end + 1
		t.element()

	case ch == '{':
		end := matchBracket(t.text, t.pos, '{', '}')
		if end < 0 {
			return false
		}
		t.pos = end + 1
		t.element()

	case ch == '\\':
		if t.pos+1 >= len(t.text) {
			return false
		}
		t.pos += 2
		t.element()

	case isNameChar(ch):
		t.readName()
		t.element()

	default:
		return false
	}
	return true
}

func (t *markupTokenizer) element() {
	t.expectElement, t.afterOperator = false, false
}

func (t *markupTokenizer) readName() {
	for t.pos < len(t.text) && isNameChar(t.text[t.pos]) {
		t.pos++
	}
}

func (t *markupTokenizer) peek() byte {
	if t.pos < len(t.text) {
		return t.text[t.pos]
	}
	return 0
}

// matchBracket returns the index closing the bracket at open, honouring
// nesting and quotes, or -1
func matchBracket(text string, open int, opener, closer byte) int {
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\\':
			i++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case opener == '[' && (ch == '"' || ch == '\''):
			quote = ch
		case ch == opener:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || strings.IndexByte("_-:$@", ch) >= 0
}

func isOperator(ch byte) bool {
	return ch == '>' || ch == '+' || ch == '^'
}

// isBoundary reports whether ch may follow a finished element
func isBoundary(ch byte) bool {
	return ch == 0 || isOperator(ch) || ch == ')'
}

func isDigits(text string) bool {
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	return text != ""
}

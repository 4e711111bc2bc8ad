// Package expand turns a validated abbreviation into its expansion for one
// syntax family. Markup abbreviations become element trees rendered as
// text; stylesheet abbreviations become property declarations. Cursor
// stops in the output are numbered in order of appearance.
package expand

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/syntax"
)

// defaultVariables are overlaid by the configuration's own variables
var defaultVariables = map[string]string{
	"lang":        "en",
	"locale":      "en-US",
	"charset":     "UTF-8",
	"indentation": "\t",
	"newline":     "\n",
}

// Segment is a run of literal text or a numbered cursor stop
type Segment struct {
	Text        string
	Field       bool
	Index       int
	Placeholder string
}

// Result is an expansion ready to be rendered with a field format
type Result struct {
	Segments []Segment
}

// String renders the result, fields through f. A nil f renders editor
// snippet syntax.
func (r Result) String(f options.FieldFunc) string {
	if f == nil {
		f = options.SnippetField
	}
	var b strings.Builder
	for _, s := range r.Segments {
		if s.Field {
			b.WriteString(f(s.Index, s.Placeholder))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Fields returns the number of distinct cursor stops
func (r Result) Fields() int {
	seen := map[int]bool{}
	for _, s := range r.Segments {
		if s.Field {
			seen[s.Index] = true
		}
	}
	return len(seen)
}

// Engine expands abbreviations. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	logger *zap.SugaredLogger
}

// New creates an expansion engine
func New() *Engine {
	return &Engine{logger: logger.ComponentLogger("expand")}
}

// Expand expands abbr under cfg. The returned error wraps
// errors.ErrInvalidAbbreviation when abbr does not parse.
func (e *Engine) Expand(abbr string, cfg *options.Config) (Result, error) {
	if cfg == nil {
		return Result{}, errors.New("nil expansion config")
	}
	if strings.TrimSpace(abbr) == "" {
		return Result{}, errors.NewInvalidAbbreviation(abbr)
	}

	start := time.Now()
	vars := make(map[string]string, len(defaultVariables)+len(cfg.Variables))
	for k, v := range defaultVariables {
		vars[k] = v
	}
	for k, v := range cfg.Variables {
		vars[k] = v
	}

	var pieces []piece
	var err error
	if cfg.Family == syntax.Stylesheet {
		pieces, err = expandStylesheet(abbr, cfg, vars)
	} else {
		pieces, err = expandMarkup(abbr, cfg, vars)
	}
	if err != nil {
		e.logger.Debugw("Expansion failed",
			logger.FieldAbbreviation, abbr,
			logger.FieldSyntax, cfg.Syntax,
			logger.FieldError, err)
		return Result{}, err
	}

	result := Result{Segments: renumber(pieces)}
	e.logger.Debugw("Expanded abbreviation",
		logger.FieldAbbreviation, abbr,
		logger.FieldSyntax, cfg.Syntax,
		logger.FieldCount, len(result.Segments),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

func expandMarkup(abbr string, cfg *options.Config, vars map[string]string) ([]piece, error) {
	m := &markup{cfg: cfg}
	nodes, err := m.build(abbr)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.NewInvalidAbbreviation(abbr)
	}

	if v, ok := cfg.Addons.Get(options.AddonBEM); ok && cfg.Addons.Has(options.AddonBEM) {
		bem, isBEM := v.(options.BEM)
		if !isBEM {
			bem = bemDefaults
		}
		applyBEM(nodes, bem, "")
	}

	r := newRenderer(cfg, vars)
	r.list(nodes, 0)
	return r.out, nil
}

// renumber assigns field numbers in order of first appearance. Fields
// sharing a scope and index are linked and share a number; generated
// fields are always distinct. Index 0 is the final stop and keeps its
// number.
func renumber(pieces []piece) []Segment {
	type key struct{ scope, index int }
	numbers := map[key]int{}
	placeholders := map[int]string{}
	next := 1

	out := make([]Segment, 0, len(pieces))
	for _, p := range pieces {
		if !p.field {
			if n := len(out); n > 0 && !out[n-1].Field {
				out[n-1].Text += p.text
				continue
			}
			out = append(out, Segment{Text: p.text})
			continue
		}

		var num int
		switch {
		case p.index == 0:
			num = 0
		case p.index == autoIndex:
			num = next
			next++
		default:
			k := key{p.scope, p.index}
			n, ok := numbers[k]
			if !ok {
				n = next
				next++
				numbers[k] = n
			}
			num = n
		}

		placeholder := p.placeholder
		if first, ok := placeholders[num]; ok && first != "" {
			placeholder = first
		} else if placeholder != "" {
			placeholders[num] = placeholder
		}
		out = append(out, Segment{Field: true, Index: num, Placeholder: placeholder})
	}
	return out
}

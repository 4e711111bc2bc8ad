// Package lsp assembles ranked completion candidates for the abbreviation
// ending at a cursor: the expansion of the typed abbreviation itself and
// the snippets whose keys it prefixes.
package lsp

import (
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/emmet/abbreviation"
	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/expand"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/syntax"
)

// Candidate kinds
const (
	KindAbbreviation = "abbreviation"
	KindSnippet      = "snippet"
	KindProperty     = "property"
)

// Candidate is one completion offered to the editor
type Candidate struct {
	Label string
	// Documentation previews the expansion with cursor stops shown as |
	Documentation string
	// InsertText is the expansion in editor snippet syntax
	InsertText string
	Kind       string
	SortText   string
	Range      protocol.Range
}

// Service provides abbreviation completions against the current snapshot
// of external snippets and profiles
type Service struct {
	store  *options.Store
	engine *expand.Engine
	logger *zap.SugaredLogger
}

// NewService creates a completion service reading configuration from store
func NewService(store *options.Store) *Service {
	return &Service{
		store:  store,
		engine: expand.New(),
		logger: logger.ComponentLogger("lsp"),
	}
}

// Store returns the snapshot store the service reads from
func (s *Service) Store() *options.Store {
	return s.store
}

// Complete returns the candidates for the abbreviation ending at pos, best
// first. It never fails: anything that is not a usable abbreviation yields
// an empty list.
func (s *Service) Complete(doc *document.Document, pos protocol.Position, syntaxID string, settings Settings) []Candidate {
	candidates := []Candidate{}
	if !settings.UseNewEmmet || !settings.ShowExpandedAbbreviation.Enabled() || settings.excluded(syntaxID) {
		return candidates
	}

	snap := s.store.Current()
	table := snap.Syntaxes
	if table == nil {
		table = syntax.Default()
	}
	id := strings.ToLower(syntaxID)
	mode := settings.ShowExpandedAbbreviation.normalize()
	if mode == ShowInMarkupAndStylesheetFilesOnly && !table.Known(id) {
		return candidates
	}

	extracted := abbreviation.ExtractFor(doc, pos, table.Family(id))
	if extracted == nil {
		return candidates
	}

	cfg := snap.BuildConfig(syntaxID, options.Overrides{
		SyntaxProfiles: settings.SyntaxProfiles,
		Variables:      settings.Variables,
		Filters:        extracted.Filters,
	})
	keys := snippetKeys(cfg)
	abbr := extracted.Abbreviation

	s.logger.Debugw("Completing abbreviation",
		logger.FieldAbbreviation, abbr,
		logger.FieldSyntax, syntaxID,
		logger.FieldFilters, extracted.Filters,
		logger.FieldGeneration, snap.Generation)

	if res, err := s.engine.Expand(abbr, cfg); err != nil {
		s.logger.Debugw("Abbreviation did not expand",
			logger.FieldAbbreviation, abbr,
			logger.FieldError, err)
	} else if !isNoise(abbr, cfg, keys, res) {
		kind := KindAbbreviation
		if cfg.Family == syntax.Stylesheet {
			kind = KindProperty
		}
		candidates = append(candidates, s.candidate(abbr, res, cfg, kind, extracted.Range))
	}

	if mode == ShowWithInnerNode && len(extracted.Filters) == 0 {
		if inner, ok := s.innerNode(doc, extracted, cfg); ok {
			candidates = append(candidates, inner)
		}
	}

	if settings.ShowAbbreviationSuggestions && len(extracted.Filters) == 0 && bareWord.MatchString(abbr) {
		candidates = append(candidates, s.suggestions(abbr, keys, cfg, extracted.Range)...)
	}

	for i := range candidates {
		candidates[i].SortText = fmt.Sprintf("%04d", i)
	}

	s.logger.Debugw("Completion result",
		logger.FieldAbbreviation, abbr,
		logger.FieldCount, len(candidates))
	return candidates
}

// suggestions expands the snippets whose key starts with prefix, shortest
// key first
func (s *Service) suggestions(prefix string, keys map[string]string, cfg *options.Config, rng protocol.Range) []Candidate {
	var matched []string
	for key := range keys {
		if key != prefix && strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if len(matched[i]) != len(matched[j]) {
			return len(matched[i]) < len(matched[j])
		}
		return matched[i] < matched[j]
	})

	kind := KindSnippet
	if cfg.Family == syntax.Stylesheet {
		kind = KindProperty
	}

	var out []Candidate
	for _, key := range matched {
		res, err := s.engine.Expand(key, cfg)
		if err != nil {
			s.logger.Debugw("Snippet did not expand",
				logger.FieldAbbreviation, key,
				logger.FieldError, err)
			continue
		}
		out = append(out, s.candidate(key, res, cfg, kind, rng))
	}
	return out
}

// innerNode offers the last node of a child chain (li in ul>li) as a
// candidate replacing only its own text
func (s *Service) innerNode(doc *document.Document, ex *abbreviation.Extracted, cfg *options.Config) (Candidate, bool) {
	if cfg.Family == syntax.Stylesheet {
		return Candidate{}, false
	}
	inner := lastNode(ex.Abbreviation)
	if inner == "" || inner == ex.Abbreviation || !abbreviation.ValidatorFor(cfg.Family)(inner) {
		return Candidate{}, false
	}
	res, err := s.engine.Expand(inner, cfg)
	if err != nil {
		return Candidate{}, false
	}

	end := doc.OffsetAt(ex.Range.End)
	rng := protocol.Range{
		Start: doc.PositionAt(end - len(inner)),
		End:   ex.Range.End,
	}
	return s.candidate(inner, res, cfg, KindAbbreviation, rng), true
}

// lastNode returns the text after the last top-level > of abbr, or "" when
// the chain ends in a sibling, climb or group
func lastNode(abbr string) string {
	depth := 0
	for i := len(abbr) - 1; i >= 0; i-- {
		switch abbr[i] {
		case ']', '}', ')':
			depth++
		case '[', '{', '(':
			depth--
		case '>':
			if depth == 0 {
				return abbr[i+1:]
			}
		case '+', '^':
			if depth == 0 {
				return ""
			}
		}
	}
	return ""
}

func (s *Service) candidate(label string, res expand.Result, cfg *options.Config, kind string, rng protocol.Range) Candidate {
	preview := res.String(options.PreviewField)
	if cfg.Family == syntax.Stylesheet {
		label = res.String(placeholderOnly)
	}
	return Candidate{
		Label:         label,
		Documentation: preview,
		InsertText:    insertText(res, cfg),
		Kind:          kind,
		Range:         rng,
	}
}

// insertText renders res in editor snippet syntax. Stylesheet text escapes
// literal $ so the editor does not read it as a variable.
func insertText(res expand.Result, cfg *options.Config) string {
	if cfg.Family != syntax.Stylesheet {
		return res.String(cfg.Field)
	}
	field := cfg.Field
	if field == nil {
		field = options.SnippetField
	}
	var b strings.Builder
	for _, seg := range res.Segments {
		if seg.Field {
			b.WriteString(field(seg.Index, seg.Placeholder))
			continue
		}
		b.WriteString(strings.ReplaceAll(seg.Text, "$", `\$`))
	}
	return b.String()
}

func placeholderOnly(_ int, placeholder string) string {
	return placeholder
}

var libraryKeys = map[syntax.Family]map[string]string{
	syntax.Markup:     libraryIndex(syntax.Markup),
	syntax.Stylesheet: libraryIndex(syntax.Stylesheet),
}

func libraryIndex(family syntax.Family) map[string]string {
	m := map[string]string{}
	for _, s := range expand.Library(family) {
		m[s.Key] = s.Value
	}
	return m
}

// snippetKeys merges the custom snippets visible to cfg over the built-in
// library of its family
func snippetKeys(cfg *options.Config) map[string]string {
	library := libraryKeys[cfg.Family]
	if len(cfg.Snippets) == 0 {
		return library
	}
	merged := make(map[string]string, len(library)+len(cfg.Snippets))
	for k, v := range library {
		merged[k] = v
	}
	for k, v := range cfg.Snippets {
		merged[k] = v
	}
	return merged
}

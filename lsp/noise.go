package lsp

import (
	"regexp"
	"strings"

	"github.com/teranos/emmet/expand"
	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/syntax"
)

var (
	// bareWord is text that may be the start of a snippet key
	bareWord = regexp.MustCompile(`^[A-Za-z0-9:!-]+$`)
	// plainWord is an abbreviation without operators, attributes or text
	plainWord = regexp.MustCompile(`^[A-Za-z0-9:-]+\.?$`)
)

// isNoise reports whether the expansion of abbr looks like ordinary typing
// rather than an abbreviation. Known tags and snippet keys are never noise.
func isNoise(abbr string, cfg *options.Config, snippets map[string]string, res expand.Result) bool {
	if _, ok := snippets[abbr]; ok {
		return false
	}
	if cfg.Family == syntax.Stylesheet {
		out := res.String(options.SnippetField)
		return out == abbr+": ${1}"+cfg.Terminator || out == abbr+cfg.Terminator
	}

	if !plainWord.MatchString(abbr) {
		return false
	}
	if abbr == "." {
		return false
	}
	if word, ok := strings.CutSuffix(abbr, "."); ok {
		return !syntax.IsHTMLTag(word)
	}
	if syntax.IsHTMLTag(abbr) {
		return false
	}
	if separators := strings.Count(abbr, "-") + strings.Count(abbr, ":"); separators == 1 &&
		!strings.HasPrefix(abbr, "-") && !strings.HasSuffix(abbr, "-") &&
		!strings.HasPrefix(abbr, ":") && !strings.HasSuffix(abbr, ":") {
		return false
	}

	out := res.String(options.SnippetField)
	return out == "<"+abbr+">${1}</"+abbr+">"
}

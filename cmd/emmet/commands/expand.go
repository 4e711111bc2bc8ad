package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/emmet/abbreviation"
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/expand"
	"github.com/teranos/emmet/options"
)

// ExpandCmd expands one abbreviation and prints the result
var ExpandCmd = &cobra.Command{
	Use:   "expand <abbreviation>",
	Short: "Expand an abbreviation",
	Long: `Expand an abbreviation for a syntax and print the result.

Cursor stops are printed as | by default; --snippet prints editor snippet
syntax (${1}, ${2:placeholder}) instead. Filters may be appended to the
abbreviation (ul>li.item|bem) or passed with --filter.

Examples:
  emmet expand 'ul>li*3'
  emmet expand -s css 'm10+p5'
  emmet expand --snippet 'a:link'
  emmet expand --profile xhtml 'br'
  emmet expand --var lang=fr '!'`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

var (
	expandSyntax     string
	expandExtensions string
	expandProfile    string
	expandVariables  map[string]string
	expandFilters    []string
	expandSnippet    bool
)

func init() {
	ExpandCmd.Flags().StringVarP(&expandSyntax, "syntax", "s", "html", "Syntax (document language) to expand for")
	ExpandCmd.Flags().StringVar(&expandExtensions, "extensions", "", "Extensions directory with snippets and syntaxProfiles files (default: emmet.extensions_path)")
	ExpandCmd.Flags().StringVar(&expandProfile, "profile", "", "Output profile preset: html, xhtml, xml or line")
	ExpandCmd.Flags().StringToStringVar(&expandVariables, "var", nil, "Snippet variables (e.g. --var lang=fr)")
	ExpandCmd.Flags().StringSliceVar(&expandFilters, "filter", nil, "Filters to apply: bem, c, t")
	ExpandCmd.Flags().BoolVar(&expandSnippet, "snippet", false, "Print editor snippet syntax instead of a preview")
}

func runExpand(cmd *cobra.Command, args []string) error {
	path := expandExtensions
	if path == "" {
		path = currentConfig().Emmet.ExtensionsPath
	}
	store, err := openStore(cmd.Context(), path)
	if err != nil {
		return err
	}

	parsed := abbreviation.ExtractFromText(args[0])
	if parsed == nil || !abbreviation.IsValid(expandSyntax, parsed.Abbreviation) {
		return errors.NewInvalidAbbreviation(args[0])
	}

	overrides := options.Overrides{
		Variables: mergeVariables(currentConfig().Emmet.Variables, expandVariables),
		Filters:   append(append([]string{}, parsed.Filters...), expandFilters...),
	}
	if expandProfile != "" {
		overrides.SyntaxProfiles = map[string]any{expandSyntax: expandProfile}
	} else {
		overrides.SyntaxProfiles = currentConfig().Emmet.SyntaxProfiles
	}

	cfg := store.Current().BuildConfig(expandSyntax, overrides)
	res, err := expand.New().Expand(parsed.Abbreviation, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to expand %q", parsed.Abbreviation)
	}

	field := options.PreviewField
	if expandSnippet {
		field = options.SnippetField
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.String(field))
	return nil
}

// mergeVariables overlays flag variables on configured ones
func mergeVariables(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

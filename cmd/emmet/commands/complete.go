package commands

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/emmet/document"
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/lsp"
)

// CompleteCmd runs a completion request against a file, as an editor would
var CompleteCmd = &cobra.Command{
	Use:   "complete <file> <line>:<character>",
	Short: "List the completions offered at a position in a file",
	Long: `Run the completion the language server would answer for a cursor at
<line>:<character> (both zero-based) in a file. The syntax defaults to the
file extension.

Examples:
  emmet complete index.html 12:18
  emmet complete --suggestions --show withInnerNode index.html 3:9
  emmet complete -s scss styles/_base.scss 40:6`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

var (
	completeSyntax      string
	completeShow        string
	completeSuggestions bool
)

func init() {
	CompleteCmd.Flags().StringVarP(&completeSyntax, "syntax", "s", "", "Syntax (document language); default from file extension")
	CompleteCmd.Flags().StringVar(&completeShow, "show", "", "showExpandedAbbreviation mode (default: emmet.show_expanded_abbreviation)")
	CompleteCmd.Flags().BoolVar(&completeSuggestions, "suggestions", false, "Also list snippets the abbreviation is a prefix of")
}

func runComplete(cmd *cobra.Command, args []string) error {
	path := args[0]
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	lang := completeSyntax
	if lang == "" {
		lang = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	cfg := currentConfig()
	settings := cfg.Settings()
	settings.ShowAbbreviationSuggestions = completeSuggestions
	if completeShow != "" {
		settings.ShowExpandedAbbreviation = lsp.ShowMode(completeShow)
		if !settings.ShowExpandedAbbreviation.Valid() {
			return errors.Newf("unknown show mode %q", completeShow)
		}
	}

	store, err := openStore(cmd.Context(), settings.ExtensionsPath)
	if err != nil {
		return err
	}

	doc := document.New("file://"+path, lang, 0, string(content))
	candidates := lsp.NewService(store).Complete(doc, pos, lang, settings)

	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		pterm.Info.WithWriter(out).Printfln("No completions at %s", args[1])
		return nil
	}

	data := pterm.TableData{{"#", "Label", "Kind", "Replaces", "Preview"}}
	for _, c := range candidates {
		data = append(data, []string{
			c.SortText,
			c.Label,
			c.Kind,
			doc.TextIn(c.Range),
			firstLine(c.Documentation),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}

// parsePosition parses "line:character"
func parsePosition(s string) (protocol.Position, error) {
	lineText, charText, ok := strings.Cut(s, ":")
	if !ok {
		return protocol.Position{}, errors.Newf("position %q must be <line>:<character>", s)
	}
	line, err := strconv.ParseUint(lineText, 10, 32)
	if err != nil {
		return protocol.Position{}, errors.Wrapf(err, "invalid line in %q", s)
	}
	char, err := strconv.ParseUint(charText, 10, 32)
	if err != nil {
		return protocol.Position{}, errors.Wrapf(err, "invalid character in %q", s)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

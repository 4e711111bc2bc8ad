package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/emmet/abbreviation"
	"github.com/teranos/emmet/document"
)

// ExtractCmd shows which abbreviation a completion would see at a column
var ExtractCmd = &cobra.Command{
	Use:   "extract <line>",
	Short: "Show the abbreviation ending at a column of a line",
	Long: `Extract the abbreviation that ends at --column of the given line, the
way the language server does before expanding it.

Examples:
  emmet extract '<div>ul>li*3</div>' --column 12
  emmet extract 'p.note|bem'
  emmet extract -s css 'a { m10'`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractSyntax string
	extractColumn int
)

func init() {
	ExtractCmd.Flags().StringVarP(&extractSyntax, "syntax", "s", "html", "Syntax (document language) of the line")
	ExtractCmd.Flags().IntVarP(&extractColumn, "column", "c", -1, "Column (UTF-16 units) of the cursor; default end of line")
}

func runExtract(cmd *cobra.Command, args []string) error {
	line := args[0]
	doc := document.New("cli://line", extractSyntax, 0, line)

	column := extractColumn
	if column < 0 {
		column = int(doc.PositionAt(len(line)).Character)
	}
	pos := protocol.Position{Line: 0, Character: protocol.UInteger(column)}

	extracted := abbreviation.Extract(doc, pos)
	if extracted == nil {
		pterm.Warning.WithWriter(cmd.OutOrStdout()).Printfln("No abbreviation ends at column %d", column)
		return nil
	}

	filters := strings.Join(extracted.Filters, ", ")
	if filters == "" {
		filters = "-"
	}
	data := pterm.TableData{
		{"Abbreviation", "Filters", "Range"},
		{extracted.Abbreviation, filters, fmt.Sprintf("%d-%d", extracted.Range.Start.Character, extracted.Range.End.Character)},
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}

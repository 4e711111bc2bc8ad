package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/emmet/cmd/emmet/commands"
	"github.com/teranos/emmet/logger"
)

var rootCmd = &cobra.Command{
	Use:   "emmet",
	Short: "emmet - abbreviation expansion and completion",
	Long: `emmet - abbreviation expansion for HTML, XML, JSX and stylesheets.

Runs as a language server offering abbreviation expansions as completions,
and expands, extracts and validates abbreviations from the command line.

Available commands:
  serve    - Start the language server (stdio or websocket)
  expand   - Expand an abbreviation
  extract  - Show the abbreviation ending at a column
  validate - Check abbreviations are well formed
  complete - List completions at a position in a file
  config   - Show and validate configuration

Examples:
  emmet serve                          # Language server on stdio
  emmet expand 'ul>li.item*3'          # Expand for HTML
  emmet expand -s css 'm10+p5'         # Expand for CSS
  emmet complete index.html 12:18      # What would the editor offer?`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.Setup,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: emmet.toml cascade)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ExpandCmd)
	rootCmd.AddCommand(commands.ExtractCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.CompleteCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		// stderr: stdout may be an LSP stream
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}

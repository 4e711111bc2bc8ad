package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/emmet/abbreviation"
	"github.com/teranos/emmet/errors"
)

// ValidateCmd checks abbreviations without expanding them
var ValidateCmd = &cobra.Command{
	Use:   "validate <abbreviation>...",
	Short: "Check whether abbreviations are well formed",
	Long: `Check each abbreviation against the grammar of its syntax family.
Exits non-zero when any abbreviation is invalid.

Examples:
  emmet validate 'ul>li*3' 'div>(p'
  emmet validate -s scss 'm10-20' '#fff'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

var validateSyntax string

func init() {
	ValidateCmd.Flags().StringVarP(&validateSyntax, "syntax", "s", "html", "Syntax (document language) to validate for")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, text := range args {
		if abbreviation.IsValid(validateSyntax, text) {
			pterm.Success.WithWriter(out).Println(text)
			continue
		}
		pterm.Error.WithWriter(out).Println(text)
		invalid++
	}
	if invalid > 0 {
		return errors.Newf("%d of %d abbreviations are invalid for %s", invalid, len(args), validateSyntax)
	}
	return nil
}

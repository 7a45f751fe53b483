// ABOUTME: CLI command to pick a suggestion and get its recipe
// ABOUTME: The chosen meal is saved so feedback can be recorded later
package commands

import (
	"github.com/spf13/cobra"
)

// NewSelectCmd creates the select command
func NewSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <session-id> <suggestion-id>",
		Short: "Choose a suggestion and get the full recipe",
		Long: `Choose one of the suggestions offered in a session.

The recipe is checked against your allergies and dislikes, saved to
your history, and printed.

Examples:
  tweak select 7d1c... sug_2
  tweak select 7d1c... sug_1 --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Orchestrator.HandleSelection(cmd.Context(), a.Config.DefaultUser, args[0], args[1])
			if err != nil {
				return cliError(err)
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printTurn(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

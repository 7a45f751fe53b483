// ABOUTME: CLI command to list past meals with their feedback
// ABOUTME: Newest first, paged with --limit and --offset
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyOffset int
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List meals you have chosen",
		Long: `List the meals you selected, newest first, with any feedback you gave.

Examples:
  tweak history
  tweak history --limit 10 --offset 10
  tweak history --format json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of meals to show")
	cmd.Flags().IntVar(&historyOffset, "offset", 0, "Number of meals to skip")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	page, err := a.Orchestrator.History(cmd.Context(), a.Config.DefaultUser, historyLimit, historyOffset)
	if err != nil {
		return cliError(err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), page)
	}

	if len(page.Items) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No meals yet\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TITLE\tLIKED\tAGAIN\tTAGS\tCREATED\tMEAL ID\n")
	fmt.Fprintf(w, "-----\t-----\t-----\t----\t-------\t-------\n")
	for _, item := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(item.Title, 35),
			yesNo(item.Liked),
			yesNo(item.CookedAgain),
			truncate(strings.Join(item.Tags, ", "), 25),
			formatTime(item.CreatedAt),
			item.MealID)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d meal(s) from offset %d\n", len(page.Items), page.Offset)
	}
	return nil
}

// ABOUTME: CLI command to record how a cooked meal went
// ABOUTME: Feedback is recorded once per meal and updates learned preferences
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/tweak-my-meal/internal/core"
)

var (
	feedbackLiked       bool
	feedbackDisliked    bool
	feedbackCookedAgain bool
	feedbackTags        []string
	feedbackNotes       string
)

// NewFeedbackCmd creates the feedback command
func NewFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <meal-id>",
		Short: "Tell the assistant how a meal went",
		Long: `Record feedback for a meal you cooked.

Feedback can be given once per meal. It is turned into memories and
preference updates that steer future suggestions.

Examples:
  tweak feedback 3f9a... --liked --cooked-again
  tweak feedback 3f9a... --disliked --tag too_spicy --notes "way too hot"`,
		Args: cobra.ExactArgs(1),
		RunE: runFeedback,
	}

	cmd.Flags().BoolVar(&feedbackLiked, "liked", false, "You liked the meal")
	cmd.Flags().BoolVar(&feedbackDisliked, "disliked", false, "You did not like the meal")
	cmd.Flags().BoolVar(&feedbackCookedAgain, "cooked-again", false, "You would cook it again")
	cmd.Flags().StringSliceVar(&feedbackTags, "tag", []string{}, "Feedback tags like too_spicy or easy (comma-separated or repeated)")
	cmd.Flags().StringVar(&feedbackNotes, "notes", "", "Free-form notes")
	cmd.MarkFlagsMutuallyExclusive("liked", "disliked")
	cmd.MarkFlagsOneRequired("liked", "disliked")

	return cmd
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackLiked == feedbackDisliked {
		return errors.New("exactly one of --liked or --disliked is required")
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	res, err := a.Orchestrator.HandleFeedback(cmd.Context(), core.FeedbackRequest{
		UserID:      a.Config.DefaultUser,
		MealID:      args[0],
		Liked:       feedbackLiked,
		CookedAgain: feedbackCookedAgain,
		Tags:        feedbackTags,
		Notes:       feedbackNotes,
	})
	if err != nil {
		return cliError(err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Thanks! Learned %d memory item(s) and updated %d preference(s).\n",
		res.MemoryItemsWritten, res.PreferenceFactsUpdated)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", res.UpdatedProfileSummary)
	}
	return nil
}

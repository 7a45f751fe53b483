// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Renders turns, recipes, and tables, or raw JSON with --format json
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harper/tweak-my-meal/internal/models"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// jsonOutput reports whether results should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// yesNo renders an optional boolean
func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "yes"
	default:
		return "no"
	}
}

// printTurn renders one turn result for a terminal
func printTurn(w io.Writer, res *models.TurnResult) {
	switch res.Kind {
	case models.TurnFollowUp:
		fmt.Fprintf(w, "I need a bit more detail:\n")
		for _, q := range res.Questions {
			fmt.Fprintf(w, "  - %s\n", q)
		}
		fmt.Fprintf(w, "\nAnswer with: tweak chat --session %s \"...\"\n", res.SessionID)

	case models.TurnSuggestions:
		if len(res.Suggestions) == 0 {
			fmt.Fprintf(w, "No suggestions fit your profile. Try: tweak modify %s \"...\"\n", res.SessionID)
			return
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\tTITLE\tTIME\tDIFFICULTY\tTAGS\n")
		fmt.Fprintf(tw, "--\t-----\t----\t----------\t----\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(tw, "%s\t%s\t%dm\t%s\t%s\n",
				s.SuggestionID,
				truncate(s.Title, 40),
				s.EstimatedTimeMinutes,
				s.Difficulty,
				truncate(strings.Join(s.Tags, ", "), 30))
		}
		tw.Flush()
		if !quiet {
			fmt.Fprintf(w, "\nSession: %s\nPick one with: tweak select %s <id>\n", res.SessionID, res.SessionID)
		}

	case models.TurnRecipe:
		if res.Recipe != nil {
			printRecipe(w, res.Recipe)
		}
		if !quiet {
			fmt.Fprintf(w, "\nMeal: %s\nAfter cooking: tweak feedback %s --liked\n", res.MealID, res.MealID)
		}
	}
}

func printRecipe(w io.Writer, r *models.RecipeResult) {
	fmt.Fprintf(w, "%s\n%s\n", r.Name, strings.Repeat("=", len([]rune(r.Name))))
	if r.Summary != "" {
		fmt.Fprintf(w, "%s\n", r.Summary)
	}
	fmt.Fprintf(w, "\n%d min | %s | serves %d\n", r.TimeMinutes, r.Difficulty, r.Servings)

	fmt.Fprintf(w, "\nIngredients:\n")
	for _, ing := range r.Ingredients {
		line := fmt.Sprintf("  - %s %s", ing.Quantity, ing.Name)
		if ing.Optional {
			line += " (optional)"
		}
		if len(ing.Substitutes) > 0 {
			line += " [or " + strings.Join(ing.Substitutes, ", ") + "]"
		}
		fmt.Fprintf(w, "%s\n", line)
	}

	fmt.Fprintf(w, "\nSteps:\n")
	for i, step := range r.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "\nNote: %s\n", warning)
	}
}

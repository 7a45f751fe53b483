// ABOUTME: CLI command to view and edit the dietary profile
// ABOUTME: set changes only the flags given; allergies can be added but not removed
package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
)

var (
	profileName      string
	profileDiet      string
	profileGoals     []string
	profileAllergies []string
	profileDislikes  []string
	profileLikes     []string
	profileSkill     string
	profileTime      int
	profileBudget    string
	profileHousehold int
	profileEquipment []string
	profileNotes     string
)

// NewProfileCmd creates profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and manage your dietary profile",
		Long: `View and manage your dietary profile.

The profile holds hard constraints (allergies, dislikes) that every
suggestion must respect, plus goals and cooking context. The top
learned preferences from your feedback are shown with it.

Examples:
  tweak profile
  tweak profile --format json
  tweak profile set --name "Sam" --allergy peanut
  tweak profile set --skill beginner --time 30 --household 2`,
		RunE: runProfileShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update profile fields. Fields you do not pass keep their current value.

List flags replace the current list, except allergies, which are only
ever added to.

Examples:
  tweak profile set --name "Sam"
  tweak profile set --allergy peanut --allergy shellfish
  tweak profile set --goal "more protein" --dislike cilantro`,
		RunE: runProfileSet,
	}

	setCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	setCmd.Flags().StringVar(&profileDiet, "diet", "", "Diet style, e.g. vegetarian")
	setCmd.Flags().StringArrayVar(&profileGoals, "goal", nil, "Goal (can be repeated)")
	setCmd.Flags().StringArrayVar(&profileAllergies, "allergy", nil, "Allergy to add (can be repeated)")
	setCmd.Flags().StringArrayVar(&profileDislikes, "dislike", nil, "Disliked ingredient (can be repeated)")
	setCmd.Flags().StringArrayVar(&profileLikes, "like", nil, "Liked ingredient or cuisine (can be repeated)")
	setCmd.Flags().StringVar(&profileSkill, "skill", "", "Cooking skill: beginner, intermediate, or advanced")
	setCmd.Flags().IntVar(&profileTime, "time", 0, "Usual minutes per meal")
	setCmd.Flags().StringVar(&profileBudget, "budget", "", "Budget: low, medium, or high")
	setCmd.Flags().IntVar(&profileHousehold, "household", 0, "People you cook for")
	setCmd.Flags().StringArrayVar(&profileEquipment, "equipment", nil, "Available equipment (can be repeated)")
	setCmd.Flags().StringVar(&profileNotes, "notes", "", "Free-form notes")

	cmd.AddCommand(setCmd)

	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	user := a.Config.DefaultUser
	profile, err := a.Storage.Profiles.Get(cmd.Context(), user)
	if errors.Is(err, sqlite.ErrNotFound) {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No profile found. Create one with: tweak profile set --name \"Your Name\"\n")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}
	summary, err := a.Orchestrator.UserSummary(cmd.Context(), user)
	if err != nil {
		return cliError(err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), struct {
			Profile *models.UserProfile `json:"profile"`
			*models.UserSummary
		}{profile, summary})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tVALUE\n")
	fmt.Fprintf(w, "-----\t-----\n")
	fmt.Fprintf(w, "User\t%s\n", user)
	fmt.Fprintf(w, "Name\t%s\n", orNotSet(profile.DisplayName))
	fmt.Fprintf(w, "Diet\t%s\n", orNotSet(profile.DietStyle))
	fmt.Fprintf(w, "Goals\t%s\n", truncate(listOrNone(profile.Goals), 60))
	fmt.Fprintf(w, "Allergies\t%s\n", listOrNone(profile.Allergies))
	fmt.Fprintf(w, "Dislikes\t%s\n", truncate(listOrNone(profile.Dislikes), 60))
	fmt.Fprintf(w, "Likes\t%s\n", truncate(listOrNone(profile.Likes), 60))
	fmt.Fprintf(w, "Skill\t%s\n", orNotSet(string(profile.CookingSkill)))
	if profile.TimePerMealMinutes > 0 {
		fmt.Fprintf(w, "Time per meal\t%d min\n", profile.TimePerMealMinutes)
	}
	if profile.HouseholdSize > 0 {
		fmt.Fprintf(w, "Household\t%d\n", profile.HouseholdSize)
	}
	fmt.Fprintf(w, "Version\t%d\n", profile.Version)
	fmt.Fprintf(w, "Last Updated\t%s\n", formatTime(profile.UpdatedAt))
	w.Flush()

	if len(summary.TopPreferences) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n")
		w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "PREFERENCE\tSTRENGTH\n")
		fmt.Fprintf(w, "----------\t--------\n")
		for _, fact := range summary.TopPreferences {
			fmt.Fprintf(w, "%s\t%.2f\n", fact.FactKey, fact.Strength)
		}
		w.Flush()
	}
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	user := a.Config.DefaultUser
	var in models.ProfileInput
	current, err := a.Storage.Profiles.Get(cmd.Context(), user)
	switch {
	case err == nil:
		in = current.Input()
	case !errors.Is(err, sqlite.ErrNotFound):
		return fmt.Errorf("getting profile: %w", err)
	}
	if applyProfileFlags(cmd.Flags(), &in) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	saved, err := a.Orchestrator.SaveProfile(cmd.Context(), user, in)
	if err != nil {
		return cliError(err)
	}
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), saved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile saved (version %d): %s\n", saved.ProfileVersion, saved.ProfileSummary)
	return nil
}

// applyProfileFlags overwrites the fields whose flags were set and returns how many
func applyProfileFlags(flags *pflag.FlagSet, in *models.ProfileInput) int {
	changed := 0
	flags.Visit(func(f *pflag.Flag) {
		changed++
		switch f.Name {
		case "name":
			in.DisplayName = profileName
		case "diet":
			in.DietStyle = profileDiet
		case "goal":
			in.Goals = profileGoals
		case "allergy":
			in.Allergies = append(append([]string{}, in.Allergies...), profileAllergies...)
		case "dislike":
			in.Dislikes = profileDislikes
		case "like":
			in.Likes = profileLikes
		case "skill":
			in.CookingSkill = profileSkill
		case "time":
			in.TimePerMealMinutes = profileTime
		case "budget":
			in.Budget = profileBudget
		case "household":
			in.HouseholdSize = profileHousehold
		case "equipment":
			in.Equipment = profileEquipment
		case "notes":
			in.Notes = profileNotes
		default:
			changed--
		}
	})
	return changed
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// ABOUTME: ContextHydrator assembles the per-call user context for agent prompts
// ABOUTME: Profile, preferences, memories, and recent meals are loaded in parallel
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/harper/tweak-my-meal/internal/storage"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	topPreferences = 10
	topMemories    = 5
	recentMeals    = 5
)

// ContextBundle is everything an agent needs to know about the user
type ContextBundle struct {
	Profile     *models.UserProfile
	HasProfile  bool
	Preferences []models.PreferenceFact
	Memories    []models.ScoredMemory
	RecentMeals []models.MealSummary
}

// AvoidTerms returns the allergies and dislikes the safety gate enforces
func (b *ContextBundle) AvoidTerms() []string {
	return b.Profile.AvoidTerms()
}

// ContextHydrator builds ContextBundles from storage
type ContextHydrator struct {
	storage       *storage.Storage
	minSimilarity float64
	logger        *zap.Logger
}

// NewContextHydrator creates a new ContextHydrator
func NewContextHydrator(store *storage.Storage, minSimilarity float64, logger *zap.Logger) *ContextHydrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextHydrator{storage: store, minSimilarity: minSimilarity, logger: logger.Named("context")}
}

// Hydrate loads a fresh bundle for userID. query drives memory retrieval; an
// empty query yields no memories. A memory search failure is logged and the
// bundle is returned without memories.
func (ch *ContextHydrator) Hydrate(ctx context.Context, userID, query string) (*ContextBundle, error) {
	bundle := &ContextBundle{
		Preferences: []models.PreferenceFact{},
		Memories:    []models.ScoredMemory{},
		RecentMeals: []models.MealSummary{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := ch.storage.Profiles.Get(gctx, userID)
		if errors.Is(err, sqlite.ErrNotFound) {
			bundle.Profile = models.NewUserProfile(userID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		bundle.Profile = profile
		bundle.HasProfile = true
		return nil
	})

	g.Go(func() error {
		facts, err := ch.storage.Preferences.TopK(gctx, userID, topPreferences)
		if err != nil {
			return fmt.Errorf("preferences: %w", err)
		}
		bundle.Preferences = facts
		return nil
	})

	g.Go(func() error {
		meals, err := ch.storage.Meals.Recent(gctx, userID, recentMeals)
		if err != nil {
			return fmt.Errorf("recent meals: %w", err)
		}
		bundle.RecentMeals = meals
		return nil
	})

	g.Go(func() error {
		found, err := ch.storage.Memory.Search(gctx, userID, query, topMemories)
		if err != nil {
			ch.logger.Warn("memory search failed, continuing without memories",
				zap.String("user_id", userID),
				zap.Error(err))
			return nil
		}
		for _, m := range found {
			if m.Similarity >= ch.minSimilarity {
				bundle.Memories = append(bundle.Memories, m)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err, "loading user context")
	}
	return bundle, nil
}

// Render formats the bundle as prompt sections. Hard constraints are never truncated.
func (b *ContextBundle) Render() string {
	var sb strings.Builder
	p := b.Profile

	sb.WriteString("USER PROFILE:\n")
	sb.WriteString(fmt.Sprintf("Summary: %s\n", p.Summary()))
	if len(p.Goals) > 0 {
		sb.WriteString(fmt.Sprintf("Goals: %s\n", strings.Join(p.Goals, ", ")))
	}
	if len(p.Likes) > 0 {
		sb.WriteString(fmt.Sprintf("Likes: %s\n", strings.Join(p.Likes, ", ")))
	}
	if p.Budget != "" {
		sb.WriteString(fmt.Sprintf("Budget: %s\n", p.Budget))
	}
	if p.HouseholdSize > 0 {
		sb.WriteString(fmt.Sprintf("Household size: %d\n", p.HouseholdSize))
	}
	sb.WriteString(fmt.Sprintf("Units: %s\n", p.Units))
	if p.Notes != "" {
		sb.WriteString(fmt.Sprintf("Notes: %s\n", p.Notes))
	}
	sb.WriteString("\n")

	sb.WriteString("HARD CONSTRAINTS:\n")
	sb.WriteString(fmt.Sprintf("Allergies (never include): %s\n", listOrNone(p.Allergies)))
	sb.WriteString(fmt.Sprintf("Dislikes (avoid): %s\n", listOrNone(p.Dislikes)))
	sb.WriteString(fmt.Sprintf("Diet style: %s\n", orNone(p.DietStyle)))
	sb.WriteString(fmt.Sprintf("Equipment: %s\n", listOrNone(p.Equipment)))
	sb.WriteString(fmt.Sprintf("Cooking skill: %s\n", orNone(string(p.CookingSkill))))
	if p.TimePerMealMinutes > 0 {
		sb.WriteString(fmt.Sprintf("Time per meal: %d minutes\n", p.TimePerMealMinutes))
	} else {
		sb.WriteString("Time per meal: none\n")
	}
	sb.WriteString("\n")

	if len(b.Preferences) > 0 {
		sb.WriteString("LEARNED PREFERENCES:\n")
		for _, f := range b.Preferences {
			sb.WriteString(fmt.Sprintf("- %s (strength: %.2f)\n", f.FactKey, f.Strength))
		}
		sb.WriteString("\n")
	}

	if len(b.Memories) > 0 {
		sb.WriteString("RELEVANT MEMORIES:\n")
		for _, m := range b.Memories {
			sb.WriteString(fmt.Sprintf("- [%s] %s (relevance: %.2f)\n", m.Kind, m.Text, m.Similarity))
		}
		sb.WriteString("\n")
	}

	if len(b.RecentMeals) > 0 {
		sb.WriteString("RECENT MEALS:\n")
		for _, m := range b.RecentMeals {
			if len(m.Tags) > 0 {
				sb.WriteString(fmt.Sprintf("- %s [%s]\n", m.Title, strings.Join(m.Tags, ", ")))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", m.Title))
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

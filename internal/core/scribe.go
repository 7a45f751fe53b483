// ABOUTME: Scribe applies learned preferences, memories, and profile additions
// ABOUTME: Falls back to deterministic learning from tags when the agent fails
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/harper/tweak-my-meal/internal/storage"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
	"go.uber.org/zap"
)

// LearnResult counts what a learning pass wrote
type LearnResult struct {
	MemoryItemsWritten     int
	PreferenceFactsUpdated int
	ProfileChanged         bool
}

// Scribe writes learning results to storage
type Scribe struct {
	storage *storage.Storage
	logger  *zap.Logger
	mu      sync.Mutex // Protects profile read-modify-write
}

// NewScribe creates a new Scribe
func NewScribe(store *storage.Storage, logger *zap.Logger) *Scribe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scribe{storage: store, logger: logger.Named("scribe")}
}

// Apply folds a MemoryWriteResult into the user's stores. Facts with keys that
// normalize to nothing are skipped. Counts reflect what was written before
// any error.
func (s *Scribe) Apply(ctx context.Context, userID, mealID string, res models.MemoryWriteResult) (LearnResult, error) {
	var out LearnResult

	for _, fact := range res.PreferenceFacts {
		key := models.NormalizeFactKey(fact.FactKey)
		if key == "" || fact.DeltaStrength == nil {
			s.logger.Debug("skipping unusable fact", zap.String("fact_key", fact.FactKey))
			continue
		}
		if err := s.storage.Preferences.ApplyDelta(ctx, userID, key, *fact.DeltaStrength, mealID); err != nil {
			return out, fmt.Errorf("applying %s: %w", key, err)
		}
		out.PreferenceFactsUpdated++
	}

	for _, draft := range res.MemoryItems {
		if strings.TrimSpace(draft.Text) == "" {
			continue
		}
		if _, err := s.storage.Memory.Write(ctx, userID, draft, mealID); err != nil {
			return out, fmt.Errorf("writing memory: %w", err)
		}
		out.MemoryItemsWritten++
	}

	if !res.ProfilePatch.IsEmpty() {
		_, changed, err := s.UpdateProfile(ctx, userID, func(p *models.UserProfile) bool {
			return p.ApplyPatch(res.ProfilePatch)
		})
		if err != nil {
			return out, fmt.Errorf("patching profile: %w", err)
		}
		out.ProfileChanged = changed
	}

	s.logger.Info("learning applied",
		zap.String("user_id", userID),
		zap.String("meal_id", mealID),
		zap.Int("facts", out.PreferenceFactsUpdated),
		zap.Int("memories", out.MemoryItemsWritten),
		zap.Bool("profile_changed", out.ProfileChanged))
	return out, nil
}

// UpdateProfile loads (or starts) the user's profile, applies edit, and saves
// it when edit reports a change. The edited profile is returned either way.
func (s *Scribe) UpdateProfile(ctx context.Context, userID string, edit func(*models.UserProfile) bool) (*models.UserProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.storage.Profiles.Get(ctx, userID)
	if errors.Is(err, sqlite.ErrNotFound) {
		profile = models.NewUserProfile(userID)
	} else if err != nil {
		return nil, false, err
	}

	if !edit(profile) {
		return profile, false, nil
	}
	if err := s.storage.Profiles.Save(ctx, profile); err != nil {
		return nil, false, err
	}
	return profile, true, nil
}

const maxFallbackTags = 5

// FallbackLearning derives learning from the meal's tags and the feedback
// without a model. A liked meal adds likes:<tag> (+0.3, +0.5 when cooked
// again); a disliked meal adds avoid:<tag> (+0.3).
func FallbackLearning(meal *models.Meal, outcome models.MealOutcome) models.MemoryWriteResult {
	verb, kind, namespace := "liked", models.MemoryLike, "likes"
	strength := 0.3
	if !outcome.Liked {
		verb, kind, namespace = "disliked", models.MemoryDislike, "avoid"
	} else if outcome.CookedAgain {
		strength = 0.5
	}

	res := models.MemoryWriteResult{
		MemoryItems: []models.MemoryDraft{{
			Text:     fmt.Sprintf("User %s %s", verb, meal.Title),
			Kind:     kind,
			Salience: strength,
		}},
	}

	tags := meal.Tags
	if len(tags) > maxFallbackTags {
		tags = tags[:maxFallbackTags]
	}
	for _, tag := range tags {
		res.PreferenceFacts = append(res.PreferenceFacts, models.PreferenceDelta{
			FactKey:       namespace + ":" + tag,
			DeltaStrength: models.Float(strength),
			Reason:        fmt.Sprintf("From %s meal: %s", verb, meal.Title),
		})
	}

	for _, tag := range outcome.Tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "too_spicy", "too_hot", "too spicy":
			res.PreferenceFacts = append(res.PreferenceFacts, models.PreferenceDelta{
				FactKey:       "avoid:very_spicy",
				DeltaStrength: models.Float(0.3),
				Reason:        fmt.Sprintf("User found %s too spicy", meal.Title),
			})
		case "easy", "simple":
			res.PreferenceFacts = append(res.PreferenceFacts, models.PreferenceDelta{
				FactKey:       "likes:easy_recipes",
				DeltaStrength: models.Float(0.2),
				Reason:        fmt.Sprintf("User appreciated how easy %s was", meal.Title),
			})
		}
	}

	if notes := strings.TrimSpace(outcome.Notes); notes != "" {
		res.ProfilePatch.NotesAppend = []string{fmt.Sprintf("%s: %s", meal.Title, notes)}
	}
	return res
}

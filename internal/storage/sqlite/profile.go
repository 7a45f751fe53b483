// ABOUTME: User profile storage operations for SQLite
// ABOUTME: One row per user with list fields serialized as JSON arrays
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/tweak-my-meal/internal/models"
)

// ProfileStore handles user profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves a user's profile, returning ErrNotFound if there is none
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		displayName, dietStyle, skill, budget, units, notes sql.NullString
		goals, allergies, dislikes, likes, equipment        sql.NullString
		timePerMeal, household, version                     int
		updatedAt                                           int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT display_name, diet_style, goals, allergies, dislikes, likes,
		       cooking_skill, time_per_meal_minutes, budget, household_size,
		       equipment, units, notes, version, updated_at
		FROM profiles
		WHERE user_id = ?
	`, userID).Scan(&displayName, &dietStyle, &goals, &allergies, &dislikes, &likes,
		&skill, &timePerMeal, &budget, &household,
		&equipment, &units, &notes, &version, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", userID, err)
	}

	profile := &models.UserProfile{
		UserID:             userID,
		DisplayName:        displayName.String,
		DietStyle:          dietStyle.String,
		Goals:              unmarshalList(goals),
		Allergies:          unmarshalList(allergies),
		Dislikes:           unmarshalList(dislikes),
		Likes:              unmarshalList(likes),
		CookingSkill:       models.CookingSkill(skill.String),
		TimePerMealMinutes: timePerMeal,
		Budget:             budget.String,
		HouseholdSize:      household,
		Equipment:          unmarshalList(equipment),
		Units:              units.String,
		Notes:              notes.String,
		Version:            version,
		UpdatedAt:          fromUnix(updatedAt),
	}
	if profile.Units == "" {
		profile.Units = "metric"
	}
	return profile, nil
}

// Save inserts or replaces the user's profile (upsert)
func (s *ProfileStore) Save(ctx context.Context, p *models.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, display_name, diet_style, goals, allergies, dislikes, likes,
			cooking_skill, time_per_meal_minutes, budget, household_size,
			equipment, units, notes, version, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			diet_style = excluded.diet_style,
			goals = excluded.goals,
			allergies = excluded.allergies,
			dislikes = excluded.dislikes,
			likes = excluded.likes,
			cooking_skill = excluded.cooking_skill,
			time_per_meal_minutes = excluded.time_per_meal_minutes,
			budget = excluded.budget,
			household_size = excluded.household_size,
			equipment = excluded.equipment,
			units = excluded.units,
			notes = excluded.notes,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, p.UserID, nullString(p.DisplayName), nullString(p.DietStyle),
		marshalList(p.Goals), marshalList(p.Allergies), marshalList(p.Dislikes), marshalList(p.Likes),
		nullString(string(p.CookingSkill)), p.TimePerMealMinutes, nullString(p.Budget), p.HouseholdSize,
		marshalList(p.Equipment), nullString(p.Units), nullString(p.Notes), p.Version, toUnix(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", p.UserID, err)
	}
	return nil
}

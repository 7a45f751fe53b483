// ABOUTME: Preference fact storage with additive strength updates
// ABOUTME: Deltas are applied in SQL so concurrent updates commute
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/tweak-my-meal/internal/models"
)

// PreferenceStore handles preference fact persistence
type PreferenceStore struct {
	db *DB
}

// NewPreferenceStore creates a new PreferenceStore
func NewPreferenceStore(db *DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// ApplyDelta adds delta to the fact's strength, creating it at delta if absent
func (s *PreferenceStore) ApplyDelta(ctx context.Context, userID, factKey string, delta float64, sourceMealID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preference_facts (user_id, fact_key, strength, updated_at, source_meal_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, fact_key) DO UPDATE SET
			strength = strength + excluded.strength,
			updated_at = excluded.updated_at,
			source_meal_id = COALESCE(excluded.source_meal_id, source_meal_id)
	`, userID, factKey, delta, toUnix(time.Now()), nullString(sourceMealID))
	if err != nil {
		return fmt.Errorf("applying delta to %s: %w", factKey, err)
	}
	return nil
}

// TopK returns the k strongest facts, newest first among equals
func (s *PreferenceStore) TopK(ctx context.Context, userID string, k int) ([]models.PreferenceFact, error) {
	if k <= 0 {
		return []models.PreferenceFact{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fact_key, strength, updated_at, source_meal_id
		FROM preference_facts
		WHERE user_id = ?
		ORDER BY strength DESC, updated_at DESC, fact_key ASC
		LIMIT ?
	`, userID, k)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	facts := []models.PreferenceFact{}
	for rows.Next() {
		var (
			fact      models.PreferenceFact
			updatedAt int64
			source    sql.NullString
		)
		if err := rows.Scan(&fact.FactKey, &fact.Strength, &updatedAt, &source); err != nil {
			return nil, err
		}
		fact.UserID = userID
		fact.UpdatedAt = fromUnix(updatedAt)
		fact.SourceMealID = source.String
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// Get returns one fact, or ErrNotFound
func (s *PreferenceStore) Get(ctx context.Context, userID, factKey string) (*models.PreferenceFact, error) {
	var (
		fact      = models.PreferenceFact{UserID: userID, FactKey: factKey}
		updatedAt int64
		source    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT strength, updated_at, source_meal_id
		FROM preference_facts
		WHERE user_id = ? AND fact_key = ?
	`, userID, factKey).Scan(&fact.Strength, &updatedAt, &source)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	fact.UpdatedAt = fromUnix(updatedAt)
	fact.SourceMealID = source.String
	return &fact, nil
}

// Decay multiplies every stored strength by factor, leaving updated_at alone.
// Factors outside (0, 1) are a no-op.
func (s *PreferenceStore) Decay(ctx context.Context, factor float64) (int64, error) {
	if factor <= 0 || factor >= 1 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE preference_facts SET strength = strength * ?`, factor)
	if err != nil {
		return 0, fmt.Errorf("decaying preferences: %w", err)
	}
	return res.RowsAffected()
}

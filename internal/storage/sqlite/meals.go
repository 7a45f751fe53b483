// ABOUTME: Meal and meal outcome storage operations for SQLite
// ABOUTME: Both rows are write-once; history joins meals with outcomes
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/tweak-my-meal/internal/models"
)

// MealStore handles meal and outcome persistence
type MealStore struct {
	db *DB
}

// NewMealStore creates a new MealStore
func NewMealStore(db *DB) *MealStore {
	return &MealStore{db: db}
}

// Insert saves a new meal; an existing meal_id is ErrConflict
func (s *MealStore) Insert(ctx context.Context, meal *models.Meal) error {
	recipe, err := json.Marshal(meal.Recipe)
	if err != nil {
		return fmt.Errorf("encoding recipe: %w", err)
	}
	var vision sql.NullString
	if meal.VisionResult != nil {
		data, err := json.Marshal(meal.VisionResult)
		if err != nil {
			return fmt.Errorf("encoding vision result: %w", err)
		}
		vision = sql.NullString{String: string(data), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meals (meal_id, user_id, created_at, title, source_kind, input_text,
		                   input_image_refs, vision_result, suggestion_id, recipe, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(meal_id) DO NOTHING
	`, meal.ID, meal.UserID, toUnix(meal.CreatedAt), meal.Title, string(meal.SourceKind),
		nullString(meal.InputText), marshalList(meal.InputImageRefs), vision,
		meal.SuggestionID, string(recipe), marshalList(meal.Tags))
	if err != nil {
		return fmt.Errorf("inserting meal %s: %w", meal.ID, err)
	}
	return requireInserted(res)
}

// Get loads one meal, or ErrNotFound
func (s *MealStore) Get(ctx context.Context, mealID string) (*models.Meal, error) {
	var (
		meal              = models.Meal{ID: mealID}
		createdAt         int64
		sourceKind        string
		inputText, vision sql.NullString
		imageRefs, tags   sql.NullString
		recipe            string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, created_at, title, source_kind, input_text, input_image_refs,
		       vision_result, suggestion_id, recipe, tags
		FROM meals
		WHERE meal_id = ?
	`, mealID).Scan(&meal.UserID, &createdAt, &meal.Title, &sourceKind, &inputText, &imageRefs,
		&vision, &meal.SuggestionID, &recipe, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading meal %s: %w", mealID, err)
	}

	meal.CreatedAt = fromUnix(createdAt)
	meal.SourceKind = models.InputKind(sourceKind)
	meal.InputText = inputText.String
	meal.InputImageRefs = unmarshalList(imageRefs)
	meal.Tags = unmarshalList(tags)
	if err := json.Unmarshal([]byte(recipe), &meal.Recipe); err != nil {
		return nil, fmt.Errorf("decoding recipe for %s: %w", mealID, err)
	}
	if vision.Valid && vision.String != "" {
		var vr models.VisionResult
		if err := json.Unmarshal([]byte(vision.String), &vr); err == nil {
			meal.VisionResult = &vr
		}
	}
	return &meal, nil
}

// Recent returns the user's latest meals, newest first
func (s *MealStore) Recent(ctx context.Context, userID string, limit int) ([]models.MealSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT meal_id, title, tags, created_at
		FROM meals
		WHERE user_id = ?
		ORDER BY created_at DESC, meal_id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent meals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	meals := []models.MealSummary{}
	for rows.Next() {
		var (
			m         models.MealSummary
			tags      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&m.MealID, &m.Title, &tags, &createdAt); err != nil {
			return nil, err
		}
		m.Tags = unmarshalList(tags)
		m.CreatedAt = fromUnix(createdAt)
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// InsertOutcome records feedback for a meal; a second outcome is ErrConflict
func (s *MealStore) InsertOutcome(ctx context.Context, o *models.MealOutcome) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meal_outcomes (meal_id, user_id, created_at, liked, cooked_again, tags, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(meal_id) DO NOTHING
	`, o.MealID, o.UserID, toUnix(o.CreatedAt), o.Liked, o.CookedAgain, marshalList(o.Tags), nullString(o.Notes))
	if err != nil {
		return fmt.Errorf("inserting outcome for %s: %w", o.MealID, err)
	}
	return requireInserted(res)
}

// GetOutcome loads a meal's outcome, or ErrNotFound
func (s *MealStore) GetOutcome(ctx context.Context, mealID string) (*models.MealOutcome, error) {
	var (
		o         = models.MealOutcome{MealID: mealID}
		createdAt int64
		tags      sql.NullString
		notes     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, created_at, liked, cooked_again, tags, notes
		FROM meal_outcomes
		WHERE meal_id = ?
	`, mealID).Scan(&o.UserID, &createdAt, &o.Liked, &o.CookedAgain, &tags, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading outcome for %s: %w", mealID, err)
	}
	o.CreatedAt = fromUnix(createdAt)
	o.Tags = unmarshalList(tags)
	o.Notes = notes.String
	return &o, nil
}

// History pages through a user's meals joined with their outcomes, newest first
func (s *MealStore) History(ctx context.Context, userID string, limit, offset int) ([]models.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.meal_id, m.created_at, m.title, m.tags, o.liked, o.cooked_again
		FROM meals m
		LEFT JOIN meal_outcomes o ON o.meal_id = m.meal_id
		WHERE m.user_id = ?
		ORDER BY m.created_at DESC, m.meal_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []models.HistoryItem{}
	for rows.Next() {
		var (
			item        models.HistoryItem
			createdAt   int64
			tags        sql.NullString
			liked       sql.NullBool
			cookedAgain sql.NullBool
		)
		if err := rows.Scan(&item.MealID, &createdAt, &item.Title, &tags, &liked, &cookedAgain); err != nil {
			return nil, err
		}
		item.CreatedAt = fromUnix(createdAt)
		item.Tags = unmarshalList(tags)
		if liked.Valid {
			item.Liked = &liked.Bool
		}
		if cookedAgain.Valid {
			item.CookedAgain = &cookedAgain.Bool
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func requireInserted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

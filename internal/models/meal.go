// ABOUTME: Meal and MealOutcome record chosen recipes and user feedback
// ABOUTME: Both are write-once; history joins them for display
package models

import "time"

// Meal is a recipe the user selected, persisted at selection time
type Meal struct {
	ID             string        `json:"meal_id"`
	UserID         string        `json:"user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	Title          string        `json:"title"`
	SourceKind     InputKind     `json:"source_kind"`
	InputText      string        `json:"input_text,omitempty"`
	InputImageRefs []string      `json:"input_image_refs"`
	VisionResult   *VisionResult `json:"vision_result,omitempty"`
	SuggestionID   string        `json:"suggestion_id"`
	Recipe         RecipeResult  `json:"recipe"`
	Tags           []string      `json:"tags"`
}

// MealOutcome is the user's single feedback entry for a meal
type MealOutcome struct {
	MealID      string    `json:"meal_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Liked       bool      `json:"liked"`
	CookedAgain bool      `json:"cooked_again"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes,omitempty"`
}

// MealSummary is the compact view used in context bundles
type MealSummary struct {
	MealID    string    `json:"meal_id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryItem is a meal joined with its outcome, if any
type HistoryItem struct {
	MealID      string    `json:"meal_id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	Liked       *bool     `json:"liked"`
	CookedAgain *bool     `json:"cooked_again"`
}

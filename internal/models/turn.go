// ABOUTME: Result types returned by the orchestrator entry points
// ABOUTME: TurnResult is discriminated by kind: follow_up, suggestions, or recipe
package models

// TurnKind discriminates TurnResult
type TurnKind string

const (
	TurnFollowUp    TurnKind = "follow_up"
	TurnSuggestions TurnKind = "suggestions"
	TurnRecipe      TurnKind = "recipe"
)

// TurnSource describes how the turn's input was interpreted
type TurnSource struct {
	InputKind    InputKind     `json:"input_kind"`
	VisionResult *VisionResult `json:"vision_result,omitempty"`
}

// NextAction hints what the client should do next
type NextAction struct {
	Type string `json:"type"`
	Hint string `json:"hint"`
}

// TurnResult is the response to a turn, selection, or modification
type TurnResult struct {
	Kind        TurnKind      `json:"kind"`
	SessionID   string        `json:"session_id"`
	Questions   []string      `json:"questions,omitempty"`
	Blocking    bool          `json:"blocking,omitempty"`
	Source      *TurnSource   `json:"source,omitempty"`
	Suggestions []Suggestion  `json:"suggestions,omitempty"`
	NextAction  *NextAction   `json:"next_action,omitempty"`
	MealID      string        `json:"meal_id,omitempty"`
	Recipe      *RecipeResult `json:"recipe,omitempty"`
}

// FollowUpTurn asks the user blocking questions
func FollowUpTurn(sessionID string, questions []string) *TurnResult {
	return &TurnResult{Kind: TurnFollowUp, SessionID: sessionID, Questions: questions, Blocking: true}
}

// SuggestionsTurn offers suggestions for selection
func SuggestionsTurn(sessionID string, source TurnSource, suggestions []Suggestion) *TurnResult {
	return &TurnResult{
		Kind:        TurnSuggestions,
		SessionID:   sessionID,
		Source:      &source,
		Suggestions: suggestions,
		NextAction: &NextAction{
			Type: "select_suggestion",
			Hint: "Pick one option to get the full recipe",
		},
	}
}

// RecipeTurn returns the generated recipe and its persisted meal id
func RecipeTurn(sessionID, mealID string, recipe RecipeResult) *TurnResult {
	return &TurnResult{Kind: TurnRecipe, SessionID: sessionID, MealID: mealID, Recipe: &recipe}
}

// FeedbackResult reports what the learning step wrote
type FeedbackResult struct {
	UpdatedProfileSummary  string `json:"updated_profile_summary"`
	MemoryItemsWritten     int    `json:"memory_items_written"`
	PreferenceFactsUpdated int    `json:"preference_facts_updated"`
}

// ProfileSaved is returned after an explicit profile edit
type ProfileSaved struct {
	UserID         string `json:"user_id"`
	ProfileVersion int    `json:"profile_version"`
	ProfileSummary string `json:"profile_summary"`
}

// UserSummary is the profile line plus the strongest preferences
type UserSummary struct {
	UserID         string           `json:"user_id"`
	ProfileSummary string           `json:"profile_summary"`
	TopPreferences []PreferenceFact `json:"top_preferences"`
}

// HistoryPage is one page of meal history
type HistoryPage struct {
	Items  []HistoryItem `json:"items"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ABOUTME: Typed entry points for each agent role
// ABOUTME: Each builds a role payload and invokes the model through the Invoker
package agents

import (
	"context"

	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/models"
)

// QA is one follow-up question and the user's answer
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UnderstandInput is the payload for the understanding agent
type UnderstandInput struct {
	Text            string               `json:"text"`
	ModeHint        string               `json:"mode_hint,omitempty"`
	MaxTimeMinutes  *int                 `json:"max_time_minutes,omitempty"`
	PreviousAnswers []QA                 `json:"previous_answers,omitempty"`
	Vision          *models.VisionResult `json:"vision_result,omitempty"`
}

// SuggestInput is the payload for the suggestion agent
type SuggestInput struct {
	Request          models.NormalizedInput `json:"request"`
	VisionDetected   *models.VisionDetected `json:"vision_detected,omitempty"`
	Count            int                    `json:"suggestion_count"`
	Modifications    []string               `json:"modifications,omitempty"`
	ReplaceUnsafe    []models.Suggestion    `json:"replace_unsafe,omitempty"`
	MustAvoidTerms   []string               `json:"must_avoid_terms,omitempty"`
	OriginalUserText string                 `json:"original_user_text,omitempty"`
}

// RecipeInput is the payload for the recipe agent
type RecipeInput struct {
	Suggestion     models.Suggestion      `json:"selected_suggestion"`
	Request        models.NormalizedInput `json:"request"`
	Modifications  []string               `json:"modifications,omitempty"`
	MustAvoidTerms []string               `json:"must_avoid_terms,omitempty"`
	PreviousIssue  string                 `json:"previous_issue,omitempty"`
}

// MemoryUpdateInput is the payload for the memory update agent
type MemoryUpdateInput struct {
	MealTitle      string                  `json:"meal_title"`
	MealTags       []string                `json:"meal_tags"`
	Liked          bool                    `json:"liked"`
	CookedAgain    bool                    `json:"cooked_again"`
	FeedbackTags   []string                `json:"feedback_tags"`
	Notes          string                  `json:"notes,omitempty"`
	TopPreferences []models.PreferenceFact `json:"current_top_preferences"`
	DietStyle      string                  `json:"diet_style,omitempty"`
	Goals          []string                `json:"goals,omitempty"`
}

// Vision classifies uploaded images
func (inv *Invoker) Vision(ctx context.Context, images []llm.Image, bundle string) (models.VisionResult, error) {
	return Invoke[models.VisionResult](ctx, inv, Call{
		Role:    RoleVision,
		Context: bundle,
		Images:  images,
	})
}

// Understand normalizes free text into a structured request
func (inv *Invoker) Understand(ctx context.Context, in UnderstandInput, bundle string) (models.NormalizedInput, error) {
	return Invoke[models.NormalizedInput](ctx, inv, Call{
		Role:    RoleUnderstand,
		Context: bundle,
		Payload: in,
	})
}

// Suggest proposes healthier options
func (inv *Invoker) Suggest(ctx context.Context, in SuggestInput, bundle string) (models.SuggestionsResult, error) {
	return Invoke[models.SuggestionsResult](ctx, inv, Call{
		Role:    RoleSuggest,
		Context: bundle,
		Payload: in,
	})
}

// Recipe writes the full recipe for a chosen suggestion
func (inv *Invoker) Recipe(ctx context.Context, in RecipeInput, bundle string) (models.RecipeResult, error) {
	return Invoke[models.RecipeResult](ctx, inv, Call{
		Role:    RoleRecipe,
		Context: bundle,
		Payload: in,
	})
}

// MemoryUpdate derives memories and preference deltas from feedback
func (inv *Invoker) MemoryUpdate(ctx context.Context, in MemoryUpdateInput) (models.MemoryWriteResult, error) {
	return Invoke[models.MemoryWriteResult](ctx, inv, Call{
		Role:    RoleMemoryUpdate,
		Payload: in,
	})
}

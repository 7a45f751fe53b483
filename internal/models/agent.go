// ABOUTME: Canonical output shapes returned by the generative agents
// ABOUTME: Struct tags drive both JSON decoding and schema validation
package models

import "encoding/json"

// InputKind classifies what the user submitted
type InputKind string

const (
	KindMealPhoto        InputKind = "meal_photo"
	KindIngredientsPhoto InputKind = "ingredients_photo"
	KindTextMeal         InputKind = "text_meal"
	KindTextIngredients  InputKind = "text_ingredients"
	KindUnknown          InputKind = "unknown"
)

// IsMeal reports whether the kind asks for variations of a dish
func (k InputKind) IsMeal() bool {
	return k == KindMealPhoto || k == KindTextMeal
}

// IsIngredients reports whether the kind asks for ideas from ingredients
func (k InputKind) IsIngredients() bool {
	return k == KindIngredientsPhoto || k == KindTextIngredients
}

// Difficulty of a suggestion or recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DetectedItem is one ingredient seen in a photo
type DetectedItem struct {
	Name         string  `json:"name" validate:"required"`
	QuantityHint *string `json:"quantity_hint"`
}

// VisionDetected holds the entities extracted from images
type VisionDetected struct {
	MealName    *string        `json:"meal_name"`
	Ingredients []DetectedItem `json:"ingredients" validate:"omitempty,dive"`
	CuisineHint *string        `json:"cuisine_hint"`
	Notes       *string        `json:"notes"`
}

// Names returns the meal name and ingredient names, for use as a search query
func (d VisionDetected) Names() []string {
	var names []string
	if d.MealName != nil && *d.MealName != "" {
		names = append(names, *d.MealName)
	}
	for _, item := range d.Ingredients {
		names = append(names, item.Name)
	}
	return names
}

// Float returns a pointer to v, for required numeric payload fields
func Float(v float64) *float64 {
	return &v
}

// ConfidenceValue is the reported confidence, or 0 when absent
func (v VisionResult) ConfidenceValue() float64 {
	if v.Confidence == nil {
		return 0
	}
	return *v.Confidence
}

// VisionResult is the Vision agent's classification of uploaded images
type VisionResult struct {
	Kind              InputKind      `json:"kind" validate:"required,oneof=meal_photo ingredients_photo unknown"`
	Confidence        *float64       `json:"confidence" validate:"required,gte=0,lte=1"`
	Detected          VisionDetected `json:"detected"`
	Warnings          []string       `json:"warnings"`
	FollowUpQuestions []string       `json:"follow_up_questions"`
}

// Suggestion is one healthier option offered to the user
type Suggestion struct {
	SuggestionID         string     `json:"suggestion_id" validate:"required"`
	Title                string     `json:"title" validate:"required"`
	Summary              string     `json:"summary" validate:"required"`
	HealthRationale      []string   `json:"health_rationale"`
	Tags                 []string   `json:"tags"`
	KeyIngredients       []string   `json:"key_ingredients,omitempty"`
	TweakOptions         []string   `json:"tweak_options,omitempty"`
	EstimatedTimeMinutes int        `json:"estimated_time_minutes" validate:"gte=0"`
	Difficulty           Difficulty `json:"difficulty" validate:"oneof=easy medium hard"`
	RequiresUserChoice   bool       `json:"requires_user_choice"`
}

// UnmarshalJSON fills defaults for keys the model omitted
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	type plain Suggestion
	decoded := plain{
		EstimatedTimeMinutes: 30,
		Difficulty:           DifficultyMedium,
		RequiresUserChoice:   true,
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = Suggestion(decoded)
	return nil
}

// SuggestionsResult is the Suggestion agent's output
type SuggestionsResult struct {
	InputKind         InputKind    `json:"input_kind" validate:"required,oneof=meal_photo ingredients_photo text_meal text_ingredients"`
	Suggestions       []Suggestion `json:"suggestions" validate:"omitempty,dive"`
	FollowUpQuestions []string     `json:"follow_up_questions"`
}

// RecipeIngredient is one line of a recipe's ingredient list
type RecipeIngredient struct {
	Name        string   `json:"name" validate:"required"`
	Quantity    string   `json:"quantity" validate:"required"`
	Optional    bool     `json:"optional"`
	Substitutes []string `json:"substitutes"`
}

// NutritionEstimate is an approximate, nullable macro breakdown
type NutritionEstimate struct {
	Calories *int `json:"calories"`
	ProteinG *int `json:"protein_g"`
	CarbsG   *int `json:"carbs_g"`
	FatG     *int `json:"fat_g"`
}

// RecipeResult is the Recipe agent's full, cookable recipe
type RecipeResult struct {
	Name              string             `json:"name" validate:"required"`
	Summary           string             `json:"summary" validate:"required"`
	HealthRationale   []string           `json:"health_rationale"`
	Ingredients       []RecipeIngredient `json:"ingredients" validate:"omitempty,dive"`
	Steps             []string           `json:"steps"`
	TimeMinutes       int                `json:"time_minutes" validate:"gte=0"`
	Difficulty        Difficulty         `json:"difficulty" validate:"oneof=easy medium hard"`
	Equipment         []string           `json:"equipment"`
	Servings          int                `json:"servings" validate:"gte=1"`
	NutritionEstimate NutritionEstimate  `json:"nutrition_estimate"`
	Warnings          []string           `json:"warnings"`
}

// UnmarshalJSON fills defaults for keys the model omitted
func (r *RecipeResult) UnmarshalJSON(data []byte) error {
	type plain RecipeResult
	decoded := plain{
		TimeMinutes: 30,
		Difficulty:  DifficultyMedium,
		Servings:    1,
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = RecipeResult(decoded)
	return nil
}

// MemoryKind classifies a learned memory item
type MemoryKind string

const (
	MemoryLike       MemoryKind = "like"
	MemoryDislike    MemoryKind = "dislike"
	MemoryConstraint MemoryKind = "constraint"
	MemoryPattern    MemoryKind = "pattern"
)

// MemoryDraft is a memory item proposed by the Memory Update agent
type MemoryDraft struct {
	Text     string     `json:"text" validate:"required"`
	Kind     MemoryKind `json:"kind" validate:"required,oneof=like dislike constraint pattern"`
	Salience float64    `json:"salience"`
}

// UnmarshalJSON defaults salience to 0.5 when omitted
func (m *MemoryDraft) UnmarshalJSON(data []byte) error {
	type plain MemoryDraft
	decoded := plain{Salience: 0.5}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*m = MemoryDraft(decoded)
	return nil
}

// PreferenceDelta is a signed strength adjustment for one fact key
type PreferenceDelta struct {
	FactKey       string   `json:"fact_key" validate:"required"`
	DeltaStrength *float64 `json:"delta_strength" validate:"required"`
	Reason        string   `json:"reason" validate:"required"`
}

// ProfilePatch lists append-only additions to the user profile
type ProfilePatch struct {
	LikesAdd    []string `json:"likes_add"`
	DislikesAdd []string `json:"dislikes_add"`
	NotesAppend []string `json:"notes_append"`
}

// IsEmpty reports whether the patch adds nothing
func (p ProfilePatch) IsEmpty() bool {
	return len(p.LikesAdd) == 0 && len(p.DislikesAdd) == 0 && len(p.NotesAppend) == 0
}

// MemoryWriteResult is the Memory Update agent's learning output
type MemoryWriteResult struct {
	MemoryItems     []MemoryDraft     `json:"memory_items" validate:"omitempty,dive"`
	PreferenceFacts []PreferenceDelta `json:"preference_facts" validate:"omitempty,dive"`
	ProfilePatch    ProfilePatch      `json:"profile_patch"`
}

// NormalizedInput is the understanding step's common representation of a turn
type NormalizedInput struct {
	InputKind            InputKind `json:"input_kind" validate:"required,oneof=meal_photo ingredients_photo text_meal text_ingredients unknown"`
	MealName             *string   `json:"meal_name"`
	Ingredients          []string  `json:"ingredients"`
	MaxTimeMinutes       *int      `json:"max_time_minutes" validate:"omitempty,gte=0"`
	EquipmentOverrides   []string  `json:"equipment_overrides"`
	MissingInfoQuestions []string  `json:"missing_info_questions"`
}

// Describe renders the normalized input as prompt lines
func (n NormalizedInput) Describe() []string {
	lines := []string{"Type: " + string(n.InputKind)}
	if n.MealName != nil && *n.MealName != "" {
		lines = append(lines, "Meal: "+*n.MealName)
	}
	if len(n.Ingredients) > 0 {
		lines = append(lines, "Ingredients: "+joinList(n.Ingredients))
	}
	if len(n.EquipmentOverrides) > 0 {
		lines = append(lines, "Equipment for this meal: "+joinList(n.EquipmentOverrides))
	}
	return lines
}

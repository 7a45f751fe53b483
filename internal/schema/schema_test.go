// ABOUTME: Tests for payload decoding and tag validation
// ABOUTME: Covers defaults, enum paths, type errors, and unknown keys

package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SuggestionsDefaults(t *testing.T) {
	raw := []byte(`{
		"input_kind": "text_meal",
		"suggestions": [{"suggestion_id": "sug_1", "title": "Lighter Lasagna", "summary": "Less cheese"}],
		"surprise": "ignored"
	}`)

	got, err := Validate[models.SuggestionsResult](raw)
	require.NoError(t, err)

	want := models.SuggestionsResult{
		InputKind: models.KindTextMeal,
		Suggestions: []models.Suggestion{{
			SuggestionID:         "sug_1",
			Title:                "Lighter Lasagna",
			Summary:              "Less cheese",
			EstimatedTimeMinutes: 30,
			Difficulty:           models.DifficultyMedium,
			RequiresUserChoice:   true,
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EnumPath(t *testing.T) {
	raw := []byte(`{
		"input_kind": "text_meal",
		"suggestions": [
			{"suggestion_id": "a", "title": "A", "summary": "A", "difficulty": "easy"},
			{"suggestion_id": "b", "title": "B", "summary": "B", "difficulty": "impossible"}
		]
	}`)

	_, err := Validate[models.SuggestionsResult](raw)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "suggestions[1].difficulty", verr.Field)
	assert.Equal(t, "oneof", verr.Rule)
	assert.Contains(t, err.Error(), "impossible")
}

func TestValidate_Required(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
	}{
		{"missing input kind", `{"suggestions": []}`, "input_kind"},
		{"missing title", `{"input_kind":"text_meal","suggestions":[{"suggestion_id":"a","summary":"s"}]}`, "suggestions[0].title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate[models.SuggestionsResult]([]byte(tt.raw))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "err = %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, "required", verr.Rule)
		})
	}
}

func TestValidate_RequiredNumbers(t *testing.T) {
	_, err := Validate[models.VisionResult]([]byte(`{"kind":"meal_photo","detected":{}}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "err = %v", err)
	assert.Equal(t, "confidence", verr.Field)
	assert.Equal(t, "required", verr.Rule)

	got, err := Validate[models.VisionResult]([]byte(`{"kind":"unknown","confidence":0}`))
	require.NoError(t, err)
	require.NotNil(t, got.Confidence)
	assert.Zero(t, *got.Confidence)

	_, err = Validate[models.MemoryWriteResult]([]byte(`{"preference_facts":[{"fact_key":"likes:spicy","reason":"liked it"}]}`))
	require.True(t, errors.As(err, &verr), "err = %v", err)
	assert.Equal(t, "preference_facts[0].delta_strength", verr.Field)
	assert.Equal(t, "required", verr.Rule)

	got2, err := Validate[models.MemoryWriteResult]([]byte(`{"preference_facts":[{"fact_key":"likes:spicy","delta_strength":0,"reason":"neutral"}]}`))
	require.NoError(t, err)
	require.NotNil(t, got2.PreferenceFacts[0].DeltaStrength)
	assert.Zero(t, *got2.PreferenceFacts[0].DeltaStrength)
}

func TestValidate_VisionConfidenceBounds(t *testing.T) {
	_, err := Validate[models.VisionResult]([]byte(`{"kind":"meal_photo","confidence":1.4}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "confidence", verr.Field)
	assert.Equal(t, "lte", verr.Rule)

	got, err := Validate[models.VisionResult]([]byte(`{"kind":"unknown","confidence":0.1,"detected":{"meal_name":null}}`))
	require.NoError(t, err)
	assert.Equal(t, models.KindUnknown, got.Kind)
	assert.Nil(t, got.Detected.MealName)
}

func TestValidate_TextKindRejectedForVision(t *testing.T) {
	_, err := Validate[models.VisionResult]([]byte(`{"kind":"text_meal","confidence":0.9}`))
	require.Error(t, err)
}

func TestValidate_RecipeIngredientPath(t *testing.T) {
	raw := []byte(`{"name":"Bowl","summary":"Good","ingredients":[{"name":"rice","quantity":"1 cup"},{"name":"tofu"}]}`)
	_, err := Validate[models.RecipeResult](raw)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ingredients[1].quantity", verr.Field)
}

func TestValidate_MemoryWriteResult(t *testing.T) {
	raw := []byte(`{
		"memory_items": [{"text": "Enjoys spicy food", "kind": "like"}],
		"preference_facts": [{"fact_key": "likes:spicy", "delta_strength": 0.3, "reason": "liked it"}],
		"profile_patch": {"likes_add": ["spicy"]}
	}`)
	got, err := Validate[models.MemoryWriteResult](raw)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.MemoryItems[0].Salience)
	assert.Equal(t, []string{"spicy"}, got.ProfilePatch.LikesAdd)

	_, err = Validate[models.MemoryWriteResult]([]byte(`{"memory_items":[{"text":"x","kind":"hate"}]}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "memory_items[0].kind", verr.Field)
}

func TestValidate_TypeAndSyntaxErrors(t *testing.T) {
	_, err := Validate[models.VisionResult]([]byte(`{"kind":"meal_photo","confidence":"high"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "type", verr.Rule)
	assert.Equal(t, "confidence", verr.Field)

	_, err = Validate[models.VisionResult]([]byte(`{"kind":`))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "json", verr.Rule)
}

func TestValidateValue_ProfileInput(t *testing.T) {
	require.NoError(t, ValidateValue(&models.ProfileInput{CookingSkill: "beginner", Budget: "low"}))

	err := ValidateValue(&models.ProfileInput{CookingSkill: "chef"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cooking_skill", verr.Field)
}

// ABOUTME: Tests for session step transitions and pending selection lookup
// ABOUTME: An invalid selection must leave the session untouched
package core

import (
	"testing"

	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	state := models.NewSessionState("s1", "u1")
	assert.Equal(t, models.StepName(""), state.StepName())

	toFollowup(state, []string{"What is it?"})
	qs, ok := followupQuestions(state)
	require.True(t, ok)
	assert.Equal(t, []string{"What is it?"}, qs)

	toSelection(state, []models.Suggestion{{SuggestionID: "sug_1", Title: "A"}})
	assert.Equal(t, models.StepAwaitingSelection, state.StepName())
	_, ok = followupQuestions(state)
	assert.False(t, ok)

	toDone(state, "meal_1")
	assert.Equal(t, models.StepDone, state.StepName())
	assert.Equal(t, "meal_1", state.Step.(models.Done).MealID)
}

func TestPendingSuggestion(t *testing.T) {
	state := models.NewSessionState("s1", "u1")
	pending := []models.Suggestion{
		{SuggestionID: "sug_1", Title: "Grilled salmon"},
		{SuggestionID: "sug_2", Title: "Lentil soup"},
	}
	toSelection(state, pending)

	got, err := pendingSuggestion(state, "sug_2")
	require.NoError(t, err)
	assert.Equal(t, "Lentil soup", got.Title)

	_, err = pendingSuggestion(state, "sug_9")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Equal(t, models.AwaitingSelection{Pending: pending}, state.Step)

	toDone(state, "meal_1")
	_, err = pendingSuggestion(state, "sug_1")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, e.Code)
	assert.Equal(t, "done", e.Details["step"])
}

func TestFollowupQuestions_NilState(t *testing.T) {
	_, ok := followupQuestions(nil)
	assert.False(t, ok)
}

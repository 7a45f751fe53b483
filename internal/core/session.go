// ABOUTME: Pure session state transitions between follow-up, selection, and done
// ABOUTME: Selection lookups fail with VALIDATION_ERROR without touching state
package core

import (
	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/models"
)

func toFollowup(state *models.SessionState, questions []string) {
	state.Step = models.AwaitingFollowup{Questions: questions}
}

func toSelection(state *models.SessionState, pending []models.Suggestion) {
	state.Step = models.AwaitingSelection{Pending: pending}
}

func toDone(state *models.SessionState, mealID string) {
	state.Step = models.Done{MealID: mealID}
}

// pendingSuggestion finds id among the suggestions awaiting selection
func pendingSuggestion(state *models.SessionState, id string) (models.Suggestion, error) {
	sel, ok := state.Step.(models.AwaitingSelection)
	if !ok {
		return models.Suggestion{}, apperr.Validation("session %s is not awaiting a selection", state.SessionID).
			WithDetail("step", string(state.StepName()))
	}
	for _, s := range sel.Pending {
		if s.SuggestionID == id {
			return s, nil
		}
	}
	ids := make([]string, 0, len(sel.Pending))
	for _, s := range sel.Pending {
		ids = append(ids, s.SuggestionID)
	}
	return models.Suggestion{}, apperr.Validation("suggestion %q is not one of the pending options", id).
		WithDetail("pending", ids)
}

// followupQuestions returns the questions of a session awaiting answers
func followupQuestions(state *models.SessionState) ([]string, bool) {
	if state == nil {
		return nil, false
	}
	f, ok := state.Step.(models.AwaitingFollowup)
	return f.Questions, ok
}

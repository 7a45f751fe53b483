// ABOUTME: SessionState tracks one conversation's step as a tagged union
// ABOUTME: Steps are AwaitingFollowup, AwaitingSelection, and Done
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StepName is the persisted discriminator of a Step
type StepName string

const (
	StepAwaitingFollowup  StepName = "awaiting_followup"
	StepAwaitingSelection StepName = "awaiting_selection"
	StepDone              StepName = "done"
)

// Step is one of AwaitingFollowup, AwaitingSelection, or Done
type Step interface {
	Name() StepName
	isStep()
}

// AwaitingFollowup means the last turn asked the user questions
type AwaitingFollowup struct {
	Questions []string `json:"questions"`
}

// AwaitingSelection means suggestions are pending a choice
type AwaitingSelection struct {
	Pending []Suggestion `json:"pending"`
}

// Done means a suggestion was chosen and persisted as a meal
type Done struct {
	MealID string `json:"meal_id"`
}

func (AwaitingFollowup) Name() StepName  { return StepAwaitingFollowup }
func (AwaitingSelection) Name() StepName { return StepAwaitingSelection }
func (Done) Name() StepName              { return StepDone }

func (AwaitingFollowup) isStep()  {}
func (AwaitingSelection) isStep() {}
func (Done) isStep()              {}

// SessionState is the per-session conversational state
type SessionState struct {
	SessionID        string
	UserID           string
	Step             Step
	LastInputKind    InputKind
	LastVisionResult *VisionResult
	NormalizedInput  *NormalizedInput
	OriginalText     string
	ImageRefs        []string
	FollowupAnswers  map[string]string
	Modifications    []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSessionState starts a session with no step yet
func NewSessionState(sessionID, userID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID:       sessionID,
		UserID:          userID,
		FollowupAnswers: map[string]string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// StepName returns the current step's name, or "" before the first turn completes
func (s *SessionState) StepName() StepName {
	if s == nil || s.Step == nil {
		return ""
	}
	return s.Step.Name()
}

type sessionWire struct {
	SessionID        string            `json:"session_id"`
	UserID           string            `json:"user_id"`
	Step             StepName          `json:"step,omitempty"`
	StepData         json.RawMessage   `json:"step_data,omitempty"`
	LastInputKind    InputKind         `json:"last_input_kind,omitempty"`
	LastVisionResult *VisionResult     `json:"last_vision_result,omitempty"`
	NormalizedInput  *NormalizedInput  `json:"normalized_input,omitempty"`
	OriginalText     string            `json:"original_text,omitempty"`
	ImageRefs        []string          `json:"image_refs,omitempty"`
	FollowupAnswers  map[string]string `json:"followup_answers,omitempty"`
	Modifications    []string          `json:"modifications,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// MarshalJSON writes the step as a name plus its payload
func (s SessionState) MarshalJSON() ([]byte, error) {
	w := sessionWire{
		SessionID:        s.SessionID,
		UserID:           s.UserID,
		LastInputKind:    s.LastInputKind,
		LastVisionResult: s.LastVisionResult,
		NormalizedInput:  s.NormalizedInput,
		OriginalText:     s.OriginalText,
		ImageRefs:        s.ImageRefs,
		FollowupAnswers:  s.FollowupAnswers,
		Modifications:    s.Modifications,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Step != nil {
		data, err := json.Marshal(s.Step)
		if err != nil {
			return nil, err
		}
		w.Step = s.Step.Name()
		w.StepData = data
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores the concrete Step from its name
func (s *SessionState) UnmarshalJSON(data []byte) error {
	var w sessionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var step Step
	switch w.Step {
	case "":
	case StepAwaitingFollowup:
		var v AwaitingFollowup
		if err := json.Unmarshal(w.StepData, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", w.Step, err)
		}
		step = v
	case StepAwaitingSelection:
		var v AwaitingSelection
		if err := json.Unmarshal(w.StepData, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", w.Step, err)
		}
		step = v
	case StepDone:
		var v Done
		if err := json.Unmarshal(w.StepData, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", w.Step, err)
		}
		step = v
	default:
		return fmt.Errorf("unknown session step %q", w.Step)
	}

	answers := w.FollowupAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	*s = SessionState{
		SessionID:        w.SessionID,
		UserID:           w.UserID,
		Step:             step,
		LastInputKind:    w.LastInputKind,
		LastVisionResult: w.LastVisionResult,
		NormalizedInput:  w.NormalizedInput,
		OriginalText:     w.OriginalText,
		ImageRefs:        w.ImageRefs,
		FollowupAnswers:  answers,
		Modifications:    w.Modifications,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
	return nil
}

// ABOUTME: Tests for the HTTP API routes
// ABOUTME: Uses httptest against a stub service and checks envelopes and status codes
package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/core"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

type stubService struct {
	turn     core.TurnRequest
	feedback core.FeedbackRequest
	profile  models.ProfileInput
	userID   string
	limit    int
	offset   int
	err      error
}

func (s *stubService) HandleTurn(ctx context.Context, req core.TurnRequest) (*models.TurnResult, error) {
	s.turn = req
	if s.err != nil {
		return nil, s.err
	}
	return models.FollowUpTurn(req.SessionID, []string{"What is it?"}), nil
}

func (s *stubService) HandleSelection(ctx context.Context, userID, sessionID, suggestionID string) (*models.TurnResult, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return models.RecipeTurn(sessionID, "meal-1", models.RecipeResult{Name: "Bowl"}), nil
}

func (s *stubService) HandleModification(ctx context.Context, userID, sessionID, modification string) (*models.TurnResult, error) {
	s.userID = userID
	return nil, s.err
}

func (s *stubService) HandleFeedback(ctx context.Context, req core.FeedbackRequest) (*models.FeedbackResult, error) {
	s.feedback = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.FeedbackResult{MemoryItemsWritten: 1}, nil
}

func (s *stubService) SaveProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.ProfileSaved, error) {
	s.userID, s.profile = userID, in
	return &models.ProfileSaved{UserID: userID, ProfileVersion: 1}, s.err
}

func (s *stubService) UserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &models.UserSummary{UserID: userID}, nil
}

func (s *stubService) History(ctx context.Context, userID string, limit, offset int) (*models.HistoryPage, error) {
	s.userID, s.limit, s.offset = userID, limit, offset
	return &models.HistoryPage{Items: []models.HistoryItem{}, Limit: limit, Offset: offset}, s.err
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestHealthz(t *testing.T) {
	code, env := do(t, NewServer(&stubService{}, "user_0001", nil), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
}

func TestTurn(t *testing.T) {
	svc := &stubService{}
	srv := NewServer(svc, "user_0001", nil)

	code, env := do(t, srv, http.MethodPost, "/api/chat/turn", map[string]any{
		"text":   "leftover rice, eggs",
		"images": []string{"data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)},
	})
	assert.Equal(t, http.StatusOK, code)
	require.True(t, env.OK)

	assert.Equal(t, "user_0001", svc.turn.UserID)
	assert.NotEmpty(t, svc.turn.SessionID)
	require.Len(t, svc.turn.Images, 1)
	assert.Equal(t, "image/png", svc.turn.Images[0].MIMEType)
	assert.Equal(t, []string{"upload:0"}, svc.turn.ImageRefs)

	var turn models.TurnResult
	require.NoError(t, json.Unmarshal(env.Data, &turn))
	assert.Equal(t, svc.turn.SessionID, turn.SessionID)
}

func TestTurn_BadImage(t *testing.T) {
	srv := NewServer(&stubService{}, "user_0001", nil)
	for _, img := range []string{"%%%not base64", base64.StdEncoding.EncodeToString([]byte("plain text"))} {
		code, env := do(t, srv, http.MethodPost, "/api/chat/turn", map[string]any{"images": []string{img}})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Equal(t, "images", env.Error.Details["field"])
	}
}

func TestInvalidJSON(t *testing.T) {
	srv := NewServer(&stubService{}, "user_0001", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/select", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("again"), http.StatusConflict},
		{apperr.Model(assert.AnError, "model"), http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		srv := NewServer(&stubService{err: tt.err}, "user_0001", nil)
		code, env := do(t, srv, http.MethodPost, "/api/chat/select", map[string]any{
			"session_id": "s1", "suggestion_id": "sug_1",
		})
		assert.Equal(t, tt.want, code, tt.err.Error())
		assert.False(t, env.OK)
	}
}

func TestFeedback(t *testing.T) {
	svc := &stubService{}
	srv := NewServer(svc, "user_0001", nil)

	code, _ := do(t, srv, http.MethodPost, "/api/feedback", map[string]any{"meal_id": "m1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, srv, http.MethodPost, "/api/feedback", map[string]any{
		"user_id": "u2", "meal_id": "m1", "liked": false, "tags": []string{"too_spicy"},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
	assert.Equal(t, core.FeedbackRequest{UserID: "u2", MealID: "m1", Tags: []string{"too_spicy"}}, svc.feedback)
}

func TestProfileSummaryHistory(t *testing.T) {
	svc := &stubService{}
	srv := NewServer(svc, "user_0001", nil)

	code, _ := do(t, srv, http.MethodPost, "/api/user/profile", map[string]any{
		"user_id": "u3", "display_name": "Sam", "allergies": []string{"peanut"}, "extra_key": 1,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "u3", svc.userID)
	assert.Equal(t, "Sam", svc.profile.DisplayName)
	assert.Equal(t, []string{"peanut"}, svc.profile.Allergies)

	code, _ = do(t, srv, http.MethodGet, "/api/user/summary?user_id=u4", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "u4", svc.userID)

	code, _ = do(t, srv, http.MethodGet, "/api/history?limit=5&offset=2", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user_0001", svc.userID)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 2, svc.offset)

	code, env := do(t, srv, http.MethodGet, "/api/history?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "limit", env.Error.Details["field"])
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	srv := NewServer(&stubService{}, "user_0001", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

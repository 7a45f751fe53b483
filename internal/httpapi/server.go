// ABOUTME: JSON HTTP API over the orchestrator
// ABOUTME: Every response is the envelope; the status code follows the error code
package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/core"
	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/harper/tweak-my-meal/internal/models"
	"go.uber.org/zap"
)

// maxBodyBytes leaves room for a few base64 images per turn
const maxBodyBytes = 4 * llm.MaxImageBytes

// Service is the set of operations the API exposes. *core.Orchestrator implements it.
type Service interface {
	HandleTurn(ctx context.Context, req core.TurnRequest) (*models.TurnResult, error)
	HandleSelection(ctx context.Context, userID, sessionID, suggestionID string) (*models.TurnResult, error)
	HandleModification(ctx context.Context, userID, sessionID, modification string) (*models.TurnResult, error)
	HandleFeedback(ctx context.Context, req core.FeedbackRequest) (*models.FeedbackResult, error)
	SaveProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.ProfileSaved, error)
	UserSummary(ctx context.Context, userID string) (*models.UserSummary, error)
	History(ctx context.Context, userID string, limit, offset int) (*models.HistoryPage, error)
}

// Server routes HTTP requests to a Service
type Server struct {
	service     Service
	defaultUser string
	logger      *zap.Logger
	mux         *http.ServeMux
}

// NewServer creates the API. defaultUser fills in a missing user_id.
func NewServer(service Service, defaultUser string, logger *zap.Logger) *Server {
	s := &Server{
		service:     service,
		defaultUser: defaultUser,
		logger:      logging.OrNop(logger).Named("http"),
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/chat/turn", s.handleTurn)
	s.mux.HandleFunc("POST /api/chat/select", s.handleSelect)
	s.mux.HandleFunc("POST /api/chat/modify", s.handleModify)
	s.mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	s.mux.HandleFunc("POST /api/user/profile", s.handleProfile)
	s.mux.HandleFunc("GET /api/user/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, r, map[string]string{"status": "ok"}, nil)
	})
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, data any, err error) {
	env := apperr.OK(data)
	if err != nil {
		env = apperr.Fail(err)
		s.logger.Warn("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", string(apperr.CodeOf(err))),
			zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status())
	_, _ = w.Write(env.JSON())
}

// decode reads a JSON body into v. Unknown keys are ignored.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("request body is larger than %d MB", maxBodyBytes>>20)
		}
		return apperr.Validation("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) user(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.defaultUser
}

type turnBody struct {
	UserID         string   `json:"user_id"`
	SessionID      string   `json:"session_id"`
	Text           string   `json:"text"`
	Images         []string `json:"images"`
	ModeHint       string   `json:"mode_hint"`
	MaxTimeMinutes *int     `json:"max_time_minutes"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var body turnBody
	if err := s.decode(w, r, &body); err != nil {
		s.write(w, r, nil, err)
		return
	}

	req := core.TurnRequest{
		UserID:         s.user(body.UserID),
		SessionID:      strings.TrimSpace(body.SessionID),
		Text:           body.Text,
		ModeHint:       body.ModeHint,
		MaxTimeMinutes: body.MaxTimeMinutes,
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	for i, encoded := range body.Images {
		img, err := decodeImage(encoded)
		if err != nil {
			s.write(w, r, nil, apperr.Validation("images[%d]: %v", i, err).WithDetail("field", "images"))
			return
		}
		req.Images = append(req.Images, img)
		req.ImageRefs = append(req.ImageRefs, "upload:"+strconv.Itoa(i))
	}

	res, err := s.service.HandleTurn(r.Context(), req)
	s.write(w, r, res, err)
}

type selectBody struct {
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
	SuggestionID string `json:"suggestion_id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectBody
	if err := s.decode(w, r, &body); err != nil {
		s.write(w, r, nil, err)
		return
	}
	res, err := s.service.HandleSelection(r.Context(), s.user(body.UserID), body.SessionID, body.SuggestionID)
	s.write(w, r, res, err)
}

type modifyBody struct {
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
	Modification string `json:"modification"`
}

func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	var body modifyBody
	if err := s.decode(w, r, &body); err != nil {
		s.write(w, r, nil, err)
		return
	}
	res, err := s.service.HandleModification(r.Context(), s.user(body.UserID), body.SessionID, body.Modification)
	s.write(w, r, res, err)
}

type feedbackBody struct {
	UserID      string   `json:"user_id"`
	MealID      string   `json:"meal_id"`
	Liked       *bool    `json:"liked"`
	CookedAgain bool     `json:"cooked_again"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackBody
	if err := s.decode(w, r, &body); err != nil {
		s.write(w, r, nil, err)
		return
	}
	if body.Liked == nil {
		s.write(w, r, nil, apperr.Validation("liked is required").WithDetail("field", "liked"))
		return
	}
	res, err := s.service.HandleFeedback(r.Context(), core.FeedbackRequest{
		UserID:      s.user(body.UserID),
		MealID:      body.MealID,
		Liked:       *body.Liked,
		CookedAgain: body.CookedAgain,
		Tags:        body.Tags,
		Notes:       body.Notes,
	})
	s.write(w, r, res, err)
}

type profileBody struct {
	UserID string `json:"user_id"`
	models.ProfileInput
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := s.decode(w, r, &body); err != nil {
		s.write(w, r, nil, err)
		return
	}
	res, err := s.service.SaveProfile(r.Context(), s.user(body.UserID), body.ProfileInput)
	s.write(w, r, res, err)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.UserSummary(r.Context(), s.user(r.URL.Query().Get("user_id")))
	s.write(w, r, res, err)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		s.write(w, r, nil, err)
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset")
	if err != nil {
		s.write(w, r, nil, err)
		return
	}
	res, err := s.service.History(r.Context(), s.user(q.Get("user_id")), limit, offset)
	s.write(w, r, res, err)
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", field).WithDetail("field", field)
	}
	return n, nil
}

// decodeImage accepts plain base64 or a data URL
func decodeImage(encoded string) (llm.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.IndexByte(encoded, ',')
		if comma < 0 {
			return llm.Image{}, errors.New("malformed data URL")
		}
		encoded = encoded[comma+1:]
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > llm.MaxImageBytes+3 {
		return llm.Image{}, llm.ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return llm.Image{}, errors.New("not valid base64")
	}
	return llm.ParseImage(data)
}

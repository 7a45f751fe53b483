// ABOUTME: MCP tool handlers that forward to the orchestrator
// ABOUTME: Every result is the JSON response envelope, flagged as an error on failure
package mcp

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/core"
	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Service is the set of operations exposed as tools. *core.Orchestrator implements it.
type Service interface {
	HandleTurn(ctx context.Context, req core.TurnRequest) (*models.TurnResult, error)
	HandleSelection(ctx context.Context, userID, sessionID, suggestionID string) (*models.TurnResult, error)
	HandleModification(ctx context.Context, userID, sessionID, modification string) (*models.TurnResult, error)
	HandleFeedback(ctx context.Context, req core.FeedbackRequest) (*models.FeedbackResult, error)
	SaveProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.ProfileSaved, error)
	UserSummary(ctx context.Context, userID string) (*models.UserSummary, error)
	History(ctx context.Context, userID string, limit, offset int) (*models.HistoryPage, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service     Service
	defaultUser string
	logger      *zap.Logger
}

// NewHandlers creates tool handlers. defaultUser fills in a missing user_id.
func NewHandlers(service Service, defaultUser string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{service: service, defaultUser: defaultUser, logger: logger.Named("mcp")}
}

func (h *Handlers) userID(request mcp.CallToolRequest) string {
	if id := strings.TrimSpace(request.GetString("user_id", "")); id != "" {
		return id
	}
	return h.defaultUser
}

// respond renders data or err as an envelope tool result
func (h *Handlers) respond(tool string, data any, err error) (*mcp.CallToolResult, error) {
	env := apperr.OK(data)
	if err != nil {
		env = apperr.Fail(err)
		h.logger.Warn("tool failed",
			zap.String("tool", tool),
			zap.String("code", string(apperr.CodeOf(err))),
			zap.Error(err))
	}
	result := mcp.NewToolResultText(string(env.JSON()))
	result.IsError = !env.OK
	return result, nil
}

// HandleTurn handles the handle_turn tool
func (h *Handlers) HandleTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := core.TurnRequest{
		UserID:    h.userID(request),
		SessionID: strings.TrimSpace(request.GetString("session_id", "")),
		Text:      request.GetString("text", ""),
		ModeHint:  request.GetString("mode_hint", "auto"),
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if minutes := request.GetInt("max_time_minutes", 0); minutes > 0 {
		req.MaxTimeMinutes = &minutes
	}

	for _, path := range request.GetStringSlice("image_paths", nil) {
		img, err := loadImage(path)
		if err != nil {
			return h.respond("handle_turn", nil, err)
		}
		req.Images = append(req.Images, img)
		req.ImageRefs = append(req.ImageRefs, path)
	}

	res, err := h.service.HandleTurn(ctx, req)
	return h.respond("handle_turn", res, err)
}

// SelectSuggestion handles the select_suggestion tool
func (h *Handlers) SelectSuggestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return h.respond("select_suggestion", nil, apperr.Validation("session_id is required"))
	}
	suggestionID, err := request.RequireString("suggestion_id")
	if err != nil {
		return h.respond("select_suggestion", nil, apperr.Validation("suggestion_id is required"))
	}
	res, err := h.service.HandleSelection(ctx, h.userID(request), sessionID, suggestionID)
	return h.respond("select_suggestion", res, err)
}

// ModifySuggestions handles the modify_suggestions tool
func (h *Handlers) ModifySuggestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return h.respond("modify_suggestions", nil, apperr.Validation("session_id is required"))
	}
	res, err := h.service.HandleModification(ctx, h.userID(request), sessionID, request.GetString("modification", ""))
	return h.respond("modify_suggestions", res, err)
}

// SubmitFeedback handles the submit_feedback tool
func (h *Handlers) SubmitFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mealID, err := request.RequireString("meal_id")
	if err != nil {
		return h.respond("submit_feedback", nil, apperr.Validation("meal_id is required"))
	}
	liked, err := request.RequireBool("liked")
	if err != nil {
		return h.respond("submit_feedback", nil, apperr.Validation("liked is required and must be a boolean"))
	}
	res, err := h.service.HandleFeedback(ctx, core.FeedbackRequest{
		UserID:      h.userID(request),
		MealID:      mealID,
		Liked:       liked,
		CookedAgain: request.GetBool("cooked_again", false),
		Tags:        request.GetStringSlice("tags", []string{}),
		Notes:       request.GetString("notes", ""),
	})
	return h.respond("submit_feedback", res, err)
}

// SaveProfile handles the save_profile tool
func (h *Handlers) SaveProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := models.ProfileInput{
		DisplayName:        request.GetString("display_name", ""),
		DietStyle:          request.GetString("diet_style", ""),
		Goals:              request.GetStringSlice("goals", nil),
		Allergies:          request.GetStringSlice("allergies", nil),
		Dislikes:           request.GetStringSlice("dislikes", nil),
		Likes:              request.GetStringSlice("likes", nil),
		CookingSkill:       request.GetString("cooking_skill", ""),
		TimePerMealMinutes: request.GetInt("time_per_meal_minutes", 0),
		Budget:             request.GetString("budget", ""),
		HouseholdSize:      request.GetInt("household_size", 0),
		Equipment:          request.GetStringSlice("equipment", nil),
		Notes:              request.GetString("notes", ""),
	}
	res, err := h.service.SaveProfile(ctx, h.userID(request), in)
	return h.respond("save_profile", res, err)
}

// GetUserSummary handles the get_user_summary tool
func (h *Handlers) GetUserSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.service.UserSummary(ctx, h.userID(request))
	return h.respond("get_user_summary", res, err)
}

// GetHistory handles the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.service.History(ctx, h.userID(request),
		request.GetInt("limit", 0),
		request.GetInt("offset", 0))
	return h.respond("get_history", res, err)
}

// loadImage reads an image file for the vision step
func loadImage(path string) (llm.Image, error) {
	img, err := llm.ReadImageFile(path)
	if err != nil {
		return llm.Image{}, apperr.Validation("cannot use image %s: %v", filepath.Base(path), err).
			WithDetail("field", "image_paths")
	}
	return img, nil
}

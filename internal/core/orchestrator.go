// ABOUTME: Orchestrator runs the turn, selection, feedback, and profile pipelines
// ABOUTME: Agents are called in sequence; safety gates and persistence are deterministic
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/tweak-my-meal/internal/agents"
	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/harper/tweak-my-meal/internal/schema"
	"github.com/harper/tweak-my-meal/internal/storage"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
	"go.uber.org/zap"
)

// Agents is the set of generative steps the orchestrator drives.
// *agents.Invoker implements it.
type Agents interface {
	Vision(ctx context.Context, images []llm.Image, bundle string) (models.VisionResult, error)
	Understand(ctx context.Context, in agents.UnderstandInput, bundle string) (models.NormalizedInput, error)
	Suggest(ctx context.Context, in agents.SuggestInput, bundle string) (models.SuggestionsResult, error)
	Recipe(ctx context.Context, in agents.RecipeInput, bundle string) (models.RecipeResult, error)
	MemoryUpdate(ctx context.Context, in agents.MemoryUpdateInput) (models.MemoryWriteResult, error)
}

const (
	mealSuggestionCount       = 3
	ingredientSuggestionCount = 5

	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

const (
	defaultVisionQuestion   = "I couldn't tell what's in the photo. Is it a finished meal or ingredients, and what's in it?"
	defaultUnderstandPrompt = "Is this a meal you'd like to make healthier, or ingredients you want to cook with?"
	differentDirection      = "None of the ideas fit your constraints. Could you try a different direction, like another dish or other ingredients?"
)

// Options tunes orchestrator thresholds
type Options struct {
	VisionMinConfidence float64
	MemoryMinSimilarity float64
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{VisionMinConfidence: 0.5, MemoryMinSimilarity: 0.2}
}

// Orchestrator coordinates agents, gates, and storage for every entry point
type Orchestrator struct {
	storage  *storage.Storage
	agents   Agents
	hydrator *ContextHydrator
	scribe   *Scribe
	opts     Options
	logger   *zap.Logger
	newID    func() string
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(store *storage.Storage, ag Agents, opts Options, logger *zap.Logger) *Orchestrator {
	logger = logging.OrNop(logger)
	return &Orchestrator{
		storage:  store,
		agents:   ag,
		hydrator: NewContextHydrator(store, opts.MemoryMinSimilarity, logger),
		scribe:   NewScribe(store, logger),
		opts:     opts,
		logger:   logger.Named("orchestrator"),
		newID:    func() string { return "meal_" + uuid.NewString() },
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TurnRequest is one user message, with optional images
type TurnRequest struct {
	UserID         string
	SessionID      string
	Text           string
	Images         []llm.Image
	ImageRefs      []string
	ModeHint       string
	MaxTimeMinutes *int
}

func (r *TurnRequest) validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return apperr.Validation("user_id is required").WithDetail("field", "user_id")
	}
	if strings.TrimSpace(r.SessionID) == "" {
		return apperr.Validation("session_id is required").WithDetail("field", "session_id")
	}
	if strings.TrimSpace(r.Text) == "" && len(r.Images) == 0 {
		return apperr.Validation("send some text or at least one image")
	}
	switch r.ModeHint {
	case "":
		r.ModeHint = "auto"
	case "auto", "meal", "ingredients":
	default:
		return apperr.Validation("mode_hint must be one of auto, meal, ingredients").
			WithDetail("field", "mode_hint")
	}
	if r.MaxTimeMinutes != nil && *r.MaxTimeMinutes < 0 {
		return apperr.Validation("max_time_minutes must be >= 0").WithDetail("field", "max_time_minutes")
	}
	return nil
}

// FeedbackRequest is the user's verdict on a cooked meal
type FeedbackRequest struct {
	UserID      string
	MealID      string
	Liked       bool
	CookedAgain bool
	Tags        []string
	Notes       string
}

// HandleTurn runs one conversational turn: vision, understanding, suggestion,
// and the suggestion safety gate. It returns a follow_up or suggestions result.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (*models.TurnResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)

	state, err := o.loadOrStart(ctx, req.UserID, req.SessionID)
	if err != nil {
		return nil, err
	}

	// A reply to pending questions keeps the original request around.
	answering := false
	if questions, ok := followupQuestions(state); ok && text != "" {
		for _, q := range questions {
			state.FollowupAnswers[q] = text
		}
		answering = true
	} else {
		state.FollowupAnswers = map[string]string{}
		state.LastVisionResult = nil
		state.OriginalText = text
		state.ImageRefs = nil
	}
	state.Modifications = nil
	state.NormalizedInput = nil

	query := text
	if answering && state.OriginalText != "" {
		query = state.OriginalText + " " + text
	}
	bundle, err := o.hydrator.Hydrate(ctx, req.UserID, query)
	if err != nil {
		return nil, err
	}

	var normalized models.NormalizedInput
	resolved := false

	if len(req.Images) > 0 {
		vr, err := o.agents.Vision(ctx, req.Images, bundle.Render())
		if err != nil {
			return nil, agentError(err, agents.RoleVision)
		}
		state.LastVisionResult = &vr
		state.ImageRefs = req.ImageRefs

		if vr.Kind == models.KindUnknown || vr.ConfidenceValue() < o.opts.VisionMinConfidence {
			o.logger.Info("vision result unresolved, asking follow-up",
				zap.String("session_id", state.SessionID),
				zap.String("kind", string(vr.Kind)),
				zap.Float64("confidence", vr.ConfidenceValue()))
			state.LastInputKind = models.KindUnknown
			return o.followUp(ctx, state, vr.FollowUpQuestions, defaultVisionQuestion)
		}

		normalized = fromVision(vr)
		resolved = true
		if query == "" {
			bundle, err = o.hydrator.Hydrate(ctx, req.UserID, strings.Join(vr.Detected.Names(), " "))
			if err != nil {
				return nil, err
			}
		}
	}

	if !resolved {
		source := text
		if answering && state.OriginalText != "" {
			source = state.OriginalText
		}
		switch {
		case req.ModeHint != "auto" && !answering:
			normalized = heuristicInput(source, req.ModeHint)
		default:
			in := agents.UnderstandInput{
				Text:            source,
				ModeHint:        req.ModeHint,
				MaxTimeMinutes:  req.MaxTimeMinutes,
				PreviousAnswers: previousAnswers(state),
			}
			if answering {
				in.Vision = state.LastVisionResult
			}
			normalized, err = o.agents.Understand(ctx, in, bundle.Render())
			if err != nil {
				return nil, agentError(err, agents.RoleUnderstand)
			}
			// An answer about a photo still describes the photo.
			if in.Vision != nil {
				normalized.InputKind = photoKind(normalized.InputKind)
			}
		}
	}

	if normalized.InputKind == models.KindUnknown || len(normalized.MissingInfoQuestions) > 0 {
		state.LastInputKind = normalized.InputKind
		return o.followUp(ctx, state, normalized.MissingInfoQuestions, defaultUnderstandPrompt)
	}

	if req.MaxTimeMinutes != nil {
		minutes := *req.MaxTimeMinutes
		normalized.MaxTimeMinutes = &minutes
	}
	state.NormalizedInput = &normalized
	state.LastInputKind = normalized.InputKind

	return o.suggest(ctx, state, bundle)
}

// HandleModification adds a tweak to the session's request and re-runs the
// suggestion step, e.g. "add chickpeas" or "make it dairy free".
func (o *Orchestrator) HandleModification(ctx context.Context, userID, sessionID, modification string) (*models.TurnResult, error) {
	modification = strings.TrimSpace(modification)
	if modification == "" {
		return nil, apperr.Validation("modification is required").WithDetail("field", "modification")
	}
	state, err := o.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if state.NormalizedInput == nil {
		return nil, apperr.Validation("session %s has no request to modify yet", sessionID).
			WithDetail("step", string(state.StepName()))
	}

	state.Modifications = append(state.Modifications, modification)

	query := strings.TrimSpace(strings.Join(state.NormalizedInput.Describe(), " ") + " " + modification)
	bundle, err := o.hydrator.Hydrate(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return o.suggest(ctx, state, bundle)
}

// suggest invokes the suggestion agent, gates the result, and records the
// pending options on the session
func (o *Orchestrator) suggest(ctx context.Context, state *models.SessionState, bundle *ContextBundle) (*models.TurnResult, error) {
	normalized := *state.NormalizedInput
	count := mealSuggestionCount
	if normalized.InputKind.IsIngredients() {
		count = ingredientSuggestionCount
	}

	rendered := bundle.Render()
	avoid := bundle.AvoidTerms()
	in := agents.SuggestInput{
		Request:          normalized,
		Count:            count,
		Modifications:    state.Modifications,
		MustAvoidTerms:   avoid,
		OriginalUserText: state.OriginalText,
	}
	if vr := state.LastVisionResult; vr != nil && vr.Kind != models.KindUnknown {
		in.VisionDetected = &vr.Detected
	}

	res, err := o.agents.Suggest(ctx, in, rendered)
	if err != nil {
		return nil, agentError(err, agents.RoleSuggest)
	}

	suggestions := normalizeSuggestions(res.Suggestions, count)
	if len(suggestions) == 0 {
		return o.followUp(ctx, state, res.FollowUpQuestions, differentDirection)
	}

	suggestions = o.gateSuggestions(ctx, in, suggestions, avoid, rendered)
	if len(suggestions) == 0 {
		return o.followUp(ctx, state, nil, differentDirection)
	}

	toSelection(state, suggestions)
	if err := o.saveSession(ctx, state); err != nil {
		return nil, err
	}

	o.logger.Info("suggestions ready",
		zap.String("session_id", state.SessionID),
		zap.String("input_kind", string(normalized.InputKind)),
		zap.Int("count", len(suggestions)))

	return models.SuggestionsTurn(state.SessionID, models.TurnSource{
		InputKind:    normalized.InputKind,
		VisionResult: state.LastVisionResult,
	}, suggestions), nil
}

// gateSuggestions drops or replaces suggestions that mention an avoid term.
// Violators get one regeneration; a clean replacement with the same id takes
// the violator's place.
func (o *Orchestrator) gateSuggestions(ctx context.Context, in agents.SuggestInput, suggestions []models.Suggestion, avoid []string, rendered string) []models.Suggestion {
	var violators []models.Suggestion
	for _, s := range suggestions {
		if term, bad := suggestionViolation(s, avoid); bad {
			o.logger.Warn("suggestion failed safety gate",
				zap.String("suggestion_id", s.SuggestionID),
				zap.String("term", term))
			violators = append(violators, s)
		}
	}
	if len(violators) == 0 {
		return suggestions
	}

	in.ReplaceUnsafe = violators
	replacements := map[string]models.Suggestion{}
	regen, err := o.agents.Suggest(ctx, in, rendered)
	if err != nil {
		o.logger.Warn("regenerating unsafe suggestions failed, dropping them", zap.Error(err))
	} else {
		for _, s := range regen.Suggestions {
			if _, seen := replacements[s.SuggestionID]; seen {
				continue
			}
			if _, bad := suggestionViolation(s, avoid); !bad {
				replacements[s.SuggestionID] = s
			}
		}
	}

	out := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if _, bad := suggestionViolation(s, avoid); !bad {
			out = append(out, s)
			continue
		}
		if r, ok := replacements[s.SuggestionID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// HandleSelection turns a pending suggestion into a full recipe and persists it
// as a meal. Nothing is written unless the recipe passes the safety gate.
func (o *Orchestrator) HandleSelection(ctx context.Context, userID, sessionID, suggestionID string) (*models.TurnResult, error) {
	if strings.TrimSpace(suggestionID) == "" {
		return nil, apperr.Validation("suggestion_id is required").WithDetail("field", "suggestion_id")
	}
	state, err := o.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	selected, err := pendingSuggestion(state, suggestionID)
	if err != nil {
		return nil, err
	}

	bundle, err := o.hydrator.Hydrate(ctx, userID, selected.Title)
	if err != nil {
		return nil, err
	}

	normalized := models.NormalizedInput{InputKind: state.LastInputKind}
	if state.NormalizedInput != nil {
		normalized = *state.NormalizedInput
	}

	rendered := bundle.Render()
	profile := bundle.Profile
	in := agents.RecipeInput{
		Suggestion:     selected,
		Request:        normalized,
		Modifications:  state.Modifications,
		MustAvoidTerms: bundle.AvoidTerms(),
	}

	recipe, err := o.agents.Recipe(ctx, in, rendered)
	if err != nil {
		return nil, agentError(err, agents.RoleRecipe)
	}
	if term, bad := recipeViolation(recipe, profile.Allergies, profile.Dislikes); bad {
		o.logger.Warn("recipe failed safety gate, regenerating",
			zap.String("session_id", sessionID),
			zap.String("term", term))
		in.PreviousIssue = fmt.Sprintf("The previous recipe used %q, which this user must avoid. Remove it or give a safe substitute.", term)
		recipe, err = o.agents.Recipe(ctx, in, rendered)
		if err != nil {
			return nil, agentError(err, agents.RoleRecipe)
		}
		if term, bad := recipeViolation(recipe, profile.Allergies, profile.Dislikes); bad {
			return nil, apperr.Model(nil, "recipe still contains %q after regeneration", term).
				WithDetail("term", term)
		}
	}

	tags := selected.Tags
	if tags == nil {
		tags = []string{}
	}
	meal := &models.Meal{
		ID:             o.newID(),
		UserID:         userID,
		CreatedAt:      o.now(),
		Title:          recipe.Name,
		SourceKind:     normalized.InputKind,
		InputText:      state.OriginalText,
		InputImageRefs: state.ImageRefs,
		VisionResult:   state.LastVisionResult,
		SuggestionID:   selected.SuggestionID,
		Recipe:         recipe,
		Tags:           tags,
	}
	if err := o.storage.Meals.Insert(ctx, meal); err != nil {
		return nil, apperr.Internal(err, "saving meal")
	}

	toDone(state, meal.ID)
	if err := o.saveSession(ctx, state); err != nil {
		return nil, err
	}

	o.logger.Info("meal created",
		zap.String("user_id", userID),
		zap.String("meal_id", meal.ID),
		zap.String("title", meal.Title))
	return models.RecipeTurn(sessionID, meal.ID, recipe), nil
}

// HandleFeedback records the outcome of a meal and learns from it. Learning
// never fails the call once the outcome is stored.
func (o *Orchestrator) HandleFeedback(ctx context.Context, req FeedbackRequest) (*models.FeedbackResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperr.Validation("user_id is required").WithDetail("field", "user_id")
	}
	if strings.TrimSpace(req.MealID) == "" {
		return nil, apperr.Validation("meal_id is required").WithDetail("field", "meal_id")
	}

	meal, err := o.storage.Meals.Get(ctx, req.MealID)
	if errors.Is(err, sqlite.ErrNotFound) || (err == nil && meal.UserID != req.UserID) {
		return nil, apperr.NotFound("meal %s not found", req.MealID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading meal")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	outcome := &models.MealOutcome{
		MealID:      meal.ID,
		UserID:      req.UserID,
		CreatedAt:   o.now(),
		Liked:       req.Liked,
		CookedAgain: req.CookedAgain,
		Tags:        tags,
		Notes:       strings.TrimSpace(req.Notes),
	}
	err = o.storage.Meals.InsertOutcome(ctx, outcome)
	if errors.Is(err, sqlite.ErrConflict) {
		return nil, apperr.Conflict("feedback for meal %s was already recorded", meal.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "saving feedback")
	}

	learned := o.learn(ctx, meal, outcome)

	summary := (*models.UserProfile)(nil).Summary()
	profile, err := o.storage.Profiles.Get(ctx, req.UserID)
	switch {
	case err == nil:
		summary = profile.Summary()
	case !errors.Is(err, sqlite.ErrNotFound):
		o.logger.Warn("loading profile summary failed", zap.Error(err))
	}

	return &models.FeedbackResult{
		UpdatedProfileSummary:  summary,
		MemoryItemsWritten:     learned.MemoryItemsWritten,
		PreferenceFactsUpdated: learned.PreferenceFactsUpdated,
	}, nil
}

// learn asks the memory agent what to learn, falling back to tag rules when it
// fails. Storage failures are logged and reported as zero counts.
func (o *Orchestrator) learn(ctx context.Context, meal *models.Meal, outcome *models.MealOutcome) LearnResult {
	facts, err := o.storage.Preferences.TopK(ctx, meal.UserID, topPreferences)
	if err != nil {
		o.logger.Warn("loading preferences for learning failed", zap.Error(err))
		facts = []models.PreferenceFact{}
	}

	in := agents.MemoryUpdateInput{
		MealTitle:      meal.Title,
		MealTags:       meal.Tags,
		Liked:          outcome.Liked,
		CookedAgain:    outcome.CookedAgain,
		FeedbackTags:   outcome.Tags,
		Notes:          outcome.Notes,
		TopPreferences: facts,
	}
	if profile, err := o.storage.Profiles.Get(ctx, meal.UserID); err == nil {
		in.DietStyle = profile.DietStyle
		in.Goals = profile.Goals
	}

	res, err := o.agents.MemoryUpdate(ctx, in)
	if err != nil {
		o.logger.Warn("memory update agent failed, using fallback learning",
			zap.String("meal_id", meal.ID),
			zap.Error(err))
		res = FallbackLearning(meal, *outcome)
	}

	learned, err := o.scribe.Apply(ctx, meal.UserID, meal.ID, res)
	if err != nil {
		o.logger.Error("applying learning failed",
			zap.String("meal_id", meal.ID),
			zap.Error(err))
		return LearnResult{}
	}
	return learned
}

// SaveProfile applies an explicit profile edit. Allergies already on file are kept.
func (o *Orchestrator) SaveProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.ProfileSaved, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("user_id is required").WithDetail("field", "user_id")
	}
	if err := schema.ValidateValue(&in); err != nil {
		return nil, validationError(err)
	}

	profile, _, err := o.scribe.UpdateProfile(ctx, userID, func(p *models.UserProfile) bool {
		p.Apply(in)
		return true
	})
	if err != nil {
		return nil, apperr.Internal(err, "saving profile")
	}
	return &models.ProfileSaved{
		UserID:         userID,
		ProfileVersion: profile.Version,
		ProfileSummary: profile.Summary(),
	}, nil
}

// UserSummary returns the profile line and strongest preferences
func (o *Orchestrator) UserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	profile, err := o.storage.Profiles.Get(ctx, userID)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, apperr.NotFound("no profile for user %s", userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading profile")
	}
	facts, err := o.storage.Preferences.TopK(ctx, userID, topPreferences)
	if err != nil {
		return nil, apperr.Internal(err, "loading preferences")
	}
	return &models.UserSummary{
		UserID:         userID,
		ProfileSummary: profile.Summary(),
		TopPreferences: facts,
	}, nil
}

// History pages through the user's meals, newest first. A zero limit means the default.
func (o *Orchestrator) History(ctx context.Context, userID string, limit, offset int) (*models.HistoryPage, error) {
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit < 1 || limit > maxHistoryLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", maxHistoryLimit).WithDetail("field", "limit")
	}
	if offset < 0 {
		return nil, apperr.Validation("offset must be >= 0").WithDetail("field", "offset")
	}
	items, err := o.storage.Meals.History(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err, "loading history")
	}
	return &models.HistoryPage{Items: items, Limit: limit, Offset: offset}, nil
}

// loadOrStart returns the user's live session, or a fresh one when none exists.
// A session id held by another user starts over rather than leaking state.
func (o *Orchestrator) loadOrStart(ctx context.Context, userID, sessionID string) (*models.SessionState, error) {
	state, err := o.storage.Sessions.Get(ctx, sessionID)
	if errors.Is(err, sqlite.ErrNotFound) || (err == nil && state.UserID != userID) {
		return models.NewSessionState(sessionID, userID), nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading session")
	}
	if state.FollowupAnswers == nil {
		state.FollowupAnswers = map[string]string{}
	}
	return state, nil
}

// loadSession returns an existing session owned by userID
func (o *Orchestrator) loadSession(ctx context.Context, userID, sessionID string) (*models.SessionState, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("user_id is required").WithDetail("field", "user_id")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperr.Validation("session_id is required").WithDetail("field", "session_id")
	}
	state, err := o.storage.Sessions.Get(ctx, sessionID)
	if errors.Is(err, sqlite.ErrNotFound) || (err == nil && state.UserID != userID) {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading session")
	}
	return state, nil
}

func (o *Orchestrator) saveSession(ctx context.Context, state *models.SessionState) error {
	if err := o.storage.Sessions.Put(ctx, state); err != nil {
		return apperr.Internal(err, "saving session")
	}
	return nil
}

// followUp stores the questions on the session and returns them, using
// fallback when questions is empty
func (o *Orchestrator) followUp(ctx context.Context, state *models.SessionState, questions []string, fallback string) (*models.TurnResult, error) {
	qs := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			qs = append(qs, q)
		}
	}
	if len(qs) == 0 {
		qs = []string{fallback}
	}
	toFollowup(state, qs)
	if err := o.saveSession(ctx, state); err != nil {
		return nil, err
	}
	return models.FollowUpTurn(state.SessionID, qs), nil
}

// normalizeSuggestions trims to count and gives every suggestion a unique id
func normalizeSuggestions(in []models.Suggestion, count int) []models.Suggestion {
	if len(in) > count {
		in = in[:count]
	}
	out := make([]models.Suggestion, 0, len(in))
	seen := make(map[string]bool, len(in))
	next := 1
	for _, s := range in {
		s.SuggestionID = strings.TrimSpace(s.SuggestionID)
		if s.SuggestionID == "" || seen[s.SuggestionID] {
			for seen[fmt.Sprintf("sug_%d", next)] {
				next++
			}
			s.SuggestionID = fmt.Sprintf("sug_%d", next)
		}
		seen[s.SuggestionID] = true
		out = append(out, s)
	}
	return out
}

// fromVision builds the normalized request from a resolved vision result
func fromVision(vr models.VisionResult) models.NormalizedInput {
	n := models.NormalizedInput{
		InputKind:   vr.Kind,
		MealName:    vr.Detected.MealName,
		Ingredients: []string{},
	}
	for _, item := range vr.Detected.Ingredients {
		n.Ingredients = append(n.Ingredients, item.Name)
	}
	return n
}

func photoKind(k models.InputKind) models.InputKind {
	switch k {
	case models.KindTextMeal:
		return models.KindMealPhoto
	case models.KindTextIngredients:
		return models.KindIngredientsPhoto
	}
	return k
}

// heuristicInput builds the normalized request when the user said what they sent
func heuristicInput(text, mode string) models.NormalizedInput {
	if mode == "meal" {
		name := text
		return models.NormalizedInput{InputKind: models.KindTextMeal, MealName: &name, Ingredients: []string{}}
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	ingredients := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, item := range strings.Split(p, " and ") {
			if item = strings.TrimSpace(item); item != "" {
				ingredients = append(ingredients, item)
			}
		}
	}
	return models.NormalizedInput{InputKind: models.KindTextIngredients, Ingredients: ingredients}
}

// previousAnswers lists follow-up answers in a stable order
func previousAnswers(state *models.SessionState) []agents.QA {
	questions := make([]string, 0, len(state.FollowupAnswers))
	for q := range state.FollowupAnswers {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	out := make([]agents.QA, 0, len(questions))
	for _, q := range questions {
		out = append(out, agents.QA{Question: q, Answer: state.FollowupAnswers[q]})
	}
	return out
}

// agentError keeps classified agent errors and marks anything else a model failure
func agentError(err error, role agents.Role) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Model(err, "%s agent failed", role)
}

// validationError converts a schema violation into a VALIDATION_ERROR
func validationError(err error) error {
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		e := apperr.Validation("%s", ve.Error())
		if ve.Field != "" {
			e = e.WithDetail("field", ve.Field)
		}
		return e.WithDetail("rule", ve.Rule)
	}
	return apperr.Validation("%s", err.Error())
}

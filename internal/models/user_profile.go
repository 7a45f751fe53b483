// ABOUTME: UserProfile holds a user's hard constraints and soft preferences
// ABOUTME: Supports full edits that keep allergies and append-only learned patches
package models

import (
	"fmt"
	"strings"
	"time"
)

// CookingSkill is the user's self-reported skill level
type CookingSkill string

const (
	SkillBeginner     CookingSkill = "beginner"
	SkillIntermediate CookingSkill = "intermediate"
	SkillAdvanced     CookingSkill = "advanced"
)

// UserProfile represents one user's dietary profile
type UserProfile struct {
	UserID             string       `json:"user_id"`
	DisplayName        string       `json:"display_name,omitempty"`
	DietStyle          string       `json:"diet_style,omitempty"`
	Goals              []string     `json:"goals"`
	Allergies          []string     `json:"allergies"`
	Dislikes           []string     `json:"dislikes"`
	Likes              []string     `json:"likes"`
	CookingSkill       CookingSkill `json:"cooking_skill,omitempty"`
	TimePerMealMinutes int          `json:"time_per_meal_minutes,omitempty"`
	Budget             string       `json:"budget,omitempty"`
	HouseholdSize      int          `json:"household_size,omitempty"`
	Equipment          []string     `json:"equipment"`
	Units              string       `json:"units"`
	Notes              string       `json:"notes,omitempty"`
	Version            int          `json:"version"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ProfileInput is an explicit profile edit submitted by the user
type ProfileInput struct {
	DisplayName        string   `json:"display_name,omitempty"`
	DietStyle          string   `json:"diet_style,omitempty"`
	Goals              []string `json:"goals,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	Dislikes           []string `json:"dislikes,omitempty"`
	Likes              []string `json:"likes,omitempty"`
	CookingSkill       string   `json:"cooking_skill,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	TimePerMealMinutes int      `json:"time_per_meal_minutes,omitempty" validate:"gte=0"`
	Budget             string   `json:"budget,omitempty" validate:"omitempty,oneof=low medium high"`
	HouseholdSize      int      `json:"household_size,omitempty" validate:"gte=0"`
	Equipment          []string `json:"equipment,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// NewUserProfile returns an empty metric profile for userID
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Goals:     []string{},
		Allergies: []string{},
		Dislikes:  []string{},
		Likes:     []string{},
		Equipment: []string{},
		Units:     "metric",
	}
}

// Input returns the editable fields as a ProfileInput, so a partial edit can
// start from the current values
func (up *UserProfile) Input() ProfileInput {
	return ProfileInput{
		DisplayName:        up.DisplayName,
		DietStyle:          up.DietStyle,
		Goals:              up.Goals,
		Allergies:          up.Allergies,
		Dislikes:           up.Dislikes,
		Likes:              up.Likes,
		CookingSkill:       string(up.CookingSkill),
		TimePerMealMinutes: up.TimePerMealMinutes,
		Budget:             up.Budget,
		HouseholdSize:      up.HouseholdSize,
		Equipment:          up.Equipment,
		Notes:              up.Notes,
	}
}

// Apply replaces the editable fields with in. Existing allergies are kept even
// when the edit omits them.
func (up *UserProfile) Apply(in ProfileInput) {
	up.DisplayName = strings.TrimSpace(in.DisplayName)
	up.DietStyle = strings.TrimSpace(in.DietStyle)
	up.Goals = cleanList(in.Goals)
	up.Allergies = union(up.Allergies, in.Allergies)
	up.Dislikes = cleanList(in.Dislikes)
	up.Likes = cleanList(in.Likes)
	up.CookingSkill = CookingSkill(in.CookingSkill)
	up.TimePerMealMinutes = in.TimePerMealMinutes
	up.Budget = in.Budget
	up.HouseholdSize = in.HouseholdSize
	up.Equipment = cleanList(in.Equipment)
	up.Notes = strings.TrimSpace(in.Notes)
	up.Units = "metric"
	up.Version++
	up.UpdatedAt = time.Now().UTC()
}

// ApplyPatch merges learned additions into the profile without removing anything.
// It reports whether the profile changed; the version only moves when it did.
func (up *UserProfile) ApplyPatch(patch ProfilePatch) bool {
	changed := false

	likes := union(up.Likes, patch.LikesAdd)
	if len(likes) != len(up.Likes) {
		up.Likes = likes
		changed = true
	}

	dislikes := union(up.Dislikes, patch.DislikesAdd)
	if len(dislikes) != len(up.Dislikes) {
		up.Dislikes = dislikes
		changed = true
	}

	for _, note := range patch.NotesAppend {
		note = strings.TrimSpace(note)
		if note == "" {
			continue
		}
		if up.Notes == "" {
			up.Notes = note
		} else {
			up.Notes += "\n" + note
		}
		changed = true
	}

	if changed {
		up.Version++
		up.UpdatedAt = time.Now().UTC()
	}
	return changed
}

// AvoidTerms returns allergies followed by dislikes, the safety gate's blocklist
func (up *UserProfile) AvoidTerms() []string {
	if up == nil {
		return nil
	}
	terms := make([]string, 0, len(up.Allergies)+len(up.Dislikes))
	terms = append(terms, up.Allergies...)
	return append(terms, up.Dislikes...)
}

// Summary renders a one-line human description of the profile
func (up *UserProfile) Summary() string {
	if up == nil {
		return "New user - no profile yet"
	}

	var parts []string
	if up.DisplayName != "" {
		parts = append(parts, up.DisplayName)
	}
	if up.DietStyle != "" {
		parts = append(parts, up.DietStyle)
	}
	if up.CookingSkill != "" {
		parts = append(parts, fmt.Sprintf("%s cook", up.CookingSkill))
	}
	if len(up.Goals) > 0 {
		goals := up.Goals
		if len(goals) > 2 {
			goals = goals[:2]
		}
		parts = append(parts, "Goals: "+joinList(goals))
	}
	if len(up.Allergies) > 0 {
		parts = append(parts, "Allergies: "+joinList(up.Allergies))
	}

	if len(parts) == 0 {
		return "Basic profile"
	}
	return strings.Join(parts, " | ")
}

// union appends the entries of add missing from base, comparing case-insensitively
func union(base, add []string) []string {
	out := cleanList(base)
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range add {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

// cleanList trims entries and drops blanks and duplicates, preserving order
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// ABOUTME: PreferenceFact is a learned, additive strength for one fact key
// ABOUTME: Fact keys are normalized namespace:value strings like likes:spicy
package models

import (
	"strings"
	"time"
)

// PreferenceFact is one row of the user's preference model
type PreferenceFact struct {
	UserID       string    `json:"user_id"`
	FactKey      string    `json:"fact_key"`
	Strength     float64   `json:"strength"`
	UpdatedAt    time.Time `json:"updated_at"`
	SourceMealID string    `json:"source_meal_id,omitempty"`
}

// NormalizeFactKey lower-cases a key, trims each side of the namespace
// separator, and joins words with underscores. "Likes: Thai Food" becomes
// "likes:thai_food". Keys without a namespace are returned normalized as-is.
func NormalizeFactKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return ""
	}
	ns, value, found := strings.Cut(key, ":")
	if !found {
		return underscore(ns)
	}
	ns, value = underscore(ns), underscore(value)
	if ns == "" || value == "" {
		return ""
	}
	return ns + ":" + value
}

func underscore(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), "_")
}

// ABOUTME: Safety gate checks for allergies and dislikes in agent output
// ABOUTME: Matching is word-based, case-insensitive, and treats plurals as equal
package core

import (
	"strings"
	"unicode"

	"github.com/harper/tweak-my-meal/internal/models"
)

// words splits text into lowercase stems of letters and digits
func words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = stem(f)
	}
	return fields
}

// stem folds simple English plurals: berries->berry, tomatoes->tomato, peanuts->peanut
func stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && (strings.HasSuffix(w, "oes") || strings.HasSuffix(w, "ches") ||
		strings.HasSuffix(w, "shes") || strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "sses")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// containsTerm reports whether term appears in text as a whole word sequence
func containsTerm(text, term string) bool {
	needle := words(term)
	if len(needle) == 0 {
		return false
	}
	hay := words(text)
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j, w := range needle {
			if hay[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// firstMatch returns the first term found in any of texts
func firstMatch(terms []string, texts ...string) (string, bool) {
	for _, term := range terms {
		for _, text := range texts {
			if containsTerm(text, term) {
				return term, true
			}
		}
	}
	return "", false
}

// suggestionViolation returns the avoid term a suggestion mentions, if any.
// Tags, title, summary, and key ingredients are scanned.
func suggestionViolation(s models.Suggestion, avoid []string) (string, bool) {
	texts := []string{s.Title, s.Summary}
	texts = append(texts, s.Tags...)
	texts = append(texts, s.KeyIngredients...)
	return firstMatch(avoid, texts...)
}

// recipeViolation returns the term that makes a recipe unsafe. An ingredient
// matching an allergy or dislike is acceptable only when it lists a substitute
// free of both; a required ingredient matching an allergy is never acceptable.
// Steps are not scanned.
func recipeViolation(r models.RecipeResult, allergies, dislikes []string) (string, bool) {
	avoid := append(append([]string{}, allergies...), dislikes...)
	for _, ing := range r.Ingredients {
		if term, ok := firstMatch(allergies, ing.Name); ok && !ing.Optional {
			return term, true
		}
		term, ok := firstMatch(avoid, ing.Name)
		if !ok {
			continue
		}
		if !hasCleanSubstitute(ing.Substitutes, avoid) {
			return term, true
		}
	}
	return "", false
}

func hasCleanSubstitute(subs, avoid []string) bool {
	for _, sub := range subs {
		if strings.TrimSpace(sub) == "" {
			continue
		}
		if _, bad := firstMatch(avoid, sub); !bad {
			return true
		}
	}
	return false
}

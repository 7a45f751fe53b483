// ABOUTME: Tests for preference fact key normalization
// ABOUTME: Keys are lowercase namespace:value with underscores

package models

import "testing"

func TestNormalizeFactKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"likes:spicy", "likes:spicy"},
		{"Likes: Thai Food", "likes:thai_food"},
		{"avoid:very-spicy", "avoid:very_spicy"},
		{"likes:", ""},
		{":spicy", ""},
		{"Very Spicy", "very_spicy"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeFactKey(tt.in); got != tt.want {
				t.Errorf("NormalizeFactKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

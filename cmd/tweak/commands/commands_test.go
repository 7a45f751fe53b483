// ABOUTME: End-to-end tests running CLI commands against a temp database
// ABOUTME: No model key is set, so only storage-backed paths succeed

package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TWEAK_DEFAULT_USER", "user_0001")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileSetAndShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")

	out, err := runCLI(t, db, "profile")
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}
	if !strings.Contains(out, "No profile found") {
		t.Errorf("output = %q, want no-profile hint", out)
	}

	out, err = runCLI(t, db, "profile", "set", "--name", "Sam", "--allergy", "peanut", "--skill", "beginner")
	if err != nil {
		t.Fatalf("profile set error = %v", err)
	}
	if !strings.Contains(out, "version 1") {
		t.Errorf("output = %q, want version 1", out)
	}

	// A second edit keeps untouched fields and adds to allergies
	if _, err := runCLI(t, db, "profile", "set", "--allergy", "shellfish"); err != nil {
		t.Fatalf("profile set error = %v", err)
	}

	out, err = runCLI(t, db, "--format", "json", "profile")
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}
	var shown struct {
		Profile struct {
			DisplayName  string   `json:"display_name"`
			Allergies    []string `json:"allergies"`
			CookingSkill string   `json:"cooking_skill"`
			Version      int      `json:"version"`
		} `json:"profile"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if shown.Profile.DisplayName != "Sam" || shown.Profile.CookingSkill != "beginner" {
		t.Errorf("profile = %+v, want name and skill kept", shown.Profile)
	}
	if len(shown.Profile.Allergies) != 2 {
		t.Errorf("allergies = %v, want peanut and shellfish", shown.Profile.Allergies)
	}
	if shown.Profile.Version != 2 {
		t.Errorf("version = %d, want 2", shown.Profile.Version)
	}
	if shown.UserID != "user_0001" {
		t.Errorf("user_id = %q, want user_0001", shown.UserID)
	}
}

func TestProfileSet_RequiresAField(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")
	if _, err := runCLI(t, db, "profile", "set"); err == nil {
		t.Error("profile set without flags should fail")
	}
}

func TestProfileSet_InvalidSkill(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")
	_, err := runCLI(t, db, "profile", "set", "--skill", "wizard")
	if err == nil || !strings.Contains(err.Error(), "VALIDATION_ERROR") {
		t.Errorf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")

	out, err := runCLI(t, db, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "No meals yet") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCLI(t, db, "history", "--limit", "0"); err == nil {
		t.Error("history --limit 0 should fail")
	}
}

func TestFeedback_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")

	_, err := runCLI(t, db, "feedback", "missing-meal", "--liked")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}

	if _, err := runCLI(t, db, "feedback", "m1"); err == nil {
		t.Error("feedback without --liked or --disliked should fail")
	}
	if _, err := runCLI(t, db, "feedback", "m1", "--liked", "--disliked"); err == nil {
		t.Error("feedback with both --liked and --disliked should fail")
	}
}

func TestSelect_UnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")
	_, err := runCLI(t, db, "select", "no-such-session", "sug_1")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestChat_WithoutModel(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")
	_, err := runCLI(t, db, "chat", "chicken alfredo")
	if err == nil || !strings.Contains(err.Error(), "MODEL_ERROR") {
		t.Errorf("error = %v, want MODEL_ERROR", err)
	}

	_, err = runCLI(t, db, "chat", "--image", filepath.Join(t.TempDir(), "missing.jpg"))
	if err == nil || !strings.Contains(err.Error(), "missing.jpg") {
		t.Errorf("error = %v, want missing image error", err)
	}
}

func TestModify_RequiresChange(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tweak.db")
	_, err := runCLI(t, db, "modify", "s1")
	if err == nil || !strings.Contains(err.Error(), "accepts 2 arg(s)") {
		t.Errorf("error = %v, want argument count error", err)
	}

	_, err = runCLI(t, db, "modify", "no-such-session", "add mushrooms")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

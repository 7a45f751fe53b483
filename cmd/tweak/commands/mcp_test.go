// ABOUTME: Tests for MCP and serve command structure
// ABOUTME: Verifies descriptions, examples, and that servers register every tool

package commands

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/tweak-my-meal/internal/app"
	"github.com/harper/tweak-my-meal/internal/config"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
	for _, want := range []string{"MCP", "LLM", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %q", want)
		}
	}
	if !strings.Contains(cmd.Example, "tweak mcp") {
		t.Error("Example should show how to run the command")
	}
	if !strings.Contains(cmd.Example, "claude_desktop_config") {
		t.Error("Example should mention Claude Desktop config")
	}
}

func TestNewMCPServer_RegistersTools(t *testing.T) {
	a, err := app.New(&config.Config{
		DBPath:           filepath.Join(t.TempDir(), "tweak.db"),
		PreferenceDecay:  1,
		SessionTTL:       time.Hour,
		SessionSweepCron: "*/15 * * * *",
		DefaultUser:      "user_0001",
	}, nil)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer a.Close()

	tools := NewMCPServer(a).ListTools()
	if len(tools) != 7 {
		t.Errorf("registered %d tools, want 7", len(tools))
	}
	if _, ok := tools["handle_turn"]; !ok {
		t.Error("handle_turn should be registered")
	}
}

func TestNewServeCmd(t *testing.T) {
	cmd := NewServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want %q", cmd.Use, "serve")
	}
	if cmd.Flags().Lookup("addr") == nil {
		t.Error("--addr flag not found")
	}
	if !strings.Contains(cmd.Long, "/api/chat/turn") {
		t.Error("Long description should list the routes")
	}
}

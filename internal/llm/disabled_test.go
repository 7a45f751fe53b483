// ABOUTME: Tests for the disabled completer
// ABOUTME: It must fail with ErrNotConfigured
package llm

import (
	"context"
	"errors"
	"testing"
)

func TestDisabled_Complete(t *testing.T) {
	out, err := Disabled{}.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Complete() error = %v, want ErrNotConfigured", err)
	}
	if out != "" {
		t.Errorf("Complete() = %q, want empty", out)
	}
}

// ABOUTME: Completer used when no model provider is configured
// ABOUTME: Every call fails with ErrNotConfigured so storage-only commands still work
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Disabled for every completion
var ErrNotConfigured = errors.New("no model provider configured: set OPENAI_API_KEY")

// Disabled is a Completer that always fails
type Disabled struct{}

// Complete implements Completer
func (Disabled) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return "", ErrNotConfigured
}

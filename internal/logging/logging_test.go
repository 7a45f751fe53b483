// ABOUTME: Tests for logger construction
// ABOUTME: Verifies level selection for debug and quiet modes
package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		debug bool
		info  bool
	}{
		{"default", Options{}, false, true},
		{"debug", Options{Debug: true}, true, true},
		{"quiet", Options{Quiet: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := logger.Core().Enabled(zapcore.InfoLevel); got != tt.info {
				t.Errorf("info enabled = %v, want %v", got, tt.info)
			}
		})
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}

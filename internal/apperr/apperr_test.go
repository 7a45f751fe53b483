// ABOUTME: Tests for error classification and envelope rendering
// ABOUTME: Verifies code lookup through wrapping and HTTP status mapping
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("selecting: %w", Validation("unknown suggestion %q", "sug_9"))

	assert.Equal(t, CodeValidation, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("disk on fire")))
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.True(t, Is(wrapped, CodeValidation))
	assert.False(t, Is(nil, CodeValidation))
}

func TestStatus(t *testing.T) {
	tests := map[Code]int{
		CodeValidation: 400,
		CodeNotFound:   404,
		CodeConflict:   409,
		CodeModel:      502,
		CodeInternal:   500,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.Status(), code)
	}
}

func TestModelUnwrap(t *testing.T) {
	cause := errors.New("invalid json")
	err := Model(cause, "recipe agent failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "MODEL_ERROR")
}

func TestEnvelope(t *testing.T) {
	ok := OK(map[string]int{"n": 1})
	assert.Equal(t, 200, ok.Status())

	fail := Fail(Conflict("feedback already recorded").WithDetail("meal_id", "meal_1"))
	assert.Equal(t, 409, fail.Status())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(fail.JSON(), &decoded))
	assert.Equal(t, false, decoded["ok"])
	body := decoded["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Equal(t, "meal_1", body["details"].(map[string]any)["meal_id"])
}

func TestFail_HidesInternalCause(t *testing.T) {
	env := Fail(errors.New("password=hunter2"))

	require.NotNil(t, env.Error)
	assert.Equal(t, CodeInternal, env.Error.Code)
	assert.NotContains(t, env.Error.Message, "hunter2")
}

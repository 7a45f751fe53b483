// ABOUTME: Tests for the deterministic trigram embedder
// ABOUTME: Similar texts should score closer than unrelated ones

package llm

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	h := NewHashEmbedder()
	a, err := h.Embed(context.Background(), "Spicy Thai noodles")
	require.NoError(t, err)
	b, err := h.Embed(context.Background(), "spicy thai noodles!")
	require.NoError(t, err)

	assert.Len(t, a, DefaultHashDimensions)
	assert.InDelta(t, 1.0, dot(a, b), 1e-9)
}

func TestHashEmbedder_Similarity(t *testing.T) {
	h := NewHashEmbedder()
	ctx := context.Background()
	query, _ := h.Embed(ctx, "spicy food")
	near, _ := h.Embed(ctx, "User enjoys spicy food")
	far, _ := h.Embed(ctx, "quarterly budget meeting")

	assert.Greater(t, dot(query, near), dot(query, far))
}

func TestHashEmbedder_Empty(t *testing.T) {
	vec, err := (&HashEmbedder{Dimensions: 8}).Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestHashEmbedder_Normalized(t *testing.T) {
	vec, _ := NewHashEmbedder().Embed(context.Background(), "grilled chicken salad")
	assert.InDelta(t, 1.0, math.Sqrt(dot(vec, vec)), 1e-9)
}

func TestHashEmbedder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder().Embed(ctx, "x")
	assert.Error(t, err)
}

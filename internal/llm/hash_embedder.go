// ABOUTME: Deterministic offline embedder built from hashed character trigrams
// ABOUTME: Used when no API key is configured and in tests
package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultHashDimensions is the vector size of HashEmbedder
const DefaultHashDimensions = 256

// HashEmbedder maps text to a normalized bag of character trigrams.
// Texts sharing words land near each other; identical texts are identical.
type HashEmbedder struct {
	Dimensions int
}

// NewHashEmbedder returns an embedder with DefaultHashDimensions
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{Dimensions: DefaultHashDimensions}
}

// Embed never fails; empty text yields a zero vector
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims := h.Dimensions
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	vec := make([]float64, dims)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if word == "" {
			continue
		}
		padded := []rune("^" + word + "$")
		for i := 0; i+3 <= len(padded); i++ {
			hasher := fnv.New32a()
			_, _ = hasher.Write([]byte(string(padded[i : i+3])))
			sum := hasher.Sum32()
			idx := int(sum % uint32(dims))
			if sum&(1<<31) != 0 {
				vec[idx]--
			} else {
				vec[idx]++
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

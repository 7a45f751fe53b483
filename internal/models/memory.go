// ABOUTME: MemoryItem is a short learned fact retrieved by semantic search
// ABOUTME: Items are immutable once written
package models

import "time"

// MemoryItem is a stored memory with its optional embedding
type MemoryItem struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Kind         MemoryKind `json:"kind"`
	Text         string     `json:"text"`
	Salience     float64    `json:"salience"`
	SourceMealID string     `json:"source_meal_id,omitempty"`
	Embedding    []float64  `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ScoredMemory is a memory item with its similarity to a query
type ScoredMemory struct {
	MemoryItem
	Similarity float64 `json:"similarity"`
}

// ABOUTME: Memory store that embeds text and searches stored vectors
// ABOUTME: Embedding failures still persist the row, unsearchable until re-embedded
package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// MemoryStore writes and retrieves memory items by semantic similarity
type MemoryStore struct {
	rows     *sqlite.MemoryRowStore
	embedder llm.Embedder
	logger   *zap.Logger
}

// NewMemoryStore creates a MemoryStore over rows using embedder
func NewMemoryStore(rows *sqlite.MemoryRowStore, embedder llm.Embedder, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{rows: rows, embedder: embedder, logger: logger.Named("memory")}
}

// Write assigns an id, embeds the text, and persists the item
func (m *MemoryStore) Write(ctx context.Context, userID string, draft models.MemoryDraft, sourceMealID string) (*models.MemoryItem, error) {
	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return nil, fmt.Errorf("memory text is empty")
	}

	now := time.Now().UTC()
	item := &models.MemoryItem{
		ID:           ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:       userID,
		Kind:         draft.Kind,
		Text:         text,
		Salience:     draft.Salience,
		SourceMealID: sourceMealID,
		CreatedAt:    now,
	}

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		m.logger.Warn("embedding memory failed, storing without vector",
			zap.String("memory_id", item.ID),
			zap.Error(err))
	} else {
		item.Embedding = vec
	}

	if err := m.rows.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Search returns up to k of the user's memories most similar to query
func (m *MemoryStore) Search(ctx context.Context, userID, query string, k int) ([]models.ScoredMemory, error) {
	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return []models.ScoredMemory{}, nil
	}

	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return m.rows.SearchSimilar(ctx, userID, vec, k)
}

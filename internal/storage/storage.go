// ABOUTME: Storage facade opening the database and wiring the memory embedder
// ABOUTME: The orchestrator and transports depend on this single handle
package storage

import (
	"fmt"
	"time"

	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/storage/sqlite"
	"go.uber.org/zap"
)

// Storage manages all persistent data for the assistant
type Storage struct {
	*sqlite.Storage
	Memory *MemoryStore
}

// Open initializes storage at dbPath
func Open(dbPath string, sessionTTL time.Duration, embedder llm.Embedder, logger *zap.Logger) (*Storage, error) {
	rows, err := sqlite.NewStorageWithPath(dbPath, sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return wrap(rows, embedder, logger), nil
}

// OpenInMemory creates an in-memory storage (for testing)
func OpenInMemory(embedder llm.Embedder, logger *zap.Logger) (*Storage, error) {
	rows, err := sqlite.NewStorageInMemory()
	if err != nil {
		return nil, err
	}
	return wrap(rows, embedder, logger), nil
}

func wrap(rows *sqlite.Storage, embedder llm.Embedder, logger *zap.Logger) *Storage {
	if embedder == nil {
		embedder = llm.NewHashEmbedder()
	}
	return &Storage{
		Storage: rows,
		Memory:  NewMemoryStore(rows.Memories, embedder, logger),
	}
}

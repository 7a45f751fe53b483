// ABOUTME: Memory item storage with vectors stored as BLOBs
// ABOUTME: Implements per-user cosine similarity search over stored vectors
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/harper/tweak-my-meal/internal/models"
)

// MemoryRowStore handles memory item persistence
type MemoryRowStore struct {
	db *DB
}

// NewMemoryRowStore creates a new MemoryRowStore
func NewMemoryRowStore(db *DB) *MemoryRowStore {
	return &MemoryRowStore{db: db}
}

// Insert saves a memory item. A nil Embedding is stored as NULL and the item
// is skipped by search.
func (s *MemoryRowStore) Insert(ctx context.Context, item *models.MemoryItem) error {
	var blob []byte
	if len(item.Embedding) > 0 {
		blob = vectorToBlob(item.Embedding)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_items (id, user_id, kind, text, salience, source_meal_id, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.UserID, string(item.Kind), item.Text, item.Salience,
		nullString(item.SourceMealID), blob, toUnix(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting memory %s: %w", item.ID, err)
	}
	return nil
}

// ListByUser returns every memory item for a user, oldest first
func (s *MemoryRowStore) ListByUser(ctx context.Context, userID string) ([]models.MemoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, text, salience, source_meal_id, vector, created_at
		FROM memory_items
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []models.MemoryItem{}
	for rows.Next() {
		item, err := scanMemory(rows, userID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SearchSimilar ranks a user's embedded memories by cosine similarity to
// queryVector, highest first, returning at most maxResults
func (s *MemoryRowStore) SearchSimilar(ctx context.Context, userID string, queryVector []float64, maxResults int) ([]models.ScoredMemory, error) {
	results := []models.ScoredMemory{}
	if maxResults <= 0 || len(queryVector) == 0 {
		return results, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, text, salience, source_meal_id, vector, created_at
		FROM memory_items
		WHERE user_id = ? AND vector IS NOT NULL
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		item, err := scanMemory(rows, userID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.ScoredMemory{
			MemoryItem: item,
			Similarity: CosineSimilarity(queryVector, item.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func scanMemory(rows *sql.Rows, userID string) (models.MemoryItem, error) {
	var (
		item      = models.MemoryItem{UserID: userID}
		kind      string
		source    sql.NullString
		blob      []byte
		createdAt int64
	)
	if err := rows.Scan(&item.ID, &kind, &item.Text, &item.Salience, &source, &blob, &createdAt); err != nil {
		return item, err
	}
	item.Kind = models.MemoryKind(kind)
	item.SourceMealID = source.String
	item.CreatedAt = fromUnix(createdAt)
	if len(blob) > 0 {
		item.Embedding = blobToVector(blob)
	}
	return item, nil
}

// vectorToBlob converts a float64 slice to little-endian bytes
func vectorToBlob(vector []float64) []byte {
	buf := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// blobToVector converts little-endian bytes back to a float64 slice
func blobToVector(blob []byte) []float64 {
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// the lengths differ or either is a zero vector
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

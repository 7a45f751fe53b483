// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: One database handle shared by profile, preference, memory, meal, and session stores
package sqlite

import (
	"fmt"
	"time"
)

// Storage bundles every row store over one database
type Storage struct {
	db          *DB
	Profiles    *ProfileStore
	Preferences *PreferenceStore
	Memories    *MemoryRowStore
	Meals       *MealStore
	Sessions    *SessionStore
}

// NewStorageWithPath initializes storage with a database file
func NewStorageWithPath(dbPath string, sessionTTL time.Duration) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db, sessionTTL), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db, DefaultSessionTTL), nil
}

func newStorage(db *DB, sessionTTL time.Duration) *Storage {
	return &Storage{
		db:          db,
		Profiles:    NewProfileStore(db),
		Preferences: NewPreferenceStore(db),
		Memories:    NewMemoryRowStore(db),
		Meals:       NewMealStore(db),
		Sessions:    NewSessionStore(db, sessionTTL),
	}
}

// DB returns the shared database handle
func (s *Storage) DB() *DB {
	return s.db
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

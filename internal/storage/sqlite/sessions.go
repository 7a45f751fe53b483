// ABOUTME: Session state storage with a time-to-live
// ABOUTME: Expired rows read as not found until the sweeper deletes them
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/tweak-my-meal/internal/models"
)

// DefaultSessionTTL is how long a session survives without updates
const DefaultSessionTTL = 24 * time.Hour

// SessionStore handles session state persistence
type SessionStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore creates a SessionStore; a non-positive ttl uses DefaultSessionTTL
func NewSessionStore(db *DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

// SetClock overrides the store's notion of now
func (s *SessionStore) SetClock(now func() time.Time) {
	s.now = now
}

// Get loads a live session, returning ErrNotFound when missing or expired
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM sessions
		WHERE session_id = ? AND expires_at > ?
	`, sessionID, toUnix(s.now())).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	var state models.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Put replaces the session and pushes its expiry out by the ttl
func (s *SessionStore) Put(ctx context.Context, state *models.SessionState) error {
	now := s.now().UTC()
	state.UpdatedAt = now
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", state.SessionID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, state, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			user_id = excluded.user_id,
			state = excluded.state,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at
	`, state.SessionID, state.UserID, string(data), toUnix(now), toUnix(now.Add(s.ttl)))
	if err != nil {
		return fmt.Errorf("saving session %s: %w", state.SessionID, err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and reports how many
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, toUnix(s.now()))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"membership/internal/models"
)

type SessionRepository struct {
	db *sql.DB
	d  dialect
}

func NewSessionRepository(db *sql.DB, d dialect) *SessionRepository {
	return &SessionRepository{db: db, d: d}
}

var _ Sessions = (*SessionRepository)(nil)

// expires_at is stored as unix seconds so range deletes compare integers
// on both drivers.
const (
	insertSessionSQL = `
		INSERT INTO sessions (id, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`
	selectSessionSQL         = `SELECT id, data, expires_at FROM sessions WHERE id = ?`
	deleteSessionSQL         = `DELETE FROM sessions WHERE id = ?`
	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// Save inserts or replaces the session row.
func (r *SessionRepository) Save(ctx context.Context, s models.Session) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("marshal session %q: %w", s.ID, err)
	}
	if _, err := r.db.ExecContext(ctx, r.d.rebind(insertSessionSQL), s.ID, string(data), s.ExpiresAt.Unix()); err != nil {
		return fmt.Errorf("insert session %q: %w", s.ID, err)
	}
	return nil
}

// Get loads a session by id. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		s       models.Session
		data    string
		expires int64
	)
	err := r.db.QueryRowContext(ctx, r.d.rebind(selectSessionSQL), id).Scan(&s.ID, &data, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", id, err)
	}
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	return &s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.d.rebind(deleteSessionSQL), id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

// DeleteExpired removes every session expired at now and returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.d.rebind(deleteExpiredSessionsSQL), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for expired sessions: %w", err)
	}
	return n, nil
}

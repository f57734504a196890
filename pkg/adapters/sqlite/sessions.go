package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// Sessions adapts the Store to ports.SessionStore, keeping each session as a JSON document.
type Sessions struct {
	store *Store
}

// Sessions returns a session store sharing the catalog's database.
func (s *Store) Sessions() *Sessions {
	return &Sessions{store: s}
}

// Save upserts the session document.
func (ss *Sessions) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	_, err = ss.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, sessionID, string(data), formatTime(ss.store.now()))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns domain.ErrSessionNotFound for unknown IDs.
func (ss *Sessions) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var data string
	err := ss.store.db.QueryRowContext(ctx, "SELECT data FROM sessions WHERE id = ?", sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session.
func (ss *Sessions) Delete(ctx context.Context, sessionID string) error {
	if _, err := ss.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns stored session IDs, most recently updated first.
func (ss *Sessions) List(ctx context.Context) ([]string, error) {
	rows, err := ss.store.db.QueryContext(ctx, "SELECT id FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

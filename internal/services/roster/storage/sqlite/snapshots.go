package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// SaveSnapshot archives the frozen roster of an event, replacing any
// earlier archive.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot storage.SnapshotRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	snapshot.EventID = strings.TrimSpace(snapshot.EventID)
	if snapshot.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if len(snapshot.Payload) == 0 {
		return fmt.Errorf("snapshot payload is required")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = s.now()
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR REPLACE INTO roster_snapshots (event_id, checksum, payload, created_at) VALUES (?, ?, ?, ?)`,
		snapshot.EventID, snapshot.Checksum, snapshot.Payload, toMillis(snapshot.CreatedAt),
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads the archived roster of an event.
func (s *Store) GetSnapshot(ctx context.Context, eventID string) (storage.SnapshotRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SnapshotRecord{}, err
	}
	var snapshot storage.SnapshotRecord
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT event_id, checksum, payload, created_at FROM roster_snapshots WHERE event_id = ?`,
		strings.TrimSpace(eventID),
	).Scan(&snapshot.EventID, &snapshot.Checksum, &snapshot.Payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SnapshotRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SnapshotRecord{}, fmt.Errorf("get snapshot: %w", err)
	}
	snapshot.CreatedAt = fromMillis(createdAt)
	return snapshot, nil
}

var _ storage.SnapshotStore = (*Store)(nil)

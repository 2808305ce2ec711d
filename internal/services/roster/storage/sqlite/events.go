package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// CreateEvent inserts a new event record.
func (s *Store) CreateEvent(ctx context.Context, event storage.EventRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	event.ID = strings.TrimSpace(event.ID)
	event.Title = strings.TrimSpace(event.Title)
	if event.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if event.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if event.Status == "" {
		event.Status = storage.EventStatusScheduled
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO events (
	id,
	guild_id,
	title,
	description,
	status,
	area_id,
	created_by,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		event.ID,
		event.GuildID,
		event.Title,
		event.Description,
		string(event.Status),
		event.AreaID,
		event.CreatedBy,
		toMillis(event.CreatedAt),
		toMillis(event.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent loads one event record.
func (s *Store) GetEvent(ctx context.Context, eventID string) (storage.EventRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, guild_id, title, description, status, area_id, created_by, created_at, updated_at
FROM events
WHERE id = ?
`, strings.TrimSpace(eventID))
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EventRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.EventRecord{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents lists events with status, oldest first.
func (s *Store) ListEvents(ctx context.Context, status storage.EventStatus) ([]storage.EventRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, guild_id, title, description, status, area_id, created_by, created_at, updated_at
FROM events
WHERE status = ?
ORDER BY created_at, id
`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []storage.EventRecord
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// SetEventStatus updates the persisted lifecycle label.
func (s *Store) SetEventStatus(ctx context.Context, eventID string, status storage.EventStatus) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toMillis(s.now()), strings.TrimSpace(eventID),
	)
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set event status rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (storage.EventRecord, error) {
	var event storage.EventRecord
	var status string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&event.ID,
		&event.GuildID,
		&event.Title,
		&event.Description,
		&status,
		&event.AreaID,
		&event.CreatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EventRecord{}, err
	}
	event.Status = storage.EventStatus(status)
	event.CreatedAt = fromMillis(createdAt)
	event.UpdatedAt = fromMillis(updatedAt)
	return event, nil
}

var _ storage.EventStore = (*Store)(nil)

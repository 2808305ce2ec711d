package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// CreateArea records a workspace area for eventID and returns its id.
func (s *Store) CreateArea(ctx context.Context, eventID, name string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("area name is required")
	}
	areaID, err := s.newID()
	if err != nil {
		return "", err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO workspace_areas (id, event_id, name, created_at) VALUES (?, ?, ?, ?)`,
		areaID, strings.TrimSpace(eventID), name, toMillis(s.now()),
	); err != nil {
		return "", fmt.Errorf("create area: %w", err)
	}
	return areaID, nil
}

// CreateChannel records a channel inside areaID and returns its id.
func (s *Store) CreateChannel(ctx context.Context, areaID, name string, kind storage.ChannelKind) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM workspace_areas WHERE id = ?`, areaID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("check area: %w", err)
	}
	channelID, err := s.newID()
	if err != nil {
		return "", err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO workspace_channels (id, area_id, name, kind, created_at) VALUES (?, ?, ?, ?, ?)`,
		channelID, areaID, strings.TrimSpace(name), string(kind), toMillis(s.now()),
	); err != nil {
		return "", fmt.Errorf("create channel: %w", err)
	}
	return channelID, nil
}

// ListChannels lists the channels of areaID in creation order. An unknown
// area has no channels.
func (s *Store) ListChannels(ctx context.Context, areaID string) ([]storage.ChannelRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, area_id, name, kind, created_at
FROM workspace_channels
WHERE area_id = ?
ORDER BY created_at, id
`, areaID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []storage.ChannelRecord
	for rows.Next() {
		var channel storage.ChannelRecord
		var kind string
		var createdAt int64
		if err := rows.Scan(&channel.ID, &channel.AreaID, &channel.Name, &kind, &createdAt); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channel.Kind = storage.ChannelKind(kind)
		channel.CreatedAt = fromMillis(createdAt)
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}

// DeleteChannel removes a channel; a missing channel is already deleted.
func (s *Store) DeleteChannel(ctx context.Context, channelID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM workspace_channels WHERE id = ?`, channelID); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// DeleteArea removes an area; a missing area is already deleted.
func (s *Store) DeleteArea(ctx context.Context, areaID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM workspace_areas WHERE id = ?`, areaID); err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	return nil
}

// AreaExists reports whether areaID is still provisioned.
func (s *Store) AreaExists(ctx context.Context, areaID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM workspace_areas WHERE id = ?`, areaID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check area: %w", err)
	}
	return true, nil
}

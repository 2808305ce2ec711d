package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// UpsertSignup writes a signup, replacing any previous row for the same
// event and identity.
func (s *Store) UpsertSignup(ctx context.Context, signup storage.SignupRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	signup.EventID = strings.TrimSpace(signup.EventID)
	signup.Identity = strings.TrimSpace(signup.Identity)
	if signup.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if signup.Identity == "" {
		return fmt.Errorf("identity is required")
	}
	if signup.UpdatedAt.IsZero() {
		signup.UpdatedAt = s.now()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO signups (
	event_id,
	identity,
	signup_kind,
	faction,
	role,
	crew_name,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		signup.EventID,
		signup.Identity,
		signup.Kind,
		signup.Faction,
		signup.Role,
		signup.CrewName,
		toMillis(signup.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert signup: %w", err)
	}
	return nil
}

// ListSignups lists the signups of one event ordered by identity.
func (s *Store) ListSignups(ctx context.Context, eventID string) ([]storage.SignupRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT event_id, identity, signup_kind, faction, role, crew_name, updated_at
FROM signups
WHERE event_id = ?
ORDER BY identity
`, strings.TrimSpace(eventID))
	if err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	defer rows.Close()

	var signups []storage.SignupRecord
	for rows.Next() {
		var signup storage.SignupRecord
		var updatedAt int64
		if err := rows.Scan(
			&signup.EventID,
			&signup.Identity,
			&signup.Kind,
			&signup.Faction,
			&signup.Role,
			&signup.CrewName,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan signup: %w", err)
		}
		signup.UpdatedAt = fromMillis(updatedAt)
		signups = append(signups, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signups: %w", err)
	}
	return signups, nil
}

var _ storage.SignupStore = (*Store)(nil)

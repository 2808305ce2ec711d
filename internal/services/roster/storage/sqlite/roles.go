package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// RoleName returns the role granted for faction in an event titled title.
// Recruits (FactionNone) get the participant role.
func RoleName(title string, faction domain.Faction) string {
	return strings.TrimSpace(title) + " " + faction.Label()
}

// AssignRole grants identity the role of faction for eventID, creating the
// role on first use. Granting a held role succeeds.
func (s *Store) AssignRole(ctx context.Context, identity, eventID string, faction domain.Faction) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	roleName := RoleName(event.Title, faction)
	now := toMillis(s.now())

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign role: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO faction_roles (event_id, role_name, faction, created_at) VALUES (?, ?, ?, ?)`,
		event.ID, roleName, string(faction), now,
	); err != nil {
		return fmt.Errorf("ensure role %s: %w", roleName, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO role_grants (event_id, identity, role_name, granted_at) VALUES (?, ?, ?, ?)`,
		event.ID, strings.TrimSpace(identity), roleName, now,
	); err != nil {
		return fmt.Errorf("grant role %s: %w", roleName, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assign role: %w", err)
	}
	return nil
}

// RevokeAllRoles removes every role identity holds for eventID. Revoking
// absent grants succeeds.
func (s *Store) RevokeAllRoles(ctx context.Context, identity, eventID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM role_grants WHERE event_id = ? AND identity = ?`,
		strings.TrimSpace(eventID), strings.TrimSpace(identity),
	); err != nil {
		return fmt.Errorf("revoke roles: %w", err)
	}
	return nil
}

// DeleteFactionRoles deletes the two faction roles of eventID together with
// their grants. The participant role is kept.
func (s *Store) DeleteFactionRoles(ctx context.Context, eventID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	eventID = strings.TrimSpace(eventID)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete faction roles: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM role_grants
WHERE event_id = ?
  AND role_name IN (SELECT role_name FROM faction_roles WHERE event_id = ? AND faction IN ('A', 'B'))
`, eventID, eventID); err != nil {
		return fmt.Errorf("delete faction role grants: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM faction_roles WHERE event_id = ? AND faction IN ('A', 'B')`, eventID,
	); err != nil {
		return fmt.Errorf("delete faction roles: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete faction roles: %w", err)
	}
	return nil
}

// ListRoleGrants lists the grants of eventID ordered by identity and role.
func (s *Store) ListRoleGrants(ctx context.Context, eventID string) ([]storage.RoleGrantRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT event_id, identity, role_name, granted_at
FROM role_grants
WHERE event_id = ?
ORDER BY identity, role_name
`, strings.TrimSpace(eventID))
	if err != nil {
		return nil, fmt.Errorf("list role grants: %w", err)
	}
	defer rows.Close()

	var grants []storage.RoleGrantRecord
	for rows.Next() {
		var grant storage.RoleGrantRecord
		var grantedAt int64
		if err := rows.Scan(&grant.EventID, &grant.Identity, &grant.RoleName, &grantedAt); err != nil {
			return nil, fmt.Errorf("scan role grant: %w", err)
		}
		grant.GrantedAt = fromMillis(grantedAt)
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role grants: %w", err)
	}
	return grants, nil
}

// ListRoles lists the role names that exist for eventID.
func (s *Store) ListRoles(ctx context.Context, eventID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT role_name FROM faction_roles WHERE event_id = ? ORDER BY role_name`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

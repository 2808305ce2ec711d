package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// SaveCrewProfile inserts or replaces a crew profile. A blank id is
// generated.
func (s *Store) SaveCrewProfile(ctx context.Context, profile storage.CrewProfileRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	profile.CommanderID = strings.TrimSpace(profile.CommanderID)
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.CommanderID == "" {
		return fmt.Errorf("commander id is required")
	}
	if profile.Name == "" {
		return fmt.Errorf("crew name is required")
	}
	if strings.TrimSpace(profile.ID) == "" {
		generated, err := s.newID()
		if err != nil {
			return err
		}
		profile.ID = generated
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO crew_profiles (
	id,
	guild_id,
	name,
	commander_id,
	gunner_id,
	driver_id,
	wins,
	losses,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		profile.ID,
		profile.GuildID,
		profile.Name,
		profile.CommanderID,
		strings.TrimSpace(profile.GunnerID),
		strings.TrimSpace(profile.DriverID),
		profile.Wins,
		profile.Losses,
		toMillis(profile.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save crew profile: %w", err)
	}
	return nil
}

// ListCrewProfiles lists the profiles of guildID that identity belongs to in
// any position. A blank guild matches every guild.
func (s *Store) ListCrewProfiles(ctx context.Context, identity, guildID string) ([]storage.CrewProfileRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	identity = strings.TrimSpace(identity)
	guildID = strings.TrimSpace(guildID)
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, guild_id, name, commander_id, gunner_id, driver_id, wins, losses, created_at
FROM crew_profiles
WHERE (commander_id = ? OR gunner_id = ? OR driver_id = ?)
  AND (? = '' OR guild_id = ?)
ORDER BY created_at, id
`, identity, identity, identity, guildID, guildID)
	if err != nil {
		return nil, fmt.Errorf("list crew profiles: %w", err)
	}
	defer rows.Close()

	var profiles []storage.CrewProfileRecord
	for rows.Next() {
		var profile storage.CrewProfileRecord
		var createdAt int64
		if err := rows.Scan(
			&profile.ID,
			&profile.GuildID,
			&profile.Name,
			&profile.CommanderID,
			&profile.GunnerID,
			&profile.DriverID,
			&profile.Wins,
			&profile.Losses,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan crew profile: %w", err)
		}
		profile.CreatedAt = fromMillis(createdAt)
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crew profiles: %w", err)
	}
	return profiles, nil
}

// GetCrewsForCommander returns snapshots of the profiles identity belongs to.
func (s *Store) GetCrewsForCommander(ctx context.Context, identity, guildID string) ([]domain.CrewProfile, error) {
	records, err := s.ListCrewProfiles(ctx, identity, guildID)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.CrewProfile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, domain.CrewProfile{
			ID:          record.ID,
			Name:        record.Name,
			CommanderID: record.CommanderID,
			GunnerID:    record.GunnerID,
			DriverID:    record.DriverID,
			Wins:        record.Wins,
			Losses:      record.Losses,
		})
	}
	return profiles, nil
}

var _ storage.CrewProfileStore = (*Store)(nil)

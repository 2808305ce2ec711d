package domain

import "strings"

// CrewProfile is a point-in-time copy of a persistent crew profile.
type CrewProfile struct {
	ID          string
	Name        string
	CommanderID string
	GunnerID    string
	DriverID    string
	Wins        int
	Losses      int
}

// Members returns commander, gunner and driver with the self-crew default
// applied.
func (p CrewProfile) Members() (commander, gunner, driver string) {
	commander = strings.TrimSpace(p.CommanderID)
	gunner = strings.TrimSpace(p.GunnerID)
	if gunner == "" {
		gunner = commander
	}
	driver = strings.TrimSpace(p.DriverID)
	if driver == "" {
		driver = commander
	}
	return commander, gunner, driver
}

// JoinWithProfile copies profile into a new crew slot of faction. Every member
// is checked before anything is written; the first conflict, in commander,
// gunner, driver order, is reported. Profile names longer than a crew name
// allows are truncated.
func (s *State) JoinWithProfile(profile CrewProfile, faction Faction) (int, error) {
	commander, gunner, driver := profile.Members()
	if _, err := s.prepareMutation(commander); err != nil {
		return -1, err
	}
	if !faction.Valid() {
		return -1, invalidFaction(string(faction))
	}
	for _, identity := range []string{commander, gunner, driver} {
		if s.IsRegistered(identity) {
			return -1, memberAlreadyRegistered(identity)
		}
	}
	if gunner != commander && gunner == driver {
		return -1, memberAlreadyRegistered(driver)
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = commander + "'s Crew"
	}
	if runes := []rune(name); len(runes) > MaxCrewNameLength {
		name = string(runes[:MaxCrewNameLength])
	}
	return s.Allocate(faction, commander, gunner, driver, name, profile.ID)
}

package domain

import "strings"

// Allocate writes a crew into the lowest-indexed empty slot of faction and
// returns its index. Callers must have checked every member with
// IsRegistered. Empty gunner or driver default to the commander.
func (s *State) Allocate(faction Faction, commander, gunner, driver, name, profileID string) (int, error) {
	if s.Ended() {
		return -1, ErrEventEnded
	}
	t, ok := s.teams[faction]
	if !ok {
		return -1, invalidFaction(string(faction))
	}
	commander = strings.TrimSpace(commander)
	if commander == "" {
		return -1, ErrIdentityRequired
	}
	gunner = strings.TrimSpace(gunner)
	if gunner == "" {
		gunner = commander
	}
	driver = strings.TrimSpace(driver)
	if driver == "" {
		driver = commander
	}
	for index, crew := range t.crews {
		if crew != nil {
			continue
		}
		t.crews[index] = &CrewSlot{
			Commander: commander,
			Name:      name,
			Gunner:    gunner,
			Driver:    driver,
			ProfileID: profileID,
		}
		return index, nil
	}
	return -1, teamFull(faction)
}

// Release clears the slot and returns what it held. It performs no
// authorization.
func (s *State) Release(faction Faction, index int) (*CrewSlot, error) {
	if s.Ended() {
		return nil, ErrEventEnded
	}
	t, ok := s.teams[faction]
	if !ok {
		return nil, invalidFaction(string(faction))
	}
	if index < 0 || index >= len(t.crews) {
		return nil, nil
	}
	released := t.crews[index]
	t.crews[index] = nil
	return released, nil
}

// EditPosition sets the gunner or driver of slot. An empty identity restores
// the self-crewed default. It returns the identity pushed out of the
// roster, if any.
func (s *State) EditPosition(slot *CrewSlot, position Position, identity string) (string, error) {
	if s.Ended() {
		return "", ErrEventEnded
	}
	current, err := positionValue(slot, position)
	if err != nil {
		return "", err
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = slot.Commander
	}
	if identity != slot.Commander && s.IsRegistered(identity) {
		return "", alreadyRegistered(identity)
	}
	*current, identity = identity, *current
	if identity == slot.Commander {
		return "", nil
	}
	return identity, nil
}

func positionValue(slot *CrewSlot, position Position) (*string, error) {
	switch position {
	case PositionGunner:
		return &slot.Gunner, nil
	case PositionDriver:
		return &slot.Driver, nil
	default:
		return nil, invalidPosition(string(position))
	}
}

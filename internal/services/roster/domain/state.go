package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCrewNameLength caps crew display names, in runes.
const MaxCrewNameLength = 30

// CrewSlot is one occupied crew position in a faction's slot array. Gunner
// and Driver hold the commander identity when the position is self-crewed.
type CrewSlot struct {
	Commander string
	Name      string
	Gunner    string
	Driver    string
	ProfileID string
}

// SelfCrewed reports whether position is filled by the crew commander.
func (c *CrewSlot) SelfCrewed(position Position) bool {
	switch position {
	case PositionGunner:
		return c.Gunner == c.Commander
	case PositionDriver:
		return c.Driver == c.Commander
	default:
		return false
	}
}

// Members lists the distinct identities of the crew, commander first.
func (c *CrewSlot) Members() []string {
	members := []string{c.Commander}
	if c.Gunner != c.Commander {
		members = append(members, c.Gunner)
	}
	if c.Driver != c.Commander && c.Driver != c.Gunner {
		members = append(members, c.Driver)
	}
	return members
}

func (c *CrewSlot) holds(identity string) bool {
	return c.Commander == identity || c.Gunner == identity || c.Driver == identity
}

func (c *CrewSlot) position(identity string) Position {
	switch identity {
	case c.Commander:
		return PositionCommander
	case c.Gunner:
		return PositionGunner
	case c.Driver:
		return PositionDriver
	default:
		return PositionNone
	}
}

type team struct {
	commander string
	crews     []*CrewSlot
}

// State is the roster of one event. It is not safe for concurrent use;
// callers serialize access per event.
type State struct {
	eventID  string
	status   Status
	teams    map[Faction]*team
	recruits []string
}

// NewState creates an open, empty roster with maxCrews slots per faction.
func NewState(eventID string, maxCrews int) (*State, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if maxCrews <= 0 {
		return nil, fmt.Errorf("max crews must be positive, got %d", maxCrews)
	}
	s := &State{
		eventID: eventID,
		status:  StatusOpen,
		teams:   make(map[Faction]*team, 2),
	}
	for _, faction := range Factions() {
		s.teams[faction] = &team{crews: make([]*CrewSlot, maxCrews)}
	}
	return s, nil
}

// EventID returns the event the roster belongs to.
func (s *State) EventID() string { return s.eventID }

// Status returns the lifecycle label.
func (s *State) Status() Status { return s.status }

// Ended reports whether the roster is frozen.
func (s *State) Ended() bool { return s.status == StatusEnded }

// MaxCrews returns the per-faction slot count.
func (s *State) MaxCrews() int { return len(s.teams[FactionA].crews) }

// Commander returns the faction commander, or "" when unclaimed.
func (s *State) Commander(faction Faction) string {
	t, ok := s.teams[faction]
	if !ok {
		return ""
	}
	return t.commander
}

// Crew returns the slot at index, or nil when empty or out of range.
func (s *State) Crew(faction Faction, index int) *CrewSlot {
	t, ok := s.teams[faction]
	if !ok || index < 0 || index >= len(t.crews) {
		return nil
	}
	return t.crews[index]
}

// Recruits returns a copy of the recruit pool in arrival order.
func (s *State) Recruits() []string {
	return append([]string(nil), s.recruits...)
}

// ClaimCommander makes identity the faction commander.
func (s *State) ClaimCommander(faction Faction, identity string) error {
	identity, err := s.prepareMutation(identity)
	if err != nil {
		return err
	}
	t, ok := s.teams[faction]
	if !ok {
		return invalidFaction(string(faction))
	}
	if s.IsRegistered(identity) {
		return alreadyRegistered(identity)
	}
	if t.commander != "" {
		return alreadyRegistered(t.commander)
	}
	t.commander = identity
	return nil
}

// CreateCrew registers a new crew after checking every member. Empty gunner
// or driver default to the commander; an empty name defaults to
// "<commander>'s Crew".
func (s *State) CreateCrew(faction Faction, commander, gunner, driver, name string) (int, error) {
	commander, err := s.prepareMutation(commander)
	if err != nil {
		return -1, err
	}
	if !faction.Valid() {
		return -1, invalidFaction(string(faction))
	}
	name, err = NormalizeCrewName(name, commander)
	if err != nil {
		return -1, err
	}
	members := resolveMembers(commander, gunner, driver)
	for i, identity := range members {
		if s.IsRegistered(identity) {
			return -1, alreadyRegistered(identity)
		}
		for _, earlier := range members[:i] {
			if earlier == identity {
				return -1, alreadyRegistered(identity)
			}
		}
	}
	return s.Allocate(faction, commander, gunner, driver, name, "")
}

// RenameCrew replaces the crew display name.
func (s *State) RenameCrew(slot *CrewSlot, name string) error {
	if s.Ended() {
		return ErrEventEnded
	}
	name, err := NormalizeCrewName(name, slot.Commander)
	if err != nil {
		return err
	}
	slot.Name = name
	return nil
}

// End freezes the roster. Ending twice fails with ErrEventEnded.
func (s *State) End() error {
	if s.Ended() {
		return ErrEventEnded
	}
	s.status = StatusEnded
	return nil
}

// NormalizeCrewName trims name and applies the default and length rules.
func NormalizeCrewName(name, commander string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = commander + "'s Crew"
	}
	if utf8.RuneCountInString(name) > MaxCrewNameLength {
		return "", crewNameTooLong()
	}
	return name, nil
}

func (s *State) prepareMutation(identity string) (string, error) {
	if s.Ended() {
		return "", ErrEventEnded
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", ErrIdentityRequired
	}
	return identity, nil
}

// resolveMembers applies the self-crew default and drops repeats of the
// commander, so the result lists identities that still need a guard check.
func resolveMembers(commander, gunner, driver string) []string {
	members := []string{commander}
	for _, member := range []string{strings.TrimSpace(gunner), strings.TrimSpace(driver)} {
		if member != "" && member != commander {
			members = append(members, member)
		}
	}
	return members
}

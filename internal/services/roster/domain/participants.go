package domain

// SignupKind classifies a persisted signup.
type SignupKind string

const (
	SignupKindCrew    SignupKind = "crew"
	SignupKindRecruit SignupKind = "recruit"
)

// Participant is one entry of the final participant list.
type Participant struct {
	Identity string
	Faction  Faction
	Role     Position
	CrewName string
}

// Kind returns how the participant signed up.
func (p Participant) Kind() SignupKind {
	if p.Role == PositionRecruit {
		return SignupKindRecruit
	}
	return SignupKindCrew
}

// Participants lists everyone on the roster: faction commanders, then every
// crew in slot order (self-crewed positions recorded once under the
// commander), then recruits.
func (s *State) Participants() []Participant {
	var out []Participant
	for _, faction := range Factions() {
		if commander := s.teams[faction].commander; commander != "" {
			out = append(out, Participant{Identity: commander, Faction: faction, Role: PositionCommander})
		}
	}
	for _, faction := range Factions() {
		for _, crew := range s.teams[faction].crews {
			if crew == nil {
				continue
			}
			out = append(out, Participant{Identity: crew.Commander, Faction: faction, Role: PositionCommander, CrewName: crew.Name})
			if !crew.SelfCrewed(PositionGunner) {
				out = append(out, Participant{Identity: crew.Gunner, Faction: faction, Role: PositionGunner, CrewName: crew.Name})
			}
			if !crew.SelfCrewed(PositionDriver) {
				out = append(out, Participant{Identity: crew.Driver, Faction: faction, Role: PositionDriver, CrewName: crew.Name})
			}
		}
	}
	for _, recruit := range s.recruits {
		out = append(out, Participant{Identity: recruit, Faction: FactionNone, Role: PositionRecruit})
	}
	return out
}

package domain

// IsRegistered reports whether identity is a faction commander, holds any
// position of any crew slot, or sits in the recruit pool.
func (s *State) IsRegistered(identity string) bool {
	if identity == "" {
		return false
	}
	for _, faction := range Factions() {
		t := s.teams[faction]
		if t.commander == identity {
			return true
		}
		for _, crew := range t.crews {
			if crew != nil && crew.holds(identity) {
				return true
			}
		}
	}
	for _, recruit := range s.recruits {
		if recruit == identity {
			return true
		}
	}
	return false
}

// LocateCommandedCrew finds the crew slot commanded by identity. Gunners and
// drivers never match.
func (s *State) LocateCommandedCrew(identity string) (Faction, int, *CrewSlot, bool) {
	if identity == "" {
		return FactionNone, -1, nil, false
	}
	for _, faction := range Factions() {
		for index, crew := range s.teams[faction].crews {
			if crew != nil && crew.Commander == identity {
				return faction, index, crew, true
			}
		}
	}
	return FactionNone, -1, nil, false
}

// Placement describes where an identity sits in the roster.
type Placement struct {
	Faction  Faction
	Position Position
	// CrewIndex is the slot index, or -1 for faction commanders and recruits.
	CrewIndex int
}

// Locate returns the placement of identity.
func (s *State) Locate(identity string) (Placement, bool) {
	if identity == "" {
		return Placement{}, false
	}
	for _, faction := range Factions() {
		t := s.teams[faction]
		if t.commander == identity {
			return Placement{Faction: faction, Position: PositionCommander, CrewIndex: -1}, true
		}
		for index, crew := range t.crews {
			if crew != nil && crew.holds(identity) {
				return Placement{Faction: faction, Position: crew.position(identity), CrewIndex: index}, true
			}
		}
	}
	for _, recruit := range s.recruits {
		if recruit == identity {
			return Placement{Faction: FactionNone, Position: PositionRecruit, CrewIndex: -1}, true
		}
	}
	return Placement{}, false
}

package domain

// LeaveResult reports what a leave removed.
type LeaveResult struct {
	Removed   bool
	Placement Placement
	// Crew is the released slot when the identity belonged to a crew.
	Crew *CrewSlot
	// Displaced lists every identity no longer on the roster, the leaver first.
	Displaced []string
}

// Leave removes identity from the roster. A crew member leaving releases the
// whole slot, so the other members are displaced too. Leaving while
// unregistered changes nothing and reports Removed false.
func (s *State) Leave(identity string) (LeaveResult, error) {
	if s.Ended() {
		return LeaveResult{}, ErrEventEnded
	}
	placement, ok := s.Locate(identity)
	if !ok {
		return LeaveResult{}, nil
	}
	result := LeaveResult{Removed: true, Placement: placement, Displaced: []string{identity}}
	switch {
	case placement.Position == PositionRecruit:
		if _, err := s.RemoveRecruit(identity); err != nil {
			return LeaveResult{}, err
		}
	case placement.CrewIndex < 0:
		s.teams[placement.Faction].commander = ""
	default:
		crew, err := s.Release(placement.Faction, placement.CrewIndex)
		if err != nil {
			return LeaveResult{}, err
		}
		result.Crew = crew
		for _, member := range crew.Members() {
			if member != identity {
				result.Displaced = append(result.Displaced, member)
			}
		}
	}
	return result, nil
}

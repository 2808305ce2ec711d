package domain

// AddRecruit appends identity to the recruit pool.
func (s *State) AddRecruit(identity string) error {
	identity, err := s.prepareMutation(identity)
	if err != nil {
		return err
	}
	if s.IsRegistered(identity) {
		return alreadyRegistered(identity)
	}
	s.recruits = append(s.recruits, identity)
	return nil
}

// RemoveRecruit drops identity from the pool and reports whether it was there.
func (s *State) RemoveRecruit(identity string) (bool, error) {
	if s.Ended() {
		return false, ErrEventEnded
	}
	for i, recruit := range s.recruits {
		if recruit == identity {
			s.recruits = append(s.recruits[:i], s.recruits[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// AssignRecruitToCrew moves recruit from the pool into position of slot,
// overwriting the previous occupant. Callers check that they act for the
// slot commander. It returns the identity pushed out of the roster, if any.
func (s *State) AssignRecruitToCrew(recruit string, slot *CrewSlot, position Position) (string, error) {
	if s.Ended() {
		return "", ErrEventEnded
	}
	current, err := positionValue(slot, position)
	if err != nil {
		return "", err
	}
	index := -1
	for i, pooled := range s.recruits {
		if pooled == recruit {
			index = i
			break
		}
	}
	if index < 0 {
		return "", recruitNotFound(recruit)
	}
	s.recruits = append(s.recruits[:index], s.recruits[index+1:]...)
	displaced := *current
	*current = recruit
	if displaced == slot.Commander {
		return "", nil
	}
	return displaced, nil
}

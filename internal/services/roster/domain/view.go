package domain

// View is a read-only projection of a roster, safe to hand to renderers and
// to encode.
type View struct {
	EventID  string     `json:"event_id"`
	Status   Status     `json:"status"`
	MaxCrews int        `json:"max_crews"`
	Teams    []TeamView `json:"teams"`
	Recruits []string   `json:"recruits"`
}

// TeamView is the projection of one faction.
type TeamView struct {
	Faction   Faction    `json:"faction"`
	Label     string     `json:"label"`
	Commander string     `json:"commander,omitempty"`
	Crews     []CrewView `json:"crews"`
}

// CrewView is the projection of one occupied slot.
type CrewView struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Commander string `json:"commander"`
	Gunner    string `json:"gunner"`
	Driver    string `json:"driver"`
	ProfileID string `json:"profile_id,omitempty"`
}

// Team returns the projection for faction.
func (v View) Team(faction Faction) (TeamView, bool) {
	for _, team := range v.Teams {
		if team.Faction == faction {
			return team, true
		}
	}
	return TeamView{}, false
}

// Project copies the roster into a View. It never mutates s.
func Project(s *State) View {
	view := View{
		EventID:  s.eventID,
		Status:   s.status,
		MaxCrews: s.MaxCrews(),
		Recruits: s.Recruits(),
	}
	if view.Recruits == nil {
		view.Recruits = []string{}
	}
	for _, faction := range Factions() {
		t := s.teams[faction]
		team := TeamView{Faction: faction, Label: faction.Label(), Commander: t.commander, Crews: []CrewView{}}
		for index, crew := range t.crews {
			if crew == nil {
				continue
			}
			team.Crews = append(team.Crews, CrewView{
				Index:     index,
				Name:      crew.Name,
				Commander: crew.Commander,
				Gunner:    crew.Gunner,
				Driver:    crew.Driver,
				ProfileID: crew.ProfileID,
			})
		}
		view.Teams = append(view.Teams, team)
	}
	return view
}

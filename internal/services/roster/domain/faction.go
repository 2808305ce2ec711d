package domain

import "strings"

// Faction identifies one of the two opposing sides of an event.
type Faction string

const (
	FactionNone Faction = ""
	FactionA    Faction = "A"
	FactionB    Faction = "B"
)

// Factions lists both sides in display order.
func Factions() []Faction {
	return []Faction{FactionA, FactionB}
}

// ParseFaction accepts the side letter or its label.
func ParseFaction(value string) (Faction, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "A", "ALLIES":
		return FactionA, nil
	case "B", "AXIS":
		return FactionB, nil
	default:
		return FactionNone, invalidFaction(value)
	}
}

// Label returns the display name of the faction.
func (f Faction) Label() string {
	switch f {
	case FactionA:
		return "Allies"
	case FactionB:
		return "Axis"
	default:
		return "Participant"
	}
}

// Valid reports whether f is one of the two sides.
func (f Faction) Valid() bool {
	return f == FactionA || f == FactionB
}

// Position is the role an identity holds in the roster.
type Position string

const (
	PositionNone      Position = ""
	PositionCommander Position = "commander"
	PositionGunner    Position = "gunner"
	PositionDriver    Position = "driver"
	PositionRecruit   Position = "recruit"
)

// ParseCrewPosition accepts only the editable crew positions.
func ParseCrewPosition(value string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gunner":
		return PositionGunner, nil
	case "driver":
		return PositionDriver, nil
	default:
		return PositionNone, invalidPosition(value)
	}
}

// Status is the roster lifecycle label.
type Status string

const (
	StatusOpen  Status = "open"
	StatusEnded Status = "ended"
)

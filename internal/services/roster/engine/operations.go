package engine

import (
	"context"
	"strings"

	"github.com/louisbranch/muster/internal/services/roster/domain"
)

// CrewResult identifies the slot a crew was placed in.
type CrewResult struct {
	Faction domain.Faction
	Index   int
}

// CreateCrewRequest describes a crew formed directly.
type CreateCrewRequest struct {
	Faction   domain.Faction
	Commander string
	Gunner    string
	Driver    string
	Name      string
}

// roleChange is one role update issued after an operation commits.
type roleChange struct {
	identity string
	faction  domain.Faction
	revoke   bool
}

func assign(faction domain.Faction, identities ...string) []roleChange {
	changes := make([]roleChange, 0, len(identities))
	for _, identity := range identities {
		changes = append(changes, roleChange{identity: identity, faction: faction})
	}
	return changes
}

func revoke(identities ...string) []roleChange {
	changes := make([]roleChange, 0, len(identities))
	for _, identity := range identities {
		if identity != "" {
			changes = append(changes, roleChange{identity: identity, revoke: true})
		}
	}
	return changes
}

// syncRoles applies role changes outside the roster lock. Failures are
// logged only. Grants are skipped once finalize has started, so none
// outlive the event; revocations always run.
func (e *Engine) syncRoles(ctx context.Context, eventID string, changes []roleChange) {
	room, ok := e.rooms.get(eventID)
	if !ok {
		return
	}
	room.roles.RLock()
	defer room.roles.RUnlock()
	for _, change := range changes {
		if !change.revoke && room.frozen {
			e.logf("skip role for %s in %s: event is finalizing", change.identity, eventID)
			continue
		}
		err := e.call(ctx, func(ctx context.Context) error {
			if change.revoke {
				return e.deps.RoleSync.RevokeAllRoles(ctx, change.identity, eventID)
			}
			return e.deps.RoleSync.AssignRole(ctx, change.identity, eventID, change.faction)
		})
		if err != nil {
			e.logf("sync role for %s in %s: %v", change.identity, eventID, err)
		}
	}
}

// ClaimCommander makes identity the commander of faction.
func (e *Engine) ClaimCommander(ctx context.Context, eventID, identity string, faction domain.Faction) (domain.View, error) {
	identity = strings.TrimSpace(identity)
	view, err := e.mutate(eventID, func(s *domain.State) error {
		return s.ClaimCommander(faction, identity)
	})
	if err != nil {
		return domain.View{}, err
	}
	e.syncRoles(ctx, eventID, assign(faction, identity))
	return view, nil
}

// CreateCrew places a new crew in the lowest free slot of its faction.
func (e *Engine) CreateCrew(ctx context.Context, eventID string, req CreateCrewRequest) (CrewResult, domain.View, error) {
	var members []string
	var index int
	view, err := e.mutate(eventID, func(s *domain.State) error {
		var err error
		index, err = s.CreateCrew(req.Faction, req.Commander, req.Gunner, req.Driver, req.Name)
		if err != nil {
			return err
		}
		members = s.Crew(req.Faction, index).Members()
		return nil
	})
	if err != nil {
		return CrewResult{}, domain.View{}, err
	}
	e.syncRoles(ctx, eventID, assign(req.Faction, members...))
	return CrewResult{Faction: req.Faction, Index: index}, view, nil
}

// JoinRecruits adds identity to the recruit pool.
func (e *Engine) JoinRecruits(ctx context.Context, eventID, identity string) (domain.View, error) {
	identity = strings.TrimSpace(identity)
	view, err := e.mutate(eventID, func(s *domain.State) error {
		return s.AddRecruit(identity)
	})
	if err != nil {
		return domain.View{}, err
	}
	e.syncRoles(ctx, eventID, assign(domain.FactionNone, identity))
	return view, nil
}

// EditCrewPosition sets or clears a position of the crew commanded by
// caller.
func (e *Engine) EditCrewPosition(ctx context.Context, eventID, caller string, position domain.Position, identity string) (domain.View, error) {
	var changes []roleChange
	view, err := e.mutate(eventID, func(s *domain.State) error {
		if s.Ended() {
			return domain.ErrEventEnded
		}
		faction, _, crew, ok := s.LocateCommandedCrew(caller)
		if !ok {
			return domain.ErrNotCommander
		}
		displaced, err := s.EditPosition(crew, position, identity)
		if err != nil {
			return err
		}
		changes = revoke(displaced)
		if placed := strings.TrimSpace(identity); placed != "" && placed != crew.Commander {
			changes = append(changes, assign(faction, placed)...)
		}
		return nil
	})
	if err != nil {
		return domain.View{}, err
	}
	e.syncRoles(ctx, eventID, changes)
	return view, nil
}

// RecruitToCrew moves recruit from the pool into the crew commanded by
// caller.
func (e *Engine) RecruitToCrew(ctx context.Context, eventID, caller, recruit string, position domain.Position) (domain.View, error) {
	recruit = strings.TrimSpace(recruit)
	var changes []roleChange
	view, err := e.mutate(eventID, func(s *domain.State) error {
		if s.Ended() {
			return domain.ErrEventEnded
		}
		faction, _, crew, ok := s.LocateCommandedCrew(caller)
		if !ok {
			return domain.ErrNotCommander
		}
		displaced, err := s.AssignRecruitToCrew(recruit, crew, position)
		if err != nil {
			return err
		}
		changes = append(revoke(displaced, recruit), assign(faction, recruit)...)
		return nil
	})
	if err != nil {
		return domain.View{}, err
	}
	e.syncRoles(ctx, eventID, changes)
	return view, nil
}

// RenameCrew renames the crew commanded by caller.
func (e *Engine) RenameCrew(ctx context.Context, eventID, caller, name string) (domain.View, error) {
	return e.mutate(eventID, func(s *domain.State) error {
		if s.Ended() {
			return domain.ErrEventEnded
		}
		_, _, crew, ok := s.LocateCommandedCrew(caller)
		if !ok {
			return domain.ErrNotCommander
		}
		return s.RenameCrew(crew, name)
	})
}

// JoinWithProfile places the persistent crew profileID, commanded by caller,
// into faction. Profiles are loaded before the roster is locked.
func (e *Engine) JoinWithProfile(ctx context.Context, eventID, caller, profileID string, faction domain.Faction) (CrewResult, domain.View, error) {
	event, err := e.Event(eventID)
	if err != nil {
		return CrewResult{}, domain.View{}, err
	}
	if err := e.ensureOpen(eventID); err != nil {
		return CrewResult{}, domain.View{}, err
	}
	caller = strings.TrimSpace(caller)
	profileID = strings.TrimSpace(profileID)

	var profiles []domain.CrewProfile
	if err := e.call(ctx, func(ctx context.Context) error {
		profiles, err = e.deps.Profiles.GetCrewsForCommander(ctx, caller, event.GuildID)
		return err
	}); err != nil {
		return CrewResult{}, domain.View{}, err
	}
	var profile domain.CrewProfile
	found := false
	for _, candidate := range profiles {
		if candidate.ID == profileID && strings.TrimSpace(candidate.CommanderID) == caller {
			profile, found = candidate, true
			break
		}
	}
	if !found {
		return CrewResult{}, domain.View{}, profileNotFound(profileID)
	}

	var index int
	var members []string
	view, err := e.mutate(eventID, func(s *domain.State) error {
		var err error
		index, err = s.JoinWithProfile(profile, faction)
		if err != nil {
			return err
		}
		members = s.Crew(faction, index).Members()
		return nil
	})
	if err != nil {
		return CrewResult{}, domain.View{}, err
	}
	e.syncRoles(ctx, eventID, assign(faction, members...))
	return CrewResult{Faction: faction, Index: index}, view, nil
}

// Leave removes identity from the roster. When identity belongs to a crew
// the whole crew is released.
func (e *Engine) Leave(ctx context.Context, eventID, identity string) (domain.LeaveResult, domain.View, error) {
	identity = strings.TrimSpace(identity)
	var result domain.LeaveResult
	view, err := e.mutate(eventID, func(s *domain.State) error {
		var err error
		result, err = s.Leave(identity)
		return err
	})
	if err != nil {
		return domain.LeaveResult{}, domain.View{}, err
	}
	if result.Removed {
		e.syncRoles(ctx, eventID, revoke(result.Displaced...))
	}
	return result, view, nil
}

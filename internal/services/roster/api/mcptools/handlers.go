package mcptools

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/muster/internal/platform/errors"
	"github.com/louisbranch/muster/internal/services/roster/authz"
	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/engine"
	"github.com/louisbranch/muster/internal/services/roster/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Roster is the engine surface the tools drive.
type Roster interface {
	Events() []string
	Event(eventID string) (storage.EventRecord, error)
	View(eventID string) (domain.View, error)
	CreateEvent(ctx context.Context, caller engine.Caller, req engine.CreateEventRequest) (storage.EventRecord, domain.View, error)
	ClaimCommander(ctx context.Context, eventID, identity string, faction domain.Faction) (domain.View, error)
	CreateCrew(ctx context.Context, eventID string, req engine.CreateCrewRequest) (engine.CrewResult, domain.View, error)
	JoinRecruits(ctx context.Context, eventID, identity string) (domain.View, error)
	EditCrewPosition(ctx context.Context, eventID, caller string, position domain.Position, identity string) (domain.View, error)
	RecruitToCrew(ctx context.Context, eventID, caller, recruit string, position domain.Position) (domain.View, error)
	RenameCrew(ctx context.Context, eventID, caller, name string) (domain.View, error)
	JoinWithProfile(ctx context.Context, eventID, caller, profileID string, faction domain.Faction) (engine.CrewResult, domain.View, error)
	Leave(ctx context.Context, eventID, identity string) (domain.LeaveResult, domain.View, error)
	EndEvent(ctx context.Context, eventID string, caller engine.Caller) (engine.Summary, error)
}

// ProfileSaver persists reusable crews.
type ProfileSaver interface {
	SaveCrewProfile(ctx context.Context, profile storage.CrewProfileRecord) error
}

type handlers struct {
	roster   Roster
	profiles ProfileSaver
	grants   authz.Config
	render   engine.Renderer
	logf     func(string, ...any)
	newID    func() (string, error)
}

// resolveCaller establishes who is calling. A configured grant verifier
// makes the grant mandatory and the identity fields are ignored.
func (h *handlers) resolveCaller(input CallerInput) (engine.Caller, error) {
	if h.grants.Enabled() {
		claims, err := authz.Validate(input.Grant, h.grants)
		if err != nil {
			return engine.Caller{}, err
		}
		return claims.Caller(), nil
	}
	identity := strings.TrimSpace(input.ID)
	if identity == "" {
		return engine.Caller{}, domain.ErrIdentityRequired
	}
	return engine.Caller{Identity: identity, Capabilities: input.Capabilities}, nil
}

// toolError renders err for the caller. Rejections keep their localized
// message; anything else is logged and reported generically.
func (h *handlers) toolError(tool string, err error, locale string) error {
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		h.logf("%s failed: %v", tool, err)
	}
	return errors.New(apperrors.UserMessage(err, locale))
}

func (h *handlers) rendered(view domain.View) domain.View {
	if h.render != nil {
		h.render.Render(view)
	}
	return view
}

func (h *handlers) eventCreate() mcp.ToolHandlerFor[EventCreateInput, EventCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventCreateInput) (*mcp.CallToolResult, EventCreateResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, EventCreateResult{}, h.toolError("event_create", err, input.Caller.Locale)
		}
		event, view, err := h.roster.CreateEvent(ctx, caller, engine.CreateEventRequest{
			GuildID:     input.GuildID,
			Title:       input.Title,
			Description: input.Description,
		})
		if err != nil {
			return nil, EventCreateResult{}, h.toolError("event_create", err, input.Caller.Locale)
		}
		return nil, EventCreateResult{Event: eventSummary(event), Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) commanderClaim() mcp.ToolHandlerFor[CommanderClaimInput, RosterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommanderClaimInput) (*mcp.CallToolResult, RosterResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, RosterResult{}, h.toolError("commander_claim", err, input.Caller.Locale)
		}
		faction, err := domain.ParseFaction(input.Faction)
		if err != nil {
			return nil, RosterResult{}, h.toolError("commander_claim", err, input.Caller.Locale)
		}
		view, err := h.roster.ClaimCommander(ctx, input.EventID, caller.Identity, faction)
		if err != nil {
			return nil, RosterResult{}, h.toolError("commander_claim", err, input.Caller.Locale)
		}
		return nil, RosterResult{Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) crewCreate() mcp.ToolHandlerFor[CrewCreateInput, CrewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewCreateInput) (*mcp.CallToolResult, CrewResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_create", err, input.Caller.Locale)
		}
		faction, err := domain.ParseFaction(input.Faction)
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_create", err, input.Caller.Locale)
		}
		result, view, err := h.roster.CreateCrew(ctx, input.EventID, engine.CreateCrewRequest{
			Faction:   faction,
			Commander: caller.Identity,
			Gunner:    input.Gunner,
			Driver:    input.Driver,
			Name:      input.Name,
		})
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_create", err, input.Caller.Locale)
		}
		return nil, crewResult(result, h.rendered(view)), nil
	}
}

func (h *handlers) recruitsJoin() mcp.ToolHandlerFor[RecruitsJoinInput, RosterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RecruitsJoinInput) (*mcp.CallToolResult, RosterResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, RosterResult{}, h.toolError("recruits_join", err, input.Caller.Locale)
		}
		view, err := h.roster.JoinRecruits(ctx, input.EventID, caller.Identity)
		if err != nil {
			return nil, RosterResult{}, h.toolError("recruits_join", err, input.Caller.Locale)
		}
		return nil, RosterResult{Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) crewPositionEdit() mcp.ToolHandlerFor[CrewPositionEditInput, RosterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewPositionEditInput) (*mcp.CallToolResult, RosterResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_position_edit", err, input.Caller.Locale)
		}
		position, err := domain.ParseCrewPosition(input.Position)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_position_edit", err, input.Caller.Locale)
		}
		view, err := h.roster.EditCrewPosition(ctx, input.EventID, caller.Identity, position, input.Identity)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_position_edit", err, input.Caller.Locale)
		}
		return nil, RosterResult{Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) crewRecruit() mcp.ToolHandlerFor[CrewRecruitInput, RosterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewRecruitInput) (*mcp.CallToolResult, RosterResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_recruit", err, input.Caller.Locale)
		}
		position, err := domain.ParseCrewPosition(input.Position)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_recruit", err, input.Caller.Locale)
		}
		view, err := h.roster.RecruitToCrew(ctx, input.EventID, caller.Identity, input.Recruit, position)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_recruit", err, input.Caller.Locale)
		}
		return nil, RosterResult{Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) crewRename() mcp.ToolHandlerFor[CrewRenameInput, RosterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewRenameInput) (*mcp.CallToolResult, RosterResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_rename", err, input.Caller.Locale)
		}
		view, err := h.roster.RenameCrew(ctx, input.EventID, caller.Identity, input.Name)
		if err != nil {
			return nil, RosterResult{}, h.toolError("crew_rename", err, input.Caller.Locale)
		}
		return nil, RosterResult{Roster: h.rendered(view)}, nil
	}
}

func (h *handlers) crewJoinProfile() mcp.ToolHandlerFor[CrewJoinProfileInput, CrewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewJoinProfileInput) (*mcp.CallToolResult, CrewResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_join_profile", err, input.Caller.Locale)
		}
		faction, err := domain.ParseFaction(input.Faction)
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_join_profile", err, input.Caller.Locale)
		}
		result, view, err := h.roster.JoinWithProfile(ctx, input.EventID, caller.Identity, input.ProfileID, faction)
		if err != nil {
			return nil, CrewResult{}, h.toolError("crew_join_profile", err, input.Caller.Locale)
		}
		return nil, crewResult(result, h.rendered(view)), nil
	}
}

func (h *handlers) leave() mcp.ToolHandlerFor[LeaveInput, LeaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LeaveInput) (*mcp.CallToolResult, LeaveResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, LeaveResult{}, h.toolError("roster_leave", err, input.Caller.Locale)
		}
		result, view, err := h.roster.Leave(ctx, input.EventID, caller.Identity)
		if err != nil {
			return nil, LeaveResult{}, h.toolError("roster_leave", err, input.Caller.Locale)
		}
		displaced := result.Displaced
		if displaced == nil {
			displaced = []string{}
		}
		if result.Removed {
			view = h.rendered(view)
		}
		return nil, LeaveResult{Removed: result.Removed, Displaced: displaced, Roster: view}, nil
	}
}

func (h *handlers) eventEnd() mcp.ToolHandlerFor[EventEndInput, EventEndResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventEndInput) (*mcp.CallToolResult, EventEndResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, EventEndResult{}, h.toolError("event_end", err, input.Caller.Locale)
		}
		summary, err := h.roster.EndEvent(ctx, input.EventID, caller)
		if err != nil {
			return nil, EventEndResult{}, h.toolError("event_end", err, input.Caller.Locale)
		}
		if view, err := h.roster.View(input.EventID); err == nil {
			h.rendered(view)
		}
		return nil, eventEndResult(summary), nil
	}
}

func (h *handlers) crewProfileSave() mcp.ToolHandlerFor[CrewProfileSaveInput, CrewProfileSaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CrewProfileSaveInput) (*mcp.CallToolResult, CrewProfileSaveResult, error) {
		caller, err := h.resolveCaller(input.Caller)
		if err != nil {
			return nil, CrewProfileSaveResult{}, h.toolError("crew_profile_save", err, input.Caller.Locale)
		}
		name, err := domain.NormalizeCrewName(input.Name, caller.Identity)
		if err != nil {
			return nil, CrewProfileSaveResult{}, h.toolError("crew_profile_save", err, input.Caller.Locale)
		}
		profileID, err := h.newID()
		if err != nil {
			return nil, CrewProfileSaveResult{}, h.toolError("crew_profile_save", err, input.Caller.Locale)
		}
		record := storage.CrewProfileRecord{
			ID:          profileID,
			GuildID:     strings.TrimSpace(input.GuildID),
			Name:        name,
			CommanderID: caller.Identity,
			GunnerID:    strings.TrimSpace(input.Gunner),
			DriverID:    strings.TrimSpace(input.Driver),
		}
		if err := h.profiles.SaveCrewProfile(ctx, record); err != nil {
			return nil, CrewProfileSaveResult{}, h.toolError("crew_profile_save", err, input.Caller.Locale)
		}
		return nil, CrewProfileSaveResult{
			ID:          record.ID,
			Name:        record.Name,
			CommanderID: record.CommanderID,
			GunnerID:    record.GunnerID,
			DriverID:    record.DriverID,
		}, nil
	}
}

func eventSummary(event storage.EventRecord) EventSummary {
	return EventSummary{
		ID:          event.ID,
		GuildID:     event.GuildID,
		Title:       event.Title,
		Description: event.Description,
		Status:      string(event.Status),
		AreaID:      event.AreaID,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func crewResult(result engine.CrewResult, view domain.View) CrewResult {
	return CrewResult{Faction: string(result.Faction), Index: result.Index, Roster: view}
}

func eventEndResult(summary engine.Summary) EventEndResult {
	participants := make([]ParticipantEntry, 0, len(summary.Participants))
	for _, participant := range summary.Participants {
		participants = append(participants, ParticipantEntry{
			Identity: participant.Identity,
			Faction:  string(participant.Faction),
			Role:     string(participant.Role),
			CrewName: participant.CrewName,
		})
	}
	return EventEndResult{
		EventID:               summary.EventID,
		Participants:          participants,
		ParticipantCount:      summary.ParticipantCount(),
		SignupsPersisted:      summary.SignupsPersisted,
		SignupFailures:        summary.SignupFailures,
		StatusWriteFailed:     summary.StatusWriteFailed,
		RolesRevoked:          summary.RolesRevoked,
		RoleRevokeFailures:    summary.RoleRevokeFailures,
		ChannelsDeleted:       summary.ChannelsDeleted,
		ChannelDeleteFailures: summary.ChannelDeleteFailures,
		AreaDeleted:           summary.AreaDeleted,
		FactionRolesDeleted:   summary.FactionRolesDeleted,
		SnapshotChecksum:      summary.SnapshotChecksum,
	}
}

package engine

import (
	"context"

	"github.com/louisbranch/muster/internal/platform/codec"
	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Summary reports the outcome of finalizing an event. Failed external steps
// are tallied here rather than returned as errors.
type Summary struct {
	EventID      string
	Participants []domain.Participant

	SignupsPersisted  int
	SignupFailures    int
	StatusWriteFailed bool

	RolesRevoked       int
	RoleRevokeFailures int

	ChannelsDeleted       int
	ChannelDeleteFailures int
	AreaDeleted           bool

	FactionRolesDeleted bool
	SnapshotArchived    bool
	SnapshotChecksum    string
}

// ParticipantCount is the size of the final participant list.
func (s Summary) ParticipantCount() int {
	return len(s.Participants)
}

// EndEvent finalizes an event: it persists every faction participant,
// revokes their roles, tears down the workspace, deletes the faction roles
// and freezes the roster. The roster stays locked for the whole sequence.
// External steps are best-effort and never roll each other back.
func (e *Engine) EndEvent(ctx context.Context, eventID string, caller Caller) (Summary, error) {
	if !e.IsAdmin(caller) {
		return Summary{}, ErrUnauthorized
	}
	room, ok := e.rooms.get(eventID)
	if !ok {
		return Summary{}, eventNotFound(eventID)
	}

	ctx, span := e.tracer.Start(ctx, "roster.EndEvent", trace.WithAttributes(attribute.String("roster.event_id", eventID)))
	defer span.End()

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.state.Ended() {
		return Summary{}, domain.ErrEventEnded
	}

	// Wait for in-flight role sync so revocation sees every grant.
	room.roles.Lock()
	room.frozen = true
	room.roles.Unlock()

	summary := Summary{EventID: eventID, Participants: room.state.Participants()}
	var placed []domain.Participant
	for _, participant := range summary.Participants {
		if participant.Faction != domain.FactionNone {
			placed = append(placed, participant)
		}
	}

	e.persistSignups(ctx, eventID, placed, &summary)
	e.revokeRoles(ctx, eventID, placed, &summary)
	e.teardownWorkspace(ctx, room.event.AreaID, &summary)
	e.deleteFactionRoles(ctx, eventID, &summary)

	if err := room.state.End(); err != nil {
		return Summary{}, err
	}
	e.archiveSnapshot(ctx, room.state, &summary)

	span.SetAttributes(
		attribute.Int("roster.participants", summary.ParticipantCount()),
		attribute.Int("roster.signups_persisted", summary.SignupsPersisted),
		attribute.Int("roster.roles_revoked", summary.RolesRevoked),
		attribute.Int("roster.channels_deleted", summary.ChannelsDeleted),
	)
	e.logf("event %s ended: %d participants, %d roles revoked, %d channels deleted",
		eventID, summary.ParticipantCount(), summary.RolesRevoked, summary.ChannelsDeleted)
	return summary, nil
}

func (e *Engine) persistSignups(ctx context.Context, eventID string, placed []domain.Participant, summary *Summary) {
	ctx, span := e.tracer.Start(ctx, "roster.finalize.persist")
	defer span.End()

	now := e.now().UTC()
	for _, participant := range placed {
		record := storage.SignupRecord{
			EventID:   eventID,
			Identity:  participant.Identity,
			Kind:      string(participant.Kind()),
			Faction:   string(participant.Faction),
			Role:      string(participant.Role),
			CrewName:  participant.CrewName,
			UpdatedAt: now,
		}
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.deps.Persistence.UpsertSignup(ctx, record)
		}); err != nil {
			summary.SignupFailures++
			e.logf("persist signup %s for %s: %v", participant.Identity, eventID, err)
			continue
		}
		summary.SignupsPersisted++
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.deps.Persistence.SetEventStatus(ctx, eventID, storage.EventStatusCompleted)
	}); err != nil {
		summary.StatusWriteFailed = true
		e.logf("mark %s completed: %v", eventID, err)
		span.RecordError(err)
	}
	span.SetAttributes(
		attribute.Int("roster.signups_persisted", summary.SignupsPersisted),
		attribute.Int("roster.signup_failures", summary.SignupFailures),
	)
	if summary.SignupFailures > 0 || summary.StatusWriteFailed {
		span.SetStatus(codes.Error, "persistence incomplete")
	}
}

func (e *Engine) revokeRoles(ctx context.Context, eventID string, placed []domain.Participant, summary *Summary) {
	ctx, span := e.tracer.Start(ctx, "roster.finalize.revoke_roles")
	defer span.End()

	for _, participant := range placed {
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.deps.RoleSync.RevokeAllRoles(ctx, participant.Identity, eventID)
		}); err != nil {
			summary.RoleRevokeFailures++
			e.logf("revoke roles for %s in %s: %v", participant.Identity, eventID, err)
			continue
		}
		summary.RolesRevoked++
	}
	span.SetAttributes(
		attribute.Int("roster.roles_revoked", summary.RolesRevoked),
		attribute.Int("roster.role_revoke_failures", summary.RoleRevokeFailures),
	)
	if summary.RoleRevokeFailures > 0 {
		span.SetStatus(codes.Error, "role revocation incomplete")
	}
}

func (e *Engine) teardownWorkspace(ctx context.Context, areaID string, summary *Summary) {
	ctx, span := e.tracer.Start(ctx, "roster.finalize.teardown_workspace")
	defer span.End()

	if areaID == "" {
		summary.AreaDeleted = true
		return
	}
	var channels []storage.ChannelRecord
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		channels, err = e.deps.Workspace.ListChannels(ctx, areaID)
		return err
	}); err != nil {
		e.logf("list channels of area %s: %v", areaID, err)
		span.RecordError(err)
	}
	for _, channel := range channels {
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.deps.Workspace.DeleteChannel(ctx, channel.ID)
		}); err != nil {
			summary.ChannelDeleteFailures++
			e.logf("delete channel %s: %v", channel.ID, err)
			continue
		}
		summary.ChannelsDeleted++
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.deps.Workspace.DeleteArea(ctx, areaID)
	}); err != nil {
		e.logf("delete area %s: %v", areaID, err)
		span.RecordError(err)
	} else {
		summary.AreaDeleted = true
	}
	span.SetAttributes(
		attribute.Int("roster.channels_deleted", summary.ChannelsDeleted),
		attribute.Bool("roster.area_deleted", summary.AreaDeleted),
	)
}

func (e *Engine) deleteFactionRoles(ctx context.Context, eventID string, summary *Summary) {
	ctx, span := e.tracer.Start(ctx, "roster.finalize.delete_faction_roles")
	defer span.End()

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.deps.RoleSync.DeleteFactionRoles(ctx, eventID)
	}); err != nil {
		e.logf("delete faction roles for %s: %v", eventID, err)
		span.RecordError(err)
		return
	}
	summary.FactionRolesDeleted = true
}

func (e *Engine) archiveSnapshot(ctx context.Context, state *domain.State, summary *Summary) {
	if e.deps.Archive == nil {
		return
	}
	ctx, span := e.tracer.Start(ctx, "roster.finalize.archive")
	defer span.End()

	payload, err := codec.Marshal(domain.Project(state))
	if err != nil {
		e.logf("encode snapshot for %s: %v", state.EventID(), err)
		span.RecordError(err)
		return
	}
	record := storage.SnapshotRecord{
		EventID:   state.EventID(),
		Checksum:  codec.Checksum(payload),
		Payload:   payload,
		CreatedAt: e.now().UTC(),
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.deps.Archive.SaveSnapshot(ctx, record)
	}); err != nil {
		e.logf("archive snapshot for %s: %v", state.EventID(), err)
		span.RecordError(err)
		return
	}
	summary.SnapshotArchived = true
	summary.SnapshotChecksum = record.Checksum
}

package engine

import (
	"context"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// Persistence stores event records and finalized signups.
type Persistence interface {
	CreateEvent(ctx context.Context, event storage.EventRecord) error
	UpsertSignup(ctx context.Context, signup storage.SignupRecord) error
	SetEventStatus(ctx context.Context, eventID string, status storage.EventStatus) error
}

// EventLister lists persisted events so open rosters survive a restart.
type EventLister interface {
	ListEvents(ctx context.Context, status storage.EventStatus) ([]storage.EventRecord, error)
}

// RoleSync manages the external role grants of an event. Every method is
// idempotent: granting a held role or revoking an absent one succeeds.
type RoleSync interface {
	AssignRole(ctx context.Context, identity, eventID string, faction domain.Faction) error
	RevokeAllRoles(ctx context.Context, identity, eventID string) error
	DeleteFactionRoles(ctx context.Context, eventID string) error
}

// Workspace provisions and tears down the channels of an event. Deletes
// tolerate missing targets.
type Workspace interface {
	CreateArea(ctx context.Context, eventID, name string) (string, error)
	CreateChannel(ctx context.Context, areaID, name string, kind storage.ChannelKind) (string, error)
	ListChannels(ctx context.Context, areaID string) ([]storage.ChannelRecord, error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteArea(ctx context.Context, areaID string) error
}

// ProfileStore reads persistent crew profiles.
type ProfileStore interface {
	GetCrewsForCommander(ctx context.Context, identity, guildID string) ([]domain.CrewProfile, error)
}

// SnapshotArchive stores the encoded frozen roster of a finished event.
type SnapshotArchive interface {
	SaveSnapshot(ctx context.Context, snapshot storage.SnapshotRecord) error
}

// Renderer displays a roster. Callers invoke it after successful operations;
// the engine never does.
type Renderer interface {
	Render(view domain.View)
}

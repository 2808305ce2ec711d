// Package storage defines persistence contracts for roster service state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested roster record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// EventStatus is the persisted event lifecycle label.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "Scheduled"
	EventStatusCompleted EventStatus = "Completed"
)

// EventRecord stores one event and the workspace area provisioned for it.
type EventRecord struct {
	ID          string
	GuildID     string
	Title       string
	Description string
	Status      EventStatus
	AreaID      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventStore persists event records.
type EventStore interface {
	CreateEvent(ctx context.Context, event EventRecord) error
	GetEvent(ctx context.Context, eventID string) (EventRecord, error)
	ListEvents(ctx context.Context, status EventStatus) ([]EventRecord, error)
	SetEventStatus(ctx context.Context, eventID string, status EventStatus) error
}

// SignupRecord stores one finalized participant, keyed by event and identity.
type SignupRecord struct {
	EventID   string
	Identity  string
	Kind      string
	Faction   string
	Role      string
	CrewName  string
	UpdatedAt time.Time
}

// SignupStore persists finalized signups with replace-on-conflict semantics.
type SignupStore interface {
	UpsertSignup(ctx context.Context, signup SignupRecord) error
	ListSignups(ctx context.Context, eventID string) ([]SignupRecord, error)
}

// CrewProfileRecord stores one reusable crew definition.
type CrewProfileRecord struct {
	ID          string
	GuildID     string
	Name        string
	CommanderID string
	GunnerID    string
	DriverID    string
	Wins        int
	Losses      int
	CreatedAt   time.Time
}

// CrewProfileStore persists reusable crew profiles.
type CrewProfileStore interface {
	SaveCrewProfile(ctx context.Context, profile CrewProfileRecord) error
	ListCrewProfiles(ctx context.Context, identity, guildID string) ([]CrewProfileRecord, error)
}

// RoleGrantRecord stores one role held by an identity for an event.
type RoleGrantRecord struct {
	EventID   string
	Identity  string
	RoleName  string
	GrantedAt time.Time
}

// ChannelKind distinguishes provisioned channels.
type ChannelKind string

const (
	ChannelKindText  ChannelKind = "text"
	ChannelKindVoice ChannelKind = "voice"
)

// ChannelRecord stores one channel inside a workspace area.
type ChannelRecord struct {
	ID        string
	AreaID    string
	Name      string
	Kind      ChannelKind
	CreatedAt time.Time
}

// SnapshotRecord stores the encoded frozen roster of a finished event.
type SnapshotRecord struct {
	EventID   string
	Checksum  string
	Payload   []byte
	CreatedAt time.Time
}

// SnapshotStore archives frozen rosters.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot SnapshotRecord) error
	GetSnapshot(ctx context.Context, eventID string) (SnapshotRecord, error)
}

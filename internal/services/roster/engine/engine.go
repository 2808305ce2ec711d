// Package engine coordinates event rosters: it serializes every mutation of
// one event, routes it to the roster domain, and syncs roles afterwards.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/muster/internal/platform/id"
	platformotel "github.com/louisbranch/muster/internal/platform/otel"
	"github.com/louisbranch/muster/internal/platform/timeouts"
	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
	"go.opentelemetry.io/otel/trace"
)

const defaultMaxCrews = 6

// Config holds the read-only engine parameters.
type Config struct {
	// MaxCrews is the number of crew slots per faction.
	MaxCrews int
	// AdminCapabilities names the capabilities that may create and end events.
	AdminCapabilities []string
	// CallTimeout bounds each external call.
	CallTimeout time.Duration
}

// Deps are the collaborators the engine calls. Archive is optional.
type Deps struct {
	Persistence Persistence
	RoleSync    RoleSync
	Workspace   Workspace
	Profiles    ProfileStore
	Archive     SnapshotArchive
	Logf        func(string, ...any)
}

// Caller is the authenticated actor of an operation.
type Caller struct {
	Identity     string
	Capabilities []string
}

// Engine owns every open roster.
type Engine struct {
	cfg    Config
	deps   Deps
	rooms  *registry
	logf   func(string, ...any)
	tracer trace.Tracer
	now    func() time.Time
	newID  func() (string, error)
}

// New builds an engine.
func New(cfg Config, deps Deps) (*Engine, error) {
	if deps.Persistence == nil {
		return nil, fmt.Errorf("persistence is required")
	}
	if deps.RoleSync == nil {
		return nil, fmt.Errorf("role sync is required")
	}
	if deps.Workspace == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if deps.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if cfg.MaxCrews <= 0 {
		cfg.MaxCrews = defaultMaxCrews
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = timeouts.ExternalCall
	}
	logf := deps.Logf
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{
		cfg:    cfg,
		deps:   deps,
		rooms:  newRegistry(),
		logf:   logf,
		tracer: platformotel.Tracer("roster"),
		now:    time.Now,
		newID:  id.NewID,
	}, nil
}

// IsAdmin reports whether caller holds one of the administrative
// capabilities. Names match case-insensitively.
func (e *Engine) IsAdmin(caller Caller) bool {
	for _, held := range caller.Capabilities {
		for _, admin := range e.cfg.AdminCapabilities {
			if strings.EqualFold(strings.TrimSpace(held), strings.TrimSpace(admin)) {
				return true
			}
		}
	}
	return false
}

// Events lists the ids of every roster the engine holds.
func (e *Engine) Events() []string {
	return e.rooms.ids()
}

// CreateEventRequest describes a new event.
type CreateEventRequest struct {
	GuildID     string
	Title       string
	Description string
}

// CreateEvent persists a new event, provisions its workspace and opens an
// empty roster. Provisioning is best-effort.
func (e *Engine) CreateEvent(ctx context.Context, caller Caller, req CreateEventRequest) (storage.EventRecord, domain.View, error) {
	if !e.IsAdmin(caller) {
		return storage.EventRecord{}, domain.View{}, ErrUnauthorized
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return storage.EventRecord{}, domain.View{}, ErrEventTitleMissing
	}
	eventID, err := e.newID()
	if err != nil {
		return storage.EventRecord{}, domain.View{}, err
	}
	now := e.now().UTC()
	event := storage.EventRecord{
		ID:          eventID,
		GuildID:     strings.TrimSpace(req.GuildID),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      storage.EventStatusScheduled,
		CreatedBy:   caller.Identity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	event.AreaID = e.provisionWorkspace(ctx, event)

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.deps.Persistence.CreateEvent(ctx, event)
	}); err != nil {
		return storage.EventRecord{}, domain.View{}, fmt.Errorf("persist event: %w", err)
	}
	state, err := domain.NewState(event.ID, e.cfg.MaxCrews)
	if err != nil {
		return storage.EventRecord{}, domain.View{}, err
	}
	e.rooms.add(event, state)
	return event, domain.Project(state), nil
}

func (e *Engine) provisionWorkspace(ctx context.Context, event storage.EventRecord) string {
	var areaID string
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		areaID, err = e.deps.Workspace.CreateArea(ctx, event.ID, event.Title)
		return err
	}); err != nil {
		e.logf("provision area for %s: %v", event.ID, err)
		return ""
	}
	channels := []struct {
		name string
		kind storage.ChannelKind
	}{
		{channelSlug(event.Title), storage.ChannelKindText},
		{domain.FactionA.Label(), storage.ChannelKindVoice},
		{domain.FactionB.Label(), storage.ChannelKindVoice},
	}
	for _, channel := range channels {
		if err := e.call(ctx, func(ctx context.Context) error {
			_, err := e.deps.Workspace.CreateChannel(ctx, areaID, channel.name, channel.kind)
			return err
		}); err != nil {
			e.logf("provision channel %s for %s: %v", channel.name, event.ID, err)
		}
	}
	return areaID
}

func channelSlug(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// Restore opens an empty roster for every scheduled event not already held,
// returning how many were opened.
func (e *Engine) Restore(ctx context.Context, lister EventLister) (int, error) {
	events, err := lister.ListEvents(ctx, storage.EventStatusScheduled)
	if err != nil {
		return 0, fmt.Errorf("list scheduled events: %w", err)
	}
	restored := 0
	for _, event := range events {
		state, err := domain.NewState(event.ID, e.cfg.MaxCrews)
		if err != nil {
			return restored, err
		}
		if e.rooms.add(event, state) {
			restored++
		}
	}
	return restored, nil
}

// Event returns the record of an open roster.
func (e *Engine) Event(eventID string) (storage.EventRecord, error) {
	room, ok := e.rooms.get(eventID)
	if !ok {
		return storage.EventRecord{}, eventNotFound(eventID)
	}
	return room.event, nil
}

// View returns the current projection of an event roster.
func (e *Engine) View(eventID string) (domain.View, error) {
	room, ok := e.rooms.get(eventID)
	if !ok {
		return domain.View{}, eventNotFound(eventID)
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return domain.Project(room.state), nil
}

// ensureOpen fails with ErrEventEnded once the roster is frozen.
func (e *Engine) ensureOpen(eventID string) error {
	_, err := e.mutate(eventID, func(s *domain.State) error {
		if s.Ended() {
			return domain.ErrEventEnded
		}
		return nil
	})
	return err
}

// mutate runs fn as the single critical section of one operation and
// returns the projection it produced.
func (e *Engine) mutate(eventID string, fn func(*domain.State) error) (domain.View, error) {
	room, ok := e.rooms.get(eventID)
	if !ok {
		return domain.View{}, eventNotFound(eventID)
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if err := fn(room.state); err != nil {
		return domain.View{}, err
	}
	return domain.Project(room.state), nil
}

// call runs fn under the per-call timeout. Caller cancellation does not
// abort the call.
func (e *Engine) call(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.CallTimeout)
	defer cancel()
	return fn(callCtx)
}

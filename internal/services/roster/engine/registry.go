package engine

import (
	"sort"
	"sync"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// room serializes every operation on one event's roster.
type room struct {
	mu    sync.Mutex
	event storage.EventRecord
	state *domain.State

	// roles is held shared by post-commit role sync and exclusively by
	// finalize, which sets frozen before revoking. Lock order is mu, roles.
	roles  sync.RWMutex
	frozen bool
}

// registry maps event ids to rooms. Its lock guards only the map.
type registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func newRegistry() *registry {
	return &registry{rooms: make(map[string]*room)}
}

// add registers a room for event unless one exists.
func (r *registry) add(event storage.EventRecord, state *domain.State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[event.ID]; ok {
		return false
	}
	r.rooms[event.ID] = &room{event: event, state: state}
	return true
}

func (r *registry) get(eventID string) (*room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[eventID]
	return room, ok
}

func (r *registry) ids() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	return ids
}

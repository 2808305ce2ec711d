package rosterfakes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/louisbranch/muster/internal/services/roster/storage"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// Persistence is an in-memory Persistence and EventLister fake.
type Persistence struct {
	mu          sync.Mutex
	Events      map[string]storage.EventRecord
	Signups     map[string]storage.SignupRecord
	FailSignups map[string]bool
	FailStatus  bool
	FailCreate  bool
}

// NewPersistence constructs a Persistence fake with initialized maps.
func NewPersistence() *Persistence {
	return &Persistence{
		Events:      make(map[string]storage.EventRecord),
		Signups:     make(map[string]storage.SignupRecord),
		FailSignups: make(map[string]bool),
	}
}

func (p *Persistence) CreateEvent(_ context.Context, event storage.EventRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailCreate {
		return ErrInjected
	}
	if _, ok := p.Events[event.ID]; ok {
		return storage.ErrAlreadyExists
	}
	p.Events[event.ID] = event
	return nil
}

func (p *Persistence) UpsertSignup(_ context.Context, signup storage.SignupRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailSignups[signup.Identity] {
		return ErrInjected
	}
	p.Signups[signup.EventID+":"+signup.Identity] = signup
	return nil
}

func (p *Persistence) SetEventStatus(_ context.Context, eventID string, status storage.EventStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailStatus {
		return ErrInjected
	}
	event, ok := p.Events[eventID]
	if !ok {
		return storage.ErrNotFound
	}
	event.Status = status
	p.Events[eventID] = event
	return nil
}

func (p *Persistence) ListEvents(_ context.Context, status storage.EventStatus) ([]storage.EventRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var events []storage.EventRecord
	for _, event := range p.Events {
		if event.Status == status {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

// SignupsFor returns the signups of eventID sorted by identity.
func (p *Persistence) SignupsFor(eventID string) []storage.SignupRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	var signups []storage.SignupRecord
	for _, signup := range p.Signups {
		if signup.EventID == eventID {
			signups = append(signups, signup)
		}
	}
	sort.Slice(signups, func(i, j int) bool { return signups[i].Identity < signups[j].Identity })
	return signups
}

// Event returns the stored record of eventID.
func (p *Persistence) Event(eventID string) (storage.EventRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	event, ok := p.Events[eventID]
	return event, ok
}

// RoleSync is an in-memory RoleSync fake tracking the faction each identity
// holds per event.
type RoleSync struct {
	mu                 sync.Mutex
	Grants             map[string]domain.Faction
	Revoked            []string
	FactionRolesDelete []string
	FailRevoke         map[string]bool
	FailAssign         map[string]bool
	FailDeleteRoles    bool

	// BeforeAssign and BeforeRevoke run outside the fake's lock before each
	// call; a non-nil error is returned as the call result.
	BeforeAssign func(ctx context.Context, identity string) error
	BeforeRevoke func(ctx context.Context, identity string) error
}

// NewRoleSync constructs a RoleSync fake with initialized maps.
func NewRoleSync() *RoleSync {
	return &RoleSync{
		Grants:     make(map[string]domain.Faction),
		FailRevoke: make(map[string]bool),
		FailAssign: make(map[string]bool),
	}
}

func (r *RoleSync) AssignRole(ctx context.Context, identity, eventID string, faction domain.Faction) error {
	if r.BeforeAssign != nil {
		if err := r.BeforeAssign(ctx, identity); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAssign[identity] {
		return ErrInjected
	}
	r.Grants[eventID+":"+identity] = faction
	return nil
}

func (r *RoleSync) RevokeAllRoles(ctx context.Context, identity, eventID string) error {
	if r.BeforeRevoke != nil {
		if err := r.BeforeRevoke(ctx, identity); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailRevoke[identity] {
		return ErrInjected
	}
	delete(r.Grants, eventID+":"+identity)
	r.Revoked = append(r.Revoked, identity)
	return nil
}

func (r *RoleSync) DeleteFactionRoles(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailDeleteRoles {
		return ErrInjected
	}
	r.FactionRolesDelete = append(r.FactionRolesDelete, eventID)
	return nil
}

// Grant returns the faction identity holds for eventID.
func (r *RoleSync) Grant(eventID, identity string) (domain.Faction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	faction, ok := r.Grants[eventID+":"+identity]
	return faction, ok
}

// Workspace is an in-memory Workspace fake.
type Workspace struct {
	mu           sync.Mutex
	Areas        map[string]string
	Channels     map[string]storage.ChannelRecord
	FailCreate   bool
	FailDelete   map[string]bool
	FailList     bool
	nextID       int
	DeletedAreas []string

	// Deleted records every deleted channel and area id in call order.
	Deleted []string
}

// NewWorkspace constructs a Workspace fake with initialized maps.
func NewWorkspace() *Workspace {
	return &Workspace{
		Areas:      make(map[string]string),
		Channels:   make(map[string]storage.ChannelRecord),
		FailDelete: make(map[string]bool),
	}
}

func (w *Workspace) CreateArea(_ context.Context, eventID, name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailCreate {
		return "", ErrInjected
	}
	w.nextID++
	areaID := fmt.Sprintf("area-%d", w.nextID)
	w.Areas[areaID] = name
	return areaID, nil
}

func (w *Workspace) CreateChannel(_ context.Context, areaID, name string, kind storage.ChannelKind) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.Areas[areaID]; !ok {
		return "", storage.ErrNotFound
	}
	w.nextID++
	channelID := fmt.Sprintf("chan-%03d", w.nextID)
	w.Channels[channelID] = storage.ChannelRecord{ID: channelID, AreaID: areaID, Name: name, Kind: kind}
	return channelID, nil
}

func (w *Workspace) ListChannels(_ context.Context, areaID string) ([]storage.ChannelRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailList {
		return nil, ErrInjected
	}
	var channels []storage.ChannelRecord
	for _, channel := range w.Channels {
		if channel.AreaID == areaID {
			channels = append(channels, channel)
		}
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	return channels, nil
}

func (w *Workspace) DeleteChannel(_ context.Context, channelID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailDelete[channelID] {
		return ErrInjected
	}
	delete(w.Channels, channelID)
	w.Deleted = append(w.Deleted, channelID)
	return nil
}

func (w *Workspace) DeleteArea(_ context.Context, areaID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailDelete[areaID] {
		return ErrInjected
	}
	delete(w.Areas, areaID)
	w.DeletedAreas = append(w.DeletedAreas, areaID)
	w.Deleted = append(w.Deleted, areaID)
	return nil
}

// ChannelNames lists the channel names of areaID in creation order.
func (w *Workspace) ChannelNames(areaID string) []string {
	channels, _ := w.ListChannels(context.Background(), areaID)
	names := make([]string, 0, len(channels))
	for _, channel := range channels {
		names = append(names, channel.Name)
	}
	return names
}

// ProfileStore is an in-memory ProfileStore fake.
type ProfileStore struct {
	mu       sync.Mutex
	Profiles []domain.CrewProfile
	Err      error
	Calls    int
}

func (p *ProfileStore) GetCrewsForCommander(_ context.Context, identity, _ string) ([]domain.CrewProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	var out []domain.CrewProfile
	for _, profile := range p.Profiles {
		if profile.CommanderID == identity || profile.GunnerID == identity || profile.DriverID == identity {
			out = append(out, profile)
		}
	}
	return out, nil
}

// Archive is an in-memory SnapshotArchive fake.
type Archive struct {
	mu        sync.Mutex
	Snapshots map[string]storage.SnapshotRecord
	Fail      bool
}

// NewArchive constructs an Archive fake.
func NewArchive() *Archive {
	return &Archive{Snapshots: make(map[string]storage.SnapshotRecord)}
}

func (a *Archive) SaveSnapshot(_ context.Context, snapshot storage.SnapshotRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail {
		return ErrInjected
	}
	a.Snapshots[snapshot.EventID] = snapshot
	return nil
}

// Snapshot returns the archived snapshot of eventID.
func (a *Archive) Snapshot(eventID string) (storage.SnapshotRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot, ok := a.Snapshots[eventID]
	return snapshot, ok
}

package domain

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/muster/internal/platform/errors"
)

func newTestState(t *testing.T, maxCrews int) *State {
	t.Helper()
	s, err := NewState("evt-1", maxCrews)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return s
}

func TestNewStateValidation(t *testing.T) {
	if _, err := NewState(" ", 3); err == nil {
		t.Fatal("expected error for blank event id")
	}
	if _, err := NewState("evt", 0); err == nil {
		t.Fatal("expected error for zero max crews")
	}
	s := newTestState(t, 4)
	if s.Status() != StatusOpen || s.MaxCrews() != 4 {
		t.Fatalf("state = %s/%d, want open/4", s.Status(), s.MaxCrews())
	}
}

func TestClaimCommander(t *testing.T) {
	s := newTestState(t, 3)
	if err := s.ClaimCommander(FactionA, "alice"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got := s.Commander(FactionA); got != "alice" {
		t.Fatalf("commander A = %q, want alice", got)
	}
	if err := s.ClaimCommander(FactionB, "alice"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second claim err = %v, want ErrAlreadyRegistered", err)
	}
	if err := s.ClaimCommander(FactionA, "bob"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("taken slot err = %v, want ErrAlreadyRegistered", err)
	}
	if err := s.ClaimCommander(Faction("C"), "carol"); !errors.Is(err, ErrInvalidFaction) {
		t.Fatalf("bad faction err = %v, want ErrInvalidFaction", err)
	}
	if err := s.ClaimCommander(FactionB, "  "); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("blank identity err = %v, want ErrIdentityRequired", err)
	}
}

func TestRecruitThenCommanderIsRejected(t *testing.T) {
	s := newTestState(t, 3)
	if err := s.AddRecruit("x"); err != nil {
		t.Fatalf("add recruit: %v", err)
	}
	err := s.ClaimCommander(FactionA, "x")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("claim err = %v, want ErrAlreadyRegistered", err)
	}
	if got := s.Recruits(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("recruits = %v, want [x]", got)
	}
	if s.Commander(FactionA) != "" {
		t.Fatal("expected commander slot to stay empty")
	}
}

func TestCreateCrewDefaults(t *testing.T) {
	s := newTestState(t, 3)
	index, err := s.CreateCrew(FactionA, "cmd", "", "", "")
	if err != nil {
		t.Fatalf("create crew: %v", err)
	}
	crew := s.Crew(FactionA, index)
	if crew.Gunner != "cmd" || crew.Driver != "cmd" {
		t.Fatalf("crew = %+v, want self-crewed", crew)
	}
	if crew.Name != "cmd's Crew" {
		t.Fatalf("name = %q, want default", crew.Name)
	}
	if !crew.SelfCrewed(PositionGunner) || !crew.SelfCrewed(PositionDriver) {
		t.Fatal("expected both positions self-crewed")
	}
	if got := crew.Members(); len(got) != 1 {
		t.Fatalf("members = %v, want commander only", got)
	}
}

func TestCreateCrewRejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*State)
		faction Faction
		members [3]string
		crew    string
		want    error
	}{
		{
			name:    "gunner already recruit",
			setup:   func(s *State) { _ = s.AddRecruit("g") },
			faction: FactionA,
			members: [3]string{"c", "g", ""},
			want:    ErrAlreadyRegistered,
		},
		{
			name:    "same gunner and driver",
			faction: FactionA,
			members: [3]string{"c", "x", "x"},
			want:    ErrAlreadyRegistered,
		},
		{
			name:    "name too long",
			faction: FactionB,
			members: [3]string{"c", "", ""},
			crew:    strings.Repeat("n", MaxCrewNameLength+1),
			want:    ErrCrewNameInvalid,
		},
		{
			name:    "no faction",
			faction: FactionNone,
			members: [3]string{"c", "", ""},
			want:    ErrInvalidFaction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t, 3)
			if tt.setup != nil {
				tt.setup(s)
			}
			before := Project(s)
			_, err := s.CreateCrew(tt.faction, tt.members[0], tt.members[1], tt.members[2], tt.crew)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			assertViewsEqual(t, before, Project(s))
		})
	}
}

func TestCrewNameLimitCountsRunes(t *testing.T) {
	name := strings.Repeat("é", MaxCrewNameLength)
	if _, err := NormalizeCrewName(name, "c"); err != nil {
		t.Fatalf("normalize %d runes: %v", MaxCrewNameLength, err)
	}
}

func TestRenameCrew(t *testing.T) {
	s := newTestState(t, 3)
	index, _ := s.CreateCrew(FactionA, "c", "", "", "First")
	crew := s.Crew(FactionA, index)
	if err := s.RenameCrew(crew, "  Second  "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if crew.Name != "Second" {
		t.Fatalf("name = %q, want Second", crew.Name)
	}
	if err := s.RenameCrew(crew, ""); err != nil || crew.Name != "c's Crew" {
		t.Fatalf("rename blank = %q, %v; want default", crew.Name, err)
	}
}

func TestFinalizeFreeze(t *testing.T) {
	s := newTestState(t, 3)
	_ = s.ClaimCommander(FactionA, "ca")
	index, _ := s.CreateCrew(FactionB, "c", "g", "d", "Tigers")
	_ = s.AddRecruit("r")

	if err := s.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	frozen := Project(s)
	crew := s.Crew(FactionB, index)

	mutations := map[string]func() error{
		"claim":   func() error { return s.ClaimCommander(FactionB, "z") },
		"crew":    func() error { _, err := s.CreateCrew(FactionA, "z", "", "", ""); return err },
		"recruit": func() error { return s.AddRecruit("z") },
		"remove":  func() error { _, err := s.RemoveRecruit("r"); return err },
		"assign":  func() error { _, err := s.AssignRecruitToCrew("r", crew, PositionGunner); return err },
		"edit":    func() error { _, err := s.EditPosition(crew, PositionDriver, ""); return err },
		"rename":  func() error { return s.RenameCrew(crew, "x") },
		"release": func() error { _, err := s.Release(FactionB, index); return err },
		"profile": func() error {
			_, err := s.JoinWithProfile(CrewProfile{ID: "p", CommanderID: "z"}, FactionA)
			return err
		},
		"leave": func() error { _, err := s.Leave("ca"); return err },
		"end":   s.End,
	}
	for name, mutate := range mutations {
		if err := mutate(); !errors.Is(err, ErrEventEnded) {
			t.Errorf("%s err = %v, want ErrEventEnded", name, err)
		}
	}
	assertViewsEqual(t, frozen, Project(s))
}

func assertViewsEqual(t *testing.T, want, got View) {
	t.Helper()
	if want.EventID != got.EventID || want.Status != got.Status || want.MaxCrews != got.MaxCrews {
		t.Fatalf("view header = %+v, want %+v", got, want)
	}
	if strings.Join(want.Recruits, ",") != strings.Join(got.Recruits, ",") {
		t.Fatalf("recruits = %v, want %v", got.Recruits, want.Recruits)
	}
	if len(want.Teams) != len(got.Teams) {
		t.Fatalf("teams = %d, want %d", len(got.Teams), len(want.Teams))
	}
	for i := range want.Teams {
		w, g := want.Teams[i], got.Teams[i]
		if w.Faction != g.Faction || w.Commander != g.Commander || len(w.Crews) != len(g.Crews) {
			t.Fatalf("team %s = %+v, want %+v", w.Faction, g, w)
		}
		for j := range w.Crews {
			if w.Crews[j] != g.Crews[j] {
				t.Fatalf("crew %s/%d = %+v, want %+v", w.Faction, j, g.Crews[j], w.Crews[j])
			}
		}
	}
}

func TestAlreadyRegisteredNamesConflictingIdentity(t *testing.T) {
	s := newTestState(t, 3)
	if err := s.ClaimCommander(FactionA, "ca"); err != nil {
		t.Fatalf("claim commander: %v", err)
	}
	if err := s.AddRecruit("r"); err != nil {
		t.Fatalf("add recruit: %v", err)
	}

	err := s.ClaimCommander(FactionA, "other")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("claim taken faction = %v, want %v", err, ErrAlreadyRegistered)
	}
	if got := apperrors.UserMessage(err, "en-US"); got != "ca is already registered for this event" {
		t.Fatalf("message = %q", got)
	}

	_, err = s.CreateCrew(FactionB, "c", "r", "", "")
	if got := apperrors.UserMessage(err, "en-US"); got != "r is already registered for this event" {
		t.Fatalf("message = %q", got)
	}
}

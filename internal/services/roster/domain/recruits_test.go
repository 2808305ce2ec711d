package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestRecruitPoolPreservesOrder(t *testing.T) {
	s := newTestState(t, 3)
	for _, id := range []string{"r1", "r2", "r3"} {
		if err := s.AddRecruit(id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := s.AddRecruit("r2"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate add err = %v, want ErrAlreadyRegistered", err)
	}
	removed, err := s.RemoveRecruit("r2")
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v; want true", removed, err)
	}
	removed, err = s.RemoveRecruit("absent")
	if err != nil || removed {
		t.Fatalf("remove absent = %v, %v; want false, nil", removed, err)
	}
	if got := strings.Join(s.Recruits(), ","); got != "r1,r3" {
		t.Fatalf("recruits = %s, want r1,r3", got)
	}
}

func TestAssignRecruitToCrew(t *testing.T) {
	s := newTestState(t, 3)
	index, _ := s.CreateCrew(FactionB, "c", "", "", "Crew")
	crew := s.Crew(FactionB, index)
	_ = s.AddRecruit("r1")
	_ = s.AddRecruit("r2")

	displaced, err := s.AssignRecruitToCrew("r1", crew, PositionDriver)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if displaced != "" || crew.Driver != "r1" {
		t.Fatalf("driver = %q displaced = %q", crew.Driver, displaced)
	}
	if got := strings.Join(s.Recruits(), ","); got != "r2" {
		t.Fatalf("recruits = %s, want r2", got)
	}

	displaced, err = s.AssignRecruitToCrew("r2", crew, PositionDriver)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if displaced != "r1" {
		t.Fatalf("displaced = %q, want r1", displaced)
	}
	if s.IsRegistered("r1") {
		t.Fatal("expected overwritten driver to leave the roster")
	}

	if _, err := s.AssignRecruitToCrew("ghost", crew, PositionGunner); !errors.Is(err, ErrRecruitNotFound) {
		t.Fatalf("missing recruit err = %v, want ErrRecruitNotFound", err)
	}
	if crew.Gunner != "c" {
		t.Fatal("expected failed assignment to leave gunner unchanged")
	}
	_ = s.AddRecruit("r3")
	if _, err := s.AssignRecruitToCrew("r3", crew, Position("loader")); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("bad position err = %v, want ErrInvalidPosition", err)
	}
	if got := strings.Join(s.Recruits(), ","); got != "r3" {
		t.Fatalf("recruits = %s, want r3 untouched", got)
	}
}

func TestLocateCommandedCrewIgnoresMembers(t *testing.T) {
	s := newTestState(t, 3)
	_, _ = s.CreateCrew(FactionA, "c1", "g1", "", "One")
	index, _ := s.CreateCrew(FactionB, "c2", "", "d2", "Two")

	faction, got, crew, ok := s.LocateCommandedCrew("c2")
	if !ok || faction != FactionB || got != index || crew.Name != "Two" {
		t.Fatalf("locate c2 = %s/%d/%v/%v", faction, got, crew, ok)
	}
	for _, id := range []string{"g1", "d2", "nobody", ""} {
		if _, _, _, ok := s.LocateCommandedCrew(id); ok {
			t.Fatalf("expected %q not to command a crew", id)
		}
	}
}

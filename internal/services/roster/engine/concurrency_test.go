package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/louisbranch/muster/internal/services/roster/domain"
)

func TestConcurrentCreateCrewFillsEachSlotOnce(t *testing.T) {
	const maxCrews = 4
	const attempts = 32
	h := newHarness(t, maxCrews)
	event := h.createEvent(t, "Kursk")

	var wg sync.WaitGroup
	results := make(chan CrewResult, attempts)
	errs := make(chan error, attempts)
	for i := range attempts {
		wg.Go(func() {
			result, _, err := h.engine.CreateCrew(context.Background(), event.ID, CreateCrewRequest{
				Faction:   domain.FactionA,
				Commander: fmt.Sprintf("commander-%d", i),
			})
			if err != nil {
				errs <- err
				return
			}
			results <- result
		})
	}
	wg.Wait()
	close(results)
	close(errs)

	seen := map[int]bool{}
	for result := range results {
		if seen[result.Index] {
			t.Fatalf("slot %d allocated twice", result.Index)
		}
		seen[result.Index] = true
	}
	if len(seen) != maxCrews {
		t.Fatalf("allocated %d slots, want %d", len(seen), maxCrews)
	}
	failures := 0
	for err := range errs {
		if !errors.Is(err, domain.ErrTeamFull) {
			t.Fatalf("err = %v, want ErrTeamFull", err)
		}
		failures++
	}
	if failures != attempts-maxCrews {
		t.Fatalf("failures = %d, want %d", failures, attempts-maxCrews)
	}
}

func TestConcurrentJoinRejectsDuplicates(t *testing.T) {
	h := newHarness(t, 3)
	event := h.createEvent(t, "Kursk")

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined := 0
	for range 16 {
		wg.Go(func() {
			if _, err := h.engine.JoinRecruits(context.Background(), event.ID, "same"); err == nil {
				mu.Lock()
				joined++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	if joined != 1 {
		t.Fatalf("joined = %d, want 1", joined)
	}
}

func TestEventsProgressIndependently(t *testing.T) {
	h := newHarness(t, 2)
	first := h.createEvent(t, "Kursk")
	second := h.createEvent(t, "Normandy")

	var wg sync.WaitGroup
	for _, eventID := range []string{first.ID, second.ID} {
		for i := range 8 {
			wg.Go(func() {
				_, _ = h.engine.JoinRecruits(context.Background(), eventID, fmt.Sprintf("u-%d", i))
			})
		}
	}
	wg.Wait()

	for _, eventID := range []string{first.ID, second.ID} {
		view, err := h.engine.View(eventID)
		if err != nil {
			t.Fatalf("view %s: %v", eventID, err)
		}
		if len(view.Recruits) != 8 {
			t.Fatalf("%s recruits = %d, want 8", eventID, len(view.Recruits))
		}
	}
}

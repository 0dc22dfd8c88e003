package sim

import (
	"fmt"
	"testing"
)

// newTestSimulation returns a Simulation starting at tick 0 whose suspended
// processes are unwound when the test ends.
func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	s := NewSimulation(Config{})
	t.Cleanup(s.Close)
	return s
}

// timeline records labelled observations together with the clock they were
// made at.
type timeline struct {
	sim     *Simulation
	entries []string
}

func newTimeline(s *Simulation) *timeline {
	return &timeline{sim: s}
}

func (tl *timeline) mark(label string) {
	tl.entries = append(tl.entries, fmt.Sprintf("%d:%s", tl.sim.Now(), label))
}

// markOn registers a callback on ev that marks label when ev is processed.
func (tl *timeline) markOn(ev *Event, label string) {
	ev.AddCallback(func(*Event) { tl.mark(label) })
}

func mustTimeout(t *testing.T, s *Simulation, delay int64) *Event {
	t.Helper()
	ev, err := s.Timeout(delay)
	if err != nil {
		t.Fatalf("Timeout(%d): %v", delay, err)
	}
	return ev
}

// sim/simulator.go
package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/eventsim/sim/trace"
)

// Simulation owns the virtual clock and the event queue, and drives the
// simulation loop. It is not safe for concurrent use: every call must come
// from the driving goroutine or from a running process body.
type Simulation struct {
	now     int64
	queue   *EventQueue
	nextSeq uint64
	nextID  uint64
	nextPID uint64

	// active is the process currently holding control, nil on the driving loop.
	active *Process
	// parked holds processes suspended on an event, keyed by process id.
	parked map[uint64]*Process

	trace *trace.SimulationTrace
	log   *logrus.Entry
}

// NewSimulation creates a Simulation whose clock starts at cfg.StartTime.
func NewSimulation(cfg Config) *Simulation {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Simulation{
		now:    cfg.StartTime,
		queue:  NewEventQueue(),
		parked: make(map[uint64]*Process),
		trace:  cfg.Trace,
		log:    logger,
	}
}

// Now returns the current simulation time.
func (s *Simulation) Now() int64 {
	return s.now
}

// Empty reports whether the queue holds no further work.
func (s *Simulation) Empty() bool {
	return s.queue.Len() == 0
}

// Len returns the number of scheduled entries.
func (s *Simulation) Len() int {
	return s.queue.Len()
}

// Peek returns the time of the next scheduled entry.
func (s *Simulation) Peek() (int64, bool) {
	entry, ok := s.queue.Peek()
	return entry.Time, ok
}

// Trace returns the trace the simulation records into, possibly nil.
func (s *Simulation) Trace() *trace.SimulationTrace {
	return s.trace
}

// Event creates a new pending event.
func (s *Simulation) Event() *Event {
	return s.NamedEvent("")
}

// NamedEvent creates a new pending event labelled for logs and traces.
func (s *Simulation) NamedEvent(name string) *Event {
	s.nextID++
	return &Event{sim: s, id: s.nextID, name: name}
}

// Schedule queues ev for processing at Now()+delay.
func (s *Simulation) Schedule(delay int64, ev *Event) error {
	if delay < 0 {
		return fmt.Errorf("scheduling %s: %w (%d)", ev, ErrNegativeDelay, delay)
	}
	s.enqueue(delay, ev)
	return nil
}

func (s *Simulation) enqueue(delay int64, ev *Event) {
	s.queue.Schedule(ScheduledEntry{Time: s.now + delay, Sequence: s.nextSeq, Event: ev})
	s.nextSeq++
}

// Timeout returns a pending event that is processed at Now()+delay.
func (s *Simulation) Timeout(delay int64) (*Event, error) {
	ev := s.Event()
	if err := s.Schedule(delay, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// immediate returns an event already settled with err, processed at Now().
func (s *Simulation) immediate(name string, err error) *Event {
	ev := s.NamedEvent(name)
	ev.settle(err)
	return ev
}

// Step pops the earliest entry, advances the clock to its time and processes
// its event. This is the only place time advances and the only place an
// event becomes processed.
func (s *Simulation) Step() error {
	entry, ok := s.queue.PopNext()
	if !ok {
		return ErrEmptyQueue
	}
	s.now = entry.Time
	ev := entry.Event
	if ev.Processed() {
		return nil
	}

	s.log.Debugf("[tick %07d] Processing %s (seq %d)", s.now, ev, entry.Sequence)
	if s.trace.Enabled() {
		rec := trace.EventRecord{
			Seq:           entry.Sequence,
			EventID:       ev.id,
			Name:          ev.name,
			Clock:         s.now,
			Continuations: len(ev.continuations),
			Callbacks:     len(ev.callbacks),
		}
		if ev.err != nil {
			rec.Failed = true
			rec.Error = ev.err.Error()
		}
		s.trace.RecordEvent(rec)
	}

	if err := ev.process(); err != nil {
		s.log.Warnf("[tick %07d] %v", s.now, err)
		return err
	}
	return nil
}

// Run steps until the queue is empty. It stops at, and returns, the first
// unhandled failure; the remaining queue is left intact so Run may be called
// again.
func (s *Simulation) Run() error {
	for !s.Empty() {
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.log.Debugf("[tick %07d] Simulation ended", s.now)
	return nil
}

// RunUntil processes every entry scheduled strictly before target, then sets
// the clock to target. Entries at exactly target stay queued. A target before
// Now() is rejected with ErrTargetInPast. On an unhandled failure the clock
// stays at the failing entry's time.
func (s *Simulation) RunUntil(target int64) error {
	if target < s.now {
		return fmt.Errorf("run until %d: %w (now %d)", target, ErrTargetInPast, s.now)
	}
	for {
		next, ok := s.Peek()
		if !ok || next >= target {
			break
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.now = target
	return nil
}

// Close unwinds every process still suspended on an event, running the
// deferred functions of their bodies. Their completion events never fire.
// Close must be called from the driving loop, not from a process body.
func (s *Simulation) Close() {
	ids := make([]uint64, 0, len(s.parked))
	for id := range s.parked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := s.parked[id]
		delete(s.parked, id)
		p.unwind()
	}
}

func (s *Simulation) recordProcess(p *Process, kind trace.ProcessKind, detail string) {
	s.log.Debugf("[tick %07d] Process %s: %s %s", s.now, p.name, kind, detail)
	if s.trace.ProcessesEnabled() {
		s.trace.RecordProcess(trace.ProcessRecord{Process: p.name, Clock: s.now, Kind: kind, Event: detail})
	}
}

package sim

import "fmt"

// EventState is the lifecycle stage of an Event. Transitions only move forward:
// pending → triggered → processed.
type EventState int

const (
	EventPending EventState = iota
	EventTriggered
	EventProcessed
)

func (s EventState) String() string {
	switch s {
	case EventPending:
		return "pending"
	case EventTriggered:
		return "triggered"
	case EventProcessed:
		return "processed"
	default:
		return fmt.Sprintf("EventState(%d)", int(s))
	}
}

// Event is a one-shot signal. Processes wait on it through continuations,
// combinators observe it through callbacks. Both lists fire exactly once,
// in registration order, continuations first, when the engine loop processes
// the event, and are released afterwards.
type Event struct {
	sim     *Simulation
	id      uint64
	name    string
	state   EventState
	err     error
	defused bool

	continuations []func()
	callbacks     []func(*Event)
}

// ID returns the event's creation-order identity within its Simulation.
func (ev *Event) ID() uint64 {
	return ev.id
}

// Name returns the label given at creation, or "" for anonymous events.
func (ev *Event) Name() string {
	return ev.name
}

func (ev *Event) String() string {
	if ev.name != "" {
		return ev.name
	}
	return fmt.Sprintf("event#%d", ev.id)
}

// State returns the current lifecycle stage.
func (ev *Event) State() EventState {
	return ev.state
}

// Pending reports whether the event has not been triggered yet.
func (ev *Event) Pending() bool {
	return ev.state == EventPending
}

// Triggered reports whether the event has been triggered or already processed.
func (ev *Event) Triggered() bool {
	return ev.state == EventTriggered || ev.state == EventProcessed
}

// Processed reports whether the engine loop has processed the event.
func (ev *Event) Processed() bool {
	return ev.state == EventProcessed
}

// Err returns the failure the event settled with, or nil.
func (ev *Event) Err() error {
	return ev.err
}

// Trigger marks the event triggered and schedules its processing at the
// current simulation time. It never processes synchronously. Triggering an
// event that is already triggered or processed is a no-op.
func (ev *Event) Trigger() {
	ev.settle(nil)
}

// Fail is Trigger with a failure outcome; waiters observe err from Wait.
// Fail(nil) is equivalent to Trigger.
func (ev *Event) Fail(err error) {
	ev.settle(err)
}

// Defuse claims the event's failure as handled. A failed event that nobody
// defuses by the end of its processing is reported by Step. Observers that
// pass the failure on (a resumed process, a combinator settling its result)
// defuse it themselves; a callback that only looks at Err does not.
func (ev *Event) Defuse() {
	ev.defused = true
}

func (ev *Event) settle(err error) {
	if ev.Triggered() {
		return
	}
	ev.state = EventTriggered
	ev.err = err
	ev.sim.enqueue(0, ev)
}

// AddContinuation registers c to run when the event is processed.
// Registering on a processed event is a silent no-op.
func (ev *Event) AddContinuation(c func()) {
	if ev.Processed() {
		return
	}
	ev.continuations = append(ev.continuations, c)
}

// AddCallback registers cb to run, with the event, after all continuations.
// Registering on a processed event is a silent no-op.
func (ev *Event) AddCallback(cb func(*Event)) {
	if ev.Processed() {
		return
	}
	ev.callbacks = append(ev.callbacks, cb)
}

// process is called only from Simulation.Step. It returns an
// *UnhandledFailureError when no continuation or callback claimed a failure.
func (ev *Event) process() error {
	if ev.Processed() {
		return nil
	}
	ev.state = EventProcessed

	for _, c := range ev.continuations {
		c()
	}
	ev.continuations = nil

	for _, cb := range ev.callbacks {
		cb(ev)
	}
	ev.callbacks = nil

	if ev.err != nil && !ev.defused {
		return &UnhandledFailureError{Event: ev.String(), Clock: ev.sim.now, Err: ev.err}
	}
	return nil
}

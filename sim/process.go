package sim

import (
	"fmt"
	"runtime"

	"github.com/inference-sim/eventsim/sim/trace"
)

// ProcessFunc is the body of a Process. Returning a non-nil error fails the
// process's completion event.
type ProcessFunc func(p *Process) error

// Process is a suspendable computation whose only suspension points are
// waits on events. Its body runs on its own goroutine, but control is handed
// back and forth with the engine loop so that exactly one of them runs at a
// time; there is no parallelism.
type Process struct {
	sim  *Simulation
	id   uint64
	name string
	body ProcessFunc
	done *Event

	resume chan bool // engine → process: true resumes, false unwinds
	yield  chan struct{}
	closed bool

	ended   bool
	endedAt int64
}

// Process creates a process and schedules its start at Now(). The body never
// runs inside this call; it starts when the engine loop reaches the start
// entry, like any other resumption.
func (s *Simulation) Process(name string, body ProcessFunc) *Process {
	s.nextPID++
	p := &Process{
		sim:    s,
		id:     s.nextPID,
		name:   name,
		body:   body,
		done:   s.NamedEvent(name),
		resume: make(chan bool),
		yield:  make(chan struct{}),
	}
	start := s.NamedEvent(name + ":start")
	s.enqueue(0, start)
	start.AddContinuation(p.start)
	return p
}

// Name returns the name the process was created with.
func (p *Process) Name() string {
	return p.name
}

// Done returns the completion event, processed after the body returns.
func (p *Process) Done() *Event {
	return p.done
}

// Err returns the completion failure, or nil if the process succeeded or has
// not finished.
func (p *Process) Err() error {
	return p.done.Err()
}

// FinishTime returns the clock at which the body returned, and whether it has.
func (p *Process) FinishTime() (int64, bool) {
	return p.endedAt, p.ended
}

// Wait suspends the process until ev is processed and returns ev's failure,
// if any. Waiting on an already processed event returns at once without
// suspending. Wait must be called from the process's own body.
func (p *Process) Wait(ev *Event) error {
	if p.sim.active != p {
		return fmt.Errorf("process %q: %w", p.name, ErrNotActive)
	}
	if ev.Processed() {
		return ev.err
	}

	ev.AddContinuation(func() { p.wake(ev) })
	p.sim.parked[p.id] = p
	p.sim.recordProcess(p, trace.ProcessSuspend, ev.String())

	p.yield <- struct{}{}
	if !<-p.resume {
		runtime.Goexit()
	}

	p.sim.recordProcess(p, trace.ProcessResume, ev.String())
	return ev.err
}

// Join waits for other to complete and returns its failure, if any.
func (p *Process) Join(other *Process) error {
	return p.Wait(other.done)
}

// Sleep suspends the process for delay ticks.
func (p *Process) Sleep(delay int64) error {
	ev, err := p.sim.Timeout(delay)
	if err != nil {
		return err
	}
	return p.Wait(ev)
}

func (p *Process) start() {
	p.sim.recordProcess(p, trace.ProcessStart, "")
	p.handoff(func() { go p.main() })
}

func (p *Process) wake(ev *Event) {
	if p.closed {
		return
	}
	// the body receives the failure from Wait
	ev.Defuse()
	delete(p.sim.parked, p.id)
	p.handoff(func() { p.resume <- true })
}

func (p *Process) unwind() {
	p.closed = true
	p.sim.recordProcess(p, trace.ProcessClose, "")
	p.handoff(func() { p.resume <- false })
}

// handoff passes control to the process and blocks until it suspends,
// completes, or unwinds.
func (p *Process) handoff(run func()) {
	prev := p.sim.active
	p.sim.active = p
	run()
	<-p.yield
	p.sim.active = prev
}

func (p *Process) main() {
	var err error
	returned := false

	defer func() {
		r := recover()
		switch {
		case p.closed:
			// unwound by Close: completion never fires
		case r != nil:
			p.finish(&PanicError{Process: p.name, Value: r})
		case !returned:
			p.finish(fmt.Errorf("process %q: %w", p.name, ErrProcessExited))
		default:
			p.finish(err)
		}
		p.yield <- struct{}{}
	}()

	err = p.body(p)
	returned = true
}

func (p *Process) finish(err error) {
	p.ended, p.endedAt = true, p.sim.now
	if err != nil {
		p.sim.recordProcess(p, trace.ProcessFail, err.Error())
		p.done.Fail(err)
		return
	}
	p.sim.recordProcess(p, trace.ProcessFinish, "")
	p.done.Trigger()
}

package scenario

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/eventsim/sim"
)

// Model is a scenario instantiated on a Simulation, ready to run.
type Model struct {
	Sim *sim.Simulation

	spec      *ScenarioSpec
	rng       *PartitionedRNG
	events    map[string]*sim.Event
	processes map[string]*sim.Process
}

// Build validates spec and instantiates it on a new Simulation. The clock
// starts at spec.Start regardless of cfg.StartTime.
func Build(spec *ScenarioSpec, cfg sim.Config) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	cfg.StartTime = spec.Start
	s := sim.NewSimulation(cfg)

	m := &Model{
		Sim:       s,
		spec:      spec,
		rng:       NewPartitionedRNG(NewSimulationKey(spec.Seed)),
		events:    make(map[string]*sim.Event, len(spec.Events)),
		processes: make(map[string]*sim.Process, len(spec.Processes)),
	}

	for _, e := range spec.Events {
		ev := s.NamedEvent(e.Name)
		m.events[e.Name] = ev
		if e.At == nil {
			continue
		}
		if err := s.Schedule(*e.At-spec.Start, ev); err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}
	}
	for _, ps := range spec.Processes {
		m.processes[ps.Name] = s.Process(ps.Name, m.script(ps.Steps))
	}

	logrus.Debugf("Built scenario with %d events and %d processes (seed %d)",
		len(spec.Events), len(spec.Processes), spec.Seed)
	return m, nil
}

// Run runs the model until no work is left.
func (m *Model) Run() error {
	return m.Sim.Run()
}

// RunUntil runs the model up to, but excluding, target.
func (m *Model) RunUntil(target int64) error {
	return m.Sim.RunUntil(target)
}

// Close unwinds processes still waiting. Call it after Report.
func (m *Model) Close() {
	m.Sim.Close()
}

// Process returns the named process, or nil.
func (m *Model) Process(name string) *sim.Process {
	return m.processes[name]
}

// Event returns the named declared event, or nil.
func (m *Model) Event(name string) *sim.Event {
	return m.events[name]
}

func (m *Model) script(steps []StepSpec) sim.ProcessFunc {
	return func(p *sim.Process) error {
		for _, step := range steps {
			if err := m.runStep(p, step); err != nil {
				return err
			}
		}
		return nil
	}
}

func (m *Model) runStep(p *sim.Process, step StepSpec) error {
	var target *sim.Event
	switch {
	case step.Sleep != nil:
		delay := *step.Sleep
		if step.Jitter > 0 {
			delay += m.rng.ForProcess(p.Name()).Int63n(step.Jitter + 1)
		}
		return p.Sleep(delay)
	case step.Trigger != "":
		m.events[step.Trigger].Trigger()
		return nil
	case step.Fail != "":
		return errors.New(step.Fail)
	case step.Wait != "":
		target = m.lookup(step.Wait)
	case step.Join != "":
		target = m.processes[step.Join].Done()
	case len(step.AnyOf) > 0:
		target = m.Sim.AnyOf(m.lookupAll(step.AnyOf)...)
	case len(step.AllOf) > 0:
		target = m.Sim.AllOf(m.lookupAll(step.AllOf)...)
	default:
		return fmt.Errorf("step has no action")
	}

	err := p.Wait(target)
	if err != nil && step.IgnoreFailure {
		logrus.Debugf("[tick %07d] %s ignored failure of %s: %v", m.Sim.Now(), p.Name(), target, err)
		return nil
	}
	return err
}

func (m *Model) lookup(name string) *sim.Event {
	if ev, ok := m.events[name]; ok {
		return ev
	}
	return m.processes[name].Done()
}

func (m *Model) lookupAll(names []string) []*sim.Event {
	evs := make([]*sim.Event, len(names))
	for i, name := range names {
		evs[i] = m.lookup(name)
	}
	return evs
}

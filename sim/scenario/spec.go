// Package scenario builds simulation models described in YAML on top of the
// sim kernel: named events fired at fixed times, and processes that run a
// script of sleeps, waits, triggers and combinator waits.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path).
type ScenarioSpec struct {
	Start     int64         `yaml:"start"`
	Seed      int64         `yaml:"seed"`
	Events    []EventSpec   `yaml:"events"`
	Processes []ProcessSpec `yaml:"processes"`
}

// EventSpec declares a named event. When At is set the event is scheduled to
// be processed at that absolute time.
type EventSpec struct {
	Name string `yaml:"name"`
	At   *int64 `yaml:"at,omitempty"`
}

// ProcessSpec declares a process and the script it runs.
type ProcessSpec struct {
	Name  string     `yaml:"name"`
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec is one script step. Exactly one action field must be set.
type StepSpec struct {
	Sleep   *int64   `yaml:"sleep,omitempty"`
	Jitter  int64    `yaml:"jitter,omitempty"` // adds uniform [0, jitter] ticks to sleep
	Wait    string   `yaml:"wait,omitempty"`   // event or process name
	Join    string   `yaml:"join,omitempty"`   // process name
	Trigger string   `yaml:"trigger,omitempty"`
	Fail    string   `yaml:"fail,omitempty"` // ends the process with this error message
	AnyOf   []string `yaml:"any_of,omitempty"`
	AllOf   []string `yaml:"all_of,omitempty"`

	// IgnoreFailure swallows a failure observed by a wait, join or combinator
	// step instead of failing the process.
	IgnoreFailure bool `yaml:"ignore_failure,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file. Unknown fields are rejected.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a YAML scenario document.
func ParseScenario(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// Validate checks names, references and step shapes.
func (s *ScenarioSpec) Validate() error {
	if len(s.Processes) == 0 {
		return fmt.Errorf("at least one process required")
	}

	events := make(map[string]bool, len(s.Events))
	processes := make(map[string]bool, len(s.Processes))
	seen := func(name string) bool { return events[name] || processes[name] }

	for i, e := range s.Events {
		if e.Name == "" {
			return fmt.Errorf("event[%d]: name required", i)
		}
		if seen(e.Name) {
			return fmt.Errorf("event[%d]: duplicate name %q", i, e.Name)
		}
		if e.At != nil && *e.At < s.Start {
			return fmt.Errorf("event %q: at %d is before start %d", e.Name, *e.At, s.Start)
		}
		events[e.Name] = true
	}
	for i, p := range s.Processes {
		if p.Name == "" {
			return fmt.Errorf("process[%d]: name required", i)
		}
		if seen(p.Name) {
			return fmt.Errorf("process[%d]: duplicate name %q", i, p.Name)
		}
		processes[p.Name] = true
	}

	for _, p := range s.Processes {
		for j, step := range p.Steps {
			prefix := fmt.Sprintf("process %q step[%d]", p.Name, j)
			if err := validateStep(step, p.Name, events, processes); err != nil {
				return fmt.Errorf("%s: %w", prefix, err)
			}
		}
	}
	return nil
}

func validateStep(step StepSpec, self string, events, processes map[string]bool) error {
	actions := 0
	for _, set := range []bool{
		step.Sleep != nil, step.Wait != "", step.Join != "", step.Trigger != "",
		step.Fail != "", len(step.AnyOf) > 0, len(step.AllOf) > 0,
	} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("exactly one action required, got %d", actions)
	}
	if step.Jitter != 0 && step.Sleep == nil {
		return fmt.Errorf("jitter is only valid with sleep")
	}
	if step.Jitter < 0 {
		return fmt.Errorf("jitter must be non-negative, got %d", step.Jitter)
	}
	if step.IgnoreFailure && step.Wait == "" && step.Join == "" && len(step.AnyOf) == 0 && len(step.AllOf) == 0 {
		return fmt.Errorf("ignore_failure is only valid with wait, join, any_of or all_of")
	}

	known := func(name string) error {
		if name == self {
			return fmt.Errorf("process cannot wait on itself")
		}
		if !events[name] && !processes[name] {
			return fmt.Errorf("unknown event or process %q", name)
		}
		return nil
	}

	switch {
	case step.Sleep != nil:
		if *step.Sleep < 0 {
			return fmt.Errorf("sleep must be non-negative, got %d", *step.Sleep)
		}
	case step.Wait != "":
		return known(step.Wait)
	case step.Join != "":
		if !processes[step.Join] {
			return fmt.Errorf("unknown process %q", step.Join)
		}
		return known(step.Join)
	case step.Trigger != "":
		if !events[step.Trigger] {
			return fmt.Errorf("unknown event %q", step.Trigger)
		}
	case len(step.AnyOf) > 0:
		for _, name := range step.AnyOf {
			if err := known(name); err != nil {
				return err
			}
		}
	case len(step.AllOf) > 0:
		for _, name := range step.AllOf {
			if err := known(name); err != nil {
				return err
			}
		}
	}
	return nil
}

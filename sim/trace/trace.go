package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of simulation tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every processed event.
	TraceLevelEvents TraceLevel = "events"
	// TraceLevelFull captures processed events and process lifecycle transitions.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	TraceLevelFull:   true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects records during a simulation run.
type SimulationTrace struct {
	RunID     string          `json:"run_id"`
	Config    TraceConfig     `json:"-"`
	Events    []EventRecord   `json:"events"`
	Processes []ProcessRecord `json:"processes,omitempty"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Each trace gets a fresh RunID so exported traces from repeated runs can be told apart.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:     uuid.NewString(),
		Config:    config,
		Events:    make([]EventRecord, 0),
		Processes: make([]ProcessRecord, 0),
	}
}

// Enabled reports whether event records should be collected.
// Safe on a nil receiver.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone && st.Config.Level != ""
}

// ProcessesEnabled reports whether process lifecycle records should be collected.
func (st *SimulationTrace) ProcessesEnabled() bool {
	return st != nil && st.Config.Level == TraceLevelFull
}

// RecordEvent appends a processed-event record.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	st.Events = append(st.Events, record)
}

// RecordProcess appends a process lifecycle record.
func (st *SimulationTrace) RecordProcess(record ProcessRecord) {
	st.Processes = append(st.Processes, record)
}

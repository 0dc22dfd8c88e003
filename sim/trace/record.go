// Package trace provides event and process-lifecycle recording for simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// EventRecord captures a single event processed by the engine loop.
type EventRecord struct {
	Seq           uint64 `json:"seq"`      // scheduling sequence of the queue entry
	EventID       uint64 `json:"event_id"` // identity of the event itself
	Name          string `json:"name,omitempty"`
	Clock         int64  `json:"clock"`
	Failed        bool   `json:"failed,omitempty"`
	Error         string `json:"error,omitempty"`
	Continuations int    `json:"continuations"` // processes resumed by this event
	Callbacks     int    `json:"callbacks"`
}

// ProcessKind names a process lifecycle transition.
type ProcessKind string

const (
	ProcessStart   ProcessKind = "start"
	ProcessSuspend ProcessKind = "suspend"
	ProcessResume  ProcessKind = "resume"
	ProcessFinish  ProcessKind = "finish"
	ProcessFail    ProcessKind = "fail"
	ProcessClose   ProcessKind = "close"
)

// ProcessRecord captures a single process lifecycle transition.
type ProcessRecord struct {
	Process string      `json:"process"`
	Clock   int64       `json:"clock"`
	Kind    ProcessKind `json:"kind"`
	Event   string      `json:"event,omitempty"` // awaited event for suspend/resume, error text for fail
}

package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeDelay is returned when an event is scheduled into the past.
	ErrNegativeDelay = errors.New("negative delay")
	// ErrTargetInPast is returned by RunUntil when the target precedes Now().
	ErrTargetInPast = errors.New("target time is before current simulation time")
	// ErrEmptyQueue is returned by Step when no work is scheduled.
	ErrEmptyQueue = errors.New("event queue is empty")
	// ErrNotActive is returned when a process suspends while it is not the running process.
	ErrNotActive = errors.New("process is not running")
	// ErrProcessExited marks a process body that stopped without returning (runtime.Goexit).
	ErrProcessExited = errors.New("process exited without returning")
)

// UnhandledFailureError reports a failed event that reached processing with
// nobody waiting on it, no callbacks, and no Defuse.
type UnhandledFailureError struct {
	Event string
	Clock int64
	Err   error
}

func (e *UnhandledFailureError) Error() string {
	return fmt.Sprintf("unhandled failure of %s at tick %d: %v", e.Event, e.Clock, e.Err)
}

func (e *UnhandledFailureError) Unwrap() error {
	return e.Err
}

// PanicError is the failure recorded on a process completion event when the
// process body panics.
type PanicError struct {
	Process string
	Value   any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("process %q panicked: %v", e.Process, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

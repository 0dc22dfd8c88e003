// Package sim provides a deterministic discrete-event simulation kernel.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: the Event state machine (pending → triggered → processed) and
//     continuation/callback dispatch
//   - event_queue.go: the (time, sequence) ordered priority queue
//   - simulator.go: the Simulation clock and the Step/Run/RunUntil loop
//   - process.go: suspendable processes that wait on events
//   - combinators.go: AnyOf and AllOf
//
// # Execution Model
//
// There is a single logical thread of control. Triggering an event never
// processes it synchronously: it is queued at the current time and processed
// by Step, which is the only place the clock advances. Entries scheduled for
// the same time are processed in the order they were scheduled.
//
// A Process body runs on its own goroutine, but the engine hands control to
// it and blocks until the body suspends in Wait or returns, so state is never
// touched concurrently. A process that is still suspended when the model is
// abandoned can be unwound with Simulation.Close.
//
// # Failures
//
// Events settle either successfully (Trigger) or with an error (Fail). A
// process that returns an error or panics fails its completion event, and
// every waiter sees the failure from Wait or Join. A failure must be claimed
// while its event is processed: a resumed waiter claims it, as does a
// combinator that folds it into its own result, and Defuse claims it
// explicitly. Otherwise Step returns an *UnhandledFailureError. An AnyOf that
// already fired does not claim the failures of its remaining inputs.
//
// Sub-packages:
//   - sim/trace: pure-data recording of processed events and process lifecycle
//   - sim/scenario: YAML-described models built on this package
package sim

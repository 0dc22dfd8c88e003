package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/inference-sim/eventsim/sim/trace"
)

// ProcessStatus is the state of a scenario process when the report was taken.
type ProcessStatus string

const (
	StatusFinished ProcessStatus = "finished"
	StatusFailed   ProcessStatus = "failed"
	StatusWaiting  ProcessStatus = "waiting" // not started, or suspended on an event
)

// ProcessResult is one process's line in a Report.
type ProcessResult struct {
	Name   string
	Status ProcessStatus
	Clock  int64 // finish or failure time; 0 while waiting
	Error  string
}

// Report summarizes a model run.
type Report struct {
	EndClock  int64
	Processes []ProcessResult
	Summary   *trace.TraceSummary // nil when tracing was off
}

// Report collects the outcome of every process, in declaration order.
func (m *Model) Report() *Report {
	r := &Report{EndClock: m.Sim.Now()}
	for _, ps := range m.spec.Processes {
		p := m.processes[ps.Name]
		res := ProcessResult{Name: ps.Name, Status: StatusWaiting}
		if clock, ok := p.FinishTime(); ok {
			res.Clock = clock
			res.Status = StatusFinished
			if err := p.Err(); err != nil {
				res.Status = StatusFailed
				res.Error = err.Error()
			}
		}
		r.Processes = append(r.Processes, res)
	}
	if tr := m.Sim.Trace(); tr.Enabled() {
		r.Summary = trace.Summarize(tr)
	}
	return r
}

// Count returns how many processes are in the given status.
func (r *Report) Count(status ProcessStatus) int {
	n := 0
	for _, p := range r.Processes {
		if p.Status == status {
			n++
		}
	}
	return n
}

// Print writes a human-readable report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Scenario Report ===")
	fmt.Fprintf(w, "End Clock        : %d\n", r.EndClock)
	fmt.Fprintf(w, "Processes        : %d (finished %d, failed %d, waiting %d)\n",
		len(r.Processes), r.Count(StatusFinished), r.Count(StatusFailed), r.Count(StatusWaiting))
	for _, p := range r.Processes {
		line := fmt.Sprintf("  %-14s %-9s", p.Name, p.Status)
		if p.Status != StatusWaiting {
			line += fmt.Sprintf(" t=%d", p.Clock)
		}
		if p.Error != "" {
			line += " error: " + p.Error
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	if r.Summary == nil {
		return
	}
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Events Processed : %d\n", r.Summary.TotalEvents)
	fmt.Fprintf(w, "Failed Events    : %d\n", r.Summary.FailedEvents)
	fmt.Fprintf(w, "Distinct Clocks  : %d\n", r.Summary.DistinctClocks)
	fmt.Fprintf(w, "Max Same-Time    : %d\n", r.Summary.MaxSameTimeBatch)
	fmt.Fprintf(w, "Last Event Clock : %d\n", r.Summary.EndClock)
}

package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents       int
	FailedEvents      int
	DistinctClocks    int
	MaxSameTimeBatch  int // most events processed at a single clock value
	EndClock          int64
	ProcessesFinished int
	ProcessesFailed   int
	FinishClock       map[string]int64 // process name → clock of finish or failure
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FinishClock: make(map[string]int64),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	batch := 0
	for i, e := range st.Events {
		if e.Failed {
			summary.FailedEvents++
		}
		if i == 0 || e.Clock != st.Events[i-1].Clock {
			summary.DistinctClocks++
			batch = 0
		}
		batch++
		if batch > summary.MaxSameTimeBatch {
			summary.MaxSameTimeBatch = batch
		}
		summary.EndClock = e.Clock
	}

	for _, p := range st.Processes {
		switch p.Kind {
		case ProcessFinish:
			summary.ProcessesFinished++
			summary.FinishClock[p.Process] = p.Clock
		case ProcessFail:
			summary.ProcessesFailed++
			summary.FinishClock[p.Process] = p.Clock
		}
	}

	return summary
}

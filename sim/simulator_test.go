package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/eventsim/sim/trace"
)

func TestNewSimulation_StartTime(t *testing.T) {
	s := NewSimulation(Config{StartTime: 100})
	assert.Equal(t, int64(100), s.Now())
	assert.True(t, s.Empty())

	ev := mustTimeout(t, s, 5)
	require.NoError(t, s.Run())
	assert.True(t, ev.Processed())
	assert.Equal(t, int64(105), s.Now())
}

func TestSimulation_Schedule_NegativeDelayRejected(t *testing.T) {
	s := newTestSimulation(t)

	err := s.Schedule(-1, s.Event())
	assert.ErrorIs(t, err, ErrNegativeDelay)
	assert.True(t, s.Empty(), "rejected entries must not be queued")

	ev, err := s.Timeout(-3)
	assert.ErrorIs(t, err, ErrNegativeDelay)
	assert.Nil(t, ev)
}

func TestSimulation_Step_EmptyQueue(t *testing.T) {
	s := newTestSimulation(t)
	assert.ErrorIs(t, s.Step(), ErrEmptyQueue)
}

func TestSimulation_Timeout_PendingUntilProcessed(t *testing.T) {
	s := newTestSimulation(t)
	ev := mustTimeout(t, s, 4)

	assert.True(t, ev.Pending())
	next, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(4), next)

	require.NoError(t, s.Step())
	assert.True(t, ev.Processed())
	assert.Equal(t, int64(4), s.Now())
}

func TestSimulation_EqualTimeEvents_ProcessedInSchedulingOrder(t *testing.T) {
	// GIVEN N events scheduled at the same timestamp in order e1..eN
	s := newTestSimulation(t)
	tl := newTimeline(s)
	names := []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7", "e8"}
	for _, name := range names {
		ev := s.NamedEvent(name)
		tl.markOn(ev, name)
		require.NoError(t, s.Schedule(10, ev))
	}

	// WHEN the simulation runs
	require.NoError(t, s.Run())

	// THEN they are processed in exactly that order
	want := make([]string, len(names))
	for i, name := range names {
		want[i] = "10:" + name
	}
	assert.Equal(t, want, tl.entries)
}

func TestSimulation_TimeoutFromCallback_EndToEnd(t *testing.T) {
	// GIVEN timeouts of 5 and 3 at t=0, and a timeout of 3 created from the
	// 3-delay event's callback
	s := newTestSimulation(t)
	var processedAt []int64
	record := func(*Event) { processedAt = append(processedAt, s.Now()) }

	five := mustTimeout(t, s, 5)
	five.AddCallback(record)
	three := mustTimeout(t, s, 3)
	three.AddCallback(func(ev *Event) {
		record(ev)
		mustTimeout(t, s, 3).AddCallback(record)
	})

	// WHEN run
	require.NoError(t, s.Run())

	// THEN they are processed at 3, 5, 6
	assert.Equal(t, []int64{3, 5, 6}, processedAt)
}

func TestSimulation_RunUntil_StrictBoundary(t *testing.T) {
	// GIVEN events at 2, 5, 5 and 8
	s := newTestSimulation(t)
	tl := newTimeline(s)
	for i, delay := range []int64{2, 5, 5, 8} {
		tl.markOn(mustTimeout(t, s, delay), []string{"a", "b", "c", "d"}[i])
	}

	// WHEN running until 5
	require.NoError(t, s.RunUntil(5))

	// THEN only events strictly before 5 are processed and the clock is at 5
	assert.Equal(t, []string{"2:a"}, tl.entries)
	assert.Equal(t, int64(5), s.Now())
	assert.Equal(t, 3, s.Len())

	// AND the rest is processed by a later Run
	require.NoError(t, s.Run())
	assert.Equal(t, []string{"2:a", "5:b", "5:c", "8:d"}, tl.entries)
}

func TestSimulation_RunUntil_FastForwardsPastEmptyQueue(t *testing.T) {
	s := newTestSimulation(t)
	require.NoError(t, s.RunUntil(42))
	assert.Equal(t, int64(42), s.Now())

	require.NoError(t, s.RunUntil(42), "target equal to now is accepted")
	assert.Equal(t, int64(42), s.Now())
}

func TestSimulation_RunUntil_TargetInPastRejected(t *testing.T) {
	s := newTestSimulation(t)
	require.NoError(t, s.RunUntil(10))
	ev := mustTimeout(t, s, 1)

	err := s.RunUntil(9)

	assert.ErrorIs(t, err, ErrTargetInPast)
	assert.Equal(t, int64(10), s.Now())
	assert.False(t, ev.Processed())
}

func TestSimulation_Clock_NeverDecreases(t *testing.T) {
	// GIVEN a chain of callbacks that keep scheduling work at varying delays
	s := newTestSimulation(t)
	delays := []int64{0, 7, 1, 1, 0, 3, 12, 2, 0, 5}
	var chain func(i int) func(*Event)
	chain = func(i int) func(*Event) {
		return func(*Event) {
			if i >= len(delays) {
				return
			}
			mustTimeout(t, s, delays[i]).AddCallback(chain(i + 1))
			mustTimeout(t, s, delays[len(delays)-1-i]).AddCallback(func(*Event) {})
		}
	}
	mustTimeout(t, s, 0).AddCallback(chain(0))

	// WHEN stepping with interleaved RunUntil calls
	last := s.Now()
	for steps := 0; !s.Empty(); steps++ {
		if steps%4 == 3 {
			next, _ := s.Peek()
			require.NoError(t, s.RunUntil(next))
		} else {
			require.NoError(t, s.Step())
		}
		// THEN Now() is non-decreasing
		require.GreaterOrEqual(t, s.Now(), last)
		last = s.Now()
	}
}

func TestSimulation_Trace_RecordsProcessedEvents(t *testing.T) {
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelEvents})
	s := NewSimulation(Config{Trace: tr})
	t.Cleanup(s.Close)

	gate := s.NamedEvent("gate")
	gate.AddCallback(func(*Event) {})
	require.NoError(t, s.Schedule(3, gate))
	mustTimeout(t, s, 1)

	require.NoError(t, s.Run())

	require.Len(t, tr.Events, 2)
	assert.Equal(t, int64(1), tr.Events[0].Clock)
	assert.Equal(t, "gate", tr.Events[1].Name)
	assert.Equal(t, int64(3), tr.Events[1].Clock)
	assert.Equal(t, 1, tr.Events[1].Callbacks)
	assert.Empty(t, tr.Processes, "process records need the full level")
}

func TestSimulation_DuplicateEntry_ProcessedOnce(t *testing.T) {
	// GIVEN a timeout that is also triggered early
	s := newTestSimulation(t)
	ev := mustTimeout(t, s, 10)
	calls := 0
	ev.AddCallback(func(*Event) { calls++ })
	ev.Trigger()

	// WHEN run
	require.NoError(t, s.Run())

	// THEN it is processed at the earlier entry, and the later entry is inert
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(10), s.Now())
}

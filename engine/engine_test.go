package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/cpusched/model"
)

func newEngine(t *testing.T, algorithm model.Algorithm, quantum int, specs ...model.ProcessSpec) *Engine {
	t.Helper()
	e, err := New(algorithm, quantum)
	require.NoError(t, err)
	require.NoError(t, e.SubmitAll(specs...))
	return e
}

func proc(arrival, burst, priority int) model.ProcessSpec {
	return model.ProcessSpec{Arrival: arrival, Burst: burst, Priority: priority}
}

func eventsAt(snapshot *model.Snapshot, tick int) []model.Event {
	var ret []model.Event
	for _, event := range snapshot.Events {
		if event.Tick == tick {
			ret = append(ret, event)
		}
	}
	return ret
}

func TestEngine_FCFS(t *testing.T) {
	e := newEngine(t, model.FCFS, 2, proc(0, 3, 0), proc(1, 2, 0))
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)

	assert.True(t, snapshot.Completed)
	assert.Equal(t, 5, snapshot.Tick)
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 3}, {PID: 1, Start: 3, End: 5}}, snapshot.Gantt)
	assert.Equal(t, 1.0, snapshot.Metrics.AvgWait)
	assert.Equal(t, 0, snapshot.Process(0).Wait)
	assert.Equal(t, 2, snapshot.Process(1).Wait)
	assert.Equal(t, 1, snapshot.ContextSwitches)
}

func TestEngine_NonPreemptiveSelection(t *testing.T) {
	workload := []model.ProcessSpec{proc(0, 3, 1), proc(1, 2, 3), proc(1, 5, 2), proc(2, 1, 0)}
	testCases := []struct {
		algorithm model.Algorithm
		expected  []model.GanttEntry
	}{
		{
			algorithm: model.FCFS,
			expected:  []model.GanttEntry{{PID: 0, Start: 0, End: 3}, {PID: 1, Start: 3, End: 5}, {PID: 2, Start: 5, End: 10}, {PID: 3, Start: 10, End: 11}},
		},
		{
			algorithm: model.SJF,
			expected:  []model.GanttEntry{{PID: 0, Start: 0, End: 3}, {PID: 3, Start: 3, End: 4}, {PID: 1, Start: 4, End: 6}, {PID: 2, Start: 6, End: 11}},
		},
		{
			algorithm: model.Priority,
			expected:  []model.GanttEntry{{PID: 0, Start: 0, End: 3}, {PID: 3, Start: 3, End: 4}, {PID: 2, Start: 4, End: 9}, {PID: 1, Start: 9, End: 11}},
		},
		{
			algorithm: model.LJF,
			expected:  []model.GanttEntry{{PID: 0, Start: 0, End: 3}, {PID: 2, Start: 3, End: 8}, {PID: 1, Start: 8, End: 10}, {PID: 3, Start: 10, End: 11}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.algorithm.String(), func(t *testing.T) {
			e := newEngine(t, tc.algorithm, 2, workload...)
			snapshot, err := e.RunToCompletion()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, snapshot.Gantt)
			for _, event := range snapshot.Events {
				assert.NotEqual(t, model.EventPreempt, event.Kind)
			}
		})
	}
}

func TestEngine_RoundRobin(t *testing.T) {
	e := newEngine(t, model.RoundRobin, 2, proc(0, 5, 0), proc(1, 3, 0), proc(2, 4, 0))
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)

	assert.Equal(t, []model.GanttEntry{
		{PID: 0, Start: 0, End: 2},
		{PID: 1, Start: 2, End: 4},
		{PID: 2, Start: 4, End: 6},
		{PID: 0, Start: 6, End: 8},
		{PID: 1, Start: 8, End: 9},
		{PID: 2, Start: 9, End: 11},
		{PID: 0, Start: 11, End: 12},
	}, snapshot.Gantt)
	assert.Equal(t, 6, snapshot.ContextSwitches)
	assert.Equal(t, 7, snapshot.Process(0).Wait)
	assert.Equal(t, 5, snapshot.Process(1).Wait)
	assert.Equal(t, 5, snapshot.Process(2).Wait)

	again, err := newEngine(t, model.RoundRobin, 2, proc(0, 5, 0), proc(1, 3, 0), proc(2, 4, 0)).RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, snapshot, again, "timeline is reproducible")
}

func TestEngine_RoundRobinRenewsAlone(t *testing.T) {
	e := newEngine(t, model.RoundRobin, 1, proc(0, 3, 0))
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 3}}, snapshot.Gantt)
	assert.Equal(t, []model.Event{
		{Tick: 0, Kind: model.EventArrive, PID: 0},
		{Tick: 0, Kind: model.EventDispatch, PID: 0},
		{Tick: 2, Kind: model.EventComplete, PID: 0},
	}, snapshot.Events)
}

func TestEngine_SRTFPreemption(t *testing.T) {
	e := newEngine(t, model.SRTF, 2, proc(0, 6, 0), proc(2, 1, 0))
	for i := 0; i < 2; i++ {
		snapshot, err := e.Tick()
		require.NoError(t, err)
		assert.Equal(t, 0, snapshot.RunningPID)
		for _, event := range eventsAt(snapshot, i) {
			assert.NotEqual(t, model.EventPreempt, event.Kind, "no preemption before the arrival")
		}
	}
	snapshot, err := e.Tick()
	require.NoError(t, err)
	assert.Equal(t, []model.Event{
		{Tick: 2, Kind: model.EventArrive, PID: 1},
		{Tick: 2, Kind: model.EventPreempt, PID: 0, Reason: model.ReasonShorterRemaining},
		{Tick: 2, Kind: model.EventContextSwitch, PID: 1, FromPID: 0, ToPID: 1},
		{Tick: 2, Kind: model.EventDispatch, PID: 1},
		{Tick: 2, Kind: model.EventComplete, PID: 1},
	}, eventsAt(snapshot, 2))

	snapshot, err = e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 2}, {PID: 1, Start: 2, End: 3}, {PID: 0, Start: 3, End: 7}}, snapshot.Gantt)
}

func TestEngine_LRTFTieKeeps(t *testing.T) {
	e := newEngine(t, model.LRTF, 2, proc(0, 3, 0), proc(1, 2, 0))
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)
	// At tick 1 both have two units left so the running process keeps the CPU.
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 2}, {PID: 1, Start: 2, End: 4}, {PID: 0, Start: 4, End: 5}}, snapshot.Gantt)
	assert.Equal(t, model.ReasonLongerRemaining, eventsAt(snapshot, 2)[0].Reason)
}

func TestEngine_MLFQDemotion(t *testing.T) {
	e := newEngine(t, model.MLFQ, 2, proc(0, 5, 0), proc(0, 3, 0))
	var snapshot *model.Snapshot
	var err error
	for i := 0; i < 3; i++ {
		snapshot, err = e.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, []model.ReadyLevel{
		{Level: 0, Quantum: 2, PIDs: []int{}},
		{Level: 1, Quantum: 4, PIDs: []int{0}},
		{Level: 2, Quantum: 0, PIDs: []int{}},
	}, snapshot.ReadyQueues)
	demoted := snapshot.Process(0)
	assert.Equal(t, model.StateReady, demoted.State)
	assert.Equal(t, 1, demoted.Level)
	assert.Equal(t, 4, demoted.QuantumLeft)
	assert.Equal(t, []model.Event{
		{Tick: 2, Kind: model.EventPreempt, PID: 0, Reason: model.ReasonQuantum},
		{Tick: 2, Kind: model.EventDemote, PID: 0, FromLevel: 0, ToLevel: 1},
		{Tick: 2, Kind: model.EventContextSwitch, PID: 1, FromPID: 0, ToPID: 1},
		{Tick: 2, Kind: model.EventDispatch, PID: 1},
	}, eventsAt(snapshot, 2))

	snapshot, err = e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, []model.GanttEntry{
		{PID: 0, Start: 0, End: 2},
		{PID: 1, Start: 2, End: 4},
		{PID: 0, Start: 4, End: 7},
		{PID: 1, Start: 7, End: 8},
	}, snapshot.Gantt)
}

func TestEngine_MLFQHigherLevelPreemption(t *testing.T) {
	e := newEngine(t, model.MLFQ, 1, proc(0, 6, 0), proc(2, 1, 0))
	var snapshot *model.Snapshot
	var err error
	for i := 0; i < 3; i++ {
		snapshot, err = e.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, []model.Event{
		{Tick: 1, Kind: model.EventPreempt, PID: 0, Reason: model.ReasonQuantum},
		{Tick: 1, Kind: model.EventDemote, PID: 0, FromLevel: 0, ToLevel: 1},
	}, eventsAt(snapshot, 1), "re-dispatching the same process is not a new dispatch")
	assert.Equal(t, model.ReasonHigherLevel, eventsAt(snapshot, 2)[1].Reason)
	assert.Equal(t, []int{0}, snapshot.ReadyQueues[1].PIDs)
	assert.Equal(t, 1, snapshot.Process(0).QuantumLeft, "the unused slice is kept")

	snapshot, err = e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 2}, {PID: 1, Start: 2, End: 3}, {PID: 0, Start: 3, End: 7}}, snapshot.Gantt)
	assert.Equal(t, 2, snapshot.Process(0).Level)
}

func TestEngine_IdleGap(t *testing.T) {
	e := newEngine(t, model.FCFS, 2, proc(2, 1, 0))
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, []model.GanttEntry{{PID: model.IdlePID, Start: 0, End: 2}, {PID: 0, Start: 2, End: 3}}, snapshot.Gantt)
	assert.Equal(t, 2, snapshot.Metrics.TotalIdle)
	assert.Equal(t, 100.0, snapshot.Metrics.CPUUtilization)
	assert.Equal(t, 1.0, snapshot.Metrics.Throughput)
	assert.Equal(t, 0, snapshot.ContextSwitches)
	assert.Equal(t, model.EventIdle, snapshot.Events[0].Kind)
}

func TestEngine_EmptyWorkload(t *testing.T) {
	for _, algorithm := range model.Algorithms {
		e := newEngine(t, algorithm, 2)
		snapshot, err := e.RunToCompletion()
		require.NoError(t, err)
		assert.True(t, snapshot.Completed, algorithm.String())
		assert.Equal(t, 0, snapshot.Tick)
		assert.Equal(t, model.IdlePID, snapshot.RunningPID)
		assert.Equal(t, model.Metrics{}, snapshot.Metrics)
		assert.Empty(t, snapshot.Gantt)
		assert.Empty(t, snapshot.Events)
	}
}

func TestEngine_Invariants(t *testing.T) {
	workload := []model.ProcessSpec{
		proc(0, 4, 2), proc(1, 3, 1), proc(2, 1, 3), proc(3, 2, 0), proc(6, 5, 1), proc(20, 2, 2), proc(20, 7, 0),
	}
	for _, algorithm := range model.Algorithms {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newEngine(t, algorithm, 2, workload...)
			var snapshot *model.Snapshot
			var err error
			for !e.Completed() {
				snapshot, err = e.Tick()
				require.NoError(t, err)
				executed, busy := 0, 0
				for _, p := range snapshot.Processes {
					executed += p.Burst - p.Remaining
				}
				for _, entry := range snapshot.Gantt {
					if !entry.Idle() {
						busy += entry.Len()
					}
				}
				require.Equal(t, executed, busy, "conservation at tick %d", snapshot.Tick)
				if running := snapshot.Process(snapshot.RunningPID); running != nil {
					require.NotContains(t, snapshot.ReadyPIDs(), running.PID)
				}
			}
			switches := 0
			for _, event := range snapshot.Events {
				if event.Kind == model.EventContextSwitch {
					switches++
				}
			}
			assert.Equal(t, switches, snapshot.ContextSwitches)
			assert.Equal(t, switches, snapshot.Metrics.ContextSwitches)
			assert.Equal(t, len(workload), snapshot.Metrics.Completed)
			for _, p := range snapshot.Processes {
				assert.Equal(t, model.StateTerminated, p.State)
				assert.Equal(t, 0, p.Remaining)
				assert.Equal(t, p.Finish-p.Arrival, p.Turnaround)
				assert.Equal(t, p.Turnaround-p.Burst, p.Wait)
				assert.Equal(t, p.Start-p.Arrival, p.Response)
			}
			for i := 1; i < len(snapshot.Gantt); i++ {
				assert.Equal(t, snapshot.Gantt[i-1].End, snapshot.Gantt[i].Start)
				assert.NotEqual(t, snapshot.Gantt[i-1].PID, snapshot.Gantt[i].PID)
			}
			assert.Len(t, snapshot.MetricsHistory, snapshot.Tick)
		})
	}
}

func TestEngine_SnapshotIdempotence(t *testing.T) {
	e := newEngine(t, model.RoundRobin, 2, proc(0, 5, 0), proc(1, 3, 0))
	_, err := e.Tick()
	require.NoError(t, err)
	_, err = e.Tick()
	require.NoError(t, err)

	first := e.Snapshot()
	second := e.Snapshot()
	assert.Equal(t, first, second)

	first.Processes[0].Remaining = 99
	first.Gantt[0].End = 99
	first.ReadyQueues[0].PIDs[0] = 99
	assert.Equal(t, second, e.Snapshot(), "snapshots never share memory with the engine")
}

func TestEngine_CompletedTickIsNoop(t *testing.T) {
	e := newEngine(t, model.FCFS, 2, proc(0, 1, 0))
	done, err := e.RunToCompletion()
	require.NoError(t, err)
	again, err := e.Tick()
	require.NoError(t, err)
	assert.Equal(t, done, again)
}

func TestEngine_TickLimit(t *testing.T) {
	e, err := New(model.FCFS, 2, WithMaxTicks(3))
	require.NoError(t, err)
	_, err = e.Submit(0, 10, 0)
	require.NoError(t, err)

	snapshot, err := e.RunToCompletion()
	require.ErrorIs(t, err, ErrTickLimitExceeded)
	assert.Equal(t, 3, snapshot.Tick)
	assert.False(t, snapshot.Completed)

	_, err = e.Tick()
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, ErrTickLimitExceeded)

	e.Reset()
	assert.NoError(t, e.Err())
}

func TestEngine_InvariantViolation(t *testing.T) {
	e := newEngine(t, model.FCFS, 2, proc(0, 3, 0))
	_, err := e.Tick()
	require.NoError(t, err)
	e.registry.Get(0).Remaining += 5

	_, err = e.Tick()
	var invariant *InvariantError
	require.True(t, errors.As(err, &invariant))
	assert.Equal(t, 0, invariant.PID)
	assert.Equal(t, 2, invariant.Tick)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = e.Tick()
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestEngine_Validation(t *testing.T) {
	_, err := New(model.RoundRobin, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantum)
	_, err = New(model.Algorithm(42), 2)
	assert.ErrorIs(t, err, model.ErrUnknownAlgorithm)

	e := newEngine(t, model.FCFS, 2)
	_, err = e.Submit(0, 0, 0)
	assert.Error(t, err)
	_, err = e.Submit(-1, 1, 0)
	assert.Error(t, err)
	assert.Empty(t, e.Workload(), "rejected submissions leave no trace")

	pid, err := e.Submit(0, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, pid)
	_, err = e.Tick()
	require.NoError(t, err)
	_, err = e.Submit(1, 1, 0)
	assert.ErrorIs(t, err, ErrSessionStarted)

	assert.ErrorIs(t, e.SetQuantum(0), ErrInvalidQuantum)
	assert.ErrorIs(t, e.SetAlgorithm(model.Algorithm(-1)), model.ErrUnknownAlgorithm)
	assert.Equal(t, 1, e.CurrentTick(), "rejected settings do not reset")
}

func TestEngine_ResetAndReconfigure(t *testing.T) {
	workload := []model.ProcessSpec{proc(0, 5, 0), proc(1, 3, 0), proc(2, 4, 0)}
	e := newEngine(t, model.RoundRobin, 2, workload...)
	first, err := e.RunToCompletion()
	require.NoError(t, err)

	e.Reset()
	reset := e.Snapshot()
	assert.Equal(t, 0, reset.Tick)
	assert.False(t, reset.Completed)
	for _, p := range reset.Processes {
		assert.Equal(t, model.StateNew, p.State)
		assert.Equal(t, p.Burst, p.Remaining)
		assert.Equal(t, -1, p.Start)
	}
	second, err := e.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, e.SetAlgorithm(model.SJF))
	assert.Equal(t, 0, e.CurrentTick())
	sjf, err := e.RunToCompletion()
	require.NoError(t, err)
	fresh, err := newEngine(t, model.SJF, 2, workload...).RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, fresh, sjf)

	require.NoError(t, e.SetQuantum(3))
	assert.Equal(t, 3, e.Snapshot().Quantum)
	_, err = e.Submit(3, 1, 0)
	assert.NoError(t, err, "submitting after reset is allowed")

	e.Clear()
	assert.Empty(t, e.Workload())
	snapshot, err := e.RunToCompletion()
	require.NoError(t, err)
	assert.True(t, snapshot.Completed)
}

func TestEngine_PriorityAging(t *testing.T) {
	workload := []model.ProcessSpec{proc(0, 4, 0), proc(1, 1, 3), proc(1, 1, 2)}
	testCases := []struct {
		description string
		opts        []Option
		expected    []model.GanttEntry
		effective   []int
	}{
		{
			description: "disabled",
			expected:    []model.GanttEntry{{PID: 0, Start: 0, End: 4}, {PID: 2, Start: 4, End: 5}, {PID: 1, Start: 5, End: 6}},
			effective:   []int{0, 3, 2},
		},
		{
			description: "every tick",
			opts:        []Option{WithAging(1)},
			expected:    []model.GanttEntry{{PID: 0, Start: 0, End: 4}, {PID: 1, Start: 4, End: 5}, {PID: 2, Start: 5, End: 6}},
			effective:   []int{0, 0, 0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			e, err := New(model.Priority, 2, tc.opts...)
			require.NoError(t, err)
			require.NoError(t, e.SubmitAll(workload...))
			snapshot, err := e.RunToCompletion()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, snapshot.Gantt)
			for pid, expected := range tc.effective {
				assert.Equal(t, expected, snapshot.Process(pid).EffectivePriority)
				assert.Equal(t, workload[pid].Priority, snapshot.Process(pid).Priority, "input priority is immutable")
			}

			e.Reset()
			assert.Equal(t, 3, e.Snapshot().Process(1).EffectivePriority, "reset restores the input priority")
		})
	}
}

func TestEngine_StepAccessors(t *testing.T) {
	e := newEngine(t, model.FCFS, 2, proc(0, 2, 0), proc(0, 1, 0))
	assert.Equal(t, 2, e.Len())
	require.NoError(t, e.Step())
	events := e.EventsSince(0)
	assert.Equal(t, []model.Event{
		{Tick: 0, Kind: model.EventArrive, PID: 0},
		{Tick: 0, Kind: model.EventArrive, PID: 1},
		{Tick: 0, Kind: model.EventDispatch, PID: 0},
	}, events)
	assert.Len(t, e.SamplesSince(0), 1)
	assert.Equal(t, 0, e.Terminated())

	for !e.Completed() {
		require.NoError(t, e.Step())
	}
	assert.Equal(t, 2, e.Terminated())
	assert.Len(t, e.SamplesSince(1), 2)
	snapshot := e.Snapshot()
	assert.Equal(t, snapshot.Events[len(events):], e.EventsSince(len(events)))
	assert.Nil(t, e.EventsSince(len(snapshot.Events)))
}

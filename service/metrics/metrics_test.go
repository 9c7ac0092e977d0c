package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cpusched/model"
)

func finished(pid, arrival, burst, start, finish int) *model.Process {
	p := model.NewProcess(pid, arrival, burst, 0)
	p.Remaining = 0
	p.State = model.StateTerminated
	p.Start = start
	p.Response = start - arrival
	p.Finish = finish
	p.Turnaround = finish - arrival
	p.Wait = p.Turnaround - burst
	return p
}

func TestCompute(t *testing.T) {
	testCases := []struct {
		description string
		processes   []*model.Process
		input       Input
		expect      model.Metrics
	}{
		{
			description: "empty workload",
			expect:      model.Metrics{},
		},
		{
			description: "fcfs two processes",
			processes:   []*model.Process{finished(0, 0, 3, 0, 3), finished(1, 1, 2, 3, 5)},
			input:       Input{Tick: 5, BusyUnits: 5, ContextSwitches: 1},
			expect: model.Metrics{
				AvgWait:         1,
				AvgTurnaround:   3.5,
				AvgResponse:     1,
				CPUUtilization:  100,
				Throughput:      0.4,
				BusyTime:        5,
				TotalTime:       5,
				ContextSwitches: 1,
				Completed:       2,
			},
		},
		{
			description: "late arrival with idle gap",
			processes:   []*model.Process{finished(0, 2, 2, 2, 4)},
			input:       Input{Tick: 4, BusyUnits: 2, EarliestArrival: 2},
			expect: model.Metrics{
				AvgTurnaround:  2,
				CPUUtilization: 100,
				Throughput:     0.5,
				TotalIdle:      2,
				BusyTime:       2,
				TotalTime:      4,
				Completed:      1,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, Compute(tc.processes, tc.input))
		})
	}
}

func TestCompute_PartialRun(t *testing.T) {
	waiting := model.NewProcess(1, 0, 4, 0)
	waiting.State = model.StateReady
	waiting.Wait = 3
	running := model.NewProcess(0, 0, 6, 0)
	running.State = model.StateRunning
	running.Start, running.Response = 0, 0
	running.Remaining = 3

	actual := Compute([]*model.Process{running, waiting}, Input{Tick: 3, BusyUnits: 3})
	assert.Equal(t, 1.5, actual.AvgWait)
	assert.Equal(t, 0.0, actual.AvgTurnaround, "nothing finished yet")
	assert.Equal(t, 0.0, actual.AvgResponse, "only dispatched processes count")
	assert.Equal(t, 0.0, actual.CPUUtilization)
	assert.Equal(t, 0, actual.Completed)
}

func TestAggregator(t *testing.T) {
	a := New()
	processes := []*model.Process{finished(0, 0, 1, 0, 1)}
	a.Refresh(processes, Input{Tick: 1, BusyUnits: 1}, model.IdlePID, 0)
	a.Refresh(processes, Input{Tick: 2, BusyUnits: 1}, model.IdlePID, 0)

	history := a.History()
	assert.Len(t, history, 2)
	assert.Equal(t, 100.0, history[0].CPUUtilization)
	assert.Equal(t, 50.0, history[1].CPUUtilization)
	assert.Equal(t, 1, a.Current().TotalIdle)
	assert.Equal(t, history[1:], a.HistorySince(1))
	assert.Nil(t, a.HistorySince(2))

	a.Reset()
	assert.Empty(t, a.History())
	assert.Equal(t, model.Metrics{}, a.Current())
}

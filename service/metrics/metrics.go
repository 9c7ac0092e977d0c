package metrics

import (
	"github.com/viant/cpusched/model"
)

// Input carries the engine counters a computation needs besides processes
type Input struct {
	Tick            int
	BusyUnits       int
	ContextSwitches int
	// EarliestArrival starts the span utilization and throughput are measured over.
	EarliestArrival int
}

// Compute derives metrics from processes at the given engine state.
// AvgWait averages over every submitted process, AvgTurnaround over finished
// ones and AvgResponse over dispatched ones.
func Compute(processes []*model.Process, input Input) model.Metrics {
	ret := model.Metrics{
		BusyTime:        input.BusyUnits,
		TotalTime:       input.Tick,
		TotalIdle:       input.Tick - input.BusyUnits,
		ContextSwitches: input.ContextSwitches,
	}
	if len(processes) == 0 {
		return ret
	}
	var wait, turnaround, response, finishedBurst, dispatched int
	for _, p := range processes {
		wait += p.Wait
		if p.Dispatched() {
			dispatched++
			response += p.Response
		}
		if p.IsTerminated() {
			ret.Completed++
			turnaround += p.Turnaround
			finishedBurst += p.Burst
		}
	}
	ret.AvgWait = float64(wait) / float64(len(processes))
	if ret.Completed > 0 {
		ret.AvgTurnaround = float64(turnaround) / float64(ret.Completed)
	}
	if dispatched > 0 {
		ret.AvgResponse = float64(response) / float64(dispatched)
	}
	if span := input.Tick - input.EarliestArrival; span > 0 {
		ret.CPUUtilization = float64(finishedBurst) / float64(span) * 100
		ret.Throughput = float64(ret.Completed) / float64(span)
	}
	return ret
}

// Sample builds one history point from computed metrics
func Sample(metrics model.Metrics, tick, runningPID, readyLen int) model.MetricsSample {
	return model.MetricsSample{
		Tick:             tick,
		RunningPID:       runningPID,
		ReadyQueueLength: readyLen,
		CPUUtilization:   metrics.CPUUtilization,
		Throughput:       metrics.Throughput,
		ContextSwitches:  metrics.ContextSwitches,
		AvgWait:          metrics.AvgWait,
		AvgTurnaround:    metrics.AvgTurnaround,
		AvgResponse:      metrics.AvgResponse,
	}
}

// Aggregator keeps the latest metrics and their per-tick history
type Aggregator struct {
	current model.Metrics
	history []model.MetricsSample
}

// Refresh recomputes metrics and appends a history sample
func (a *Aggregator) Refresh(processes []*model.Process, input Input, runningPID, readyLen int) model.Metrics {
	a.current = Compute(processes, input)
	a.history = append(a.history, Sample(a.current, input.Tick, runningPID, readyLen))
	return a.current
}

func (a *Aggregator) Current() model.Metrics {
	return a.current
}

// History returns a copy of all samples
func (a *Aggregator) History() []model.MetricsSample {
	return a.HistorySince(0)
}

// HistorySince returns a copy of the samples recorded after the first n
func (a *Aggregator) HistorySince(n int) []model.MetricsSample {
	if n < 0 {
		n = 0
	}
	if n >= len(a.history) {
		return nil
	}
	ret := make([]model.MetricsSample, len(a.history)-n)
	copy(ret, a.history[n:])
	return ret
}

func (a *Aggregator) Reset() {
	a.current = model.Metrics{}
	a.history = nil
}

// New creates an aggregator
func New() *Aggregator {
	return &Aggregator{}
}

package engine

import (
	"fmt"

	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/service/dispatcher"
	"github.com/viant/cpusched/service/metrics"
	"github.com/viant/cpusched/service/queue"
	"github.com/viant/cpusched/service/recorder"
	"github.com/viant/cpusched/service/registry"
)

// Engine simulates one CPU scheduled by a single algorithm
type Engine struct {
	algorithm model.Algorithm
	quantum   int
	maxTicks  int
	// agingInterval is 0 when aging is disabled.
	agingInterval int

	tick      int
	running   int
	completed bool
	err       error

	registry   *registry.Registry
	queue      *queue.Manager
	dispatcher *dispatcher.Dispatcher
	recorder   *recorder.Recorder
	metrics    *metrics.Aggregator
}

// Submit registers a process; pids are assigned in submission order.
// Submitting is only allowed before the first tick.
func (e *Engine) Submit(arrival, burst, priority int) (int, error) {
	if e.tick > 0 || e.err != nil {
		return model.IdlePID, ErrSessionStarted
	}
	pid, err := e.registry.Submit(arrival, burst, priority)
	if err != nil {
		return pid, err
	}
	e.completed = false
	return pid, nil
}

// SubmitAll registers every spec in order
func (e *Engine) SubmitAll(specs ...model.ProcessSpec) error {
	for i, spec := range specs {
		if _, err := e.Submit(spec.Arrival, spec.Burst, spec.Priority); err != nil {
			return fmt.Errorf("process %d: %w", i, err)
		}
	}
	return nil
}

// Tick advances the simulation by one time unit and returns the resulting
// snapshot. A completed engine returns its final snapshot unchanged.
func (e *Engine) Tick() (*model.Snapshot, error) {
	err := e.advance()
	return e.Snapshot(), err
}

// Step advances like Tick without building a snapshot
func (e *Engine) Step() error {
	return e.advance()
}

// RunToCompletion ticks until every process terminated or the tick cap is hit
func (e *Engine) RunToCompletion() (*model.Snapshot, error) {
	for !e.completed {
		if e.err == nil && e.tick >= e.maxTicks {
			e.err = fmt.Errorf("%w: %d", ErrTickLimitExceeded, e.maxTicks)
			return e.Snapshot(), e.err
		}
		if err := e.advance(); err != nil {
			return e.Snapshot(), err
		}
	}
	return e.Snapshot(), nil
}

func (e *Engine) advance() error {
	if e.err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, e.err)
	}
	if e.completed {
		return nil
	}
	if e.registry.Len() == 0 {
		e.completed = true
		return nil
	}
	if err := e.step(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// step runs the tick pipeline: admit, preempt, dispatch, record, execute,
// accrue waiting, verify and refresh metrics.
func (e *Engine) step() error {
	t := e.tick
	admitted, err := e.registry.AdmitArrivals(t, e.queue)
	if err != nil {
		return err
	}
	for _, pid := range admitted {
		e.recorder.Arrive(t, pid)
	}
	e.age(t)
	if err = e.preempt(t); err != nil {
		return err
	}
	if e.running == model.IdlePID {
		if pid := e.dispatcher.Select(); pid != model.IdlePID {
			if _, err = e.dispatcher.Dispatch(pid, t); err != nil {
				return err
			}
			e.running = pid
		}
	}
	e.recorder.RecordTick(e.running, t)
	if err = e.execute(t); err != nil {
		return err
	}
	for _, p := range e.registry.Processes() {
		if p.State == model.StateReady {
			p.Wait++
		}
	}
	e.tick++
	e.completed = e.registry.AllTerminated()
	if err = e.verify(); err != nil {
		return err
	}
	e.metrics.Refresh(e.registry.Processes(), e.counters(), e.running, e.queue.Len())
	return nil
}

// age runs after admission on every multiple of the aging interval
func (e *Engine) age(t int) {
	if e.agingInterval == 0 || t == 0 || t%e.agingInterval != 0 {
		return
	}
	for _, p := range e.registry.Processes() {
		if p.State == model.StateReady {
			p.Age()
		}
	}
}

func (e *Engine) preempt(t int) error {
	running := e.registry.Get(e.running)
	if running == nil {
		return nil
	}
	decision := e.dispatcher.Check(running)
	if decision.Action == dispatcher.Keep {
		return nil
	}
	from, to, err := e.dispatcher.Preempt(running, decision)
	if err != nil {
		return err
	}
	if !decision.Preempts() {
		return nil
	}
	e.recorder.Preempt(t, running.PID, decision.Reason)
	if decision.Action == dispatcher.Demote {
		e.recorder.Demote(t, running.PID, from, to)
	}
	e.running = model.IdlePID
	return nil
}

func (e *Engine) execute(t int) error {
	p := e.registry.Get(e.running)
	if p == nil {
		return nil
	}
	p.Remaining--
	if p.QuantumLeft > 0 {
		p.QuantumLeft--
	}
	if p.Remaining > 0 {
		return nil
	}
	if err := p.Transition(model.StateTerminated); err != nil {
		return err
	}
	p.Finish = t + 1
	p.Turnaround = p.Finish - p.Arrival
	e.recorder.Complete(t, p.PID)
	e.running = model.IdlePID
	return nil
}

// verify checks the per-tick invariants after the clock advanced
func (e *Engine) verify() error {
	executed := 0
	for _, p := range e.registry.Processes() {
		if reason := e.violation(p); reason != "" {
			return &InvariantError{PID: p.PID, Tick: e.tick, Reason: reason}
		}
		executed += p.Executed()
	}
	if busy := e.recorder.BusyUnits(); executed != busy {
		return &InvariantError{PID: model.IdlePID, Tick: e.tick, Reason: fmt.Sprintf("executed %d units but recorded %d busy units", executed, busy)}
	}
	return nil
}

func (e *Engine) violation(p *model.Process) string {
	if p.Remaining < 0 || p.Remaining > p.Burst {
		return fmt.Sprintf("remaining %d outside [0, %d]", p.Remaining, p.Burst)
	}
	if p.EffectivePriority > p.Priority {
		return fmt.Sprintf("effective priority %d above priority %d", p.EffectivePriority, p.Priority)
	}
	queued := e.queue.Contains(p.PID)
	switch p.State {
	case model.StateNew:
		if queued {
			return "new process in ready queue"
		}
	case model.StateReady:
		if !queued {
			return "ready process missing from ready queue"
		}
	case model.StateRunning:
		if queued || p.PID != e.running {
			return "running process is not the CPU occupant"
		}
	case model.StateTerminated:
		if queued || p.Remaining != 0 {
			return "terminated process still holds work"
		}
		if p.Wait != p.Turnaround-p.Burst {
			return fmt.Sprintf("wait %d differs from turnaround %d - burst %d", p.Wait, p.Turnaround, p.Burst)
		}
	}
	return ""
}

func (e *Engine) counters() metrics.Input {
	earliest, _ := e.registry.EarliestArrival()
	return metrics.Input{Tick: e.tick, BusyUnits: e.recorder.BusyUnits(), ContextSwitches: e.recorder.ContextSwitches(), EarliestArrival: earliest}
}

// Snapshot returns a deep copy of the simulation state
func (e *Engine) Snapshot() *model.Snapshot {
	return &model.Snapshot{
		Tick:            e.tick,
		RunningPID:      e.running,
		Completed:       e.completed,
		Algorithm:       e.algorithm,
		Quantum:         e.quantum,
		Processes:       e.registry.Clone(),
		Gantt:           e.recorder.Gantt(),
		ReadyQueues:     e.queue.Snapshot(),
		Metrics:         e.metrics.Current(),
		MetricsHistory:  e.metrics.History(),
		Events:          e.recorder.Events(),
		ContextSwitches: e.recorder.ContextSwitches(),
	}
}

// Reset re-admits the submitted workload from tick 0 under the current
// algorithm and quantum.
func (e *Engine) Reset() {
	e.registry.Reset()
	e.queue = queue.New(e.algorithm, e.quantum)
	e.dispatcher = dispatcher.New(e.algorithm, e.queue, e.registry)
	e.recorder.Reset()
	e.metrics.Reset()
	e.tick = 0
	e.running = model.IdlePID
	e.completed = false
	e.err = nil
}

// Clear drops the workload and resets the engine
func (e *Engine) Clear() {
	e.registry.Clear()
	e.Reset()
}

// SetAlgorithm switches the policy and resets the simulation
func (e *Engine) SetAlgorithm(algorithm model.Algorithm) error {
	if !algorithm.Valid() {
		return fmt.Errorf("%w: %d", model.ErrUnknownAlgorithm, int(algorithm))
	}
	e.algorithm = algorithm
	e.Reset()
	return nil
}

// SetQuantum changes the time quantum and resets the simulation
func (e *Engine) SetQuantum(quantum int) error {
	if quantum < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantum, quantum)
	}
	e.quantum = quantum
	e.Reset()
	return nil
}

func (e *Engine) Algorithm() model.Algorithm { return e.algorithm }

func (e *Engine) Quantum() int { return e.quantum }

func (e *Engine) MaxTicks() int { return e.maxTicks }

// AgingInterval returns 0 when aging is disabled
func (e *Engine) AgingInterval() int { return e.agingInterval }

// Len returns the number of submitted processes
func (e *Engine) Len() int { return e.registry.Len() }

// Terminated returns how many processes finished as of the last tick
func (e *Engine) Terminated() int { return e.metrics.Current().Completed }

// EventsSince returns the kernel log entries after the first n
func (e *Engine) EventsSince(n int) []model.Event { return e.recorder.EventsSince(n) }

// SamplesSince returns the metrics samples after the first n
func (e *Engine) SamplesSince(n int) []model.MetricsSample { return e.metrics.HistorySince(n) }

// CurrentTick returns the number of ticks simulated so far
func (e *Engine) CurrentTick() int { return e.tick }

func (e *Engine) Completed() bool { return e.completed }

// Running returns the pid holding the CPU or model.IdlePID
func (e *Engine) Running() int { return e.running }

// Err returns the error that aborted the engine, if any
func (e *Engine) Err() error { return e.err }

// Workload returns the submitted process inputs in pid order
func (e *Engine) Workload() []model.ProcessSpec {
	return e.registry.Specs()
}

// New creates an engine for algorithm with the given time quantum. The
// quantum is validated for every algorithm and used by RR and MLFQ only.
func New(algorithm model.Algorithm, quantum int, opts ...Option) (*Engine, error) {
	if !algorithm.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownAlgorithm, int(algorithm))
	}
	if quantum < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantum, quantum)
	}
	ret := &Engine{
		algorithm: algorithm,
		quantum:   quantum,
		maxTicks:  DefaultMaxTicks,
		registry:  registry.New(),
		recorder:  recorder.New(),
		metrics:   metrics.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.Reset()
	return ret, nil
}

package cpusched

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/cpusched/engine"
	"github.com/viant/cpusched/internal/clock"
	"github.com/viant/cpusched/internal/idgen"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/progress"
	"github.com/viant/cpusched/service/event"
	"github.com/viant/cpusched/tracing"
)

// Session is one simulation owned by a Service. It is safe for
// concurrent use; every call is serialised.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	mu        sync.Mutex
	engine    *engine.Engine
	logger    *slog.Logger
	events    *event.Publisher[model.Event]
	samples   *event.Publisher[model.MetricsSample]
	tracker   *progress.Progress
	published int
	sampled   int
}

// Submit adds a process and returns its pid
func (s *Session) Submit(arrival, burst, priority int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, err := s.engine.Submit(arrival, burst, priority)
	if err != nil {
		return pid, err
	}
	s.track()
	return pid, nil
}

// SubmitWorkload adds every process of aWorkload in order
func (s *Session) SubmitWorkload(aWorkload *model.Workload) error {
	if err := aWorkload.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.engine.SubmitAll(aWorkload.Processes...)
	s.track()
	return err
}

// Tick advances the simulation by one time unit
func (s *Session) Tick(ctx context.Context) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := s.engine.Tick()
	s.observe(ctx, err)
	return snapshot, err
}

// RunToCompletion ticks until every process terminated, the tick cap is
// hit or ctx is done.
func (s *Session) RunToCompletion(ctx context.Context) (snapshot *model.Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	started := clock.Now()
	ctx, span := tracing.StartSpan(ctx, "session.run")
	span.WithAttributes(map[string]string{"session": s.ID, "algorithm": s.engine.Algorithm().String()})
	defer func() {
		if snapshot != nil {
			span.WithAttributes(tracing.Attrs(map[string]int{"ticks": snapshot.Tick, "contextSwitches": snapshot.ContextSwitches}))
		}
		tracing.EndSpan(span, err)
	}()
	for !s.engine.Completed() {
		if err = ctx.Err(); err != nil {
			return s.engine.Snapshot(), err
		}
		if s.engine.CurrentTick() >= s.engine.MaxTicks() {
			_, err = s.engine.RunToCompletion()
		} else {
			err = s.engine.Step()
		}
		s.observe(ctx, err)
		if err != nil {
			return s.engine.Snapshot(), err
		}
	}
	snapshot = s.engine.Snapshot()
	s.logger.Info("session completed",
		slog.String("session", s.ID),
		slog.String("algorithm", snapshot.Algorithm.String()),
		slog.Int("tick", snapshot.Tick),
		slog.Float64("avgWaitTime", snapshot.Metrics.AvgWait),
		slog.Float64("avgTurnaroundTime", snapshot.Metrics.AvgTurnaround),
		slog.String("trace", span.TraceID()),
		slog.Duration("elapsed", clock.Since(started)))
	return snapshot, nil
}

// observe publishes what the last step appended and refreshes progress
func (s *Session) observe(ctx context.Context, err error) {
	algorithm := s.engine.Algorithm().String()
	if err != nil && !errors.Is(err, engine.ErrAborted) {
		s.logger.Error("session aborted",
			slog.String("session", s.ID),
			slog.String("algorithm", algorithm),
			slog.Int("tick", s.engine.CurrentTick()),
			errAttr(err))
	}
	s.track()
	events := s.engine.EventsSince(s.published)
	s.published += len(events)
	if s.events != nil && s.events.Observed() {
		dropped := 0
		for _, item := range events {
			aContext := &event.Context{SessionID: s.ID, Algorithm: algorithm, Tick: item.Tick, EventType: string(item.Kind)}
			if pubErr := s.events.TryPublish(event.NewEvent(aContext, item)); pubErr != nil {
				dropped++
			}
		}
		s.dropped(ctx, "event", dropped)
	}
	samples := s.engine.SamplesSince(s.sampled)
	s.sampled += len(samples)
	if s.samples != nil && s.samples.Observed() {
		dropped := 0
		for _, item := range samples {
			aContext := &event.Context{SessionID: s.ID, Algorithm: algorithm, Tick: item.Tick, EventType: "metrics"}
			if pubErr := s.samples.TryPublish(event.NewEvent(aContext, item)); pubErr != nil {
				dropped++
			}
		}
		s.dropped(ctx, "sample", dropped)
	}
}

func (s *Session) dropped(ctx context.Context, kind string, count int) {
	if count == 0 {
		return
	}
	s.logger.WarnContext(ctx, kind+"s dropped",
		slog.String("session", s.ID),
		slog.Int("tick", s.engine.CurrentTick()),
		slog.Int("count", count))
}

// track mirrors engine counters into the progress tracker; callers hold mu
func (s *Session) track() {
	total := s.engine.Len()
	completed := s.engine.Terminated()
	running := 0
	if s.engine.Running() != model.IdlePID {
		running = 1
	}
	failed := 0
	if s.engine.Err() != nil {
		failed = total - completed
	}
	s.tracker.Set(progress.Delta{
		Total:     total,
		Completed: completed,
		Failed:    failed,
		Running:   running,
		Pending:   total - completed - running,
		Ticks:     s.engine.CurrentTick(),
	})
}

// Snapshot returns the current state without advancing
func (s *Session) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Progress returns the tracker status
func (s *Session) Progress() progress.Status {
	return s.tracker.Snapshot()
}

// OnProgress registers a callback invoked after every progress change
func (s *Session) OnProgress(cb func(progress.Status)) {
	s.tracker.OnChange(cb)
}

// Reset replays the submitted workload from tick 0
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
	s.rewind()
	s.logger.Info("session reset", slog.String("session", s.ID))
}

// Clear drops the workload
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Clear()
	s.rewind()
}

// SetAlgorithm switches the policy and resets the simulation
func (s *Session) SetAlgorithm(algorithm model.Algorithm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SetAlgorithm(algorithm); err != nil {
		return err
	}
	s.rewind()
	return nil
}

// SetQuantum changes the time quantum and resets the simulation
func (s *Session) SetQuantum(quantum int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SetQuantum(quantum); err != nil {
		return err
	}
	s.rewind()
	return nil
}

func (s *Session) rewind() {
	s.published = 0
	s.sampled = 0
	s.track()
}

func (s *Session) Algorithm() model.Algorithm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Algorithm()
}

func (s *Session) Quantum() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Quantum()
}

// Workload returns the submitted processes as a workload document
func (s *Session) Workload() *model.Workload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.Workload{
		Name:      s.Name,
		Algorithm: s.engine.Algorithm().String(),
		Quantum:   s.engine.Quantum(),
		Processes: s.engine.Workload(),
	}
}

func newSession(name string, anEngine *engine.Engine, logger *slog.Logger, events *event.Service) (*Session, error) {
	id := idgen.New()
	ret := &Session{
		ID:        id,
		Name:      name,
		CreatedAt: clock.Now(),
		engine:    anEngine,
		logger:    logger,
		tracker:   progress.New(id, anEngine.Algorithm().String(), nil),
	}
	if events != nil {
		var err error
		if ret.events, err = event.PublisherOf[model.Event](events); err != nil {
			return nil, err
		}
		if ret.samples, err = event.PublisherOf[model.MetricsSample](events); err != nil {
			return nil, err
		}
	}
	ret.track()
	return ret, nil
}

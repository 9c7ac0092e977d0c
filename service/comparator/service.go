package comparator

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/cpusched/engine"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/progress"
	"github.com/viant/cpusched/tracing"
)

// Result holds the outcome of one algorithm
type Result struct {
	Algorithm model.Algorithm    `json:"algorithm" yaml:"algorithm"`
	Quantum   int                `json:"quantum" yaml:"quantum"`
	Ticks     int                `json:"ticks" yaml:"ticks"`
	Metrics   model.Metrics      `json:"metrics" yaml:"metrics"`
	Gantt     []model.GanttEntry `json:"gantt" yaml:"gantt"`
	Processes []*model.Process   `json:"processes" yaml:"processes"`
	Error     string             `json:"error,omitempty" yaml:"error,omitempty"`
	Err       error              `json:"-" yaml:"-"`
}

// Service compares algorithms
type Service struct {
	config Config
}

type job struct {
	index     int
	algorithm model.Algorithm
}

// Compare simulates workload under every algorithm (all of model.Algorithms
// when none are given) and returns results in the requested order. A failing
// algorithm is reported in its Result; only invalid input or a cancelled
// context fail the whole call.
func (s *Service) Compare(ctx context.Context, workload *model.Workload, algorithms ...model.Algorithm) (results []*Result, err error) {
	if err = workload.Validate(); err != nil {
		return nil, err
	}
	if len(algorithms) == 0 {
		algorithms = model.Algorithms
	}
	for _, algorithm := range algorithms {
		if !algorithm.Valid() {
			return nil, fmt.Errorf("%w: %d", model.ErrUnknownAlgorithm, int(algorithm))
		}
	}
	quantum := workload.Quantum
	if quantum == 0 {
		quantum = s.config.Quantum
	}

	ctx, span := tracing.StartSpan(ctx, "comparator.compare")
	span.WithAttributes(map[string]string{"workload": workload.Name})
	span.WithAttributes(tracing.Attrs(map[string]int{"algorithms": len(algorithms), "processes": len(workload.Processes)}))
	defer func() { tracing.EndSpan(span, err) }()
	progress.UpdateCtx(ctx, progress.Delta{Total: len(algorithms), Pending: len(algorithms)})

	results = make([]*Result, len(algorithms))
	jobs := make(chan job)
	workers := s.config.Workers
	if workers > len(algorithms) {
		workers = len(algorithms)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Running: 1})
				result := s.run(ctx, workload, j.algorithm, quantum)
				results[j.index] = result
				if result.Err != nil {
					progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1, Ticks: result.Ticks})
					continue
				}
				progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1, Ticks: result.Ticks})
			}
		}()
	}

	for i, algorithm := range algorithms {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- job{index: i, algorithm: algorithm}:
		case <-ctx.Done():
			err = ctx.Err()
		}
		if err != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) run(ctx context.Context, workload *model.Workload, algorithm model.Algorithm, quantum int) *Result {
	ret := &Result{Algorithm: algorithm, Quantum: quantum}
	e, err := engine.New(algorithm, quantum, engine.WithMaxTicks(s.config.MaxTicks), engine.WithAging(s.config.AgingInterval))
	if err == nil {
		err = e.SubmitAll(workload.Processes...)
	}
	if err != nil {
		ret.Err, ret.Error = err, err.Error()
		return ret
	}
	snapshot, err := e.RunToCompletion()
	ret.Ticks = snapshot.Tick
	ret.Metrics = snapshot.Metrics
	ret.Gantt = snapshot.Gantt
	ret.Processes = snapshot.Processes
	if err != nil {
		ret.Err, ret.Error = err, err.Error()
	}
	if span, ok := tracing.SpanFromContext(ctx); ok {
		span.AddEvent(algorithm.String(), map[string]int{"ticks": ret.Ticks, "contextSwitches": ret.Metrics.ContextSwitches})
	}
	return ret
}

// Best returns the successful result with the lowest score, or nil
func Best(results []*Result, score func(model.Metrics) float64) *Result {
	var ret *Result
	for _, result := range results {
		if result == nil || result.Err != nil {
			continue
		}
		if ret == nil || score(result.Metrics) < score(ret.Metrics) {
			ret = result
		}
	}
	return ret
}

// New creates a comparator
func New(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{config: config}, nil
}

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/cpusched/internal/clock"
)

// Delta is a signed counter change
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Pending   int
	Ticks     int
}

// Status is a point-in-time copy of a tracker
type Status struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`

	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Failed    int `json:"failed" yaml:"failed"`
	Running   int `json:"running" yaml:"running"`
	Pending   int `json:"pending" yaml:"pending"`
	Ticks     int `json:"ticks" yaml:"ticks"`
}

// Done reports whether every tracked unit finished or failed
func (s Status) Done() bool {
	return s.Total > 0 && s.Completed+s.Failed >= s.Total
}

// Progress aggregates counters; it is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	status   Status
	onChange func(Status)
}

// Update applies d and invokes the OnChange callback outside the lock
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.status.Total += d.Total
	p.status.Completed += d.Completed
	p.status.Failed += d.Failed
	p.status.Running += d.Running
	p.status.Pending += d.Pending
	p.status.Ticks += d.Ticks
	snapshot := p.status
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Set overwrites the counters, keeping identification
func (p *Progress) Set(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.status.Total = d.Total
	p.status.Completed = d.Completed
	p.status.Failed = d.Failed
	p.status.Running = d.Running
	p.status.Pending = d.Pending
	p.status.Ticks = d.Ticks
	snapshot := p.status
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the current status
func (p *Progress) Snapshot() Status {
	if p == nil {
		return Status{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// OnChange registers the callback invoked after every update; nil disables it.
func (p *Progress) OnChange(cb func(Status)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// New creates a tracker
func New(id, label string, onChange func(Status)) *Progress {
	return &Progress{
		status:   Status{ID: id, Label: label, StartedAt: clock.Now()},
		onChange: onChange,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker and embeds it in a derived context
func WithNewTracker(ctx context.Context, id, label string, onChange func(Status)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := New(id, label, onChange)
	return WithTracker(ctx, tr), tr
}

// WithTracker embeds an existing tracker in ctx
func WithTracker(ctx context.Context, tr *Progress) context.Context {
	return context.WithValue(ctx, trackerKey, tr)
}

// FromContext extracts the tracker from ctx
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot
func GetSnapshot(ctx context.Context) (Status, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Status{}, false
}

// UpdateCtx applies d to the tracker carried by ctx, if any
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}

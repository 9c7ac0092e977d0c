package engine

// DefaultMaxTicks caps RunToCompletion unless WithMaxTicks says otherwise.
const DefaultMaxTicks = 10000

// Option customises an Engine
type Option func(e *Engine)

// WithAging lowers the effective priority of every READY process by one
// each interval ticks. Aging is off by default and only changes what the
// Priority policy selects.
func WithAging(interval int) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.agingInterval = interval
		}
	}
}

// WithMaxTicks sets the RunToCompletion safety cap; values < 1 are ignored.
func WithMaxTicks(maxTicks int) Option {
	return func(e *Engine) {
		if maxTicks > 0 {
			e.maxTicks = maxTicks
		}
	}
}

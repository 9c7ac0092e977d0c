// Package clock supplies wall-clock time to session bookkeeping. The
// simulation itself never reads it.
package clock

import "time"

// NowFunc returns current time; override in tests.
var NowFunc = time.Now

// Now returns NowFunc()
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t according to NowFunc
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Package engine drives a single-CPU scheduling simulation one tick at a
// time. An Engine owns its registry, ready queues, dispatcher, recorder and
// metrics aggregator and is not safe for concurrent use.
package engine

// Package event streams typed simulation events through messaging queues.
// A Service lazily creates one publisher per payload type. While a listener
// is set on the Service every typed event is also forwarded to a shared
// untyped queue.
package event

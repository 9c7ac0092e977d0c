// Package idgen issues opaque identifiers for simulation sessions and queued
// messages. Tests replace NewFunc to get stable ids.
package idgen

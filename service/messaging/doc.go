// Package messaging defines the queue abstraction used to stream simulation
// events out of a session.
package messaging

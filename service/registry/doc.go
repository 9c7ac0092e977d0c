// Package registry owns the authoritative list of simulated processes and
// admits them into the ready queues once their arrival time is reached.
package registry

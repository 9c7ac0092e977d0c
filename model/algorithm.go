package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAlgorithm is returned when an algorithm name or id cannot be resolved
var ErrUnknownAlgorithm = errors.New("unknown scheduling algorithm")

// Algorithm identifies one of the supported scheduling policies. The set is
// closed; every switch over Algorithm is expected to cover all of Algorithms.
type Algorithm int

const (
	FCFS Algorithm = iota
	SJF
	SRTF
	Priority
	RoundRobin
	LJF
	LRTF
	MLFQ
)

// Algorithms lists every policy in id order
var Algorithms = []Algorithm{FCFS, SJF, SRTF, Priority, RoundRobin, LJF, LRTF, MLFQ}

// MLFQLevels is the depth of the feedback queue ladder
const MLFQLevels = 3

var algorithmNames = [...]string{"FCFS", "SJF", "SRTF", "Priority", "RR", "LJF", "LRTF", "MLFQ"}

var algorithmAliases = map[string]Algorithm{
	"roundrobin":  RoundRobin,
	"round robin": RoundRobin,
	"round-robin": RoundRobin,
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Valid reports whether a is one of Algorithms
func (a Algorithm) Valid() bool {
	return a >= FCFS && a <= MLFQ
}

// Preemptive reports whether a running process can lose the CPU before it completes
func (a Algorithm) Preemptive() bool {
	switch a {
	case SRTF, RoundRobin, LRTF, MLFQ:
		return true
	}
	return false
}

// UsesQuantum reports whether the policy time-slices the CPU
func (a Algorithm) UsesQuantum() bool {
	return a == RoundRobin || a == MLFQ
}

// Levels returns the number of ready queues the policy maintains
func (a Algorithm) Levels() int {
	if a == MLFQ {
		return MLFQLevels
	}
	return 1
}

// MarshalText encodes the algorithm by name
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a name, alias or numeric id
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm resolves a case-insensitive name ("SRTF", "rr", "Round Robin")
// or a numeric id ("0".."7").
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if id, err := strconv.Atoi(normalized); err == nil {
		return AlgorithmByID(id)
	}
	for i, candidate := range algorithmNames {
		if strings.ToLower(candidate) == normalized {
			return Algorithm(i), nil
		}
	}
	if ret, ok := algorithmAliases[normalized]; ok {
		return ret, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// AlgorithmByID resolves a numeric policy id
func AlgorithmByID(id int) (Algorithm, error) {
	ret := Algorithm(id)
	if !ret.Valid() {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}
	return ret, nil
}

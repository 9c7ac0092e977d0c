package queue

import (
	"github.com/viant/cpusched/model"
)

// Manager holds one FIFO sequence of pids per level. Level 0 has the
// highest priority.
type Manager struct {
	levels [][]int
	quanta []int
}

// Admit places a newly arrived process at the back of level 0 with a fresh
// level-0 quantum.
func (m *Manager) Admit(p *model.Process) {
	p.Level = 0
	p.QuantumLeft = m.Quantum(0)
	m.PushBack(0, p.PID)
}

// Requeue returns a preempted process to its own level, keeping its level
// and remaining quantum.
func (m *Manager) Requeue(p *model.Process, front bool) {
	if front {
		m.PushFront(p.Level, p.PID)
		return
	}
	m.PushBack(p.Level, p.PID)
}

// Demote moves a process one level down (capped at the lowest level), resets
// its quantum to the new level's value and appends it to that level.
func (m *Manager) Demote(p *model.Process) (from, to int) {
	from = p.Level
	to = from + 1
	if to >= len(m.levels) {
		to = len(m.levels) - 1
	}
	p.Level = to
	p.QuantumLeft = m.Quantum(to)
	m.PushBack(to, p.PID)
	return from, to
}

func (m *Manager) PushBack(level, pid int) {
	m.levels[level] = append(m.levels[level], pid)
}

func (m *Manager) PushFront(level, pid int) {
	m.levels[level] = append([]int{pid}, m.levels[level]...)
}

// Remove deletes pid from whichever level holds it, preserving order
func (m *Manager) Remove(pid int) bool {
	for level, pids := range m.levels {
		for i, candidate := range pids {
			if candidate == pid {
				m.levels[level] = append(pids[:i:i], pids[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Contains reports whether pid is queued on any level
func (m *Manager) Contains(pid int) bool {
	for _, pids := range m.levels {
		for _, candidate := range pids {
			if candidate == pid {
				return true
			}
		}
	}
	return false
}

// Level returns the live pid sequence of a level; callers must not modify it.
func (m *Manager) Level(level int) []int {
	return m.levels[level]
}

// Levels returns the number of levels
func (m *Manager) Levels() int {
	return len(m.levels)
}

// Len returns the number of queued pids across all levels
func (m *Manager) Len() int {
	total := 0
	for _, pids := range m.levels {
		total += len(pids)
	}
	return total
}

// HighestNonEmpty returns the lowest index of a non-empty level, -1 when all are empty
func (m *Manager) HighestNonEmpty() int {
	for level, pids := range m.levels {
		if len(pids) > 0 {
			return level
		}
	}
	return -1
}

// Front returns the first pid of level or IdlePID
func (m *Manager) Front(level int) int {
	if len(m.levels[level]) == 0 {
		return model.IdlePID
	}
	return m.levels[level][0]
}

// Quantum returns the time slice of level; 0 means no time slice
func (m *Manager) Quantum(level int) int {
	if level < 0 || level >= len(m.quanta) {
		return 0
	}
	return m.quanta[level]
}

// Snapshot copies every level
func (m *Manager) Snapshot() []model.ReadyLevel {
	ret := make([]model.ReadyLevel, len(m.levels))
	for level, pids := range m.levels {
		ret[level] = model.ReadyLevel{
			Level:   level,
			Quantum: m.Quantum(level),
			PIDs:    append([]int{}, pids...),
		}
	}
	return ret
}

// New creates the ready queues for algorithm. For MLFQ level 0 uses quantum,
// level 1 twice that and level 2 runs first-come first-served. Round Robin
// uses quantum on its single level; every other policy has no time slice.
func New(algorithm model.Algorithm, quantum int) *Manager {
	ret := &Manager{levels: make([][]int, algorithm.Levels())}
	switch algorithm {
	case model.MLFQ:
		ret.quanta = []int{quantum, 2 * quantum, 0}
	case model.RoundRobin:
		ret.quanta = []int{quantum}
	default:
		ret.quanta = []int{0}
	}
	return ret
}

package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cpusched/model"
)

func TestRecorder_RecordTick(t *testing.T) {
	testCases := []struct {
		description     string
		occupants       []int
		expectGantt     []model.GanttEntry
		expectKinds     []model.EventKind
		expectSwitches  int
		expectBusyUnits int
	}{
		{
			description:     "merge adjacent units",
			occupants:       []int{0, 0, 0},
			expectGantt:     []model.GanttEntry{{PID: 0, Start: 0, End: 3}},
			expectKinds:     []model.EventKind{model.EventDispatch},
			expectBusyUnits: 3,
		},
		{
			description: "switch between processes",
			occupants:   []int{0, 1, 1, 0},
			expectGantt: []model.GanttEntry{{PID: 0, Start: 0, End: 1}, {PID: 1, Start: 1, End: 3}, {PID: 0, Start: 3, End: 4}},
			expectKinds: []model.EventKind{
				model.EventDispatch,
				model.EventContextSwitch, model.EventDispatch,
				model.EventContextSwitch, model.EventDispatch,
			},
			expectSwitches:  2,
			expectBusyUnits: 4,
		},
		{
			description: "idle never counts as a switch",
			occupants:   []int{model.IdlePID, 0, model.IdlePID, model.IdlePID, 1},
			expectGantt: []model.GanttEntry{
				{PID: model.IdlePID, Start: 0, End: 1},
				{PID: 0, Start: 1, End: 2},
				{PID: model.IdlePID, Start: 2, End: 4},
				{PID: 1, Start: 4, End: 5},
			},
			expectKinds: []model.EventKind{
				model.EventIdle, model.EventDispatch, model.EventIdle, model.EventIdle, model.EventDispatch,
			},
			expectBusyUnits: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			r := New()
			for tick, occupant := range tc.occupants {
				r.RecordTick(occupant, tick)
			}
			assert.Equal(t, tc.expectGantt, r.Gantt())
			var kinds []model.EventKind
			for _, event := range r.Events() {
				kinds = append(kinds, event.Kind)
			}
			assert.Equal(t, tc.expectKinds, kinds)
			assert.Equal(t, tc.expectSwitches, r.ContextSwitches())
			assert.Equal(t, tc.expectBusyUnits, r.BusyUnits())
		})
	}
}

func TestRecorder_NoMergeAcrossGap(t *testing.T) {
	r := New()
	r.RecordTick(0, 0)
	r.RecordTick(0, 2)
	assert.Equal(t, []model.GanttEntry{{PID: 0, Start: 0, End: 1}, {PID: 0, Start: 2, End: 3}}, r.Gantt())
}

func TestRecorder_EventOrder(t *testing.T) {
	r := New()
	r.RecordTick(0, 0)
	r.Arrive(1, 1)
	r.Preempt(1, 0, model.ReasonShorterRemaining)
	r.RecordTick(1, 1)
	r.Complete(1, 1)

	events := r.Events()
	assert.Equal(t, []model.Event{
		{Tick: 0, Kind: model.EventDispatch, PID: 0},
		{Tick: 1, Kind: model.EventArrive, PID: 1},
		{Tick: 1, Kind: model.EventPreempt, PID: 0, Reason: model.ReasonShorterRemaining},
		{Tick: 1, Kind: model.EventContextSwitch, PID: 1, FromPID: 0, ToPID: 1},
		{Tick: 1, Kind: model.EventDispatch, PID: 1},
		{Tick: 1, Kind: model.EventComplete, PID: 1},
	}, events)

	events[0].PID = 42
	assert.Equal(t, 0, r.Events()[0].PID, "events are returned as a copy")
}

func TestRecorder_Reset(t *testing.T) {
	r := New()
	r.RecordTick(0, 0)
	r.RecordTick(1, 1)
	r.Demote(1, 0, 0, 1)
	r.Reset()
	assert.Empty(t, r.Gantt())
	assert.Empty(t, r.Events())
	assert.Equal(t, 0, r.ContextSwitches())
	assert.Equal(t, 0, r.BusyUnits())
	r.RecordTick(2, 0)
	assert.Equal(t, []model.Event{{Tick: 0, Kind: model.EventDispatch, PID: 2}}, r.Events(), "no context switch after a reset")
}

func TestRecorder_EventsSince(t *testing.T) {
	r := New()
	r.Arrive(0, 0)
	r.RecordTick(0, 0)
	r.Complete(0, 0)
	assert.Len(t, r.EventsSince(0), 3)
	assert.Equal(t, []model.Event{{Tick: 0, Kind: model.EventComplete, PID: 0}}, r.EventsSince(2))
	assert.Nil(t, r.EventsSince(3))
	assert.Len(t, r.EventsSince(-1), 3)
}

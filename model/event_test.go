package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEvent_KeepsZeroIdentifiers(t *testing.T) {
	testCases := []struct {
		description string
		event       Event
		expected    []string
	}{
		{
			description: "switch away from the first process",
			event:       Event{Tick: 3, Kind: EventContextSwitch, PID: 1, FromPID: 0, ToPID: 1},
			expected:    []string{`"fromPid":0`, `"toPid":1`},
		},
		{
			description: "demotion out of the top level",
			event:       Event{Tick: 2, Kind: EventDemote, PID: 0, FromLevel: 0, ToLevel: 1},
			expected:    []string{`"fromLevel":0`, `"toLevel":1`},
		},
	}
	for _, tc := range testCases {
		data, err := json.Marshal(tc.event)
		require.NoError(t, err, tc.description)
		for _, fragment := range tc.expected {
			assert.Contains(t, string(data), fragment, tc.description)
		}
		document, err := yaml.Marshal(tc.event)
		require.NoError(t, err, tc.description)
		assert.Contains(t, string(document), "fromPid: 0", tc.description)
	}
}

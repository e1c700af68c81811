package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allStates = []State{StateIdle, StateUploading, StateOCR, StateAnalyzing, StateSuccess}
	allEvents = []Event{EventStart, EventUploaded, EventExtracted, EventAnalyzed, EventFail}
)

func TestTransitionTable(t *testing.T) {
	valid := map[State]map[Event]State{
		StateIdle:      {EventStart: StateUploading},
		StateUploading: {EventUploaded: StateOCR, EventFail: StateIdle},
		StateOCR:       {EventExtracted: StateAnalyzing, EventFail: StateIdle},
		StateAnalyzing: {EventAnalyzed: StateSuccess, EventFail: StateIdle},
		StateSuccess:   {EventFail: StateIdle},
	}

	for _, s := range allStates {
		for _, e := range allEvents {
			next, err := Transition(s, e)
			want, ok := valid[s][e]
			if ok {
				require.NoError(t, err, "%s on %s", e, s)
				assert.Equal(t, want, next, "%s on %s", e, s)
				continue
			}
			assert.True(t, errors.Is(err, ErrInvalidTransition), "%s on %s should be rejected", e, s)
			assert.Equal(t, s, next)
		}
	}
}

func TestMachineNotifiesObserversInOrder(t *testing.T) {
	var seen []Change
	m := NewMachine(func(c Change) { seen = append(seen, c) }, nil)

	require.NoError(t, m.Fire(EventStart))
	require.NoError(t, m.Fire(EventUploaded))
	require.NoError(t, m.Fire(EventFail))
	require.Error(t, m.Fire(EventFail))

	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, []Change{
		{From: StateIdle, To: StateUploading, Event: EventStart},
		{From: StateUploading, To: StateOCR, Event: EventUploaded},
		{From: StateOCR, To: StateIdle, Event: EventFail},
	}, seen)
}

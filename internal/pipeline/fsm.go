package pipeline

import (
	"errors"
	"fmt"
)

// State is a step of the upload → OCR → classify sequence.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateOCR       State = "ocr"
	StateAnalyzing State = "analyzing"
	StateSuccess   State = "success"
)

// Event moves the machine between states.
type Event string

const (
	EventStart     Event = "start"
	EventUploaded  Event = "uploaded"
	EventExtracted Event = "extracted"
	EventAnalyzed  Event = "analyzed"
	EventFail      Event = "fail"
)

var ErrInvalidTransition = errors.New("invalid pipeline transition")

// Transition returns the state reached by applying e in s. fail returns any
// non-idle state to idle. Every other pair outside the happy path is rejected.
func Transition(s State, e Event) (State, error) {
	switch {
	case e == EventFail && s != StateIdle:
		return StateIdle, nil
	case s == StateIdle && e == EventStart:
		return StateUploading, nil
	case s == StateUploading && e == EventUploaded:
		return StateOCR, nil
	case s == StateOCR && e == EventExtracted:
		return StateAnalyzing, nil
	case s == StateAnalyzing && e == EventAnalyzed:
		return StateSuccess, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// Change is one applied transition.
type Change struct {
	From  State `json:"from"`
	To    State `json:"to"`
	Event Event `json:"event"`
}

// Observer receives every applied transition, in order.
type Observer func(Change)

// Machine tracks the state of a single run.
type Machine struct {
	state     State
	observers []Observer
}

func NewMachine(observers ...Observer) *Machine {
	return &Machine{state: StateIdle, observers: observers}
}

func (m *Machine) State() State {
	return m.state
}

// Fire applies e. On an invalid transition the state is unchanged.
func (m *Machine) Fire(e Event) error {
	next, err := Transition(m.state, e)
	if err != nil {
		return err
	}
	ch := Change{From: m.state, To: next, Event: e}
	m.state = next
	for _, o := range m.observers {
		if o != nil {
			o(ch)
		}
	}
	return nil
}

// Package capture holds the panel's transient multi-step input state.
//
// The panel has a single input box. Flows like "create page" need to collect
// several values through it (title, then content) before the box goes back
// to plain chat. A Session is an explicit state machine: it is either Idle
// or Awaiting a specific step, and it can always be cancelled back to Idle.
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrFlowActive is returned when a flow is started while another one is
// still collecting input.
var ErrFlowActive = errors.New("another input flow is already active")

// State is the capture session's current mode.
type State int

const (
	// Idle means the input box has its default chat-send behavior.
	Idle State = iota
	// Awaiting means the next submit is consumed by the active step.
	Awaiting
)

// Validator checks one submitted value. It returns the cleaned value, or an
// error whose message is shown as the re-prompt.
type Validator func(input string) (string, error)

// NonEmpty rejects blank input.
func NonEmpty(field string) Validator {
	return func(input string) (string, error) {
		v := strings.TrimSpace(input)
		if v == "" {
			return "", fmt.Errorf("%s cannot be empty, please enter it again:", field)
		}
		return v, nil
	}
}

// PositiveInt rejects anything but a positive integer.
func PositiveInt(field string) Validator {
	return func(input string) (string, error) {
		v := strings.TrimSpace(input)
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%s must be a positive integer, please enter it again:", field)
		}
		return v, nil
	}
}

// Step is one field of a multi-field flow.
type Step struct {
	Prompt      string
	Placeholder string
	Validate    Validator
}

// Outcome reports what a submit did to the session.
type Outcome struct {
	// Consumed is false when the session was Idle and the input should go
	// through the default chat path instead.
	Consumed bool
	// Reprompt is the validation message when the step did not advance.
	Reprompt string
	// Next is the following step's prompt after a successful advance, empty
	// when the flow finished.
	Next *Step
	// Done is true once the last step resolved and the continuation fired.
	Done bool
	// Value is the accepted (cleaned) input for an advancing submit.
	Value string
}

// Session is one panel session's input-capture state machine.
type Session struct {
	mu     sync.Mutex
	state  State
	steps  []Step
	idx    int
	values []string
	done   func(values []string)
}

// NewSession creates an idle capture session.
func NewSession() *Session {
	return &Session{}
}

// Begin starts a multi-field flow. The done continuation receives one value
// per step, in order, after the last step validates.
func (s *Session) Begin(steps []Step, done func(values []string)) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return Step{}, ErrFlowActive
	}
	if len(steps) == 0 {
		return Step{}, errors.New("flow has no steps")
	}

	s.state = Awaiting
	s.steps = steps
	s.idx = 0
	s.values = make([]string, 0, len(steps))
	s.done = done
	return steps[0], nil
}

// Active reports whether a flow is collecting input.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Awaiting
}

// Current returns the step waiting for input.
func (s *Session) Current() (Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Awaiting {
		return Step{}, false
	}
	return s.steps[s.idx], true
}

// Submit feeds one input into the session. A validation failure re-prompts
// without advancing; a success advances exactly one step. The continuation
// fires synchronously when the last step resolves, after the session has
// already returned to Idle, so the continuation may start a new flow.
func (s *Session) Submit(input string) Outcome {
	s.mu.Lock()

	if s.state != Awaiting {
		s.mu.Unlock()
		return Outcome{}
	}

	step := s.steps[s.idx]
	value, err := step.Validate(input)
	if err != nil {
		s.mu.Unlock()
		return Outcome{Consumed: true, Reprompt: err.Error()}
	}

	s.values = append(s.values, value)
	s.idx++

	if s.idx < len(s.steps) {
		next := s.steps[s.idx]
		s.mu.Unlock()
		return Outcome{Consumed: true, Next: &next, Value: value}
	}

	values := s.values
	done := s.done
	s.reset()
	s.mu.Unlock()

	if done != nil {
		done(values)
	}
	return Outcome{Consumed: true, Done: true, Value: value}
}

// Cancel abandons the active flow and returns to Idle. The buffered values
// and the continuation are dropped.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Awaiting {
		return false
	}
	s.reset()
	return true
}

// reset returns to Idle. Caller holds the lock.
func (s *Session) reset() {
	s.state = Idle
	s.steps = nil
	s.idx = 0
	s.values = nil
	s.done = nil
}

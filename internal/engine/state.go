// Package engine implements the keypad calculator's transition function.
//
// A State is an immutable value: Apply never mutates its input and always
// returns a usable State, whatever the token. Operands are kept as exact
// decimal text so that what the user typed (including a trailing point or
// trailing zeros) is preserved until an arithmetic commit normalises it.
package engine

import (
	"fmt"
	"regexp"
)

const zero = "0"

// Phase names the three situations the flag/operator pair can describe.
type Phase int

const (
	// PhaseIdle is the identity state: nothing committed since start or AC.
	PhaseIdle Phase = iota
	// PhaseOperatorPending means a binary operator waits for its right operand.
	PhaseOperatorPending
	// PhaseResultShown means "=" produced the displayed result. The next digit
	// or point starts a brand-new calculation.
	PhaseResultShown
)

func (p Phase) String() string {
	switch p {
	case PhaseOperatorPending:
		return "operator_pending"
	case PhaseResultShown:
		return "result_shown"
	default:
		return "idle"
	}
}

// State is the full calculator state.
type State struct {
	Operand1           string   `json:"operand1"`
	Operand2           string   `json:"operand2"`
	PendingOp          Operator `json:"pending_op"`
	AwaitingNewOperand bool     `json:"awaiting_new_operand"`
}

// New returns the identity state.
func New() State {
	return State{Operand1: zero, Operand2: zero}
}

// Phase derives the named phase from the pending operator.
func (s State) Phase() Phase {
	switch {
	case s.PendingOp == OpEquals:
		return PhaseResultShown
	case s.PendingOp.Binary():
		return PhaseOperatorPending
	default:
		return PhaseIdle
	}
}

// Display returns the text a presentation layer should render.
func (s State) Display() string {
	if s.AwaitingNewOperand {
		return s.Operand1
	}
	return s.Operand2
}

// Display is the functional form of State.Display.
func Display(s State) string {
	return s.Display()
}

var numeral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]*)?$`)

// Validate checks a state built outside the engine, e.g. decoded from a
// request body.
func (s State) Validate() error {
	if !numeral.MatchString(s.Operand1) {
		return fmt.Errorf("operand1 %q is not a decimal numeral", s.Operand1)
	}
	if !numeral.MatchString(s.Operand2) {
		return fmt.Errorf("operand2 %q is not a decimal numeral", s.Operand2)
	}
	if !s.PendingOp.valid() {
		return fmt.Errorf("pending operator %q is not recognised", s.PendingOp)
	}
	return nil
}

package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transition describes one applied token.
type Transition struct {
	Next  State
	Class TokenClass
	// Fallback is set when an arithmetic failure (division by zero, an
	// unparseable operand) was replaced by "0".
	Fallback bool
}

// Apply returns the state that follows s after token. It never fails:
// unrecognised tokens leave the state unchanged.
func Apply(s State, token string) State {
	return Step(s, token).Next
}

// Run applies tokens in order starting from s.
func Run(s State, tokens ...string) State {
	for _, tok := range tokens {
		s = Apply(s, tok)
	}
	return s
}

// Step is Apply with details about what happened.
func Step(s State, token string) Transition {
	t := Transition{Next: s, Class: Classify(token)}

	switch t.Class {
	case ClassDigit, ClassPoint:
		t.Next = s.appendInput(token)
	case ClassOperator:
		t.Next, t.Fallback = s.pressOperator(Operator(token))
	case ClassClear:
		t.Next = New()
	case ClassPercent:
		t.Next, t.Fallback = s.modifyActive(percent)
	case ClassSign:
		t.Next, t.Fallback = s.modifyActive(negate)
	case ClassEquals:
		t.Next, t.Fallback = s.pressEquals()
	}

	return t
}

func (s State) appendInput(token string) State {
	next := s
	if s.Phase() == PhaseResultShown {
		next.Operand1 = zero
	}

	switch {
	case token == TokenPoint && strings.Contains(s.Operand2, TokenPoint):
	case token != TokenPoint && s.Operand2 == zero:
		next.Operand2 = token
	default:
		next.Operand2 = s.Operand2 + token
	}

	next.AwaitingNewOperand = false
	return next
}

func (s State) pressOperator(op Operator) (State, bool) {
	if s.AwaitingNewOperand {
		next := s
		next.PendingOp = op
		return next, false
	}
	return s.commit(op)
}

func (s State) pressEquals() (State, bool) {
	if !s.PendingOp.Binary() {
		return s, false
	}
	return s.commit(OpEquals)
}

// commit folds operand2 into operand1 with the pending operator and records
// next as the new pending operator. Without a binary operator pending,
// operand2 moves across unchanged.
func (s State) commit(next Operator) (State, bool) {
	result, ok := s.Operand2, true
	if s.PendingOp.Binary() {
		result, ok = compute(s.PendingOp, s.Operand1, s.Operand2)
	}

	return State{
		Operand1:           result,
		Operand2:           zero,
		PendingOp:          next,
		AwaitingNewOperand: true,
	}, !ok
}

// modifyActive rewrites the operand currently on display.
func (s State) modifyActive(f func(decimal.Decimal) decimal.Decimal) (State, bool) {
	next := s
	var ok bool
	if s.AwaitingNewOperand {
		next.Operand1, ok = transform(s.Operand1, f)
	} else {
		next.Operand2, ok = transform(s.Operand2, f)
	}
	return next, !ok
}

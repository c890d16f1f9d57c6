// Package fsm models a finite state machine as an editable graph of states
// and guarded transitions. It keeps the graph readable with a force layout
// and synthesizes the truth table of the machine's next-state and output
// logic.
//
// An FSM is not safe for concurrent use; the host is expected to serialise
// edits, layout ticks and synthesis.
package fsm

import (
	"errors"
	"fmt"

	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/geom"
	"github.com/ha1tch/fsm-logic/pkg/truthtable"
)

// FSM owns the states and transitions of a machine. Both are kept in
// insertion order.
type FSM struct {
	states      []*State
	transitions []*Transition
	layout      Layout
}

// New creates an FSM containing the given states.
func New(states ...*State) *FSM {
	f := &FSM{layout: DefaultLayout()}
	for _, s := range states {
		f.AddState(s)
	}
	return f
}

// Layout returns the layout constants.
func (f *FSM) Layout() Layout { return f.layout }

// SetLayout replaces the layout constants.
func (f *FSM) SetLayout(l Layout) { f.layout = l }

// AddState appends a state. A state without a number is assigned the
// current state count, or the next free number above it. Adding a state
// that is already present is a no-op.
func (f *FSM) AddState(s *State) *FSM {
	if f.Contains(s) {
		return f
	}
	if s.number < 0 {
		n := len(f.states)
		for f.numberTaken(n) {
			n++
		}
		s.number = n
	}
	f.states = append(f.states, s)
	return f
}

func (f *FSM) numberTaken(n int) bool {
	for _, s := range f.states {
		if s.number == n {
			return true
		}
	}
	return false
}

// AddTransition appends a transition as is; its states are not inserted.
func (f *FSM) AddTransition(t *Transition) *FSM {
	f.transitions = append(f.transitions, t)
	return f
}

// Transition adds a transition between two states, inserting either state
// first if it is not part of the machine yet.
func (f *FSM) Transition(from, to *State, condition expr.Expression) *FSM {
	f.AddState(from)
	f.AddState(to)
	return f.AddTransition(NewTransition(from, to, condition))
}

// TransitionByName adds a transition between two existing states looked up
// by name.
func (f *FSM) TransitionByName(from, to string, condition expr.Expression) (*FSM, error) {
	fs, err := f.FindState(from)
	if err != nil {
		return f, err
	}
	ts, err := f.FindState(to)
	if err != nil {
		return f, err
	}
	return f.Transition(fs, ts, condition), nil
}

// TransitionByNumber adds a transition between two existing states looked
// up by number.
func (f *FSM) TransitionByNumber(from, to int, condition expr.Expression) (*FSM, error) {
	fs, err := f.FindStateByNumber(from)
	if err != nil {
		return f, err
	}
	ts, err := f.FindStateByNumber(to)
	if err != nil {
		return f, err
	}
	return f.Transition(fs, ts, condition), nil
}

// FindState returns the first state with the given name.
func (f *FSM) FindState(name string) (*State, error) {
	for _, s := range f.states {
		if s.name == name {
			return s, nil
		}
	}
	return nil, &LookupError{Name: name}
}

// FindStateByNumber returns the state with the given number.
func (f *FSM) FindStateByNumber(n int) (*State, error) {
	for _, s := range f.states {
		if s.number == n {
			return s, nil
		}
	}
	return nil, &LookupError{Number: n, ByNumber: true}
}

// Initial returns the state numbered 0, or the first state if none is.
// It returns nil for an empty machine.
func (f *FSM) Initial() *State {
	if len(f.states) == 0 {
		return nil
	}
	if s, err := f.FindStateByNumber(0); err == nil {
		return s
	}
	return f.states[0]
}

// Contains reports whether s is part of the machine.
func (f *FSM) Contains(s *State) bool {
	for _, o := range f.states {
		if o == s {
			return true
		}
	}
	return false
}

// States returns the states in insertion order.
func (f *FSM) States() []*State {
	return append([]*State(nil), f.states...)
}

// Transitions returns the transitions in insertion order.
func (f *FSM) Transitions() []*Transition {
	return append([]*Transition(nil), f.transitions...)
}

// TransitionsFrom returns the transitions leaving s in insertion order.
func (f *FSM) TransitionsFrom(s *State) []*Transition {
	var out []*Transition
	for _, t := range f.transitions {
		if t.from == s {
			out = append(out, t)
		}
	}
	return out
}

// RemoveState removes s together with every transition touching it.
func (f *FSM) RemoveState(s *State) {
	states := f.states[:0]
	for _, o := range f.states {
		if o != s {
			states = append(states, o)
		}
	}
	f.states = states

	transitions := f.transitions[:0]
	for _, t := range f.transitions {
		if t.from != s && t.to != s {
			transitions = append(transitions, t)
		}
	}
	f.transitions = transitions
}

// RemoveTransition removes t.
func (f *FSM) RemoveTransition(t *Transition) {
	transitions := f.transitions[:0]
	for _, o := range f.transitions {
		if o != t {
			transitions = append(transitions, o)
		}
	}
	f.transitions = transitions
}

// Remove removes a state or transition returned by HitTest.
func (f *FSM) Remove(m Movable) {
	switch v := m.(type) {
	case *State:
		f.RemoveState(v)
	case *Transition:
		f.RemoveTransition(v)
	}
}

// HitTest returns the element at pos: the first state containing it, else
// the first transition whose curve passes within the hit tolerance, else nil.
func (f *FSM) HitTest(pos geom.Vector) Movable {
	for _, s := range f.states {
		if pos.Dist(s.pos) <= s.Radius() {
			return s
		}
	}
	for _, t := range f.transitions {
		if t.matches(pos, f.layout.HitTolerance) {
			return t
		}
	}
	return nil
}

// Validate checks the structural invariants: unique names and numbers, and
// transitions whose states belong to the machine.
func (f *FSM) Validate() error {
	var errs []error
	names := make(map[string]bool)
	numbers := make(map[int]string)
	for _, s := range f.states {
		if names[s.name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, s.name))
		}
		names[s.name] = true
		if other, ok := numbers[s.number]; ok {
			errs = append(errs, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateNumber, s.number, other, s.name))
		}
		numbers[s.number] = s.name
	}
	for i, t := range f.transitions {
		if !f.Contains(t.from) {
			errs = append(errs, fmt.Errorf("transition %d: from %w", i, &LookupError{Name: t.from.name}))
		}
		if !f.Contains(t.to) {
			errs = append(errs, fmt.Errorf("transition %d: to %w", i, &LookupError{Name: t.to.name}))
		}
	}
	return errors.Join(errs...)
}

// CreateTruthTable synthesizes the truth table of the machine with the
// default options: an input combination not covered by any transition is an
// error.
func (f *FSM) CreateTruthTable() (*truthtable.Table, error) {
	return NewTransitionTableCreator(f, SynthesisOptions{}).Create()
}

// CreateTruthTableWith synthesizes the truth table using opts.
func (f *FSM) CreateTruthTableWith(opts SynthesisOptions) (*truthtable.Table, error) {
	return NewTransitionTableCreator(f, opts).Create()
}

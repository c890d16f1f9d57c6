package fsm

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-logic/pkg/expr"
)

// Runner steps a machine through a sequence of input assignments, the way
// the synthesized logic would behave clocked once per step.
type Runner struct {
	fsm     *FSM
	initial *State
	current *State
	policy  NoMatchPolicy
	history []Step
}

// Step records one clock of execution.
type Step struct {
	From    string
	Input   expr.Assignment
	To      string
	Outputs []Output // Moore outputs of the target state
}

// NewRunner creates a runner starting in the state numbered 0, or the
// first state if there is none with that number.
func NewRunner(f *FSM, policy NoMatchPolicy) (*Runner, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state machine: %w", err)
	}
	if len(f.states) == 0 {
		return nil, ErrNoStates
	}

	initial := f.Initial()
	return &Runner{fsm: f, initial: initial, current: initial, policy: policy}, nil
}

// Current returns the current state.
func (r *Runner) Current() *State { return r.current }

// SetCurrent moves the runner to s without recording a step.
func (r *Runner) SetCurrent(s *State) error {
	if !r.fsm.Contains(s) {
		return &LookupError{Name: s.name}
	}
	r.current = s
	return nil
}

// Step applies one input assignment. On error the current state is
// unchanged.
func (r *Runner) Step(in expr.Assignment) (*State, error) {
	next, err := r.fsm.NextState(r.current, in, r.policy)
	if err != nil {
		return nil, err
	}

	r.history = append(r.history, Step{
		From:    r.current.name,
		Input:   in,
		To:      next.name,
		Outputs: next.Outputs(),
	})
	r.current = next
	return next, nil
}

// Run applies the inputs in order and returns the visited states. It stops
// at the first error.
func (r *Runner) Run(inputs []expr.Assignment) ([]*State, error) {
	var visited []*State
	for i, in := range inputs {
		s, err := r.Step(in)
		if err != nil {
			return visited, fmt.Errorf("step %d: %w", i+1, err)
		}
		visited = append(visited, s)
	}
	return visited, nil
}

// Reset returns the runner to its initial state and clears the history.
func (r *Runner) Reset() {
	r.current = r.initial
	r.history = nil
}

// History returns the recorded steps.
func (r *Runner) History() []Step {
	return append([]Step(nil), r.history...)
}

// Status describes the current state and its outputs.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.current)
	if out := r.current.ValuesString(); out != "" {
		status += " -> " + out
	}
	return status
}

// ParseInputs parses an input assignment such as "a=1, b=0". A bare name
// means 1.
func ParseInputs(text string) (expr.Assignment, error) {
	outs, err := ParseValues(text)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", strings.TrimSpace(text), err)
	}
	in := make(expr.Assignment, len(outs))
	for _, o := range outs {
		in[o.Name] = o.Value
	}
	return in, nil
}

package fsm

import (
	"fmt"
	"log/slog"
	"math/bits"
	"sort"
	"strings"

	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/truthtable"
)

// NoMatchPolicy decides what happens when no guard of the current state is
// satisfied by an input row.
type NoMatchPolicy int

const (
	// NoMatchError aborts synthesis with ErrNoTransition.
	NoMatchError NoMatchPolicy = iota
	// NoMatchStay keeps the machine in its current state, as if every state
	// had an implicit self-loop tried after all authored transitions.
	NoMatchStay
)

func (p NoMatchPolicy) String() string {
	switch p {
	case NoMatchError:
		return "error"
	case NoMatchStay:
		return "stay"
	default:
		return fmt.Sprintf("NoMatchPolicy(%d)", int(p))
	}
}

// ParseNoMatchPolicy accepts "error" and "stay".
func ParseNoMatchPolicy(s string) (NoMatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return NoMatchError, nil
	case "stay":
		return NoMatchStay, nil
	}
	return NoMatchError, fmt.Errorf("unknown no-match policy %q", s)
}

// SynthesisOptions configures a TransitionTableCreator. The zero value
// selects NoMatchError, truthtable.MaxVars and no logging.
type SynthesisOptions struct {
	NoMatch NoMatchPolicy
	// MaxVars bounds the number of table variables (state bits plus
	// inputs). Values outside 1..truthtable.MaxVars mean truthtable.MaxVars.
	MaxVars int
	Logger  *slog.Logger
}

func (o SynthesisOptions) maxVars() int {
	if o.MaxVars <= 0 || o.MaxVars > truthtable.MaxVars {
		return truthtable.MaxVars
	}
	return o.MaxVars
}

// TransitionTableCreator builds the truth table of a machine's next-state
// and output logic.
type TransitionTableCreator struct {
	fsm    *FSM
	opts   SynthesisOptions
	logger *slog.Logger
}

// NewTransitionTableCreator creates a creator for f.
func NewTransitionTableCreator(f *FSM, opts SynthesisOptions) *TransitionTableCreator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TransitionTableCreator{fsm: f, opts: opts, logger: logger}
}

// StateBits returns the number of bits needed to encode the highest state
// number, at least one.
func StateBits(maxNumber int) int {
	if maxNumber < 1 {
		return 1
	}
	return bits.Len(uint(maxNumber))
}

// StateVar returns the name of state bit i as a current-state variable.
func StateVar(i int) string { return fmt.Sprintf("Q%d_n", i) }

// NextStateVar returns the name of state bit i as a next-state result.
func NextStateVar(i int) string { return fmt.Sprintf("Q%d_n+1", i) }

// Create enumerates every combination of state bits and inputs and returns
// the resulting table. The machine is not modified. On error no table is
// returned.
func (c *TransitionTableCreator) Create() (*truthtable.Table, error) {
	states := c.fsm.states
	if len(states) == 0 {
		return nil, &SynthesisError{Err: ErrNoStates}
	}

	byNumber := make(map[int]*State, len(states))
	maxNumber := 0
	for _, s := range states {
		if s.number < 0 {
			return nil, &SynthesisError{State: s.name, Number: s.number, Err: fmt.Errorf("state has no number")}
		}
		if other, ok := byNumber[s.number]; ok {
			return nil, &SynthesisError{State: s.name, Number: s.number,
				Err: fmt.Errorf("%w: %d also used by %q", ErrDuplicateNumber, s.number, other.name)}
		}
		byNumber[s.number] = s
		if s.number > maxNumber {
			maxNumber = s.number
		}
	}

	for i, t := range c.fsm.transitions {
		for _, end := range []*State{t.from, t.to} {
			if !c.fsm.Contains(end) {
				return nil, &SynthesisError{State: t.from.name, Number: t.from.number,
					Err: fmt.Errorf("transition %d: %w", i, &LookupError{Name: end.name})}
			}
		}
	}

	stateBits := StateBits(maxNumber)
	stateVars := make(map[string]bool, stateBits)
	vars := make([]string, 0, stateBits)
	results := make([]string, 0, stateBits)
	for i := stateBits - 1; i >= 0; i-- {
		vars = append(vars, StateVar(i))
		results = append(results, NextStateVar(i))
		stateVars[StateVar(i)] = true
	}

	inputs := c.inputs()
	for _, in := range inputs {
		if stateVars[in] {
			return nil, &SynthesisError{Err: fmt.Errorf("%w: %q", ErrNameClash, in)}
		}
	}
	vars = append(vars, inputs...)
	if limit := c.opts.maxVars(); len(vars) > limit {
		return nil, &SynthesisError{Err: fmt.Errorf("%w: %d state bits and %d inputs exceed %d",
			ErrTooManyVariables, stateBits, len(inputs), limit)}
	}

	outputs := c.outputs()
	results = append(results, outputs...)

	table := truthtable.New(vars, results)
	c.logger.Debug("synthesizing truth table",
		"states", len(states), "state_bits", stateBits,
		"inputs", len(inputs), "outputs", len(outputs), "rows", table.Rows())

	for row := 0; row < table.Rows(); row++ {
		number := row >> len(inputs)
		s, ok := byNumber[number]
		if !ok {
			for r := range results {
				table.Set(r, row, truthtable.DontCare)
			}
			continue
		}

		assignment := expr.Assignment(table.Assignment(row))
		in := make(expr.Assignment, len(inputs))
		for _, name := range inputs {
			in[name] = assignment[name]
		}

		next, err := c.fsm.NextState(s, in, c.opts.NoMatch)
		if err != nil {
			c.logger.Debug("synthesis failed", "row", row, "state", s.name, "err", err)
			return nil, err
		}

		for i := 0; i < stateBits; i++ {
			bit := next.number>>(stateBits-1-i)&1 == 1
			table.Set(i, row, truthtable.Bool(bit))
		}
		for i, name := range outputs {
			table.Set(stateBits+i, row, truthtable.Bool(s.OutputValue(name)))
		}
	}
	return table, nil
}

// NextState returns the target of the first transition leaving s whose
// guard holds for in. When none holds the policy decides between staying in
// s and a *SynthesisError wrapping ErrNoTransition.
func (f *FSM) NextState(s *State, in expr.Assignment, policy NoMatchPolicy) (*State, error) {
	for _, t := range f.transitions {
		if t.from != s {
			continue
		}
		ok, err := t.Condition().Evaluate(in)
		if err != nil {
			return nil, &EvaluationError{
				From:      t.from.name,
				To:        t.to.name,
				Condition: t.Condition().String(),
				Err:       err,
			}
		}
		if ok {
			return t.to, nil
		}
	}

	if policy == NoMatchStay {
		return s, nil
	}
	return nil, &SynthesisError{
		State:      s.name,
		Number:     s.number,
		Input:      formatAssignment(in),
		Assignment: in,
		Err:        ErrNoTransition,
	}
}

// inputs collects the guard variables in order of first appearance.
func (c *TransitionTableCreator) inputs() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range c.fsm.transitions {
		for _, v := range t.Condition().Variables() {
			if !seen[v] {
				seen[v] = true
				names = append(names, v)
			}
		}
	}
	return names
}

// outputs collects the Moore output names in order of first appearance.
func (c *TransitionTableCreator) outputs() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range c.fsm.states {
		for _, o := range s.outputs {
			if !seen[o.Name] {
				seen[o.Name] = true
				names = append(names, o.Name)
			}
		}
	}
	return names
}

func formatAssignment(a expr.Assignment) string {
	if len(a) == 0 {
		return "no inputs"
	}
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		v := 0
		if a[name] {
			v = 1
		}
		parts[i] = fmt.Sprintf("%s=%d", name, v)
	}
	return strings.Join(parts, ", ")
}

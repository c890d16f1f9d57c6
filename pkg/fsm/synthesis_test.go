package fsm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/truthtable"
)

// toggle is S0 -a-> S1, S1 -!a-> S0.
func toggle(t *testing.T) *FSM {
	t.Helper()
	f := New(NewState("S0"), NewState("S1"))
	_, err := f.TransitionByName("S0", "S1", expr.MustParse("a=1"))
	require.NoError(t, err)
	_, err = f.TransitionByName("S1", "S0", expr.MustParse("a=0"))
	require.NoError(t, err)
	return f
}

func TestCreateTruthTable_UncoveredInputFails(t *testing.T) {
	f := toggle(t)
	_, err := f.TransitionByName("S0", "S0", expr.MustParse("a=0"))
	require.NoError(t, err)

	table, err := f.CreateTruthTable()

	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, ErrNoTransition))
	var se *SynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "S1", se.State)
	assert.Equal(t, 1, se.Number)
	assert.Equal(t, map[string]bool{"a": true}, se.Assignment)
	assert.Equal(t, "a=1", se.Input)
}

func TestCreateTruthTable_Stay(t *testing.T) {
	f := toggle(t)

	table, err := f.CreateTruthTableWith(SynthesisOptions{NoMatch: NoMatchStay})
	require.NoError(t, err)

	assert.Equal(t, []string{"Q0_n", "a"}, table.Vars)
	require.Len(t, table.Results, 1)
	assert.Equal(t, "Q0_n+1", table.Results[0].Name)
	require.Equal(t, 4, table.Rows())
	assert.Equal(t, []truthtable.Value{truthtable.Zero, truthtable.One, truthtable.Zero, truthtable.One},
		table.Results[0].Values)
}

func TestCreateTruthTable_CoveredMachine(t *testing.T) {
	f := toggle(t)
	s0, err := f.FindState("S0")
	require.NoError(t, err)
	s1, err := f.FindState("S1")
	require.NoError(t, err)
	f.Transition(s0, s0, nil)
	f.Transition(s1, s1, nil)

	table, err := f.CreateTruthTable()
	require.NoError(t, err)

	assert.Equal(t, []truthtable.Value{truthtable.Zero, truthtable.One, truthtable.Zero, truthtable.One},
		table.Results[0].Values)
}

func TestCreateTruthTable_FirstMatchWins(t *testing.T) {
	a, b, c := NewState("A"), NewState("B"), NewState("C")
	f := New(a, b, c)
	f.Transition(a, c, expr.Var("x"))
	f.Transition(a, b, expr.Var("x"))
	f.Transition(a, a, nil)
	f.Transition(b, b, nil)
	f.Transition(c, c, nil)

	table, err := f.CreateTruthTable()
	require.NoError(t, err)

	// Vars: Q1_n Q0_n x; row 1 is state A with x=1
	assert.Equal(t, []string{"Q1_n", "Q0_n", "x"}, table.Vars)
	row := table.Row(1)
	assert.Equal(t, truthtable.One, row[0])
	assert.Equal(t, truthtable.Zero, row[1])
}

func TestCreateTruthTable_UnusedEncodingsAreDontCare(t *testing.T) {
	a, b, c := NewState("A"), NewState("B"), NewState("C")
	f := New(a, b, c)
	f.Transition(a, b, nil).Transition(b, c, nil).Transition(c, a, nil)
	a.SetOutput("Y", true)

	table, err := f.CreateTruthTable()
	require.NoError(t, err)

	require.Equal(t, 4, table.Rows())
	assert.Equal(t, []truthtable.Value{truthtable.Zero, truthtable.One, truthtable.One}, table.Row(0))
	assert.Equal(t, []truthtable.Value{truthtable.One, truthtable.Zero, truthtable.Zero}, table.Row(1))
	assert.Equal(t, []truthtable.Value{truthtable.Zero, truthtable.Zero, truthtable.Zero}, table.Row(2))
	assert.Equal(t, []truthtable.Value{truthtable.DontCare, truthtable.DontCare, truthtable.DontCare}, table.Row(3))
}

func TestCreateTruthTable_MooreOutputs(t *testing.T) {
	f := toggle(t)
	s0, _ := f.FindState("S0")
	s1, _ := f.FindState("S1")
	s0.SetOutput("Y", false).SetOutput("Z", true)
	s1.SetOutput("Y", true)

	table, err := f.CreateTruthTableWith(SynthesisOptions{NoMatch: NoMatchStay})
	require.NoError(t, err)

	y, ok := table.Result("Y")
	require.True(t, ok)
	z, ok := table.Result("Z")
	require.True(t, ok)
	assert.Equal(t, []truthtable.Value{truthtable.Zero, truthtable.Zero, truthtable.One, truthtable.One}, y.Values)
	assert.Equal(t, []truthtable.Value{truthtable.One, truthtable.One, truthtable.Zero, truthtable.Zero}, z.Values)
}

func TestCreateTruthTable_Deterministic(t *testing.T) {
	build := func() *FSM {
		a, b := NewState("A"), NewState("B")
		f := New(a, b)
		f.Transition(a, b, expr.MustParse("x & !y"))
		f.Transition(a, a, expr.MustParse("y | !x"))
		f.Transition(b, a, expr.MustParse("x ^ y"))
		f.Transition(b, b, nil)
		return f
	}

	first, err := build().CreateTruthTable()
	require.NoError(t, err)
	f := build()
	for i := 0; i < 5; i++ {
		again, err := f.CreateTruthTable()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCreateTruthTable_DoesNotMoveAnything(t *testing.T) {
	f := toggle(t)
	f.Circle()
	before := f.States()[1].Position()

	_, _ = f.CreateTruthTable()

	assert.Equal(t, before, f.States()[1].Position())
	assert.Len(t, f.Transitions(), 2)
}

type failing struct{}

func (failing) Evaluate(expr.Assignment) (bool, error) {
	return false, &expr.Error{Kind: expr.KindSyntax, Msg: "broken"}
}
func (failing) Variables() []string { return []string{"a"} }
func (failing) String() string      { return "<broken>" }

func TestCreateTruthTable_ExpressionErrorPropagates(t *testing.T) {
	a, b := NewState("A"), NewState("B")
	f := New(a, b)
	f.Transition(a, b, failing{})

	_, err := f.CreateTruthTable()

	var ee *EvaluationError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "A", ee.From)
	var xe *expr.Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, "broken", xe.Msg)
	assert.False(t, errors.Is(err, ErrNoTransition))
}

func TestCreateTruthTable_StructuralErrors(t *testing.T) {
	_, err := New().CreateTruthTable()
	assert.ErrorIs(t, err, ErrNoStates)

	dup := New(NewState("A").SetNumber(0))
	dup.AddState(NewState("B").SetNumber(0))
	_, err = dup.CreateTruthTable()
	assert.ErrorIs(t, err, ErrDuplicateNumber)

	clash := New(NewState("A"), NewState("B"))
	_, err = clash.TransitionByName("A", "B", expr.Var("Q0_n"))
	require.NoError(t, err)
	_, err = clash.CreateTruthTable()
	assert.ErrorIs(t, err, ErrNameClash)
}

func TestStateBits(t *testing.T) {
	for maxNumber, want := range map[int]int{0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 7: 3, 8: 4} {
		assert.Equal(t, want, StateBits(maxNumber), "max %d", maxNumber)
	}
}

func TestParseNoMatchPolicy(t *testing.T) {
	p, err := ParseNoMatchPolicy("stay")
	require.NoError(t, err)
	assert.Equal(t, NoMatchStay, p)
	p, err = ParseNoMatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, NoMatchError, p)
	_, err = ParseNoMatchPolicy("maybe")
	assert.Error(t, err)
}

func TestCreateTruthTable_TransitionOutsideMachine(t *testing.T) {
	tests := []struct {
		name  string
		ghost *State
		out   bool // ghost is the source rather than the target
	}{
		{"unnumbered target", NewState("Ghost"), false},
		{"target beyond state bits", NewState("Ghost").SetNumber(5), false},
		{"source", NewState("Ghost").SetNumber(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NewState("A"), NewState("B")
			f := New(a, b)
			if tt.out {
				f.AddTransition(NewTransition(tt.ghost, a, nil))
			} else {
				f.AddTransition(NewTransition(a, tt.ghost, nil))
			}
			f.Transition(a, a, nil)
			f.Transition(b, b, nil)

			table, err := f.CreateTruthTable()

			assert.Nil(t, table)
			assert.ErrorIs(t, err, ErrStateNotFound)
			var se *SynthesisError
			require.ErrorAs(t, err, &se)
			var le *LookupError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "Ghost", le.Name)
		})
	}
}

// wideMachine has one state whose self-loop reads n distinct inputs.
func wideMachine(n int) *FSM {
	ins := make([]expr.Expression, n)
	for i := range ins {
		ins[i] = expr.Var(fmt.Sprintf("i%d", i))
	}
	s := NewState("S0")
	return New(s).Transition(s, s, expr.Or(ins...))
}

func TestCreateTruthTable_TooManyVariables(t *testing.T) {
	for _, n := range []int{truthtable.MaxVars, 62, 64} {
		table, err := wideMachine(n).CreateTruthTable()

		assert.Nil(t, table, "%d inputs", n)
		assert.ErrorIs(t, err, ErrTooManyVariables, "%d inputs", n)
		var se *SynthesisError
		assert.ErrorAs(t, err, &se)
	}
}

func TestCreateTruthTable_VariableLimit(t *testing.T) {
	opts := SynthesisOptions{MaxVars: 3}

	table, err := wideMachine(2).CreateTruthTableWith(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q0_n", "i0", "i1"}, table.Vars)
	assert.Equal(t, 8, table.Rows())

	_, err = wideMachine(3).CreateTruthTableWith(opts)
	assert.ErrorIs(t, err, ErrTooManyVariables)
}

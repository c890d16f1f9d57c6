package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

func toggleMachine(t *testing.T) *Machine {
	t.Helper()
	s0 := fsm.NewState("S0").SetOutput("Y", false)
	s1 := fsm.NewState("S1").SetOutput("Y", true)
	f := fsm.New(s0, s1)
	f.Transition(s0, s1, expr.Var("a"))
	f.Transition(s0, s0, expr.Not(expr.Var("a")))
	f.Transition(s1, s0, expr.Not(expr.Var("a")))
	f.Transition(s1, s1, nil)

	m, err := NewMachine("toggle", f, fsm.SynthesisOptions{})
	require.NoError(t, err)
	return m
}

func TestNewMachine(t *testing.T) {
	m := toggleMachine(t)

	assert.Equal(t, 1, m.StateBits)
	assert.Equal(t, []string{"a"}, m.Inputs)
	assert.Equal(t, []string{"Y"}, m.Outputs)
	assert.Equal(t, "S0", m.Initial.Name)
	assert.Equal(t, []uint32{0b00, 0b10, 0b01, 0b11}, m.Packed())
	assert.Equal(t, uint32(1), m.InputMask(0))
	assert.Equal(t, uint32(1), m.OutputMask(0))
}

func TestNewMachine_SynthesisError(t *testing.T) {
	s0, s1 := fsm.NewState("S0"), fsm.NewState("S1")
	f := fsm.New(s0, s1)
	f.Transition(s0, s1, expr.Var("a"))

	_, err := NewMachine("broken", f, fsm.SynthesisOptions{})
	assert.ErrorIs(t, err, fsm.ErrNoTransition)

	_, err = NewMachine("stay", f, fsm.SynthesisOptions{NoMatch: fsm.NoMatchStay})
	assert.NoError(t, err)
}

func TestNewMachine_TooLarge(t *testing.T) {
	a := fsm.NewState("A")
	f := fsm.New(a)
	vars := make([]expr.Expression, MaxRowBits)
	for i := range vars {
		vars[i] = expr.Var("i" + string(rune('a'+i)))
	}
	f.Transition(a, a, expr.Or(vars...))
	f.Transition(a, a, nil)

	_, err := NewMachine("big", f, fsm.SynthesisOptions{})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestGenerateGo(t *testing.T) {
	src := GenerateGo(toggleMachine(t), "toggle")

	_, err := parser.ParseFile(token.NewFileSet(), "toggle.go", src, 0)
	require.NoError(t, err, src)

	assert.Contains(t, src, "package toggle")
	assert.Contains(t, src, "ToggleStateS1 ToggleState = 1")
	assert.Contains(t, src, "ToggleInputA uint32 = 0x1")
	assert.Contains(t, src, "ToggleOutputY uint32 = 0x1")
	assert.Contains(t, src, "\t0x0, 0x2, 0x1, 0x3,\n")
	assert.Contains(t, src, "func NewToggle() *Toggle")
}

func TestGenerateGo_NoInputs(t *testing.T) {
	a, b := fsm.NewState("a state"), fsm.NewState("b-state")
	f := fsm.New(a, b)
	f.Transition(a, b, nil).Transition(b, a, nil)
	m, err := NewMachine("", f, fsm.SynthesisOptions{})
	require.NoError(t, err)

	src := GenerateGo(m, "")

	_, err = parser.ParseFile(token.NewFileSet(), "fsm.go", src, 0)
	require.NoError(t, err, src)
	assert.Contains(t, src, "FSMStateAState FSMState = 0")
	assert.Contains(t, src, "FSMStateBState FSMState = 1")
	assert.NotContains(t, src, "Input bits")
}

func TestGenerateC(t *testing.T) {
	src := GenerateC(toggleMachine(t))

	assert.Contains(t, src, "#ifndef TOGGLE_H")
	assert.Contains(t, src, "#define TOGGLE_STATE_S1 1u")
	assert.Contains(t, src, "#define TOGGLE_INPUT_A 0x1u")
	assert.Contains(t, src, "static const uint32_t toggle_table[4] = {")
	assert.Contains(t, src, "    0x0, 0x2, 0x1, 0x3,\n")
	assert.Contains(t, src, "fsm->state = TOGGLE_STATE_S0;")
	assert.Equal(t, 1, strings.Count(src, "#ifdef TOGGLE_IMPLEMENTATION"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Q0N1", toPascalCase("Q0_n+1"))
	assert.Equal(t, "q0_n_1", toSnakeCase("Q0_n+1"))
	assert.Equal(t, "Unnamed", toPascalCase("!!"))
	assert.Equal(t, "unnamed", sanitizeName(""))
}

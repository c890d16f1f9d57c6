// Package codegen generates table-driven Go and C implementations of a
// state machine from its synthesized truth table.
package codegen

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/truthtable"
)

// Limits of the packed table representation.
const (
	MaxRowBits    = 16 // state bits plus inputs
	MaxResultBits = 32 // next-state bits plus outputs
)

// ErrTooLarge means the table does not fit the packed representation.
var ErrTooLarge = errors.New("truth table too large for code generation")

// StateInfo names one state encoding.
type StateInfo struct {
	Name   string
	Number int
}

// Machine is everything a generator needs: the truth table and how its
// columns split into state bits, inputs and outputs.
type Machine struct {
	Name      string
	StateBits int
	Inputs    []string
	Outputs   []string
	States    []StateInfo
	Initial   StateInfo
	Table     *truthtable.Table
}

// NewMachine synthesizes the truth table of f.
func NewMachine(name string, f *fsm.FSM, opts fsm.SynthesisOptions) (*Machine, error) {
	table, err := f.CreateTruthTableWith(opts)
	if err != nil {
		return nil, err
	}

	m := &Machine{Name: name, Table: table}
	maxNumber := 0
	for _, s := range f.States() {
		m.States = append(m.States, StateInfo{Name: s.Name(), Number: s.Number()})
		maxNumber = max(maxNumber, s.Number())
	}
	m.Initial = m.States[0]
	for _, s := range m.States {
		if s.Number == 0 {
			m.Initial = s
		}
	}

	m.StateBits = fsm.StateBits(maxNumber)
	m.Inputs = table.Vars[m.StateBits:]
	for _, r := range table.Results[m.StateBits:] {
		m.Outputs = append(m.Outputs, r.Name)
	}

	if len(table.Vars) > MaxRowBits {
		return nil, fmt.Errorf("%w: %d row bits, at most %d", ErrTooLarge, len(table.Vars), MaxRowBits)
	}
	if len(table.Results) > MaxResultBits {
		return nil, fmt.Errorf("%w: %d result bits, at most %d", ErrTooLarge, len(table.Results), MaxResultBits)
	}
	return m, nil
}

// Packed returns one word per row: the next state in the high bits, the
// outputs below it, first output most significant. Don't care rows resolve
// to 0.
func (m *Machine) Packed() []uint32 {
	words := make([]uint32, m.Table.Rows())
	n := len(m.Table.Results)
	for row := range words {
		var w uint32
		for j, v := range m.Table.Row(row) {
			if v == truthtable.One {
				w |= 1 << (n - 1 - j)
			}
		}
		words[row] = w
	}
	return words
}

// InputMask is the bit of input i in a step argument.
func (m *Machine) InputMask(i int) uint32 { return 1 << (len(m.Inputs) - 1 - i) }

// OutputMask is the bit of output i in an outputs word.
func (m *Machine) OutputMask(i int) uint32 { return 1 << (len(m.Outputs) - 1 - i) }

func sanitizeName(s string) string {
	if s == "" {
		return "unnamed"
	}
	var result strings.Builder
	for i, r := range s {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '+' {
			result.WriteRune('_')
		}
	}
	name := result.String()
	if name == "" {
		return "unnamed"
	}
	return name
}

func toPascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(sanitizeName(s)) {
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		result.WriteString(string(r))
	}
	if result.Len() == 0 {
		return "Unknown"
	}
	return result.String()
}

func toSnakeCase(s string) string {
	words := splitWords(sanitizeName(s))
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	if len(words) == 0 {
		return "unnamed"
	}
	return strings.Join(words, "_")
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func hexWords(words []uint32, perLine int, indent string) string {
	var sb strings.Builder
	for i, w := range words {
		if i%perLine == 0 {
			sb.WriteString(indent)
		}
		sb.WriteString(fmt.Sprintf("0x%x,", w))
		if i%perLine == perLine-1 || i == len(words)-1 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

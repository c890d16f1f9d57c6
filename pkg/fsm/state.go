package fsm

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-logic/pkg/geom"
)

// State geometry constants.
const (
	MinRadius     = 30.0 // smallest state radius
	CharWidth     = 9.0  // approximate label glyph width
	RadiusPadding = 10.0
)

// Movable is anything the layout engine can push around.
type Movable interface {
	Position() geom.Vector
	SetPosition(p geom.Vector)
	// AddForce accumulates f until the next Move.
	AddForce(f geom.Vector)
	Force() geom.Vector
	// Move integrates the accumulated force over dt and clears it.
	Move(dt float64)
}

// Output is a Moore output assignment of a state.
type Output struct {
	Name  string
	Value bool
}

// State is a node of the machine.
type State struct {
	name    string
	number  int
	pos     geom.Vector
	force   geom.Vector
	outputs []Output
}

// NewState creates a state with an unset number.
func NewState(name string) *State {
	return &State{name: name, number: -1}
}

// Name returns the state name.
func (s *State) Name() string { return s.name }

// SetName renames the state.
func (s *State) SetName(name string) *State {
	s.name = name
	return s
}

// Number returns the state number, or -1 if it has not been assigned yet.
func (s *State) Number() int { return s.number }

// SetNumber sets the state number used as its binary encoding.
func (s *State) SetNumber(n int) *State {
	s.number = n
	return s
}

// Radius is derived from the label length.
func (s *State) Radius() float64 {
	r := float64(len(s.name))*CharWidth/2 + RadiusPadding
	if r < MinRadius {
		return MinRadius
	}
	return r
}

// Position implements Movable.
func (s *State) Position() geom.Vector { return s.pos }

// SetPosition implements Movable.
func (s *State) SetPosition(p geom.Vector) { s.pos = p }

// At sets the position and returns the state for chained construction.
func (s *State) At(x, y float64) *State {
	s.pos = geom.Vec(x, y)
	return s
}

// AddForce implements Movable.
func (s *State) AddForce(f geom.Vector) { s.force = s.force.Add(f) }

// Force implements Movable.
func (s *State) Force() geom.Vector { return s.force }

// Move implements Movable.
func (s *State) Move(dt float64) {
	s.pos = s.pos.Add(s.force.Mul(dt))
	s.force = geom.Zero
}

func (s *State) clearForce() { s.force = geom.Zero }

// Outputs returns the Moore output assignments in declaration order.
func (s *State) Outputs() []Output {
	return append([]Output(nil), s.outputs...)
}

// SetOutput assigns a Moore output, replacing an earlier assignment of the
// same name.
func (s *State) SetOutput(name string, v bool) *State {
	for i := range s.outputs {
		if s.outputs[i].Name == name {
			s.outputs[i].Value = v
			return s
		}
	}
	s.outputs = append(s.outputs, Output{Name: name, Value: v})
	return s
}

// SetOutputs replaces all output assignments.
func (s *State) SetOutputs(outs []Output) *State {
	s.outputs = nil
	for _, o := range outs {
		s.SetOutput(o.Name, o.Value)
	}
	return s
}

// OutputValue returns the value of the named output; unassigned outputs are false.
func (s *State) OutputValue(name string) bool {
	for _, o := range s.outputs {
		if o.Name == name {
			return o.Value
		}
	}
	return false
}

// ValuesString formats the outputs as "Y=1, Z=0".
func (s *State) ValuesString() string {
	parts := make([]string, len(s.outputs))
	for i, o := range s.outputs {
		v := 0
		if o.Value {
			v = 1
		}
		parts[i] = fmt.Sprintf("%s=%d", o.Name, v)
	}
	return strings.Join(parts, ", ")
}

func (s *State) String() string {
	return fmt.Sprintf("%s(%d)", s.name, s.number)
}

// ParseValues parses an output list such as "Y=1, Z=0". A bare name means 1.
func ParseValues(text string) ([]Output, error) {
	var outs []Output
	for _, item := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("output %q: missing name", item)
		}
		o := Output{Name: name, Value: true}
		if hasValue {
			switch strings.TrimSpace(value) {
			case "1", "true":
			case "0", "false":
				o.Value = false
			default:
				return nil, fmt.Errorf("output %q: value must be 0 or 1", item)
			}
		}
		outs = append(outs, o)
	}
	return outs, nil
}

// SetValues replaces the outputs with the parsed form of text, e.g. "Y=1, Z=0".
func (s *State) SetValues(text string) error {
	outs, err := ParseValues(text)
	if err != nil {
		return fmt.Errorf("state %q: %w", s.name, err)
	}
	s.SetOutputs(outs)
	return nil
}

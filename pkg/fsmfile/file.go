// Package fsmfile reads and writes state machine descriptions and exports
// them to Graphviz DOT.
//
// A description lists states and guarded transitions:
//
//	name: toggle
//	states:
//	  - name: S0
//	    outputs: "Y=0"
//	  - name: S1
//	    number: 1
//	    x: 120
//	    y: 0
//	transitions:
//	  - {from: S0, to: S1, condition: "a"}
//	  - {from: S1, to: S0, condition: "!a"}
//
// JSON uses the same field names.
package fsmfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

// Format is a description encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFromPath picks the format from the file extension; anything but
// .json is YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Description is the serialised form of a machine.
type Description struct {
	Name        string           `yaml:"name,omitempty" json:"name,omitempty"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	States      []StateDesc      `yaml:"states" json:"states"`
	Transitions []TransitionDesc `yaml:"transitions" json:"transitions"`
}

// StateDesc describes one state. Number and position are optional.
type StateDesc struct {
	Name    string   `yaml:"name" json:"name"`
	Number  *int     `yaml:"number,omitempty" json:"number,omitempty"`
	X       *float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y       *float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Outputs string   `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// TransitionDesc describes one transition. An empty condition is always
// true.
type TransitionDesc struct {
	From      string `yaml:"from" json:"from"`
	To        string `yaml:"to" json:"to"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Parse decodes a description.
func Parse(data []byte, format Format) (*Description, error) {
	var d Description
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	default:
		err = yaml.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	return &d, nil
}

// ReadFile reads and decodes the description at path.
func ReadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Load reads the description at path and builds the machine.
func Load(path string) (*Description, *fsm.FSM, error) {
	d, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := d.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, f, nil
}

// Build creates the machine. States are added in order, so states without
// a number are numbered by position. If any state has no position the
// whole machine is arranged on a circle.
func (d *Description) Build() (*fsm.FSM, error) {
	f := fsm.New()
	positioned := true
	for i, sd := range d.States {
		if sd.Name == "" {
			return nil, fmt.Errorf("state %d: missing name", i)
		}
		s := fsm.NewState(sd.Name)
		if sd.Number != nil {
			if *sd.Number < 0 {
				return nil, fmt.Errorf("state %q: negative number %d", sd.Name, *sd.Number)
			}
			s.SetNumber(*sd.Number)
		}
		if sd.X != nil && sd.Y != nil {
			s.At(*sd.X, *sd.Y)
		} else {
			positioned = false
		}
		if err := s.SetValues(sd.Outputs); err != nil {
			return nil, err
		}
		f.AddState(s)
	}

	for i, td := range d.Transitions {
		cond, err := expr.Parse(td.Condition)
		if err != nil {
			return nil, fmt.Errorf("transition %d (%s -> %s): %w", i, td.From, td.To, err)
		}
		if _, err := f.TransitionByName(td.From, td.To, cond); err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if !positioned {
		f.Circle()
	}
	return f, nil
}

// Describe captures the current graph of f, positions included.
func Describe(name string, f *fsm.FSM) *Description {
	d := &Description{Name: name}
	for _, s := range f.States() {
		number := s.Number()
		pos := s.Position()
		x, y := pos.X, pos.Y
		d.States = append(d.States, StateDesc{
			Name:    s.Name(),
			Number:  &number,
			X:       &x,
			Y:       &y,
			Outputs: s.ValuesString(),
		})
	}
	for _, t := range f.Transitions() {
		d.Transitions = append(d.Transitions, TransitionDesc{
			From:      t.From().Name(),
			To:        t.To().Name(),
			Condition: t.Label(),
		})
	}
	return d
}

// Marshal encodes the description.
func (d *Description) Marshal(format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(d, "", "  ")
	}
	return yaml.Marshal(d)
}

// Package truthtable holds the combinational-logic artifact produced by FSM
// synthesis and consumed by minimizers and renderers.
package truthtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Value is a ternary truth value.
type Value uint8

const (
	// Zero is logical false.
	Zero Value = iota
	// One is logical true.
	One
	// DontCare marks a value the consumer may choose freely, rendered "x".
	DontCare
)

// MaxVars is the largest number of variables a Table may have; its rows
// are enumerated in full, so the size doubles with every variable.
const MaxVars = 24

// Bool converts b to Zero or One.
func Bool(b bool) Value {
	if b {
		return One
	}
	return Zero
}

func (v Value) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "x"
	}
}

// Result is one output column.
type Result struct {
	Name   string
	Values []Value
}

// Table is a complete truth table. Row r assigns variable i the bit
// (r >> (len(Vars)-1-i)) & 1, so the first variable is the most significant.
type Table struct {
	Vars    []string
	Results []Result
}

// New creates a table with every result initialised to Zero. It panics if
// there are more than MaxVars variables.
func New(vars []string, results []string) *Table {
	if len(vars) > MaxVars {
		panic(fmt.Sprintf("truthtable: %d variables exceed %d", len(vars), MaxVars))
	}
	t := &Table{Vars: append([]string(nil), vars...)}
	rows := t.Rows()
	for _, name := range results {
		t.Results = append(t.Results, Result{Name: name, Values: make([]Value, rows)})
	}
	return t
}

// Rows returns the number of rows, 2^len(Vars).
func (t *Table) Rows() int {
	return 1 << len(t.Vars)
}

// Bit returns the value of variable i in the given row.
func (t *Table) Bit(row, i int) bool {
	return (row>>(len(t.Vars)-1-i))&1 == 1
}

// Assignment returns the variable values of a row.
func (t *Table) Assignment(row int) map[string]bool {
	a := make(map[string]bool, len(t.Vars))
	for i, v := range t.Vars {
		a[v] = t.Bit(row, i)
	}
	return a
}

// Set stores a value in the given result column.
func (t *Table) Set(result, row int, v Value) {
	t.Results[result].Values[row] = v
}

// Result returns the column with the given name.
func (t *Table) Result(name string) (Result, bool) {
	for _, r := range t.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Row returns the result values of a row, in column order.
func (t *Table) Row(row int) []Value {
	vals := make([]Value, len(t.Results))
	for i, r := range t.Results {
		vals[i] = r.Values[row]
	}
	return vals
}

// Markdown formats the table as a GitHub-flavoured Markdown table.
func (t *Table) Markdown() string {
	var sb strings.Builder

	header := append(append([]string(nil), t.Vars...), t.resultNames()...)
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" :-: |", len(header)) + "\n")

	for row := 0; row < t.Rows(); row++ {
		sb.WriteString("| " + strings.Join(t.cells(row), " | ") + " |\n")
	}
	return sb.String()
}

// WriteCSV writes the table with a header line.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), t.Vars...), t.resultNames()...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for row := 0; row < t.Rows(); row++ {
		if err := cw.Write(t.cells(row)); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) resultNames() []string {
	names := make([]string, len(t.Results))
	for i, r := range t.Results {
		names[i] = r.Name
	}
	return names
}

func (t *Table) cells(row int) []string {
	cells := make([]string, 0, len(t.Vars)+len(t.Results))
	for i := range t.Vars {
		cells = append(cells, Bool(t.Bit(row, i)).String())
	}
	for _, r := range t.Results {
		cells = append(cells, r.Values[row].String())
	}
	return cells
}

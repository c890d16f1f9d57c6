// Package expr implements the boolean guard expressions attached to FSM
// transitions.
//
// The fsm package only relies on the Expression interface; the concrete node
// types and the parser in this package are one implementation of it.
package expr

import "strings"

// Assignment maps variable names to boolean values.
type Assignment map[string]bool

// Expression is an evaluable predicate over named boolean variables.
type Expression interface {
	// Evaluate computes the expression under the given assignment.
	Evaluate(a Assignment) (bool, error)
	// Variables returns the referenced variable names in order of first appearance.
	Variables() []string
	String() string
}

// Var references an input variable.
type Var string

// Evaluate implements Expression.
func (v Var) Evaluate(a Assignment) (bool, error) {
	val, ok := a[string(v)]
	if !ok {
		return false, &Error{Kind: KindUndefined, Name: string(v), Msg: "variable not defined"}
	}
	return val, nil
}

// Variables implements Expression.
func (v Var) Variables() []string { return []string{string(v)} }

func (v Var) String() string { return string(v) }

// Const is a boolean constant.
type Const bool

// True is the constant used for unconditional transitions.
const True = Const(true)

// Evaluate implements Expression.
func (c Const) Evaluate(Assignment) (bool, error) { return bool(c), nil }

// Variables implements Expression.
func (c Const) Variables() []string { return nil }

func (c Const) String() string {
	if c {
		return "1"
	}
	return "0"
}

// NotExpr negates its operand.
type NotExpr struct {
	X Expression
}

// Not returns the negation of x.
func Not(x Expression) Expression {
	return NotExpr{X: x}
}

// Evaluate implements Expression.
func (n NotExpr) Evaluate(a Assignment) (bool, error) {
	v, err := n.X.Evaluate(a)
	if err != nil {
		return false, err
	}
	return !v, nil
}

// Variables implements Expression.
func (n NotExpr) Variables() []string { return n.X.Variables() }

func (n NotExpr) String() string {
	switch n.X.(type) {
	case Var, Const:
		return "!" + n.X.String()
	}
	return "!(" + n.X.String() + ")"
}

// Op identifies a binary operator.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpXor
)

func (o Op) symbol() string {
	switch o {
	case OpAnd:
		return " & "
	case OpOr:
		return " | "
	default:
		return " ^ "
	}
}

// precedence is higher for tighter binding operators.
func (o Op) precedence() int {
	switch o {
	case OpAnd:
		return 3
	case OpXor:
		return 2
	default:
		return 1
	}
}

// Operation applies a binary operator to two or more operands.
type Operation struct {
	Op       Op
	Operands []Expression
}

// And returns the conjunction of the operands.
func And(x ...Expression) Expression { return newOperation(OpAnd, x) }

// Or returns the disjunction of the operands.
func Or(x ...Expression) Expression { return newOperation(OpOr, x) }

// Xor returns the exclusive or of the operands.
func Xor(x ...Expression) Expression { return newOperation(OpXor, x) }

func newOperation(op Op, x []Expression) Expression {
	if len(x) == 1 {
		return x[0]
	}
	// Flatten nested operations of the same kind
	var operands []Expression
	for _, e := range x {
		if o, ok := e.(Operation); ok && o.Op == op {
			operands = append(operands, o.Operands...)
			continue
		}
		operands = append(operands, e)
	}
	return Operation{Op: op, Operands: operands}
}

// Evaluate implements Expression. All operands are evaluated so that an
// undefined variable is reported regardless of short-circuiting.
func (o Operation) Evaluate(a Assignment) (bool, error) {
	var result bool
	for i, x := range o.Operands {
		v, err := x.Evaluate(a)
		if err != nil {
			return false, err
		}
		if i == 0 {
			result = v
			continue
		}
		switch o.Op {
		case OpAnd:
			result = result && v
		case OpOr:
			result = result || v
		case OpXor:
			result = result != v
		}
	}
	return result, nil
}

// Variables implements Expression.
func (o Operation) Variables() []string {
	var vars []string
	seen := make(map[string]bool)
	for _, x := range o.Operands {
		for _, v := range x.Variables() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

func (o Operation) String() string {
	parts := make([]string, len(o.Operands))
	for i, x := range o.Operands {
		s := x.String()
		if inner, ok := x.(Operation); ok && inner.Op.precedence() <= o.Op.precedence() {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, o.Op.symbol())
}

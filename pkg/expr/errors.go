package expr

import "fmt"

// Kind classifies expression errors.
type Kind int

const (
	// KindSyntax is a malformed expression.
	KindSyntax Kind = iota
	// KindUndefined is a reference to a variable missing from the assignment.
	KindUndefined
)

func (k Kind) String() string {
	if k == KindUndefined {
		return "undefined variable"
	}
	return "syntax error"
}

// Error is returned by Parse and Evaluate.
type Error struct {
	Kind Kind
	Pos  int    // byte offset in the source, syntax errors only
	Name string // variable name, undefined variables only
	Msg  string
}

func (e *Error) Error() string {
	if e.Kind == KindUndefined {
		return fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s at %d: %s", e.Kind, e.Pos, e.Msg)
}

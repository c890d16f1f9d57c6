package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Evaluate(t *testing.T) {
	tests := []struct {
		src  string
		a    Assignment
		want bool
	}{
		{"a", Assignment{"a": true}, true},
		{"!a", Assignment{"a": true}, false},
		{"a & b", Assignment{"a": true, "b": false}, false},
		{"a*b", Assignment{"a": true, "b": true}, true},
		{"a | b", Assignment{"a": false, "b": true}, true},
		{"a + b", Assignment{"a": false, "b": false}, false},
		{"a ^ b", Assignment{"a": true, "b": true}, false},
		{"a xor b", Assignment{"a": true, "b": false}, true},
		{"a and not b", Assignment{"a": true, "b": false}, true},
		{"a || b && c", Assignment{"a": false, "b": true, "c": false}, false},
		{"(a | b) & c", Assignment{"a": true, "b": false, "c": true}, true},
		{"~(a & b)", Assignment{"a": true, "b": true}, false},
		{"a=1", Assignment{"a": true}, true},
		{"a=0", Assignment{"a": true}, false},
		{"a=0 & b=1", Assignment{"a": false, "b": true}, true},
		{"1", nil, true},
		{"false", nil, false},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src)
			require.NoError(t, err)
			got, err := e.Evaluate(tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	// AND binds tighter than XOR, which binds tighter than OR
	e := MustParse("a | b ^ c & d")
	assert.Equal(t, "a | b ^ c & d", e.String())

	op, ok := e.(Operation)
	require.True(t, ok)
	assert.Equal(t, OpOr, op.Op)
	assert.Len(t, op.Operands, 2)

	assert.Equal(t, "(a | b) & c", MustParse("(a|b)&c").String())
	assert.Equal(t, "!(a & b)", MustParse("!(a&b)").String())
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"a &",
		"(a | b",
		"a b",
		"a = x",
		"a $ b",
		"12",
		")",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr), "expected *expr.Error, got %T", err)
			assert.Equal(t, KindSyntax, exprErr.Kind)
		})
	}
}

func TestEvaluate_Undefined(t *testing.T) {
	e := MustParse("a & b")
	_, err := e.Evaluate(Assignment{"a": false})
	require.Error(t, err)

	var exprErr *Error
	require.True(t, errors.As(err, &exprErr))
	assert.Equal(t, KindUndefined, exprErr.Kind)
	assert.Equal(t, "b", exprErr.Name)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestVariables_FirstAppearance(t *testing.T) {
	e := MustParse("c & (a | c) ^ !b")
	assert.Equal(t, []string{"c", "a", "b"}, e.Variables())
	assert.Empty(t, True.Variables())
}

func TestConstructors(t *testing.T) {
	e := And(Var("a"), And(Var("b"), Var("c")))
	op := e.(Operation)
	assert.Len(t, op.Operands, 3, "nested AND should be flattened")

	assert.Equal(t, Var("x"), Or(Var("x")))

	v, err := Xor(Const(true), Var("a")).Evaluate(Assignment{"a": true})
	require.NoError(t, err)
	assert.False(t, v)
}

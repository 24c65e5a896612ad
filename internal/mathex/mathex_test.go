package mathex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"2 ** 10", 1024},
		{"2 ** 3 ** 2", 512}, // right-associative
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"3.5 + 1.5", 5},
		{"-(1 + 2)", -3},
		{"+7", 7},
		{"0", 0},
		{"100", 100},
		{"4 + 1", 5},
		{"16 * 2", 32},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		name string
		expr string
	}{
		{"division by zero", "1/0"},
		{"empty", ""},
		{"blank", "   "},
		{"trailing operator", "2 +"},
		{"identifier", "nidx + 1"},
		{"call attempt", "exec(1)"},
		{"unbalanced paren", "(1 + 2"},
		{"trailing input", "1 2"},
		{"illegal character", "1 & 2"},
		{"double dot", "1..2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.expr)
			require.Error(t, err)
			var ee *EvalError
			require.True(t, errors.As(err, &ee))
			// The offending expression is reported verbatim.
			assert.Equal(t, tc.expr, ee.Expr)
		})
	}
}

func TestEvaluateNestedDivisionByZero(t *testing.T) {
	_, err := Evaluate("5 * (3 / (2 - 2))")
	var ee *EvalError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Error(), "division by zero")
}

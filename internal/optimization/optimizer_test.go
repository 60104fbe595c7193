package optimization

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedFunc struct {
	in, out int
	y       []float64
}

func (f fixedFunc) InputDim() int  { return f.in }
func (f fixedFunc) OutputDim() int { return f.out }
func (f fixedFunc) Evaluate(x []float64) ([]float64, error) {
	if len(x) != f.in {
		return nil, InvalidArgument("want %d inputs, got %d", f.in, len(x))
	}
	return f.y, nil
}

func TestConvergenceWithin(t *testing.T) {
	tests := []struct {
		name      string
		criterion Criterion
		delta     float64
		a, b      float64
		want      bool
	}{
		{"hybrid absolute near zero", Hybrid, 5e-11, 1e-3, 1e-3, true},
		{"hybrid absolute near zero fails", Hybrid, 5e-10, 1e-3, 1e-3, false},
		{"hybrid relative when large", Hybrid, 5e-8, 1e3, 1e3, true},
		{"hybrid relative when large fails", Hybrid, 5e-7, 1e3, 1e3, false},
		{"relative", Relative, 1e-9, 100, 100, true},
		{"relative fails", Relative, 1e-7, 100, 100, false},
		{"relative both zero", Relative, 0, 0, 0, true},
		{"relative tiny values fail", Relative, 1e-20, 1e-15, 1e-15, false},
		{"absolute", Absolute, 1e-10, 1e6, 1e6, true},
		{"absolute fails regardless of scale", Absolute, 1e-9, 1e6, 1e6, false},
		{"negative delta", Absolute, -1e-11, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Convergence{Tolerance: 1e-10, Criterion: tt.criterion}
			assert.Equal(t, tt.want, c.Within(tt.delta, tt.a, tt.b))
		})
	}
}

func TestConvergenceValidate(t *testing.T) {
	require.NoError(t, DefaultConvergence().Validate())

	for _, tol := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := Convergence{Tolerance: tol}.Validate()
		assert.True(t, errors.Is(err, ErrInvalidArgument), "tolerance %v", tol)
	}
}

func TestParseCriterion(t *testing.T) {
	for _, c := range []Criterion{Hybrid, Relative, Absolute} {
		got, err := ParseCriterion(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCriterion("")
	require.NoError(t, err)
	assert.Equal(t, Hybrid, got)

	_, err = ParseCriterion("quadratic")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "unknown", Criterion(9).String())
}

func TestResultErr(t *testing.T) {
	var nilResult *Result
	assert.NoError(t, nilResult.Err())
	assert.NoError(t, (&Result{Converged: true, Status: StatusConverged}).Err())

	err := (&Result{Status: StatusIterationLimit}).Err()
	assert.True(t, errors.Is(err, ErrIterationLimit))

	assert.Equal(t, "converged", StatusConverged.String())
	assert.Equal(t, "iteration_limit", StatusIterationLimit.String())
}

func TestError(t *testing.T) {
	t.Run("kind and context", func(t *testing.T) {
		err := NumericalDomain("value is %v", math.Inf(1)).WithComponent("powell").WithOperation("Minimize")
		assert.Equal(t, "powell: Minimize: numerical domain error: value is +Inf", err.Error())
		assert.True(t, errors.Is(err, ErrNumericalDomain))
		assert.False(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("wrapping keeps the kind", func(t *testing.T) {
		inner := InvalidArgument("bad bracket")
		wrapped := fmt.Errorf("fit: %w", WrapError(inner, "line search failed"))
		assert.True(t, errors.Is(wrapped, ErrInvalidArgument))

		e, ok := IsOptimizationError(wrapped)
		require.True(t, ok)
		assert.Equal(t, "line search failed", e.Message)
		assert.Same(t, inner, e.Unwrap())
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, WrapError(nil, "nothing"))
		assert.Nil(t, WrapErrorf(nil, "nothing %d", 1))
		var e *Error
		assert.Equal(t, "<nil>", e.Error())
		_, ok := IsOptimizationError(errors.New("plain"))
		assert.False(t, ok)
	})

	t.Run("formatted wrap", func(t *testing.T) {
		err := WrapErrorf(ErrNumericalDomain, "sweep %d", 3)
		assert.Equal(t, "sweep 3: numerical domain error", err.Error())
		assert.True(t, errors.Is(err, ErrNumericalDomain))
	})
}

func TestScalarValue(t *testing.T) {
	v, err := ScalarValue(fixedFunc{in: 2, out: 1, y: []float64{3.5}}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = ScalarValue(fixedFunc{in: 2, out: 2, y: []float64{1, 2}}, []float64{0, 0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ScalarValue(fixedFunc{in: 2, out: 1, y: []float64{1}}, []float64{0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ScalarValue(fixedFunc{in: 1, out: 1, y: []float64{1, 2}}, []float64{0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ScalarValue(nil, []float64{0})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-math.MaxFloat64))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}

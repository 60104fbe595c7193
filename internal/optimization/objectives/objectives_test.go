package objectives

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/function"
	"github.com/copyleftdev/powell/internal/optimization/optimizationtest"
)

func TestKnownMinima(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			o, err := Lookup(name, 0)
			require.NoError(t, err)
			require.Equal(t, o.Function.InputDim(), len(o.Start))
			require.Equal(t, o.Function.InputDim(), len(o.OptLoc))

			v, err := optimization.ScalarValue(o.Function, o.OptLoc)
			require.NoError(t, err)
			assert.InDelta(t, o.OptVal, v, 1e-12)

			start, err := optimization.ScalarValue(o.Function, o.Start)
			require.NoError(t, err)
			assert.Greater(t, start, o.OptVal)
		})
	}
}

func TestRosenbrockValues(t *testing.T) {
	o := Rosenbrock()
	v, err := optimization.ScalarValue(o.Function, []float64{-1.2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 24.2, v, 1e-12)
}

func TestRosenbrockResidualsMatchObjective(t *testing.T) {
	sum, err := function.SumOfSquares(RosenbrockResiduals())
	require.NoError(t, err)
	rosen := Rosenbrock().Function

	for _, x := range optimizationtest.RandomPoints(3, 20, 2, -2, 2) {
		want, err := optimization.ScalarValue(rosen, x)
		require.NoError(t, err)
		got, err := optimization.ScalarValue(sum, x)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9*(1+want))
	}
}

func TestChainedReducesToRosenbrock(t *testing.T) {
	chained, err := ChainedRosenbrock(2)
	require.NoError(t, err)
	block, err := BlockRosenbrock(1, true)
	require.NoError(t, err)

	for _, x := range optimizationtest.RandomPoints(5, 10, 2, -2, 2) {
		want := rosenbrock2(x)
		got, err := optimization.ScalarValue(chained.Function, x)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
		got, err = optimization.ScalarValue(block.Function, x)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
	}
}

func TestScaledBlockRosenbrock(t *testing.T) {
	o, err := BlockRosenbrock(2, true)
	require.NoError(t, err)

	// Second copy counts twice.
	v, err := optimization.ScalarValue(o.Function, []float64{1, 1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  string
		dim  int
	}{
		{name: "unknown", obj: "himmelblau"},
		{name: "rosenbrock wrong dimension", obj: "rosenbrock", dim: 3},
		{name: "booth wrong dimension", obj: "booth", dim: 5},
		{name: "odd block", obj: "block_rosenbrock", dim: 5},
		{name: "chained too small", obj: "chained_rosenbrock", dim: 1},
		{name: "negative", obj: "sphere", dim: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.obj, tt.dim)
			require.Error(t, err)
			assert.True(t, errors.Is(err, optimization.ErrInvalidArgument))
		})
	}
}

func TestLookupDimension(t *testing.T) {
	o, err := Lookup("chained_rosenbrock", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, o.Function.InputDim())
	assert.Equal(t, []float64{-1.2, 1, -1.2, 1, -1.2, 1, -1.2, 1, -1.2, 1}, o.Start)
}

package fit

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/function"
	"github.com/copyleftdev/powell/internal/optimization/kernels"
	"github.com/copyleftdev/powell/internal/optimization/optimizationtest"
	"github.com/copyleftdev/powell/internal/optimization/powell"
)

func newPowell(t *testing.T) *powell.Minimizer {
	t.Helper()
	m, err := powell.New(powell.DefaultConfig())
	require.NoError(t, err)
	return m
}

func sampleFrom(t *testing.T, f optimization.VectorFunction, xs [][]float64) []Sample {
	t.Helper()
	samples := make([]Sample, len(xs))
	for i, x := range xs {
		y, err := optimization.ScalarValue(f, x)
		require.NoError(t, err)
		samples[i] = Sample{X: x, Y: y}
	}
	return samples
}

func TestPolynomialRecovery(t *testing.T) {
	want := []float64{1, -2, 0.5}
	truth, err := function.Polynomial{}.From(want)
	require.NoError(t, err)

	var xs [][]float64
	for x := -2.0; x <= 2.0; x += 0.5 {
		xs = append(xs, []float64{x})
	}

	fit, err := LeastSquares(context.Background(), newPowell(t), function.Polynomial{}, sampleFrom(t, truth, xs), []float64{0, 0, 0})
	require.NoError(t, err)
	require.True(t, fit.Result.Converged)
	optimizationtest.AssertFloat64SlicesEqual(t, fit.Points, want, 1e-4)

	y, err := optimization.ScalarValue(fit.Function, []float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 1-6+4.5, y, 1e-4)
}

func TestNoisyPolynomialMatchesNormalEquations(t *testing.T) {
	// Line through points that are not collinear; compare with the QR solution.
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1.1, 2.9, 5.2, 6.8, 9.1}

	samples := make([]Sample, len(xs))
	design := mat.NewDense(len(xs), 2, nil)
	for i, x := range xs {
		samples[i] = Sample{X: []float64{x}, Y: ys[i]}
		design.Set(i, 0, 1)
		design.Set(i, 1, x)
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(design, mat.NewVecDense(len(ys), ys)))

	fit, err := LeastSquares(context.Background(), newPowell(t), function.Polynomial{}, samples, []float64{0, 0})
	require.NoError(t, err)
	require.True(t, fit.Result.Converged)
	optimizationtest.AssertFloat64SlicesEqual(t, fit.Points, want.RawVector().Data, 1e-4)
}

func TestKernelExpansionFit(t *testing.T) {
	k, err := kernels.NewGaussian(1, 1)
	require.NoError(t, err)
	centers := [][]float64{{0}, {1}, {2}}
	p, err := function.NewKernelExpansion(k, centers, false)
	require.NoError(t, err)

	truth, err := p.From([]float64{1, -0.5, 2})
	require.NoError(t, err)

	var xs [][]float64
	for x := -1.0; x <= 3.0; x += 0.25 {
		xs = append(xs, []float64{x})
	}
	samples := sampleFrom(t, truth, xs)

	fit, err := LeastSquares(context.Background(), newPowell(t), p, samples, make([]float64, p.NumWeights()))
	require.NoError(t, err)
	require.True(t, fit.Result.Converged)
	assert.Less(t, fit.Result.Value, 1e-6)

	for _, x := range []float64{-0.5, 0.3, 1.7, 2.9} {
		want, err := optimization.ScalarValue(truth, []float64{x})
		require.NoError(t, err)
		got, err := optimization.ScalarValue(fit.Function, []float64{x})
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-3, "x=%v", x)
	}
}

func TestIterationLimitStillFits(t *testing.T) {
	cfg := powell.DefaultConfig()
	cfg.MaxIterations = 1
	m, err := powell.New(cfg)
	require.NoError(t, err)

	k, err := kernels.NewGaussian(0.5, 1)
	require.NoError(t, err)
	p, err := function.NewKernelExpansion(k, [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, true)
	require.NoError(t, err)
	truth, err := p.From([]float64{1, 2, -1, 0.5, 0.25})
	require.NoError(t, err)
	samples := sampleFrom(t, truth, optimizationtest.RandomPoints(9, 30, 2, -0.5, 1.5))

	fit, err := LeastSquares(context.Background(), m, p, samples, make([]float64, p.NumWeights()))
	require.NoError(t, err)
	assert.Equal(t, 1, fit.Result.Iterations)
	if !fit.Result.Converged {
		assert.True(t, errors.Is(fit.Result.Err(), optimization.ErrIterationLimit))
	}
	assert.Len(t, fit.Points, 5)
	assert.Less(t, fit.Result.Value, fit.Result.History[0])
}

func TestLeastSquaresErrors(t *testing.T) {
	m := newPowell(t)
	good := []Sample{{X: []float64{0}, Y: 1}}

	tests := []struct {
		name    string
		m       optimization.Minimizer
		p       optimization.Provider
		samples []Sample
		start   []float64
	}{
		{name: "nil minimizer", p: function.Polynomial{}, samples: good, start: []float64{0}},
		{name: "nil provider", m: m, samples: good, start: []float64{0}},
		{name: "no samples", m: m, p: function.Polynomial{}, start: []float64{0}},
		{name: "empty start", m: m, p: function.Polynomial{}, samples: good},
		{name: "sample dimension", m: m, p: function.Polynomial{}, samples: []Sample{{X: []float64{0, 1}, Y: 1}}, start: []float64{0}},
		{name: "non-finite target", m: m, p: function.Polynomial{}, samples: []Sample{{X: []float64{0}, Y: math.NaN()}}, start: []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := LeastSquares(context.Background(), tt.m, tt.p, tt.samples, tt.start)
			require.Error(t, err)
			assert.Nil(t, fit)
			assert.True(t, errors.Is(err, optimization.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestWrongPointCountFromProvider(t *testing.T) {
	k, err := kernels.NewGaussian(1, 1)
	require.NoError(t, err)
	p, err := function.NewKernelExpansion(k, [][]float64{{0}, {1}}, false)
	require.NoError(t, err)

	_, err = LeastSquares(context.Background(), newPowell(t), p, []Sample{{X: []float64{0}, Y: 1}}, []float64{0, 0, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, optimization.ErrInvalidArgument))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LeastSquares(ctx, newPowell(t), function.Polynomial{}, []Sample{{X: []float64{0}, Y: 1}}, []float64{0})
	assert.True(t, errors.Is(err, context.Canceled))
}

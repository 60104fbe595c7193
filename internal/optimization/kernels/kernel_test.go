package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussian(t *testing.T) {
	tests := []struct {
		name     string
		x1       []float64
		x2       []float64
		width    float64
		scale    float64
		expected float64
	}{
		{
			name:     "same point",
			x1:       []float64{1.0, 2.0},
			x2:       []float64{1.0, 2.0},
			width:    1.0,
			scale:    1.0,
			expected: 1.0,
		},
		{
			name:     "different points",
			x1:       []float64{0.0, 0.0},
			x2:       []float64{1.0, 1.0},
			width:    1.0,
			scale:    1.0,
			expected: math.Exp(-1.0), // exp(-0.5 * (1+1) / 1^2)
		},
		{
			name:     "with different width",
			x1:       []float64{0.0, 0.0},
			x2:       []float64{2.0, 2.0},
			width:    2.0,
			scale:    3.0,
			expected: 3 * math.Exp(-1.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel, err := NewGaussian(tt.width, tt.scale)
			require.NoError(t, err)

			assert.InDelta(t, tt.expected, kernel.Eval(tt.x1, tt.x2), 1e-12)
			assert.InDelta(t, kernel.Eval(tt.x1, tt.x2), kernel.Eval(tt.x2, tt.x1), 1e-12, "kernel is not symmetric")
		})
	}
}

func TestMatern52(t *testing.T) {
	kernel, err := NewMatern52(1.0, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, kernel.Eval([]float64{0.5}, []float64{0.5}), 1e-12)

	// r = 1: (1 + sqrt5 + 5/3) * exp(-sqrt5)
	want := (1 + math.Sqrt(5) + 5.0/3.0) * math.Exp(-math.Sqrt(5))
	assert.InDelta(t, want, kernel.Eval([]float64{0}, []float64{1}), 1e-12)

	// Decreasing in distance.
	near := kernel.Eval([]float64{0, 0}, []float64{0.1, 0})
	far := kernel.Eval([]float64{0, 0}, []float64{2, 0})
	assert.Greater(t, near, far)
}

func TestMultiquadrics(t *testing.T) {
	mq, err := NewMultiquadric(1, 2)
	require.NoError(t, err)
	imq, err := NewInverseMultiquadric(1, 2)
	require.NoError(t, err)

	x1, x2 := []float64{0, 0}, []float64{3, 4}
	assert.InDelta(t, 2*math.Sqrt(26), mq.Eval(x1, x2), 1e-12)
	assert.InDelta(t, 2/math.Sqrt(26), imq.Eval(x1, x2), 1e-12)
}

func TestKernelHyperparameters(t *testing.T) {
	kernel, err := NewGaussian(1.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0}, kernel.Hyperparameters())

	require.NoError(t, kernel.SetHyperparameters([]float64{3.0, 4.0}))
	assert.Equal(t, []float64{3.0, 4.0}, kernel.Hyperparameters())

	assert.Error(t, kernel.SetHyperparameters([]float64{1.0}))
	assert.Error(t, kernel.SetHyperparameters([]float64{-1.0, 1.0}))
	assert.Equal(t, []float64{3.0, 4.0}, kernel.Hyperparameters())
}

func TestInvalidConstruction(t *testing.T) {
	_, err := NewGaussian(0, 1)
	assert.Error(t, err)
	_, err = NewMatern52(1, -1)
	assert.Error(t, err)
	_, err = NewMultiquadric(math.NaN(), 1)
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"gaussian", "rbf", "matern52", "multiquadric", "inverse_multiquadric"} {
		k, err := ByName(name, 1, 1)
		require.NoError(t, err, name)
		assert.NotNil(t, k)
	}
	_, err := ByName("thin_plate", 1, 1)
	assert.Error(t, err)
}

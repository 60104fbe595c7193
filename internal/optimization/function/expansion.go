package function

import (
	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/kernels"
)

// KernelExpansion provides radial basis expansions over fixed centers:
//
//	f(x) = sum_i w[i] * k(x, c[i])  (+ w[n] when Bias is set)
//
// The data points passed to From are the weights w.
type KernelExpansion struct {
	Kernel  kernels.Kernel
	Centers [][]float64
	Bias    bool
}

var _ optimization.Provider = (*KernelExpansion)(nil)

// NewKernelExpansion validates that all centers share one positive dimension.
func NewKernelExpansion(k kernels.Kernel, centers [][]float64, bias bool) (*KernelExpansion, error) {
	if k == nil {
		return nil, optimization.InvalidArgument("nil kernel")
	}
	if len(centers) == 0 {
		return nil, optimization.InvalidArgument("no centers")
	}
	dim := len(centers[0])
	if dim == 0 {
		return nil, optimization.InvalidArgument("centers must have positive dimension")
	}
	cs := make([][]float64, len(centers))
	for i, c := range centers {
		if len(c) != dim {
			return nil, optimization.InvalidArgument("center %d has dimension %d, want %d", i, len(c), dim)
		}
		cs[i] = append([]float64(nil), c...)
	}
	return &KernelExpansion{Kernel: k, Centers: cs, Bias: bias}, nil
}

// NumWeights returns the number of data points From expects.
func (e *KernelExpansion) NumWeights() int {
	if e.Bias {
		return len(e.Centers) + 1
	}
	return len(e.Centers)
}

// From binds the expansion to the given weights.
func (e *KernelExpansion) From(weights []float64) (optimization.VectorFunction, error) {
	if weights == nil {
		return nil, optimization.InvalidArgument("nil points")
	}
	if len(weights) != e.NumWeights() {
		return nil, optimization.InvalidArgument("expected %d weights, got %d", e.NumWeights(), len(weights))
	}
	w := append([]float64(nil), weights...)
	centers := e.Centers
	k := e.Kernel
	bias := e.Bias
	return NewScalar(len(centers[0]), func(x []float64) float64 {
		var sum float64
		for i, c := range centers {
			sum += w[i] * k.Eval(x, c)
		}
		if bias {
			sum += w[len(centers)]
		}
		return sum
	})
}

// Polynomial provides univariate polynomials. The data points passed to From
// are the coefficients in increasing order of degree.
type Polynomial struct{}

var _ optimization.Provider = Polynomial{}

// From binds the polynomial to the given coefficients.
func (Polynomial) From(coeffs []float64) (optimization.VectorFunction, error) {
	if coeffs == nil {
		return nil, optimization.InvalidArgument("nil points")
	}
	if len(coeffs) == 0 {
		return nil, optimization.InvalidArgument("polynomial needs at least one coefficient")
	}
	c := append([]float64(nil), coeffs...)
	return NewScalar(1, func(x []float64) float64 {
		// Horner
		var y float64
		for i := len(c) - 1; i >= 0; i-- {
			y = y*x[0] + c[i]
		}
		return y
	})
}

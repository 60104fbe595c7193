// Package function provides concrete VectorFunction implementations, the
// adapters that reduce vector-valued functions to scalars, and the Provider
// families that bind a function to a set of data points.
package function

import (
	"github.com/copyleftdev/powell/internal/optimization"
)

// Func is a VectorFunction backed by a Go function.
type Func struct {
	in, out int
	fn      func(x []float64) []float64
}

var _ optimization.VectorFunction = (*Func)(nil)

// New returns a VectorFunction with the given dimensions. fn receives a copy
// of the caller's input and must return exactly out values.
func New(in, out int, fn func(x []float64) []float64) (*Func, error) {
	if in < 1 || out < 1 {
		return nil, optimization.InvalidArgument("dimensions must be positive, got %dx%d", in, out)
	}
	if fn == nil {
		return nil, optimization.InvalidArgument("nil function")
	}
	return &Func{in: in, out: out, fn: fn}, nil
}

// NewScalar returns a VectorFunction with one output.
func NewScalar(in int, fn func(x []float64) float64) (*Func, error) {
	if fn == nil {
		return nil, optimization.InvalidArgument("nil function")
	}
	return New(in, 1, func(x []float64) []float64 {
		return []float64{fn(x)}
	})
}

// MustScalar is like NewScalar but panics on error.
func MustScalar(in int, fn func(x []float64) float64) *Func {
	f, err := NewScalar(in, fn)
	if err != nil {
		panic(err)
	}
	return f
}

// InputDim returns the declared input dimension.
func (f *Func) InputDim() int { return f.in }

// OutputDim returns the declared output dimension.
func (f *Func) OutputDim() int { return f.out }

// Evaluate applies the function to x.
func (f *Func) Evaluate(x []float64) ([]float64, error) {
	if len(x) != f.in {
		return nil, optimization.InvalidArgument("input length %d does not match dimension %d", len(x), f.in)
	}
	y := f.fn(append([]float64(nil), x...))
	if len(y) != f.out {
		return nil, optimization.InvalidArgument("output length %d does not match dimension %d", len(y), f.out)
	}
	return y, nil
}

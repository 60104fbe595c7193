package function

import (
	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/powell/internal/optimization"
)

// reduced is a scalar VectorFunction derived from another VectorFunction.
type reduced struct {
	f      optimization.VectorFunction
	reduce func(y []float64) float64
}

func (r *reduced) InputDim() int  { return r.f.InputDim() }
func (r *reduced) OutputDim() int { return 1 }

func (r *reduced) Evaluate(x []float64) ([]float64, error) {
	y, err := r.f.Evaluate(x)
	if err != nil {
		return nil, err
	}
	return []float64{r.reduce(y)}, nil
}

// SumOfSquares reduces f to the scalar sum of its squared outputs, the usual
// objective for least-squares residual vectors.
func SumOfSquares(f optimization.VectorFunction) (optimization.VectorFunction, error) {
	if f == nil {
		return nil, optimization.InvalidArgument("nil function")
	}
	return &reduced{f: f, reduce: func(y []float64) float64 {
		return floats.Dot(y, y)
	}}, nil
}

// Component reduces f to its i-th output.
func Component(f optimization.VectorFunction, i int) (optimization.VectorFunction, error) {
	if f == nil {
		return nil, optimization.InvalidArgument("nil function")
	}
	if i < 0 || i >= f.OutputDim() {
		return nil, optimization.InvalidArgument("component %d out of range [0, %d)", i, f.OutputDim())
	}
	return &reduced{f: f, reduce: func(y []float64) float64 {
		return y[i]
	}}, nil
}

// Scalar returns f unchanged when it already has one output and otherwise
// reduces it with SumOfSquares.
func Scalar(f optimization.VectorFunction) (optimization.VectorFunction, error) {
	if f == nil {
		return nil, optimization.InvalidArgument("nil function")
	}
	if f.OutputDim() == 1 {
		return f, nil
	}
	return SumOfSquares(f)
}

// Package fit calibrates the data points of a Provider against observed
// samples by minimizing the sum of squared residuals.
package fit

import (
	"context"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/function"
)

// Sample is one observation: the model should map X to Y.
type Sample struct {
	X []float64
	Y float64
}

// Fit is the outcome of a calibration.
type Fit struct {
	// Points are the fitted data points, ready to pass to Provider.From.
	Points []float64
	// Function is the provider bound to Points.
	Function optimization.VectorFunction
	// Result is the underlying minimization result.
	Result *optimization.Result
}

// LeastSquares searches for the points p that minimize
// sum_i (From(p)(samples[i].X) - samples[i].Y)^2, starting from start.
//
// A run that stops at the iteration limit still returns a Fit; inspect
// Result.Converged or Result.Err.
func LeastSquares(ctx context.Context, m optimization.Minimizer, p optimization.Provider, samples []Sample, start []float64) (*Fit, error) {
	if m == nil {
		return nil, optimization.InvalidArgument("nil minimizer").WithComponent("fit")
	}
	if p == nil {
		return nil, optimization.InvalidArgument("nil provider").WithComponent("fit")
	}
	if len(start) == 0 {
		return nil, optimization.InvalidArgument("empty start point").WithComponent("fit")
	}
	if len(samples) == 0 {
		return nil, optimization.InvalidArgument("no samples").WithComponent("fit")
	}

	// Bind once to learn the model's input dimension and reject bad samples early.
	probe, err := p.From(start)
	if err != nil {
		return nil, optimization.WrapError(err, "bind start point").WithComponent("fit")
	}
	if probe.OutputDim() != 1 {
		return nil, optimization.InvalidArgument("model has %d outputs, want 1", probe.OutputDim()).WithComponent("fit")
	}
	for i, s := range samples {
		if len(s.X) != probe.InputDim() {
			return nil, optimization.InvalidArgument("sample %d has dimension %d, model expects %d", i, len(s.X), probe.InputDim()).
				WithComponent("fit")
		}
		if !optimization.IsFinite(s.Y) {
			return nil, optimization.InvalidArgument("sample %d has non-finite target %v", i, s.Y).WithComponent("fit")
		}
	}

	r := &residuals{p: p, samples: samples, n: len(start)}
	objective, err := function.SumOfSquares(r)
	if err != nil {
		return nil, err
	}

	res, err := m.Minimize(ctx, objective, start)
	if err != nil {
		return nil, err
	}

	bound, err := p.From(res.Point)
	if err != nil {
		return nil, optimization.WrapError(err, "bind fitted points").WithComponent("fit")
	}
	return &Fit{
		Points:   append([]float64(nil), res.Point...),
		Function: bound,
		Result:   res,
	}, nil
}

// residuals maps candidate points to the model error on every sample.
type residuals struct {
	p       optimization.Provider
	samples []Sample
	n       int
}

func (r *residuals) InputDim() int  { return r.n }
func (r *residuals) OutputDim() int { return len(r.samples) }

func (r *residuals) Evaluate(points []float64) ([]float64, error) {
	if len(points) != r.n {
		return nil, optimization.InvalidArgument("input length %d does not match dimension %d", len(points), r.n)
	}
	model, err := r.p.From(points)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		y, err := optimization.ScalarValue(model, s.X)
		if err != nil {
			return nil, err
		}
		out[i] = y - s.Y
	}
	return out, nil
}

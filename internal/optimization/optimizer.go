package optimization

import (
	"context"
	"math"
)

// Minimizer defines the interface for multidimensional minimization algorithms
type Minimizer interface {
	// Minimize searches for a local minimum of the scalar function f starting
	// from start. Non-convergence is reported through the Result, not the error.
	Minimize(ctx context.Context, f VectorFunction, start []float64) (*Result, error)
}

// Status describes how a minimization run terminated.
type Status int

const (
	// StatusConverged means the convergence test was met.
	StatusConverged Status = iota
	// StatusIterationLimit means the iteration budget was exhausted first.
	StatusIterationLimit
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusIterationLimit:
		return "iteration_limit"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a minimization run.
type Result struct {
	// Point is the best point found. It is owned by the caller.
	Point []float64
	// Value is the objective value at Point.
	Value float64
	// Iterations is the number of completed outer iterations (sweeps).
	Iterations int
	// Evaluations is the number of objective evaluations.
	Evaluations int
	Converged   bool
	Status      Status
	// History holds the objective value at the start and after every sweep.
	History []float64
}

// Err returns ErrIterationLimit for a non-converged result and nil otherwise.
func (r *Result) Err() error {
	if r == nil || r.Converged {
		return nil
	}
	return ErrIterationLimit
}

// Criterion selects how two successive values are compared against a tolerance.
type Criterion int

const (
	// Hybrid is absolute near zero and relative for large magnitudes:
	// |a-b| <= eps * max(1, |a|, |b|).
	Hybrid Criterion = iota
	// Relative is 2|a-b| <= eps * (|a|+|b|) + tiny.
	Relative
	// Absolute is |a-b| <= eps.
	Absolute
)

// ParseCriterion maps a configuration string onto a Criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "", "hybrid":
		return Hybrid, nil
	case "relative":
		return Relative, nil
	case "absolute":
		return Absolute, nil
	}
	return Hybrid, InvalidArgument("unknown convergence criterion %q", s)
}

func (c Criterion) String() string {
	switch c {
	case Hybrid:
		return "hybrid"
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Measure selects what quantity a convergence test looks at.
type Measure int

const (
	// FunctionChange compares objective values before and after a sweep.
	FunctionChange Measure = iota
	// PointChange compares the distance moved during a sweep with the size of the point.
	PointChange
)

// tiny keeps the relative test meaningful when both values are exactly zero.
const tiny = 1e-25

// Convergence is the tolerance policy shared by every search of a minimizer.
type Convergence struct {
	Tolerance float64
	Criterion Criterion
	Measure   Measure
}

// DefaultConvergence returns a hybrid function-change test at 1e-10.
func DefaultConvergence() Convergence {
	return Convergence{
		Tolerance: 1e-10,
		Criterion: Hybrid,
		Measure:   FunctionChange,
	}
}

// Validate checks that the tolerance is usable.
func (c Convergence) Validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return InvalidArgument("tolerance must be positive and finite, got %v", c.Tolerance)
	}
	return nil
}

// Within reports whether the change from a to b is negligible.
// For PointChange callers pass the step length as delta and the point norms as a and b.
func (c Convergence) Within(delta, a, b float64) bool {
	delta = math.Abs(delta)
	eps := c.Tolerance
	switch c.Criterion {
	case Relative:
		return 2*delta <= eps*(math.Abs(a)+math.Abs(b))+tiny
	case Absolute:
		return delta <= eps
	default:
		return delta <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	}
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Package line implements one-dimensional minimization: bracket growth from a
// starting point, Brent's parabolic/golden-section method and a plain golden
// section search.
package line

import (
	"math"

	"github.com/copyleftdev/powell/internal/optimization"
)

// Function is a scalar function of one real variable.
type Function func(x float64) float64

// Result is the abscissa and value of a located minimum.
type Result struct {
	X float64
	F float64
	// Iterations is the number of refinement steps taken.
	Iterations int
	// Evaluations counts calls to the function, bracketing included.
	Evaluations int
}

// Minimizer minimizes a function on a bracket.
type Minimizer interface {
	Minimize(f Function, br Bracket) (Result, error)
}

const (
	// golden ratio, used to magnify brackets
	gold = 1.618033988749895
	// 1 - 1/golden ratio, the golden section fraction
	cgold = 0.3819660112501051
	// zeps guards the tolerance of a minimum at exactly zero
	zeps = 1e-10
	// sqrtEps is the smallest useful fractional tolerance for a line search
	sqrtEps = 1.4901161193847656e-08
)

// Search grows a bracket from the two abscissas a and b and minimizes f on it
// with m.
func Search(m Minimizer, f Function, a, b float64) (Result, error) {
	if m == nil || f == nil {
		return Result{}, optimization.InvalidArgument("nil minimizer or function")
	}
	br, err := FindBracket(f, a, b)
	if err != nil {
		return Result{}, err
	}
	res, err := m.Minimize(f, br)
	res.Evaluations += br.Evaluations
	return res, err
}

// eval evaluates f and rejects non-finite values.
func eval(f Function, x float64, count *int) (float64, error) {
	*count++
	v := f(x)
	if !optimization.IsFinite(v) {
		return v, optimization.NumericalDomain("f(%v) = %v", x, v)
	}
	return v, nil
}

func validTolerance(tol float64) float64 {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return 3e-8
	}
	// Below sqrt(machine epsilon) the function values carry no more information.
	return math.Max(tol, sqrtEps)
}

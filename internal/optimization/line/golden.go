package line

import (
	"math"

	"github.com/copyleftdev/powell/internal/optimization"
)

// GoldenSection shrinks the bracket by the golden ratio every step. It is
// slower than Brent on smooth functions but makes no smoothness assumption.
type GoldenSection struct {
	Tolerance     float64
	MaxIterations int
}

var _ Minimizer = (*GoldenSection)(nil)

// NewGoldenSection returns a golden section minimizer with tolerance 3e-8.
func NewGoldenSection() *GoldenSection {
	return &GoldenSection{Tolerance: 3e-8, MaxIterations: 500}
}

// Minimize refines the minimum inside br.
func (g *GoldenSection) Minimize(f Function, br Bracket) (Result, error) {
	if f == nil {
		return Result{}, optimization.InvalidArgument("nil function")
	}
	if err := br.validate(); err != nil {
		return Result{}, err
	}
	tol := validTolerance(g.Tolerance)
	maxIter := g.MaxIterations
	if maxIter < 1 {
		maxIter = 500
	}

	res := Result{}
	x0, x3 := br.Lower, br.Upper
	var x1, x2 float64
	// Place the new probe in the larger of the two segments.
	if math.Abs(x3-br.Middle) > math.Abs(br.Middle-x0) {
		x1 = br.Middle
		x2 = br.Middle + cgold*(x3-br.Middle)
	} else {
		x2 = br.Middle
		x1 = br.Middle - cgold*(br.Middle-x0)
	}
	f1, err := eval(f, x1, &res.Evaluations)
	if err != nil {
		return res, err
	}
	f2, err := eval(f, x2, &res.Evaluations)
	if err != nil {
		return res, err
	}

	const r = 1 - cgold
	iter := 0
	for ; iter < maxIter && math.Abs(x3-x0) > tol*(math.Abs(x1)+math.Abs(x2))+zeps; iter++ {
		if f2 < f1 {
			x0, x1, x2 = x1, x2, r*x2+cgold*x3
			f1 = f2
			if f2, err = eval(f, x2, &res.Evaluations); err != nil {
				return res, err
			}
		} else {
			x3, x2, x1 = x2, x1, r*x1+cgold*x0
			f2 = f1
			if f1, err = eval(f, x1, &res.Evaluations); err != nil {
				return res, err
			}
		}
	}

	res.Iterations = iter
	if f1 < f2 {
		res.X, res.F = x1, f1
	} else {
		res.X, res.F = x2, f2
	}
	// The bracket middle may still be the best point seen when the bracket was flat.
	if br.FMiddle < res.F {
		res.X, res.F = br.Middle, br.FMiddle
	}
	return res, nil
}

package line

import (
	"math"

	"github.com/copyleftdev/powell/internal/optimization"
)

// Brent minimizes a bracketed function by parabolic interpolation, falling
// back to golden section steps whenever the parabola is not trustworthy.
type Brent struct {
	// Tolerance is the fractional precision of the abscissa.
	Tolerance float64
	// MaxIterations bounds the number of refinement steps.
	MaxIterations int
}

var _ Minimizer = (*Brent)(nil)

// NewBrent returns a Brent minimizer with tolerance 3e-8 and 500 iterations.
func NewBrent() *Brent {
	return &Brent{Tolerance: 3e-8, MaxIterations: 500}
}

// MinimizeFrom brackets a minimum starting from x0 and x0+step, then refines it.
func (b *Brent) MinimizeFrom(f Function, x0, step float64) (Result, error) {
	return Search(b, f, x0, x0+step)
}

// Minimize refines the minimum inside br.
//
// A bracket of zero width is already converged and returns its middle point.
func (b *Brent) Minimize(f Function, br Bracket) (Result, error) {
	if f == nil {
		return Result{}, optimization.InvalidArgument("nil function")
	}
	if err := br.validate(); err != nil {
		return Result{}, err
	}
	tol := validTolerance(b.Tolerance)
	maxIter := b.MaxIterations
	if maxIter < 1 {
		maxIter = 500
	}

	lo, hi := br.Lower, br.Upper
	x, w, v := br.Middle, br.Middle, br.Middle
	fx, fw, fv := br.FMiddle, br.FMiddle, br.FMiddle
	var d, e float64
	res := Result{}

	for iter := 0; iter < maxIter; iter++ {
		xm := 0.5 * (lo + hi)
		tol1 := tol*math.Abs(x) + zeps
		tol2 := 2 * tol1
		if math.Abs(x-xm) <= tol2-0.5*(hi-lo) {
			res.X, res.F, res.Iterations = x, fx, iter
			return res, nil
		}

		golden := true
		if math.Abs(e) > tol1 {
			// Trial parabolic fit through x, w, v.
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etemp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etemp) && p > q*(lo-x) && p < q*(hi-x) {
				golden = false
				d = p / q
				u := x + d
				if u-lo < tol2 || hi-u < tol2 {
					d = math.Copysign(tol1, xm-x)
				}
			}
		}
		if golden {
			if x >= xm {
				e = lo - x
			} else {
				e = hi - x
			}
			d = cgold * e
		}

		var u float64
		if math.Abs(d) >= tol1 {
			u = x + d
		} else {
			u = x + math.Copysign(tol1, d)
		}
		fu, err := eval(f, u, &res.Evaluations)
		if err != nil {
			return res, err
		}

		if fu <= fx {
			if u >= x {
				lo = x
			} else {
				hi = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		} else {
			if u < x {
				lo = u
			} else {
				hi = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}
	// Out of iterations: x is still the best abscissa seen.
	res.X, res.F, res.Iterations = x, fx, maxIter
	return res, nil
}

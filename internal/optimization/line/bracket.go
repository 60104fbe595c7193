package line

import (
	"math"

	"github.com/copyleftdev/powell/internal/optimization"
)

// Bracket is a triple of abscissas Lower <= Middle <= Upper with
// f(Middle) <= f(Lower) and f(Middle) <= f(Upper), so a local minimum lies in
// [Lower, Upper].
type Bracket struct {
	Lower, Middle, Upper    float64
	FLower, FMiddle, FUpper float64
	// Evaluations is the number of function calls spent building the bracket.
	Evaluations int
}

const (
	// glimit bounds the parabolic extrapolation step in units of the last step.
	glimit = 100.0
	// maxBracketSteps bounds downhill growth before the direction is declared unbounded.
	maxBracketSteps = 100
	tinyDenominator = 1e-20
)

// NewBracket evaluates f at a, b and c and checks that they bracket a minimum.
// The abscissas may be given in either order around b.
func NewBracket(f Function, a, b, c float64) (Bracket, error) {
	if f == nil {
		return Bracket{}, optimization.InvalidArgument("nil function")
	}
	if a > c {
		a, c = c, a
	}
	br := Bracket{Lower: a, Middle: b, Upper: c}
	var err error
	if br.FLower, err = eval(f, a, &br.Evaluations); err != nil {
		return br, err
	}
	if br.FMiddle, err = eval(f, b, &br.Evaluations); err != nil {
		return br, err
	}
	if br.FUpper, err = eval(f, c, &br.Evaluations); err != nil {
		return br, err
	}
	return br, br.validate()
}

func (br Bracket) validate() error {
	if math.IsNaN(br.Lower) || math.IsNaN(br.Middle) || math.IsNaN(br.Upper) {
		return optimization.InvalidArgument("bracket abscissa is NaN")
	}
	if br.Middle < br.Lower || br.Middle > br.Upper {
		return optimization.InvalidArgument("middle %v outside [%v, %v]", br.Middle, br.Lower, br.Upper)
	}
	for _, v := range [...]struct{ x, f float64 }{{br.Lower, br.FLower}, {br.Middle, br.FMiddle}, {br.Upper, br.FUpper}} {
		if !optimization.IsFinite(v.f) {
			return optimization.NumericalDomain("f(%v) = %v", v.x, v.f)
		}
	}
	if br.FMiddle > br.FLower || br.FMiddle > br.FUpper {
		return optimization.InvalidArgument("f(%v) = %v does not lie below both ends", br.Middle, br.FMiddle)
	}
	return nil
}

// Width returns Upper - Lower.
func (br Bracket) Width() float64 {
	return br.Upper - br.Lower
}

// FindBracket searches downhill from a and b, magnifying the step by the golden
// ratio or by parabolic extrapolation, until a minimum is bracketed.
// It fails with ErrNumericalDomain if f becomes non-finite or keeps decreasing.
func FindBracket(f Function, a, b float64) (Bracket, error) {
	if f == nil {
		return Bracket{}, optimization.InvalidArgument("nil function")
	}
	if !optimization.IsFinite(a) || !optimization.IsFinite(b) {
		return Bracket{}, optimization.InvalidArgument("start abscissas must be finite, got %v and %v", a, b)
	}

	var n int
	fa, err := eval(f, a, &n)
	if err != nil {
		return Bracket{}, err
	}
	fb, err := eval(f, b, &n)
	if err != nil {
		return Bracket{}, err
	}
	// Walk downhill from a to b.
	if fb > fa {
		a, b = b, a
		fa, fb = fb, fa
	}
	c := b + gold*(b-a)
	fc, err := eval(f, c, &n)
	if err != nil {
		return Bracket{}, err
	}

	for steps := 0; fb > fc; steps++ {
		if steps >= maxBracketSteps {
			return Bracket{}, optimization.NumericalDomain("no minimum bracketed after %d steps, last f(%v) = %v", steps, c, fc)
		}
		// Parabolic extrapolation through a, b, c.
		r := (b - a) * (fb - fc)
		q := (b - c) * (fb - fa)
		d := q - r
		denom := 2 * math.Copysign(math.Max(math.Abs(d), tinyDenominator), d)
		u := b - ((b-c)*q-(b-a)*r)/denom
		ulim := b + glimit*(c-b)

		var fu float64
		switch {
		case (b-u)*(u-c) > 0:
			// u between b and c.
			if fu, err = eval(f, u, &n); err != nil {
				return Bracket{}, err
			}
			if fu < fc {
				return ordered(b, u, c, fb, fu, fc, n), nil
			} else if fu > fb {
				return ordered(a, b, u, fa, fb, fu, n), nil
			}
			u = c + gold*(c-b)
			if fu, err = eval(f, u, &n); err != nil {
				return Bracket{}, err
			}
		case (c-u)*(u-ulim) > 0:
			// u between c and its limit.
			if fu, err = eval(f, u, &n); err != nil {
				return Bracket{}, err
			}
			if fu < fc {
				b, c, u = c, u, u+gold*(u-c)
				fb, fc = fc, fu
				if fu, err = eval(f, u, &n); err != nil {
					return Bracket{}, err
				}
			}
		case (u-ulim)*(ulim-c) >= 0:
			u = ulim
			if fu, err = eval(f, u, &n); err != nil {
				return Bracket{}, err
			}
		default:
			u = c + gold*(c-b)
			if fu, err = eval(f, u, &n); err != nil {
				return Bracket{}, err
			}
		}
		a, b, c = b, c, u
		fa, fb, fc = fb, fc, fu
	}
	return ordered(a, b, c, fa, fb, fc, n), nil
}

func ordered(a, b, c, fa, fb, fc float64, n int) Bracket {
	if a > c {
		a, c = c, a
		fa, fc = fc, fa
	}
	return Bracket{Lower: a, Middle: b, Upper: c, FLower: fa, FMiddle: fb, FUpper: fc, Evaluations: n}
}

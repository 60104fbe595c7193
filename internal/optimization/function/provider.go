package function

import (
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/powell/internal/optimization"
)

// The helpers below normalize the alternative point representations onto
// Provider.From so that every provider shares one evaluation path.

// FromVector binds p to the points held in an ordered vector.
func FromVector(p optimization.Provider, points mat.Vector) (optimization.VectorFunction, error) {
	if p == nil {
		return nil, optimization.InvalidArgument("nil provider")
	}
	if points == nil {
		return nil, optimization.InvalidArgument("nil points")
	}
	x := make([]float64, points.Len())
	for i := range x {
		x[i] = points.AtVec(i)
	}
	return p.From(x)
}

// FromBoxed binds p to points given as individually allocated values.
// A nil slice or a nil element is an invalid argument.
func FromBoxed(p optimization.Provider, points []*float64) (optimization.VectorFunction, error) {
	if p == nil {
		return nil, optimization.InvalidArgument("nil provider")
	}
	if points == nil {
		return nil, optimization.InvalidArgument("nil points")
	}
	x := make([]float64, len(points))
	for i, v := range points {
		if v == nil {
			return nil, optimization.InvalidArgument("nil point at index %d", i)
		}
		x[i] = *v
	}
	return p.From(x)
}

// FromSlice binds p to a copy of points.
func FromSlice(p optimization.Provider, points []float64) (optimization.VectorFunction, error) {
	if p == nil {
		return nil, optimization.InvalidArgument("nil provider")
	}
	if points == nil {
		return nil, optimization.InvalidArgument("nil points")
	}
	return p.From(append([]float64(nil), points...))
}

// Boxed converts values to the boxed representation accepted by FromBoxed.
func Boxed(values []float64) []*float64 {
	if values == nil {
		return nil
	}
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

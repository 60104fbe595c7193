// Package objectives provides standard test functions for minimizers, each
// with its known global minimum.
package objectives

import (
	"fmt"
	"sort"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/function"
)

// Objective is a named test function with a known minimum.
type Objective struct {
	Name     string
	Function optimization.VectorFunction
	// Start is the conventional starting point.
	Start  []float64
	OptLoc []float64
	OptVal float64
}

// Rosenbrock is f(x, y) = (1-x)^2 + 100(y-x^2)^2, minimum 0 at (1, 1).
func Rosenbrock() Objective {
	return Objective{
		Name:     "rosenbrock",
		Function: function.MustScalar(2, rosenbrock2),
		Start:    []float64{-1.2, 1},
		OptLoc:   []float64{1, 1},
	}
}

func rosenbrock2(x []float64) float64 {
	t0 := x[1] - x[0]*x[0]
	t1 := 1 - x[0]
	return 100*t0*t0 + t1*t1
}

// RosenbrockResiduals is the residual vector (1-x, 10(y-x^2)) whose sum of
// squares is the Rosenbrock function.
func RosenbrockResiduals() optimization.VectorFunction {
	f, err := function.New(2, 2, func(x []float64) []float64 {
		return []float64{1 - x[0], 10 * (x[1] - x[0]*x[0])}
	})
	if err != nil {
		panic(err)
	}
	return f
}

// ChainedRosenbrock couples n-1 Rosenbrock terms across consecutive
// coordinates: sum_i (1-x_i)^2 + 100(x_{i+1}-x_i^2)^2. Minimum 0 at (1, ..., 1).
func ChainedRosenbrock(n int) (Objective, error) {
	if n < 2 {
		return Objective{}, optimization.InvalidArgument("chained rosenbrock needs at least 2 dimensions, got %d", n)
	}
	f, err := function.NewScalar(n, func(x []float64) float64 {
		var sum float64
		for i := 0; i+1 < len(x); i++ {
			t0 := x[i+1] - x[i]*x[i]
			t1 := 1 - x[i]
			sum += 100*t0*t0 + t1*t1
		}
		return sum
	})
	if err != nil {
		return Objective{}, err
	}
	return Objective{
		Name:     "chained_rosenbrock",
		Function: f,
		Start:    alternating(n),
		OptLoc:   ones(n),
	}, nil
}

// BlockRosenbrock sums independent Rosenbrock copies over coordinate pairs.
// With scaled set, copy i is weighted by i+1, which makes the problem harder
// to solve. Minimum 0 at (1, ..., 1).
func BlockRosenbrock(copies int, scaled bool) (Objective, error) {
	if copies < 1 {
		return Objective{}, optimization.InvalidArgument("block rosenbrock needs at least one copy, got %d", copies)
	}
	f, err := function.NewScalar(2*copies, func(x []float64) float64 {
		var sum float64
		for i := 0; i < copies; i++ {
			scale := 1.0
			if scaled {
				scale = float64(i + 1)
			}
			sum += scale * rosenbrock2(x[2*i:2*i+2])
		}
		return sum
	})
	if err != nil {
		return Objective{}, err
	}
	return Objective{
		Name:     "block_rosenbrock",
		Function: f,
		Start:    alternating(2 * copies),
		OptLoc:   ones(2 * copies),
	}, nil
}

// Sphere is sum_i x_i^2, minimum 0 at the origin.
func Sphere(n int) (Objective, error) {
	f, err := function.NewScalar(n, func(x []float64) float64 {
		var sum float64
		for _, v := range x {
			sum += v * v
		}
		return sum
	})
	if err != nil {
		return Objective{}, err
	}
	start := make([]float64, n)
	for i := range start {
		start[i] = float64(i + 1)
	}
	return Objective{
		Name:     "sphere",
		Function: f,
		Start:    start,
		OptLoc:   make([]float64, n),
	}, nil
}

// Booth is (x+2y-7)^2 + (2x+y-5)^2, minimum 0 at (1, 3).
func Booth() Objective {
	return Objective{
		Name: "booth",
		Function: function.MustScalar(2, func(x []float64) float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return a*a + b*b
		}),
		Start:  []float64{0, 0},
		OptLoc: []float64{1, 3},
	}
}

func alternating(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		if i%2 == 0 {
			x[i] = -1.2
		} else {
			x[i] = 1
		}
	}
	return x
}

func ones(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}
	return x
}

type constructor func(dim int) (Objective, error)

var registry = map[string]constructor{
	"rosenbrock": func(dim int) (Objective, error) {
		if dim != 0 && dim != 2 {
			return Objective{}, optimization.InvalidArgument("rosenbrock is 2-dimensional, got %d", dim)
		}
		return Rosenbrock(), nil
	},
	"chained_rosenbrock": func(dim int) (Objective, error) {
		if dim == 0 {
			dim = 4
		}
		return ChainedRosenbrock(dim)
	},
	"block_rosenbrock": func(dim int) (Objective, error) {
		if dim == 0 {
			dim = 4
		}
		if dim%2 != 0 {
			return Objective{}, optimization.InvalidArgument("block rosenbrock needs an even dimension, got %d", dim)
		}
		return BlockRosenbrock(dim/2, false)
	},
	"sphere": func(dim int) (Objective, error) {
		if dim == 0 {
			dim = 3
		}
		return Sphere(dim)
	},
	"booth": func(dim int) (Objective, error) {
		if dim != 0 && dim != 2 {
			return Objective{}, optimization.InvalidArgument("booth is 2-dimensional, got %d", dim)
		}
		return Booth(), nil
	},
}

// Lookup returns the named objective. A zero dim selects the default dimension.
func Lookup(name string, dim int) (Objective, error) {
	c, ok := registry[name]
	if !ok {
		return Objective{}, optimization.InvalidArgument("unknown objective %q", name)
	}
	if dim < 0 {
		return Objective{}, optimization.InvalidArgument("negative dimension %d", dim)
	}
	o, err := c(dim)
	if err != nil {
		return Objective{}, fmt.Errorf("objective %s: %w", name, err)
	}
	return o, nil
}

// Names lists the registered objectives in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

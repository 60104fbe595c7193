// Package optimizationtest holds helpers shared by the optimization tests.
package optimizationtest

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// AssertFloat64SlicesEqual checks if two float64 slices are approximately equal
func AssertFloat64SlicesEqual(t testing.TB, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("at index %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}

// AssertNonIncreasing checks that every value is <= its predecessor.
func AssertNonIncreasing(t testing.TB, values []float64) {
	t.Helper()

	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			t.Fatalf("value increased at %d: %v -> %v", i, values[i-1], values[i])
		}
	}
}

// RandomPoint draws a point uniformly from [min, max]^dim using the given seed.
func RandomPoint(seed uint64, dim int, min, max float64) []float64 {
	u := distuv.Uniform{Min: min, Max: max, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	x := make([]float64, dim)
	for i := range x {
		x[i] = u.Rand()
	}
	return x
}

// RandomPoints draws n points with RandomPoint, each from a derived seed.
func RandomPoints(seed uint64, n, dim int, min, max float64) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		pts[i] = RandomPoint(seed+uint64(i)*7919, dim, min, max)
	}
	return pts
}

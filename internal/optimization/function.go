package optimization

// VectorFunction is a pure mapping from R^InputDim to R^OutputDim.
//
// Evaluate must fail with ErrInvalidArgument when len(x) != InputDim and must
// not retain or modify x. Calling Evaluate twice with the same input yields
// the same output.
type VectorFunction interface {
	InputDim() int
	OutputDim() int
	Evaluate(x []float64) ([]float64, error)
}

// Provider produces a VectorFunction bound to a fixed set of data points.
//
// From is the single primitive operation; the boxed and ordered-sequence
// input shapes are normalized onto it by the function package.
type Provider interface {
	From(points []float64) (VectorFunction, error)
}

// ScalarValue evaluates a scalar-valued function and returns its only output.
// It fails with ErrInvalidArgument if f does not have exactly one output.
func ScalarValue(f VectorFunction, x []float64) (float64, error) {
	if f == nil {
		return 0, InvalidArgument("nil function")
	}
	if f.OutputDim() != 1 {
		return 0, InvalidArgument("expected a scalar function, got output dimension %d", f.OutputDim())
	}
	y, err := f.Evaluate(x)
	if err != nil {
		return 0, err
	}
	if len(y) != 1 {
		return 0, InvalidArgument("function declared 1 output but returned %d", len(y))
	}
	return y[0], nil
}

// Package powell implements Powell's conjugate direction method: derivative
// free minimization by repeated line searches along a direction set that is
// updated with the net displacement of every sweep.
package powell

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/line"
)

// Minimizer is a conjugate direction minimizer. It may be reused for
// sequential searches; concurrent searches are safe as long as the configured
// line minimizer is.
type Minimizer struct {
	cfg Config
}

var _ optimization.Minimizer = (*Minimizer)(nil)

// New creates a minimizer from cfg. A nil line minimizer or logger is replaced
// by the default.
func New(cfg Config) (*Minimizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Line == nil {
		cfg.Line = line.NewBrent()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Minimizer{cfg: cfg}, nil
}

// NewMinimizer creates a minimizer with the given line minimizer, hybrid
// tolerance and sweep budget.
func NewMinimizer(lm line.Minimizer, tolerance float64, maxIterations int) (*Minimizer, error) {
	cfg := DefaultConfig()
	cfg.Line = lm
	cfg.Convergence.Tolerance = tolerance
	cfg.MaxIterations = maxIterations
	return New(cfg)
}

// Config returns the minimizer's configuration.
func (m *Minimizer) Config() Config {
	return m.cfg
}

// Minimize searches for a local minimum of the scalar function f starting at
// start.
//
// It fails with ErrInvalidArgument when f is not scalar or start does not
// match its input dimension, and with ErrNumericalDomain when f becomes
// non-finite. Exhausting MaxIterations is not an error: the result then has
// Converged == false and Status == StatusIterationLimit. A nil ctx is treated
// as context.Background().
func (m *Minimizer) Minimize(ctx context.Context, f optimization.VectorFunction, start []float64) (*optimization.Result, error) {
	const op = "Minimize"

	if ctx == nil {
		ctx = context.Background()
	}
	if f == nil {
		return nil, optimization.InvalidArgument("nil objective").WithComponent("powell").WithOperation(op)
	}
	if f.OutputDim() != 1 {
		return nil, optimization.InvalidArgument("objective has %d outputs, reduce it to a scalar first", f.OutputDim()).
			WithComponent("powell").WithOperation(op)
	}
	if start == nil || len(start) != f.InputDim() {
		return nil, optimization.InvalidArgument("start point has length %d, objective dimension is %d", len(start), f.InputDim()).
			WithComponent("powell").WithOperation(op)
	}

	s, err := newState(f, start)
	if err != nil {
		return nil, err
	}
	cfg := m.cfg
	log := cfg.Logger
	history := []float64{s.fx}
	// anchor is the point reached by the previous sweep, before the extra
	// line search along the new direction.
	anchor := s.x

	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sweepStart := s.x
		fStart := s.fx
		largest, ibig := 0.0, 0
		for i := 0; i < s.n; i++ {
			dec, err := s.lineMinimize(cfg.Line, s.dirs.RawRowView(i))
			if err != nil {
				return nil, err
			}
			if dec > largest {
				largest, ibig = dec, i
			}
		}
		history = append(history, s.fx)

		log.Debug("sweep completed",
			zap.Int("iteration", iter),
			zap.Float64("value", s.fx),
			zap.Float64("decrease", fStart-s.fx),
			zap.Int("evaluations", s.evals),
		)

		if m.converged(sweepStart, fStart, s) {
			log.Debug("converged",
				zap.Int("iterations", iter),
				zap.Float64("value", s.fx),
			)
			return s.result(iter, optimization.StatusConverged, history), nil
		}
		if iter >= cfg.MaxIterations {
			log.Debug("iteration limit reached",
				zap.Int("iterations", iter),
				zap.Float64("value", s.fx),
			)
			return s.result(iter, optimization.StatusIterationLimit, history), nil
		}

		prev := anchor
		anchor = s.x
		if err := m.updateDirections(s, prev, fStart, largest, ibig); err != nil {
			return nil, err
		}
		if cfg.ResetEvery > 0 && iter%cfg.ResetEvery == 0 {
			s.resetDirections()
		}
	}
}

func (m *Minimizer) converged(sweepStart []float64, fStart float64, s *state) bool {
	c := m.cfg.Convergence
	if c.Measure == optimization.PointChange {
		step := floats.Distance(sweepStart, s.x, 2)
		return c.Within(step, floats.Norm(sweepStart, 2), floats.Norm(s.x, 2))
	}
	return c.Within(fStart-s.fx, fStart, s.fx)
}

// updateDirections tries the net displacement of the sweep as a new direction.
// It is only adopted when the extrapolated point is lower and the decrease
// along the replaced direction is not dominant.
func (m *Minimizer) updateDirections(s *state, prev []float64, fStart, largest float64, ibig int) error {
	n := s.n
	disp := make([]float64, n)
	floats.SubTo(disp, s.x, prev)

	extrapolated := make([]float64, n)
	floats.AddScaledTo(extrapolated, s.x, 1, disp)
	fe, err := s.value(extrapolated)
	if err != nil {
		return err
	}
	if fe >= fStart {
		return nil
	}
	t := 2*(fStart-2*s.fx+fe)*sq(fStart-s.fx-largest) - largest*sq(fStart-fe)
	if t >= 0 {
		return nil
	}
	norm := floats.Norm(disp, 2)
	if norm == 0 {
		return nil
	}
	floats.Scale(1/norm, disp)

	if _, err := s.lineMinimize(m.cfg.Line, disp); err != nil {
		return err
	}

	switch m.cfg.Update {
	case ReplaceOldest:
		for i := 0; i < n-1; i++ {
			s.dirs.SetRow(i, s.dirs.RawRowView(i+1))
		}
	default:
		s.dirs.SetRow(ibig, s.dirs.RawRowView(n-1))
	}
	s.dirs.SetRow(n-1, disp)
	return nil
}

func sq(x float64) float64 { return x * x }

// state is the minimization state of a single search.
type state struct {
	f     optimization.VectorFunction
	n     int
	x     []float64
	fx    float64
	dirs  *mat.Dense
	evals int
}

func newState(f optimization.VectorFunction, start []float64) (*state, error) {
	s := &state{
		f: f,
		n: len(start),
		x: append([]float64(nil), start...),
	}
	s.resetDirections()
	fx, err := s.value(s.x)
	if err != nil {
		return nil, err
	}
	s.fx = fx
	return s, nil
}

// resetDirections sets the direction set to the coordinate axes.
func (s *state) resetDirections() {
	s.dirs = mat.NewDense(s.n, s.n, nil)
	for i := 0; i < s.n; i++ {
		s.dirs.Set(i, i, 1)
	}
}

func (s *state) value(x []float64) (float64, error) {
	s.evals++
	v, err := optimization.ScalarValue(s.f, x)
	if err != nil {
		return 0, err
	}
	if !optimization.IsFinite(v) {
		return v, optimization.NumericalDomain("objective is %v at %v", v, x).WithComponent("powell")
	}
	return v, nil
}

// lineMinimize moves the current point to the minimum along dir and returns
// the decrease achieved. The current point is replaced, never mutated.
func (s *state) lineMinimize(lm line.Minimizer, dir []float64) (float64, error) {
	var evalErr error
	probe := make([]float64, s.n)
	g := func(t float64) float64 {
		floats.AddScaledTo(probe, s.x, t, dir)
		v, err := s.value(probe)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return v
	}

	res, err := line.Search(lm, g, 0, 1)
	if evalErr != nil {
		return 0, evalErr
	}
	if err != nil {
		return 0, optimization.WrapError(err, "line search failed").WithComponent("powell")
	}
	if !(res.F < s.fx) {
		return 0, nil
	}

	next := make([]float64, s.n)
	floats.AddScaledTo(next, s.x, res.X, dir)
	dec := s.fx - res.F
	s.x, s.fx = next, res.F
	return dec, nil
}

func (s *state) result(iter int, status optimization.Status, history []float64) *optimization.Result {
	return &optimization.Result{
		Point:       append([]float64(nil), s.x...),
		Value:       s.fx,
		Iterations:  iter,
		Evaluations: s.evals,
		Converged:   status == optimization.StatusConverged,
		Status:      status,
		History:     history,
	}
}

package powell

import (
	"go.uber.org/zap"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/line"
)

// Update selects which direction the net displacement of a sweep replaces.
type Update int

const (
	// ReplaceLargestDecrease discards the direction along which the sweep made
	// its largest decrease. That direction is the major component of the new
	// one, so dropping it keeps the set from becoming linearly dependent.
	ReplaceLargestDecrease Update = iota
	// ReplaceOldest discards the first direction and shifts the rest.
	ReplaceOldest
)

// ParseUpdate maps a configuration string onto an Update rule.
func ParseUpdate(s string) (Update, error) {
	switch s {
	case "", "largest_decrease":
		return ReplaceLargestDecrease, nil
	case "oldest":
		return ReplaceOldest, nil
	}
	return ReplaceLargestDecrease, optimization.InvalidArgument("unknown direction update %q", s)
}

func (u Update) String() string {
	switch u {
	case ReplaceLargestDecrease:
		return "largest_decrease"
	case ReplaceOldest:
		return "oldest"
	default:
		return "unknown"
	}
}

// Config contains configuration for the conjugate direction minimizer.
// It is fixed at construction and shared read-only by every search.
type Config struct {
	// Convergence is the tolerance policy applied after every sweep.
	Convergence optimization.Convergence

	// Maximum number of sweeps
	MaxIterations int

	// Direction replacement rule
	Update Update

	// ResetEvery resets the direction set to the coordinate axes after every
	// ResetEvery sweeps. Zero never resets.
	ResetEvery int

	// Line minimizer used along each direction. Defaults to line.NewBrent().
	Line line.Minimizer

	// Logger receives per-sweep progress at debug level. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns a hybrid tolerance of 1e-10, 100000 sweeps and Brent line searches.
func DefaultConfig() Config {
	return Config{
		Convergence:   optimization.DefaultConvergence(),
		MaxIterations: 100000,
		Update:        ReplaceLargestDecrease,
		Line:          line.NewBrent(),
		Logger:        zap.NewNop(),
	}
}

func (c Config) validate() error {
	if err := c.Convergence.Validate(); err != nil {
		return err
	}
	if c.MaxIterations < 1 {
		return optimization.InvalidArgument("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.ResetEvery < 0 {
		return optimization.InvalidArgument("reset interval must not be negative, got %d", c.ResetEvery)
	}
	if c.Update != ReplaceLargestDecrease && c.Update != ReplaceOldest {
		return optimization.InvalidArgument("unknown direction update %d", c.Update)
	}
	return nil
}

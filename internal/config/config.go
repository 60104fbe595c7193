package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/line"
	"github.com/copyleftdev/powell/internal/optimization/powell"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Minimizer struct {
		Tolerance     float64 `env:"MIN_TOLERANCE" envDefault:"1e-10"`
		MaxIterations int     `env:"MIN_MAX_ITERATIONS" envDefault:"100000"`
		LineTolerance float64 `env:"MIN_LINE_TOLERANCE" envDefault:"3e-8"`
		Criterion     string  `env:"MIN_CRITERION" envDefault:"hybrid"`
		Update        string  `env:"MIN_UPDATE" envDefault:"largest_decrease"`
		ResetEvery    int     `env:"MIN_RESET_EVERY" envDefault:"0"`
		WorkerCount   int     `env:"MIN_WORKER_COUNT" envDefault:"4"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		} else {
			cfg.Logging.Level = "info"
		}
	}

	if cfg.Minimizer.WorkerCount < 1 {
		return nil, fmt.Errorf("MIN_WORKER_COUNT must be positive, got %d", cfg.Minimizer.WorkerCount)
	}
	if _, err := cfg.PowellConfig(); err != nil {
		return nil, fmt.Errorf("minimizer configuration: %w", err)
	}

	return cfg, nil
}

// PowellConfig translates the Minimizer block into a conjugate direction
// configuration. The logger is left for the caller to set.
func (c *Config) PowellConfig() (powell.Config, error) {
	pc := powell.DefaultConfig()

	criterion, err := optimization.ParseCriterion(c.Minimizer.Criterion)
	if err != nil {
		return pc, err
	}
	update, err := powell.ParseUpdate(c.Minimizer.Update)
	if err != nil {
		return pc, err
	}
	if !(c.Minimizer.LineTolerance > 0) {
		return pc, optimization.InvalidArgument("line tolerance must be positive, got %v", c.Minimizer.LineTolerance)
	}

	pc.Convergence.Tolerance = c.Minimizer.Tolerance
	pc.Convergence.Criterion = criterion
	pc.MaxIterations = c.Minimizer.MaxIterations
	pc.Update = update
	pc.ResetEvery = c.Minimizer.ResetEvery

	brent := line.NewBrent()
	brent.Tolerance = c.Minimizer.LineTolerance
	pc.Line = brent

	if _, err := powell.New(pc); err != nil {
		return pc, err
	}
	return pc, nil
}

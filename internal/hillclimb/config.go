package hillclimb

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for configurations the driver cannot run.
var ErrInvalidConfig = errors.New("invalid hill climbing config")

// Variant selects the acceptance policy.
type Variant string

const (
	Steepest      Variant = "steepest"
	Sideways      Variant = "sideways"
	Stochastic    Variant = "stochastic"
	RandomRestart Variant = "random-restart"
)

// Config selects the variant and its budgets. Fields a variant does not use
// are ignored.
type Config struct {
	Variant Variant

	// MaxIterations bounds the steepest, sideways and stochastic loops.
	MaxIterations int
	// MaxSideways bounds consecutive equal-cost moves.
	MaxSideways int

	Restarts             int
	IterationsPerRestart int

	// Workers > 1 evaluates neighbor costs concurrently.
	Workers int
}

// DefaultConfig returns the steepest variant with the budgets of every
// variant at their documented defaults.
func DefaultConfig() Config {
	return Config{
		Variant:              Steepest,
		MaxIterations:        1000,
		MaxSideways:          10,
		Restarts:             10,
		IterationsPerRestart: 100,
		Workers:              1,
	}
}

// Validate checks the budgets used by the selected variant.
func (c Config) Validate() error {
	switch c.Variant {
	case Steepest, Stochastic:
	case Sideways:
		if c.MaxSideways < 0 {
			return fmt.Errorf("%w: max sideways must be >= 0 (got %d)", ErrInvalidConfig, c.MaxSideways)
		}
	case RandomRestart:
		if c.Restarts <= 0 {
			return fmt.Errorf("%w: restarts must be > 0 (got %d)", ErrInvalidConfig, c.Restarts)
		}
		if c.IterationsPerRestart <= 0 {
			return fmt.Errorf("%w: iterations per restart must be > 0 (got %d)", ErrInvalidConfig, c.IterationsPerRestart)
		}
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	if c.Variant != RandomRestart && c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be > 0 (got %d)", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0 (got %d)", ErrInvalidConfig, c.Workers)
	}
	return nil
}

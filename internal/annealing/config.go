package annealing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned for configurations the driver cannot run.
var ErrInvalidConfig = errors.New("invalid simulated annealing config")

// MaxSteps bounds the length of a cooling schedule. Every step appends to
// the history and the trace, so longer schedules are rejected by Validate.
const MaxSteps = 1_000_000

// Config holds the cooling schedule and the neighbor sampling parameters.
// The schedule runs T = InitialTemp, T*CoolingRate, ... while T > MinTemp.
type Config struct {
	InitialTemp float64
	CoolingRate float64
	// MinTemp is the stopping temperature; the loop runs while T > MinTemp.
	MinTemp float64

	NewContainerBias float64
	MaxAttempts      int
}

// DefaultConfig returns a schedule of 1146 steps from 100 down to 1e-3.
func DefaultConfig() Config {
	return Config{
		InitialTemp:      100,
		CoolingRate:      0.99,
		MinTemp:          1e-3,
		NewContainerBias: 0.12,
		MaxAttempts:      100,
	}
}

// Validate rejects schedules that do not terminate within MaxSteps and
// sampling parameters out of range.
func (c Config) Validate() error {
	for _, v := range []float64{c.InitialTemp, c.MinTemp, c.CoolingRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: temperatures and cooling rate must be finite (got %+v)", ErrInvalidConfig, c)
		}
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf("%w: initial temperature must be > 0 (got %f)", ErrInvalidConfig, c.InitialTemp)
	}
	if c.MinTemp <= 0 {
		return fmt.Errorf("%w: minimum temperature must be > 0 (got %f)", ErrInvalidConfig, c.MinTemp)
	}
	if c.MinTemp >= c.InitialTemp {
		return fmt.Errorf("%w: minimum temperature must be < initial temperature (got %f >= %f)", ErrInvalidConfig, c.MinTemp, c.InitialTemp)
	}
	if c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return fmt.Errorf("%w: cooling rate must lie in (0,1) (got %f)", ErrInvalidConfig, c.CoolingRate)
	}
	if steps := c.Steps(); steps > MaxSteps {
		return fmt.Errorf("%w: schedule runs %d steps, more than %d; lower the cooling rate or raise the minimum temperature", ErrInvalidConfig, steps, MaxSteps)
	}
	if c.NewContainerBias < 0 || c.NewContainerBias > 1 {
		return fmt.Errorf("%w: new container bias must lie in [0,1] (got %f)", ErrInvalidConfig, c.NewContainerBias)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be > 0 (got %d)", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// Steps returns the number of iterations the schedule runs:
// ceil(log(MinTemp/InitialTemp) / log(CoolingRate)). It is only meaningful
// for temperatures and a cooling rate that pass the range checks of Validate.
func (c Config) Steps() int {
	if c.InitialTemp <= c.MinTemp || c.MinTemp <= 0 || c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return 0
	}
	n := math.Ceil(math.Log(c.MinTemp/c.InitialTemp) / math.Log(c.CoolingRate))
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

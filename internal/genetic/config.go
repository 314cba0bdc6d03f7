package genetic

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for configurations the driver cannot run.
var ErrInvalidConfig = errors.New("invalid genetic algorithm config")

// MaxPopulation bounds the number of packings kept alive per generation.
const MaxPopulation = 10_000

// Config holds the population size, the generation budget and the operator
// rates.
type Config struct {
	Population     int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	TournamentSize int

	// NewContainerBias is the probability that a mutating relocation opens
	// a new container.
	NewContainerBias float64
}

// DefaultConfig returns a population of 50 evolved for 100 generations.
func DefaultConfig() Config {
	return Config{
		Population:       50,
		Generations:      100,
		MutationRate:     0.1,
		CrossoverRate:    0.8,
		TournamentSize:   3,
		NewContainerBias: 0.1,
	}
}

// Validate checks sizes and rates.
func (c Config) Validate() error {
	if c.Population <= 1 || c.Population > MaxPopulation {
		return fmt.Errorf("%w: population must lie in [2,%d] (got %d)", ErrInvalidConfig, MaxPopulation, c.Population)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("%w: generations must be > 0 (got %d)", ErrInvalidConfig, c.Generations)
	}
	if c.TournamentSize <= 0 {
		return fmt.Errorf("%w: tournament size must be > 0 (got %d)", ErrInvalidConfig, c.TournamentSize)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate must lie in [0,1] (got %f)", ErrInvalidConfig, c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must lie in [0,1] (got %f)", ErrInvalidConfig, c.MutationRate)
	}
	if c.NewContainerBias < 0 || c.NewContainerBias > 1 {
		return fmt.Errorf("%w: new container bias must lie in [0,1] (got %f)", ErrInvalidConfig, c.NewContainerBias)
	}
	return nil
}

package engine

import (
	"github.com/eugenenazirov/binpack-search/internal/annealing"
	"github.com/eugenenazirov/binpack-search/internal/genetic"
	"github.com/eugenenazirov/binpack-search/internal/hillclimb"
	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// Settings holds the objective weights and the parameters of every driver.
// The hill climbing variant is taken from the method of each run.
type Settings struct {
	Weights   packing.Weights
	HillClimb hillclimb.Config
	Annealing annealing.Config
	Genetic   genetic.Config
}

// DefaultSettings returns the default weights and driver configurations.
func DefaultSettings() Settings {
	return Settings{
		Weights:   packing.DefaultWeights(),
		HillClimb: hillclimb.DefaultConfig(),
		Annealing: annealing.DefaultConfig(),
		Genetic:   genetic.DefaultConfig(),
	}
}

// Validate checks the weights and every driver configuration.
func (s Settings) Validate() error {
	if err := s.Weights.Validate(); err != nil {
		return err
	}
	for _, v := range []hillclimb.Variant{hillclimb.Steepest, hillclimb.Sideways, hillclimb.Stochastic, hillclimb.RandomRestart} {
		cfg := s.HillClimb
		cfg.Variant = v
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if err := s.Annealing.Validate(); err != nil {
		return err
	}
	return s.Genetic.Validate()
}

// Package genetic evolves a population of packings with tournament
// selection, cut-point crossover followed by repair, mutation and a single
// elite.
package genetic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/eugenenazirov/binpack-search/internal/neighborhood"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

// Solver runs the genetic algorithm with a fixed configuration and cost
// function.
type Solver struct {
	Cfg  Config
	Rng  *rand.Rand
	Cost packing.CostFunction
}

// New validates the configuration and returns a solver.
func New(cfg Config, rng *rand.Rand, cost packing.CostFunction) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("genetic: random source is nil")
	}
	if cost == nil {
		return nil, errors.New("genetic: cost function is nil")
	}
	return &Solver{Cfg: cfg, Rng: rng, Cost: cost}, nil
}

// Run evolves the given population for Cfg.Generations generations. Missing
// members, up to Cfg.Population, are seeded by random placement. Initial is
// the best member of the starting population and Final the best state ever
// seen.
func (s *Solver) Run(p *packing.Problem, population []*packing.State) (search.Result, error) {
	start := time.Now()

	if err := p.Validate(); err != nil {
		return search.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return search.Result{}, err
	}
	if len(population) > s.Cfg.Population {
		return search.Result{}, fmt.Errorf("%w: %d seed states exceed population %d", ErrInvalidConfig, len(population), s.Cfg.Population)
	}

	pop := make([]individual, 0, s.Cfg.Population)
	for i, st := range population {
		if !p.Conserves(st) {
			return search.Result{}, fmt.Errorf("%w: seed state %d does not hold every item exactly once", packing.ErrMalformedProblem, i)
		}
		pop = append(pop, individual{state: st.Clone()})
	}
	for len(pop) < s.Cfg.Population {
		pop = append(pop, individual{state: p.RandomState(s.Rng)})
	}
	s.score(pop)

	initial := pop[0]
	for _, ind := range pop[1:] {
		if ind.cost < initial.cost {
			initial = ind
		}
	}
	initialState := initial.state.Clone()
	best, bestCost := initialState.Clone(), initial.cost
	maxOverall := initial.cost

	hist := search.NewHistory(s.Cfg.Generations)
	scratch := make([]int, s.Cfg.Population)
	next := make([]individual, 0, s.Cfg.Population)

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		if gen > 0 {
			s.score(pop)
		}

		genBest, genMax, sum := pop[0].cost, pop[0].cost, 0.0
		for _, ind := range pop {
			sum += ind.cost
			if ind.cost < genBest {
				genBest = ind.cost
			}
			if ind.cost > genMax {
				genMax = ind.cost
			}
			if ind.cost < bestCost {
				best, bestCost = ind.state.Clone(), ind.cost
			}
		}
		if genMax > maxOverall {
			maxOverall = genMax
		}
		hist.Record(genBest, sum/float64(len(pop)), genMax, bestCost)

		next = next[:0]
		next = append(next, individual{state: best.Clone()})
		for len(next) < s.Cfg.Population {
			parent1 := tournament(pop, s.Cfg.TournamentSize, s.Rng, scratch)
			parent2 := tournament(pop, s.Cfg.TournamentSize, s.Rng, scratch)

			var child *packing.State
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				child = crossover(p, parent1.state, parent2.state, s.Rng)
			} else {
				child = parent1.state.Clone()
			}
			if s.Rng.Float64() < s.Cfg.MutationRate {
				neighborhood.Perturb(child, s.Rng, s.Cfg.NewContainerBias)
			}
			next = append(next, individual{state: child})
		}
		pop, next = next, pop
	}

	// The last generation's offspring are never recorded but may hold a new best.
	s.score(pop)
	for _, ind := range pop {
		if ind.cost < bestCost {
			best, bestCost = ind.state.Clone(), ind.cost
		}
	}

	return search.Result{
		Method:      search.GeneticAlgorithm,
		Initial:     initialState,
		InitialCost: initial.cost,
		Final:       best,
		FinalCost:   bestCost,
		History:     hist,
		Iterations:  s.Cfg.Generations,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"population":     s.Cfg.Population,
			"generations":    s.Cfg.Generations,
			"mutation_rate":  s.Cfg.MutationRate,
			"crossover_rate": s.Cfg.CrossoverRate,
			"max_overall":    maxOverall,
		},
	}, nil
}

func (s *Solver) score(pop []individual) {
	for i := range pop {
		pop[i].cost = s.Cost.Cost(pop[i].state)
	}
}

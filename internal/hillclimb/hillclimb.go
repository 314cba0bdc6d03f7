// Package hillclimb implements four hill climbing variants over the full
// relocate/swap neighborhood.
package hillclimb

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/eugenenazirov/binpack-search/internal/neighborhood"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

// Solver runs one hill climbing variant.
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
		return nil, errors.New("hillclimb: random source is nil")
	}
	if cost == nil {
		return nil, errors.New("hillclimb: cost function is nil")
	}
	return &Solver{Cfg: cfg, Rng: rng, Cost: cost}, nil
}

// trajectory is the outcome of one climb.
type trajectory struct {
	best       *packing.State
	bestCost   float64
	iterations int
	sideways   int
	stopped    string
}

// Reasons a climb ends.
const (
	stopLocalOptimum = "local_optimum"
	stopSideways     = "sideways_limit"
	stopIterations   = "iterations"
	stopNoNeighbors  = "no_neighbors"
)

// Run climbs from initial, or from a random placement when initial is nil.
// The returned Final is the best state seen.
func (s *Solver) Run(p *packing.Problem, initial *packing.State) (search.Result, error) {
	start := time.Now()

	if err := p.Validate(); err != nil {
		return search.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return search.Result{}, err
	}
	if initial == nil {
		initial = p.RandomState(s.Rng)
	}
	if !p.Conserves(initial) {
		return search.Result{}, fmt.Errorf("%w: initial state does not hold every item exactly once", packing.ErrMalformedProblem)
	}

	initialCost := s.Cost.Cost(initial)
	res := search.Result{
		Method:      s.method(),
		Initial:     initial.Clone(),
		InitialCost: initialCost,
		Meta:        map[string]any{"variant": string(s.Cfg.Variant)},
	}

	switch s.Cfg.Variant {
	case Steepest, Sideways, Stochastic:
		var hist search.History
		c := s.climb(initial.Clone(), s.Cfg.Variant, s.Cfg.MaxIterations, &hist)
		res.Final, res.FinalCost = c.best, c.bestCost
		res.Iterations = c.iterations
		res.History = hist
		res.Meta["stopped"] = c.stopped
		if s.Cfg.Variant == Sideways {
			res.Meta["sideways_moves"] = c.sideways
		}
	case RandomRestart:
		var (
			hist       search.History
			perRestart []int
			finalCosts []float64
		)
		for r := 0; r < s.Cfg.Restarts; r++ {
			from := initial
			if r > 0 {
				from = p.RandomState(s.Rng)
			}
			c := s.climb(from.Clone(), Steepest, s.Cfg.IterationsPerRestart, nil)
			perRestart = append(perRestart, c.iterations)
			finalCosts = append(finalCosts, c.bestCost)
			res.Iterations += c.iterations
			if res.Final == nil || c.bestCost < res.FinalCost {
				res.Final, res.FinalCost = c.best, c.bestCost
			}
			hist.RecordCurrent(c.bestCost, res.FinalCost)
		}
		res.History = hist
		res.Meta["restarts"] = s.Cfg.Restarts
		res.Meta["restart_iterations"] = perRestart
		res.Meta["restart_costs"] = finalCosts
	default:
		return search.Result{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, s.Cfg.Variant)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// climb walks from current under the given acceptance policy for at most
// maxIter iterations. hist may be nil.
func (s *Solver) climb(current *packing.State, policy Variant, maxIter int, hist *search.History) trajectory {
	currentCost := s.Cost.Cost(current)
	out := trajectory{best: current.Clone(), bestCost: currentCost, stopped: stopIterations}
	if hist != nil {
		hist.RecordCurrent(currentCost, currentCost)
	}

	consecutiveSideways := 0
	for out.iterations < maxIter {
		out.iterations++

		neighbors := neighborhood.All(current)
		if len(neighbors) == 0 {
			out.stopped = stopNoNeighbors
			break
		}
		costs := s.evaluate(neighbors)

		next, stop := -1, stopLocalOptimum
		switch policy {
		case Stochastic:
			improving := make([]int, 0, len(neighbors))
			for i, c := range costs {
				if c < currentCost {
					improving = append(improving, i)
				}
			}
			if len(improving) > 0 {
				next = improving[s.Rng.Intn(len(improving))]
			}
		default:
			best := argmin(costs)
			switch {
			case costs[best] < currentCost:
				next = best
				consecutiveSideways = 0
			case policy == Sideways && costs[best] == currentCost:
				if consecutiveSideways >= s.Cfg.MaxSideways {
					stop = stopSideways
					break
				}
				next = best
				consecutiveSideways++
				out.sideways++
			}
		}

		if next < 0 {
			out.stopped = stop
			break
		}

		current, currentCost = neighbors[next].State, costs[next]
		if currentCost < out.bestCost {
			out.best, out.bestCost = current.Clone(), currentCost
		}
		if hist != nil {
			hist.RecordCurrent(currentCost, out.bestCost)
		}
	}
	return out
}

// evaluate returns the cost of every neighbor, in neighbor order.
func (s *Solver) evaluate(neighbors []neighborhood.Neighbor) []float64 {
	costs := make([]float64, len(neighbors))
	if s.Cfg.Workers <= 1 || len(neighbors) < 2 {
		for i, nb := range neighbors {
			costs[i] = s.Cost.Cost(nb.State)
		}
		return costs
	}

	p := pool.New().WithMaxGoroutines(s.Cfg.Workers)
	for i := range neighbors {
		p.Go(func() {
			costs[i] = s.Cost.Cost(neighbors[i].State)
		})
	}
	p.Wait()
	return costs
}

func (s *Solver) method() search.Method {
	switch s.Cfg.Variant {
	case Sideways:
		return search.HillClimbSideways
	case Stochastic:
		return search.HillClimbStochastic
	case RandomRestart:
		return search.HillClimbRandomRestart
	default:
		return search.HillClimbSteepest
	}
}

// argmin returns the first index of the smallest value.
func argmin(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return best
}

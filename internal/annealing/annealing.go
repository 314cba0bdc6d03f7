// Package annealing implements simulated annealing with a geometric
// cooling schedule and Metropolis acceptance.
package annealing

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/eugenenazirov/binpack-search/internal/neighborhood"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

// Trace is the per-iteration record of the schedule. Temperatures[i] is the
// temperature iteration i ran at; Acceptance[i] the probability with which
// its candidate was accepted (0 when no neighbor could be drawn).
type Trace struct {
	Temperatures []float64 `json:"temperatures"`
	Acceptance   []float64 `json:"acceptance"`
	Accepted     int       `json:"accepted"`
	Stuck        int       `json:"stuck"`
}

// Solver anneals packings with a fixed schedule and cost function.
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
		return nil, errors.New("annealing: random source is nil")
	}
	if cost == nil {
		return nil, errors.New("annealing: cost function is nil")
	}
	return &Solver{Cfg: cfg, Rng: rng, Cost: cost}, nil
}

// Run anneals from initial, or from a random placement when initial is nil.
// The number of iterations depends only on the schedule. Final is the best
// state seen; Meta["trace"] holds the *Trace.
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

	steps := min(s.Cfg.Steps(), search.MaxPrealloc)
	hist := search.NewHistory(steps)
	trace := &Trace{
		Temperatures: make([]float64, 0, steps),
		Acceptance:   make([]float64, 0, steps),
	}

	current := initial.Clone()
	currentCost := s.Cost.Cost(current)
	best, bestCost := current.Clone(), currentCost
	initialCost := currentCost

	iter := 0
	for T := s.Cfg.InitialTemp; T > s.Cfg.MinTemp; T *= s.Cfg.CoolingRate {
		iter++
		trace.Temperatures = append(trace.Temperatures, T)

		nb, ok := neighborhood.Random(current, s.Rng, s.Cfg.NewContainerBias, s.Cfg.MaxAttempts)
		if !ok {
			trace.Acceptance = append(trace.Acceptance, 0)
			trace.Stuck++
			hist.RecordCurrent(currentCost, bestCost)
			continue
		}

		candCost := s.Cost.Cost(nb.State)
		delta := candCost - currentCost

		prob := 1.0
		if delta >= 0 {
			// Metropolis criterion
			prob = math.Exp(-delta / T)
		}
		trace.Acceptance = append(trace.Acceptance, prob)

		if delta < 0 || s.Rng.Float64() < prob {
			current, currentCost = nb.State, candCost
			trace.Accepted++
			if currentCost < bestCost {
				best, bestCost = current.Clone(), currentCost
			}
		} else {
			trace.Stuck++
		}
		hist.RecordCurrent(currentCost, bestCost)
	}

	return search.Result{
		Method:      search.SimulatedAnnealing,
		Initial:     initial.Clone(),
		InitialCost: initialCost,
		Final:       best,
		FinalCost:   bestCost,
		History:     hist,
		Iterations:  iter,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"initial_temp": s.Cfg.InitialTemp,
			"cooling_rate": s.Cfg.CoolingRate,
			"min_temp":     s.Cfg.MinTemp,
			"final_temp":   trace.Temperatures[len(trace.Temperatures)-1],
			"stuck":        trace.Stuck,
			"trace":        trace,
		},
	}, nil
}

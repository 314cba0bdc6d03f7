// Package engine runs the search drivers on a problem: it seeds initial
// states, dispatches by method, repeats runs and summarizes them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/binpack-search/internal/annealing"
	"github.com/eugenenazirov/binpack-search/internal/genetic"
	"github.com/eugenenazirov/binpack-search/internal/hillclimb"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

// ErrNoRuns is returned when an experiment is asked for zero repetitions.
var ErrNoRuns = errors.New("experiment needs at least one run")

// Runner executes runs with fixed settings.
type Runner struct {
	settings Settings
	logger   *zap.Logger
}

// NewRunner validates settings. A nil logger discards output.
func NewRunner(settings Settings, logger *zap.Logger) (*Runner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{settings: settings, logger: logger}, nil
}

// Settings returns the runner's settings.
func (r *Runner) Settings() Settings {
	return r.settings
}

// Run performs one run of method on p. A zero seed is replaced by a
// clock-derived one, which is reported in the record.
func (r *Runner) Run(ctx context.Context, method search.Method, p *packing.Problem, seed int64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if err := p.Validate(); err != nil {
		return Record{}, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := search.NewRand(seed)

	r.logger.Debug("run started",
		zap.String("method", string(method)),
		zap.Int64("seed", seed),
		zap.Int("items", len(p.Items)),
		zap.Int("capacity", p.Capacity),
	)

	var (
		res search.Result
		err error
	)
	switch method {
	case search.HillClimbSteepest, search.HillClimbSideways, search.HillClimbStochastic, search.HillClimbRandomRestart:
		cfg := r.settings.HillClimb
		cfg.Variant = variantOf(method)
		var s *hillclimb.Solver
		if s, err = hillclimb.New(cfg, rng, r.settings.Weights); err == nil {
			res, err = s.Run(p, p.RandomState(rng))
		}
	case search.SimulatedAnnealing:
		var s *annealing.Solver
		if s, err = annealing.New(r.settings.Annealing, rng, r.settings.Weights); err == nil {
			res, err = s.Run(p, p.RandomState(rng))
		}
	case search.GeneticAlgorithm:
		var s *genetic.Solver
		if s, err = genetic.New(r.settings.Genetic, rng, r.settings.Weights); err == nil {
			res, err = s.Run(p, nil)
		}
	default:
		return Record{}, fmt.Errorf("%w: %q", search.ErrUnknownMethod, method)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", method, err)
	}

	rec := newRecord(res, p, seed, r.settings.Weights)
	r.logger.Info("run completed",
		zap.String("method", string(method)),
		zap.Int64("seed", seed),
		zap.Float64("initial_cost", rec.InitialCost),
		zap.Float64("final_cost", rec.FinalCost),
		zap.Int("containers", rec.Breakdown.Containers),
		zap.Int("overflow", rec.Breakdown.TotalOverflow),
		zap.Int("iterations", rec.Iterations),
		zap.Duration("duration", rec.Duration),
	)
	return rec, nil
}

// Experiment is a set of independent runs of one method.
type Experiment struct {
	Method     search.Method `json:"method"`
	Runs       []Record      `json:"runs"`
	BestIndex  int           `json:"bestIndex"`
	Cost       Stats         `json:"cost"`
	DurationMs Stats         `json:"durationMs"`
}

// Best returns the run with the lowest final cost.
func (e Experiment) Best() Record {
	return e.Runs[e.BestIndex]
}

// Experiment repeats method runs times with seeds baseSeed, baseSeed+1, ...
// A zero baseSeed is replaced by a clock-derived one.
func (r *Runner) Experiment(ctx context.Context, method search.Method, p *packing.Problem, runs int, baseSeed int64) (Experiment, error) {
	if runs <= 0 {
		return Experiment{}, ErrNoRuns
	}
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	hint := min(runs, search.MaxPrealloc)
	exp := Experiment{Method: method, Runs: make([]Record, 0, hint)}
	costs := make([]float64, 0, hint)
	durations := make([]float64, 0, hint)

	for i := 0; i < runs; i++ {
		rec, err := r.Run(ctx, method, p, baseSeed+int64(i))
		if err != nil {
			return Experiment{}, fmt.Errorf("run %d: %w", i+1, err)
		}
		if i > 0 && rec.FinalCost < exp.Runs[exp.BestIndex].FinalCost {
			exp.BestIndex = i
		}
		exp.Runs = append(exp.Runs, rec)
		costs = append(costs, rec.FinalCost)
		durations = append(durations, float64(rec.Duration.Microseconds())/1000.0)
	}

	exp.Cost = CalcStats(costs)
	exp.DurationMs = CalcStats(durations)

	r.logger.Info("experiment completed",
		zap.String("method", string(method)),
		zap.Int("runs", runs),
		zap.Int64("base_seed", baseSeed),
		zap.Float64("best_cost", exp.Cost.Best),
		zap.Float64("mean_cost", exp.Cost.Mean),
		zap.Float64("std_cost", exp.Cost.Std),
		zap.Float64("mean_duration_ms", exp.DurationMs.Mean),
	)
	return exp, nil
}

// Compare runs an experiment for every method on the same problem and seeds.
func (r *Runner) Compare(ctx context.Context, methods []search.Method, p *packing.Problem, runs int, baseSeed int64) ([]Experiment, error) {
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	out := make([]Experiment, 0, len(methods))
	for _, m := range methods {
		exp, err := r.Experiment(ctx, m, p, runs, baseSeed)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}

func variantOf(m search.Method) hillclimb.Variant {
	switch m {
	case search.HillClimbSideways:
		return hillclimb.Sideways
	case search.HillClimbStochastic:
		return hillclimb.Stochastic
	case search.HillClimbRandomRestart:
		return hillclimb.RandomRestart
	default:
		return hillclimb.Steepest
	}
}

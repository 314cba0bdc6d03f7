// Package search holds the vocabulary shared by the local search drivers:
// the method enum, the cost history and the result of a run.
package search

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// ErrUnknownMethod is returned when a method name cannot be parsed.
var ErrUnknownMethod = errors.New("unknown search method")

// Method identifies a driver and, for hill climbing, its variant.
type Method string

const (
	HillClimbSteepest      Method = "hc-steepest"
	HillClimbSideways      Method = "hc-sideways"
	HillClimbStochastic    Method = "hc-stochastic"
	HillClimbRandomRestart Method = "hc-random-restart"
	SimulatedAnnealing     Method = "simulated-annealing"
	GeneticAlgorithm       Method = "genetic"
)

// Methods lists every supported method in display order.
func Methods() []Method {
	return []Method{
		HillClimbSteepest,
		HillClimbSideways,
		HillClimbStochastic,
		HillClimbRandomRestart,
		SimulatedAnnealing,
		GeneticAlgorithm,
	}
}

// ParseMethod accepts a method name case-insensitively, plus the short
// aliases "sa" and "ga".
func ParseMethod(name string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(name))); m {
	case "sa", "annealing":
		return SimulatedAnnealing, nil
	case "ga":
		return GeneticAlgorithm, nil
	case "hc", "steepest":
		return HillClimbSteepest, nil
	default:
		for _, known := range Methods() {
			if m == known {
				return m, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// IsHillClimbing reports whether m is one of the hill climbing variants.
func (m Method) IsHillClimbing() bool {
	return strings.HasPrefix(string(m), "hc-")
}

// History is the cost trajectory of a run, one entry per iteration or
// generation. Single-trajectory drivers record the current cost as Best,
// Mean and Max alike.
type History struct {
	Best        []float64 `json:"best"`
	Mean        []float64 `json:"mean"`
	Max         []float64 `json:"max"`
	RunningBest []float64 `json:"runningBest"`
}

// MaxPrealloc caps the capacity reserved up front for per-iteration series.
// Longer runs grow their slices on demand.
const MaxPrealloc = 4096

// NewHistory preallocates room for n entries, at most MaxPrealloc.
func NewHistory(n int) History {
	n = max(0, min(n, MaxPrealloc))
	return History{
		Best:        make([]float64, 0, n),
		Mean:        make([]float64, 0, n),
		Max:         make([]float64, 0, n),
		RunningBest: make([]float64, 0, n),
	}
}

// Record appends one entry.
func (h *History) Record(best, mean, worst, runningBest float64) {
	h.Best = append(h.Best, best)
	h.Mean = append(h.Mean, mean)
	h.Max = append(h.Max, worst)
	h.RunningBest = append(h.RunningBest, runningBest)
}

// RecordCurrent appends an entry for a single-trajectory driver.
func (h *History) RecordCurrent(current, runningBest float64) {
	h.Record(current, current, current, runningBest)
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.Best)
}

// Result is what every driver returns.
type Result struct {
	Method Method

	Initial     *packing.State
	InitialCost float64
	Final       *packing.State
	FinalCost   float64

	History    History
	Iterations int
	Duration   time.Duration

	// Meta carries method-specific diagnostics.
	Meta map[string]any
}

// NewRand returns a seeded source. A zero seed draws one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

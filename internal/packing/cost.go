package packing

import (
	"fmt"
	"math"
)

// CostFunction maps a state to a scalar; lower is better.
type CostFunction interface {
	Cost(s *State) float64
}

// Default weights of the objective.
const (
	DefaultOverflowWeight = 1_000_000
	DefaultCountWeight    = 1_000
	DefaultDensityWeight  = 100
)

// Weights is the canonical three-term objective:
//
//	cost = Σ overflow × Overflow + containers × Count + (1 − mean utilization) × Density
//
// Utilization of a container is load/capacity clamped to 1, so an
// overflowing container never earns density credit.
type Weights struct {
	Overflow float64 `yaml:"overflow" json:"overflow"`
	Count    float64 `yaml:"count" json:"count"`
	Density  float64 `yaml:"density" json:"density"`
}

// DefaultWeights returns the documented default weights.
func DefaultWeights() Weights {
	return Weights{
		Overflow: DefaultOverflowWeight,
		Count:    DefaultCountWeight,
		Density:  DefaultDensityWeight,
	}
}

// Validate rejects negative or non-finite weights.
func (w Weights) Validate() error {
	terms := []struct {
		name  string
		value float64
	}{
		{"overflow", w.Overflow},
		{"count", w.Count},
		{"density", w.Density},
	}
	for _, t := range terms {
		if t.value < 0 || math.IsNaN(t.value) || math.IsInf(t.value, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidWeights, t.name, t.value)
		}
	}
	return nil
}

// Cost implements CostFunction.
func (w Weights) Cost(s *State) float64 {
	return w.Breakdown(s).Total
}

// Breakdown is the per-term decomposition of a state's cost.
type Breakdown struct {
	OverflowPenalty float64 `json:"overflowPenalty"`
	CountPenalty    float64 `json:"countPenalty"`
	DensityPenalty  float64 `json:"densityPenalty"`
	Total           float64 `json:"total"`

	Containers      int     `json:"containers"`
	TotalOverflow   int     `json:"totalOverflow"`
	MeanUtilization float64 `json:"meanUtilization"`
}

// Breakdown computes every term of the objective for s.
func (w Weights) Breakdown(s *State) Breakdown {
	var b Breakdown
	b.Containers = len(s.Containers)
	if b.Containers == 0 {
		return b
	}

	utilization := 0.0
	for _, c := range s.Containers {
		load := c.Load()
		if over := load - c.Capacity; over > 0 {
			b.TotalOverflow += over
			load = c.Capacity
		}
		if c.Capacity > 0 {
			utilization += float64(load) / float64(c.Capacity)
		}
	}
	b.MeanUtilization = utilization / float64(b.Containers)

	b.OverflowPenalty = float64(b.TotalOverflow) * w.Overflow
	b.CountPenalty = float64(b.Containers) * w.Count
	b.DensityPenalty = (1 - b.MeanUtilization) * w.Density
	b.Total = b.OverflowPenalty + b.CountPenalty + b.DensityPenalty
	return b
}

// ContainerReport is the load/capacity/overflow line of one container.
type ContainerReport struct {
	Index    int    `json:"index"`
	Capacity int    `json:"capacity"`
	Load     int    `json:"load"`
	Overflow int    `json:"overflow"`
	Items    []Item `json:"items"`
}

// Report returns the per-container breakdown of s in container order.
func Report(s *State) []ContainerReport {
	out := make([]ContainerReport, len(s.Containers))
	for i, c := range s.Containers {
		items := make([]Item, len(c.Items))
		copy(items, c.Items)
		out[i] = ContainerReport{
			Index:    i + 1,
			Capacity: c.Capacity,
			Load:     c.Load(),
			Overflow: c.Overflow(),
			Items:    items,
		}
	}
	return out
}

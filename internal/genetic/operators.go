package genetic

import (
	"math/rand"

	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// individual is a population member with its cost.
type individual struct {
	state *packing.State
	cost  float64
}

// tournament samples k distinct members of pop uniformly and returns the
// cheapest; k is capped at the population size. scratch must have room for
// len(pop) indices.
func tournament(pop []individual, k int, rng *rand.Rand, scratch []int) individual {
	n := len(pop)
	if k > n {
		k = n
	}
	idx := scratch[:n]
	for i := range idx {
		idx[i] = i
	}
	best := -1
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		if best < 0 || pop[idx[i]].cost < pop[best].cost {
			best = idx[i]
		}
	}
	return pop[best]
}

// Crossover builds a child from parent1's containers before cut1 followed
// by parent2's containers from cut2 on. Containers are cloned. The child
// may hold duplicate or missing items and must be repaired before use.
func Crossover(parent1, parent2 *packing.State, cut1, cut2 int) *packing.State {
	cut1 = clamp(cut1, 0, len(parent1.Containers))
	cut2 = clamp(cut2, 0, len(parent2.Containers))

	child := &packing.State{
		Capacity:   parent1.Capacity,
		Containers: make([]*packing.Container, 0, cut1+len(parent2.Containers)-cut2),
	}
	for _, c := range parent1.Containers[:cut1] {
		child.Containers = append(child.Containers, c.Clone())
	}
	for _, c := range parent2.Containers[cut2:] {
		child.Containers = append(child.Containers, c.Clone())
	}
	return child
}

// crossover picks both cut points uniformly in [0, len] and repairs the child.
func crossover(p *packing.Problem, parent1, parent2 *packing.State, rng *rand.Rand) *packing.State {
	cut1 := rng.Intn(len(parent1.Containers) + 1)
	cut2 := rng.Intn(len(parent2.Containers) + 1)
	child := Crossover(parent1, parent2, cut1, cut2)
	p.Repair(child)
	return child
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

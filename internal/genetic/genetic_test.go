package genetic

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

func testProblem(t *testing.T) *packing.Problem {
	t.Helper()
	sizes := []int{7, 5, 3, 3, 8, 2, 6, 4, 1, 5, 9, 2}
	items := make([]packing.Item, len(sizes))
	for i, size := range sizes {
		items[i] = packing.Item{ID: fmt.Sprintf("item_%d", i), Size: size}
	}
	p, err := packing.NewProblem(12, items)
	require.NoError(t, err)
	return p
}

func newSolver(t *testing.T, cfg Config, seed int64) *Solver {
	t.Helper()
	s, err := New(cfg, rand.New(rand.NewSource(seed)), packing.DefaultWeights())
	require.NoError(t, err)
	return s
}

func TestCrossoverThenRepairRestoresItemSet(t *testing.T) {
	a := packing.Item{ID: "a", Size: 3}
	b := packing.Item{ID: "b", Size: 3}
	c := packing.Item{ID: "c", Size: 3}
	p, err := packing.NewProblem(10, []packing.Item{a, b, c})
	require.NoError(t, err)

	parent1 := &packing.State{Capacity: 10, Containers: []*packing.Container{
		{Capacity: 10, Items: []packing.Item{a, b}},
		{Capacity: 10, Items: []packing.Item{c}},
	}}
	parent2 := &packing.State{Capacity: 10, Containers: []*packing.Container{
		{Capacity: 10, Items: []packing.Item{c}},
		{Capacity: 10, Items: []packing.Item{a}},
	}}

	child := Crossover(parent1, parent2, 1, 1)
	require.ElementsMatch(t, []string{"a", "b", "a"}, child.ItemIDs())

	p.Repair(child)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, child.ItemIDs())
	for _, container := range child.Containers {
		assert.NotEmpty(t, container.Items)
	}
	assert.True(t, p.Conserves(child))

	// parents are untouched
	assert.Equal(t, 2, parent1.Len())
	assert.Equal(t, []packing.Item{a}, parent2.Containers[1].Items)
}

func TestCrossoverClonesContainers(t *testing.T) {
	p := testProblem(t)
	parent := p.FirstFit()

	child := Crossover(parent, parent, parent.Len(), parent.Len())
	child.Containers[0].Items[0].Size = 999

	assert.NotEqual(t, 999, parent.Containers[0].Items[0].Size)
}

func TestCrossoverClampsCutPoints(t *testing.T) {
	p := testProblem(t)
	parent := p.FirstFit()

	child := Crossover(parent, parent, -4, 100)

	assert.Zero(t, child.Len())
}

func TestTournamentPicksCheapestWhenItSeesEveryone(t *testing.T) {
	pop := []individual{{cost: 5}, {cost: 2}, {cost: 9}, {cost: 3}}
	rng := rand.New(rand.NewSource(1))
	scratch := make([]int, len(pop))

	for i := 0; i < 20; i++ {
		got := tournament(pop, 10, rng, scratch)
		require.Equal(t, 2.0, got.cost)
	}
}

func TestTournamentSamplesDistinctMembers(t *testing.T) {
	// with k = n-1 the most expensive member can never win
	pop := []individual{{cost: 5}, {cost: 2}, {cost: 9}, {cost: 3}}
	rng := rand.New(rand.NewSource(2))
	scratch := make([]int, len(pop))

	for i := 0; i < 100; i++ {
		got := tournament(pop, 3, rng, scratch)
		require.NotEqual(t, 9.0, got.cost)
		require.NotEqual(t, 5.0, got.cost)
	}
}

func TestRunRecordsOneEntryPerGeneration(t *testing.T) {
	p := testProblem(t)
	cfg := DefaultConfig()
	cfg.Population = 20
	cfg.Generations = 30
	s := newSolver(t, cfg, 3)

	res, err := s.Run(p, nil)

	require.NoError(t, err)
	assert.Equal(t, search.GeneticAlgorithm, res.Method)
	require.Equal(t, 30, res.History.Len())
	assert.Equal(t, 30, res.Iterations)

	h := res.History
	for g := 0; g < h.Len(); g++ {
		require.LessOrEqual(t, h.Best[g], h.Mean[g])
		require.LessOrEqual(t, h.Mean[g], h.Max[g])
		require.LessOrEqual(t, h.RunningBest[g], h.Best[g])
		if g > 0 {
			require.LessOrEqual(t, h.RunningBest[g], h.RunningBest[g-1])
			// the elite is part of every generation after the first
			require.LessOrEqual(t, h.Best[g], h.RunningBest[g-1])
		}
	}

	maxOverall, ok := res.Meta["max_overall"].(float64)
	require.True(t, ok)
	for _, m := range h.Max {
		assert.LessOrEqual(t, m, maxOverall)
	}

	assert.True(t, p.Conserves(res.Initial))
	assert.True(t, p.Conserves(res.Final))
	assert.LessOrEqual(t, res.FinalCost, res.InitialCost)
	assert.LessOrEqual(t, res.FinalCost, h.RunningBest[h.Len()-1])
	assert.InDelta(t, packing.DefaultWeights().Cost(res.Final), res.FinalCost, 1e-9)
}

func TestRunUsesSeedPopulation(t *testing.T) {
	p := testProblem(t)
	cfg := DefaultConfig()
	cfg.Population = 4
	cfg.Generations = 1
	s := newSolver(t, cfg, 4)
	seed := p.FirstFit()

	res, err := s.Run(p, []*packing.State{seed})

	require.NoError(t, err)
	assert.LessOrEqual(t, res.InitialCost, packing.DefaultWeights().Cost(seed))
}

func TestRunRejectsOversizedSeedPopulation(t *testing.T) {
	p := testProblem(t)
	cfg := DefaultConfig()
	cfg.Population = 2
	s := newSolver(t, cfg, 4)

	_, err := s.Run(p, []*packing.State{p.FirstFit(), p.FirstFit(), p.FirstFit()})

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	p := testProblem(t)
	cfg := DefaultConfig()
	cfg.Population = 10
	cfg.Generations = 10

	a, err := newSolver(t, cfg, 8).Run(p, nil)
	require.NoError(t, err)
	b, err := newSolver(t, cfg, 8).Run(p, nil)
	require.NoError(t, err)

	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Final, b.Final)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "PopulationOfOne", mutate: func(c *Config) { c.Population = 1 }},
		{name: "PopulationAboveCap", mutate: func(c *Config) { c.Population = MaxPopulation + 1 }},
		{name: "NoGenerations", mutate: func(c *Config) { c.Generations = 0 }},
		{name: "NoTournament", mutate: func(c *Config) { c.TournamentSize = 0 }},
		{name: "CrossoverAboveOne", mutate: func(c *Config) { c.CrossoverRate = 1.1 }},
		{name: "NegativeMutation", mutate: func(c *Config) { c.MutationRate = -0.1 }},
		{name: "BiasAboveOne", mutate: func(c *Config) { c.NewContainerBias = 2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

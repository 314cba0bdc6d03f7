package packing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateOf(capacity int, loads ...[]int) *State {
	s := NewState(capacity)
	n := 0
	for _, sizes := range loads {
		c := NewContainer(capacity)
		for _, size := range sizes {
			c.Add(Item{ID: string(rune('a' + n)), Size: size})
			n++
		}
		s.Containers = append(s.Containers, c)
	}
	return s
}

func TestCostOfOptimalUniformPacking(t *testing.T) {
	w := DefaultWeights()
	s := stateOf(10, []int{4, 4}, []int{4, 4}, []int{4})

	b := w.Breakdown(s)

	assert.Zero(t, b.OverflowPenalty)
	assert.Equal(t, 3*w.Count, b.CountPenalty)
	assert.InDelta(t, (1-2.0/3.0)*w.Density, b.DensityPenalty, 1e-9)
	assert.InDelta(t, b.OverflowPenalty+b.CountPenalty+b.DensityPenalty, w.Cost(s), 1e-9)
}

func TestCostEmptyState(t *testing.T) {
	assert.Zero(t, DefaultWeights().Cost(NewState(10)))
}

func TestCostGrowsWithOverflow(t *testing.T) {
	w := DefaultWeights()
	base := stateOf(10, []int{6, 4}, []int{5})
	prev := w.Cost(base)

	for extra := 1; extra <= 5; extra++ {
		s := base.Clone()
		s.Containers[0].Add(Item{ID: "x", Size: extra})
		cost := w.Cost(s)
		require.GreaterOrEqual(t, cost, prev, "overflow %d decreased cost", extra)
		prev = cost
	}
}

func TestCostDoesNotGrowWhenContainerIsRemoved(t *testing.T) {
	w := DefaultWeights()
	spread := stateOf(10, []int{4}, []int{4}, []int{4}, []int{4}, []int{4})
	merged := stateOf(10, []int{4, 4}, []int{4}, []int{4}, []int{4})
	tight := stateOf(10, []int{4, 4}, []int{4, 4}, []int{4})

	assert.LessOrEqual(t, w.Cost(merged), w.Cost(spread))
	assert.LessOrEqual(t, w.Cost(tight), w.Cost(merged))
}

func TestMergingContainersNeverRaisesCost(t *testing.T) {
	weights := []Weights{
		{Overflow: 1, Count: 1, Density: 1000},
		{Overflow: 0, Count: 0, Density: 1},
		{Overflow: 100, Count: 10, Density: 0},
	}
	for _, w := range weights {
		feasible := stateOf(10, []int{5}, []int{5})
		merged := stateOf(10, []int{5, 5})
		assert.LessOrEqual(t, w.Cost(merged), w.Cost(feasible), "weights %+v", w)
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	invalid := []Weights{
		{Overflow: -1, Count: 1, Density: 1},
		{Overflow: 1, Count: math.NaN(), Density: 1},
		{Overflow: 1, Count: 1, Density: math.Inf(1)},
	}
	for _, w := range invalid {
		assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
	}
}

func TestReportListsContainers(t *testing.T) {
	s := stateOf(10, []int{6, 7}, []int{2})

	rows := Report(s)

	require.Len(t, rows, 2)
	assert.Equal(t, ContainerReport{Index: 1, Capacity: 10, Load: 13, Overflow: 3, Items: s.Containers[0].Items}, rows[0])
	assert.Equal(t, 0, rows[1].Overflow)
}

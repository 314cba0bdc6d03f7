package packing

import (
	"fmt"
	"math/rand"
)

// Problem is a loaded instance: an ordered item universe and the default
// capacity of every container.
type Problem struct {
	Capacity int
	Items    []Item

	index map[string]int
}

// NewProblem validates the instance and returns it ready for searching.
func NewProblem(capacity int, items []Item) (*Problem, error) {
	p := &Problem{Capacity: capacity, Items: items}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.buildIndex()
	return p, nil
}

// Validate checks the preconditions every driver relies on.
func (p *Problem) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: problem is nil", ErrMalformedProblem)
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0 (got %d)", ErrMalformedProblem, p.Capacity)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("%w: item set is empty", ErrMalformedProblem)
	}
	seen := make(map[string]struct{}, len(p.Items))
	for i, it := range p.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has an empty id", ErrMalformedProblem, i)
		}
		if it.Size <= 0 {
			return fmt.Errorf("%w: item %q size must be > 0 (got %d)", ErrMalformedProblem, it.ID, it.Size)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrMalformedProblem, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Item returns the item with the given id from the universe.
func (p *Problem) Item(id string) (Item, bool) {
	if p.index == nil {
		p.buildIndex()
	}
	i, ok := p.index[id]
	if !ok {
		return Item{}, false
	}
	return p.Items[i], true
}

func (p *Problem) buildIndex() {
	p.index = make(map[string]int, len(p.Items))
	for i, it := range p.Items {
		p.index[it.ID] = i
	}
}

// TotalSize returns the sum of all item sizes.
func (p *Problem) TotalSize() int {
	total := 0
	for _, it := range p.Items {
		total += it.Size
	}
	return total
}

// LowerBound returns ceil(total size / capacity), the fewest containers any
// feasible packing can use.
func (p *Problem) LowerBound() int {
	return (p.TotalSize() + p.Capacity - 1) / p.Capacity
}

// FirstFit places items in problem order into the first container with
// enough remaining capacity, opening a new container when none fits.
func (p *Problem) FirstFit() *State {
	s := NewState(p.Capacity)
	for _, it := range p.Items {
		placeFirstFit(s, it)
	}
	return s
}

// RandomState places items in random order, each into a container chosen
// uniformly among those with enough room plus the option of a new one.
func (p *Problem) RandomState(rng *rand.Rand) *State {
	s := NewState(p.Capacity)
	candidates := make([]int, 0, len(p.Items))
	for _, idx := range rng.Perm(len(p.Items)) {
		it := p.Items[idx]
		candidates = candidates[:0]
		for ci, c := range s.Containers {
			if c.Fits(it) {
				candidates = append(candidates, ci)
			}
		}
		pick := rng.Intn(len(candidates) + 1)
		if pick == len(candidates) {
			pick = s.OpenContainer()
		} else {
			pick = candidates[pick]
		}
		s.Containers[pick].Add(it)
	}
	return s
}

// Singletons places every item in its own container.
func (p *Problem) Singletons() *State {
	s := NewState(p.Capacity)
	for _, it := range p.Items {
		s.Containers = append(s.Containers, &Container{Capacity: p.Capacity, Items: []Item{it}})
	}
	return s
}

// Repair restores item conservation: duplicate ids are dropped (first seen
// wins), missing items are placed first-fit in problem order and empty
// containers are pruned. Repair of a valid state leaves it unchanged.
func (p *Problem) Repair(s *State) {
	seen := make(map[string]struct{}, len(p.Items))
	for _, c := range s.Containers {
		kept := c.Items[:0]
		for _, it := range c.Items {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			kept = append(kept, it)
		}
		c.Items = kept
	}

	for _, it := range p.Items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		placeFirstFit(s, it)
	}

	s.PruneEmpty()
}

// Conserves reports whether the state holds every item of the problem
// exactly once and nothing else.
func (p *Problem) Conserves(s *State) bool {
	if s.ItemCount() != len(p.Items) {
		return false
	}
	seen := make(map[string]struct{}, len(p.Items))
	for _, id := range s.ItemIDs() {
		if _, ok := p.Item(id); !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

func placeFirstFit(s *State, it Item) {
	for _, c := range s.Containers {
		if c.Fits(it) {
			c.Add(it)
			return
		}
	}
	s.Containers[s.OpenContainer()].Add(it)
}

package packing

import (
	"fmt"
	"strings"
)

// Item is an atomic unit to be packed. Identity is the ID.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Size int    `json:"size" yaml:"size"`
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%d)", i.ID, i.Size)
}

// Container is a capacity-bounded holder of items. Capacity is a soft
// constraint: a container may hold more than it fits and is penalized for it.
type Container struct {
	Capacity int
	Items    []Item
}

// NewContainer returns an empty container of the given capacity.
func NewContainer(capacity int) *Container {
	return &Container{Capacity: capacity}
}

// Load returns the total size of the items in the container.
func (c *Container) Load() int {
	total := 0
	for _, it := range c.Items {
		total += it.Size
	}
	return total
}

// Remaining returns the free capacity, negative when the container overflows.
func (c *Container) Remaining() int {
	return c.Capacity - c.Load()
}

// Overflow returns how far the load exceeds the capacity, or zero.
func (c *Container) Overflow() int {
	if over := c.Load() - c.Capacity; over > 0 {
		return over
	}
	return 0
}

// Fits reports whether the item can be added without overflowing.
func (c *Container) Fits(it Item) bool {
	return it.Size <= c.Remaining()
}

// Add appends the item regardless of the remaining capacity.
func (c *Container) Add(it Item) {
	c.Items = append(c.Items, it)
}

// IndexOf returns the position of the item with the given id, or -1.
func (c *Container) IndexOf(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// RemoveItem removes the item with the given id and returns it.
func (c *Container) RemoveItem(id string) (Item, error) {
	idx := c.IndexOf(id)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: %q", ErrItemNotFound, id)
	}
	it := c.Items[idx]
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return it, nil
}

// Clone returns a copy that shares no memory with c.
func (c *Container) Clone() *Container {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return &Container{Capacity: c.Capacity, Items: items}
}

func (c *Container) String() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = it.String()
	}
	return fmt.Sprintf("[%d/%d] %s", c.Load(), c.Capacity, strings.Join(parts, ", "))
}

// State is a complete assignment of items to containers.
//
// A valid state holds every item of its problem exactly once and no empty
// containers. Crossover may break both rules; Repair restores them.
type State struct {
	Capacity   int
	Containers []*Container
}

// NewState returns an empty state whose new containers get the given capacity.
func NewState(capacity int) *State {
	return &State{Capacity: capacity}
}

// Len returns the number of containers.
func (s *State) Len() int {
	return len(s.Containers)
}

// ItemCount returns the number of item placements across all containers.
func (s *State) ItemCount() int {
	n := 0
	for _, c := range s.Containers {
		n += len(c.Items)
	}
	return n
}

// OpenContainer appends a new empty container of the default capacity and
// returns its index.
func (s *State) OpenContainer() int {
	s.Containers = append(s.Containers, NewContainer(s.Capacity))
	return len(s.Containers) - 1
}

// AddItem appends the item to the container at idx.
func (s *State) AddItem(idx int, it Item) bool {
	if idx < 0 || idx >= len(s.Containers) {
		return false
	}
	s.Containers[idx].Add(it)
	return true
}

// RemoveItemByID removes the item from the container at idx.
func (s *State) RemoveItemByID(idx int, id string) (Item, error) {
	if idx < 0 || idx >= len(s.Containers) {
		return Item{}, fmt.Errorf("%w: %q in container %d", ErrItemNotFound, id, idx)
	}
	return s.Containers[idx].RemoveItem(id)
}

// Locate returns the index of the container that holds the item, or -1.
func (s *State) Locate(id string) int {
	for i, c := range s.Containers {
		if c.IndexOf(id) >= 0 {
			return i
		}
	}
	return -1
}

// PruneEmpty drops containers that hold no items, keeping the order of the
// remaining ones. It returns the number of containers removed.
func (s *State) PruneEmpty() int {
	kept := s.Containers[:0]
	for _, c := range s.Containers {
		if len(c.Items) > 0 {
			kept = append(kept, c)
		}
	}
	removed := len(s.Containers) - len(kept)
	for i := len(kept); i < len(s.Containers); i++ {
		s.Containers[i] = nil
	}
	s.Containers = kept
	return removed
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{Capacity: s.Capacity, Containers: make([]*Container, len(s.Containers))}
	for i, c := range s.Containers {
		out.Containers[i] = c.Clone()
	}
	return out
}

// ItemIDs returns every item id in container order, duplicates included.
func (s *State) ItemIDs() []string {
	ids := make([]string, 0, s.ItemCount())
	for _, c := range s.Containers {
		for _, it := range c.Items {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// TotalOverflow returns the sum of the overflow of every container.
func (s *State) TotalOverflow() int {
	total := 0
	for _, c := range s.Containers {
		total += c.Overflow()
	}
	return total
}

// Feasible reports whether no container overflows.
func (s *State) Feasible() bool {
	return s.TotalOverflow() == 0
}

func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "containers: %d", len(s.Containers))
	for i, c := range s.Containers {
		fmt.Fprintf(&b, "\n%d. %s", i+1, c)
	}
	return b.String()
}

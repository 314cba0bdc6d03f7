// Package neighborhood generates the states reachable from a packing by a
// single relocate or swap move.
package neighborhood

import (
	"fmt"

	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// MoveKind tags the two move families.
type MoveKind int

const (
	Relocate MoveKind = iota
	Swap
)

func (k MoveKind) String() string {
	switch k {
	case Relocate:
		return "relocate"
	case Swap:
		return "swap"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// NewContainer is the relocate destination that opens a fresh container of
// the state's default capacity.
const NewContainer = -1

// Move is an id-addressed operation on a state.
//
// Relocate moves Item out of container From into container To (or into a
// new container when To is NewContainer). Swap exchanges Item, held by
// From, with Other, held by To.
type Move struct {
	Kind  MoveKind
	Item  string
	From  int
	To    int
	Other string
}

func (m Move) String() string {
	if m.Kind == Swap {
		return fmt.Sprintf("swap %s@%d <-> %s@%d", m.Item, m.From, m.Other, m.To)
	}
	if m.To == NewContainer {
		return fmt.Sprintf("relocate %s %d -> new", m.Item, m.From)
	}
	return fmt.Sprintf("relocate %s %d -> %d", m.Item, m.From, m.To)
}

// Apply performs the move on s in place. It returns false and leaves s
// untouched when the operands do not describe a legal move.
func (m Move) Apply(s *packing.State) bool {
	switch m.Kind {
	case Relocate:
		return relocate(s, m.Item, m.From, m.To)
	case Swap:
		return swap(s, m.Item, m.From, m.Other, m.To)
	default:
		return false
	}
}

func relocate(s *packing.State, id string, from, to int) bool {
	if !inRange(s, from) || from == to {
		return false
	}
	if to != NewContainer && !inRange(s, to) {
		return false
	}
	it, err := s.RemoveItemByID(from, id)
	if err != nil {
		return false
	}
	if to == NewContainer {
		to = s.OpenContainer()
	}
	s.AddItem(to, it)
	s.PruneEmpty()
	return true
}

func swap(s *packing.State, idA string, x int, idB string, y int) bool {
	if !inRange(s, x) || !inRange(s, y) || x == y {
		return false
	}
	if s.Containers[x].IndexOf(idA) < 0 || s.Containers[y].IndexOf(idB) < 0 {
		return false
	}
	a, _ := s.RemoveItemByID(x, idA)
	b, _ := s.RemoveItemByID(y, idB)
	s.AddItem(x, b)
	s.AddItem(y, a)
	return true
}

func inRange(s *packing.State, idx int) bool {
	return idx >= 0 && idx < len(s.Containers)
}

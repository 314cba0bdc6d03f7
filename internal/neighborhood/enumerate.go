package neighborhood

import (
	"math/rand"

	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// Neighbor is a move together with the state it produces.
type Neighbor struct {
	Move  Move
	State *packing.State
}

// Moves lists every legal move from s: each item relocated to every other
// container and to a new one, then each pair of items in distinct
// containers swapped. Relocating the only item of a container into a new
// container reproduces the same packing and is left out.
func Moves(s *packing.State) []Move {
	n := len(s.Containers)
	moves := make([]Move, 0, s.ItemCount()*(n+1))

	for from, c := range s.Containers {
		for _, it := range c.Items {
			for to := 0; to < n; to++ {
				if to == from {
					continue
				}
				moves = append(moves, Move{Kind: Relocate, Item: it.ID, From: from, To: to})
			}
			if len(c.Items) > 1 {
				moves = append(moves, Move{Kind: Relocate, Item: it.ID, From: from, To: NewContainer})
			}
		}
	}

	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			for _, a := range s.Containers[x].Items {
				for _, b := range s.Containers[y].Items {
					moves = append(moves, Move{Kind: Swap, Item: a.ID, From: x, Other: b.ID, To: y})
				}
			}
		}
	}
	return moves
}

// All materializes the full neighborhood of s. Every neighbor owns a deep
// copy; s itself is never modified.
func All(s *packing.State) []Neighbor {
	moves := Moves(s)
	out := make([]Neighbor, 0, len(moves))
	for _, m := range moves {
		if nb, ok := Materialize(s, m); ok {
			out = append(out, nb)
		}
	}
	return out
}

// Materialize applies m to a clone of s.
func Materialize(s *packing.State, m Move) (Neighbor, bool) {
	next := s.Clone()
	if !m.Apply(next) {
		return Neighbor{}, false
	}
	return Neighbor{Move: m, State: next}, true
}

// Random samples one neighbor of s. Each attempt picks relocate or swap with
// equal probability and draws its operands; newBias is the probability that
// a relocation opens a new container. After maxAttempts failed draws it
// reports false.
func Random(s *packing.State, rng *rand.Rand, newBias float64, maxAttempts int) (Neighbor, bool) {
	if len(s.Containers) == 0 {
		return Neighbor{}, false
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var (
			m  Move
			ok bool
		)
		if rng.Float64() < 0.5 {
			m, ok = randomRelocate(s, rng, newBias)
		} else {
			m, ok = randomSwap(s, rng)
		}
		if !ok {
			continue
		}
		if nb, ok := Materialize(s, m); ok {
			return nb, true
		}
	}
	return Neighbor{}, false
}

// Perturb applies one random move to s in place: a swap or a relocation
// with equal probability, always a relocation when fewer than two
// containers exist. A single draw is made; false means nothing changed.
func Perturb(s *packing.State, rng *rand.Rand, newBias float64) bool {
	if len(s.Containers) == 0 {
		return false
	}
	var (
		m  Move
		ok bool
	)
	if rng.Intn(2) == 0 || len(s.Containers) < 2 {
		m, ok = randomRelocate(s, rng, newBias)
	} else {
		m, ok = randomSwap(s, rng)
	}
	return ok && m.Apply(s)
}

func randomRelocate(s *packing.State, rng *rand.Rand, newBias float64) (Move, bool) {
	n := len(s.Containers)
	from := rng.Intn(n)
	src := s.Containers[from]
	if len(src.Items) == 0 {
		return Move{}, false
	}
	it := src.Items[rng.Intn(len(src.Items))]

	if n < 2 || rng.Float64() < newBias {
		if len(src.Items) == 1 {
			return Move{}, false
		}
		return Move{Kind: Relocate, Item: it.ID, From: from, To: NewContainer}, true
	}
	to := rng.Intn(n - 1)
	if to >= from {
		to++
	}
	return Move{Kind: Relocate, Item: it.ID, From: from, To: to}, true
}

func randomSwap(s *packing.State, rng *rand.Rand) (Move, bool) {
	n := len(s.Containers)
	if n < 2 {
		return Move{}, false
	}
	x := rng.Intn(n)
	y := rng.Intn(n - 1)
	if y >= x {
		y++
	}
	cx, cy := s.Containers[x], s.Containers[y]
	if len(cx.Items) == 0 || len(cy.Items) == 0 {
		return Move{}, false
	}
	a := cx.Items[rng.Intn(len(cx.Items))]
	b := cy.Items[rng.Intn(len(cy.Items))]
	return Move{Kind: Swap, Item: a.ID, From: x, Other: b.ID, To: y}, true
}

// Package problem reads and writes problem instances and generates random
// ones. Files are YAML; JSON documents parse as well.
package problem

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// ErrInvalidGenerator is returned for generator parameters that cannot
// produce an instance.
var ErrInvalidGenerator = errors.New("invalid generator parameters")

// document is the on-disk layout:
//
//	capacity: 10
//	items:
//	  - id: item_0
//	    size: 4
type document struct {
	Capacity int            `yaml:"capacity"`
	Items    []packing.Item `yaml:"items"`
}

// Load reads and validates a problem file.
func Load(path string) (*packing.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a problem document.
func Parse(data []byte) (*packing.Problem, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", packing.ErrMalformedProblem, err)
	}
	return packing.NewProblem(doc.Capacity, doc.Items)
}

// Save writes p as YAML.
func Save(path string, p *packing.Problem) error {
	data, err := yaml.Marshal(document{Capacity: p.Capacity, Items: p.Items})
	if err != nil {
		return fmt.Errorf("encode problem: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write problem file: %w", err)
	}
	return nil
}

// Generate returns n items named item_0..item_{n-1} with sizes uniform in
// [1, maxSize]. maxSize may not exceed capacity.
func Generate(n, capacity, maxSize int, rng *rand.Rand) (*packing.Problem, error) {
	switch {
	case n <= 0:
		return nil, fmt.Errorf("%w: item count must be > 0 (got %d)", ErrInvalidGenerator, n)
	case capacity <= 0:
		return nil, fmt.Errorf("%w: capacity must be > 0 (got %d)", ErrInvalidGenerator, capacity)
	case maxSize <= 0 || maxSize > capacity:
		return nil, fmt.Errorf("%w: max size must lie in [1, capacity] (got %d)", ErrInvalidGenerator, maxSize)
	case rng == nil:
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidGenerator)
	}

	items := make([]packing.Item, n)
	for i := range items {
		items[i] = packing.Item{ID: fmt.Sprintf("item_%d", i), Size: 1 + rng.Intn(maxSize)}
	}
	return packing.NewProblem(capacity, items)
}

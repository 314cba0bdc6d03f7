package storage

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

const defaultCapacity = 100

var (
	// ErrRunNotFound indicates no stored run has the requested id.
	ErrRunNotFound = errors.New("run not found")
)

// Storage keeps completed run records.
type Storage interface {
	Save(rec engine.Record) (engine.Record, error)
	Get(id string) (engine.Record, error)
	List() ([]engine.Record, error)
}

// MemoryStorage keeps the most recent runs in memory and guards access with
// a RWMutex. When full, saving a run evicts the oldest one.
type MemoryStorage struct {
	mu       sync.RWMutex
	capacity int
	records  map[string]engine.Record
	order    []string // oldest first
	newID    func() string
}

// NewMemoryStorage returns a store holding up to capacity runs. A
// non-positive capacity selects the default.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryStorage{
		capacity: capacity,
		records:  make(map[string]engine.Record, capacity),
		order:    make([]string, 0, capacity),
		newID:    uuid.NewString,
	}
}

// Save assigns a new id to the record, stores a copy and returns it.
func (s *MemoryStorage) Save(rec engine.Record) (engine.Record, error) {
	rec = cloneRecord(rec)
	rec.ID = s.newID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		delete(s.records, oldest)
		s.order = s.order[1:]
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)

	return cloneRecord(rec), nil
}

// Get returns a defensive copy of the run with the given id.
func (s *MemoryStorage) Get(id string) (engine.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return engine.Record{}, ErrRunNotFound
	}
	return cloneRecord(rec), nil
}

// List returns copies of every stored run, newest first.
func (s *MemoryStorage) List() ([]engine.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Record, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, cloneRecord(s.records[s.order[i]]))
	}
	return out, nil
}

// Len returns the number of stored runs.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func cloneRecord(rec engine.Record) engine.Record {
	out := rec
	out.InitialContainers = cloneContainers(rec.InitialContainers)
	out.Containers = cloneContainers(rec.Containers)
	out.History = search.History{
		Best:        cloneFloats(rec.History.Best),
		Mean:        cloneFloats(rec.History.Mean),
		Max:         cloneFloats(rec.History.Max),
		RunningBest: cloneFloats(rec.History.RunningBest),
	}
	if rec.Diagnostics != nil {
		out.Diagnostics = make(map[string]any, len(rec.Diagnostics))
		for k, v := range rec.Diagnostics {
			out.Diagnostics[k] = v
		}
	}
	if rec.Initial != nil {
		out.Initial = rec.Initial.Clone()
	}
	if rec.Final != nil {
		out.Final = rec.Final.Clone()
	}
	return out
}

func cloneContainers(src []packing.ContainerReport) []packing.ContainerReport {
	if src == nil {
		return nil
	}
	out := make([]packing.ContainerReport, len(src))
	for i, c := range src {
		out[i] = c
		out[i].Items = append([]packing.Item(nil), c.Items...)
	}
	return out
}

func cloneFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

package storage

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

func sampleRecord(cost float64) engine.Record {
	return engine.Record{
		Method:    search.SimulatedAnnealing,
		Seed:      7,
		FinalCost: cost,
		Containers: []packing.ContainerReport{
			{Index: 0, Capacity: 10, Load: 8, Items: []packing.Item{{ID: "a", Size: 8}}},
		},
		History:     search.History{Best: []float64{cost + 1, cost}},
		Diagnostics: map[string]any{"stuck": 0},
	}
}

func TestSaveAssignsIDs(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(0)

	first, err := store.Save(sampleRecord(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Save(sampleRecord(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("expected uuid id, got %q: %v", first.ID, err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q twice", first.ID)
	}

	got, err := store.Get(second.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FinalCost != 2 {
		t.Fatalf("expected cost 2, got %v", got.FinalCost)
	}
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(4)
	if _, err := store.Get("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestGetReturnsDefensiveCopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(4)
	saved, err := store.Save(sampleRecord(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Get(saved.ID)
	got.Containers[0].Items[0].ID = "mutated"
	got.History.Best[0] = 999
	got.Diagnostics["stuck"] = 42

	again, _ := store.Get(saved.ID)
	if again.Containers[0].Items[0].ID != "a" {
		t.Fatalf("container items leaked: %v", again.Containers[0].Items)
	}
	if again.History.Best[0] != 2 {
		t.Fatalf("history leaked: %v", again.History.Best)
	}
	if again.Diagnostics["stuck"] != 0 {
		t.Fatalf("diagnostics leaked: %v", again.Diagnostics)
	}
}

func TestListNewestFirstAndEviction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(3)
	var ids []string
	for i := 0; i < 5; i++ {
		rec, err := store.Save(sampleRecord(float64(i)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	if store.Len() != 3 {
		t.Fatalf("expected 3 stored runs, got %d", store.Len())
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{ids[4], ids[3], ids[2]}
	for i, rec := range list {
		if rec.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], rec.ID)
		}
	}

	for _, evicted := range ids[:2] {
		if _, err := store.Get(evicted); !errors.Is(err, ErrRunNotFound) {
			t.Fatalf("expected %s to be evicted, got %v", evicted, err)
		}
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage(16)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			if _, err := store.Save(sampleRecord(float64(offset))); err != nil {
				t.Errorf("Save failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.List(); err != nil {
				t.Errorf("List failed: %v", err)
			}
		}()
	}

	wg.Wait()

	list, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 16 {
		t.Fatalf("expected capacity-bounded list of 16, got %d", len(list))
	}
	for idx, rec := range list {
		if rec.ID == "" {
			t.Fatalf("record %d: empty id", idx)
		}
	}
}

package core

import "testing"

func TestNewRandDeterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)

	for i := range 20 {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d: Intn differs for equal seeds: %d vs %d", i, x, y)
		}
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: Float64 differs for equal seeds: %v vs %v", i, x, y)
		}
	}
}

func TestNewRandShuffleKeepsElements(t *testing.T) {
	r := NewRand(7)
	items := []int{1, 2, 3, 4, 5}
	r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	seen := make(map[int]bool)
	for _, v := range items {
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("Shuffle lost elements: %v", items)
	}
}

func TestRuntimeConfigRand(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Seed != 0 {
		t.Errorf("DefaultConfig().Seed = %d, expected 0", cfg.Seed)
	}
	if cfg.Rand() == nil {
		t.Fatal("Rand() returned nil")
	}
}

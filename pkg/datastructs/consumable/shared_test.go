package consumable

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"testing"
)

// =============================================================================
// Constructor: NewShared() / Clone()
// =============================================================================

func TestNewShared(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		wantLen int
	}{
		{"default", nil, 0},
		{"seeded", []string{"a", "b"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewShared(tt.initial)
			defer h.Release()

			if h.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", h.Len(), tt.wantLen)
			}
			if h.Refs() != 1 {
				t.Errorf("Refs = %d, want 1", h.Refs())
			}
		})
	}
}

func TestShared_CloneSharesStore(t *testing.T) {
	a := NewShared[string](nil)
	b := a.Clone()
	defer a.Release()
	defer b.Release()

	if a.Refs() != 2 || b.Refs() != 2 {
		t.Fatalf("Refs = %d/%d, want 2/2", a.Refs(), b.Refs())
	}

	a.Add("data")
	batch, ok := b.Consume(Contains[string]("da"))
	if !ok {
		t.Fatal("item added via a should be consumable via b")
	}
	if got := batch.Items(); !slices.Equal(got, []string{"data"}) {
		t.Errorf("batch = %v, want [data]", got)
	}
	if !a.IsEmpty() {
		t.Errorf("a.Len = %d after consume via b, want 0", a.Len())
	}
}

// =============================================================================
// Method: Add() / Consume()
// =============================================================================

func TestShared_Consume(t *testing.T) {
	tests := []struct {
		name      string
		items     []string
		pattern   string
		wantOk    bool
		wantBatch []string
		wantLeft  []string
	}{
		{"no_match", []string{"data"}, "pattern", false, nil, []string{"data"}},
		{"single_match", []string{"data", "ata"}, "da", true, []string{"data"}, []string{"ata"}},
		{"multiple_matches", []string{"data", "ata", "data2"}, "da", true, []string{"data", "data2"}, []string{"ata"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewShared[string](nil)
			defer h.Release()
			for _, it := range tt.items {
				h.Add(it)
			}

			batch, ok := h.Consume(Contains[string](tt.pattern))
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && !slices.Equal(batch.Items(), tt.wantBatch) {
				t.Errorf("batch = %v, want %v", batch.Items(), tt.wantBatch)
			}
			if got := h.Items(); !slices.Equal(got, tt.wantLeft) {
				t.Errorf("left = %v, want %v", got, tt.wantLeft)
			}
		})
	}
}

func TestShared_ConsumeReleasesLockOnPanic(t *testing.T) {
	h := NewShared([]string{"a"})
	defer h.Release()

	func() {
		defer func() { _ = recover() }()
		h.Consume(func(string) bool { panic("boom") })
	}()

	// Would deadlock if the lock were still held.
	h.Add("b")
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestShared_ClearAndAddAll(t *testing.T) {
	h := NewShared([]int{1, 2})
	defer h.Release()

	h.AddAll(3, 4)
	if h.Len() != 4 {
		t.Fatalf("Len = %d, want 4", h.Len())
	}
	h.Clear()
	if !h.IsEmpty() {
		t.Errorf("Len = %d after Clear, want 0", h.Len())
	}
}

// =============================================================================
// Method: Release()
// =============================================================================

func TestShared_Release(t *testing.T) {
	a := NewShared([]string{"x", "y"})
	b := a.Clone()
	s := a.s

	a.Release()
	a.Release() // no-op
	if b.Refs() != 1 {
		t.Fatalf("Refs = %d after releasing a, want 1", b.Refs())
	}
	if b.Len() != 2 {
		t.Fatalf("store dropped while b is alive")
	}

	b.Release()
	if s.refs.Load() != 0 {
		t.Errorf("refs = %d, want 0", s.refs.Load())
	}
	if s.vec.data != nil {
		t.Errorf("store data = %v after last release, want nil", s.vec.data)
	}
}

func TestShared_ReleaseCycles(t *testing.T) {
	for i := 0; i < 100; i++ {
		h := NewShared([]int{i})
		clones := make([]*Shared[int], 10)
		for j := range clones {
			clones[j] = h.Clone()
		}
		h.Release()
		for _, c := range clones {
			c.Release()
		}
		if h.s.refs.Load() != 0 || h.s.vec.data != nil {
			t.Fatalf("cycle %d: store not released (refs=%d)", i, h.s.refs.Load())
		}
	}
}

func TestShared_UseAfterRelease(t *testing.T) {
	h := NewShared[string](nil)
	h.Release()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when using a released handle")
		}
	}()
	h.Add("x")
}

func TestShared_CloneOfDeadStore(t *testing.T) {
	h := NewShared[string]([]string{"a"})
	stale := &Shared[string]{s: h.s}
	h.Release()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when cloning a store with no live handles")
		}
		if n := h.s.refs.Load(); n != 0 {
			t.Errorf("refs = %d, want 0", n)
		}
	}()
	stale.Clone()
}

// =============================================================================
// Concurrency
// =============================================================================

func TestShared_CloneRacingRelease(t *testing.T) {
	for i := 0; i < 1000; i++ {
		h := NewShared[int]([]int{1})

		var (
			wg    sync.WaitGroup
			clone *Shared[int]
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			defer func() { _ = recover() }()
			clone = h.Clone()
		}()
		go func() {
			defer wg.Done()
			h.Release()
		}()
		wg.Wait()

		if clone == nil {
			if n := h.s.refs.Load(); n != 0 {
				t.Fatalf("iteration %d: failed clone left refs = %d", i, n)
			}
			continue
		}
		if n := clone.Refs(); n != 1 {
			t.Fatalf("iteration %d: clone refs = %d, want 1", i, n)
		}
		if clone.Len() != 1 {
			t.Fatalf("iteration %d: clone sees a cleared store", i)
		}
		clone.Release()
	}
}

func TestShared_ConcurrentProducersConsumers(t *testing.T) {
	const (
		producers = 8
		perProd   = 500
		consumers = 4
	)

	origin := NewShared[string](nil)
	defer origin.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed = make(map[string]int)
		done     = make(chan struct{})
	)

	collect := func(batch *Vec[string]) {
		mu.Lock()
		defer mu.Unlock()
		for it := range batch.All() {
			consumed[it]++
		}
	}

	var consWg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		h := origin.Clone()
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			defer h.Release()
			for {
				if batch, ok := h.Consume(Contains[string]("item-")); ok {
					collect(batch)
					continue
				}
				select {
				case <-done:
					return
				default:
					runtime.Gosched()
				}
			}
		}()
	}

	for p := 0; p < producers; p++ {
		h := origin.Clone()
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			defer h.Release()
			for i := 0; i < perProd; i++ {
				h.Add(fmt.Sprintf("item-%d-%d", p, i))
			}
		}(p)
	}

	wg.Wait()
	close(done)
	consWg.Wait()

	// Drain anything added after the consumers last looked.
	if batch, ok := origin.Consume(Contains[string]("item-")); ok {
		collect(batch)
	}

	if len(consumed) != producers*perProd {
		t.Fatalf("consumed %d distinct items, want %d", len(consumed), producers*perProd)
	}
	for it, n := range consumed {
		if n != 1 {
			t.Errorf("item %s consumed %d times", it, n)
		}
	}
	if !origin.IsEmpty() {
		t.Errorf("store has %d items left", origin.Len())
	}
	if origin.Refs() != 1 {
		t.Errorf("Refs = %d, want 1", origin.Refs())
	}
}

func TestShared_PerProducerOrder(t *testing.T) {
	const producers, perProd = 4, 200

	h := NewShared[string](nil)
	defer h.Release()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		c := h.Clone()
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			defer c.Release()
			for i := 0; i < perProd; i++ {
				c.Add(fmt.Sprintf("p%d-%04d", p, i))
			}
		}(p)
	}
	wg.Wait()

	for p := 0; p < producers; p++ {
		batch, ok := h.Consume(HasPrefix[string](fmt.Sprintf("p%d-", p)))
		if !ok {
			t.Fatalf("producer %d: nothing consumed", p)
		}
		items := batch.Items()
		if len(items) != perProd {
			t.Fatalf("producer %d: %d items, want %d", p, len(items), perProd)
		}
		if !slices.IsSorted(items) {
			t.Errorf("producer %d: items out of insertion order", p)
		}
	}
}

package service

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestAggregatorWithoutCorrelationEmitsImmediately(t *testing.T) {
	a := NewAggregator[int](time.Hour)

	batch, ok := a.Submit(context.Background(), "", 7)
	if !ok || !reflect.DeepEqual(batch, []int{7}) {
		t.Fatalf("Submit = %v, %v; want [7], true", batch, ok)
	}
	if a.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", a.Pending())
	}
}

func TestAggregatorEmitsOnceInArrivalOrder(t *testing.T) {
	a := NewAggregator[int](100 * time.Millisecond)
	ctx := context.Background()

	type result struct {
		batch []int
		ok    bool
	}
	first := make(chan result, 1)
	go func() {
		b, ok := a.Submit(ctx, "g1", 1)
		first <- result{b, ok}
	}()

	waitPending(t, a, 1)
	for i := 2; i <= 4; i++ {
		if b, ok := a.Submit(ctx, "g1", i); ok || b != nil {
			t.Fatalf("joining submit %d returned %v, %v", i, b, ok)
		}
	}

	r := <-first
	if !r.ok {
		t.Fatal("opening submit should emit the batch")
	}
	if !reflect.DeepEqual(r.batch, []int{1, 2, 3, 4}) {
		t.Errorf("batch = %v, want [1 2 3 4]", r.batch)
	}
	if a.Pending() != 0 {
		t.Errorf("Pending = %d after emission", a.Pending())
	}
}

func TestAggregatorLatePartStartsNewBatch(t *testing.T) {
	a := NewAggregator[string](20 * time.Millisecond)
	ctx := context.Background()

	b1, ok := a.Submit(ctx, "g", "a")
	if !ok || !reflect.DeepEqual(b1, []string{"a"}) {
		t.Fatalf("first batch = %v, %v", b1, ok)
	}

	b2, ok := a.Submit(ctx, "g", "b")
	if !ok || !reflect.DeepEqual(b2, []string{"b"}) {
		t.Fatalf("second batch = %v, %v; want disjoint [b]", b2, ok)
	}
}

func TestAggregatorSeparatesCorrelationIDs(t *testing.T) {
	a := NewAggregator[string](50 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(map[string][]string)
	var mu sync.Mutex
	for _, id := range []string{"x", "y"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			b, ok := a.Submit(ctx, id, id+"1")
			if ok {
				mu.Lock()
				results[id] = b
				mu.Unlock()
			}
		}(id)
	}
	waitPending(t, a, 2)
	a.Submit(ctx, "x", "x2")
	wg.Wait()

	if !reflect.DeepEqual(results["x"], []string{"x1", "x2"}) {
		t.Errorf("x = %v", results["x"])
	}
	if !reflect.DeepEqual(results["y"], []string{"y1"}) {
		t.Errorf("y = %v", results["y"])
	}
}

func TestAggregatorConcurrentPartsAllCollected(t *testing.T) {
	a := NewAggregator[int](150 * time.Millisecond)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		emitted [][]int
	)
	submit := func(i int) {
		defer wg.Done()
		if b, ok := a.Submit(ctx, "album", i); ok {
			mu.Lock()
			emitted = append(emitted, b)
			mu.Unlock()
		}
	}

	wg.Add(1)
	go submit(0)
	waitPending(t, a, 1)
	for i := 1; i < 10; i++ {
		wg.Add(1)
		go submit(i)
	}
	wg.Wait()

	if len(emitted) != 1 {
		t.Fatalf("emitted %d batches, want 1", len(emitted))
	}
	if len(emitted[0]) != 10 || emitted[0][0] != 0 {
		t.Errorf("batch = %v", emitted[0])
	}
}

func TestAggregatorCancelEmitsCollected(t *testing.T) {
	a := NewAggregator[int](time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan []int, 1)
	go func() {
		b, _ := a.Submit(ctx, "g", 1)
		done <- b
	}()
	waitPending(t, a, 1)
	cancel()

	select {
	case b := <-done:
		if !reflect.DeepEqual(b, []int{1}) {
			t.Errorf("batch = %v", b)
		}
	case <-time.After(time.Second):
		t.Fatal("Submit did not return after cancel")
	}
}

func waitPending[T any](t *testing.T, a *Aggregator[T], n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for a.Pending() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d pending batches", n)
		}
		time.Sleep(time.Millisecond)
	}
}

package service

import (
	"context"
	"sync"
	"time"
)

// Aggregator reassembles multi-part uploads. Parts sharing a correlation id
// that arrive within the window of the first part are emitted together, once,
// in arrival order. A part arriving after emission starts a new batch.
type Aggregator[T any] struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*pendingBatch[T]
}

type pendingBatch[T any] struct {
	parts []T
	timer *time.Timer
}

func NewAggregator[T any](window time.Duration) *Aggregator[T] {
	return &Aggregator[T]{
		window:  window,
		pending: make(map[string]*pendingBatch[T]),
	}
}

// Submit adds part to the batch for correlationID. The call that opens a batch
// blocks until the window elapses and returns the whole batch with ok set.
// Calls that join an open batch return immediately with ok unset. An empty
// correlationID is a batch of one and is returned at once.
//
// If ctx is cancelled while waiting, the parts collected so far are emitted.
func (a *Aggregator[T]) Submit(ctx context.Context, correlationID string, part T) (batch []T, ok bool) {
	if correlationID == "" {
		return []T{part}, true
	}

	a.mu.Lock()
	if b, exists := a.pending[correlationID]; exists {
		b.parts = append(b.parts, part)
		a.mu.Unlock()
		return nil, false
	}
	b := &pendingBatch[T]{
		parts: []T{part},
		timer: time.NewTimer(a.window),
	}
	a.pending[correlationID] = b
	a.mu.Unlock()

	select {
	case <-b.timer.C:
	case <-ctx.Done():
		b.timer.Stop()
	}

	a.mu.Lock()
	delete(a.pending, correlationID)
	batch = b.parts
	a.mu.Unlock()

	return batch, true
}

// Pending returns the number of batches waiting for their window to close.
func (a *Aggregator[T]) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

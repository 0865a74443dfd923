package service

import (
	"sync"
	"time"

	"github.com/set-night/catalogbot/internal/domain"
)

// FlowTracker holds the pending conversation flow of each administrator.
// Entering a flow replaces whatever was pending. Flows older than the TTL
// read as domain.NoFlow; a zero TTL keeps them until replaced or consumed.
// State lives in process memory only.
type FlowTracker struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	flows map[int64]flowEntry
}

type flowEntry struct {
	flow    domain.Flow
	entered time.Time
}

func NewFlowTracker(ttl time.Duration) *FlowTracker {
	return &FlowTracker{
		ttl:   ttl,
		now:   time.Now,
		flows: make(map[int64]flowEntry),
	}
}

func (t *FlowTracker) Enter(adminID int64, flow domain.Flow) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, none := flow.(domain.NoFlow); flow == nil || none {
		delete(t.flows, adminID)
		return
	}
	t.flows[adminID] = flowEntry{flow: flow, entered: t.now()}
}

// Current returns the pending flow without clearing it.
func (t *FlowTracker) Current(adminID int64) domain.Flow {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(adminID)
	if !ok {
		return domain.NoFlow{}
	}
	return e.flow
}

// Consume returns the pending flow and clears it. Terminal handlers call this
// whether or not they go on to succeed.
func (t *FlowTracker) Consume(adminID int64) domain.Flow {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(adminID)
	delete(t.flows, adminID)
	if !ok {
		return domain.NoFlow{}
	}
	return e.flow
}

func (t *FlowTracker) Clear(adminID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.flows, adminID)
}

// MarkCorrelation records the correlation id of a batch streaming into a
// pending upload. It reports false when no upload is pending.
func (t *FlowTracker) MarkCorrelation(adminID int64, correlationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(adminID)
	if !ok {
		return false
	}
	upload, ok := e.flow.(domain.UploadFlow)
	if !ok {
		return false
	}
	upload.CorrelationID = correlationID
	e.flow = upload
	t.flows[adminID] = e
	return true
}

func (t *FlowTracker) live(adminID int64) (flowEntry, bool) {
	e, ok := t.flows[adminID]
	if !ok {
		return flowEntry{}, false
	}
	if t.ttl > 0 && t.now().Sub(e.entered) > t.ttl {
		delete(t.flows, adminID)
		return flowEntry{}, false
	}
	return e, true
}

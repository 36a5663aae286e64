// enrichment_store.go provides thread-safe storage for per-run enrichment data
// that correlates hooks with errors captured by WrappedRunner.

package agentssdk

import (
	"sync"

	"github.com/strongdm/faultline/pkg/faultline"
)

// defaultTrailSize bounds the breadcrumbs kept per run.
const defaultTrailSize = 20

// Enrichment contains per-run context captured from hooks.
// This data is merged into events when errors occur.
type Enrichment struct {
	// AgentName is the name of the agent that was running.
	AgentName string

	// Model is the LLM model being used.
	Model string

	// ToolName is the name of the tool being called.
	ToolName string

	// ToolCallID is the unique ID of the tool call.
	ToolCallID string

	// Operation indicates what type of operation was in progress (tool, llm, handoff).
	Operation string

	// OperationID is an identifier for the specific operation.
	OperationID string

	// Trail holds the run's most recent operations as breadcrumbs, oldest first.
	Trail []faultline.Breadcrumb
}

// EnrichmentStore provides thread-safe storage for per-run enrichment data.
// Implementations must be safe for concurrent use.
type EnrichmentStore interface {
	// Update applies fn to the enrichment for runID, creating it if needed.
	// fn is called while holding the lock and MUST NOT call other
	// EnrichmentStore methods.
	Update(runID string, fn func(e *Enrichment))

	// Record appends b to the trail of runID, evicting the oldest
	// breadcrumb when the trail is full.
	Record(runID string, b faultline.Breadcrumb)

	// UpdateLast applies fn to the newest breadcrumb of runID. It reports
	// false when the trail is empty.
	UpdateLast(runID string, fn func(b faultline.Breadcrumb) faultline.Breadcrumb) bool

	// Get returns a copy of the enrichment for runID.
	// Returns zero value and false if not found.
	Get(runID string) (Enrichment, bool)

	// Delete removes the enrichment for runID.
	Delete(runID string)
}

type runState struct {
	enrichment Enrichment
	trail      *trailBuffer
}

// inMemoryEnrichmentStore is the default EnrichmentStore implementation.
type inMemoryEnrichmentStore struct {
	mu        sync.RWMutex
	data      map[string]*runState
	trailSize int
}

// NewEnrichmentStore creates a new in-memory enrichment store keeping up to
// trailSize breadcrumbs per run. A non-positive trailSize uses the default.
func NewEnrichmentStore(trailSize int) EnrichmentStore {
	if trailSize <= 0 {
		trailSize = defaultTrailSize
	}
	return &inMemoryEnrichmentStore{
		data:      make(map[string]*runState),
		trailSize: trailSize,
	}
}

func (s *inMemoryEnrichmentStore) state(runID string) *runState {
	st, ok := s.data[runID]
	if !ok {
		st = &runState{trail: &trailBuffer{maxSize: s.trailSize}}
		s.data[runID] = st
	}
	return st
}

func (s *inMemoryEnrichmentStore) Update(runID string, fn func(e *Enrichment)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state(runID).enrichment)
}

func (s *inMemoryEnrichmentStore) Record(runID string, b faultline.Breadcrumb) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(runID).trail.Add(b)
}

func (s *inMemoryEnrichmentStore) UpdateLast(runID string, fn func(b faultline.Breadcrumb) faultline.Breadcrumb) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data[runID]
	if !ok {
		return false
	}
	return st.trail.UpdateLast(fn)
}

func (s *inMemoryEnrichmentStore) Get(runID string) (Enrichment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.data[runID]
	if !ok {
		return Enrichment{}, false
	}
	e := st.enrichment
	e.Trail = st.trail.All()
	return e, true
}

func (s *inMemoryEnrichmentStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
}

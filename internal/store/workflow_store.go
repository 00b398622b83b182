package store

import (
	"sync"

	"github.com/straye-as/offer-workflow/internal/domain"
)

// WorkflowStore holds the document workflow of one offer.
// Readers get deep copies; writers go through Update.
type WorkflowStore struct {
	mu sync.Mutex
	wf domain.DocumentWorkflow
}

func NewWorkflowStore() *WorkflowStore {
	return &WorkflowStore{wf: domain.NewDocumentWorkflow()}
}

// Get returns a copy of the current workflow
func (s *WorkflowStore) Get() domain.DocumentWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wf.Clone()
}

// Update applies fn to a copy of the workflow and commits it only if fn returns nil
func (s *WorkflowStore) Update(fn func(*domain.DocumentWorkflow) error) (domain.DocumentWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.wf.Clone()
	if err := fn(&next); err != nil {
		return s.wf.Clone(), err
	}
	s.wf = next
	return s.wf.Clone(), nil
}

// Reset empties the workflow, keeping the provider connection state
func (s *WorkflowStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.wf.Signing.Status
	s.wf = domain.NewDocumentWorkflow()
	s.wf.SetConnection(status)
}

package uploader

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/s3drop/internal/api"
)

// ResultStore keeps the outcome of the most recent batch. Each batch
// replaces the previous one entirely.
type ResultStore struct {
	mu   sync.RWMutex
	last api.BatchResult
	set  bool
}

func (s *ResultStore) Replace(r api.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = slices.Clone(r)
	s.set = true
}

// Last returns a copy of the stored result and whether any batch has
// completed yet.
func (s *ResultStore) Last() (api.BatchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.last), s.set
}

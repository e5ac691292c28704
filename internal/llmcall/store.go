package llmcall

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of calls a Store keeps when none is given.
const DefaultCapacity = 500

// Store keeps the most recent LLM call records in memory.
// When full, the oldest record is dropped.
type Store struct {
	mu       sync.RWMutex
	calls    []Call
	next     int
	full     bool
	byID     map[string]int
	capacity int
}

// NewStore creates a store holding up to capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		calls:    make([]Call, capacity),
		byID:     make(map[string]int, capacity),
		capacity: capacity,
	}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

func (f QueryFilter) matches(c *Call) bool {
	switch {
	case f.PromptKey != "" && c.PromptKey != f.PromptKey:
		return false
	case f.Provider != "" && c.Provider != f.Provider:
		return false
	case f.Model != "" && c.Model != f.Model:
		return false
	case f.Success != nil && c.Success != *f.Success:
		return false
	case f.After != nil && !c.Timestamp.After(*f.After):
		return false
	case f.Before != nil && !c.Timestamp.Before(*f.Before):
		return false
	}
	return true
}

// Add stores a copy of call.
func (s *Store) Add(call *Call) {
	if call == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.full {
		delete(s.byID, s.calls[s.next].ID)
	}
	s.calls[s.next] = *call
	s.byID[call.ID] = s.next
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
}

// Get retrieves a single LLM call by ID.
func (s *Store) Get(id string) (*Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	call := s.calls[idx]
	return &call, true
}

// List returns calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Call{}
	skipped := 0
	n := s.lenLocked()
	for i := 0; i < n; i++ {
		idx := (s.next - 1 - i + s.capacity) % s.capacity
		c := &s.calls[idx]
		if !filter.matches(c) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, *c)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// CountByPromptKey returns call counts grouped by prompt key.
func (s *Store) CountByPromptKey() map[string]int {
	counts := make(map[string]int)
	for _, c := range s.List(QueryFilter{}) {
		counts[c.PromptKey]++
	}
	return counts
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lenLocked()
}

func (s *Store) lenLocked() int {
	if s.full {
		return s.capacity
	}
	return s.next
}

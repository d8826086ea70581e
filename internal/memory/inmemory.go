package memory

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore is a simple in-process memory store for local/dev use.
// Search is keyword overlap rather than semantic similarity.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
	limit   int
}

func NewInMemoryStore(searchLimit int) *InMemoryStore {
	if searchLimit <= 0 {
		searchLimit = 8
	}
	return &InMemoryStore{
		records: make(map[string][]Record),
		limit:   searchLimit,
	}
}

func (s *InMemoryStore) Exists(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[userID]) > 0, nil
}

func (s *InMemoryStore) Search(_ context.Context, query, userID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.records[userID]
	if len(all) == 0 {
		return nil, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	var matched []Record
	for _, r := range all {
		content := strings.ToLower(r.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched = append(matched, r)
				break
			}
		}
	}

	// No keyword overlap: fall back to the most recent records so the
	// assistant still has some grounding context.
	if len(matched) == 0 {
		matched = all
	}
	if len(matched) > s.limit {
		matched = matched[len(matched)-s.limit:]
	}

	out := make([]Record, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *InMemoryStore) AddTurns(_ context.Context, userID string, turns []Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range turns {
		s.records[userID] = append(s.records[userID], Record{Role: t.Role, Content: t.Content})
	}
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

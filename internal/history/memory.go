package history

import (
	"context"
	"sync"

	"github.com/scoutlab/scout/internal/contracts"
)

// MemoryStore keeps history in process memory. The default when no
// database is configured; decisions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	results []contracts.CommitteeResult
}

// NewMemoryStore creates an empty in-memory history.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, result contracts.CommitteeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// Recent returns up to limit results, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]contracts.CommitteeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.results)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]contracts.CommitteeResult, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

func (s *MemoryStore) WinnerCounts(_ context.Context) (int, map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wins := make(map[string]int)
	for _, r := range s.results {
		if r.Winner != "" {
			wins[r.Winner]++
		}
	}
	return len(s.results), wins, nil
}

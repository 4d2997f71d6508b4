package committee

import (
	"sync"

	"github.com/scoutlab/scout/internal/contracts"
)

// CounterStore tracks posture win and debate counts across the process
// lifetime. All methods are safe for concurrent use; proposal computation
// itself needs no lock, only these counters do.
type CounterStore struct {
	mu    sync.Mutex
	stats map[string]contracts.PostureStats
}

// NewCounterStore creates an empty counter store with all postures at zero.
func NewCounterStore() *CounterStore {
	stats := make(map[string]contracts.PostureStats, len(postures))
	for _, p := range postures {
		stats[p.Name] = contracts.PostureStats{}
	}
	return &CounterStore{stats: stats}
}

// Seed overwrites win counts from persisted history, typically at startup.
// Unknown posture names are ignored.
func (c *CounterStore) Seed(wins map[string]int, debates int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, stat := range c.stats {
		stat.Wins = wins[name]
		stat.Debates = debates
		c.stats[name] = stat
	}
}

// RecordDebate increments every posture's debate count and the winner's win
// count in one critical section.
func (c *CounterStore) RecordDebate(winner string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, stat := range c.stats {
		stat.Debates++
		if name == winner {
			stat.Wins++
		}
		c.stats[name] = stat
	}
}

// Snapshot returns a copy of the current stats keyed by posture name.
func (c *CounterStore) Snapshot() map[string]contracts.PostureStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]contracts.PostureStats, len(c.stats))
	for name, stat := range c.stats {
		out[name] = stat
	}
	return out
}

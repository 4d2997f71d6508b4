// Package history persists committee decisions. The store is append-only;
// reads exist to serve the API and to seed posture counters at startup.
package history

import (
	"context"

	"github.com/scoutlab/scout/internal/contracts"
)

// Store is the decision history collaborator. Append never mutates past
// entries.
type Store interface {
	Append(ctx context.Context, result contracts.CommitteeResult) error
	Recent(ctx context.Context, limit int) ([]contracts.CommitteeResult, error)
	// WinnerCounts returns total debates and per-posture win counts,
	// used to seed the committee's counters across restarts.
	WinnerCounts(ctx context.Context) (debates int, wins map[string]int, err error)
}

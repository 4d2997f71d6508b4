package marketdata

import (
	"context"
	"errors"

	"github.com/scoutlab/scout/internal/contracts"
)

// ErrDataUnavailable marks a per-ticker fetch failure. Scans count it and
// skip the ticker; it never aborts a scan.
var ErrDataUnavailable = errors.New("market data unavailable")

// Provider fetches a fresh metrics snapshot for a ticker.
type Provider interface {
	GetMetrics(ctx context.Context, ticker string) (contracts.MetricsSnapshot, error)
}

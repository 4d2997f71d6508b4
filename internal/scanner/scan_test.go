package scanner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/marketdata"
	"github.com/scoutlab/scout/pkg/logger"
)

// fakeProvider serves canned snapshots and fails listed tickers.
type fakeProvider struct {
	mu        sync.Mutex
	snapshots map[string]contracts.MetricsSnapshot
	failing   map[string]bool
	calls     int
}

func (f *fakeProvider) GetMetrics(_ context.Context, ticker string) (contracts.MetricsSnapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failing[ticker] {
		return contracts.MetricsSnapshot{}, fmt.Errorf("%w: %s: connection reset", marketdata.ErrDataUnavailable, ticker)
	}
	if m, ok := f.snapshots[ticker]; ok {
		return m, nil
	}
	// Unknown tickers get a snapshot that fails the market cap filter
	return contracts.MetricsSnapshot{Price: 10, Volume: 200_000, RSI: 50, PriceChangePct: 5}, nil
}

// strongSnapshot scores 75 with the default criteria.
func strongSnapshot() contracts.MetricsSnapshot {
	return contracts.MetricsSnapshot{
		Price:          19,
		Volume:         5_000_000,
		AvgVolume:      1_000_000,
		PriceChangePct: 12,
		MarketCap:      500_000_000,
		Sector:         "Technology",
		PERatio:        18,
		RSI:            60,
		High52W:        20,
		Low52W:         10,
	}
}

func newTestScanner(provider marketdata.Provider) *Scanner {
	log := logger.NewNop()
	return NewScanner(NewEngine(DefaultCriteria(), nil, log), provider, log)
}

func TestScanner_Scan_ErrorsDoNotAbort(t *testing.T) {
	universe := make([]string, 0, 40)
	failing := map[string]bool{}
	for i := 0; i < 40; i++ {
		ticker := fmt.Sprintf("TKR%02d", i)
		universe = append(universe, ticker)
		if i < 3 {
			failing[ticker] = true
		}
	}

	provider := &fakeProvider{
		snapshots: map[string]contracts.MetricsSnapshot{"TKR10": strongSnapshot()},
		failing:   failing,
	}

	result, err := newTestScanner(provider).Scan(context.Background(), ScanConfig{
		Universe:   universe,
		MaxResults: 10,
		Workers:    8,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, result.Stats.TickersScanned)
	assert.Equal(t, 3, result.Stats.ErrorCount)
	assert.Equal(t, 1, result.Stats.OpportunitiesFound)
	assert.Equal(t, 36, result.Stats.FilteredCount)
	require.Len(t, result.Opportunities, 1)
	assert.Equal(t, "TKR10", result.Opportunities[0].Ticker)
	assert.Equal(t, 75, result.Opportunities[0].Score)
}

func TestScanner_Scan_SortsAndTruncates(t *testing.T) {
	strong := strongSnapshot()

	// Same setup minus the sector bonus scores 60
	weaker := strongSnapshot()
	weaker.Sector = "Utilities"

	provider := &fakeProvider{snapshots: map[string]contracts.MetricsSnapshot{
		"AAA": weaker,
		"BBB": strong,
		"CCC": strong,
		"DDD": weaker,
	}}

	result, err := newTestScanner(provider).Scan(context.Background(), ScanConfig{
		Universe:   []string{"DDD", "CCC", "BBB", "AAA"},
		MaxResults: 3,
		Workers:    4,
	})
	require.NoError(t, err)

	require.Len(t, result.Opportunities, 3)
	// Score descending, ties alphabetical
	assert.Equal(t, "BBB", result.Opportunities[0].Ticker)
	assert.Equal(t, "CCC", result.Opportunities[1].Ticker)
	assert.Equal(t, "AAA", result.Opportunities[2].Ticker)
	assert.GreaterOrEqual(t, result.Opportunities[0].Score, result.Opportunities[2].Score)
}

func TestScanner_Scan_EmptyResultIsNormal(t *testing.T) {
	provider := &fakeProvider{}

	result, err := newTestScanner(provider).Scan(context.Background(), ScanConfig{
		Universe:   []string{"AAA", "BBB"},
		MaxResults: 10,
		Workers:    2,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Opportunities)
	assert.Equal(t, 2, result.Stats.FilteredCount)
	assert.Equal(t, 0, result.Stats.ErrorCount)
}

func TestScanner_Scan_ProgressEvents(t *testing.T) {
	provider := &fakeProvider{
		snapshots: map[string]contracts.MetricsSnapshot{"BBB": strongSnapshot()},
		failing:   map[string]bool{"CCC": true},
	}

	var events []ProgressEvent
	_, err := newTestScanner(provider).Scan(context.Background(), ScanConfig{
		Universe:   []string{"AAA", "BBB", "CCC"},
		MaxResults: 10,
		Workers:    3,
		OnProgress: func(ev ProgressEvent) { events = append(events, ev) },
	})
	require.NoError(t, err)

	require.Len(t, events, 3)

	byTicker := map[string]Outcome{}
	for _, ev := range events {
		byTicker[ev.Ticker] = ev.Outcome
	}
	assert.Equal(t, OutcomeFiltered, byTicker["AAA"])
	assert.Equal(t, OutcomeScored, byTicker["BBB"])
	assert.Equal(t, OutcomeError, byTicker["CCC"])
}

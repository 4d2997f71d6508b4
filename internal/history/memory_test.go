package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/internal/contracts"
)

func decision(ticker, winner string) contracts.CommitteeResult {
	return contracts.CommitteeResult{
		Timestamp: time.Now().UTC(),
		Ticker:    ticker,
		Action:    contracts.ActionBuy,
		Winner:    winner,
	}
}

func TestMemoryStore_RecentNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, decision(fmt.Sprintf("TKR%d", i), "Risk Neutral")))
	}

	recent, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "TKR4", recent[0].Ticker)
	assert.Equal(t, "TKR2", recent[2].Ticker)

	// Zero or oversized limits return everything
	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemoryStore_WinnerCounts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, decision("AAA", "Risk Seeking")))
	require.NoError(t, store.Append(ctx, decision("BBB", "Risk Seeking")))
	require.NoError(t, store.Append(ctx, decision("CCC", "Risk Neutral")))

	debates, wins, err := store.WinnerCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, debates)
	assert.Equal(t, 2, wins["Risk Seeking"])
	assert.Equal(t, 1, wins["Risk Neutral"])
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, decision(fmt.Sprintf("TKR%d", i), "Risk Neutral"))
		}(i)
	}
	wg.Wait()

	debates, _, err := store.WinnerCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, debates)
}

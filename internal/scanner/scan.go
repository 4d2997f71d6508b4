package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/marketdata"
	"github.com/scoutlab/scout/pkg/logger"
)

// Outcome classifies what happened to one ticker during a scan.
type Outcome string

const (
	OutcomeScored   Outcome = "scored"
	OutcomeFiltered Outcome = "filtered"
	OutcomeError    Outcome = "error"
)

// ProgressEvent is emitted once per ticker as workers finish.
type ProgressEvent struct {
	Ticker  string  `json:"ticker"`
	Outcome Outcome `json:"outcome"`
	Score   int     `json:"score,omitempty"`
}

// ScanConfig configures a single scan run.
type ScanConfig struct {
	Universe   []string
	MaxResults int
	Workers    int

	// OnProgress, when set, receives one event per ticker. Called from
	// the collecting goroutine, never concurrently.
	OnProgress func(ProgressEvent)
}

// ScanStats summarizes a completed scan.
type ScanStats struct {
	Timestamp          time.Time `json:"timestamp"`
	TickersScanned     int       `json:"tickers_scanned"`
	OpportunitiesFound int       `json:"opportunities_found"`
	FilteredCount      int       `json:"filtered_count"`
	ErrorCount         int       `json:"error_count"`
	ScanTime           string    `json:"scan_time"`
}

// ScanResult is the output of one scan cycle.
type ScanResult struct {
	Opportunities []contracts.Opportunity `json:"opportunities"`
	Stats         ScanStats               `json:"stats"`
}

// Scanner runs the filter+score pipeline over a ticker universe using a
// bounded worker pool. Tickers share no mutable state, so the scan is
// embarrassingly parallel; ordering is applied after all fetches complete.
type Scanner struct {
	engine   *Engine
	provider marketdata.Provider
	logger   *logger.Logger
}

// NewScanner creates a scanner around an engine and a market data provider.
func NewScanner(engine *Engine, provider marketdata.Provider, log *logger.Logger) *Scanner {
	return &Scanner{
		engine:   engine,
		provider: provider,
		logger:   log.WithField("module", "scanner"),
	}
}

// tickerResult is the per-ticker outcome passed from workers to the
// collector.
type tickerResult struct {
	ticker      string
	outcome     Outcome
	opportunity *contracts.Opportunity
	score       int
}

// Scan evaluates the universe and returns qualifying opportunities sorted
// by score descending, truncated to MaxResults. A fetch or compute failure
// for one ticker is counted and skipped; it never aborts the scan. Zero
// qualifying opportunities is a normal empty result.
func (s *Scanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	start := time.Now()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	s.logger.WithFields(map[string]interface{}{
		"universe_size": len(cfg.Universe),
		"max_results":   cfg.MaxResults,
		"workers":       workers,
	}).Info("Starting opportunity scan")

	tickerCh := make(chan string, len(cfg.Universe))
	resultCh := make(chan tickerResult, len(cfg.Universe))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, tickerCh, resultCh)
		}()
	}

	for _, ticker := range cfg.Universe {
		tickerCh <- ticker
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var opportunities []contracts.Opportunity
	filtered := 0
	errors := 0

	for res := range resultCh {
		switch res.outcome {
		case OutcomeScored:
			opportunities = append(opportunities, *res.opportunity)
		case OutcomeFiltered:
			filtered++
		case OutcomeError:
			errors++
		}

		if cfg.OnProgress != nil {
			cfg.OnProgress(ProgressEvent{Ticker: res.ticker, Outcome: res.outcome, Score: res.score})
		}
	}

	// Sort after all fetches complete so parallelism never affects output
	// order. Ties break alphabetically for determinism.
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Score != opportunities[j].Score {
			return opportunities[i].Score > opportunities[j].Score
		}
		return opportunities[i].Ticker < opportunities[j].Ticker
	})

	if cfg.MaxResults > 0 && len(opportunities) > cfg.MaxResults {
		opportunities = opportunities[:cfg.MaxResults]
	}

	elapsed := time.Since(start)
	stats := ScanStats{
		Timestamp:          time.Now().UTC(),
		TickersScanned:     len(cfg.Universe),
		OpportunitiesFound: len(opportunities),
		FilteredCount:      filtered,
		ErrorCount:         errors,
		ScanTime:           elapsed.Round(time.Millisecond).String(),
	}

	s.logger.WithFields(map[string]interface{}{
		"found":    stats.OpportunitiesFound,
		"filtered": stats.FilteredCount,
		"errors":   stats.ErrorCount,
		"elapsed":  stats.ScanTime,
	}).Info("Scan complete")

	return &ScanResult{Opportunities: opportunities, Stats: stats}, nil
}

// worker evaluates tickers until the channel drains.
func (s *Scanner) worker(ctx context.Context, tickers <-chan string, results chan<- tickerResult) {
	for ticker := range tickers {
		results <- s.evaluate(ctx, ticker)
	}
}

// evaluate fetches, filters and scores one ticker.
func (s *Scanner) evaluate(ctx context.Context, ticker string) tickerResult {
	metrics, err := s.provider.GetMetrics(ctx, ticker)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Metrics fetch failed, skipping")
		return tickerResult{ticker: ticker, outcome: OutcomeError}
	}

	if !s.engine.PassesFilters(metrics) {
		return tickerResult{ticker: ticker, outcome: OutcomeFiltered}
	}

	score, signals := s.engine.Score(ticker, metrics)
	if score < MinOpportunityScore {
		return tickerResult{ticker: ticker, outcome: OutcomeFiltered, score: score}
	}

	opp := &contracts.Opportunity{
		Ticker:         ticker,
		Score:          score,
		Price:          metrics.Price,
		MarketCap:      metrics.MarketCap,
		Sector:         metrics.Sector,
		Signals:        signals,
		Recommendation: Recommendation(score),
		TargetPrice:    TargetPrice(metrics.Price, score),
		Reasoning:      Reasoning(score, signals, metrics),
		ScannedAt:      time.Now().UTC(),
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"score":  score,
		"label":  opp.Recommendation,
	}).Info("Opportunity found")

	return tickerResult{ticker: ticker, outcome: OutcomeScored, opportunity: opp, score: score}
}

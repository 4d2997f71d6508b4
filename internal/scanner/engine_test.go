package scanner

import (
	"strings"
	"testing"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/logger"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultCriteria(), nil, logger.NewNop())
}

// passingSnapshot returns a snapshot that clears every filter.
func passingSnapshot() contracts.MetricsSnapshot {
	return contracts.MetricsSnapshot{
		Price:          20,
		PrevClose:      19,
		Volume:         500_000,
		AvgVolume:      400_000,
		PriceChangePct: 5,
		MarketCap:      500_000_000,
		Sector:         "Technology",
		RSI:            55,
		High52W:        25,
		Low52W:         10,
	}
}

func TestEngine_PassesFilters(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		mutate func(*contracts.MetricsSnapshot)
		want   bool
	}{
		{"passes all", func(m *contracts.MetricsSnapshot) {}, true},
		{"market cap too small", func(m *contracts.MetricsSnapshot) { m.MarketCap = 40_000_000 }, false},
		{"market cap too large", func(m *contracts.MetricsSnapshot) { m.MarketCap = 3_000_000_000 }, false},
		{"price below range", func(m *contracts.MetricsSnapshot) { m.Price = 1.50 }, false},
		{"price above range", func(m *contracts.MetricsSnapshot) { m.Price = 60 }, false},
		{"volume too thin", func(m *contracts.MetricsSnapshot) { m.Volume = 90_000 }, false},
		{"rsi oversold", func(m *contracts.MetricsSnapshot) { m.RSI = 20 }, false},
		{"rsi overbought", func(m *contracts.MetricsSnapshot) { m.RSI = 80 }, false},
		{"move too quiet", func(m *contracts.MetricsSnapshot) { m.PriceChangePct = 0.5 }, false},
		{"move too violent", func(m *contracts.MetricsSnapshot) { m.PriceChangePct = 30 }, false},
		{"negative move counts as movement", func(m *contracts.MetricsSnapshot) { m.PriceChangePct = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := passingSnapshot()
			tt.mutate(&m)
			if got := engine.PassesFilters(m); got != tt.want {
				t.Errorf("PassesFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Scenario: 12% move on 5x volume, RSI 60, 90% of 52-week range, preferred
// sector, P/E 18 scores momentum=25, technical=25, fundamental=10,
// sentiment=0, sector=15 for a total of 75 ("Buy", 15% upside target).
func TestEngine_Score_StrongSetup(t *testing.T) {
	engine := newTestEngine()

	m := contracts.MetricsSnapshot{
		Price:          19,
		Volume:         5_000_000,
		AvgVolume:      1_000_000, // 5x
		PriceChangePct: 12,
		Sector:         "Technology",
		PERatio:        18,
		RSI:            60,
		High52W:        20,
		Low52W:         10, // position 90%
	}

	score, signals := engine.Score("APLD", m)

	if signals.Momentum != 25 {
		t.Errorf("Momentum = %d, want 25", signals.Momentum)
	}
	if signals.Technical != 25 {
		t.Errorf("Technical = %d, want 25", signals.Technical)
	}
	if signals.Fundamental != 10 {
		t.Errorf("Fundamental = %d, want 10", signals.Fundamental)
	}
	if signals.Sentiment != 0 {
		t.Errorf("Sentiment = %d, want 0", signals.Sentiment)
	}
	if signals.SectorMatch != 15 {
		t.Errorf("SectorMatch = %d, want 15", signals.SectorMatch)
	}
	if score != 75 {
		t.Errorf("Score = %d, want 75", score)
	}

	if got := Recommendation(score); got != "Buy" {
		t.Errorf("Recommendation(75) = %q, want Buy", got)
	}

	if got := TargetPrice(m.Price, score); got != 21.85 {
		t.Errorf("TargetPrice = %v, want 21.85 (price x 1.15)", got)
	}
}

func TestEngine_Score_CategoriesStayWithinCaps(t *testing.T) {
	engine := NewEngine(DefaultCriteria(), sentimentStub{value: 10}, logger.NewNop())

	// Everything maxed out at once
	m := contracts.MetricsSnapshot{
		Price:          19,
		Volume:         10_000_000,
		AvgVolume:      1_000_000,
		PriceChangePct: 15,
		Sector:         "Biotechnology",
		PERatio:        12,
		PriceToBook:    2,
		RevenueGrowth:  0.35,
		RSI:            60,
		High52W:        20,
		Low52W:         5,
	}

	score, signals := engine.Score("SOUN", m)

	if !signals.WithinCaps() {
		t.Errorf("signals exceed caps: %+v", signals)
	}
	if score < 0 || score > 100 {
		t.Errorf("score %d outside [0,100]", score)
	}
	if score != 100 {
		t.Errorf("fully maxed setup should score 100, got %d", score)
	}
}

func TestEngine_Score_OutOfRangeSentimentClamped(t *testing.T) {
	engine := NewEngine(DefaultCriteria(), sentimentStub{value: 42}, logger.NewNop())

	_, signals := engine.Score("TSLA", passingSnapshot())
	if signals.Sentiment != contracts.SentimentCap {
		t.Errorf("Sentiment = %d, want clamped to %d", signals.Sentiment, contracts.SentimentCap)
	}

	engine = NewEngine(DefaultCriteria(), sentimentStub{value: -3}, logger.NewNop())
	_, signals = engine.Score("TSLA", passingSnapshot())
	if signals.Sentiment != 0 {
		t.Errorf("Sentiment = %d, want clamped to 0", signals.Sentiment)
	}
}

type sentimentStub struct{ value int }

func (s sentimentStub) Score(string, contracts.MetricsSnapshot) int { return s.value }

// The label mapping is total: defined and non-decreasing across 0-100 with
// steps exactly at 60, 65, 75 and 85.
func TestRecommendation_TotalAndMonotonic(t *testing.T) {
	rank := map[string]int{"Skip": 0, "Watch": 1, "Consider": 2, "Buy": 3, "Strong Buy": 4}

	prev := -1
	for score := 0; score <= 100; score++ {
		label := Recommendation(score)
		r, ok := rank[label]
		if !ok {
			t.Fatalf("Recommendation(%d) = %q, unknown label", score, label)
		}
		if r < prev {
			t.Fatalf("label rank decreased at score %d", score)
		}
		prev = r
	}

	boundaries := map[int]string{
		59: "Skip", 60: "Watch",
		64: "Watch", 65: "Consider",
		74: "Consider", 75: "Buy",
		84: "Buy", 85: "Strong Buy",
		100: "Strong Buy",
	}
	for score, want := range boundaries {
		if got := Recommendation(score); got != want {
			t.Errorf("Recommendation(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestTargetPrice_Tiers(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		{85, 12.00}, // 20% upside
		{80, 12.00},
		{75, 11.50}, // 15%
		{70, 11.50},
		{65, 11.00}, // 10%
		{60, 11.00},
		{40, 10.50}, // 5%
	}

	for _, tt := range tests {
		if got := TargetPrice(10, tt.score); got != tt.want {
			t.Errorf("TargetPrice(10, %d) = %v, want %v", tt.score, got, tt.want)
		}
	}

	if got := TargetPrice(0, 80); got != 0 {
		t.Errorf("TargetPrice(0, 80) = %v, want 0", got)
	}
}

func TestReasoning_Deterministic(t *testing.T) {
	m := contracts.MetricsSnapshot{
		Price:          19,
		Volume:         5_000_000,
		AvgVolume:      1_000_000,
		PriceChangePct: 12,
		Sector:         "Technology",
		PERatio:        18,
		RSI:            60,
		High52W:        20,
		Low52W:         10,
	}
	signals := contracts.SignalBreakdown{Momentum: 25, Technical: 25, Fundamental: 10, SectorMatch: 15}

	first := Reasoning(75, signals, m)
	for i := 0; i < 10; i++ {
		if got := Reasoning(75, signals, m); got != first {
			t.Fatal("identical input produced different reasoning text")
		}
	}

	if !strings.Contains(first, "momentum") && !strings.Contains(first, "Strong momentum") {
		t.Errorf("expected momentum clause in %q", first)
	}
	if !strings.Contains(first, "52-week high") {
		t.Errorf("expected technical clause in %q", first)
	}
	if !strings.Contains(first, "Preferred sector: Technology") {
		t.Errorf("expected sector clause in %q", first)
	}
	// Fundamental floor is 12; a 10 must not contribute a clause
	if strings.Contains(first, "P/E") {
		t.Errorf("unexpected fundamental clause in %q", first)
	}
}

func TestReasoning_FallbackSentence(t *testing.T) {
	m := contracts.MetricsSnapshot{Price: 10}
	signals := contracts.SignalBreakdown{Momentum: 10, Technical: 10, Fundamental: 10}

	got := Reasoning(62, signals, m)
	if !strings.Contains(got, "Marginal setup (score 62)") {
		t.Errorf("expected generic fallback, got %q", got)
	}

	got = Reasoning(72, signals, m)
	if !strings.Contains(got, "Solid setup (score 72)") {
		t.Errorf("expected solid-tier fallback, got %q", got)
	}
}

package contracts

import "time"

// Category caps. The five category scores sum to at most 100.
const (
	MomentumCap    = 25
	TechnicalCap   = 25
	FundamentalCap = 25
	SentimentCap   = 10
	SectorMatchCap = 15
)

// SignalBreakdown holds the per-category scores behind a total score.
// Each field is independently capped; the sum is the total score.
type SignalBreakdown struct {
	Momentum    int `json:"momentum"`
	Technical   int `json:"technical"`
	Fundamental int `json:"fundamental"`
	Sentiment   int `json:"sentiment"`
	SectorMatch int `json:"sector_match"`
}

// Total returns the raw sum of all category scores, without clamping.
func (s SignalBreakdown) Total() int {
	return s.Momentum + s.Technical + s.Fundamental + s.Sentiment + s.SectorMatch
}

// WithinCaps reports whether every category respects its cap. A violation
// indicates a scoring configuration bug, not a normal runtime condition.
func (s SignalBreakdown) WithinCaps() bool {
	return s.Momentum >= 0 && s.Momentum <= MomentumCap &&
		s.Technical >= 0 && s.Technical <= TechnicalCap &&
		s.Fundamental >= 0 && s.Fundamental <= FundamentalCap &&
		s.Sentiment >= 0 && s.Sentiment <= SentimentCap &&
		s.SectorMatch >= 0 && s.SectorMatch <= SectorMatchCap
}

// Opportunity is a scored, filtered candidate ticker. Immutable once
// produced by a scan.
type Opportunity struct {
	Ticker         string          `json:"ticker"`
	Score          int             `json:"score"`
	Price          float64         `json:"price"`
	MarketCap      float64         `json:"market_cap"`
	Sector         string          `json:"sector"`
	Signals        SignalBreakdown `json:"signals"`
	Recommendation string          `json:"recommendation"`
	TargetPrice    float64         `json:"target_price"`
	Reasoning      string          `json:"reasoning"`
	ScannedAt      time.Time       `json:"scanned_at"`
}

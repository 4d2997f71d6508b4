package scanner

import (
	"fmt"
	"math"
	"strings"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/logger"
)

// MinOpportunityScore is the surfacing threshold. Scoring is intentionally
// harsh; most scans should return a handful of results, not dozens.
const MinOpportunityScore = 60

// Criteria holds the screening filters applied before scoring.
type Criteria struct {
	MinMarketCap   float64
	MaxMarketCap   float64
	MinPrice       float64
	MaxPrice       float64
	MinVolume      int64
	MinRSI         float64
	MaxRSI         float64
	MinPriceChange float64 // absolute %, only significant movers
	MaxPriceChange float64 // absolute %, reject excessive volatility

	PreferredSectors []string
}

// DefaultCriteria returns the microcap screening profile:
// $50M-$2B market cap, $2-$50 price, 100k volume floor, RSI 25-75,
// 1-25% daily move.
func DefaultCriteria() Criteria {
	return Criteria{
		MinMarketCap:     50_000_000,
		MaxMarketCap:     2_000_000_000,
		MinPrice:         2.0,
		MaxPrice:         50.0,
		MinVolume:        100_000,
		MinRSI:           25,
		MaxRSI:           75,
		MinPriceChange:   1.0,
		MaxPriceChange:   25.0,
		PreferredSectors: []string{"Technology", "Healthcare", "Biotechnology", "Energy"},
	}
}

// SentimentScorer is the extension slot for the sentiment category.
// Implementations return 0-10; values outside that range are clamped and
// logged as a configuration bug.
type SentimentScorer interface {
	Score(ticker string, m contracts.MetricsSnapshot) int
}

// zeroSentiment is the default scorer until a news/sentiment source is
// wired in.
type zeroSentiment struct{}

func (zeroSentiment) Score(string, contracts.MetricsSnapshot) int { return 0 }

// Engine converts a metrics snapshot into a capped 0-100 score, a
// recommendation label, a target price and reasoning text. Pure: no shared
// state, identical input always produces identical output.
type Engine struct {
	criteria  Criteria
	sentiment SentimentScorer
	logger    *logger.Logger
}

// NewEngine creates a scoring engine. A nil sentiment scorer defaults to
// the zero-valued extension slot.
func NewEngine(criteria Criteria, sentiment SentimentScorer, log *logger.Logger) *Engine {
	if sentiment == nil {
		sentiment = zeroSentiment{}
	}
	return &Engine{
		criteria:  criteria,
		sentiment: sentiment,
		logger:    log.WithField("module", "scanner"),
	}
}

// PassesFilters applies the screening criteria. A failed filter excludes
// the ticker from results; it is not an error.
func (e *Engine) PassesFilters(m contracts.MetricsSnapshot) bool {
	if m.MarketCap < e.criteria.MinMarketCap || m.MarketCap > e.criteria.MaxMarketCap {
		return false
	}

	if m.Price < e.criteria.MinPrice || m.Price > e.criteria.MaxPrice {
		return false
	}

	if m.Volume < e.criteria.MinVolume {
		return false
	}

	if m.RSI < e.criteria.MinRSI || m.RSI > e.criteria.MaxRSI {
		return false
	}

	change := math.Abs(m.PriceChangePct)
	if change < e.criteria.MinPriceChange || change > e.criteria.MaxPriceChange {
		return false
	}

	return true
}

// Score computes the five capped category scores and the clamped total.
func (e *Engine) Score(ticker string, m contracts.MetricsSnapshot) (int, contracts.SignalBreakdown) {
	signals := contracts.SignalBreakdown{
		Momentum:    e.momentumScore(m),
		Technical:   e.technicalScore(m),
		Fundamental: e.fundamentalScore(m),
		Sentiment:   e.sentimentScore(ticker, m),
		SectorMatch: e.sectorScore(m),
	}

	total := signals.Total()
	if total > 100 {
		// Caps guarantee the sum stays within 100; exceeding it means a
		// category cap is misconfigured.
		e.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"total":   total,
			"signals": signals,
		}).Error("Score overflow above 100, clamping; check category caps")
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return total, signals
}

// momentumScore: price-change tier plus volume-spike tier, capped at 25.
func (e *Engine) momentumScore(m contracts.MetricsSnapshot) int {
	score := 0

	// Price momentum (0-15). Below a 4% move doesn't count.
	switch {
	case m.PriceChangePct > 10:
		score += 15
	case m.PriceChangePct > 7:
		score += 10
	case m.PriceChangePct > 4:
		score += 5
	}

	// Volume spike (0-10). Below 1.8x average doesn't count.
	ratio := m.VolumeRatio()
	switch {
	case ratio > 4:
		score += 10
	case ratio > 2.5:
		score += 7
	case ratio > 1.8:
		score += 4
	}

	return clamp(score, 0, contracts.MomentumCap)
}

// technicalScore: RSI positioning plus 52-week range position, capped at 25.
func (e *Engine) technicalScore(m contracts.MetricsSnapshot) int {
	score := 0

	// RSI positioning (0-10). Only the bullish-but-not-overbought sweet
	// spot gets full points.
	switch {
	case m.RSI >= 58 && m.RSI <= 65:
		score += 10
	case m.RSI >= 52 && m.RSI <= 70:
		score += 6
	case m.RSI >= 45 && m.RSI < 52:
		score += 3
	}

	// 52-week position (0-15). Near the highs is strength; below 55% of
	// the range earns nothing.
	position := m.RangePosition()
	switch {
	case position > 85:
		score += 15
	case position > 70:
		score += 10
	case position > 55:
		score += 5
	}

	return clamp(score, 0, contracts.TechnicalCap)
}

// fundamentalScore: valuation plus growth, capped at 25. Zero-valued
// fundamentals are treated as unknown and earn no points.
func (e *Engine) fundamentalScore(m contracts.MetricsSnapshot) int {
	score := 0

	// P/E (0-10), with a forward P/E consolation tier
	switch {
	case m.PERatio > 0 && m.PERatio < 25:
		score += 10
	case m.PERatio > 0 && m.PERatio < 40:
		score += 5
	case m.ForwardPE > 0 && m.ForwardPE < 20:
		score += 7
	}

	// Price to book (0-8)
	switch {
	case m.PriceToBook > 0 && m.PriceToBook < 3:
		score += 8
	case m.PriceToBook > 0 && m.PriceToBook < 5:
		score += 4
	}

	// Revenue growth (0-7)
	switch {
	case m.RevenueGrowth > 0.20:
		score += 7
	case m.RevenueGrowth > 0.10:
		score += 4
	}

	return clamp(score, 0, contracts.FundamentalCap)
}

// sentimentScore delegates to the pluggable slot and enforces its cap.
func (e *Engine) sentimentScore(ticker string, m contracts.MetricsSnapshot) int {
	score := e.sentiment.Score(ticker, m)
	if score < 0 || score > contracts.SentimentCap {
		e.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"score":  score,
		}).Error("Sentiment scorer returned out-of-range value, clamping")
	}
	return clamp(score, 0, contracts.SentimentCap)
}

// sectorScore: flat bonus for preferred sectors.
func (e *Engine) sectorScore(m contracts.MetricsSnapshot) int {
	for _, sector := range e.criteria.PreferredSectors {
		if strings.EqualFold(m.Sector, sector) {
			return contracts.SectorMatchCap
		}
	}
	return 0
}

// Recommendation maps a total score to its label. Defined for every score
// 0-100; scans only surface results at "Watch" or better.
func Recommendation(score int) string {
	switch {
	case score >= 85:
		return "Strong Buy"
	case score >= 75:
		return "Buy"
	case score >= 65:
		return "Consider"
	case score >= 60:
		return "Watch"
	default:
		return "Skip"
	}
}

// TargetPrice returns the current price with a score-tiered upside applied,
// rounded to cents.
func TargetPrice(price float64, score int) float64 {
	if price <= 0 {
		return 0
	}

	var upside float64
	switch {
	case score >= 80:
		upside = 0.20
	case score >= 70:
		upside = 0.15
	case score >= 60:
		upside = 0.10
	default:
		upside = 0.05
	}

	return math.Round(price*(1+upside)*100) / 100
}

// Reasoning floors: a category only contributes a clause when its score is
// meaningful.
const (
	momentumReasonFloor    = 15
	technicalReasonFloor   = 15
	fundamentalReasonFloor = 12
)

// Reasoning composes up to four deterministic clauses from the categories
// that carried the score, falling back to a generic score-tier sentence.
func Reasoning(score int, signals contracts.SignalBreakdown, m contracts.MetricsSnapshot) string {
	var reasons []string

	if signals.Momentum >= momentumReasonFloor {
		ratio := m.VolumeRatio()
		if ratio > 2 {
			reasons = append(reasons, fmt.Sprintf("Strong momentum with +%.1f%% on %.1fx volume", m.PriceChangePct, ratio))
		} else {
			reasons = append(reasons, fmt.Sprintf("Solid price momentum: +%.1f%%", m.PriceChangePct))
		}
	}

	if signals.Technical >= technicalReasonFloor {
		if m.High52W > 0 && m.Price/m.High52W > 0.8 {
			reasons = append(reasons, fmt.Sprintf("Near 52-week high with RSI at %.0f", m.RSI))
		} else {
			reasons = append(reasons, fmt.Sprintf("Favorable technical setup (RSI: %.0f)", m.RSI))
		}
	}

	if signals.Fundamental >= fundamentalReasonFloor {
		if m.RevenueGrowth > 0.15 {
			reasons = append(reasons, fmt.Sprintf("Strong revenue growth (%.0f%%)", m.RevenueGrowth*100))
		} else if m.PERatio > 0 && m.PERatio < 25 {
			reasons = append(reasons, fmt.Sprintf("Attractive valuation (P/E: %.1f)", m.PERatio))
		}
	}

	if signals.SectorMatch == contracts.SectorMatchCap {
		reasons = append(reasons, fmt.Sprintf("Preferred sector: %s", m.Sector))
	}

	// Be honest when nothing stands out
	if len(reasons) == 0 {
		switch {
		case score >= 70:
			reasons = append(reasons, fmt.Sprintf("Solid setup (score %d), no standout catalyst", score))
		case score >= 60:
			reasons = append(reasons, fmt.Sprintf("Marginal setup (score %d), watch for confirmation", score))
		default:
			reasons = append(reasons, fmt.Sprintf("Weak setup (score %d), skip", score))
		}
	}

	return strings.Join(reasons, ". ") + "."
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

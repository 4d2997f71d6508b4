package committee

import (
	"fmt"
	"math"
	"strings"

	"github.com/scoutlab/scout/internal/contracts"
)

// Posture names, also used as winner attribution keys.
const (
	PostureSeeking      = "Risk Seeking"
	PostureNeutral      = "Risk Neutral"
	PostureConservative = "Risk Conservative"
)

// Posture is a fixed risk-sizing strategy. The three instances below are
// the only ones; their sizing rules live in the propose functions.
type Posture struct {
	Name        string
	MaxPct      float64 // hard cap on position percent
	StopLossPct float64 // negative, percent
	Philosophy  string

	propose func(rec contracts.Recommendation, portfolio contracts.PortfolioContext) float64
}

// seekingMaxPct is named so seekingPct can reference it without creating
// an initialization cycle through the seeking variable.
const seekingMaxPct = 30

var (
	seeking = Posture{
		Name:        PostureSeeking,
		MaxPct:      seekingMaxPct,
		StopLossPct: -25,
		Philosophy:  "Size up into conviction; momentum deserves extra weight.",
		propose:     seekingPct,
	}

	neutral = Posture{
		Name:        PostureNeutral,
		MaxPct:      20,
		StopLossPct: -20,
		Philosophy:  "Balanced sizing, confidence-tiered, no style bets.",
		propose:     neutralPct,
	}

	conservative = Posture{
		Name:        PostureConservative,
		MaxPct:      15,
		StopLossPct: -15,
		Philosophy:  "Capital preservation first; trim when the sector is crowded.",
		propose:     conservativePct,
	}

	// Debate order. Also the tie-break order for winner attribution.
	postures = []Posture{seeking, neutral, conservative}
)

// seekingPct tiers on confidence and rewards momentum setups, hard-capped
// at the posture maximum.
func seekingPct(rec contracts.Recommendation, _ contracts.PortfolioContext) float64 {
	var pct float64
	switch {
	case rec.Confidence >= 0.85:
		pct = 25
	case rec.Confidence >= 0.75:
		pct = 20
	default:
		pct = 15
	}

	if strings.Contains(strings.ToLower(rec.Reasoning), "momentum") {
		pct *= 1.2
	}

	return math.Min(pct, seekingMaxPct)
}

func neutralPct(rec contracts.Recommendation, _ contracts.PortfolioContext) float64 {
	switch {
	case rec.Confidence >= 0.80:
		return 18
	case rec.Confidence >= 0.70:
		return 15
	default:
		return 12
	}
}

// conservativePct tiers on confidence and backs off when the caller already
// carries more than 30% in the sector.
func conservativePct(rec contracts.Recommendation, portfolio contracts.PortfolioContext) float64 {
	var pct float64
	switch {
	case rec.Confidence >= 0.85:
		pct = 15
	case rec.Confidence >= 0.75:
		pct = 12
	default:
		pct = 10
	}

	if portfolio.SectorExposure > 0.30 {
		pct *= 0.8
	}

	return pct
}

// Propose builds the posture's sizing proposal. Quantity is the floor of
// the dollar allocation divided by the target price.
func (p Posture) Propose(rec contracts.Recommendation, portfolio contracts.PortfolioContext) contracts.Proposal {
	pct := p.propose(rec, portfolio)
	qty := int64(math.Floor(pct / 100 * portfolio.PortfolioValue / rec.TargetPrice))

	return contracts.Proposal{
		Posture:     p.Name,
		ProposedQty: qty,
		PositionPct: pct,
		StopLossPct: p.StopLossPct,
		Rationale: fmt.Sprintf("%s: %.1f%% of portfolio (%d shares at $%.2f target), %.0f%% stop. %s",
			p.Name, pct, qty, rec.TargetPrice, p.StopLossPct, p.Philosophy),
	}
}

// zeroProposal is the degraded-input proposal for a non-positive target
// price.
func (p Posture) zeroProposal() contracts.Proposal {
	return contracts.Proposal{
		Posture:   p.Name,
		Rationale: fmt.Sprintf("%s: no proposal, target price is not positive", p.Name),
	}
}

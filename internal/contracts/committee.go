package contracts

import "time"

// Recommendation is the trading recommendation handed to the sizing
// committee, typically built from an Opportunity and a ConsensusResult.
type Recommendation struct {
	Ticker      string  `json:"ticker"`
	Action      Action  `json:"action"`
	TargetPrice float64 `json:"target_price"`
	Confidence  float64 `json:"confidence"` // 0..1
	Reasoning   string  `json:"reasoning"`
}

// PortfolioContext carries the caller's portfolio state. PortfolioValue
// must be supplied explicitly; the committee has no default notional value.
type PortfolioContext struct {
	PortfolioValue float64 `json:"portfolio_value"`
	SectorExposure float64 `json:"sector_exposure"` // fraction, 0.35 = 35%
}

// Proposal is one posture's sizing proposal.
type Proposal struct {
	Posture     string  `json:"posture"`
	ProposedQty int64   `json:"proposed_qty"`
	PositionPct float64 `json:"position_pct"`
	StopLossPct float64 `json:"stop_loss_pct"`
	Rationale   string  `json:"rationale"`
}

// Resolution strategies recorded on CommitteeResult.
const (
	ResolvedByArbiter  = "arbiter"
	ResolvedByFallback = "fallback"
)

// CommitteeResult is the outcome of a position-sizing debate. Appended to
// the decision history on creation.
//
// Invariant: StopLossPrice = TargetPrice * (1 + StopLossPct/100) exactly.
type CommitteeResult struct {
	Timestamp     time.Time `json:"timestamp"`
	Ticker        string    `json:"ticker"`
	Action        Action    `json:"action"`
	OriginalRec   string    `json:"original_rec"`
	Seeking       Proposal  `json:"risk_seeking"`
	Neutral       Proposal  `json:"risk_neutral"`
	Conservative  Proposal  `json:"risk_conservative"`
	ConsensusQty  int64     `json:"consensus_qty"`
	StopLossPct   float64   `json:"stop_loss_pct"`
	StopLossPrice float64   `json:"stop_loss_price"`
	Reasoning     string    `json:"reasoning"`
	Winner        string    `json:"winner"`
	ResolvedBy    string    `json:"resolved_by"`
	Degraded      bool      `json:"degraded,omitempty"`
}

// PostureStats tracks how often a posture's proposal carried the debate.
type PostureStats struct {
	Wins    int `json:"wins"`
	Debates int `json:"debates"`
}

// WinRate returns the posture's win rate as a percentage.
func (s PostureStats) WinRate() float64 {
	if s.Debates == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Debates) * 100
}

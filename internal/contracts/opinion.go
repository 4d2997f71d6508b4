package contracts

// Action is a trading action recommended by an analyst.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
	ActionAdd  Action = "ADD"
	ActionTrim Action = "TRIM"
)

// Valid reports whether the action is one of the known values.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold, ActionAdd, ActionTrim:
		return true
	}
	return false
}

// AgentOpinion is a single analyst's view of a ticker. Transient; one per
// analyzer invocation.
type AgentOpinion struct {
	AgentID    string  `json:"agent_id"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"` // 0..1
	Reasoning  string  `json:"reasoning"`
}

// VoteBreakdown describes how one action fared in the tally.
type VoteBreakdown struct {
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Agents     []string `json:"agents"`
}

// ConsensusResult is the aggregate of multiple independent opinions with a
// diversity-aware confidence adjustment. Derived, immutable.
//
// Invariant: FinalConfidence = BaseConfidence * PenaltyMultiplier exactly.
type ConsensusResult struct {
	Action            Action                   `json:"action"`
	BaseConfidence    float64                  `json:"base_confidence"`
	FinalConfidence   float64                  `json:"confidence"`
	AgreementRate     float64                  `json:"agreement_rate"`
	DiversityScore    float64                  `json:"diversity_score"`
	PenaltyMultiplier float64                  `json:"diversity_penalty"`
	Warning           string                   `json:"warning"`
	Votes             map[Action]VoteBreakdown `json:"agent_votes"`
	TotalOpinions     int                      `json:"total_agents"`
	Analysis          string                   `json:"meta_analysis"`
	NoData            bool                     `json:"no_data,omitempty"`
}

// Actionable reports whether the consensus calls for a position change.
// HOLD and the empty-input degraded result are not actionable.
func (c ConsensusResult) Actionable() bool {
	return !c.NoData && c.Action != ActionHold
}

// Package analysts provides independent rule-based opinion sources. Each
// analyst looks at one slice of the metrics and votes with a confidence;
// the consensus aggregator is agnostic to how many run or what they weigh.
package analysts

import (
	"github.com/scoutlab/scout/internal/contracts"
)

// Analyst produces one opinion per ticker from a metrics snapshot.
type Analyst interface {
	ID() string
	Analyze(ticker string, m contracts.MetricsSnapshot) contracts.AgentOpinion
}

// Default returns the standard panel: technical, momentum and fundamental.
func Default() []Analyst {
	return []Analyst{
		TechnicalAnalyst{},
		MomentumAnalyst{},
		FundamentalAnalyst{},
	}
}

// Run collects one opinion from every analyst, preserving panel order so
// downstream tie-breaks stay deterministic.
func Run(panel []Analyst, ticker string, m contracts.MetricsSnapshot) []contracts.AgentOpinion {
	opinions := make([]contracts.AgentOpinion, 0, len(panel))
	for _, a := range panel {
		opinions = append(opinions, a.Analyze(ticker, m))
	}
	return opinions
}

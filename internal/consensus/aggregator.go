// Package consensus combines independent analyst opinions into one
// recommendation with a diversity-aware confidence adjustment. Too much
// agreement is discounted as groupthink; too little, as chaos.
package consensus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/logger"
)

// Penalty multipliers and the agreement thresholds that select them.
const (
	groupthinkThreshold = 0.80
	chaosThreshold      = 0.40

	groupthinkPenalty = 0.85
	chaosPenalty      = 0.90
	noPenalty         = 1.0

	// The chaos penalty needs enough voters to mean anything. With one or
	// two opinions a 50% agreement rate is structural, not a signal.
	chaosMinOpinions = 3
)

// Aggregator computes consensus results. Stateless and safe for concurrent
// use.
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates a consensus aggregator.
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log.WithField("module", "consensus")}
}

// Aggregate tallies opinions into a ConsensusResult. An empty input yields
// a degraded HOLD result with the NoData flag set; it never fails.
//
// The consensus action is the plurality action. Ties break by first
// occurrence in the input list, so callers passing opinions in a stable
// order get a deterministic result.
func (a *Aggregator) Aggregate(opinions []contracts.AgentOpinion) contracts.ConsensusResult {
	if len(opinions) == 0 {
		a.logger.Warn("Aggregate called with no opinions, returning degraded result")
		return contracts.ConsensusResult{
			Action:            contracts.ActionHold,
			DiversityScore:    1,
			PenaltyMultiplier: noPenalty,
			Votes:             map[contracts.Action]contracts.VoteBreakdown{},
			Analysis:          "No opinions available; defaulting to HOLD.",
			NoData:            true,
		}
	}

	total := len(opinions)

	counts := make(map[contracts.Action]int)
	firstSeen := make(map[contracts.Action]int)
	agents := make(map[contracts.Action][]string)
	var sumConfidence float64

	for i, op := range opinions {
		if _, ok := firstSeen[op.Action]; !ok {
			firstSeen[op.Action] = i
		}
		counts[op.Action]++
		agents[op.Action] = append(agents[op.Action], op.AgentID)
		sumConfidence += op.Confidence
	}

	consensus := pluralityAction(counts, firstSeen)

	agreementRate := float64(counts[consensus]) / float64(total)
	baseConfidence := sumConfidence / float64(total)

	penalty, warning := selectPenalty(agreementRate, total)

	votes := make(map[contracts.Action]contracts.VoteBreakdown, len(counts))
	for action, count := range counts {
		votes[action] = contracts.VoteBreakdown{
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
			Agents:     agents[action],
		}
	}

	result := contracts.ConsensusResult{
		Action:            consensus,
		BaseConfidence:    baseConfidence,
		FinalConfidence:   baseConfidence * penalty,
		AgreementRate:     agreementRate,
		DiversityScore:    1 - agreementRate,
		PenaltyMultiplier: penalty,
		Warning:           warning,
		Votes:             votes,
		TotalOpinions:     total,
	}
	result.Analysis = analysisText(result)

	a.logger.WithFields(map[string]interface{}{
		"action":     result.Action,
		"agreement":  result.AgreementRate,
		"confidence": result.FinalConfidence,
		"opinions":   total,
	}).Info("Consensus reached")

	return result
}

// pluralityAction picks the most frequent action, breaking count ties by
// earliest first occurrence.
func pluralityAction(counts map[contracts.Action]int, firstSeen map[contracts.Action]int) contracts.Action {
	var winner contracts.Action
	bestCount := -1
	bestIndex := -1

	for action, count := range counts {
		idx := firstSeen[action]
		if count > bestCount || (count == bestCount && idx < bestIndex) {
			winner = action
			bestCount = count
			bestIndex = idx
		}
	}
	return winner
}

// selectPenalty maps the agreement rate to a confidence multiplier.
func selectPenalty(agreementRate float64, total int) (float64, string) {
	switch {
	case agreementRate >= groupthinkThreshold:
		return groupthinkPenalty, "High agreement may indicate groupthink; confidence discounted."
	case agreementRate <= chaosThreshold && total >= chaosMinOpinions:
		return chaosPenalty, "Low agreement suggests chaotic signals; confidence discounted."
	default:
		return noPenalty, "Healthy diversity of opinion."
	}
}

// analysisText renders the natural-language summary: an agreement
// descriptor, the vote breakdown, and a cautionary clause keyed to the
// penalty thresholds.
func analysisText(r contracts.ConsensusResult) string {
	var descriptor string
	switch {
	case r.AgreementRate >= 0.90:
		descriptor = "unanimous"
	case r.AgreementRate >= 0.70:
		descriptor = "strong"
	case r.AgreementRate >= 0.50:
		descriptor = "moderate"
	default:
		descriptor = "weak"
	}

	// Stable ordering so identical inputs render identical text
	actions := make([]contracts.Action, 0, len(r.Votes))
	for action := range r.Votes {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		if r.Votes[actions[i]].Count != r.Votes[actions[j]].Count {
			return r.Votes[actions[i]].Count > r.Votes[actions[j]].Count
		}
		return actions[i] < actions[j]
	})

	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		v := r.Votes[action]
		parts = append(parts, fmt.Sprintf("%s %d (%.0f%%)", action, v.Count, v.Percentage))
	}

	var caution string
	switch {
	case r.AgreementRate >= groupthinkThreshold:
		caution = "Watch for groupthink."
	case r.AgreementRate <= chaosThreshold:
		caution = "Signals are scattered; treat with caution."
	default:
		caution = "Dissent is within a healthy range."
	}

	return fmt.Sprintf("There is %s agreement on %s. Votes: %s. %s",
		descriptor, r.Action, strings.Join(parts, ", "), caution)
}

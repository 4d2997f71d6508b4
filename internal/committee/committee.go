// Package committee resolves a recommendation into one position size and
// stop-loss through a simulated debate among three fixed risk postures. An
// external arbiter can pick the resolution; a deterministic fallback always
// works without it.
package committee

import (
	"context"
	"fmt"
	"time"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/logger"
)

// Arbiter resolves a sizing debate with free-text output. Implementations
// must honor ctx cancellation; the committee applies its own timeout and
// treats any error as "arbiter unavailable".
type Arbiter interface {
	Resolve(ctx context.Context, rec contracts.Recommendation, proposals []contracts.Proposal) (string, error)
}

// History persists committee results. Appends are best effort; a failed
// append is logged and never fails the debate.
type History interface {
	Append(ctx context.Context, result contracts.CommitteeResult) error
}

const arbiterTimeout = 30 * time.Second

// Committee runs position-sizing debates. Proposal math is pure; only the
// posture counters and the history log are shared state.
type Committee struct {
	arbiter  Arbiter // nil means fallback-only
	history  History // nil means no persistence
	counters *CounterStore
	logger   *logger.Logger
}

// New creates a committee. Both arbiter and history may be nil.
func New(arbiter Arbiter, history History, counters *CounterStore, log *logger.Logger) *Committee {
	if counters == nil {
		counters = NewCounterStore()
	}
	return &Committee{
		arbiter:  arbiter,
		history:  history,
		counters: counters,
		logger:   log.WithField("module", "committee"),
	}
}

// Stats returns the current posture win/debate counters.
func (c *Committee) Stats() map[string]contracts.PostureStats {
	return c.counters.Snapshot()
}

// Debate produces per-posture proposals and resolves them into one final
// quantity and stop-loss. It always returns a complete result; arbiter
// failures silently fall back to the deterministic rule, and a non-positive
// target price yields a degraded all-zero result.
func (c *Committee) Debate(ctx context.Context, rec contracts.Recommendation, portfolio contracts.PortfolioContext) contracts.CommitteeResult {
	if rec.TargetPrice <= 0 {
		c.logger.WithField("ticker", rec.Ticker).Warn("Non-positive target price, returning degraded result")
		return contracts.CommitteeResult{
			Timestamp:    time.Now().UTC(),
			Ticker:       rec.Ticker,
			Action:       rec.Action,
			OriginalRec:  summarize(rec),
			Seeking:      seeking.zeroProposal(),
			Neutral:      neutral.zeroProposal(),
			Conservative: conservative.zeroProposal(),
			Reasoning:    "Debate skipped: target price must be positive.",
			ResolvedBy:   contracts.ResolvedByFallback,
			Degraded:     true,
		}
	}

	proposals := make([]contracts.Proposal, len(postures))
	for i, p := range postures {
		proposals[i] = p.Propose(rec, portfolio)
	}

	qty, stopPct, reasoning, resolvedBy := c.resolve(ctx, rec, proposals)

	winner := closestPosture(proposals, qty)
	c.counters.RecordDebate(winner)

	result := contracts.CommitteeResult{
		Timestamp:     time.Now().UTC(),
		Ticker:        rec.Ticker,
		Action:        rec.Action,
		OriginalRec:   summarize(rec),
		Seeking:       proposals[0],
		Neutral:       proposals[1],
		Conservative:  proposals[2],
		ConsensusQty:  qty,
		StopLossPct:   stopPct,
		StopLossPrice: rec.TargetPrice * (1 + stopPct/100),
		Reasoning:     reasoning,
		Winner:        winner,
		ResolvedBy:    resolvedBy,
	}

	if c.history != nil {
		if err := c.history.Append(ctx, result); err != nil {
			c.logger.WithError(err).Warn("Failed to append committee result to history")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":      rec.Ticker,
		"qty":         qty,
		"stop_pct":    stopPct,
		"winner":      winner,
		"resolved_by": resolvedBy,
	}).Info("Debate resolved")

	return result
}

// resolve tries the arbiter first, then the deterministic rule. Arbiter
// timeouts, transport errors and unparseable replies all take the fallback
// path with no retry.
func (c *Committee) resolve(ctx context.Context, rec contracts.Recommendation, proposals []contracts.Proposal) (int64, float64, string, string) {
	if c.arbiter != nil {
		arbCtx, cancel := context.WithTimeout(ctx, arbiterTimeout)
		reply, err := c.arbiter.Resolve(arbCtx, rec, proposals)
		cancel()

		if err != nil {
			c.logger.WithError(err).WithField("ticker", rec.Ticker).Debug("Arbiter unavailable, using fallback")
		} else if qty, stopPct, parseErr := extractDecision(reply); parseErr != nil {
			c.logger.WithError(parseErr).WithField("ticker", rec.Ticker).Debug("Arbiter reply unparseable, using fallback")
		} else {
			return qty, stopPct, reply, contracts.ResolvedByArbiter
		}
	}

	chosen := fallbackProposal(rec.Confidence, proposals)
	reasoning := fmt.Sprintf("Deterministic resolution at confidence %.2f: %s", rec.Confidence, chosen.Rationale)
	return chosen.ProposedQty, chosen.StopLossPct, reasoning, contracts.ResolvedByFallback
}

// fallbackProposal picks a posture by confidence tier: Seeking at 0.85 and
// above, Neutral from 0.70, Conservative below.
func fallbackProposal(confidence float64, proposals []contracts.Proposal) contracts.Proposal {
	switch {
	case confidence >= 0.85:
		return proposals[0]
	case confidence >= 0.70:
		return proposals[1]
	default:
		return proposals[2]
	}
}

// closestPosture attributes the win to the posture whose quantity is
// nearest the resolved one. Proposal order doubles as the tie-break order.
func closestPosture(proposals []contracts.Proposal, qty int64) string {
	winner := proposals[0].Posture
	best := abs64(proposals[0].ProposedQty - qty)

	for _, p := range proposals[1:] {
		if d := abs64(p.ProposedQty - qty); d < best {
			winner = p.Posture
			best = d
		}
	}
	return winner
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func summarize(rec contracts.Recommendation) string {
	return fmt.Sprintf("%s %s @ $%.2f (confidence %.2f)", rec.Action, rec.Ticker, rec.TargetPrice, rec.Confidence)
}

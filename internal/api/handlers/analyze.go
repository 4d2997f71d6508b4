package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/scoutlab/scout/internal/analysts"
	"github.com/scoutlab/scout/internal/committee"
	"github.com/scoutlab/scout/internal/consensus"
	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/marketdata"
	"github.com/scoutlab/scout/internal/scanner"
	"github.com/scoutlab/scout/pkg/logger"
)

// AnalyzeHandler runs the full pipeline for one ticker: metrics, scoring,
// analyst panel, consensus, and (when actionable and a portfolio value is
// supplied) the sizing committee.
type AnalyzeHandler struct {
	provider   marketdata.Provider
	engine     *scanner.Engine
	panel      []analysts.Analyst
	aggregator *consensus.Aggregator
	committee  *committee.Committee
	logger     *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(
	provider marketdata.Provider,
	engine *scanner.Engine,
	panel []analysts.Analyst,
	aggregator *consensus.Aggregator,
	cmte *committee.Committee,
	log *logger.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		provider:   provider,
		engine:     engine,
		panel:      panel,
		aggregator: aggregator,
		committee:  cmte,
		logger:     log,
	}
}

// AnalyzeResponse is the combined pipeline output for one ticker.
type AnalyzeResponse struct {
	Ticker      string                     `json:"ticker"`
	Metrics     contracts.MetricsSnapshot  `json:"metrics"`
	Score       int                        `json:"score"`
	Signals     contracts.SignalBreakdown  `json:"signals"`
	Label       string                     `json:"recommendation"`
	TargetPrice float64                    `json:"target_price"`
	Opinions    []contracts.AgentOpinion   `json:"opinions"`
	Consensus   contracts.ConsensusResult  `json:"consensus"`
	Sizing      *contracts.CommitteeResult `json:"sizing,omitempty"`
	SizingNote  string                     `json:"sizing_note,omitempty"`
}

// ConsensusRequest is the request body for POST /api/consensus.
type ConsensusRequest struct {
	Opinions []contracts.AgentOpinion `json:"opinions"`
}

// Consensus aggregates caller-supplied opinions. An empty list returns the
// degraded no-data result, not an error.
// POST /api/consensus
func (h *AnalyzeHandler) Consensus(w http.ResponseWriter, r *http.Request) {
	var req ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, op := range req.Opinions {
		if !op.Action.Valid() {
			respondError(w, http.StatusBadRequest, "opinion action must be one of BUY, SELL, HOLD, ADD, TRIM")
			return
		}
	}

	respondJSON(w, http.StatusOK, h.aggregator.Aggregate(req.Opinions))
}

// Analyze runs the pipeline for the path ticker.
// GET /api/analyze/{ticker}?portfolio_value=100000&sector_exposure=0.2
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	metrics, err := h.provider.GetMetrics(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Metrics fetch failed")
		respondError(w, http.StatusBadGateway, "Market data unavailable for "+ticker)
		return
	}

	score, signals := h.engine.Score(ticker, metrics)
	opinions := analysts.Run(h.panel, ticker, metrics)
	result := h.aggregator.Aggregate(opinions)

	resp := AnalyzeResponse{
		Ticker:      ticker,
		Metrics:     metrics,
		Score:       score,
		Signals:     signals,
		Label:       scanner.Recommendation(score),
		TargetPrice: scanner.TargetPrice(metrics.Price, score),
		Opinions:    opinions,
		Consensus:   result,
	}

	switch {
	case !result.Actionable():
		resp.SizingNote = "Consensus is not actionable; sizing skipped"
	default:
		portfolioValue, err := strconv.ParseFloat(r.URL.Query().Get("portfolio_value"), 64)
		if err != nil || portfolioValue <= 0 {
			resp.SizingNote = "Pass a positive portfolio_value query parameter to size the position"
			break
		}
		sectorExposure, _ := strconv.ParseFloat(r.URL.Query().Get("sector_exposure"), 64)

		sizing := h.committee.Debate(ctx, contracts.Recommendation{
			Ticker:      ticker,
			Action:      result.Action,
			TargetPrice: resp.TargetPrice,
			Confidence:  result.FinalConfidence,
			Reasoning:   scanner.Reasoning(score, signals, metrics),
		}, contracts.PortfolioContext{
			PortfolioValue: portfolioValue,
			SectorExposure: sectorExposure,
		})
		resp.Sizing = &sizing
	}

	respondJSON(w, http.StatusOK, resp)
}

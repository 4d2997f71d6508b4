package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/scoutlab/scout/internal/committee"
	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/history"
	"github.com/scoutlab/scout/pkg/logger"
)

// CommitteeHandler handles position-sizing API endpoints.
type CommitteeHandler struct {
	committee *committee.Committee
	history   history.Store
	logger    *logger.Logger
}

// NewCommitteeHandler creates a new committee handler.
func NewCommitteeHandler(cmte *committee.Committee, store history.Store, log *logger.Logger) *CommitteeHandler {
	return &CommitteeHandler{committee: cmte, history: store, logger: log}
}

// DebateRequest is the request body for POST /api/committee/debate.
type DebateRequest struct {
	Ticker         string  `json:"ticker"`
	Action         string  `json:"action"`
	TargetPrice    float64 `json:"target_price"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	PortfolioValue float64 `json:"portfolio_value"`
	SectorExposure float64 `json:"sector_exposure"`
}

// Debate runs a sizing debate for a caller-supplied recommendation.
// POST /api/committee/debate
func (h *CommitteeHandler) Debate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	action := contracts.Action(req.Action)
	if !action.Valid() {
		respondError(w, http.StatusBadRequest, "action must be one of BUY, SELL, HOLD, ADD, TRIM")
		return
	}
	if req.PortfolioValue <= 0 {
		respondError(w, http.StatusBadRequest, "portfolio_value must be positive")
		return
	}

	result := h.committee.Debate(ctx, contracts.Recommendation{
		Ticker:      req.Ticker,
		Action:      action,
		TargetPrice: req.TargetPrice,
		Confidence:  req.Confidence,
		Reasoning:   req.Reasoning,
	}, contracts.PortfolioContext{
		PortfolioValue: req.PortfolioValue,
		SectorExposure: req.SectorExposure,
	})

	respondJSON(w, http.StatusOK, result)
}

// GetStats returns posture win/debate counters.
// GET /api/committee/stats
func (h *CommitteeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.committee.Stats())
}

// GetHistory returns recent committee decisions, newest first.
// GET /api/committee/history?limit=20
func (h *CommitteeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := h.history.Recent(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read decision history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	if results == nil {
		results = []contracts.CommitteeResult{}
	}

	respondJSON(w, http.StatusOK, results)
}

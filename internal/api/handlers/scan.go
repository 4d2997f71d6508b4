package handlers

import (
	"net/http"

	"github.com/scoutlab/scout/internal/scanner"
	"github.com/scoutlab/scout/pkg/logger"
)

// ScanHandler handles scan-related API endpoints.
type ScanHandler struct {
	scans  *scanner.Service
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scans *scanner.Service, log *logger.Logger) *ScanHandler {
	return &ScanHandler{scans: scans, logger: log}
}

// RunScan runs a full universe scan and returns the result.
// POST /api/scan
func (h *ScanHandler) RunScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.scans.Run(ctx, nil)
	if err != nil {
		h.logger.WithError(err).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetOpportunities returns the most recent cached scan result.
// GET /api/opportunities
func (h *ScanHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, found, err := h.scans.Latest(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read cached scan")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve opportunities")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "No scan result cached; run POST /api/scan first")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

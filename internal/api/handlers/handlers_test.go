package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/internal/committee"
	"github.com/scoutlab/scout/internal/consensus"
	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/history"
	"github.com/scoutlab/scout/pkg/logger"
)

func TestConsensusEndpoint(t *testing.T) {
	h := NewAnalyzeHandler(nil, nil, nil, consensus.NewAggregator(logger.NewNop()), nil, logger.NewNop())

	body := `{"opinions":[
		{"agent_id":"technical","action":"BUY","confidence":0.85},
		{"agent_id":"sentiment","action":"BUY","confidence":0.80},
		{"agent_id":"fundamental","action":"BUY","confidence":0.90},
		{"agent_id":"macro","action":"BUY","confidence":0.82}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/api/consensus", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Consensus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.ConsensusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, contracts.ActionBuy, result.Action)
	assert.InDelta(t, 0.716125, result.FinalConfidence, 1e-9)
}

func TestConsensusEndpoint_BadInput(t *testing.T) {
	h := NewAnalyzeHandler(nil, nil, nil, consensus.NewAggregator(logger.NewNop()), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/consensus", strings.NewReader(`{"opinions":[{"action":"YOLO"}]}`))
	rec := httptest.NewRecorder()
	h.Consensus(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/consensus", strings.NewReader(`not json`))
	rec = httptest.NewRecorder()
	h.Consensus(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Empty list is valid and yields the degraded no-data result
	req = httptest.NewRequest(http.MethodPost, "/api/consensus", strings.NewReader(`{"opinions":[]}`))
	rec = httptest.NewRecorder()
	h.Consensus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.ConsensusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.NoData)
}

func newCommitteeHandler() *CommitteeHandler {
	store := history.NewMemoryStore()
	cmte := committee.New(nil, store, committee.NewCounterStore(), logger.NewNop())
	return NewCommitteeHandler(cmte, store, logger.NewNop())
}

func TestDebateEndpoint(t *testing.T) {
	h := newCommitteeHandler()

	body := `{
		"ticker": "APLD",
		"action": "BUY",
		"target_price": 20,
		"confidence": 0.85,
		"portfolio_value": 100000
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/committee/debate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Debate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.CommitteeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(1250), result.ConsensusQty)
	assert.Equal(t, contracts.ResolvedByFallback, result.ResolvedBy)

	// The decision landed in history
	historyReq := httptest.NewRequest(http.MethodGet, "/api/committee/history", nil)
	historyRec := httptest.NewRecorder()
	h.GetHistory(historyRec, historyReq)

	require.Equal(t, http.StatusOK, historyRec.Code)
	var decisions []contracts.CommitteeResult
	require.NoError(t, json.Unmarshal(historyRec.Body.Bytes(), &decisions))
	require.Len(t, decisions, 1)
	assert.Equal(t, "APLD", decisions[0].Ticker)
}

func TestDebateEndpoint_Validation(t *testing.T) {
	h := newCommitteeHandler()

	tests := []struct {
		name string
		body string
	}{
		{"missing ticker", `{"action":"BUY","target_price":20,"portfolio_value":100000}`},
		{"bad action", `{"ticker":"APLD","action":"YOLO","target_price":20,"portfolio_value":100000}`},
		{"missing portfolio value", `{"ticker":"APLD","action":"BUY","target_price":20}`},
		{"garbage body", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/committee/debate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Debate(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newCommitteeHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/committee/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]contracts.PostureStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Len(t, stats, 3)
}

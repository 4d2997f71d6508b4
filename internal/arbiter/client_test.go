package arbiter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/config"
	"github.com/scoutlab/scout/pkg/logger"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	cfg := &config.Config{}
	_, err := New(cfg, logger.NewNop())
	require.Error(t, err)

	cfg.Anthropic.APIKey = "sk-test"
	cfg.Anthropic.Model = "claude-sonnet-4-20250514"
	cfg.Anthropic.MaxTokens = 512
	client, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestBuildPrompt(t *testing.T) {
	rec := contracts.Recommendation{
		Ticker:      "APLD",
		Action:      contracts.ActionBuy,
		TargetPrice: 21.85,
		Confidence:  0.72,
		Reasoning:   "Near 52-week high with RSI at 60",
	}
	proposals := []contracts.Proposal{
		{Posture: "Risk Seeking", ProposedQty: 750, PositionPct: 15, StopLossPct: -25, Rationale: "size up"},
		{Posture: "Risk Neutral", ProposedQty: 750, PositionPct: 15, StopLossPct: -20, Rationale: "balanced"},
		{Posture: "Risk Conservative", ProposedQty: 500, PositionPct: 10, StopLossPct: -15, Rationale: "preserve"},
	}

	prompt := buildPrompt(rec, proposals)

	assert.Contains(t, prompt, "BUY APLD")
	assert.Contains(t, prompt, "$21.85")
	assert.Contains(t, prompt, "confidence 0.72")
	assert.Contains(t, prompt, "Risk Conservative: 500 shares")
	assert.Contains(t, prompt, "Near 52-week high")

	// One line per proposal plus header/footer text
	assert.Equal(t, 3, strings.Count(prompt, "% stop."))
}

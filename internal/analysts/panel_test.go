package analysts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/internal/contracts"
)

func TestTechnicalAnalyst(t *testing.T) {
	a := TechnicalAnalyst{}

	bullish := a.Analyze("APLD", contracts.MetricsSnapshot{
		Price: 19, RSI: 60, High52W: 20, Low52W: 10,
	})
	assert.Equal(t, contracts.ActionBuy, bullish.Action)
	assert.Equal(t, 0.80, bullish.Confidence)
	assert.Equal(t, "technical", bullish.AgentID)

	overbought := a.Analyze("APLD", contracts.MetricsSnapshot{
		Price: 19, RSI: 80, High52W: 20, Low52W: 10,
	})
	assert.Equal(t, contracts.ActionTrim, overbought.Action)

	flat := a.Analyze("APLD", contracts.MetricsSnapshot{
		Price: 12, RSI: 50, High52W: 20, Low52W: 10,
	})
	assert.Equal(t, contracts.ActionHold, flat.Action)
}

func TestMomentumAnalyst(t *testing.T) {
	a := MomentumAnalyst{}

	strong := a.Analyze("SOUN", contracts.MetricsSnapshot{
		PriceChangePct: 12, Volume: 5_000_000, AvgVolume: 1_000_000,
	})
	assert.Equal(t, contracts.ActionBuy, strong.Action)
	assert.Equal(t, 0.85, strong.Confidence)
	assert.Contains(t, strong.Reasoning, "momentum")

	unconfirmed := a.Analyze("SOUN", contracts.MetricsSnapshot{
		PriceChangePct: 9, Volume: 1_000_000, AvgVolume: 1_000_000,
	})
	assert.Equal(t, contracts.ActionHold, unconfirmed.Action)

	distribution := a.Analyze("SOUN", contracts.MetricsSnapshot{
		PriceChangePct: -10, Volume: 4_000_000, AvgVolume: 1_000_000,
	})
	assert.Equal(t, contracts.ActionSell, distribution.Action)
}

func TestFundamentalAnalyst(t *testing.T) {
	a := FundamentalAnalyst{}

	cheapGrowth := a.Analyze("APLD", contracts.MetricsSnapshot{PERatio: 18, RevenueGrowth: 0.30})
	assert.Equal(t, contracts.ActionBuy, cheapGrowth.Action)
	assert.Equal(t, 0.80, cheapGrowth.Confidence)

	unknown := a.Analyze("APLD", contracts.MetricsSnapshot{})
	assert.Equal(t, contracts.ActionHold, unknown.Action)
	assert.Equal(t, 0.50, unknown.Confidence)

	stretched := a.Analyze("APLD", contracts.MetricsSnapshot{PERatio: 90})
	assert.Equal(t, contracts.ActionTrim, stretched.Action)
}

func TestRun_PreservesPanelOrder(t *testing.T) {
	m := contracts.MetricsSnapshot{
		Price: 19, RSI: 60, High52W: 20, Low52W: 10,
		PriceChangePct: 12, Volume: 5_000_000, AvgVolume: 1_000_000,
		PERatio: 18, RevenueGrowth: 0.30,
	}

	opinions := Run(Default(), "APLD", m)

	require.Len(t, opinions, 3)
	assert.Equal(t, "technical", opinions[0].AgentID)
	assert.Equal(t, "momentum", opinions[1].AgentID)
	assert.Equal(t, "fundamental", opinions[2].AgentID)

	for _, op := range opinions {
		assert.True(t, op.Action.Valid())
		assert.GreaterOrEqual(t, op.Confidence, 0.0)
		assert.LessOrEqual(t, op.Confidence, 1.0)
	}
}

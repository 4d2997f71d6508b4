package analysts

import (
	"fmt"

	"github.com/scoutlab/scout/internal/contracts"
)

// TechnicalAnalyst votes on RSI positioning and the 52-week range.
type TechnicalAnalyst struct{}

func (TechnicalAnalyst) ID() string { return "technical" }

func (a TechnicalAnalyst) Analyze(ticker string, m contracts.MetricsSnapshot) contracts.AgentOpinion {
	position := m.RangePosition()

	action := contracts.ActionHold
	confidence := 0.50
	reasoning := fmt.Sprintf("RSI %.0f at %.0f%% of the 52-week range; no edge", m.RSI, position)

	switch {
	case m.RSI >= 52 && m.RSI <= 70 && position > 70:
		action = contracts.ActionBuy
		confidence = 0.80
		reasoning = fmt.Sprintf("Bullish RSI %.0f near the 52-week high (%.0f%% of range)", m.RSI, position)
	case m.RSI >= 45 && m.RSI < 52 && position > 55:
		action = contracts.ActionBuy
		confidence = 0.65
		reasoning = fmt.Sprintf("Neutral RSI %.0f with constructive range position (%.0f%%)", m.RSI, position)
	case m.RSI > 75:
		action = contracts.ActionTrim
		confidence = 0.70
		reasoning = fmt.Sprintf("Overbought RSI %.0f; trim into strength", m.RSI)
	case m.RSI < 30:
		action = contracts.ActionSell
		confidence = 0.60
		reasoning = fmt.Sprintf("Oversold RSI %.0f with no support from the range", m.RSI)
	}

	return contracts.AgentOpinion{AgentID: a.ID(), Action: action, Confidence: confidence, Reasoning: reasoning}
}

// MomentumAnalyst votes on price change and volume confirmation.
type MomentumAnalyst struct{}

func (MomentumAnalyst) ID() string { return "momentum" }

func (a MomentumAnalyst) Analyze(ticker string, m contracts.MetricsSnapshot) contracts.AgentOpinion {
	ratio := m.VolumeRatio()

	action := contracts.ActionHold
	confidence := 0.50
	reasoning := fmt.Sprintf("%.1f%% move on %.1fx volume; nothing actionable", m.PriceChangePct, ratio)

	switch {
	case m.PriceChangePct > 7 && ratio > 2.5:
		action = contracts.ActionBuy
		confidence = 0.85
		reasoning = fmt.Sprintf("Strong momentum: +%.1f%% on %.1fx average volume", m.PriceChangePct, ratio)
	case m.PriceChangePct > 4 && ratio > 1.8:
		action = contracts.ActionBuy
		confidence = 0.70
		reasoning = fmt.Sprintf("Building momentum: +%.1f%% on %.1fx volume", m.PriceChangePct, ratio)
	case m.PriceChangePct > 7 && ratio <= 1.2:
		action = contracts.ActionHold
		confidence = 0.55
		reasoning = fmt.Sprintf("+%.1f%% move without volume confirmation (%.1fx)", m.PriceChangePct, ratio)
	case m.PriceChangePct < -7 && ratio > 2.5:
		action = contracts.ActionSell
		confidence = 0.75
		reasoning = fmt.Sprintf("Heavy distribution: %.1f%% on %.1fx volume", m.PriceChangePct, ratio)
	}

	return contracts.AgentOpinion{AgentID: a.ID(), Action: action, Confidence: confidence, Reasoning: reasoning}
}

// FundamentalAnalyst votes on valuation and growth. Zero-valued
// fundamentals read as unknown and keep it at HOLD.
type FundamentalAnalyst struct{}

func (FundamentalAnalyst) ID() string { return "fundamental" }

func (a FundamentalAnalyst) Analyze(ticker string, m contracts.MetricsSnapshot) contracts.AgentOpinion {
	action := contracts.ActionHold
	confidence := 0.50
	reasoning := "Insufficient fundamental data"

	switch {
	case m.PERatio > 0 && m.PERatio < 25 && m.RevenueGrowth > 0.20:
		action = contracts.ActionBuy
		confidence = 0.80
		reasoning = fmt.Sprintf("Cheap growth: P/E %.1f with %.0f%% revenue growth", m.PERatio, m.RevenueGrowth*100)
	case m.PERatio > 0 && m.PERatio < 25:
		action = contracts.ActionBuy
		confidence = 0.65
		reasoning = fmt.Sprintf("Reasonable valuation at P/E %.1f", m.PERatio)
	case m.ForwardPE > 0 && m.ForwardPE < 20:
		action = contracts.ActionBuy
		confidence = 0.60
		reasoning = fmt.Sprintf("Forward P/E %.1f implies improving earnings", m.ForwardPE)
	case m.PERatio > 60:
		action = contracts.ActionTrim
		confidence = 0.60
		reasoning = fmt.Sprintf("Stretched valuation at P/E %.1f", m.PERatio)
	}

	return contracts.AgentOpinion{AgentID: a.ID(), Action: action, Confidence: confidence, Reasoning: reasoning}
}

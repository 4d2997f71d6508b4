package contracts

import (
	"encoding/json"
	"testing"
)

func TestSignalBreakdown_Total(t *testing.T) {
	s := SignalBreakdown{
		Momentum:    25,
		Technical:   25,
		Fundamental: 10,
		Sentiment:   0,
		SectorMatch: 15,
	}

	if got := s.Total(); got != 75 {
		t.Errorf("Total() = %d, want 75", got)
	}
}

func TestSignalBreakdown_WithinCaps(t *testing.T) {
	tests := []struct {
		name string
		s    SignalBreakdown
		want bool
	}{
		{"all at caps", SignalBreakdown{25, 25, 25, 10, 15}, true},
		{"all zero", SignalBreakdown{}, true},
		{"momentum over cap", SignalBreakdown{Momentum: 26}, false},
		{"sentiment over cap", SignalBreakdown{Sentiment: 11}, false},
		{"negative category", SignalBreakdown{Technical: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.WithinCaps(); got != tt.want {
				t.Errorf("WithinCaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricsSnapshot_VolumeRatio(t *testing.T) {
	m := MetricsSnapshot{Volume: 500_000, AvgVolume: 100_000}
	if got := m.VolumeRatio(); got != 5.0 {
		t.Errorf("VolumeRatio() = %v, want 5.0", got)
	}

	// Unknown average defaults to 1 (no spike)
	m = MetricsSnapshot{Volume: 500_000}
	if got := m.VolumeRatio(); got != 1.0 {
		t.Errorf("VolumeRatio() with no avg = %v, want 1.0", got)
	}
}

func TestMetricsSnapshot_RangePosition(t *testing.T) {
	m := MetricsSnapshot{Price: 19, High52W: 20, Low52W: 10}
	if got := m.RangePosition(); got != 90 {
		t.Errorf("RangePosition() = %v, want 90", got)
	}

	// Degenerate range
	m = MetricsSnapshot{Price: 10, High52W: 10, Low52W: 10}
	if got := m.RangePosition(); got != 0 {
		t.Errorf("RangePosition() with flat range = %v, want 0", got)
	}
}

func TestAction_Valid(t *testing.T) {
	for _, a := range []Action{ActionBuy, ActionSell, ActionHold, ActionAdd, ActionTrim} {
		if !a.Valid() {
			t.Errorf("Action %q should be valid", a)
		}
	}

	if Action("SHORT").Valid() {
		t.Error("Action SHORT should be invalid")
	}
}

func TestConsensusResult_Actionable(t *testing.T) {
	tests := []struct {
		name   string
		result ConsensusResult
		want   bool
	}{
		{"buy", ConsensusResult{Action: ActionBuy}, true},
		{"trim", ConsensusResult{Action: ActionTrim}, true},
		{"hold", ConsensusResult{Action: ActionHold}, false},
		{"no data", ConsensusResult{Action: ActionBuy, NoData: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Actionable(); got != tt.want {
				t.Errorf("Actionable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostureStats_WinRate(t *testing.T) {
	s := PostureStats{Wins: 3, Debates: 4}
	if got := s.WinRate(); got != 75 {
		t.Errorf("WinRate() = %v, want 75", got)
	}

	s = PostureStats{}
	if got := s.WinRate(); got != 0 {
		t.Errorf("WinRate() with no debates = %v, want 0", got)
	}
}

// The wire contract promises stable JSON keys to callers regardless of
// implementation language.
func TestOpportunity_WireKeys(t *testing.T) {
	opp := Opportunity{Ticker: "APLD", Score: 75}
	data, err := json.Marshal(opp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{
		"ticker", "score", "price", "market_cap", "sector", "signals",
		"recommendation", "target_price", "reasoning", "scanned_at",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("Opportunity JSON missing key %q", key)
		}
	}
}

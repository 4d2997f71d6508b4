package contracts

// MetricsSnapshot is a point-in-time view of a ticker's market data.
// Snapshots are fetched fresh per scan and never persisted.
//
// Fundamental fields (PERatio, ForwardPE, PriceToBook, RevenueGrowth) use
// zero to mean "unknown"; every scoring tier requires a positive value so
// unknowns simply earn no points.
type MetricsSnapshot struct {
	Price          float64 `json:"price"`
	PrevClose      float64 `json:"prev_close"`
	Volume         int64   `json:"volume"`
	AvgVolume      int64   `json:"avg_volume"`
	PriceChangePct float64 `json:"price_change_pct"`
	MarketCap      float64 `json:"market_cap"`
	Sector         string  `json:"sector"`
	PERatio        float64 `json:"pe_ratio"`
	ForwardPE      float64 `json:"forward_pe"`
	PriceToBook    float64 `json:"price_to_book"`
	RevenueGrowth  float64 `json:"revenue_growth"` // fraction, 0.20 = 20%
	RSI            float64 `json:"rsi"`            // RSI(14)
	High52W        float64 `json:"fifty_two_week_high"`
	Low52W         float64 `json:"fifty_two_week_low"`
}

// VolumeRatio returns today's volume relative to average volume.
// Returns 1 when the average is unknown.
func (m MetricsSnapshot) VolumeRatio() float64 {
	if m.AvgVolume <= 0 {
		return 1
	}
	return float64(m.Volume) / float64(m.AvgVolume)
}

// RangePosition returns where the price sits in the 52-week range as a
// percentage (0 = at the low, 100 = at the high). Returns 0 when the range
// is unknown or degenerate.
func (m MetricsSnapshot) RangePosition() float64 {
	if m.High52W <= 0 || m.Low52W <= 0 || m.High52W == m.Low52W {
		return 0
	}
	return (m.Price - m.Low52W) / (m.High52W - m.Low52W) * 100
}

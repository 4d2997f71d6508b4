package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/config"
	"github.com/scoutlab/scout/pkg/httputil"
	"github.com/scoutlab/scout/pkg/logger"
)

const rsiPeriod = 14

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Accept":     "application/json",
}

// YahooClient fetches metrics from the Yahoo Finance chart and quote APIs,
// with an HTML scrape fallback when the quote API rejects the request.
type YahooClient struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewYahooClient creates a Yahoo Finance market data provider with retry
// and rate limiting from config.
func NewYahooClient(cfg *config.Config, log *logger.Logger) *YahooClient {
	client := httputil.New(log, cfg.Market.Timeout).
		WithRetry(2, cfg.Market.Timeout/10).
		WithRateLimit(cfg.Market.RequestsPerSec, 1)

	return &YahooClient{
		httpClient: client,
		baseURL:    cfg.Market.BaseURL,
		logger:     log.WithField("module", "marketdata"),
	}
}

// GetMetrics builds a MetricsSnapshot from one year of daily candles plus
// the quote summary. Any failure is wrapped as ErrDataUnavailable.
func (c *YahooClient) GetMetrics(ctx context.Context, ticker string) (contracts.MetricsSnapshot, error) {
	var snapshot contracts.MetricsSnapshot

	chart, err := c.fetchChart(ctx, ticker)
	if err != nil {
		return snapshot, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, ticker, err)
	}

	closes, volumes := chart.series()
	if len(closes) < 2 {
		return snapshot, fmt.Errorf("%w: %s: insufficient price history", ErrDataUnavailable, ticker)
	}

	price := closes[len(closes)-1]
	prevClose := closes[len(closes)-2]

	snapshot.Price = price
	snapshot.PrevClose = prevClose
	if prevClose > 0 {
		snapshot.PriceChangePct = (price - prevClose) / prevClose * 100
	}
	if len(volumes) > 0 {
		snapshot.Volume = volumes[len(volumes)-1]
		snapshot.AvgVolume = averageVolume(volumes, 20)
	}
	snapshot.RSI = calculateRSI(closes, rsiPeriod)
	snapshot.High52W, snapshot.Low52W = rangeBounds(closes)

	// Quote summary carries the fundamentals. The scrape fallback covers
	// the common case of the JSON endpoint rejecting unauthenticated
	// requests; fundamentals stay zero-valued (unknown) if both fail.
	if err := c.fetchQuoteSummary(ctx, ticker, &snapshot); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Debug("Quote summary failed, trying scrape fallback")
		if scrapeErr := c.scrapeQuote(ctx, ticker, &snapshot); scrapeErr != nil {
			c.logger.WithError(scrapeErr).WithField("ticker", ticker).Warn("Quote scrape fallback failed")
		}
	}

	return snapshot, nil
}

// chartResponse mirrors the chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// series flattens the candle arrays, dropping null entries.
func (r *chartResponse) series() (closes []float64, volumes []int64) {
	if len(r.Chart.Result) == 0 || len(r.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := r.Chart.Result[0].Indicators.Quote[0]
	for i := range quote.Close {
		if quote.Close[i] == nil {
			continue
		}
		closes = append(closes, *quote.Close[i])
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volumes = append(volumes, *quote.Volume[i])
		} else {
			volumes = append(volumes, 0)
		}
	}
	return closes, volumes
}

// fetchChart loads one year of daily candles.
func (c *YahooClient) fetchChart(ctx context.Context, ticker string) (*chartResponse, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d",
		c.baseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, defaultHeaders)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart response: %w", err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("parse chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}

	return &chart, nil
}

// quoteSummaryResponse mirrors the quoteSummary API envelope, keeping only
// the fields the snapshot needs.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				MarketCap   rawValue `json:"marketCap"`
				TrailingPE  rawValue `json:"trailingPE"`
				ForwardPE   rawValue `json:"forwardPE"`
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			FinancialData struct {
				RevenueGrowth rawValue `json:"revenueGrowth"`
			} `json:"financialData"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// rawValue handles Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// fetchQuoteSummary populates fundamentals on the snapshot.
func (c *YahooClient) fetchQuoteSummary(ctx context.Context, ticker string, snapshot *contracts.MetricsSnapshot) error {
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,assetProfile,financialData",
		c.baseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, defaultHeaders)
	if err != nil {
		return fmt.Errorf("quote summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote summary status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read quote summary: %w", err)
	}

	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return fmt.Errorf("parse quote summary: %w", err)
	}

	if len(summary.QuoteSummary.Result) == 0 {
		return fmt.Errorf("quote summary empty for %s", ticker)
	}

	result := summary.QuoteSummary.Result[0]
	snapshot.MarketCap = result.SummaryDetail.MarketCap.Raw
	snapshot.PERatio = result.SummaryDetail.TrailingPE.Raw
	snapshot.ForwardPE = result.SummaryDetail.ForwardPE.Raw
	snapshot.PriceToBook = result.SummaryDetail.PriceToBook.Raw
	snapshot.RevenueGrowth = result.FinancialData.RevenueGrowth.Raw
	snapshot.Sector = result.AssetProfile.Sector

	return nil
}

// calculateRSI computes RSI over the final period of the series using a
// simple average of gains and losses. Returns neutral 50 when the series
// is too short.
func calculateRSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}

	recent := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(recent); i++ {
		delta := recent[i] - recent[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// averageVolume averages the most recent n entries.
func averageVolume(volumes []int64, n int) int64 {
	if len(volumes) == 0 {
		return 0
	}
	if len(volumes) < n {
		n = len(volumes)
	}

	var sum int64
	for _, v := range volumes[len(volumes)-n:] {
		sum += v
	}
	return sum / int64(n)
}

// rangeBounds returns the high and low of the series.
func rangeBounds(closes []float64) (high, low float64) {
	if len(closes) == 0 {
		return 0, 0
	}

	high, low = closes[0], closes[0]
	for _, c := range closes[1:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low
}

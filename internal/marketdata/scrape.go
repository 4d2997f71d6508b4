package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scoutlab/scout/internal/contracts"
)

// scrapeQuote fills fundamentals from the public quote page when the JSON
// API is unavailable. Best effort: fields it cannot find stay zero-valued.
func (c *YahooClient) scrapeQuote(ctx context.Context, ticker string, snapshot *contracts.MetricsSnapshot) error {
	fullURL := fmt.Sprintf("https://finance.yahoo.com/quote/%s", ticker)

	headers := map[string]string{
		"User-Agent": defaultHeaders["User-Agent"],
		"Accept":     "text/html",
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, headers)
	if err != nil {
		return fmt.Errorf("quote page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse quote page: %w", err)
	}

	// Summary table rows are keyed by data-field / data-test attributes.
	doc.Find("fin-streamer").Each(func(_ int, sel *goquery.Selection) {
		field, _ := sel.Attr("data-field")
		value, ok := sel.Attr("value")
		if !ok {
			value = strings.TrimSpace(sel.Text())
		}

		switch field {
		case "marketCap":
			if v, err := parseAbbreviated(value); err == nil {
				snapshot.MarketCap = v
			}
		case "trailingPE":
			if v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64); err == nil {
				snapshot.PERatio = v
			}
		}
	})

	// Sector lives on the profile breadcrumb when present.
	doc.Find("[data-test='asset-profile'] a, a[href*='/sector/']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			snapshot.Sector = text
			return false
		}
		return true
	})

	if snapshot.MarketCap == 0 {
		return fmt.Errorf("quote page yielded no market cap for %s", ticker)
	}

	return nil
}

// parseAbbreviated parses numbers like "1.52B", "845.3M", "12,345".
func parseAbbreviated(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("empty value")
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'T':
		multiplier = 1e12
		s = s[:len(s)-1]
	case 'B':
		multiplier = 1e9
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 'K', 'k':
		multiplier = 1e3
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}

	return v * multiplier, nil
}

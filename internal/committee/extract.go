package committee

import (
	"fmt"
	"regexp"
	"strconv"
)

// The arbiter replies in free text. We accept only a narrow grammar: the
// first integer before the word "shares" and the first signed number before
// "stop". Anything else is a parse failure and triggers the deterministic
// fallback.
var (
	sharesRe = regexp.MustCompile(`(?i)(-?\d+)\s*shares?`)
	stopRe   = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*%?\s*stop`)
)

// extractDecision parses the arbiter's reply into a share count and a
// stop-loss percent. A stated positive stop is read as a distance below the
// entry and normalized to negative.
func extractDecision(reply string) (qty int64, stopPct float64, err error) {
	sharesMatch := sharesRe.FindStringSubmatch(reply)
	if sharesMatch == nil {
		return 0, 0, fmt.Errorf("no share count in arbiter reply")
	}

	qty, err = strconv.ParseInt(sharesMatch[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse share count %q: %w", sharesMatch[1], err)
	}
	if qty < 0 {
		return 0, 0, fmt.Errorf("negative share count %d in arbiter reply", qty)
	}

	stopMatch := stopRe.FindStringSubmatch(reply)
	if stopMatch == nil {
		return 0, 0, fmt.Errorf("no stop loss in arbiter reply")
	}

	stopPct, err = strconv.ParseFloat(stopMatch[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse stop loss %q: %w", stopMatch[1], err)
	}
	if stopPct > 0 {
		stopPct = -stopPct
	}

	return qty, stopPct, nil
}

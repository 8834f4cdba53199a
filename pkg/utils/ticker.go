// Package utils holds small helpers shared by the engine, the market-data
// client and the HTTP layer: ticker normalization and calendar-date handling.
package utils

import (
	"strings"
)

// maxTickerLen bounds a symbol such as "BAJAJ-AUTO.NS" or "EURUSD=X".
const maxTickerLen = 20

// NormalizeTicker trims and upper-cases a user-supplied symbol. A leading
// "$" (cashtag) is dropped. The symbol is otherwise passed through as typed:
// exchange suffixes ("RELIANCE.NS", "VOD.L") and Yahoo share classes
// ("BRK-B") are kept.
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	return strings.TrimPrefix(t, "$")
}

// ValidTicker reports whether a normalized ticker looks like a symbol Yahoo
// could resolve. It guards URL construction, not existence.
func ValidTicker(ticker string) bool {
	if ticker == "" || len(ticker) > maxTickerLen {
		return false
	}
	if strings.HasPrefix(ticker, ".") || strings.HasSuffix(ticker, ".") || strings.Contains(ticker, "..") {
		return false
	}
	for i, r := range ticker {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '=', r == '.':
		case r == '^' && i == 0:
		default:
			return false
		}
	}
	return true
}

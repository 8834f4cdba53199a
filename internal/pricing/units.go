// Package pricing implements the closed-form Black-Scholes evaluator and the
// historical volatility estimator that every scenario is built on.
//
// Volatility and rates travel through the package as percentage points
// (40 means 40%) and time as whole calendar days. The conversion to the
// fractions the formula needs happens in exactly one place, Price.
package pricing

import (
	"strings"
	"time"

	"github.com/drawdownlabs/engine/pkg/utils"
)

// OptionType is the contract side.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType maps request text to an OptionType. Only the exact
// string "call" is a call; anything else, including "" and "CALL", prices
// as a put. Callers fill in "call" for an omitted field.
func ParseOptionType(s string) OptionType {
	if s == string(Call) {
		return Call
	}
	return Put
}

// VolPercent is an annualized volatility in percentage points.
type VolPercent float64

// Fraction returns the volatility as a plain fraction (40 -> 0.40).
func (v VolPercent) Fraction() float64 { return float64(v) / 100 }

// RatePercent is a continuously compounded annual rate in percentage points.
type RatePercent float64

// Fraction returns the rate as a plain fraction (4.5 -> 0.045).
func (r RatePercent) Fraction() float64 { return float64(r) / 100 }

// Days is a whole number of calendar days to expiry.
type Days int

// Years converts calendar days to a year fraction on a 365-day basis.
func (d Days) Years() float64 { return float64(d) / DaysPerYear }

const (
	// DefaultVolPct is used whenever historical volatility cannot be
	// estimated, and as the fixed volatility of the Greeks profile, hedging,
	// time-machine baseline and heatmap base case.
	DefaultVolPct VolPercent = 40.0

	// DefaultRatePct is the risk-free rate applied to every evaluation.
	DefaultRatePct RatePercent = 4.5

	// DefaultDays replaces an expiry that cannot be parsed.
	DefaultDays Days = 30

	// PlaceholderRho is reported in place of a computed rho.
	PlaceholderRho = 0.05

	DaysPerYear    = 365.0
	TradingPeriods = 252.0

	// ContractMultiplier is the number of shares one listed contract covers.
	ContractMultiplier = 100.0
)

// ClampDays floors a day count at 1 so no evaluation ever sees zero time.
func ClampDays(n int) Days {
	if n < 1 {
		return 1
	}
	return Days(n)
}

// DaysToExpiry converts a YYYY-MM-DD expiry into whole days from now,
// clamped to at least 1. Unparseable input yields DefaultDays.
func DaysToExpiry(expiry string, now time.Time) Days {
	exp, err := utils.ParseDate(strings.TrimSpace(expiry), now.Location())
	if err != nil {
		return DefaultDays
	}
	return ClampDays(utils.WholeDaysBetween(now, exp))
}

package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EstimateVolatility annualizes the sample standard deviation of simple
// period-over-period returns of closes (252 periods per year) and returns it
// in percentage points.
//
// Pairs with a non-positive or non-finite price are skipped. When fewer than
// two returns survive, or the result is zero or not finite, DefaultVolPct is
// returned instead.
func EstimateVolatility(closes []float64) VolPercent {
	if len(closes) < 2 {
		return DefaultVolPct
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if !finite(prev) || !finite(cur) || prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, cur/prev-1)
	}
	if len(returns) < 2 {
		return DefaultVolPct
	}

	vol := stat.StdDev(returns, nil) * math.Sqrt(TradingPeriods) * 100
	if !finite(vol) || vol == 0 {
		return DefaultVolPct
	}
	return VolPercent(vol)
}

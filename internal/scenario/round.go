package scenario

import (
	"math"

	"github.com/shopspring/decimal"
)

// Output precisions.
const (
	pricePlaces   = 2
	greekPlaces   = 3
	percentPlaces = 1
	heatPlaces    = 0
)

// round rounds half away from zero on the shortest decimal representation
// of v, so 2.675 becomes 2.68 rather than the binary-float 2.67.
// Non-finite values collapse to 0 to keep payloads serializable.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

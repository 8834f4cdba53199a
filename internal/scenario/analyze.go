package scenario

import (
	"fmt"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// AnalyzeInput prices the position at an estimated volatility and compares
// the result with a quoted market price.
type AnalyzeInput struct {
	Position
	MarketPrice float64
	Vol         pricing.VolPercent
}

// Placeholders reported when a Greek evaluates to exactly zero.
const (
	placeholderDelta = 0.5
	placeholderTheta = -0.1
	placeholderVega  = 0.2
)

// Analyze returns the model price, the percentage by which the market price
// deviates from it, and the resulting verdict. The reported delta is the
// call-side delta for puts too, like theta.
func Analyze(in AnalyzeInput) (Analysis, error) {
	res, err := in.priceAt(in.Spot, in.Vol)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	pct := PercentDiff(in.MarketPrice, res.Price)

	return Analysis{
		UnderlyingPrice:   round(in.Spot, pricePlaces),
		ModelPrice:        round(res.Price, pricePlaces),
		Verdict:           Classify(pct),
		PercentMispricing: round(pct, percentPlaces),
		VolatilityUsed:    round(float64(in.Vol), pricePlaces),
		Greeks: GreeksReport{
			Delta: round(orPlaceholder(res.Greeks.CallDelta, placeholderDelta), greekPlaces),
			Theta: round(orPlaceholder(res.Greeks.Theta, placeholderTheta), greekPlaces),
			Vega:  round(orPlaceholder(res.Greeks.Vega, placeholderVega), greekPlaces),
			Rho:   res.Greeks.Rho,
		},
	}, nil
}

// PercentDiff is (market - model) / model * 100, or 0 when the model price
// is not positive.
func PercentDiff(market, model float64) float64 {
	if model <= 0 {
		return 0
	}
	return (market - model) / model * 100
}

// Classify maps a percentage deviation onto a verdict. The band is
// exclusive: exactly +/-15% is still fairly priced.
func Classify(pct float64) Verdict {
	switch {
	case pct > verdictBandPc:
		return Expensive
	case pct < -verdictBandPc:
		return Cheap
	default:
		return FairlyPriced
	}
}

func orPlaceholder(v, placeholder float64) float64 {
	if v == 0 {
		return placeholder
	}
	return v
}

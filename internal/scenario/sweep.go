package scenario

import (
	"github.com/drawdownlabs/engine/internal/pricing"
)

// Greeks profile: 21 spot levels from 80% to 120% of spot in 2% steps.
const (
	profilePoints   = 21
	profileStartMul = 0.80
	profileStepMul  = 0.02
)

// Volatility sweep: 10% to 150% in 10-point steps.
const (
	volSweepFrom = 10
	volSweepTo   = 150
	volSweepStep = 10
)

// ProfileGreeks sweeps spot around its current level at the fixed
// DefaultVolPct, so the curve shows price sensitivity only. Delta is the
// call-side delta for both option types. Levels that fail to price are
// dropped.
func ProfileGreeks(pos Position) (GreeksProfile, error) {
	points := make([]GreeksPoint, 0, profilePoints)
	for i := 0; i < profilePoints; i++ {
		spot := pos.Spot * (profileStartMul + float64(i)*profileStepMul)
		res, err := pos.priceAt(spot, pricing.DefaultVolPct)
		if err != nil {
			continue
		}
		points = append(points, GreeksPoint{
			Price: round(spot, pricePlaces),
			Delta: round(res.Greeks.CallDelta, greekPlaces),
			Theta: round(res.Greeks.Theta, greekPlaces),
			Vega:  round(res.Greeks.Vega, greekPlaces),
		})
	}
	if len(points) == 0 {
		return GreeksProfile{}, ErrEmptySweep
	}

	return GreeksProfile{
		CurrentPrice: round(pos.Spot, pricePlaces),
		Simulation:   points,
	}, nil
}

// VolSensitivity prices the position at current spot and expiry across the
// volatility sweep. Levels that fail to price are dropped.
func VolSensitivity(pos Position) (VolSim, error) {
	points := make([]VolPoint, 0, (volSweepTo-volSweepFrom)/volSweepStep+1)
	for v := volSweepFrom; v <= volSweepTo; v += volSweepStep {
		res, err := pos.priceAt(pos.Spot, pricing.VolPercent(v))
		if err != nil {
			continue
		}
		points = append(points, VolPoint{
			Volatility:  float64(v),
			OptionPrice: round(res.Price, pricePlaces),
		})
	}
	if len(points) == 0 {
		return VolSim{}, ErrEmptySweep
	}

	return VolSim{
		UnderlyingPrice: round(pos.Spot, pricePlaces),
		Simulation:      points,
	}, nil
}

package scenario

import (
	"fmt"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// TimeInput projects the position DaysAhead days forward to a target spot
// and volatility.
type TimeInput struct {
	Position
	TargetPrice float64
	TargetVol   pricing.VolPercent
	DaysAhead   int
}

// TimeMachine values the option now (at DefaultVolPct) and at the projected
// state, and reports the per-contract P&L between the two.
func TimeMachine(in TimeInput) (TimeScenario, error) {
	now, err := in.priceAt(in.Spot, pricing.DefaultVolPct)
	if err != nil {
		return TimeScenario{}, fmt.Errorf("time machine: current: %w", err)
	}

	future, err := pricing.Price(
		in.market(in.TargetPrice, in.TargetVol),
		in.contract(FutureDays(in.Days, in.DaysAhead)),
	)
	if err != nil {
		return TimeScenario{}, fmt.Errorf("time machine: future: %w", err)
	}

	diff := future.Price - now.Price
	var pct float64
	if now.Price > 0 {
		pct = diff / now.Price * 100
	}

	return TimeScenario{
		CurrentPrice:  round(now.Price, pricePlaces),
		FuturePrice:   round(future.Price, pricePlaces),
		PL:            round(diff*pricing.ContractMultiplier, pricePlaces),
		PercentChange: round(pct, percentPlaces),
	}, nil
}

// FutureDays is the days to expiry remaining after ahead days pass,
// never less than one.
func FutureDays(now pricing.Days, ahead int) pricing.Days {
	return pricing.ClampDays(int(now) - ahead)
}

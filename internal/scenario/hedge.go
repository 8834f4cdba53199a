package scenario

import (
	"fmt"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// Hedge sweep: from +5% above entry down to -20% in 20 equal intervals.
const (
	hedgeStartMul  = 1.05
	hedgeEndMul    = 0.80
	hedgeIntervals = 20
)

// HedgeInput is a long stock position protected by one put contract struck
// at Strike. Position.Type is ignored: the hedge is always a put.
type HedgeInput struct {
	Position
	Shares int
}

// Hedge simulates a falling stock price and reports the stock P&L with and
// without the protective put, valued at the fixed DefaultVolPct.
func Hedge(in HedgeInput) (Hedging, error) {
	put := in.Position
	put.Type = pricing.Put

	entry, err := put.priceAt(in.Spot, pricing.DefaultVolPct)
	if err != nil {
		return Hedging{}, fmt.Errorf("hedge: entry put: %w", err)
	}

	start := in.Spot * hedgeStartMul
	end := in.Spot * hedgeEndMul
	step := (end - start) / hedgeIntervals

	points := make([]HedgePoint, 0, hedgeIntervals+1)
	for i := 0; i <= hedgeIntervals; i++ {
		sim := start + float64(i)*step
		res, err := put.priceAt(sim, pricing.DefaultVolPct)
		if err != nil {
			continue
		}
		stockPL := (sim - in.Spot) * float64(in.Shares)
		putPL := (res.Price - entry.Price) * pricing.ContractMultiplier
		points = append(points, HedgePoint{
			StockPrice: round(sim, pricePlaces),
			UnhedgedPL: round(stockPL, pricePlaces),
			HedgedPL:   round(stockPL+putPL, pricePlaces),
		})
	}
	if len(points) == 0 {
		return Hedging{}, ErrEmptySweep
	}

	return Hedging{
		EntryPrice:     round(in.Spot, pricePlaces),
		ProtectionCost: round(entry.Price*pricing.ContractMultiplier, pricePlaces),
		Simulation:     points,
	}, nil
}

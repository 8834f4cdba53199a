package scenario

import (
	"fmt"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// Heatmap grid: volatility rows 30..50 step 5, price columns at fixed
// multiples of spot.
const (
	heatVolFrom = 30
	heatVolTo   = 50
	heatVolStep = 5
)

var heatPriceMultipliers = [...]float64{0.90, 0.95, 1.00, 1.05, 1.10}

// Heatmap reports the per-contract P&L of repricing the position across the
// volatility/price grid, relative to the base case of current spot at
// DefaultVolPct. Any failed cell fails the whole map.
func Heatmap(pos Position) (HeatmapResult, error) {
	base, err := pos.priceAt(pos.Spot, pricing.DefaultVolPct)
	if err != nil {
		return HeatmapResult{}, fmt.Errorf("heatmap: base: %w", err)
	}

	matrix := make([][]HeatCell, 0, (heatVolTo-heatVolFrom)/heatVolStep+1)
	for vol := heatVolFrom; vol <= heatVolTo; vol += heatVolStep {
		row := make([]HeatCell, 0, len(heatPriceMultipliers))
		for _, mul := range heatPriceMultipliers {
			sim := pos.Spot * mul
			res, err := pos.priceAt(sim, pricing.VolPercent(vol))
			if err != nil {
				return HeatmapResult{}, fmt.Errorf("heatmap: cell vol=%d mul=%.2f: %w", vol, mul, err)
			}
			row = append(row, HeatCell{
				StockPrice: round(sim, pricePlaces),
				Vol:        float64(vol),
				PL:         round((res.Price-base.Price)*pricing.ContractMultiplier, heatPlaces),
			})
		}
		matrix = append(matrix, row)
	}

	return HeatmapResult{
		Matrix:    matrix,
		BasePrice: round(base.Price, pricePlaces),
	}, nil
}

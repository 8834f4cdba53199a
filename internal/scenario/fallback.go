package scenario

import (
	"math"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// The Fallback* generators produce deterministic demo output with the same
// shape as the real procedures. They never price anything and never fail.

// Reference levels for the demo outputs.
const (
	FallbackSpot        = 100.0
	fallbackModelPrice  = 5.50
	fallbackOptionPrice = 5.00
	fallbackTargetBase  = 400.0
	fallbackProtection  = 250.0
	fallbackPctChange   = 15.5
	fallbackPutPremium  = -200.0
)

// FallbackAnalysis is a fairly priced at-the-money option at DefaultVolPct.
func FallbackAnalysis() Analysis {
	return Analysis{
		UnderlyingPrice:   FallbackSpot,
		ModelPrice:        fallbackModelPrice,
		Verdict:           FairlyPriced,
		PercentMispricing: 0,
		VolatilityUsed:    float64(pricing.DefaultVolPct),
		Greeks: GreeksReport{
			Delta: placeholderDelta,
			Theta: placeholderTheta,
			Vega:  placeholderVega,
			Rho:   pricing.PlaceholderRho,
		},
	}
}

// FallbackGreeks draws a sigmoid delta, linear theta and bell-shaped vega
// over the same 21 spot levels as ProfileGreeks.
func FallbackGreeks(current float64) GreeksProfile {
	start := current * profileStartMul
	end := current * (profileStartMul + (profilePoints-1)*profileStepMul)

	points := make([]GreeksPoint, 0, profilePoints)
	for i := 0; i < profilePoints; i++ {
		norm := float64(i) / (profilePoints - 1)
		points = append(points, GreeksPoint{
			Price: round(start+norm*(end-start), pricePlaces),
			Delta: round(1/(1+math.Exp(-10*(norm-0.5))), pricePlaces),
			Theta: round(-0.05-0.1*norm, pricePlaces),
			Vega:  round(0.2*math.Exp(-5*(norm-0.5)*(norm-0.5)), pricePlaces),
		})
	}

	return GreeksProfile{CurrentPrice: current, Simulation: points}
}

// FallbackVolSim is a straight line in volatility.
func FallbackVolSim(current float64) VolSim {
	points := make([]VolPoint, 0, (volSweepTo-volSweepFrom)/volSweepStep+1)
	for v := volSweepFrom; v <= volSweepTo; v += volSweepStep {
		points = append(points, VolPoint{
			Volatility:  float64(v),
			OptionPrice: round(current*0.05+float64(v)*0.1, pricePlaces),
		})
	}

	return VolSim{UnderlyingPrice: current, Simulation: points}
}

// FallbackHedging models a put that pays off linearly below 98% of entry.
// Above entry the hedge costs a flat premium.
func FallbackHedging(entry float64) Hedging {
	start := entry * hedgeStartMul
	end := entry * hedgeEndMul
	step := (end - start) / hedgeIntervals

	points := make([]HedgePoint, 0, hedgeIntervals+1)
	for i := 0; i <= hedgeIntervals; i++ {
		sim := start + float64(i)*step
		stockPL := (sim - entry) * pricing.ContractMultiplier
		putGain := fallbackPutPremium
		if sim < entry {
			putGain = math.Max(0, (entry*0.98-sim)*pricing.ContractMultiplier)
		}
		points = append(points, HedgePoint{
			StockPrice: round(sim, pricePlaces),
			UnhedgedPL: round(stockPL, pricePlaces),
			HedgedPL:   round(stockPL+putGain, pricePlaces),
		})
	}

	return Hedging{
		EntryPrice:     entry,
		ProtectionCost: fallbackProtection,
		Simulation:     points,
	}
}

// FallbackTimeMachine moves a 5.00 option linearly with the target price
// and volatility.
func FallbackTimeMachine(targetPrice float64, targetVol pricing.VolPercent) TimeScenario {
	now := fallbackOptionPrice
	future := now + (targetPrice-fallbackTargetBase)*0.05 + float64(targetVol-pricing.DefaultVolPct)*0.1

	return TimeScenario{
		CurrentPrice:  round(now, pricePlaces),
		FuturePrice:   round(future, pricePlaces),
		PL:            round((future-now)*pricing.ContractMultiplier, pricePlaces),
		PercentChange: fallbackPctChange,
	}
}

// FallbackHeatmap is a plane through zero at the centre cell, over a
// 100.00 spot.
func FallbackHeatmap() HeatmapResult {
	matrix := make([][]HeatCell, 0, (heatVolTo-heatVolFrom)/heatVolStep+1)
	for vol := heatVolFrom; vol <= heatVolTo; vol += heatVolStep {
		row := make([]HeatCell, 0, len(heatPriceMultipliers))
		for i, mul := range heatPriceMultipliers {
			row = append(row, HeatCell{
				StockPrice: round(FallbackSpot*mul, pricePlaces),
				Vol:        float64(vol),
				PL:         float64((i-2)*50 + (vol-40)*10),
			})
		}
		matrix = append(matrix, row)
	}

	return HeatmapResult{Matrix: matrix, BasePrice: fallbackOptionPrice}
}

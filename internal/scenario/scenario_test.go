package scenario

import (
	"errors"
	"math"
	"testing"

	"github.com/drawdownlabs/engine/internal/pricing"
)

func atm(typ pricing.OptionType) Position {
	return Position{Spot: 100, Strike: 100, Days: 30, Type: typ, Rate: pricing.DefaultRatePct}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pct  float64
		want Verdict
	}{
		{20, Expensive},
		{15.01, Expensive},
		{15, FairlyPriced},
		{0, FairlyPriced},
		{-15, FairlyPriced},
		{-15.01, Cheap},
		{-60, Cheap},
	}
	for _, tt := range tests {
		if got := Classify(tt.pct); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestPercentDiff(t *testing.T) {
	if got := PercentDiff(6, 5); math.Abs(got-20) > 1e-9 {
		t.Errorf("PercentDiff(6, 5) = %v, want 20", got)
	}
	if got := PercentDiff(6, 0); got != 0 {
		t.Errorf("PercentDiff with zero model price = %v, want 0", got)
	}
	if Classify(PercentDiff(6, 5)) != Expensive {
		t.Error("market 6.00 over model 5.00 should be EXPENSIVE")
	}
}

func TestAnalyze(t *testing.T) {
	in := AnalyzeInput{
		Position:    Position{Spot: 100, Strike: 100, Days: 365, Type: pricing.Call, Rate: 5},
		MarketPrice: 10.45,
		Vol:         20,
	}
	got, err := Analyze(in)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.ModelPrice != 10.45 {
		t.Errorf("ModelPrice = %v, want 10.45", got.ModelPrice)
	}
	if got.Verdict != FairlyPriced {
		t.Errorf("Verdict = %q, want FAIRLY PRICED", got.Verdict)
	}
	if got.PercentMispricing != 0 {
		t.Errorf("PercentMispricing = %v, want 0", got.PercentMispricing)
	}
	if got.VolatilityUsed != 20 {
		t.Errorf("VolatilityUsed = %v, want 20", got.VolatilityUsed)
	}
	want := GreeksReport{Delta: 0.637, Theta: -0.018, Vega: 0.375, Rho: pricing.PlaceholderRho}
	if got.Greeks != want {
		t.Errorf("Greeks = %+v, want %+v", got.Greeks, want)
	}

	in.Type = pricing.Put
	in.MarketPrice = 8
	put, err := Analyze(in)
	if err != nil {
		t.Fatalf("Analyze put: %v", err)
	}
	if put.Greeks.Delta != 0.637 {
		t.Errorf("put delta = %v, want call-side 0.637", put.Greeks.Delta)
	}
	if put.Verdict != Expensive {
		t.Errorf("put at 8.00 vs model 5.57: verdict = %q, want EXPENSIVE", put.Verdict)
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	in := AnalyzeInput{Position: atm(pricing.Call), MarketPrice: 5, Vol: 40}
	in.Spot = 0
	if _, err := Analyze(in); !errors.Is(err, pricing.ErrDegenerateInput) {
		t.Fatalf("Analyze with zero spot: err = %v, want ErrDegenerateInput", err)
	}
}

func TestProfileGreeks(t *testing.T) {
	got, err := ProfileGreeks(atm(pricing.Call))
	if err != nil {
		t.Fatalf("ProfileGreeks: %v", err)
	}
	if len(got.Simulation) != 21 {
		t.Fatalf("points = %d, want 21", len(got.Simulation))
	}
	if got.CurrentPrice != 100 {
		t.Errorf("CurrentPrice = %v, want 100", got.CurrentPrice)
	}
	if first, last := got.Simulation[0].Price, got.Simulation[20].Price; first != 80 || last != 120 {
		t.Errorf("spot range = [%v, %v], want [80, 120]", first, last)
	}
	if mid := got.Simulation[10].Price; mid != 100 {
		t.Errorf("middle spot = %v, want 100", mid)
	}
	for i := 1; i < len(got.Simulation); i++ {
		if got.Simulation[i].Delta < got.Simulation[i-1].Delta {
			t.Errorf("call delta decreased between %v and %v", got.Simulation[i-1].Price, got.Simulation[i].Price)
		}
	}
	for _, p := range got.Simulation {
		if p.Delta < 0 || p.Delta > 1 || p.Vega < 0 {
			t.Errorf("out-of-range Greeks at %v: %+v", p.Price, p)
		}
	}
}

func TestProfileGreeksPutReportsCallDelta(t *testing.T) {
	put, err := ProfileGreeks(atm(pricing.Put))
	if err != nil {
		t.Fatalf("ProfileGreeks put: %v", err)
	}
	call, err := ProfileGreeks(atm(pricing.Call))
	if err != nil {
		t.Fatalf("ProfileGreeks call: %v", err)
	}
	if put.Simulation[10].Delta != 0.536 {
		t.Errorf("put delta at spot = %v, want 0.536", put.Simulation[10].Delta)
	}
	for i := range put.Simulation {
		if put.Simulation[i] != call.Simulation[i] {
			t.Errorf("point %d: put %+v, call %+v", i, put.Simulation[i], call.Simulation[i])
		}
	}
}

func TestSweepsEmpty(t *testing.T) {
	pos := atm(pricing.Call)
	pos.Spot = 0
	if _, err := ProfileGreeks(pos); !errors.Is(err, ErrEmptySweep) {
		t.Errorf("ProfileGreeks with zero spot: err = %v, want ErrEmptySweep", err)
	}

	pos = atm(pricing.Call)
	pos.Strike = -1
	if _, err := VolSensitivity(pos); !errors.Is(err, ErrEmptySweep) {
		t.Errorf("VolSensitivity with negative strike: err = %v, want ErrEmptySweep", err)
	}
}

func TestVolSensitivity(t *testing.T) {
	got, err := VolSensitivity(atm(pricing.Call))
	if err != nil {
		t.Fatalf("VolSensitivity: %v", err)
	}
	if len(got.Simulation) != 15 {
		t.Fatalf("points = %d, want 15", len(got.Simulation))
	}
	for i, p := range got.Simulation {
		if want := float64(10 + 10*i); p.Volatility != want {
			t.Errorf("point %d volatility = %v, want %v", i, p.Volatility, want)
		}
		if i > 0 && p.OptionPrice < got.Simulation[i-1].OptionPrice {
			t.Errorf("price fell from %v to %v as vol rose", got.Simulation[i-1].OptionPrice, p.OptionPrice)
		}
	}
	if got.UnderlyingPrice != 100 {
		t.Errorf("UnderlyingPrice = %v, want 100", got.UnderlyingPrice)
	}
}

func TestHedge(t *testing.T) {
	got, err := Hedge(HedgeInput{Position: atm(pricing.Call), Shares: 100})
	if err != nil {
		t.Fatalf("Hedge: %v", err)
	}
	if len(got.Simulation) != 21 {
		t.Fatalf("points = %d, want 21", len(got.Simulation))
	}
	if got.EntryPrice != 100 {
		t.Errorf("EntryPrice = %v, want 100", got.EntryPrice)
	}
	if got.ProtectionCost <= 0 {
		t.Errorf("ProtectionCost = %v, want > 0", got.ProtectionCost)
	}

	first, last := got.Simulation[0], got.Simulation[20]
	if first.StockPrice != 105 || last.StockPrice != 80 {
		t.Errorf("stock range = [%v, %v], want [105, 80]", first.StockPrice, last.StockPrice)
	}

	at95 := got.Simulation[8]
	if at95.StockPrice != 95 || at95.UnhedgedPL != -500 {
		t.Errorf("point 8 = %+v, want stock 95 with unhedged -500", at95)
	}

	atEntry := got.Simulation[4]
	if atEntry.UnhedgedPL != 0 || atEntry.HedgedPL != 0 {
		t.Errorf("at entry price = %+v, want zero P&L both ways", atEntry)
	}

	if last.HedgedPL <= last.UnhedgedPL {
		t.Errorf("at 80: hedged %v should beat unhedged %v", last.HedgedPL, last.UnhedgedPL)
	}
	if first.HedgedPL >= first.UnhedgedPL {
		t.Errorf("at 105: hedged %v should trail unhedged %v", first.HedgedPL, first.UnhedgedPL)
	}
}

func TestHedgeIgnoresOptionType(t *testing.T) {
	calls, err := Hedge(HedgeInput{Position: atm(pricing.Call), Shares: 100})
	if err != nil {
		t.Fatal(err)
	}
	puts, err := Hedge(HedgeInput{Position: atm(pricing.Put), Shares: 100})
	if err != nil {
		t.Fatal(err)
	}
	if calls.ProtectionCost != puts.ProtectionCost {
		t.Errorf("protection cost differs by option type: %v vs %v", calls.ProtectionCost, puts.ProtectionCost)
	}
}

func TestFutureDays(t *testing.T) {
	tests := []struct {
		now   pricing.Days
		ahead int
		want  pricing.Days
	}{
		{30, 40, 1},
		{30, 30, 1},
		{30, 10, 20},
		{30, 0, 30},
	}
	for _, tt := range tests {
		if got := FutureDays(tt.now, tt.ahead); got != tt.want {
			t.Errorf("FutureDays(%d, %d) = %d, want %d", tt.now, tt.ahead, got, tt.want)
		}
	}
}

func TestTimeMachine(t *testing.T) {
	flat, err := TimeMachine(TimeInput{Position: atm(pricing.Call), TargetPrice: 100, TargetVol: 40})
	if err != nil {
		t.Fatalf("TimeMachine: %v", err)
	}
	if flat.CurrentPrice != flat.FuturePrice || flat.PL != 0 || flat.PercentChange != 0 {
		t.Errorf("no change in inputs should give no change in value: %+v", flat)
	}

	decay, err := TimeMachine(TimeInput{Position: atm(pricing.Call), TargetPrice: 100, TargetVol: 40, DaysAhead: 10})
	if err != nil {
		t.Fatalf("TimeMachine: %v", err)
	}
	if decay.PL >= 0 || decay.PercentChange >= 0 {
		t.Errorf("ten days of decay should lose value: %+v", decay)
	}

	rally, err := TimeMachine(TimeInput{Position: atm(pricing.Call), TargetPrice: 120, TargetVol: 40, DaysAhead: 40})
	if err != nil {
		t.Fatalf("TimeMachine: %v", err)
	}
	if rally.FuturePrice < 19.99 {
		t.Errorf("call 20 in the money with a day left = %v, want about 20", rally.FuturePrice)
	}
}

func TestHeatmap(t *testing.T) {
	got, err := Heatmap(atm(pricing.Call))
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	if len(got.Matrix) != 5 {
		t.Fatalf("rows = %d, want 5", len(got.Matrix))
	}

	vols := []float64{30, 35, 40, 45, 50}
	prices := []float64{90, 95, 100, 105, 110}
	for r, row := range got.Matrix {
		if len(row) != 5 {
			t.Fatalf("row %d has %d cells, want 5", r, len(row))
		}
		for c, cell := range row {
			if cell.Vol != vols[r] || cell.StockPrice != prices[c] {
				t.Errorf("cell [%d][%d] = %+v, want vol %v price %v", r, c, cell, vols[r], prices[c])
			}
			if cell.PL != math.Trunc(cell.PL) {
				t.Errorf("cell [%d][%d] P&L %v is not whole", r, c, cell.PL)
			}
			if c > 0 && cell.PL < row[c-1].PL {
				t.Errorf("call P&L fell with spot in row %d", r)
			}
		}
	}
	if center := got.Matrix[2][2]; center.PL != 0 {
		t.Errorf("centre cell P&L = %v, want 0", center.PL)
	}
	if got.BasePrice <= 0 {
		t.Errorf("BasePrice = %v, want > 0", got.BasePrice)
	}
}

func TestHeatmapFailsAsUnit(t *testing.T) {
	pos := atm(pricing.Call)
	pos.Strike = 0
	if _, err := Heatmap(pos); !errors.Is(err, pricing.ErrDegenerateInput) {
		t.Fatalf("Heatmap with zero strike: err = %v, want ErrDegenerateInput", err)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{5.45, 1, 5.5},
		{-5.45, 1, -5.5},
		{2.345, 0, 2},
		{10.450583572185565, 2, 10.45},
		{math.NaN(), 2, 0},
		{math.Inf(1), 2, 0},
	}
	for _, tt := range tests {
		if got := round(tt.v, tt.places); got != tt.want {
			t.Errorf("round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestFallbackShapes(t *testing.T) {
	greeks := FallbackGreeks(FallbackSpot)
	if len(greeks.Simulation) != 21 {
		t.Errorf("fallback greeks points = %d, want 21", len(greeks.Simulation))
	}
	if p := greeks.Simulation; p[0].Price != 80 || p[20].Price != 120 || p[10].Delta != 0.5 {
		t.Errorf("fallback greeks endpoints = %+v .. %+v", p[0], p[20])
	}

	vol := FallbackVolSim(FallbackSpot)
	if len(vol.Simulation) != 15 || vol.Simulation[0].OptionPrice != 6 || vol.Simulation[14].OptionPrice != 20 {
		t.Errorf("fallback vol sim = %+v", vol.Simulation)
	}

	hedge := FallbackHedging(FallbackSpot)
	if len(hedge.Simulation) != 21 {
		t.Fatalf("fallback hedging points = %d, want 21", len(hedge.Simulation))
	}
	if p := hedge.Simulation[0]; p.StockPrice != 105 || p.UnhedgedPL != 500 || p.HedgedPL != 300 {
		t.Errorf("fallback hedging first point = %+v", p)
	}
	if p := hedge.Simulation[20]; p.StockPrice != 80 || p.UnhedgedPL != -2000 || p.HedgedPL != -200 {
		t.Errorf("fallback hedging last point = %+v", p)
	}

	heat := FallbackHeatmap()
	if len(heat.Matrix) != 5 || len(heat.Matrix[0]) != 5 {
		t.Fatalf("fallback heatmap is %dx%d, want 5x5", len(heat.Matrix), len(heat.Matrix[0]))
	}
	if heat.Matrix[2][2].PL != 0 || heat.Matrix[0][0].PL != -200 || heat.Matrix[4][4].PL != 200 {
		t.Errorf("fallback heatmap corners/centre wrong: %+v", heat.Matrix)
	}
	if heat.Matrix[0][4].StockPrice != 110 {
		t.Errorf("fallback heatmap price column = %v, want 110", heat.Matrix[0][4].StockPrice)
	}
}

func TestFallbackTimeMachine(t *testing.T) {
	flat := FallbackTimeMachine(400, 40)
	if flat.FuturePrice != 5 || flat.PL != 0 || flat.PercentChange != 15.5 {
		t.Errorf("FallbackTimeMachine(400, 40) = %+v", flat)
	}
	up := FallbackTimeMachine(420, 50)
	if up.FuturePrice != 7 || up.PL != 200 {
		t.Errorf("FallbackTimeMachine(420, 50) = %+v, want future 7 and pl 200", up)
	}
}

func TestFallbackAnalysis(t *testing.T) {
	got := FallbackAnalysis()
	if got.Verdict != FairlyPriced || got.ModelPrice != 5.5 || got.VolatilityUsed != 40 {
		t.Errorf("FallbackAnalysis = %+v", got)
	}
	if got.Greeks != (GreeksReport{Delta: 0.5, Theta: -0.1, Vega: 0.2, Rho: 0.05}) {
		t.Errorf("FallbackAnalysis greeks = %+v", got.Greeks)
	}
}

// Package scenario composes the Black-Scholes evaluator into the six risk
// views served to the charting clients: the mispricing verdict, the Greeks
// profile, volatility sensitivity, the protective-put hedge, the time machine
// and the price/volatility heatmap.
//
// Every procedure is a pure function of its input. Procedures return an
// error when the evaluation cannot be completed; choosing synthetic data in
// that case is the caller's decision (see the Fallback* generators).
package scenario

import (
	"errors"

	"github.com/drawdownlabs/engine/internal/pricing"
)

// ErrEmptySweep is returned when every point of a sweep failed to price.
var ErrEmptySweep = errors.New("sweep produced no points")

// Position holds the inputs shared by all procedures. Spot is the current
// underlying price (the entry price for the hedge).
type Position struct {
	Spot   float64
	Strike float64
	Days   pricing.Days
	Type   pricing.OptionType
	Rate   pricing.RatePercent
}

func (p Position) market(spot float64, vol pricing.VolPercent) pricing.Market {
	return pricing.Market{Spot: spot, Vol: vol, Rate: p.Rate}
}

func (p Position) contract(days pricing.Days) pricing.Contract {
	return pricing.Contract{Strike: p.Strike, Days: days, Type: p.Type}
}

// priceAt evaluates the position's contract at a given spot and volatility.
func (p Position) priceAt(spot float64, vol pricing.VolPercent) (pricing.Result, error) {
	return pricing.Price(p.market(spot, vol), p.contract(p.Days))
}

// Verdict classifies a market price against the model price.
type Verdict string

const (
	Expensive     Verdict = "EXPENSIVE"
	Cheap         Verdict = "CHEAP"
	FairlyPriced  Verdict = "FAIRLY PRICED"
	verdictBandPc         = 15.0
)

// GreeksReport is the Greeks block of an Analysis.
type GreeksReport struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Analysis is the single-option mispricing check.
type Analysis struct {
	UnderlyingPrice   float64      `json:"underlying_price"`
	ModelPrice        float64      `json:"model_price"`
	Verdict           Verdict      `json:"verdict"`
	PercentMispricing float64      `json:"percent_mispricing"`
	VolatilityUsed    float64      `json:"volatility_used"`
	Greeks            GreeksReport `json:"greeks"`
}

// GreeksPoint is one spot level of the Greeks profile.
type GreeksPoint struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// GreeksProfile is the Greeks-vs-spot sweep.
type GreeksProfile struct {
	CurrentPrice float64       `json:"current_price"`
	Simulation   []GreeksPoint `json:"simulation"`
}

// VolPoint is one volatility level of the sensitivity sweep.
type VolPoint struct {
	Volatility  float64 `json:"volatility"`
	OptionPrice float64 `json:"option_price"`
}

// VolSim is the volatility sensitivity sweep.
type VolSim struct {
	UnderlyingPrice float64    `json:"underlying_price"`
	Simulation      []VolPoint `json:"simulation"`
}

// HedgePoint is one simulated stock price of the hedge.
type HedgePoint struct {
	StockPrice float64 `json:"stock_price"`
	UnhedgedPL float64 `json:"unhedged_pl"`
	HedgedPL   float64 `json:"hedged_pl"`
}

// Hedging compares a stock position with and without one protective put.
type Hedging struct {
	EntryPrice     float64      `json:"entry_price"`
	ProtectionCost float64      `json:"protection_cost"`
	Simulation     []HedgePoint `json:"simulation"`
}

// TimeScenario is the current vs. projected option value.
type TimeScenario struct {
	CurrentPrice  float64 `json:"current_price"`
	FuturePrice   float64 `json:"future_price"`
	PL            float64 `json:"pl"`
	PercentChange float64 `json:"percent_change"`
}

// HeatCell is one (volatility, price) cell of the heatmap.
type HeatCell struct {
	StockPrice float64 `json:"stock_price"`
	Vol        float64 `json:"vol"`
	PL         float64 `json:"pl"`
}

// HeatmapResult is indexed Matrix[volRow][priceCol].
type HeatmapResult struct {
	Matrix    [][]HeatCell `json:"matrix"`
	BasePrice float64      `json:"base_price"`
}

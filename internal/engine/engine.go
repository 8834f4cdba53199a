// Package engine joins market data to the pricing core. Each method fetches
// what its procedure needs, runs it, and falls back to demo data when either
// step fails, so callers always get something to render.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/drawdownlabs/engine/internal/infra"
	"github.com/drawdownlabs/engine/internal/marketdata"
	"github.com/drawdownlabs/engine/internal/pricing"
	"github.com/drawdownlabs/engine/internal/scenario"
	"github.com/drawdownlabs/engine/pkg/models"
	"github.com/drawdownlabs/engine/pkg/utils"
)

// Options tunes the engine.
type Options struct {
	// RatePct is the risk-free rate used by every evaluation.
	RatePct pricing.RatePercent
	// FetchTimeout bounds each market data call. Zero means no extra bound.
	FetchTimeout time.Duration
}

// DefaultOptions uses the standard rate and a 10 second fetch bound.
func DefaultOptions() Options {
	return Options{RatePct: pricing.DefaultRatePct, FetchTimeout: 10 * time.Second}
}

// Engine serves the scenario procedures over live market data.
type Engine struct {
	src  marketdata.Source
	opts Options
	log  *slog.Logger
	now  func() time.Time
}

// New creates an Engine. A nil logger discards output.
func New(src marketdata.Source, opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = infra.NopLogger()
	}
	return &Engine{src: src, opts: opts, log: log, now: time.Now}
}

// Request carries the inputs shared by the scenario endpoints.
type Request struct {
	Ticker      string  `json:"ticker"`
	Strike      float64 `json:"strike"`
	Expiry      string  `json:"expiry"`
	OptionType  string  `json:"option_type"`
	MarketPrice float64 `json:"market_price"`
	Shares      int     `json:"shares"`
	TargetPrice float64 `json:"target_price"`
	TargetVol   float64 `json:"target_vol"`
	DaysAhead   int     `json:"days_ahead"`
}

// DefaultRequest holds the values used for fields a client omits.
func DefaultRequest() Request {
	return Request{OptionType: string(pricing.Call), Shares: 100}
}

// StockDetails is the price chart and listed expiries of one ticker.
type StockDetails struct {
	CurrentPrice float64             `json:"current_price"`
	ChartData    []models.ChartPoint `json:"chart_data"`
	Expirations  []string            `json:"expirations"`
}

// ChainView is the option chain as served to clients.
type ChainView struct {
	Calls []models.OptionQuote `json:"calls"`
	Puts  []models.OptionQuote `json:"puts"`
}

// FallbackStock is the demo chart served when history is unavailable.
func FallbackStock() StockDetails {
	return StockDetails{
		CurrentPrice: 450,
		ChartData: []models.ChartPoint{
			{Date: "2024-01-01", Price: 400},
			{Date: "2024-06-01", Price: 450},
		},
		Expirations: []string{"2025-06-20", "2025-07-18", "2025-08-15"},
	}
}

// Stock fetches a year of closes and the listed expiries concurrently.
func (e *Engine) Stock(ctx context.Context, ticker string) Outcome[StockDetails] {
	ctx, cancel := e.fetchContext(ctx)
	defer cancel()

	var (
		bars     []models.OHLCV
		expiries []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bars, err = e.src.History(gctx, ticker, marketdata.Range1Year)
		return err
	})
	g.Go(func() error {
		var err error
		expiries, err = e.src.Expirations(gctx, ticker)
		return err
	})
	if err := g.Wait(); err != nil {
		return fallback(e.log, "stock", ticker, err, FallbackStock())
	}

	last, ok := models.LastClose(bars)
	if !ok {
		return fallback(e.log, "stock", ticker, marketdata.ErrNoData, FallbackStock())
	}

	points := make([]models.ChartPoint, 0, len(bars))
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		points = append(points, models.ChartPoint{Date: utils.FormatDate(b.Timestamp), Price: b.Close})
	}
	if expiries == nil {
		expiries = []string{}
	}

	return live(StockDetails{
		CurrentPrice: decimal.NewFromFloat(last).Round(2).InexactFloat64(),
		ChartData:    points,
		Expirations:  expiries,
	})
}

// Chain returns the calls and puts for one expiry, or empty lists.
func (e *Engine) Chain(ctx context.Context, ticker, expiry string) Outcome[ChainView] {
	ctx, cancel := e.fetchContext(ctx)
	defer cancel()

	chain, err := e.src.OptionChain(ctx, ticker, expiry)
	if err != nil {
		return fallback(e.log, "chain", ticker, err, ChainView{
			Calls: []models.OptionQuote{},
			Puts:  []models.OptionQuote{},
		})
	}
	view := ChainView{Calls: chain.Calls, Puts: chain.Puts}
	if view.Calls == nil {
		view.Calls = []models.OptionQuote{}
	}
	if view.Puts == nil {
		view.Puts = []models.OptionQuote{}
	}
	return live(view)
}

// Analyze prices the option at the volatility estimated from a month of
// closes and compares it with req.MarketPrice.
func (e *Engine) Analyze(ctx context.Context, req Request) Outcome[scenario.Analysis] {
	pos, closes, err := e.position(ctx, req, marketdata.Range1Month)
	if err != nil {
		return fallback(e.log, "analyze", req.Ticker, err, scenario.FallbackAnalysis())
	}

	res, err := scenario.Analyze(scenario.AnalyzeInput{
		Position:    pos,
		MarketPrice: req.MarketPrice,
		Vol:         pricing.EstimateVolatility(closes),
	})
	if err != nil {
		return fallback(e.log, "analyze", req.Ticker, err, scenario.FallbackAnalysis())
	}
	return live(res)
}

// GreeksProfile sweeps the Greeks around the latest close.
func (e *Engine) GreeksProfile(ctx context.Context, req Request) Outcome[scenario.GreeksProfile] {
	alt := func() scenario.GreeksProfile { return scenario.FallbackGreeks(scenario.FallbackSpot) }

	pos, _, err := e.position(ctx, req, marketdata.Range1Month)
	if err != nil {
		return fallback(e.log, "greeks-profile", req.Ticker, err, alt())
	}
	res, err := scenario.ProfileGreeks(pos)
	if err != nil {
		return fallback(e.log, "greeks-profile", req.Ticker, err, alt())
	}
	return live(res)
}

// VolSim prices the option across the volatility sweep.
func (e *Engine) VolSim(ctx context.Context, req Request) Outcome[scenario.VolSim] {
	alt := func() scenario.VolSim { return scenario.FallbackVolSim(scenario.FallbackSpot) }

	pos, _, err := e.position(ctx, req, marketdata.Range1Day)
	if err != nil {
		return fallback(e.log, "vol-sim", req.Ticker, err, alt())
	}
	res, err := scenario.VolSensitivity(pos)
	if err != nil {
		return fallback(e.log, "vol-sim", req.Ticker, err, alt())
	}
	return live(res)
}

// Hedging simulates req.Shares of stock protected by one put at req.Strike.
func (e *Engine) Hedging(ctx context.Context, req Request) Outcome[scenario.Hedging] {
	alt := func() scenario.Hedging { return scenario.FallbackHedging(scenario.FallbackSpot) }

	pos, _, err := e.position(ctx, req, marketdata.Range1Day)
	if err != nil {
		return fallback(e.log, "hedging", req.Ticker, err, alt())
	}
	res, err := scenario.Hedge(scenario.HedgeInput{Position: pos, Shares: req.Shares})
	if err != nil {
		return fallback(e.log, "hedging", req.Ticker, err, alt())
	}
	return live(res)
}

// Scenario projects the option to req.TargetPrice and req.TargetVol after
// req.DaysAhead days.
func (e *Engine) Scenario(ctx context.Context, req Request) Outcome[scenario.TimeScenario] {
	alt := func() scenario.TimeScenario {
		return scenario.FallbackTimeMachine(req.TargetPrice, pricing.VolPercent(req.TargetVol))
	}

	pos, _, err := e.position(ctx, req, marketdata.Range1Day)
	if err != nil {
		return fallback(e.log, "scenario", req.Ticker, err, alt())
	}
	res, err := scenario.TimeMachine(scenario.TimeInput{
		Position:    pos,
		TargetPrice: req.TargetPrice,
		TargetVol:   pricing.VolPercent(req.TargetVol),
		DaysAhead:   req.DaysAhead,
	})
	if err != nil {
		return fallback(e.log, "scenario", req.Ticker, err, alt())
	}
	return live(res)
}

// Heatmap reprices the option across the volatility/price grid.
func (e *Engine) Heatmap(ctx context.Context, req Request) Outcome[scenario.HeatmapResult] {
	pos, _, err := e.position(ctx, req, marketdata.Range1Day)
	if err != nil {
		return fallback(e.log, "heatmap", req.Ticker, err, scenario.FallbackHeatmap())
	}
	res, err := scenario.Heatmap(pos)
	if err != nil {
		return fallback(e.log, "heatmap", req.Ticker, err, scenario.FallbackHeatmap())
	}
	return live(res)
}

// position fetches history over rng and builds the scenario position from
// the latest close. The closes are returned for volatility estimation.
func (e *Engine) position(ctx context.Context, req Request, rng marketdata.Range) (scenario.Position, []float64, error) {
	ctx, cancel := e.fetchContext(ctx)
	defer cancel()

	bars, err := e.src.History(ctx, req.Ticker, rng)
	if err != nil {
		return scenario.Position{}, nil, err
	}
	spot, ok := models.LastClose(bars)
	if !ok {
		return scenario.Position{}, nil, fmt.Errorf("%w: %s has no closes", marketdata.ErrNoData, req.Ticker)
	}

	return scenario.Position{
		Spot:   spot,
		Strike: req.Strike,
		Days:   pricing.DaysToExpiry(req.Expiry, e.now()),
		Type:   pricing.ParseOptionType(req.OptionType),
		Rate:   e.opts.RatePct,
	}, models.Closes(bars), nil
}

func (e *Engine) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.FetchTimeout)
}

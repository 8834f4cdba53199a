package marketdata

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drawdownlabs/engine/internal/infra"
	"github.com/drawdownlabs/engine/pkg/models"
	"github.com/drawdownlabs/engine/pkg/utils"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooConfig configures the Yahoo client.
type YahooConfig struct {
	BaseURL    string
	Timeout    time.Duration
	CacheTTL   time.Duration
	RatePerSec float64
	Retry      infra.RetryConfig
}

// Yahoo implements Source against the Yahoo Finance chart and options APIs.
type Yahoo struct {
	baseURL string
	fetch   *infra.Fetcher
	limiter *infra.RateLimiter
	bars    *infra.Cache[[]models.OHLCV]
	chains  *infra.Cache[*models.OptionChain]
	now     func() time.Time
}

var _ Source = (*Yahoo)(nil)

// NewYahoo creates a Yahoo client.
func NewYahoo(cfg YahooConfig) *Yahoo {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultYahooBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Yahoo{
		baseURL: base,
		fetch:   infra.NewFetcher(&http.Client{Timeout: timeout}, cfg.Retry),
		limiter: infra.NewRateLimiter(cfg.RatePerSec),
		bars:    infra.NewCache[[]models.OHLCV](cfg.CacheTTL),
		chains:  infra.NewCache[*models.OptionChain](cfg.CacheTTL),
		now:     time.Now,
	}
}

// History returns daily bars from the v8 chart endpoint. Bars without a
// close are skipped.
func (y *Yahoo) History(ctx context.Context, ticker string, rng Range) ([]models.OHLCV, error) {
	sym, err := symbol(ticker)
	if err != nil {
		return nil, err
	}

	cacheKey := "hist:" + sym + ":" + string(rng)
	if cached, ok := y.bars.Get(cacheKey); ok {
		return cached, nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", y.baseURL, url.PathEscape(sym), rng)
	var resp yfChartResponse
	if err := y.fetch.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", sym, upstreamErr(err, sym))
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", sym, apiErr(resp.Chart.Error, sym))
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, sym)
	}

	bars := parseCandles(resp.Chart.Result[0])
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s %s history", ErrNoData, sym, rng)
	}

	y.bars.Set(cacheKey, bars)
	return bars, nil
}

// Expirations returns the expiries listed on the default options page.
func (y *Yahoo) Expirations(ctx context.Context, ticker string) ([]string, error) {
	chain, err := y.chain(ctx, ticker, "")
	if err != nil {
		return nil, err
	}
	return chain.Expiries, nil
}

// OptionChain returns the chain for expiry (YYYY-MM-DD).
func (y *Yahoo) OptionChain(ctx context.Context, ticker, expiry string) (*models.OptionChain, error) {
	if _, err := utils.ParseDate(expiry, time.UTC); err != nil {
		return nil, fmt.Errorf("expiry %q: %w", expiry, err)
	}
	return y.chain(ctx, ticker, expiry)
}

func (y *Yahoo) chain(ctx context.Context, ticker, expiry string) (*models.OptionChain, error) {
	sym, err := symbol(ticker)
	if err != nil {
		return nil, err
	}

	cacheKey := "chain:" + sym + ":" + expiry
	if cached, ok := y.chains.Get(cacheKey); ok {
		return cached, nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v7/finance/options/%s", y.baseURL, url.PathEscape(sym))
	if expiry != "" {
		// Yahoo keys expiries by midnight UTC.
		t, _ := utils.ParseDate(expiry, time.UTC)
		u += fmt.Sprintf("?date=%d", t.Unix())
	}

	var resp yfOptionsResponse
	if err := y.fetch.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yahoo options %s: %w", sym, upstreamErr(err, sym))
	}
	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo options %s: %w", sym, apiErr(resp.OptionChain.Error, sym))
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, sym)
	}

	r := resp.OptionChain.Result[0]
	chain := &models.OptionChain{
		Ticker:    sym,
		SpotPrice: r.Quote.RegularMarketPrice,
		Expiry:    expiry,
		Expiries:  make([]string, 0, len(r.ExpirationDates)),
		Calls:     []models.OptionQuote{},
		Puts:      []models.OptionQuote{},
		FetchedAt: y.now(),
	}
	for _, ts := range r.ExpirationDates {
		chain.Expiries = append(chain.Expiries, utils.UnixDate(ts))
	}
	for _, opt := range r.Options {
		if chain.Expiry == "" {
			chain.Expiry = utils.UnixDate(opt.ExpirationDate)
		}
		for _, c := range opt.Calls {
			chain.Calls = append(chain.Calls, toQuote(c))
		}
		for _, c := range opt.Puts {
			chain.Puts = append(chain.Puts, toQuote(c))
		}
	}

	y.chains.Set(cacheKey, chain)
	return chain, nil
}

// --- Helpers ---

func symbol(ticker string) (string, error) {
	sym := utils.NormalizeTicker(ticker)
	if !utils.ValidTicker(sym) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	return sym, nil
}

// upstreamErr maps a 404 onto ErrTickerNotFound, keeping the HTTP detail.
func upstreamErr(err error, sym string) error {
	var herr *infra.HTTPError
	if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s (%v)", ErrTickerNotFound, sym, err)
	}
	return err
}

func apiErr(e *yfError, sym string) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return fmt.Errorf("%w: %s", ErrTickerNotFound, sym)
	}
	return fmt.Errorf("api error %s: %s", e.Code, e.Description)
}

// parseCandles converts the columnar chart payload into bars, dropping rows
// without a close. Timestamps are shifted into the exchange's local day.
func parseCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	offset := time.Duration(result.Meta.GMTOffset) * time.Second
	bars := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePx := at(q.Close, i)
		if closePx <= 0 {
			continue
		}
		b := models.OHLCV{
			Timestamp: time.Unix(ts, 0).UTC().Add(offset),
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     closePx,
			AdjClose:  at(adjCloses, i),
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.Volume = *q.Volume[i]
		}
		bars = append(bars, b)
	}
	return bars
}

func at(col []*float64, i int) float64 {
	if i >= len(col) || col[i] == nil || math.IsNaN(*col[i]) {
		return 0
	}
	return *col[i]
}

// toQuote fills missing fields with zero.
func toQuote(c yfContract) models.OptionQuote {
	q := models.OptionQuote{Strike: c.Strike}
	if c.LastPrice != nil {
		q.LastPrice = *c.LastPrice
	}
	if c.Volume != nil {
		q.Volume = *c.Volume
	}
	if c.ImpliedVolatility != nil {
		q.ImpliedVolatility = *c.ImpliedVolatility
	}
	return q
}

// Package marketdata fetches the price history and option chains the engine
// prices against. Source is the seam the engine depends on; Yahoo is the
// production implementation.
package marketdata

import (
	"context"
	"errors"

	"github.com/drawdownlabs/engine/pkg/models"
)

// Range is a lookback window of daily bars ending today.
type Range string

const (
	Range1Day   Range = "1d"
	Range1Month Range = "1mo"
	Range1Year  Range = "1y"
)

// Source defines the market data the engine needs. Implementations must be
// safe for concurrent use.
type Source interface {
	// History returns daily bars for ticker over rng, oldest first.
	History(ctx context.Context, ticker string, rng Range) ([]models.OHLCV, error)

	// Expirations returns the listed option expiries as YYYY-MM-DD.
	Expirations(ctx context.Context, ticker string) ([]string, error)

	// OptionChain returns calls and puts for one expiry (YYYY-MM-DD).
	OptionChain(ctx context.Context, ticker, expiry string) (*models.OptionChain, error)
}

var (
	// ErrTickerNotFound is returned when the upstream does not know the symbol.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrNoData is returned when the upstream answers with no usable rows.
	ErrNoData = errors.New("no market data")

	// ErrInvalidTicker is returned before any request for malformed symbols.
	ErrInvalidTicker = errors.New("invalid ticker")
)

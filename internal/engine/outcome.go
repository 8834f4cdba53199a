package engine

import (
	"log/slog"
)

// Origin tells a caller whether an Outcome carries computed or demo data.
type Origin string

const (
	Live     Origin = "live"
	Fallback Origin = "fallback"
)

// Outcome is the result of one engine procedure. It is always renderable:
// when market data or pricing fails, Data holds the synthetic fallback and
// Reason records the failure.
type Outcome[T any] struct {
	Data   T
	Origin Origin
	Reason error
}

// IsFallback reports whether Data is synthetic.
func (o Outcome[T]) IsFallback() bool { return o.Origin == Fallback }

func live[T any](data T) Outcome[T] {
	return Outcome[T]{Data: data, Origin: Live}
}

func fallback[T any](log *slog.Logger, procedure, ticker string, reason error, data T) Outcome[T] {
	log.Warn("serving fallback data",
		"procedure", procedure,
		"ticker", ticker,
		"reason", reason,
	)
	return Outcome[T]{Data: data, Origin: Fallback, Reason: reason}
}

// Package models defines the market data structures shared by the data
// source, the engine and the HTTP layer.
package models

import "time"

// OHLCV represents a single daily bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	AdjClose  float64   `json:"adj_close,omitempty"`
}

// Closes returns the close of every bar that has one, in order.
func Closes(bars []OHLCV) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			out = append(out, b.Close)
		}
	}
	return out
}

// LastClose returns the most recent non-zero close.
func LastClose(bars []OHLCV) (float64, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close > 0 {
			return bars[i].Close, true
		}
	}
	return 0, false
}

// ChartPoint is one point of the price chart served to clients.
type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

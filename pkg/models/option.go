package models

import "time"

// OptionChain is the listed contracts of one underlying for one expiry.
type OptionChain struct {
	Ticker    string        `json:"ticker"`
	SpotPrice float64       `json:"spot_price"`
	Expiry    string        `json:"expiry"`   // YYYY-MM-DD
	Expiries  []string      `json:"expiries"` // all listed expiries
	Calls     []OptionQuote `json:"calls"`
	Puts      []OptionQuote `json:"puts"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// OptionQuote is a single contract row. Field names follow the upstream
// feed because chart clients read them directly.
type OptionQuote struct {
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // fraction, 0.25 = 25%
	Volume            int64   `json:"volume"`
}

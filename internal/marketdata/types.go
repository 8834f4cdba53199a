package marketdata

// Yahoo v8 chart API.

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	GMTOffset          int64   `json:"gmtoffset"`
}

type yfIndicators struct {
	Quote    []yfOHLCV    `json:"quote"`
	AdjClose []yfAdjClose `json:"adjclose"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// Yahoo v7 options API.

type yfOptionsResponse struct {
	OptionChain struct {
		Result []yfOptionsResult `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"optionChain"`
}

type yfOptionsResult struct {
	UnderlyingSymbol string          `json:"underlyingSymbol"`
	ExpirationDates  []int64         `json:"expirationDates"`
	Quote            yfQuote         `json:"quote"`
	Options          []yfOptionChain `json:"options"`
}

type yfQuote struct {
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type yfOptionChain struct {
	ExpirationDate int64        `json:"expirationDate"`
	Calls          []yfContract `json:"calls"`
	Puts           []yfContract `json:"puts"`
}

// Pointers distinguish absent fields, which the feed omits for contracts
// that have not traded.
type yfContract struct {
	Strike            float64  `json:"strike"`
	LastPrice         *float64 `json:"lastPrice"`
	Volume            *int64   `json:"volume"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

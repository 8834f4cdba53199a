package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerateInput is returned when an evaluation cannot be defined:
// non-positive spot or strike, less than a day to expiry, negative or
// non-finite volatility, or an unknown option type.
var ErrDegenerateInput = errors.New("degenerate pricing input")

// Market is the state of the underlying for one evaluation.
type Market struct {
	Spot float64
	Vol  VolPercent
	Rate RatePercent
}

// Contract describes the option being priced.
type Contract struct {
	Strike float64
	Days   Days
	Type   OptionType
}

// Greeks are the reported sensitivities. Theta is per calendar day and vega
// per one volatility point. CallDelta is N(d1) whatever the contract type;
// the chart endpoints report it in place of Delta.
type Greeks struct {
	Delta     float64
	CallDelta float64
	Theta     float64
	Vega  float64
	Rho   float64
}

// Result is a theoretical price plus its Greeks.
type Result struct {
	Price  float64
	Greeks Greeks
}

// Price evaluates a European option under Black-Scholes.
//
// Theta is always the call-side theta, for puts as well, and rho is the
// fixed PlaceholderRho. Clients chart those values as-is.
func Price(m Market, c Contract) (Result, error) {
	if err := validate(m, c); err != nil {
		return Result{}, err
	}

	S, K := m.Spot, c.Strike
	T := c.Days.Years()
	r := m.Rate.Fraction()
	sigma := m.Vol.Fraction()
	discK := K * math.Exp(-r*T)

	if sigma == 0 {
		return intrinsic(S, discK, c.Type), nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	nd1 := distuv.UnitNormal.CDF(d1)
	pdf := distuv.UnitNormal.Prob(d1)

	var price, delta float64
	switch c.Type {
	case Call:
		price = S*nd1 - discK*distuv.UnitNormal.CDF(d2)
		delta = nd1
	case Put:
		price = discK*distuv.UnitNormal.CDF(-d2) - S*distuv.UnitNormal.CDF(-d1)
		delta = nd1 - 1
	}

	theta := (-S*pdf*sigma/(2*sqrtT) - r*discK*distuv.UnitNormal.CDF(d2)) / DaysPerYear
	vega := S * pdf * sqrtT / 100

	return Result{
		Price: math.Max(price, 0),
		Greeks: Greeks{
			Delta:     delta,
			CallDelta: nd1,
			Theta:     theta,
			Vega:      vega,
			Rho:       PlaceholderRho,
		},
	}, nil
}

// intrinsic is the zero-volatility limit: the forward is deterministic, so
// the option is worth its discounted intrinsic value and delta is a step.
func intrinsic(spot, discStrike float64, typ OptionType) Result {
	res := Result{Greeks: Greeks{Rho: PlaceholderRho}}
	if spot > discStrike {
		res.Greeks.CallDelta = 1
	}
	switch typ {
	case Call:
		if spot > discStrike {
			res.Price = spot - discStrike
			res.Greeks.Delta = 1
		}
	case Put:
		if spot < discStrike {
			res.Price = discStrike - spot
			res.Greeks.Delta = -1
		}
	}
	return res
}

func validate(m Market, c Contract) error {
	switch {
	case !finite(m.Spot) || m.Spot <= 0:
		return fmt.Errorf("%w: spot %v", ErrDegenerateInput, m.Spot)
	case !finite(c.Strike) || c.Strike <= 0:
		return fmt.Errorf("%w: strike %v", ErrDegenerateInput, c.Strike)
	case c.Days < 1:
		return fmt.Errorf("%w: %d days to expiry", ErrDegenerateInput, c.Days)
	case !finite(float64(m.Vol)) || m.Vol < 0:
		return fmt.Errorf("%w: volatility %v%%", ErrDegenerateInput, float64(m.Vol))
	case !finite(float64(m.Rate)):
		return fmt.Errorf("%w: rate %v%%", ErrDegenerateInput, float64(m.Rate))
	case c.Type != Call && c.Type != Put:
		return fmt.Errorf("%w: option type %q", ErrDegenerateInput, c.Type)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

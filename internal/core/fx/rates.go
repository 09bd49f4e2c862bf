// Package fx supplies exchange rates between the two supported currencies
// and the single conversion routine every caller goes through. The provider
// is an interface so a live-rate source can replace the fixed table without
// touching the service layer.
package fx

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
)

// inverseScale is the precision the CLP->USD factor is computed at before
// any downstream rounding.
const inverseScale = 10

// RateProvider maps an ordered currency pair to a multiplicative factor.
type RateProvider interface {
	Rate(from, to domain.Currency) (decimal.Decimal, error)
}

// FixedRates serves a constant USD->CLP factor and its high-precision
// inverse. The reference configuration is 1 USD = 900 CLP.
type FixedRates struct {
	usdToClp decimal.Decimal
}

const DefaultUSDToCLP = 900

// NewFixedRates builds a provider around the given USD->CLP factor.
// Non-positive factors fall back to the default.
func NewFixedRates(usdToClp decimal.Decimal) *FixedRates {
	if !usdToClp.IsPositive() {
		usdToClp = decimal.NewFromInt(DefaultUSDToCLP)
	}
	return &FixedRates{usdToClp: usdToClp}
}

func (p *FixedRates) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	switch {
	case from == to:
		return decimal.NewFromInt(1), nil
	case from == domain.USD && to == domain.CLP:
		return p.usdToClp, nil
	case from == domain.CLP && to == domain.USD:
		return decimal.NewFromInt(1).DivRound(p.usdToClp, inverseScale), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %s->%s", domain.ErrUnsupportedCurrencyPair, from, to)
	}
}

// Convert re-expresses m in the target currency: amount x rate, quantized to
// two digits half-up. Deposit-with-conversion and ConvertAll both call this;
// there is deliberately no second rounding path.
func Convert(m domain.Money, to domain.Currency, rates RateProvider) (domain.Money, error) {
	r, err := rates.Rate(m.Currency, to)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.NewMoney(m.Amount.Mul(r), to), nil
}

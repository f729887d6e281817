package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrItemNotInCart   = errors.New("item not in cart")
)

// DefaultDriftThreshold is the relative price change above which a cart line
// is considered stale.
var DefaultDriftThreshold = decimal.RequireFromString("0.10")

// PriceSnapshot is the price captured when a line was added; later catalog
// changes do not affect it until the cart is explicitly synced.
type PriceSnapshot struct {
	BasePrice decimal.Decimal  `json:"base_price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Currency  string           `json:"currency"`
}

func NewPriceSnapshot(base decimal.Decimal, sale *decimal.Decimal, currency string) (PriceSnapshot, error) {
	if base.IsNegative() || (sale != nil && sale.IsNegative()) {
		return PriceSnapshot{}, ErrNegativePrice
	}
	return PriceSnapshot{BasePrice: base, SalePrice: sale, Currency: currency}, nil
}

// EffectivePrice is salePrice when present, basePrice otherwise.
func (p PriceSnapshot) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.BasePrice
}

func (p PriceSnapshot) Equal(other PriceSnapshot) bool {
	if !p.BasePrice.Equal(other.BasePrice) || p.Currency != other.Currency {
		return false
	}
	if (p.SalePrice == nil) != (other.SalePrice == nil) {
		return false
	}
	return p.SalePrice == nil || p.SalePrice.Equal(*other.SalePrice)
}

// IsPriceChangedSignificantly reports |new-old|/old > threshold. Any rise from
// zero counts as significant.
func IsPriceChangedSignificantly(oldPrice, newPrice, threshold decimal.Decimal) bool {
	if oldPrice.IsZero() {
		return newPrice.IsPositive()
	}
	change := newPrice.Sub(oldPrice).Abs().Div(oldPrice)
	return change.GreaterThan(threshold)
}

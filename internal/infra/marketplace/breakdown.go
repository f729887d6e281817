package marketplace

import (
	"storefront-core/internal/domain/order"
	"storefront-core/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BreakdownCalculator struct {
	policy         FlatRatePolicy
	commissionRate decimal.Decimal
}

func NewBreakdownCalculator(policy FlatRatePolicy, cfg config.CheckoutConfig) *BreakdownCalculator {
	return &BreakdownCalculator{
		policy:         policy,
		commissionRate: cfg.CommissionRate,
	}
}

// Calculate groups items by seller in first-seen order.
func (c *BreakdownCalculator) Calculate(items []order.Item) []order.SellerBreakdown {
	if len(items) == 0 {
		return []order.SellerBreakdown{}
	}
	var (
		sellers   []uuid.UUID
		subtotals = make(map[uuid.UUID]decimal.Decimal)
		total     = decimal.Zero
	)
	for _, it := range items {
		if _, seen := subtotals[it.SellerID]; !seen {
			sellers = append(sellers, it.SellerID)
			subtotals[it.SellerID] = decimal.Zero
		}
		subtotals[it.SellerID] = subtotals[it.SellerID].Add(it.TotalPrice)
		total = total.Add(it.TotalPrice)
	}

	fee := c.policy.SellerFee(total)
	out := make([]order.SellerBreakdown, 0, len(sellers))
	for _, id := range sellers {
		subtotal := subtotals[id].Round(2)
		commission := subtotal.Mul(c.commissionRate).Round(2)
		out = append(out, order.SellerBreakdown{
			SellerID:         id,
			Subtotal:         subtotal,
			ShippingFee:      fee,
			CommissionAmount: commission,
			SellerEarnings:   subtotal.Add(fee).Sub(commission),
		})
	}
	return out
}

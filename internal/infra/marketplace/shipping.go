package marketplace

import (
	"context"

	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlatRatePolicy charges one flat fee per distinct seller in an order, and
// nothing once the order subtotal reaches the free threshold.
type FlatRatePolicy struct {
	FeePerSeller  decimal.Decimal
	FreeThreshold decimal.Decimal
}

func NewFlatRatePolicy(cfg config.CheckoutConfig) FlatRatePolicy {
	return FlatRatePolicy{
		FeePerSeller:  cfg.ShippingFlatFee,
		FreeThreshold: cfg.ShippingFreeThreshold,
	}
}

// SellerFee is the fee charged for each seller of an order with the given
// subtotal.
func (p FlatRatePolicy) SellerFee(orderSubtotal decimal.Decimal) decimal.Decimal {
	if p.FreeThreshold.IsPositive() && orderSubtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FeePerSeller
}

type FlatRateShipping struct {
	policy FlatRatePolicy
}

func NewFlatRateShipping(policy FlatRatePolicy) *FlatRateShipping {
	return &FlatRateShipping{policy: policy}
}

// CalculateShippingFee ignores the destination; every address ships at the
// same rate.
func (s *FlatRateShipping) CalculateShippingFee(_ context.Context, lines []shared.ShippingLine, _ shared.Address) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, nil
	}
	subtotal := decimal.Zero
	sellers := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		sellers[l.SellerID] = struct{}{}
	}
	fee := s.policy.SellerFee(subtotal)
	return fee.Mul(decimal.NewFromInt(int64(len(sellers)))).Round(2), nil
}

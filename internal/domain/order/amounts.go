package order

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("order amounts cannot be negative")

// DefaultTaxRate is applied to the subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.18")

type Amounts struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingFee    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// CalculateAmounts derives tax and final amount. The final amount is floored at
// zero so an oversized discount never produces a negative charge.
func CalculateAmounts(subtotal, taxRate, shippingFee, discount decimal.Decimal) (Amounts, error) {
	if subtotal.IsNegative() || taxRate.IsNegative() || shippingFee.IsNegative() || discount.IsNegative() {
		return Amounts{}, ErrNegativeAmount
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	shippingFee = shippingFee.Round(2)
	discount = discount.Round(2)

	final := subtotal.Add(tax).Add(shippingFee).Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return Amounts{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingFee:    shippingFee,
		DiscountAmount: discount,
		FinalAmount:    final.Round(2),
	}, nil
}

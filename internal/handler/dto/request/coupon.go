package request

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	SellerID  uuid.UUID       `json:"seller_id" binding:"required"`
	LineTotal decimal.Decimal `json:"line_total" binding:"required,money"`
}

// ValidateCouponRequest checks a code against explicit lines. Without lines
// the caller's current cart is used.
type ValidateCouponRequest struct {
	Code     string              `json:"code" binding:"required,min=3,max=32"`
	Items    []CouponLineRequest `json:"items,omitempty" binding:"omitempty,dive"`
	Subtotal *decimal.Decimal    `json:"subtotal,omitempty" binding:"omitempty,money"`
}

func (r ValidateCouponRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

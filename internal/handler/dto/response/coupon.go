package response

import (
	"storefront-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponValidationResponse struct {
	IsValid         bool            `json:"is_valid"`
	CouponID        *uuid.UUID      `json:"coupon_id,omitempty"`
	Code            string          `json:"code,omitempty"`
	DiscountType    string          `json:"discount_type,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	ApplicableItems []CartLineRef   `json:"applicable_items"`
	Message         string          `json:"message,omitempty"`
}

func FromCouponValidation(v *commands.CouponValidation) *CouponValidationResponse {
	resp := &CouponValidationResponse{
		IsValid:         v.IsValid,
		DiscountAmount:  v.DiscountAmount,
		ApplicableItems: make([]CartLineRef, len(v.ApplicableItems)),
		Message:         v.Message,
	}
	if v.Coupon != nil {
		id := v.Coupon.ID()
		resp.CouponID = &id
		resp.Code = v.Coupon.Code().String()
		resp.DiscountType = string(v.Coupon.Discount().Type())
	}
	for i, l := range v.ApplicableItems {
		resp.ApplicableItems[i] = CartLineRef{ProductID: l.ProductID, VariantID: l.VariantID}
	}
	return resp
}

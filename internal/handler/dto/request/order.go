package request

import (
	"strings"

	"github.com/google/uuid"
)

type PlaceOrderRequest struct {
	DeliveryAddressID uuid.UUID `json:"delivery_address_id" binding:"required"`
	CouponCode        *string   `json:"coupon_code,omitempty"`
	PaymentMethod     string    `json:"payment_method" binding:"required,oneof=card wallet cod"`
	Notes             *string   `json:"notes,omitempty" binding:"omitempty,max=500"`
}

func (r PlaceOrderRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
}

type UpdateRefundStatusRequest struct {
	RefundStatus string `json:"refund_status" binding:"required,oneof=none requested processing completed rejected"`
}

type ListOrdersQuery struct {
	OrderStatus   *string `form:"order_status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled returned"`
	PaymentStatus *string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded partially_refunded"`
	Cursor        string  `form:"cursor"`
	Limit         int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

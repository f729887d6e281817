package request

import (
	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	OrderID       uuid.UUID `json:"order_id" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=card wallet"`
	Currency      string    `json:"currency,omitempty" binding:"omitempty,currency"`
}

type ConfirmPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required,startswith=pi_"`
}

type ConfirmCODRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

type ListPaymentsQuery struct {
	Status *string `form:"status" binding:"omitempty,oneof=pending paid failed"`
	Method *string `form:"method" binding:"omitempty,oneof=card wallet cod"`
	Cursor string  `form:"cursor"`
	Limit  int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

package response

import (
	"time"

	"storefront-core/internal/domain/payment"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Method           string          `json:"method"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	GatewayPaymentID *string         `json:"gateway_payment_id,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	FailureReason    *string         `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromPayment(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Method:           string(p.Method),
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           string(p.Status),
		GatewayPaymentID: p.GatewayPaymentID,
		PaidAt:           p.PaidAt,
		FailureReason:    p.FailureReason,
		CreatedAt:        p.CreatedAt,
	}
}

type InitiatePaymentResponse struct {
	Payment      *PaymentResponse `json:"payment"`
	ClientSecret *string          `json:"client_secret,omitempty"`
	IsReplayed   bool             `json:"is_replayed"`
}

func FromPaymentResult(r *commands.PaymentResult) *InitiatePaymentResponse {
	return &InitiatePaymentResponse{
		Payment:      FromPayment(r.Payment),
		ClientSecret: r.ClientSecret,
		IsReplayed:   r.IsReplayed,
	}
}

type PaymentListResponse struct {
	Payments   []*queries.PaymentView `json:"payments"`
	NextCursor *string                `json:"next_cursor,omitempty"`
}

func NewPaymentListResponse(rows []*queries.PaymentView, next *queries.Cursor) *PaymentListResponse {
	if rows == nil {
		rows = []*queries.PaymentView{}
	}
	return &PaymentListResponse{Payments: rows, NextCursor: cursorString(next)}
}

type WebhookAckResponse struct {
	Received bool   `json:"received"`
	Type     string `json:"type"`
	Handled  bool   `json:"handled"`
}

//go:build unit || e2e

package builder

import (
	"time"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	reqdto "storefront-core/internal/handler/dto/request"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentBuilder struct {
	OrderID          uuid.UUID
	UserID           uuid.UUID
	Method           order.PaymentMethod
	Amount           decimal.Decimal
	Currency         string
	GatewayPaymentID *string
	CreatedAt        time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	gatewayID := "pi_test_123"
	return &PaymentBuilder{
		OrderID:          uuid.New(),
		UserID:           uuid.New(),
		Method:           order.MethodCard,
		Amount:           decimal.NewFromInt(276),
		Currency:         "INR",
		GatewayPaymentID: &gatewayID,
		CreatedAt:        time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) BuildDomain() *payment.Payment {
	p := payment.NewPending(b.OrderID, b.UserID, b.Method, b.Amount, b.Currency, b.CreatedAt)
	p.GatewayPaymentID = b.GatewayPaymentID
	return p
}

func (b *PaymentBuilder) BuildInitiateRequestDTO() reqdto.InitiatePaymentRequest {
	return reqdto.InitiatePaymentRequest{
		OrderID:       b.OrderID,
		PaymentMethod: string(b.Method),
	}
}

func (b *PaymentBuilder) BuildViewQuery() *queries.PaymentView {
	return &queries.PaymentView{
		ID:               uuid.New(),
		OrderID:          b.OrderID,
		OrderNumber:      "ORD-20250314-ABCDEFGHIJ",
		UserID:           b.UserID,
		Method:           string(b.Method),
		Amount:           b.Amount,
		Currency:         b.Currency,
		Status:           string(payment.StatusPending),
		GatewayPaymentID: b.GatewayPaymentID,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
}

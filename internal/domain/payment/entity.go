package payment

import (
	"errors"
	"time"

	"storefront-core/internal/domain/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyPaid       = errors.New("payment already completed")
	ErrIntentNotComplete = errors.New("payment intent has not succeeded")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Payment is the single active payment record of an order.
type Payment struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	UserID           uuid.UUID
	Method           order.PaymentMethod
	Amount           decimal.Decimal
	Currency         string
	Status           Status
	GatewayPaymentID *string
	PaidAt           *time.Time
	FailureReason    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewPending(orderID, userID uuid.UUID, method order.PaymentMethod, amount decimal.Decimal, currency string, now time.Time) *Payment {
	return &Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    userID,
		Method:    method,
		Amount:    amount,
		Currency:  currency,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewPaid builds a payment settled synchronously, e.g. from the wallet.
func NewPaid(orderID, userID uuid.UUID, method order.PaymentMethod, amount decimal.Decimal, currency string, now time.Time) *Payment {
	p := NewPending(orderID, userID, method, amount, currency, now)
	p.Status = StatusPaid
	p.PaidAt = &now
	return p
}

func (p *Payment) MarkPaid(now time.Time) error {
	if p.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	p.Status = StatusPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	return nil
}

// IdempotencyKey namespaces payment initiation per order and user.
func IdempotencyKey(orderID, userID uuid.UUID) string {
	return "payment:" + orderID.String() + ":" + userID.String()
}

// TopUpKey namespaces pending wallet top-ups by gateway intent.
func TopUpKey(gatewayPaymentID string) string {
	return "topup:" + gatewayPaymentID
}

type IntentStatus string

const (
	IntentSucceeded             IntentStatus = "succeeded"
	IntentProcessing            IntentStatus = "processing"
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentCanceled              IntentStatus = "canceled"
)

// Intent is what the card gateway returns when a payment is initiated. The
// client secret is handed to the client and never stored.
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
}

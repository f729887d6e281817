package shared

import (
	"github.com/google/uuid"
)

type Address struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

const (
	GatewayEventPaymentSucceeded = "payment_intent.succeeded"
	GatewayPurposeWalletTopUp    = "wallet_topup"
)

type GatewayEvent struct {
	Type     string
	IntentID string
	Metadata map[string]string
}

package shared

import (
	"context"
	"time"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog is read access to live product and variant state.
type Catalog interface {
	Lookup(ctx context.Context, keys []cart.LineKey) (map[cart.LineKey]cart.CurrentProduct, error)
}

type StockOperation string

const (
	StockIncrement StockOperation = "increment"
	StockDecrement StockOperation = "decrement"
	StockSet       StockOperation = "set"
)

type StockUpdate struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	Operation StockOperation
}

// ErrInsufficientStock is returned by a decrement that would drive stock
// below zero.
var ErrInsufficientStock = errs.New("insufficient stock")

// StockMutator changes stock one product or variant at a time. Each call is
// atomic on its own row only.
type StockMutator interface {
	UpdateStock(ctx context.Context, u StockUpdate) error
}

type AddressBook interface {
	FindAddress(ctx context.Context, addressID uuid.UUID) (*Address, error)
}

type ShippingLine struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Quantity  int
	LineTotal decimal.Decimal
}

type ShippingCalculator interface {
	CalculateShippingFee(ctx context.Context, lines []ShippingLine, address Address) (decimal.Decimal, error)
}

type OrderNumberGenerator interface {
	GenerateOrderNumber() (string, error)
}

type SellerBreakdownCalculator interface {
	Calculate(items []order.Item) []order.SellerBreakdown
}

type CardGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (payment.Intent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string) (payment.Intent, error)
}

// WebhookVerifier authenticates gateway callbacks and decodes them.
type WebhookVerifier interface {
	ParseEvent(payload []byte, signature string) (GatewayEvent, error)
}

// KeyStore is a TTL key/value store used for at-most-once semantics.
type KeyStore interface {
	SetKey(ctx context.Context, key, value string, ttl time.Duration) error
	GetKey(ctx context.Context, key string) (string, bool, error)
	DeleteKey(ctx context.Context, key string) error
	// TakeKey reads and deletes a key atomically.
	TakeKey(ctx context.Context, key string) (string, bool, error)
}

package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemView is an order line with its frozen product snapshot.
type OrderItemView struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	VariantID  *uuid.UUID      `json:"variant_id,omitempty"`
	SellerID   uuid.UUID       `json:"seller_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency"`
	Title      string          `json:"title"`
	Thumbnail  string          `json:"thumbnail"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type SellerBreakdownView struct {
	SellerID         uuid.UUID       `json:"seller_id"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	SellerEarnings   decimal.Decimal `json:"seller_earnings"`
}

type OrderView struct {
	ID                uuid.UUID             `json:"id"`
	OrderNumber       string                `json:"order_number"`
	UserID            uuid.UUID             `json:"user_id"`
	DeliveryAddressID uuid.UUID             `json:"delivery_address_id"`
	CouponID          *uuid.UUID            `json:"coupon_id,omitempty"`
	PaymentID         *uuid.UUID            `json:"payment_id,omitempty"`
	PaymentMethod     string                `json:"payment_method"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	TaxAmount         decimal.Decimal       `json:"tax_amount"`
	ShippingFee       decimal.Decimal       `json:"shipping_fee"`
	DiscountAmount    decimal.Decimal       `json:"discount_amount"`
	FinalAmount       decimal.Decimal       `json:"final_amount"`
	OrderStatus       string                `json:"order_status"`
	PaymentStatus     string                `json:"payment_status"`
	RefundStatus      string                `json:"refund_status"`
	SellerBreakdown   []SellerBreakdownView `json:"seller_breakdown"`
	Items             []OrderItemView       `json:"items"`
	Notes             *string               `json:"notes,omitempty"`
	CancelReason      *string               `json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

type OrderListItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	PaymentMethod string          `json:"payment_method"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	OrderStatus   string          `json:"order_status"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderSummary is a dashboard aggregate. Amount is total spent for buyers,
// earned for sellers and grossed for admins, over paid orders.
type OrderSummary struct {
	TotalOrders int64            `json:"total_orders"`
	ByStatus    map[string]int64 `json:"by_status"`
	PaidOrders  int64            `json:"paid_orders"`
	Amount      decimal.Decimal  `json:"amount"`
}

type PaymentView struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	UserID           uuid.UUID       `json:"user_id"`
	Method           string          `json:"method"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	GatewayPaymentID *string         `json:"gateway_payment_id,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	FailureReason    *string         `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderScope restricts the orders visible to an actor. Both nil means all.
type OrderScope struct {
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
}

type OrderFilter struct {
	OrderStatus   *string
	PaymentStatus *string
}

type PaymentFilter struct {
	Status *string
	Method *string
}

package order

import (
	"errors"
	"time"

	"storefront-core/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotCancellable    = errors.New("order can only be cancelled while pending or confirmed")
	ErrBreakdownFinal    = errors.New("seller breakdown already computed")
	ErrEmptyOrderNumber  = errors.New("order number is required")
	ErrInvalidQuantity   = errors.New("order item quantity must be at least 1")
	ErrUnknownPayMethod  = errors.New("unknown payment method")
	ErrNotOrderOwner     = errors.New("order does not belong to user")
	ErrSellerNotInvolved = errors.New("order has no items from seller")
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodWallet PaymentMethod = "wallet"
	MethodCOD    PaymentMethod = "cod"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodWallet, MethodCOD:
		return true
	}
	return false
}

// SellerBreakdown is the per-seller financial split of an order.
type SellerBreakdown struct {
	SellerID         uuid.UUID       `json:"seller_id"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	SellerEarnings   decimal.Decimal `json:"seller_earnings"`
}

// ItemSnapshot freezes the product as it was when the order was placed.
type ItemSnapshot struct {
	Price     decimal.Decimal
	Currency  string
	Title     string
	Thumbnail string
}

type Item struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	SellerID   uuid.UUID
	Quantity   int
	Snapshot   ItemSnapshot
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

func NewItem(orderID, productID uuid.UUID, variantID *uuid.UUID, sellerID uuid.UUID, quantity int, snap ItemSnapshot, now time.Time) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		ID:         uuid.New(),
		OrderID:    orderID,
		ProductID:  productID,
		VariantID:  variantID,
		SellerID:   sellerID,
		Quantity:   quantity,
		Snapshot:   snap,
		TotalPrice: snap.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt:  now,
	}, nil
}

type Order struct {
	ID                uuid.UUID
	OrderNumber       string
	UserID            uuid.UUID
	DeliveryAddressID uuid.UUID
	CouponID          *uuid.UUID
	PaymentID         *uuid.UUID
	PaymentMethod     PaymentMethod
	Amounts           Amounts
	Status            Status
	PaymentStatus     PaymentStatus
	RefundStatus      RefundStatus
	SellerBreakdown   []SellerBreakdown
	Items             []Item
	Notes             *string
	CancelReason      *string
	CancelledAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type NewOrderParams struct {
	OrderNumber       string
	UserID            uuid.UUID
	DeliveryAddressID uuid.UUID
	CouponID          *uuid.UUID
	PaymentMethod     PaymentMethod
	Amounts           Amounts
	Notes             *string
}

// NewOrder builds an order in pending/pending state.
func NewOrder(p NewOrderParams, now time.Time) (*Order, error) {
	if p.OrderNumber == "" {
		return nil, ErrEmptyOrderNumber
	}
	if !p.PaymentMethod.IsValid() {
		return nil, ErrUnknownPayMethod
	}
	return &Order{
		ID:                uuid.New(),
		OrderNumber:       p.OrderNumber,
		UserID:            p.UserID,
		DeliveryAddressID: p.DeliveryAddressID,
		CouponID:          p.CouponID,
		PaymentMethod:     p.PaymentMethod,
		Amounts:           p.Amounts,
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
		RefundStatus:      RefundNone,
		Notes:             p.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Finalize attaches the created items and the seller breakdown. The breakdown
// is set once and never recomputed.
func (o *Order) Finalize(items []Item, breakdown []SellerBreakdown, now time.Time) error {
	if o.SellerBreakdown != nil {
		return ErrBreakdownFinal
	}
	if breakdown == nil {
		breakdown = []SellerBreakdown{}
	}
	o.Items = items
	o.SellerBreakdown = breakdown
	o.UpdatedAt = now
	return nil
}

func (o *Order) TransitionTo(next Status, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return &IllegalTransitionError{Machine: "order", From: string(o.Status), To: string(next)}
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

// Cancel moves the order to cancelled and requests a refund when the order was
// already paid.
func (o *Order) Cancel(reason string, now time.Time) error {
	if !o.Status.IsCancellable() {
		return ErrNotCancellable
	}
	o.Status = StatusCancelled
	o.CancelReason = &reason
	o.CancelledAt = &now
	if o.PaymentStatus == PaymentPaid && o.RefundStatus == RefundNone {
		o.RefundStatus = RefundRequested
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) MarkPaid(paymentID uuid.UUID, now time.Time) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentPaid) {
		return &IllegalTransitionError{Machine: "payment", From: string(o.PaymentStatus), To: string(PaymentPaid)}
	}
	o.PaymentStatus = PaymentPaid
	o.PaymentID = &paymentID
	o.UpdatedAt = now
	return nil
}

func (o *Order) TransitionRefund(next RefundStatus, now time.Time) error {
	if !o.RefundStatus.CanTransitionTo(next) {
		return &IllegalTransitionError{Machine: "refund", From: string(o.RefundStatus), To: string(next)}
	}
	o.RefundStatus = next
	if next == RefundCompleted && o.PaymentStatus.CanTransitionTo(PaymentRefunded) {
		o.PaymentStatus = PaymentRefunded
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) HasSeller(sellerID uuid.UUID) bool {
	for _, b := range o.SellerBreakdown {
		if b.SellerID == sellerID {
			return true
		}
	}
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

// CheckAccess applies role-scoped visibility: buyers see their own orders,
// sellers see orders carrying their items, admins see everything.
func (o *Order) CheckAccess(actorID uuid.UUID, role user.Role) error {
	switch role {
	case user.RoleAdmin:
		return nil
	case user.RoleSeller:
		if o.HasSeller(actorID) || o.UserID == actorID {
			return nil
		}
		return ErrSellerNotInvolved
	default:
		if o.UserID == actorID {
			return nil
		}
		return ErrNotOrderOwner
	}
}

package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive       = errors.New("coupon is not active")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponNotYetValid    = errors.New("coupon is not yet valid")
	ErrBelowMinSubtotal     = errors.New("cart subtotal is below the coupon minimum")
	ErrUsageLimitReached    = errors.New("coupon usage limit reached")
	ErrPerUserLimitReached  = errors.New("coupon already used the maximum number of times")
	ErrNoApplicableItems    = errors.New("coupon does not apply to any item in the cart")
	ErrAlreadyRedeemed      = errors.New("coupon already redeemed for this order")
	ErrUsageAlreadyReversed = errors.New("coupon usage already reversed")
	ErrUsageNotFound        = errors.New("coupon usage not found")
)

type Coupon struct {
	id                   uuid.UUID
	code                 Code
	discount             Discount
	minSubtotal          decimal.Decimal
	usageLimit           *int
	perUserLimit         int
	validFrom            *time.Time
	validTo              *time.Time
	isActive             bool
	applicableProductIDs []uuid.UUID
	applicableSellerIDs  []uuid.UUID
}

type Params struct {
	ID                   uuid.UUID
	Code                 string
	DiscountType         DiscountType
	DiscountValue        decimal.Decimal
	MaxDiscount          *decimal.Decimal
	MinSubtotal          decimal.Decimal
	UsageLimit           *int
	PerUserLimit         int
	ValidFrom            *time.Time
	ValidTo              *time.Time
	IsActive             bool
	ApplicableProductIDs []uuid.UUID
	ApplicableSellerIDs  []uuid.UUID
}

func NewCoupon(p Params) (*Coupon, error) {
	code, err := NewCouponCode(p.Code)
	if err != nil {
		return nil, err
	}
	discount, err := NewDiscount(p.DiscountType, p.DiscountValue, p.MaxDiscount)
	if err != nil {
		return nil, err
	}
	perUser := p.PerUserLimit
	if perUser <= 0 {
		perUser = 1
	}
	return &Coupon{
		id:                   p.ID,
		code:                 code,
		discount:             discount,
		minSubtotal:          p.MinSubtotal,
		usageLimit:           p.UsageLimit,
		perUserLimit:         perUser,
		validFrom:            p.ValidFrom,
		validTo:              p.ValidTo,
		isActive:             p.IsActive,
		applicableProductIDs: p.ApplicableProductIDs,
		applicableSellerIDs:  p.ApplicableSellerIDs,
	}, nil
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if !c.IsValidAt(t) {
		if c.validFrom != nil && t.Before(*c.validFrom) {
			return ErrCouponNotYetValid
		}
		return ErrCouponExpired
	}
	return nil
}

// AppliesTo reports whether a line matches the product and seller
// restrictions. An empty restriction list matches everything.
func (c *Coupon) AppliesTo(productID, sellerID uuid.UUID) bool {
	return matches(c.applicableProductIDs, productID) && matches(c.applicableSellerIDs, sellerID)
}

func matches(ids []uuid.UUID, id uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type Line struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	SellerID  uuid.UUID
	LineTotal decimal.Decimal
}

// UsageCounts are active (non-reversed) redemptions.
type UsageCounts struct {
	Total   int
	ForUser int
}

type Evaluation struct {
	DiscountAmount  decimal.Decimal
	ApplicableItems []Line
}

// Evaluate checks eligibility and computes the discount without mutating
// anything.
func (c *Coupon) Evaluate(lines []Line, subtotal decimal.Decimal, usage UsageCounts, now time.Time) (Evaluation, error) {
	if err := c.ValidateUsage(now); err != nil {
		return Evaluation{}, err
	}
	if subtotal.LessThan(c.minSubtotal) {
		return Evaluation{}, ErrBelowMinSubtotal
	}
	if c.usageLimit != nil && usage.Total >= *c.usageLimit {
		return Evaluation{}, ErrUsageLimitReached
	}
	if usage.ForUser >= c.perUserLimit {
		return Evaluation{}, ErrPerUserLimitReached
	}

	applicable := make([]Line, 0, len(lines))
	applicableTotal := decimal.Zero
	for _, l := range lines {
		if c.AppliesTo(l.ProductID, l.SellerID) {
			applicable = append(applicable, l)
			applicableTotal = applicableTotal.Add(l.LineTotal)
		}
	}
	if len(applicable) == 0 {
		return Evaluation{}, ErrNoApplicableItems
	}

	return Evaluation{
		DiscountAmount:  c.discount.CalculateDiscountAmount(applicableTotal),
		ApplicableItems: applicable,
	}, nil
}

func (c *Coupon) ID() uuid.UUID                     { return c.id }
func (c *Coupon) Code() Code                        { return c.code }
func (c *Coupon) Discount() Discount                { return c.discount }
func (c *Coupon) MinSubtotal() decimal.Decimal      { return c.minSubtotal }
func (c *Coupon) UsageLimit() *int                  { return c.usageLimit }
func (c *Coupon) PerUserLimit() int                 { return c.perUserLimit }
func (c *Coupon) ValidFrom() *time.Time             { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time               { return c.validTo }
func (c *Coupon) IsActive() bool                    { return c.isActive }
func (c *Coupon) ApplicableProductIDs() []uuid.UUID { return c.applicableProductIDs }
func (c *Coupon) ApplicableSellerIDs() []uuid.UUID  { return c.applicableSellerIDs }

type UsageStatus string

const (
	UsageActive   UsageStatus = "active"
	UsageReversed UsageStatus = "reversed"
)

// Usage is one row of the redemption ledger, unique per (coupon, user, order).
type Usage struct {
	ID             uuid.UUID
	CouponID       uuid.UUID
	UserID         uuid.UUID
	OrderID        uuid.UUID
	DiscountAmount decimal.Decimal
	Status         UsageStatus
	CreatedAt      time.Time
	ReversedAt     *time.Time
}

func NewUsage(couponID, userID, orderID uuid.UUID, discount decimal.Decimal, now time.Time) Usage {
	return Usage{
		ID:             uuid.New(),
		CouponID:       couponID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount.Round(2),
		Status:         UsageActive,
		CreatedAt:      now,
	}
}

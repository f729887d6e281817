package commands

import (
	"context"
	"log/slog"

	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValidateCouponInput struct {
	Code      string
	UserID    uuid.UUID
	CartItems []coupon.Line
	Subtotal  decimal.Decimal
}

type CouponValidation struct {
	IsValid         bool
	Coupon          *coupon.Coupon
	DiscountAmount  decimal.Decimal
	ApplicableItems []coupon.Line
	Message         string
}

type CouponCommands interface {
	ValidateCoupon(ctx context.Context, in ValidateCouponInput) (*CouponValidation, error)
	RedeemCoupon(ctx context.Context, couponID, userID, orderID uuid.UUID, discount decimal.Decimal) error
	ReverseCoupon(ctx context.Context, couponID, userID, orderID uuid.UUID) error
}

type couponCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clk, logger: logger}
}

var couponMessages = map[error]string{
	coupon.ErrInvalidCouponCode:   "Invalid coupon code",
	coupon.ErrCouponInactive:      "Coupon is not active",
	coupon.ErrCouponExpired:       "Coupon has expired",
	coupon.ErrCouponNotYetValid:   "Coupon is not yet valid",
	coupon.ErrBelowMinSubtotal:    "Cart subtotal is below the coupon minimum",
	coupon.ErrUsageLimitReached:   "Coupon usage limit reached",
	coupon.ErrPerUserLimitReached: "You have already used this coupon",
	coupon.ErrNoApplicableItems:   "Coupon does not apply to any item in the cart",
}

func couponMessage(err error) string {
	for target, msg := range couponMessages {
		if errs.Is(err, target) {
			return msg
		}
	}
	return "Coupon is not valid"
}

// ValidateCoupon reports eligibility as a value. An ineligible coupon is not an
// error; only infrastructure failures are.
func (uc *couponCommandsImpl) ValidateCoupon(ctx context.Context, in ValidateCouponInput) (*CouponValidation, error) {
	code, err := coupon.NewCouponCode(in.Code)
	if err != nil {
		return &CouponValidation{Message: couponMessage(err), DiscountAmount: decimal.Zero}, nil
	}

	var result *CouponValidation
	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Coupons().FindByCode(ctx, code)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				result = &CouponValidation{Message: "Coupon not found", DiscountAmount: decimal.Zero}
				return nil
			}
			return err
		}
		usage, err := tx.Coupons().CountActiveUsages(ctx, c.ID(), in.UserID)
		if err != nil {
			return err
		}
		eval, err := c.Evaluate(in.CartItems, in.Subtotal, usage, uc.clock.Now())
		if err != nil {
			result = &CouponValidation{Coupon: c, Message: couponMessage(err), DiscountAmount: decimal.Zero}
			return nil
		}
		result = &CouponValidation{
			IsValid:         true,
			Coupon:          c,
			DiscountAmount:  eval.DiscountAmount,
			ApplicableItems: eval.ApplicableItems,
			Message:         "Coupon applied",
		}
		return nil
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to validate coupon")
	}
	return result, nil
}

func (uc *couponCommandsImpl) RedeemCoupon(ctx context.Context, couponID, userID, orderID uuid.UUID, discount decimal.Decimal) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Coupons().FindUsage(ctx, couponID, userID, orderID)
		if err != nil && errs.KindOf(err) != errs.KindNotFound {
			return err
		}
		if existing != nil {
			return errs.Conflict(coupon.ErrAlreadyRedeemed, "Coupon already redeemed for this order")
		}
		usage := coupon.NewUsage(couponID, userID, orderID, discount, uc.clock.Now())
		if err = tx.Coupons().InsertUsage(ctx, usage); err != nil {
			if errs.KindOf(err) == errs.KindConflict {
				return errs.Conflict(coupon.ErrAlreadyRedeemed, "Coupon already redeemed for this order")
			}
			return err
		}
		uc.logger.InfoContext(ctx, "coupon redeemed",
			slog.String("coupon_id", couponID.String()),
			slog.String("order_id", orderID.String()),
			slog.String("discount", usage.DiscountAmount.StringFixed(2)))
		return nil
	})
}

// ReverseCoupon flips an active usage to reversed. The conditional update is
// what makes a concurrent second reversal lose.
func (uc *couponCommandsImpl) ReverseCoupon(ctx context.Context, couponID, userID, orderID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Coupons().FindUsage(ctx, couponID, userID, orderID)
		if err != nil {
			if errs.KindOf(err) == errs.KindNotFound {
				return errs.NotFound(coupon.ErrUsageNotFound, "Coupon usage not found")
			}
			return err
		}
		if existing.Status == coupon.UsageReversed {
			return errs.Conflict(coupon.ErrUsageAlreadyReversed, "Coupon usage already reversed")
		}
		flipped, err := tx.Coupons().MarkUsageReversed(ctx, couponID, userID, orderID, uc.clock.Now())
		if err != nil {
			return err
		}
		if !flipped {
			return errs.Conflict(coupon.ErrUsageAlreadyReversed, "Coupon usage already reversed")
		}
		uc.logger.InfoContext(ctx, "coupon usage reversed",
			slog.String("coupon_id", couponID.String()),
			slog.String("order_id", orderID.String()))
		return nil
	})
}

// CartCouponLines derives coupon lines from a validated cart at the live
// catalog price, the same figures PlaceOrder discounts. Lines whose product is
// no longer known are left out.
func CartCouponLines(v *CheckoutValidation) ([]coupon.Line, decimal.Decimal) {
	lines := couponLines(buildLines(v.Cart, v.Current))
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	return lines, subtotal
}

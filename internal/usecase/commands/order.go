package commands

import (
	"context"
	"log/slog"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/user"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/saga"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceOrderInput struct {
	DeliveryAddressID uuid.UUID
	CouponCode        *string
	PaymentMethod     order.PaymentMethod
	Notes             *string
}

type OrderCommands interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, actorID uuid.UUID, role user.Role, reason string) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, actorID uuid.UUID, role user.Role, next order.Status) (*order.Order, error)
	UpdateRefundStatus(ctx context.Context, orderID uuid.UUID, role user.Role, next order.RefundStatus) (*order.Order, error)
}

type orderCommandsImpl struct {
	uow       shared.UnitOfWork
	carts     CartCommands
	coupons   CouponCommands
	addresses shared.AddressBook
	stock     shared.StockMutator
	shipping  shared.ShippingCalculator
	numbers   shared.OrderNumberGenerator
	breakdown shared.SellerBreakdownCalculator
	clock     clock.Clock
	taxRate   decimal.Decimal
	logger    *slog.Logger
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	carts CartCommands,
	coupons CouponCommands,
	addresses shared.AddressBook,
	stock shared.StockMutator,
	shipping shared.ShippingCalculator,
	numbers shared.OrderNumberGenerator,
	breakdown shared.SellerBreakdownCalculator,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) OrderCommands {
	return &orderCommandsImpl{
		uow:       uow,
		carts:     carts,
		coupons:   coupons,
		addresses: addresses,
		stock:     stock,
		shipping:  shipping,
		numbers:   numbers,
		breakdown: breakdown,
		clock:     clk,
		taxRate:   cfg.Checkout.TaxRate,
		logger:    logger,
	}
}

// PlaceOrder turns the user's cart into an order. Everything up to the order
// insert is read-only; from there on each write registers its undo until all
// stock has been taken.
func (uc *orderCommandsImpl) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*order.Order, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, errs.Validation(order.ErrUnknownPayMethod, "Unknown payment method")
	}

	checkout, err := uc.carts.ValidateCartForCheckout(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !checkout.Report.IsValid() {
		return nil, errs.BusinessRule(nil, "Cart is not ready for checkout").WithDetail(checkout.Report.Issues)
	}

	address, err := uc.addresses.FindAddress(ctx, in.DeliveryAddressID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.NotFound(err, "Delivery address not found")
		}
		return nil, errs.Fatal(err, "Failed to load delivery address")
	}
	if address == nil {
		return nil, errs.NotFound(nil, "Delivery address not found")
	}
	if address.UserID != userID {
		return nil, errs.Forbidden(nil, "Delivery address does not belong to user")
	}

	lines := buildLines(checkout.Cart, checkout.Current)
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.total)
	}

	var applied *CouponValidation
	if in.CouponCode != nil && *in.CouponCode != "" {
		applied, err = uc.coupons.ValidateCoupon(ctx, ValidateCouponInput{
			Code:      *in.CouponCode,
			UserID:    userID,
			CartItems: couponLines(lines),
			Subtotal:  subtotal,
		})
		if err != nil {
			return nil, err
		}
		if !applied.IsValid {
			return nil, errs.BusinessRule(nil, applied.Message)
		}
	}

	shippingFee, err := uc.shipping.CalculateShippingFee(ctx, shippingLines(lines), *address)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to calculate shipping")
	}
	discount := decimal.Zero
	var couponID *uuid.UUID
	if applied != nil {
		discount = applied.DiscountAmount
		id := applied.Coupon.ID()
		couponID = &id
	}
	amounts, err := order.CalculateAmounts(subtotal, uc.taxRate, shippingFee, discount)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to calculate order amounts")
	}

	number, err := uc.numbers.GenerateOrderNumber()
	if err != nil {
		return nil, errs.Fatal(err, "Failed to generate order number")
	}

	now := uc.clock.Now()
	o, err := order.NewOrder(order.NewOrderParams{
		OrderNumber:       number,
		UserID:            userID,
		DeliveryAddressID: address.ID,
		CouponID:          couponID,
		PaymentMethod:     in.PaymentMethod,
		Amounts:           amounts,
		Notes:             in.Notes,
	}, now)
	if err != nil {
		return nil, errs.Validation(err, "Invalid order")
	}
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		it, err := order.NewItem(o.ID, l.productID, l.variantID, l.sellerID, l.quantity, l.snapshot, now)
		if err != nil {
			return nil, errs.Validation(err, "Invalid order item")
		}
		items = append(items, it)
	}

	sg := saga.New("place_order", uc.logger)
	if err = uc.persistOrder(ctx, sg, o, items); err != nil {
		return nil, uc.abort(ctx, sg, o, err, "Failed to create order")
	}
	for _, it := range items {
		update := shared.StockUpdate{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Operation: shared.StockDecrement,
		}
		// Stock taken for earlier lines is not given back on failure.
		if err = uc.stock.UpdateStock(ctx, update); err != nil {
			msg := "Failed to reserve stock"
			if errs.Is(err, shared.ErrInsufficientStock) {
				msg = "Insufficient stock"
			}
			err = errs.Fatal(err, msg).WithDetail(map[string]string{
				"product_id": it.ProductID.String(),
			})
			return nil, uc.abort(ctx, sg, o, err, msg)
		}
	}
	sg.Forget()

	if applied != nil {
		err = uc.coupons.RedeemCoupon(ctx, applied.Coupon.ID(), userID, o.ID, discount)
		if err != nil {
			uc.logHalfFinished(ctx, o, "coupon_redeem", err)
			return nil, errs.Fatal(err, "Failed to redeem coupon")
		}
	}
	if err = uc.carts.ClearCart(ctx, userID); err != nil {
		uc.logHalfFinished(ctx, o, "cart_clear", err)
		return nil, errs.Fatal(err, "Failed to clear cart")
	}

	uc.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", o.ID.String()),
		slog.String("order_number", o.OrderNumber),
		slog.String("user_id", userID.String()),
		slog.String("final_amount", o.Amounts.FinalAmount.StringFixed(2)))
	return o, nil
}

func (uc *orderCommandsImpl) persistOrder(ctx context.Context, sg *saga.Saga, o *order.Order, items []order.Item) error {
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
	if err != nil {
		return err
	}
	sg.Push("delete order", func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().Delete(ctx, o.ID)
		})
	})

	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().CreateItems(ctx, items)
	})
	if err != nil {
		return err
	}
	sg.Push("delete order items", func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().DeleteItems(ctx, o.ID)
		})
	})

	breakdown := uc.breakdown.Calculate(items)
	now := uc.clock.Now()
	if err = o.Finalize(items, breakdown, now); err != nil {
		return err
	}
	return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().SaveBreakdown(ctx, o.ID, o.SellerBreakdown, now)
	})
}

func (uc *orderCommandsImpl) abort(ctx context.Context, sg *saga.Saga, o *order.Order, cause error, msg string) error {
	uc.logger.ErrorContext(ctx, "order placement failed, compensating",
		slog.String("order_id", o.ID.String()),
		slog.Int("steps", sg.Len()),
		slog.String("error", cause.Error()))
	if compErr := sg.Compensate(ctx); compErr != nil {
		return errs.Fatal(errs.Join(cause, compErr), msg)
	}
	// Typed causes already carry the client message.
	if _, ok := errs.AsError(cause); ok {
		return cause
	}
	return errs.Fatal(cause, msg)
}

func (uc *orderCommandsImpl) logHalfFinished(ctx context.Context, o *order.Order, step string, err error) {
	uc.logger.ErrorContext(ctx, "order left half-finished",
		slog.String("order_id", o.ID.String()),
		slog.String("order_number", o.OrderNumber),
		slog.String("step", step),
		slog.String("error", err.Error()))
}

// CancelOrder commits the status change first and then returns stock and the
// coupon. Those follow-ups are logged on failure and never undo the cancel.
func (uc *orderCommandsImpl) CancelOrder(ctx context.Context, orderID, actorID uuid.UUID, role user.Role, reason string) (*order.Order, error) {
	o, err := shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*order.Order, error) {
		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if err = o.CheckAccess(actorID, role); err != nil {
			return nil, errs.Forbidden(err, "Not allowed to cancel this order")
		}
		if err = o.Cancel(reason, uc.clock.Now()); err != nil {
			return nil, errs.BusinessRule(err, "Order can no longer be cancelled")
		}
		if err = tx.Orders().UpdateState(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil {
		return nil, err
	}

	for _, it := range o.Items {
		err = uc.stock.UpdateStock(ctx, shared.StockUpdate{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Operation: shared.StockIncrement,
		})
		if err != nil {
			uc.logger.ErrorContext(ctx, "failed to restore stock",
				slog.String("order_id", o.ID.String()),
				slog.String("product_id", it.ProductID.String()),
				slog.String("error", err.Error()))
		}
	}
	if o.CouponID != nil {
		err = uc.coupons.ReverseCoupon(ctx, *o.CouponID, o.UserID, o.ID)
		if err != nil && errs.KindOf(err) != errs.KindNotFound {
			uc.logger.ErrorContext(ctx, "failed to reverse coupon usage",
				slog.String("order_id", o.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	uc.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", o.ID.String()),
		slog.String("actor_id", actorID.String()),
		slog.String("role", role.String()),
		slog.String("refund_status", string(o.RefundStatus)))
	return o, nil
}

func (uc *orderCommandsImpl) UpdateOrderStatus(ctx context.Context, orderID, actorID uuid.UUID, role user.Role, next order.Status) (*order.Order, error) {
	if role != user.RoleSeller && role != user.RoleAdmin {
		return nil, errs.Forbidden(nil, "Only sellers and admins can update order status")
	}
	if !next.IsValid() {
		return nil, errs.Validation(nil, "Unknown order status")
	}
	if next == order.StatusCancelled {
		return nil, errs.Validation(nil, "Use the cancel endpoint to cancel an order")
	}
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*order.Order, error) {
		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if role == user.RoleSeller && !o.HasSeller(actorID) {
			return nil, errs.Forbidden(order.ErrSellerNotInvolved, "Order has no items from this seller")
		}
		from := o.Status
		if err = o.TransitionTo(next, uc.clock.Now()); err != nil {
			return nil, errs.BusinessRule(err, "Illegal order status transition")
		}
		if err = tx.Orders().UpdateState(ctx, o); err != nil {
			return nil, err
		}
		uc.logger.InfoContext(ctx, "order status updated",
			slog.String("order_id", o.ID.String()),
			slog.String("from", string(from)),
			slog.String("to", string(next)))
		return o, nil
	})
}

func (uc *orderCommandsImpl) UpdateRefundStatus(ctx context.Context, orderID uuid.UUID, role user.Role, next order.RefundStatus) (*order.Order, error) {
	if role != user.RoleAdmin {
		return nil, errs.Forbidden(nil, "Only admins can update refund status")
	}
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*order.Order, error) {
		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if err = o.TransitionRefund(next, uc.clock.Now()); err != nil {
			return nil, errs.BusinessRule(err, "Illegal refund status transition")
		}
		if err = tx.Orders().UpdateState(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	})
}

func orderLookupError(err error) error {
	if errs.KindOf(err) == errs.KindNotFound {
		return errs.NotFound(err, "Order not found")
	}
	return err
}

// placementLine is a cart line priced at the live catalog state.
type placementLine struct {
	productID uuid.UUID
	variantID *uuid.UUID
	sellerID  uuid.UUID
	quantity  int
	snapshot  order.ItemSnapshot
	total     decimal.Decimal
}

func buildLines(c *cart.Cart, current map[cart.LineKey]cart.CurrentProduct) []placementLine {
	items := c.Items()
	lines := make([]placementLine, 0, len(items))
	for _, it := range items {
		cp, ok := current[it.Key()]
		if !ok {
			continue
		}
		price := cp.Price.EffectivePrice()
		lines = append(lines, placementLine{
			productID: it.ProductID,
			variantID: it.VariantID,
			sellerID:  cp.SellerID,
			quantity:  it.Quantity,
			snapshot: order.ItemSnapshot{
				Price:     price,
				Currency:  cp.Price.Currency,
				Title:     cp.Title,
				Thumbnail: cp.Thumbnail,
			},
			total: price.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2),
		})
	}
	return lines
}

func couponLines(lines []placementLine) []coupon.Line {
	out := make([]coupon.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, coupon.Line{
			ProductID: l.productID,
			VariantID: l.variantID,
			SellerID:  l.sellerID,
			LineTotal: l.total,
		})
	}
	return out
}

func shippingLines(lines []placementLine) []shared.ShippingLine {
	out := make([]shared.ShippingLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, shared.ShippingLine{
			ProductID: l.productID,
			SellerID:  l.sellerID,
			Quantity:  l.quantity,
			LineTotal: l.total,
		})
	}
	return out
}

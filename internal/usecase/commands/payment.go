package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/pkg/ptr"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type InitiatePaymentInput struct {
	OrderID       uuid.UUID
	PaymentMethod order.PaymentMethod
	Currency      string
}

type PaymentResult struct {
	Payment      *payment.Payment
	ClientSecret *string
	IsReplayed   bool
}

type GatewayEventResult struct {
	Type    string
	Handled bool
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, userID uuid.UUID, in InitiatePaymentInput) (*PaymentResult, error)
	ConfirmStripePayment(ctx context.Context, gatewayPaymentID string, userID uuid.UUID) (*payment.Payment, error)
	ConfirmCashOnDelivery(ctx context.Context, userID, orderID uuid.UUID) (*payment.Payment, error)
	HandleGatewayEvent(ctx context.Context, payload []byte, signature string) (*GatewayEventResult, error)
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  shared.CardGateway
	verifier shared.WebhookVerifier
	keys     shared.KeyStore
	wallets  WalletLedger
	clock    clock.Clock
	cfg      config.Config
	logger   *slog.Logger
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway shared.CardGateway,
	verifier shared.WebhookVerifier,
	keys shared.KeyStore,
	wallets WalletLedger,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		verifier: verifier,
		keys:     keys,
		wallets:  wallets,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

// InitiatePayment is idempotent per (order, user) for the key TTL: a replay
// returns the stored payment without touching the gateway or the wallet.
func (uc *paymentCommandsImpl) InitiatePayment(ctx context.Context, userID uuid.UUID, in InitiatePaymentInput) (*PaymentResult, error) {
	key := payment.IdempotencyKey(in.OrderID, userID)
	stored, found, err := uc.keys.GetKey(ctx, key)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to check idempotency key")
	}
	if found {
		var p payment.Payment
		if err = json.Unmarshal([]byte(stored), &p); err != nil {
			return nil, errs.Fatal(err, "Corrupt idempotency record")
		}
		return &PaymentResult{Payment: &p, IsReplayed: true}, nil
	}

	var o *order.Order
	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		o, err = tx.Orders().FindByID(ctx, in.OrderID)
		return err
	})
	if err != nil {
		return nil, orderLookupError(err)
	}
	if err = checkPayable(o, userID); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = uc.cfg.Wallet.Currency
	}

	var result *PaymentResult
	switch in.PaymentMethod {
	case order.MethodCard:
		result, err = uc.payByCard(ctx, o, currency)
	case order.MethodWallet:
		result, err = uc.payByWallet(ctx, o, currency)
	case order.MethodCOD:
		return nil, errs.Validation(nil, "Cash on delivery is handled by a separate endpoint")
	default:
		return nil, errs.Validation(order.ErrUnknownPayMethod, "Unsupported payment method")
	}
	if err != nil {
		return nil, err
	}

	record, err := json.Marshal(result.Payment)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to encode payment")
	}
	if err = uc.keys.SetKey(ctx, key, string(record), uc.cfg.Payment.IdempotencyTTL); err != nil {
		uc.logger.ErrorContext(ctx, "payment recorded without idempotency key",
			slog.String("order_id", o.ID.String()),
			slog.String("payment_id", result.Payment.ID.String()),
			slog.String("error", err.Error()))
		return nil, errs.Fatal(err, "Failed to store idempotency key").
			WithDetail(map[string]string{"payment_id": result.Payment.ID.String()})
	}
	return result, nil
}

func checkPayable(o *order.Order, userID uuid.UUID) error {
	if o.UserID != userID {
		return errs.Forbidden(order.ErrNotOrderOwner, "Order does not belong to user")
	}
	if o.Status != order.StatusConfirmed {
		return errs.BusinessRule(nil, "Order is not ready for payment").
			WithDetail(map[string]string{"order_status": string(o.Status)})
	}
	if o.PaymentStatus != order.PaymentPending {
		return errs.BusinessRule(payment.ErrAlreadyPaid, "Order payment is not pending").
			WithDetail(map[string]string{"payment_status": string(o.PaymentStatus)})
	}
	return nil
}

func (uc *paymentCommandsImpl) payByCard(ctx context.Context, o *order.Order, currency string) (*PaymentResult, error) {
	p := payment.NewPending(o.ID, o.UserID, order.MethodCard, o.Amounts.FinalAmount, currency, uc.clock.Now())
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().Create(ctx, p)
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to create payment")
	}

	intent, err := uc.gateway.CreatePaymentIntent(ctx, p.Amount, currency, map[string]string{
		"payment_id": p.ID.String(),
		"order_id":   o.ID.String(),
		"user_id":    o.UserID.String(),
	})
	if err != nil {
		uc.markFailed(ctx, p, err)
		return nil, errs.Fatal(err, "Failed to create payment intent")
	}

	now := uc.clock.Now()
	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().SetGatewayPaymentID(ctx, p.ID, intent.ID, now)
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to store gateway payment id")
	}
	p.GatewayPaymentID = &intent.ID
	p.UpdatedAt = now

	uc.logger.InfoContext(ctx, "card payment initiated",
		slog.String("payment_id", p.ID.String()),
		slog.String("order_id", o.ID.String()),
		slog.String("gateway_payment_id", intent.ID))
	secret := intent.ClientSecret
	return &PaymentResult{Payment: p, ClientSecret: &secret}, nil
}

func (uc *paymentCommandsImpl) markFailed(ctx context.Context, p *payment.Payment, cause error) {
	p.Status = payment.StatusFailed
	p.FailureReason = ptr.To(cause.Error())
	p.UpdatedAt = uc.clock.Now()
	err := uc.uow.WithDB(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().UpdateStatus(ctx, p)
	})
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to mark payment failed",
			slog.String("payment_id", p.ID.String()),
			slog.String("error", err.Error()))
	}
}

// payByWallet debits, records the payment and settles the order in one
// transaction.
func (uc *paymentCommandsImpl) payByWallet(ctx context.Context, o *order.Order, currency string) (*PaymentResult, error) {
	amount := o.Amounts.FinalAmount
	if !amount.IsPositive() {
		return nil, errs.BusinessRule(nil, "Nothing to pay")
	}
	w, err := uc.wallets.GetOrCreateWallet(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	if shortfall := w.Shortfall(amount); shortfall.IsPositive() {
		return nil, errs.BusinessRule(wallet.ErrInsufficientBalance, "Insufficient wallet balance").
			WithDetail(shortfallDetail(w, amount))
	}

	p, err := shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*payment.Payment, error) {
		locked, err := tx.Orders().FindByIDForUpdate(ctx, o.ID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if err = checkPayable(locked, o.UserID); err != nil {
			return nil, err
		}

		if _, err = debitWallet(ctx, tx, uc.cfg.Wallet.Currency, uc.clock, WalletMutationInput{
			UserID:      o.UserID,
			Amount:      amount,
			Source:      wallet.SourceOrderPayment,
			ReferenceID: ptr.To(o.ID.String()),
			Description: ptr.To("Payment for order " + o.OrderNumber),
		}); err != nil {
			return nil, err
		}

		now := uc.clock.Now()
		p := payment.NewPaid(o.ID, o.UserID, order.MethodWallet, amount, currency, now)
		if err = tx.Payments().Create(ctx, p); err != nil {
			return nil, err
		}
		if err = locked.MarkPaid(p.ID, now); err != nil {
			return nil, errs.BusinessRule(err, "Order payment is not pending")
		}
		locked.PaymentMethod = order.MethodWallet
		if err = tx.Orders().UpdateState(ctx, locked); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "wallet payment completed",
		slog.String("payment_id", p.ID.String()),
		slog.String("order_id", o.ID.String()),
		slog.String("amount", amount.StringFixed(2)))
	return &PaymentResult{Payment: p}, nil
}

func (uc *paymentCommandsImpl) ConfirmStripePayment(ctx context.Context, gatewayPaymentID string, userID uuid.UUID) (*payment.Payment, error) {
	var p *payment.Payment
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		p, err = tx.Payments().FindByGatewayPaymentID(ctx, gatewayPaymentID)
		return err
	})
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.NotFound(err, "Payment not found")
		}
		return nil, errs.Fatal(err, "Failed to load payment")
	}
	if p.UserID != userID {
		return nil, errs.Forbidden(nil, "Payment does not belong to user")
	}
	if p.Status == payment.StatusPaid {
		return p, nil
	}

	intent, err := uc.gateway.ConfirmPaymentIntent(ctx, gatewayPaymentID)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to fetch payment intent")
	}
	if intent.Status != payment.IntentSucceeded {
		return nil, errs.BusinessRule(payment.ErrIntentNotComplete, "Payment has not succeeded").
			WithDetail(map[string]string{"status": string(intent.Status)})
	}

	p, err = shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*payment.Payment, error) {
		current, err := tx.Payments().FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == payment.StatusPaid {
			return current, nil
		}
		now := uc.clock.Now()
		if err = current.MarkPaid(now); err != nil {
			return nil, errs.Conflict(err, "Payment already completed")
		}
		if err = tx.Payments().UpdateStatus(ctx, current); err != nil {
			return nil, err
		}
		o, err := tx.Orders().FindByIDForUpdate(ctx, current.OrderID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if err = o.MarkPaid(current.ID, now); err != nil {
			return nil, errs.BusinessRule(err, "Order payment is not pending")
		}
		if err = tx.Orders().UpdateState(ctx, o); err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	if err = uc.keys.DeleteKey(ctx, payment.IdempotencyKey(p.OrderID, userID)); err != nil {
		uc.logger.WarnContext(ctx, "failed to delete payment idempotency key",
			slog.String("order_id", p.OrderID.String()),
			slog.String("error", err.Error()))
	}
	uc.logger.InfoContext(ctx, "card payment confirmed",
		slog.String("payment_id", p.ID.String()),
		slog.String("order_id", p.OrderID.String()))
	return p, nil
}

// ConfirmCashOnDelivery records a pending COD payment and confirms the order.
// The cash is collected at delivery, so nothing is settled here.
func (uc *paymentCommandsImpl) ConfirmCashOnDelivery(ctx context.Context, userID, orderID uuid.UUID) (*payment.Payment, error) {
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*payment.Payment, error) {
		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return nil, orderLookupError(err)
		}
		if o.UserID != userID {
			return nil, errs.Forbidden(order.ErrNotOrderOwner, "Order does not belong to user")
		}
		if o.PaymentStatus != order.PaymentPending {
			return nil, errs.BusinessRule(nil, "Order payment is not pending")
		}
		if o.PaymentMethod == order.MethodCOD && o.PaymentID != nil {
			return nil, errs.Conflict(nil, "Cash on delivery already confirmed")
		}

		now := uc.clock.Now()
		if o.Status == order.StatusPending {
			if err = o.TransitionTo(order.StatusConfirmed, now); err != nil {
				return nil, errs.BusinessRule(err, "Order cannot be confirmed")
			}
		} else if o.Status != order.StatusConfirmed {
			return nil, errs.BusinessRule(nil, "Order is not awaiting payment")
		}

		p := payment.NewPending(o.ID, userID, order.MethodCOD, o.Amounts.FinalAmount, uc.cfg.Wallet.Currency, now)
		if err = tx.Payments().Create(ctx, p); err != nil {
			return nil, err
		}
		o.PaymentMethod = order.MethodCOD
		o.PaymentID = &p.ID
		if err = tx.Orders().UpdateState(ctx, o); err != nil {
			return nil, err
		}
		uc.logger.InfoContext(ctx, "cash on delivery confirmed",
			slog.String("order_id", o.ID.String()),
			slog.String("payment_id", p.ID.String()))
		return p, nil
	})
}

func (uc *paymentCommandsImpl) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) (*GatewayEventResult, error) {
	event, err := uc.verifier.ParseEvent(payload, signature)
	if err != nil {
		return nil, errs.Validation(err, "Invalid webhook signature")
	}
	result := &GatewayEventResult{Type: event.Type}
	if event.Type != shared.GatewayEventPaymentSucceeded || event.Metadata["purpose"] != shared.GatewayPurposeWalletTopUp {
		uc.logger.DebugContext(ctx, "gateway event ignored",
			slog.String("type", event.Type),
			slog.String("intent_id", event.IntentID))
		return result, nil
	}

	if _, err = uc.wallets.ConfirmWalletTopUp(ctx, event.IntentID); err != nil {
		// A redelivery after a successful credit finds no session.
		if errs.KindOf(err) == errs.KindNotFound {
			uc.logger.InfoContext(ctx, "top-up already confirmed",
				slog.String("intent_id", event.IntentID))
			return result, nil
		}
		return nil, err
	}
	result.Handled = true
	return result, nil
}

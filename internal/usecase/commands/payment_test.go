//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInitiatePayment_CardIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	o := f.confirmedOrder(t, "493")

	f.gateway.EXPECT().
		CreatePaymentIntent(gomock.Any(), dec("493"), "INR", gomock.Any()).
		Return(payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: payment.IntentRequiresPaymentMethod}, nil).
		Times(1)

	in := commands.InitiatePaymentInput{OrderID: o.ID, PaymentMethod: order.MethodCard}
	first, err := f.payments.InitiatePayment(ctx, f.buyer, in)
	require.NoError(t, err)
	assert.False(t, first.IsReplayed)
	require.NotNil(t, first.ClientSecret)
	assert.Equal(t, "pi_123_secret", *first.ClientSecret)
	require.NotNil(t, first.Payment.GatewayPaymentID)
	assert.Equal(t, "pi_123", *first.Payment.GatewayPaymentID)
	assert.Equal(t, payment.StatusPending, first.Payment.Status)

	key := "test:" + payment.IdempotencyKey(o.ID, f.buyer)
	assert.Equal(t, f.cfg.Payment.IdempotencyTTL, f.redis.TTL(key))

	second, err := f.payments.InitiatePayment(ctx, f.buyer, in)
	require.NoError(t, err)
	assert.True(t, second.IsReplayed)
	assert.Nil(t, second.ClientSecret, "the secret is never stored")
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Len(t, f.store.Payments(), 1)

	// After the key expires a new attempt reaches the gateway again.
	f.redis.FastForward(f.cfg.Payment.IdempotencyTTL)
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_456", ClientSecret: "pi_456_secret"}, nil)
	third, err := f.payments.InitiatePayment(ctx, f.buyer, in)
	require.NoError(t, err)
	assert.False(t, third.IsReplayed)
	assert.NotEqual(t, first.Payment.ID, third.Payment.ID)
}

func TestInitiatePayment_GatewayFailureMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	o := f.confirmedOrder(t, "100")
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payment.Intent{}, errors.New("card_declined"))

	_, err := f.payments.InitiatePayment(t.Context(), f.buyer, commands.InitiatePaymentInput{
		OrderID: o.ID, PaymentMethod: order.MethodCard,
	})
	assert.Equal(t, errs.KindFatal, errs.KindOf(err))

	payments := f.store.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, payment.StatusFailed, payments[0].Status)
	require.NotNil(t, payments[0].FailureReason)
	assert.False(t, f.redis.Exists("test:"+payment.IdempotencyKey(o.ID, f.buyer)), "failures are not cached")
}

func TestInitiatePayment_IdempotencyKeyWriteFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	o := f.confirmedOrder(t, "100")
	// Redis goes away after the key lookup but before the key is written.
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ decimal.Decimal, _ string, _ map[string]string) (payment.Intent, error) {
			f.redis.SetError("LOADING redis is loading the dataset")
			return payment.Intent{ID: "pi_789", ClientSecret: "pi_789_secret"}, nil
		})

	result, err := f.payments.InitiatePayment(t.Context(), f.buyer, commands.InitiatePaymentInput{
		OrderID: o.ID, PaymentMethod: order.MethodCard,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, errs.KindFatal, errs.KindOf(err))

	payments := f.store.Payments()
	require.Len(t, payments, 1)
	appErr, ok := errs.AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"payment_id": payments[0].ID.String()}, appErr.Detail)
}

func TestInitiatePayment_Wallet(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	o := f.confirmedOrder(t, "300")
	f.credit(t, f.buyer, "500")

	in := commands.InitiatePaymentInput{OrderID: o.ID, PaymentMethod: order.MethodWallet}
	res, err := f.payments.InitiatePayment(ctx, f.buyer, in)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, res.Payment.Status)
	assert.Nil(t, res.ClientSecret)

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, order.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, order.MethodWallet, stored.PaymentMethod)
	require.NotNil(t, stored.PaymentID)
	assert.Equal(t, res.Payment.ID, *stored.PaymentID)

	w, _ := f.store.Wallet(f.buyer)
	assert.True(t, dec("200").Equal(w.Balance))

	replay, err := f.payments.InitiatePayment(ctx, f.buyer, in)
	require.NoError(t, err)
	assert.True(t, replay.IsReplayed)
	w, _ = f.store.Wallet(f.buyer)
	assert.True(t, dec("200").Equal(w.Balance), "a replay never debits twice")
}

func TestInitiatePayment_WalletShortfall(t *testing.T) {
	f := newFixture(t)
	o := f.confirmedOrder(t, "300")
	f.credit(t, f.buyer, "120")

	_, err := f.payments.InitiatePayment(t.Context(), f.buyer, commands.InitiatePaymentInput{
		OrderID: o.ID, PaymentMethod: order.MethodWallet,
	})
	require.Equal(t, errs.KindBusinessRule, errs.KindOf(err))
	appErr, _ := errs.AsError(err)
	assert.Equal(t, "180.00", appErr.Detail.(map[string]string)["shortfall"])

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, order.PaymentPending, stored.PaymentStatus)
	assert.Empty(t, f.store.Payments())
}

func TestInitiatePayment_Rejections(t *testing.T) {
	f := newFixture(t)
	confirmed := f.confirmedOrder(t, "100")

	pending, err := order.NewOrder(order.NewOrderParams{
		OrderNumber: "ORD-20250314-PENDINGPEN", UserID: f.buyer, PaymentMethod: order.MethodCard,
	}, testNow)
	require.NoError(t, err)
	f.store.PutOrder(pending)

	cases := []struct {
		name   string
		userID uuid.UUID
		in     commands.InitiatePaymentInput
		kind   errs.Kind
	}{
		{name: "missing order", userID: f.buyer, in: commands.InitiatePaymentInput{OrderID: uuid.New(), PaymentMethod: order.MethodCard}, kind: errs.KindNotFound},
		{name: "not the owner", userID: uuid.New(), in: commands.InitiatePaymentInput{OrderID: confirmed.ID, PaymentMethod: order.MethodCard}, kind: errs.KindForbidden},
		{name: "order not confirmed", userID: f.buyer, in: commands.InitiatePaymentInput{OrderID: pending.ID, PaymentMethod: order.MethodCard}, kind: errs.KindBusinessRule},
		{name: "cod goes through its own endpoint", userID: f.buyer, in: commands.InitiatePaymentInput{OrderID: confirmed.ID, PaymentMethod: order.MethodCOD}, kind: errs.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.payments.InitiatePayment(t.Context(), tc.userID, tc.in)
			assert.Equal(t, tc.kind, errs.KindOf(err))
		})
	}
}

func TestConfirmStripePayment(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	o := f.confirmedOrder(t, "250")
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_c", ClientSecret: "s"}, nil)
	_, err := f.payments.InitiatePayment(ctx, f.buyer, commands.InitiatePaymentInput{OrderID: o.ID, PaymentMethod: order.MethodCard})
	require.NoError(t, err)

	_, err = f.payments.ConfirmStripePayment(ctx, "pi_c", uuid.New())
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	f.gateway.EXPECT().ConfirmPaymentIntent(gomock.Any(), "pi_c").
		Return(payment.Intent{ID: "pi_c", Status: payment.IntentProcessing}, nil)
	_, err = f.payments.ConfirmStripePayment(ctx, "pi_c", f.buyer)
	assert.Equal(t, errs.KindBusinessRule, errs.KindOf(err))

	f.gateway.EXPECT().ConfirmPaymentIntent(gomock.Any(), "pi_c").
		Return(payment.Intent{ID: "pi_c", Status: payment.IntentSucceeded}, nil)
	p, err := f.payments.ConfirmStripePayment(ctx, "pi_c", f.buyer)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, p.Status)
	assert.False(t, f.redis.Exists("test:"+payment.IdempotencyKey(o.ID, f.buyer)))

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, order.PaymentPaid, stored.PaymentStatus)

	// Already paid: answered locally without another gateway call.
	again, err := f.payments.ConfirmStripePayment(ctx, "pi_c", f.buyer)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	_, err = f.payments.ConfirmStripePayment(ctx, "pi_unknown", f.buyer)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestConfirmCashOnDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.addToCart(t, f.product(uuid.New(), "100", 2), 1)
	o := f.placeOrder(t, order.MethodCOD, nil)

	_, err := f.payments.ConfirmCashOnDelivery(ctx, uuid.New(), o.ID)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	p, err := f.payments.ConfirmCashOnDelivery(ctx, f.buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.MethodCOD, p.Method)
	assert.Equal(t, payment.StatusPending, p.Status)
	assert.True(t, o.Amounts.FinalAmount.Equal(p.Amount))

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, order.StatusConfirmed, stored.Status)
	assert.Equal(t, order.PaymentPending, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentID)
	assert.Equal(t, p.ID, *stored.PaymentID)

	_, err = f.payments.ConfirmCashOnDelivery(ctx, f.buyer, o.ID)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestHandleGatewayEvent(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_wh", ClientSecret: "s"}, nil)
	_, err := f.wallets.TopUpWallet(ctx, f.buyer, commands.TopUpInput{Amount: dec("60")})
	require.NoError(t, err)

	succeeded := shared.GatewayEvent{
		Type:     shared.GatewayEventPaymentSucceeded,
		IntentID: "pi_wh",
		Metadata: map[string]string{"purpose": shared.GatewayPurposeWalletTopUp, "user_id": f.buyer.String()},
	}
	payload := []byte(`{"id":"evt_1"}`)
	f.verifier.EXPECT().ParseEvent(payload, "t=1,v1=sig").Return(succeeded, nil).Times(2)

	res, err := f.payments.HandleGatewayEvent(ctx, payload, "t=1,v1=sig")
	require.NoError(t, err)
	assert.True(t, res.Handled)

	// Redelivery acknowledges without crediting again.
	res, err = f.payments.HandleGatewayEvent(ctx, payload, "t=1,v1=sig")
	require.NoError(t, err)
	assert.False(t, res.Handled)
	w, _ := f.store.Wallet(f.buyer)
	assert.True(t, dec("60").Equal(w.Balance))

	t.Run("bad signature", func(t *testing.T) {
		f.verifier.EXPECT().ParseEvent(gomock.Any(), "forged").Return(shared.GatewayEvent{}, errors.New("signature mismatch"))
		_, err := f.payments.HandleGatewayEvent(ctx, payload, "forged")
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("unrelated event", func(t *testing.T) {
		f.verifier.EXPECT().ParseEvent(gomock.Any(), "other").
			Return(shared.GatewayEvent{Type: "charge.refunded", IntentID: "pi_x"}, nil)
		res, err := f.payments.HandleGatewayEvent(ctx, payload, "other")
		require.NoError(t, err)
		assert.False(t, res.Handled)
		assert.Equal(t, "charge.refunded", res.Type)
	})
}

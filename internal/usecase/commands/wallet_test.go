//go:build unit

package commands_test

import (
	"errors"
	"sync"
	"testing"

	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func (f *fixture) credit(t *testing.T, userID uuid.UUID, amount string) {
	t.Helper()
	_, err := f.wallets.CreditWallet(t.Context(), commands.WalletMutationInput{
		UserID: userID,
		Amount: dec(amount),
		Source: wallet.SourceAdminCredit,
	})
	require.NoError(t, err)
}

func TestWalletLedger_CreditDebit(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	w, err := f.wallets.GetOrCreateWallet(ctx, f.buyer)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, "INR", w.Currency)

	f.credit(t, f.buyer, "500")
	tx, err := f.wallets.DebitWallet(ctx, commands.WalletMutationInput{
		UserID: f.buyer,
		Amount: dec("120.50"),
		Source: wallet.SourceOrderPayment,
	})
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeDebit, tx.Type)
	assert.True(t, dec("500").Equal(tx.BalanceBefore))
	assert.True(t, dec("379.50").Equal(tx.BalanceAfter))

	summary, err := f.wallets.GetWalletSummary(ctx, f.buyer)
	require.NoError(t, err)
	assert.True(t, dec("379.50").Equal(summary.Balance))
	assert.True(t, dec("500").Equal(summary.TotalCredited))
	assert.True(t, dec("120.50").Equal(summary.TotalDebited))
	assert.EqualValues(t, 2, summary.TransactionCount)

	page, err := f.wallets.ListTransactions(ctx, f.buyer, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, wallet.TypeDebit, page.Items[0].Type, "newest first")
}

func TestWalletLedger_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.credit(t, f.buyer, "100")

	_, err := f.wallets.DebitWallet(ctx, commands.WalletMutationInput{
		UserID: f.buyer, Amount: dec("100.01"), Source: wallet.SourceOrderPayment,
	})
	require.Equal(t, errs.KindBusinessRule, errs.KindOf(err))
	appErr, ok := errs.AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"required": "100.01", "available": "100.00", "shortfall": "0.01"}, appErr.Detail)

	_, err = f.wallets.CreditWallet(ctx, commands.WalletMutationInput{
		UserID: f.buyer, Amount: dec("0.001"), Source: wallet.SourceAdminCredit,
	})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	_, err = f.wallets.CreditWallet(ctx, commands.WalletMutationInput{
		UserID: f.buyer, Amount: dec("99950"), Source: wallet.SourceAdminCredit,
	})
	assert.Equal(t, errs.KindBusinessRule, errs.KindOf(err), "balance cap")

	w, ok := f.store.Wallet(f.buyer)
	require.True(t, ok)
	assert.True(t, dec("100").Equal(w.Balance), "rejected mutations leave no trace")
	assert.Len(t, f.store.WalletTransactions(w.ID), 1)
}

func TestWalletLedger_RollsBackOnLedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.credit(t, f.buyer, "50")
	f.store.FailOn("wallets.append_transaction", errors.New("disk full"))

	_, err := f.wallets.DebitWallet(t.Context(), commands.WalletMutationInput{
		UserID: f.buyer, Amount: dec("20"), Source: wallet.SourceOrderPayment,
	})
	require.Error(t, err)

	w, _ := f.store.Wallet(f.buyer)
	assert.True(t, dec("50").Equal(w.Balance), "balance update is rolled back with the ledger row")
}

// Balance always equals the replayed sum of the ledger, and concurrent debits
// never overdraw.
func TestWalletLedger_ConcurrentDebitsConserveBalance(t *testing.T) {
	f := newFixture(t)
	f.credit(t, f.buyer, "100")

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.wallets.DebitWallet(t.Context(), commands.WalletMutationInput{
				UserID: f.buyer, Amount: dec("10"), Source: wallet.SourceOrderPayment,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.Equal(t, errs.KindBusinessRule, errs.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	w, ok := f.store.Wallet(f.buyer)
	require.True(t, ok)
	assert.True(t, w.Balance.IsZero())
	assert.True(t, wallet.Replay(f.store.WalletTransactions(w.ID)).Equal(w.Balance))
}

func TestWalletLedger_TopUpConsumedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	f.gateway.EXPECT().
		CreatePaymentIntent(gomock.Any(), dec("250"), "INR", map[string]string{
			"purpose": shared.GatewayPurposeWalletTopUp,
			"user_id": f.buyer.String(),
		}).
		Return(payment.Intent{ID: "pi_topup_1", ClientSecret: "pi_topup_1_secret", Status: payment.IntentRequiresPaymentMethod}, nil)

	session, err := f.wallets.TopUpWallet(ctx, f.buyer, commands.TopUpInput{Amount: dec("250")})
	require.NoError(t, err)
	assert.Equal(t, "pi_topup_1", session.GatewayPaymentID)
	assert.Equal(t, "pi_topup_1_secret", session.ClientSecret)
	assert.True(t, f.redis.Exists("test:"+payment.TopUpKey("pi_topup_1")))
	assert.Equal(t, f.cfg.Wallet.TopUpSessionTTL, f.redis.TTL("test:"+payment.TopUpKey("pi_topup_1")))

	tx, err := f.wallets.ConfirmWalletTopUp(ctx, "pi_topup_1")
	require.NoError(t, err)
	assert.Equal(t, wallet.SourceTopUp, tx.Source)
	require.NotNil(t, tx.ReferenceID)
	assert.Equal(t, "pi_topup_1", *tx.ReferenceID)

	_, err = f.wallets.ConfirmWalletTopUp(ctx, "pi_topup_1")
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	w, _ := f.store.Wallet(f.buyer)
	assert.True(t, dec("250").Equal(w.Balance))
}

func TestWalletLedger_TopUpRestoredOnCreditFailure(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.gateway.EXPECT().CreatePaymentIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_retry", ClientSecret: "s"}, nil)
	_, err := f.wallets.TopUpWallet(ctx, f.buyer, commands.TopUpInput{Amount: dec("40")})
	require.NoError(t, err)

	f.store.FailOn("wallets.update_balance", errors.New("timeout"))
	_, err = f.wallets.ConfirmWalletTopUp(ctx, "pi_retry")
	require.Error(t, err)
	assert.True(t, f.redis.Exists("test:"+payment.TopUpKey("pi_retry")), "session is put back")

	f.store.FailOn("wallets.update_balance", nil)
	_, err = f.wallets.ConfirmWalletTopUp(ctx, "pi_retry")
	require.NoError(t, err)
	w, _ := f.store.Wallet(f.buyer)
	assert.True(t, dec("40").Equal(w.Balance))
}

func TestWalletLedger_TopUpValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   commands.TopUpInput
	}{
		{name: "below minimum", in: commands.TopUpInput{Amount: dec("9.99")}},
		{name: "above maximum", in: commands.TopUpInput{Amount: dec("50000.01")}},
		{name: "three decimals", in: commands.TopUpInput{Amount: dec("10.005")}},
		{name: "foreign currency", in: commands.TopUpInput{Amount: dec("100"), Currency: "USD"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wallets.TopUpWallet(t.Context(), f.buyer, tc.in)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		})
	}
}

func TestWalletLedger_AdminCredit(t *testing.T) {
	f := newFixture(t)
	admin := uuid.New()

	tx, err := f.wallets.AdminCreditWallet(t.Context(), f.buyer, dec("75"), "goodwill", admin)
	require.NoError(t, err)
	assert.Equal(t, wallet.SourceAdminCredit, tx.Source)
	require.NotNil(t, tx.Description)
	assert.Equal(t, "admin:"+admin.String()+" goodwill", *tx.Description)

	ok, err := f.wallets.ValidateSufficientBalance(t.Context(), f.buyer, dec("75"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.wallets.ValidateSufficientBalance(t.Context(), f.buyer, dec("75.01"))
	require.NoError(t, err)
	assert.False(t, ok)
}

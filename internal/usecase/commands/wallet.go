package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/pkg/ptr"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletMutationInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Source      wallet.Source
	ReferenceID *string
	Description *string
}

type TopUpInput struct {
	Amount   decimal.Decimal
	Currency string
}

type TopUpSession struct {
	GatewayPaymentID string
	ClientSecret     string
	Amount           decimal.Decimal
	Currency         string
}

type TransactionPage struct {
	Items []wallet.Transaction
	Total int64
}

type WalletLedger interface {
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	CreditWallet(ctx context.Context, in WalletMutationInput) (*wallet.Transaction, error)
	DebitWallet(ctx context.Context, in WalletMutationInput) (*wallet.Transaction, error)
	ValidateSufficientBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error)
	GetWalletSummary(ctx context.Context, userID uuid.UUID) (*wallet.Summary, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) (*TransactionPage, error)
	TopUpWallet(ctx context.Context, userID uuid.UUID, in TopUpInput) (*TopUpSession, error)
	ConfirmWalletTopUp(ctx context.Context, gatewayPaymentID string) (*wallet.Transaction, error)
	AdminCreditWallet(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, adminID uuid.UUID) (*wallet.Transaction, error)
}

type walletLedgerImpl struct {
	uow     shared.UnitOfWork
	gateway shared.CardGateway
	keys    shared.KeyStore
	clock   clock.Clock
	cfg     config.WalletConfig
	logger  *slog.Logger
}

func NewWalletLedger(uow shared.UnitOfWork, gateway shared.CardGateway, keys shared.KeyStore, clk clock.Clock, cfg config.Config, logger *slog.Logger) WalletLedger {
	return &walletLedgerImpl{uow: uow, gateway: gateway, keys: keys, clock: clk, cfg: cfg.Wallet, logger: logger}
}

// pendingTopUp is stored under the top-up key until the gateway confirms.
type pendingTopUp struct {
	UserID   uuid.UUID       `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (uc *walletLedgerImpl) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var w *wallet.Wallet
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		w, err = tx.Wallets().GetOrCreate(ctx, wallet.NewWallet(userID, uc.cfg.Currency, uc.clock.Now()))
		return err
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load wallet")
	}
	return w, nil
}

func (uc *walletLedgerImpl) CreditWallet(ctx context.Context, in WalletMutationInput) (*wallet.Transaction, error) {
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*wallet.Transaction, error) {
		return uc.credit(ctx, tx, in)
	})
}

func (uc *walletLedgerImpl) DebitWallet(ctx context.Context, in WalletMutationInput) (*wallet.Transaction, error) {
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*wallet.Transaction, error) {
		return debitWallet(ctx, tx, uc.cfg.Currency, uc.clock, in)
	})
}

func (uc *walletLedgerImpl) credit(ctx context.Context, tx shared.Tx, in WalletMutationInput) (*wallet.Transaction, error) {
	w, err := lockWallet(ctx, tx, in.UserID, uc.cfg.Currency, uc.clock)
	if err != nil {
		return nil, err
	}
	t, err := w.Credit(mutationOf(in), uc.cfg.MaxBalance, uc.clock.Now())
	if err != nil {
		return nil, walletError(err, w, in.Amount)
	}
	if err = persistMutation(ctx, tx, w, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// debitWallet is shared with wallet payments so the debit joins the caller's
// transaction.
func debitWallet(ctx context.Context, tx shared.Tx, currency string, clk clock.Clock, in WalletMutationInput) (*wallet.Transaction, error) {
	w, err := lockWallet(ctx, tx, in.UserID, currency, clk)
	if err != nil {
		return nil, err
	}
	t, err := w.Debit(mutationOf(in), clk.Now())
	if err != nil {
		return nil, walletError(err, w, in.Amount)
	}
	if err = persistMutation(ctx, tx, w, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func lockWallet(ctx context.Context, tx shared.Tx, userID uuid.UUID, currency string, clk clock.Clock) (*wallet.Wallet, error) {
	if _, err := tx.Wallets().GetOrCreate(ctx, wallet.NewWallet(userID, currency, clk.Now())); err != nil {
		return nil, err
	}
	return tx.Wallets().FindByUserIDForUpdate(ctx, userID)
}

func persistMutation(ctx context.Context, tx shared.Tx, w *wallet.Wallet, t wallet.Transaction) error {
	if err := tx.Wallets().UpdateBalance(ctx, w); err != nil {
		return err
	}
	return tx.Wallets().AppendTransaction(ctx, t)
}

func mutationOf(in WalletMutationInput) wallet.Mutation {
	return wallet.Mutation{
		Amount:      in.Amount,
		Source:      in.Source,
		ReferenceID: in.ReferenceID,
		Description: in.Description,
	}
}

func walletError(err error, w *wallet.Wallet, amount decimal.Decimal) error {
	switch {
	case errs.Is(err, wallet.ErrInvalidAmount):
		return errs.Validation(err, "Amount must be positive with at most two decimals")
	case errs.Is(err, wallet.ErrBalanceCapExceeded):
		return errs.BusinessRule(err, "Wallet balance cap exceeded")
	case errs.Is(err, wallet.ErrInsufficientBalance):
		return errs.BusinessRule(err, "Insufficient wallet balance").WithDetail(shortfallDetail(w, amount))
	default:
		return err
	}
}

func shortfallDetail(w *wallet.Wallet, amount decimal.Decimal) map[string]string {
	return map[string]string{
		"required":  amount.StringFixed(2),
		"available": w.Balance.StringFixed(2),
		"shortfall": w.Shortfall(amount).StringFixed(2),
	}
}

func (uc *walletLedgerImpl) ValidateSufficientBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error) {
	w, err := uc.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return false, err
	}
	return w.Shortfall(amount).IsZero(), nil
}

func (uc *walletLedgerImpl) GetWalletSummary(ctx context.Context, userID uuid.UUID) (*wallet.Summary, error) {
	var summary *wallet.Summary
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().GetOrCreate(ctx, wallet.NewWallet(userID, uc.cfg.Currency, uc.clock.Now()))
		if err != nil {
			return err
		}
		credited, debited, count, err := tx.Wallets().Totals(ctx, w.ID)
		if err != nil {
			return err
		}
		summary = &wallet.Summary{
			WalletID:         w.ID,
			Balance:          w.Balance,
			Currency:         w.Currency,
			TotalCredited:    credited,
			TotalDebited:     debited,
			TransactionCount: count,
		}
		return nil
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load wallet summary")
	}
	return summary, nil
}

func (uc *walletLedgerImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) (*TransactionPage, error) {
	var page TransactionPage
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().GetOrCreate(ctx, wallet.NewWallet(userID, uc.cfg.Currency, uc.clock.Now()))
		if err != nil {
			return err
		}
		page.Items, page.Total, err = tx.Wallets().ListTransactions(ctx, w.ID, limit, offset)
		return err
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to list wallet transactions")
	}
	return &page, nil
}

// TopUpWallet opens a gateway session. The wallet is credited only when the
// gateway reports success.
func (uc *walletLedgerImpl) TopUpWallet(ctx context.Context, userID uuid.UUID, in TopUpInput) (*TopUpSession, error) {
	if err := wallet.ValidateAmount(in.Amount); err != nil {
		return nil, errs.Validation(err, "Amount must be positive with at most two decimals")
	}
	if in.Amount.LessThan(uc.cfg.TopUpMin) || in.Amount.GreaterThan(uc.cfg.TopUpMax) {
		return nil, errs.Validation(nil, "Top-up amount out of range").WithDetail(map[string]string{
			"min": uc.cfg.TopUpMin.StringFixed(2),
			"max": uc.cfg.TopUpMax.StringFixed(2),
		})
	}
	currency := in.Currency
	if currency == "" {
		currency = uc.cfg.Currency
	}
	if currency != uc.cfg.Currency {
		return nil, errs.Validation(wallet.ErrCurrencyMismatch, "Unsupported currency")
	}

	intent, err := uc.gateway.CreatePaymentIntent(ctx, in.Amount, currency, map[string]string{
		"purpose": shared.GatewayPurposeWalletTopUp,
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to create top-up session")
	}

	record, err := json.Marshal(pendingTopUp{UserID: userID, Amount: in.Amount, Currency: currency})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to encode top-up session")
	}
	if err = uc.keys.SetKey(ctx, payment.TopUpKey(intent.ID), string(record), uc.cfg.TopUpSessionTTL); err != nil {
		return nil, errs.Fatal(err, "Failed to store top-up session")
	}

	uc.logger.InfoContext(ctx, "wallet top-up initiated",
		slog.String("user_id", userID.String()),
		slog.String("gateway_payment_id", intent.ID),
		slog.String("amount", in.Amount.StringFixed(2)))

	return &TopUpSession{
		GatewayPaymentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		Amount:           in.Amount,
		Currency:         currency,
	}, nil
}

// ConfirmWalletTopUp consumes the pending session exactly once. A failed
// credit puts the session back so a redelivered event can retry.
func (uc *walletLedgerImpl) ConfirmWalletTopUp(ctx context.Context, gatewayPaymentID string) (*wallet.Transaction, error) {
	key := payment.TopUpKey(gatewayPaymentID)
	raw, found, err := uc.keys.TakeKey(ctx, key)
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load top-up session")
	}
	if !found {
		return nil, errs.NotFound(nil, "Top-up session not found")
	}
	var pending pendingTopUp
	if err = json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, errs.Fatal(err, "Corrupt top-up session")
	}

	t, err := uc.CreditWallet(ctx, WalletMutationInput{
		UserID:      pending.UserID,
		Amount:      pending.Amount,
		Source:      wallet.SourceTopUp,
		ReferenceID: ptr.To(gatewayPaymentID),
		Description: ptr.To("Wallet top-up"),
	})
	if err != nil {
		if restoreErr := uc.keys.SetKey(context.WithoutCancel(ctx), key, raw, uc.cfg.TopUpSessionTTL); restoreErr != nil {
			uc.logger.ErrorContext(ctx, "failed to restore top-up session",
				slog.String("gateway_payment_id", gatewayPaymentID),
				slog.String("error", restoreErr.Error()))
		}
		return nil, err
	}

	uc.logger.InfoContext(ctx, "wallet top-up confirmed",
		slog.String("user_id", pending.UserID.String()),
		slog.String("gateway_payment_id", gatewayPaymentID),
		slog.String("amount", pending.Amount.StringFixed(2)))
	return t, nil
}

func (uc *walletLedgerImpl) AdminCreditWallet(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, adminID uuid.UUID) (*wallet.Transaction, error) {
	desc := "admin:" + adminID.String()
	if description != "" {
		desc += " " + description
	}
	t, err := uc.CreditWallet(ctx, WalletMutationInput{
		UserID:      userID,
		Amount:      amount,
		Source:      wallet.SourceAdminCredit,
		Description: ptr.To(desc),
	})
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "wallet credited by admin",
		slog.String("user_id", userID.String()),
		slog.String("admin_id", adminID.String()),
		slog.String("amount", amount.StringFixed(2)))
	return t, nil
}

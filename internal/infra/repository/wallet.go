package repository

import (
	"context"

	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	// The no-op update makes RETURNING yield the existing row on conflict.
	upsertWalletSQL = `
INSERT INTO wallets (id, user_id, balance, currency, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id, user_id, balance, currency, created_at, updated_at`

	selectWalletForUpdateSQL = `
SELECT id, user_id, balance, currency, created_at, updated_at
FROM wallets WHERE user_id = $1 FOR UPDATE`

	updateWalletBalanceSQL = `UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`

	insertWalletTxSQL = `
INSERT INTO wallet_transactions (
	id, wallet_id, type, amount, balance_before, balance_after,
	source, reference_id, description, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	walletTotalsSQL = `
SELECT
	COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0),
	COALESCE(SUM(amount) FILTER (WHERE type = 'debit'), 0),
	COUNT(*)
FROM wallet_transactions WHERE wallet_id = $1`

	listWalletTxSQL = `
SELECT t.id, t.wallet_id, w.user_id, t.type, t.amount, t.balance_before, t.balance_after,
	t.source, t.reference_id, t.description, t.status, t.created_at
FROM wallet_transactions t JOIN wallets w ON w.id = t.wallet_id
WHERE t.wallet_id = $1
ORDER BY t.created_at DESC, t.id DESC
LIMIT $2 OFFSET $3`

	countWalletTxSQL = `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`
)

type WalletRepository struct {
	db db.DBTX
}

func NewWalletRepository(dbtx db.DBTX) *WalletRepository {
	return &WalletRepository{db: dbtx}
}

// GetOrCreate inserts w unless the user already has a wallet, and returns
// whichever row is stored.
func (r *WalletRepository) GetOrCreate(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error) {
	stored, err := scanWallet(r.db.QueryRow(ctx, upsertWalletSQL,
		w.ID, w.UserID, w.Balance, w.Currency, w.CreatedAt, w.UpdatedAt))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get or create wallet", err)
	}
	return stored, nil
}

func (r *WalletRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	w, err := scanWallet(r.db.QueryRow(ctx, selectWalletForUpdateSQL, userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock wallet", err)
	}
	return w, nil
}

func (r *WalletRepository) UpdateBalance(ctx context.Context, w *wallet.Wallet) error {
	tag, err := r.db.Exec(ctx, updateWalletBalanceSQL, w.ID, w.Balance, w.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update wallet balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *WalletRepository) AppendTransaction(ctx context.Context, t wallet.Transaction) error {
	_, err := r.db.Exec(ctx, insertWalletTxSQL,
		t.ID, t.WalletID, string(t.Type), t.Amount, t.BalanceBefore, t.BalanceAfter,
		string(t.Source), t.ReferenceID, t.Description, string(t.Status), t.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append wallet transaction", err)
	}
	return nil
}

func (r *WalletRepository) Totals(ctx context.Context, walletID uuid.UUID) (credited, debited decimal.Decimal, count int64, err error) {
	err = r.db.QueryRow(ctx, walletTotalsSQL, walletID).Scan(&credited, &debited, &count)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, infra.WrapRepoErr("failed to aggregate wallet transactions", err)
	}
	return credited, debited, count, nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]wallet.Transaction, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, countWalletTxSQL, walletID).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count wallet transactions", err)
	}
	rows, err := r.db.Query(ctx, listWalletTxSQL, walletID, limit, offset)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list wallet transactions", err)
	}
	txs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (wallet.Transaction, error) {
		var t wallet.Transaction
		var typ, source, status string
		err := row.Scan(
			&t.ID, &t.WalletID, &t.UserID, &typ, &t.Amount, &t.BalanceBefore, &t.BalanceAfter,
			&source, &t.ReferenceID, &t.Description, &status, &t.CreatedAt,
		)
		t.Type = wallet.TransactionType(typ)
		t.Source = wallet.Source(source)
		t.Status = wallet.TransactionStatus(status)
		return t, err
	})
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to scan wallet transactions", err)
	}
	return txs, total, nil
}

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	var w wallet.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

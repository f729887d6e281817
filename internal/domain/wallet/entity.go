package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive with at most two decimals")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrBalanceCapExceeded  = errors.New("wallet balance cap exceeded")
	ErrCurrencyMismatch    = errors.New("currency does not match wallet currency")
)

type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

type Source string

const (
	SourceTopUp        Source = "topup"
	SourceOrderPayment Source = "order_payment"
	SourceRefund       Source = "refund"
	SourceAdminCredit  Source = "admin_credit"
	SourcePayout       Source = "payout"
)

type TransactionStatus string

const (
	TxCompleted TransactionStatus = "completed"
)

type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWallet(userID uuid.UUID, currency string, now time.Time) *Wallet {
	return &Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transaction is an append-only ledger row written together with every
// balance mutation.
type Transaction struct {
	ID            uuid.UUID
	WalletID      uuid.UUID
	UserID        uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Source        Source
	ReferenceID   *string
	Description   *string
	Status        TransactionStatus
	CreatedAt     time.Time
}

// Signed returns the amount with the sign of its effect on the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

type Mutation struct {
	Amount      decimal.Decimal
	Source      Source
	ReferenceID *string
	Description *string
}

// ValidateAmount accepts positive amounts with at most two decimals.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// Credit applies a credit bounded by maxBalance and returns the ledger row to
// persist alongside the new balance.
func (w *Wallet) Credit(m Mutation, maxBalance decimal.Decimal, now time.Time) (Transaction, error) {
	if err := ValidateAmount(m.Amount); err != nil {
		return Transaction{}, err
	}
	after := w.Balance.Add(m.Amount)
	if after.GreaterThan(maxBalance) {
		return Transaction{}, ErrBalanceCapExceeded
	}
	return w.apply(TypeCredit, m, after, now), nil
}

func (w *Wallet) Debit(m Mutation, now time.Time) (Transaction, error) {
	if err := ValidateAmount(m.Amount); err != nil {
		return Transaction{}, err
	}
	if w.Balance.LessThan(m.Amount) {
		return Transaction{}, ErrInsufficientBalance
	}
	return w.apply(TypeDebit, m, w.Balance.Sub(m.Amount), now), nil
}

func (w *Wallet) Shortfall(amount decimal.Decimal) decimal.Decimal {
	if w.Balance.GreaterThanOrEqual(amount) {
		return decimal.Zero
	}
	return amount.Sub(w.Balance)
}

func (w *Wallet) apply(typ TransactionType, m Mutation, after decimal.Decimal, now time.Time) Transaction {
	tx := Transaction{
		ID:            uuid.New(),
		WalletID:      w.ID,
		UserID:        w.UserID,
		Type:          typ,
		Amount:        m.Amount,
		BalanceBefore: w.Balance,
		BalanceAfter:  after,
		Source:        m.Source,
		ReferenceID:   m.ReferenceID,
		Description:   m.Description,
		Status:        TxCompleted,
		CreatedAt:     now,
	}
	w.Balance = after
	w.UpdatedAt = now
	return tx
}

// Replay recomputes a balance from ledger rows in creation order.
func Replay(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txs {
		balance = balance.Add(t.Signed())
	}
	return balance
}

type Summary struct {
	WalletID         uuid.UUID
	Balance          decimal.Decimal
	Currency         string
	TotalCredited    decimal.Decimal
	TotalDebited     decimal.Decimal
	TransactionCount int64
}

//go:build unit || e2e

package builder

import (
	"time"

	"storefront-core/internal/domain/wallet"
	reqdto "storefront-core/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletBuilder struct {
	UserID    uuid.UUID
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
}

func NewWalletBuilder() *WalletBuilder {
	return &WalletBuilder{
		UserID:    uuid.New(),
		Balance:   decimal.NewFromInt(500),
		Currency:  "INR",
		CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func (b *WalletBuilder) With(mutate func(*WalletBuilder)) *WalletBuilder {
	mutate(b)
	return b
}

func (b *WalletBuilder) BuildDomain() *wallet.Wallet {
	w := wallet.NewWallet(b.UserID, b.Currency, b.CreatedAt)
	w.Balance = b.Balance
	return w
}

// BuildCredit returns the ledger row a credit of amount would append.
func (b *WalletBuilder) BuildCredit(amount decimal.Decimal, source wallet.Source) (*wallet.Transaction, error) {
	w := b.BuildDomain()
	tx, err := w.Credit(wallet.Mutation{Amount: amount, Source: source}, decimal.NewFromInt(100000), b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (b *WalletBuilder) BuildTopUpRequestDTO() reqdto.TopUpRequest {
	return reqdto.TopUpRequest{Amount: decimal.NewFromInt(250)}
}

func (b *WalletBuilder) BuildAdminCreditRequestDTO() reqdto.AdminCreditRequest {
	return reqdto.AdminCreditRequest{Amount: decimal.NewFromInt(75), Description: "goodwill"}
}

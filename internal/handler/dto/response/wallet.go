package response

import (
	"time"

	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func FromWallet(w *wallet.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Balance:   w.Balance,
		Currency:  w.Currency,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type WalletSummaryResponse struct {
	WalletID         uuid.UUID       `json:"wallet_id"`
	Balance          decimal.Decimal `json:"balance"`
	Currency         string          `json:"currency"`
	TotalCredited    decimal.Decimal `json:"total_credited"`
	TotalDebited     decimal.Decimal `json:"total_debited"`
	TransactionCount int64           `json:"transaction_count"`
}

func FromWalletSummary(s *wallet.Summary) *WalletSummaryResponse {
	return (*WalletSummaryResponse)(s)
}

type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Source        string          `json:"source"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func FromTransaction(t *wallet.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Source:        string(t.Source),
		ReferenceID:   t.ReferenceID,
		Description:   t.Description,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}

type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

func FromTransactionPage(p *commands.TransactionPage, limit, offset int) *TransactionListResponse {
	resp := &TransactionListResponse{
		Transactions: make([]*TransactionResponse, len(p.Items)),
		Total:        p.Total,
		Limit:        limit,
		Offset:       offset,
	}
	for i := range p.Items {
		resp.Transactions[i] = FromTransaction(&p.Items[i])
	}
	return resp
}

type TopUpResponse struct {
	GatewayPaymentID string          `json:"gateway_payment_id"`
	ClientSecret     string          `json:"client_secret"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

func FromTopUpSession(s *commands.TopUpSession) *TopUpResponse {
	return (*TopUpResponse)(s)
}

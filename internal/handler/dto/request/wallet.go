package request

import (
	"github.com/shopspring/decimal"
)

type TopUpRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required,money"`
	Currency string          `json:"currency,omitempty" binding:"omitempty,currency"`
}

type AdminCreditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,money"`
	Description string          `json:"description" binding:"required,max=255"`
}

type ListTransactionsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

//go:build unit || e2e

package builder

import (
	"time"

	"storefront-core/internal/domain/cart"
	reqdto "storefront-core/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartBuilder struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	AddedAt   time.Time
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
		Price:     decimal.NewFromInt(100),
		AddedAt:   time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func (b *CartBuilder) With(mutate func(*CartBuilder)) *CartBuilder {
	mutate(b)
	return b
}

func (b *CartBuilder) BuildItem() cart.Item {
	return cart.Item{
		ProductID: b.ProductID,
		VariantID: b.VariantID,
		Quantity:  b.Quantity,
		Price:     cart.PriceSnapshot{BasePrice: b.Price, Currency: "INR"},
		AddedAt:   b.AddedAt,
	}
}

func (b *CartBuilder) BuildDomain() *cart.Cart {
	return cart.NewCart(b.UserID, []cart.Item{b.BuildItem()})
}

func (b *CartBuilder) BuildAddRequestDTO() reqdto.AddCartItemRequest {
	return reqdto.AddCartItemRequest{
		ProductID: b.ProductID,
		VariantID: b.VariantID,
		Quantity:  b.Quantity,
	}
}

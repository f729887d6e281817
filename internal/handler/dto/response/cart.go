package response

import (
	"time"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItemResponse struct {
	ProductID      uuid.UUID          `json:"product_id"`
	VariantID      *uuid.UUID         `json:"variant_id,omitempty"`
	Quantity       int                `json:"quantity"`
	Price          cart.PriceSnapshot `json:"price"`
	EffectivePrice decimal.Decimal    `json:"effective_price"`
	LineTotal      decimal.Decimal    `json:"line_total"`
	AddedAt        time.Time          `json:"added_at"`
}

type CartResponse struct {
	UserID      uuid.UUID          `json:"user_id"`
	Items       []CartItemResponse `json:"items"`
	TotalItems  int                `json:"total_items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

func FromCart(c *cart.Cart) *CartResponse {
	items := c.Items()
	resp := &CartResponse{
		UserID:      c.UserID(),
		Items:       make([]CartItemResponse, len(items)),
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount(),
	}
	for i, it := range items {
		resp.Items[i] = CartItemResponse{
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Quantity:       it.Quantity,
			Price:          it.Price,
			EffectivePrice: it.Price.EffectivePrice(),
			LineTotal:      it.LineTotal(),
			AddedAt:        it.AddedAt,
		}
	}
	return resp
}

type PriceChangeResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

type CartLineRef struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

type SyncCartResponse struct {
	Cart        *CartResponse         `json:"cart"`
	Changes     []PriceChangeResponse `json:"changes"`
	Unavailable []CartLineRef         `json:"unavailable"`
}

func FromSyncResult(r *commands.SyncResult) *SyncCartResponse {
	resp := &SyncCartResponse{
		Cart:        FromCart(r.Cart),
		Changes:     make([]PriceChangeResponse, len(r.Changes)),
		Unavailable: make([]CartLineRef, len(r.Unavailable)),
	}
	for i, ch := range r.Changes {
		resp.Changes[i] = PriceChangeResponse(ch)
	}
	for i, k := range r.Unavailable {
		resp.Unavailable[i] = lineRef(k)
	}
	return resp
}

func lineRef(k cart.LineKey) CartLineRef {
	ref := CartLineRef{ProductID: k.ProductID}
	if k.VariantID != uuid.Nil {
		v := k.VariantID
		ref.VariantID = &v
	}
	return ref
}

type CheckoutValidationResponse struct {
	IsValid bool          `json:"is_valid"`
	Issues  []cart.Issue  `json:"issues"`
	Cart    *CartResponse `json:"cart"`
}

func FromCheckoutValidation(v *commands.CheckoutValidation) *CheckoutValidationResponse {
	issues := v.Report.Issues
	if issues == nil {
		issues = []cart.Issue{}
	}
	return &CheckoutValidationResponse{
		IsValid: v.Report.IsValid(),
		Issues:  issues,
		Cart:    FromCart(v.Cart),
	}
}

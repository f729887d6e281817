package request

import (
	"github.com/google/uuid"
)

type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" binding:"required,min=1,max=100"`
}

type UpdateCartItemRequest struct {
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" binding:"required,min=1,max=100"`
}

// CartLineQuery selects a variant line on the item routes.
type CartLineQuery struct {
	VariantID string `form:"variant_id" binding:"omitempty,uuid"`
}

// Variant returns the bound variant, or nil for the base product line.
// Call it only after binding succeeded.
func (q CartLineQuery) Variant() *uuid.UUID {
	if q.VariantID == "" {
		return nil
	}
	id := uuid.MustParse(q.VariantID)
	return &id
}

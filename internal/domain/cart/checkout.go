package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IssueType string

const (
	IssueEmptyCart          IssueType = "empty_cart"
	IssueProductUnavailable IssueType = "product_unavailable"
	IssueInsufficientStock  IssueType = "insufficient_stock"
	IssuePriceChanged       IssueType = "price_changed"
)

type Issue struct {
	Type         IssueType        `json:"type"`
	ProductID    *uuid.UUID       `json:"product_id,omitempty"`
	VariantID    *uuid.UUID       `json:"variant_id,omitempty"`
	Message      string           `json:"message"`
	Requested    int              `json:"requested,omitempty"`
	Available    int              `json:"available"`
	OldPrice     *decimal.Decimal `json:"old_price,omitempty"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}

// CurrentProduct is the live catalog state of a cart line.
type CurrentProduct struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	SellerID  uuid.UUID
	Title     string
	Thumbnail string
	Active    bool
	Stock     int
	Price     PriceSnapshot
}

type Report struct {
	Issues []Issue
}

func (r Report) IsValid() bool {
	return len(r.Issues) == 0
}

// ValidateForCheckout collects every blocking issue of the cart against the
// live catalog state. Lines missing from current are treated as unavailable.
func ValidateForCheckout(c *Cart, current map[LineKey]CurrentProduct, threshold decimal.Decimal) Report {
	var report Report
	if c.IsEmpty() {
		report.Issues = append(report.Issues, Issue{Type: IssueEmptyCart, Message: "cart is empty"})
		return report
	}

	for _, it := range c.items {
		productID := it.ProductID
		cp, ok := current[it.Key()]
		if !ok || !cp.Active {
			report.Issues = append(report.Issues, Issue{
				Type:      IssueProductUnavailable,
				ProductID: &productID,
				VariantID: it.VariantID,
				Message:   "product is no longer available",
			})
			continue
		}
		if it.Quantity > cp.Stock {
			report.Issues = append(report.Issues, Issue{
				Type:      IssueInsufficientStock,
				ProductID: &productID,
				VariantID: it.VariantID,
				Message:   "requested quantity exceeds available stock",
				Requested: it.Quantity,
				Available: cp.Stock,
			})
		}
		oldPrice := it.Price.EffectivePrice()
		newPrice := cp.Price.EffectivePrice()
		if IsPriceChangedSignificantly(oldPrice, newPrice, threshold) {
			report.Issues = append(report.Issues, Issue{
				Type:         IssuePriceChanged,
				ProductID:    &productID,
				VariantID:    it.VariantID,
				Message:      "price changed significantly since the item was added",
				OldPrice:     &oldPrice,
				CurrentPrice: &newPrice,
			})
		}
	}
	return report
}

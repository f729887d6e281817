package response

import (
	"time"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FromOrder renders a freshly written order with the same shape as the read
// side's order view.
func FromOrder(o *order.Order) *queries.OrderView {
	ov := &queries.OrderView{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		DeliveryAddressID: o.DeliveryAddressID,
		CouponID:          o.CouponID,
		PaymentID:         o.PaymentID,
		PaymentMethod:     string(o.PaymentMethod),
		Subtotal:          o.Amounts.Subtotal,
		TaxAmount:         o.Amounts.TaxAmount,
		ShippingFee:       o.Amounts.ShippingFee,
		DiscountAmount:    o.Amounts.DiscountAmount,
		FinalAmount:       o.Amounts.FinalAmount,
		OrderStatus:       string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		RefundStatus:      string(o.RefundStatus),
		SellerBreakdown:   make([]queries.SellerBreakdownView, len(o.SellerBreakdown)),
		Items:             make([]queries.OrderItemView, len(o.Items)),
		Notes:             o.Notes,
		CancelReason:      o.CancelReason,
		CancelledAt:       o.CancelledAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for i, b := range o.SellerBreakdown {
		ov.SellerBreakdown[i] = queries.SellerBreakdownView(b)
	}
	for i, it := range o.Items {
		ov.Items[i] = queries.OrderItemView{
			ID:         it.ID,
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			SellerID:   it.SellerID,
			Quantity:   it.Quantity,
			UnitPrice:  it.Snapshot.Price,
			Currency:   it.Snapshot.Currency,
			Title:      it.Snapshot.Title,
			Thumbnail:  it.Snapshot.Thumbnail,
			TotalPrice: it.TotalPrice,
		}
	}
	return ov
}

type OrderStateResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	OrderStatus   string          `json:"order_status"`
	PaymentStatus string          `json:"payment_status"`
	RefundStatus  string          `json:"refund_status"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	CancelReason  *string         `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func FromOrderState(o *order.Order) *OrderStateResponse {
	return &OrderStateResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		OrderStatus:   string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		RefundStatus:  string(o.RefundStatus),
		FinalAmount:   o.Amounts.FinalAmount,
		CancelReason:  o.CancelReason,
		CancelledAt:   o.CancelledAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type OrderListResponse struct {
	Orders     []*queries.OrderListItem `json:"orders"`
	NextCursor *string                  `json:"next_cursor,omitempty"`
}

func NewOrderListResponse(rows []*queries.OrderListItem, next *queries.Cursor) *OrderListResponse {
	if rows == nil {
		rows = []*queries.OrderListItem{}
	}
	return &OrderListResponse{Orders: rows, NextCursor: cursorString(next)}
}

func cursorString(c *queries.Cursor) *string {
	if c == nil || c.After == "" {
		return nil
	}
	s := c.After
	return &s
}

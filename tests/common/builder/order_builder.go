//go:build unit || e2e

package builder

import (
	"time"

	"storefront-core/internal/domain/order"
	reqdto "storefront-core/internal/handler/dto/request"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderBuilder struct {
	UserID            uuid.UUID
	SellerID          uuid.UUID
	DeliveryAddressID uuid.UUID
	OrderNumber       string
	PaymentMethod     order.PaymentMethod
	Subtotal          decimal.Decimal
	TaxAmount         decimal.Decimal
	ShippingFee       decimal.Decimal
	DiscountAmount    decimal.Decimal
	CouponCode        *string
	Notes             *string
	CreatedAt         time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		UserID:            uuid.New(),
		SellerID:          uuid.New(),
		DeliveryAddressID: uuid.New(),
		OrderNumber:       "ORD-20250314-ABCDEFGHIJ",
		PaymentMethod:     order.MethodCard,
		Subtotal:          decimal.NewFromInt(200),
		TaxAmount:         decimal.NewFromInt(36),
		ShippingFee:       decimal.NewFromInt(40),
		DiscountAmount:    decimal.Zero,
		CreatedAt:         time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) amounts() order.Amounts {
	return order.Amounts{
		Subtotal:       b.Subtotal,
		TaxAmount:      b.TaxAmount,
		ShippingFee:    b.ShippingFee,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.Subtotal.Add(b.TaxAmount).Add(b.ShippingFee).Sub(b.DiscountAmount),
	}
}

// BuildDomain returns a pending order with a single line from SellerID.
func (b *OrderBuilder) BuildDomain() (*order.Order, error) {
	o, err := order.NewOrder(order.NewOrderParams{
		OrderNumber:       b.OrderNumber,
		UserID:            b.UserID,
		DeliveryAddressID: b.DeliveryAddressID,
		PaymentMethod:     b.PaymentMethod,
		Amounts:           b.amounts(),
		Notes:             b.Notes,
	}, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	item, err := order.NewItem(o.ID, uuid.New(), nil, b.SellerID, 2, order.ItemSnapshot{
		Price:    b.Subtotal.Div(decimal.NewFromInt(2)),
		Currency: "INR",
		Title:    "Test Product",
	}, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []order.Item{item}
	return o, nil
}

func (b *OrderBuilder) BuildPlaceRequestDTO() reqdto.PlaceOrderRequest {
	return reqdto.PlaceOrderRequest{
		DeliveryAddressID: b.DeliveryAddressID,
		CouponCode:        b.CouponCode,
		PaymentMethod:     string(b.PaymentMethod),
		Notes:             b.Notes,
	}
}

func (b *OrderBuilder) BuildViewQuery() *queries.OrderView {
	a := b.amounts()
	return &queries.OrderView{
		ID:                uuid.New(),
		OrderNumber:       b.OrderNumber,
		UserID:            b.UserID,
		DeliveryAddressID: b.DeliveryAddressID,
		PaymentMethod:     string(b.PaymentMethod),
		Subtotal:          a.Subtotal,
		TaxAmount:         a.TaxAmount,
		ShippingFee:       a.ShippingFee,
		DiscountAmount:    a.DiscountAmount,
		FinalAmount:       a.FinalAmount,
		OrderStatus:       string(order.StatusPending),
		PaymentStatus:     string(order.PaymentPending),
		RefundStatus:      string(order.RefundNone),
		SellerBreakdown:   []queries.SellerBreakdownView{},
		Items:             []queries.OrderItemView{{ID: uuid.New(), SellerID: b.SellerID, Quantity: 2}},
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.CreatedAt,
	}
}

func (b *OrderBuilder) BuildListItemQuery() *queries.OrderListItem {
	return &queries.OrderListItem{
		ID:            uuid.New(),
		OrderNumber:   b.OrderNumber,
		UserID:        b.UserID,
		PaymentMethod: string(b.PaymentMethod),
		FinalAmount:   b.amounts().FinalAmount,
		OrderStatus:   string(order.StatusPending),
		PaymentStatus: string(order.PaymentPending),
		ItemCount:     1,
		CreatedAt:     b.CreatedAt,
	}
}

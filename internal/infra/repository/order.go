package repository

import (
	"context"
	"time"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `
	id, order_number, user_id, delivery_address_id, coupon_id, payment_id, payment_method,
	subtotal, tax_amount, shipping_fee, discount_amount, final_amount,
	order_status, payment_status, refund_status, seller_breakdown,
	notes, cancel_reason, cancelled_at, created_at, updated_at`

const (
	insertOrderSQL = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	insertOrderItemSQL = `
INSERT INTO order_items (
	id, order_id, product_id, variant_id, seller_id, quantity,
	unit_price, currency, title, thumbnail, total_price, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	saveBreakdownSQL = `
UPDATE orders SET seller_breakdown = $2, updated_at = $3
WHERE id = $1 AND seller_breakdown IS NULL`

	selectOrderSQL          = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	selectOrderForUpdateSQL = selectOrderSQL + ` FOR UPDATE`

	selectOrderItemsSQL = `
SELECT id, order_id, product_id, variant_id, seller_id, quantity,
	unit_price, currency, title, thumbnail, total_price, created_at
FROM order_items WHERE order_id = $1 ORDER BY created_at, id`

	updateOrderStateSQL = `
UPDATE orders SET
	order_status = $2, payment_status = $3, refund_status = $4,
	payment_id = $5, payment_method = $6,
	cancel_reason = $7, cancelled_at = $8, updated_at = $9
WHERE id = $1`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`
	deleteOrderSQL      = `DELETE FROM orders WHERE id = $1`
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	var breakdown any
	if o.SellerBreakdown != nil {
		breakdown = o.SellerBreakdown
	}
	_, err := r.db.Exec(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.UserID, o.DeliveryAddressID, o.CouponID, o.PaymentID, string(o.PaymentMethod),
		o.Amounts.Subtotal, o.Amounts.TaxAmount, o.Amounts.ShippingFee, o.Amounts.DiscountAmount, o.Amounts.FinalAmount,
		string(o.Status), string(o.PaymentStatus), string(o.RefundStatus), breakdown,
		o.Notes, o.CancelReason, o.CancelledAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

func (r *OrderRepository) CreateItems(ctx context.Context, items []order.Item) error {
	for _, it := range items {
		_, err := r.db.Exec(ctx, insertOrderItemSQL,
			it.ID, it.OrderID, it.ProductID, it.VariantID, it.SellerID, it.Quantity,
			it.Snapshot.Price, it.Snapshot.Currency, it.Snapshot.Title, it.Snapshot.Thumbnail, it.TotalPrice, it.CreatedAt,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

// SaveBreakdown writes the seller split once; a second write is rejected.
func (r *OrderRepository) SaveBreakdown(ctx context.Context, orderID uuid.UUID, breakdown []order.SellerBreakdown, at time.Time) error {
	if breakdown == nil {
		breakdown = []order.SellerBreakdown{}
	}
	tag, err := r.db.Exec(ctx, saveBreakdownSQL, orderID, breakdown, at)
	if err != nil {
		return infra.WrapRepoErr("failed to save seller breakdown", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("seller breakdown already saved or order missing", order.ErrBreakdownFinal, infra.KindDuplicateKey)
	}
	return nil
}

func (r *OrderRepository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteOrderItemsSQL, orderID); err != nil {
		return infra.WrapRepoErr("failed to delete order items", err)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteOrderSQL, orderID); err != nil {
		return infra.WrapRepoErr("failed to delete order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	return r.find(ctx, selectOrderSQL, orderID)
}

// FindByIDForUpdate locks the order row until the surrounding transaction
// ends.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	return r.find(ctx, selectOrderForUpdateSQL, orderID)
}

func (r *OrderRepository) find(ctx context.Context, query string, orderID uuid.UUID) (*order.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	items, err := r.items(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx, selectOrderItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var it order.Item
		err := row.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.SellerID, &it.Quantity,
			&it.Snapshot.Price, &it.Snapshot.Currency, &it.Snapshot.Title, &it.Snapshot.Thumbnail,
			&it.TotalPrice, &it.CreatedAt,
		)
		return it, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	return items, nil
}

func (r *OrderRepository) UpdateState(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Exec(ctx, updateOrderStateSQL,
		o.ID, string(o.Status), string(o.PaymentStatus), string(o.RefundStatus),
		o.PaymentID, string(o.PaymentMethod),
		o.CancelReason, o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var method, status, paymentStatus, refundStatus string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.DeliveryAddressID, &o.CouponID, &o.PaymentID, &method,
		&o.Amounts.Subtotal, &o.Amounts.TaxAmount, &o.Amounts.ShippingFee, &o.Amounts.DiscountAmount, &o.Amounts.FinalAmount,
		&status, &paymentStatus, &refundStatus, &o.SellerBreakdown,
		&o.Notes, &o.CancelReason, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.PaymentMethod = order.PaymentMethod(method)
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	o.RefundStatus = order.RefundStatus(refundStatus)
	return &o, nil
}

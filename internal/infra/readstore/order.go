package readstore

import (
	"context"

	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	orderViewSQL = `
SELECT id, order_number, user_id, delivery_address_id, coupon_id, payment_id, payment_method,
	subtotal, tax_amount, shipping_fee, discount_amount, final_amount,
	order_status, payment_status, refund_status, seller_breakdown,
	notes, cancel_reason, cancelled_at, created_at, updated_at
FROM orders WHERE id = $1`

	orderItemViewsSQL = `
SELECT id, product_id, variant_id, seller_id, quantity, unit_price, currency, title, thumbnail, total_price
FROM order_items WHERE order_id = $1 ORDER BY created_at, id`

	orderListSQL = `
SELECT o.id, o.order_number, o.user_id, o.payment_method, o.final_amount,
	o.order_status, o.payment_status,
	(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id),
	o.created_at
FROM orders o`

	orderSummarySQL = `
SELECT o.order_status, COUNT(*), COUNT(*) FILTER (WHERE o.payment_status = 'paid')
FROM orders o`

	// Buyers and admins sum what was charged; sellers sum their own earnings.
	orderPaidAmountSQL = `
SELECT COALESCE(SUM(o.final_amount), 0)
FROM orders o`

	sellerEarningsSQL = `
SELECT COALESCE(SUM((b->>'seller_earnings')::numeric), 0)
FROM orders o, jsonb_array_elements(COALESCE(o.seller_breakdown, '[]'::jsonb)) b
WHERE o.payment_status = 'paid' AND (b->>'seller_id')::uuid = $1`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		ov        queries.OrderView
		breakdown []queries.SellerBreakdownView
	)
	err := r.db.QueryRow(ctx, orderViewSQL, id).Scan(
		&ov.ID, &ov.OrderNumber, &ov.UserID, &ov.DeliveryAddressID, &ov.CouponID, &ov.PaymentID, &ov.PaymentMethod,
		&ov.Subtotal, &ov.TaxAmount, &ov.ShippingFee, &ov.DiscountAmount, &ov.FinalAmount,
		&ov.OrderStatus, &ov.PaymentStatus, &ov.RefundStatus, &breakdown,
		&ov.Notes, &ov.CancelReason, &ov.CancelledAt, &ov.CreatedAt, &ov.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	if breakdown == nil {
		breakdown = []queries.SellerBreakdownView{}
	}
	ov.SellerBreakdown = breakdown

	rows, err := r.db.Query(ctx, orderItemViewsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.OrderItemView, error) {
		var it queries.OrderItemView
		err := row.Scan(
			&it.ID, &it.ProductID, &it.VariantID, &it.SellerID, &it.Quantity,
			&it.UnitPrice, &it.Currency, &it.Title, &it.Thumbnail, &it.TotalPrice,
		)
		return it, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	ov.Items = items
	return &ov, nil
}

func scopeConditions(w *where, scope queries.OrderScope) {
	if scope.BuyerID != nil {
		w.add("o.user_id = $?", *scope.BuyerID)
	}
	if scope.SellerID != nil {
		w.add("EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.seller_id = $?)", *scope.SellerID)
	}
}

func (r *OrderReadStore) List(ctx context.Context, scope queries.OrderScope, filter queries.OrderFilter, after *queries.Keyset, limit int32) ([]*queries.OrderListItem, error) {
	w := &where{}
	scopeConditions(w, scope)
	if filter.OrderStatus != nil {
		w.add("o.order_status = $?", *filter.OrderStatus)
	}
	if filter.PaymentStatus != nil {
		w.add("o.payment_status = $?", *filter.PaymentStatus)
	}
	if after != nil {
		w.add("(o.created_at, o.id) < ($?, $?)", after.CreatedAt, after.ID)
	}
	query := orderListSQL + w.sql() + " ORDER BY o.created_at DESC, o.id DESC" + w.limit(limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderListItem, error) {
		var it queries.OrderListItem
		err := row.Scan(
			&it.ID, &it.OrderNumber, &it.UserID, &it.PaymentMethod, &it.FinalAmount,
			&it.OrderStatus, &it.PaymentStatus, &it.ItemCount, &it.CreatedAt,
		)
		return &it, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan orders", err)
	}
	return list, nil
}

func (r *OrderReadStore) Summary(ctx context.Context, scope queries.OrderScope) (*queries.OrderSummary, error) {
	w := &where{}
	scopeConditions(w, scope)

	type statusCount struct {
		status      string
		count, paid int64
	}
	rows, err := r.db.Query(ctx, orderSummarySQL+w.sql()+" GROUP BY o.order_status", w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to summarize orders", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (statusCount, error) {
		var sc statusCount
		err := row.Scan(&sc.status, &sc.count, &sc.paid)
		return sc, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order summary", err)
	}
	summary := &queries.OrderSummary{ByStatus: map[string]int64{}}
	for _, sc := range counts {
		summary.ByStatus[sc.status] = sc.count
		summary.TotalOrders += sc.count
		summary.PaidOrders += sc.paid
	}

	amount, err := r.paidAmount(ctx, scope)
	if err != nil {
		return nil, err
	}
	summary.Amount = amount
	return summary, nil
}

func (r *OrderReadStore) paidAmount(ctx context.Context, scope queries.OrderScope) (decimal.Decimal, error) {
	var amount decimal.Decimal
	var err error
	if scope.SellerID != nil {
		err = r.db.QueryRow(ctx, sellerEarningsSQL, *scope.SellerID).Scan(&amount)
	} else {
		w := &where{}
		scopeConditions(w, scope)
		w.add("o.payment_status = $?", "paid")
		err = r.db.QueryRow(ctx, orderPaidAmountSQL+w.sql(), w.args...).Scan(&amount)
	}
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr("failed to sum paid orders", err)
	}
	return amount, nil
}

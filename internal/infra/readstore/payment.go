package readstore

import (
	"context"

	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"
	"storefront-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentViewSQL = `
SELECT p.id, p.order_id, o.order_number, p.user_id, p.method, p.amount, p.currency, p.status,
	p.gateway_payment_id, p.paid_at, p.failure_reason, p.created_at, p.updated_at
FROM payments p JOIN orders o ON o.id = p.order_id`

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	pv, err := scanPaymentView(r.db.QueryRow(ctx, paymentViewSQL+" WHERE p.id = $1", id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return pv, nil
}

// FindLatestByOrderID returns the most recent attempt for the order.
func (r *PaymentReadStore) FindLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*queries.PaymentView, error) {
	query := paymentViewSQL + " WHERE p.order_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT 1"
	pv, err := scanPaymentView(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment for order", err)
	}
	return pv, nil
}

func (r *PaymentReadStore) ListByUser(ctx context.Context, userID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.PaymentView, error) {
	w := &where{}
	w.add("p.user_id = $?", userID)
	return r.list(ctx, w, after, limit)
}

func (r *PaymentReadStore) ListAll(ctx context.Context, filter queries.PaymentFilter, after *queries.Keyset, limit int32) ([]*queries.PaymentView, error) {
	w := &where{}
	if filter.Status != nil {
		w.add("p.status = $?", *filter.Status)
	}
	if filter.Method != nil {
		w.add("p.method = $?", *filter.Method)
	}
	return r.list(ctx, w, after, limit)
}

func (r *PaymentReadStore) list(ctx context.Context, w *where, after *queries.Keyset, limit int32) ([]*queries.PaymentView, error) {
	if after != nil {
		w.add("(p.created_at, p.id) < ($?, $?)", after.CreatedAt, after.ID)
	}
	query := paymentViewSQL + w.sql() + " ORDER BY p.created_at DESC, p.id DESC" + w.limit(limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.PaymentView, error) {
		return scanPaymentView(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan payments", err)
	}
	return list, nil
}

func scanPaymentView(row pgx.Row) (*queries.PaymentView, error) {
	var pv queries.PaymentView
	err := row.Scan(
		&pv.ID, &pv.OrderID, &pv.OrderNumber, &pv.UserID, &pv.Method, &pv.Amount, &pv.Currency, &pv.Status,
		&pv.GatewayPaymentID, &pv.PaidAt, &pv.FailureReason, &pv.CreatedAt, &pv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pv, nil
}

package repository

import (
	"context"
	"time"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `
	id, order_id, user_id, method, amount, currency, status,
	gateway_payment_id, paid_at, failure_reason, created_at, updated_at`

const (
	insertPaymentSQL = `
INSERT INTO payments (` + paymentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	setGatewayPaymentIDSQL = `UPDATE payments SET gateway_payment_id = $2, updated_at = $3 WHERE id = $1`

	updatePaymentStatusSQL = `
UPDATE payments SET status = $2, paid_at = $3, failure_reason = $4, updated_at = $5
WHERE id = $1`

	selectPaymentByIDSQL        = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	selectPaymentByGatewayIDSQL = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_payment_id = $1`
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, insertPaymentSQL,
		p.ID, p.OrderID, p.UserID, string(p.Method), p.Amount, p.Currency, string(p.Status),
		p.GatewayPaymentID, p.PaidAt, p.FailureReason, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) SetGatewayPaymentID(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID string, at time.Time) error {
	return r.exec(ctx, "failed to set gateway payment id", setGatewayPaymentIDSQL, paymentID, gatewayPaymentID, at)
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, p *payment.Payment) error {
	return r.exec(ctx, "failed to update payment status", updatePaymentStatusSQL,
		p.ID, string(p.Status), p.PaidAt, p.FailureReason, p.UpdatedAt)
}

func (r *PaymentRepository) exec(ctx context.Context, msg, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, selectPaymentByIDSQL, paymentID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*payment.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, selectPaymentByGatewayIDSQL, gatewayPaymentID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment by gateway id", err)
	}
	return p, nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var method, status string
	err := row.Scan(
		&p.ID, &p.OrderID, &p.UserID, &method, &p.Amount, &p.Currency, &status,
		&p.GatewayPaymentID, &p.PaidAt, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Method = order.PaymentMethod(method)
	p.Status = payment.Status(status)
	return &p, nil
}

package queries

import (
	"context"
	"time"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*PaymentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Keyset, limit int32) ([]*PaymentView, error)
	ListAll(ctx context.Context, filter PaymentFilter, after *Keyset, limit int32) ([]*PaymentView, error)
}

type PaymentQueries interface {
	GetPaymentByOrder(ctx context.Context, orderID, userID uuid.UUID) (*PaymentView, error)
	GetPaymentByID(ctx context.Context, paymentID, actorID uuid.UUID, role user.Role) (*PaymentView, error)
	ListUserPayments(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error)
	ListAllPayments(ctx context.Context, role user.Role, filter PaymentFilter, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error)
}

type paymentQueriesImpl struct {
	store PaymentReadStore
}

func NewPaymentQueries(store PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{store: store}
}

func paymentLookupError(err error) error {
	if errs.KindOf(err) == errs.KindNotFound {
		return errs.NotFound(err, "Payment not found")
	}
	return errs.Fatal(err, "Failed to load payment")
}

func (q *paymentQueriesImpl) GetPaymentByOrder(ctx context.Context, orderID, userID uuid.UUID) (*PaymentView, error) {
	pv, err := q.store.FindLatestByOrderID(ctx, orderID)
	if err != nil {
		return nil, paymentLookupError(err)
	}
	if pv.UserID != userID {
		return nil, errs.Forbidden(nil, "Payment does not belong to user")
	}
	return pv, nil
}

func (q *paymentQueriesImpl) GetPaymentByID(ctx context.Context, paymentID, actorID uuid.UUID, role user.Role) (*PaymentView, error) {
	pv, err := q.store.FindByID(ctx, paymentID)
	if err != nil {
		return nil, paymentLookupError(err)
	}
	if role != user.RoleAdmin && pv.UserID != actorID {
		return nil, errs.Forbidden(nil, "Payment does not belong to user")
	}
	return pv, nil
}

func paymentKey(p *PaymentView) (time.Time, uuid.UUID) {
	return p.CreatedAt, p.ID
}

func (q *paymentQueriesImpl) ListUserPayments(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error) {
	limit = ValidateLimit(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	rows, err := q.store.ListByUser(ctx, userID, after, int32(limit+1))
	if err != nil {
		return nil, nil, errs.Fatal(err, "Failed to list payments")
	}
	rows, next := paginate(rows, limit, paymentKey)
	return rows, next, nil
}

func (q *paymentQueriesImpl) ListAllPayments(ctx context.Context, role user.Role, filter PaymentFilter, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error) {
	if role != user.RoleAdmin {
		return nil, nil, errs.Forbidden(nil, "Admin access required")
	}
	limit = ValidateLimit(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	rows, err := q.store.ListAll(ctx, filter, after, int32(limit+1))
	if err != nil {
		return nil, nil, errs.Fatal(err, "Failed to list payments")
	}
	rows, next := paginate(rows, limit, paymentKey)
	return rows, next, nil
}

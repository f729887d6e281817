package queries

import (
	"context"
	"time"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, scope OrderScope, filter OrderFilter, after *Keyset, limit int32) ([]*OrderListItem, error)
	Summary(ctx context.Context, scope OrderScope) (*OrderSummary, error)
}

type OrderQueries interface {
	GetOrderByID(ctx context.Context, orderID, actorID uuid.UUID, role user.Role) (*OrderView, error)
	ListOrders(ctx context.Context, actorID uuid.UUID, role user.Role, filter OrderFilter, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	GetOrderSummary(ctx context.Context, actorID uuid.UUID, role user.Role) (*OrderSummary, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetOrderByID(ctx context.Context, orderID, actorID uuid.UUID, role user.Role) (*OrderView, error) {
	ov, err := q.store.FindByID(ctx, orderID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.NotFound(err, "Order not found")
		}
		return nil, errs.Fatal(err, "Failed to load order")
	}
	if !canView(ov, actorID, role) {
		return nil, errs.Forbidden(nil, "Not allowed to view this order")
	}
	return ov, nil
}

func canView(ov *OrderView, actorID uuid.UUID, role user.Role) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RoleSeller:
		if ov.UserID == actorID {
			return true
		}
		for _, b := range ov.SellerBreakdown {
			if b.SellerID == actorID {
				return true
			}
		}
		for _, it := range ov.Items {
			if it.SellerID == actorID {
				return true
			}
		}
		return false
	default:
		return ov.UserID == actorID
	}
}

func scopeFor(actorID uuid.UUID, role user.Role) OrderScope {
	switch role {
	case user.RoleAdmin:
		return OrderScope{}
	case user.RoleSeller:
		return OrderScope{SellerID: &actorID}
	default:
		return OrderScope{BuyerID: &actorID}
	}
}

func (q *orderQueriesImpl) ListOrders(ctx context.Context, actorID uuid.UUID, role user.Role, filter OrderFilter, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	rows, err := q.store.List(ctx, scopeFor(actorID, role), filter, after, int32(limit+1))
	if err != nil {
		return nil, nil, errs.Fatal(err, "Failed to list orders")
	}
	rows, next := paginate(rows, limit, func(r *OrderListItem) (t time.Time, id uuid.UUID) {
		return r.CreatedAt, r.ID
	})
	return rows, next, nil
}

func (q *orderQueriesImpl) GetOrderSummary(ctx context.Context, actorID uuid.UUID, role user.Role) (*OrderSummary, error) {
	summary, err := q.store.Summary(ctx, scopeFor(actorID, role))
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load order summary")
	}
	if summary.ByStatus == nil {
		summary.ByStatus = map[string]int64{}
	}
	return summary, nil
}

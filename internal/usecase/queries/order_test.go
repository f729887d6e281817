//go:build unit

package queries_test

import (
	"errors"
	"testing"
	"time"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/queries"
	queriesmock "storefront-core/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func listRows(n int, start time.Time) []*queries.OrderListItem {
	rows := make([]*queries.OrderListItem, n)
	for i := range rows {
		rows[i] = &queries.OrderListItem{ID: uuid.New(), CreatedAt: start.Add(-time.Duration(i) * time.Minute)}
	}
	return rows
}

func TestOrderQueries_GetOrderByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOrderReadStore(ctrl)
	q := queries.NewOrderQueries(store)

	buyer, seller := uuid.New(), uuid.New()
	view := &queries.OrderView{
		ID:     uuid.New(),
		UserID: buyer,
		Items:  []queries.OrderItemView{{SellerID: seller}},
	}
	store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil).AnyTimes()

	cases := []struct {
		name  string
		actor uuid.UUID
		role  user.Role
		kind  errs.Kind
	}{
		{name: "owner", actor: buyer, role: user.RoleBuyer},
		{name: "seller of an item", actor: seller, role: user.RoleSeller},
		{name: "admin", actor: uuid.New(), role: user.RoleAdmin},
		{name: "other buyer", actor: uuid.New(), role: user.RoleBuyer, kind: errs.KindForbidden},
		{name: "other seller", actor: uuid.New(), role: user.RoleSeller, kind: errs.KindForbidden},
		{name: "seller id used as buyer", actor: seller, role: user.RoleBuyer, kind: errs.KindForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := q.GetOrderByID(t.Context(), view.ID, tc.actor, tc.role)
			if tc.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, view, got)
				return
			}
			assert.Equal(t, tc.kind, errs.KindOf(err))
		})
	}

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		store.EXPECT().FindByID(gomock.Any(), id).Return(nil, errs.NotFound(nil, "no rows"))
		_, err := q.GetOrderByID(t.Context(), id, buyer, user.RoleBuyer)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestOrderQueries_ListOrdersScopesByRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOrderReadStore(ctrl)
	q := queries.NewOrderQueries(store)
	actor := uuid.New()

	store.EXPECT().List(gomock.Any(), queries.OrderScope{BuyerID: &actor}, gomock.Any(), gomock.Nil(), int32(21)).Return(nil, nil)
	store.EXPECT().List(gomock.Any(), queries.OrderScope{SellerID: &actor}, gomock.Any(), gomock.Nil(), int32(21)).Return(nil, nil)
	store.EXPECT().List(gomock.Any(), queries.OrderScope{}, gomock.Any(), gomock.Nil(), int32(21)).Return(nil, nil)

	for _, role := range []user.Role{user.RoleBuyer, user.RoleSeller, user.RoleAdmin} {
		_, next, err := q.ListOrders(t.Context(), actor, role, queries.OrderFilter{}, nil, 0)
		require.NoError(t, err)
		assert.Nil(t, next)
	}
}

func TestOrderQueries_ListOrdersPaginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOrderReadStore(ctrl)
	q := queries.NewOrderQueries(store)
	actor := uuid.New()
	start := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	rows := listRows(4, start)
	store.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Nil(), int32(4)).Return(rows, nil)

	page, next, err := q.ListOrders(t.Context(), actor, user.RoleBuyer, queries.OrderFilter{}, nil, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	require.NotNil(t, next)

	createdAt, id, err := queries.DecodeAfterCursor(next.After)
	require.NoError(t, err)
	assert.Equal(t, rows[2].ID, id)
	assert.True(t, rows[2].CreatedAt.Equal(createdAt))

	store.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), &queries.Keyset{CreatedAt: createdAt, ID: id}, int32(4)).
		Return(rows[3:], nil)
	page, next, err = q.ListOrders(t.Context(), actor, user.RoleBuyer, queries.OrderFilter{}, next, 3)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Nil(t, next)

	_, _, err = q.ListOrders(t.Context(), actor, user.RoleBuyer, queries.OrderFilter{}, &queries.Cursor{After: "garbage"}, 3)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestOrderQueries_GetOrderSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOrderReadStore(ctrl)
	q := queries.NewOrderQueries(store)
	seller := uuid.New()

	store.EXPECT().Summary(gomock.Any(), queries.OrderScope{SellerID: &seller}).Return(&queries.OrderSummary{}, nil)
	summary, err := q.GetOrderSummary(t.Context(), seller, user.RoleSeller)
	require.NoError(t, err)
	assert.NotNil(t, summary.ByStatus)

	store.EXPECT().Summary(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	_, err = q.GetOrderSummary(t.Context(), seller, user.RoleSeller)
	assert.Equal(t, errs.KindFatal, errs.KindOf(err))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
}

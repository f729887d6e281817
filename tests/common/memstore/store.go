//go:build unit

// Package memstore is an in-memory UnitOfWork for use case tests. Within runs
// serialized and rolls its writes back when fn fails.
package memstore

import (
	"context"
	"sync"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type state struct {
	orders   map[uuid.UUID]*order.Order
	payments map[uuid.UUID]*payment.Payment
	wallets  map[uuid.UUID]*wallet.Wallet
	walletTx []wallet.Transaction
	coupons  map[coupon.Code]*coupon.Coupon
	usages   []coupon.Usage
	carts    map[uuid.UUID][]cart.Item
}

type Store struct {
	mu       sync.Mutex
	st       state
	failures map[string]error
}

func New() *Store {
	return &Store{
		st: state{
			orders:   map[uuid.UUID]*order.Order{},
			payments: map[uuid.UUID]*payment.Payment{},
			wallets:  map[uuid.UUID]*wallet.Wallet{},
			coupons:  map[coupon.Code]*coupon.Coupon{},
			carts:    map[uuid.UUID][]cart.Item{},
		},
		failures: map[string]error{},
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

// FailOn makes the named repository operation (e.g. "orders.create_items")
// return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &memTx{s: s})
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

type memTx struct {
	s *Store
}

func (t *memTx) Orders() shared.OrderRepository     { return orderRepo{t.s} }
func (t *memTx) Payments() shared.PaymentRepository { return paymentRepo{t.s} }
func (t *memTx) Wallets() shared.WalletRepository   { return walletRepo{t.s} }
func (t *memTx) Coupons() shared.CouponRepository   { return couponRepo{t.s} }
func (t *memTx) Carts() shared.CartRepository       { return cartRepo{t.s} }

func (st state) clone() state {
	out := state{
		orders:   make(map[uuid.UUID]*order.Order, len(st.orders)),
		payments: make(map[uuid.UUID]*payment.Payment, len(st.payments)),
		wallets:  make(map[uuid.UUID]*wallet.Wallet, len(st.wallets)),
		walletTx: append([]wallet.Transaction(nil), st.walletTx...),
		coupons:  make(map[coupon.Code]*coupon.Coupon, len(st.coupons)),
		usages:   append([]coupon.Usage(nil), st.usages...),
		carts:    make(map[uuid.UUID][]cart.Item, len(st.carts)),
	}
	for k, v := range st.orders {
		out.orders[k] = cloneOrder(v)
	}
	for k, v := range st.payments {
		p := *v
		out.payments[k] = &p
	}
	for k, v := range st.wallets {
		w := *v
		out.wallets[k] = &w
	}
	for k, v := range st.coupons {
		out.coupons[k] = v
	}
	for k, v := range st.carts {
		out.carts[k] = append([]cart.Item(nil), v...)
	}
	return out
}

func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Items = append([]order.Item(nil), o.Items...)
	c.SellerBreakdown = append([]order.SellerBreakdown(nil), o.SellerBreakdown...)
	return &c
}

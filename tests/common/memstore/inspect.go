//go:build unit

package memstore

import (
	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"

	"github.com/google/uuid"
)

func (s *Store) PutOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.orders[o.ID] = cloneOrder(o)
}

func (s *Store) PutCoupon(c *coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.coupons[c.Code()] = c
}

func (s *Store) PutCart(userID uuid.UUID, items ...cart.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.carts[userID] = append([]cart.Item(nil), items...)
}

func (s *Store) PutWallet(w *wallet.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *w
	s.st.wallets[w.UserID] = &c
}

func (s *Store) Order(id uuid.UUID) (*order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[id]
	if !ok {
		return nil, false
	}
	return cloneOrder(o), true
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders)
}

func (s *Store) Payments() []payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]payment.Payment, 0, len(s.st.payments))
	for _, p := range s.st.payments {
		out = append(out, *p)
	}
	return out
}

func (s *Store) Wallet(userID uuid.UUID) (*wallet.Wallet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.st.wallets[userID]
	if !ok {
		return nil, false
	}
	c := *w
	return &c, true
}

func (s *Store) WalletTransactions(walletID uuid.UUID) []wallet.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []wallet.Transaction
	for _, t := range s.st.walletTx {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Usages() []coupon.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]coupon.Usage(nil), s.st.usages...)
}

func (s *Store) CartItems(userID uuid.UUID) []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cart.Item(nil), s.st.carts[userID]...)
}

//go:build unit

package memstore

import (
	"context"
	"time"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"
	"storefront-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	if err := r.s.fail("orders.create"); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[o.ID]; ok {
		return errs.Conflict(nil, "order exists")
	}
	r.s.st.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r orderRepo) CreateItems(_ context.Context, items []order.Item) error {
	if err := r.s.fail("orders.create_items"); err != nil {
		return err
	}
	for _, it := range items {
		o, ok := r.s.st.orders[it.OrderID]
		if !ok {
			return errs.Validation(nil, "order missing")
		}
		o.Items = append(o.Items, it)
	}
	return nil
}

func (r orderRepo) SaveBreakdown(_ context.Context, orderID uuid.UUID, breakdown []order.SellerBreakdown, at time.Time) error {
	if err := r.s.fail("orders.save_breakdown"); err != nil {
		return err
	}
	o, ok := r.s.st.orders[orderID]
	if !ok {
		return errs.NotFound(nil, "order not found")
	}
	o.SellerBreakdown = append([]order.SellerBreakdown(nil), breakdown...)
	o.UpdatedAt = at
	return nil
}

func (r orderRepo) DeleteItems(_ context.Context, orderID uuid.UUID) error {
	if o, ok := r.s.st.orders[orderID]; ok {
		o.Items = nil
	}
	return nil
}

func (r orderRepo) Delete(_ context.Context, orderID uuid.UUID) error {
	delete(r.s.st.orders, orderID)
	return nil
}

func (r orderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, ok := r.s.st.orders[orderID]
	if !ok {
		return nil, errs.NotFound(nil, "order not found")
	}
	return cloneOrder(o), nil
}

func (r orderRepo) FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	return r.FindByID(ctx, orderID)
}

func (r orderRepo) UpdateState(_ context.Context, o *order.Order) error {
	if err := r.s.fail("orders.update_state"); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[o.ID]; !ok {
		return errs.NotFound(nil, "order not found")
	}
	r.s.st.orders[o.ID] = cloneOrder(o)
	return nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if err := r.s.fail("payments.create"); err != nil {
		return err
	}
	c := *p
	r.s.st.payments[p.ID] = &c
	return nil
}

func (r paymentRepo) SetGatewayPaymentID(_ context.Context, paymentID uuid.UUID, gatewayPaymentID string, at time.Time) error {
	p, ok := r.s.st.payments[paymentID]
	if !ok {
		return errs.NotFound(nil, "payment not found")
	}
	gid := gatewayPaymentID
	p.GatewayPaymentID = &gid
	p.UpdatedAt = at
	return nil
}

func (r paymentRepo) UpdateStatus(_ context.Context, p *payment.Payment) error {
	if _, ok := r.s.st.payments[p.ID]; !ok {
		return errs.NotFound(nil, "payment not found")
	}
	c := *p
	r.s.st.payments[p.ID] = &c
	return nil
}

func (r paymentRepo) FindByID(_ context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	p, ok := r.s.st.payments[paymentID]
	if !ok {
		return nil, errs.NotFound(nil, "payment not found")
	}
	c := *p
	return &c, nil
}

func (r paymentRepo) FindByGatewayPaymentID(_ context.Context, gatewayPaymentID string) (*payment.Payment, error) {
	for _, p := range r.s.st.payments {
		if p.GatewayPaymentID != nil && *p.GatewayPaymentID == gatewayPaymentID {
			c := *p
			return &c, nil
		}
	}
	return nil, errs.NotFound(nil, "payment not found")
}

type walletRepo struct{ s *Store }

func (r walletRepo) GetOrCreate(_ context.Context, w *wallet.Wallet) (*wallet.Wallet, error) {
	if existing, ok := r.s.st.wallets[w.UserID]; ok {
		c := *existing
		return &c, nil
	}
	c := *w
	r.s.st.wallets[w.UserID] = &c
	out := c
	return &out, nil
}

func (r walletRepo) FindByUserIDForUpdate(_ context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	w, ok := r.s.st.wallets[userID]
	if !ok {
		return nil, errs.NotFound(nil, "wallet not found")
	}
	c := *w
	return &c, nil
}

func (r walletRepo) UpdateBalance(_ context.Context, w *wallet.Wallet) error {
	if err := r.s.fail("wallets.update_balance"); err != nil {
		return err
	}
	stored, ok := r.s.st.wallets[w.UserID]
	if !ok {
		return errs.NotFound(nil, "wallet not found")
	}
	stored.Balance = w.Balance
	stored.UpdatedAt = w.UpdatedAt
	return nil
}

func (r walletRepo) AppendTransaction(_ context.Context, t wallet.Transaction) error {
	if err := r.s.fail("wallets.append_transaction"); err != nil {
		return err
	}
	r.s.st.walletTx = append(r.s.st.walletTx, t)
	return nil
}

func (r walletRepo) Totals(_ context.Context, walletID uuid.UUID) (credited, debited decimal.Decimal, count int64, err error) {
	for _, t := range r.s.st.walletTx {
		if t.WalletID != walletID {
			continue
		}
		count++
		if t.Type == wallet.TypeCredit {
			credited = credited.Add(t.Amount)
		} else {
			debited = debited.Add(t.Amount)
		}
	}
	return credited, debited, count, nil
}

func (r walletRepo) ListTransactions(_ context.Context, walletID uuid.UUID, limit, offset int) ([]wallet.Transaction, int64, error) {
	var all []wallet.Transaction
	for i := len(r.s.st.walletTx) - 1; i >= 0; i-- {
		if r.s.st.walletTx[i].WalletID == walletID {
			all = append(all, r.s.st.walletTx[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []wallet.Transaction{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

type couponRepo struct{ s *Store }

func (r couponRepo) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	c, ok := r.s.st.coupons[code]
	if !ok {
		return nil, errs.NotFound(nil, "coupon not found")
	}
	return c, nil
}

func (r couponRepo) CountActiveUsages(_ context.Context, couponID, userID uuid.UUID) (coupon.UsageCounts, error) {
	var counts coupon.UsageCounts
	for _, u := range r.s.st.usages {
		if u.CouponID != couponID || u.Status != coupon.UsageActive {
			continue
		}
		counts.Total++
		if u.UserID == userID {
			counts.ForUser++
		}
	}
	return counts, nil
}

func (r couponRepo) InsertUsage(_ context.Context, u coupon.Usage) error {
	if err := r.s.fail("coupons.insert_usage"); err != nil {
		return err
	}
	for _, existing := range r.s.st.usages {
		if existing.CouponID == u.CouponID && existing.UserID == u.UserID && existing.OrderID == u.OrderID {
			return errs.Conflict(nil, "duplicate coupon usage")
		}
	}
	r.s.st.usages = append(r.s.st.usages, u)
	return nil
}

func (r couponRepo) FindUsage(_ context.Context, couponID, userID, orderID uuid.UUID) (*coupon.Usage, error) {
	for _, u := range r.s.st.usages {
		if u.CouponID == couponID && u.UserID == userID && u.OrderID == orderID {
			c := u
			return &c, nil
		}
	}
	return nil, errs.NotFound(nil, "coupon usage not found")
}

func (r couponRepo) MarkUsageReversed(_ context.Context, couponID, userID, orderID uuid.UUID, at time.Time) (bool, error) {
	for i, u := range r.s.st.usages {
		if u.CouponID == couponID && u.UserID == userID && u.OrderID == orderID && u.Status == coupon.UsageActive {
			r.s.st.usages[i].Status = coupon.UsageReversed
			r.s.st.usages[i].ReversedAt = &at
			return true, nil
		}
	}
	return false, nil
}

type cartRepo struct{ s *Store }

func (r cartRepo) Load(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return cart.NewCart(userID, append([]cart.Item(nil), r.s.st.carts[userID]...)), nil
}

func (r cartRepo) Save(_ context.Context, c *cart.Cart) error {
	r.s.st.carts[c.UserID()] = c.Items()
	return nil
}

func (r cartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	if err := r.s.fail("carts.clear"); err != nil {
		return err
	}
	delete(r.s.st.carts, userID)
	return nil
}

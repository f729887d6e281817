//go:build unit

package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/infra/kvstore"
	"storefront-core/internal/infra/marketplace"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/shared"
	"storefront-core/tests/common/memstore"
	sharedmock "storefront-core/tests/mock/shared"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	catalog  *memstore.Catalog
	redis    *miniredis.Miniredis
	keys     *kvstore.RedisKeyStore
	gateway  *sharedmock.MockCardGateway
	verifier *sharedmock.MockWebhookVerifier
	clock    *clock.MockClock
	cfg      config.Config

	carts    commands.CartCommands
	coupons  commands.CouponCommands
	wallets  commands.WalletLedger
	orders   commands.OrderCommands
	payments commands.PaymentCommands

	buyer   uuid.UUID
	address shared.Address
}

// newFixture builds every command over fresh in-memory stores. Options adjust
// the test config before anything reads it.
func newFixture(t *testing.T, opts ...func(*config.Config)) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		store:    memstore.New(),
		catalog:  memstore.NewCatalog(),
		redis:    mr,
		keys:     kvstore.NewRedisKeyStore(client, "test:"),
		gateway:  sharedmock.NewMockCardGateway(ctrl),
		verifier: sharedmock.NewMockWebhookVerifier(ctrl),
		clock:    clock.NewMockClock(testNow),
		cfg:      config.NewTestConfig(),
		buyer:    uuid.New(),
	}
	for _, opt := range opts {
		opt(&f.cfg)
	}
	f.address = shared.Address{
		ID:         uuid.New(),
		UserID:     f.buyer,
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
	addresses := memstore.AddressBook{f.address.ID: f.address}

	logger := slog.New(slog.DiscardHandler)
	policy := marketplace.NewFlatRatePolicy(f.cfg.Checkout)

	f.carts = commands.NewCartCommands(f.store, f.catalog, f.clock, f.cfg, logger)
	f.coupons = commands.NewCouponCommands(f.store, f.clock, logger)
	f.wallets = commands.NewWalletLedger(f.store, f.gateway, f.keys, f.clock, f.cfg, logger)
	f.orders = commands.NewOrderCommands(
		f.store, f.carts, f.coupons, addresses, f.catalog,
		marketplace.NewFlatRateShipping(policy),
		marketplace.NewOrderNumberGenerator(f.clock),
		marketplace.NewBreakdownCalculator(policy, f.cfg.Checkout),
		f.clock, f.cfg, logger,
	)
	f.payments = commands.NewPaymentCommands(f.store, f.gateway, f.verifier, f.keys, f.wallets, f.clock, f.cfg, logger)
	return f
}

// product registers an active product with the catalog and returns it.
func (f *fixture) product(seller uuid.UUID, price string, stock int) cart.CurrentProduct {
	p := cart.CurrentProduct{
		ProductID: uuid.New(),
		SellerID:  seller,
		Title:     "Product " + price,
		Thumbnail: "https://cdn.example.com/p.png",
		Active:    true,
		Stock:     stock,
		Price:     cart.PriceSnapshot{BasePrice: dec(price), Currency: "INR"},
	}
	f.catalog.Put(p)
	return p
}

func (f *fixture) addToCart(t *testing.T, p cart.CurrentProduct, qty int) {
	t.Helper()
	_, err := f.carts.AddItem(t.Context(), f.buyer, commands.AddCartItemInput{
		ProductID: p.ProductID,
		VariantID: p.VariantID,
		Quantity:  qty,
	})
	require.NoError(t, err)
}

func (f *fixture) percentCoupon(t *testing.T, code string, percent string) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(coupon.Params{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: dec(percent),
		PerUserLimit:  1,
		IsActive:      true,
	})
	require.NoError(t, err)
	f.store.PutCoupon(c)
	return c
}

func (f *fixture) placeOrder(t *testing.T, method order.PaymentMethod, couponCode *string) *order.Order {
	t.Helper()
	o, err := f.orders.PlaceOrder(t.Context(), f.buyer, commands.PlaceOrderInput{
		DeliveryAddressID: f.address.ID,
		CouponCode:        couponCode,
		PaymentMethod:     method,
	})
	require.NoError(t, err)
	return o
}

// confirmedOrder stores a confirmed, unpaid order for the buyer.
func (f *fixture) confirmedOrder(t *testing.T, final string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.NewOrderParams{
		OrderNumber:       "ORD-20250314-TESTTESTTE",
		UserID:            f.buyer,
		DeliveryAddressID: f.address.ID,
		PaymentMethod:     order.MethodCard,
		Amounts: order.Amounts{
			Subtotal:    dec(final),
			FinalAmount: dec(final),
		},
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(order.StatusConfirmed, testNow))
	f.store.PutOrder(o)
	return o
}

package shared

import (
	"context"
	"time"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statements using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Wallets() WalletRepository
	Coupons() CouponRepository
	Carts() CartRepository
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	CreateItems(ctx context.Context, items []order.Item) error
	SaveBreakdown(ctx context.Context, orderID uuid.UUID, breakdown []order.SellerBreakdown, at time.Time) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
	FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
	UpdateState(ctx context.Context, o *order.Order) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	SetGatewayPaymentID(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID string, at time.Time) error
	UpdateStatus(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error)
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*payment.Payment, error)
}

type WalletRepository interface {
	GetOrCreate(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	UpdateBalance(ctx context.Context, w *wallet.Wallet) error
	AppendTransaction(ctx context.Context, t wallet.Transaction) error
	Totals(ctx context.Context, walletID uuid.UUID) (credited, debited decimal.Decimal, count int64, err error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]wallet.Transaction, int64, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	CountActiveUsages(ctx context.Context, couponID, userID uuid.UUID) (coupon.UsageCounts, error)
	InsertUsage(ctx context.Context, u coupon.Usage) error
	FindUsage(ctx context.Context, couponID, userID, orderID uuid.UUID) (*coupon.Usage, error)
	MarkUsageReversed(ctx context.Context, couponID, userID, orderID uuid.UUID, at time.Time) (bool, error)
}

type CartRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

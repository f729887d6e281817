package components

import (
	"storefront-core/internal/handler"
	"storefront-core/internal/handler/api"
	"storefront-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCartHandler,
		api.NewCouponHandler,
		api.NewOrderHandler,
		api.NewPaymentHandler,
		api.NewWalletHandler,
		api.NewWebhookHandler,
		func(
			cart *api.CartHandler,
			coupon *api.CouponHandler,
			order *api.OrderHandler,
			payment *api.PaymentHandler,
			wallet *api.WalletHandler,
			webhook *api.WebhookHandler,
		) handler.Handlers {
			return handler.Handlers{
				Cart:    cart,
				Coupon:  coupon,
				Order:   order,
				Payment: payment,
				Wallet:  wallet,
				Webhook: webhook,
			}
		},
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/api"
	"storefront-core/internal/handler/middleware"
	"storefront-core/internal/handler/validation"
	"storefront-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups every API handler the router mounts.
type Handlers struct {
	Cart    *api.CartHandler
	Coupon  *api.CouponHandler
	Order   *api.OrderHandler
	Payment *api.PaymentHandler
	Wallet  *api.WalletHandler
	Webhook *api.WebhookHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	validation.RegisterGinValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler(logger))
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	sellerOnly := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleSeller)}
	adminOnly := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)}

	apiGroup := engine.Group("/api")
	{
		// Authenticated by the gateway signature, not a bearer token.
		addRoutes(apiGroup.Group("/webhooks"), []route{
			{Method: http.MethodPost, Path: "/gateway", Handler: h.Webhook.HandleGatewayEvent},
		})

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())

		addRoutes(authed.Group("/cart"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Cart.GetCart},
			{Method: http.MethodDelete, Path: "", Handler: h.Cart.ClearCart},
			{Method: http.MethodPost, Path: "/items", Handler: h.Cart.AddItem},
			{Method: http.MethodPatch, Path: "/items/:productId", Handler: h.Cart.UpdateItemQuantity},
			{Method: http.MethodDelete, Path: "/items/:productId", Handler: h.Cart.RemoveItem},
			{Method: http.MethodPost, Path: "/sync-prices", Handler: h.Cart.SyncCartPrices},
			{Method: http.MethodGet, Path: "/checkout-validation", Handler: h.Cart.ValidateCartForCheckout},
		})

		addRoutes(authed.Group("/coupons"), []route{
			{Method: http.MethodPost, Path: "/validate", Handler: h.Coupon.ValidateCoupon},
		})

		addRoutes(authed.Group("/orders"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Order.PlaceOrder},
			{Method: http.MethodGet, Path: "", Handler: h.Order.ListOrders},
			{Method: http.MethodGet, Path: "/summary", Handler: h.Order.GetOrderSummary},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Order.GetOrder},
			{Method: http.MethodGet, Path: "/:id/payment", Handler: h.Order.GetOrderPayment},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Order.CancelOrder},
			{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Order.UpdateOrderStatus, Mw: sellerOnly},
			{Method: http.MethodPatch, Path: "/:id/refund-status", Handler: h.Order.UpdateRefundStatus, Mw: adminOnly},
		})

		addRoutes(authed.Group("/payments"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Payment.InitiatePayment},
			{Method: http.MethodGet, Path: "", Handler: h.Payment.ListUserPayments},
			{Method: http.MethodPost, Path: "/confirm", Handler: h.Payment.ConfirmPayment},
			{Method: http.MethodPost, Path: "/cod", Handler: h.Payment.ConfirmCashOnDelivery},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Payment.GetPayment},
		})

		addRoutes(authed.Group("/wallet"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Wallet.GetWallet},
			{Method: http.MethodGet, Path: "/summary", Handler: h.Wallet.GetSummary},
			{Method: http.MethodGet, Path: "/transactions", Handler: h.Wallet.ListTransactions},
			{Method: http.MethodPost, Path: "/topup", Handler: h.Wallet.TopUp},
		})

		addRoutes(authed.Group("/admin"), []route{
			{Method: http.MethodGet, Path: "/payments", Handler: h.Payment.ListAllPayments, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/wallets/:userId/credit", Handler: h.Wallet.AdminCredit, Mw: adminOnly},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

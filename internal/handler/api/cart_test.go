//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/api"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/validation"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/commands"
	"storefront-core/tests/common/builder"
	"storefront-core/tests/common/httptest"
	"storefront-core/tests/common/testutil"
	commandsmock "storefront-core/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockCarts   *commandsmock.MockCartCommands
	mockCoupons *commandsmock.MockCouponCommands
	actor       *testActor
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	validation.RegisterGinValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCarts = commandsmock.NewMockCartCommands(s.mockCtrl)
	s.mockCoupons = commandsmock.NewMockCouponCommands(s.mockCtrl)
	h := api.NewCartHandler(s.mockCarts)
	ch := api.NewCouponHandler(s.mockCoupons, s.mockCarts)
	s.actor = newTestActor(user.RoleBuyer)

	auth := s.actor.middleware()
	s.router.GET("/cart", auth, h.GetCart)
	s.router.DELETE("/cart", auth, h.ClearCart)
	s.router.POST("/cart/items", auth, h.AddItem)
	s.router.PATCH("/cart/items/:productId", auth, h.UpdateItemQuantity)
	s.router.DELETE("/cart/items/:productId", auth, h.RemoveItem)
	s.router.POST("/cart/sync-prices", auth, h.SyncCartPrices)
	s.router.GET("/cart/checkout-validation", auth, h.ValidateCartForCheckout)
	s.router.POST("/coupons/validate", auth, ch.ValidateCoupon)
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) TestAddItem() {
	b := builder.NewCartBuilder().With(func(b *builder.CartBuilder) { b.UserID = s.actor.id })
	reqBody := b.BuildAddRequestDTO()

	s.Run("success returns the recomputed cart", func() {
		s.mockCarts.EXPECT().
			AddItem(gomock.Any(), s.actor.id, commands.AddCartItemInput{ProductID: b.ProductID, Quantity: 2}).
			Return(b.BuildDomain(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", reqBody, "bearer-token")

		var body resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(2, body.TotalItems)
		s.True(decimal.NewFromInt(200).Equal(body.TotalAmount))
		s.Require().Len(body.Items, 1)
		s.True(decimal.NewFromInt(200).Equal(body.Items[0].LineTotal))
	})

	bounds := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "quantity 0", mutate: testutil.Field("quantity", 0)},
		{name: "quantity 101", mutate: testutil.Field("quantity", 101)},
		{name: "missing product_id", mutate: testutil.Field("product_id", nil)},
	}
	for _, tc := range bounds {
		s.Run("400: "+tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", body, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}

	s.Run("stock shortfall detail", func() {
		s.mockCarts.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.BusinessRule(nil, "Insufficient stock").WithDetail(map[string]int{"requested": 4, "available": 3}))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Insufficient stock")
		s.Contains(rec.Body.String(), `"available":3`)
	})
}

func (s *CartHandlerTestSuite) TestLineRoutes() {
	productID, variantID := uuid.New(), uuid.New()
	c := builder.NewCartBuilder().BuildDomain()

	s.Run("update targets the variant line", func() {
		s.mockCarts.EXPECT().
			UpdateItemQuantity(gomock.Any(), s.actor.id, cart.LineKey{ProductID: productID, VariantID: variantID}, 3).
			Return(c, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/cart/items/"+productID.String(),
			map[string]any{"variant_id": variantID, "quantity": 3}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("remove reads the variant from the query", func() {
		s.mockCarts.EXPECT().
			RemoveItem(gomock.Any(), s.actor.id, cart.LineKey{ProductID: productID, VariantID: variantID}).
			Return(c, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/cart/items/"+productID.String()+"?variant_id="+variantID.String(), nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("remove rejects a malformed variant", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/cart/items/"+productID.String()+"?variant_id=not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query parameters")
	})

	s.Run("remove of a missing line", func() {
		s.mockCarts.EXPECT().RemoveItem(gomock.Any(), gomock.Any(), cart.LineKey{ProductID: productID}).
			Return(nil, errs.NotFound(nil, "Item not in cart"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/cart/items/"+productID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Item not in cart")
	})

	s.Run("clear", func() {
		s.mockCarts.EXPECT().ClearCart(gomock.Any(), s.actor.id).Return(nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/cart", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *CartHandlerTestSuite) TestSyncAndValidate() {
	b := builder.NewCartBuilder()
	c := b.BuildDomain()

	s.Run("sync reports changes and unavailable lines", func() {
		gone := uuid.New()
		s.mockCarts.EXPECT().SyncCartPrices(gomock.Any(), s.actor.id).Return(&commands.SyncResult{
			Cart:        c,
			Changes:     []commands.PriceChange{{ProductID: b.ProductID, OldPrice: decimal.NewFromInt(120), NewPrice: decimal.NewFromInt(100)}},
			Unavailable: []cart.LineKey{{ProductID: gone}},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/sync-prices", nil, "bearer-token")

		var body resdto.SyncCartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Changes, 1)
		s.True(decimal.NewFromInt(100).Equal(body.Changes[0].NewPrice))
		s.Require().Len(body.Unavailable, 1)
		s.Equal(gone, body.Unavailable[0].ProductID)
		s.Nil(body.Unavailable[0].VariantID)
	})

	s.Run("validation lists issues", func() {
		s.mockCarts.EXPECT().ValidateCartForCheckout(gomock.Any(), s.actor.id).Return(&commands.CheckoutValidation{
			Cart:   c,
			Report: cart.Report{Issues: []cart.Issue{{Type: cart.IssueInsufficientStock, Requested: 2, Available: 1, Message: "only 1 left"}}},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart/checkout-validation", nil, "bearer-token")

		var body resdto.CheckoutValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.IsValid)
		s.Require().Len(body.Issues, 1)
		s.Equal(cart.IssueInsufficientStock, body.Issues[0].Type)
	})

	s.Run("valid cart has an empty issue list", func() {
		s.mockCarts.EXPECT().ValidateCartForCheckout(gomock.Any(), s.actor.id).
			Return(&commands.CheckoutValidation{Cart: c}, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart/checkout-validation", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Contains(rec.Body.String(), `"issues":[]`)
		s.Contains(rec.Body.String(), `"is_valid":true`)
	})
}

func (s *CartHandlerTestSuite) TestValidateCoupon() {
	seller := uuid.New()
	c, err := coupon.NewCoupon(coupon.Params{
		ID:            uuid.New(),
		Code:          "SAVE10",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	})
	s.Require().NoError(err)

	s.Run("explicit lines are summed", func() {
		productID := uuid.New()
		s.mockCoupons.EXPECT().
			ValidateCoupon(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.ValidateCouponInput) (*commands.CouponValidation, error) {
				s.Equal("SAVE10", in.Code)
				s.Equal(s.actor.id, in.UserID)
				s.True(decimal.NewFromInt(150).Equal(in.Subtotal))
				return &commands.CouponValidation{
					IsValid:         true,
					Coupon:          c,
					DiscountAmount:  decimal.NewFromInt(15),
					ApplicableItems: in.CartItems,
				}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/coupons/validate", map[string]any{
			"code": " save10 ",
			"items": []map[string]any{
				{"product_id": productID, "seller_id": seller, "line_total": "100"},
				{"product_id": uuid.New(), "seller_id": seller, "line_total": "50"},
			},
		}, "bearer-token")

		var body resdto.CouponValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.IsValid)
		s.Equal("SAVE10", body.Code)
		s.Equal("percentage", body.DiscountType)
		s.Len(body.ApplicableItems, 2)
	})

	s.Run("falls back to the caller's cart", func() {
		b := builder.NewCartBuilder()
		cartItems := b.BuildDomain()
		s.mockCarts.EXPECT().ValidateCartForCheckout(gomock.Any(), s.actor.id).Return(&commands.CheckoutValidation{
			Cart:    cartItems,
			Current: map[cart.LineKey]cart.CurrentProduct{{ProductID: b.ProductID}: {ProductID: b.ProductID, SellerID: seller}},
		}, nil)
		s.mockCoupons.EXPECT().
			ValidateCoupon(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.ValidateCouponInput) (*commands.CouponValidation, error) {
				s.Require().Len(in.CartItems, 1)
				s.Equal(seller, in.CartItems[0].SellerID)
				s.True(decimal.NewFromInt(200).Equal(in.Subtotal))
				return &commands.CouponValidation{IsValid: false, Message: "Coupon has expired"}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/coupons/validate", map[string]any{"code": "SAVE10"}, "bearer-token")

		var body resdto.CouponValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.IsValid)
		s.Equal("Coupon has expired", body.Message)
		s.Nil(body.CouponID)
	})

	s.Run("400 on a short code", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/coupons/validate", map[string]any{"code": "ab"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

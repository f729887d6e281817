//go:build e2e

package checkout

import (
	"net/http"
	"testing"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/dto/response"
	"storefront-core/internal/usecase/queries"
	"storefront-core/tests/common/authtest"
	"storefront-core/tests/common/dbtest"
	"storefront-core/tests/common/httptest"
	"storefront-core/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CheckoutE2ETestSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestCheckoutE2E(t *testing.T) {
	suite.Run(t, new(CheckoutE2ETestSuite))
}

func (s *CheckoutE2ETestSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

type actors struct {
	buyer, seller, admin                uuid.UUID
	buyerToken, sellerToken, adminToken string
	addressID, productID                uuid.UUID
}

func (s *CheckoutE2ETestSuite) seed(price string, stock int) actors {
	t := s.T()
	a := actors{buyer: uuid.New(), seller: uuid.New(), admin: uuid.New()}
	a.buyerToken = s.jwt.GenerateToken(t, a.buyer, user.RoleBuyer)
	a.sellerToken = s.jwt.GenerateToken(t, a.seller, user.RoleSeller)
	a.adminToken = s.jwt.GenerateToken(t, a.admin, user.RoleAdmin)
	a.addressID = dbtest.CreateAddress(t, s.DB, a.buyer)
	a.productID = dbtest.CreateProduct(t, s.DB, a.seller, decimal.RequireFromString(price), stock)
	return a
}

func (s *CheckoutE2ETestSuite) addToCart(a actors, qty int) {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": a.productID, "quantity": qty}, a.buyerToken)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
}

func (s *CheckoutE2ETestSuite) credit(a actors, amount string) {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/wallets/"+a.buyer.String()+"/credit",
		map[string]any{"amount": amount, "description": "e2e seed"}, a.adminToken)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
}

// confirm moves the order to confirmed as its seller, which makes it payable.
func (s *CheckoutE2ETestSuite) confirm(a actors, orderID uuid.UUID) {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, "/api/orders/"+orderID.String()+"/status",
		map[string]any{"status": "confirmed"}, a.sellerToken)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
}

func (s *CheckoutE2ETestSuite) TestWalletCheckout() {
	s.Run("place, pay and cancel an order with the wallet", func() {
		t := s.T()
		a := s.seed("100", 5)
		s.addToCart(a, 2)
		s.credit(a, "500")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/orders", map[string]any{
			"delivery_address_id": a.addressID,
			"payment_method":      "wallet",
		}, a.buyerToken)
		var placed queries.OrderView
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &placed)

		// 200 subtotal, 18% tax, one seller below the free-shipping threshold.
		assert.True(t, decimal.RequireFromString("276").Equal(placed.FinalAmount), placed.FinalAmount.String())
		assert.Equal(t, "pending", placed.PaymentStatus)
		type line struct {
			ProductID uuid.UUID
			Quantity  int
		}
		var got []line
		for _, it := range placed.Items {
			got = append(got, line{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		if diff := cmp.Diff([]line{{ProductID: a.productID, Quantity: 2}}, got); diff != "" {
			t.Errorf("order items mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, dbtest.ProductStock(t, s.DB, a.productID))
		assert.Zero(t, dbtest.CountRows(t, s.DB, "cart_items"), "cart is cleared")

		payBody := map[string]any{"order_id": placed.ID, "payment_method": "wallet"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments", payBody, a.buyerToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "not ready for payment")

		s.confirm(a, placed.ID)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments", payBody, a.buyerToken)
		var paid response.InitiatePaymentResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &paid)
		require.NotNil(t, paid.Payment)
		assert.Equal(t, "paid", paid.Payment.Status)
		assert.False(t, paid.IsReplayed)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments", payBody, a.buyerToken)
		var replay response.InitiatePaymentResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &replay)
		assert.True(t, replay.IsReplayed)
		assert.Equal(t, paid.Payment.ID, replay.Payment.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/wallet", nil, a.buyerToken)
		var wallet response.WalletResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &wallet)
		assert.True(t, decimal.RequireFromString("224").Equal(wallet.Balance), wallet.Balance.String())
		assert.Equal(t, 2, dbtest.CountRows(t, s.DB, "wallet_transactions"))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/orders/"+placed.ID.String(), nil, a.buyerToken)
		var view queries.OrderView
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		assert.Equal(t, "paid", view.PaymentStatus)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/orders/"+placed.ID.String()+"/cancel",
			map[string]any{"reason": "ordered twice"}, a.buyerToken)
		var cancelled response.OrderStateResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		assert.Equal(t, "cancelled", cancelled.OrderStatus)
		assert.Equal(t, "requested", cancelled.RefundStatus)
		assert.Equal(t, 5, dbtest.ProductStock(t, s.DB, a.productID), "stock is restored")
	})

	s.Run("another buyer cannot read the order", func() {
		t := s.T()
		a := s.seed("50", 3)
		s.addToCart(a, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/orders", map[string]any{
			"delivery_address_id": a.addressID,
			"payment_method":      "cod",
		}, a.buyerToken)
		var placed queries.OrderView
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &placed)

		stranger := s.jwt.GenerateToken(t, uuid.New(), user.RoleBuyer)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/orders/"+placed.ID.String(), nil, stranger)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/orders/"+placed.ID.String(), nil, a.adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func (s *CheckoutE2ETestSuite) TestCheckoutRejections() {
	s.Run("stock sold out after the item was carted", func() {
		t := s.T()
		a := s.seed("100", 5)
		s.addToCart(a, 4)
		_, err := s.DB.Exec(t.Context(), "UPDATE products SET stock = 1 WHERE id = $1", a.productID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/orders", map[string]any{
			"delivery_address_id": a.addressID,
			"payment_method":      "card",
		}, a.buyerToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
		assert.Zero(t, dbtest.CountRows(t, s.DB, "orders"))
		assert.Equal(t, 1, dbtest.ProductStock(t, s.DB, a.productID))
		assert.Equal(t, 1, dbtest.CountRows(t, s.DB, "cart_items"), "cart is kept")
	})

	s.Run("wallet payment short of funds", func() {
		t := s.T()
		a := s.seed("100", 5)
		s.addToCart(a, 1)
		s.credit(a, "20")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/orders", map[string]any{
			"delivery_address_id": a.addressID,
			"payment_method":      "wallet",
		}, a.buyerToken)
		var placed queries.OrderView
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &placed)
		s.confirm(a, placed.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments",
			map[string]any{"order_id": placed.ID, "payment_method": "wallet"}, a.buyerToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
		assert.Equal(t, 1, dbtest.CountRows(t, s.DB, "wallet_transactions"), "only the seed credit")
	})

	s.Run("missing token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/orders", nil, "")
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), uuid.New(), user.RoleBuyer)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/orders", nil, token)
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

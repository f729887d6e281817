//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/domain/payment"
	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/api"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/validation"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/queries"
	"storefront-core/tests/common/builder"
	"storefront-core/tests/common/httptest"
	"storefront-core/tests/common/testutil"
	commandsmock "storefront-core/tests/mock/commands"
	queriesmock "storefront-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	actor        *testActor
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	validation.RegisterGinValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	h := api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	webhook := api.NewWebhookHandler(s.mockCommands)
	s.actor = newTestActor(user.RoleBuyer)

	auth := s.actor.middleware()
	s.router.POST("/payments", auth, h.InitiatePayment)
	s.router.GET("/payments", auth, h.ListUserPayments)
	s.router.POST("/payments/confirm", auth, h.ConfirmPayment)
	s.router.POST("/payments/cod", auth, h.ConfirmCashOnDelivery)
	s.router.GET("/payments/:id", auth, h.GetPayment)
	s.router.GET("/admin/payments", auth, h.ListAllPayments)
	s.router.POST("/webhooks/gateway", webhook.HandleGatewayEvent)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestInitiatePayment() {
	b := builder.NewPaymentBuilder()
	reqBody := b.BuildInitiateRequestDTO()
	secret := "pi_test_123_secret"

	s.Run("201 with client secret on first call", func() {
		s.mockCommands.EXPECT().
			InitiatePayment(gomock.Any(), s.actor.id, commands.InitiatePaymentInput{
				OrderID:       b.OrderID,
				PaymentMethod: order.MethodCard,
			}).
			Return(&commands.PaymentResult{Payment: b.BuildDomain(), ClientSecret: &secret}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", reqBody, "bearer-token")

		var body resdto.InitiatePaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Require().NotNil(body.ClientSecret)
		s.Equal(secret, *body.ClientSecret)
		s.False(body.IsReplayed)
		s.Equal("pending", body.Payment.Status)
	})

	s.Run("200 on idempotent replay", func() {
		s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.PaymentResult{Payment: b.BuildDomain(), IsReplayed: true}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", reqBody, "bearer-token")

		var body resdto.InitiatePaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.IsReplayed)
		s.Nil(body.ClientSecret)
	})

	s.Run("wallet shortfall is reported in detail", func() {
		s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.BusinessRule(nil, "Insufficient wallet balance").
				WithDetail(map[string]string{"shortfall": "180.00"}))

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("payment_method", "wallet"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Insufficient wallet balance")
		s.Contains(rec.Body.String(), `"shortfall":"180.00"`)
	})

	invalid := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missing order_id", mutate: testutil.Field("order_id", nil)},
		{name: "cod is not initiated here", mutate: testutil.Field("payment_method", "cod")},
		{name: "lowercase currency", mutate: testutil.Field("currency", "inr")},
	}
	for _, tc := range invalid {
		s.Run("400: "+tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", body, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}
}

func (s *PaymentHandlerTestSuite) TestConfirm() {
	b := builder.NewPaymentBuilder()

	s.Run("card confirmation", func() {
		paid := b.BuildDomain()
		s.Require().NoError(paid.MarkPaid(b.CreatedAt))
		s.mockCommands.EXPECT().ConfirmStripePayment(gomock.Any(), "pi_test_123", s.actor.id).Return(paid, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/confirm",
			map[string]any{"gateway_payment_id": "pi_test_123"}, "bearer-token")
		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(string(payment.StatusPaid), body.Status)
		s.NotNil(body.PaidAt)
	})

	s.Run("400 on a non-intent id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/confirm",
			map[string]any{"gateway_payment_id": "ch_123"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("cash on delivery conflict", func() {
		s.mockCommands.EXPECT().ConfirmCashOnDelivery(gomock.Any(), s.actor.id, b.OrderID).
			Return(nil, errs.Conflict(nil, "Payment already recorded"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/cod",
			map[string]any{"order_id": b.OrderID}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already recorded")
	})

	s.Run("cash on delivery recorded", func() {
		cod := builder.NewPaymentBuilder().With(func(p *builder.PaymentBuilder) {
			p.Method = order.MethodCOD
			p.GatewayPaymentID = nil
		}).BuildDomain()
		s.mockCommands.EXPECT().ConfirmCashOnDelivery(gomock.Any(), s.actor.id, cod.OrderID).Return(cod, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/cod",
			map[string]any{"order_id": cod.OrderID}, "bearer-token")
		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("cod", body.Method)
		s.Nil(body.GatewayPaymentID)
	})
}

func (s *PaymentHandlerTestSuite) TestQueries() {
	view := builder.NewPaymentBuilder().BuildViewQuery()

	s.Run("get payment", func() {
		s.mockQueries.EXPECT().GetPaymentByID(gomock.Any(), view.ID, s.actor.id, user.RoleBuyer).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/"+view.ID.String(), nil, "bearer-token")
		var body queries.PaymentView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.OrderID, body.OrderID)
	})

	s.Run("list own payments", func() {
		s.mockQueries.EXPECT().ListUserPayments(gomock.Any(), s.actor.id, gomock.Nil(), 10).
			Return([]*queries.PaymentView{view}, nil, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments?limit=10", nil, "bearer-token")
		var body resdto.PaymentListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Payments, 1)
	})

	s.Run("admin list forwards filters", func() {
		s.actor.role = user.RoleAdmin
		defer func() { s.actor.role = user.RoleBuyer }()
		status, method := "paid", "wallet"
		s.mockQueries.EXPECT().
			ListAllPayments(gomock.Any(), user.RoleAdmin, queries.PaymentFilter{Status: &status, Method: &method}, gomock.Nil(), queries.DefaultListLimit).
			Return(nil, nil, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/payments?status=paid&method=wallet", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Contains(rec.Body.String(), `"payments":[]`)
	})

	s.Run("admin list is forbidden to buyers", func() {
		s.mockQueries.EXPECT().ListAllPayments(gomock.Any(), user.RoleBuyer, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, errs.Forbidden(nil, "Admin access required"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/payments", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Admin access required")
	})

	s.Run("404 for an unknown payment", func() {
		s.mockQueries.EXPECT().GetPaymentByID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.NotFound(nil, "Payment not found"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/"+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Payment not found")
	})
}

func (s *PaymentHandlerTestSuite) TestWebhook() {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	s.Run("acknowledges without a bearer token", func() {
		s.mockCommands.EXPECT().HandleGatewayEvent(gomock.Any(), payload, "t=1,v1=abc").
			Return(&commands.GatewayEventResult{Type: "payment_intent.succeeded", Handled: true}, nil)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/webhooks/gateway", payload,
			map[string]string{"Stripe-Signature": "t=1,v1=abc"})

		var body resdto.WebhookAckResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Received)
		s.True(body.Handled)
	})

	s.Run("400 on a bad signature", func() {
		s.mockCommands.EXPECT().HandleGatewayEvent(gomock.Any(), payload, "").
			Return(nil, errs.Validation(nil, "Invalid webhook signature"))

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/webhooks/gateway", payload, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid webhook signature")
	})
}

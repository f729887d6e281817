package api

import (
	"net/http"

	"storefront-core/internal/domain/order"
	reqdto "storefront-core/internal/handler/dto/request"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Initiate payment
// @Description Start a card or wallet payment for an order. A repeated request within the idempotency window replays the first result.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.InitiatePaymentRequest true "Initiate payment request"
// @Success 201 {object} resdto.InitiatePaymentResponse
// @Success 200 {object} resdto.InitiatePaymentResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.InitiatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.cmds.InitiatePayment(c.Request.Context(), userID, commands.InitiatePaymentInput{
		OrderID:       req.OrderID,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		Currency:      req.Currency,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	status := http.StatusCreated
	if res.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromPaymentResult(res))
}

// @Summary Confirm card payment
// @Description Confirm a card payment once the gateway reports the intent as succeeded
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConfirmPaymentRequest true "Gateway payment id"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Router /payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.cmds.ConfirmStripePayment(c.Request.Context(), req.GatewayPaymentID, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPayment(p))
}

// @Summary Confirm cash on delivery
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConfirmCODRequest true "Order id"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Router /payments/cod [post]
func (h *PaymentHandler) ConfirmCashOnDelivery(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmCODRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.cmds.ConfirmCashOnDelivery(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromPayment(p))
}

// @Summary List my payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Cursor for keyset pagination"
// @Param limit query int false "Max items (default 20)"
// @Success 200 {object} resdto.PaymentListResponse
// @Router /payments [get]
func (h *PaymentHandler) ListUserPayments(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.ListPaymentsQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, next, err := h.q.ListUserPayments(c.Request.Context(), userID, cursorOf(q.Cursor), queries.ValidateLimit(q.Limit))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewPaymentListResponse(rows, next))
}

// @Summary Get payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} queries.PaymentView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetPaymentByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List all payments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Payment status"
// @Param method query string false "Payment method"
// @Param cursor query string false "Cursor for keyset pagination"
// @Param limit query int false "Max items (default 20)"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 403 {object} httperr.Response
// @Router /admin/payments [get]
func (h *PaymentHandler) ListAllPayments(c *gin.Context) {
	_, role, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.ListPaymentsQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := queries.PaymentFilter{Status: q.Status, Method: q.Method}
	rows, next, err := h.q.ListAllPayments(c.Request.Context(), role, filter, cursorOf(q.Cursor), queries.ValidateLimit(q.Limit))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewPaymentListResponse(rows, next))
}

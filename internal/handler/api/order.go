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

type OrderHandler struct {
	cmds     commands.OrderCommands
	q        queries.OrderQueries
	payments queries.PaymentQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries, payments queries.PaymentQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q, payments: payments}
}

// @Summary Place order
// @Description Convert the caller's cart into an order. A failure while reserving stock deletes the order but keeps stock already taken; a failure after all stock is taken leaves the order in place.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PlaceOrderRequest true "Place order request"
// @Success 201 {object} queries.OrderView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.cmds.PlaceOrder(c.Request.Context(), userID, commands.PlaceOrderInput{
		DeliveryAddressID: req.DeliveryAddressID,
		CouponCode:        req.GetCouponCode(),
		PaymentMethod:     order.PaymentMethod(req.PaymentMethod),
		Notes:             req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromOrder(o))
}

// @Summary List orders
// @Description Buyers see their orders, sellers the orders containing their items, admins everything
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param order_status query string false "Order status"
// @Param payment_status query string false "Payment status"
// @Param cursor query string false "Cursor for keyset pagination"
// @Param limit query int false "Max items (default 20)"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := queries.OrderFilter{OrderStatus: q.OrderStatus, PaymentStatus: q.PaymentStatus}
	rows, next, err := h.q.ListOrders(c.Request.Context(), actorID, role, filter, cursorOf(q.Cursor), queries.ValidateLimit(q.Limit))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewOrderListResponse(rows, next))
}

// @Summary Order summary
// @Description Counts by status and the paid amount visible to the caller
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.OrderSummary
// @Router /orders/summary [get]
func (h *OrderHandler) GetOrderSummary(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	summary, err := h.q.GetOrderSummary(c.Request.Context(), actorID, role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} queries.OrderView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetOrderByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Get order payment
// @Description Latest payment attempt of one of the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} queries.PaymentView
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/payment [get]
func (h *OrderHandler) GetOrderPayment(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.payments.GetPaymentByOrder(c.Request.Context(), id, actorID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Cancel order
// @Description Cancel a pending or confirmed order, restoring stock, reversing the coupon and refunding wallet payments
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.CancelOrderRequest true "Cancellation reason"
// @Success 200 {object} resdto.OrderStateResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.cmds.CancelOrder(c.Request.Context(), id, actorID, role, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderState(o))
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "Next status"
// @Success 200 {object} resdto.OrderStateResponse
// @Failure 403 {object} httperr.Response
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.cmds.UpdateOrderStatus(c.Request.Context(), id, actorID, role, order.Status(req.Status))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderState(o))
}

// @Summary Update refund status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateRefundStatusRequest true "Next refund status"
// @Success 200 {object} resdto.OrderStateResponse
// @Failure 403 {object} httperr.Response
// @Router /orders/{id}/refund-status [patch]
func (h *OrderHandler) UpdateRefundStatus(c *gin.Context) {
	_, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateRefundStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.cmds.UpdateRefundStatus(c.Request.Context(), id, role, order.RefundStatus(req.RefundStatus))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderState(o))
}

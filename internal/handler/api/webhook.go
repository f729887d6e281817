package api

import (
	"io"
	"net/http"

	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 64 << 10
)

type WebhookHandler struct {
	cmds commands.PaymentCommands
}

func NewWebhookHandler(cmds commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{cmds: cmds}
}

// @Summary Payment gateway webhook
// @Description Signed gateway callback. Succeeded and failed payment intents settle the matching payment or wallet top-up.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Gateway signature"
// @Success 200 {object} resdto.WebhookAckResponse
// @Failure 400 {object} httperr.Response
// @Router /webhooks/gateway [post]
func (h *WebhookHandler) HandleGatewayEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}
	res, err := h.cmds.HandleGatewayEvent(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.WebhookAckResponse{Received: true, Type: res.Type, Handled: res.Handled})
}

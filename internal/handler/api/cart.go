package api

import (
	"net/http"

	"storefront-core/internal/domain/cart"
	reqdto "storefront-core/internal/handler/dto/request"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cmds commands.CartCommands
}

func NewCartHandler(cmds commands.CartCommands) *CartHandler {
	return &CartHandler{cmds: cmds}
}

// @Summary Get cart
// @Description Get the caller's cart with line totals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} httperr.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	ct, err := h.cmds.GetCart(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCart(ct))
}

// @Summary Add cart item
// @Description Add a product or variant to the cart, merging with an existing line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Add item request"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	ct, err := h.cmds.AddItem(c.Request.Context(), userID, commands.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCart(ct))
}

// @Summary Update cart item quantity
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body reqdto.UpdateCartItemRequest true "Quantity update"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{productId} [patch]
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req reqdto.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	ct, err := h.cmds.UpdateItemQuantity(c.Request.Context(), userID, lineKey(productID, req.VariantID), req.Quantity)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCart(ct))
}

// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param variant_id query string false "Variant ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var q reqdto.CartLineQuery
	if !bindQuery(c, &q) {
		return
	}
	ct, err := h.cmds.RemoveItem(c.Request.Context(), userID, lineKey(productID, q.Variant()))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCart(ct))
}

// @Summary Clear cart
// @Tags cart
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	if err := h.cmds.ClearCart(c.Request.Context(), userID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Sync cart prices
// @Description Refresh line prices from the catalog and report what changed
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SyncCartResponse
// @Router /cart/sync-prices [post]
func (h *CartHandler) SyncCartPrices(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	res, err := h.cmds.SyncCartPrices(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSyncResult(res))
}

// @Summary Validate cart for checkout
// @Description Report stock, availability, price and minimum-order issues
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CheckoutValidationResponse
// @Router /cart/checkout-validation [get]
func (h *CartHandler) ValidateCartForCheckout(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	res, err := h.cmds.ValidateCartForCheckout(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutValidation(res))
}

func lineKey(productID uuid.UUID, variantID *uuid.UUID) cart.LineKey {
	key := cart.LineKey{ProductID: productID}
	if variantID != nil {
		key.VariantID = *variantID
	}
	return key
}

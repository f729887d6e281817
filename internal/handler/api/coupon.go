package api

import (
	"net/http"

	"storefront-core/internal/domain/coupon"
	reqdto "storefront-core/internal/handler/dto/request"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CouponHandler struct {
	coupons commands.CouponCommands
	carts   commands.CartCommands
}

func NewCouponHandler(coupons commands.CouponCommands, carts commands.CartCommands) *CouponHandler {
	return &CouponHandler{coupons: coupons, carts: carts}
}

// @Summary Validate coupon
// @Description Check a coupon against explicit lines or the caller's cart. Ineligibility is reported in the body, not as an error status.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidateCouponRequest true "Coupon validation request"
// @Success 200 {object} resdto.CouponValidationResponse
// @Failure 400 {object} httperr.Response
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	in := commands.ValidateCouponInput{Code: req.NormalizedCode(), UserID: userID}
	if len(req.Items) > 0 {
		in.CartItems = make([]coupon.Line, len(req.Items))
		sum := decimal.Zero
		for i, it := range req.Items {
			in.CartItems[i] = coupon.Line{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				SellerID:  it.SellerID,
				LineTotal: it.LineTotal,
			}
			sum = sum.Add(it.LineTotal)
		}
		in.Subtotal = sum
		if req.Subtotal != nil {
			in.Subtotal = *req.Subtotal
		}
	} else {
		checkout, err := h.carts.ValidateCartForCheckout(c.Request.Context(), userID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		in.CartItems, in.Subtotal = commands.CartCouponLines(checkout)
	}

	res, err := h.coupons.ValidateCoupon(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponValidation(res))
}

package api

import (
	"net/http"

	reqdto "storefront-core/internal/handler/dto/request"
	resdto "storefront-core/internal/handler/dto/response"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const defaultTransactionLimit = 20

type WalletHandler struct {
	ledger commands.WalletLedger
}

func NewWalletHandler(ledger commands.WalletLedger) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// @Summary Get wallet
// @Description Get the caller's wallet, creating an empty one on first access
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletResponse
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	w, err := h.ledger.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWallet(w))
}

// @Summary Wallet summary
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletSummaryResponse
// @Router /wallet/summary [get]
func (h *WalletHandler) GetSummary(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	s, err := h.ledger.GetWalletSummary(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWalletSummary(s))
}

// @Summary List wallet transactions
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} resdto.TransactionListResponse
// @Failure 400 {object} httperr.Response
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.ListTransactionsQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultTransactionLimit
	}
	page, err := h.ledger.ListTransactions(c.Request.Context(), userID, q.Limit, q.Offset)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransactionPage(page, q.Limit, q.Offset))
}

// @Summary Top up wallet
// @Description Create a card payment intent that credits the wallet once it succeeds
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.TopUpRequest true "Top-up request"
// @Success 201 {object} resdto.TopUpResponse
// @Failure 400 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.TopUpRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.ledger.TopUpWallet(c.Request.Context(), userID, commands.TopUpInput{
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTopUpSession(session))
}

// @Summary Credit a wallet
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param request body reqdto.AdminCreditRequest true "Credit request"
// @Success 201 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/wallets/{userId}/credit [post]
func (h *WalletHandler) AdminCredit(c *gin.Context) {
	adminID, _, ok := actor(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req reqdto.AdminCreditRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.ledger.AdminCreditWallet(c.Request.Context(), userID, req.Amount, req.Description, adminID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTransaction(t))
}

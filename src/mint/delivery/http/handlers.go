package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/MMN3003/minter/src/mint/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler binds usecase + logger
type Handler struct {
	service domain.MintUsecase
	logger  *logger.Logger
}

func NewHandler(s domain.MintUsecase, l *logger.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/mint")
	g.POST("/native", h.MintNative)
	g.POST("/erc20", h.MintERC20)
	g.POST("/approve", h.Approve)
	g.POST("/faucet", h.Faucet)
	g.GET("/status", h.Status)
	g.GET("/transactions/:id", h.GetTransaction)
	g.DELETE("/transactions/:id", h.AcknowledgeTransaction)
}

// errorStatus maps usecase sentinels to response codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuantity), errors.Is(err, usecase.ErrInvalidAmount):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrWalletNotConnected),
		errors.Is(err, usecase.ErrMintInProgress),
		errors.Is(err, usecase.ErrTransactionNotFinal):
		return http.StatusConflict, err.Error()
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logger.Errorf("%s err: %v", op, err)
	status, msg := errorStatus(err)
	c.JSON(status, gin.H{"error": msg})
}

// MintNative godoc
//
//	@Summary		Mint with native token
//	@Description	Submit mintNative(quantity) paying unit price times quantity
//	@Tags			mint
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MintRequestBody	true	"Request body"
//	@Success		200	{object}	MintResultResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/mint/native [post]
func (h *Handler) MintNative(c *gin.Context) {
	var req MintRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("MintNative err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, err := h.service.MintWithNativeToken(c.Request.Context(), req.Quantity)
	if err != nil {
		h.fail(c, "MintNative", err)
		return
	}
	c.JSON(http.StatusOK, fromMintResultDomain(res))
}

// MintERC20 godoc
//
//	@Summary		Mint with the fungible token
//	@Description	Check balance and allowance, approve first when needed, then submit mintWithERC20(quantity)
//	@Tags			mint
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MintRequestBody	true	"Request body"
//	@Success		200	{object}	MintResultResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/mint/erc20 [post]
func (h *Handler) MintERC20(c *gin.Context) {
	var req MintRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("MintERC20 err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, err := h.service.MintWithFungibleToken(c.Request.Context(), req.Quantity)
	if err != nil {
		h.fail(c, "MintERC20", err)
		return
	}
	c.JSON(http.StatusOK, fromMintResultDomain(res))
}

// Approve godoc
//
//	@Summary		Approve spending
//	@Description	Approve the NFT contract to spend the configured token amount
//	@Tags			mint
//	@Produce		json
//	@Success		200	{object}	MintResultResponse
//	@Failure		409	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/mint/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	res, err := h.service.ApproveSpending(c.Request.Context())
	if err != nil {
		h.fail(c, "Approve", err)
		return
	}
	c.JSON(http.StatusOK, fromMintResultDomain(res))
}

// Faucet godoc
//
//	@Summary		Mint test tokens
//	@Description	Call the token faucet for a whole number of tokens
//	@Tags			mint
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FaucetRequestBody	true	"Request body"
//	@Success		200	{object}	MintResultResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/mint/faucet [post]
func (h *Handler) Faucet(c *gin.Context) {
	var req FaucetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Faucet err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	amount, err := req.FaucetAmount()
	if err != nil {
		h.logger.Errorf("Faucet err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrInvalidAmount.Error()})
		return
	}
	res, err := h.service.MintTestTokens(c.Request.Context(), amount)
	if err != nil {
		h.fail(c, "Faucet", err)
		return
	}
	c.JSON(http.StatusOK, fromMintResultDomain(res))
}

// Status godoc
//
//	@Summary		Orchestrator status
//	@Description	Approval state, balances, in-flight flags and affordability for a quantity
//	@Tags			mint
//	@Produce		json
//	@Param			quantity	query		int	false	"Quantity to price"	default(1)
//	@Success		200	{object}	StatusResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/mint/status [get]
func (h *Handler) Status(c *gin.Context) {
	quantity, err := strconv.ParseInt(c.DefaultQuery("quantity", "1"), 10, 64)
	if err != nil || quantity <= 0 {
		h.logger.Errorf("Status err: bad quantity %q", c.Query("quantity"))
		c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrInvalidQuantity.Error()})
		return
	}
	st, err := h.service.Status(c.Request.Context())
	if err != nil {
		h.fail(c, "Status", err)
		return
	}
	c.JSON(http.StatusOK, fromStatusDomain(st, quantity, h.service.TotalPrice(quantity)))
}

// GetTransaction godoc
//
//	@Summary		Get transaction
//	@Description	Get a tracked transaction by id
//	@Tags			mint
//	@Produce		json
//	@Param			id	path		string	true	"Transaction id"
//	@Success		200	{object}	TransactionResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		404	{object}	object{error=string}
//	@Router			/mint/transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Errorf("GetTransaction err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	tx, ok := h.service.Transaction(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": usecase.ErrTransactionNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, fromTransactionDomain(*tx))
}

// AcknowledgeTransaction godoc
//
//	@Summary		Acknowledge transaction
//	@Description	Discard a transaction that reached a terminal phase
//	@Tags			mint
//	@Param			id	path		string	true	"Transaction id"
//	@Success		204
//	@Failure		400	{object}	object{error=string}
//	@Failure		404	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Router			/mint/transactions/{id} [delete]
func (h *Handler) AcknowledgeTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Errorf("AcknowledgeTransaction err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Acknowledge(id); err != nil {
		h.fail(c, "AcknowledgeTransaction", err)
		return
	}
	c.Status(http.StatusNoContent)
}

package wallet

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"proptoken/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/wallet", h.GetMyWallet)
	rg.POST("/wallet/topup", h.TopUp)
	rg.GET("/wallet/transactions", h.ListMyTransactions)
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) GetMyWallet(c *gin.Context) {
	w, err := h.service.GetOrCreateWallet(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load wallet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wallet": w})
}

func (h *Handler) TopUp(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	w, txn, err := h.service.Add(c.Request.Context(), c.GetInt64("user_id"), req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add funds")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": w, "transaction": txn})
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	txns, err := h.service.ListTransactions(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list transactions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}

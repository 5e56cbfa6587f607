package token

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"proptoken/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/marketplace", h.Marketplace)
	rg.GET("/marketplace/:id/issuance", h.Issuance)
	rg.POST("/purchases", h.Purchase)
	rg.GET("/purchases", h.PurchaseHistory)
	rg.GET("/portfolio", h.Portfolio)
}

func (h *Handler) Marketplace(c *gin.Context) {
	limit, offset := pagination(c)
	entries, total, err := h.service.Marketplace(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": entries, "total": total})
}

func (h *Handler) Issuance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	issuance, err := h.service.Issuance(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"issuance": issuance})
}

func (h *Handler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	purchase, err := h.service.Purchase(c.Request.Context(), c.GetInt64("user_id"), req.PropertyID, req.Tokens)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"purchase": purchase})
}

func (h *Handler) PurchaseHistory(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.PurchaseHistory(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchases": list})
}

func (h *Handler) Portfolio(c *gin.Context) {
	positions, err := h.service.Portfolio(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"positions": positions})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Token count must be positive")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No token issuance for this property")
	case ErrNotForSale:
		response.Error(c, http.StatusConflict, "NOT_FOR_SALE", "The property is not open for purchase")
	case ErrInsufficientTokens:
		response.Error(c, http.StatusConflict, "INSUFFICIENT_TOKENS", "Not enough tokens available")
	case ErrInsufficientFunds:
		response.Error(c, http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Wallet balance is too low")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Token operation failed")
	}
}

package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"proptoken/internal/modules/listing"
	"proptoken/internal/modules/verification"
	"proptoken/internal/pkg/response"
)

type Handler struct {
	service  *Service
	verifier VerificationModerator
	listings ListingModerator
}

func NewHandler(service *Service, verifier VerificationModerator, listings ListingModerator) *Handler {
	return &Handler{service: service, verifier: verifier, listings: listings}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/verifications", h.PendingVerifications)
	rg.GET("/verifications/:id", h.GetVerification)
	rg.POST("/verifications/:id/approve", h.ApproveVerification)
	rg.POST("/verifications/:id/reject", h.RejectVerification)
	rg.POST("/verifications/:id/request-revision", h.RequestRevision)

	rg.GET("/properties", h.PendingProperties)
	rg.POST("/properties/:id/approve", h.ApproveProperty)
	rg.POST("/properties/:id/reject", h.RejectProperty)
	rg.POST("/properties/:id/issue-tokens", h.IssueTokens)

	rg.GET("/users", h.ListUsers)
	rg.GET("/statistics", h.Statistics)
}

func (h *Handler) PendingVerifications(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.service.PendingVerifications(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list verification requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": list, "total": total})
}

func (h *Handler) GetVerification(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	req, err := h.service.GetVerification(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Verification request not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load verification request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

func (h *Handler) ApproveVerification(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	updated, err := h.verifier.Approve(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		h.writeVerificationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": updated})
}

func (h *Handler) RejectVerification(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
		return
	}

	updated, err := h.verifier.Reject(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		h.writeVerificationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": updated})
}

func (h *Handler) RequestRevision(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	updated, err := h.verifier.RequestRevision(c.Request.Context(), id, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		h.writeVerificationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": updated})
}

func (h *Handler) PendingProperties(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.service.PendingProperties(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list properties")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": list, "total": total})
}

func (h *Handler) ApproveProperty(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	p, err := h.listings.Approve(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.writeListingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) RejectProperty(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
		return
	}

	p, err := h.listings.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeListingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) IssueTokens(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req IssueTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "total_tokens and price_per_token are required")
		return
	}

	issuance, err := h.listings.IssueTokens(c.Request.Context(), id, req.TotalTokens, req.PricePerToken)
	if err != nil {
		h.writeListingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"issuance": issuance})
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.service.ListUsers(c.Request.Context(), c.Query("role"), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"statistics": stats})
}

func (h *Handler) writeVerificationError(c *gin.Context, err error) {
	switch err {
	case verification.ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
	case verification.ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Verification request not found")
	case verification.ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "The request has already been decided")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Verification decision failed")
	}
}

func (h *Handler) writeListingError(c *gin.Context, err error) {
	switch err {
	case listing.ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid issuance parameters")
	case listing.ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
	case listing.ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case listing.ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "The property is not in a state that allows this action")
	case listing.ErrAlreadyTokenized:
		response.Error(c, http.StatusConflict, "ALREADY_TOKENIZED", "Tokens have already been issued for this property")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Property decision failed")
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

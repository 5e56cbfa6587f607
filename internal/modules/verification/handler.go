package verification

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
	rg.POST("/verification", h.Submit)
	rg.PUT("/verification/:id", h.Resubmit)
	rg.GET("/verification/latest", h.Latest)
	rg.GET("/verification/history", h.History)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Submit(c.Request.Context(), c.GetInt64("user_id"), req.ToSubmissionData())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"request": created})
}

func (h *Handler) Resubmit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	updated, err := h.service.Resubmit(c.Request.Context(), c.GetInt64("user_id"), id, req.ToSubmissionData())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"request": updated})
}

func (h *Handler) Latest(c *gin.Context) {
	req, err := h.service.Latest(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

func (h *Handler) History(c *gin.Context) {
	list, err := h.service.History(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Required verification fields are missing")
	case ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Verification request not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this verification request")
	case ErrActiveRequest:
		response.Error(c, http.StatusConflict, "ACTIVE_REQUEST_EXISTS", "An active verification request already exists")
	case ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "The request is not in a state that allows this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Verification operation failed")
	}
}

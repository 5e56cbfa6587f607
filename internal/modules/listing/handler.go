package listing

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
	rg.POST("/properties", h.Create)
	rg.PUT("/properties/:id", h.Update)
	rg.POST("/properties/:id/submit", h.Submit)
	rg.GET("/properties/mine", h.ListMine)
	rg.GET("/properties/:id", h.Get)
}

func (h *Handler) Create(c *gin.Context) {
	var req PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var (
		created interface{}
		err     error
	)
	if c.Query("submit") == "true" {
		created, err = h.service.SubmitDirect(c.Request.Context(), c.GetInt64("user_id"), &req)
	} else {
		created, err = h.service.SaveDraft(c.Request.Context(), c.GetInt64("user_id"), &req)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"property": created})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	var req PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	updated, err := h.service.UpdateDraft(c.Request.Context(), c.GetInt64("user_id"), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": updated})
}

func (h *Handler) Submit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	submitted, err := h.service.Submit(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": submitted})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid property data")
	case ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A rejection reason is required")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this property")
	case ErrOwnerNotVerified:
		response.Error(c, http.StatusForbidden, "OWNER_NOT_VERIFIED", "Seller verification must be approved before listing property")
	case ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "The property is not in a state that allows this action")
	case ErrAlreadyTokenized:
		response.Error(c, http.StatusConflict, "ALREADY_TOKENIZED", "Tokens have already been issued for this property")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Property operation failed")
	}
}

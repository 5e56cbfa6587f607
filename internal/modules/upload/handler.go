package upload

import (
	"net/http"

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
	rg.POST("/uploads", h.Upload)
	rg.GET("/uploads", h.ListMy)
	rg.GET("/uploads/:id", h.GetByID)
	rg.DELETE("/uploads/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}

	u, err := h.service.Upload(c.Request.Context(), c.GetInt64("user_id"), fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"upload": u})
}

func (h *Handler) GetByID(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"upload": u})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListMy(c *gin.Context) {
	uploads, err := h.service.ListByUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uploads": uploads})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrEmptyFile:
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "File is empty")
	case ErrFileTooLarge:
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds maximum allowed size")
	case ErrInvalidMimeType:
		response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only JPEG, PNG, WebP and PDF files are accepted")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Upload not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this upload")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Upload operation failed")
	}
}

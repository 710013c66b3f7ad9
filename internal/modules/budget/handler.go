package budget

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/pkg/response"
	"fintrack/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/budgets")
	{
		group.PUT("", h.Set)
		group.GET("", h.Progress)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Set(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.Set(c.Request.Context(), userID, req)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

// Progress defaults to the current month.
func (h *Handler) Progress(c *gin.Context) {
	userID := c.GetInt64("user_id")

	month := c.DefaultQuery("month", time.Now().Format("2006-01"))

	progress, err := h.service.Progress(c.Request.Context(), userID, month)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"month": month, "budgets": progress})
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid budget id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidMonth):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, repository.ErrBudgetNotFound):
		response.Error(c, http.StatusNotFound, "BUDGET_NOT_FOUND", "budget not found")
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage is temporarily unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "BUDGET_ERROR", "operation failed")
	}
}

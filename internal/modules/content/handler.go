package content

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/internal/domain"
	"fintrack/internal/pkg/response"
	"fintrack/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes: reading is available to any authenticated user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/videos", h.ListVideos)
	rg.GET("/videos/:id", h.GetVideo)
	rg.GET("/plans", h.ListPlans)
}

// RegisterAdminRoutes: content management, admin only.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/videos", h.CreateVideo)
	rg.PUT("/videos/:id", h.UpdateVideo)
	rg.DELETE("/videos/:id", h.DeleteVideo)
	rg.POST("/plans", h.CreatePlan)
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.service.ListVideos(c.Request.Context(), h.isAdmin(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"videos": videos})
}

func (h *Handler) GetVideo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	v, err := h.service.GetVideo(c.Request.Context(), id, h.isAdmin(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, v)
}

func (h *Handler) CreateVideo(c *gin.Context) {
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.service.CreateVideo(c.Request.Context(), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) UpdateVideo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, err := h.service.UpdateVideo(c.Request.Context(), id, req)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteVideo(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) isAdmin(c *gin.Context) bool {
	return c.GetString("role") == string(domain.RoleAdmin)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		response.Error(c, http.StatusNotFound, "VIDEO_NOT_FOUND", "video not found")
	case errors.Is(err, repository.ErrPlanNotFound):
		response.Error(c, http.StatusNotFound, "PLAN_NOT_FOUND", "plan not found")
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage is temporarily unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "CONTENT_ERROR", "operation failed")
	}
}

package admin

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes registers account management routes. The group must
// already carry auth + admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.POST("/users/:id/suspend", h.SuspendUser)
	rg.POST("/users/:id/reinstate", h.ReinstateUser)
	rg.POST("/users/:id/revoke-sessions", h.RevokeUserSessions)
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// SuspendUser блокирует аккаунт и отзывает все его сессии.
func (h *Handler) SuspendUser(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	revoked, err := h.service.SuspendUser(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked_sessions": revoked})
}

func (h *Handler) ReinstateUser(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	if err := h.service.ReinstateUser(c.Request.Context(), userID); err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "active"})
}

func (h *Handler) RevokeUserSessions(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	revoked, err := h.service.RevokeUserSessions(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked_sessions": revoked})
}

func (h *Handler) pathUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, ErrCannotSuspend):
		response.Error(c, http.StatusForbidden, "CANNOT_SUSPEND", "admin accounts cannot be suspended")
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage is temporarily unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "ADMIN_ERROR", "operation failed")
	}
}

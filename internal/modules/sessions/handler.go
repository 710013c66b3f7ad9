package sessions

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fintrack/internal/pkg/response"
	"fintrack/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins (configure in prod)
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *StatsHub
}

func NewHandler(service *Service, hub *StatsHub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes: user-facing audit routes under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me/sessions", h.MySessions)
}

// RegisterAdminRoutes: fleet-level audit routes, admin only.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/sessions/stats", h.Stats)
	rg.GET("/sessions/stats/ws", h.StatsFeed)
	rg.GET("/users/:id/sessions", h.UserSessions)
}

// MySessions возвращает сессии текущего пользователя.
// ?all=true includes rotated/revoked history, newest first.
func (h *Handler) MySessions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var (
		views []*SessionView
		err   error
	)
	if c.Query("all") == "true" {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		views, err = h.service.RecentSessions(c.Request.Context(), userID, limit)
	} else {
		views, err = h.service.ActiveSessions(c.Request.Context(), userID)
	}
	if err != nil {
		h.storeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": views})
}

func (h *Handler) UserSessions(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	views, err := h.service.RecentSessions(c.Request.Context(), targetID, limit)
	if err != nil {
		h.storeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": views})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// StatsFeed upgrades to WebSocket and streams periodic session stats.
// Auth and role checks run in middleware before the upgrade.
func (h *Handler) StatsFeed(c *gin.Context) {
	adminID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stats feed upgrade failed: %v", err)
		return
	}

	h.hub.Register(adminID, conn)

	// Push an initial snapshot so the dashboard does not wait a full tick.
	if stats, err := h.service.Stats(c.Request.Context()); err == nil {
		_ = conn.WriteJSON(StatsEvent{Type: "session_stats", At: time.Now(), Stats: stats})
	}

	// Drain reads until the client goes away; the feed is one-directional.
	go func() {
		defer h.hub.Unregister(adminID)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "session storage is temporarily unavailable")
		return
	}
	response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", "failed to load sessions")
}

package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/middleware"
	"fintrack/internal/repository"
)

func newHandlerRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/logout", h.Logout)
	r.POST("/auth/logout-all", func(c *gin.Context) {
		c.Set("user_id", int64(42))
		c.Next()
	}, h.LogoutAll)
	return r
}

func TestHandler_Register_ValidationDetails(t *testing.T) {
	h := NewHandler(NewService(new(mockUserRepo), new(mockSessionRepo), testCodec(), 10), CookieOptions{})
	router := newHandlerRouter(h)

	// Password shorter than the binding minimum.
	body := `{"name":"x","email":"x@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"details"`)
}

func TestHandler_Logout_StoreDownIsRetryable(t *testing.T) {
	codec := testCodec()
	sessionRepo := new(mockSessionRepo)
	sessionRepo.On("MarkRevoked", mock.Anything, mock.Anything).
		Return(false, fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable))

	h := NewHandler(NewService(new(mockUserRepo), sessionRepo, codec, 10), CookieOptions{})
	router := newHandlerRouter(h)

	_, refresh, _, err := codec.IssuePair(42, "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: refresh})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// A transient store failure must not masquerade as a server bug: the
	// client keeps its cookies and retries.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

func TestHandler_LogoutAll_StoreDownIsRetryable(t *testing.T) {
	sessionRepo := new(mockSessionRepo)
	sessionRepo.On("RevokeAllActive", mock.Anything, int64(42)).
		Return(int64(0), fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable))

	h := NewHandler(NewService(new(mockUserRepo), sessionRepo, testCodec(), 10), CookieOptions{})
	router := newHandlerRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

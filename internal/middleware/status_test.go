package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fintrack/internal/domain"
	"fintrack/internal/pkg/token"
	"fintrack/internal/repository"
)

type stubAccounts struct {
	user *domain.User
	err  error
}

func (s stubAccounts) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.user, s.err
}

func newStatusRouter(codec *token.Codec, accounts AccountSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(codec), RequireActive(accounts), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireActive_SuspendedAccountBlockedImmediately(t *testing.T) {
	codec := token.NewCodec("a-secret", "r-secret", 15*time.Minute, time.Hour)
	router := newStatusRouter(codec, stubAccounts{
		user: &domain.User{ID: 42, Status: domain.StatusSuspended},
	})

	// The access token itself is still valid; the account status alone
	// decides.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: issueAccess(t, codec, 42, "user")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_SUSPENDED")
}

func TestRequireActive_ActiveAccountPasses(t *testing.T) {
	codec := token.NewCodec("a-secret", "r-secret", 15*time.Minute, time.Hour)
	router := newStatusRouter(codec, stubAccounts{
		user: &domain.User{ID: 42, Status: domain.StatusActive},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: issueAccess(t, codec, 42, "user")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireActive_DeletedAccountRejected(t *testing.T) {
	codec := token.NewCodec("a-secret", "r-secret", 15*time.Minute, time.Hour)
	router := newStatusRouter(codec, stubAccounts{err: repository.ErrUserNotFound})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: issueAccess(t, codec, 42, "user")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireActive_StoreDownIsRetryable(t *testing.T) {
	codec := token.NewCodec("a-secret", "r-secret", 15*time.Minute, time.Hour)
	router := newStatusRouter(codec, stubAccounts{
		err: errors.Join(repository.ErrStoreUnavailable, errors.New("dial tcp: refused")),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: issueAccess(t, codec, 42, "user")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

package middleware

import (
	"context"
	"errors"
	"net/http"

	"fintrack/internal/domain"
	"fintrack/internal/pkg/response"
	"fintrack/internal/repository"

	"github.com/gin-gonic/gin"
)

// AccountSource loads the account behind an authenticated request.
type AccountSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// RequireActive rejects requests from suspended accounts. It runs after Auth,
// so a suspension takes effect immediately instead of waiting for the access
// credential to expire.
func RequireActive(accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accounts.GetByID(c.Request.Context(), c.GetInt64("user_id"))
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Account no longer exists")
			} else {
				response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
			}
			c.Abort()
			return
		}
		if user.IsSuspended() {
			response.Error(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended")
			c.Abort()
			return
		}

		c.Next()
	}
}

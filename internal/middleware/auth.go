package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/pkg/response"
	"fintrack/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	// AccessCookie is the short-lived HTTP-only cookie carrying the access
	// credential for browser clients.
	AccessCookie = "access_token"
	// RefreshCookie is the long-lived HTTP-only cookie carrying the refresh
	// credential, scoped to the auth endpoints.
	RefreshCookie = "refresh_token"
)

// Auth authenticates the request from the access-token cookie, falling back
// to an Authorization: Bearer header for non-browser clients. On success the
// authenticated identity (user_id, role) is placed on the context; nothing
// else about the session is consulted here.
func Auth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := accessTokenFrom(c)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Missing access credential")
			c.Abort()
			return
		}

		claims, err := codec.VerifyAccess(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Access credential has expired")
			} else {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Access credential is invalid")
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

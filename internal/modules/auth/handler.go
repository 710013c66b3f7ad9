package auth

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/middleware"
	"fintrack/internal/pkg/response"
	"fintrack/internal/pkg/token"
	"fintrack/internal/repository"

	"github.com/gin-gonic/gin"
)

// CookieOptions configures how the credential pair is delivered to browsers.
type CookieOptions struct {
	Secure        bool
	SameSite      string
	Path          string // refresh cookie scope (auth endpoints)
	AccessMaxAge  int    // seconds
	RefreshMaxAge int    // seconds
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookies CookieOptions
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service, cookies CookieOptions) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// Register создаёт новый аккаунт и открывает первую сессию.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, repository.ErrStoreUnavailable):
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		}
		return
	}

	h.setAuthCookies(c, result.Pair)
	response.Success(c, http.StatusCreated, gin.H{
		"user": UserResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  string(result.User.Role),
		},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrAccountSuspended):
			response.Error(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended")
		case errors.Is(err, repository.ErrStoreUnavailable):
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	h.setAuthCookies(c, result.Pair)
	response.Success(c, http.StatusOK, gin.H{
		"user": UserResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  string(result.User.Role),
		},
	})
}

// Refresh rotates the session behind the refresh cookie and re-sets both
// cookies. Every reason the rotation can be refused — unknown session,
// revoked session, wrong account — comes back as the same 401.
func (h *Handler) Refresh(c *gin.Context) {
	refreshRaw, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || strings.TrimSpace(refreshRaw) == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh credential is missing or invalid")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), refreshRaw, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired),
			errors.Is(err, token.ErrTokenMalformed),
			errors.Is(err, token.ErrTokenSignatureInvalid),
			errors.Is(err, ErrSessionNotFound),
			errors.Is(err, ErrSessionRevoked),
			errors.Is(err, ErrUserMismatch):
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh credential is invalid or expired")
		case errors.Is(err, ErrAccountSuspended):
			response.Error(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended")
		case errors.Is(err, repository.ErrStoreUnavailable):
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
		default:
			response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh session")
		}
		return
	}

	h.setAuthCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{"status": "refreshed"})
}

// Logout завершает текущую сессию и чистит куки.
func (h *Handler) Logout(c *gin.Context) {
	refreshRaw, err := c.Cookie(middleware.RefreshCookie)
	if err == nil && strings.TrimSpace(refreshRaw) != "" {
		if logoutErr := h.service.Logout(c.Request.Context(), refreshRaw); logoutErr != nil {
			if errors.Is(logoutErr, repository.ErrStoreUnavailable) {
				response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
			} else {
				response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
			}
			return
		}
	}

	h.clearAuthCookies(c)
	c.Status(http.StatusNoContent)
}

// LogoutAll revokes every session of the calling account ("logout
// everywhere") and clears this device's cookies.
func (h *Handler) LogoutAll(c *gin.Context) {
	userID := c.GetInt64("user_id")

	count, err := h.service.LogoutAll(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreUnavailable) {
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please retry shortly")
		} else {
			response.Error(c, http.StatusInternalServerError, "LOGOUT_ALL_FAILED", "Failed to logout everywhere")
		}
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, gin.H{"revoked_sessions": count})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) setAuthCookies(c *gin.Context, pair *TokenPair) {
	c.SetSameSite(parseSameSite(h.cookies.SameSite))
	// Access cookie is API-wide; the refresh cookie only travels to the auth
	// endpoints.
	c.SetCookie(middleware.AccessCookie, pair.AccessToken, h.cookies.AccessMaxAge, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, pair.RefreshToken, h.cookies.RefreshMaxAge, h.cookies.Path, "", h.cookies.Secure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookies.SameSite))
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

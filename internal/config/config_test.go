package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 10, cfg.SessionCap)
	assert.Equal(t, "Lax", cfg.CookieSameSite)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AccessTTLMustBeShorter(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "200h")
	t.Setenv("REFRESH_TOKEN_TTL", "168h")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRejectsDefaultSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("COOKIE_SECURE", "true")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRejectsSharedSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ACCESS_TOKEN_SECRET", "same-secret-for-both")
	t.Setenv("REFRESH_TOKEN_SECRET", "same-secret-for-both")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SameSiteNoneRequiresSecure(t *testing.T) {
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("COOKIE_SECURE", "false")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 24*time.Hour, cfg.TokenEmailVerifyExpiry)
	assert.Equal(t, 24*time.Hour, cfg.TokenPasswordResetExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.SecureCookies())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("FRONT_URL", "https://play.example.com")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "https://play.example.com", cfg.FrontURL)
	assert.True(t, cfg.SecureCookies())
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	t.Setenv("SOME_INT", "many")
	t.Setenv("SOME_BOOL", "maybe")

	assert.Equal(t, time.Minute, envDuration("SOME_DURATION", time.Minute))
	assert.Equal(t, 3, envInt("SOME_INT", 3))
	assert.True(t, envBool("SOME_BOOL", true))
}

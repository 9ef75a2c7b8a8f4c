package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", ":9090")
	t.Setenv("OPENAI_MODEL", "gpt-4")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AI_RATE_LIMIT", "0.5")
	t.Setenv("AI_RATE_BURST", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "gpt-4", cfg.OpenAI.Model)
	assert.Equal(t, 90*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.RateLimit.AIRequestsPerSecond)
	assert.Equal(t, 2, cfg.RateLimit.AIBurst)
	assert.True(t, cfg.IsLocal())
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg = NewConfig()
	cfg.Env = EnvProduction
	assert.ErrorContains(t, cfg.Validate(), "OPENAI_API_KEY")

	cfg.OpenAI.APIKey = "sk-test"
	assert.ErrorContains(t, cfg.Validate(), "mysql")

	cfg.Database.Driver = "mysql"
	require.NoError(t, cfg.Validate())

	cfg.Auth.Mode = AuthModeLocal
	assert.ErrorContains(t, cfg.Validate(), "AUTH_MODE")
}

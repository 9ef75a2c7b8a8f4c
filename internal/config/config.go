package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeLocal    = "local"
)

// Config holds the application configuration
type Config struct {
	Env string

	// Server configuration
	Server struct {
		Port            string
		ShutdownTimeout time.Duration
		AllowedOrigins  []string
	}

	// Database configuration
	Database struct {
		Driver string
		DSN    string
	}

	// Logging configuration
	Logging struct {
		Level string
	}

	OpenAI struct {
		APIKey  string
		BaseURL string
		Model   string
		Timeout time.Duration
	}

	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}

	Auth struct {
		Mode string
	}

	RateLimit struct {
		AIRequestsPerSecond float64
		AIBurst             int
	}

	Jobs struct {
		SubscriptionExpiryCron string
	}
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	config := &Config{Env: EnvDevelopment}

	config.Server.Port = "8080"
	config.Server.ShutdownTimeout = 5 * time.Second
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}
	config.Database.Driver = "sqlite"
	config.Database.DSN = "file:preview.db?_foreign_keys=on"
	config.Logging.Level = "info"
	config.OpenAI.Model = "gpt-3.5-turbo"
	config.OpenAI.Timeout = 60 * time.Second
	config.Auth.Mode = AuthModeFirebase
	config.RateLimit.AIRequestsPerSecond = 1
	config.RateLimit.AIBurst = 5
	config.Jobs.SubscriptionExpiryCron = "@every 1h"

	return config
}

// Load reads the configuration from the environment. Outside production a .env
// file in the working directory is loaded first.
func Load() (*Config, error) {
	if getEnv("APP_ENV", EnvDevelopment) != EnvProduction {
		_ = godotenv.Load(".env")
	}

	cfg := NewConfig()
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", "")
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.Timeout = getEnvDuration("OPENAI_TIMEOUT", cfg.OpenAI.Timeout)
	cfg.Firebase.ProjectID = getEnv("FIREBASE_PROJECT_ID", "")
	cfg.Firebase.CredentialsFile = getEnv("FIREBASE_CREDENTIALS_FILE", "")
	cfg.Auth.Mode = getEnv("AUTH_MODE", cfg.Auth.Mode)
	cfg.RateLimit.AIRequestsPerSecond = getEnvFloat("AI_RATE_LIMIT", cfg.RateLimit.AIRequestsPerSecond)
	cfg.RateLimit.AIBurst = getEnvInt("AI_RATE_BURST", cfg.RateLimit.AIBurst)
	cfg.Jobs.SubscriptionExpiryCron = getEnv("SUBSCRIPTION_EXPIRY_CRON", cfg.Jobs.SubscriptionExpiryCron)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Auth.Mode {
	case AuthModeFirebase, AuthModeLocal:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}
	if c.IsProduction() {
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
		if c.Auth.Mode != AuthModeFirebase {
			return fmt.Errorf("AUTH_MODE must be firebase in production")
		}
		if c.Database.Driver != "mysql" {
			return fmt.Errorf("DB_DRIVER must be mysql in production")
		}
	}
	if c.RateLimit.AIRequestsPerSecond <= 0 || c.RateLimit.AIBurst <= 0 {
		return fmt.Errorf("AI rate limit must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsLocal reports whether security is relaxed for local development.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Auth.Mode == AuthModeLocal
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

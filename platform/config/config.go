// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// KommoConfig provides settings for the Kommo CRM API client.
type KommoConfig interface {
	GetKommoSubdomain() string
	GetKommoAccessToken() string
	GetKommoBaseURL() string
}

// WebhookConfig provides settings for the inbound webhook endpoint.
type WebhookConfig interface {
	GetWebhookRateLimit() float64
	GetWebhookRateBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	KommoSubdomain   string
	KommoAccessToken string
	KommoBaseURL     string
	WebhookRateLimit float64
	WebhookRateBurst int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// KommoConfig implementation
func (c *Config) GetKommoSubdomain() string   { return c.KommoSubdomain }
func (c *Config) GetKommoAccessToken() string { return c.KommoAccessToken }

// GetKommoBaseURL returns the API base URL. KOMMO_BASE_URL overrides the
// subdomain-derived default, which local and test environments rely on.
func (c *Config) GetKommoBaseURL() string {
	if c.KommoBaseURL != "" {
		return c.KommoBaseURL
	}
	return fmt.Sprintf("https://%s.kommo.com/api/v4", c.KommoSubdomain)
}

// WebhookConfig implementation
func (c *Config) GetWebhookRateLimit() float64 { return c.WebhookRateLimit }
func (c *Config) GetWebhookRateBurst() int     { return c.WebhookRateBurst }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		KommoSubdomain:   getEnv("KOMMO_SUBDOMAIN", ""),
		KommoAccessToken: getEnv("KOMMO_ACCESS_TOKEN", ""),
		KommoBaseURL:     getEnv("KOMMO_BASE_URL", ""),
		WebhookRateLimit: mustFloat(getEnv("WEBHOOK_RATE_LIMIT", "20")),
		WebhookRateBurst: mustInt(getEnv("WEBHOOK_RATE_BURST", "40")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.KommoSubdomain == "" && cfg.KommoBaseURL == "" {
		return nil, fmt.Errorf("KOMMO_SUBDOMAIN or KOMMO_BASE_URL is required")
	}
	if cfg.KommoAccessToken == "" {
		return nil, fmt.Errorf("KOMMO_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the expense tracker service.
// Identity-provider and object-store settings are required at startup;
// a missing value is fatal there, never per-request.
type Config struct {
	// Server
	Port     string
	Host     string
	LogLevel string

	// Database
	DatabaseURL string

	// Identity provider (OIDC authorization-code flow)
	AuthIssuerURL    string
	AuthClientID     string
	AuthClientSecret string
	AuthRedirectURI  string

	// Frontend origin: CORS allow-origin and post-auth redirect target
	FrontendURL string

	// Object store
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Capability URL lifetimes (policy constants)
	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration

	// Session cookies
	SecureCookies bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9700")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// Identity provider configuration
	config.AuthIssuerURL = os.Getenv("AUTH_ISSUER_URL")
	if config.AuthIssuerURL == "" {
		return nil, fmt.Errorf("AUTH_ISSUER_URL is required")
	}

	config.AuthClientID = os.Getenv("AUTH_CLIENT_ID")
	if config.AuthClientID == "" {
		return nil, fmt.Errorf("AUTH_CLIENT_ID is required")
	}

	config.AuthClientSecret = os.Getenv("AUTH_CLIENT_SECRET")
	if config.AuthClientSecret == "" {
		return nil, fmt.Errorf("AUTH_CLIENT_SECRET is required")
	}

	config.AuthRedirectURI = os.Getenv("AUTH_REDIRECT_URI")
	if config.AuthRedirectURI == "" {
		return nil, fmt.Errorf("AUTH_REDIRECT_URI is required")
	}

	config.FrontendURL = getEnvOrDefault("FRONTEND_URL", "http://localhost:5173")

	// Object store configuration
	config.S3Bucket = os.Getenv("S3_BUCKET")
	if config.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	config.S3Region = getEnvOrDefault("S3_REGION", "us-east-1")
	config.S3Endpoint = os.Getenv("S3_ENDPOINT")
	config.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
	config.S3SecretKey = os.Getenv("S3_SECRET_KEY")

	// Capability lifetimes
	var err error
	uploadTTLStr := getEnvOrDefault("UPLOAD_URL_TTL", "60s")
	config.UploadURLTTL, err = time.ParseDuration(uploadTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_URL_TTL: %w", err)
	}

	downloadTTLStr := getEnvOrDefault("DOWNLOAD_URL_TTL", "600s")
	config.DownloadURLTTL, err = time.ParseDuration(downloadTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_URL_TTL: %w", err)
	}

	config.SecureCookies = getBoolEnv("SECURE_COOKIES", true)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate port
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	// Issuer and redirect URI must be absolute URLs
	if !strings.HasPrefix(c.AuthIssuerURL, "http://") && !strings.HasPrefix(c.AuthIssuerURL, "https://") {
		return fmt.Errorf("AUTH_ISSUER_URL must be an absolute URL: %s", c.AuthIssuerURL)
	}
	if !strings.HasPrefix(c.AuthRedirectURI, "http://") && !strings.HasPrefix(c.AuthRedirectURI, "https://") {
		return fmt.Errorf("AUTH_REDIRECT_URI must be an absolute URL: %s", c.AuthRedirectURI)
	}

	// Capability lifetimes must be positive and short-lived
	if c.UploadURLTTL < time.Second || c.UploadURLTTL > time.Hour {
		return fmt.Errorf("upload URL TTL must be between 1s and 1h, got: %v", c.UploadURLTTL)
	}
	if c.DownloadURLTTL < time.Second || c.DownloadURLTTL > 24*time.Hour {
		return fmt.Errorf("download URL TTL must be between 1s and 24h, got: %v", c.DownloadURLTTL)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/savishkar/mediakit/errors"
)

// Config holds everything the process needs, constructed once at startup and
// passed by reference to the components that need it.  There is no global
// lookup.
type Config struct {
	// Defaults applied when profiles and overrides leave quality unset.
	DefaultQuality int

	// Object storage (S3-compatible: MinIO locally, any provider in production).
	SinkEndpoint   string
	SinkAccessKey  string
	SinkSecretKey  string
	SinkBucket     string
	SinkPublicBase string
	SinkUseSSL     bool

	// Upload resilience.
	AttemptTimeout time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration

	// Rotation persistence.
	DatabaseURL string

	// Notifications.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Keep-alive self pinger.
	KeepAliveURL      string
	KeepAliveInterval time.Duration

	LogLevel string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DefaultQuality: getInt("DEFAULT_QUALITY", 80),

		SinkEndpoint:   os.Getenv("SINK_ENDPOINT"),
		SinkAccessKey:  os.Getenv("SINK_ACCESS_KEY"),
		SinkSecretKey:  os.Getenv("SINK_SECRET_KEY"),
		SinkBucket:     getEnv("SINK_BUCKET", "media"),
		SinkPublicBase: os.Getenv("SINK_PUBLIC_BASE"),
		SinkUseSSL:     getEnv("SINK_USE_SSL", "false") == "true",

		AttemptTimeout: getDuration("UPLOAD_ATTEMPT_TIMEOUT", 45*time.Second),
		MaxAttempts:    getInt("UPLOAD_MAX_ATTEMPTS", 3),
		RetryBaseDelay: getDuration("UPLOAD_RETRY_BASE_DELAY", 2*time.Second),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		MailFrom:     os.Getenv("MAIL_FROM"),

		KeepAliveURL:      os.Getenv("KEEP_ALIVE_URL"),
		KeepAliveInterval: getDuration("KEEP_ALIVE_INTERVAL", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate fails fast on configuration the process cannot run without.
// Missing sink credentials are a config-category error and are never retried.
func (c *Config) Validate() error {
	if c.SinkEndpoint == "" || c.SinkAccessKey == "" || c.SinkSecretKey == "" {
		return apperrors.New(apperrors.CategoryConfig, "config.validate",
			apperrors.ErrMissingCredentials)
	}
	if c.DefaultQuality < 1 || c.DefaultQuality > 100 {
		return apperrors.New(apperrors.CategoryConfig, "config.validate",
			errors.New("DEFAULT_QUALITY must be between 1 and 100"))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig aggregates runtime configuration, injected through environment
// variables so no credential is ever hardcoded.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Razorpay key pair: the secret both authenticates API calls and keys
	// payment signature verification.
	RazorpayKeyID     string
	RazorpayKeySecret string

	// Resend transactional mail credentials and addressing.
	ResendAPIKey string
	MailFrom     string
	MailTo       string

	// Per-IP rate limit applied to the checkout endpoints.
	RateLimit  int
	RateWindow time.Duration
}

// Load reads and validates configuration, falling back to development
// defaults where safe. Gateway and mail credentials have no defaults.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "drop_checkout.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           0,
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		MailFrom:          getEnv("MAIL_FROM", "orders@example.com"),
		MailTo:            getEnv("MAIL_TO", ""),
		RateLimit:         30,
		RateWindow:        time.Second,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	rateLimit, err := getEnvInt("RATE_LIMIT", cfg.RateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("RATE_LIMIT must be > 0")
	}
	cfg.RateLimit = rateLimit

	rateWindowSec, err := getEnvInt("RATE_WINDOW_SEC", int(cfg.RateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("RATE_WINDOW_SEC must be > 0")
	}
	cfg.RateWindow = time.Duration(rateWindowSec) * time.Second

	if cfg.RazorpayKeyID == "" {
		return AppConfig{}, fmt.Errorf("RAZORPAY_KEY_ID must not be empty")
	}
	if cfg.RazorpayKeySecret == "" {
		return AppConfig{}, fmt.Errorf("RAZORPAY_KEY_SECRET must not be empty")
	}
	if cfg.ResendAPIKey == "" {
		return AppConfig{}, fmt.Errorf("RESEND_API_KEY must not be empty")
	}
	if cfg.MailTo == "" {
		return AppConfig{}, fmt.Errorf("MAIL_TO must not be empty")
	}

	return cfg, nil
}

// getEnv reads a string environment variable, using fallback when unset.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt reads an integer environment variable, using fallback when unset.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

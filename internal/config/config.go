// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port             string
	AllowedOrigin    string
	AWSRegion        string
	S3Bucket         string // empty disables the image catalog
	CloudfrontDomain string

	SubmitEndpoint  string
	SubmitTimeout   time.Duration
	SessionExpiry   time.Duration // idle time before a session is dropped, 0 for never
	MaxUploadBytes  int64
	SubmitRateLimit int // submissions per minute per session
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		AWSRegion:        getEnv("AWS_REGION", "ap-northeast-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		CloudfrontDomain: getEnv("CLOUDFRONT_DOMAIN", ""),
		SubmitEndpoint:   getEnv("SUBMIT_ENDPOINT", "https://dal-credentials-uploader.bilker1422.workers.dev"),
	}

	var err error
	if cfg.SubmitTimeout, err = getEnvDuration("SUBMIT_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionExpiry, err = getEnvDuration("SESSION_EXPIRY", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", 20<<20); err != nil {
		return nil, err
	}
	limit, err := getEnvInt64("SUBMIT_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cfg.SubmitRateLimit = int(limit)

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate port is a number
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.New("invalid port: must be a number")
	}

	if c.SubmitEndpoint != "" {
		u, err := url.Parse(c.SubmitEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("invalid submit endpoint: must be an http(s) URL")
		}
	}
	if c.SubmitTimeout < 0 {
		return errors.New("invalid submit timeout: must not be negative")
	}
	if c.SessionExpiry < 0 {
		return errors.New("invalid session expiry: must not be negative")
	}
	if c.MaxUploadBytes < 0 {
		return errors.New("invalid max upload bytes: must not be negative")
	}
	if c.SubmitRateLimit < 0 {
		return errors.New("invalid submit rate limit: must not be negative")
	}

	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

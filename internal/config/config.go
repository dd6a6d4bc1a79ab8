// Package config handles runtime configuration: development defaults
// overlaid with environment variables (typically loaded from .env).
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	DatabaseDSN   string
	SecretKey     string
	TokenValidity time.Duration

	// Image uploads
	MaxImageSize int64
	ThumbWidth   int

	// Object storage (S3-compatible)
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	PublicURLBase     string
}

// LoadDefaults populates Config with development defaults. These values are
// insecure for production and should be overridden via the environment.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "host=localhost user=postgres password=postgres dbname=places port=5432 sslmode=disable"
	c.SecretKey = "secretKey"
	c.TokenValidity = 12 * time.Hour
	c.MaxImageSize = 5 << 20
	c.ThumbWidth = 320
	c.S3Bucket = "places"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PublicURLBase = "http://127.0.0.1:9000/places"
}

// Load builds a Config from defaults and environment overrides.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	overlayString(&cfg.Addr, "APP_ADDR")
	overlayString(&cfg.DatabaseDSN, "DATABASE_DSN")
	overlayString(&cfg.SecretKey, "JWT_SECRET_KEY")
	overlayDuration(&cfg.TokenValidity, "TOKEN_VALIDITY")
	overlayInt64(&cfg.MaxImageSize, "MAX_IMAGE_SIZE")
	overlayInt(&cfg.ThumbWidth, "THUMB_WIDTH")
	overlayString(&cfg.S3AccessKeyID, "ACCESS_KEY_ID")
	overlayString(&cfg.S3SecretAccessKey, "ACCESS_KEY_SECRET")
	overlayString(&cfg.S3Bucket, "BUCKET_NAME")
	overlayString(&cfg.S3Region, "BUCKET_REGION")
	overlayString(&cfg.S3BaseEndpoint, "S3_ENDPOINT")
	overlayString(&cfg.PublicURLBase, "PUBLIC_URL")

	return cfg
}

func overlayString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overlayInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func overlayDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// Package config centralizes how the portfolio uploader reads environment
// variables and exposes them as typed values. All knobs have working defaults
// except the DynamoDB table and S3 bucket names, which name real AWS
// resources and must be provided.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Confirmation policies for the full-reset action.
const (
	ResetConfirmSingle = "single" // typed token only
	ResetConfirmDouble = "double" // typed token, then a yes/no prompt
)

const (
	defaultIDPrefix     = "IMG"
	defaultIDPadWidth   = 4
	defaultConcurrency  = 8
	defaultMaxDimension = 2048
	defaultNamespace    = "portfolio"
)

// Config holds the runtime configuration for one CLI invocation.
type Config struct {
	// TableName is the DynamoDB table holding photo records.
	TableName string
	// Bucket is the S3 bucket receiving uploaded assets.
	Bucket string
	// Namespace is the S3 key prefix under which assets are stored.
	Namespace string
	// PublicBaseURL is the URL prefix for uploaded assets. Defaults to the
	// bucket's virtual-hosted S3 URL when empty.
	PublicBaseURL string

	// IDPrefix and IDPadWidth control the identifier namespace, e.g. IMG-0042.
	// The pad width is a minimum, not a cap.
	IDPrefix   string
	IDPadWidth int

	// Concurrency is the upload window size: at most this many units run at once.
	Concurrency int
	// MaxDimension is the longest allowed side of an uploaded image in pixels.
	// Larger images are downscaled preserving aspect ratio; never upscaled.
	MaxDimension int

	// ResetConfirm selects the confirmation policy for the full-reset action.
	ResetConfirm string
}

// Load reads configuration from environment variables, falling back to
// defaults. It returns an error for missing required values rather than
// exiting, so the caller decides how to surface it.
func Load() (*Config, error) {
	cfg := &Config{
		TableName:     os.Getenv("PORTFOLIO_TABLE"),
		Bucket:        os.Getenv("PORTFOLIO_BUCKET"),
		Namespace:     readEnv("PORTFOLIO_NAMESPACE", defaultNamespace),
		PublicBaseURL: strings.TrimSuffix(os.Getenv("PORTFOLIO_PUBLIC_BASE_URL"), "/"),
		IDPrefix:      readEnv("PORTFOLIO_ID_PREFIX", defaultIDPrefix),
		IDPadWidth:    readInt("PORTFOLIO_ID_PAD", defaultIDPadWidth),
		Concurrency:   readInt("PORTFOLIO_CONCURRENCY", defaultConcurrency),
		MaxDimension:  readInt("PORTFOLIO_MAX_DIMENSION", defaultMaxDimension),
		ResetConfirm:  readEnv("PORTFOLIO_RESET_CONFIRM", ResetConfirmSingle),
	}

	if cfg.TableName == "" {
		return nil, fmt.Errorf("PORTFOLIO_TABLE is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("PORTFOLIO_BUCKET is required")
	}
	if cfg.ResetConfirm != ResetConfirmSingle && cfg.ResetConfirm != ResetConfirmDouble {
		return nil, fmt.Errorf("PORTFOLIO_RESET_CONFIRM must be %q or %q, got %q",
			ResetConfirmSingle, ResetConfirmDouble, cfg.ResetConfirm)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = defaultMaxDimension
	}
	if cfg.IDPadWidth <= 0 {
		cfg.IDPadWidth = defaultIDPadWidth
	}

	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func readInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

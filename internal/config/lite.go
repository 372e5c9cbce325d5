// Package config provides configuration management for the PhenoAge toolkit.
// This file contains the lightweight configuration for the standalone MCP
// server binary.
package config

import (
	"os"
	"strconv"
	"time"
)

// LiteConfig is a flat, environment-only configuration for standalone
// operation. It needs no config file and uses sensible defaults.
type LiteConfig struct {
	// Cache settings
	CacheMaxItems int           // Maximum items in the tool result cache
	CacheTTL      time.Duration // Tool result cache TTL

	// Ranking settings
	TopK int // Default number of interventions reported by ranking tools

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		CacheMaxItems: 1000,
		CacheTTL:      24 * time.Hour,
		TopK:          5,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	// Cache settings
	if v := os.Getenv("PHENOAGE_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxItems = n
		}
	}
	if v := os.Getenv("PHENOAGE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}

	// Ranking
	if v := os.Getenv("PHENOAGE_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TopK = n
		}
	}

	// Logging
	if v := os.Getenv("PHENOAGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PHENOAGE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

package domain

import (
	"time"
)

// Config represents the main application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Ranking RankingConfig `mapstructure:"ranking"`
	Batch   BatchConfig   `mapstructure:"batch"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CacheConfig represents the in-process score cache configuration.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxItems   int           `mapstructure:"max_items"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// RankingConfig represents ranking display configuration.
type RankingConfig struct {
	TopK int `mapstructure:"top_k"`
}

// BatchConfig represents batch processing configuration.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// MCPConfig represents MCP server configuration.
type MCPConfig struct {
	ServerName    string        `mapstructure:"server_name"`
	ServerVersion string        `mapstructure:"server_version"`
	ToolCacheTTL  time.Duration `mapstructure:"tool_cache_ttl"`
}

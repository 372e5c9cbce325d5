package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/phenoage-mcp-server/internal/domain"
)

// Manager loads and validates the application configuration using Viper.
type Manager struct {
	config *domain.Config
	file   string
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	return NewManagerWithFile("")
}

// NewManagerWithFile creates a manager reading the given config file instead
// of searching the default paths. An empty path keeps the search behavior.
func NewManagerWithFile(file string) (*Manager, error) {
	m := &Manager{file: file}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from file, environment and defaults.
func (m *Manager) loadConfig() error {
	if m.file != "" {
		viper.SetConfigFile(m.file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/phenoage/")
	}

	viper.SetEnvPrefix("PHENOAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and environment variables apply
	// when it is absent.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stderr")

	// Score cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_items", 1000)
	viper.SetDefault("cache.default_ttl", "24h")

	// Ranking display defaults
	viper.SetDefault("ranking.top_k", 5)

	// Batch processing defaults
	viper.SetDefault("batch.workers", 4)

	// MCP server defaults
	viper.SetDefault("mcp.server_name", "phenoage-mcp-server")
	viper.SetDefault("mcp.server_version", "1.0.0")
	viper.SetDefault("mcp.tool_cache_ttl", "5m")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// GetCacheConfig returns score cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// GetRankingConfig returns ranking display configuration
func (m *Manager) GetRankingConfig() *domain.RankingConfig {
	return &m.config.Ranking
}

// GetBatchConfig returns batch processing configuration
func (m *Manager) GetBatchConfig() *domain.BatchConfig {
	return &m.config.Batch
}

// GetMCPConfig returns MCP server configuration
func (m *Manager) GetMCPConfig() *domain.MCPConfig {
	return &m.config.MCP
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	if config.Cache.Enabled && config.Cache.MaxItems <= 0 {
		return fmt.Errorf("cache.max_items must be positive when the cache is enabled, got %d", config.Cache.MaxItems)
	}

	if config.Ranking.TopK < 0 {
		return fmt.Errorf("ranking.top_k must not be negative, got %d", config.Ranking.TopK)
	}

	if config.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", config.Batch.Workers)
	}

	if config.MCP.ServerName == "" {
		return fmt.Errorf("mcp.server_name is required")
	}

	return nil
}

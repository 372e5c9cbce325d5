package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenoage-mcp-server/internal/domain"
)

func clearManagerEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PHENOAGE_LOGGING_LEVEL",
		"PHENOAGE_LOGGING_FORMAT",
		"PHENOAGE_LOGGING_OUTPUT",
		"PHENOAGE_CACHE_ENABLED",
		"PHENOAGE_CACHE_MAX_ITEMS",
		"PHENOAGE_CACHE_DEFAULT_TTL",
		"PHENOAGE_RANKING_TOP_K",
		"PHENOAGE_BATCH_WORKERS",
		"PHENOAGE_MCP_SERVER_NAME",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestManagerDefaults(t *testing.T) {
	clearManagerEnv(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NotNil(t, mgr.GetConfig())

	assert.Equal(t, "info", mgr.GetLoggingConfig().Level)
	assert.Equal(t, "json", mgr.GetLoggingConfig().Format)
	assert.Equal(t, "stderr", mgr.GetLoggingConfig().Output)

	assert.True(t, mgr.GetCacheConfig().Enabled)
	assert.Equal(t, 1000, mgr.GetCacheConfig().MaxItems)
	assert.Equal(t, 24*time.Hour, mgr.GetCacheConfig().DefaultTTL)

	assert.Equal(t, 5, mgr.GetRankingConfig().TopK)
	assert.Equal(t, 4, mgr.GetBatchConfig().Workers)

	assert.Equal(t, "phenoage-mcp-server", mgr.GetMCPConfig().ServerName)
	assert.Equal(t, 5*time.Minute, mgr.GetMCPConfig().ToolCacheTTL)

	assert.NoError(t, mgr.Validate())
}

func TestManagerWithFile(t *testing.T) {
	clearManagerEnv(t)

	path := writeConfigFile(t, `
logging:
  level: debug
  format: text
batch:
  workers: 2
`)

	mgr, err := NewManagerWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", mgr.GetLoggingConfig().Level)
	assert.Equal(t, "text", mgr.GetLoggingConfig().Format)
	assert.Equal(t, 2, mgr.GetBatchConfig().Workers)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, "stderr", mgr.GetLoggingConfig().Output)
	assert.Equal(t, 1000, mgr.GetCacheConfig().MaxItems)
	assert.Equal(t, 5, mgr.GetRankingConfig().TopK)

	assert.NoError(t, mgr.Validate())
}

func TestManagerWithFile_Missing(t *testing.T) {
	clearManagerEnv(t)

	_, err := NewManagerWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestManagerEnvOverride(t *testing.T) {
	clearManagerEnv(t)

	path := writeConfigFile(t, `
batch:
  workers: 2
`)

	os.Setenv("PHENOAGE_BATCH_WORKERS", "7")
	os.Setenv("PHENOAGE_LOGGING_LEVEL", "warn")
	defer clearManagerEnv(t)

	mgr, err := NewManagerWithFile(path)
	require.NoError(t, err)

	// Environment beats both the file and the defaults.
	assert.Equal(t, 7, mgr.GetBatchConfig().Workers)
	assert.Equal(t, "warn", mgr.GetLoggingConfig().Level)
}

func TestManagerReload(t *testing.T) {
	clearManagerEnv(t)

	path := writeConfigFile(t, `
ranking:
  top_k: 3
`)

	mgr, err := NewManagerWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, mgr.GetRankingConfig().TopK)

	require.NoError(t, os.WriteFile(path, []byte("ranking:\n  top_k: 8\n"), 0644))
	require.NoError(t, mgr.Reload())
	assert.Equal(t, 8, mgr.GetRankingConfig().TopK)
}

func validManagerConfig() *domain.Config {
	return &domain.Config{
		Logging: domain.LoggingConfig{Level: "info", Format: "json", Output: "stderr"},
		Cache:   domain.CacheConfig{Enabled: true, MaxItems: 1000, DefaultTTL: 24 * time.Hour},
		Ranking: domain.RankingConfig{TopK: 5},
		Batch:   domain.BatchConfig{Workers: 4},
		MCP: domain.MCPConfig{
			ServerName:    "phenoage-mcp-server",
			ServerVersion: "1.0.0",
			ToolCacheTTL:  5 * time.Minute,
		},
	}
}

func TestManagerValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *domain.Config) {},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *domain.Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *domain.Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "enabled cache without capacity",
			mutate:  func(c *domain.Config) { c.Cache.MaxItems = 0 },
			wantErr: "cache.max_items",
		},
		{
			name:    "negative ranking top_k",
			mutate:  func(c *domain.Config) { c.Ranking.TopK = -1 },
			wantErr: "ranking.top_k",
		},
		{
			name:    "zero batch workers",
			mutate:  func(c *domain.Config) { c.Batch.Workers = 0 },
			wantErr: "batch.workers",
		},
		{
			name:    "missing server name",
			mutate:  func(c *domain.Config) { c.MCP.ServerName = "" },
			wantErr: "mcp.server_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validManagerConfig()
			tt.mutate(cfg)
			mgr := &Manager{config: cfg}

			err := mgr.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "RUN_MIGRATIONS", "PORT", "CORS_ORIGINS", "ENV",
		"DEFAULT_PAGE_SIZE", "FEED_RESYNC_INTERVAL", "DASHBOARD_CACHE_TTL",
		"DASHBOARD_CACHE_SIZE", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/expenses")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 5, cfg.DefaultPageSize)
	assert.Equal(t, 5*time.Minute, cfg.FeedResyncInterval)
	assert.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	assert.Equal(t, 32, cfg.DashboardCacheSize)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/expenses")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ENV", "production")
	t.Setenv("DEFAULT_PAGE_SIZE", "10")
	t.Setenv("FEED_RESYNC_INTERVAL", "1m")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, time.Minute, cfg.FeedResyncInterval)
	assert.False(t, cfg.RunMigrations)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database url",
			env:     map[string]string{},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "non-numeric page size",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "DEFAULT_PAGE_SIZE": "five"},
			wantErr: "DEFAULT_PAGE_SIZE must be an integer",
		},
		{
			name:    "page size out of range",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "DEFAULT_PAGE_SIZE": "500"},
			wantErr: "DEFAULT_PAGE_SIZE must be between 1 and 100",
		},
		{
			name:    "bad duration",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "DASHBOARD_CACHE_TTL": "soon"},
			wantErr: "DASHBOARD_CACHE_TTL must be a duration",
		},
		{
			name:    "bad boolean",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "RUN_MIGRATIONS": "maybe"},
			wantErr: "RUN_MIGRATIONS must be a boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

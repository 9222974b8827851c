// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/eduadmin/internal/platform/config"
)

/*
TestParse_Defaults verifies the local-development fallbacks.
*/
func TestParse_Defaults(t *testing.T) {
	t.Setenv("ADMIN_API_URL", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.APIURL)
	assert.Equal(t, config.StoreFile, cfg.SessionStore)
	assert.Equal(t, "default", cfg.SessionProfile)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.True(t, cfg.AutoLogout)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestParse_Overrides checks that environment values win over defaults.
*/
func TestParse_Overrides(t *testing.T) {
	t.Setenv("ADMIN_API_URL", "https://api.example.edu/api")
	t.Setenv("REQUEST_TIMEOUT", "15s")
	t.Setenv("AUTO_LOGOUT", "false")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.edu/api", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.AutoLogout)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, config.StoreRedis, cfg.SessionStore)
}

/*
TestParse_Invalid covers rejected combinations.
*/
func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative_url", map[string]string{"ADMIN_API_URL": "/api"}},
		{"unknown_store", map[string]string{"SESSION_STORE": "sqlite"}},
		{"redis_without_url", map[string]string{"SESSION_STORE": "redis", "REDIS_URL": ""}},
		{"postgres_without_dsn", map[string]string{"SESSION_STORE": "postgres", "DATABASE_URL": ""}},
		{"negative_rate", map[string]string{"REQUEST_RATE_LIMIT": "-1"}},
		{"negative_ttl", map[string]string{"SESSION_TTL": "-1m"}},
		{"plain_http_in_production", map[string]string{"ENVIRONMENT": "production", "ADMIN_API_URL": "http://api.example.edu/api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Parse()
			assert.Error(t, err)
		})
	}
}

/*
TestParse_ProfileIsSlugged keeps profile names safe for paths and keys.
*/
func TestParse_ProfileIsSlugged(t *testing.T) {
	t.Setenv("SESSION_PROFILE", "Sofía's Laptop")

	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sofias-laptop", cfg.SessionProfile)

	t.Setenv("SESSION_PROFILE", "???")
	cfg, err = config.Parse()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.SessionProfile)
}

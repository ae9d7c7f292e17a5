// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T, yaml string) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "easel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadTestConfig(t, "")

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.RequestTimeoutSeconds)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 10, cfg.Insight.SoftTimeoutSeconds)
	assert.Equal(t, "professional", cfg.Layout.DefaultTheme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Server.CORS.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg := loadTestConfig(t, `
server:
  port: 9090
  request_timeout_seconds: 45
llm:
  provider: none
layout:
  default_theme: midnight
storage:
  dsn: /tmp/easel.db
`)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45, cfg.Server.RequestTimeoutSeconds)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, "midnight", cfg.Layout.DefaultTheme)
	assert.Equal(t, "/tmp/easel.db", cfg.Storage.DSN)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestEnvAliases(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test-123")
	t.Setenv("LLM_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("LAYOUT_DEFAULT_THEME", "vibrant")
	t.Setenv("REQUEST_TIMEOUT_S", "20")
	t.Setenv("INSIGHT_SOFT_TIMEOUT_S", "5")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	cfg := loadTestConfig(t, "")

	assert.Equal(t, "sk-test-123", cfg.LLM.APIKey)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
	assert.Equal(t, "vibrant", cfg.Layout.DefaultTheme)
	assert.Equal(t, 20, cfg.Server.RequestTimeoutSeconds)
	assert.Equal(t, 5, cfg.Insight.SoftTimeoutSeconds)
	assert.InDelta(t, 0.5, cfg.LLM.RateLimit.RequestsPerSecond, 0.001)
}

func TestEnvAliasDoesNotOverrideConfigFile(t *testing.T) {
	t.Setenv("LAYOUT_DEFAULT_THEME", "vibrant")
	t.Setenv("REQUEST_TIMEOUT_S", "20")

	cfg := loadTestConfig(t, `
server:
  request_timeout_seconds: 60
layout:
  default_theme: midnight
`)

	assert.Equal(t, "midnight", cfg.Layout.DefaultTheme)
	assert.Equal(t, 60, cfg.Server.RequestTimeoutSeconds)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.LLM.Provider = "cohere" },
			wantErr: "llm.provider",
		},
		{
			name:    "insight timeout above request timeout",
			mutate:  func(c *Config) { c.Insight.SoftTimeoutSeconds = 60 },
			wantErr: "insight.soft_timeout_seconds",
		},
		{
			name: "bad tls mode",
			mutate: func(c *Config) {
				c.TLS.Enabled = true
				c.TLS.Mode = "acme2"
			},
			wantErr: "tls.mode",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "logfmt" },
			wantErr: "logging.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, "")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateExampleConfigLoads(t *testing.T) {
	cfg := loadTestConfig(t, GenerateExampleConfig())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.NoError(t, cfg.Validate())
}

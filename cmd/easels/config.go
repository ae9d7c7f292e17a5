// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/teradata-labs/easel/pkg/server"
	tlsmgr "github.com/teradata-labs/easel/pkg/tls"
)

const (
	// ServiceName for keyring storage
	ServiceName = "easel"
	// DefaultConfigFileName is the name of the config file
	DefaultConfigFileName = "easel"
	// keyringLLMKey is the keyring entry holding the LLM API key
	keyringLLMKey = "llm_api_key"
)

// Config holds all configuration for the Easel server.
// Priority: CLI flags > config file > env vars > defaults
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Insight InsightConfig `mapstructure:"insight"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Storage StorageConfig `mapstructure:"storage"`
	Prompts PromptsConfig `mapstructure:"prompts"`
	Themes  ThemesConfig  `mapstructure:"themes"`
	TLS     tlsmgr.Config `mapstructure:"tls"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Host                  string     `mapstructure:"host"`
	Port                  int        `mapstructure:"port"`
	RequestTimeoutSeconds int        `mapstructure:"request_timeout_seconds"`
	DrainTimeoutSeconds   int        `mapstructure:"drain_timeout_seconds"`
	CORS                  CORSConfig `mapstructure:"cors"`

	// EditorEndpoint is the API base URL embedded chart editors call back
	// to. Empty means fragments carry no editor overlay.
	EditorEndpoint string `mapstructure:"editor_endpoint"`
}

// CORSConfig mirrors server.CORSConfig for file/env loading.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LLMConfig selects and parameterizes the insight provider.
type LLMConfig struct {
	// Provider is anthropic, bedrock, or none. With none every slide uses
	// the deterministic fallback text.
	Provider string `mapstructure:"provider"`

	APIKey         string  `mapstructure:"api_key"` // From CLI/env/keyring only
	Model          string  `mapstructure:"model"`
	Endpoint       string  `mapstructure:"endpoint"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`

	// Bedrock-specific
	BedrockRegion          string `mapstructure:"bedrock_region"`
	BedrockAccessKeyID     string `mapstructure:"bedrock_access_key_id"`     // From CLI/env/keyring only
	BedrockSecretAccessKey string `mapstructure:"bedrock_secret_access_key"` // From CLI/env/keyring only
	BedrockSessionToken    string `mapstructure:"bedrock_session_token"`     // From CLI/env/keyring only
	BedrockProfile         string `mapstructure:"bedrock_profile"`
	BedrockModelID         string `mapstructure:"bedrock_model_id"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig tunes the shared provider request limiter.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	TokensPerMinute   int64   `mapstructure:"tokens_per_minute"`
	BurstCapacity     int     `mapstructure:"burst_capacity"`
}

// InsightConfig bounds observation generation.
type InsightConfig struct {
	// SoftTimeoutSeconds caps the LLM call; on expiry the fallback text is
	// used and the request still succeeds.
	SoftTimeoutSeconds int `mapstructure:"soft_timeout_seconds"`
}

// LayoutConfig configures slide assembly.
type LayoutConfig struct {
	DefaultTheme string `mapstructure:"default_theme"`
}

// StorageConfig configures the editor chart-data store.
type StorageConfig struct {
	// DSN is a sqlite file path, postgres:// URL, or mysql:// URL. Empty
	// disables editor persistence.
	DSN           string `mapstructure:"dsn"`
	EncryptionKey string `mapstructure:"encryption_key"` // From CLI/env/keyring only
}

// PromptsConfig configures the prompt registry overlay.
type PromptsConfig struct {
	OverlayDir   string `mapstructure:"overlay_dir"`
	EnableReload bool   `mapstructure:"enable_reload"`
}

// ThemesConfig configures chart theme overrides.
type ThemesConfig struct {
	OverridesFile string `mapstructure:"overrides_file"`
	EnableReload  bool   `mapstructure:"enable_reload"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration with precedence:
// CLI flags > config file > environment > defaults.
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile == "" {
		cfgFile = os.Getenv("EASEL_CONFIG")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".easel"))
		}
		viper.AddConfigPath("/etc/easel/")
		viper.SetConfigName(DefaultConfigFileName) // easel.yaml
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.SetEnvPrefix("EASEL")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets from keyring if not provided via CLI/env/config.
	// Non-fatal: keyring might not be available.
	_ = loadSecretsFromKeyring(&config)

	applyEnvAliases(&config)

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.request_timeout_seconds", 30)
	viper.SetDefault("server.drain_timeout_seconds", 15)

	// CORS defaults (permissive for development; configure for production)
	viper.SetDefault("server.cors.enabled", true)
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("server.cors.allowed_headers", []string{"*"})
	viper.SetDefault("server.cors.exposed_headers", []string{"Content-Length", "Content-Type"})
	viper.SetDefault("server.cors.max_age", 86400)

	// LLM defaults
	viper.SetDefault("llm.provider", "anthropic")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 512)
	viper.SetDefault("llm.timeout_seconds", 60)
	viper.SetDefault("llm.rate_limit.enabled", true)
	viper.SetDefault("llm.rate_limit.requests_per_second", 0.7)
	viper.SetDefault("llm.rate_limit.tokens_per_minute", 80000)
	viper.SetDefault("llm.rate_limit.burst_capacity", 3)

	// Insight defaults
	viper.SetDefault("insight.soft_timeout_seconds", 10)

	// Layout defaults
	viper.SetDefault("layout.default_theme", "professional")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// applyEnvAliases honors the documented unprefixed environment variables.
// They fill gaps only; explicit config always wins.
func applyEnvAliases(config *Config) {
	if v := os.Getenv("LLM_API_KEY"); v != "" && config.LLM.APIKey == "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" && config.LLM.Model == "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("LAYOUT_DEFAULT_THEME"); v != "" && !viper.InConfig("layout.default_theme") {
		config.Layout.DefaultTheme = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && !viper.InConfig("server.request_timeout_seconds") {
			config.Server.RequestTimeoutSeconds = n
		}
	}
	if v := os.Getenv("INSIGHT_SOFT_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && !viper.InConfig("insight.soft_timeout_seconds") {
			config.Insight.SoftTimeoutSeconds = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.LLM.RateLimit.Enabled = true
			config.LLM.RateLimit.RequestsPerSecond = float64(n) / 60.0
		}
	}
}

// Validate checks the configuration for mistakes a typo produces.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range (1-65535)", c.Server.Port)
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be positive, got %d", c.Server.RequestTimeoutSeconds)
	}
	switch c.LLM.Provider {
	case "anthropic", "bedrock", "none", "":
	default:
		return fmt.Errorf("llm.provider %q is not supported (use anthropic, bedrock, or none)", c.LLM.Provider)
	}
	if c.Insight.SoftTimeoutSeconds <= 0 {
		return fmt.Errorf("insight.soft_timeout_seconds must be positive, got %d", c.Insight.SoftTimeoutSeconds)
	}
	if c.Insight.SoftTimeoutSeconds > c.Server.RequestTimeoutSeconds {
		return fmt.Errorf("insight.soft_timeout_seconds (%d) exceeds server.request_timeout_seconds (%d); the fallback would never engage",
			c.Insight.SoftTimeoutSeconds, c.Server.RequestTimeoutSeconds)
	}
	if c.TLS.Enabled {
		switch c.TLS.Mode {
		case "letsencrypt", "manual", "self-signed", "selfsigned":
		default:
			return fmt.Errorf("tls.mode %q is not supported (use letsencrypt, manual, or self-signed)", c.TLS.Mode)
		}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use text or json)", c.Logging.Format)
	}
	return nil
}

// RequestTimeout returns the per-request deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// Addr returns the host:port the server binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerCORS converts the loaded CORS settings to the server's type.
func (c *Config) ServerCORS() server.CORSConfig {
	return server.CORSConfig{
		Enabled:          c.Server.CORS.Enabled,
		AllowedOrigins:   c.Server.CORS.AllowedOrigins,
		AllowedMethods:   c.Server.CORS.AllowedMethods,
		AllowedHeaders:   c.Server.CORS.AllowedHeaders,
		ExposedHeaders:   c.Server.CORS.ExposedHeaders,
		AllowCredentials: c.Server.CORS.AllowCredentials,
		MaxAge:           c.Server.CORS.MaxAge,
	}
}

// loadSecretsFromKeyring fills secret fields the CLI, env, and config file
// left empty. Missing keyring entries are not an error.
func loadSecretsFromKeyring(config *Config) error {
	if config.LLM.APIKey == "" {
		if value, err := keyring.Get(ServiceName, keyringLLMKey); err == nil && value != "" {
			config.LLM.APIKey = value
		}
	}
	if config.Storage.EncryptionKey == "" {
		if value, err := keyring.Get(ServiceName, "storage_encryption_key"); err == nil && value != "" {
			config.Storage.EncryptionKey = value
		}
	}
	return nil
}

// SaveSecretToKeyring saves a secret to the system keyring.
func SaveSecretToKeyring(key, value string) error {
	return keyring.Set(ServiceName, key, value)
}

// GenerateExampleConfig returns a commented example easel.yaml.
func GenerateExampleConfig() string {
	return `# Easel server configuration.
# Precedence: CLI flags > this file > EASEL_* environment variables > defaults.

server:
  host: 0.0.0.0
  port: 8080
  request_timeout_seconds: 30
  drain_timeout_seconds: 15
  # editor_endpoint: https://easel.example.com
  cors:
    enabled: true
    allowed_origins: ["*"]  # restrict in production

llm:
  # anthropic, bedrock, or none (deterministic fallback text only)
  provider: anthropic
  # api_key comes from the keyring (service "easel", key "llm_api_key"),
  # the LLM_API_KEY environment variable, or the --llm-key flag.
  # model: claude-3-5-haiku-latest
  rate_limit:
    enabled: true
    requests_per_second: 0.7
    tokens_per_minute: 80000

insight:
  soft_timeout_seconds: 10

layout:
  default_theme: professional

storage:
  # sqlite file path, postgres:// URL, or mysql:// URL.
  # Empty disables the chart editor persistence routes.
  dsn: ""

prompts:
  # overlay_dir: ./prompts
  enable_reload: false

themes:
  # overrides_file: ./themes.yaml
  enable_reload: false

tls:
  enabled: false
  # mode: self-signed | manual | letsencrypt

logging:
  level: info
  format: text
`
}

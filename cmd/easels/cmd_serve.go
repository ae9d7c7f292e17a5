// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teradata-labs/easel/pkg/chartgen"
	"github.com/teradata-labs/easel/pkg/chartstore"
	"github.com/teradata-labs/easel/pkg/insight"
	"github.com/teradata-labs/easel/pkg/llm"
	"github.com/teradata-labs/easel/pkg/llm/anthropic"
	"github.com/teradata-labs/easel/pkg/llm/bedrock"
	"github.com/teradata-labs/easel/pkg/pipeline"
	"github.com/teradata-labs/easel/pkg/prompts"
	"github.com/teradata-labs/easel/pkg/server"
	tlsmgr "github.com/teradata-labs/easel/pkg/tls"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Easel HTTP server",
	Long: heredoc.Doc(`
		Start the analytics HTTP server.

		The server will:
		- Initialize the configured LLM provider for observation text
		- Load prompt and theme overlays (hot-reloaded when enabled)
		- Open the chart-data store when storage.dsn is set
		- Listen for HTTP requests on the configured host and port

		Press Ctrl+C to gracefully shutdown.`),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// buildLogger constructs the zap logger from logging config.
func buildLogger(config *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level %q: %w", config.Logging.Level, err)
	}

	var zcfg zap.Config
	if config.Logging.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// buildProvider constructs the LLM provider named by config. A nil provider
// means every slide gets the deterministic fallback text.
func buildProvider(config *Config, logger *zap.Logger) (llm.Provider, error) {
	limiter := llm.RateLimiterConfig{
		Enabled:           config.LLM.RateLimit.Enabled,
		RequestsPerSecond: config.LLM.RateLimit.RequestsPerSecond,
		TokensPerMinute:   config.LLM.RateLimit.TokensPerMinute,
		BurstCapacity:     config.LLM.RateLimit.BurstCapacity,
		Logger:            logger,
	}

	switch config.LLM.Provider {
	case "none", "":
		logger.Info("no LLM provider configured, observations use fallback text")
		return nil, nil

	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:      config.LLM.APIKey,
			Model:       config.LLM.Model,
			Endpoint:    config.LLM.Endpoint,
			Timeout:     time.Duration(config.LLM.TimeoutSeconds) * time.Second,
			MaxTokens:   config.LLM.MaxTokens,
			Temperature: config.LLM.Temperature,
			RateLimiter: limiter,
		}), nil

	case "bedrock":
		return bedrock.NewClient(bedrock.Config{
			Region:          config.LLM.BedrockRegion,
			AccessKeyID:     config.LLM.BedrockAccessKeyID,
			SecretAccessKey: config.LLM.BedrockSecretAccessKey,
			SessionToken:    config.LLM.BedrockSessionToken,
			Profile:         config.LLM.BedrockProfile,
			ModelID:         config.LLM.BedrockModelID,
			MaxTokens:       config.LLM.MaxTokens,
			Temperature:     config.LLM.Temperature,
			RateLimiter:     limiter,
		})

	default:
		return nil, fmt.Errorf("unknown llm.provider: %s", config.LLM.Provider)
	}
}

// buildPromptRegistry loads embedded prompts plus the configured overlay.
func buildPromptRegistry(config *Config, logger *zap.Logger) (*prompts.Registry, error) {
	registry := prompts.NewRegistry(logger)
	if config.Prompts.OverlayDir != "" {
		if err := registry.LoadOverlay(config.Prompts.OverlayDir); err != nil {
			return nil, fmt.Errorf("failed to load prompt overlay from %s: %w", config.Prompts.OverlayDir, err)
		}
		if config.Prompts.EnableReload {
			if err := registry.EnableReload(config.Prompts.OverlayDir); err != nil {
				return nil, fmt.Errorf("failed to watch prompt overlay: %w", err)
			}
		}
	}
	return registry, nil
}

// buildThemes loads built-in themes plus the configured override file.
func buildThemes(config *Config, logger *zap.Logger) (*chartgen.Themes, error) {
	themes := chartgen.NewThemes(logger)
	if config.Themes.OverridesFile != "" {
		if err := themes.LoadOverrides(config.Themes.OverridesFile); err != nil {
			return nil, fmt.Errorf("failed to load theme overrides from %s: %w", config.Themes.OverridesFile, err)
		}
		if config.Themes.EnableReload {
			if err := themes.EnableReload(config.Themes.OverridesFile); err != nil {
				return nil, fmt.Errorf("failed to watch theme overrides: %w", err)
			}
		}
	}
	return themes, nil
}

// buildPipeline assembles the full request pipeline from config.
func buildPipeline(config *Config, logger *zap.Logger) (*pipeline.Pipeline, *prompts.Registry, *chartgen.Themes, error) {
	provider, err := buildProvider(config, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	registry, err := buildPromptRegistry(config, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	themes, err := buildThemes(config, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	insights := insight.New(insight.Config{
		Provider:    provider,
		Registry:    registry,
		Logger:      logger,
		SoftTimeout: time.Duration(config.Insight.SoftTimeoutSeconds) * time.Second,
	})

	p := pipeline.New(pipeline.Config{
		Charts:         chartgen.New(themes, logger),
		Insights:       insights,
		Logger:         logger,
		Timeout:        config.RequestTimeout(),
		DefaultTheme:   config.Layout.DefaultTheme,
		EditorEndpoint: config.Server.EditorEndpoint,
	})
	return p, registry, themes, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := buildLogger(config)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, registry, themes, err := buildPipeline(config, logger)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()
	defer func() { _ = themes.Close() }()

	var store chartstore.Store
	if config.Storage.DSN != "" {
		sqlStore, err := chartstore.Open(chartstore.Config{
			DSN:           config.Storage.DSN,
			EncryptionKey: config.Storage.EncryptionKey,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("failed to open chart store: %w", err)
		}
		store = sqlStore
		defer func() { _ = sqlStore.Close() }()
	}

	srv := server.Config{
		Addr:         config.Addr(),
		Pipeline:     p,
		Store:        store,
		Logger:       logger,
		CORS:         config.ServerCORS(),
		DrainTimeout: time.Duration(config.Server.DrainTimeoutSeconds) * time.Second,
	}

	if config.TLS.Enabled {
		manager, err := tlsmgr.NewManager(&config.TLS)
		if err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start TLS provider: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = manager.Stop(stopCtx)
		}()
		srv.TLSConfig = manager.TLSConfig()
	}

	s := server.New(srv)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Server.DrainTimeoutSeconds)*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

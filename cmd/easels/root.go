// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teradata-labs/easel/internal/version"
)

var (
	cfgFile string
	config  *Config
)

// rootCmd represents the base command. Running it without a subcommand
// starts the server, so `easels` alone is equivalent to `easels serve`.
var rootCmd = &cobra.Command{
	Use:     "easels",
	Short:   "Easel Server - Analytics slide fragment service",
	Long:    `Easel Server (easels) turns a narrative and a small dataset into a self-contained interactive chart fragment with AI-generated observations, served over an HTTP API.`,
	Version: version.Get(),
	RunE:    runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Custom help template with common invocations and Support at bottom
	rootCmd.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}

Common Invocations:
  easels serve                              Start the HTTP server
  easels render --data q3.xlsx --analytics-type revenue_over_time
                                            Render one fragment offline
  easels chart-types                        List the chart catalog
  easels chart-types line                   Show one catalog entry
  easels config init                        Write an example easel.yaml

Support:
  GitHub: https://github.com/teradata-labs/easel/issues
  Documentation: https://github.com/teradata-labs/easel
`)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: easel.yaml in ., $HOME/.easel, /etc/easel)")

	// Server flags
	rootCmd.PersistentFlags().Int("port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().String("host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("request-timeout", 30, "per-request deadline in seconds")

	// LLM flags
	rootCmd.PersistentFlags().String("llm-provider", "anthropic", "LLM provider (anthropic, bedrock, none)")
	rootCmd.PersistentFlags().String("llm-key", "", "LLM API key (or use keyring/env)")
	rootCmd.PersistentFlags().String("llm-model", "", "LLM model override")
	rootCmd.PersistentFlags().Int("insight-timeout", 10, "insight soft timeout in seconds; on expiry the fallback text is used")

	// Layout flags
	rootCmd.PersistentFlags().String("theme", "professional", "default chart theme")

	// Storage flags
	rootCmd.PersistentFlags().String("db", "", "chart-data store DSN (sqlite path, postgres:// or mysql://; empty disables the editor persistence routes)")

	// Logging flags
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("server.host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("server.request_timeout_seconds", rootCmd.PersistentFlags().Lookup("request-timeout"))

	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.api_key", rootCmd.PersistentFlags().Lookup("llm-key"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("llm-model"))
	_ = viper.BindPFlag("insight.soft_timeout_seconds", rootCmd.PersistentFlags().Lookup("insight-timeout"))

	_ = viper.BindPFlag("layout.default_theme", rootCmd.PersistentFlags().Lookup("theme"))

	_ = viper.BindPFlag("storage.dsn", rootCmd.PersistentFlags().Lookup("db"))

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

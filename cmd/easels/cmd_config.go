// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Easel configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Long: heredoc.Doc(`
		Write a commented example easel.yaml. Without a path the file is
		written to the current directory. Existing files are not
		overwritten unless --force is given.`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "easel.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.WriteFile(path, []byte(GenerateExampleConfig()), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <value>",
	Short: "Store the LLM API key in the system keyring",
	Long: heredoc.Doc(`
		Store the LLM API key in the operating system keyring under the
		"easel" service. The server reads it from there when neither the
		config file nor LLM_API_KEY provides one, so the key never has
		to live in a file or shell history beyond this command.`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := SaveSecretToKeyring(keyringLLMKey, args[0]); err != nil {
			return fmt.Errorf("failed to store key in keyring: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "stored llm_api_key in keyring")
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configValidateCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teradata-labs/easel/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Service, version.Get())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

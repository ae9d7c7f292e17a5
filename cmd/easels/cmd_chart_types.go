// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/teradata-labs/easel/pkg/catalog"
)

var chartTypesJSON bool

var chartTypesCmd = &cobra.Command{
	Use:   "chart-types [id]",
	Short: "List the chart catalog",
	Long: heredoc.Doc(`
		List every chart type the service can render, or show one entry
		in detail. Pass a chart type id (e.g. line, pie, bar_vertical) to
		see its data requirements and supported layouts.`),
	Args: cobra.MaximumNArgs(1),
	RunE: runChartTypes,
}

func init() {
	rootCmd.AddCommand(chartTypesCmd)
	chartTypesCmd.Flags().BoolVar(&chartTypesJSON, "json", false, "emit JSON instead of a table")
}

func runChartTypes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		spec, serr := catalog.ByID(args[0])
		if serr != nil {
			return fmt.Errorf("%s: %s", serr.Code, serr.Message)
		}
		if chartTypesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(spec)
		}
		fmt.Fprintf(out, "%s (%s)\n", spec.Name, spec.ID)
		fmt.Fprintf(out, "  library:  %s\n", spec.Library)
		fmt.Fprintf(out, "  layouts:  %s\n", joinLayouts(spec))
		fmt.Fprintf(out, "  points:   %d-%d (%s)\n", spec.MinPoints, spec.MaxPoints, spec.OptimalRange)
		fmt.Fprintf(out, "  fields:   %s\n", strings.Join(spec.DataRequirements.Fields, ", "))
		fmt.Fprintf(out, "  use for:  %s\n", strings.Join(spec.UseCases, "; "))
		fmt.Fprintf(out, "\n%s\n", spec.Description)
		return nil
	}

	specs := catalog.All()
	if chartTypesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"summary":     catalog.Summarize(),
			"chart_types": specs,
		})
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLIBRARY\tLAYOUTS\tPOINTS")
	for _, spec := range specs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d-%d\n",
			spec.ID, spec.Name, spec.Library, joinLayouts(&spec), spec.MinPoints, spec.MaxPoints)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	summary := catalog.Summarize()
	fmt.Fprintf(out, "\n%d chart types\n", summary.Total)
	return nil
}

func joinLayouts(spec *catalog.Spec) string {
	parts := make([]string, len(spec.SupportedLayouts))
	for i, l := range spec.SupportedLayouts {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/teradata-labs/easel/pkg/dataset"
	"github.com/teradata-labs/easel/pkg/types"
)

var (
	renderData          string
	renderAnalyticsType string
	renderLayout        string
	renderNarrative     string
	renderOut           string
	renderTheme         string
	renderTitle         string
	renderAudience      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one slide fragment offline",
	Long: heredoc.Doc(`
		Render a single slide fragment without starting the HTTP server.

		Data is read from a .xlsx or .csv file (first sheet, first two
		columns, header row detected). The result is a standalone HTML
		page containing the chart fragment and the observation text.

		With llm.provider set to none (or no API key available) the
		observations fall back to deterministic text derived from the
		data, so render works fully offline.`),
	Example: heredoc.Doc(`
		easels render --data q3.xlsx --analytics-type revenue_over_time \
		  --narrative "Q3 revenue accelerated in every region" --out q3.html`),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderData, "data", "", "dataset file (.xlsx or .csv)")
	renderCmd.Flags().StringVar(&renderAnalyticsType, "analytics-type", "", "analytics type (e.g. revenue_over_time)")
	renderCmd.Flags().StringVar(&renderLayout, "layout", "L02", "slide layout (L01, L02, L03)")
	renderCmd.Flags().StringVar(&renderNarrative, "narrative", "", "narrative text driving chart choice and observations")
	renderCmd.Flags().StringVar(&renderOut, "out", "slide.html", "output HTML file")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "chart theme (default from config)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "slide title")
	renderCmd.Flags().StringVar(&renderAudience, "audience", "", "observation audience")
	_ = renderCmd.MarkFlagRequired("data")
	_ = renderCmd.MarkFlagRequired("analytics-type")
	_ = renderCmd.MarkFlagRequired("narrative")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := buildLogger(config)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	points, err := dataset.Load(renderData)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", renderData, err)
	}

	p, registry, themes, err := buildPipeline(config, logger)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()
	defer func() { _ = themes.Close() }()

	req := &types.AnalyticsRequest{
		PresentationID: "offline",
		SlideID:        "slide_1",
		SlideNumber:    1,
		Narrative:      renderNarrative,
		Data:           types.DataPayload{Points: points},
		AnalyticsType:  types.AnalyticsType(renderAnalyticsType),
		Layout:         types.Layout(renderLayout),
		Context: &types.RequestContext{
			Theme:      renderTheme,
			Audience:   renderAudience,
			SlideTitle: renderTitle,
		},
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), config.RequestTimeout())
	defer cancel()

	resp, serr := p.Process(ctx, req)
	if serr != nil {
		return fmt.Errorf("%s: %s", serr.Code, serr.Message)
	}

	page := renderPage(resp)
	if err := os.WriteFile(renderOut, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOut, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s, %d data points, insight: %s)\n",
		renderOut, resp.Metadata.ChartType, resp.Metadata.Layout,
		resp.Metadata.DataPoints, resp.Metadata.InsightSource)
	return nil
}

// renderPage wraps the slide content map in a minimal standalone page.
// Elements are emitted in their layout order; chart fragments are already
// self-contained HTML, text elements are already escaped.
func renderPage(resp *types.AnalyticsResponse) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	title := resp.Content[types.KeySlideTitle]
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n</head>\n<body>\n")

	if title != "" {
		b.WriteString("<h1>" + title + "</h1>\n")
	}
	if sub := resp.Content[types.KeyElement1]; sub != "" {
		b.WriteString("<h2>" + sub + "</h2>\n")
	}
	for _, key := range []string{
		types.KeyElement2, types.KeyElement3, types.KeyElement4, types.KeyElement5,
	} {
		if v := resp.Content[key]; v != "" {
			b.WriteString("<div>" + v + "</div>\n")
		}
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

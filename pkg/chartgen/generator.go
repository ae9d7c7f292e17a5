// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package chartgen renders shaped chart data into self-contained HTML
// fragments. A fragment is a fixed-size container, a mount element named by
// the chart id, and one IIFE-wrapped script that loads the rendering
// libraries, builds the chart, and registers the live instance under
// window.__easelCharts so the embedding document can address it later.
package chartgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teradata-labs/easel/pkg/catalog"
	"github.com/teradata-labs/easel/pkg/chartgen/editor"
	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// Fragment container defaults for the full-bleed chart layout.
const (
	DefaultWidth  = 1260
	DefaultHeight = 720

	containerPadding = 20
)

// Params configures one fragment render.
type Params struct {
	ChartID        string
	PresentationID string
	Theme          string
	Title          string
	Width          int
	Height         int

	// Constraints carries the caller's pass-through chart options. Only
	// whitelisted keys are honored, and the enforcement pass runs after the
	// merge, so constraints cannot strip legends, axes, or tooltips.
	Constraints map[string]interface{}

	// EditorEndpoint is the base URL the embedded editor persists to. Empty
	// disables the editor overlay.
	EditorEndpoint string
}

// Artifact is a rendered chart fragment.
type Artifact struct {
	ChartID   string
	HTML      string
	Library   types.Library
	ChartType types.ChartType
	Width     int
	Height    int
}

// Generator renders fragments using a theme resolver.
type Generator struct {
	themes *Themes
	logger *zap.Logger
}

// New creates a generator. Nil arguments fall back to built-in themes and a
// no-op logger.
func New(themes *Themes, logger *zap.Logger) *Generator {
	if themes == nil {
		themes = NewThemes(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{themes: themes, logger: logger}
}

// Generate renders the shaped data into a fragment. Emitter failures map to
// CHART_GENERATION_FAILED; there is no silent fallback to another chart type.
func (g *Generator) Generate(shaped *shaper.ShapedChartData, p Params) (*Artifact, *types.ServiceError) {
	if p.ChartID == "" {
		return nil, types.NewProcessingError(types.ErrChartGenerationFailed,
			"chart generation requires a chart id", "Retry the request")
	}
	width, height := p.Width, p.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	theme := g.themes.Get(p.Theme)
	library := catalog.LibraryFor(shaped.ChartType)

	var html string
	var err error
	if library == types.LibraryApexCharts {
		html, err = g.renderApex(shaped, p, theme, width, height)
	} else {
		html, err = g.renderChartJS(shaped, p, theme, width, height)
	}
	if err != nil {
		g.logger.Error("chart fragment emit failed",
			zap.String("chart_id", p.ChartID),
			zap.String("chart_type", string(shaped.ChartType)),
			zap.Error(err))
		return nil, types.NewProcessingError(types.ErrChartGenerationFailed,
			fmt.Sprintf("failed to generate %s chart: %v", shaped.ChartType, err),
			"Retry the request; if the failure persists, pick a different chart type")
	}

	g.logger.Debug("chart fragment generated",
		zap.String("chart_id", p.ChartID),
		zap.String("chart_type", string(shaped.ChartType)),
		zap.String("library", string(library)),
		zap.Int("bytes", len(html)))

	return &Artifact{
		ChartID:   p.ChartID,
		HTML:      html,
		Library:   library,
		ChartType: shaped.ChartType,
		Width:     width,
		Height:    height,
	}, nil
}

func (g *Generator) renderChartJS(shaped *shaper.ShapedChartData, p Params, theme Theme, width, height int) (string, error) {
	b, err := buildChartJS(shaped, theme)
	if err != nil {
		return "", err
	}

	applyConstraints(b.cfg.Options, p.Constraints)
	if p.Title != "" && (b.cfg.Options.Plugins.Title == nil || b.cfg.Options.Plugins.Title.Text == "") {
		b.cfg.Options.Plugins.Title = &titleOptions{
			Display: true,
			Text:    p.Title,
			Color:   theme.TextColor,
			Font:    &fontStyle{Family: theme.FontFamily, Size: theme.TitleSize, Weight: "600"},
		}
	}
	enforceInvariants(b.cfg, shaped.Family, theme, shaped.FormatHint)

	cfgJSON, err := json.Marshal(b.cfg)
	if err != nil {
		return "", fmt.Errorf("marshal chart config: %w", err)
	}

	hooks := append([]string{}, b.hooks...)
	hooks = append(hooks, formatHooks(shaped)...)

	editorOn := p.EditorEndpoint != "" && editor.Supports(shaped.Family)

	idJS := jsString(p.ChartID)
	var body strings.Builder
	body.WriteString(loaderJS)
	body.WriteString("\n")
	if editorOn {
		body.WriteString(editor.Script(editor.Params{
			ChartID:        p.ChartID,
			PresentationID: p.PresentationID,
			ChartType:      shaped.ChartType,
			Family:         shaped.Family,
			EndpointBase:   p.EditorEndpoint,
		}))
	}
	fmt.Fprintf(&body, "__easelEnsureAll(%s, function() {\n", jsStringArray(scriptsFor(shaped.ChartType)))
	fmt.Fprintf(&body, "  var cfg = %s;\n", cfgJSON)
	for _, h := range hooks {
		body.WriteString("  ")
		body.WriteString(h)
		body.WriteString("\n")
	}
	body.WriteString("  var finish = function() {\n")
	body.WriteString("    if (window.Chart && window.ChartDataLabels && !window.Chart.__easelDatalabels) { window.Chart.register(window.ChartDataLabels); window.Chart.__easelDatalabels = true; }\n")
	fmt.Fprintf(&body, "    var mount = document.getElementById(%s);\n", idJS)
	body.WriteString("    var chart = new Chart(mount.getContext('2d'), cfg);\n")
	body.WriteString("    window.__easelCharts = window.__easelCharts || {};\n")
	fmt.Fprintf(&body, "    window.__easelCharts[%s] = chart;\n", idJS)
	if editorOn {
		body.WriteString("    __easelEditorWire(chart);\n")
	}
	body.WriteString("  };\n")
	if editorOn {
		body.WriteString("  __easelEditorLoad(function(rows) { if (rows) { __easelApplyRows(cfg, rows); } finish(); });\n")
	} else {
		body.WriteString("  finish();\n")
	}
	body.WriteString("});")

	var editorMarkup string
	if editorOn {
		editorMarkup = editor.Markup(p.ChartID)
	}
	mount := fmt.Sprintf(`<canvas id="%s" style="width: 100%%; height: 100%%;"></canvas>`, p.ChartID)
	return wrapFragment(p.ChartID, width, height, mount, editorMarkup, body.String()), nil
}

func (g *Generator) renderApex(shaped *shaper.ShapedChartData, p Params, theme Theme, width, height int) (string, error) {
	cfg, err := buildApex(shaped, theme, height-2*containerPadding)
	if err != nil {
		return "", err
	}
	if p.Title != "" {
		cfg.Title = &apexTitle{
			Text: p.Title,
			Style: apexLabelStyle{
				Colors:     theme.TextColor,
				FontSize:   fmt.Sprintf("%dpx", theme.TitleSize),
				FontFamily: theme.FontFamily,
			},
		}
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal apexcharts config: %w", err)
	}

	idJS := jsString(p.ChartID)
	var body strings.Builder
	body.WriteString(loaderJS)
	body.WriteString("\n")
	fmt.Fprintf(&body, "__easelEnsureAll(%s, function() {\n", jsStringArray(scriptsFor(shaped.ChartType)))
	fmt.Fprintf(&body, "  var options = %s;\n", cfgJSON)
	fmt.Fprintf(&body, "  var mount = document.getElementById(%s);\n", idJS)
	body.WriteString("  var chart = new ApexCharts(mount, options);\n")
	body.WriteString("  chart.render();\n")
	body.WriteString("  window.__easelCharts = window.__easelCharts || {};\n")
	fmt.Fprintf(&body, "  window.__easelCharts[%s] = chart;\n", idJS)
	body.WriteString("});")

	mount := fmt.Sprintf(`<div id="%s" style="width: 100%%; height: 100%%;"></div>`, p.ChartID)
	return wrapFragment(p.ChartID, width, height, mount, "", body.String()), nil
}

// wrapFragment assembles the embeddable fragment: fixed-size container,
// mount element, optional editor overlay, one script. No <html> or <body>
// wrapper so the fragment can be injected into a host document verbatim.
func wrapFragment(chartID string, width, height int, mount, editorMarkup, script string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<div id="%s_container" style="position: relative; width: %dpx; height: %dpx; background: #ffffff; padding: %dpx; box-sizing: border-box;">`,
		chartID, width, height, containerPadding)
	b.WriteString("\n")
	b.WriteString(mount)
	b.WriteString("\n")
	if editorMarkup != "" {
		b.WriteString(editorMarkup)
		b.WriteString("\n")
	}
	b.WriteString("</div>\n")
	b.WriteString("<script>\n(function() {\n")
	b.WriteString(script)
	b.WriteString("\n})();\n</script>")
	return b.String()
}

// formatHooks attaches the numeric formatters: value-axis tick labels and
// datalabel text, both driven by the shaped format hint. The formatter body
// builds strings by concatenation so emitted values survive any host page's
// template processing.
func formatHooks(shaped *shaper.ShapedChartData) []string {
	var fmtFn string
	switch shaped.FormatHint {
	case types.FormatCurrency:
		fmtFn = `var __easelFmt = function(v) { return '$' + Number(v).toLocaleString(); };`
	case types.FormatPercentage:
		fmtFn = `var __easelFmt = function(v) { return Number(v).toLocaleString() + '%'; };`
	default:
		fmtFn = `var __easelFmt = function(v) { return Number(v).toLocaleString(); };`
	}
	hooks := []string{fmtFn}

	if axis := valueAxisFor(shaped.ChartType); axis != "" {
		hooks = append(hooks, fmt.Sprintf(
			`cfg.options.scales.%s.ticks.callback = function(value) { return __easelFmt(value); };`, axis))
	}

	if shaped.Family != shaper.FamilyPoints {
		hooks = append(hooks,
			`cfg.options.plugins.datalabels.formatter = function(value) {`+
				` if (value === null || value === undefined) { return ''; }`+
				` if (Object.prototype.toString.call(value) === '[object Array]') { return __easelFmt(value[1] - value[0]); }`+
				` if (typeof value === 'object') {`+
				` var n = value.v !== undefined ? value.v : (value.y !== undefined ? value.y : (value._data ? value._data.value : null));`+
				` return n === null ? '' : __easelFmt(n); }`+
				` return __easelFmt(value); };`)
	}
	return hooks
}

// valueAxisFor names the numeric axis that takes the tick formatter. Charts
// without a linear value axis return empty.
func valueAxisFor(ct types.ChartType) string {
	switch ct {
	case types.ChartTypePie, types.ChartTypeDoughnut, types.ChartTypePolarArea,
		types.ChartTypeHeatmap, types.ChartTypeTreemap, types.ChartTypeSankey:
		return ""
	case types.ChartTypeRadar:
		return "r"
	case types.ChartTypeBarHorizontal:
		return "x"
	}
	return "y"
}

func jsString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}

func jsStringArray(ss []string) string {
	data, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(data)
}

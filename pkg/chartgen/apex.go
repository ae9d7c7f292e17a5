// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"fmt"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// apexConfig is the ApexCharts option document for the two statistical chart
// types Chart.js has no first-party renderer for.
type apexConfig struct {
	Chart       apexChart       `json:"chart"`
	Series      []apexSeries    `json:"series"`
	PlotOptions apexPlotOptions `json:"plotOptions"`
	XAxis       apexAxis        `json:"xaxis"`
	YAxis       apexAxis        `json:"yaxis"`
	Grid        apexGrid        `json:"grid"`
	Legend      apexLegend      `json:"legend"`
	Tooltip     apexTooltip     `json:"tooltip"`
	DataLabels  apexDataLabels  `json:"dataLabels"`
	Title       *apexTitle      `json:"title,omitempty"`
}

type apexChart struct {
	Type       string      `json:"type"`
	Height     int         `json:"height"`
	FontFamily string      `json:"fontFamily"`
	Toolbar    apexToolbar `json:"toolbar"`
	Background string      `json:"background"`
}

type apexToolbar struct {
	Show bool `json:"show"`
}

type apexSeries struct {
	Name string          `json:"name"`
	Type string          `json:"type,omitempty"`
	Data []apexDataPoint `json:"data"`
}

type apexDataPoint struct {
	X string    `json:"x"`
	Y []float64 `json:"y"`
}

type apexPlotOptions struct {
	BoxPlot     *apexBoxPlotColors     `json:"boxPlot,omitempty"`
	Candlestick *apexCandlestickColors `json:"candlestick,omitempty"`
}

type apexBoxPlotColors struct {
	Colors apexUpperLower `json:"colors"`
}

type apexUpperLower struct {
	Upper string `json:"upper"`
	Lower string `json:"lower"`
}

type apexCandlestickColors struct {
	Colors apexUpDown `json:"colors"`
}

type apexUpDown struct {
	Upward   string `json:"upward"`
	Downward string `json:"downward"`
}

type apexAxis struct {
	Type   string          `json:"type,omitempty"`
	Labels apexAxisLabels  `json:"labels"`
	Title  *apexAxisCaption `json:"title,omitempty"`
}

type apexAxisLabels struct {
	Show  bool           `json:"show"`
	Style apexLabelStyle `json:"style"`
}

type apexLabelStyle struct {
	Colors     string `json:"colors,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
}

type apexAxisCaption struct {
	Text  string         `json:"text"`
	Style apexLabelStyle `json:"style"`
}

type apexGrid struct {
	Show        bool   `json:"show"`
	BorderColor string `json:"borderColor"`
}

type apexLegend struct {
	Show       bool   `json:"show"`
	FontFamily string `json:"fontFamily,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
}

type apexTooltip struct {
	Enabled bool `json:"enabled"`
}

type apexDataLabels struct {
	Enabled bool `json:"enabled"`
}

type apexTitle struct {
	Text  string         `json:"text"`
	Style apexLabelStyle `json:"style"`
}

// buildApex compiles the ApexCharts options for boxplot and candlestick
// payloads. Height matches the fragment canvas area; width is fluid inside
// the fixed container.
func buildApex(shaped *shaper.ShapedChartData, theme Theme, height int) (*apexConfig, error) {
	switch shaped.ChartType {
	case types.ChartTypeBoxplot:
		return buildBoxplot(shaped, theme, height), nil
	case types.ChartTypeCandlestick:
		return buildCandlestick(shaped, theme, height), nil
	}
	return nil, fmt.Errorf("no apexcharts emitter for chart type %s", shaped.ChartType)
}

func apexBase(chartType string, theme Theme, height int, hint types.FormatHint) *apexConfig {
	style := apexLabelStyle{
		Colors:     theme.MutedColor,
		FontSize:   fmt.Sprintf("%dpx", theme.LabelSize),
		FontFamily: theme.FontFamily,
	}
	return &apexConfig{
		Chart: apexChart{
			Type:       chartType,
			Height:     height,
			FontFamily: theme.FontFamily,
			Toolbar:    apexToolbar{Show: false},
			Background: "#ffffff",
		},
		XAxis: apexAxis{
			Type:   "category",
			Labels: apexAxisLabels{Show: true, Style: style},
		},
		YAxis: apexAxis{
			Labels: apexAxisLabels{Show: true, Style: style},
			Title: &apexAxisCaption{
				Text:  axisTitle(hint),
				Style: apexLabelStyle{Colors: theme.MutedColor, FontFamily: theme.FontFamily},
			},
		},
		Grid:       apexGrid{Show: true, BorderColor: theme.GridColor},
		Legend:     apexLegend{Show: true, FontFamily: theme.FontFamily, FontSize: fmt.Sprintf("%dpx", theme.LabelSize)},
		Tooltip:    apexTooltip{Enabled: true},
		DataLabels: apexDataLabels{Enabled: false},
	}
}

func buildBoxplot(shaped *shaper.ShapedChartData, theme Theme, height int) *apexConfig {
	b := shaped.Boxplot
	cfg := apexBase("boxPlot", theme, height, shaped.FormatHint)
	cfg.PlotOptions.BoxPlot = &apexBoxPlotColors{
		Colors: apexUpperLower{
			Upper: theme.Color(0),
			Lower: AlphaFill(theme.Color(0), 0.45),
		},
	}
	for _, ds := range b.Datasets {
		s := apexSeries{Name: ds.Label, Type: "boxPlot"}
		for i, row := range ds.Data {
			s.Data = append(s.Data, apexDataPoint{X: labelOrIndex(b.Labels, i), Y: row})
		}
		cfg.Series = append(cfg.Series, s)
	}
	return cfg
}

func buildCandlestick(shaped *shaper.ShapedChartData, theme Theme, height int) *apexConfig {
	o := shaped.OHLC
	cfg := apexBase("candlestick", theme, height, shaped.FormatHint)
	cfg.PlotOptions.Candlestick = &apexCandlestickColors{
		Colors: apexUpDown{Upward: "#16a34a", Downward: "#dc2626"},
	}
	for _, ds := range o.Datasets {
		s := apexSeries{Name: ds.Label}
		for i, bar := range ds.Data {
			s.Data = append(s.Data, apexDataPoint{
				X: labelOrIndex(o.Labels, i),
				Y: []float64{bar.O, bar.H, bar.L, bar.C},
			})
		}
		cfg.Series = append(cfg.Series, s)
	}
	return cfg
}

func labelOrIndex(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

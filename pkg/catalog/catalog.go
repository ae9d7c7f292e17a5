// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package catalog holds the immutable chart-type registry: one spec per
// supported chart type describing its rendering library, layout support,
// point bounds, and data requirements. The registry is built once at process
// start and never mutated; all queries are pure projections.
package catalog

import (
	"github.com/teradata-labs/easel/pkg/types"
)

// DataRequirements describes the payload shape a chart type consumes, in the
// caller-facing vocabulary used by the discovery endpoints.
type DataRequirements struct {
	Fields          []string `json:"fields"`
	ValidationRules []string `json:"validation_rules"`
}

// Spec is one immutable catalog entry.
type Spec struct {
	ID               types.ChartType  `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Library          types.Library    `json:"library"`
	SupportedLayouts []types.Layout   `json:"supported_layouts"`
	MinPoints        int              `json:"min_points"`
	MaxPoints        int              `json:"max_points"`
	OptimalRange     string           `json:"optimal_range_description"`
	UseCases         []string         `json:"use_cases"`
	DataRequirements DataRequirements `json:"data_requirements"`
}

// SupportsLayout reports whether the spec can render into the given layout.
func (s *Spec) SupportsLayout(layout types.Layout) bool {
	for _, l := range s.SupportedLayouts {
		if l == layout {
			return true
		}
	}
	return false
}

var (
	allLayouts = []types.Layout{types.LayoutL01, types.LayoutL02, types.LayoutL03}
	l02Only    = []types.Layout{types.LayoutL02}
)

var singleSeriesReqs = DataRequirements{
	Fields: []string{"label", "value"},
	ValidationRules: []string{
		"labels must be unique and at most 100 characters",
		"values must be finite numbers",
	},
}

// registry is ordered; discovery endpoints list entries in this order.
var registry = []Spec{
	{
		ID: types.ChartTypeLine, Name: "Line Chart", Library: types.LibraryChartJS,
		Description:      "Continuous trend over an ordered dimension such as time",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "4-12 points read best; beyond 24 consider aggregating",
		UseCases:         []string{"revenue over time", "monthly active users", "cost trend"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeArea, Name: "Area Chart", Library: types.LibraryChartJS,
		Description:      "Line chart with the region under the curve filled to emphasize magnitude",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "4-12 points",
		UseCases:         []string{"cumulative volume", "traffic over time"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeAreaStacked, Name: "Stacked Area Chart", Library: types.LibraryChartJS,
		Description:      "Part-to-whole composition evolving over an ordered dimension",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "4-12 labels, 2-5 series",
		UseCases:         []string{"revenue mix over time", "stacked capacity"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "series"},
			ValidationRules: []string{
				"every series must have exactly one value per label",
			},
		},
	},
	{
		ID: types.ChartTypeBarVertical, Name: "Vertical Bar Chart", Library: types.LibraryChartJS,
		Description:      "Discrete comparison across categories",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "3-12 categories",
		UseCases:         []string{"quarterly comparison", "year-over-year growth", "regional totals"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeBarHorizontal, Name: "Horizontal Bar Chart", Library: types.LibraryChartJS,
		Description:      "Ranked categories with long labels reading left to right",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "3-15 categories",
		UseCases:         []string{"category ranking", "top performers"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeBarGrouped, Name: "Grouped Bar Chart", Library: types.LibraryChartJS,
		Description:      "Side-by-side comparison of two or more series per category",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "3-8 categories, 2-4 series",
		UseCases:         []string{"plan vs actual", "region by quarter"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "series"},
			ValidationRules: []string{
				"every series must have exactly one value per label",
			},
		},
	},
	{
		ID: types.ChartTypeBarStacked, Name: "Stacked Bar Chart", Library: types.LibraryChartJS,
		Description:      "Part-to-whole composition per category",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "3-10 categories, 2-5 series",
		UseCases:         []string{"cost breakdown per unit", "channel mix"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "series"},
			ValidationRules: []string{
				"every series must have exactly one value per label",
			},
		},
	},
	{
		ID: types.ChartTypePie, Name: "Pie Chart", Library: types.LibraryChartJS,
		Description:      "Share of a whole across a small number of slices",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 10,
		OptimalRange:     "3-6 slices; more than 8 becomes unreadable",
		UseCases:         []string{"market share", "budget allocation"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeDoughnut, Name: "Doughnut Chart", Library: types.LibraryChartJS,
		Description:      "Pie variant with a hollow center for KPI callouts",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 10,
		OptimalRange:     "3-6 slices",
		UseCases:         []string{"kpi summary", "completion status"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeScatter, Name: "Scatter Plot", Library: types.LibraryChartJS,
		Description:      "Correlation between paired observations; x is the label ordinal",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "5-50 points",
		UseCases:         []string{"correlation analysis", "outlier spotting"},
		DataRequirements: DataRequirements{
			Fields: []string{"label", "value"},
			ValidationRules: []string{
				"labels are preserved on each point for tooltips",
			},
		},
	},
	{
		ID: types.ChartTypeBubble, Name: "Bubble Chart", Library: types.LibraryChartJS,
		Description:      "Three-dimensional comparison: position plus proportional bubble size",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 30,
		OptimalRange:     "3-15 bubbles",
		UseCases:         []string{"multidimensional analysis", "portfolio sizing"},
		DataRequirements: DataRequirements{
			Fields: []string{"label", "value"},
			ValidationRules: []string{
				"bubble radii are scaled into 8-40 px from the value range",
			},
		},
	},
	{
		ID: types.ChartTypeRadar, Name: "Radar Chart", Library: types.LibraryChartJS,
		Description:      "Multi-metric profile on radial axes",
		SupportedLayouts: allLayouts, MinPoints: 3, MaxPoints: 12,
		OptimalRange:     "4-8 metrics",
		UseCases:         []string{"multi metric comparison", "capability assessment"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypePolarArea, Name: "Polar Area Chart", Library: types.LibraryChartJS,
		Description:      "Radial slices with area encoding magnitude",
		SupportedLayouts: allLayouts, MinPoints: 3, MaxPoints: 12,
		OptimalRange:     "4-8 slices",
		UseCases:         []string{"cyclical comparison", "category emphasis"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeWaterfall, Name: "Waterfall Chart", Library: types.LibraryChartJS,
		Description:      "Running total with positive and negative contributions as floating bars",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 20,
		OptimalRange:     "4-12 steps",
		UseCases:         []string{"bridge from plan to actual", "profit decomposition"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeMixed, Name: "Mixed Chart", Library: types.LibraryChartJS,
		Description:      "Bars and lines sharing one category axis",
		SupportedLayouts: allLayouts, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "4-12 labels, 2-3 series",
		UseCases:         []string{"volume with trend overlay"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "series"},
			ValidationRules: []string{
				"series may set type to bar or line; default alternates",
			},
		},
	},
	{
		ID: types.ChartTypeTreemap, Name: "Treemap", Library: types.LibraryChartJS,
		Description:      "Nested rectangles sized by value for dense part-to-whole views",
		SupportedLayouts: l02Only, MinPoints: 2, MaxPoints: 30,
		OptimalRange:     "5-20 tiles",
		UseCases:         []string{"portfolio composition", "disk usage style breakdowns"},
		DataRequirements: singleSeriesReqs,
	},
	{
		ID: types.ChartTypeHeatmap, Name: "Heatmap", Library: types.LibraryChartJS,
		Description:      "Matrix of values encoded by cell color",
		SupportedLayouts: l02Only, MinPoints: 4, MaxPoints: 50,
		OptimalRange:     "grids up to roughly 10x10",
		UseCases:         []string{"activity by weekday and hour", "correlation grids"},
		DataRequirements: DataRequirements{
			Fields: []string{"x_labels", "y_labels", "values"},
			ValidationRules: []string{
				"values must be a dense grid matching x_labels by y_labels",
			},
		},
	},
	{
		ID: types.ChartTypeBoxplot, Name: "Box Plot", Library: types.LibraryApexCharts,
		Description:      "Five-number distribution summary per category",
		SupportedLayouts: l02Only, MinPoints: 2, MaxPoints: 20,
		OptimalRange:     "2-10 categories",
		UseCases:         []string{"latency distributions", "score spread by cohort"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "rows"},
			ValidationRules: []string{
				"each row is [min, q1, median, q3, max] in non-decreasing order",
			},
		},
	},
	{
		ID: types.ChartTypeCandlestick, Name: "Candlestick Chart", Library: types.LibraryApexCharts,
		Description:      "Open-high-low-close bars over an ordered dimension",
		SupportedLayouts: l02Only, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "10-40 bars",
		UseCases:         []string{"price history", "metric ranges per period"},
		DataRequirements: DataRequirements{
			Fields: []string{"labels", "bars"},
			ValidationRules: []string{
				"each bar satisfies low <= min(open,close) <= max(open,close) <= high",
			},
		},
	},
	{
		ID: types.ChartTypeSankey, Name: "Sankey Diagram", Library: types.LibraryChartJS,
		Description:      "Weighted flows between declared nodes",
		SupportedLayouts: l02Only, MinPoints: 2, MaxPoints: 50,
		OptimalRange:     "3-20 links",
		UseCases:         []string{"funnel flows", "budget movement"},
		DataRequirements: DataRequirements{
			Fields: []string{"nodes", "links"},
			ValidationRules: []string{
				"every link source and target must reference a declared node id",
			},
		},
	},
}

var byID = func() map[types.ChartType]*Spec {
	m := make(map[types.ChartType]*Spec, len(registry))
	for i := range registry {
		m[registry[i].ID] = &registry[i]
	}
	return m
}()

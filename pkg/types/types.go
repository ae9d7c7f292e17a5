// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package types contains the shared request, response, and error types used
// across the easel service. This package breaks import cycles by providing
// the common vocabulary that the validator, resolver, shaper, generator, and
// HTTP layer all depend on.
package types

import (
	"time"
)

// ============================================================================
// Enumerations
// ============================================================================

// Layout identifies a slide composition template. Each layout consumes one
// or two charts plus text panels at fixed pixel dimensions.
type Layout string

const (
	// LayoutL01 is a single chart (element_4) with an insight text panel (element_3).
	LayoutL01 Layout = "L01"

	// LayoutL02 is a single large chart (element_3) with an observations panel (element_2).
	LayoutL02 Layout = "L02"

	// LayoutL03 is two charts (element_4, element_2) with two short descriptions (element_3, element_5).
	LayoutL03 Layout = "L03"
)

// Layouts returns the closed set of supported layouts.
func Layouts() []Layout {
	return []Layout{LayoutL01, LayoutL02, LayoutL03}
}

// Valid reports whether the layout is one of the supported templates.
func (l Layout) Valid() bool {
	switch l {
	case LayoutL01, LayoutL02, LayoutL03:
		return true
	}
	return false
}

// AnalyticsType is the caller-facing semantic label naming the business
// question a slide answers. The set is closed; unknown values are rejected
// during validation.
type AnalyticsType string

const (
	AnalyticsRevenueOverTime          AnalyticsType = "revenue_over_time"
	AnalyticsQuarterlyComparison      AnalyticsType = "quarterly_comparison"
	AnalyticsMarketShare              AnalyticsType = "market_share"
	AnalyticsYoYGrowth                AnalyticsType = "yoy_growth"
	AnalyticsKPIMetrics               AnalyticsType = "kpi_metrics"
	AnalyticsCategoryRanking          AnalyticsType = "category_ranking"
	AnalyticsCorrelationAnalysis      AnalyticsType = "correlation_analysis"
	AnalyticsMultidimensionalAnalysis AnalyticsType = "multidimensional_analysis"
	AnalyticsMultiMetricComparison    AnalyticsType = "multi_metric_comparison"
)

// AnalyticsTypes returns the closed set of analytics types in a stable order.
func AnalyticsTypes() []AnalyticsType {
	return []AnalyticsType{
		AnalyticsRevenueOverTime,
		AnalyticsQuarterlyComparison,
		AnalyticsMarketShare,
		AnalyticsYoYGrowth,
		AnalyticsKPIMetrics,
		AnalyticsCategoryRanking,
		AnalyticsCorrelationAnalysis,
		AnalyticsMultidimensionalAnalysis,
		AnalyticsMultiMetricComparison,
	}
}

// Valid reports whether the analytics type is in the closed set.
func (a AnalyticsType) Valid() bool {
	for _, t := range AnalyticsTypes() {
		if a == t {
			return true
		}
	}
	return false
}

// ChartType identifies the visual form a chart takes. The set is closed:
// fifteen Chart.js-native forms plus five plugin-backed forms.
type ChartType string

const (
	ChartTypeLine          ChartType = "line"
	ChartTypeArea          ChartType = "area"
	ChartTypeAreaStacked   ChartType = "area_stacked"
	ChartTypeBarVertical   ChartType = "bar_vertical"
	ChartTypeBarHorizontal ChartType = "bar_horizontal"
	ChartTypeBarGrouped    ChartType = "bar_grouped"
	ChartTypeBarStacked    ChartType = "bar_stacked"
	ChartTypePie           ChartType = "pie"
	ChartTypeDoughnut      ChartType = "doughnut"
	ChartTypeScatter       ChartType = "scatter"
	ChartTypeBubble        ChartType = "bubble"
	ChartTypeRadar         ChartType = "radar"
	ChartTypePolarArea     ChartType = "polar_area"
	ChartTypeWaterfall     ChartType = "waterfall"
	ChartTypeMixed         ChartType = "mixed"
	ChartTypeTreemap       ChartType = "treemap"
	ChartTypeHeatmap       ChartType = "heatmap"
	ChartTypeBoxplot       ChartType = "boxplot"
	ChartTypeCandlestick   ChartType = "candlestick"
	ChartTypeSankey        ChartType = "sankey"
)

// ChartTypes returns the closed set of chart types in a stable order.
func ChartTypes() []ChartType {
	return []ChartType{
		ChartTypeLine, ChartTypeArea, ChartTypeAreaStacked,
		ChartTypeBarVertical, ChartTypeBarHorizontal, ChartTypeBarGrouped, ChartTypeBarStacked,
		ChartTypePie, ChartTypeDoughnut,
		ChartTypeScatter, ChartTypeBubble,
		ChartTypeRadar, ChartTypePolarArea,
		ChartTypeWaterfall, ChartTypeMixed,
		ChartTypeTreemap, ChartTypeHeatmap, ChartTypeBoxplot, ChartTypeCandlestick, ChartTypeSankey,
	}
}

// NormalizeChartType maps a caller-supplied chart type string, including the
// historical aliases "matrix" and "financial", onto the canonical enum.
// The second return is false when the string names no known chart type.
func NormalizeChartType(s string) (ChartType, bool) {
	switch s {
	case "matrix":
		return ChartTypeHeatmap, true
	case "financial":
		return ChartTypeCandlestick, true
	}
	ct := ChartType(s)
	for _, t := range ChartTypes() {
		if ct == t {
			return ct, true
		}
	}
	return "", false
}

// Valid reports whether the chart type is in the closed set (aliases excluded).
func (c ChartType) Valid() bool {
	for _, t := range ChartTypes() {
		if c == t {
			return true
		}
	}
	return false
}

// Library identifies the client-side charting library a fragment targets.
type Library string

const (
	LibraryChartJS    Library = "chartjs"
	LibraryApexCharts Library = "apexcharts"
)

// FormatHint tells emitters and the insight generator how values should be
// presented: as money, as percentages, or as plain numbers.
type FormatHint string

const (
	FormatCurrency   FormatHint = "currency"
	FormatPercentage FormatHint = "percentage"
	FormatNumber     FormatHint = "number"
)

// ============================================================================
// Request types
// ============================================================================

// ChartDataPoint is one labeled value in the caller's dataset. Labels are
// compared verbatim; a request must not contain two points with the same label.
type ChartDataPoint struct {
	// Label is a non-empty trimmed string of at most 100 characters.
	Label string `json:"label"`

	// Value must be a finite number (NaN and ±Inf are rejected).
	Value float64 `json:"value"`
}

// RequestContext carries presentation-level context the caller may provide.
// All fields are optional.
type RequestContext struct {
	Theme            string `json:"theme,omitempty"`
	Audience         string `json:"audience,omitempty"`
	SlideTitle       string `json:"slide_title,omitempty"`
	Subtitle         string `json:"subtitle,omitempty"`
	PresentationName string `json:"presentation_name,omitempty"`
}

// AnalyticsRequest is the body of POST /api/v1/analytics/{layout}/{analytics_type}.
// AnalyticsType and Layout are taken from the URL for single-slide requests
// and from the body for batch slides.
type AnalyticsRequest struct {
	PresentationID string          `json:"presentation_id"`
	SlideID        string          `json:"slide_id"`
	SlideNumber    int             `json:"slide_number"`
	Narrative      string          `json:"narrative"`
	Data           DataPayload     `json:"data"`
	Context        *RequestContext `json:"context,omitempty"`

	// Constraints is an opaque map passed through to the chart generator;
	// constraints that would hide legends, axes, or tooltips are overridden
	// by the generator's enforcement pass.
	Constraints map[string]interface{} `json:"constraints,omitempty"`

	// ChartType, when present and valid, overrides the analytics-type
	// resolution (historical behavior).
	ChartType string `json:"chart_type,omitempty"`

	AnalyticsType AnalyticsType `json:"analytics_type"`
	Layout        Layout        `json:"layout"`
}

// BatchRequest is the body of POST /api/v1/analytics/batch. Each slide is a
// complete per-slide request; PresentationID on the envelope is authoritative
// and copied onto slides that omit it.
type BatchRequest struct {
	PresentationID string             `json:"presentation_id"`
	Slides         []AnalyticsRequest `json:"slides"`
}

// ============================================================================
// Response types
// ============================================================================

// Element keys recognized by the downstream layout builder. A response
// contains exactly the keys its layout requires, never foreign keys.
const (
	KeySlideTitle       = "slide_title"
	KeyElement1         = "element_1"
	KeyElement2         = "element_2"
	KeyElement3         = "element_3"
	KeyElement4         = "element_4"
	KeyElement5         = "element_5"
	KeyPresentationName = "presentation_name"
	KeyCompanyLogo      = "company_logo"
)

// SlideContent maps element keys to their rendered content. Chart elements
// hold self-contained HTML fragments; text elements hold escaped plain text
// or the observations panel HTML.
type SlideContent map[string]string

// InsightSource records whether observation text came from the LLM or the
// deterministic fallback.
type InsightSource string

const (
	InsightSourceLLM      InsightSource = "llm"
	InsightSourceFallback InsightSource = "fallback"
)

// Metadata describes how a slide response was produced.
type Metadata struct {
	Service          string        `json:"service"`
	Version          string        `json:"version"`
	Library          Library       `json:"library"`
	Layout           Layout        `json:"layout"`
	ChartType        ChartType     `json:"chart_type"`
	DataPoints       int           `json:"data_points"`
	GenerationTimeMS int64         `json:"generation_time_ms"`
	Theme            string        `json:"theme"`
	GeneratedAt      time.Time     `json:"generated_at"`
	AnalyticsType    AnalyticsType `json:"analytics_type"`
	InsightSource    InsightSource `json:"insight_source"`
}

// AnalyticsResponse is the success body for a single slide.
type AnalyticsResponse struct {
	Content  SlideContent `json:"content"`
	Metadata Metadata     `json:"metadata"`
}

// BatchSlideResult is the per-slide outcome inside a batch response. A failed
// slide carries its error envelope inline and does not fail the batch.
type BatchSlideResult struct {
	Success  bool          `json:"success"`
	SlideID  string        `json:"slide_id"`
	Content  SlideContent  `json:"content,omitempty"`
	Metadata *Metadata     `json:"metadata,omitempty"`
	Error    *ServiceError `json:"error,omitempty"`
}

// BatchResponse is the body of a batch request's reply.
type BatchResponse struct {
	PresentationID string             `json:"presentation_id"`
	Slides         []BatchSlideResult `json:"slides"`
	Total          int                `json:"total"`
	Successful     int                `json:"successful"`
}

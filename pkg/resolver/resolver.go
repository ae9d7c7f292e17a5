// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package resolver maps the caller's analytics intent onto a concrete chart
// type. Resolution precedence: an explicit, valid chart_type always wins;
// otherwise the canonical analytics-type table decides; narrative keyword
// inference is the fallback for requests that carry neither, with
// bar_vertical as the logged last resort.
package resolver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teradata-labs/easel/pkg/catalog"
	"github.com/teradata-labs/easel/pkg/types"
)

// Source records which rule produced a resolution.
type Source string

const (
	SourceExplicit  Source = "explicit"
	SourceAnalytics Source = "analytics_type"
	SourceInference Source = "narrative_inference"
	SourceDefault   Source = "default"
)

// Resolution is the outcome of resolving a request's chart type.
type Resolution struct {
	ChartType types.ChartType
	Source    Source
	Rationale string
}

// canonical is the authoritative analytics-type → chart-type mapping.
var canonical = map[types.AnalyticsType]types.ChartType{
	types.AnalyticsRevenueOverTime:          types.ChartTypeLine,
	types.AnalyticsQuarterlyComparison:      types.ChartTypeBarVertical,
	types.AnalyticsMarketShare:              types.ChartTypePie,
	types.AnalyticsYoYGrowth:                types.ChartTypeBarVertical,
	types.AnalyticsKPIMetrics:               types.ChartTypeDoughnut,
	types.AnalyticsCategoryRanking:          types.ChartTypeBarHorizontal,
	types.AnalyticsCorrelationAnalysis:      types.ChartTypeScatter,
	types.AnalyticsMultidimensionalAnalysis: types.ChartTypeBubble,
	types.AnalyticsMultiMetricComparison:    types.ChartTypeRadar,
}

// keywordRule is one row of the narrative inference table. Rules are scanned
// in order; the first rule with a matching keyword decides.
type keywordRule struct {
	chartType types.ChartType
	keywords  []string
}

// inferenceTable is scanned top to bottom against the lowercased narrative.
var inferenceTable = []keywordRule{
	{types.ChartTypeLine, []string{"over time", "trend", "trajectory", "timeline", "month by month", "growth"}},
	{types.ChartTypePie, []string{"share", "proportion", "composition", "split", "% of"}},
	{types.ChartTypeScatter, []string{"correlat", "relationship between", "scatter"}},
	{types.ChartTypeBarHorizontal, []string{"rank", "top perform", "leaderboard"}},
	{types.ChartTypeBoxplot, []string{"distribution", "spread", "quartile"}},
	{types.ChartTypeSankey, []string{"flow", "funnel"}},
	{types.ChartTypeDoughnut, []string{"kpi", "key metric"}},
	{types.ChartTypeBarVertical, []string{"compare", "comparison", "versus", " vs "}},
}

// Resolver decides the chart type for a request.
type Resolver struct {
	logger *zap.Logger
}

// New creates a resolver. A nil logger falls back to a no-op logger.
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve picks the chart type for req. The request must already be
// validated; Resolve additionally enforces chart-type/layout compatibility
// for explicit chart types and returns INVALID_CHART_TYPE when violated.
func (r *Resolver) Resolve(req *types.AnalyticsRequest) (Resolution, *types.ServiceError) {
	if req.ChartType != "" {
		return r.resolveExplicit(req)
	}

	if ct, ok := canonical[req.AnalyticsType]; ok {
		return Resolution{
			ChartType: ct,
			Source:    SourceAnalytics,
			Rationale: fmt.Sprintf("canonical mapping for %s", req.AnalyticsType),
		}, nil
	}

	return r.infer(req), nil
}

func (r *Resolver) resolveExplicit(req *types.AnalyticsRequest) (Resolution, *types.ServiceError) {
	ct, known := types.NormalizeChartType(req.ChartType)
	if !known {
		return Resolution{}, invalidChartType(req.ChartType, req.Layout)
	}
	if !catalog.SupportsLayout(ct, req.Layout) {
		return Resolution{}, invalidChartType(req.ChartType, req.Layout)
	}

	if expected, ok := canonical[req.AnalyticsType]; ok && expected != ct {
		r.logger.Debug("explicit chart_type overrides analytics mapping",
			zap.String("analytics_type", string(req.AnalyticsType)),
			zap.String("canonical", string(expected)),
			zap.String("explicit", string(ct)))
	}

	return Resolution{
		ChartType: ct,
		Source:    SourceExplicit,
		Rationale: "caller-supplied chart_type",
	}, nil
}

// infer scans the narrative against the keyword table. Inference never
// fails: when nothing matches, or the match cannot render into the layout,
// the result degrades to bar_vertical with a warning.
func (r *Resolver) infer(req *types.AnalyticsRequest) Resolution {
	narrative := strings.ToLower(req.Narrative)

	for _, rule := range inferenceTable {
		for _, kw := range rule.keywords {
			if !strings.Contains(narrative, kw) {
				continue
			}
			if !catalog.SupportsLayout(rule.chartType, req.Layout) {
				r.logger.Warn("inferred chart type incompatible with layout, defaulting to bar_vertical",
					zap.String("inferred", string(rule.chartType)),
					zap.String("layout", string(req.Layout)),
					zap.String("keyword", kw))
				return Resolution{
					ChartType: types.ChartTypeBarVertical,
					Source:    SourceDefault,
					Rationale: fmt.Sprintf("inferred %s does not support layout %s", rule.chartType, req.Layout),
				}
			}
			return Resolution{
				ChartType: rule.chartType,
				Source:    SourceInference,
				Rationale: fmt.Sprintf("narrative keyword %q", kw),
			}
		}
	}

	r.logger.Warn("no chart type could be resolved, defaulting to bar_vertical",
		zap.String("slide_id", req.SlideID),
		zap.String("analytics_type", string(req.AnalyticsType)))
	return Resolution{
		ChartType: types.ChartTypeBarVertical,
		Source:    SourceDefault,
		Rationale: "no analytics mapping and no narrative keyword matched",
	}
}

func invalidChartType(requested string, layout types.Layout) *types.ServiceError {
	return types.NewValidationError(types.ErrInvalidChartType, "chart_type",
		fmt.Sprintf("chart type %q is not available for layout %s", requested, layout),
		"Pick a chart type from details.compatible or omit chart_type to use the analytics default").
		WithDetails(map[string]interface{}{
			"compatible": catalog.IDsForLayout(layout),
		})
}

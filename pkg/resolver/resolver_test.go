// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teradata-labs/easel/pkg/types"
)

// The canonical mapping is an external contract: every analytics type must
// resolve exactly as documented.
func TestCanonicalMapping(t *testing.T) {
	tests := []struct {
		analyticsType types.AnalyticsType
		want          types.ChartType
	}{
		{types.AnalyticsRevenueOverTime, types.ChartTypeLine},
		{types.AnalyticsQuarterlyComparison, types.ChartTypeBarVertical},
		{types.AnalyticsMarketShare, types.ChartTypePie},
		{types.AnalyticsYoYGrowth, types.ChartTypeBarVertical},
		{types.AnalyticsKPIMetrics, types.ChartTypeDoughnut},
		{types.AnalyticsCategoryRanking, types.ChartTypeBarHorizontal},
		{types.AnalyticsCorrelationAnalysis, types.ChartTypeScatter},
		{types.AnalyticsMultidimensionalAnalysis, types.ChartTypeBubble},
		{types.AnalyticsMultiMetricComparison, types.ChartTypeRadar},
	}

	r := New(zap.NewNop())
	for _, tt := range tests {
		t.Run(string(tt.analyticsType), func(t *testing.T) {
			res, serr := r.Resolve(&types.AnalyticsRequest{
				AnalyticsType: tt.analyticsType,
				Layout:        types.LayoutL02,
				Narrative:     "narrative without keywords",
			})
			require.Nil(t, serr)
			assert.Equal(t, tt.want, res.ChartType)
			assert.Equal(t, SourceAnalytics, res.Source)
		})
	}
}

// The mapping test above and this length check together guarantee the table
// covers the closed analytics set with no stragglers.
func TestCanonicalTableTotal(t *testing.T) {
	assert.Len(t, canonical, len(types.AnalyticsTypes()))
	for _, at := range types.AnalyticsTypes() {
		_, ok := canonical[at]
		assert.True(t, ok, "analytics type %s missing from canonical table", at)
	}
}

func TestExplicitChartTypeWins(t *testing.T) {
	r := New(zap.NewNop())
	res, serr := r.Resolve(&types.AnalyticsRequest{
		AnalyticsType: types.AnalyticsRevenueOverTime,
		ChartType:     "area",
		Layout:        types.LayoutL02,
	})
	require.Nil(t, serr)
	assert.Equal(t, types.ChartTypeArea, res.ChartType)
	assert.Equal(t, SourceExplicit, res.Source)
}

func TestExplicitAliasNormalized(t *testing.T) {
	r := New(zap.NewNop())
	res, serr := r.Resolve(&types.AnalyticsRequest{
		AnalyticsType: types.AnalyticsKPIMetrics,
		ChartType:     "matrix",
		Layout:        types.LayoutL02,
	})
	require.Nil(t, serr)
	assert.Equal(t, types.ChartTypeHeatmap, res.ChartType)
}

func TestUnknownExplicitChartType(t *testing.T) {
	r := New(zap.NewNop())
	_, serr := r.Resolve(&types.AnalyticsRequest{
		AnalyticsType: types.AnalyticsRevenueOverTime,
		ChartType:     "sparkline",
		Layout:        types.LayoutL02,
	})
	require.NotNil(t, serr)
	assert.Equal(t, types.ErrInvalidChartType, serr.Code)

	compatible, ok := serr.Details["compatible"].([]string)
	require.True(t, ok)
	assert.Contains(t, compatible, "line")
}

func TestExplicitChartTypeLayoutIncompatible(t *testing.T) {
	// Plugin-backed types only render into L02's large canvas.
	r := New(zap.NewNop())
	_, serr := r.Resolve(&types.AnalyticsRequest{
		AnalyticsType: types.AnalyticsKPIMetrics,
		ChartType:     "sankey",
		Layout:        types.LayoutL01,
	})
	require.NotNil(t, serr)
	assert.Equal(t, types.ErrInvalidChartType, serr.Code)

	compatible := serr.Details["compatible"].([]string)
	assert.NotContains(t, compatible, "sankey")
}

func TestNarrativeInference(t *testing.T) {
	tests := []struct {
		name      string
		narrative string
		want      types.ChartType
	}{
		{"trend keyword", "Sales showed a clear upward trend across quarters.", types.ChartTypeLine},
		{"share keyword", "Regional share of total bookings by segment.", types.ChartTypePie},
		{"correlation keyword", "Strong correlation between spend and signups.", types.ChartTypeScatter},
		{"ranking keyword", "Ranked list of top performing branches.", types.ChartTypeBarHorizontal},
		{"comparison keyword", "Comparison of plan versus actuals.", types.ChartTypeBarVertical},
	}

	r := New(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, serr := r.Resolve(&types.AnalyticsRequest{
				Narrative: tt.narrative,
				Layout:    types.LayoutL02,
			})
			require.Nil(t, serr)
			assert.Equal(t, tt.want, res.ChartType)
			assert.Equal(t, SourceInference, res.Source)
		})
	}
}

func TestInferenceDefaultsToBarVertical(t *testing.T) {
	r := New(zap.NewNop())
	res, serr := r.Resolve(&types.AnalyticsRequest{
		Narrative: "An unremarkable paragraph about the business.",
		Layout:    types.LayoutL02,
	})
	require.Nil(t, serr)
	assert.Equal(t, types.ChartTypeBarVertical, res.ChartType)
	assert.Equal(t, SourceDefault, res.Source)
}

func TestInferenceRespectsLayout(t *testing.T) {
	// "distribution" infers boxplot, which cannot render into L01, so the
	// resolution must degrade to the default rather than fail.
	r := New(zap.NewNop())
	res, serr := r.Resolve(&types.AnalyticsRequest{
		Narrative: "Latency distribution by region.",
		Layout:    types.LayoutL01,
	})
	require.Nil(t, serr)
	assert.Equal(t, types.ChartTypeBarVertical, res.ChartType)
	assert.Equal(t, SourceDefault, res.Source)
}

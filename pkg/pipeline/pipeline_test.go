// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/easel/pkg/types"
)

func validRequest(l types.Layout) *types.AnalyticsRequest {
	return &types.AnalyticsRequest{
		PresentationID: "deck_001",
		SlideID:        "slide_07",
		SlideNumber:    7,
		Narrative:      "Quarterly revenue grew steadily through the year",
		AnalyticsType:  types.AnalyticsRevenueOverTime,
		Layout:         l,
		Data: types.DataPayload{Points: []types.ChartDataPoint{
			{Label: "Q1", Value: 97000},
			{Label: "Q2", Value: 112000},
			{Label: "Q3", Value: 137000},
			{Label: "Q4", Value: 152000},
		}},
		Context: &types.RequestContext{
			SlideTitle:       "Revenue by Quarter",
			PresentationName: "Board Review",
		},
	}
}

func TestProcessL02(t *testing.T) {
	p := New(Config{})
	resp, serr := p.Process(context.Background(), validRequest(types.LayoutL02))
	require.Nil(t, serr)

	assert.Contains(t, resp.Content[types.KeyElement3], "<canvas")
	assert.Contains(t, resp.Content[types.KeyElement2], "Key Observations")
	assert.Equal(t, "Revenue by Quarter", resp.Content[types.KeySlideTitle])

	md := resp.Metadata
	assert.Equal(t, "easel-analytics", md.Service)
	assert.Equal(t, types.ChartTypeLine, md.ChartType)
	assert.Equal(t, types.LibraryChartJS, md.Library)
	assert.Equal(t, 4, md.DataPoints)
	assert.Equal(t, types.InsightSourceFallback, md.InsightSource)
	assert.False(t, md.GeneratedAt.IsZero())
}

func TestProcessL01(t *testing.T) {
	p := New(Config{})
	resp, serr := p.Process(context.Background(), validRequest(types.LayoutL01))
	require.Nil(t, serr)

	assert.Contains(t, resp.Content[types.KeyElement4], "<canvas")
	assert.NotEmpty(t, resp.Content[types.KeyElement3])
	_, present := resp.Content[types.KeyElement2]
	assert.False(t, present)
}

func TestProcessL03RendersTwoCharts(t *testing.T) {
	p := New(Config{})
	resp, serr := p.Process(context.Background(), validRequest(types.LayoutL03))
	require.Nil(t, serr)

	left := resp.Content[types.KeyElement4]
	right := resp.Content[types.KeyElement2]
	assert.Contains(t, left, "<canvas")
	assert.Contains(t, right, "<canvas")
	assert.NotEqual(t, left, right)
	// the complementary chart renders as bars beside the primary line
	assert.Contains(t, right, `"type":"bar"`)
}

func TestProcessValidationFailureStopsPipeline(t *testing.T) {
	req := validRequest(types.LayoutL02)
	req.Narrative = ""
	_, serr := New(Config{}).Process(context.Background(), req)
	require.NotNil(t, serr)
	assert.Equal(t, types.ErrEmptyField, serr.Code)
}

func TestProcessUnknownAnalyticsType(t *testing.T) {
	req := validRequest(types.LayoutL02)
	req.AnalyticsType = "made_up"
	_, serr := New(Config{}).Process(context.Background(), req)
	require.NotNil(t, serr)
	assert.Equal(t, types.ErrInvalidAnalyticsType, serr.Code)
}

func TestChartIDDeterministic(t *testing.T) {
	a := ChartID("deck_001", "slide_07", 0)
	b := ChartID("deck_001", "slide_07", 0)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, ChartID("deck_001", "slide_07", 1))
	assert.NotEqual(t, a, ChartID("deck_001", "slide_08", 0))
	assert.NotEqual(t, a, ChartID("deck_002", "slide_07", 0))
}

func TestChartIDStableAcrossRetries(t *testing.T) {
	p := New(Config{})
	first, serr := p.Process(context.Background(), validRequest(types.LayoutL02))
	require.Nil(t, serr)
	second, serr := p.Process(context.Background(), validRequest(types.LayoutL02))
	require.Nil(t, serr)

	id := ChartID("deck_001", "slide_07", 0)
	assert.Contains(t, first.Content[types.KeyElement3], id)
	assert.Contains(t, second.Content[types.KeyElement3], id)
}

func TestComplementaryTypeStaysInFamily(t *testing.T) {
	tests := map[types.ChartType]types.ChartType{
		types.ChartTypeLine:        types.ChartTypeBarVertical,
		types.ChartTypePie:         types.ChartTypeBarHorizontal,
		types.ChartTypeRadar:       types.ChartTypeBarGrouped,
		types.ChartTypeScatter:     types.ChartTypeScatter,
		types.ChartTypeCandlestick: types.ChartTypeCandlestick,
	}
	for primary, want := range tests {
		assert.Equal(t, want, complementaryType(primary), string(primary))
	}
}

func TestProcessBatch(t *testing.T) {
	good := validRequest(types.LayoutL02)
	good.PresentationID = "" // inherits the envelope's id
	bad := validRequest(types.LayoutL02)
	bad.SlideID = "slide_08"
	bad.Data = types.DataPayload{Points: []types.ChartDataPoint{{Label: "only", Value: 1}}}

	resp := New(Config{}).ProcessBatch(context.Background(), &types.BatchRequest{
		PresentationID: "deck_001",
		Slides:         []types.AnalyticsRequest{*good, *bad},
	})

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Successful)
	assert.True(t, resp.Slides[0].Success)
	require.NotNil(t, resp.Slides[0].Metadata)

	require.NotNil(t, resp.Slides[1].Error)
	assert.Equal(t, types.ErrDataRange, resp.Slides[1].Error.Code)
	assert.Equal(t, "slide_08", resp.Slides[1].SlideID)
}

func TestProcessExplicitChartTypeOverride(t *testing.T) {
	req := validRequest(types.LayoutL02)
	req.ChartType = "bar_vertical"
	resp, serr := New(Config{}).Process(context.Background(), req)
	require.Nil(t, serr)
	assert.Equal(t, types.ChartTypeBarVertical, resp.Metadata.ChartType)
}

func TestProcessEditorEndpointWiredThrough(t *testing.T) {
	p := New(Config{EditorEndpoint: "/api/v1"})
	resp, serr := p.Process(context.Background(), validRequest(types.LayoutL02))
	require.Nil(t, serr)
	assert.Contains(t, resp.Content[types.KeyElement3], "/api/v1")
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

func singleShaped(ct types.ChartType) *shaper.ShapedChartData {
	return &shaper.ShapedChartData{
		ChartType:  ct,
		Family:     shaper.FamilySingle,
		FormatHint: types.FormatNumber,
		Single: &shaper.SingleSeries{
			Labels: []string{"Q1", "Q2", "Q3", "Q4"},
			Values: []float64{125000, 138000, 97000, 152000},
		},
	}
}

func pointsShaped(ct types.ChartType) *shaper.ShapedChartData {
	data := []shaper.Point{
		{X: 0, Y: 42, Label: "North"},
		{X: 1, Y: 58, Label: "South"},
		{X: 2, Y: 31, Label: "West"},
	}
	if ct == types.ChartTypeBubble {
		for i := range data {
			data[i].R = 8 + float64(i)*10
		}
	}
	return &shaper.ShapedChartData{
		ChartType:  ct,
		Family:     shaper.FamilyPoints,
		FormatHint: types.FormatNumber,
		Points: &shaper.PointSeries{
			Datasets: []shaper.PointDataset{{Label: "Regions", Data: data}},
		},
	}
}

func generate(t *testing.T, shaped *shaper.ShapedChartData, p Params) *Artifact {
	t.Helper()
	if p.ChartID == "" {
		p.ChartID = "chart-test-1"
	}
	art, serr := New(nil, nil).Generate(shaped, p)
	require.Nil(t, serr)
	require.NotNil(t, art)
	return art
}

func TestFragmentStructure(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarVertical), Params{ChartID: "abc-123"})

	assert.Contains(t, art.HTML, `id="abc-123_container"`)
	assert.Contains(t, art.HTML, "width: 1260px")
	assert.Contains(t, art.HTML, "height: 720px")
	assert.Contains(t, art.HTML, "padding: 20px")
	assert.Contains(t, art.HTML, `<canvas id="abc-123"`)
	assert.Contains(t, art.HTML, "(function() {")
	assert.Contains(t, art.HTML, `window.__easelCharts["abc-123"] = chart;`)
	assert.NotContains(t, art.HTML, "<html")
	assert.NotContains(t, art.HTML, "<body")
	assert.Equal(t, types.LibraryChartJS, art.Library)
}

func TestFragmentDeterministic(t *testing.T) {
	shaped := singleShaped(types.ChartTypeLine)
	p := Params{ChartID: "same-id", Theme: "corporate"}
	a := generate(t, shaped, p)
	b := generate(t, shaped, p)
	assert.Equal(t, a.HTML, b.HTML)
}

func TestConstraintsCannotDisableLegend(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarVertical), Params{
		Constraints: map[string]interface{}{
			"show_legend": false,
			"show_grid":   false,
		},
	})
	assert.Contains(t, art.HTML, `"legend":{"display":true`)
	assert.Contains(t, art.HTML, `"grid":{"display":true`)
	assert.Contains(t, art.HTML, `"tooltip":{"enabled":true`)
}

func TestLegendPositionConstraintHonored(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeLine), Params{
		Constraints: map[string]interface{}{"legend_position": "bottom"},
	})
	assert.Contains(t, art.HTML, `"position":"bottom"`)
}

func TestDatalabelsForcedOffForPointCharts(t *testing.T) {
	for _, ct := range []types.ChartType{types.ChartTypeScatter, types.ChartTypeBubble} {
		art := generate(t, pointsShaped(ct), Params{})
		assert.Contains(t, art.HTML, `"datalabels":{"display":false}`, string(ct))
	}
}

func TestDatalabelsOnForBarCharts(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarVertical), Params{
		Constraints: map[string]interface{}{"show_datalabels": false},
	})
	assert.Contains(t, art.HTML, `"datalabels":{"display":true`)
	assert.Contains(t, art.HTML, "cfg.options.plugins.datalabels.formatter")
}

func TestScatterMarkersLargeAndOpaque(t *testing.T) {
	art := generate(t, pointsShaped(types.ChartTypeScatter), Params{})
	assert.Contains(t, art.HTML, `"pointRadius":10`)
	assert.NotContains(t, art.HTML, "rgba(")
}

func TestBubbleRadiiAndTranslucentFill(t *testing.T) {
	art := generate(t, pointsShaped(types.ChartTypeBubble), Params{})
	assert.Contains(t, art.HTML, `"r":8`)
	assert.Contains(t, art.HTML, "0.7)")
	assert.Contains(t, art.HTML, `"label":"North"`)
}

func TestCurrencyFormatterUsesConcatenation(t *testing.T) {
	shaped := singleShaped(types.ChartTypeBarVertical)
	shaped.FormatHint = types.FormatCurrency
	art := generate(t, shaped, Params{})
	assert.Contains(t, art.HTML, `'$' + Number(v).toLocaleString()`)
	assert.Contains(t, art.HTML, `"text":"Amount ($)"`)
	assert.NotContains(t, art.HTML, "${")
}

func TestPercentageAxisTitle(t *testing.T) {
	shaped := singleShaped(types.ChartTypeBarVertical)
	shaped.FormatHint = types.FormatPercentage
	art := generate(t, shaped, Params{})
	assert.Contains(t, art.HTML, `"text":"Percentage (%)"`)
}

func TestWaterfallFloatingBars(t *testing.T) {
	shaped := singleShaped(types.ChartTypeWaterfall)
	shaped.Single.Values = []float64{100, 40, -30, 25}
	art := generate(t, shaped, Params{})

	assert.Contains(t, art.HTML, "[100,140]")
	assert.Contains(t, art.HTML, "[140,110]")
	assert.Contains(t, art.HTML, "[110,135]")
	assert.Contains(t, art.HTML, "#16a34a")
	assert.Contains(t, art.HTML, "#dc2626")
}

func TestHorizontalBarIndexAxis(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarHorizontal), Params{})
	assert.Contains(t, art.HTML, `"indexAxis":"y"`)
	assert.Contains(t, art.HTML, "cfg.options.scales.x.ticks.callback")
}

func TestHeatmapFragment(t *testing.T) {
	shaped := &shaper.ShapedChartData{
		ChartType:  types.ChartTypeHeatmap,
		Family:     shaper.FamilyMatrix,
		FormatHint: types.FormatNumber,
		Matrix: &shaper.MatrixData{
			XLabels: []string{"Mon", "Tue"},
			YLabels: []string{"AM", "PM"},
			Values:  [][]float64{{1, 2}, {3, 4}},
		},
	}
	art := generate(t, shaped, Params{})
	assert.Contains(t, art.HTML, `"type":"matrix"`)
	assert.Equal(t, 1, strings.Count(art.HTML, matrixURL))
	assert.Contains(t, art.HTML, `{"x":"Mon","y":"AM","v":1}`)
}

func TestSankeyFragment(t *testing.T) {
	shaped := &shaper.ShapedChartData{
		ChartType:  types.ChartTypeSankey,
		Family:     shaper.FamilyFlow,
		FormatHint: types.FormatNumber,
		Flow: &shaper.FlowShaped{
			Nodes: []types.FlowNode{{ID: "Leads"}, {ID: "Trials"}, {ID: "Customers"}},
			Links: []types.FlowLink{
				{Source: "Leads", Target: "Trials", Value: 500},
				{Source: "Trials", Target: "Customers", Value: 120},
			},
		},
	}
	art := generate(t, shaped, Params{})
	assert.Contains(t, art.HTML, `"type":"sankey"`)
	assert.Contains(t, art.HTML, `"from":"Leads","to":"Trials","flow":500`)
	assert.Equal(t, 1, strings.Count(art.HTML, sankeyURL))
}

func TestBoxplotRendersWithApexCharts(t *testing.T) {
	shaped := &shaper.ShapedChartData{
		ChartType:  types.ChartTypeBoxplot,
		Family:     shaper.FamilyBoxplot,
		FormatHint: types.FormatNumber,
		Boxplot: &shaper.BoxplotShaped{
			Labels: []string{"East", "West"},
			Datasets: []shaper.BoxplotDataset{{
				Label: "Sales",
				Data:  [][]float64{{10, 20, 30, 40, 50}, {5, 15, 25, 35, 45}},
			}},
		},
	}
	art := generate(t, shaped, Params{ChartID: "bp-1"})
	assert.Equal(t, types.LibraryApexCharts, art.Library)
	assert.Contains(t, art.HTML, "new ApexCharts")
	assert.Contains(t, art.HTML, `"type":"boxPlot"`)
	assert.Contains(t, art.HTML, `<div id="bp-1"`)
	assert.Contains(t, art.HTML, `window.__easelCharts["bp-1"] = chart;`)
	assert.Equal(t, 1, strings.Count(art.HTML, apexURL))
}

func TestCandlestickUpDownColors(t *testing.T) {
	shaped := &shaper.ShapedChartData{
		ChartType:  types.ChartTypeCandlestick,
		Family:     shaper.FamilyOHLC,
		FormatHint: types.FormatCurrency,
		OHLC: &shaper.OHLCShaped{
			Labels: []string{"Jan", "Feb"},
			Datasets: []shaper.OHLCDataset{{
				Label: "ACME",
				Data: []types.OHLCBar{
					{O: 100, H: 120, L: 95, C: 115},
					{O: 115, H: 118, L: 90, C: 92},
				},
			}},
		},
	}
	art := generate(t, shaped, Params{})
	assert.Contains(t, art.HTML, `"upward":"#16a34a"`)
	assert.Contains(t, art.HTML, `"downward":"#dc2626"`)
	assert.Contains(t, art.HTML, `"y":[100,120,95,115]`)
}

func TestEditorIncludedForEditableFamilies(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarVertical), Params{
		ChartID:        "ed-1",
		PresentationID: "pres-9",
		EditorEndpoint: "/api/v1/analytics",
	})
	assert.Contains(t, art.HTML, `id="ed-1_edit"`)
	assert.Contains(t, art.HTML, `id="ed-1_modal"`)
	assert.Contains(t, art.HTML, "__easelEditorLoad")
	assert.Contains(t, art.HTML, "__easelEditorWire(chart)")
	assert.Contains(t, art.HTML, `"/api/v1/analytics"`)
}

func TestEditorOmittedWithoutEndpoint(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeBarVertical), Params{})
	assert.NotContains(t, art.HTML, "_edit")
	assert.NotContains(t, art.HTML, "__easelEditorWire")
}

func TestEditorOmittedForNonEditableFamilies(t *testing.T) {
	shaped := &shaper.ShapedChartData{
		ChartType:  types.ChartTypeHeatmap,
		Family:     shaper.FamilyMatrix,
		FormatHint: types.FormatNumber,
		Matrix: &shaper.MatrixData{
			XLabels: []string{"A"},
			YLabels: []string{"B"},
			Values:  [][]float64{{1}},
		},
	}
	art := generate(t, shaped, Params{EditorEndpoint: "/api/v1/analytics"})
	assert.NotContains(t, art.HTML, "_edit")
}

func TestBubbleEditorHasRadiusColumn(t *testing.T) {
	art := generate(t, pointsShaped(types.ChartTypeBubble), Params{
		EditorEndpoint: "/api/v1/analytics",
	})
	assert.Contains(t, art.HTML, ">Radius</th>")
	assert.Contains(t, art.HTML, "var __edBubble = true;")
}

func TestScatterEditorXYColumns(t *testing.T) {
	art := generate(t, pointsShaped(types.ChartTypeScatter), Params{
		EditorEndpoint: "/api/v1/analytics",
	})
	assert.Contains(t, art.HTML, ">X</th>")
	assert.Contains(t, art.HTML, ">Y</th>")
	assert.Contains(t, art.HTML, "var __edBubble = false;")
}

func TestMissingChartIDFails(t *testing.T) {
	_, serr := New(nil, nil).Generate(singleShaped(types.ChartTypeLine), Params{})
	require.NotNil(t, serr)
	assert.Equal(t, types.ErrChartGenerationFailed, serr.Code)
	assert.True(t, serr.Retryable)
}

func TestCustomDimensions(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypePie), Params{Width: 600, Height: 400})
	assert.Equal(t, 600, art.Width)
	assert.Equal(t, 400, art.Height)
	assert.Contains(t, art.HTML, "width: 600px")
	assert.Contains(t, art.HTML, "height: 400px")
}

func TestChartJSLoaderSharedAcrossTypes(t *testing.T) {
	art := generate(t, singleShaped(types.ChartTypeDoughnut), Params{})
	assert.Equal(t, 1, strings.Count(art.HTML, chartJSURL))
	assert.Equal(t, 1, strings.Count(art.HTML, datalabelsURL))
	assert.Contains(t, art.HTML, "cfg.options.cutout = '60%';")
}

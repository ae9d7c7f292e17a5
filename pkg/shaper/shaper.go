// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package shaper transforms a validated data payload into the payload shape
// the target chart family renders. Each chart type belongs to exactly one
// family; the family decides both the shaped form and, downstream, the
// editor table the fragment embeds.
package shaper

import (
	"fmt"
	"math"
	"strings"

	"github.com/teradata-labs/easel/pkg/catalog"
	"github.com/teradata-labs/easel/pkg/types"
)

// Family names the payload shape a chart type consumes.
type Family string

const (
	FamilySingle  Family = "single_series"
	FamilyMulti   Family = "multi_dataset"
	FamilyPoints  Family = "point_series"
	FamilyMatrix  Family = "matrix"
	FamilyBoxplot Family = "boxplot"
	FamilyOHLC    Family = "ohlc"
	FamilyFlow    Family = "flow"
)

// Bubble radii are scaled from the value range into [MinBubbleRadius,
// MaxBubbleRadius] pixels; a degenerate range (all values equal) collapses
// every radius to the minimum.
const (
	MinBubbleRadius = 8.0
	MaxBubbleRadius = 40.0
)

// SingleSeries carries one labeled value sequence.
type SingleSeries struct {
	Labels []string
	Values []float64
}

// Dataset is one series inside a MultiDataset shape.
type Dataset struct {
	Label string
	// Type is "bar" or "line" for mixed charts, empty elsewhere.
	Type string
	Data []float64
}

// MultiDataset carries shared labels plus one or more aligned datasets.
type MultiDataset struct {
	Labels   []string
	Datasets []Dataset
}

// Point is one scatter/bubble observation. X is the label ordinal, Label is
// the caller's original label preserved verbatim for tooltips, and R is the
// scaled bubble radius (zero for scatter).
type Point struct {
	X     float64
	Y     float64
	R     float64
	Label string
}

// PointDataset is one named point cloud.
type PointDataset struct {
	Label string
	Data  []Point
}

// PointSeries carries the scatter/bubble datasets.
type PointSeries struct {
	Datasets []PointDataset
}

// MatrixData is the heatmap grid.
type MatrixData struct {
	XLabels []string
	YLabels []string
	Values  [][]float64
}

// BoxplotDataset holds five-number rows aligned with the shaped labels.
type BoxplotDataset struct {
	Label string
	Data  [][]float64
}

// BoxplotShaped is the boxplot payload.
type BoxplotShaped struct {
	Labels   []string
	Datasets []BoxplotDataset
}

// OHLCDataset holds candlestick bars aligned with the shaped labels.
type OHLCDataset struct {
	Label string
	Data  []types.OHLCBar
}

// OHLCShaped is the candlestick payload.
type OHLCShaped struct {
	Labels   []string
	Datasets []OHLCDataset
}

// FlowShaped is the sankey payload.
type FlowShaped struct {
	Nodes []types.FlowNode
	Links []types.FlowLink
}

// ShapedChartData is the tagged variant handed to the chart generator.
// Exactly one of the shape members is non-nil, selected by Family.
type ShapedChartData struct {
	ChartType  types.ChartType
	Family     Family
	FormatHint types.FormatHint

	Single  *SingleSeries
	Multi   *MultiDataset
	Points  *PointSeries
	Matrix  *MatrixData
	Boxplot *BoxplotShaped
	OHLC    *OHLCShaped
	Flow    *FlowShaped
}

// FamilyFor returns the payload family a chart type consumes.
func FamilyFor(ct types.ChartType) Family {
	switch ct {
	case types.ChartTypeAreaStacked, types.ChartTypeBarGrouped, types.ChartTypeBarStacked,
		types.ChartTypeMixed, types.ChartTypeRadar:
		return FamilyMulti
	case types.ChartTypeScatter, types.ChartTypeBubble:
		return FamilyPoints
	case types.ChartTypeHeatmap:
		return FamilyMatrix
	case types.ChartTypeBoxplot:
		return FamilyBoxplot
	case types.ChartTypeCandlestick:
		return FamilyOHLC
	case types.ChartTypeSankey:
		return FamilyFlow
	}
	return FamilySingle
}

// Shape transforms the request's payload for the resolved chart type. It
// enforces the catalog's per-type point bounds and rejects payload kinds the
// chart family cannot consume.
func Shape(req *types.AnalyticsRequest, chartType types.ChartType) (*ShapedChartData, *types.ServiceError) {
	if serr := checkBounds(&req.Data, chartType); serr != nil {
		return nil, serr
	}

	shaped := &ShapedChartData{
		ChartType:  chartType,
		Family:     FamilyFor(chartType),
		FormatHint: InferFormatHint(req.AnalyticsType, req.Narrative),
	}

	var serr *types.ServiceError
	switch shaped.Family {
	case FamilySingle:
		shaped.Single, serr = shapeSingle(req, chartType)
	case FamilyMulti:
		shaped.Multi, serr = shapeMulti(req, chartType)
	case FamilyPoints:
		shaped.Points, serr = shapePoints(req, chartType)
	case FamilyMatrix:
		shaped.Matrix, serr = shapeMatrix(req)
	case FamilyBoxplot:
		shaped.Boxplot, serr = shapeBoxplot(req)
	case FamilyOHLC:
		shaped.OHLC, serr = shapeOHLC(req)
	case FamilyFlow:
		shaped.Flow, serr = shapeFlow(req)
	}
	if serr != nil {
		return nil, serr
	}
	return shaped, nil
}

func checkBounds(data *types.DataPayload, ct types.ChartType) *types.ServiceError {
	min, max := catalog.Bounds(ct)
	n := data.PointCount()
	if n < min || n > max {
		return types.NewValidationError(types.ErrDataRange, "data",
			fmt.Sprintf("%s charts take between %d and %d data points, got %d", ct, min, max, n),
			fmt.Sprintf("Provide %d-%d points or pick a different chart type", min, max))
	}
	return nil
}

func shapeSingle(req *types.AnalyticsRequest, ct types.ChartType) (*SingleSeries, *types.ServiceError) {
	switch req.Data.Kind() {
	case types.DataKindPoints:
		labels := make([]string, len(req.Data.Points))
		values := make([]float64, len(req.Data.Points))
		for i, p := range req.Data.Points {
			labels[i] = p.Label
			values[i] = p.Value
		}
		return &SingleSeries{Labels: labels, Values: values}, nil

	case types.DataKindSeries:
		// A one-series container collapses losslessly.
		if len(req.Data.Multi.Series) == 1 {
			return &SingleSeries{
				Labels: req.Data.Multi.Labels,
				Values: req.Data.Multi.Series[0].Values,
			}, nil
		}
	}
	return nil, wrongShape(ct, "an array of {label, value} points")
}

func shapeMulti(req *types.AnalyticsRequest, ct types.ChartType) (*MultiDataset, *types.ServiceError) {
	switch req.Data.Kind() {
	case types.DataKindSeries:
		ms := req.Data.Multi
		if ct == types.ChartTypeRadar && len(ms.Series) != 1 {
			return nil, wrongShape(ct, "a single series of {label, value} points")
		}
		out := &MultiDataset{Labels: ms.Labels}
		for i, s := range ms.Series {
			out.Datasets = append(out.Datasets, Dataset{
				Label: s.Label,
				Type:  mixedSeriesType(ct, s.Type, i),
				Data:  s.Values,
			})
		}
		return out, nil

	case types.DataKindPoints:
		if ct == types.ChartTypeMixed {
			return nil, wrongShape(ct, "a {labels, series} container with two or more series")
		}
		// Re-key the flat points into a one-dataset shape. Radar in
		// particular must never emit empty datasets.
		labels := make([]string, len(req.Data.Points))
		values := make([]float64, len(req.Data.Points))
		for i, p := range req.Data.Points {
			labels[i] = p.Label
			values[i] = p.Value
		}
		return &MultiDataset{
			Labels:   labels,
			Datasets: []Dataset{{Label: DatasetLabel(req), Data: values}},
		}, nil
	}
	return nil, wrongShape(ct, "a {labels, series} container")
}

// mixedSeriesType picks bar/line for mixed-chart series: an explicit type
// wins, otherwise the first series renders as bars and the rest as lines.
func mixedSeriesType(ct types.ChartType, explicit string, index int) string {
	if ct != types.ChartTypeMixed {
		return ""
	}
	switch explicit {
	case "bar", "line":
		return explicit
	}
	if index == 0 {
		return "bar"
	}
	return "line"
}

func shapePoints(req *types.AnalyticsRequest, ct types.ChartType) (*PointSeries, *types.ServiceError) {
	if req.Data.Kind() != types.DataKindPoints {
		return nil, wrongShape(ct, "an array of {label, value} points")
	}

	points := req.Data.Points
	radii := make([]float64, len(points))
	if ct == types.ChartTypeBubble {
		radii = scaleRadii(points)
	}

	data := make([]Point, len(points))
	for i, p := range points {
		data[i] = Point{
			X:     float64(i),
			Y:     p.Value,
			R:     radii[i],
			Label: p.Label,
		}
	}

	return &PointSeries{
		Datasets: []PointDataset{{Label: DatasetLabel(req), Data: data}},
	}, nil
}

// scaleRadii maps values proportionally into [MinBubbleRadius,
// MaxBubbleRadius]. All-equal values collapse to the minimum radius.
func scaleRadii(points []types.ChartDataPoint) []float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		min = math.Min(min, p.Value)
		max = math.Max(max, p.Value)
	}

	radii := make([]float64, len(points))
	if max == min {
		for i := range radii {
			radii[i] = MinBubbleRadius
		}
		return radii
	}
	span := MaxBubbleRadius - MinBubbleRadius
	for i, p := range points {
		radii[i] = MinBubbleRadius + (p.Value-min)/(max-min)*span
	}
	return radii
}

func shapeMatrix(req *types.AnalyticsRequest) (*MatrixData, *types.ServiceError) {
	if req.Data.Kind() != types.DataKindMatrix {
		return nil, wrongShape(types.ChartTypeHeatmap, "a {x_labels, y_labels, values} container")
	}
	m := req.Data.Matrix
	return &MatrixData{XLabels: m.XLabels, YLabels: m.YLabels, Values: m.Values}, nil
}

func shapeBoxplot(req *types.AnalyticsRequest) (*BoxplotShaped, *types.ServiceError) {
	if req.Data.Kind() != types.DataKindBoxplot {
		return nil, wrongShape(types.ChartTypeBoxplot, "a {labels, rows} container of five-number summaries")
	}
	b := req.Data.Boxplot
	label := b.SeriesLabel
	if label == "" {
		label = DatasetLabel(req)
	}
	return &BoxplotShaped{
		Labels:   b.Labels,
		Datasets: []BoxplotDataset{{Label: label, Data: b.Rows}},
	}, nil
}

func shapeOHLC(req *types.AnalyticsRequest) (*OHLCShaped, *types.ServiceError) {
	if req.Data.Kind() != types.DataKindOHLC {
		return nil, wrongShape(types.ChartTypeCandlestick, "a {labels, bars} container of OHLC bars")
	}
	o := req.Data.OHLC
	label := o.SeriesLabel
	if label == "" {
		label = DatasetLabel(req)
	}
	return &OHLCShaped{
		Labels:   o.Labels,
		Datasets: []OHLCDataset{{Label: label, Data: o.Bars}},
	}, nil
}

func shapeFlow(req *types.AnalyticsRequest) (*FlowShaped, *types.ServiceError) {
	if req.Data.Kind() != types.DataKindFlow {
		return nil, wrongShape(types.ChartTypeSankey, "a {nodes, links} container")
	}
	return &FlowShaped{Nodes: req.Data.Flow.Nodes, Links: req.Data.Flow.Links}, nil
}

func wrongShape(ct types.ChartType, want string) *types.ServiceError {
	return types.NewValidationError(types.ErrInvalidDataPoints, "data",
		fmt.Sprintf("%s charts require %s", ct, want),
		fmt.Sprintf("Reshape data into %s or pick a chart type matching the payload", want))
}

// DatasetLabel picks the name for a synthesized dataset: the slide title
// when present, else a titled analytics type, else a generic fallback.
func DatasetLabel(req *types.AnalyticsRequest) string {
	if req.Context != nil && req.Context.SlideTitle != "" {
		return req.Context.SlideTitle
	}
	if req.AnalyticsType != "" {
		return toTitle(string(req.AnalyticsType))
	}
	return "Data"
}

// InferFormatHint derives the unit presentation for axis titles and
// observation text. Analytics semantics decide first; narrative wording is
// the tiebreaker.
func InferFormatHint(at types.AnalyticsType, narrative string) types.FormatHint {
	switch at {
	case types.AnalyticsRevenueOverTime:
		return types.FormatCurrency
	case types.AnalyticsMarketShare, types.AnalyticsYoYGrowth:
		return types.FormatPercentage
	}

	n := strings.ToLower(narrative)
	for _, kw := range []string{"$", "revenue", "cost", "price", "spend", "usd", "arr"} {
		if strings.Contains(n, kw) {
			return types.FormatCurrency
		}
	}
	for _, kw := range []string{"%", "percent", "share", "margin", "proportion", "rate"} {
		if strings.Contains(n, kw) {
			return types.FormatPercentage
		}
	}
	return types.FormatNumber
}

// toTitle converts snake_case identifiers into display titles, e.g.
// "revenue_over_time" becomes "Revenue Over Time".
func toTitle(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DataKind names the payload shape carried by a DataPayload.
type DataKind string

const (
	DataKindPoints  DataKind = "points"
	DataKindSeries  DataKind = "multi_series"
	DataKindMatrix  DataKind = "matrix"
	DataKindFlow    DataKind = "flow"
	DataKindOHLC    DataKind = "ohlc"
	DataKindBoxplot DataKind = "boxplot"
	DataKindNone    DataKind = "none"
)

// Series is one named value sequence inside a multi-series container.
// Values are positional against the container's labels.
type Series struct {
	Label string `json:"label"`

	// Type optionally overrides the rendering of this series inside a
	// mixed chart ("bar" or "line").
	Type string `json:"type,omitempty"`

	Values []float64 `json:"values"`
}

// MultiSeries is the container for grouped/stacked bars, stacked areas, and
// mixed charts: shared category labels plus two or more aligned series.
type MultiSeries struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Matrix is the heatmap container: a dense grid of values addressed by
// x/y category labels. Every row must have exactly len(XLabels) entries and
// there must be exactly len(YLabels) rows.
type Matrix struct {
	XLabels []string    `json:"x_labels"`
	YLabels []string    `json:"y_labels"`
	Values  [][]float64 `json:"values"`
}

// FlowNode declares a node a sankey diagram's links may reference.
type FlowNode struct {
	ID string `json:"id"`
}

// FlowLink is one weighted edge in a sankey diagram. Source and Target must
// reference declared node IDs.
type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Flow is the sankey container.
type Flow struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// OHLCBar is one candlestick: open, high, low, close. Validation enforces
// l ≤ min(o,c) ≤ max(o,c) ≤ h.
type OHLCBar struct {
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
}

// OHLCSeries is the candlestick container: one bar per label.
type OHLCSeries struct {
	Labels      []string  `json:"labels"`
	SeriesLabel string    `json:"series_label,omitempty"`
	Bars        []OHLCBar `json:"bars"`
}

// DataPayload is the polymorphic `data` field of an analytics request.
// Exactly one member is non-zero after a successful decode. The JSON forms:
//
//	points:   [{"label":"Q1","value":125000}, ...]
//	series:   {"labels":[...], "series":[{"label":"2024","values":[...]}, ...]}
//	matrix:   {"x_labels":[...], "y_labels":[...], "values":[[...], ...]}
//	flow:     {"nodes":[{"id":"A"}, ...], "links":[{"source":"A","target":"B","value":5}, ...]}
//	ohlc:     {"labels":[...], "bars":[{"o":..,"h":..,"l":..,"c":..}, ...]}
//	boxplot:  {"labels":[...], "rows":[[min,q1,med,q3,max], ...]}
type DataPayload struct {
	Points  []ChartDataPoint
	Multi   *MultiSeries
	Matrix  *Matrix
	Flow    *Flow
	OHLC    *OHLCSeries
	Boxplot *BoxplotData
}

// BoxplotData is the boxplot container: one five-number row per label,
// each row ordered min ≤ q1 ≤ median ≤ q3 ≤ max.
type BoxplotData struct {
	Labels      []string    `json:"labels"`
	SeriesLabel string      `json:"series_label,omitempty"`
	Rows        [][]float64 `json:"rows"`
}

// Kind reports which member of the union is populated.
func (p *DataPayload) Kind() DataKind {
	switch {
	case p.Points != nil:
		return DataKindPoints
	case p.Multi != nil:
		return DataKindSeries
	case p.Matrix != nil:
		return DataKindMatrix
	case p.Flow != nil:
		return DataKindFlow
	case p.OHLC != nil:
		return DataKindOHLC
	case p.Boxplot != nil:
		return DataKindBoxplot
	}
	return DataKindNone
}

// PointCount returns the number of data elements the payload carries, which
// is what the catalog's min/max point bounds are checked against.
func (p *DataPayload) PointCount() int {
	switch p.Kind() {
	case DataKindPoints:
		return len(p.Points)
	case DataKindSeries:
		return len(p.Multi.Labels)
	case DataKindMatrix:
		n := 0
		for _, row := range p.Matrix.Values {
			n += len(row)
		}
		return n
	case DataKindFlow:
		return len(p.Flow.Links)
	case DataKindOHLC:
		return len(p.OHLC.Bars)
	case DataKindBoxplot:
		return len(p.Boxplot.Rows)
	}
	return 0
}

// UnmarshalJSON decodes the polymorphic data field. An array decodes as
// label/value points; an object is dispatched on its distinguishing keys.
func (p *DataPayload) UnmarshalJSON(b []byte) error {
	*p = DataPayload{}

	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var points []ChartDataPoint
		if err := json.Unmarshal(b, &points); err != nil {
			return fmt.Errorf("data array must contain {label, value} objects: %w", err)
		}
		p.Points = points
		return nil
	}

	if trimmed[0] != '{' {
		return fmt.Errorf("data must be an array of points or a typed container object")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("data container is not a valid JSON object: %w", err)
	}

	switch {
	case probe["nodes"] != nil || probe["links"] != nil:
		var f Flow
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("flow container: %w", err)
		}
		p.Flow = &f
	case probe["x_labels"] != nil || probe["y_labels"] != nil:
		var m Matrix
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("matrix container: %w", err)
		}
		p.Matrix = &m
	case probe["bars"] != nil:
		var o OHLCSeries
		if err := json.Unmarshal(b, &o); err != nil {
			return fmt.Errorf("ohlc container: %w", err)
		}
		p.OHLC = &o
	case probe["rows"] != nil:
		var bx BoxplotData
		if err := json.Unmarshal(b, &bx); err != nil {
			return fmt.Errorf("boxplot container: %w", err)
		}
		p.Boxplot = &bx
	case probe["series"] != nil:
		var ms MultiSeries
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("multi-series container: %w", err)
		}
		p.Multi = &ms
	default:
		return fmt.Errorf("data container has none of the recognized shapes (series, matrix, flow, ohlc, boxplot)")
	}
	return nil
}

// MarshalJSON re-encodes whichever member is populated, so requests survive
// a decode/encode round trip (batch slides are re-marshaled into logs).
func (p DataPayload) MarshalJSON() ([]byte, error) {
	switch {
	case p.Points != nil:
		return json.Marshal(p.Points)
	case p.Multi != nil:
		return json.Marshal(p.Multi)
	case p.Matrix != nil:
		return json.Marshal(p.Matrix)
	case p.Flow != nil:
		return json.Marshal(p.Flow)
	case p.OHLC != nil:
		return json.Marshal(p.OHLC)
	case p.Boxplot != nil:
		return json.Marshal(p.Boxplot)
	}
	return []byte("null"), nil
}

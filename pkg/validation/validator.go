// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package validation normalizes and validates analytics requests before the
// pipeline touches them. Validation runs in three levels: scalar header
// fields, then enum fields, then the data payload with per-shape rules.
// The first violation stops validation and becomes the response envelope;
// generators are never invoked for an invalid request.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/teradata-labs/easel/pkg/types"
)

const (
	// MaxLabelLength is the per-label character budget.
	MaxLabelLength = 100

	// MaxNarrativeLength is the narrative character budget.
	MaxNarrativeLength = 2000

	// MinDataPoints and MaxDataPoints bound the dataset size globally;
	// individual chart types may narrow the range further via the catalog.
	MinDataPoints = 2
	MaxDataPoints = 50
)

// Validate checks req and normalizes it in place (string fields are
// trimmed). It returns nil when the request is acceptable, otherwise the
// validation error to envelope. Chart-type/layout compatibility is the
// resolver's concern and is not checked here.
func Validate(req *types.AnalyticsRequest) *types.ServiceError {
	if serr := validateHeader(req); serr != nil {
		return serr
	}
	if serr := validateEnums(req); serr != nil {
		return serr
	}
	return validateData(&req.Data)
}

// validateHeader trims and checks the scalar request fields.
func validateHeader(req *types.AnalyticsRequest) *types.ServiceError {
	req.PresentationID = strings.TrimSpace(req.PresentationID)
	req.SlideID = strings.TrimSpace(req.SlideID)
	req.Narrative = strings.TrimSpace(req.Narrative)
	req.ChartType = strings.TrimSpace(req.ChartType)
	if req.Context != nil {
		req.Context.Theme = strings.TrimSpace(req.Context.Theme)
		req.Context.Audience = strings.TrimSpace(req.Context.Audience)
		req.Context.SlideTitle = strings.TrimSpace(req.Context.SlideTitle)
		req.Context.Subtitle = strings.TrimSpace(req.Context.Subtitle)
		req.Context.PresentationName = strings.TrimSpace(req.Context.PresentationName)
	}

	if req.PresentationID == "" {
		return emptyField("presentation_id")
	}
	if req.SlideID == "" {
		return emptyField("slide_id")
	}
	if req.SlideNumber < 1 {
		return types.NewValidationError(types.ErrEmptyField, "slide_number",
			"slide_number must be at least 1",
			"Number slides starting from 1")
	}
	if req.Narrative == "" {
		return emptyField("narrative")
	}
	if utf8.RuneCountInString(req.Narrative) > MaxNarrativeLength {
		return types.NewValidationError(types.ErrDataRange, "narrative",
			fmt.Sprintf("narrative exceeds %d characters", MaxNarrativeLength),
			"Shorten the narrative; it only seeds chart titling and observations")
	}
	return nil
}

// validateEnums checks the closed-set fields.
func validateEnums(req *types.AnalyticsRequest) *types.ServiceError {
	if !req.Layout.Valid() {
		allowed := make([]string, 0, len(types.Layouts()))
		for _, l := range types.Layouts() {
			allowed = append(allowed, string(l))
		}
		return types.NewValidationError(types.ErrInvalidLayout, "layout",
			fmt.Sprintf("unknown layout %q", req.Layout),
			"Use one of the supported layouts").
			WithDetails(map[string]interface{}{"allowed": allowed})
	}
	if !req.AnalyticsType.Valid() {
		allowed := make([]string, 0, len(types.AnalyticsTypes()))
		for _, a := range types.AnalyticsTypes() {
			allowed = append(allowed, string(a))
		}
		return types.NewValidationError(types.ErrInvalidAnalyticsType, "analytics_type",
			fmt.Sprintf("unknown analytics type %q", req.AnalyticsType),
			"Use one of the supported analytics types").
			WithDetails(map[string]interface{}{"allowed": allowed})
	}
	return nil
}

// validateData dispatches on the payload shape.
func validateData(data *types.DataPayload) *types.ServiceError {
	if data.Kind() == types.DataKindNone {
		return emptyField("data")
	}

	if n := data.PointCount(); n < MinDataPoints || n > MaxDataPoints {
		return types.NewValidationError(types.ErrDataRange, "data",
			fmt.Sprintf("expected between %d and %d data points, got %d", MinDataPoints, MaxDataPoints, n),
			fmt.Sprintf("Provide %d-%d data points", MinDataPoints, MaxDataPoints))
	}

	switch data.Kind() {
	case types.DataKindPoints:
		return validatePoints(data.Points)
	case types.DataKindSeries:
		return validateMultiSeries(data.Multi)
	case types.DataKindMatrix:
		return validateMatrix(data.Matrix)
	case types.DataKindFlow:
		return validateFlow(data.Flow)
	case types.DataKindOHLC:
		return validateOHLC(data.OHLC)
	case types.DataKindBoxplot:
		return validateBoxplot(data.Boxplot)
	}
	return nil
}

func validatePoints(points []types.ChartDataPoint) *types.ServiceError {
	seen := make(map[string]bool, len(points))
	for i := range points {
		points[i].Label = strings.TrimSpace(points[i].Label)
		label := points[i].Label

		if serr := checkLabel(label, fmt.Sprintf("data[%d].label", i)); serr != nil {
			return serr
		}
		if !isFinite(points[i].Value) {
			return nonFinite(fmt.Sprintf("data[%d].value", i), label)
		}
		if seen[label] {
			return duplicateLabel(label)
		}
		seen[label] = true
	}
	return nil
}

func validateMultiSeries(ms *types.MultiSeries) *types.ServiceError {
	if len(ms.Labels) == 0 {
		return emptyField("data.labels")
	}
	if len(ms.Series) == 0 {
		return emptyField("data.series")
	}

	seen := make(map[string]bool, len(ms.Labels))
	for i := range ms.Labels {
		ms.Labels[i] = strings.TrimSpace(ms.Labels[i])
		if serr := checkLabel(ms.Labels[i], fmt.Sprintf("data.labels[%d]", i)); serr != nil {
			return serr
		}
		if seen[ms.Labels[i]] {
			return duplicateLabel(ms.Labels[i])
		}
		seen[ms.Labels[i]] = true
	}

	seriesSeen := make(map[string]bool, len(ms.Series))
	for i := range ms.Series {
		s := &ms.Series[i]
		s.Label = strings.TrimSpace(s.Label)
		if serr := checkLabel(s.Label, fmt.Sprintf("data.series[%d].label", i)); serr != nil {
			return serr
		}
		if seriesSeen[s.Label] {
			return duplicateLabel(s.Label)
		}
		seriesSeen[s.Label] = true

		if len(s.Values) != len(ms.Labels) {
			return types.NewValidationError(types.ErrMismatchedLengths,
				fmt.Sprintf("data.series[%d].values", i),
				fmt.Sprintf("series %q has %d values for %d labels", s.Label, len(s.Values), len(ms.Labels)),
				"Provide exactly one value per label in every series")
		}
		for j, v := range s.Values {
			if !isFinite(v) {
				return nonFinite(fmt.Sprintf("data.series[%d].values[%d]", i, j), s.Label)
			}
		}
	}
	return nil
}

func validateMatrix(m *types.Matrix) *types.ServiceError {
	if len(m.XLabels) == 0 {
		return emptyField("data.x_labels")
	}
	if len(m.YLabels) == 0 {
		return emptyField("data.y_labels")
	}
	if serr := checkAxisLabels(m.XLabels, "data.x_labels"); serr != nil {
		return serr
	}
	if serr := checkAxisLabels(m.YLabels, "data.y_labels"); serr != nil {
		return serr
	}

	if len(m.Values) != len(m.YLabels) {
		return types.NewValidationError(types.ErrMismatchedLengths, "data.values",
			fmt.Sprintf("matrix has %d rows for %d y_labels", len(m.Values), len(m.YLabels)),
			"Provide exactly one row per y label")
	}
	for i, row := range m.Values {
		if len(row) != len(m.XLabels) {
			return types.NewValidationError(types.ErrMismatchedLengths,
				fmt.Sprintf("data.values[%d]", i),
				fmt.Sprintf("row %d has %d cells for %d x_labels", i, len(row), len(m.XLabels)),
				"Every row must have exactly one cell per x label")
		}
		for j, v := range row {
			if !isFinite(v) {
				return nonFinite(fmt.Sprintf("data.values[%d][%d]", i, j), m.YLabels[i])
			}
		}
	}
	return nil
}

func validateFlow(f *types.Flow) *types.ServiceError {
	if len(f.Nodes) == 0 {
		return emptyField("data.nodes")
	}
	if len(f.Links) == 0 {
		return emptyField("data.links")
	}

	ids := make(map[string]bool, len(f.Nodes))
	for i := range f.Nodes {
		f.Nodes[i].ID = strings.TrimSpace(f.Nodes[i].ID)
		id := f.Nodes[i].ID
		if serr := checkLabel(id, fmt.Sprintf("data.nodes[%d].id", i)); serr != nil {
			return serr
		}
		if ids[id] {
			return duplicateLabel(id)
		}
		ids[id] = true
	}

	for i := range f.Links {
		l := &f.Links[i]
		l.Source = strings.TrimSpace(l.Source)
		l.Target = strings.TrimSpace(l.Target)
		if !ids[l.Source] || !ids[l.Target] {
			return types.NewValidationError(types.ErrInvalidDataPoints,
				fmt.Sprintf("data.links[%d]", i),
				fmt.Sprintf("link %q -> %q references an undeclared node", l.Source, l.Target),
				"Declare every node id referenced by a link in data.nodes")
		}
		if !isFinite(l.Value) || l.Value <= 0 {
			return types.NewValidationError(types.ErrInvalidValues,
				fmt.Sprintf("data.links[%d].value", i),
				"flow link values must be finite and positive",
				"Use positive finite numbers for link weights")
		}
	}
	return nil
}

func validateOHLC(o *types.OHLCSeries) *types.ServiceError {
	if len(o.Labels) == 0 {
		return emptyField("data.labels")
	}
	if serr := checkAxisLabels(o.Labels, "data.labels"); serr != nil {
		return serr
	}
	if len(o.Bars) != len(o.Labels) {
		return types.NewValidationError(types.ErrMismatchedLengths, "data.bars",
			fmt.Sprintf("%d bars for %d labels", len(o.Bars), len(o.Labels)),
			"Provide exactly one OHLC bar per label")
	}

	for i, b := range o.Bars {
		for _, v := range []float64{b.O, b.H, b.L, b.C} {
			if !isFinite(v) {
				return nonFinite(fmt.Sprintf("data.bars[%d]", i), o.Labels[i])
			}
		}
		lo, hi := math.Min(b.O, b.C), math.Max(b.O, b.C)
		if b.L > lo || hi > b.H {
			return types.NewValidationError(types.ErrInvalidValues,
				fmt.Sprintf("data.bars[%d]", i),
				fmt.Sprintf("bar %q violates low <= min(open,close) <= max(open,close) <= high", o.Labels[i]),
				"Check the open/high/low/close ordering for each bar")
		}
	}
	return nil
}

func validateBoxplot(b *types.BoxplotData) *types.ServiceError {
	if len(b.Labels) == 0 {
		return emptyField("data.labels")
	}
	if serr := checkAxisLabels(b.Labels, "data.labels"); serr != nil {
		return serr
	}
	if len(b.Rows) != len(b.Labels) {
		return types.NewValidationError(types.ErrMismatchedLengths, "data.rows",
			fmt.Sprintf("%d rows for %d labels", len(b.Rows), len(b.Labels)),
			"Provide exactly one five-number row per label")
	}

	for i, row := range b.Rows {
		if len(row) != 5 {
			return types.NewValidationError(types.ErrInvalidDataPoints,
				fmt.Sprintf("data.rows[%d]", i),
				fmt.Sprintf("boxplot row %q has %d values, want 5", b.Labels[i], len(row)),
				"Each row must be [min, q1, median, q3, max]")
		}
		for j, v := range row {
			if !isFinite(v) {
				return nonFinite(fmt.Sprintf("data.rows[%d][%d]", i, j), b.Labels[i])
			}
			if j > 0 && row[j] < row[j-1] {
				return types.NewValidationError(types.ErrInvalidValues,
					fmt.Sprintf("data.rows[%d]", i),
					fmt.Sprintf("boxplot row %q is not ordered min <= q1 <= median <= q3 <= max", b.Labels[i]),
					"Sort each five-number summary in non-decreasing order")
			}
		}
	}
	return nil
}

// checkAxisLabels trims, validates, and dedups a label slice in place.
func checkAxisLabels(labels []string, field string) *types.ServiceError {
	seen := make(map[string]bool, len(labels))
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
		if serr := checkLabel(labels[i], fmt.Sprintf("%s[%d]", field, i)); serr != nil {
			return serr
		}
		if seen[labels[i]] {
			return duplicateLabel(labels[i])
		}
		seen[labels[i]] = true
	}
	return nil
}

// checkLabel rejects empty (after trimming) and over-long labels.
func checkLabel(label, field string) *types.ServiceError {
	if label == "" {
		return types.NewValidationError(types.ErrInvalidLabels, field,
			"label is empty or whitespace-only",
			"Give every data point a non-empty label")
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return types.NewValidationError(types.ErrInvalidLabels, field,
			fmt.Sprintf("label exceeds %d characters", MaxLabelLength),
			fmt.Sprintf("Shorten labels to at most %d characters", MaxLabelLength))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func emptyField(field string) *types.ServiceError {
	return types.NewValidationError(types.ErrEmptyField, field,
		fmt.Sprintf("%s must not be empty", field),
		fmt.Sprintf("Provide a non-empty %s", field))
}

func nonFinite(field, label string) *types.ServiceError {
	return types.NewValidationError(types.ErrInvalidValues, field,
		fmt.Sprintf("value for %q is not a finite number", label),
		"Replace NaN and infinite values with finite numbers")
}

func duplicateLabel(label string) *types.ServiceError {
	return types.NewValidationError(types.ErrDuplicateLabels, "data",
		fmt.Sprintf("label %q appears more than once", label),
		"Make labels unique within a request")
}

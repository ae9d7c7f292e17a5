// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package catalog

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/teradata-labs/easel/pkg/types"
)

// Summary aggregates catalog counts for the discovery endpoint.
type Summary struct {
	Total     int            `json:"total"`
	ByLibrary map[string]int `json:"by_library"`
	ByLayout  map[string]int `json:"by_layout"`
}

// All returns every catalog entry in registry order. The returned slice is a
// copy; callers cannot mutate the registry through it.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// ByID looks up a single chart type, accepting the "matrix" and "financial"
// aliases. Unknown ids produce CHART_NOT_FOUND with a fuzzy "did you mean"
// suggestion when one is close enough.
func ByID(id string) (*Spec, *types.ServiceError) {
	ct, ok := types.NormalizeChartType(id)
	if ok {
		if spec, found := byID[ct]; found {
			s := *spec
			return &s, nil
		}
	}

	suggestion := "Call GET /api/v1/chart-types for the full list"
	if guess := closestID(id); guess != "" {
		suggestion = fmt.Sprintf("Did you mean %q? Call GET /api/v1/chart-types for the full list", guess)
	}
	return nil, types.NewResourceError(
		types.ErrChartNotFound,
		fmt.Sprintf("unknown chart type %q", id),
		suggestion,
	)
}

// ByLibrary returns the entries rendered by the given library.
func ByLibrary(lib types.Library) []Spec {
	var out []Spec
	for _, s := range registry {
		if s.Library == lib {
			out = append(out, s)
		}
	}
	return out
}

// ByLayout returns the entries that can render into the given layout.
func ByLayout(layout types.Layout) []Spec {
	var out []Spec
	for _, s := range registry {
		if s.SupportsLayout(layout) {
			out = append(out, s)
		}
	}
	return out
}

// Summarize computes the aggregate block served alongside the full listing.
func Summarize() Summary {
	sum := Summary{
		Total:     len(registry),
		ByLibrary: make(map[string]int),
		ByLayout:  make(map[string]int),
	}
	for _, s := range registry {
		sum.ByLibrary[string(s.Library)]++
		for _, l := range s.SupportedLayouts {
			sum.ByLayout[string(l)]++
		}
	}
	return sum
}

// LibraryFor returns the rendering library for a chart type. Falls back to
// Chart.js for ids missing from the registry, which cannot happen for the
// closed set but keeps the zero value sane for callers.
func LibraryFor(ct types.ChartType) types.Library {
	if spec, ok := byID[ct]; ok {
		return spec.Library
	}
	return types.LibraryChartJS
}

// Bounds returns the inclusive [min, max] point range for a chart type.
func Bounds(ct types.ChartType) (int, int) {
	if spec, ok := byID[ct]; ok {
		return spec.MinPoints, spec.MaxPoints
	}
	return 2, 50
}

// SupportsLayout reports whether the chart type can render into the layout.
func SupportsLayout(ct types.ChartType, layout types.Layout) bool {
	spec, ok := byID[ct]
	return ok && spec.SupportsLayout(layout)
}

// IDsForLayout returns the chart-type ids compatible with a layout, used to
// populate INVALID_CHART_TYPE error details.
func IDsForLayout(layout types.Layout) []string {
	var out []string
	for _, s := range registry {
		if s.SupportsLayout(layout) {
			out = append(out, string(s.ID))
		}
	}
	return out
}

// closestID returns the best fuzzy match for an unknown id, or "" when
// nothing scores.
func closestID(id string) string {
	ids := make([]string, len(registry))
	for i, s := range registry {
		ids[i] = string(s.ID)
	}
	matches := fuzzy.Find(id, ids)
	if len(matches) == 0 {
		return ""
	}
	return ids[matches[0].Index]
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// chartConfig is the Chart.js configuration compiled to JSON. Everything is
// modeled as structs (not maps) except Scales, whose keys marshal in sorted
// order, so identical input produces byte-identical output.
type chartConfig struct {
	Type    string        `json:"type"`
	Data    interface{}   `json:"data"`
	Options *chartOptions `json:"options"`
}

type chartOptions struct {
	Responsive          bool                     `json:"responsive"`
	MaintainAspectRatio bool                     `json:"maintainAspectRatio"`
	IndexAxis           string                   `json:"indexAxis,omitempty"`
	Animation           *animationOptions        `json:"animation,omitempty"`
	Plugins             *pluginOptions           `json:"plugins"`
	Scales              map[string]*scaleOptions `json:"scales,omitempty"`
}

type animationOptions struct {
	Duration int `json:"duration"`
}

type pluginOptions struct {
	Legend     *legendOptions    `json:"legend"`
	Tooltip    *tooltipOptions   `json:"tooltip"`
	Title      *titleOptions     `json:"title,omitempty"`
	Datalabels *datalabelOptions `json:"datalabels,omitempty"`
}

type legendOptions struct {
	Display  bool         `json:"display"`
	Position string       `json:"position,omitempty"`
	Labels   *labelStyles `json:"labels,omitempty"`
}

type labelStyles struct {
	Color string     `json:"color,omitempty"`
	Font  *fontStyle `json:"font,omitempty"`
}

type tooltipOptions struct {
	Enabled   bool       `json:"enabled"`
	TitleFont *fontStyle `json:"titleFont,omitempty"`
	BodyFont  *fontStyle `json:"bodyFont,omitempty"`
}

type titleOptions struct {
	Display bool       `json:"display"`
	Text    string     `json:"text,omitempty"`
	Color   string     `json:"color,omitempty"`
	Font    *fontStyle `json:"font,omitempty"`
}

type datalabelOptions struct {
	Display bool       `json:"display"`
	Color   string     `json:"color,omitempty"`
	Anchor  string     `json:"anchor,omitempty"`
	Align   string     `json:"align,omitempty"`
	Font    *fontStyle `json:"font,omitempty"`
}

type fontStyle struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type scaleOptions struct {
	Type        string        `json:"type,omitempty"`
	Display     bool          `json:"display"`
	Stacked     bool          `json:"stacked,omitempty"`
	BeginAtZero bool          `json:"beginAtZero,omitempty"`
	Offset      bool          `json:"offset,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	Grid        *gridOptions  `json:"grid,omitempty"`
	Ticks       *tickOptions  `json:"ticks,omitempty"`
	Title       *titleOptions `json:"title,omitempty"`
	Min         *float64      `json:"min,omitempty"`
	Max         *float64      `json:"max,omitempty"`
}

type gridOptions struct {
	Display bool   `json:"display"`
	Color   string `json:"color,omitempty"`
}

type tickOptions struct {
	Color string     `json:"color,omitempty"`
	Font  *fontStyle `json:"font,omitempty"`
}

// axisTitle derives the value-axis caption from the format hint.
func axisTitle(hint types.FormatHint) string {
	switch hint {
	case types.FormatCurrency:
		return "Amount ($)"
	case types.FormatPercentage:
		return "Percentage (%)"
	}
	return "Value"
}

// applyConstraints copies the recognized caller constraints into the options.
// Unknown keys are ignored; the enforcement pass runs after this, so
// constraints can never disable legends, tooltips, axes, or datalabels.
func applyConstraints(opts *chartOptions, constraints map[string]interface{}) {
	if constraints == nil {
		return
	}

	if v, ok := constraints["legend_position"].(string); ok {
		switch v {
		case "top", "bottom", "left", "right":
			opts.Plugins.Legend.Position = v
		}
	}
	if v, ok := constraints["title"].(string); ok && v != "" {
		if opts.Plugins.Title == nil {
			opts.Plugins.Title = &titleOptions{}
		}
		opts.Plugins.Title.Display = true
		opts.Plugins.Title.Text = v
	}
	if v, ok := constraints["animation"].(bool); ok && !v {
		opts.Animation = &animationOptions{Duration: 0}
	}

	// Hide requests are accepted here and undone below; merging first keeps
	// the precedence observable in one place.
	if v, ok := constraints["show_legend"].(bool); ok {
		opts.Plugins.Legend.Display = v
	}
	if v, ok := constraints["show_grid"].(bool); ok {
		for _, s := range opts.Scales {
			if s.Grid != nil {
				s.Grid.Display = v
			}
		}
	}
	if v, ok := constraints["show_datalabels"].(bool); ok && opts.Plugins.Datalabels != nil {
		opts.Plugins.Datalabels.Display = v
	}
}

// enforceInvariants runs last: legends, tooltips, axes, axis titles, and
// gridlines are always on; datalabels are on for primitive-data charts and
// off for object-data charts (scatter, bubble), where the default renderer
// would print "[object Object]".
func enforceInvariants(cfg *chartConfig, family shaper.Family, theme Theme, hint types.FormatHint) {
	opts := cfg.Options
	opts.Plugins.Legend.Display = true
	opts.Plugins.Tooltip.Enabled = true

	for name, s := range opts.Scales {
		s.Display = true
		if s.Grid == nil {
			s.Grid = &gridOptions{}
		}
		s.Grid.Display = true
		if s.Grid.Color == "" {
			s.Grid.Color = theme.GridColor
		}
		if name == "y" || (name == "x" && opts.IndexAxis == "y") {
			if s.Title == nil {
				s.Title = &titleOptions{}
			}
			s.Title.Display = true
			if s.Title.Text == "" {
				s.Title.Text = axisTitle(hint)
			}
			if s.Title.Color == "" {
				s.Title.Color = theme.MutedColor
			}
		}
	}

	if family == shaper.FamilyPoints {
		opts.Plugins.Datalabels = &datalabelOptions{Display: false}
		return
	}
	if opts.Plugins.Datalabels == nil {
		opts.Plugins.Datalabels = &datalabelOptions{}
	}
	opts.Plugins.Datalabels.Display = true
	if opts.Plugins.Datalabels.Color == "" {
		opts.Plugins.Datalabels.Color = theme.TextColor
	}
	if opts.Plugins.Datalabels.Font == nil {
		opts.Plugins.Datalabels.Font = &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize, Weight: "600"}
	}
}

// baseOptions builds the option skeleton every Chart.js emitter starts from.
func baseOptions(theme Theme) *chartOptions {
	font := &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize}
	return &chartOptions{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: &pluginOptions{
			Legend: &legendOptions{
				Display:  true,
				Position: "top",
				Labels:   &labelStyles{Color: theme.TextColor, Font: font},
			},
			Tooltip: &tooltipOptions{
				Enabled:   true,
				TitleFont: &fontStyle{Family: theme.FontFamily, Size: theme.TooltipSize, Weight: "600"},
				BodyFont:  &fontStyle{Family: theme.FontFamily, Size: theme.TooltipSize},
			},
		},
	}
}

// cartesianScales builds the standard x/y pair with themed ticks and grid.
func cartesianScales(theme Theme) map[string]*scaleOptions {
	ticks := &tickOptions{
		Color: theme.MutedColor,
		Font:  &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize},
	}
	return map[string]*scaleOptions{
		"x": {
			Display: true,
			Grid:    &gridOptions{Display: true, Color: theme.GridColor},
			Ticks:   ticks,
		},
		"y": {
			Display:     true,
			BeginAtZero: true,
			Grid:        &gridOptions{Display: true, Color: theme.GridColor},
			Ticks:       ticks,
		},
	}
}

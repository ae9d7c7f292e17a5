// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Theme carries the palette and typography an emitter reads. Themes are
// value types; emitters never mutate them.
type Theme struct {
	Name        string   `yaml:"name"`
	Palette     []string `yaml:"palette"`
	FontFamily  string   `yaml:"font_family"`
	TextColor   string   `yaml:"text_color"`
	MutedColor  string   `yaml:"muted_color"`
	GridColor   string   `yaml:"grid_color"`
	TitleSize   int      `yaml:"title_size"`
	LabelSize   int      `yaml:"label_size"`
	TooltipSize int      `yaml:"tooltip_size"`
}

const defaultFontFamily = "'Inter', 'Helvetica Neue', Arial, sans-serif"

var builtinThemes = map[string]Theme{
	"professional": {
		Name: "professional",
		Palette: []string{
			"#2563eb", "#0891b2", "#059669", "#d97706", "#dc2626",
			"#7c3aed", "#db2777", "#4b5563", "#0d9488", "#b45309",
		},
		FontFamily:  defaultFontFamily,
		TextColor:   "#1f2937",
		MutedColor:  "#6b7280",
		GridColor:   "#e5e7eb",
		TitleSize:   18,
		LabelSize:   13,
		TooltipSize: 13,
	},
	"corporate": {
		Name: "corporate",
		Palette: []string{
			"#1e3a5f", "#34568b", "#5b7c99", "#8aa2b5", "#c75b39",
			"#e8a04c", "#6b7f5e", "#9b6b43", "#43657a", "#7a5c61",
		},
		FontFamily:  defaultFontFamily,
		TextColor:   "#22303e",
		MutedColor:  "#5d6b79",
		GridColor:   "#dde3e9",
		TitleSize:   18,
		LabelSize:   13,
		TooltipSize: 13,
	},
	"vibrant": {
		Name: "vibrant",
		Palette: []string{
			"#f43f5e", "#f97316", "#facc15", "#22c55e", "#06b6d4",
			"#3b82f6", "#8b5cf6", "#d946ef", "#14b8a6", "#84cc16",
		},
		FontFamily:  defaultFontFamily,
		TextColor:   "#18181b",
		MutedColor:  "#71717a",
		GridColor:   "#e4e4e7",
		TitleSize:   18,
		LabelSize:   13,
		TooltipSize: 13,
	},
}

// DefaultThemeName is used when the caller supplies no theme.
const DefaultThemeName = "professional"

// Themes resolves theme names, optionally overlaid from a YAML file that can
// be hot-reloaded. The zero value is not usable; construct with NewThemes.
type Themes struct {
	mu        sync.RWMutex
	overrides map[string]Theme
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
}

// NewThemes creates a theme resolver backed by the built-in palettes.
func NewThemes(logger *zap.Logger) *Themes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Themes{overrides: make(map[string]Theme), logger: logger}
}

// Get resolves a theme by name. Unknown or empty names fall back to the
// professional theme so emitters always have a palette.
func (t *Themes) Get(name string) Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultThemeName
	}

	t.mu.RLock()
	ov, hasOverride := t.overrides[name]
	t.mu.RUnlock()
	if hasOverride {
		return ov
	}
	if th, ok := builtinThemes[name]; ok {
		return th
	}
	return builtinThemes[DefaultThemeName]
}

// themeFile is the YAML override document: a map of theme name to theme.
type themeFile struct {
	Themes map[string]Theme `yaml:"themes"`
}

// LoadOverrides reads a YAML theme file. Missing fields inherit from the
// built-in theme of the same name (or professional for new names).
func (t *Themes) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read theme file: %w", err)
	}

	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}

	merged := make(map[string]Theme, len(tf.Themes))
	for name, ov := range tf.Themes {
		name = strings.ToLower(name)
		base, ok := builtinThemes[name]
		if !ok {
			base = builtinThemes[DefaultThemeName]
		}
		merged[name] = mergeTheme(base, ov, name)
	}

	t.mu.Lock()
	t.overrides = merged
	t.mu.Unlock()

	t.logger.Info("theme overrides loaded",
		zap.String("path", path),
		zap.Int("themes", len(merged)))
	return nil
}

// EnableReload watches the override file and reapplies it on change. The
// watcher runs until the process exits; editors that replace the file on
// save are handled by re-adding the path after a Remove event.
func (t *Themes) EnableReload(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create theme watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch theme file: %w", err)
	}
	t.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := t.LoadOverrides(path); err != nil {
						t.logger.Warn("theme reload failed", zap.Error(err))
					}
				}
				if event.Op&fsnotify.Remove != 0 {
					_ = watcher.Add(path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				t.logger.Warn("theme watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Close stops the reload watcher if one was enabled.
func (t *Themes) Close() error {
	if t.watcher != nil {
		return t.watcher.Close()
	}
	return nil
}

func mergeTheme(base, ov Theme, name string) Theme {
	out := base
	out.Name = name
	if len(ov.Palette) > 0 {
		out.Palette = ov.Palette
	}
	if ov.FontFamily != "" {
		out.FontFamily = ov.FontFamily
	}
	if ov.TextColor != "" {
		out.TextColor = ov.TextColor
	}
	if ov.MutedColor != "" {
		out.MutedColor = ov.MutedColor
	}
	if ov.GridColor != "" {
		out.GridColor = ov.GridColor
	}
	if ov.TitleSize > 0 {
		out.TitleSize = ov.TitleSize
	}
	if ov.LabelSize > 0 {
		out.LabelSize = ov.LabelSize
	}
	if ov.TooltipSize > 0 {
		out.TooltipSize = ov.TooltipSize
	}
	return out
}

// Color returns the palette color for a series index, cycling when the
// index exceeds the palette.
func (t Theme) Color(i int) string {
	if len(t.Palette) == 0 {
		return "#2563eb"
	}
	return t.Palette[i%len(t.Palette)]
}

// Colors returns n palette colors, cycling as needed.
func (t Theme) Colors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = t.Color(i)
	}
	return out
}

// BorderShade darkens a palette color for bar and segment borders.
func BorderShade(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	black, _ := colorful.Hex("#000000")
	return c.BlendLab(black, 0.25).Clamped().Hex()
}

// HoverShade lightens a palette color for hover emphasis.
func HoverShade(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	white, _ := colorful.Hex("#ffffff")
	return c.BlendLab(white, 0.2).Clamped().Hex()
}

// AlphaFill converts a hex color into an rgba() fill at the given opacity.
// Bubble fills use 0.7, area fills 0.25.
func AlphaFill(hex string, alpha float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, trimFloat(alpha))
}

// trimFloat renders a float without trailing zeros ("0.7", not "0.700000").
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

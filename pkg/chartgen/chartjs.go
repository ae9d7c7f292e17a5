// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// built pairs a compiled Chart.js config with the JavaScript statements that
// must run against the config object before construction. Function-valued
// members (tick callbacks, scriptable colors) cannot live in JSON, so each
// emitter attaches them via hooks that reference the local `cfg` variable.
type built struct {
	cfg   *chartConfig
	hooks []string
}

type chartData struct {
	Labels   []string      `json:"labels,omitempty"`
	Datasets []interface{} `json:"datasets"`
}

type barDataset struct {
	Label                string      `json:"label"`
	Data                 interface{} `json:"data"`
	BackgroundColor      interface{} `json:"backgroundColor,omitempty"`
	BorderColor          interface{} `json:"borderColor,omitempty"`
	BorderWidth          int         `json:"borderWidth,omitempty"`
	BorderRadius         int         `json:"borderRadius,omitempty"`
	HoverBackgroundColor interface{} `json:"hoverBackgroundColor,omitempty"`
}

type lineDataset struct {
	Label                string    `json:"label"`
	Type                 string    `json:"type,omitempty"`
	Data                 []float64 `json:"data"`
	BorderColor          string    `json:"borderColor"`
	BackgroundColor      string    `json:"backgroundColor,omitempty"`
	BorderWidth          int       `json:"borderWidth"`
	Fill                 bool      `json:"fill"`
	Tension              float64   `json:"tension"`
	PointRadius          int       `json:"pointRadius"`
	PointBackgroundColor string    `json:"pointBackgroundColor,omitempty"`
}

type pointJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r,omitempty"`
	Label string  `json:"label"`
}

type pointDataset struct {
	Label           string      `json:"label"`
	Data            []pointJSON `json:"data"`
	BackgroundColor interface{} `json:"backgroundColor,omitempty"`
	BorderColor     interface{} `json:"borderColor,omitempty"`
	PointRadius     int         `json:"pointRadius,omitempty"`
	PointHoverRadius int        `json:"pointHoverRadius,omitempty"`
}

type matrixCell struct {
	X string  `json:"x"`
	Y string  `json:"y"`
	V float64 `json:"v"`
}

type matrixDataset struct {
	Label           string       `json:"label"`
	Data            []matrixCell `json:"data"`
	BackgroundColor []string     `json:"backgroundColor"`
	BorderColor     string       `json:"borderColor"`
	BorderWidth     int          `json:"borderWidth"`
}

type treemapNode struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type treemapDataset struct {
	Label       string        `json:"label"`
	Tree        []treemapNode `json:"tree"`
	Key         string        `json:"key"`
	BorderColor string        `json:"borderColor"`
	BorderWidth int           `json:"borderWidth"`
	Spacing     float64       `json:"spacing"`
}

type sankeyLink struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Flow float64 `json:"flow"`
}

type sankeyDataset struct {
	Label     string       `json:"label"`
	Data      []sankeyLink `json:"data"`
	ColorMode string       `json:"colorMode"`
	NodeWidth int          `json:"nodeWidth"`
}

// buildChartJS dispatches the shaped payload to the emitter for its chart
// type. Boxplot and candlestick render through ApexCharts and never reach
// this function.
func buildChartJS(shaped *shaper.ShapedChartData, theme Theme) (*built, error) {
	switch shaped.ChartType {
	case types.ChartTypeLine:
		return buildLine(shaped, theme, false), nil
	case types.ChartTypeArea:
		return buildLine(shaped, theme, true), nil
	case types.ChartTypeAreaStacked:
		return buildAreaStacked(shaped, theme), nil
	case types.ChartTypeBarVertical:
		return buildBar(shaped, theme, false), nil
	case types.ChartTypeBarHorizontal:
		return buildBar(shaped, theme, true), nil
	case types.ChartTypeBarGrouped:
		return buildBarGrouped(shaped, theme, false), nil
	case types.ChartTypeBarStacked:
		return buildBarGrouped(shaped, theme, true), nil
	case types.ChartTypePie:
		return buildCircular(shaped, theme, "pie"), nil
	case types.ChartTypeDoughnut:
		return buildCircular(shaped, theme, "doughnut"), nil
	case types.ChartTypePolarArea:
		return buildCircular(shaped, theme, "polarArea"), nil
	case types.ChartTypeRadar:
		return buildRadar(shaped, theme), nil
	case types.ChartTypeScatter, types.ChartTypeBubble:
		return buildPoints(shaped, theme), nil
	case types.ChartTypeWaterfall:
		return buildWaterfall(shaped, theme), nil
	case types.ChartTypeMixed:
		return buildMixed(shaped, theme), nil
	case types.ChartTypeHeatmap:
		return buildHeatmap(shaped, theme), nil
	case types.ChartTypeTreemap:
		return buildTreemap(shaped, theme), nil
	case types.ChartTypeSankey:
		return buildSankey(shaped, theme), nil
	}
	return nil, fmt.Errorf("no chart.js emitter for chart type %s", shaped.ChartType)
}

func buildLine(shaped *shaper.ShapedChartData, theme Theme, fill bool) *built {
	s := shaped.Single
	color := theme.Color(0)

	ds := lineDataset{
		Label:                "Series",
		Data:                 s.Values,
		BorderColor:          color,
		BorderWidth:          2,
		Fill:                 fill,
		Tension:              0.3,
		PointRadius:          4,
		PointBackgroundColor: color,
	}
	if fill {
		ds.BackgroundColor = AlphaFill(color, 0.25)
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	cfg := &chartConfig{
		Type:    "line",
		Data:    chartData{Labels: s.Labels, Datasets: []interface{}{ds}},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildAreaStacked(shaped *shaper.ShapedChartData, theme Theme) *built {
	m := shaped.Multi
	datasets := make([]interface{}, len(m.Datasets))
	for i, d := range m.Datasets {
		color := theme.Color(i)
		datasets[i] = lineDataset{
			Label:                d.Label,
			Data:                 d.Data,
			BorderColor:          color,
			BackgroundColor:      AlphaFill(color, 0.45),
			BorderWidth:          2,
			Fill:                 true,
			Tension:              0.3,
			PointRadius:          3,
			PointBackgroundColor: color,
		}
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	opts.Scales["y"].Stacked = true
	cfg := &chartConfig{
		Type:    "line",
		Data:    chartData{Labels: m.Labels, Datasets: datasets},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildBar(shaped *shaper.ShapedChartData, theme Theme, horizontal bool) *built {
	s := shaped.Single
	colors := theme.Colors(len(s.Values))
	borders := make([]string, len(colors))
	hovers := make([]string, len(colors))
	for i, c := range colors {
		borders[i] = BorderShade(c)
		hovers[i] = HoverShade(c)
	}

	ds := barDataset{
		Label:                "Series",
		Data:                 s.Values,
		BackgroundColor:      colors,
		BorderColor:          borders,
		BorderWidth:          1,
		BorderRadius:         3,
		HoverBackgroundColor: hovers,
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	if horizontal {
		opts.IndexAxis = "y"
		opts.Scales["x"].BeginAtZero = true
		opts.Scales["y"].BeginAtZero = false
	}
	cfg := &chartConfig{
		Type:    "bar",
		Data:    chartData{Labels: s.Labels, Datasets: []interface{}{ds}},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildBarGrouped(shaped *shaper.ShapedChartData, theme Theme, stacked bool) *built {
	m := shaped.Multi
	datasets := make([]interface{}, len(m.Datasets))
	for i, d := range m.Datasets {
		color := theme.Color(i)
		datasets[i] = barDataset{
			Label:                d.Label,
			Data:                 d.Data,
			BackgroundColor:      color,
			BorderColor:          BorderShade(color),
			BorderWidth:          1,
			BorderRadius:         3,
			HoverBackgroundColor: HoverShade(color),
		}
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	if stacked {
		opts.Scales["x"].Stacked = true
		opts.Scales["y"].Stacked = true
	}
	cfg := &chartConfig{
		Type:    "bar",
		Data:    chartData{Labels: m.Labels, Datasets: datasets},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildCircular(shaped *shaper.ShapedChartData, theme Theme, chartType string) *built {
	s := shaped.Single
	colors := theme.Colors(len(s.Values))
	borders := make([]string, len(colors))
	for i, c := range colors {
		borders[i] = BorderShade(c)
	}

	ds := barDataset{
		Label:           "Series",
		Data:            s.Values,
		BackgroundColor: colors,
		BorderColor:     borders,
		BorderWidth:     1,
	}

	opts := baseOptions(theme)
	opts.Plugins.Legend.Position = "right"
	cfg := &chartConfig{
		Type:    chartType,
		Data:    chartData{Labels: s.Labels, Datasets: []interface{}{ds}},
		Options: opts,
	}
	b := &built{cfg: cfg}
	if chartType == "doughnut" {
		b.hooks = append(b.hooks, `cfg.options.cutout = '60%';`)
	}
	return b
}

func buildRadar(shaped *shaper.ShapedChartData, theme Theme) *built {
	m := shaped.Multi
	datasets := make([]interface{}, len(m.Datasets))
	for i, d := range m.Datasets {
		color := theme.Color(i)
		datasets[i] = lineDataset{
			Label:                d.Label,
			Data:                 d.Data,
			BorderColor:          color,
			BackgroundColor:      AlphaFill(color, 0.2),
			BorderWidth:          2,
			Fill:                 true,
			PointRadius:          3,
			PointBackgroundColor: color,
		}
	}

	opts := baseOptions(theme)
	opts.Scales = map[string]*scaleOptions{
		"r": {
			Display:     true,
			BeginAtZero: true,
			Grid:        &gridOptions{Display: true, Color: theme.GridColor},
			Ticks: &tickOptions{
				Color: theme.MutedColor,
				Font:  &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize - 2},
			},
		},
	}
	cfg := &chartConfig{
		Type:    "radar",
		Data:    chartData{Labels: m.Labels, Datasets: datasets},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildPoints(shaped *shaper.ShapedChartData, theme Theme) *built {
	bubble := shaped.ChartType == types.ChartTypeBubble
	datasets := make([]interface{}, len(shaped.Points.Datasets))
	var firstLabels []string

	for i, d := range shaped.Points.Datasets {
		color := theme.Color(i)
		data := make([]pointJSON, len(d.Data))
		for j, p := range d.Data {
			data[j] = pointJSON{X: p.X, Y: p.Y, Label: p.Label}
			if bubble {
				data[j].R = p.R
			}
			if i == 0 {
				firstLabels = append(firstLabels, p.Label)
			}
		}
		ds := pointDataset{
			Label:           d.Label,
			Data:            data,
			BackgroundColor: color,
			BorderColor:     color,
		}
		if bubble {
			ds.BackgroundColor = AlphaFill(color, 0.7)
		} else {
			// Scatter markers stay large and opaque so single points read
			// on a projected slide.
			ds.PointRadius = 10
			ds.PointHoverRadius = 12
		}
		datasets[i] = ds
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	opts.Scales["x"].Type = "linear"
	opts.Scales["x"].Offset = true

	chartType := "scatter"
	if bubble {
		chartType = "bubble"
	}
	cfg := &chartConfig{
		Type:    chartType,
		Data:    chartData{Datasets: datasets},
		Options: opts,
	}

	// The x axis is the label ordinal; ticks translate back to the original
	// labels and tooltips show the preserved label instead of "(x, y)".
	labelsJSON, _ := json.Marshal(firstLabels)
	b := &built{cfg: cfg}
	b.hooks = append(b.hooks,
		fmt.Sprintf(`var xLabels = %s;`, labelsJSON),
		`cfg.options.scales.x.ticks.stepSize = 1;`,
		`cfg.options.scales.x.ticks.callback = function(value) { return xLabels[value] !== undefined ? xLabels[value] : ''; };`,
		`cfg.options.plugins.tooltip.callbacks = { label: function(c) { var p = c.raw; var text = (p.label || '') + ': ' + p.y; if (p.r !== undefined) { text = text + ' (r ' + p.r.toFixed(1) + ')'; } return text; } };`,
	)
	return b
}

// buildWaterfall renders running-total movements as floating bars. Each bar
// spans [cumulative before, cumulative after]; gains, losses, and the first
// bar get distinct colors.
func buildWaterfall(shaped *shaper.ShapedChartData, theme Theme) *built {
	s := shaped.Single
	const (
		riseColor = "#16a34a"
		fallColor = "#dc2626"
	)

	bars := make([][2]float64, len(s.Values))
	colors := make([]string, len(s.Values))
	borders := make([]string, len(s.Values))
	running := 0.0
	for i, v := range s.Values {
		start := running
		running += v
		bars[i] = [2]float64{start, running}
		switch {
		case i == 0:
			colors[i] = theme.Color(0)
		case v >= 0:
			colors[i] = riseColor
		default:
			colors[i] = fallColor
		}
		borders[i] = BorderShade(colors[i])
	}

	ds := barDataset{
		Label:           "Change",
		Data:            bars,
		BackgroundColor: colors,
		BorderColor:     borders,
		BorderWidth:     1,
		BorderRadius:    2,
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	opts.Scales["y"].BeginAtZero = false
	cfg := &chartConfig{
		Type:    "bar",
		Data:    chartData{Labels: s.Labels, Datasets: []interface{}{ds}},
		Options: opts,
	}

	b := &built{cfg: cfg}
	b.hooks = append(b.hooks,
		`cfg.options.plugins.tooltip.callbacks = { label: function(c) { var span = c.raw; var delta = span[1] - span[0]; var sign = delta >= 0 ? '+' : ''; return sign + delta.toLocaleString() + ' (total ' + span[1].toLocaleString() + ')'; } };`,
	)
	return b
}

func buildMixed(shaped *shaper.ShapedChartData, theme Theme) *built {
	m := shaped.Multi
	datasets := make([]interface{}, len(m.Datasets))
	for i, d := range m.Datasets {
		color := theme.Color(i)
		if d.Type == "line" {
			datasets[i] = lineDataset{
				Label:                d.Label,
				Type:                 "line",
				Data:                 d.Data,
				BorderColor:          color,
				BorderWidth:          2,
				Tension:              0.3,
				PointRadius:          4,
				PointBackgroundColor: color,
			}
			continue
		}
		datasets[i] = barDataset{
			Label:                d.Label,
			Data:                 d.Data,
			BackgroundColor:      color,
			BorderColor:          BorderShade(color),
			BorderWidth:          1,
			BorderRadius:         3,
			HoverBackgroundColor: HoverShade(color),
		}
	}

	opts := baseOptions(theme)
	opts.Scales = cartesianScales(theme)
	cfg := &chartConfig{
		Type:    "bar",
		Data:    chartData{Labels: m.Labels, Datasets: datasets},
		Options: opts,
	}
	return &built{cfg: cfg}
}

func buildHeatmap(shaped *shaper.ShapedChartData, theme Theme) *built {
	m := shaped.Matrix

	var min, max float64
	first := true
	for _, row := range m.Values {
		for _, v := range row {
			if first || v < min {
				min = v
			}
			if first || v > max {
				max = v
			}
			first = false
		}
	}

	var cells []matrixCell
	var colors []string
	for yi, row := range m.Values {
		for xi, v := range row {
			cells = append(cells, matrixCell{X: m.XLabels[xi], Y: m.YLabels[yi], V: v})
			colors = append(colors, heatColor(v, min, max, theme))
		}
	}

	ds := matrixDataset{
		Label:           "Matrix",
		Data:            cells,
		BackgroundColor: colors,
		BorderColor:     "#ffffff",
		BorderWidth:     1,
	}

	opts := baseOptions(theme)
	opts.Scales = map[string]*scaleOptions{
		"x": {
			Type:    "category",
			Display: true,
			Labels:  m.XLabels,
			Offset:  true,
			Grid:    &gridOptions{Display: true, Color: theme.GridColor},
			Ticks: &tickOptions{
				Color: theme.MutedColor,
				Font:  &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize},
			},
		},
		"y": {
			Type:    "category",
			Display: true,
			Labels:  m.YLabels,
			Offset:  true,
			Grid:    &gridOptions{Display: true, Color: theme.GridColor},
			Ticks: &tickOptions{
				Color: theme.MutedColor,
				Font:  &fontStyle{Family: theme.FontFamily, Size: theme.LabelSize},
			},
		},
	}
	cfg := &chartConfig{
		Type:    "matrix",
		Data:    chartData{Datasets: []interface{}{ds}},
		Options: opts,
	}

	xCount, yCount := len(m.XLabels), len(m.YLabels)
	b := &built{cfg: cfg}
	b.hooks = append(b.hooks,
		fmt.Sprintf(`cfg.data.datasets[0].width = function(c) { var a = c.chart.chartArea; return a ? (a.right - a.left) / %d - 2 : 24; };`, xCount),
		fmt.Sprintf(`cfg.data.datasets[0].height = function(c) { var a = c.chart.chartArea; return a ? (a.bottom - a.top) / %d - 2 : 24; };`, yCount),
		`cfg.options.plugins.tooltip.callbacks = { title: function(items) { var cell = items[0].raw; return cell.y + ' / ' + cell.x; }, label: function(c) { return 'value: ' + c.raw.v.toLocaleString(); } };`,
	)
	return b
}

// heatColor blends the cell value into a light-to-primary ramp.
func heatColor(v, min, max float64, theme Theme) string {
	t := 0.5
	if max > min {
		t = (v - min) / (max - min)
	}
	low, err := colorful.Hex("#f1f5f9")
	if err != nil {
		return theme.Color(0)
	}
	high, err := colorful.Hex(theme.Color(0))
	if err != nil {
		return theme.Color(0)
	}
	return low.BlendLab(high, 0.15+0.85*t).Clamped().Hex()
}

func buildTreemap(shaped *shaper.ShapedChartData, theme Theme) *built {
	s := shaped.Single
	tree := make([]treemapNode, len(s.Values))
	for i := range s.Values {
		tree[i] = treemapNode{Label: s.Labels[i], Value: s.Values[i]}
	}

	ds := treemapDataset{
		Label:       "Composition",
		Tree:        tree,
		Key:         "value",
		BorderColor: "#ffffff",
		BorderWidth: 2,
		Spacing:     1,
	}

	opts := baseOptions(theme)
	cfg := &chartConfig{
		Type:    "treemap",
		Data:    chartData{Datasets: []interface{}{ds}},
		Options: opts,
	}

	paletteJSON, _ := json.Marshal(theme.Colors(len(tree)))
	b := &built{cfg: cfg}
	b.hooks = append(b.hooks,
		fmt.Sprintf(`var palette = %s;`, paletteJSON),
		`cfg.data.datasets[0].backgroundColor = function(c) { return c.type === 'data' ? palette[c.dataIndex % palette.length] : 'transparent'; };`,
		`cfg.data.datasets[0].labels = { display: true, color: '#ffffff', font: { weight: '600' }, formatter: function(c) { var node = c.raw._data; return node.label + ': ' + node.value.toLocaleString(); } };`,
		`cfg.options.plugins.tooltip.callbacks = { label: function(c) { var node = c.raw._data; return node.label + ': ' + node.value.toLocaleString(); } };`,
	)
	return b
}

func buildSankey(shaped *shaper.ShapedChartData, theme Theme) *built {
	f := shaped.Flow
	links := make([]sankeyLink, len(f.Links))
	for i, l := range f.Links {
		links[i] = sankeyLink{From: l.Source, To: l.Target, Flow: l.Value}
	}

	// Stable node → color assignment keyed by declaration order.
	nodeColors := make(map[string]string, len(f.Nodes))
	for i, n := range f.Nodes {
		nodeColors[n.ID] = theme.Color(i)
	}

	ds := sankeyDataset{
		Label:     "Flow",
		Data:      links,
		ColorMode: "gradient",
		NodeWidth: 16,
	}

	opts := baseOptions(theme)
	cfg := &chartConfig{
		Type:    "sankey",
		Data:    chartData{Datasets: []interface{}{ds}},
		Options: opts,
	}

	colorsJSON, _ := json.Marshal(nodeColors)
	b := &built{cfg: cfg}
	b.hooks = append(b.hooks,
		fmt.Sprintf(`var nodeColors = %s;`, colorsJSON),
		fmt.Sprintf(`var fallbackColor = %q;`, theme.Color(0)),
		`cfg.data.datasets[0].colorFrom = function(c) { return nodeColors[c.dataset.data[c.dataIndex].from] || fallbackColor; };`,
		`cfg.data.datasets[0].colorTo = function(c) { return nodeColors[c.dataset.data[c.dataIndex].to] || fallbackColor; };`,
		`cfg.options.plugins.tooltip.callbacks = { label: function(c) { var link = c.dataset.data[c.dataIndex]; return link.from + ' → ' + link.to + ': ' + link.flow.toLocaleString(); } };`,
	)
	return b
}

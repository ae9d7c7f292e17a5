// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package layout assembles chart fragments and insight text into the
// element-keyed slide content map consumed by the downstream deck builder.
// The element keys and the observations panel CSS are a wire contract with
// that builder and must not drift.
package layout

import (
	"fmt"
	"html"
	"strings"

	"github.com/teradata-labs/easel/pkg/types"
)

// Observations panel dimensions for the chart-with-panel layout. The panel
// sits beside a 1260px chart on a 1920px slide.
const (
	panelWidth  = 540
	panelHeight = 720
)

// panelHeading is the fixed title of the observations panel.
const panelHeading = "Key Observations"

// Input carries one slide's assembled parts. SecondChartHTML and
// SecondInsightText are consumed by the comparison layout only.
type Input struct {
	Layout           types.Layout
	SlideTitle       string
	Subtitle         string
	PresentationName string
	CompanyLogo      string
	ChartHTML        string
	SecondChartHTML  string
	InsightText      string
}

// Assemble builds the slide content map for the layout. Exactly the keys the
// layout requires are emitted. Chart fragments are embedded raw; they are
// generator-owned HTML. Every user-originated string is escaped here.
func Assemble(in Input) (types.SlideContent, error) {
	content := types.SlideContent{
		types.KeySlideTitle:       html.EscapeString(in.SlideTitle),
		types.KeyElement1:         html.EscapeString(in.Subtitle),
		types.KeyPresentationName: html.EscapeString(in.PresentationName),
		types.KeyCompanyLogo:      html.EscapeString(in.CompanyLogo),
	}

	switch in.Layout {
	case types.LayoutL01:
		content[types.KeyElement4] = in.ChartHTML
		content[types.KeyElement3] = html.EscapeString(in.InsightText)
	case types.LayoutL02:
		content[types.KeyElement3] = in.ChartHTML
		content[types.KeyElement2] = observationsPanel(in.InsightText)
	case types.LayoutL03:
		if in.SecondChartHTML == "" {
			return nil, fmt.Errorf("layout %s requires two charts", in.Layout)
		}
		first, second := splitInsight(in.InsightText)
		content[types.KeyElement4] = in.ChartHTML
		content[types.KeyElement2] = in.SecondChartHTML
		content[types.KeyElement3] = html.EscapeString(first)
		content[types.KeyElement5] = html.EscapeString(second)
	default:
		return nil, fmt.Errorf("unknown layout %q", in.Layout)
	}
	return content, nil
}

// observationsPanel renders the fixed-size side panel. The style literals
// are pinned by the downstream deck builder; change them only together.
func observationsPanel(text string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<div style="width: %dpx; height: %dpx; padding: 40px 32px; background: #f8f9fa; border-radius: 8px; overflow-y: auto; box-sizing: border-box;">`,
		panelWidth, panelHeight)
	b.WriteString(`<h3 style="font-family: Inter, sans-serif; font-size: 20px; font-weight: 600; color: #1f2937; margin: 0 0 16px 0; line-height: 1.3;">`)
	b.WriteString(html.EscapeString(panelHeading))
	b.WriteString(`</h3>`)

	paras := splitParagraphs(text)
	for i, p := range paras {
		margin := "0 0 12px 0"
		if i == len(paras)-1 {
			margin = "0"
		}
		fmt.Fprintf(&b,
			`<p style="font-family: Inter, sans-serif; font-size: 16px; line-height: 1.6; color: #374151; margin: %s;">%s</p>`,
			margin, html.EscapeString(p))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// splitParagraphs breaks insight text into paragraphs: blank lines first,
// then single newlines, then the whole string as one paragraph.
func splitParagraphs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{""}
	}
	for _, sep := range []string{"\n\n", "\n"} {
		if strings.Contains(text, sep) {
			raw := strings.Split(text, sep)
			out := make([]string, 0, len(raw))
			for _, p := range raw {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{text}
}

// splitInsight divides text across the comparison layout's two description
// panels. A single paragraph goes to the first panel; the second stays empty
// rather than duplicating it.
func splitInsight(text string) (string, string) {
	paras := splitParagraphs(text)
	if len(paras) == 1 {
		return paras[0], ""
	}
	return paras[0], strings.Join(paras[1:], " ")
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/easel/internal/testutil"
	"github.com/teradata-labs/easel/pkg/types"
)

const chartFragment = `<div id="c1_container"><canvas id="c1"></canvas></div>`

func baseInput(l types.Layout) Input {
	return Input{
		Layout:           l,
		SlideTitle:       "Q4 Revenue",
		Subtitle:         "FY2026",
		PresentationName: "Board Review",
		ChartHTML:        chartFragment,
		InsightText:      "Revenue grew 57%.\n\nQ4 led all quarters.",
	}
}

func TestAssembleL02Keys(t *testing.T) {
	content, err := Assemble(baseInput(types.LayoutL02))
	require.NoError(t, err)

	assert.Equal(t, chartFragment, content[types.KeyElement3])
	assert.Contains(t, content[types.KeyElement2], "Key Observations")
	for _, key := range []string{types.KeyElement4, types.KeyElement5} {
		_, present := content[key]
		assert.False(t, present, key)
	}
	assert.Equal(t, "Q4 Revenue", content[types.KeySlideTitle])
	assert.Equal(t, "Board Review", content[types.KeyPresentationName])
}

func TestObservationsPanelStyleContract(t *testing.T) {
	content, err := Assemble(baseInput(types.LayoutL02))
	require.NoError(t, err)
	panel := content[types.KeyElement2]

	for _, literal := range []string{
		"width: 540px",
		"height: 720px",
		"padding: 40px 32px",
		"background: #f8f9fa",
		"border-radius: 8px",
		"overflow-y: auto",
		"box-sizing: border-box",
		"font-size: 20px",
		"font-weight: 600",
		"color: #1f2937",
		"margin: 0 0 16px 0",
		"line-height: 1.3",
		"font-size: 16px",
		"line-height: 1.6",
		"color: #374151",
	} {
		assert.Contains(t, panel, literal)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	first, err := Assemble(baseInput(types.LayoutL02))
	require.NoError(t, err)
	second, err := Assemble(baseInput(types.LayoutL02))
	require.NoError(t, err)

	for key, want := range first {
		if got := second[key]; got != want {
			t.Errorf("%s differs between assemblies:\n%s", key, testutil.FragmentDiff(want, got))
		}
	}
}

func TestPanelLastParagraphMargin(t *testing.T) {
	content, err := Assemble(baseInput(types.LayoutL02))
	require.NoError(t, err)
	panel := content[types.KeyElement2]

	assert.Equal(t, 2, strings.Count(panel, "<p "))
	assert.Equal(t, 1, strings.Count(panel, "margin: 0 0 12px 0;"))
	// last paragraph collapses its bottom margin
	assert.Contains(t, panel, `margin: 0;">Q4 led all quarters.</p></div>`)
}

func TestAssembleL01Keys(t *testing.T) {
	in := baseInput(types.LayoutL01)
	in.InsightText = "Revenue grew 57%."
	content, err := Assemble(in)
	require.NoError(t, err)

	assert.Equal(t, chartFragment, content[types.KeyElement4])
	assert.Equal(t, "Revenue grew 57%.", content[types.KeyElement3])
	for _, key := range []string{types.KeyElement2, types.KeyElement5} {
		_, present := content[key]
		assert.False(t, present, key)
	}
}

func TestAssembleL03Keys(t *testing.T) {
	second := `<div id="c2_container"><canvas id="c2"></canvas></div>`
	in := baseInput(types.LayoutL03)
	in.SecondChartHTML = second
	content, err := Assemble(in)
	require.NoError(t, err)

	assert.Equal(t, chartFragment, content[types.KeyElement4])
	assert.Equal(t, second, content[types.KeyElement2])
	assert.Equal(t, "Revenue grew 57%.", content[types.KeyElement3])
	assert.Equal(t, "Q4 led all quarters.", content[types.KeyElement5])
}

func TestAssembleL03RequiresSecondChart(t *testing.T) {
	_, err := Assemble(baseInput(types.LayoutL03))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two charts")
}

func TestAssembleUnknownLayout(t *testing.T) {
	in := baseInput("L99")
	_, err := Assemble(in)
	require.Error(t, err)
}

func TestUserTextEscaped(t *testing.T) {
	in := baseInput(types.LayoutL02)
	in.SlideTitle = `<script>alert("x")</script>`
	in.InsightText = `Growth <b>57%</b> & rising`
	content, err := Assemble(in)
	require.NoError(t, err)

	assert.NotContains(t, content[types.KeySlideTitle], "<script>")
	assert.Contains(t, content[types.KeyElement2], "&lt;b&gt;57%&lt;/b&gt; &amp; rising")
	// chart fragments stay raw
	assert.Contains(t, content[types.KeyElement3], "<canvas")
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"blank lines", "a\n\nb\n\nc", []string{"a", "b", "c"}},
		{"single newlines", "a\nb", []string{"a", "b"}},
		{"whole string", "just one paragraph", []string{"just one paragraph"}},
		{"empty", "", []string{""}},
		{"surrounding whitespace", "  a  \n\n  b  ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitParagraphs(tt.in))
		})
	}
}

func TestSplitInsightSingleParagraph(t *testing.T) {
	first, second := splitInsight("only one observation")
	assert.Equal(t, "only one observation", first)
	assert.Empty(t, second)
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package insight

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// promptTokenBudget caps the combined system+user prompt. Narratives are the
// only unbounded input, so they get trimmed first when the budget is hit.
const promptTokenBudget = 2000

// maxNarrativeChars bounds the narrative before token counting even starts.
const maxNarrativeChars = 1200

var englishPrinter = message.NewPrinter(language.English)

// formatValue renders a value for prose the same way the chart axes render
// it: currency with a dollar sign, percentage with a trailing percent sign,
// plain numbers with thousands separators.
func formatValue(v float64, hint types.FormatHint) string {
	dec := englishPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(1)))
	switch hint {
	case types.FormatCurrency:
		return "$" + dec
	case types.FormatPercentage:
		return dec + "%"
	default:
		return dec
	}
}

// dataSummary flattens the shaped series statistics into a single line the
// model can quote values from.
func dataSummary(st shaper.Stats, hint types.FormatHint) string {
	if st.Count == 0 {
		return "no data points"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d data points; total %s, mean %s",
		st.Count, formatValue(st.Total, hint), formatValue(st.Mean, hint))
	if st.MaxLabel != "" {
		fmt.Fprintf(&b, "; highest %s at %s", formatValue(st.Max, hint), st.MaxLabel)
	} else {
		fmt.Fprintf(&b, "; highest %s", formatValue(st.Max, hint))
	}
	if st.MinLabel != "" {
		fmt.Fprintf(&b, "; lowest %s at %s", formatValue(st.Min, hint), st.MinLabel)
	} else {
		fmt.Fprintf(&b, "; lowest %s", formatValue(st.Min, hint))
	}
	if st.FirstLbl != "" && st.LastLbl != "" && st.FirstLbl != st.LastLbl {
		fmt.Fprintf(&b, "; moved from %s (%s) to %s (%s), a change of %s",
			formatValue(st.First, hint), st.FirstLbl,
			formatValue(st.Last, hint), st.LastLbl,
			englishPrinter.Sprintf("%v%%", number.Decimal(st.ChangePct, number.MaxFractionDigits(1))))
	}
	return b.String()
}

func promptKey(layout types.Layout) string {
	switch layout {
	case types.LayoutL01:
		return "insight.l01"
	case types.LayoutL03:
		return "insight.l03"
	default:
		return "insight.l02"
	}
}

// buildPrompts renders the system and user prompts for the request. When the
// rendered pair exceeds the token budget the narrative is halved until the
// prompt fits or the narrative is gone.
func (g *Generator) buildPrompts(in Input) (system, user string, err error) {
	audience := in.Audience
	if audience == "" {
		audience = "a business audience"
	}
	system, err = g.registry.Get("insight.system", map[string]interface{}{
		"audience": audience,
	})
	if err != nil {
		return "", "", err
	}

	narrative := in.Narrative
	if len(narrative) > maxNarrativeChars {
		narrative = truncate(narrative, maxNarrativeChars)
	}
	summary := dataSummary(in.Stats, in.FormatHint)
	key := promptKey(in.Layout)
	tc := getTokenCounter()

	for {
		user, err = g.registry.Get(key, map[string]interface{}{
			"narrative":      narrative,
			"analytics_type": string(in.AnalyticsType),
			"chart_type":     string(in.ChartType),
			"data_summary":   summary,
			"char_budget":    CharBudget(in.Layout),
		})
		if err != nil {
			return "", "", err
		}
		if tc.Count(system)+tc.Count(user) <= promptTokenBudget || narrative == "" {
			return system, user, nil
		}
		narrative = truncate(narrative, len(narrative)/2)
	}
}

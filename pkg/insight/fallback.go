// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package insight

import (
	"fmt"
	"strings"

	"golang.org/x/text/number"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// fallbackText produces deterministic observations straight from the series
// statistics. It is used whenever the language model is unavailable, times
// out, or returns unusable output, so a slide never ships without prose.
func fallbackText(in Input) string {
	st := in.Stats
	if st.Count == 0 {
		return "No data points were available for this analysis."
	}

	head := fallbackHeadline(in.AnalyticsType, st, in.FormatHint)
	detail := fallbackDetail(st, in.FormatHint)
	if in.Layout == types.LayoutL01 {
		return head
	}
	return head + "\n\n" + detail
}

func fallbackHeadline(at types.AnalyticsType, st shaper.Stats, hint types.FormatHint) string {
	change := englishPrinter.Sprintf("%v%%", number.Decimal(st.ChangePct, number.MaxFractionDigits(1)))
	switch at {
	case types.AnalyticsRevenueOverTime:
		return fmt.Sprintf("Revenue totaled %s across %d periods, moving from %s in %s to %s in %s (%s).",
			formatValue(st.Total, hint), st.Count,
			formatValue(st.First, hint), st.FirstLbl,
			formatValue(st.Last, hint), st.LastLbl, signed(change, st.ChangePct))
	case types.AnalyticsQuarterlyComparison:
		return fmt.Sprintf("Across %d quarters the values ranged from %s (%s) to %s (%s), averaging %s.",
			st.Count, formatValue(st.Min, hint), st.MinLabel,
			formatValue(st.Max, hint), st.MaxLabel, formatValue(st.Mean, hint))
	case types.AnalyticsYoYGrowth:
		return fmt.Sprintf("Year over year the series moved %s, from %s in %s to %s in %s.",
			signed(change, st.ChangePct),
			formatValue(st.First, hint), st.FirstLbl,
			formatValue(st.Last, hint), st.LastLbl)
	case types.AnalyticsMarketShare:
		return fmt.Sprintf("%s holds the largest share at %s of a %s total across %d segments.",
			st.MaxLabel, formatValue(st.Max, hint), formatValue(st.Total, hint), st.Count)
	case types.AnalyticsCategoryRanking:
		return fmt.Sprintf("%s leads the ranking at %s, ahead of %d other categories; %s trails at %s.",
			st.MaxLabel, formatValue(st.Max, hint), st.Count-1,
			st.MinLabel, formatValue(st.Min, hint))
	case types.AnalyticsKPIMetrics:
		return fmt.Sprintf("Across %d metrics the values span %s to %s, with %s the strongest at %s.",
			st.Count, formatValue(st.Min, hint), formatValue(st.Max, hint),
			st.MaxLabel, formatValue(st.Max, hint))
	case types.AnalyticsCorrelationAnalysis:
		return fmt.Sprintf("The %d observations span %s to %s on the vertical axis, averaging %s.",
			st.Count, formatValue(st.Min, hint), formatValue(st.Max, hint), formatValue(st.Mean, hint))
	case types.AnalyticsMultidimensionalAnalysis:
		return fmt.Sprintf("Across %d observations the measured values range from %s to %s with a mean of %s.",
			st.Count, formatValue(st.Min, hint), formatValue(st.Max, hint), formatValue(st.Mean, hint))
	case types.AnalyticsMultiMetricComparison:
		return fmt.Sprintf("The primary series covers %d points between %s and %s, averaging %s.",
			st.Count, formatValue(st.Min, hint), formatValue(st.Max, hint), formatValue(st.Mean, hint))
	default:
		return fmt.Sprintf("The series covers %d points between %s and %s, averaging %s.",
			st.Count, formatValue(st.Min, hint), formatValue(st.Max, hint), formatValue(st.Mean, hint))
	}
}

func fallbackDetail(st shaper.Stats, hint types.FormatHint) string {
	var parts []string
	if st.MaxLabel != "" {
		parts = append(parts, fmt.Sprintf("The peak is %s at %s", formatValue(st.Max, hint), st.MaxLabel))
	} else {
		parts = append(parts, fmt.Sprintf("The peak is %s", formatValue(st.Max, hint)))
	}
	if st.MinLabel != "" {
		parts = append(parts, fmt.Sprintf("the low is %s at %s", formatValue(st.Min, hint), st.MinLabel))
	} else {
		parts = append(parts, fmt.Sprintf("the low is %s", formatValue(st.Min, hint)))
	}
	return strings.Join(parts, "; ") + "."
}

func signed(change string, pct float64) string {
	if pct > 0 && !strings.HasPrefix(change, "+") {
		return "up " + change
	}
	if pct < 0 {
		return "down " + strings.TrimPrefix(change, "-")
	}
	return "flat at " + change
}

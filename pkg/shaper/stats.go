// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package shaper

import "math"

// Stats summarizes the shaped payload's primary value sequence. The insight
// layer renders these numbers into observation text, so every field must be
// derivable without the LLM.
type Stats struct {
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	Total    float64
	MinLabel string
	MaxLabel string

	// First/Last describe the sequence endpoints for ordered series;
	// ChangePct is the relative move between them (0 when First is 0).
	First     float64
	Last      float64
	FirstLbl  string
	LastLbl   string
	ChangePct float64
}

// Stats computes the summary over the family's primary values: the series
// itself for single/multi shapes, Y for point clouds, medians for boxplots,
// closes for candlesticks, cell values for heatmaps and link values for
// sankeys.
func (s *ShapedChartData) Stats() Stats {
	labels, values := s.primarySequence()
	st := Stats{Count: len(values)}
	if len(values) == 0 {
		return st
	}

	st.Min, st.Max = math.Inf(1), math.Inf(-1)
	for i, v := range values {
		st.Total += v
		if v < st.Min {
			st.Min = v
			st.MinLabel = labelAt(labels, i)
		}
		if v > st.Max {
			st.Max = v
			st.MaxLabel = labelAt(labels, i)
		}
	}
	st.Mean = st.Total / float64(len(values))

	st.First, st.Last = values[0], values[len(values)-1]
	st.FirstLbl = labelAt(labels, 0)
	st.LastLbl = labelAt(labels, len(labels)-1)
	if st.First != 0 {
		st.ChangePct = (st.Last - st.First) / math.Abs(st.First) * 100
	}
	return st
}

func (s *ShapedChartData) primarySequence() ([]string, []float64) {
	switch s.Family {
	case FamilySingle:
		return s.Single.Labels, s.Single.Values
	case FamilyMulti:
		if len(s.Multi.Datasets) == 0 {
			return nil, nil
		}
		return s.Multi.Labels, s.Multi.Datasets[0].Data
	case FamilyPoints:
		if len(s.Points.Datasets) == 0 {
			return nil, nil
		}
		pts := s.Points.Datasets[0].Data
		labels := make([]string, len(pts))
		values := make([]float64, len(pts))
		for i, p := range pts {
			labels[i] = p.Label
			values[i] = p.Y
		}
		return labels, values
	case FamilyMatrix:
		var values []float64
		for _, row := range s.Matrix.Values {
			values = append(values, row...)
		}
		return nil, values
	case FamilyBoxplot:
		if len(s.Boxplot.Datasets) == 0 {
			return nil, nil
		}
		rows := s.Boxplot.Datasets[0].Data
		values := make([]float64, 0, len(rows))
		for _, row := range rows {
			if len(row) == 5 {
				values = append(values, row[2])
			}
		}
		return s.Boxplot.Labels, values
	case FamilyOHLC:
		if len(s.OHLC.Datasets) == 0 {
			return nil, nil
		}
		bars := s.OHLC.Datasets[0].Data
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.C
		}
		return s.OHLC.Labels, values
	case FamilyFlow:
		labels := make([]string, len(s.Flow.Links))
		values := make([]float64, len(s.Flow.Links))
		for i, l := range s.Flow.Links {
			labels[i] = l.Source + " → " + l.Target
			values[i] = l.Value
		}
		return labels, values
	}
	return nil, nil
}

func labelAt(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return ""
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package dataset loads label/value pairs from spreadsheet and CSV files for
// offline fragment generation. Only the first two columns are read; a header
// row is detected and skipped when the second cell is not numeric.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/teradata-labs/easel/pkg/types"
)

// MaxRows caps how many data rows a file may contribute; the service rejects
// datasets above 50 points anyway.
const MaxRows = 1000

// Load reads a dataset file, dispatching on extension (.xlsx, .csv).
func Load(path string) ([]types.ChartDataPoint, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (use .xlsx or .csv)", filepath.Ext(path))
	}
}

// LoadXLSX reads the first sheet's first two columns.
func LoadXLSX(path string) ([]types.ChartDataPoint, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return pointsFromRows(rows)
}

// LoadCSV reads the first two columns of a comma-separated file.
func LoadCSV(path string) ([]types.ChartDataPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return pointsFromRows(rows)
}

func pointsFromRows(rows [][]string) ([]types.ChartDataPoint, error) {
	if len(rows) > MaxRows {
		return nil, fmt.Errorf("dataset has %d rows, limit is %d", len(rows), MaxRows)
	}

	var points []types.ChartDataPoint
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(row[0])
		raw := strings.TrimSpace(row[1])
		if label == "" && raw == "" {
			continue
		}

		value, err := parseNumber(raw)
		if err != nil {
			// a non-numeric second cell on the first row is the header
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: value %q is not a number", i+1, raw)
		}
		points = append(points, types.ChartDataPoint{Label: label, Value: value})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return points, nil
}

// parseNumber accepts localized renderings: thousands separators, currency
// prefixes and a trailing percent sign are stripped before parsing.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

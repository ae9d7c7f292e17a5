// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/easel/pkg/types"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := Open(Config{DSN: filepath.Join(t.TempDir(), "charts.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func singlePayload() json.RawMessage {
	return json.RawMessage(`{"family":"single_series","rows":[
		{"label":"Q1","value":97000},
		{"label":"Q2","value":112000}
	]}`)
}

func TestUpsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	res, err := store.UpsertChartData(ctx, Record{
		ChartID:        "chart_a",
		PresentationID: "deck_001",
		Payload:        singlePayload(),
	})
	require.NoError(t, err)
	assert.False(t, res.UpdatedAt.IsZero())

	recs, err := store.GetChartData(ctx, "deck_001")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "chart_a", recs[0].ChartID)
	assert.JSONEq(t, string(singlePayload()), string(recs[0].Payload))
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := Record{ChartID: "chart_a", PresentationID: "deck_001", Payload: singlePayload()}
	_, err := store.UpsertChartData(ctx, rec)
	require.NoError(t, err)

	rec.Payload = json.RawMessage(`{"family":"single_series","rows":[
		{"label":"Q1","value":1},{"label":"Q2","value":2}]}`)
	_, err = store.UpsertChartData(ctx, rec)
	require.NoError(t, err)

	recs, err := store.GetChartData(ctx, "deck_001")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Contains(t, string(recs[0].Payload), `"value":2`)
}

func TestGetUnknownPresentationReturnsEmpty(t *testing.T) {
	store := openTestStore(t)
	recs, err := store.GetChartData(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestUpsertRequiresKeys(t *testing.T) {
	store := openTestStore(t)
	_, err := store.UpsertChartData(context.Background(), Record{Payload: singlePayload()})
	require.Error(t, err)
}

func TestUpsertRejectsInvalidPayload(t *testing.T) {
	store := openTestStore(t)
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `not json`},
		{"unknown family", `{"family":"mystery","rows":[]}`},
		{"too few rows", `{"family":"single_series","rows":[{"label":"a","value":1}]}`},
		{"missing value", `{"family":"single_series","rows":[{"label":"a"},{"label":"b"}]}`},
		{"extra key", `{"family":"single_series","rows":[{"label":"a","value":1,"color":"red"},{"label":"b","value":2}]}`},
		{"point missing y", `{"family":"point_series","rows":[{"label":"a","x":1},{"label":"b","x":2,"y":3}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UpsertChartData(context.Background(), Record{
				ChartID:        "chart_a",
				PresentationID: "deck_001",
				Payload:        json.RawMessage(tt.payload),
			})
			require.Error(t, err)
			serr, ok := types.AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, types.ErrInvalidDataPoints, serr.Code)
		})
	}
}

func TestPointPayloadWithRadius(t *testing.T) {
	store := openTestStore(t)
	_, err := store.UpsertChartData(context.Background(), Record{
		ChartID:        "chart_b",
		PresentationID: "deck_001",
		Payload: json.RawMessage(`{"family":"point_series","rows":[
			{"label":"North","x":0,"y":12,"r":8},
			{"label":"South","x":1,"y":30,"r":40}
		]}`),
	})
	require.NoError(t, err)
}

func TestRecordsIsolatedByPresentation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, deck := range []string{"deck_001", "deck_002"} {
		_, err := store.UpsertChartData(ctx, Record{
			ChartID: "chart_a", PresentationID: deck, Payload: singlePayload(),
		})
		require.NoError(t, err)
	}
	recs, err := store.GetChartData(ctx, "deck_001")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

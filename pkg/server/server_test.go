// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/easel/pkg/chartstore"
	"github.com/teradata-labs/easel/pkg/types"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store, err := chartstore.Open(chartstore.Config{DSN: filepath.Join(t.TempDir(), "charts.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := New(Config{Store: store, CORS: DefaultCORSConfig()})
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { s.events.Close() })
	return s, ts
}

func slideBody() []byte {
	return []byte(`{
		"presentation_id": "deck_001",
		"slide_id": "slide_07",
		"slide_number": 7,
		"narrative": "Quarterly revenue grew steadily through the year",
		"data": [
			{"label": "Q1", "value": 97000},
			{"label": "Q2", "value": 112000},
			{"label": "Q3", "value": 137000},
			{"label": "Q4", "value": 152000}
		],
		"context": {"slide_title": "Revenue by Quarter"}
	}`)
}

func postJSON(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestAnalyticsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analytics/L02/revenue_over_time", slideBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body types.AnalyticsResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Content[types.KeyElement3], "<canvas")
	assert.Contains(t, body.Content[types.KeyElement2], "Key Observations")
	assert.Equal(t, types.ChartTypeLine, body.Metadata.ChartType)
	assert.Equal(t, types.LayoutL02, body.Metadata.Layout)
}

func TestAnalyticsValidationEnvelope(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analytics/L02/revenue_over_time",
		[]byte(`{"presentation_id":"d","slide_id":"s","slide_number":1,"narrative":"x",
			"data":[{"label":"only","value":1}]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.False(t, env.Success)
	assert.Equal(t, types.ErrDataRange, env.Error.Code)
	assert.True(t, env.Error.Retryable)
}

func TestAnalyticsUnknownAnalyticsType(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/analytics/L02/made_up", slideBody())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, types.ErrInvalidAnalyticsType, env.Error.Code)
}

func TestAnalyticsMalformedBody(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/analytics/L02/revenue_over_time", []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	body := []byte(`{"presentation_id":"deck_001","slides":[
		{"slide_id":"s1","slide_number":1,"narrative":"revenue trend over time",
		 "analytics_type":"revenue_over_time","layout":"L02",
		 "data":[{"label":"Q1","value":1},{"label":"Q2","value":2}]},
		{"slide_id":"s2","slide_number":2,"narrative":"bad slide",
		 "analytics_type":"revenue_over_time","layout":"L02",
		 "data":[{"label":"only","value":1}]}
	]}`)
	resp := postJSON(t, ts.URL+"/api/v1/analytics/batch", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var batch types.BatchResponse
	decode(t, resp, &batch)
	assert.Equal(t, 2, batch.Total)
	assert.Equal(t, 1, batch.Successful)
	assert.True(t, batch.Slides[0].Success)
	assert.False(t, batch.Slides[1].Success)
	require.NotNil(t, batch.Slides[1].Error)
}

func TestBatchRejectsEmptySlides(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/analytics/batch", []byte(`{"presentation_id":"d","slides":[]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChartTypesEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	var list struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
		ChartTypes []map[string]interface{} `json:"chart_types"`
	}
	resp, err := http.Get(ts.URL + "/api/v1/chart-types")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	assert.Equal(t, 20, list.Summary.Total)
	assert.Len(t, list.ChartTypes, 20)

	resp, err = http.Get(ts.URL + "/api/v1/chart-types/apexcharts")
	require.NoError(t, err)
	var byLib struct {
		Library    string                   `json:"library"`
		ChartTypes []map[string]interface{} `json:"chart_types"`
	}
	decode(t, resp, &byLib)
	assert.Equal(t, "apexcharts", byLib.Library)
	assert.Len(t, byLib.ChartTypes, 2)

	resp, err = http.Get(ts.URL + "/api/v1/chart-types/line")
	require.NoError(t, err)
	var spec struct {
		ID string `json:"id"`
	}
	decode(t, resp, &spec)
	assert.Equal(t, "line", spec.ID)
}

func TestChartTypeNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/chart-types/lien")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, types.ErrChartNotFound, env.Error.Code)
	assert.Contains(t, env.Error.Suggestion, "line")
}

func TestChartTypesByLayout(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/layouts/L03/chart-types")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/v1/layouts/L99/chart-types")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChartDataRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)

	body := []byte(`{"chart_id":"chart_a","presentation_id":"deck_001",
		"payload":{"family":"single_series","rows":[
			{"label":"Q1","value":1},{"label":"Q2","value":2}]}}`)
	resp := postJSON(t, ts.URL+"/api/v1/chart-data", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var up struct {
		Success   bool   `json:"success"`
		UpdatedAt string `json:"updated_at"`
	}
	decode(t, resp, &up)
	assert.True(t, up.Success)
	assert.NotEmpty(t, up.UpdatedAt)

	resp, err := http.Get(ts.URL + "/api/v1/chart-data/deck_001")
	require.NoError(t, err)
	var got struct {
		Charts []chartstore.Record `json:"charts"`
	}
	decode(t, resp, &got)
	require.Len(t, got.Charts, 1)
	assert.Equal(t, "chart_a", got.Charts[0].ChartID)
}

func TestChartDataInvalidPayload(t *testing.T) {
	_, ts := newTestServer(t)
	body := []byte(`{"chart_id":"c","presentation_id":"d","payload":{"family":"mystery","rows":[]}}`)
	resp := postJSON(t, ts.URL+"/api/v1/chart-data", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, types.ErrInvalidDataPoints, env.Error.Code)
}

func TestChartDataStrictMode(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/chart-data/ghost_deck")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/v1/chart-data/ghost_deck?strict=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, types.ErrPresentationNotFound, env.Error.Code)
}

func TestHealthAndStats(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	decode(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "easel-analytics", health["service"])

	postJSON(t, ts.URL+"/api/v1/analytics/L02/revenue_over_time", slideBody()).Body.Close()

	resp, err = http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	var stats struct {
		Requests  int64            `json:"requests"`
		Successes int64            `json:"successes"`
		ByChart   map[string]int64 `json:"by_chart_type"`
	}
	decode(t, resp, &stats)
	assert.GreaterOrEqual(t, stats.Successes, int64(1))
	assert.GreaterOrEqual(t, stats.ByChart["line"], int64(1))
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/chart-types", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://director.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSOriginAllowList(t *testing.T) {
	store, err := chartstore.Open(chartstore.Config{DSN: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	defer store.Close()

	cors := DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://allowed.example.com"}
	s := New(Config{Store: store, CORS: cors})
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()
	defer s.events.Close()

	for origin, want := range map[string]string{
		"https://allowed.example.com": "https://allowed.example.com",
		"https://evil.example.com":    "",
	} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.Header.Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestEditorFetchMatchesFragmentWireFormat(t *testing.T) {
	// the fragment's loader expects {"charts":[{chart_id, payload:{rows}}]}
	_, ts := newTestServer(t)

	body := []byte(`{"chart_id":"chart_a","presentation_id":"deck_001",
		"payload":{"family":"single_series","rows":[
			{"label":"Q1","value":1},{"label":"Q2","value":2}]}}`)
	postJSON(t, ts.URL+"/api/v1/chart-data", body).Body.Close()

	resp, err := http.Get(ts.URL + "/api/v1/chart-data/deck_001")
	require.NoError(t, err)
	var wire struct {
		Charts []struct {
			ChartID string `json:"chart_id"`
			Payload struct {
				Rows []map[string]interface{} `json:"rows"`
			} `json:"payload"`
		} `json:"charts"`
	}
	decode(t, resp, &wire)
	require.Len(t, wire.Charts, 1)
	assert.Equal(t, "chart_a", wire.Charts[0].ChartID)
	require.Len(t, wire.Charts[0].Payload.Rows, 2)
	assert.Equal(t, "Q1", wire.Charts[0].Payload.Rows[0]["label"])
}

func TestRecoveryMiddleware(t *testing.T) {
	s := New(Config{})
	mux := http.NewServeMux()
	mux.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	ts := httptest.NewServer(s.middleware(mux))
	defer ts.Close()
	defer s.events.Close()

	resp, err := http.Get(ts.URL + "/boom")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var env types.ErrorEnvelope
	decode(t, resp, &env)
	assert.Equal(t, types.ErrUnknown, env.Error.Code)
}

func TestRoutesWithoutStoreOmitEditorEndpoints(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()
	defer s.events.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/chart-data/deck_001", ts.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/teradata-labs/easel/internal/version"
	"github.com/teradata-labs/easel/pkg/catalog"
	"github.com/teradata-labs/easel/pkg/chartstore"
	"github.com/teradata-labs/easel/pkg/types"
)

// maxBodyBytes caps request bodies. Datasets top out at 50 points, so even
// batch bodies stay far below this.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, serr *types.ServiceError) {
	writeJSON(w, serr.HTTPStatus(), types.ErrorEnvelope{Success: false, Error: serr})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, types.NewValidationError(types.ErrInvalidDataPoints, "body",
			"request body is not valid JSON: "+err.Error(),
			"Send a JSON object matching the documented request schema"))
		return false
	}
	return true
}

// handleAnalytics renders one slide. Layout and analytics type come from the
// URL and override whatever the body carries.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	lay := types.Layout(r.PathValue("layout"))
	at := types.AnalyticsType(r.PathValue("analytics_type"))

	var req types.AnalyticsRequest
	if !decodeBody(w, r, &req) {
		s.stats.failure("analytics")
		return
	}
	req.Layout = lay
	req.AnalyticsType = at

	s.events.PublishProgress(req.PresentationID, req.SlideID, "started")
	resp, serr := s.pipeline.Process(r.Context(), &req)
	if serr != nil {
		s.stats.failure("analytics")
		s.events.PublishProgress(req.PresentationID, req.SlideID, "failed")
		writeError(w, serr)
		return
	}
	s.stats.success("analytics", resp.Metadata.ChartType, resp.Metadata.InsightSource)
	s.events.PublishProgress(req.PresentationID, req.SlideID, "completed")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var batch types.BatchRequest
	if !decodeBody(w, r, &batch) {
		s.stats.failure("batch")
		return
	}
	if len(batch.Slides) == 0 {
		s.stats.failure("batch")
		writeError(w, types.NewValidationError(types.ErrEmptyField, "slides",
			"batch contains no slides", "Provide at least one slide"))
		return
	}

	s.events.PublishProgress(batch.PresentationID, "", "batch_started")
	resp := s.pipeline.ProcessBatch(r.Context(), &batch)
	for _, slide := range resp.Slides {
		if slide.Success {
			s.stats.success("batch", slide.Metadata.ChartType, slide.Metadata.InsightSource)
		} else {
			s.stats.failure("batch")
		}
	}
	s.events.PublishProgress(batch.PresentationID, "", "batch_completed")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartTypes(w http.ResponseWriter, _ *http.Request) {
	s.stats.request("chart_types")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":     catalog.Summarize(),
		"chart_types": catalog.All(),
	})
}

// handleChartTypeByID serves both the by-library and by-id lookups; the two
// routes share one URL shape.
func (s *Server) handleChartTypeByID(w http.ResponseWriter, r *http.Request) {
	s.stats.request("chart_types")
	id := r.PathValue("id")

	if id == string(types.LibraryChartJS) || id == string(types.LibraryApexCharts) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"library":     id,
			"chart_types": catalog.ByLibrary(types.Library(id)),
		})
		return
	}

	spec, serr := catalog.ByID(id)
	if serr != nil {
		writeError(w, serr)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleChartTypesByLayout(w http.ResponseWriter, r *http.Request) {
	s.stats.request("chart_types")
	lay := types.Layout(r.PathValue("layout"))
	if !lay.Valid() {
		writeError(w, types.NewValidationError(types.ErrInvalidLayout, "layout",
			fmt.Sprintf("unknown layout %q", lay), "Use one of L01, L02, L03"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"layout":      lay,
		"chart_types": catalog.ByLayout(lay),
	})
}

// editor persistence

type upsertChartDataRequest struct {
	ChartID        string          `json:"chart_id"`
	PresentationID string          `json:"presentation_id"`
	Payload        json.RawMessage `json:"payload"`
}

func (s *Server) handleUpsertChartData(w http.ResponseWriter, r *http.Request) {
	s.stats.request("chart_data")
	var req upsertChartDataRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChartID == "" || req.PresentationID == "" {
		writeError(w, types.NewValidationError(types.ErrEmptyField, "chart_id",
			"chart_id and presentation_id are required", "Include both identifiers"))
		return
	}

	res, err := s.store.UpsertChartData(r.Context(), chartstore.Record{
		ChartID:        req.ChartID,
		PresentationID: req.PresentationID,
		Payload:        req.Payload,
	})
	if err != nil {
		if serr, ok := types.AsServiceError(err); ok {
			writeError(w, serr)
			return
		}
		s.logger.Error("chart data upsert failed", zap.Error(err))
		writeError(w, types.NewProcessingError(types.ErrUnknown,
			"failed to save chart data", "Retry the request"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"updated_at": res.UpdatedAt,
	})
}

func (s *Server) handleGetChartData(w http.ResponseWriter, r *http.Request) {
	s.stats.request("chart_data")
	presID := r.PathValue("presentation_id")

	recs, err := s.store.GetChartData(r.Context(), presID)
	if err != nil {
		s.logger.Error("chart data fetch failed", zap.Error(err))
		writeError(w, types.NewProcessingError(types.ErrUnknown,
			"failed to load chart data", "Retry the request"))
		return
	}
	if len(recs) == 0 && r.URL.Query().Get("strict") == "1" {
		writeError(w, types.NewResourceError(types.ErrPresentationNotFound,
			fmt.Sprintf("no chart data stored for presentation %q", presID),
			"Save chart data before fetching with strict=1"))
		return
	}
	if recs == nil {
		recs = []chartstore.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"charts": recs})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": version.Service,
		"version": version.Get(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.snapshot())
}

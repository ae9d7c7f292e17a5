// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server exposes the analytics pipeline over HTTP: slide rendering,
// chart type discovery, editor persistence and a progress event stream.
package server

import (
	"context"
	stdtls "crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/teradata-labs/easel/pkg/chartstore"
	"github.com/teradata-labs/easel/pkg/pipeline"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns a permissive CORS configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}
}

// Config wires a Server. Store may be nil, which disables the editor
// persistence routes; the editor overlay then degrades to display-only.
type Config struct {
	Addr     string
	Pipeline *pipeline.Pipeline
	Store    chartstore.Store
	Logger   *zap.Logger
	CORS     CORSConfig

	// TLSConfig, when non-nil, serves HTTPS.
	TLSConfig *stdtls.Config

	// DrainTimeout bounds graceful shutdown.
	DrainTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	pipeline     *pipeline.Pipeline
	store        chartstore.Store
	logger       *zap.Logger
	cors         CORSConfig
	events       *EventPublisher
	stats        *statsRegistry
	httpServer   *http.Server
	drainTimeout time.Duration
}

// New builds the server and its route table.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := cfg.Pipeline
	if p == nil {
		p = pipeline.New(pipeline.Config{Logger: logger})
	}
	drain := cfg.DrainTimeout
	if drain <= 0 {
		drain = 15 * time.Second
	}

	s := &Server{
		pipeline:     p,
		store:        cfg.Store,
		logger:       logger,
		cors:         cfg.CORS,
		events:       NewEventPublisher(),
		stats:        newStatsRegistry(),
		drainTimeout: drain,
	}

	handler := s.middleware(s.routes())
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		TLSConfig:    cfg.TLSConfig,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event stream connections stay open
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// routes builds the mux. Method-qualified patterns keep dispatch explicit;
// the two chart-types GET shapes share one handler that disambiguates the
// path segment itself (library names are also valid-looking ids).
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/analytics/batch", s.handleBatch)
	mux.HandleFunc("POST /api/v1/analytics/{layout}/{analytics_type}", s.handleAnalytics)
	mux.HandleFunc("GET /api/v1/analytics/events", s.handleEvents)

	mux.HandleFunc("GET /api/v1/chart-types", s.handleChartTypes)
	mux.HandleFunc("GET /api/v1/chart-types/{id}", s.handleChartTypeByID)
	mux.HandleFunc("GET /api/v1/layouts/{layout}/chart-types", s.handleChartTypesByLayout)

	if s.store != nil {
		mux.HandleFunc("POST /api/v1/chart-data", s.handleUpsertChartData)
		mux.HandleFunc("GET /api/v1/chart-data/{presentation_id}", s.handleGetChartData)
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

// middleware stacks, outermost first: recovery, request id, logging, CORS,
// gzip. Recovery sits outside so a panic anywhere still yields an envelope.
func (s *Server) middleware(next http.Handler) http.Handler {
	var h http.Handler = gzhttp.GzipHandler(next)
	if s.cors.Enabled {
		h = s.corsMiddleware(h)
	}
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return s.recoveryMiddleware(h)
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	scheme := "http"
	if s.httpServer.TLSConfig != nil {
		scheme = "https"
	}
	s.logger.Info("starting HTTP server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("scheme", scheme))

	var err error
	if s.httpServer.TLSConfig != nil {
		err = s.httpServer.ListenAndServeTLS("", "")
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and closes the event stream.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	ctx, cancel := context.WithTimeout(ctx, s.drainTimeout)
	defer cancel()
	s.events.Close()
	return s.httpServer.Shutdown(ctx)
}

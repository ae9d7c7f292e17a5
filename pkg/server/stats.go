// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/teradata-labs/easel/pkg/types"
)

// statsRegistry holds non-authoritative in-process counters for /stats.
// They reset on restart; no persistence, no scraping contract.
type statsRegistry struct {
	started   time.Time
	requests  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
	fallbacks atomic.Int64

	mu          sync.Mutex
	byEndpoint  map[string]int64
	byChartType map[string]int64
}

func newStatsRegistry() *statsRegistry {
	return &statsRegistry{
		started:     time.Now(),
		byEndpoint:  make(map[string]int64),
		byChartType: make(map[string]int64),
	}
}

func (s *statsRegistry) request(endpoint string) {
	s.requests.Add(1)
	s.mu.Lock()
	s.byEndpoint[endpoint]++
	s.mu.Unlock()
}

func (s *statsRegistry) success(endpoint string, ct types.ChartType, source types.InsightSource) {
	s.request(endpoint)
	s.successes.Add(1)
	if source == types.InsightSourceFallback {
		s.fallbacks.Add(1)
	}
	s.mu.Lock()
	s.byChartType[string(ct)]++
	s.mu.Unlock()
}

func (s *statsRegistry) failure(endpoint string) {
	s.request(endpoint)
	s.failures.Add(1)
}

func (s *statsRegistry) snapshot() map[string]interface{} {
	s.mu.Lock()
	byEndpoint := make(map[string]int64, len(s.byEndpoint))
	for k, v := range s.byEndpoint {
		byEndpoint[k] = v
	}
	byChartType := make(map[string]int64, len(s.byChartType))
	for k, v := range s.byChartType {
		byChartType[k] = v
	}
	s.mu.Unlock()

	return map[string]interface{}{
		"uptime_seconds":    int64(time.Since(s.started).Seconds()),
		"requests":          s.requests.Load(),
		"successes":         s.successes.Load(),
		"failures":          s.failures.Load(),
		"insight_fallbacks": s.fallbacks.Load(),
		"by_endpoint":       byEndpoint,
		"by_chart_type":     byChartType,
	}
}

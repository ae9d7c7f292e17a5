// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RateLimiterConfig tunes the shared request limiter.
type RateLimiterConfig struct {
	Enabled bool

	// RequestsPerSecond caps the sustained request rate across all callers.
	RequestsPerSecond float64

	// TokensPerMinute caps LLM token consumption over a sliding minute.
	TokensPerMinute int64

	// BurstCapacity is the token-bucket depth: how many requests may fire
	// back to back after an idle period.
	BurstCapacity int

	// MinDelay spaces consecutive requests regardless of bucket state.
	MinDelay time.Duration

	// MaxRetries bounds automatic retries of throttled (429) calls.
	MaxRetries int

	// RetryBackoff is the initial retry delay; it doubles per attempt.
	RetryBackoff time.Duration

	// QueueTimeout bounds how long a request may wait for a queue slot.
	QueueTimeout time.Duration

	Logger *zap.Logger
}

// DefaultRateLimiterConfig returns defaults sized for a single analytics
// service instance against Anthropic Tier 1 quotas.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 0.7,
		TokensPerMinute:   80000,
		BurstCapacity:     3,
		MinDelay:          300 * time.Millisecond,
		MaxRetries:        4,
		RetryBackoff:      time.Second,
		QueueTimeout:      time.Minute,
		Logger:            zap.NewNop(),
	}
}

// RateLimiterMetrics is a snapshot of limiter activity.
type RateLimiterMetrics struct {
	TotalRequests     int64
	ThrottledRequests int64
	QueuedRequests    int64
	DroppedRequests   int64
	CurrentQueueDepth int64
	TokensConsumed    int64
	LastThrottleTime  time.Time
}

type limitedCall struct {
	ctx      context.Context
	call     func(context.Context) (*Response, error)
	resultCh chan limitedResult
}

type limitedResult struct {
	resp *Response
	err  error
}

type tokenSample struct {
	at     time.Time
	tokens int64
}

// RateLimiter serializes provider calls through a token bucket with a
// bounded queue and automatic retry on throttling errors.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	bucket     float64
	lastRefill time.Time

	windowMu sync.Mutex
	window   []tokenSample

	queue      chan *limitedCall
	queueDepth atomic.Int64

	metricsMu sync.RWMutex
	metrics   RateLimiterMetrics

	stopCh chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewRateLimiter creates and starts a limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.BurstCapacity <= 0 {
		config.BurstCapacity = 1
	}

	rl := &RateLimiter{
		config:     config,
		bucket:     float64(config.BurstCapacity),
		lastRefill: time.Now(),
		queue:      make(chan *limitedCall, config.BurstCapacity*2),
		stopCh:     make(chan struct{}),
	}
	rl.wg.Add(1)
	go rl.worker()
	return rl
}

// Do runs call under the limiter, retrying throttled attempts with
// exponential backoff. A full queue past QueueTimeout drops the request.
func (rl *RateLimiter) Do(ctx context.Context, call func(context.Context) (*Response, error)) (*Response, error) {
	if !rl.config.Enabled {
		return call(ctx)
	}
	if rl.closed.Load() {
		return nil, fmt.Errorf("rate limiter stopped")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req := &limitedCall{ctx: ctx, call: call, resultCh: make(chan limitedResult, 1)}

	queueCtx, cancel := context.WithTimeout(ctx, rl.config.QueueTimeout)
	defer cancel()

	rl.queueDepth.Add(1)
	defer rl.queueDepth.Add(-1)

	select {
	case rl.queue <- req:
		rl.bump(func(m *RateLimiterMetrics) { m.QueuedRequests++ })
	case <-queueCtx.Done():
		rl.bump(func(m *RateLimiterMetrics) { m.DroppedRequests++ })
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limiter queue full after %v", rl.config.QueueTimeout)
	case <-rl.stopCh:
		return nil, fmt.Errorf("rate limiter stopped")
	}

	select {
	case res := <-req.resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-rl.stopCh:
		return nil, fmt.Errorf("rate limiter stopped")
	}
}

func (rl *RateLimiter) worker() {
	defer rl.wg.Done()
	for {
		select {
		case req := <-rl.queue:
			rl.run(req)
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) run(req *limitedCall) {
	for !rl.takeToken() {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-req.ctx.Done():
			req.resultCh <- limitedResult{err: req.ctx.Err()}
			return
		case <-rl.stopCh:
			req.resultCh <- limitedResult{err: fmt.Errorf("rate limiter stopped")}
			return
		}
	}

	if rl.config.MinDelay > 0 {
		select {
		case <-time.After(rl.config.MinDelay):
		case <-req.ctx.Done():
			req.resultCh <- limitedResult{err: req.ctx.Err()}
			return
		}
	}

	resp, err := rl.callWithRetry(req.ctx, req.call)
	select {
	case req.resultCh <- limitedResult{resp: resp, err: err}:
	case <-req.ctx.Done():
	case <-rl.stopCh:
	}
}

func (rl *RateLimiter) callWithRetry(ctx context.Context, call func(context.Context) (*Response, error)) (*Response, error) {
	backoff := rl.config.RetryBackoff
	var lastErr error

	for attempt := 0; attempt <= rl.config.MaxRetries; attempt++ {
		resp, err := call(ctx)
		rl.bump(func(m *RateLimiterMetrics) { m.TotalRequests++ })

		if err == nil || !IsThrottlingError(err) {
			return resp, err
		}

		lastErr = err
		rl.bump(func(m *RateLimiterMetrics) {
			m.ThrottledRequests++
			m.LastThrottleTime = time.Now()
		})
		rl.config.Logger.Warn("llm request throttled",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", rl.config.MaxRetries),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		if attempt == rl.config.MaxRetries {
			break
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-rl.stopCh:
			return nil, fmt.Errorf("rate limiter stopped during retry")
		}
	}

	return nil, fmt.Errorf("llm request throttled after %d attempts: %w", rl.config.MaxRetries+1, lastErr)
}

func (rl *RateLimiter) takeToken() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.bucket = min(float64(rl.config.BurstCapacity), rl.bucket+elapsed*rl.config.RequestsPerSecond)
	rl.lastRefill = now

	if rl.bucket >= 1.0 {
		rl.bucket -= 1.0
		return true
	}
	return false
}

// RecordTokenUsage feeds consumed LLM tokens into the sliding window.
func (rl *RateLimiter) RecordTokenUsage(tokens int64) {
	now := time.Now()
	cutoff := now.Add(-time.Minute)

	rl.windowMu.Lock()
	rl.window = append(rl.window, tokenSample{at: now, tokens: tokens})
	trimmed := rl.window[:0]
	for _, s := range rl.window {
		if s.at.After(cutoff) {
			trimmed = append(trimmed, s)
		}
	}
	rl.window = trimmed
	rl.windowMu.Unlock()

	rl.bump(func(m *RateLimiterMetrics) { m.TokensConsumed += tokens })
}

// TokenUsageLastMinute reports tokens consumed in the trailing minute.
func (rl *RateLimiter) TokenUsageLastMinute() int64 {
	cutoff := time.Now().Add(-time.Minute)
	var total int64

	rl.windowMu.Lock()
	for _, s := range rl.window {
		if s.at.After(cutoff) {
			total += s.tokens
		}
	}
	rl.windowMu.Unlock()
	return total
}

// Metrics returns a snapshot of limiter counters.
func (rl *RateLimiter) Metrics() RateLimiterMetrics {
	rl.metricsMu.RLock()
	defer rl.metricsMu.RUnlock()
	m := rl.metrics
	m.CurrentQueueDepth = rl.queueDepth.Load()
	return m
}

func (rl *RateLimiter) bump(update func(*RateLimiterMetrics)) {
	rl.metricsMu.Lock()
	update(&rl.metrics)
	rl.metricsMu.Unlock()
}

// Close stops the limiter. Idempotent.
func (rl *RateLimiter) Close() error {
	if !rl.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(rl.stopCh)
	rl.wg.Wait()
	return nil
}

// IsThrottlingError reports whether err looks like a quota/throttle
// rejection from any provider.
func IsThrottlingError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"429", "ThrottlingException", "TooManyRequests", "rate limit", "rate_limit", "throttle"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

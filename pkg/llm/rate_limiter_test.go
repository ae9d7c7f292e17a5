// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() RateLimiterConfig {
	cfg := DefaultRateLimiterConfig()
	cfg.RequestsPerSecond = 100
	cfg.BurstCapacity = 10
	cfg.MinDelay = 0
	cfg.RetryBackoff = 5 * time.Millisecond
	cfg.MaxRetries = 2
	cfg.QueueTimeout = time.Second
	return cfg
}

func TestDoDisabledCallsDirectly(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Enabled: false})
	defer rl.Close()

	resp, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		return &Response{Text: "direct"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", resp.Text)
	assert.Zero(t, rl.Metrics().TotalRequests)
}

func TestDoSuccess(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	resp, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		return &Response{Text: "ok", OutputTokens: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int64(1), rl.Metrics().TotalRequests)
}

func TestDoRetriesThrottledCalls(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	var calls atomic.Int32
	resp, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		if calls.Add(1) < 3 {
			return nil, fmt.Errorf("anthropic API error (status 429): rate limited")
		}
		return &Response{Text: "eventually"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Text)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(2), rl.Metrics().ThrottledRequests)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	_, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		return nil, errors.New("429 too many requests")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled after 3 attempts")
}

func TestDoNonThrottlingErrorNotRetried(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	var calls atomic.Int32
	_, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		calls.Add(1)
		return nil, errors.New("invalid api key")
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoHonorsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rl.Do(ctx, func(context.Context) (*Response, error) {
		return &Response{}, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoAfterClose(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	require.NoError(t, rl.Close())
	require.NoError(t, rl.Close())

	_, err := rl.Do(context.Background(), func(context.Context) (*Response, error) {
		return &Response{}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")
}

func TestTokenUsageWindow(t *testing.T) {
	rl := NewRateLimiter(fastConfig())
	defer rl.Close()

	rl.RecordTokenUsage(150)
	rl.RecordTokenUsage(250)
	assert.Equal(t, int64(400), rl.TokenUsageLastMinute())
	assert.Equal(t, int64(400), rl.Metrics().TokensConsumed)
}

func TestIsThrottlingError(t *testing.T) {
	tests := []struct {
		err      error
		throttle bool
	}{
		{nil, false},
		{errors.New("status 429"), true},
		{errors.New("ThrottlingException: slow down"), true},
		{errors.New("TooManyRequests"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("rate_limit_error"), true},
		{errors.New("connection refused"), false},
		{errors.New("invalid model"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.throttle, IsThrottlingError(tt.err), "%v", tt.err)
	}
}

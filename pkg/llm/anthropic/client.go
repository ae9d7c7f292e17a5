// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package anthropic implements the llm.Provider interface against the
// Anthropic Messages API directly over HTTP.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/teradata-labs/easel/pkg/llm"
)

const (
	// DefaultModel balances latency and quality for short observation text.
	DefaultModel = "claude-3-5-haiku-latest"
	// DefaultEndpoint is the Messages API endpoint.
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	// DefaultMaxTokens bounds the completion length.
	DefaultMaxTokens = 1024
	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 60 * time.Second

	apiVersion = "2023-06-01"
)

// One limiter shared by every client in the process so concurrent pipeline
// requests cannot collectively exceed the account quota.
var (
	globalLimiter     *llm.RateLimiter
	globalLimiterOnce sync.Once
)

// Config holds the Anthropic client configuration.
type Config struct {
	APIKey      string
	Model       string
	Endpoint    string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	RateLimiter llm.RateLimiterConfig
}

// Client calls the Messages API. It implements llm.Provider.
type Client struct {
	apiKey      string
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	limiter     *llm.RateLimiter
}

// NewClient creates a client. Environment variables fill gaps the config
// leaves: ANTHROPIC_API_KEY, ANTHROPIC_DEFAULT_MODEL, ANTHROPIC_API_ENDPOINT.
func NewClient(config Config) *Client {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if config.Model == "" {
		if envModel := os.Getenv("ANTHROPIC_DEFAULT_MODEL"); envModel != "" {
			config.Model = envModel
		} else {
			config.Model = DefaultModel
		}
	}
	if config.Endpoint == "" {
		if envEndpoint := os.Getenv("ANTHROPIC_API_ENDPOINT"); envEndpoint != "" {
			config.Endpoint = envEndpoint
		} else {
			config.Endpoint = DefaultEndpoint
		}
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	var limiter *llm.RateLimiter
	if config.RateLimiter.Enabled {
		limiter = sharedLimiter(config.RateLimiter)
	}

	return &Client{
		apiKey:      config.APIKey,
		model:       config.Model,
		endpoint:    config.Endpoint,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		limiter:     limiter,
		httpClient:  &http.Client{Timeout: config.Timeout},
	}
}

func sharedLimiter(config llm.RateLimiterConfig) *llm.RateLimiter {
	globalLimiterOnce.Do(func() {
		merged := llm.DefaultRateLimiterConfig()
		merged.Enabled = config.Enabled
		if config.Logger != nil {
			merged.Logger = config.Logger
		}
		if config.RequestsPerSecond > 0 {
			merged.RequestsPerSecond = config.RequestsPerSecond
		}
		if config.TokensPerMinute > 0 {
			merged.TokensPerMinute = config.TokensPerMinute
		}
		if config.BurstCapacity > 0 {
			merged.BurstCapacity = config.BurstCapacity
		}
		if config.MinDelay > 0 {
			merged.MinDelay = config.MinDelay
		}
		if config.MaxRetries > 0 {
			merged.MaxRetries = config.MaxRetries
		}
		if config.RetryBackoff > 0 {
			merged.RetryBackoff = config.RetryBackoff
		}
		if config.QueueTimeout > 0 {
			merged.QueueTimeout = config.QueueTimeout
		}
		globalLimiter = llm.NewRateLimiter(merged)
	})
	return globalLimiter
}

// Name implements llm.Provider.
func (c *Client) Name() string { return "anthropic" }

// Model implements llm.Provider.
func (c *Client) Model() string { return c.model }

// Complete implements llm.Provider via the non-streaming Messages API.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	call := func(ctx context.Context) (*llm.Response, error) {
		return c.callAPI(ctx, req)
	}
	if c.limiter == nil {
		return call(ctx)
	}
	resp, err := c.limiter.Do(ctx, call)
	if err == nil && resp != nil {
		c.limiter.RecordTokenUsage(int64(resp.InputTokens + resp.OutputTokens))
	}
	return resp, err
}

func (c *Client) callAPI(ctx context.Context, req llm.Request) (*llm.Response, error) {
	body := messagesRequest{
		Model:       c.model,
		System:      req.System,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		MaxTokens:   c.boundTokens(req.MaxTokens),
		Temperature: req.Temperature,
	}

	httpResp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(httpResp)
	}

	var out messagesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &llm.Response{
		Text:         text.String(),
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
		StopReason:   out.StopReason,
	}, nil
}

// CompleteStream runs a streaming completion, invoking onDelta for every
// text delta as it arrives, and returns the assembled response. The stream
// is abandoned as soon as ctx is canceled.
func (c *Client) CompleteStream(ctx context.Context, req llm.Request, onDelta func(string)) (*llm.Response, error) {
	body := messagesRequest{
		Model:       c.model,
		System:      req.System,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		MaxTokens:   c.boundTokens(req.MaxTokens),
		Temperature: req.Temperature,
		Stream:      true,
	}

	httpResp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(httpResp)
	}

	resp := &llm.Response{}
	var text strings.Builder
	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "message_start":
			resp.InputTokens = ev.Message.Usage.InputTokens
		case "content_block_delta":
			if ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
				text.WriteString(ev.Delta.Text)
				if onDelta != nil {
					onDelta(ev.Delta.Text)
				}
			}
		case "message_delta":
			if ev.Delta.StopReason != "" {
				resp.StopReason = ev.Delta.StopReason
			}
			if ev.Usage.OutputTokens > 0 {
				resp.OutputTokens = ev.Usage.OutputTokens
			}
		case "message_stop":
			// terminal event; the loop drains any trailing lines
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read failed: %w", err)
	}

	resp.Text = text.String()
	if c.limiter != nil {
		c.limiter.RecordTokenUsage(int64(resp.InputTokens + resp.OutputTokens))
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, body messagesRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return httpResp, nil
}

func (c *Client) boundTokens(requested int) int {
	if requested > 0 && requested < c.maxTokens {
		return requested
	}
	return c.maxTokens
}

// decodeAPIError converts a non-200 response into an error. 429 responses
// keep the status code in the message so the rate limiter retries them.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("anthropic API error (status %d, %s): %s",
			resp.StatusCode, envelope.Error.Type, envelope.Error.Message)
	}
	return fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

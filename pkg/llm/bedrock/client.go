// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package bedrock implements the llm.Provider interface against AWS Bedrock
// through the official Anthropic SDK's Bedrock backend, which handles SigV4
// signing and endpoint resolution.
package bedrock

import (
	"context"
	"fmt"
	"os"
	"sync"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/teradata-labs/easel/pkg/llm"
)

const (
	// DefaultModelID uses the cross-region Haiku inference profile.
	DefaultModelID = "us.anthropic.claude-3-5-haiku-20241022-v1:0"
	// DefaultRegion is where the inference profiles above live.
	DefaultRegion = "us-west-2"
	// DefaultMaxTokens bounds the completion length.
	DefaultMaxTokens = 1024
)

// All Bedrock clients in the process share one limiter so concurrent
// requests cannot collectively exceed the account's regional quota.
var (
	globalLimiter     *llm.RateLimiter
	globalLimiterOnce sync.Once
)

// Config holds the Bedrock client configuration. Credentials resolve in
// order: explicit keys, named profile, default AWS chain.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Profile         string

	ModelID     string
	MaxTokens   int
	Temperature float64

	RateLimiter llm.RateLimiterConfig
}

// Client calls Bedrock-hosted Claude models. It implements llm.Provider.
type Client struct {
	client      anthropicsdk.Client
	modelID     string
	region      string
	maxTokens   int
	temperature float64
	limiter     *llm.RateLimiter
}

// NewClient creates a Bedrock client. AWS_BEDROCK_MODEL_ID and
// AWS_DEFAULT_REGION override missing config fields.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ModelID == "" {
		if envModel := os.Getenv("AWS_BEDROCK_MODEL_ID"); envModel != "" {
			cfg.ModelID = envModel
		} else {
			cfg.ModelID = DefaultModelID
		}
	}
	if cfg.Region == "" {
		if envRegion := os.Getenv("AWS_DEFAULT_REGION"); envRegion != "" {
			cfg.Region = envRegion
		} else {
			cfg.Region = DefaultRegion
		}
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	var awsCfg aws.Config
	var err error
	switch {
	case cfg.AccessKeyID != "" && cfg.SecretAccessKey != "":
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	case cfg.Profile != "":
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(cfg.Region),
			config.WithSharedConfigProfile(cfg.Profile))
	default:
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var limiter *llm.RateLimiter
	if cfg.RateLimiter.Enabled {
		limiter = sharedLimiter(cfg.RateLimiter)
	}

	return &Client{
		client:      anthropicsdk.NewClient(bedrock.WithConfig(awsCfg)),
		modelID:     cfg.ModelID,
		region:      cfg.Region,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		limiter:     limiter,
	}, nil
}

func sharedLimiter(cfg llm.RateLimiterConfig) *llm.RateLimiter {
	globalLimiterOnce.Do(func() {
		merged := llm.DefaultRateLimiterConfig()
		merged.Enabled = cfg.Enabled
		if cfg.Logger != nil {
			merged.Logger = cfg.Logger
		}
		if cfg.RequestsPerSecond > 0 {
			merged.RequestsPerSecond = cfg.RequestsPerSecond
		}
		if cfg.TokensPerMinute > 0 {
			merged.TokensPerMinute = cfg.TokensPerMinute
		}
		if cfg.BurstCapacity > 0 {
			merged.BurstCapacity = cfg.BurstCapacity
		}
		if cfg.MinDelay > 0 {
			merged.MinDelay = cfg.MinDelay
		}
		if cfg.MaxRetries > 0 {
			merged.MaxRetries = cfg.MaxRetries
		}
		if cfg.RetryBackoff > 0 {
			merged.RetryBackoff = cfg.RetryBackoff
		}
		if cfg.QueueTimeout > 0 {
			merged.QueueTimeout = cfg.QueueTimeout
		}
		globalLimiter = llm.NewRateLimiter(merged)
	})
	return globalLimiter
}

// Name implements llm.Provider.
func (c *Client) Name() string { return "bedrock" }

// Model implements llm.Provider.
func (c *Client) Model() string { return c.modelID }

// Complete implements llm.Provider.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	maxTokens := int64(c.maxTokens)
	if req.MaxTokens > 0 && req.MaxTokens < c.maxTokens {
		maxTokens = int64(req.MaxTokens)
	}
	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(c.modelID),
		MaxTokens: maxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropicsdk.Float(temperature)
	}
	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}

	call := func(ctx context.Context) (*llm.Response, error) {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("bedrock invocation failed: %w", err)
		}
		return convertMessage(msg), nil
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

func convertMessage(msg *anthropicsdk.Message) *llm.Response {
	resp := &llm.Response{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			resp.Text += block.Text
		}
	}
	return resp
}

var _ llm.Provider = (*Client)(nil)

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package llm defines the provider abstraction the insight generator talks
// to, plus the shared rate limiter every provider routes requests through.
package llm

import "context"

// Request is a single completion call. Insight prompts are one-shot: a
// system framing plus one user prompt, no conversation history.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is the provider's completion.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// Provider is a text completion backend.
type Provider interface {
	// Complete runs one completion. Implementations must honor ctx
	// cancellation and return promptly when the deadline passes.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend ("anthropic", "bedrock").
	Name() string

	// Model returns the model identifier requests are sent to.
	Model() string
}

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package insight turns a shaped dataset and the caller's narrative into the
// short prose observations that sit next to a chart. The text comes from a
// language model when one is configured and reachable; otherwise it falls
// back to deterministic prose computed from the series statistics, so chart
// generation never fails because of the model.
package insight

import (
	"context"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/teradata-labs/easel/pkg/llm"
	"github.com/teradata-labs/easel/pkg/prompts"
	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// Per-panel character budgets. The side panel of the chart-with-panel layout
// is the roomiest; captions and the split panels of the comparison layout
// get half of it each.
const (
	budgetL01 = 250
	budgetL02 = 500
	budgetL03 = 250
)

// DefaultSoftTimeout bounds a single model call. The overall request keeps
// its own deadline; this one only decides when to stop waiting and fall back.
const DefaultSoftTimeout = 10 * time.Second

const (
	// SourceLLM marks text produced by the configured model.
	SourceLLM = "llm"
	// SourceFallback marks deterministic text computed from the data.
	SourceFallback = "fallback"
)

// CharBudget returns the character budget for one text panel of the layout.
func CharBudget(layout types.Layout) int {
	switch layout {
	case types.LayoutL01:
		return budgetL01
	case types.LayoutL03:
		return budgetL03
	default:
		return budgetL02
	}
}

// Input carries everything the generator needs for one slide.
type Input struct {
	Narrative     string
	AnalyticsType types.AnalyticsType
	ChartType     types.ChartType
	Layout        types.Layout
	Audience      string
	SlideTitle    string
	FormatHint    types.FormatHint
	Stats         shaper.Stats
}

// Result is the generated observation text. Text holds plain-text paragraphs
// separated by blank lines; the layout assembler handles HTML.
type Result struct {
	Text   string
	Source string
	Model  string
}

// Config wires a Generator. Provider may be nil, in which case every request
// takes the fallback path.
type Config struct {
	Provider    llm.Provider
	Registry    *prompts.Registry
	Logger      *zap.Logger
	SoftTimeout time.Duration
}

// Generator produces observation text for slides.
type Generator struct {
	provider    llm.Provider
	registry    *prompts.Registry
	logger      *zap.Logger
	softTimeout time.Duration
}

func New(cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prompts.NewRegistry(logger)
	}
	timeout := cfg.SoftTimeout
	if timeout <= 0 {
		timeout = DefaultSoftTimeout
	}
	return &Generator{
		provider:    cfg.Provider,
		registry:    registry,
		logger:      logger,
		softTimeout: timeout,
	}
}

// Generate returns observation text for the slide. Model failures degrade to
// the deterministic fallback; the only error surfaced is provider rate-limit
// exhaustion, which the caller maps to a 429 so clients know to retry the
// whole request rather than accept silently degraded output forever.
func (g *Generator) Generate(ctx context.Context, in Input) (Result, *types.ServiceError) {
	budget := CharBudget(in.Layout)
	if g.provider == nil {
		return g.fallback(in, budget), nil
	}

	system, user, err := g.buildPrompts(in)
	if err != nil {
		g.logger.Warn("prompt rendering failed, using fallback text", zap.Error(err))
		return g.fallback(in, budget), nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, g.softTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.provider.Complete(llmCtx, llm.Request{
		System:      system,
		Prompt:      user,
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		if llm.IsThrottlingError(err) && ctx.Err() == nil {
			g.logger.Warn("llm provider rate limited",
				zap.String("provider", g.provider.Name()),
				zap.Error(err))
			return Result{}, types.NewRateLimitError(30)
		}
		g.logger.Warn("llm call failed, using fallback text",
			zap.String("provider", g.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return g.fallback(in, budget), nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		g.logger.Warn("llm returned empty text, using fallback",
			zap.String("provider", g.provider.Name()))
		return g.fallback(in, budget), nil
	}

	g.logger.Debug("insight generated",
		zap.String("provider", g.provider.Name()),
		zap.String("model", g.provider.Model()),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return Result{
		Text:   truncateParagraphs(text, budget, in.Layout),
		Source: SourceLLM,
		Model:  g.provider.Model(),
	}, nil
}

func (g *Generator) fallback(in Input, budget int) Result {
	return Result{
		Text:   truncateParagraphs(fallbackText(in), budget, in.Layout),
		Source: SourceFallback,
	}
}

// truncateParagraphs applies the character budget. The comparison layout
// splits its text across two panels, so each paragraph gets the full budget;
// the other layouts budget the whole text.
func truncateParagraphs(text string, budget int, layout types.Layout) string {
	if layout == types.LayoutL03 {
		paras := strings.Split(text, "\n\n")
		for i, p := range paras {
			paras[i] = truncate(strings.TrimSpace(p), budget)
		}
		return strings.Join(paras, "\n\n")
	}
	return truncate(text, budget)
}

// truncate cuts text to at most limit characters, counting grapheme clusters
// so multi-rune sequences never get split, and appends an ellipsis when
// anything was removed.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(text) <= limit {
		return text
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	n := 0
	for gr.Next() && n < limit-1 {
		b.WriteString(gr.Str())
		n++
	}
	out := b.String()
	if i := strings.LastIndexByte(out, ' '); i > limit/2 {
		out = out[:i]
	}
	return strings.TrimRight(out, " ,;:") + "…"
}

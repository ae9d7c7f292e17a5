// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package pipeline orchestrates one slide request end to end: validate,
// resolve the chart type, shape the data, fan out to chart and insight
// generation, then assemble the slide content map. Chart generation is
// fatal; insight generation degrades to a deterministic fallback.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teradata-labs/easel/internal/version"
	"github.com/teradata-labs/easel/pkg/chartgen"
	"github.com/teradata-labs/easel/pkg/insight"
	"github.com/teradata-labs/easel/pkg/layout"
	"github.com/teradata-labs/easel/pkg/resolver"
	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
	"github.com/teradata-labs/easel/pkg/validation"
)

// DefaultTimeout is the per-request deadline. The insight soft timeout is
// shorter, so a slow model never consumes the whole budget.
const DefaultTimeout = 30 * time.Second

// batchConcurrency bounds how many slides of a batch render at once.
const batchConcurrency = 4

// chartIDNamespace seeds the UUIDv5 derivation of chart ids. Fixed so the
// same (presentation, slide) pair always yields the same id across restarts.
var chartIDNamespace = uuid.MustParse("9f2c1a44-37d1-5e86-b2b4-52f1e5c0a871")

// Per-layout chart dimensions in pixels. The chart-with-panel layout pins
// its chart beside the 540px observations panel; the full-bleed layout uses
// the whole slide width; the comparison layout halves it.
var chartDims = map[types.Layout][2]int{
	types.LayoutL01: {1760, 720},
	types.LayoutL02: {chartgen.DefaultWidth, chartgen.DefaultHeight},
	types.LayoutL03: {930, 620},
}

// Config wires a Pipeline.
type Config struct {
	Charts   *chartgen.Generator
	Insights *insight.Generator
	Logger   *zap.Logger
	Timeout  time.Duration

	// DefaultTheme applies when the request context names none.
	DefaultTheme string

	// EditorEndpoint is the API base the embedded chart editor talks to.
	// Empty disables the editor overlay in generated fragments.
	EditorEndpoint string
}

// Pipeline renders slides.
type Pipeline struct {
	resolver       *resolver.Resolver
	charts         *chartgen.Generator
	insights       *insight.Generator
	logger         *zap.Logger
	timeout        time.Duration
	defaultTheme   string
	editorEndpoint string
}

func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	charts := cfg.Charts
	if charts == nil {
		charts = chartgen.New(nil, logger)
	}
	insights := cfg.Insights
	if insights == nil {
		insights = insight.New(insight.Config{Logger: logger})
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	theme := cfg.DefaultTheme
	if theme == "" {
		theme = chartgen.DefaultThemeName
	}
	return &Pipeline{
		resolver:       resolver.New(logger),
		charts:         charts,
		insights:       insights,
		logger:         logger,
		timeout:        timeout,
		defaultTheme:   theme,
		editorEndpoint: cfg.EditorEndpoint,
	}
}

// ChartID derives the deterministic chart id for a slide. Sequence 0 is the
// primary chart; the comparison layout's second chart uses sequence 1.
func ChartID(presentationID, slideID string, sequence int) string {
	name := presentationID + "/" + slideID
	if sequence > 0 {
		name += "/2"
	}
	return uuid.NewSHA1(chartIDNamespace, []byte(name)).String()
}

// Process renders one slide. The returned error is ready for enveloping.
func (p *Pipeline) Process(ctx context.Context, req *types.AnalyticsRequest) (*types.AnalyticsResponse, *types.ServiceError) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if serr := validation.Validate(req); serr != nil {
		return nil, serr
	}

	res, serr := p.resolver.Resolve(req)
	if serr != nil {
		return nil, serr
	}

	shaped, serr := shaper.Shape(req, res.ChartType)
	if serr != nil {
		return nil, serr
	}

	rc := req.Context
	if rc == nil {
		rc = &types.RequestContext{}
	}
	theme := rc.Theme
	if theme == "" {
		theme = p.defaultTheme
	}

	var (
		primary    *chartgen.Artifact
		secondary  *chartgen.Artifact
		insightRes insight.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, secondary, err = p.renderCharts(gctx, req, shaped, theme, rc)
		return err
	})
	g.Go(func() error {
		var serr *types.ServiceError
		insightRes, serr = p.insights.Generate(gctx, insight.Input{
			Narrative:     req.Narrative,
			AnalyticsType: req.AnalyticsType,
			ChartType:     res.ChartType,
			Layout:        req.Layout,
			Audience:      rc.Audience,
			SlideTitle:    rc.SlideTitle,
			FormatHint:    shaped.FormatHint,
			Stats:         shaped.Stats(),
		})
		if serr != nil {
			return serr
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if serr, ok := types.AsServiceError(err); ok {
			return nil, serr
		}
		return nil, types.NewProcessingError(types.ErrChartGenerationFailed,
			err.Error(), "Retry the request")
	}

	in := layout.Input{
		Layout:           req.Layout,
		SlideTitle:       rc.SlideTitle,
		Subtitle:         rc.Subtitle,
		PresentationName: rc.PresentationName,
		ChartHTML:        primary.HTML,
		InsightText:      insightRes.Text,
	}
	if secondary != nil {
		in.SecondChartHTML = secondary.HTML
	}
	content, err := layout.Assemble(in)
	if err != nil {
		return nil, types.NewProcessingError(types.ErrLayoutAssemblyFailed,
			err.Error(), "Retry the request")
	}

	source := types.InsightSourceLLM
	if insightRes.Source != insight.SourceLLM {
		source = types.InsightSourceFallback
	}
	p.logger.Info("slide rendered",
		zap.String("presentation_id", req.PresentationID),
		zap.String("slide_id", req.SlideID),
		zap.String("chart_type", string(res.ChartType)),
		zap.String("resolution", string(res.Source)),
		zap.String("insight_source", string(source)),
		zap.Duration("elapsed", time.Since(start)))

	return &types.AnalyticsResponse{
		Content: content,
		Metadata: types.Metadata{
			Service:          version.Service,
			Version:          version.Get(),
			Library:          primary.Library,
			Layout:           req.Layout,
			ChartType:        res.ChartType,
			DataPoints:       req.Data.PointCount(),
			GenerationTimeMS: time.Since(start).Milliseconds(),
			Theme:            theme,
			GeneratedAt:      time.Now().UTC(),
			AnalyticsType:    req.AnalyticsType,
			InsightSource:    source,
		},
	}, nil
}

// renderCharts produces the layout's charts. The comparison layout renders
// the same shaped data twice, the second time as the complementary type.
func (p *Pipeline) renderCharts(ctx context.Context, req *types.AnalyticsRequest, shaped *shaper.ShapedChartData, theme string, rc *types.RequestContext) (*chartgen.Artifact, *chartgen.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, types.NewProcessingError(types.ErrChartGenerationFailed,
			"chart generation cancelled: "+err.Error(), "Retry the request")
	}

	dims, ok := chartDims[req.Layout]
	if !ok {
		dims = chartDims[types.LayoutL02]
	}
	params := chartgen.Params{
		ChartID:        ChartID(req.PresentationID, req.SlideID, 0),
		PresentationID: req.PresentationID,
		Theme:          theme,
		Title:          rc.SlideTitle,
		Width:          dims[0],
		Height:         dims[1],
		Constraints:    req.Constraints,
		EditorEndpoint: p.editorEndpoint,
	}
	primary, serr := p.charts.Generate(shaped, params)
	if serr != nil {
		return nil, nil, serr
	}
	if req.Layout != types.LayoutL03 {
		return primary, nil, nil
	}

	second := *shaped
	second.ChartType = complementaryType(shaped.ChartType)
	params.ChartID = ChartID(req.PresentationID, req.SlideID, 1)
	secondary, serr := p.charts.Generate(&second, params)
	if serr != nil {
		return nil, nil, serr
	}
	return primary, secondary, nil
}

// complementaryPairs picks the comparison layout's second chart type. Pairs
// stay within the primary's payload family so the shaped data renders both
// sides. Families without a distinct counterpart repeat the primary type.
var complementaryPairs = map[types.ChartType]types.ChartType{
	types.ChartTypeLine:          types.ChartTypeBarVertical,
	types.ChartTypeArea:          types.ChartTypeLine,
	types.ChartTypeBarVertical:   types.ChartTypeLine,
	types.ChartTypeBarHorizontal: types.ChartTypeBarVertical,
	types.ChartTypePie:           types.ChartTypeBarHorizontal,
	types.ChartTypeDoughnut:      types.ChartTypeBarHorizontal,
	types.ChartTypePolarArea:     types.ChartTypePie,
	types.ChartTypeWaterfall:     types.ChartTypeBarVertical,
	types.ChartTypeTreemap:       types.ChartTypeBarHorizontal,
	types.ChartTypeAreaStacked:   types.ChartTypeBarStacked,
	types.ChartTypeBarGrouped:    types.ChartTypeBarStacked,
	types.ChartTypeBarStacked:    types.ChartTypeBarGrouped,
	types.ChartTypeMixed:         types.ChartTypeBarGrouped,
	types.ChartTypeRadar:         types.ChartTypeBarGrouped,
}

func complementaryType(ct types.ChartType) types.ChartType {
	if paired, ok := complementaryPairs[ct]; ok {
		return paired
	}
	return ct
}

// ProcessBatch renders a batch request. Slides render concurrently with a
// bounded worker count; per-slide failures are reported inline and never
// fail the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, batch *types.BatchRequest) *types.BatchResponse {
	results := make([]types.BatchSlideResult, len(batch.Slides))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i := range batch.Slides {
		g.Go(func() error {
			slide := batch.Slides[i]
			if slide.PresentationID == "" {
				slide.PresentationID = batch.PresentationID
			}
			resp, serr := p.Process(gctx, &slide)
			if serr != nil {
				results[i] = types.BatchSlideResult{
					Success: false,
					SlideID: slide.SlideID,
					Error:   serr,
				}
				return nil
			}
			results[i] = types.BatchSlideResult{
				Success:  true,
				SlideID:  slide.SlideID,
				Content:  resp.Content,
				Metadata: &resp.Metadata,
			}
			return nil
		})
	}
	// workers never return errors; Wait only orders completion
	_ = g.Wait()

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	return &types.BatchResponse{
		PresentationID: batch.PresentationID,
		Slides:         results,
		Total:          len(results),
		Successful:     successful,
	}
}

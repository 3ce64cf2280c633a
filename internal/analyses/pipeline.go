package analyses

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-ats/internal/keywords"
	"resume-ats/internal/scoring"
	"resume-ats/internal/semantic"
	"resume-ats/internal/structure"
	"resume-ats/internal/suggestions"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/textproc"
)

// Components are the analyzers a Pipeline is assembled from.
type Components struct {
	Processor   *textproc.Processor
	Keywords    *keywords.Analyzer
	Semantic    *semantic.Analyzer
	Structure   *structure.Analyzer
	Scoring     *scoring.Engine
	Suggestions *suggestions.Generator
	// EmbeddingProvider names the backend behind Semantic, for status reports.
	EmbeddingProvider string
}

// Outcome holds every intermediate and final result of one run.
type Outcome struct {
	Mode        scoring.Mode
	Score       int
	Keyword     keywords.Result
	Semantic    *semantic.Result
	Structure   structure.Result
	Breakdown   scoring.Breakdown
	Suggestions []suggestions.Suggestion
	Duration    time.Duration
}

// Pipeline runs normalize, analyze, aggregate and synthesize for one request.
// It is immutable after construction and safe for concurrent use.
type Pipeline struct {
	c Components
}

// NewPipeline checks that every required component is present. Semantic may
// be nil, in which case full-mode analyses report model_not_loaded.
func NewPipeline(c Components) (*Pipeline, error) {
	switch {
	case c.Processor == nil:
		return nil, errors.New("pipeline: text processor is required")
	case c.Keywords == nil:
		return nil, errors.New("pipeline: keyword analyzer is required")
	case c.Structure == nil:
		return nil, errors.New("pipeline: structure analyzer is required")
	case c.Scoring == nil:
		return nil, errors.New("pipeline: scoring engine is required")
	case c.Suggestions == nil:
		return nil, errors.New("pipeline: suggestion generator is required")
	}
	if c.Semantic == nil {
		c.Semantic = semantic.New(nil)
	}
	return &Pipeline{c: c}, nil
}

// Run analyzes resumeText against jobText. Weak inputs never fail a run;
// only cancellation or an unexpected panic does, as ErrAnalysisFailed.
func (p *Pipeline) Run(ctx context.Context, resumeText, jobText string, mode scoring.Mode) (out Outcome, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logEvent(ctx, telemetry.Error, "analysis.panic", map[string]any{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			out, err = Outcome{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	resume := p.c.Processor.Process(resumeText)
	job := p.c.Processor.Process(jobText)

	var (
		kw  keywords.Result
		st  structure.Result
		sem *semantic.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(ctx, "keywords", func() {
		kw = p.c.Keywords.Analyze(gctx, resume, job)
	}))
	g.Go(guard(ctx, "structure", func() {
		st = p.c.Structure.Analyze(resume)
	}))
	if mode.RunsSemantic() {
		g.Go(guard(ctx, "semantic", func() {
			r := p.c.Semantic.Analyze(gctx, resume, job)
			sem = &r
		}))
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	in := scoring.Inputs{Mode: mode, Keyword: kw, Semantic: sem, Structure: st}
	breakdown := p.c.Scoring.Breakdown(in)
	score := breakdown.FinalScore

	return Outcome{
		Mode:      mode,
		Score:     score,
		Keyword:   kw,
		Semantic:  sem,
		Structure: st,
		Breakdown: breakdown,
		Suggestions: p.c.Suggestions.Generate(suggestions.Input{
			Keyword:   kw,
			Semantic:  sem,
			Structure: st,
			Score:     score,
		}),
		Duration: time.Since(start),
	}, nil
}

// Status reports which analyzers are ready.
func (p *Pipeline) Status() ModelStatus {
	return ModelStatus{
		SemanticAnalyzer:  p.c.Semantic.IsLoaded(),
		KeywordAnalyzer:   p.c.Keywords.Ready(),
		TextProcessor:     p.c.Processor.Ready(),
		StructureAnalyzer: p.c.Structure.Ready(),
		EmbeddingProvider: p.c.EmbeddingProvider,
		EmbeddingModel:    p.c.Semantic.ModelName(),
		EmbeddingBreaker:  p.c.Semantic.BreakerState(),
	}
}

// guard turns a panic inside a component goroutine into ErrAnalysisFailed.
func guard(ctx context.Context, component string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logEvent(ctx, telemetry.Error, "analysis.component_panic", map[string]any{
					"component": component,
					"panic":     fmt.Sprint(r),
				})
				err = fmt.Errorf("%w: %s: %v", ErrAnalysisFailed, component, r)
			}
		}()
		fn()
		return nil
	}
}

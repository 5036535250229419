// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content turns a research bundle into a blog post, a tweet thread,
// or a newsletter. A failed or unavailable model never fails a request: the
// caller receives a fallback post with its error annotated.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/llm"
	"github.com/pdiddy/coin-research/internal/metrics"
	"github.com/pdiddy/coin-research/pkg/types"
)

// DisabledMessage is the error annotation on posts produced without a model.
const DisabledMessage = "AI blog generation is disabled. Set GOOGLE_API_KEY environment variable to enable."

// Options configures a Generator.
type Options struct {
	// Timeout bounds each model call. Zero means no limit beyond ctx.
	Timeout time.Duration

	Metrics *metrics.Metrics

	// Now returns post timestamps; defaults to time.Now.
	Now func() time.Time
}

// Generator builds posts from research bundles. It is read-only after
// construction and safe for concurrent use.
type Generator struct {
	model llm.Model
	opts  Options
}

// New returns a Generator over model. A nil model yields a disabled
// generator that only produces fallback posts.
func New(model llm.Model, opts Options) *Generator {
	return &Generator{model: model, opts: opts}
}

// Enabled reports whether a model is configured.
func (g *Generator) Enabled() bool { return g.model != nil }

// ModelName returns the configured model name, or "" when disabled.
func (g *Generator) ModelName() string {
	if !g.Enabled() {
		return ""
	}
	return g.model.Name()
}

// CreatePost generates a post for bundle in style. The result is either a
// generated post or a fallback post whose Error field says why.
func (g *Generator) CreatePost(ctx context.Context, bundle types.ResearchBundle, style types.Style) types.GeneratedPost {
	coin := coinName(bundle)
	if _, ok := styleInstructions[style]; !ok {
		style = types.StyleAnalytical
	}

	if !g.Enabled() {
		g.opts.Metrics.RecordGeneration(string(types.ContentBlog), true)
		return g.fallback(bundle, DisabledMessage)
	}

	prompt, err := BuildPrompt(bundle, style)
	if err != nil {
		return g.fallback(bundle, fmt.Sprintf("Failed to generate blog post: rendering prompt: %v", err))
	}

	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.model.Generate(callCtx, prompt)
	g.opts.Metrics.RecordModelCall(string(types.ContentBlog), time.Since(start))
	g.opts.Metrics.RecordGeneration(string(types.ContentBlog), err != nil)
	if err != nil {
		log.Warn().Err(err).Str("coin", coin).Str("model", g.model.Name()).Msg("blog generation failed, using fallback")
		return g.fallback(bundle, fmt.Sprintf("Failed to generate blog post: %v", err))
	}

	now := g.now()
	post := types.GeneratedPost{
		Title:       fmt.Sprintf("%s Analysis: Complete Research Report %s", coin, now.Format("January 2006")),
		Content:     text,
		CoinName:    coin,
		Timestamp:   now,
		Style:       style,
		WordCount:   WordCount(text),
		Sections:    SplitSections(text),
		KeyInsights: KeyInsights(bundle),
	}
	log.Info().
		Str("coin", coin).
		Str("style", string(style)).
		Int("words", post.WordCount).
		Int("sections", len(post.Sections)).
		Dur("duration", time.Since(start)).
		Msg("blog post generated")
	return post
}

func (g *Generator) fallback(bundle types.ResearchBundle, reason string) types.GeneratedPost {
	return types.GeneratedPost{
		Title:     coinName(bundle) + " Analysis",
		Content:   FallbackContent(bundle),
		Timestamp: g.now(),
		Error:     reason,
	}
}

func (g *Generator) now() time.Time {
	if g.opts.Now != nil {
		return g.opts.Now()
	}
	return time.Now()
}

func coinName(b types.ResearchBundle) string {
	if b.CoinName == "" {
		return "Unknown Coin"
	}
	return b.CoinName
}

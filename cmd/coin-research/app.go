// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/archive"
	"github.com/pdiddy/coin-research/internal/content"
	"github.com/pdiddy/coin-research/internal/httputil"
	"github.com/pdiddy/coin-research/internal/llm"
	"github.com/pdiddy/coin-research/internal/market"
	"github.com/pdiddy/coin-research/internal/metrics"
	"github.com/pdiddy/coin-research/internal/research"
	"github.com/pdiddy/coin-research/internal/search"
	"github.com/pdiddy/coin-research/pkg/types"
)

// app holds the wired components shared by the subcommands.
type app struct {
	metrics    *metrics.Metrics
	aggregator *research.Aggregator
	generator  *content.Generator
}

// newsProvider picks the news backend. RSS needs no local service and is
// the default; searx shares the web search instance.
func newsProvider(c types.Config, client *http.Client, web *search.Searx) (search.Provider, error) {
	switch strings.ToLower(c.Search.NewsBackend) {
	case "", "rss":
		return search.NewRSS(c.Search.NewsFeedURL, client, c.HTTP.UserAgent), nil
	case "searx":
		return web, nil
	default:
		return nil, fmt.Errorf("unknown news backend %q (valid: rss, searx)", c.Search.NewsBackend)
	}
}

// newApp builds the research and content stack from c. A missing AI key
// leaves the generator disabled rather than failing.
func newApp(ctx context.Context, c types.Config) (*app, error) {
	m := metrics.New(nil, metrics.DefaultNamespace)
	client := httputil.NewClient(c.HTTP)

	web := &search.Searx{Client: client, BaseURL: c.Search.SearxURL, UserAgent: c.HTTP.UserAgent}
	news, err := newsProvider(c, client, web)
	if err != nil {
		return nil, err
	}

	agg := research.New(
		&market.DexScreener{Client: client, BaseURL: c.Providers.DexScreenerURL, UserAgent: c.HTTP.UserAgent},
		&market.CoinGecko{Client: client, BaseURL: c.Providers.CoinGeckoURL, UserAgent: c.HTTP.UserAgent},
		search.NewClient(web, news, c.Search),
		c.Research,
		m,
	)

	model, err := llm.New(ctx, c.AI, &http.Client{Timeout: c.AI.Timeout})
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		log.Warn().Str("provider", c.AI.Provider).Msg("no AI key configured, content generation disabled")
	case err != nil:
		return nil, err
	default:
		log.Info().Str("provider", c.AI.Provider).Str("model", model.Name()).Msg("content generation enabled")
	}

	return &app{
		metrics:    m,
		aggregator: agg,
		generator:  content.New(model, content.Options{Timeout: c.AI.Timeout, Metrics: m}),
	}, nil
}

// openArchive opens the configured archive sink.
func openArchive(c types.Config) (archive.Sink, error) {
	sink, err := archive.New(c.Archive)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return sink, nil
}

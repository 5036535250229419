// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs web, news and social queries for a coin against a
// text search provider and returns truncated, deduplicated snippets.
//
// A failed provider call never returns an error: the whole call collapses
// to a single error marker result.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/pkg/types"
)

// SnippetLimit is the maximum snippet length in characters.
const SnippetLimit = 200

// TimeRangeWeek restricts results to the last seven days.
const TimeRangeWeek = "week"

// Provider runs one free-text query against a search engine. Each engine
// (SearXNG, an RSS news feed) implements this interface.
type Provider interface {
	Name() string
	Text(ctx context.Context, query string, opts Options) ([]Hit, error)
}

// Options narrows a provider query.
type Options struct {
	MaxResults int
	TimeRange  string
	News       bool
}

// Hit is one raw provider result.
type Hit struct {
	Title string
	Link  string
	Body  string
}

// socialTemplates are the site-restricted social queries, in merge order.
var socialTemplates = []string{
	"site:reddit.com %s crypto",
	"site:twitter.com %s",
	"site:x.com %s",
	"site:t.me %s",
	"site:discord.com %s crypto",
	"site:medium.com %s token",
}

// Client issues the three query shapes. News queries go to NewsProvider
// when set and to Provider otherwise.
type Client struct {
	Provider     Provider
	NewsProvider Provider
	MaxResults   int
	SocialLimit  int
}

// NewClient returns a Client configured from cfg.
func NewClient(web, news Provider, cfg types.SearchConfig) *Client {
	return &Client{
		Provider:     web,
		NewsProvider: news,
		MaxResults:   cfg.MaxResults,
		SocialLimit:  cfg.SocialMaxPerQuery,
	}
}

// Web runs a plain web query and returns up to max results.
func (c *Client) Web(ctx context.Context, query string, max int) []types.SearchResult {
	if max <= 0 {
		max = c.maxResults()
	}
	hits, err := c.run(ctx, c.Provider, query, Options{MaxResults: max})
	if err != nil {
		return failure("Web search failed", err)
	}
	return toResults(hits, "")
}

// News searches recent news coverage of coin.
func (c *Client) News(ctx context.Context, coin string) []types.SearchResult {
	p := c.NewsProvider
	if p == nil {
		p = c.Provider
	}
	query := coin + " meme coin crypto news"
	hits, err := c.run(ctx, p, query, Options{MaxResults: c.maxResults(), News: true})
	if err != nil {
		return failure("Web search failed", err)
	}
	return toResults(hits, "")
}

// Social runs one site-restricted query per social platform, merging the
// results in template order. Links seen earlier in the sweep are dropped,
// as are results without a link. Any failed query fails the whole sweep.
func (c *Client) Social(ctx context.Context, coin string) []types.SearchResult {
	limit := c.SocialLimit
	if limit <= 0 {
		limit = 3
	}

	seen := make(map[string]bool)
	results := []types.SearchResult{}
	for _, tmpl := range socialTemplates {
		q := fmt.Sprintf(tmpl, coin)
		hits, err := c.run(ctx, c.Provider, q, Options{MaxResults: limit, TimeRange: TimeRangeWeek})
		if err != nil {
			return failure("Social search failed", err)
		}
		for _, h := range hits {
			if h.Link == "" || seen[h.Link] {
				continue
			}
			seen[h.Link] = true
			results = append(results, toResult(h, q))
		}
	}
	return results
}

func (c *Client) run(ctx context.Context, p Provider, query string, opts Options) ([]Hit, error) {
	if p == nil {
		return nil, fmt.Errorf("no search provider configured")
	}
	start := time.Now()
	hits, err := p.Text(ctx, query, opts)
	ev := log.Debug().Str("provider", p.Name()).Str("query", query).Dur("duration", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("search failed")
		return nil, err
	}
	if opts.MaxResults > 0 && len(hits) > opts.MaxResults {
		hits = hits[:opts.MaxResults]
	}
	ev.Int("hits", len(hits)).Msg("search complete")
	return hits, nil
}

func (c *Client) maxResults() int {
	if c.MaxResults <= 0 {
		return 5
	}
	return c.MaxResults
}

func failure(prefix string, err error) []types.SearchResult {
	return []types.SearchResult{{Error: fmt.Sprintf("%s: %v", prefix, err)}}
}

func toResults(hits []Hit, sourceQuery string) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, toResult(h, sourceQuery))
	}
	return results
}

func toResult(h Hit, sourceQuery string) types.SearchResult {
	return types.SearchResult{
		Title:       h.Title,
		Link:        h.Link,
		Snippet:     truncate(h.Body, SnippetLimit),
		SourceQuery: sourceQuery,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

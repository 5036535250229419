// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/coin-research/internal/httputil"
)

// searxBase is the default SearXNG instance. Declared as a var so tests can
// substitute an httptest server.
var searxBase = "http://localhost:8888"

// Searx queries a SearXNG instance through its JSON API. The instance must
// have the json output format enabled.
type Searx struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// Name returns the provider identifier.
func (s *Searx) Name() string { return "searx" }

// Text runs query and returns hits in engine rank order.
func (s *Searx) Text(ctx context.Context, query string, opts Options) ([]Hit, error) {
	base := s.BaseURL
	if base == "" {
		base = searxBase
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
	}
	if opts.News {
		params.Set("categories", "news")
	}
	if opts.TimeRange != "" {
		params.Set("time_range", opts.TimeRange)
	}

	var resp searxResponse
	if err := httputil.GetJSON(ctx, s.Client, base+"/search?"+params.Encode(), s.UserAgent, &resp); err != nil {
		return nil, fmt.Errorf("searx query: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, Hit{Title: r.Title, Link: r.URL, Body: r.Content})
		if opts.MaxResults > 0 && len(hits) == opts.MaxResults {
			break
		}
	}
	return hits, nil
}

// SearXNG JSON structures.
type searxResponse struct {
	Query   string        `json:"query"`
	Results []searxResult `json:"results"`
}

type searxResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Engine  string `json:"engine"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

// rssSearchBase is the default news search feed.
var rssSearchBase = "https://news.google.com/rss/search"

// RSS searches a news feed that accepts the query as a q parameter and
// answers with RSS or Atom. Time ranges are not supported by feeds and are
// ignored.
type RSS struct {
	FeedURL string
	parser  *gofeed.Parser
}

// NewRSS returns an RSS provider for feedURL using client for fetches.
func NewRSS(feedURL string, client *http.Client, userAgent string) *RSS {
	p := gofeed.NewParser()
	p.Client = client
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &RSS{FeedURL: feedURL, parser: p}
}

// Name returns the provider identifier.
func (r *RSS) Name() string { return "rss" }

// Text fetches the feed for query and maps items to hits.
func (r *RSS) Text(ctx context.Context, query string, opts Options) ([]Hit, error) {
	base := r.FeedURL
	if base == "" {
		base = rssSearchBase
	}
	parser := r.parser
	if parser == nil {
		parser = gofeed.NewParser()
	}

	feed, err := parser.ParseURLWithContext(base+"?"+url.Values{"q": {query}}.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching news feed: %w", err)
	}

	hits := make([]Hit, 0, len(feed.Items))
	for _, item := range feed.Items {
		body := item.Description
		if body == "" {
			body = item.Content
		}
		hits = append(hits, Hit{Title: item.Title, Link: item.Link, Body: stripHTML(body)})
		if opts.MaxResults > 0 && len(hits) == opts.MaxResults {
			break
		}
	}
	return hits, nil
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

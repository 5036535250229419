// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock provider ---

type call struct {
	query string
	opts  Options
}

type mockProvider struct {
	mu    sync.Mutex
	hits  map[string][]Hit
	fail  map[string]error
	calls []call
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Text(_ context.Context, query string, opts Options) ([]Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{query: query, opts: opts})
	if err := m.fail[query]; err != nil {
		return nil, err
	}
	return m.hits[query], nil
}

// --- Web ---

func TestWebMapsHits(t *testing.T) {
	p := &mockProvider{hits: map[string][]Hit{
		"pepe cryptocurrency analysis": {
			{Title: "A", Link: "https://a", Body: "alpha"},
			{Title: "B", Link: "https://b", Body: "beta"},
		},
	}}
	c := &Client{Provider: p}

	got := c.Web(context.Background(), "pepe cryptocurrency analysis", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "https://a", got[0].Link)
	assert.Equal(t, "alpha", got[0].Snippet)
	assert.Empty(t, got[0].SourceQuery)
	assert.Equal(t, 5, p.calls[0].opts.MaxResults, "default max")
}

func TestWebCapsResults(t *testing.T) {
	hits := make([]Hit, 10)
	for i := range hits {
		hits[i] = Hit{Title: "t", Link: strings.Repeat("x", i+1)}
	}
	p := &mockProvider{hits: map[string][]Hit{"q": hits}}
	c := &Client{Provider: p}

	assert.Len(t, c.Web(context.Background(), "q", 4), 4)
}

func TestWebFailureIsSingleMarker(t *testing.T) {
	p := &mockProvider{fail: map[string]error{"q": errors.New("ratelimit")}}
	c := &Client{Provider: p}

	got := c.Web(context.Background(), "q", 5)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsError())
	assert.Equal(t, "Web search failed: ratelimit", got[0].Error)
}

func TestWebWithoutProvider(t *testing.T) {
	got := (&Client{}).Web(context.Background(), "q", 5)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsError())
}

// --- News ---

func TestNewsQueryShape(t *testing.T) {
	web := &mockProvider{}
	news := &mockProvider{hits: map[string][]Hit{
		"PEPE meme coin crypto news": {{Title: "Pepe rallies", Link: "https://n/1"}},
	}}
	c := &Client{Provider: web, NewsProvider: news}

	got := c.News(context.Background(), "PEPE")
	require.Len(t, got, 1)
	assert.Equal(t, "Pepe rallies", got[0].Title)
	assert.Empty(t, web.calls, "news goes to the news provider")
	require.Len(t, news.calls, 1)
	assert.True(t, news.calls[0].opts.News)
	assert.Equal(t, 5, news.calls[0].opts.MaxResults)
}

func TestNewsFallsBackToWebProvider(t *testing.T) {
	web := &mockProvider{}
	c := &Client{Provider: web}
	c.News(context.Background(), "PEPE")
	require.Len(t, web.calls, 1)
	assert.Equal(t, "PEPE meme coin crypto news", web.calls[0].query)
}

func TestNewsFailureIsSingleMarker(t *testing.T) {
	p := &mockProvider{fail: map[string]error{"PEPE meme coin crypto news": errors.New("boom")}}
	got := (&Client{Provider: p}).News(context.Background(), "PEPE")
	require.Len(t, got, 1)
	assert.Equal(t, "Web search failed: boom", got[0].Error)
}

// --- Social ---

func TestSocialRunsEveryTemplate(t *testing.T) {
	p := &mockProvider{}
	c := &Client{Provider: p}
	got := c.Social(context.Background(), "BONK")

	assert.Empty(t, got)
	require.Len(t, p.calls, 6)
	want := []string{
		"site:reddit.com BONK crypto",
		"site:twitter.com BONK",
		"site:x.com BONK",
		"site:t.me BONK",
		"site:discord.com BONK crypto",
		"site:medium.com BONK token",
	}
	for i, q := range want {
		assert.Equal(t, q, p.calls[i].query)
		assert.Equal(t, TimeRangeWeek, p.calls[i].opts.TimeRange)
		assert.Equal(t, 3, p.calls[i].opts.MaxResults)
	}
}

func TestSocialDeduplicatesAcrossTemplates(t *testing.T) {
	shared := Hit{Title: "thread", Link: "https://shared", Body: "same post"}
	p := &mockProvider{hits: map[string][]Hit{
		"site:reddit.com BONK crypto": {shared, {Title: "r", Link: "https://r"}},
		"site:twitter.com BONK":       {{Title: "no link"}, shared},
		"site:x.com BONK":             {shared, {Title: "x", Link: "https://x"}},
	}}
	c := &Client{Provider: p}

	got := c.Social(context.Background(), "BONK")
	links := map[string]int{}
	for _, r := range got {
		links[r.Link]++
	}
	assert.Equal(t, 1, links["https://shared"])
	assert.Zero(t, links[""], "results without a link are dropped")
	require.Len(t, got, 3)
	assert.Equal(t, "site:reddit.com BONK crypto", got[0].SourceQuery)
	assert.Equal(t, "https://r", got[1].Link)
	assert.Equal(t, "site:x.com BONK", got[2].SourceQuery)
}

func TestSocialCapsPerTemplate(t *testing.T) {
	p := &mockProvider{hits: map[string][]Hit{
		"site:t.me BONK": {
			{Link: "1"}, {Link: "2"}, {Link: "3"}, {Link: "4"}, {Link: "5"},
		},
	}}
	got := (&Client{Provider: p}).Social(context.Background(), "BONK")
	assert.Len(t, got, 3)
}

func TestSocialFailureCollapsesSweep(t *testing.T) {
	p := &mockProvider{
		hits: map[string][]Hit{"site:reddit.com BONK crypto": {{Link: "https://r"}}},
		fail: map[string]error{"site:x.com BONK": errors.New("429 too many requests")},
	}
	got := (&Client{Provider: p}).Social(context.Background(), "BONK")
	require.Len(t, got, 1)
	assert.Equal(t, "Social search failed: 429 too many requests", got[0].Error)
}

// --- truncation ---

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("é", 450)
	p := &mockProvider{hits: map[string][]Hit{
		"q":                        {{Link: "a", Body: long}},
		"site:reddit.com q crypto": {{Link: "b", Body: long}},
		"q meme coin crypto news":  {{Link: "c", Body: long}},
	}}
	c := &Client{Provider: p}

	var all []string
	for _, r := range c.Web(context.Background(), "q", 5) {
		all = append(all, r.Snippet)
	}
	for _, r := range c.Social(context.Background(), "q") {
		all = append(all, r.Snippet)
	}
	for _, r := range c.News(context.Background(), "q") {
		all = append(all, r.Snippet)
	}
	require.Len(t, all, 3)
	for _, s := range all {
		assert.LessOrEqual(t, len([]rune(s)), SnippetLimit)
		assert.Equal(t, SnippetLimit, len([]rune(s)))
	}
}

func TestTruncateShortInput(t *testing.T) {
	assert.Equal(t, "short", truncate("  short ", 200))
	assert.Equal(t, "ab", truncate("abc", 2))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research assembles a research bundle for one coin by querying
// every data source concurrently and joining all results.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/metrics"
	"github.com/pdiddy/coin-research/pkg/types"
)

// ErrEmptyCoinName is returned when the coin name is empty after trimming.
var ErrEmptyCoinName = errors.New("coin name cannot be empty")

// DefaultTopItems is the number of search results kept per list in a bundle.
const DefaultTopItems = 3

// Metric source labels.
const (
	SourceMarket   = "dexscreener"
	SourceIdentity = "coingecko"
	SourceNews     = "news"
	SourceSocial   = "social"
	SourceWeb      = "web"
)

// MarketSource returns the primary trading pair for a coin query.
type MarketSource interface {
	Fetch(ctx context.Context, query string) types.Slot[types.MarketSnapshot]
}

// IdentitySource returns coin metadata for a coin query.
type IdentitySource interface {
	Fetch(ctx context.Context, query string) types.Slot[types.CoinIdentity]
}

// Searcher runs the web, news and social query shapes. Failures are
// returned as a single error marker result.
type Searcher interface {
	Web(ctx context.Context, query string, max int) []types.SearchResult
	News(ctx context.Context, coin string) []types.SearchResult
	Social(ctx context.Context, coin string) []types.SearchResult
}

// Aggregator fans out one research request to every source. It holds no
// per-request state and is safe for concurrent use.
type Aggregator struct {
	Market   MarketSource
	Identity IdentitySource
	Search   Searcher

	// TopItems caps each search list in the bundle. The summary line counts
	// the full lists.
	TopItems int

	Metrics *metrics.Metrics

	// Now returns the bundle timestamp; defaults to time.Now.
	Now func() time.Time
}

// New returns an Aggregator over the given sources.
func New(market MarketSource, identity IdentitySource, search Searcher, cfg types.ResearchConfig, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		Market:   market,
		Identity: identity,
		Search:   search,
		TopItems: cfg.TopItems,
		Metrics:  m,
	}
}

// Analyze researches coinName. Every source runs concurrently and Analyze
// waits for all of them; a failed or panicking source degrades only its own
// slot. The only error is ErrEmptyCoinName.
func (a *Aggregator) Analyze(ctx context.Context, coinName string) (types.ResearchBundle, error) {
	coin := strings.TrimSpace(coinName)
	if coin == "" {
		return types.ResearchBundle{}, ErrEmptyCoinName
	}

	start := time.Now()
	log.Info().Str("coin", coin).Msg("researching")

	var (
		wg       sync.WaitGroup
		market   types.Slot[types.MarketSnapshot]
		identity types.Slot[types.CoinIdentity]
		news     []types.SearchResult
		social   []types.SearchResult
		web      []types.SearchResult
	)

	a.run(&wg, SourceMarket, func() bool {
		market = a.Market.Fetch(ctx, coin)
		return market.OK()
	}, func(msg string) {
		market = types.Failed[types.MarketSnapshot](msg)
	})
	a.run(&wg, SourceIdentity, func() bool {
		identity = a.Identity.Fetch(ctx, coin)
		return identity.OK()
	}, func(msg string) {
		identity = types.Failed[types.CoinIdentity](msg)
	})
	a.run(&wg, SourceNews, func() bool {
		news = a.Search.News(ctx, coin)
		return listOK(news)
	}, func(msg string) {
		news = marker(msg)
	})
	a.run(&wg, SourceSocial, func() bool {
		social = a.Search.Social(ctx, coin)
		return listOK(social)
	}, func(msg string) {
		social = marker(msg)
	})
	a.run(&wg, SourceWeb, func() bool {
		web = a.Search.Web(ctx, coin+" cryptocurrency analysis", 0)
		return listOK(web)
	}, func(msg string) {
		web = marker(msg)
	})

	wg.Wait()

	bundle := types.ResearchBundle{
		CoinName:  coin,
		Timestamp: a.now(),
		Market:    market,
		Identity:  identity,
		News:      top(news, a.topItems()),
		Social:    top(social, a.topItems()),
		Web:       top(web, a.topItems()),
		Summary:   Summary(market, identity, news, social, web),
	}

	a.Metrics.RecordResearch()
	log.Info().
		Str("coin", coin).
		Bool("market", market.OK()).
		Bool("identity", identity.OK()).
		Int("news", types.CountResults(news)).
		Int("social", types.CountResults(social)).
		Int("web", types.CountResults(web)).
		Dur("duration", time.Since(start)).
		Msg("research complete")

	return bundle, nil
}

// MarketData fetches only the primary trading pair.
func (a *Aggregator) MarketData(ctx context.Context, coinName string) (types.Slot[types.MarketSnapshot], error) {
	coin := strings.TrimSpace(coinName)
	if coin == "" {
		return types.Slot[types.MarketSnapshot]{}, ErrEmptyCoinName
	}
	start := time.Now()
	s := a.Market.Fetch(ctx, coin)
	a.Metrics.RecordFetch(SourceMarket, s.OK(), time.Since(start))
	return s, nil
}

// SocialMetrics runs only the social sweep.
func (a *Aggregator) SocialMetrics(ctx context.Context, coinName string) ([]types.SearchResult, error) {
	return a.single(ctx, coinName, SourceSocial, a.Search.Social)
}

// WhaleActivity searches the web for large-holder activity.
func (a *Aggregator) WhaleActivity(ctx context.Context, coinName string) ([]types.SearchResult, error) {
	return a.single(ctx, coinName, SourceWeb, func(ctx context.Context, coin string) []types.SearchResult {
		return a.Search.Web(ctx, coin+" whale activity", 0)
	})
}

// News runs only the news search.
func (a *Aggregator) News(ctx context.Context, coinName string) ([]types.SearchResult, error) {
	return a.single(ctx, coinName, SourceNews, a.Search.News)
}

func (a *Aggregator) single(ctx context.Context, coinName, source string, fn func(context.Context, string) []types.SearchResult) ([]types.SearchResult, error) {
	coin := strings.TrimSpace(coinName)
	if coin == "" {
		return nil, ErrEmptyCoinName
	}
	start := time.Now()
	results := fn(ctx, coin)
	a.Metrics.RecordFetch(source, listOK(results), time.Since(start))
	return results, nil
}

// run starts fn in its own goroutine. A panic in fn is recovered and
// handed to onPanic so the task still produces a value for its slot.
func (a *Aggregator) run(wg *sync.WaitGroup, source string, fn func() bool, onPanic func(msg string)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		ok := false
		defer func() {
			if r := recover(); r != nil {
				msg := fmt.Sprintf("%s task failed: %v", source, r)
				log.Error().Str("source", source).Interface("panic", r).Msg("research task panicked")
				onPanic(msg)
				ok = false
			}
			a.Metrics.RecordFetch(source, ok, time.Since(start))
			log.Debug().Str("source", source).Bool("ok", ok).Dur("duration", time.Since(start)).Msg("research task done")
		}()
		ok = fn()
	}()
}

func (a *Aggregator) topItems() int {
	if a.TopItems <= 0 {
		return DefaultTopItems
	}
	return a.TopItems
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func marker(msg string) []types.SearchResult {
	return []types.SearchResult{{Error: msg}}
}

func listOK(results []types.SearchResult) bool {
	return len(results) == 0 || !results[0].IsError()
}

func top(results []types.SearchResult, n int) []types.SearchResult {
	if len(results) > n {
		return results[:n]
	}
	if results == nil {
		return []types.SearchResult{}
	}
	return results
}

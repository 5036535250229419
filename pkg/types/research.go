// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for coin research: provider
// records, the per-request research bundle, generated content, and config.
package types

import "time"

// Token identifies one side of a trading pair.
type Token struct {
	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
}

// MarketSnapshot is the most liquid trading pair found for a coin query.
type MarketSnapshot struct {
	// Source names the provider (e.g. "DEX Screener").
	Source string `json:"source"`

	// PairsFound is the number of pairs the provider returned for the query.
	PairsFound int `json:"pairs_found"`

	PairAddress    string   `json:"pair_address"`
	BaseToken      Token    `json:"base_token"`
	QuoteToken     Token    `json:"quote_token"`
	PriceUSD       OptFloat `json:"price_usd"`
	Volume24h      OptFloat `json:"volume_24h"`
	LiquidityUSD   OptFloat `json:"liquidity_usd"`
	PriceChange24h OptFloat `json:"price_change_24h"`
	DEX            string   `json:"dex"`
	Chain          string   `json:"chain"`
}

// CoinIdentity is the provider's best match for a coin query. The first
// search hit is taken as-is; there is no relevance scoring.
type CoinIdentity struct {
	Source        string `json:"source"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
	ThumbnailURL  string `json:"thumb,omitempty"`
	LargeIconURL  string `json:"large,omitempty"`
}

// SearchResult is one web, news, or social search hit. A result with Error
// set is an error marker standing in for a failed search call.
type SearchResult struct {
	Title       string `json:"title,omitempty"`
	Link        string `json:"link,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	SourceQuery string `json:"source_query,omitempty"`
	Error       string `json:"error,omitempty"`
}

// IsError reports whether r is an error marker.
func (r SearchResult) IsError() bool { return r.Error != "" }

// CountResults returns the number of non-error results, or 0 when the list
// is empty or led by an error marker.
func CountResults(results []SearchResult) int {
	if len(results) == 0 || results[0].IsError() {
		return 0
	}
	n := 0
	for _, r := range results {
		if !r.IsError() {
			n++
		}
	}
	return n
}

// ResearchBundle is the per-request aggregate of everything fetched for one
// coin. It is built by the research aggregator and read by content
// generation; nothing in it outlives the request unless archived.
type ResearchBundle struct {
	CoinName  string               `json:"coin_name"`
	Timestamp time.Time            `json:"timestamp"`
	Market    Slot[MarketSnapshot] `json:"dex_screener"`
	Identity  Slot[CoinIdentity]   `json:"coingecko"`
	News      []SearchResult       `json:"news"`
	Social    []SearchResult       `json:"social_media"`
	Web       []SearchResult       `json:"web_analysis"`
	Summary   string               `json:"summary"`
}

// IsEmpty reports whether the bundle carries no research data at all.
func (b ResearchBundle) IsEmpty() bool {
	return b.CoinName == "" && !b.Market.OK() && !b.Identity.OK() &&
		len(b.News) == 0 && len(b.Social) == 0 && len(b.Web) == 0
}

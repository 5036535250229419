// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package market fetches and normalizes coin data from public market data
// providers. Every failure is returned as data in a types.Slot; nothing in
// this package returns an error past its boundary.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/httputil"
	"github.com/pdiddy/coin-research/pkg/types"
)

// dexScreenerAPIBase is the default DexScreener API base URL.
var dexScreenerAPIBase = "https://api.dexscreener.com/latest/dex"

const dexScreenerName = "DEX Screener"

// DexScreener is the market data client. It selects the most liquid pair
// returned by the DexScreener pair search.
type DexScreener struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// Name returns the provider name used in error messages.
func (d *DexScreener) Name() string { return dexScreenerName }

// Fetch searches pairs for query and returns the most liquid one.
func (d *DexScreener) Fetch(ctx context.Context, query string) types.Slot[types.MarketSnapshot] {
	base := d.BaseURL
	if base == "" {
		base = dexScreenerAPIBase
	}
	reqURL := base + "/search?" + url.Values{"q": {query}}.Encode()

	start := time.Now()
	var resp dexSearchResponse
	if err := httputil.GetJSON(ctx, d.Client, reqURL, d.UserAgent, &resp); err != nil {
		log.Debug().Err(err).Str("provider", dexScreenerName).Str("query", query).Msg("pair search failed")
		return types.Failed[types.MarketSnapshot](providerError(dexScreenerName, err))
	}

	if len(resp.Pairs) == 0 {
		return types.Failed[types.MarketSnapshot]("No data found")
	}
	var pairs []dexPair
	if err := json.Unmarshal(resp.Pairs, &pairs); err != nil {
		return types.Failed[types.MarketSnapshot](providerError(dexScreenerName, err))
	}
	if len(pairs) == 0 {
		return types.Failed[types.MarketSnapshot]("No trading pairs found")
	}

	best := bestPair(pairs)

	log.Debug().
		Str("query", query).
		Int("pairs", len(pairs)).
		Str("pair", best.PairAddress).
		Dur("duration", time.Since(start)).
		Msg("DexScreener pair selected")

	return types.OK(types.MarketSnapshot{
		Source:         dexScreenerName,
		PairsFound:     len(pairs),
		PairAddress:    best.PairAddress,
		BaseToken:      best.BaseToken,
		QuoteToken:     best.QuoteToken,
		PriceUSD:       best.PriceUSD,
		Volume24h:      best.Volume.H24,
		LiquidityUSD:   best.Liquidity.USD,
		PriceChange24h: best.PriceChange.H24,
		DEX:            best.DexID,
		Chain:          best.ChainID,
	})
}

// bestPair returns the pair with the highest USD liquidity. Missing or
// non-numeric liquidity counts as zero and ties keep the earliest pair.
// pairs must not be empty.
func bestPair(pairs []dexPair) dexPair {
	best := 0
	bestLiq := pairs[0].Liquidity.USD.Or(0)
	for i := 1; i < len(pairs); i++ {
		if liq := pairs[i].Liquidity.USD.Or(0); liq > bestLiq {
			best, bestLiq = i, liq
		}
	}
	return pairs[best]
}

// providerError renders an upstream failure the same way for every provider.
func providerError(provider string, err error) string {
	var se *httputil.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s API error: %d", provider, se.StatusCode)
	}
	return fmt.Sprintf("%s search failed: %v", provider, err)
}

// DexScreener API JSON structures. Pairs stays raw so a missing key can be
// told apart from null or an empty list.
type dexSearchResponse struct {
	Pairs json.RawMessage `json:"pairs"`
}

type dexPair struct {
	ChainID     string         `json:"chainId"`
	DexID       string         `json:"dexId"`
	PairAddress string         `json:"pairAddress"`
	BaseToken   types.Token    `json:"baseToken"`
	QuoteToken  types.Token    `json:"quoteToken"`
	PriceUSD    types.OptFloat `json:"priceUsd"`
	Volume      dexWindow      `json:"volume"`
	PriceChange dexWindow      `json:"priceChange"`
	Liquidity   dexLiquidity   `json:"liquidity"`
}

type dexWindow struct {
	H24 types.OptFloat `json:"h24"`
}

type dexLiquidity struct {
	USD types.OptFloat `json:"usd"`
}

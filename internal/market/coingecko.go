// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/httputil"
	"github.com/pdiddy/coin-research/pkg/types"
)

// coinGeckoAPIBase is the default CoinGecko API base URL.
var coinGeckoAPIBase = "https://api.coingecko.com/api/v3"

const coinGeckoName = "CoinGecko"

// CoinGecko is the coin metadata client. The first search hit is treated
// as the provider's best guess; no relevance scoring is applied.
type CoinGecko struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// Name returns the provider name used in error messages.
func (c *CoinGecko) Name() string { return coinGeckoName }

// Fetch searches coins for query and returns the first match.
func (c *CoinGecko) Fetch(ctx context.Context, query string) types.Slot[types.CoinIdentity] {
	base := c.BaseURL
	if base == "" {
		base = coinGeckoAPIBase
	}
	reqURL := base + "/search?" + url.Values{"query": {query}}.Encode()

	var resp geckoSearchResponse
	if err := httputil.GetJSON(ctx, c.Client, reqURL, c.UserAgent, &resp); err != nil {
		log.Debug().Err(err).Str("provider", coinGeckoName).Str("query", query).Msg("coin search failed")
		return types.Failed[types.CoinIdentity](providerError(coinGeckoName, err))
	}

	if len(resp.Coins) == 0 {
		return types.Failed[types.CoinIdentity]("No data found")
	}
	var coins []geckoCoin
	if err := json.Unmarshal(resp.Coins, &coins); err != nil {
		return types.Failed[types.CoinIdentity](providerError(coinGeckoName, err))
	}
	if len(coins) == 0 {
		return types.Failed[types.CoinIdentity]("No coins found")
	}

	coin := coins[0]
	log.Debug().Str("query", query).Str("id", coin.ID).Int("candidates", len(coins)).Msg("CoinGecko coin selected")

	return types.OK(types.CoinIdentity{
		Source:        coinGeckoName,
		ID:            coin.ID,
		Name:          coin.Name,
		Symbol:        coin.Symbol,
		MarketCapRank: rank(coin.MarketCapRank),
		ThumbnailURL:  coin.Thumb,
		LargeIconURL:  coin.Large,
	})
}

// CoinGecko API JSON structures.
type geckoSearchResponse struct {
	Coins json.RawMessage `json:"coins"`
}

type geckoCoin struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	MarketCapRank types.OptFloat `json:"market_cap_rank"`
	Thumb         string         `json:"thumb"`
	Large         string         `json:"large"`
}

// rank converts a provider rank to an integer, dropping absent or
// non-numeric values.
func rank(f types.OptFloat) *int {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	r := int(v)
	return &r
}

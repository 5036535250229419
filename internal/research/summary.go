// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/coin-research/pkg/types"
)

// LimitedData is the summary line when no source produced anything.
const LimitedData = "Limited data available"

const summarySeparator = " | "

// Summary builds the one-line digest of a bundle. Clauses appear in a fixed
// order: price, identity, news count, social count, web count. Counts skip
// error markers and a list led by a marker contributes no clause.
func Summary(market types.Slot[types.MarketSnapshot], identity types.Slot[types.CoinIdentity], news, social, web []types.SearchResult) string {
	var parts []string

	if m, ok := market.Value(); ok {
		parts = append(parts, fmt.Sprintf("💰 Price: $%s (%s%% 24h) | Volume: $%s",
			m.PriceUSD, m.PriceChange24h, m.Volume24h))
	}
	if id, ok := identity.Value(); ok {
		parts = append(parts, fmt.Sprintf("📊 %s | Market Cap Rank: #%s", id.Name, rankString(id.MarketCapRank)))
	}
	if listPresent(news) {
		parts = append(parts, fmt.Sprintf("📰 %d news items", types.CountResults(news)))
	}
	if listPresent(social) {
		parts = append(parts, fmt.Sprintf("👥 %d social mentions", types.CountResults(social)))
	}
	if listPresent(web) {
		parts = append(parts, fmt.Sprintf("🌐 %d web sources", types.CountResults(web)))
	}

	if len(parts) == 0 {
		return LimitedData
	}
	return strings.Join(parts, summarySeparator)
}

// listPresent reports whether a list is non-empty and not led by an error.
func listPresent(results []types.SearchResult) bool {
	return len(results) > 0 && !results[0].IsError()
}

func rankString(rank *int) string {
	if rank == nil {
		return "N/A"
	}
	return strconv.Itoa(*rank)
}

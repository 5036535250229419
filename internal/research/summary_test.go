// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/coin-research/pkg/types"
)

func TestSummaryClauseOrder(t *testing.T) {
	market := types.OK(types.MarketSnapshot{
		PriceUSD:       types.Float(1.5),
		PriceChange24h: types.Float(2),
		Volume24h:      types.Float(1000),
	})
	identity := types.OK(types.CoinIdentity{Name: "Dogecoin", MarketCapRank: rank(8)})

	got := Summary(market, identity, results(1), results(2), results(3))
	parts := strings.Split(got, " | ")
	// The price clause carries its own separator before the volume.
	assert.Equal(t, []string{
		"💰 Price: $1.5 (2% 24h)",
		"Volume: $1000",
		"📊 Dogecoin",
		"Market Cap Rank: #8",
		"📰 1 news items",
		"👥 2 social mentions",
		"🌐 3 web sources",
	}, parts)
}

func TestSummaryStableAcrossCalls(t *testing.T) {
	identity := types.OK(types.CoinIdentity{Name: "Pepe"})
	first := Summary(types.Failed[types.MarketSnapshot]("x"), identity, nil, results(1), results(1))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Summary(types.Failed[types.MarketSnapshot]("x"), identity, nil, results(1), results(1)))
	}
	assert.Equal(t, "📊 Pepe | Market Cap Rank: #N/A | 👥 1 social mentions | 🌐 1 web sources", first)
}

func TestSummaryAbsentNumbers(t *testing.T) {
	got := Summary(types.OK(types.MarketSnapshot{}), types.Failed[types.CoinIdentity]("x"), nil, nil, nil)
	assert.Equal(t, "💰 Price: $N/A (N/A% 24h) | Volume: $N/A", got)
}

func TestSummaryCounts(t *testing.T) {
	tests := []struct {
		name string
		news []types.SearchResult
		want string
	}{
		{"empty list", nil, LimitedData},
		{"led by error", []types.SearchResult{{Error: "boom"}, {Title: "a"}}, LimitedData},
		{"trailing error excluded", []types.SearchResult{{Title: "a"}, {Title: "b"}, {Error: "boom"}}, "📰 2 news items"},
	}
	none := types.Failed[types.MarketSnapshot]("x")
	noID := types.Failed[types.CoinIdentity]("x")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(none, noID, tt.news, nil, nil))
		})
	}
}

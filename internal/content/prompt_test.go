// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coin-research/pkg/types"
)

func TestDataSummaryFullBundle(t *testing.T) {
	b := pepeBundle()
	b.News = news(5)
	got := DataSummary(b)

	assert.Contains(t, got, "MARKET DATA:\n- Current Price: $0.000004055\n- 24h Change: -11.97%\n- 24h Volume: $2350358.54\n- Liquidity: $29850652.58\n- Blockchain: ethereum\n- Exchange: uniswap")
	assert.Contains(t, got, "COIN INFORMATION:\n- Name: Pepe\n- Symbol: PEPE\n- Market Cap Rank: #66")
	assert.Contains(t, got, "RECENT NEWS (5 articles found):\n- Headline A\n- Headline B\n- Headline C\nMore news")
	assert.NotContains(t, got, "Headline D", "only the first three titles")
	assert.Contains(t, got, "SOCIAL MEDIA ACTIVITY (1 mentions found)")
	assert.Contains(t, got, "WEB ANALYSIS (1 sources found)")

	assert.Less(t, strings.Index(got, "MARKET DATA"), strings.Index(got, "COIN INFORMATION"))
	assert.Less(t, strings.Index(got, "COIN INFORMATION"), strings.Index(got, "RECENT NEWS"))
}

func TestDataSummaryPartial(t *testing.T) {
	b := types.ResearchBundle{
		Market:   types.OK(types.MarketSnapshot{}),
		Identity: types.OK(types.CoinIdentity{Name: "Bonk"}),
		News:     []types.SearchResult{{Error: "Web search failed: x"}},
	}
	got := DataSummary(b)
	assert.Contains(t, got, "- Current Price: $N/A")
	assert.Contains(t, got, "- Blockchain: N/A")
	assert.Contains(t, got, "- Market Cap Rank: #N/A")
	assert.NotContains(t, got, "RECENT NEWS")
}

func TestDataSummaryEmpty(t *testing.T) {
	assert.Equal(t, "Limited data available for analysis.", DataSummary(emptyBundle()))
}

func TestBuildPrompt(t *testing.T) {
	for _, style := range types.Styles {
		p, err := BuildPrompt(pepeBundle(), style)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, "Create a comprehensive blog post about PEPE based on the following research data:"))
		assert.Contains(t, p, styleInstructions[style])
		assert.Contains(t, p, "- Write at least 800 words")
		assert.Contains(t, p, "- Include both positive aspects and potential risks")
		assert.Contains(t, p, "- Use markdown formatting")
		assert.True(t, strings.HasSuffix(p, "Blog Post:"))
	}
}

func TestBuildPromptUnnamedCoin(t *testing.T) {
	p, err := BuildPrompt(types.ResearchBundle{}, types.StyleNews)
	require.NoError(t, err)
	assert.Contains(t, p, "blog post about this cryptocurrency based on")
	assert.Contains(t, p, "Limited data available for analysis.")
}

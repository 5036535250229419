// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"errors"
	"sync"

	"github.com/pdiddy/coin-research/pkg/types"
)

// mockModel records prompts and returns a canned reply.
type mockModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (m *mockModel) Name() string { return "mock-model" }

func (m *mockModel) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

var errQuota = errors.New("Gemini API returned 429: quota exceeded")

func intPtr(n int) *int { return &n }

func news(n int) []types.SearchResult {
	out := make([]types.SearchResult, n)
	for i := range out {
		out[i] = types.SearchResult{Title: "Headline " + string(rune('A'+i)), Link: "https://n/" + string(rune('a'+i))}
	}
	return out
}

// pepeBundle mirrors a typical PEPE research run.
func pepeBundle() types.ResearchBundle {
	return types.ResearchBundle{
		CoinName: "PEPE",
		Market: types.OK(types.MarketSnapshot{
			Source:         "DEX Screener",
			PriceUSD:       types.Float(0.000004055),
			PriceChange24h: types.Float(-11.97),
			Volume24h:      types.Float(2350358.54),
			LiquidityUSD:   types.Float(29850652.58),
			Chain:          "ethereum",
			DEX:            "uniswap",
		}),
		Identity: types.OK(types.CoinIdentity{Name: "Pepe", Symbol: "PEPE", MarketCapRank: intPtr(66)}),
		News:     news(2),
		Social:   news(1),
		Web:      news(1),
		Summary:  "💰 Price: $0.000004055 (-11.97% 24h) | Volume: $2350358.54 | 📊 Pepe | Market Cap Rank: #66 | 📰 5 news items | 👥 5 social mentions | 🌐 5 web sources",
	}
}

func emptyBundle() types.ResearchBundle {
	return types.ResearchBundle{
		CoinName: "NOPE",
		Market:   types.Failed[types.MarketSnapshot]("No trading pairs found"),
		Identity: types.Failed[types.CoinIdentity]("No coins found"),
		Summary:  "Limited data available",
	}
}

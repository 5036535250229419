// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"fmt"

	"github.com/pdiddy/coin-research/pkg/types"
)

// Insight thresholds. Price and volume boundaries are exclusive; the rank
// boundary is inclusive.
const (
	momentumThreshold = 5.0
	highVolume        = 1_000_000
	topRank           = 100
	activeCoverage    = 3
)

// DefaultInsight is returned when no heuristic applies.
const DefaultInsight = "Comprehensive research data available for analysis"

// KeyInsights derives headline observations from the research data. It
// never reads generated text. Absent fields contribute nothing.
func KeyInsights(b types.ResearchBundle) []string {
	var insights []string

	if m, ok := b.Market.Value(); ok {
		if change, ok := m.PriceChange24h.Get(); ok {
			c := m.PriceChange24h.String()
			switch {
			case change > momentumThreshold:
				insights = append(insights, fmt.Sprintf("Strong positive momentum with +%s%% 24h gain", c))
			case change < -momentumThreshold:
				insights = append(insights, fmt.Sprintf("Significant decline with %s%% 24h loss", c))
			default:
				insights = append(insights, fmt.Sprintf("Stable price movement with %s%% 24h change", c))
			}
		}
		if m.Volume24h.Or(0) > highVolume {
			insights = append(insights, "High trading volume indicates strong market interest")
		}
	}

	if id, ok := b.Identity.Value(); ok && id.MarketCapRank != nil {
		if r := *id.MarketCapRank; r > 0 && r <= topRank {
			insights = append(insights, "Top 100 cryptocurrency by market capitalization")
		}
	}

	if n := types.CountResults(b.News); n > activeCoverage {
		insights = append(insights, fmt.Sprintf("Active media coverage with %d recent articles", n))
	}

	if len(insights) == 0 {
		return []string{DefaultInsight}
	}
	return insights
}

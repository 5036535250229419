// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/coin-research/pkg/types"
)

// styleInstructions holds the tone instruction for each style.
var styleInstructions = map[types.Style]string{
	types.StyleAnalytical:       "Write an analytical blog post with data-driven insights, market analysis, and investment considerations. Focus on facts and trends.",
	types.StyleTechnical:        "Write a technical blog post focusing on blockchain technology, tokenomics, and technical aspects of the project.",
	types.StyleBeginnerFriendly: "Write an easy-to-understand blog post for cryptocurrency beginners. Explain complex concepts in simple terms.",
	types.StyleNews:             "Write a news-style blog post covering recent developments, market movements, and current events related to this coin.",
}

// noDataSummary replaces the data block when the bundle carries nothing.
const noDataSummary = "Limited data available for analysis."

var promptTmpl = template.Must(template.New("blog").Parse(`Create a comprehensive blog post about {{.Coin}} based on the following research data:

{{.Data}}

{{.Instruction}}

Requirements:
- Write in a professional, engaging tone
- Include specific data points and metrics
- Provide actionable insights for readers
- Structure with clear headings and sections
- Include both positive aspects and potential risks
- Write at least 800 words
- Use markdown formatting

Blog Post:`))

var dataTmpl = template.Must(template.New("data").Parse(`{{with .Market}}
MARKET DATA:
- Current Price: ${{.PriceUSD}}
- 24h Change: {{.PriceChange24h}}%
- 24h Volume: ${{.Volume24h}}
- Liquidity: ${{.LiquidityUSD}}
- Blockchain: {{or .Chain "N/A"}}
- Exchange: {{or .DEX "N/A"}}
{{end}}{{with .Identity}}
COIN INFORMATION:
- Name: {{or .Name "N/A"}}
- Symbol: {{or .Symbol "N/A"}}
- Market Cap Rank: #{{$.Rank}}
{{end}}{{if .NewsCount}}
RECENT NEWS ({{.NewsCount}} articles found):
{{range .NewsTitles}}- {{.}}
{{end}}More news articles covering market developments and project updates.
{{end}}{{if .SocialCount}}
SOCIAL MEDIA ACTIVITY ({{.SocialCount}} mentions found):
Active discussions on cryptocurrency forums and social platforms.
{{end}}{{if .WebCount}}
WEB ANALYSIS ({{.WebCount}} sources found):
Multiple analytical articles and price predictions available from various crypto sources.
{{end}}`))

var fallbackTmpl = template.Must(template.New("fallback").Parse(`# {{.Coin}} Research Report

## Summary
{{.Summary}}

## Research Data Overview
This report is based on comprehensive research including:
- Market data from DEX Screener
- Coin information from CoinGecko
- Recent news and developments
- Social media sentiment analysis
- Web-based analytical insights

## Data Sources
The analysis combines multiple data sources to provide a holistic view of {{.Coin}}'s current market position and potential outlook.

*Note: This is a research-based report using available market data and should not be considered as financial advice.*
`))

type dataView struct {
	Market      *types.MarketSnapshot
	Identity    *types.CoinIdentity
	Rank        string
	NewsCount   int
	NewsTitles  []string
	SocialCount int
	WebCount    int
}

// DataSummary renders the research block of the prompt. Sources missing
// from the bundle contribute nothing; error markers are not counted.
func DataSummary(b types.ResearchBundle) string {
	var v dataView
	if m, ok := b.Market.Value(); ok {
		v.Market = &m
	}
	if id, ok := b.Identity.Value(); ok {
		v.Identity = &id
		v.Rank = "N/A"
		if id.MarketCapRank != nil {
			v.Rank = strconv.Itoa(*id.MarketCapRank)
		}
	}
	v.NewsCount = types.CountResults(b.News)
	for _, n := range b.News {
		if n.IsError() {
			continue
		}
		if len(v.NewsTitles) == 3 {
			break
		}
		title := n.Title
		if title == "" {
			title = "N/A"
		}
		v.NewsTitles = append(v.NewsTitles, title)
	}
	v.SocialCount = types.CountResults(b.Social)
	v.WebCount = types.CountResults(b.Web)

	var buf bytes.Buffer
	if err := dataTmpl.Execute(&buf, v); err != nil {
		return noDataSummary
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return noDataSummary
	}
	return out
}

// BuildPrompt renders the full generation prompt for bundle in style.
func BuildPrompt(b types.ResearchBundle, style types.Style) (string, error) {
	instruction, ok := styleInstructions[style]
	if !ok {
		instruction = styleInstructions[types.StyleAnalytical]
	}
	coin := b.CoinName
	if coin == "" {
		coin = "this cryptocurrency"
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Coin        string
		Data        string
		Instruction string
	}{Coin: coin, Data: DataSummary(b), Instruction: instruction})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FallbackContent renders the static report used when the model call fails.
func FallbackContent(b types.ResearchBundle) string {
	summary := b.Summary
	if summary == "" {
		summary = "Limited data available"
	}
	var buf bytes.Buffer
	if err := fallbackTmpl.Execute(&buf, struct{ Coin, Summary string }{coinName(b), summary}); err != nil {
		return summary
	}
	return buf.String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"fmt"

	"github.com/pdiddy/coin-research/pkg/types"
)

// TwitterThread summarizes bundle as a thread: an opener, one numbered
// tweet per key insight, and a closing call to action. With n insights the
// insight tweets are numbered 2/(n+1) through (n+1)/(n+1) and the closer
// (n+2)/(n+2).
func TwitterThread(bundle types.ResearchBundle) []string {
	insights := KeyInsights(bundle)
	n := len(insights)

	tweets := make([]string, 0, n+2)
	tweets = append(tweets, fmt.Sprintf("🧵 Thread: %s Research Summary\n\nHere's what the data tells us about this cryptocurrency:\n\n1/", coinName(bundle)))
	for i, insight := range insights {
		tweets = append(tweets, fmt.Sprintf("%d/%d %s", i+2, n+1, insight))
	}
	tweets = append(tweets, fmt.Sprintf("%d/%d 📊 Full research report available with comprehensive analysis of market data, news, and social sentiment. DYOR! 🚀", n+2, n+2))
	return tweets
}

// TwitterThread is the generator form of the package function; it records
// the generation in metrics.
func (g *Generator) TwitterThread(bundle types.ResearchBundle) []string {
	g.opts.Metrics.RecordGeneration(string(types.ContentTwitter), false)
	return TwitterThread(bundle)
}

// Newsletter generates a fresh news-style post and wraps it for email.
func (g *Generator) Newsletter(ctx context.Context, bundle types.ResearchBundle) types.Newsletter {
	post := g.CreatePost(ctx, bundle, types.StyleNews)

	subject, preview := "Crypto", "this cryptocurrency"
	if bundle.CoinName != "" {
		subject, preview = bundle.CoinName, bundle.CoinName
	}
	return types.Newsletter{
		Subject:     subject + " Market Update - Research Report",
		PreviewText: "Latest analysis and insights on " + preview,
		Content:     post.Content,
		KeyPoints:   KeyInsights(bundle),
		Timestamp:   post.Timestamp,
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coin-research/pkg/types"
)

func TestTwitterThreadThreeInsights(t *testing.T) {
	thread := TwitterThread(pepeBundle())

	require.Len(t, thread, 5)
	assert.True(t, strings.HasPrefix(thread[0], "🧵 Thread: PEPE Research Summary"))
	assert.Equal(t, "2/4 Significant decline with -11.97% 24h loss", thread[1])
	assert.Equal(t, "3/4 High trading volume indicates strong market interest", thread[2])
	assert.Equal(t, "4/4 Top 100 cryptocurrency by market capitalization", thread[3])
	assert.True(t, strings.HasPrefix(thread[4], "5/5 📊 Full research report"))
}

func TestTwitterThreadDefaultInsight(t *testing.T) {
	thread := TwitterThread(emptyBundle())
	require.Len(t, thread, 3)
	assert.Equal(t, "2/2 "+DefaultInsight, thread[1])
	assert.True(t, strings.HasPrefix(thread[2], "3/3 "))
}

func TestTwitterThreadLengthFollowsInsights(t *testing.T) {
	for _, b := range []types.ResearchBundle{pepeBundle(), emptyBundle(), {News: news(5)}} {
		assert.Len(t, TwitterThread(b), len(KeyInsights(b))+2)
	}
}

func TestNewsletter(t *testing.T) {
	model := &mockModel{reply: "# Weekly\nPEPE news."}
	g := New(model, Options{Now: fixedClock})

	n := g.Newsletter(context.Background(), pepeBundle())

	assert.Equal(t, "PEPE Market Update - Research Report", n.Subject)
	assert.Equal(t, "Latest analysis and insights on PEPE", n.PreviewText)
	assert.Equal(t, "# Weekly\nPEPE news.", n.Content)
	assert.Equal(t, KeyInsights(pepeBundle()), n.KeyPoints)
	assert.Equal(t, march2026, n.Timestamp)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], styleInstructions[types.StyleNews])

	md := n.Markdown()
	assert.Contains(t, md, "- Top 100 cryptocurrency by market capitalization\n")
}

func TestNewsletterFallback(t *testing.T) {
	n := New(&mockModel{err: errQuota}, Options{}).Newsletter(context.Background(), types.ResearchBundle{})
	assert.Equal(t, "Crypto Market Update - Research Report", n.Subject)
	assert.Equal(t, "Latest analysis and insights on this cryptocurrency", n.PreviewText)
	assert.Contains(t, n.Content, "Research Report")
	assert.Equal(t, []string{DefaultInsight}, n.KeyPoints)
}

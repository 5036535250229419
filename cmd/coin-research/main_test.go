// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coin-research/internal/search"
	"github.com/pdiddy/coin-research/internal/secrets"
	"github.com/pdiddy/coin-research/pkg/types"
)

func sampleOutput() researchOutput {
	rank := 66
	return researchOutput{
		ResearchBundle: types.ResearchBundle{
			CoinName:  "PEPE",
			Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Market: types.OK(types.MarketSnapshot{
				Source:     "DEX Screener",
				PairsFound: 4,
				PriceUSD:   types.Float(0.000004),
				DEX:        "uniswap",
				Chain:      "ethereum",
			}),
			Identity: types.OK(types.CoinIdentity{Name: "Pepe", Symbol: "PEPE", MarketCapRank: &rank}),
			News:     []types.SearchResult{{Title: "Frogs rally", Link: "https://n/1"}},
			Social:   []types.SearchResult{{Error: "Social search failed: timeout"}},
			Summary:  "💰 Price: $0.000004",
		},
	}
}

func TestConfigDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("COIN_RESEARCH_HTTP_TIMEOUT", "5s")
	t.Setenv("COIN_RESEARCH_SERVER_PORT", "9090")
	t.Setenv("COIN_RESEARCH_AI_PROVIDER", "claude")

	v := viper.New()
	v.SetEnvPrefix("COIN_RESEARCH")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	setDefaults(v, types.DefaultConfig())

	c := types.DefaultConfig()
	require.NoError(t, v.Unmarshal(&c))
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "claude", c.AI.Provider)
	assert.Equal(t, 90*time.Second, c.AI.Timeout)
	assert.Equal(t, "file", c.Archive.Backend)
	assert.Equal(t, 3, c.Research.TopItems)
	assert.Equal(t, "rss", c.Search.NewsBackend)
}

func TestNewsProviderSelection(t *testing.T) {
	web := &search.Searx{BaseURL: "http://localhost:8888"}
	tests := []struct {
		name    string
		backend string
		want    string
		wantErr bool
	}{
		{"default needs no local service", types.DefaultConfig().Search.NewsBackend, "rss", false},
		{"empty falls back to rss", "", "rss", false},
		{"searx shares the web provider", "SearX", "searx", false},
		{"unknown", "bing", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := types.DefaultConfig()
			c.Search.NewsBackend = tt.backend
			p, err := newsProvider(c, http.DefaultClient, web)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	loaded := map[string]string{
		secrets.GeminiAPIKey:    "gemini-from-file",
		secrets.AnthropicAPIKey: "claude-from-file",
	}

	t.Run("config wins", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "env")
		assert.Equal(t, "cfg", resolveAPIKey(types.AIConfig{APIKey: "cfg"}, loaded))
	})
	t.Run("gemini env", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "env")
		assert.Equal(t, "env", resolveAPIKey(types.AIConfig{Provider: "gemini"}, loaded))
	})
	t.Run("anthropic env", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "wrong")
		t.Setenv("ANTHROPIC_API_KEY", "claude-env")
		assert.Equal(t, "claude-env", resolveAPIKey(types.AIConfig{Provider: "claude"}, loaded))
	})
	t.Run("secrets file", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "")
		assert.Equal(t, "gemini-from-file", resolveAPIKey(types.AIConfig{}, loaded))
		assert.Equal(t, "claude-from-file", resolveAPIKey(types.AIConfig{Provider: "anthropic"}, loaded))
		assert.Empty(t, resolveAPIKey(types.AIConfig{Provider: "gemini"}, nil))
	})
}

func TestWriteYAMLUsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, sampleOutput()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "PEPE", doc["coin_name"])
	assert.Equal(t, "uniswap", doc["dex_screener"].(map[string]any)["dex"])
	social := doc["social_media"].([]any)
	assert.Equal(t, "Social search failed: timeout", social[0].(map[string]any)["error"])
	assert.NotContains(t, doc, "ai_blog")
}

func TestWriteReport(t *testing.T) {
	out := sampleOutput()
	out.AIBlog = &types.GeneratedPost{Title: "PEPE Analysis", Content: "fallback body", Error: "quota"}

	var buf bytes.Buffer
	writeReport(&buf, out)
	text := buf.String()
	assert.Contains(t, text, "PEPE research report (2026-03-14 09:30:00)")
	assert.Contains(t, text, "Price:      $0.000004 (N/A% 24h)")
	assert.Contains(t, text, "market cap rank #66")
	assert.Contains(t, text, "  - Frogs rally\n    https://n/1")
	assert.Contains(t, text, "  ! Social search failed: timeout")
	assert.Contains(t, text, "Web:\n  (none)")
	assert.Contains(t, text, "Blog post unavailable: quota")
	assert.Contains(t, text, "# PEPE Analysis\n\nfallback body")
}

func TestParseBundle(t *testing.T) {
	raw, err := json.Marshal(sampleOutput())
	require.NoError(t, err)

	b, err := parseBundle(raw)
	require.NoError(t, err)
	assert.Equal(t, "PEPE", b.CoinName)
	assert.True(t, b.Market.OK())

	record := []byte(`{"id":"x","coin_name":"PEPE","research":` + string(raw) + `}`)
	b, err = parseBundle(record)
	require.NoError(t, err)
	assert.Equal(t, "PEPE", b.CoinName)

	_, err = parseBundle([]byte(`{}`))
	assert.ErrorContains(t, err, "no research data")

	_, err = parseBundle([]byte(`not json`))
	assert.ErrorContains(t, err, "parsing report")
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("yaml", "text", "json", "yaml"))
	assert.ErrorContains(t, checkFormat("xml", "text", "json"), `unsupported format "xml": use text, json`)
}

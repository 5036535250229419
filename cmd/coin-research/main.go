// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the coin-research CLI: research a
// coin from the terminal, generate content from a saved bundle, or serve
// the HTTP API and dashboard.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/coin-research/internal/logging"
	"github.com/pdiddy/coin-research/internal/secrets"
	"github.com/pdiddy/coin-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the resolved configuration, populated before any subcommand runs.
var cfg types.Config

// envReplacer maps nested keys to environment names: ai.api_key reads
// COIN_RESEARCH_AI_API_KEY.
var envReplacer = strings.NewReplacer(".", "_")

// rootCmd is the base command for the coin-research CLI.
var rootCmd = &cobra.Command{
	Use:   "coin-research",
	Short: "Research meme coins and generate posts from the findings",
	Long: `coin-research gathers market data, coin metadata, news, social mentions and
web analysis for a cryptocurrency from free public sources, and turns the
result into a blog post, a tweet thread, or a newsletter with a generative
model.

Use research for a one-off report, generate to write content from a saved
report, and serve to run the HTTP API and dashboard.

Web and social search go through a SearXNG instance with the JSON format
enabled (search.searx_url, default http://localhost:8888). News comes from
an RSS search feed unless search.news_backend is set to searx.`,
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the composite literal: loadConfig reads
	// rootCmd's flags, which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./coin-research.yaml or ~/.config/coin-research/coin-research.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of API key files")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("coin-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "coin-research"))
		}
	}

	viper.SetEnvPrefix("COIN_RESEARCH")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultConfig())
}

// setDefaults registers every config key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)

	v.SetDefault("providers.dexscreener_url", d.Providers.DexScreenerURL)
	v.SetDefault("providers.coingecko_url", d.Providers.CoinGeckoURL)

	v.SetDefault("search.searx_url", d.Search.SearxURL)
	v.SetDefault("search.news_backend", d.Search.NewsBackend)
	v.SetDefault("search.news_feed_url", d.Search.NewsFeedURL)
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.social_max_per_query", d.Search.SocialMaxPerQuery)

	v.SetDefault("research.top_items", d.Research.TopItems)

	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.fallback_model", d.AI.FallbackModel)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.timeout", d.AI.Timeout)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)

	v.SetDefault("archive.backend", d.Archive.Backend)
	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.db_path", d.Archive.DBPath)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig reads the config file, configures logging, and resolves the
// AI key from the environment or the secrets directory.
func loadConfig() (types.Config, error) {
	readErr := viper.ReadInConfig()

	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parsing config: %w", err)
	}
	if err := logging.Setup(c.Log.Level, c.Log.Format, os.Stderr); err != nil {
		return c, err
	}

	if readErr == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	} else if _, notFound := readErr.(viper.ConfigFileNotFoundError); !notFound {
		return c, fmt.Errorf("reading config: %w", readErr)
	}

	dir, _ := rootCmd.PersistentFlags().GetString("secrets-dir")
	loaded, err := secrets.Load(dir)
	if err != nil {
		return c, err
	}
	if len(loaded) > 0 {
		keys := make([]string, 0, len(loaded))
		for k := range loaded {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	c.AI.APIKey = resolveAPIKey(c.AI, loaded)
	return c, nil
}

// resolveAPIKey picks the first non-empty key from the config, the
// provider's conventional environment variable, and the secrets directory.
func resolveAPIKey(ai types.AIConfig, loaded map[string]string) string {
	if ai.APIKey != "" {
		return ai.APIKey
	}
	env := "GOOGLE_API_KEY"
	if secrets.KeyFor(ai.Provider) == secrets.AnthropicAPIKey {
		env = "ANTHROPIC_API_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return loaded[secrets.KeyFor(ai.Provider)]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

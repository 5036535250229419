package types

import "time"

// HTTPConfig holds shared HTTP settings used by every upstream client.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 20s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ProvidersConfig holds the base URLs of the market data providers.
type ProvidersConfig struct {
	// DexScreenerURL is the DexScreener API base (search is {base}/search?q=).
	DexScreenerURL string `json:"dexscreener_url" yaml:"dexscreener_url" mapstructure:"dexscreener_url"`

	// CoinGeckoURL is the CoinGecko API base (search is {base}/search?query=).
	CoinGeckoURL string `json:"coingecko_url" yaml:"coingecko_url" mapstructure:"coingecko_url"`
}

// SearchConfig holds settings for web, news and social search.
type SearchConfig struct {
	// SearxURL is the base URL of a SearXNG instance with the JSON format enabled.
	SearxURL string `json:"searx_url" yaml:"searx_url" mapstructure:"searx_url"`

	// NewsBackend selects the news provider: "rss" (default) or "searx".
	NewsBackend string `json:"news_backend" yaml:"news_backend" mapstructure:"news_backend"`

	// NewsFeedURL is the RSS search feed used when NewsBackend is "rss".
	NewsFeedURL string `json:"news_feed_url" yaml:"news_feed_url" mapstructure:"news_feed_url"`

	// MaxResults caps web and news searches (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// SocialMaxPerQuery caps each social site query (default 3).
	SocialMaxPerQuery int `json:"social_max_per_query" yaml:"social_max_per_query" mapstructure:"social_max_per_query"`
}

// ResearchConfig holds settings for the research aggregator.
type ResearchConfig struct {
	// TopItems is the number of news, social and web results kept in a bundle (default 3).
	TopItems int `json:"top_items" yaml:"top_items" mapstructure:"top_items"`
}

// AIConfig holds settings for the generative text model.
type AIConfig struct {
	// Provider selects the model API: "gemini" or "claude".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model pins a model name. When empty the first available model that
	// supports text generation is used.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// FallbackModel is used when model discovery fails or finds nothing.
	FallbackModel string `json:"fallback_model" yaml:"fallback_model" mapstructure:"fallback_model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens bounds the generated output (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout is the model call timeout; generation is slower than data fetches (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `json:"host" yaml:"host" mapstructure:"host"`
	Port         int           `json:"port" yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ArchiveConfig holds settings for the background research archive.
type ArchiveConfig struct {
	// Backend selects the sink: "file", "sqlite", or "none".
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dir is the output directory for the file sink.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// DBPath is the database file for the sqlite sink.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every setting of the service.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Providers ProvidersConfig `json:"providers" yaml:"providers" mapstructure:"providers"`
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Research  ResearchConfig  `json:"research" yaml:"research" mapstructure:"research"`
	AI        AIConfig        `json:"ai" yaml:"ai" mapstructure:"ai"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive" mapstructure:"archive"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   20 * time.Second,
			UserAgent: "coin-research/0.1",
		},
		Providers: ProvidersConfig{
			DexScreenerURL: "https://api.dexscreener.com/latest/dex",
			CoinGeckoURL:   "https://api.coingecko.com/api/v3",
		},
		Search: SearchConfig{
			SearxURL:          "http://localhost:8888",
			NewsBackend:       "rss",
			NewsFeedURL:       "https://news.google.com/rss/search",
			MaxResults:        5,
			SocialMaxPerQuery: 3,
		},
		Research: ResearchConfig{
			TopItems: 3,
		},
		AI: AIConfig{
			Provider:      "gemini",
			FallbackModel: "gemini-1.5-flash",
			MaxTokens:     4096,
			Timeout:       90 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Archive: ArchiveConfig{
			Backend: "file",
			Dir:     "research",
			DBPath:  "research/research.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

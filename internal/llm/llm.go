// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the generative text model APIs used for content
// generation. A Model is read-only after construction and safe for
// concurrent use.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/coin-research/pkg/types"
)

// ErrNoCredential is returned by New when no API key is configured.
var ErrNoCredential = errors.New("no API key configured for the AI provider")

// Model turns a prompt into free text.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultMaxTokens bounds generated output when AIConfig.MaxTokens is unset.
const DefaultMaxTokens = 4096

// New builds the model selected by cfg.Provider. A missing key yields
// ErrNoCredential so callers can run with content generation disabled.
func New(ctx context.Context, cfg types.AIConfig, client *http.Client) (Model, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoCredential
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGemini(ctx, cfg, client), nil
	case "claude", "anthropic":
		return NewClaude(cfg, client), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q (valid: gemini, claude)", cfg.Provider)
	}
}

func maxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

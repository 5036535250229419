// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/pkg/types"
)

// geminiAPIBase is the Gemini REST API base. Package-level var for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// DefaultGeminiModel is used when model discovery fails or finds nothing.
const DefaultGeminiModel = "gemini-1.5-flash"

const generateContentMethod = "generateContent"

// Gemini calls the Gemini generateContent API.
type Gemini struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client

	// BaseURL overrides geminiAPIBase.
	BaseURL string
}

// NewGemini resolves the model name and returns a ready client. A pinned
// cfg.Model is used as-is. Otherwise the first listed model supporting
// generateContent is chosen, falling back to cfg.FallbackModel when the
// listing fails or is empty.
func NewGemini(ctx context.Context, cfg types.AIConfig, client *http.Client) *Gemini {
	g := &Gemini{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: maxTokens(cfg.MaxTokens),
		Client:    client,
		BaseURL:   cfg.BaseURL,
	}
	if g.Model != "" {
		return g
	}

	fallback := cfg.FallbackModel
	if fallback == "" {
		fallback = DefaultGeminiModel
	}

	name, err := g.discover(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("model", fallback).Msg("Gemini model discovery failed, using fallback")
		g.Model = fallback
	case name == "":
		log.Warn().Str("model", fallback).Msg("no Gemini model supports text generation, using fallback")
		g.Model = fallback
	default:
		g.Model = name
	}
	log.Info().Str("model", g.Model).Msg("using Gemini model")
	return g
}

// Name returns the resolved model name.
func (g *Gemini) Name() string { return g.Model }

func (g *Gemini) base() string {
	if g.BaseURL != "" {
		return strings.TrimRight(g.BaseURL, "/")
	}
	return geminiAPIBase
}

// discover returns the first model that supports generateContent.
func (g *Gemini) discover(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base()+"/models?pageSize=1000", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("listing Gemini models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var list geminiModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("decoding Gemini model list: %w", err)
	}
	for _, m := range list.Models {
		if slices.Contains(m.SupportedGenerationMethods, generateContentMethod) {
			return m.Name, nil
		}
	}
	return "", nil
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{MaxOutputTokens: maxTokens(g.MaxTokens)},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	model := g.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base()+"/"+model+":"+generateContentMethod, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}
	if gResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("Gemini blocked the prompt: %s", gResp.PromptFeedback.BlockReason)
	}
	if len(gResp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var text strings.Builder
	for _, p := range gResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Gemini response (finish reason %s)", gResp.Candidates[0].FinishReason)
	}
	return text.String(), nil
}

// Gemini API JSON structures.
type geminiModelList struct {
	Models []geminiModel `json:"models"`
}

type geminiModel struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate    `json:"candidates"`
	PromptFeedback geminiPromptFeedback `json:"promptFeedback"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

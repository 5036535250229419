// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/archive"
	"github.com/pdiddy/coin-research/internal/research"
	"github.com/pdiddy/coin-research/pkg/types"
)

const (
	msgEmptyCoin     = "Coin name cannot be empty"
	msgEmptyResearch = "Research data cannot be empty"
	msgAIDisabled    = "AI features are disabled. Set GOOGLE_API_KEY to enable."
	msgBadContent    = "Invalid content type. Must be: blog, twitter, or newsletter"
)

// PopularCoins are the meme coins suggested by /coins/list and the dashboard.
var PopularCoins = []string{
	"PEPE", "DOGE", "SHIB", "WIF", "FLOKI", "BONK", "SAMO",
	"ELON", "HOGE", "SAFEMOON", "AKITA", "KISHU", "LEASH", "BONE",
}

type researchRequest struct {
	CoinName      string `json:"coin_name"`
	IncludeAIBlog *bool  `json:"include_ai_blog"`
	BlogStyle     string `json:"blog_style"`
}

func (r researchRequest) wantsPost() bool {
	return r.IncludeAIBlog == nil || *r.IncludeAIBlog
}

type researchResponse struct {
	types.ResearchBundle
	AIBlog *types.GeneratedPost `json:"ai_blog,omitempty"`
}

type sourceResponse struct {
	CoinName  string    `json:"coin_name"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type generateRequest struct {
	ResearchData json.RawMessage `json:"research_data"`
	Style        string          `json:"style"`
	ContentType  string          `json:"content_type"`
}

type generateResponse struct {
	ContentType string    `json:"content_type"`
	Style       string    `json:"style,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Data        any       `json:"data"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Meme Coin Research API",
		"version":   s.deps.Version,
		"health":    "/health",
		"dashboard": "/dashboard",
		"metrics":   "/metrics",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	aiStatus := "disabled"
	if s.deps.Generator.Enabled() {
		aiStatus = "available"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   s.deps.Version,
		"services": map[string]string{
			"api":     "running",
			"agent":   "initialized",
			"ai_blog": aiStatus,
		},
	})
}

func (s *Server) handleResearchCoin(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	style, err := types.ParseStyle(req.BlogStyle)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle, err := s.deps.Research.Analyze(r.Context(), req.CoinName)
	if err != nil {
		s.writeResearchError(w, "Research failed", err)
		return
	}

	resp := researchResponse{ResearchBundle: bundle}
	if req.wantsPost() {
		post := s.deps.Generator.CreatePost(r.Context(), bundle, style)
		resp.AIBlog = &post
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	coin := r.URL.Query().Get("coin_name")
	slot, err := s.deps.Research.MarketData(r.Context(), coin)
	if err != nil {
		s.writeResearchError(w, "Market data retrieval failed", err)
		return
	}
	writeJSON(w, http.StatusOK, sourceResponse{CoinName: strings.TrimSpace(coin), Timestamp: time.Now(), Data: slot})
}

func (s *Server) handleSocialMetrics(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, "Social metrics retrieval failed", s.deps.Research.SocialMetrics)
}

func (s *Server) handleWhaleActivity(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, "Whale activity retrieval failed", s.deps.Research.WhaleActivity)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, "News retrieval failed", s.deps.Research.News)
}

type listFunc func(ctx context.Context, coin string) ([]types.SearchResult, error)

func (s *Server) serveList(w http.ResponseWriter, r *http.Request, failure string, fn listFunc) {
	coin := r.URL.Query().Get("coin_name")
	results, err := fn(r.Context(), coin)
	if err != nil {
		s.writeResearchError(w, failure, err)
		return
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	writeJSON(w, http.StatusOK, sourceResponse{CoinName: strings.TrimSpace(coin), Timestamp: time.Now(), Data: results})
}

func (s *Server) handleResearchAsync(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	coin := strings.TrimSpace(req.CoinName)
	if coin == "" {
		writeError(w, http.StatusBadRequest, msgEmptyCoin)
		return
	}
	style, err := types.ParseStyle(req.BlogStyle)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.background.Add(1)
	go s.researchAndSave(coin, req.wantsPost(), style, RequestID(r.Context()))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Research started for " + coin,
		"status":       "processing",
		"timestamp":    time.Now(),
		"check_status": "/research/status/" + url.PathEscape(strings.ToLower(coin)),
	})
}

// researchAndSave runs one research job detached from the request that
// started it. Failures are logged only.
func (s *Server) researchAndSave(coin string, withPost bool, style types.Style, requestID string) {
	defer s.background.Done()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("coin", coin).Str("request_id", requestID).Interface("panic", rec).Msg("background research panicked")
		}
	}()

	ctx := s.baseCtx
	bundle, err := s.deps.Research.Analyze(ctx, coin)
	if err != nil {
		log.Error().Err(err).Str("coin", coin).Str("request_id", requestID).Msg("background research failed")
		return
	}
	var post *types.GeneratedPost
	if withPost {
		p := s.deps.Generator.CreatePost(ctx, bundle, style)
		post = &p
	}
	archive.SaveLogged(ctx, s.deps.Archive, s.deps.Metrics, bundle, post)
}

func (s *Server) handleResearchStatus(w http.ResponseWriter, r *http.Request) {
	coin, err := url.PathUnescape(mux.Vars(r)["coin"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid coin name: %v", err))
		return
	}
	rec, err := s.deps.Archive.Latest(r.Context(), coin)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No research results found for %s", coin))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Status lookup failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGenerateBlog(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bundle, ok := decodeBundle(w, req.ResearchData)
	if !ok {
		return
	}
	contentType, err := types.ParseContentType(req.ContentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadContent)
		return
	}
	style, err := types.ParseStyle(req.Style)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := generateResponse{ContentType: string(contentType), Style: string(style), Timestamp: time.Now()}
	switch contentType {
	case types.ContentTwitter:
		resp.Data = s.deps.Generator.TwitterThread(bundle)
	case types.ContentNewsletter:
		resp.Data = s.deps.Generator.Newsletter(r.Context(), bundle)
	default:
		resp.Data = s.deps.Generator.CreatePost(r.Context(), bundle, style)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateTwitter(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	bundle, ok := s.bundleBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		ContentType: "twitter_thread",
		Timestamp:   time.Now(),
		Data:        s.deps.Generator.TwitterThread(bundle),
	})
}

func (s *Server) handleGenerateNewsletter(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	bundle, ok := s.bundleBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		ContentType: string(types.ContentNewsletter),
		Timestamp:   time.Now(),
		Data:        s.deps.Generator.Newsletter(r.Context(), bundle),
	})
}

func (s *Server) handleCoinsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"popular_meme_coins": PopularCoins,
		"timestamp":          time.Now(),
	})
}

type styleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleBlogStyles(w http.ResponseWriter, r *http.Request) {
	styles := make([]styleInfo, 0, len(types.Styles))
	for _, st := range types.Styles {
		styles = append(styles, styleInfo{Name: string(st), Description: types.StyleDescriptions[st]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"styles": styles})
}

func (s *Server) requireAI(w http.ResponseWriter) bool {
	if s.deps.Generator.Enabled() {
		return true
	}
	writeError(w, http.StatusServiceUnavailable, msgAIDisabled)
	return false
}

func (s *Server) bundleBody(w http.ResponseWriter, r *http.Request) (types.ResearchBundle, bool) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return types.ResearchBundle{}, false
	}
	return decodeBundle(w, raw)
}

// decodeBundle rejects absent, null and {} research data with 400.
func decodeBundle(w http.ResponseWriter, raw json.RawMessage) (types.ResearchBundle, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		writeError(w, http.StatusBadRequest, msgEmptyResearch)
		return types.ResearchBundle{}, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid research data: %v", err))
		return types.ResearchBundle{}, false
	}
	if len(probe) == 0 {
		writeError(w, http.StatusBadRequest, msgEmptyResearch)
		return types.ResearchBundle{}, false
	}

	var bundle types.ResearchBundle
	if err := json.Unmarshal(trimmed, &bundle); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid research data: %v", err))
		return types.ResearchBundle{}, false
	}
	return bundle, true
}

func (s *Server) writeResearchError(w http.ResponseWriter, failure string, err error) {
	if errors.Is(err, research.ErrEmptyCoinName) {
		writeError(w, http.StatusBadRequest, msgEmptyCoin)
		return
	}
	log.Error().Err(err).Msg(failure)
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", failure, err))
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// unchanged.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

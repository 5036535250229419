// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/content"
	"github.com/pdiddy/coin-research/pkg/types"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"okResults": func(rs []types.SearchResult) []types.SearchResult {
		if types.CountResults(rs) == 0 {
			return nil
		}
		out := make([]types.SearchResult, 0, len(rs))
		for _, r := range rs {
			if !r.IsError() {
				out = append(out, r)
			}
		}
		return out
	},
	"rank": func(r *int) string {
		if r == nil {
			return "N/A"
		}
		return strconv.Itoa(*r)
	},
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/dashboard.html"))

type download struct {
	Name string
	Href template.URL
}

type dashboardView struct {
	Coin      string
	Style     string
	AI        bool
	AIEnabled bool
	Styles    []types.Style
	Popular   []string
	Error     string

	Bundle   *types.ResearchBundle
	Market   *types.MarketSnapshot
	Identity *types.CoinIdentity
	Post     *types.GeneratedPost
	Insights []string
	Thread   []string

	PostDownload   *download
	BundleDownload *download
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := dashboardView{
		Coin:      strings.TrimSpace(q.Get("coin")),
		AI:        q.Get("ai") != "false",
		AIEnabled: s.deps.Generator.Enabled(),
		Styles:    types.Styles,
		Popular:   PopularCoins,
	}
	style, err := types.ParseStyle(q.Get("style"))
	if err != nil {
		view.Error = err.Error()
		style = types.StyleAnalytical
	}
	view.Style = string(style)

	if view.Coin != "" && view.Error == "" {
		s.fillDashboard(r, &view, style)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fillDashboard(r *http.Request, view *dashboardView, style types.Style) {
	bundle, err := s.deps.Research.Analyze(r.Context(), view.Coin)
	if err != nil {
		view.Error = "Analysis failed: " + err.Error()
		return
	}
	view.Bundle = &bundle
	if m, ok := bundle.Market.Value(); ok {
		view.Market = &m
	}
	if id, ok := bundle.Identity.Value(); ok {
		view.Identity = &id
	}
	view.Insights = content.KeyInsights(bundle)
	view.Thread = content.TwitterThread(bundle)

	date := bundle.Timestamp.Format("2006-01-02")
	resp := researchResponse{ResearchBundle: bundle}
	if view.AI {
		post := s.deps.Generator.CreatePost(r.Context(), bundle, style)
		view.Post = &post
		resp.AIBlog = &post
		if !post.IsFallback() {
			view.PostDownload = &download{
				Name: view.Coin + "_blog_post_" + date + ".md",
				Href: dataURL("text/markdown", []byte(post.Markdown())),
			}
		}
	}

	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Warn().Err(err).Str("coin", view.Coin).Msg("failed to encode analysis download")
		return
	}
	view.BundleDownload = &download{
		Name: view.Coin + "_analysis_" + date + ".json",
		Href: dataURL("application/json", raw),
	}
}

// dataURL embeds data in a base64 data: URL marked safe for href attributes.
func dataURL(mime string, data []byte) template.URL {
	return template.URL("data:" + mime + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes research and content generation over HTTP: a JSON
// API, an HTML dashboard, and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/archive"
	"github.com/pdiddy/coin-research/internal/content"
	"github.com/pdiddy/coin-research/internal/metrics"
	"github.com/pdiddy/coin-research/pkg/types"
)

// Researcher assembles research bundles. *research.Aggregator implements it.
type Researcher interface {
	Analyze(ctx context.Context, coinName string) (types.ResearchBundle, error)
	MarketData(ctx context.Context, coinName string) (types.Slot[types.MarketSnapshot], error)
	SocialMetrics(ctx context.Context, coinName string) ([]types.SearchResult, error)
	WhaleActivity(ctx context.Context, coinName string) ([]types.SearchResult, error)
	News(ctx context.Context, coinName string) ([]types.SearchResult, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Research  Researcher
	Generator *content.Generator
	Archive   archive.Sink
	Metrics   *metrics.Metrics
	Version   string
}

// Server is the HTTP front end.
type Server struct {
	router *mux.Router
	server *http.Server
	deps   Deps
	config types.ServerConfig

	// baseCtx parents background research.
	baseCtx    context.Context
	cancelBase context.CancelFunc
	background sync.WaitGroup
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// New builds the server and its routes. It does not start listening.
func New(config types.ServerConfig, deps Deps) *Server {
	if deps.Generator == nil {
		deps.Generator = content.New(nil, content.Options{})
	}
	if deps.Archive == nil {
		deps.Archive = archive.Nop{}
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:     mux.NewRouter(),
		deps:       deps,
		config:     config,
		baseCtx:    ctx,
		cancelBase: cancel,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Coin names may carry reserved characters; {coin} matches the escaped
	// segment and the handler unescapes it.
	s.router.UseEncodedPath()
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.corsMiddleware)

	s.router.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)

	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/research/coin", s.handleResearchCoin).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/market-data", s.handleMarketData).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/social-metrics", s.handleSocialMetrics).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/whale-activity", s.handleWhaleActivity).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/news", s.handleNews).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/async", s.handleResearchAsync).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/research/status/{coin}", s.handleResearchStatus).Methods(http.MethodGet)

	api.HandleFunc("/ai/generate-blog", s.handleGenerateBlog).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/ai/generate-twitter-thread", s.handleGenerateTwitter).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/ai/generate-newsletter", s.handleGenerateNewsletter).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/coins/list", s.handleCoinsList).Methods(http.MethodGet)
	api.HandleFunc("/blog/styles", s.handleBlogStyles).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

// requestIDMiddleware adds unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLoggingMiddleware logs all requests and records their metrics
func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		duration := time.Since(start)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.deps.Metrics.RecordHTTP(r.Method, route, wrapper.statusCode, duration)

		log.Info().
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// corsMiddleware allows browser clients from any origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonContentTypeMiddleware sets JSON content type for API responses
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// RequestID returns the request ID stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.server.Addr).
		Bool("ai", s.deps.Generator.Enabled()).
		Str("archive", s.deps.Archive.Name()).
		Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight requests and
// background research. Background research still running when ctx expires
// is cancelled.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	err := s.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("cancelling background research still running at shutdown")
	}
	s.cancelBase()
	return err
}

// responseWrapper captures the response status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

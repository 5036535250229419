// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive stores completed research runs for later lookup. Writes
// are best-effort: background callers log a failed save and move on.
package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/coin-research/internal/metrics"
	"github.com/pdiddy/coin-research/pkg/types"
)

// ErrNotFound is returned by Latest when no run exists for a coin.
var ErrNotFound = errors.New("no archived research for coin")

// Record is one archived research run.
type Record struct {
	ID       string               `json:"id"`
	CoinName string               `json:"coin_name"`
	SavedAt  time.Time            `json:"saved_at"`
	Research types.ResearchBundle `json:"research"`
	Post     *types.GeneratedPost `json:"ai_blog,omitempty"`
}

// Sink persists research runs.
type Sink interface {
	Name() string
	// Save stores bundle and the optional post and returns the record ID.
	Save(ctx context.Context, bundle types.ResearchBundle, post *types.GeneratedPost) (string, error)
	// Latest returns the most recent run for coin, matched case-insensitively.
	Latest(ctx context.Context, coin string) (Record, error)
	Close() error
}

// New opens the sink selected by cfg.Backend.
func New(cfg types.ArchiveConfig) (Sink, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return NewFileSink(cfg.Dir)
	case "sqlite":
		return NewSQLiteSink(cfg.DBPath)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q (valid: file, sqlite, none)", cfg.Backend)
	}
}

// SaveLogged saves a run and reports the outcome through the log and
// metrics instead of returning it.
func SaveLogged(ctx context.Context, s Sink, m *metrics.Metrics, bundle types.ResearchBundle, post *types.GeneratedPost) {
	id, err := s.Save(ctx, bundle, post)
	m.RecordArchive(s.Name(), err)
	if err != nil {
		log.Error().Err(err).Str("coin", bundle.CoinName).Str("archive", s.Name()).Msg("failed to save research results")
		return
	}
	log.Info().Str("coin", bundle.CoinName).Str("archive", s.Name()).Str("id", id).Msg("research results saved")
}

// Nop discards every run.
type Nop struct{}

func (Nop) Name() string { return "none" }

func (Nop) Save(context.Context, types.ResearchBundle, *types.GeneratedPost) (string, error) {
	return "", nil
}

func (Nop) Latest(context.Context, string) (Record, error) { return Record{}, ErrNotFound }

func (Nop) Close() error { return nil }

// coinKey normalizes a coin name for lookups.
func coinKey(coin string) string {
	return strings.ToLower(strings.TrimSpace(coin))
}

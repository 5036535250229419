// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/coin-research/pkg/types"
)

// fileTimeLayout orders lexically by time.
const fileTimeLayout = "20060102_150405"

// FileSink writes each run to <dir>/<coin>_research_<YYYYMMDD_HHMMSS>.json
// with the coin name lower-cased.
type FileSink struct {
	Dir string

	// Now stamps file names; defaults to time.Now.
	Now func() time.Time
}

// NewFileSink returns a FileSink rooted at dir, creating it if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

func (f *FileSink) Name() string { return "file" }

// FileName returns the archive file name for coin at t.
func FileName(coin string, t time.Time) string {
	return fmt.Sprintf("%s_research_%s.json", fileStem(coin), t.Format(fileTimeLayout))
}

// Save writes the run as indented JSON and returns the file path.
func (f *FileSink) Save(_ context.Context, bundle types.ResearchBundle, post *types.GeneratedPost) (string, error) {
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	path := filepath.Join(f.Dir, FileName(bundle.CoinName, now))
	rec := Record{
		ID:       filepath.Base(path),
		CoinName: bundle.CoinName,
		SavedAt:  now,
		Research: bundle,
		Post:     post,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Latest reads the newest file for coin.
func (f *FileSink) Latest(_ context.Context, coin string) (Record, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, fileStem(coin)+"_research_*.json"))
	if err != nil {
		return Record{}, fmt.Errorf("listing archive: %w", err)
	}
	if len(matches) == 0 {
		return Record{}, ErrNotFound
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		return Record{}, fmt.Errorf("reading archive: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing %s: %w", matches[len(matches)-1], err)
	}
	return rec, nil
}

func (f *FileSink) Close() error { return nil }

// fileStem lower-cases coin and replaces characters that would escape the
// archive directory or act as glob metacharacters.
func fileStem(coin string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '*', '?', '[', ']':
			return '_'
		}
		return r
	}, coinKey(coin))
}

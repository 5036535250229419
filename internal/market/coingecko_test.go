// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geckoServer(t *testing.T, status int, body string) *CoinGecko {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("query") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return &CoinGecko{Client: ts.Client(), BaseURL: ts.URL}
}

func TestCoinGeckoFetchTakesFirstCoin(t *testing.T) {
	g := geckoServer(t, http.StatusOK, `{"coins": [
		{"id": "pepe", "name": "Pepe", "symbol": "PEPE", "market_cap_rank": 66,
		 "thumb": "https://img/thumb.png", "large": "https://img/large.png"},
		{"id": "pepe-2", "name": "Pepe 2.0", "symbol": "PEPE2", "market_cap_rank": 900}
	]}`)

	slot := g.Fetch(context.Background(), "pepe")
	id, ok := slot.Value()
	require.True(t, ok, slot.Err())
	assert.Equal(t, "CoinGecko", id.Source)
	assert.Equal(t, "pepe", id.ID)
	assert.Equal(t, "Pepe", id.Name)
	assert.Equal(t, "PEPE", id.Symbol)
	require.NotNil(t, id.MarketCapRank)
	assert.Equal(t, 66, *id.MarketCapRank)
	assert.Equal(t, "https://img/thumb.png", id.ThumbnailURL)
	assert.Equal(t, "https://img/large.png", id.LargeIconURL)
}

func TestCoinGeckoNullRank(t *testing.T) {
	g := geckoServer(t, http.StatusOK, `{"coins": [{"id": "x", "name": "X", "market_cap_rank": null}]}`)
	id, ok := g.Fetch(context.Background(), "x").Value()
	require.True(t, ok)
	assert.Nil(t, id.MarketCapRank)
}

func TestCoinGeckoFetchFailuresAreData(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"empty coin list", http.StatusOK, `{"coins": []}`, "No coins found"},
		{"missing coins key", http.StatusOK, `{"exchanges": []}`, "No data found"},
		{"rate limited", http.StatusTooManyRequests, `{}`, "CoinGecko API error: 429"},
		{"malformed body", http.StatusOK, `[`, "CoinGecko search failed: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geckoServer(t, tt.status, tt.body)
			slot := g.Fetch(context.Background(), "pepe")
			assert.False(t, slot.OK())
			assert.Contains(t, slot.Err(), tt.wantErr)
		})
	}
}

package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLatestTokenProfilesBareList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token-profiles/latest/v1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"tokenAddress":"0xA","chainId":"solana","developer":"dev1"}]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	profiles, err := client.LatestTokenProfiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 || profiles[0].TokenAddress != "0xA" || profiles[0].ChainID != "solana" {
		t.Fatalf("profiles mismatch: %+v", profiles)
	}
}

func TestLatestTokenProfilesWrappedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"tokenAddress":"0xB","chainId":"bsc"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	profiles, err := client.LatestTokenProfiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 || profiles[0].TokenAddress != "0xB" {
		t.Fatalf("profiles mismatch: %+v", profiles)
	}
}

func TestTokenPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/v1/solana/0xA" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"priceUsd":"0.01","liquidity":{"usd":20000},"volume":{"h1":10}}]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	pairs, err := client.TokenPairs(context.Background(), "solana", "0xA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if pairs[0].PriceUSD.Float64() != 0.01 || pairs[0].Liquidity.USD.Float64() != 20000 {
		t.Fatalf("pair mismatch: %+v", pairs[0])
	}
}

func TestGetJSONRetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      server.URL,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, nil)

	if _, err := client.LatestTokenProfiles(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestSearchPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "WSOL" {
			t.Errorf("query mismatch: %q", got)
		}
		w.Write([]byte(`{"pairs":[{"pairAddress":"0xP","priceUsd":"1.5"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	pairs, err := client.SearchPairs(context.Background(), "WSOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 || pairs[0].PairAddress != "0xP" {
		t.Fatalf("pairs mismatch: %+v", pairs)
	}
}

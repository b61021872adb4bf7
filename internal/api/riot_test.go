package api

import (
	"bytes"
	"context"
	"esc-cup/internal/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RiotClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewRiotClient(&config.Config{
		RiotAPIKey:       "RGAPI-test",
		RiotMatchHost:    srv.URL,
		RiotPlatformHost: srv.URL,
	}, zerolog.Nop())
}

func TestGetMatchSendsTokenAndReturnsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol/match/v5/matches/KR_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Riot-Token"); got != "RGAPI-test" {
			t.Errorf("X-Riot-Token = %q", got)
		}
		w.Header().Set("X-App-Rate-Limit", "20:1,100:120")
		w.Header().Set("X-App-Rate-Limit-Count", "3:1,10:120")
		w.Write([]byte(`{"info":{}}`))
	})

	body, err := client.GetMatch(context.Background(), "KR_123")
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if string(body) != `{"info":{}}` {
		t.Errorf("body = %s", body)
	}

	rl := client.GetRateLimitInfo()
	if rl.Limit != 20 || rl.Remaining != 17 || rl.Window != 1 {
		t.Errorf("rate limit = %+v", rl)
	}
}

func TestGetMatchStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.GetMatch(context.Background(), "KR_1")
			if got := StatusCode(err); got != tt.status {
				t.Errorf("StatusCode() = %d, want %d (err %v)", got, tt.status, err)
			}
		})
	}
}

func TestFetchCurrentTier(t *testing.T) {
	tests := []struct {
		name       string
		summonerID string
		body       string
		want       string
	}{
		{"solo preferred", "abc", `[{"queueType":"RANKED_FLEX_SR","tier":"GOLD","rank":"I"},{"queueType":"RANKED_SOLO_5x5","tier":"DIAMOND","rank":"IV"}]`, "DIAMOND IV"},
		{"flex fallback", "abc", `[{"queueType":"RANKED_FLEX_SR","tier":"SILVER","rank":"II"}]`, "SILVER II"},
		{"no entries", "abc", `[]`, "Unranked"},
		{"other queues only", "abc", `[{"queueType":"CHERRY","tier":"","rank":""}]`, "Unranked"},
		{"zero id", "0", `unused`, "Unranked"},
		{"empty id", "", `unused`, "Unranked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/lol/league/v4/entries/by-summoner/"+tt.summonerID {
					t.Errorf("path = %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})

			got, err := client.FetchCurrentTier(context.Background(), tt.summonerID)
			if err != nil {
				t.Fatalf("FetchCurrentTier() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchCurrentTier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchCurrentTierPropagatesFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.FetchCurrentTier(context.Background(), "abc"); err == nil {
		t.Fatal("expected error from failing league endpoint")
	}
}

func TestRateLimitedResponseIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-Rate-Limit", "20:1,100:120")
		w.Header().Set("X-App-Rate-Limit-Count", "20:1,41:120")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	client := NewRiotClient(&config.Config{
		RiotAPIKey:       "RGAPI-test",
		RiotMatchHost:    srv.URL,
		RiotPlatformHost: srv.URL,
	}, zerolog.New(&logs))

	_, err := client.GetMatch(context.Background(), "KR_1")
	if got := StatusCode(err); got != http.StatusTooManyRequests {
		t.Fatalf("StatusCode() = %d (err %v)", got, err)
	}

	rl := client.GetRateLimitInfo()
	if rl.Remaining != 0 || rl.RetryAfter != 7 {
		t.Errorf("rate limit = %+v", rl)
	}
	out := logs.String()
	if !strings.Contains(out, "riot rate limit hit") || !strings.Contains(out, `"retry_after":7`) {
		t.Errorf("missing rate limit log, got %s", out)
	}
}

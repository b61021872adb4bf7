package api

import (
	"context"
	"errors"
	"esc-cup/internal/config"
	"esc-cup/internal/constants"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is a non-200 answer from the Riot API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot API error: %d", e.Code)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is a transport failure.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

type RiotClient struct {
	apiKey       string
	matchHost    string
	platformHost string
	client       *fasthttp.Client
	logger       zerolog.Logger
	rateLimitMu  sync.RWMutex
	rateLimit    RateLimitInfo
}

// RateLimitInfo mirrors the tightest window reported by X-App-Rate-Limit.
type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// window length in seconds
	Window int `json:"window"`

	// seconds, only set after a 429
	RetryAfter int `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

type LeagueEntry struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	SummonerID   string `json:"summonerId"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

func NewRiotClient(cfg *config.Config, logger zerolog.Logger) *RiotClient {
	return &RiotClient{
		apiKey:       cfg.RiotAPIKey,
		matchHost:    cfg.RiotMatchHost,
		platformHost: cfg.RiotPlatformHost,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
		rateLimit: RateLimitInfo{
			Limit:     20,
			Remaining: 20,
			Window:    1,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

// Riot reports windows as "limit:seconds,limit:seconds" and counts as "count:seconds,...".
func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit, window, ok := firstPair(string(resp.Header.Peek("X-App-Rate-Limit"))); ok {
		c.rateLimit.Limit = limit
		c.rateLimit.Window = window
	}
	if count, _, ok := firstPair(string(resp.Header.Peek("X-App-Rate-Limit-Count"))); ok {
		c.rateLimit.Remaining = max(c.rateLimit.Limit-count, 0)
	}
	c.rateLimit.RetryAfter = 0
	if retry := string(resp.Header.Peek("Retry-After")); retry != "" {
		if val, err := strconv.Atoi(retry); err == nil {
			c.rateLimit.RetryAfter = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func firstPair(header string) (int, int, bool) {
	if header == "" {
		return 0, 0, false
	}
	first, _, _ := strings.Cut(header, ",")
	left, right, found := strings.Cut(first, ":")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// GetMatch returns the raw match-v5 document for gameID, e.g. "KR_7012345678".
func (c *RiotClient) GetMatch(ctx context.Context, gameID string) ([]byte, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.matchHost, url.PathEscape(gameID))
	return c.get(ctx, u)
}

func (c *RiotClient) GetLeagueEntries(ctx context.Context, summonerID string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-summoner/%s", c.platformHost, url.PathEscape(summonerID))
	entries, err := doRequest[[]LeagueEntry](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// FetchCurrentTier formats the solo queue rank as "TIER RANK", falling back to flex.
// Players without an id or without a ranked entry are Unranked.
func (c *RiotClient) FetchCurrentTier(ctx context.Context, summonerID string) (string, error) {
	if summonerID == "" || summonerID == "0" {
		return constants.TierUnranked, nil
	}

	entries, err := c.GetLeagueEntries(ctx, summonerID)
	if err != nil {
		return "", err
	}
	return TierFromEntries(entries), nil
}

func TierFromEntries(entries []LeagueEntry) string {
	for _, queue := range []string{constants.QueueRankedSolo, constants.QueueRankedFlex} {
		for _, e := range entries {
			if e.QueueType == queue && e.Tier != "" {
				return strings.TrimSpace(e.Tier + " " + e.Rank)
			}
		}
	}
	return constants.TierUnranked
}

func (c *RiotClient) get(ctx context.Context, u string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", c.apiKey)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn().Err(err).Str("url", u).Msg("riot request failed")
		return nil, fmt.Errorf("riot request failed: %w", err)
	}

	c.updateRateLimit(resp)

	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		rl := c.GetRateLimitInfo()
		c.logger.Warn().
			Int("limit", rl.Limit).
			Int("remaining", rl.Remaining).
			Int("window", rl.Window).
			Int("retry_after", rl.RetryAfter).
			Str("url", u).
			Msg("riot rate limit hit")
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode()).Str("url", u).Msg("riot API returned non-200")
		return nil, &StatusError{Code: resp.StatusCode(), URL: u}
	}

	// resp goes back to the pool, so the body must be copied out
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func doRequest[T any](ctx context.Context, client *RiotClient, u string) (*T, error) {
	body, err := client.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode riot response: %w", err)
	}
	return &result, nil
}

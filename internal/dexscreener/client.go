package dexscreener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"tokenScope/internal/model"
)

// DefaultBaseURL is the public DexScreener API endpoint.
const DefaultBaseURL = "https://api.dexscreener.com"

const defaultTimeout = 10 * time.Second

// Config holds client settings.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client fetches token profiles and pair details from the DexScreener API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client. Zero config values fall back to defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// LatestTokenProfiles returns the most recently listed token profiles.
func (c *Client) LatestTokenProfiles(ctx context.Context) ([]model.TokenCandidate, error) {
	body, err := c.getJSON(ctx, "/token-profiles/latest/v1", nil)
	if err != nil {
		return nil, err
	}
	return decodeCandidates(body)
}

// LatestBoostedTokens returns the most recently boosted tokens.
func (c *Client) LatestBoostedTokens(ctx context.Context) ([]model.TokenCandidate, error) {
	body, err := c.getJSON(ctx, "/token-boosts/latest/v1", nil)
	if err != nil {
		return nil, err
	}
	return decodeCandidates(body)
}

// TopBoostedTokens returns the tokens with the most active boosts.
func (c *Client) TopBoostedTokens(ctx context.Context) ([]model.TokenCandidate, error) {
	body, err := c.getJSON(ctx, "/token-boosts/top/v1", nil)
	if err != nil {
		return nil, err
	}
	return decodeCandidates(body)
}

// SearchPairs searches pairs matching the query.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]model.PairInfo, error) {
	params := url.Values{}
	params.Set("q", query)

	body, err := c.getJSON(ctx, "/latest/dex/search", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Pairs []model.PairInfo `json:"pairs"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	return result.Pairs, nil
}

// TokenPairs returns pair details for a token on a chain.
func (c *Client) TokenPairs(ctx context.Context, chainID, tokenAddress string) ([]model.PairInfo, error) {
	if chainID == "" || tokenAddress == "" {
		return nil, fmt.Errorf("chain id and token address are required")
	}

	path := fmt.Sprintf("/tokens/v1/%s/%s", url.PathEscape(chainID), url.PathEscape(tokenAddress))
	body, err := c.getJSON(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var pairs []model.PairInfo
	if err := json.Unmarshal(body, &pairs); err != nil {
		return nil, fmt.Errorf("decode pairs: %w", err)
	}
	return pairs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body []byte
	err := withRetry(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("dexscreener request failed", zap.String("path", path), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("dexscreener bad status", zap.String("path", path), zap.Int("status", resp.StatusCode))
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return body, nil
}

// decodeCandidates accepts either a bare JSON array or an object wrapping the
// list under "data", which the source alternates between.
func decodeCandidates(body []byte) ([]model.TokenCandidate, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Data []model.TokenCandidate `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
		return wrapped.Data, nil
	}

	var list []model.TokenCandidate
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return list, nil
}

package verify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SafetyConfig controls the token-safety check.
type SafetyConfig struct {
	RequiredStatus string
	APIURL         string
	APIToken       string
	Timeout        time.Duration
}

// SafetyChecker verifies a token against the RugCheck provider. A token is
// accepted only when the provider reports exactly the required status and no
// bundled supply.
type SafetyChecker struct {
	cfg        SafetyConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSafetyChecker builds a SafetyChecker.
func NewSafetyChecker(cfg SafetyConfig, logger *zap.Logger) *SafetyChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequiredStatus == "" {
		cfg.RequiredStatus = "Good"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SafetyChecker{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Enabled reports whether any provider configuration is present. A fully
// unconfigured checker is skipped by the pipeline; a partially configured
// one still runs and fails closed.
func (c *SafetyChecker) Enabled() bool {
	return c.cfg.APIURL != "" || c.cfg.APIToken != ""
}

// Check verifies tokenAddress against the safety provider. Missing
// configuration or any call failure is a rejection.
func (c *SafetyChecker) Check(ctx context.Context, tokenAddress string) Result {
	if c.cfg.APIURL == "" || c.cfg.APIToken == "" || tokenAddress == "" {
		c.logger.Warn("rugcheck config incomplete or token address missing",
			zap.String("token", tokenAddress),
		)
		return rejectedByFailure("rugcheck config incomplete or token address missing")
	}

	var result struct {
		Status  string `json:"status"`
		Bundled bool   `json:"bundled"`
	}
	if err := postVerdict(ctx, c.httpClient, c.cfg.APIURL, c.cfg.APIToken, tokenAddress, &result); err != nil {
		c.logger.Error("rugcheck call failed", zap.String("token", tokenAddress), zap.Error(err))
		return rejectedByFailure("rugcheck: " + err.Error())
	}

	c.logger.Info("rugcheck verdict",
		zap.String("token", tokenAddress),
		zap.String("status", result.Status),
		zap.Bool("bundled", result.Bundled),
	)

	if result.Status != c.cfg.RequiredStatus {
		return rejectedByPolicy(fmt.Sprintf("status %q, want %q", result.Status, c.cfg.RequiredStatus))
	}
	if result.Bundled {
		return rejectedByPolicy("bundled supply")
	}
	return accepted()
}

package verify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// VolumeConfig controls the volume-authenticity check.
type VolumeConfig struct {
	UseInternalAlgorithm bool
	FakeVolumeThreshold  float64
	UsePocketUniverse    bool
	APIURL               string
	APIToken             string
	Timeout              time.Duration
}

// VolumeChecker decides whether a candidate's reported trailing volume is
// authentic. Both enabled checks must pass independently.
type VolumeChecker struct {
	cfg        VolumeConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVolumeChecker builds a VolumeChecker.
func NewVolumeChecker(cfg VolumeConfig, logger *zap.Logger) *VolumeChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &VolumeChecker{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Check verifies the trailing 1h volume of tokenAddress. A provider failure
// counts as a rejection, never as a skip.
func (c *VolumeChecker) Check(ctx context.Context, tokenAddress string, volumeH1 float64) Result {
	if c.cfg.UseInternalAlgorithm {
		if volumeH1 < c.cfg.FakeVolumeThreshold {
			c.logger.Info("internal volume check failed",
				zap.String("token", tokenAddress),
				zap.Float64("volume_h1", volumeH1),
				zap.Float64("threshold", c.cfg.FakeVolumeThreshold),
			)
			return rejectedByPolicy(fmt.Sprintf("volume %.2f below threshold %.2f", volumeH1, c.cfg.FakeVolumeThreshold))
		}
		c.logger.Debug("internal volume check passed",
			zap.String("token", tokenAddress),
			zap.Float64("volume_h1", volumeH1),
		)
	}

	if c.cfg.UsePocketUniverse && c.cfg.APIURL != "" && c.cfg.APIToken != "" {
		var result struct {
			VolumeAuthentic bool `json:"volumeAuthentic"`
		}
		if err := postVerdict(ctx, c.httpClient, c.cfg.APIURL, c.cfg.APIToken, tokenAddress, &result); err != nil {
			c.logger.Error("pocket universe call failed", zap.String("token", tokenAddress), zap.Error(err))
			return rejectedByFailure("pocket universe: " + err.Error())
		}
		if !result.VolumeAuthentic {
			c.logger.Info("pocket universe flagged token", zap.String("token", tokenAddress))
			return rejectedByPolicy("pocket universe flagged volume as inauthentic")
		}
	}

	return accepted()
}

// Package admission applies the ordered filter sequence that turns a fetched
// candidate into an accept/reject decision. Cheap local checks run before any
// outbound verification call; the first failing stage short-circuits the rest.
package admission

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"tokenScope/internal/model"
	"tokenScope/internal/verify"
)

// Stage names the filter that produced a rejection.
type Stage string

const (
	StageCoinBlacklist Stage = "coin_blacklist"
	StageDevBlacklist  Stage = "dev_blacklist"
	StageLiquidity     Stage = "liquidity"
	StagePriceBand     Stage = "price_band"
	StageVolume        Stage = "volume"
	StageSafety        Stage = "safety"
)

// Decision is the outcome of evaluating one candidate.
type Decision struct {
	Admitted bool
	Stage    Stage
	Reason   string
}

// VolumeVerifier checks trailing volume authenticity.
type VolumeVerifier interface {
	Check(ctx context.Context, tokenAddress string, volumeH1 float64) verify.Result
}

// SafetyVerifier checks token safety. A disabled verifier is skipped; an
// enabled one fails closed on any uncertainty.
type SafetyVerifier interface {
	Enabled() bool
	Check(ctx context.Context, tokenAddress string) verify.Result
}

// Config holds the filter settings.
type Config struct {
	CoinBlacklist   []string
	DevBlacklist    []string
	MinLiquidityUSD float64
	MinPriceUSD     float64
	MaxPriceUSD     float64
}

// Pipeline evaluates candidates against the configured filters.
type Pipeline struct {
	cfg    Config
	coin   map[string]struct{}
	dev    map[string]struct{}
	volume VolumeVerifier
	safety SafetyVerifier
	logger *zap.Logger
	now    func() time.Time
}

// NewPipeline builds a Pipeline with its verifiers.
func NewPipeline(cfg Config, volume VolumeVerifier, safety SafetyVerifier, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	coin := make(map[string]struct{}, len(cfg.CoinBlacklist))
	for _, addr := range cfg.CoinBlacklist {
		coin[addr] = struct{}{}
	}
	dev := make(map[string]struct{}, len(cfg.DevBlacklist))
	for _, d := range cfg.DevBlacklist {
		dev[strings.ToLower(d)] = struct{}{}
	}

	return &Pipeline{
		cfg:    cfg,
		coin:   coin,
		dev:    dev,
		volume: volume,
		safety: safety,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate runs the candidate through every stage in order. On admission the
// returned Snapshot is ready to persist; on rejection the Decision names the
// failing stage and no later stage has run.
func (p *Pipeline) Evaluate(ctx context.Context, cand model.TokenCandidate, pair model.PairInfo) (Decision, model.Snapshot) {
	if _, ok := p.coin[cand.TokenAddress]; ok {
		return p.reject(cand, StageCoinBlacklist, "token address blacklisted")
	}

	if cand.Developer != "" {
		if _, ok := p.dev[strings.ToLower(cand.Developer)]; ok {
			return p.reject(cand, StageDevBlacklist, fmt.Sprintf("developer %q blacklisted", cand.Developer))
		}
	}

	liquidity := pair.Liquidity.USD.Float64()
	if liquidity < p.cfg.MinLiquidityUSD {
		return p.reject(cand, StageLiquidity, fmt.Sprintf("liquidity %.2f below %.2f", liquidity, p.cfg.MinLiquidityUSD))
	}

	price := pair.PriceUSD.Float64()
	maxPrice := p.cfg.MaxPriceUSD
	if maxPrice <= 0 {
		maxPrice = math.Inf(1)
	}
	if price < p.cfg.MinPriceUSD || price > maxPrice {
		return p.reject(cand, StagePriceBand, fmt.Sprintf("price %.6f outside [%.6f, %.6f]", price, p.cfg.MinPriceUSD, maxPrice))
	}

	volume := pair.Volume.H1.Float64()
	if p.volume != nil {
		if res := p.volume.Check(ctx, cand.TokenAddress, volume); !res.OK() {
			return p.reject(cand, StageVolume, res.Reason)
		}
	}

	// Safety is a hard gate when the provider is configured at all.
	if p.safety != nil && p.safety.Enabled() {
		if res := p.safety.Check(ctx, cand.TokenAddress); !res.OK() {
			return p.reject(cand, StageSafety, res.Reason)
		}
	}

	snapshot := model.Snapshot{
		TokenAddress: cand.TokenAddress,
		ChainID:      cand.ChainID,
		Icon:         cand.Icon,
		Description:  cand.Description,
		Links:        cand.Links,
		PriceUSD:     price,
		Liquidity:    liquidity,
		VolumeUSD:    volume,
		Developer:    cand.Developer,
		Timestamp:    p.now().UTC(),
	}

	p.logger.Info("candidate admitted",
		zap.String("token", cand.TokenAddress),
		zap.String("chain", cand.ChainID),
		zap.Float64("price_usd", price),
		zap.Float64("liquidity", liquidity),
	)

	return Decision{Admitted: true}, snapshot
}

func (p *Pipeline) reject(cand model.TokenCandidate, stage Stage, reason string) (Decision, model.Snapshot) {
	p.logger.Info("candidate rejected",
		zap.String("token", cand.TokenAddress),
		zap.String("stage", string(stage)),
		zap.String("reason", reason),
	)
	return Decision{Admitted: false, Stage: stage, Reason: reason}, model.Snapshot{}
}

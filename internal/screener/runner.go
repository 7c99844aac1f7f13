// Package screener drives the periodic screen cycle: fetch candidates, run
// the admission pipeline, persist accepted snapshots, analyze history, and
// send alerts. Per-cycle failures are absorbed; the loop never terminates on
// its own.
package screener

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tokenScope/internal/admission"
	"tokenScope/internal/model"
	"tokenScope/internal/notify"
	"tokenScope/internal/storage"
	"tokenScope/internal/trend"
)

// Candidate sources.
const (
	SourceProfiles      = "profiles"
	SourceBoostedLatest = "boosted-latest"
	SourceBoostedTop    = "boosted-top"
)

// DefaultInterval is the sleep between cycles.
const DefaultInterval = 600 * time.Second

// Fetcher is the market-data collaborator.
type Fetcher interface {
	LatestTokenProfiles(ctx context.Context) ([]model.TokenCandidate, error)
	LatestBoostedTokens(ctx context.Context) ([]model.TokenCandidate, error)
	TopBoostedTokens(ctx context.Context) ([]model.TokenCandidate, error)
	TokenPairs(ctx context.Context, chainID, tokenAddress string) ([]model.PairInfo, error)
}

// RunConfig holds runtime settings for the screening loop.
type RunConfig struct {
	Source   string
	Interval time.Duration
}

// Runner owns one screening loop and its collaborators.
type Runner struct {
	cfg      RunConfig
	fetcher  Fetcher
	pipeline *admission.Pipeline
	store    storage.SnapshotStore
	analyzer *trend.Analyzer
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(
	cfg RunConfig,
	fetcher Fetcher,
	pipeline *admission.Pipeline,
	store storage.SnapshotStore,
	analyzer *trend.Analyzer,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		pipeline: pipeline,
		store:    store,
		analyzer: analyzer,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes screen cycles until the context is cancelled. A failed cycle
// is logged and absorbed by the fixed sleep interval; there is no backoff
// and no retry budget.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}

	interval := r.cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single screen cycle.
func (r *Runner) RunOnce(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}

	candidates, err := r.fetchCandidates(ctx)
	if err != nil {
		return fmt.Errorf("fetch candidates: %w", err)
	}

	batch, err := r.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = batch.Rollback(ctx)
		}
	}()

	admitted := 0
	for _, cand := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cand.TokenAddress == "" {
			r.logger.Debug("skipping candidate without token address")
			continue
		}

		pairs, err := r.fetcher.TokenPairs(ctx, cand.ChainID, cand.TokenAddress)
		if err != nil {
			r.logger.Warn("pair fetch failed, skipping candidate",
				zap.String("token", cand.TokenAddress),
				zap.Error(err),
			)
			continue
		}
		if len(pairs) == 0 {
			r.logger.Warn("no pairs for candidate, skipping",
				zap.String("token", cand.TokenAddress),
			)
			continue
		}

		decision, snapshot := r.pipeline.Evaluate(ctx, cand, pairs[0])
		if !decision.Admitted {
			continue
		}

		batch.Add(snapshot)
		admitted++
	}

	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshots: %w", err)
	}
	committed = true

	r.logger.Info("cycle committed",
		zap.Int("candidates", len(candidates)),
		zap.Int("admitted", admitted),
	)

	history, err := r.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	signals := r.analyzer.Analyze(history)
	if len(signals) == 0 {
		r.logger.Info("no tokens flagged in this analysis cycle")
		return nil
	}

	for _, sig := range signals {
		msg := FormatSignal(sig)
		r.logger.Info(msg)
		if err := r.notifier.Notify(ctx, msg); err != nil {
			r.logger.Error("notification failed",
				zap.String("token", sig.TokenAddress),
				zap.Error(err),
			)
		}
	}

	return nil
}

// FormatSignal renders the alert text for a pump signal.
func FormatSignal(sig model.PumpSignal) string {
	return fmt.Sprintf("BUY SIGNAL: Token %s is pumped by %.2f%% in the last hour!", sig.TokenAddress, sig.PercentChange)
}

func (r *Runner) fetchCandidates(ctx context.Context) ([]model.TokenCandidate, error) {
	switch r.cfg.Source {
	case "", SourceProfiles:
		return r.fetcher.LatestTokenProfiles(ctx)
	case SourceBoostedLatest:
		return r.fetcher.LatestBoostedTokens(ctx)
	case SourceBoostedTop:
		return r.fetcher.TopBoostedTokens(ctx)
	default:
		return nil, fmt.Errorf("unknown source %q", r.cfg.Source)
	}
}

func (r *Runner) validate() error {
	if r.fetcher == nil {
		return fmt.Errorf("fetcher is nil")
	}
	if r.pipeline == nil {
		return fmt.Errorf("pipeline is nil")
	}
	if r.store == nil {
		return fmt.Errorf("store is nil")
	}
	if r.analyzer == nil {
		return fmt.Errorf("analyzer is nil")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenScope/internal/admission"
	"tokenScope/internal/config"
	"tokenScope/internal/dexscreener"
	"tokenScope/internal/notify"
	"tokenScope/internal/screener"
	"tokenScope/internal/storage"
	"tokenScope/internal/storage/memory"
	"tokenScope/internal/storage/postgres"
	"tokenScope/internal/trend"
	"tokenScope/internal/verify"
)

func runScreener(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.SnapshotStore
	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		logger.Warn("no pg-dsn configured; snapshots will not survive restarts")
		store = memory.NewStore()
	}

	client := dexscreener.NewClient(dexscreener.Config{}, logger)

	volume := verify.NewVolumeChecker(verify.VolumeConfig{
		UseInternalAlgorithm: cfg.VolumeVerification.UseInternalAlgorithm,
		FakeVolumeThreshold:  cfg.VolumeVerification.FakeVolumeThreshold,
		UsePocketUniverse:    cfg.VolumeVerification.UsePocketUniverse,
		APIURL:               cfg.VolumeVerification.PocketUniverse.APIURL,
		APIToken:             cfg.VolumeVerification.PocketUniverse.APIToken,
	}, logger)

	safety := verify.NewSafetyChecker(verify.SafetyConfig{
		RequiredStatus: cfg.Rugcheck.RequiredStatus,
		APIURL:         cfg.Rugcheck.APIURL,
		APIToken:       cfg.Rugcheck.APIToken,
	}, logger)

	pipeline := admission.NewPipeline(admission.Config{
		CoinBlacklist:   cfg.CoinBlacklist,
		DevBlacklist:    cfg.DevBlacklist,
		MinLiquidityUSD: cfg.Filters.MinLiquidityUSD,
		MinPriceUSD:     cfg.Filters.MinPriceUSD,
		MaxPriceUSD:     cfg.Filters.MaxPriceUSD,
	}, volume, safety, logger)

	analyzer := trend.NewAnalyzer(cfg.PumpThreshold, logger)

	notifier := notify.NewTelegramNotifier(notify.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}, logger)

	runner := screener.NewRunner(screener.RunConfig{
		Source:   cfg.Source,
		Interval: cfg.Interval,
	}, client, pipeline, store, analyzer, notifier, logger)

	logger.Info("screener start",
		zap.String("source", cfg.Source),
		zap.Duration("interval", cfg.Interval),
		zap.Float64("pump_threshold", cfg.PumpThreshold),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("coin_blacklist", len(cfg.CoinBlacklist)),
		zap.Int("dev_blacklist", len(cfg.DevBlacklist)),
	)

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

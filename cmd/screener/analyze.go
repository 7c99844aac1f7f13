package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenScope/internal/config"
	"tokenScope/internal/notify"
	"tokenScope/internal/screener"
	"tokenScope/internal/storage/postgres"
	"tokenScope/internal/trend"
)

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	sendAlerts, _ := cmd.Flags().GetBool("notify")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	history, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	analyzer := trend.NewAnalyzer(cfg.PumpThreshold, logger)
	signals := analyzer.Analyze(history)

	logger.Info("analysis complete",
		zap.Int("snapshots", len(history)),
		zap.Int("signals", len(signals)),
	)

	var notifier notify.Notifier = notify.NopNotifier{}
	if sendAlerts {
		notifier = notify.NewTelegramNotifier(notify.TelegramConfig{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
		}, logger)
	}

	for _, sig := range signals {
		msg := screener.FormatSignal(sig)
		logger.Info(msg,
			zap.String("token", sig.TokenAddress),
			zap.Float64("percent_change", sig.PercentChange),
		)
		if err := notifier.Notify(ctx, msg); err != nil {
			logger.Error("notification failed", zap.String("token", sig.TokenAddress), zap.Error(err))
		}
	}

	return nil
}

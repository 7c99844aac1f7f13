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
	"tokenScope/internal/storage/jsonl"
	"tokenScope/internal/storage/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
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
	if cfg.ExportOut == "" {
		return fmt.Errorf("output path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	snapshots, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}

	exporter := jsonl.NewExporter(cfg.ExportOut)
	if err := exporter.WriteSnapshots(snapshots); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}

	logger.Info("export complete",
		zap.Int("snapshots", len(snapshots)),
		zap.String("out", cfg.ExportOut),
	)

	return nil
}

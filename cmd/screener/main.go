package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "screener",
		Short:        "DEX token screener and pump detector",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the screening loop",
		RunE:  runScreener,
	}

	runCmd.Flags().String("source", "profiles", "candidate source (profiles, boosted-latest, boosted-top)")
	runCmd.Flags().Duration("interval", 600*time.Second, "sleep between cycles")
	runCmd.Flags().Float64("pump-threshold", 50.0, "percent change that triggers an alert")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN (empty runs with in-memory storage)")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze stored history for pumped tokens once",
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().Float64("pump-threshold", 50.0, "percent change that triggers an alert")
	analyzeCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	analyzeCmd.Flags().Bool("notify", false, "send alerts for flagged tokens")
	analyzeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored snapshots to JSONL",
		RunE:  runExport,
	}

	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	exportCmd.Flags().String("out", "./data/snapshots.jsonl", "output JSONL path")
	exportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}

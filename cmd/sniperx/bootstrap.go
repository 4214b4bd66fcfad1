package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sniperx/internal/logger"
	"sniperx/internal/pipeline"
	"sniperx/internal/siglog"
	"sniperx/internal/store"
	"sniperx/internal/trace"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration. A missing config file falls back to
// defaults (demo mode); a file that exists but fails to parse or validate is
// fatal, so a broken config never silently runs with defaults.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "No config file found - using defaults", "path", path)
			return store.Default(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// applyOverrides applies non-zero command-line flags over the loaded config.
func applyOverrides(cfg *store.Config, target string, limit int, minConfidence float64, source, output string) {
	if target != "" {
		cfg.TargetHandle = target
	}
	if limit > 0 {
		cfg.PostLimit = limit
	}
	if minConfidence >= 0 {
		cfg.MinConfidence = minConfidence
	}
	if source != "" {
		cfg.DataSource = source
	}
	if output != "" {
		cfg.Report.Output = output
	}
}

// compressOldLogs compresses old signal log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SNIPERX_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := siglog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// recordSignals emits each ranked signal to the structured logger and the
// append-only run log.
func recordSignals(ctx context.Context, cfg *store.Config, source string, res *pipeline.Result) {
	for _, sig := range res.Signals {
		logger.Signal(ctx, sig.PostID, string(sig.Type), sig.Confidence, string(sig.Urgency), sig.Action)

		keywords := append(append([]string{}, sig.Keywords.Crypto...), sig.Keywords.Stock...)
		if err := siglog.Append(siglog.Entry{
			Handle:     cfg.TargetHandle,
			PostID:     sig.PostID,
			Type:       string(sig.Type),
			Urgency:    string(sig.Urgency),
			Action:     sig.Action,
			Confidence: sig.Confidence,
			Polarity:   sig.Polarity,
			Keywords:   keywords,
		}); err != nil {
			logger.Warn(ctx, "Failed to append signal log", "error", err, "post_id", sig.PostID)
		}
	}

	if err := siglog.AppendRun(siglog.RunEntry{
		Handle:     cfg.TargetHandle,
		Source:     source,
		Posts:      res.Posts,
		Candidates: res.Candidates,
		Signals:    len(res.Signals),
	}); err != nil {
		logger.Warn(ctx, "Failed to append run log", "error", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sniperx/internal/fetch"
	"sniperx/internal/logger"
	"sniperx/internal/pipeline"
	"sniperx/internal/report"
	"sniperx/internal/trace"
)

func main() {
	analyze := flag.Bool("analyze", false, "run the analysis")
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	target := flag.String("target", "", "handle to analyze (overrides config)")
	limit := flag.Int("limit", 0, "maximum posts to fetch (overrides config)")
	minConfidence := flag.Float64("min-confidence", -1, "minimum signal confidence (overrides config)")
	source := flag.String("source", "", "data source: API, SCRAPE or DEMO (overrides config)")
	output := flag.String("output", "", "write the full analysis result to this JSON file")
	flag.Parse()

	if !*analyze {
		flag.Usage()
		return
	}

	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		shutdownSystem()
		os.Exit(1)
	}
	applyOverrides(cfg, *target, *limit, *minConfidence, *source, *output)

	if err := cfg.Validate(); err != nil {
		logger.ErrorWithErr(ctx, "Invalid configuration", err)
		shutdownSystem()
		os.Exit(1)
	}

	compressOldLogs(ctx)

	fetcher := fetch.New(cfg)
	if fetcher.Source() == "DEMO" && cfg.DataSource == "API" {
		logger.Warn(ctx, "No API credentials found - falling back to demo data",
			"hint", "set TWITTER_BEARER_TOKEN to analyze a live timeline")
	}

	posts, err := fetcher.Fetch(ctx, cfg.TargetHandle, cfg.PostLimit)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch posts", err, "handle", cfg.TargetHandle)
		shutdownSystem()
		os.Exit(1)
	}
	if len(posts) == 0 {
		logger.Error(ctx, "No posts fetched", "handle", cfg.TargetHandle)
		shutdownSystem()
		os.Exit(1)
	}

	res, err := pipeline.Run(ctx, posts, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis failed", err, "handle", cfg.TargetHandle)
		shutdownSystem()
		os.Exit(1)
	}

	recordSignals(ctx, cfg, fetcher.Source(), res)

	fmt.Println(report.Render(res))

	if cfg.Report.Output != "" {
		if err := report.WriteJSON(cfg.Report.Output, res); err != nil {
			logger.ErrorWithErr(ctx, "Failed to write report file", err, "path", cfg.Report.Output)
		} else {
			logger.Info(ctx, "Report saved", "path", cfg.Report.Output)
		}
	}

	shutdownSystem()
}

func shutdownSystem() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(shutdownCtx)
	_ = logger.Shutdown(shutdownCtx)
}

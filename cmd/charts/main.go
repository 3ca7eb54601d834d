package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AngelCh415/deal-charts/internal/config"
	"github.com/AngelCh415/deal-charts/internal/pipeline"
	"github.com/AngelCh415/deal-charts/internal/telemetry"
	"github.com/AngelCh415/deal-charts/internal/utils"
)

func main() {
	cfg, cfgErr := config.FromEnv()

	logger := utils.NewLogger(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("using default settings", slog.String("err", cfgErr.Error()))
	}

	ctx := utils.WithRunID(context.Background())
	tel := telemetry.New()

	dir, err := pipeline.New(cfg, logger, tel).Run(ctx)
	flushMetrics(ctx, logger, tel, cfg.MetricsTextfile)
	if err != nil {
		logger.ErrorContext(ctx, "run failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	fmt.Println("Charts saved to:", dir)
}

func flushMetrics(ctx context.Context, logger *slog.Logger, tel *telemetry.Recorder, path string) {
	if path != "" {
		if err := tel.WriteTextfile(path); err != nil {
			logger.WarnContext(ctx, "metrics not written", slog.String("err", err.Error()))
		}
		return
	}
	sum, err := tel.Summary()
	if err != nil {
		logger.WarnContext(ctx, "metrics not gathered", slog.String("err", err.Error()))
		return
	}
	attrs := make([]any, 0, len(sum))
	for _, k := range telemetry.Keys(sum) {
		attrs = append(attrs, slog.Float64(k, sum[k]))
	}
	logger.DebugContext(ctx, "run metrics", attrs...)
}

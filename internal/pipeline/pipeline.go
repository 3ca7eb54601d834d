package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AngelCh415/deal-charts/internal/config"
	"github.com/AngelCh415/deal-charts/internal/ingest"
	"github.com/AngelCh415/deal-charts/internal/metrics"
	"github.com/AngelCh415/deal-charts/internal/models"
	"github.com/AngelCh415/deal-charts/internal/render"
	"github.com/AngelCh415/deal-charts/internal/store"
	"github.com/AngelCh415/deal-charts/internal/telemetry"
)

type Pipeline struct {
	cfg  config.Config
	log  *slog.Logger
	tel  *telemetry.Recorder
	opts []render.Option
}

func New(cfg config.Config, log *slog.Logger, tel *telemetry.Recorder, opts ...render.Option) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, tel: tel, opts: opts}
}

type chart struct {
	name string
	draw func() error
}

func (p *Pipeline) Run(ctx context.Context) (string, error) {
	start := time.Now()
	deals, err := ingest.Load(p.cfg.DataPath)
	if err != nil {
		return "", fmt.Errorf("load dataset: %w", err)
	}
	p.tel.ObserveStage("load", start)

	start = time.Now()
	ds := store.NewDataset(ingest.Bucket(deals))
	p.tel.ObserveStage("bucket", start)

	dupes := ds.Duplicates()
	p.tel.SetRecords(ds.Len(), len(dupes))
	p.log.InfoContext(ctx, "dataset loaded",
		slog.String("path", p.cfg.DataPath),
		slog.Int("records", ds.Len()))
	if len(dupes) > 0 {
		p.log.WarnContext(ctx, "duplicate deal ids kept", slog.Int("count", len(dupes)), slog.Any("deal_ids", dupes))
	}

	rnd := render.New(p.cfg.OutDir, p.opts...)
	dir, err := rnd.Prepare()
	if err != nil {
		return "", err
	}

	svc := metrics.NewService(ds)
	start = time.Now()
	trend := svc.MonthlyTrend()
	for _, row := range trend {
		p.log.DebugContext(ctx, "monthly trend",
			slog.String("month", row.Month.Format("2006-01")),
			slog.Int("deals", row.Deals),
			slog.Float64("win_rate", metrics.Round3(row.WinRate)),
			slog.Float64("avg_cycle", metrics.Round3(row.AvgCycle)))
	}
	p.tel.ObserveStage("aggregate", start)

	charts := []chart{
		{name: "win_rate_trend", draw: func() error { return rnd.WinRateTrend(trend) }},
		{name: "sales_cycle_trend", draw: func() error { return rnd.SalesCycleTrend(trend) }},
		{name: "lead_source_win_rate", draw: func() error {
			m := svc.LeadSourceWinRate(metrics.FocusQuarters, metrics.LeadSources)
			p.logDropped(ctx, "lead_source", m)
			return rnd.LeadSourceWinRate(m)
		}},
		{name: "stage_stall_index", draw: func() error {
			m := svc.StageStallIndex(metrics.FocusQuarters, metrics.DealStages)
			p.logDropped(ctx, "deal_stage", m)
			return rnd.StallHeatmap(m)
		}},
	}

	// un gráfico que falla no frena a los demás
	start = time.Now()
	var errs []error
	for _, c := range charts {
		if err := c.draw(); err != nil {
			p.tel.ChartFailed(c.name)
			p.log.ErrorContext(ctx, "chart failed", slog.String("chart", c.name), slog.String("err", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		p.tel.ChartRendered(c.name)
		p.log.InfoContext(ctx, "chart written", slog.String("chart", c.name))
	}
	p.tel.ObserveStage("render", start)

	return dir, errors.Join(errs...)
}

func (p *Pipeline) logDropped(ctx context.Context, column string, m models.Matrix) {
	if len(m.Dropped) == 0 {
		return
	}
	p.log.WarnContext(ctx, "categories outside chart axis dropped",
		slog.String("column", column),
		slog.Any("values", m.Dropped))
}

package render

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/AngelCh415/deal-charts/internal/models"
)

const maxMonthLabels = 12

func (r *Renderer) WinRateTrend(rows []models.MonthlyTrend) error {
	p := newPlot("Win Rate Trend (Monthly)", "Close Month", "Win Rate")
	if err := addMonthlyLine(p, rows, func(t models.MonthlyTrend) float64 { return t.WinRate }); err != nil {
		return err
	}
	p.Y.Min, p.Y.Max = 0, 1
	return r.save(WinRateTrendFile, 9*vg.Inch, 4.8*vg.Inch, drawPlot(p))
}

func (r *Renderer) SalesCycleTrend(rows []models.MonthlyTrend) error {
	p := newPlot("Sales Cycle Trend (Monthly)", "Close Month", "Avg Sales Cycle (days)")
	if err := addMonthlyLine(p, rows, func(t models.MonthlyTrend) float64 { return t.AvgCycle }); err != nil {
		return err
	}
	return r.save(SalesCycleTrendFile, 9*vg.Inch, 4.8*vg.Inch, drawPlot(p))
}

func addMonthlyLine(p *plot.Plot, rows []models.MonthlyTrend, y func(models.MonthlyTrend) float64) error {
	xys := make(plotter.XYs, 0, len(rows))
	months := make(monthTicks, 0, len(rows))
	for _, row := range rows {
		months = append(months, row.Month)
		v := y(row)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(row.Month.Unix()), Y: v})
	}
	p.X.Tick.Marker = months

	if len(xys) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("line: %w", err)
	}
	line.LineStyle.Color = plotutil.Color(0)
	points.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = plotutil.Color(0)
	p.Add(line, points)
	return nil
}

// un tick por mes, máximo maxMonthLabels etiquetas
type monthTicks []time.Time

func (mt monthTicks) Ticks(min, max float64) []plot.Tick {
	if len(mt) == 0 {
		return plot.DefaultTicks{}.Ticks(min, max)
	}
	every := (len(mt) + maxMonthLabels - 1) / maxMonthLabels
	var ticks []plot.Tick
	for i, m := range mt {
		v := float64(m.Unix())
		if v < min || v > max {
			continue
		}
		t := plot.Tick{Value: v}
		if i%every == 0 {
			t.Label = m.Format("2006-01")
		}
		ticks = append(ticks, t)
	}
	return ticks
}

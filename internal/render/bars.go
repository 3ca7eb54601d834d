package render

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/AngelCh415/deal-charts/internal/models"
)

const barWidth = vg.Length(22)

func (r *Renderer) LeadSourceWinRate(m models.Matrix) error {
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return ErrNoData
	}
	p := newPlot(fmt.Sprintf("Win Rate by Lead Source (%s)", strings.Join(m.Cols, " vs ")), "", "Win Rate")

	for j, col := range m.Cols {
		offset := (vg.Length(j) - vg.Length(len(m.Cols)-1)/2) * barWidth
		fill := plotutil.Color(j)

		var swatch *plotter.BarChart
		for i := range m.Rows {
			v, ok := m.At(i, j)
			if !ok { // celda vacía: sin barra
				continue
			}
			bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
			if err != nil {
				return fmt.Errorf("bar %s/%s: %w", m.Rows[i], col, err)
			}
			bar.XMin = float64(i)
			bar.Offset = offset
			bar.Color = fill
			bar.LineStyle.Width = 0
			p.Add(bar)
			if swatch == nil {
				swatch = bar
			}
		}
		if swatch != nil {
			p.Legend.Add(col, swatch)
		}
	}

	p.NominalX(m.Rows...)
	p.X.Min, p.X.Max = -0.5, float64(len(m.Rows))-0.5
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true
	return r.save(LeadSourceFile, 8.5*vg.Inch, 4.8*vg.Inch, drawPlot(p))
}

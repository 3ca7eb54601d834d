package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/AngelCh415/deal-charts/internal/models"
)

const paletteSize = 255

func (r *Renderer) StallHeatmap(m models.Matrix) error {
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return ErrNoData
	}
	grid := stallGrid{m: m}
	lo, hi := grid.span()

	cm := moreland.Kindlmann()
	cm.SetMax(hi)
	cm.SetMin(lo)

	heat := plotter.NewHeatMap(grid, cm.Palette(paletteSize))
	heat.Min, heat.Max = lo, hi
	heat.NaN = color.White

	p := newPlot("Stage Stall Index Heatmap (Higher = Slower Than Avg)", "", "")
	p.Add(heat)
	if labels, err := cellLabels(grid, lo, hi); err != nil {
		return err
	} else if labels != nil {
		p.Add(labels)
	}
	p.NominalX(m.Cols...)
	p.NominalY(grid.yNames()...)
	p.X.Min, p.X.Max = -0.5, float64(len(m.Cols))-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(len(m.Rows))-0.5

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: paletteSize})
	bar.HideX()
	bar.Y.Label.Text = "Stall Index"

	const legendW = 1.1 * vg.Inch
	return r.save(StallHeatmapFile, 7.2*vg.Inch, 4.8*vg.Inch, func(dc draw.Canvas) error {
		width := dc.Max.X - dc.Min.X
		p.Draw(draw.Crop(dc, 0, -legendW, 0, 0))
		bar.Draw(draw.Crop(dc, width-legendW, -vg.Points(6), vg.Points(28), -vg.Points(28)))
		return nil
	})
}

// la fila 0 del grid es la de abajo: se invierten las filas
type stallGrid struct{ m models.Matrix }

func (g stallGrid) Dims() (c, r int) { return len(g.m.Cols), len(g.m.Rows) }
func (g stallGrid) X(c int) float64  { return float64(c) }
func (g stallGrid) Y(r int) float64  { return float64(r) }

func (g stallGrid) Z(c, r int) float64 {
	v, ok := g.m.At(len(g.m.Rows)-1-r, c)
	if !ok || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func (g stallGrid) Min() float64 { lo, _ := g.span(); return lo }
func (g stallGrid) Max() float64 { _, hi := g.span(); return hi }

// rango de color, nunca vacío
func (g stallGrid) span() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			v := g.Z(i, j)
			if math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	switch {
	case math.IsInf(lo, 1):
		return 0, 2
	case hi-lo < 1e-9:
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func (g stallGrid) yNames() []string {
	n := len(g.m.Rows)
	out := make([]string, n)
	for i, name := range g.m.Rows {
		out[n-1-i] = name
	}
	return out
}

func cellLabels(g stallGrid, lo, hi float64) (*plotter.Labels, error) {
	var (
		xyl    plotter.XYLabels
		colors []color.Color
	)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			v := g.Z(i, j)
			if math.IsNaN(v) {
				continue
			}
			xyl.XYs = append(xyl.XYs, plotter.XY{X: g.X(i), Y: g.Y(j)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.2f", v))
			if (v-lo)/(hi-lo) > 0.6 {
				colors = append(colors, color.Black)
			} else {
				colors = append(colors, color.White)
			}
		}
	}
	if len(xyl.XYs) == 0 {
		return nil, nil
	}
	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, fmt.Errorf("cell labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Color = colors[i]
	}
	return labels, nil
}

package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	WinRateTrendFile    = "win_rate_trend_monthly.png"
	SalesCycleTrendFile = "sales_cycle_trend_monthly.png"
	LeadSourceFile      = "lead_source_win_rate_q1_q2.png"
	StallHeatmapFile    = "stage_stall_index_heatmap.png"
)

const defaultDPI = 200

var ErrNoData = errors.New("render: nothing to draw")

type Renderer struct {
	dir string
	dpi int
}

type Option func(*Renderer)

func WithDPI(dpi int) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

func New(dir string, opts ...Option) *Renderer {
	r := &Renderer{dir: dir, dpi: defaultDPI}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) Prepare() (string, error) {
	abs, err := filepath.Abs(r.dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return abs, nil
}

func (r *Renderer) Path(name string) string { return filepath.Join(r.dir, name) }

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// gonum entra en panic con geometría degenerada; se convierte en error
func (r *Renderer) save(name string, w, h vg.Length, fn func(dc draw.Canvas) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render %s: %v", name, rec)
		}
	}()

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.dpi))
	if err := fn(draw.New(c)); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	f, err := os.Create(r.Path(name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

func drawPlot(p *plot.Plot) func(draw.Canvas) error {
	return func(dc draw.Canvas) error {
		p.Draw(dc)
		return nil
	}
}

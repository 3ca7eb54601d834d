package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/AngelCh415/deal-charts/internal/models"
	"github.com/AngelCh415/deal-charts/internal/store"
)

// Orden fijo de los ejes; no se infiere de los datos.
var (
	LeadSources   = []string{"Inbound", "Outbound", "Partner", "Referral"}
	DealStages    = []string{"Qualified", "Demo", "Proposal", "Negotiation", "Closed"}
	FocusQuarters = []string{"2024Q1", "2024Q2"}
)

type Service struct{ ds *store.Dataset }

func NewService(ds *store.Dataset) *Service { return &Service{ds: ds} }

func (s *Service) MonthlyTrend() []models.MonthlyTrend {
	type acc struct {
		n     int
		won   mean
		cycle mean
	}
	groups := map[int64]*acc{}
	months := map[int64]time.Time{}
	for _, d := range s.ds.All() {
		k := d.CloseMonth.Unix()
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			months[k] = d.CloseMonth
		}
		if d.DealID != "" { // como count() de pandas
			g.n++
		}
		g.won.add(float64(d.Won))
		g.cycle.add(d.SalesCycleDays)
	}

	out := make([]models.MonthlyTrend, 0, len(groups))
	for k, g := range groups {
		out = append(out, models.MonthlyTrend{
			Month:    months[k],
			Deals:    g.n,
			WinRate:  g.won.value(),
			AvgCycle: g.cycle.value(),
		})
	}
	// orden determinista
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func (s *Service) LeadSourceWinRate(quarters, sources []string) models.Matrix {
	cells := map[cellKey]*mean{}
	for _, d := range s.ds.InQuarters(quarters...) {
		at(cells, cellKey{row: d.LeadSource, col: d.CloseQuarter}).add(float64(d.Won))
	}
	return reshape(sources, quarters, cells, func(k cellKey, m *mean) float64 { return m.value() })
}

func (s *Service) StageStallIndex(quarters, stages []string) models.Matrix {
	overall := map[string]*mean{}
	cells := map[cellKey]*mean{}
	for _, d := range s.ds.InQuarters(quarters...) {
		if overall[d.CloseQuarter] == nil {
			overall[d.CloseQuarter] = &mean{}
		}
		overall[d.CloseQuarter].add(d.SalesCycleDays) // incluye etapas fuera del eje
		at(cells, cellKey{row: d.DealStage, col: d.CloseQuarter}).add(d.SalesCycleDays)
	}
	return reshape(stages, quarters, cells, func(k cellKey, m *mean) float64 {
		q, ok := overall[k.col]
		if !ok {
			return math.NaN()
		}
		return Ratio(m.value(), q.value())
	})
}

type cellKey struct{ row, col string }

func at(cells map[cellKey]*mean, k cellKey) *mean {
	m, ok := cells[k]
	if !ok {
		m = &mean{}
		cells[k] = m
	}
	return m
}

// filas desconocidas se descartan y se reportan en Dropped
func reshape(rows, cols []string, cells map[cellKey]*mean, val func(cellKey, *mean) float64) models.Matrix {
	m := models.NewMatrix(rows, cols)
	ri := index(rows)
	ci := index(cols)
	dropped := map[string]struct{}{}
	for k, acc := range cells {
		i, okR := ri[k.row]
		j, okC := ci[k.col]
		if !okR {
			dropped[k.row] = struct{}{}
			continue
		}
		if !okC {
			continue
		}
		m.Values[i][j] = val(k, acc)
	}
	for r := range dropped {
		m.Dropped = append(m.Dropped, r)
	}
	sort.Strings(m.Dropped)
	return m
}

func index(xs []string) map[string]int {
	out := make(map[string]int, len(xs))
	for i, x := range xs {
		out[x] = i
	}
	return out
}

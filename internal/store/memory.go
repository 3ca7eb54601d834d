package store

import (
	"sort"

	"github.com/AngelCh415/deal-charts/internal/models"
)

// solo lectura; siempre se devuelven copias
type Dataset struct {
	deals []models.Deal
	dupes []string
}

func NewDataset(deals []models.Deal) *Dataset {
	ds := &Dataset{deals: append([]models.Deal(nil), deals...)}
	seen := make(map[string]int, len(deals))
	for _, d := range deals {
		seen[d.DealID]++
		if seen[d.DealID] == 2 {
			ds.dupes = append(ds.dupes, d.DealID)
		}
	}
	sort.Strings(ds.dupes)
	return ds
}

func (s *Dataset) Len() int { return len(s.deals) }

func (s *Dataset) All() []models.Deal {
	return append([]models.Deal(nil), s.deals...)
}

func (s *Dataset) Query(f func(models.Deal) bool) []models.Deal {
	var out []models.Deal
	for _, d := range s.deals {
		if f == nil || f(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Dataset) InQuarters(quarters ...string) []models.Deal {
	set := make(map[string]struct{}, len(quarters))
	for _, q := range quarters {
		set[q] = struct{}{}
	}
	return s.Query(func(d models.Deal) bool {
		_, ok := set[d.CloseQuarter]
		return ok
	})
}

// los duplicados se conservan; solo se reportan
func (s *Dataset) Duplicates() []string {
	return append([]string(nil), s.dupes...)
}

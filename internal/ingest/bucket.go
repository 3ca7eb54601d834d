package ingest

import (
	"fmt"
	"time"

	"github.com/AngelCh415/deal-charts/internal/models"
)

// devuelve una copia, no toca la entrada
func Bucket(deals []models.Deal) []models.Deal {
	out := make([]models.Deal, len(deals))
	for i, d := range deals {
		d.CloseMonth = MonthStart(d.ClosedDate)
		d.CloseQuarter = QuarterLabel(d.ClosedDate)
		out[i] = d
	}
	return out
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%04dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

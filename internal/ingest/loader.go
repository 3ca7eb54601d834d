package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/deal-charts/internal/models"
)

const (
	ColDealID         = "deal_id"
	ColCreatedDate    = "created_date"
	ColClosedDate     = "closed_date"
	ColOutcome        = "outcome"
	ColSalesCycleDays = "sales_cycle_days"
	ColLeadSource     = "lead_source"
	ColDealStage      = "deal_stage"
)

var RequiredColumns = []string{
	ColDealID, ColCreatedDate, ColClosedDate, ColOutcome,
	ColSalesCycleDays, ColLeadSource, ColDealStage,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

func Load(path string) ([]models.Deal, error) {
	var (
		rows [][]string
		err  error
	)
	serial := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
		serial = true
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(path, rows, serial)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, accessErr(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, schemaErr(path, pe.Line, "", err)
		}
		return nil, accessErr(path, err)
	}
	return rows, nil
}

func parseRows(path string, rows [][]string, serialDates bool) ([]models.Deal, error) {
	if len(rows) == 0 {
		return nil, schemaErr(path, 0, "", errors.New("no header row"))
	}
	idx, err := indexHeader(rows[0])
	if err != nil {
		return nil, schemaErr(path, 1, err.Error(), errors.New("required column missing"))
	}

	deals := make([]models.Deal, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		line := i + 2
		if blank(rec) {
			continue
		}
		// las categorías se guardan tal cual; solo fechas y números se recortan
		raw := func(col string) string {
			j := idx[col]
			if j >= len(rec) {
				return ""
			}
			return rec[j]
		}
		get := func(col string) string { return strings.TrimSpace(raw(col)) }

		created, err := parseDate(get(ColCreatedDate), serialDates)
		if err != nil {
			return nil, schemaErr(path, line, ColCreatedDate, err)
		}
		closed, err := parseDate(get(ColClosedDate), serialDates)
		if err != nil {
			return nil, schemaErr(path, line, ColClosedDate, err)
		}
		cycle, err := parseNumber(get(ColSalesCycleDays))
		if err != nil {
			return nil, schemaErr(path, line, ColSalesCycleDays, err)
		}

		outcome := raw(ColOutcome)
		deals = append(deals, models.Deal{
			DealID:         raw(ColDealID),
			CreatedDate:    created,
			ClosedDate:     closed,
			Outcome:        outcome,
			SalesCycleDays: cycle,
			LeadSource:     raw(ColLeadSource),
			DealStage:      raw(ColDealStage),
			Won:            WonFlag(outcome),
		})
	}
	return deals, nil
}

func WonFlag(outcome string) int {
	if strings.EqualFold(outcome, "won") { // sin trim: "Won " es pérdida
		return 1
	}
	return 0
}

func indexHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, errors.New(col)
		}
	}
	return idx, nil
}

func parseDate(s string, serial bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	if serial {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if t, err := excelDate(f); err == nil {
				return dateOnly(t), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number %q", s)
	}
	return f, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

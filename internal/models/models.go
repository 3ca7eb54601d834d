package models

import (
	"math"
	"time"
)

type Deal struct {
	DealID         string
	CreatedDate    time.Time
	ClosedDate     time.Time
	Outcome        string
	SalesCycleDays float64 // NaN si la celda está vacía
	LeadSource     string
	DealStage      string

	Won          int
	CloseMonth   time.Time
	CloseQuarter string
}

type MonthlyTrend struct {
	Month    time.Time
	Deals    int
	WinRate  float64
	AvgCycle float64
}

// NaN = celda sin dato
type Matrix struct {
	Rows    []string
	Cols    []string
	Values  [][]float64
	Dropped []string // categorías presentes en los datos pero no en Rows
}

func NewMatrix(rows, cols []string) Matrix {
	vals := make([][]float64, len(rows))
	for i := range vals {
		vals[i] = make([]float64, len(cols))
		for j := range vals[i] {
			vals[i][j] = math.NaN()
		}
	}
	return Matrix{
		Rows:   append([]string(nil), rows...),
		Cols:   append([]string(nil), cols...),
		Values: vals,
	}
}

func (m Matrix) At(i, j int) (float64, bool) {
	if i < 0 || i >= len(m.Values) || j < 0 || j >= len(m.Values[i]) {
		return math.NaN(), false
	}
	v := m.Values[i][j]
	return v, !math.IsNaN(v)
}

func (m Matrix) Cell(row, col string) (float64, bool) {
	return m.At(indexOf(m.Rows, row), indexOf(m.Cols, col))
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

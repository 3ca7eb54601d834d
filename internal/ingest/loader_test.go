package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = "deal_id,created_date,closed_date,outcome,sales_cycle_days,lead_source,deal_stage\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deals.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, header+
		"D-1,2024-01-05,2024-03-02,Won,57,Inbound,Closed\n"+
		"D-2,2024-02-01,2024-03-15,lost,43,Partner,Demo\n"+
		"D-3,2024-02-10,2024-03-30,WON,,Referral,Proposal\n")

	deals, err := Load(path)
	require.NoError(t, err)
	require.Len(t, deals, 3)

	d := deals[0]
	assert.Equal(t, "D-1", d.DealID)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), d.CreatedDate)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), d.ClosedDate)
	assert.Equal(t, 57.0, d.SalesCycleDays)
	assert.Equal(t, "Inbound", d.LeadSource)
	assert.Equal(t, "Closed", d.DealStage)

	assert.Equal(t, []int{1, 0, 1}, []int{deals[0].Won, deals[1].Won, deals[2].Won})
	assert.True(t, math.IsNaN(deals[2].SalesCycleDays), "blank cycle should load as NaN")
	// el bucketer todavía no corrió
	assert.True(t, d.CloseMonth.IsZero())
	assert.Empty(t, d.CloseQuarter)
}

func TestLoadCSVColumnOrderAndExtras(t *testing.T) {
	path := writeCSV(t,
		"\ufeffdeal_stage, lead_source ,amount,sales_cycle_days,outcome,closed_date,created_date,deal_id\n"+
			"Demo,Outbound,1200,30,Won,2024-05-20,2024-04-20,D-9\n"+
			"\n")

	deals, err := Load(path)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "D-9", deals[0].DealID)
	assert.Equal(t, "Outbound", deals[0].LeadSource)
	assert.Equal(t, "Demo", deals[0].DealStage)
	assert.Equal(t, 1, deals[0].Won)
}

func TestLoadDateLayouts(t *testing.T) {
	want := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-06-30", "2024-06-30 17:45:00", "2024-06-30T23:10:00-05:00", "2024/06/30", "06/30/2024"} {
		got, err := parseDate(s, false)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := parseDate("30.06.2024", false)
	assert.Error(t, err)
	_, err = parseDate("45473", false)
	assert.Error(t, err, "serial dates only accepted from workbooks")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    error
		row     int
		column  string
		missing bool
	}{
		{name: "missing file", missing: true, kind: ErrDataAccess},
		{name: "empty file", body: "", kind: ErrSchema},
		{name: "missing column", body: "deal_id,created_date,closed_date,outcome,sales_cycle_days,lead_source\nD-1,2024-01-01,2024-02-01,Won,3,Inbound\n", kind: ErrSchema, row: 1, column: ColDealStage},
		{name: "bad closed date", body: header + "D-1,2024-01-01,someday,Won,3,Inbound,Demo\n", kind: ErrSchema, row: 2, column: ColClosedDate},
		{name: "blank created date", body: header + "D-1,2024-01-01,2024-02-01,Won,3,Inbound,Demo\nD-2,,2024-02-01,Won,3,Inbound,Demo\n", kind: ErrSchema, row: 3, column: ColCreatedDate},
		{name: "bad cycle", body: header + "D-1,2024-01-01,2024-02-01,Won,three,Inbound,Demo\n", kind: ErrSchema, row: 2, column: ColSalesCycleDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.missing {
				path = filepath.Join(t.TempDir(), "nope.csv")
			} else {
				path = writeCSV(t, tt.body)
			}

			deals, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, deals)
			assert.ErrorIs(t, err, tt.kind)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, path, le.Path)
			assert.Equal(t, tt.row, le.Row)
			assert.Equal(t, tt.column, le.Column)
		})
	}
}

func TestLoadMissingFileWrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "data access error")
}

func TestWonFlag(t *testing.T) {
	for outcome, want := range map[string]int{
		"Won": 1, "won": 1, "WON": 1, " Won ": 0, "Won ": 0,
		"Lost": 0, "": 0, "wonder": 0, "Won-ish": 0,
	} {
		assert.Equal(t, want, WonFlag(outcome), outcome)
	}
}

func TestLoadKeepsCategoryValuesVerbatim(t *testing.T) {
	path := writeCSV(t, header+"D-1,2024-01-05,2024-03-02,Won ,57, Partner,Demo \n")

	deals, err := Load(path)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	d := deals[0]
	assert.Equal(t, "Won ", d.Outcome)
	assert.Equal(t, 0, d.Won)
	assert.Equal(t, " Partner", d.LeadSource)
	assert.Equal(t, "Demo ", d.DealStage)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), d.ClosedDate)
	assert.Equal(t, 57.0, d.SalesCycleDays)
}

func TestLoadXLSXMatchesCSV(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"deal_id", "created_date", "closed_date", "outcome", "sales_cycle_days", "lead_source", "deal_stage"},
		{"D-1", "2024-01-05", "2024-03-02", "Won", 57, "Inbound", "Closed"},
		{"D-2", "2024-02-01", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), "Lost", 43, "Partner", "Demo"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	xlsxPath := filepath.Join(dir, "deals.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	csvPath := writeCSV(t, header+
		"D-1,2024-01-05,2024-03-02,Won,57,Inbound,Closed\n"+
		"D-2,2024-02-01,2024-04-15,Lost,43,Partner,Demo\n")

	fromXLSX, err := Load(xlsxPath)
	require.NoError(t, err)
	fromCSV, err := Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromXLSX)
}

func TestLoadXLSXUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrDataAccess)
}

package ingest

import (
	"errors"
	"time"

	"github.com/xuri/excelize/v2"
)

// valores crudos: las fechas llegan como serial de Excel
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, accessErr(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, schemaErr(path, 0, "", errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, schemaErr(path, 0, "", err)
	}
	return rows, nil
}

func excelDate(serial float64) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, false)
}

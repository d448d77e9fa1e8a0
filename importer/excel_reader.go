package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet written by the monthly Excel export; other workbooks use their first sheet.
const entriesSheet = "Entries"

type ExcelReader struct{}

func (r *ExcelReader) Read(path string) ([]Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if index, _ := file.GetSheetIndex(entriesSheet); index >= 0 {
		sheetName = entriesSheet
	}
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	normalizedHeaders := normalizeHeaders(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, newRecord(i+2, normalizedHeaders, row))
	}

	return records, nil
}

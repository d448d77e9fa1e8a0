package output

import (
	"fmt"
	"io"

	"vermlog/worklog"

	"github.com/xuri/excelize/v2"
)

const (
	sheetEntries       = "Entries"
	sheetDailyTotals   = "DailyTotals"
	sheetMonthlyTotals = "MonthlyTotals"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []worklog.Entry) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeEntrySheet(file, sheet, entries); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func writeMonthlyExcel(out io.Writer, report MonthlyReport) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheetEntries); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}
	if err := writeEntrySheet(file, sheetEntries, report.Entries); err != nil {
		return err
	}

	daily := make([][]any, 0, len(report.Daily))
	for _, row := range report.Daily {
		daily = append(daily, []any{
			row.Date.Format("2006-01-02"),
			row.CostCenter,
			row.SiteLabel(),
			row.Fraction.InexactFloat64(),
		})
	}
	if err := writeSheet(file, sheetDailyTotals, []string{"Date", "CostCenter", "Site", "DayFraction"}, daily); err != nil {
		return err
	}

	totals := make([][]any, 0, len(report.Totals)+1)
	for _, total := range report.Totals {
		totals = append(totals, []any{total.CostCenter, total.Total.InexactFloat64()})
	}
	totals = append(totals, []any{"Total", report.GrandTotal().InexactFloat64()})
	if err := writeSheet(file, sheetMonthlyTotals, []string{"CostCenter", "Total"}, totals); err != nil {
		return err
	}

	if _, err := file.WriteTo(out); err != nil {
		return fmt.Errorf("write excel report: %w", err)
	}
	return nil
}

func writeEntrySheet(file *excelize.File, sheet string, entries []worklog.Entry) error {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		values := rawRow(entry)
		row := make([]any, len(values))
		for i, value := range values {
			row[i] = value
		}
		rows = append(rows, row)
	}
	return writeSheet(file, sheet, RawHeaders, rows)
}

func writeSheet(file *excelize.File, sheet string, headers []string, rows [][]any) error {
	if index, _ := file.GetSheetIndex(sheet); index < 0 {
		if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create excel sheet %s: %w", sheet, err)
		}
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}
	return nil
}

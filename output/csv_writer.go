package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"vermlog/worklog"
)

// RawHeaders are the columns of the raw entry export; the importer reads them back.
var RawHeaders = []string{
	"Date",
	"Employee",
	"Site",
	"CostCenter",
	"Activity",
	"Result",
	"Start",
	"End",
	"DirectFraction",
	"DayFraction",
	"DurationHours",
	"Notes",
}

func rawRow(entry worklog.Entry) []string {
	direct := ""
	if entry.DirectFraction != nil {
		direct = worklog.FormatExactFraction(*entry.DirectFraction)
	}
	return []string{
		entry.DateString(),
		entry.Employee,
		entry.Site,
		entry.CostCenter,
		entry.Activity,
		entry.Result,
		worklog.FormatClock(entry.Start),
		worklog.FormatClock(entry.End),
		direct,
		worklog.FormatExactFraction(entry.DayFraction),
		entry.DurationHours.StringFixed(2),
		entry.Notes,
	}
}

type CSVWriter struct {
	Delimiter rune
}

func (w *CSVWriter) Write(path string, entries []worklog.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := w.newWriter(file)
	defer writer.Flush()

	if err := writer.Write(RawHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write(rawRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

func (w *CSVWriter) newWriter(out io.Writer) *csv.Writer {
	writer := csv.NewWriter(out)
	if w.Delimiter != 0 {
		writer.Comma = w.Delimiter
	}
	return writer
}

func writeMonthlyCSV(out io.Writer, report MonthlyReport, delimiter rune) error {
	writer := csv.NewWriter(out)
	writer.Comma = delimiter

	records := [][]string{{"Date", "CostCenter", "Site", "DayFraction"}}
	for _, row := range report.Daily {
		records = append(records, []string{
			row.Date.Format("2006-01-02"),
			row.CostCenter,
			row.SiteLabel(),
			worklog.FormatFraction(row.Fraction),
		})
	}

	records = append(records,
		[]string{},
		[]string{"MonthlyTotals"},
		[]string{"CostCenter", "Total"},
	)
	for _, total := range report.Totals {
		records = append(records, []string{total.CostCenter, worklog.FormatFraction(total.Total)})
	}
	records = append(records, []string{"Total", worklog.FormatFraction(report.GrandTotal())})

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

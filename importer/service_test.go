package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vermlog/output"
	"vermlog/worklog"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestRun_ReadsGermanHeadersAndSkipsBlankRows(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Datum;Mitarbeiter;Baustelle;Kst;Tätigkeit;Ergebnis;Start;Ende;Tagesanteil;Notizen",
		"05.03.2026;anna;Baustelle Nord;4711;Aufmaß;Plan;09:00;13:00;0,50;",
		";;;;;;;;;",
		"06.03.2026;;Baustelle Süd;0815;Büro;Bericht;;;0,25;nachgetragen",
	}, "\n")
	path := writeFile(t, "stunden.csv", content)

	result, err := Run([]string{path}, RunOptions{DefaultEmployee: "bernd"})
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if result.FilesProcessed != 1 || result.RowsRead != 3 || result.RowsMapped != 2 || result.RowsSkipped != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}

	first := result.Entries[0]
	if first.Mode() != worklog.ModeTimeRange || worklog.FormatFraction(first.DayFraction) != "0.50" {
		t.Fatalf("unexpected first entry: mode=%s fraction=%s", first.Mode(), first.DayFraction)
	}

	second := result.Entries[1]
	if second.Employee != "bernd" {
		t.Fatalf("expected default employee, got %q", second.Employee)
	}
	if second.Mode() != worklog.ModeFraction || worklog.FormatFraction(second.DayFraction) != "0.25" {
		t.Fatalf("unexpected second entry: mode=%s fraction=%s", second.Mode(), second.DayFraction)
	}
	if second.Notes != "nachgetragen" {
		t.Fatalf("unexpected notes %q", second.Notes)
	}
}

func TestRun_ReportsFirstInvalidRow(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Date;Employee;Site;CostCenter;Activity;Result;Start;End;DirectFraction",
		"2026-03-05;anna;Nord;4711;Scan;ok;09:00;10:00;",
		"2026-03-05;anna;Nord;4711;Scan;ok;;;1,5",
		"2026-03-05;anna;;4711;Scan;ok;;;0,5",
	}, "\n")
	path := writeFile(t, "entries.csv", content)

	_, err := Run([]string{path}, RunOptions{})
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected row error, got %v", err)
	}
	if rowErr.Row != 3 {
		t.Fatalf("expected row 3, got %d", rowErr.Row)
	}
	validationErr, ok := worklog.AsValidationError(err)
	if !ok {
		t.Fatalf("expected wrapped validation error, got %v", err)
	}
	if _, ok := validationErr.ByField()[worklog.FieldFraction]; !ok {
		t.Fatalf("expected fraction violation, got %v", validationErr.ByField())
	}
}

func TestRun_RoundTripsRawCSVExport(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		prepareEntry(t, "2026-03-05", "09:00", "12:30", ""),
		prepareEntry(t, "2026-03-06", "", "", "0.75"),
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	writer, err := output.WriterForFormat("csv", output.Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, entries); err != nil {
		t.Fatalf("write export: %v", err)
	}

	result, err := Run([]string{path}, RunOptions{})
	if err != nil {
		t.Fatalf("run import: %v", err)
	}

	if diff := cmp.Diff(summarize(entries), summarize(result.Entries)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RawCSVExportKeepsFractionDigits(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		prepareEntry(t, "2026-03-05", "", "", "0.125"),
		prepareEntry(t, "2026-03-06", "", "", "0.004"),
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	writer, err := output.WriterForFormat("csv", output.Options{})
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, entries); err != nil {
		t.Fatalf("write export: %v", err)
	}

	result, err := Run([]string{path}, RunOptions{})
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if len(result.Entries) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(result.Entries))
	}
	for i, entry := range result.Entries {
		want := *entries[i].DirectFraction
		if entry.DirectFraction == nil || !entry.DirectFraction.Equal(want) || !entry.DayFraction.Equal(want) {
			t.Fatalf("entry %d: expected fraction %s, got direct=%v day=%s", i, want, entry.DirectFraction, entry.DayFraction)
		}
	}
}

func TestRun_ReadsExcelEntriesSheet(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{prepareEntry(t, "2026-03-05", "", "", "0.40")}
	report := output.BuildMonthlyReport(entries, 2026, time.March)
	path := filepath.Join(t.TempDir(), "monatsbericht_2026-03.xlsx")
	if err := output.WriteMonthlyReport(path, output.FormatExcel, report, output.Options{}); err != nil {
		t.Fatalf("write report: %v", err)
	}

	result, err := Run([]string{path}, RunOptions{})
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if diff := cmp.Diff(summarize(entries), summarize(result.Entries)); diff != "" {
		t.Fatalf("excel import mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ReadsFirstSheetOfForeignWorkbook(t *testing.T) {
	t.Parallel()

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	rows := [][]any{
		{"Datum", "Mitarbeiter", "Baustelle", "Kst", "Tätigkeit", "Ergebnis", "Start", "Ende"},
		{"05.03.2026", "anna", "Nord", "4711", "Scan", "ok", "08:00", "08:24"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "stunden.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = file.Close()

	result, err := Run([]string{path}, RunOptions{})
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if len(result.Entries) != 1 || worklog.FormatFraction(result.Entries[0].DayFraction) != "0.05" {
		t.Fatalf("unexpected entries %+v", result.Entries)
	}
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	if got, _ := inferFormat("a.XLSX", ""); got != "excel" {
		t.Fatalf("expected excel, got %s", got)
	}
	if got, _ := inferFormat("a.txt", "csv"); got != "csv" {
		t.Fatalf("expected explicit format, got %s", got)
	}
	if _, err := inferFormat("alt.xls", ""); err == nil {
		t.Fatalf("expected error for legacy xls")
	}
	if _, err := inferFormat("a.txt", ""); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func prepareEntry(t *testing.T, day, start, end, fraction string) worklog.Entry {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	entry := worklog.Entry{
		Date:       date,
		Employee:   "anna",
		Site:       "Baustelle Süd",
		CostCenter: "4711",
		Activity:   "Absteckung",
		Result:     "Punkte gesetzt; Protokoll",
		Notes:      "mit Kollege",
	}
	if entry.Start, err = worklog.ParseOptionalClock(start); err != nil {
		t.Fatalf("parse start: %v", err)
	}
	if entry.End, err = worklog.ParseOptionalClock(end); err != nil {
		t.Fatalf("parse end: %v", err)
	}
	if entry.DirectFraction, err = worklog.ParseOptionalFraction(fraction); err != nil {
		t.Fatalf("parse fraction: %v", err)
	}
	prepared, err := worklog.Prepare(entry, worklog.DefaultCalculator())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	return prepared
}

func summarize(entries []worklog.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, strings.Join([]string{
			entry.DateString(),
			entry.Employee,
			entry.Site,
			entry.CostCenter,
			entry.Activity,
			entry.Result,
			entry.Mode().String(),
			worklog.FormatClock(entry.Start),
			worklog.FormatClock(entry.End),
			worklog.FormatFraction(entry.DayFraction),
			entry.Notes,
		}, "|"))
	}
	return out
}

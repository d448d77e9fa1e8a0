package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"vermlog/internal/timeutil"
	"vermlog/output"
	"vermlog/worklog"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportMonth  string
	exportOutput string
	exportRaw    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the monthly report to CSV, Excel or PDF",
	Long: `Export the monthly report of one month.

The report holds one row per day and cost center (sites joined) and the total day fraction per
cost center. The Excel workbook additionally lists every single entry.

The format is taken from --format or inferred from the --output extension (.csv, .xlsx, .pdf).
Without --format and --output the report is written as CSV next to the database
(monatsbericht_YYYY-MM.csv).
With --raw every entry of the month is written as one row instead (CSV or Excel), in the
format "vermlog import" reads back.`,
	Example: `
  # Export the current month as CSV next to the database
  vermlog export

  # Export March as Excel
  vermlog export --month 2026-03 --output ./monatsbericht_2026-03.xlsx

  # Export March as PDF
  vermlog export --month 2026-03 --format pdf

  # Export raw entries for a later import
  vermlog export --month 2026-03 --raw --output ./entries_2026-03.csv
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}

		monthStart, err := resolveExportMonth(exportMonth, time.Now)
		if err != nil {
			return err
		}
		path, format, err := resolveExportTarget(exportOutput, exportFormat, filepath.Dir(app.dbPath), monthStart.Format(timeutil.MonthLayout))
		if err != nil {
			return err
		}

		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListEntriesForMonth(monthStart.Year(), monthStart.Month())
		if err != nil {
			return err
		}
		opts := output.Options{Delimiter: app.cfg.DelimiterRune()}

		if exportRaw {
			writer, err := output.WriterForFormat(format, opts)
			if err != nil {
				return err
			}
			if err := writer.Write(path, entries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(entries), format, path)
			return nil
		}

		report := output.BuildMonthlyReport(entries, monthStart.Year(), monthStart.Month())
		if err := output.WriteMonthlyReport(path, format, report, opts); err != nil {
			return err
		}
		fmt.Printf("Export completed. Month: %s, Entries: %d, Daily rows: %d, Total: %s, Format: %s, File: %s\n",
			report.Label(), len(report.Entries), len(report.Daily), worklog.FormatFraction(report.GrandTotal()), format, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportMonth, "month", "m", "", "Month YYYY-MM (default: current month)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel|pdf (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: <database dir>/monatsbericht_YYYY-MM.<ext>)")
	exportCmd.Flags().BoolVar(&exportRaw, "raw", false, "Export one row per entry instead of the monthly report")
}

func resolveExportMonth(value string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return timeutil.MonthStart(now()), nil
	}
	monthStart, err := timeutil.ParseMonth(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", value)
	}
	return monthStart, nil
}

// resolveExportTarget picks the output path and format. An explicit format
// wins over the file extension; without both, CSV is used.
func resolveExportTarget(outputPath, format, defaultDir, monthLabel string) (string, string, error) {
	switch {
	case strings.TrimSpace(format) != "":
		normalized, err := output.NormalizeFormat(format)
		if err != nil {
			return "", "", err
		}
		format = normalized
	case strings.TrimSpace(outputPath) != "":
		detected, err := output.FormatFromPath(outputPath)
		if err != nil {
			return "", "", err
		}
		format = detected
	default:
		format = output.FormatCSV
	}

	if strings.TrimSpace(outputPath) == "" {
		outputPath = filepath.Join(defaultDir, output.DefaultReportFileName(monthLabel, format))
	}
	return outputPath, format, nil
}

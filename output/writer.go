package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vermlog/worklog"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Options control the tabular exporters.
type Options struct {
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ';'
	}
	return o.Delimiter
}

// Writer writes raw entries, one row per entry.
type Writer interface {
	Write(path string, entries []worklog.Entry) error
}

func WriterForFormat(format string, opts Options) (Writer, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		return &CSVWriter{Delimiter: opts.delimiter()}, nil
	case FormatExcel:
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatExcel, nil
	case ".xls":
		return "", fmt.Errorf("legacy .xls workbooks are not supported, use .xlsx")
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("cannot infer format from file extension %q (use csv, xlsx or pdf)", filepath.Ext(path))
	}
}

// NormalizeFormat maps aliases such as "xlsx" to the canonical format name.
func NormalizeFormat(format string) (string, error) {
	switch normalized := normalizeFormat(format); normalized {
	case FormatCSV, FormatExcel, FormatPDF:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteMonthlyReport writes report to path in the given format.
func WriteMonthlyReport(path, format string, report MonthlyReport, opts Options) error {
	normalized, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s output %s: %w", normalized, path, err)
	}
	defer file.Close()

	if err := RenderMonthlyReport(file, normalized, report, opts); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

// RenderMonthlyReport streams report to w in the given format.
func RenderMonthlyReport(w io.Writer, format string, report MonthlyReport, opts Options) error {
	switch normalizeFormat(format) {
	case FormatCSV:
		return writeMonthlyCSV(w, report, opts.delimiter())
	case FormatExcel:
		return writeMonthlyExcel(w, report)
	case FormatPDF:
		return writeMonthlyPDF(w, report)
	default:
		return fmt.Errorf("unsupported output format for monthly report: %s", format)
	}
}

func normalizeFormat(value string) string {
	normalized := strings.TrimSpace(strings.ToLower(value))
	if normalized == "xlsx" {
		return FormatExcel
	}
	return normalized
}

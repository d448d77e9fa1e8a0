package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"vermlog/worklog"

	"github.com/rs/zerolog/log"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []worklog.Entry
}

type RunOptions struct {
	// Format overrides the extension-based detection (csv or excel).
	Format          string
	Delimiter       rune
	DefaultEmployee string
	Calculator      worklog.Calculator
}

// RowError reports the first row of a file that could not be imported.
type RowError struct {
	Path string
	Row  int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", filepath.Base(e.Path), e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Run reads, maps and prepares every row of the given files. It stops at the
// first row that fails mapping or validation; nothing is returned for
// persisting in that case.
func Run(paths []string, options RunOptions) (*Result, error) {
	result := &Result{Entries: make([]worklog.Entry, 0, 256)}
	mapper := EntryMapper{DefaultEmployee: options.DefaultEmployee}
	calc := options.Calculator
	if calc.Step.IsZero() {
		calc = worklog.DefaultCalculator()
	}

	for _, path := range paths {
		sourceFormat, err := inferFormat(path, options.Format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat, options.Delimiter)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			entry, ok, mapErr := mapper.Map(record)
			if mapErr != nil {
				return nil, &RowError{Path: path, Row: record.RowNumber, Err: mapErr}
			}
			if !ok || entry == nil {
				result.RowsSkipped++
				continue
			}

			prepared, prepErr := worklog.Prepare(*entry, calc)
			if prepErr != nil {
				return nil, &RowError{Path: path, Row: record.RowNumber, Err: prepErr}
			}

			result.RowsMapped++
			result.Entries = append(result.Entries, prepared)
		}
		log.Debug().Str("file", path).Int("rows", len(records)).Msg("read import file")
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "", fmt.Errorf("legacy .xls workbooks are not supported, save %s as .xlsx", path)
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

package importer

import "fmt"

type Reader interface {
	Read(path string) ([]Record, error)
}

// ReaderForFormat returns the reader for csv or excel input. A zero delimiter
// lets the CSV reader detect it from the header line.
func ReaderForFormat(format string, delimiter rune) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{Delimiter: delimiter}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

type CSVReader struct {
	Delimiter rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	delimiter := r.Delimiter
	if delimiter == 0 {
		firstLine, err := buffered.Peek(buffered.Size())
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("read csv header: %w", err)
		}
		delimiter = detectDelimiter(string(firstLine))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}

		records = append(records, newRecord(rowNumber+1, normalizedHeaders, row))
		rowNumber++
	}

	return records, nil
}

// detectDelimiter picks ';' unless the header line has more commas or tabs.
func detectDelimiter(sample string) rune {
	if idx := strings.IndexAny(sample, "\r\n"); idx >= 0 {
		sample = sample[:idx]
	}
	best, bestCount := ';', strings.Count(sample, ";")
	for _, candidate := range []rune{',', '\t'} {
		if count := strings.Count(sample, string(candidate)); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}

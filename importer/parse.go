package importer

import (
	"fmt"
	"strings"
	"time"

	"vermlog/worklog"

	"github.com/shopspring/decimal"
)

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	layouts := []string{
		"2006-01-02",
		"02.01.2006",
		"2.1.2006",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseClock accepts HH:MM and the HH:MM:SS form spreadsheets produce.
func parseClock(value string) (*worklog.Clock, error) {
	value = strings.TrimSpace(value)
	if strings.Count(value, ":") == 2 {
		value = value[:strings.LastIndex(value, ":")]
	}
	return worklog.ParseOptionalClock(value)
}

func parseFraction(value string) (*decimal.Decimal, error) {
	return worklog.ParseOptionalFraction(value)
}

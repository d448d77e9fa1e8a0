package worklog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

// ClockLayout is the display format of a Clock.
const ClockLayout = "15:04"

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses HH:MM (a single-digit hour is accepted).
func ParseClock(value string) (Clock, error) {
	raw := strings.TrimSpace(value)
	hourPart, minutePart, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 || len(hourPart) > 2 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 || len(minutePart) != 2 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	return NewClock(hour, minute), nil
}

// ParseOptionalClock returns nil for blank input.
func ParseOptionalClock(value string) (*Clock, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	clock, err := ParseClock(value)
	if err != nil {
		return nil, err
	}
	return &clock, nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// FormatClock renders an optional clock, empty when unset.
func FormatClock(c *Clock) string {
	if c == nil {
		return ""
	}
	return c.String()
}

// ParseFraction parses a day-fraction; both "0.5" and "0,5" are accepted.
func ParseFraction(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid day fraction %q", value)
	}
	return parsed, nil
}

// ParseOptionalFraction returns nil for blank input.
func ParseOptionalFraction(value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := ParseFraction(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// FormatFraction renders a fraction with two decimals.
func FormatFraction(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// FormatExactFraction renders a fraction with at least two decimals and every
// stored digit, so that parsing the text yields the same value.
func FormatExactFraction(value decimal.Decimal) string {
	places := -value.Exponent()
	if places < 2 {
		places = 2
	}
	return value.StringFixed(places)
}

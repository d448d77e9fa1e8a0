package worklog

import (
	"strings"
	"time"

	"vermlog/internal/timeutil"

	"github.com/shopspring/decimal"
)

// Entry is one logged piece of work on a site, charged against a cost center.
type Entry struct {
	ID         int64
	Date       time.Time
	Employee   string `validate:"required"`
	Site       string `validate:"required"`
	CostCenter string `validate:"required"`
	Activity   string `validate:"required"`
	Result     string `validate:"required"`

	// Either Start and End, or DirectFraction.
	Start          *Clock
	End            *Clock
	DirectFraction *decimal.Decimal

	DayFraction   decimal.Decimal
	DurationHours decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Mode reports how the entry time was captured.
type Mode int

const (
	ModeUnset Mode = iota
	ModeTimeRange
	ModeFraction
)

func (m Mode) String() string {
	switch m {
	case ModeTimeRange:
		return "time"
	case ModeFraction:
		return "fraction"
	default:
		return "unset"
	}
}

// Mode returns ModeTimeRange when start and end are set, ModeFraction when only a
// direct fraction is set and ModeUnset otherwise.
func (e Entry) Mode() Mode {
	hasRange := e.Start != nil && e.End != nil
	switch {
	case hasRange && e.DirectFraction == nil:
		return ModeTimeRange
	case e.DirectFraction != nil && e.Start == nil && e.End == nil:
		return ModeFraction
	default:
		return ModeUnset
	}
}

// DateString returns the entry date as YYYY-MM-DD.
func (e Entry) DateString() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format(timeutil.DayLayout)
}

// Normalize trims the free-text fields in place.
func (e *Entry) Normalize() {
	e.Employee = strings.TrimSpace(e.Employee)
	e.Site = strings.TrimSpace(e.Site)
	e.CostCenter = strings.TrimSpace(e.CostCenter)
	e.Activity = strings.TrimSpace(e.Activity)
	e.Result = strings.TrimSpace(e.Result)
	e.Notes = strings.TrimSpace(e.Notes)
	if !e.Date.IsZero() {
		e.Date = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.Local)
	}
}

// Copy returns a new entry with the same content, no ID and the given date.
func (e Entry) Copy(date time.Time) Entry {
	out := e
	out.ID = 0
	out.Date = date
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	if e.Start != nil {
		start := *e.Start
		out.Start = &start
	}
	if e.End != nil {
		end := *e.End
		out.End = &end
	}
	if e.DirectFraction != nil {
		fraction := *e.DirectFraction
		out.DirectFraction = &fraction
	}
	return out
}

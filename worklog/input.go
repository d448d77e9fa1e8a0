package worklog

import (
	"sort"
	"strings"
	"time"

	"vermlog/internal/timeutil"
)

// Input is the raw text of an entry form. Mode selects which time fields are
// read; ModeUnset reads all of them and leaves the conflict to the validator.
type Input struct {
	Date       string
	Employee   string
	Site       string
	CostCenter string
	Activity   string
	Result     string
	Mode       Mode
	Start      string
	End        string
	Fraction   string
	Notes      string
}

// InputFromEntry renders an entry back into form text.
func InputFromEntry(entry Entry) Input {
	in := Input{
		Date:       entry.DateString(),
		Employee:   entry.Employee,
		Site:       entry.Site,
		CostCenter: entry.CostCenter,
		Activity:   entry.Activity,
		Result:     entry.Result,
		Mode:       entry.Mode(),
		Start:      FormatClock(entry.Start),
		End:        FormatClock(entry.End),
		Notes:      entry.Notes,
	}
	if entry.DirectFraction != nil {
		in.Fraction = FormatExactFraction(*entry.DirectFraction)
	}
	if in.Mode == ModeUnset {
		in.Mode = ModeTimeRange
	}
	return in
}

// ParseMode maps the form values "time" and "fraction" to a Mode.
func ParseMode(value string) Mode {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "time", "range":
		return ModeTimeRange
	case "fraction":
		return ModeFraction
	default:
		return ModeUnset
	}
}

// ParseInput converts form text into an entry. Values that cannot be parsed
// are left unset and reported as format violations.
func ParseInput(in Input) (Entry, []Violation) {
	entry := Entry{
		Employee:   in.Employee,
		Site:       in.Site,
		CostCenter: in.CostCenter,
		Activity:   in.Activity,
		Result:     in.Result,
		Notes:      in.Notes,
	}
	var violations []Violation
	addFormat := func(field, message string) {
		violations = append(violations, Violation{Field: field, Rule: RuleFormat, Message: message})
	}

	if strings.TrimSpace(in.Date) != "" {
		day, err := timeutil.ParseDay(in.Date)
		if err != nil {
			addFormat(FieldDate, "Date must be YYYY-MM-DD")
		} else {
			entry.Date = day
		}
	}

	if in.Mode != ModeFraction {
		start, err := ParseOptionalClock(in.Start)
		if err != nil {
			addFormat(FieldStart, "Start time must be HH:MM")
		}
		end, err := ParseOptionalClock(in.End)
		if err != nil {
			addFormat(FieldEnd, "End time must be HH:MM")
		}
		entry.Start, entry.End = start, end
	}
	if in.Mode != ModeTimeRange {
		fraction, err := ParseOptionalFraction(in.Fraction)
		if err != nil {
			addFormat(FieldFraction, "Day fraction must be a number such as 0.5")
		}
		entry.DirectFraction = fraction
	}

	return entry, violations
}

// PrepareInput parses and prepares form text. Format and rule violations are
// merged into one *ValidationError, at most one per field.
func PrepareInput(in Input, calc Calculator) (Entry, error) {
	entry, formatViolations := ParseInput(in)
	if len(formatViolations) == 0 {
		return Prepare(entry, calc)
	}

	entry.Normalize()
	reported := make(map[string]bool, len(formatViolations))
	violations := append([]Violation(nil), formatViolations...)
	for _, violation := range formatViolations {
		reported[violation.Field] = true
	}
	for _, violation := range Validate(entry) {
		if reported[violation.Field] {
			continue
		}
		// A field that failed to parse is unset; do not blame the mode for it.
		if violation.Field == FieldMode || violation.Rule == RuleTimeIncomplete {
			continue
		}
		violations = append(violations, violation)
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return fieldOrder[violations[i].Field] < fieldOrder[violations[j].Field]
	})
	return entry, &ValidationError{Violations: violations}
}

// Today returns the local start of the current day.
func Today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return timeutil.StartOfDay(now())
}

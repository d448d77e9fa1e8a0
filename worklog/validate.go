package worklog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field names used in violations, in form order.
const (
	FieldDate       = "date"
	FieldEmployee   = "employee"
	FieldSite       = "site"
	FieldCostCenter = "cost_center"
	FieldActivity   = "activity"
	FieldResult     = "result"
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldFraction   = "fraction"
	FieldMode       = "mode"
)

// Rule identifiers reported in violations.
const (
	RuleRequired       = "required"
	RuleModeExclusive  = "mode_exclusive"
	RuleModeMissing    = "mode_missing"
	RuleTimeIncomplete = "time_incomplete"
	RuleEndAfterStart  = "end_after_start"
	RuleFractionRange  = "fraction_range"
	RuleFormat         = "format"
)

var fieldOrder = map[string]int{
	FieldDate:       0,
	FieldEmployee:   1,
	FieldSite:       2,
	FieldCostCenter: 3,
	FieldActivity:   4,
	FieldResult:     5,
	FieldMode:       6,
	FieldStart:      7,
	FieldEnd:        8,
	FieldFraction:   9,
}

var structFieldNames = map[string]string{
	"Date":           FieldDate,
	"Employee":       FieldEmployee,
	"Site":           FieldSite,
	"CostCenter":     FieldCostCenter,
	"Activity":       FieldActivity,
	"Result":         FieldResult,
	"Start":          FieldStart,
	"End":            FieldEnd,
	"DirectFraction": FieldFraction,
	"Mode":           FieldMode,
}

var fieldLabels = map[string]string{
	FieldDate:       "Date",
	FieldEmployee:   "Employee",
	FieldSite:       "Site",
	FieldCostCenter: "Cost center",
	FieldActivity:   "Activity",
	FieldResult:     "Result",
	FieldStart:      "Start time",
	FieldEnd:        "End time",
	FieldFraction:   "Day fraction",
	FieldMode:       "Time",
}

// Violation is one broken entry rule, addressed to a form field.
type Violation struct {
	Field   string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return v.Message
}

// ValidationError carries all violations of a rejected entry.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		messages = append(messages, violation.Message)
	}
	return "invalid entry: " + strings.Join(messages, "; ")
}

// ByField indexes the violations by field, keeping the first message per field.
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Violations))
	for _, violation := range e.Violations {
		if _, exists := out[violation.Field]; !exists {
			out[violation.Field] = violation.Message
		}
	}
	return out
}

// AsValidationError unwraps a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

var entryValidator = newEntryValidator()

func newEntryValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterStructValidation(validateEntryStruct, Entry{})
	return validate
}

// Validate checks a candidate entry and returns every violated rule. It does
// not modify the entry; callers normalize first when input may carry padding.
func Validate(entry Entry) []Violation {
	err := entryValidator.Struct(entry)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []Violation{{Field: FieldMode, Rule: "invalid", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		field, ok := structFieldNames[fieldErr.StructField()]
		if !ok {
			field = strings.ToLower(fieldErr.StructField())
		}
		violations = append(violations, Violation{
			Field:   field,
			Rule:    fieldErr.Tag(),
			Message: violationMessage(field, fieldErr.Tag()),
		})
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return fieldOrder[violations[i].Field] < fieldOrder[violations[j].Field]
	})
	return violations
}

func validateEntryStruct(sl validator.StructLevel) {
	entry := sl.Current().Interface().(Entry)

	if entry.Date.IsZero() {
		sl.ReportError(entry.Date, "date", "Date", RuleRequired, "")
	}

	hasStart := entry.Start != nil
	hasEnd := entry.End != nil
	hasFraction := entry.DirectFraction != nil

	switch {
	case hasFraction && (hasStart || hasEnd):
		sl.ReportError(entry.DirectFraction, "mode", "Mode", RuleModeExclusive, "")
	case !hasFraction && !hasStart && !hasEnd:
		sl.ReportError(nil, "mode", "Mode", RuleModeMissing, "")
	}

	if hasStart != hasEnd {
		if hasStart {
			sl.ReportError(entry.End, "end", "End", RuleTimeIncomplete, "")
		} else {
			sl.ReportError(entry.Start, "start", "Start", RuleTimeIncomplete, "")
		}
	}
	if hasStart && hasEnd && *entry.End <= *entry.Start {
		sl.ReportError(entry.End, "end", "End", RuleEndAfterStart, "")
	}

	if hasFraction {
		fraction := *entry.DirectFraction
		if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
			sl.ReportError(fraction, "fraction", "DirectFraction", RuleFractionRange, "")
		}
	}
}

func violationMessage(field, rule string) string {
	label := fieldLabels[field]
	if label == "" {
		label = field
	}
	switch rule {
	case RuleRequired:
		return fmt.Sprintf("%s is required", label)
	case RuleModeExclusive:
		return "Enter either start/end time or a day fraction, not both"
	case RuleModeMissing:
		return "Enter start/end time or a day fraction"
	case RuleTimeIncomplete:
		return fmt.Sprintf("%s is required when logging a time range", label)
	case RuleEndAfterStart:
		return "End time must be after start time"
	case RuleFractionRange:
		return "Day fraction must be greater than 0 and at most 1.0"
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, rule)
	}
}

// Prepare normalizes and validates the entry, then derives DayFraction and
// DurationHours. When any rule fails the normalized entry is returned with a
// *ValidationError listing the violations.
func Prepare(entry Entry, calc Calculator) (Entry, error) {
	entry.Normalize()
	if violations := Validate(entry); len(violations) > 0 {
		return entry, &ValidationError{Violations: violations}
	}

	switch entry.Mode() {
	case ModeTimeRange:
		fraction, err := calc.DayFraction(*entry.Start, *entry.End)
		if err != nil {
			return entry, fmt.Errorf("calculate day fraction: %w", err)
		}
		entry.DayFraction = fraction
		entry.DurationHours = ElapsedHours(*entry.Start, *entry.End)
	case ModeFraction:
		entry.DayFraction = *entry.DirectFraction
		entry.DurationHours = calc.Hours(*entry.DirectFraction)
	default:
		return entry, fmt.Errorf("entry has no usable time mode")
	}
	return entry, nil
}

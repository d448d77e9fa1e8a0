package worklog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrepareInput_TimeModeIgnoresFraction(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Mode = ModeTimeRange
	in.Start = "8:00"
	in.End = "12:00"
	in.Fraction = "0,9"

	entry, err := PrepareInput(in, DefaultCalculator())
	if err != nil {
		t.Fatalf("prepare input: %v", err)
	}
	if entry.DirectFraction != nil {
		t.Fatalf("expected fraction to be ignored in time mode")
	}
	if FormatFraction(entry.DayFraction) != "0.50" {
		t.Fatalf("expected 0.50, got %s", entry.DayFraction)
	}
}

func TestPrepareInput_FractionModeIgnoresTimes(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Mode = ModeFraction
	in.Start = "08:00"
	in.Fraction = "0,3"

	entry, err := PrepareInput(in, DefaultCalculator())
	if err != nil {
		t.Fatalf("prepare input: %v", err)
	}
	if entry.Start != nil || FormatFraction(entry.DayFraction) != "0.30" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestPrepareInput_ReportsFormatAndRuleViolations(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Site = " "
	in.Mode = ModeTimeRange
	in.Start = "9 Uhr"
	in.End = "10:00"

	_, err := PrepareInput(in, DefaultCalculator())
	validationErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	got := make([]string, 0, len(validationErr.Violations))
	for _, violation := range validationErr.Violations {
		got = append(got, violation.Field+":"+violation.Rule)
	}
	want := []string{FieldSite + ":" + RuleRequired, FieldStart + ":" + RuleFormat}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected violations (-want +got):\n%s", diff)
	}
}

func TestPrepareInput_UnsetModeReportsBothModes(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Start = "09:00"
	in.End = "10:00"
	in.Fraction = "0.5"

	_, err := PrepareInput(in, DefaultCalculator())
	validationErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := validationErr.ByField()[FieldMode]; !ok {
		t.Fatalf("expected mode violation, got %v", validationErr.ByField())
	}
}

func TestInputFromEntry_RoundTrips(t *testing.T) {
	t.Parallel()

	entry := validEntry(t)
	entry.DirectFraction = fractionPtr("0.25")

	in := InputFromEntry(entry)
	if in.Mode != ModeFraction || in.Fraction != "0.25" || in.Date != "2026-03-05" {
		t.Fatalf("unexpected input %+v", in)
	}

	parsed, violations := ParseInput(in)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations %v", violations)
	}
	if !parsed.DirectFraction.Equal(*entry.DirectFraction) || parsed.Site != entry.Site {
		t.Fatalf("round trip changed entry: %+v", parsed)
	}
}

func TestInputFromEntry_KeepsEveryFractionDigit(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"0.125", "0.004"} {
		entry := validEntry(t)
		entry.DirectFraction = fractionPtr(value)

		in := InputFromEntry(entry)
		if in.Fraction != value {
			t.Fatalf("%s: expected form text %q, got %q", value, value, in.Fraction)
		}
		prepared, err := PrepareInput(in, DefaultCalculator())
		if err != nil {
			t.Fatalf("%s: prepare unchanged input: %v", value, err)
		}
		if !prepared.DayFraction.Equal(*entry.DirectFraction) {
			t.Fatalf("%s: day fraction changed to %s", value, prepared.DayFraction)
		}
	}
}

func TestFormatExactFraction(t *testing.T) {
	t.Parallel()

	tests := map[string]string{"0.125": "0.125", "0.004": "0.004", "0.5": "0.50", "1": "1.00", "0.40": "0.40"}
	for input, want := range tests {
		if got := FormatExactFraction(*fractionPtr(input)); got != want {
			t.Fatalf("%s: want %s, got %s", input, want, got)
		}
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := map[string]Mode{"time": ModeTimeRange, "Fraction": ModeFraction, "": ModeUnset}
	for input, want := range tests {
		if got := ParseMode(input); got != want {
			t.Fatalf("%q: want %s, got %s", input, want, got)
		}
	}
}

func validInput() Input {
	return Input{
		Date:       "2026-03-05",
		Employee:   "anna",
		Site:       "Baustelle Nord",
		CostCenter: "4711",
		Activity:   "Scan",
		Result:     "Punktwolke",
	}
}

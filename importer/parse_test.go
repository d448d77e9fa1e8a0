package importer

import "testing"

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty", input: "", want: ""},
		{name: "iso", input: "2026-03-05", want: "2026-03-05"},
		{name: "german", input: "05.03.2026", want: "2026-03-05"},
		{name: "german short", input: "5.3.2026", want: "2026-03-05"},
		{name: "timestamp", input: "2026-03-05T00:00:00", want: "2026-03-05"},
		{name: "invalid", input: "März 5", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			formatted := ""
			if !got.IsZero() {
				formatted = got.Format("2006-01-02")
			}
			if formatted != tc.want {
				t.Fatalf("unexpected date for %q: want %s, got %s", tc.input, tc.want, formatted)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty", input: "", want: ""},
		{name: "hh:mm", input: "08:30", want: "08:30"},
		{name: "with seconds", input: "13:45:00", want: "13:45"},
		{name: "single digit hour", input: "7:05", want: "07:05"},
		{name: "invalid", input: "25:00", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			formatted := ""
			if got != nil {
				formatted = got.String()
			}
			if formatted != tc.want {
				t.Fatalf("unexpected clock for %q: want %q, got %q", tc.input, tc.want, formatted)
			}
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()

	tests := map[string]rune{
		"Date;Employee;Site\n2026-03-05,x;y;z": ';',
		"Date,Employee,Site":                   ',',
		"Date\tEmployee\tSite":                 '\t',
		"Date":                                 ';',
	}
	for sample, want := range tests {
		if got := detectDelimiter(sample); got != want {
			t.Fatalf("sample %q: want %q, got %q", sample, want, got)
		}
	}
}

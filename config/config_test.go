package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("storage:\n  path: \"/tmp/log.db\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Workday.Hours != 8 || cfg.Workday.RoundingStep != 0.05 {
		t.Fatalf("unexpected workday defaults: %+v", cfg.Workday)
	}
	if cfg.Export.CSVDelimiter != ";" {
		t.Fatalf("unexpected delimiter default %q", cfg.Export.CSVDelimiter)
	}
	if len(cfg.ActivityChoices()) == 0 {
		t.Fatalf("expected default activities")
	}
}

func TestValidateYAMLContent_AcceptsExampleTemplate(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("example template must validate: %v", err)
	}
	calc, err := cfg.Calculator()
	if err != nil {
		t.Fatalf("calculator from example: %v", err)
	}
	if calc.Step.String() != "0.05" {
		t.Fatalf("unexpected step %s", calc.Step)
	}
}

func TestValidateYAMLContent_RejectsInvalidWorkday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "zero hours", content: "workday:\n  hours: 0\n"},
		{name: "more than a day", content: "workday:\n  hours: 25\n"},
		{name: "step above one", content: "workday:\n  rounding_step: 1.5\n"},
		{name: "negative step", content: "workday:\n  rounding_step: -0.05\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateYAMLContent([]byte(tt.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), "validation failed") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateYAMLContent_RejectsMultiCharacterDelimiter(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte("export:\n  csv_delimiter: \";;\"\n"))
	if err == nil || !strings.Contains(err.Error(), "single character") {
		t.Fatalf("expected delimiter error, got %v", err)
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	t.Parallel()

	oneDrive := filepath.Join(t.TempDir(), "OneDrive - Firma")
	got, err := DefaultDatabasePath(oneDrive)
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(oneDrive, "Stunden", "log.db"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	fallback, err := DefaultDatabasePath("")
	if err != nil {
		t.Fatalf("fallback path: %v", err)
	}
	if !strings.HasSuffix(fallback, filepath.Join("OneDrive", "Stunden", "log.db")) {
		t.Fatalf("unexpected fallback path %s", fallback)
	}
}

func TestDatabasePath_PrefersOverrideThenConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{Storage: StorageConfig{Path: "/data/stunden.db"}}
	if got, _ := cfg.DatabasePath("./custom.db"); got != "./custom.db" {
		t.Fatalf("expected override, got %s", got)
	}
	if got, _ := cfg.DatabasePath(""); got != "/data/stunden.db" {
		t.Fatalf("expected configured path, got %s", got)
	}

	logPath, err := cfg.LogFilePath("/data/stunden.db")
	if err != nil {
		t.Fatalf("log path: %v", err)
	}
	if logPath != filepath.Join("/data", "vermlog.log") {
		t.Fatalf("unexpected log path %s", logPath)
	}
}

func TestEmployeeName_FallsBackToSystemUser(t *testing.T) {
	t.Parallel()

	if got := (Config{Defaults: DefaultsConfig{Employee: " Anna "}}).EmployeeName(); got != "Anna" {
		t.Fatalf("expected configured employee, got %q", got)
	}
	if got := (Config{}).EmployeeName(); strings.TrimSpace(got) == "" {
		t.Fatalf("expected non-empty fallback employee")
	}
}

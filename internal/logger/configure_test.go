package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestConfigure_WritesConsoleAndFile(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "vermlog.log")
	closer, err := Configure(Options{Level: "debug", File: path, Console: &console})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	log.Debug().Str("entry", "42").Msg("saved entry")
	log.Trace().Msg("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"message":"saved entry"`) {
		t.Fatalf("expected json line in log file, got %q", content)
	}
	if strings.Contains(string(content), "hidden") {
		t.Fatalf("trace message must be filtered at debug level")
	}
	if !strings.Contains(console.String(), "saved entry") {
		t.Fatalf("expected console output, got %q", console.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		" DEBUG ": zerolog.DebugLevel,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		if err != nil || got != want {
			t.Fatalf("%q: want %s, got %s (%v)", input, want, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

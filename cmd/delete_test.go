package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vermlog/config"
)

func TestDeleteDatabase_UsesStoragePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Stunden", "log.db")
	store := openStoreAt(t, path)
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	var out bytes.Buffer
	deleted, err := deleteDatabase(configWithStoragePath(t, path), "", strings.NewReader("Y\n"), &out)
	if err != nil {
		t.Fatalf("delete database: %v", err)
	}
	if deleted != path {
		t.Fatalf("expected %s, got %s", path, deleted)
	}
	if !strings.Contains(out.String(), path) {
		t.Fatalf("expected prompt to name %s, got %q", path, out.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected database file to be removed")
	}
}

func TestDeleteDatabase_OverrideWinsOverStoragePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configured := writeDummyFile(t, filepath.Join(dir, "configured.db"))
	override := writeDummyFile(t, filepath.Join(dir, "override.db"))

	deleted, err := deleteDatabase(configWithStoragePath(t, configured), override, strings.NewReader("Y"), nil)
	if err != nil {
		t.Fatalf("delete database: %v", err)
	}
	if deleted != override {
		t.Fatalf("expected override %s, got %s", override, deleted)
	}
	if _, err := os.Stat(configured); err != nil {
		t.Fatalf("configured database must stay: %v", err)
	}
}

func TestDeleteDatabase_KeepsFileWithoutUppercaseY(t *testing.T) {
	t.Parallel()

	for _, answer := range []string{"y\n", "ja\n", "\n", "N"} {
		path := writeDummyFile(t, filepath.Join(t.TempDir(), "log.db"))
		_, err := deleteDatabase(configWithStoragePath(t, path), "", strings.NewReader(answer), nil)
		if err == nil || !strings.Contains(err.Error(), "aborted") {
			t.Fatalf("%q: expected abort, got %v", answer, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%q: database must stay: %v", answer, err)
		}
	}
}

func TestDeleteDatabase_MissingOrDirectoryPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, path := range []string{filepath.Join(dir, "missing.db"), dir} {
		if _, err := deleteDatabase(configWithStoragePath(t, path), "", strings.NewReader("Y\n"), nil); err == nil {
			t.Fatalf("%s: expected error", path)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory must stay: %v", err)
	}
}

func configWithStoragePath(t *testing.T, path string) *config.Config {
	t.Helper()

	cfg, err := config.ValidateYAMLContent([]byte("storage:\n  path: '" + path + "'\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func writeDummyFile(t *testing.T, path string) string {
	t.Helper()

	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

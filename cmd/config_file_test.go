package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vermlog/config"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(false); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "# vermlog configuration") || !strings.Contains(text, "rounding_step: 0.05") {
		t.Fatalf("expected example template in config file, got:\n%s", text)
	}
}

func TestSaveDefaultConfigKeepsExistingFileUnlessForced(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "workday:\n  hours: 7.8\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(false); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}
	content, _ := os.ReadFile(tmpConfig)
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}

	if err := saveDefaultConfig(true); err != nil {
		t.Fatalf("unexpected error overwriting config: %v", err)
	}
	content, _ = os.ReadFile(tmpConfig)
	if string(content) != config.ExampleYAML() {
		t.Fatalf("expected --force to write the template")
	}
}

func TestResolveConfigEditPath(t *testing.T) {
	t.Run("uses explicit flag first", func(t *testing.T) {
		got, err := resolveConfigEditPath("./custom.yaml", "/tmp/active.yaml")
		if err != nil || got != "./custom.yaml" {
			t.Fatalf("expected explicit config path, got %q (%v)", got, err)
		}
	})

	t.Run("uses active config when flag is empty", func(t *testing.T) {
		got, err := resolveConfigEditPath("", "/tmp/active.yaml")
		if err != nil || got != "/tmp/active.yaml" {
			t.Fatalf("expected active config path, got %q (%v)", got, err)
		}
	})

	t.Run("falls back to home config path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		got, err := resolveConfigEditPath("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, ".vermlog.yaml"); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestEnsureConfigFileWithTemplate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "myconfig.yaml")

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil || !created {
		t.Fatalf("expected file to be created (%v)", err)
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("unexpected error stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	created, err = ensureConfigFileWithTemplate(configPath)
	if err != nil || created {
		t.Fatalf("did not expect existing file to be recreated (%v)", err)
	}

	if _, err := ensureConfigFileWithTemplate(t.TempDir()); err == nil {
		t.Fatalf("expected error for directory path")
	}
}

func TestValidateConfigFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	if err := os.WriteFile(valid, []byte("workday:\n  hours: 7.8\ndefaults:\n  employee: anna\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	summary, err := validateConfigFile(valid)
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if !strings.Contains(summary, "workday 7.8h") || !strings.Contains(summary, "employee anna") {
		t.Fatalf("unexpected summary %q", summary)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("workday:\n  rounding_step: 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := validateConfigFile(invalid); err == nil {
		t.Fatalf("expected validation error for rounding step above 1")
	}
}

func TestResolveEditorValue(t *testing.T) {
	tests := []struct {
		name   string
		visual string
		editor string
		want   string
	}{
		{name: "visual wins", visual: "code --wait", editor: "nano", want: "code --wait"},
		{name: "editor fallback", visual: "", editor: "nano", want: "nano"},
		{name: "blank visual ignored", visual: "  ", editor: "nano", want: "nano"},
		{name: "default vi", visual: "", editor: "", want: "vi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveEditorValue(tt.visual, tt.editor); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildEditorCommand(t *testing.T) {
	cmd, err := buildEditorCommand("code --wait", "/tmp/cfg.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmd.Args) != 3 || cmd.Args[1] != "--wait" || cmd.Args[2] != "/tmp/cfg.yaml" {
		t.Fatalf("unexpected command args: %#v", cmd.Args)
	}

	if _, err := buildEditorCommand("   ", "/tmp/cfg.yaml"); err == nil {
		t.Fatalf("expected error for empty editor")
	}
}

func TestWriteConfigPrintsYAML(t *testing.T) {
	cfg, err := config.ValidateYAMLContent([]byte("defaults:\n  employee: anna\n"))
	if err != nil {
		t.Fatalf("validate config: %v", err)
	}

	var out bytes.Buffer
	if err := writeConfig(&out, cfg, "/tmp/.vermlog.yaml"); err != nil {
		t.Fatalf("write config: %v", err)
	}
	text := out.String()
	for _, want := range []string{"# config file: /tmp/.vermlog.yaml", "hours: 8", "employee: anna", "csv_delimiter:"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

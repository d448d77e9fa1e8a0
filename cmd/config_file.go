package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vermlog/config"
)

const defaultConfigName = ".vermlog.yaml"

// resolveConfigEditPath returns the file the config commands operate on:
// --configFile, then the file viper loaded, then $HOME/.vermlog.yaml.
func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// writeConfigTemplate writes the example config to path. An existing file is
// kept unless overwrite is set; the result reports whether a file was written.
func writeConfigTemplate(path string, overwrite bool) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, fmt.Errorf("config path is a directory: %s", path)
	case err == nil && !overwrite:
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("check config file %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

func ensureConfigFileWithTemplate(path string) (bool, error) {
	return writeConfigTemplate(path, false)
}

// validateConfigFile parses and validates a config file and returns the
// calculator settings it results in, for a confirmation line.
func validateConfigFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return "", fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	return fmt.Sprintf("workday %gh, rounding step %g, employee %s", cfg.Workday.Hours, cfg.Workday.RoundingStep, cfg.EmployeeName()), nil
}

func resolveEditorValue(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// buildEditorCommand splits an editor value such as "code --wait" and appends
// the file to edit.
func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	args := append(append([]string{}, fields[1:]...), configPath)
	return exec.Command(fields[0], args...), nil
}

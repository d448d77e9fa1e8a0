package config

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"vermlog/worklog"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyWorkdayHours      = "workday.hours"
	KeyWorkdayRounding   = "workday.rounding_step"
	KeyStoragePath       = "storage.path"
	KeyDefaultEmployee   = "defaults.employee"
	KeyDefaultActivities = "defaults.activities"
	KeyExportDelimiter   = "export.csv_delimiter"
	KeyLogLevel          = "log.level"
	KeyLogFile           = "log.file"

	EnvPrefix = "VERMLOG"

	dataDirName    = "Stunden"
	dbFileName     = "log.db"
	logFileName    = "vermlog.log"
	oneDriveEnvVar = "OneDrive"
)

type Config struct {
	Workday  WorkdayConfig  `mapstructure:"workday" yaml:"workday"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type WorkdayConfig struct {
	Hours        float64 `mapstructure:"hours" yaml:"hours" validate:"gt=0,lte=24"`
	RoundingStep float64 `mapstructure:"rounding_step" yaml:"rounding_step" validate:"gt=0,lte=1"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type DefaultsConfig struct {
	Employee   string   `mapstructure:"employee" yaml:"employee"`
	Activities []string `mapstructure:"activities" yaml:"activities"`
}

type ExportConfig struct {
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DefaultActivities are offered by the entry forms when the config lists none.
func DefaultActivities() []string {
	return []string{"Aufmaß", "Absteckung", "Scan", "Büro", "Sonstiges"}
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# vermlog configuration
workday:
  # Length of a full workday in hours; a day fraction of 1.0 equals this many hours.
  hours: 8
  # Time ranges are rounded up to the next multiple of this step.
  rounding_step: 0.05

storage:
  # Empty: $OneDrive/Stunden/log.db, or ~/OneDrive/Stunden/log.db when OneDrive is not set.
  path: ""

defaults:
  # Empty: the operating system user name.
  employee: ""
  activities:
    - "Aufmaß"
    - "Absteckung"
    - "Scan"
    - "Büro"
    - "Sonstiges"

export:
  csv_delimiter: ";"

log:
  level: "info"
  file: ""
`
}

// Calculator returns the fraction calculator for the configured workday.
func (c Config) Calculator() (worklog.Calculator, error) {
	return worklog.NewCalculator(c.Workday.Hours, c.Workday.RoundingStep)
}

// DelimiterRune returns the configured CSV delimiter.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Export.CSVDelimiter)
	return r
}

// EmployeeName returns the configured default employee, falling back to the
// operating system user.
func (c Config) EmployeeName() string {
	if name := strings.TrimSpace(c.Defaults.Employee); name != "" {
		return name
	}
	return currentUserName()
}

// ActivityChoices returns the configured activities or the built-in list.
func (c Config) ActivityChoices() []string {
	if len(c.Defaults.Activities) > 0 {
		return c.Defaults.Activities
	}
	return DefaultActivities()
}

// DatabasePath resolves the database file: explicit override, storage.path,
// then the OneDrive default.
func (c Config) DatabasePath(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	if strings.TrimSpace(c.Storage.Path) != "" {
		return expandHome(c.Storage.Path)
	}
	return DefaultDatabasePath(os.Getenv(oneDriveEnvVar))
}

// LogFilePath resolves log.file, defaulting to a file next to the database.
func (c Config) LogFilePath(dbPath string) (string, error) {
	if strings.TrimSpace(c.Log.File) != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(filepath.Dir(dbPath), logFileName), nil
}

// DefaultDatabasePath returns <oneDrive>/Stunden/log.db, or the same layout
// under ~/OneDrive when oneDrive is empty.
func DefaultDatabasePath(oneDrive string) (string, error) {
	root := strings.TrimSpace(oneDrive)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		root = filepath.Join(home, "OneDrive")
	}
	return filepath.Join(root, dataDirName, dbFileName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func currentUserName() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		name := current.Username
		// Windows reports DOMAIN\user.
		if idx := strings.LastIndex(name, `\`); idx >= 0 {
			name = name[idx+1:]
		}
		return name
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return "unknown"
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if utf8.RuneCountInString(cfg.Export.CSVDelimiter) != 1 {
		return nil, fmt.Errorf("validation failed: export.csv_delimiter must be a single character, got %q", cfg.Export.CSVDelimiter)
	}
	if _, err := cfg.Calculator(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWorkdayHours, worklog.DefaultWorkdayHours)
	v.SetDefault(KeyWorkdayRounding, worklog.DefaultRoundingStep)
	v.SetDefault(KeyStoragePath, "")
	v.SetDefault(KeyDefaultEmployee, "")
	v.SetDefault(KeyDefaultActivities, DefaultActivities())
	v.SetDefault(KeyExportDelimiter, ";")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"vermlog/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration (file values, environment overrides and defaults)
as YAML, together with the resolved config file and database path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  vermlog config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return writeConfig(os.Stdout, cfg, viper.ConfigFileUsed())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func writeConfig(w io.Writer, cfg *config.Config, configPath string) error {
	if configPath == "" {
		configPath = "(none, defaults)"
	}
	fmt.Fprintf(w, "# config file: %s\n", configPath)
	if resolved, err := cfg.DatabasePath(dbPath); err == nil {
		fmt.Fprintf(w, "# database:    %s\n", resolved)
	}
	fmt.Fprintf(w, "# employee:    %s\n", cfg.EmployeeName())

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return encoder.Close()
}

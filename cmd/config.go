package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vermlog configuration file values.",
	Long: `Create, edit, display, and delete the vermlog configuration file.

The configuration stores application-wide values:
- workday.hours / workday.rounding_step (day fraction calculation)
- storage.path (SQLite database, default $OneDrive/Stunden/log.db)
- defaults.employee / defaults.activities (entry form defaults)
- export.csv_delimiter
- log.level / log.file

Every key can be overridden by an environment variable, e.g. VERMLOG_WORKDAY_HOURS=7.8.`,
	Example: `
  # Create default config in $HOME/.vermlog.yaml
  vermlog config create

  # Show active config and source file
  vermlog config show

  # Open active config in editor (creates example if missing)
  vermlog config edit

  # Delete active config file
  vermlog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the example template also used by "config edit".

An existing file is left untouched unless --force is given.`,
	Example: `
  # Create default config at $HOME/.vermlog.yaml
  vermlog config create

  # Reset a config file to the template
  vermlog --configFile ./vermlog.yaml config create --force
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(configCreateForce)
	},
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file")
}

func saveDefaultConfig(force bool) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	written, err := writeConfigTemplate(configPath, force)
	if err != nil {
		return err
	}
	if !written {
		fmt.Printf("Config file already exists at: %s (use --force to overwrite)\n", configPath)
		return nil
	}
	fmt.Printf("New config file created at: %s\n", configPath)
	return nil
}

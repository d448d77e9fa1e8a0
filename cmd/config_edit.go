package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active vermlog config file in your editor ($VISUAL, then $EDITOR, then vi).

If no config file exists yet, the example template is written first.
After the editor exits, the content is validated; an invalid file is reported and kept as is.`,
	Example: `
  # Edit active config
  vermlog config edit

  # Use a specific editor once
  EDITOR="code --wait" vermlog config edit
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editorCommand, err := buildEditorCommand(resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR")), configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		summary, err := validateConfigFile(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("Configuration saved and validated: %s (%s)\n", configPath, summary)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

package cmd

import (
	"fmt"

	"vermlog/tui"

	"github.com/spf13/cobra"
)

var formDate string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the terminal entry form.",
	Long: `Open an interactive form in the terminal to log entries one after another.

Keys:
  tab/↓, shift+tab/↑  move between fields
  ctrl+t              switch between start/end time and day fraction
  ctrl+l              take site and cost center from the last entry
  enter (last field), ctrl+s  save
  esc                 quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		day, err := parseDayOrToday(formDate)
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		saved, err := tui.Run(store, tui.Options{
			Calculator: app.calc,
			Date:       day,
			Employee:   app.cfg.EmployeeName(),
			Activities: app.cfg.ActivityChoices(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Saved entries: %d\n", len(saved))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formCmd)

	formCmd.Flags().StringVar(&formDate, "date", "", "Preset day YYYY-MM-DD (default: today)")
}

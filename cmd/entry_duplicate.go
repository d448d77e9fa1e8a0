package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var duplicateDate string

var entryDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy an entry to another day.",
	Long: `Copy all fields of an entry, including times or day fraction, into a new entry.

Without --date the copy keeps the original day.`,
	Example: `
  vermlog entry duplicate 12 --date 2026-03-06
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		app, err := loadApp()
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		target, err := parseOptionalDay(duplicateDate)
		if err != nil {
			return err
		}
		newID, err := store.DuplicateEntry(id, target)
		if err != nil {
			return fmt.Errorf("duplicate entry #%d: %w", id, err)
		}
		copied, _, err := store.GetEntry(newID)
		if err != nil {
			return err
		}
		warnCollision(store, copied)
		fmt.Printf("Copied entry #%d to #%d on %s\n", id, newID, copied.DateString())
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryDuplicateCmd)

	entryDuplicateCmd.Flags().StringVar(&duplicateDate, "date", "", "Target day YYYY-MM-DD (default: same day)")
}

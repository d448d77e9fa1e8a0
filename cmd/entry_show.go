package cmd

import (
	"fmt"
	"strings"
	"time"

	"vermlog/internal/timeutil"
	"vermlog/storage"

	"github.com/spf13/cobra"
)

var entryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry.",
	Args:  cobra.ExactArgs(1),
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

		entry, found, err := store.GetEntry(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("entry #%d: %w", id, storage.ErrEntryNotFound)
		}
		printEntry(entry)
		return nil
	},
}

var entryLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recently created entry.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, found, err := store.LatestEntry()
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("No entries yet.")
			return nil
		}
		printEntry(entry)
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entryLastCmd)
}

// parseOptionalDay returns the zero time for an empty value.
func parseOptionalDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	day, err := timeutil.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

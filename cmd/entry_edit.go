package cmd

import (
	"errors"
	"fmt"

	"vermlog/storage"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var editFlags entryFlags

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a stored entry.",
	Long: `Change only the fields whose flags are given; all other values stay as stored.

Setting --start/--end switches the entry to a time range, setting --fraction switches it to a
direct day fraction. The day fraction is recalculated in both cases.`,
	Example: `
  vermlog entry edit 12 --end 13:00
  vermlog entry edit 12 --fraction 0.5
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

		changed := map[string]bool{}
		for _, name := range []string{"date", "employee", "site", "kst", "activity", "result", "notes", "start", "end", "fraction"} {
			changed[name] = cmd.Flags().Changed(name)
		}

		entry, err := editEntry(store, app.calc, id, editFlags, changed)
		if err != nil {
			return printViolations(err)
		}
		fmt.Printf("Updated entry #%d: %s %s (fraction %s)\n",
			entry.ID, entry.DateString(), entry.Site, worklog.FormatFraction(entry.DayFraction))
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryEditCmd)

	editFlags.register(entryEditCmd)
}

// editEntry applies the changed flags to a stored entry and saves it.
func editEntry(store *storage.SQLiteStore, calc worklog.Calculator, id int64, f entryFlags, changed map[string]bool) (worklog.Entry, error) {
	existing, found, err := store.GetEntry(id)
	if err != nil {
		return worklog.Entry{}, err
	}
	if !found {
		return worklog.Entry{}, fmt.Errorf("entry #%d: %w", id, storage.ErrEntryNotFound)
	}

	in := worklog.InputFromEntry(existing)
	apply := func(name string, target *string, value string) {
		if changed[name] {
			*target = value
		}
	}
	apply("date", &in.Date, f.date)
	apply("employee", &in.Employee, f.employee)
	apply("site", &in.Site, f.site)
	apply("kst", &in.CostCenter, f.costCenter)
	apply("activity", &in.Activity, f.activity)
	apply("result", &in.Result, f.result)
	apply("notes", &in.Notes, f.notes)
	apply("start", &in.Start, f.start)
	apply("end", &in.End, f.end)
	apply("fraction", &in.Fraction, f.fraction)

	timeChanged := changed["start"] || changed["end"]
	switch {
	case timeChanged && changed["fraction"]:
		in.Mode = worklog.ModeUnset
	case timeChanged:
		in.Mode = worklog.ModeTimeRange
	case changed["fraction"]:
		in.Mode = worklog.ModeFraction
	}

	entry, err := worklog.PrepareInput(in, calc)
	if err != nil {
		return worklog.Entry{}, err
	}
	entry.ID = id
	warnCollision(store, entry)

	if err := store.UpdateEntry(entry); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			return worklog.Entry{}, fmt.Errorf("entry #%d: %w", id, err)
		}
		return worklog.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	log.Info().Int64("id", id).Msg("updated entry")
	return entry, nil
}

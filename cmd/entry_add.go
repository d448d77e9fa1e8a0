package cmd

import (
	"fmt"
	"strings"

	"vermlog/internal/timeutil"
	"vermlog/storage"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	addFlags       entryFlags
	addUseLastSite bool
)

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a work entry.",
	Long: `Add one work entry. Give either --start and --end or --fraction.

Violations are printed one per line and nothing is stored. Overlaps with or duplicates of
entries of the same day are reported as a warning; the entry is stored anyway.`,
	Example: `
  vermlog entry add --site "Baustelle Nord" --kst 4711 --activity Aufmaß --result Lageplan --start 8:00 --end 12:00
  vermlog entry add --date 2026-03-05 --use-last-site --activity Büro --result Protokoll --fraction 0,25
`,
	Args: cobra.NoArgs,
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

		in := addInput(addFlags, app.cfg.EmployeeName())
		entry, err := addEntry(store, app.calc, in, addUseLastSite)
		if err != nil {
			return printViolations(err)
		}
		fmt.Printf("Saved entry #%d: %s %s %s (fraction %s)\n",
			entry.ID, entry.DateString(), entry.Site, entry.Activity, worklog.FormatFraction(entry.DayFraction))
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryAddCmd)

	addFlags.register(entryAddCmd)
	entryAddCmd.Flags().BoolVar(&addUseLastSite, "use-last-site", false, "Take site and cost center from the most recent entry when not given")
}

func addInput(f entryFlags, defaultEmployee string) worklog.Input {
	in := worklog.Input{
		Date:       f.date,
		Employee:   f.employee,
		Site:       f.site,
		CostCenter: f.costCenter,
		Activity:   f.activity,
		Result:     f.result,
		Notes:      f.notes,
		Start:      f.start,
		End:        f.end,
		Fraction:   f.fraction,
		Mode: flagMode(
			strings.TrimSpace(f.start) != "",
			strings.TrimSpace(f.end) != "",
			strings.TrimSpace(f.fraction) != "",
		),
	}
	if strings.TrimSpace(in.Date) == "" {
		in.Date = worklog.Today(nil).Format(timeutil.DayLayout)
	}
	if strings.TrimSpace(in.Employee) == "" {
		in.Employee = defaultEmployee
	}
	return in
}

// addEntry prepares and stores a new entry. With useLastSite, empty site and
// cost center are taken from the most recently created entry.
func addEntry(store *storage.SQLiteStore, calc worklog.Calculator, in worklog.Input, useLastSite bool) (worklog.Entry, error) {
	if useLastSite && (strings.TrimSpace(in.Site) == "" || strings.TrimSpace(in.CostCenter) == "") {
		latest, found, err := store.LatestEntry()
		if err != nil {
			return worklog.Entry{}, err
		}
		if !found {
			return worklog.Entry{}, fmt.Errorf("--use-last-site: no previous entry found")
		}
		if strings.TrimSpace(in.Site) == "" {
			in.Site = latest.Site
		}
		if strings.TrimSpace(in.CostCenter) == "" {
			in.CostCenter = latest.CostCenter
		}
	}

	entry, err := worklog.PrepareInput(in, calc)
	if err != nil {
		return worklog.Entry{}, err
	}
	warnCollision(store, entry)

	entry.ID, err = store.InsertEntry(entry)
	if err != nil {
		return worklog.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	log.Info().Int64("id", entry.ID).Str("date", entry.DateString()).Msg("saved entry")
	return entry, nil
}

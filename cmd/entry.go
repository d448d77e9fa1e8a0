package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vermlog/internal/classify"
	"vermlog/internal/timeutil"
	"vermlog/storage"
	"vermlog/worklog"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, edit, copy, list and delete work entries.",
	Long: `Manage single work entries in the local database.

An entry is either a time range (--start/--end) or a direct day fraction (--fraction), never both.
Time ranges are converted into a day fraction: worked hours / workday hours, rounded up to the
configured step and capped at 1.0.`,
	Example: `
  # Add a time range entry for today
  vermlog entry add --site "Baustelle Nord" --kst 4711 --activity Scan --result Punktwolke --start 08:00 --end 12:30

  # Change only the end time of entry 12
  vermlog entry edit 12 --end 13:00

  # Copy entry 12 to another day
  vermlog entry duplicate 12 --date 2026-03-06

  # List one day or one month
  vermlog entry list --date 2026-03-05
  vermlog entry list --month 2026-03
`,
}

func init() {
	rootCmd.AddCommand(entryCmd)
}

// entryFlags are the field flags shared by "entry add" and "entry edit".
type entryFlags struct {
	date       string
	employee   string
	site       string
	costCenter string
	activity   string
	result     string
	notes      string
	start      string
	end        string
	fraction   string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Day of the entry, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.employee, "employee", "", "Employee (default: defaults.employee, then the OS user)")
	cmd.Flags().StringVar(&f.site, "site", "", "Site (Baustelle)")
	cmd.Flags().StringVar(&f.costCenter, "kst", "", "Cost center (Kostenstelle)")
	cmd.Flags().StringVar(&f.activity, "activity", "", "Activity, e.g. Aufmaß, Absteckung, Scan")
	cmd.Flags().StringVar(&f.result, "result", "", "Result of the work")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-text notes")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "End time HH:MM")
	cmd.Flags().StringVar(&f.fraction, "fraction", "", "Direct day fraction, e.g. 0.5 or 0,5")
}

// flagMode derives the entry mode from the time flags. Giving both kinds, or
// neither, leaves the mode unset so the validator reports the conflict.
func flagMode(start, end, fraction bool) worklog.Mode {
	timeGiven := start || end
	switch {
	case timeGiven && !fraction:
		return worklog.ModeTimeRange
	case fraction && !timeGiven:
		return worklog.ModeFraction
	default:
		return worklog.ModeUnset
	}
}

func parseEntryID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", value)
	}
	return id, nil
}

func parseDayOrToday(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return worklog.Today(time.Now), nil
	}
	day, err := timeutil.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

// warnCollision prints a hint when the entry overlaps or repeats a stored
// entry of its day. Collisions never block saving.
func warnCollision(store *storage.SQLiteStore, entry worklog.Entry) {
	existing, err := store.ListEntriesForDate(entry.Date)
	if err != nil {
		return
	}
	result := classify.ClassifyCandidate(entry, existing)
	if result.Status == classify.StatusOK {
		return
	}
	fmt.Printf("Warning: %s with entry #%d (%s %s-%s)\n",
		result.Status,
		existing[result.Other].ID,
		existing[result.Other].Site,
		worklog.FormatClock(existing[result.Other].Start),
		worklog.FormatClock(existing[result.Other].End),
	)
}

func printEntry(entry worklog.Entry) {
	fmt.Printf("#%d  %s  %s\n", entry.ID, entry.DateString(), entry.Employee)
	fmt.Printf("  site:        %s\n", entry.Site)
	fmt.Printf("  cost center: %s\n", entry.CostCenter)
	fmt.Printf("  activity:    %s\n", entry.Activity)
	fmt.Printf("  result:      %s\n", entry.Result)
	if entry.Mode() == worklog.ModeTimeRange {
		fmt.Printf("  time:        %s-%s (%s h)\n", worklog.FormatClock(entry.Start), worklog.FormatClock(entry.End), entry.DurationHours.StringFixed(2))
	}
	fmt.Printf("  fraction:    %s\n", worklog.FormatFraction(entry.DayFraction))
	if entry.Notes != "" {
		fmt.Printf("  notes:       %s\n", entry.Notes)
	}
}

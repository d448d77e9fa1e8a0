package cmd

import (
	"fmt"
	"strings"
	"time"

	"vermlog/internal/classify"
	"vermlog/internal/timeutil"
	"vermlog/output"
	"vermlog/storage"
	"vermlog/worklog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	listDate  string
	listMonth string
)

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a day or the summary of a month.",
	Long: `List entries of one day (--date, default today) with their overlap/duplicate status,
or the daily rows and cost center totals of one month (--month).`,
	Example: `
  vermlog entry list
  vermlog entry list --date 2026-03-05
  vermlog entry list --month 2026-03
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(listDate) != "" && strings.TrimSpace(listMonth) != "" {
			return fmt.Errorf("use either --date or --month")
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

		if strings.TrimSpace(listMonth) != "" {
			monthStart, err := timeutil.ParseMonth(listMonth)
			if err != nil {
				return fmt.Errorf("invalid month %q (expected YYYY-MM)", listMonth)
			}
			return listMonthSummary(store, monthStart)
		}

		day, err := parseDayOrToday(listDate)
		if err != nil {
			return err
		}
		return listDay(store, day)
	},
}

func init() {
	entryCmd.AddCommand(entryListCmd)

	entryListCmd.Flags().StringVar(&listDate, "date", "", "Day YYYY-MM-DD (default: today)")
	entryListCmd.Flags().StringVar(&listMonth, "month", "", "Month YYYY-MM")
}

func listDay(store *storage.SQLiteStore, day time.Time) error {
	entries, err := store.ListEntriesForDate(day)
	if err != nil {
		return err
	}
	fmt.Printf("Entries on %s: %d\n", day.Format(timeutil.DayLayout), len(entries))

	results := classify.ClassifyDay(entries)
	total := decimal.Zero
	for i, entry := range entries {
		timeRange := "-"
		if entry.Mode() == worklog.ModeTimeRange {
			timeRange = worklog.FormatClock(entry.Start) + "-" + worklog.FormatClock(entry.End)
		}
		status := ""
		if results[i].Status != classify.StatusOK {
			status = fmt.Sprintf("  [%s #%d]", results[i].Status, entries[results[i].Other].ID)
		}
		fmt.Printf("#%-5d %-11s %-6s %-20s %-10s %-12s %s%s\n",
			entry.ID, timeRange, worklog.FormatFraction(entry.DayFraction), entry.Site, entry.CostCenter, entry.Activity, entry.Result, status)
		total = total.Add(entry.DayFraction)
	}
	fmt.Printf("Total: %s\n", worklog.FormatFraction(total))
	return nil
}

func listMonthSummary(store *storage.SQLiteStore, monthStart time.Time) error {
	entries, err := store.ListEntriesForMonth(monthStart.Year(), monthStart.Month())
	if err != nil {
		return err
	}
	report := output.BuildMonthlyReport(entries, monthStart.Year(), monthStart.Month())

	fmt.Printf("Month %s: %d entries\n", report.Label(), len(report.Entries))
	for _, row := range report.Daily {
		fmt.Printf("%s  %-10s %-6s %s\n", row.Date.Format(timeutil.DayLayout), row.CostCenter, worklog.FormatFraction(row.Fraction), row.SiteLabel())
	}
	fmt.Println("Totals per cost center:")
	for _, total := range report.Totals {
		fmt.Printf("  %-10s %s\n", total.CostCenter, worklog.FormatFraction(total.Total))
	}
	fmt.Printf("Total: %s\n", worklog.FormatFraction(report.GrandTotal()))

	if missing := missingWorkdays(report, monthStart, worklog.Today(time.Now)); len(missing) > 0 {
		labels := lo.Map(missing, func(day time.Time, _ int) string { return day.Format("02.01.") })
		fmt.Printf("Workdays without entries: %s\n", strings.Join(labels, ", "))
	}
	return nil
}

// missingWorkdays lists Monday to Friday days of the month up to today that
// have no entry.
func missingWorkdays(report output.MonthlyReport, monthStart, today time.Time) []time.Time {
	last := timeutil.MonthEnd(monthStart)
	if today.Before(last) {
		last = today
	}
	return lo.Filter(timeutil.RangeDays(monthStart, last), func(day time.Time, _ int) bool {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			return false
		}
		return !lo.ContainsBy(report.Entries, func(entry worklog.Entry) bool {
			return timeutil.SameDay(entry.Date, day)
		})
	})
}

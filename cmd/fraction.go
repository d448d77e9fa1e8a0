package cmd

import (
	"fmt"

	"vermlog/worklog"

	"github.com/spf13/cobra"
)

var (
	fractionStart string
	fractionEnd   string
)

var fractionCmd = &cobra.Command{
	Use:   "fraction",
	Short: "Preview the day fraction of a time range.",
	Long: `Calculate the day fraction for a start and end time without storing anything.

fraction = worked hours / workday hours, rounded up to the rounding step and capped at 1.0.`,
	Example: `
  vermlog fraction --start 08:00 --end 12:00
  vermlog fraction --start 9:00 --end 9:10
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		line, err := describeFraction(app.calc, fractionStart, fractionEnd)
		if err != nil {
			return err
		}
		fmt.Println(line)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fractionCmd)

	fractionCmd.Flags().StringVar(&fractionStart, "start", "", "Start time HH:MM")
	fractionCmd.Flags().StringVar(&fractionEnd, "end", "", "End time HH:MM")
	_ = fractionCmd.MarkFlagRequired("start")
	_ = fractionCmd.MarkFlagRequired("end")
}

func describeFraction(calc worklog.Calculator, rawStart, rawEnd string) (string, error) {
	start, err := worklog.ParseClock(rawStart)
	if err != nil {
		return "", fmt.Errorf("invalid --start: %w", err)
	}
	end, err := worklog.ParseClock(rawEnd)
	if err != nil {
		return "", fmt.Errorf("invalid --end: %w", err)
	}
	fraction, err := calc.DayFraction(start, end)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s: %s h of %s h = %s (raw %s, step %s)",
		start, end,
		worklog.ElapsedHours(start, end).StringFixed(2),
		calc.WorkdayHours.String(),
		worklog.FormatFraction(fraction),
		calc.RawFraction(start, end).StringFixed(4),
		calc.Step.String(),
	), nil
}

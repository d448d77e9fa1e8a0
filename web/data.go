package web

import (
	"time"

	"vermlog/internal/classify"
	"vermlog/output"
	"vermlog/worklog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type DayView struct {
	Date     time.Time
	Entries  []EntryRow
	Total    string
	Warnings int
}

type EntryRow struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Employee   string `json:"employee"`
	Site       string `json:"site"`
	CostCenter string `json:"costCenter"`
	Activity   string `json:"activity"`
	Result     string `json:"result"`
	Mode       string `json:"mode"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Fraction   string `json:"dayFraction"`
	Hours      string `json:"durationHours"`
	Notes      string `json:"notes,omitempty"`
	Status     string `json:"status"`
	Collides   *int64 `json:"collidesWith,omitempty"`
}

type MonthView struct {
	Month       string          `json:"month"`
	Daily       []MonthDailyRow `json:"daily"`
	Totals      []MonthTotalRow `json:"totals"`
	GrandTotal  string          `json:"total"`
	EntryCount  int             `json:"entryCount"`
	DaysWorked  int             `json:"daysWorked"`
	ExportLinks []ExportLink    `json:"-"`
}

type MonthDailyRow struct {
	Date       string `json:"date"`
	CostCenter string `json:"costCenter"`
	Sites      string `json:"sites"`
	Fraction   string `json:"dayFraction"`
	DayLink    string `json:"-"`
}

type MonthTotalRow struct {
	CostCenter string `json:"costCenter"`
	Total      string `json:"total"`
}

type ExportLink struct {
	Label string
	Href  string
}

// FormView is the state of the entry form, including rejected input.
type FormView struct {
	ID         int64
	Input      worklog.Input
	Errors     map[string]string
	Error      string
	Preview    string
	Activities []string
}

func (f FormView) TimeMode() bool {
	return f.Input.Mode != worklog.ModeFraction
}

// BuildDayView renders the entries of one day with their overlap/duplicate status.
func BuildDayView(day time.Time, entries []worklog.Entry) DayView {
	results := classify.ClassifyDay(entries)
	view := DayView{
		Date:    day,
		Entries: make([]EntryRow, 0, len(entries)),
	}

	total := decimal.Zero
	for i, entry := range entries {
		row := entryRow(entry)
		row.Status = results[i].Status.String()
		if results[i].Status != classify.StatusOK {
			other := entries[results[i].Other].ID
			row.Collides = &other
			view.Warnings++
		}
		view.Entries = append(view.Entries, row)
		total = total.Add(entry.DayFraction)
	}
	view.Total = worklog.FormatFraction(total)

	return view
}

func entryRow(entry worklog.Entry) EntryRow {
	return EntryRow{
		ID:         entry.ID,
		Date:       entry.DateString(),
		Employee:   entry.Employee,
		Site:       entry.Site,
		CostCenter: entry.CostCenter,
		Activity:   entry.Activity,
		Result:     entry.Result,
		Mode:       entry.Mode().String(),
		Start:      worklog.FormatClock(entry.Start),
		End:        worklog.FormatClock(entry.End),
		Fraction:   worklog.FormatFraction(entry.DayFraction),
		Hours:      entry.DurationHours.StringFixed(2),
		Notes:      entry.Notes,
		Status:     classify.StatusOK.String(),
	}
}

// BuildMonthView flattens a monthly report for the month page and the JSON API.
func BuildMonthView(report output.MonthlyReport) MonthView {
	label := report.Label()
	view := MonthView{
		Month:      label,
		Daily:      make([]MonthDailyRow, 0, len(report.Daily)),
		Totals:     make([]MonthTotalRow, 0, len(report.Totals)),
		GrandTotal: worklog.FormatFraction(report.GrandTotal()),
		EntryCount: len(report.Entries),
		DaysWorked: len(lo.Uniq(lo.Map(report.Entries, func(entry worklog.Entry, _ int) string {
			return entry.DateString()
		}))),
		ExportLinks: []ExportLink{
			{Label: "CSV", Href: "/export/" + label + ".csv"},
			{Label: "Excel", Href: "/export/" + label + ".xlsx"},
			{Label: "PDF", Href: "/export/" + label + ".pdf"},
		},
	}

	for _, row := range report.Daily {
		date := row.Date.Format("2006-01-02")
		view.Daily = append(view.Daily, MonthDailyRow{
			Date:       date,
			CostCenter: row.CostCenter,
			Sites:      row.SiteLabel(),
			Fraction:   worklog.FormatFraction(row.Fraction),
			DayLink:    "/day/" + date,
		})
	}
	for _, total := range report.Totals {
		view.Totals = append(view.Totals, MonthTotalRow{
			CostCenter: total.CostCenter,
			Total:      worklog.FormatFraction(total.Total),
		})
	}

	return view
}

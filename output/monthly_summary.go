package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vermlog/internal/timeutil"
	"vermlog/worklog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DailyRow is the summed day-fraction of one cost center on one day.
type DailyRow struct {
	Date       time.Time
	CostCenter string
	Sites      []string
	Fraction   decimal.Decimal
}

// SiteLabel joins the contributing sites for tabular output.
func (r DailyRow) SiteLabel() string {
	return strings.Join(r.Sites, ", ")
}

type CostCenterTotal struct {
	CostCenter string
	Total      decimal.Decimal
}

// MonthlyReport holds the entries of one calendar month and their sums.
type MonthlyReport struct {
	Year    int
	Month   time.Month
	Entries []worklog.Entry
	Daily   []DailyRow
	Totals  []CostCenterTotal
}

type RowKind int

const (
	RowDaily RowKind = iota
	RowTotal
)

// ReportRow is one line of the flattened report.
type ReportRow struct {
	Kind       RowKind
	Date       time.Time
	CostCenter string
	Site       string
	Fraction   decimal.Decimal
}

type dayKey struct {
	day        string
	costCenter string
}

// BuildMonthlyReport filters entries to year/month and sums their
// day-fractions per (day, cost center) and per cost center.
func BuildMonthlyReport(entries []worklog.Entry, year int, month time.Month) MonthlyReport {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	report := MonthlyReport{
		Year:    year,
		Month:   month,
		Entries: lo.Filter(entries, func(entry worklog.Entry, _ int) bool {
			return timeutil.SameMonth(entry.Date, monthStart)
		}),
		Daily:  []DailyRow{},
		Totals: []CostCenterTotal{},
	}
	if len(report.Entries) == 0 {
		return report
	}

	byDay := lo.GroupBy(report.Entries, func(entry worklog.Entry) dayKey {
		return dayKey{day: entry.DateString(), costCenter: entry.CostCenter}
	})
	keys := lo.Keys(byDay)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day == keys[j].day {
			return keys[i].costCenter < keys[j].costCenter
		}
		return keys[i].day < keys[j].day
	})

	totals := make(map[string]decimal.Decimal)
	for _, key := range keys {
		group := byDay[key]
		sum := sumFractions(group)
		sites := lo.Uniq(lo.Map(group, func(entry worklog.Entry, _ int) string {
			return entry.Site
		}))
		sort.Strings(sites)

		report.Daily = append(report.Daily, DailyRow{
			Date:       timeutil.StartOfDay(group[0].Date),
			CostCenter: key.costCenter,
			Sites:      sites,
			Fraction:   sum,
		})
		totals[key.costCenter] = totals[key.costCenter].Add(sum)
	}

	costCenters := lo.Keys(totals)
	sort.Strings(costCenters)
	for _, costCenter := range costCenters {
		report.Totals = append(report.Totals, CostCenterTotal{
			CostCenter: costCenter,
			Total:      totals[costCenter],
		})
	}

	return report
}

func sumFractions(entries []worklog.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(entry.DayFraction)
	}
	return sum
}

// Label returns the month as YYYY-MM.
func (r MonthlyReport) Label() string {
	return fmt.Sprintf("%04d-%02d", r.Year, int(r.Month))
}

// GrandTotal sums all cost-center totals.
func (r MonthlyReport) GrandTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, total := range r.Totals {
		sum = sum.Add(total.Total)
	}
	return sum
}

// Rows returns the daily rows followed by the cost-center totals.
func (r MonthlyReport) Rows() []ReportRow {
	rows := make([]ReportRow, 0, len(r.Daily)+len(r.Totals))
	for _, daily := range r.Daily {
		rows = append(rows, ReportRow{
			Kind:       RowDaily,
			Date:       daily.Date,
			CostCenter: daily.CostCenter,
			Site:       daily.SiteLabel(),
			Fraction:   daily.Fraction,
		})
	}
	for _, total := range r.Totals {
		rows = append(rows, ReportRow{
			Kind:       RowTotal,
			CostCenter: total.CostCenter,
			Fraction:   total.Total,
		})
	}
	return rows
}

// DefaultReportFileName returns monatsbericht_<YYYY-MM>.<ext> for a format.
func DefaultReportFileName(label, format string) string {
	ext := "csv"
	switch normalizeFormat(format) {
	case FormatExcel:
		ext = "xlsx"
	case FormatPDF:
		ext = "pdf"
	}
	return fmt.Sprintf("monatsbericht_%s.%s", label, ext)
}

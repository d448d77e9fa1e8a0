package output

import (
	"testing"
	"time"

	"vermlog/worklog"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestBuildMonthlyReport_SumsPerDayAndCostCenter(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		entry(t, "2026-03-05", "4711", "Baustelle Nord", "0.50"),
		entry(t, "2026-03-05", "4711", "Baustelle Süd", "0.25"),
		entry(t, "2026-03-05", "0815", "Baustelle Nord", "0.25"),
		entry(t, "2026-03-02", "4711", "Baustelle Nord", "1.00"),
	}

	report := BuildMonthlyReport(entries, 2026, time.March)

	got := make([]string, 0, len(report.Daily))
	for _, row := range report.Daily {
		got = append(got, row.Date.Format("2006-01-02")+"|"+row.CostCenter+"|"+row.SiteLabel()+"|"+worklog.FormatFraction(row.Fraction))
	}
	want := []string{
		"2026-03-02|4711|Baustelle Nord|1.00",
		"2026-03-05|0815|Baustelle Nord|0.25",
		"2026-03-05|4711|Baustelle Nord, Baustelle Süd|0.75",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected daily rows (-want +got):\n%s", diff)
	}

	gotTotals := make([]string, 0, len(report.Totals))
	for _, total := range report.Totals {
		gotTotals = append(gotTotals, total.CostCenter+"|"+worklog.FormatFraction(total.Total))
	}
	if diff := cmp.Diff([]string{"0815|0.25", "4711|1.75"}, gotTotals); diff != "" {
		t.Fatalf("unexpected totals (-want +got):\n%s", diff)
	}
	if worklog.FormatFraction(report.GrandTotal()) != "2.00" {
		t.Fatalf("unexpected grand total %s", report.GrandTotal())
	}
}

func TestBuildMonthlyReport_TotalsEqualSumOfDailyRows(t *testing.T) {
	t.Parallel()

	entries := make([]worklog.Entry, 0, 60)
	costCenters := []string{"4711", "0815", "9000"}
	fractions := []string{"0.05", "0.10", "0.35", "0.50", "0.15"}
	for day := 1; day <= 20; day++ {
		for i, costCenter := range costCenters {
			date := time.Date(2026, 3, day, 0, 0, 0, 0, time.Local).Format("2006-01-02")
			entries = append(entries, entry(t, date, costCenter, "Baustelle", fractions[(day+i)%len(fractions)]))
		}
	}

	report := BuildMonthlyReport(entries, 2026, time.March)

	dailySums := make(map[string]decimal.Decimal)
	for _, row := range report.Daily {
		dailySums[row.CostCenter] = dailySums[row.CostCenter].Add(row.Fraction)
	}
	for _, total := range report.Totals {
		if !total.Total.Equal(dailySums[total.CostCenter]) {
			t.Fatalf("cost center %s: total %s != sum of daily rows %s", total.CostCenter, total.Total, dailySums[total.CostCenter])
		}
	}
	if len(report.Totals) != len(costCenters) {
		t.Fatalf("expected %d totals, got %d", len(costCenters), len(report.Totals))
	}
}

func TestBuildMonthlyReport_IgnoresOtherMonths(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		entry(t, "2026-02-28", "4711", "Nord", "0.50"),
		entry(t, "2026-04-01", "4711", "Nord", "0.50"),
	}

	report := BuildMonthlyReport(entries, 2026, time.March)
	if len(report.Daily) != 0 || len(report.Totals) != 0 || len(report.Entries) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if !report.GrandTotal().IsZero() {
		t.Fatalf("expected zero grand total")
	}
	if report.Label() != "2026-03" {
		t.Fatalf("unexpected label %s", report.Label())
	}
}

func TestMonthlyReport_RowsListsDailyRowsBeforeTotals(t *testing.T) {
	t.Parallel()

	report := BuildMonthlyReport([]worklog.Entry{
		entry(t, "2026-03-03", "4711", "Nord", "0.40"),
		entry(t, "2026-03-04", "0815", "Süd", "0.60"),
	}, 2026, time.March)

	rows := report.Rows()
	kinds := make([]RowKind, 0, len(rows))
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	if diff := cmp.Diff([]RowKind{RowDaily, RowDaily, RowTotal, RowTotal}, kinds); diff != "" {
		t.Fatalf("unexpected row kinds (-want +got):\n%s", diff)
	}
	if rows[2].CostCenter != "0815" || rows[3].CostCenter != "4711" {
		t.Fatalf("expected totals ordered by cost center, got %s, %s", rows[2].CostCenter, rows[3].CostCenter)
	}
}

func TestDefaultReportFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"csv":   "monatsbericht_2026-03.csv",
		"excel": "monatsbericht_2026-03.xlsx",
		"xlsx":  "monatsbericht_2026-03.xlsx",
		"pdf":   "monatsbericht_2026-03.pdf",
	}
	for format, want := range tests {
		if got := DefaultReportFileName("2026-03", format); got != want {
			t.Fatalf("format %s: expected %s, got %s", format, want, got)
		}
	}
}

func entry(t *testing.T, day, costCenter, site, fraction string) worklog.Entry {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		t.Fatalf("parse day %q: %v", day, err)
	}
	value, err := decimal.NewFromString(fraction)
	if err != nil {
		t.Fatalf("parse fraction %q: %v", fraction, err)
	}
	return worklog.Entry{
		Date:           date,
		Employee:       "anna",
		Site:           site,
		CostCenter:     costCenter,
		Activity:       "Aufmaß",
		Result:         "ok",
		DirectFraction: &value,
		DayFraction:    value,
		DurationHours:  value.Mul(decimal.NewFromInt(8)),
	}
}

package importer

import (
	"fmt"
	"strings"

	"vermlog/worklog"
)

// Header aliases per field: raw export headers first, then the German column
// names of the desktop version's spreadsheets.
var (
	dateHeaders           = []string{"date", "datum"}
	employeeHeaders       = []string{"employee", "mitarbeiter"}
	siteHeaders           = []string{"site", "sitename", "baustelle"}
	costCenterHeaders     = []string{"costcenter", "kst"}
	activityHeaders       = []string{"activity", "tätigkeit", "taetigkeit"}
	resultHeaders         = []string{"result", "ergebnis"}
	startHeaders          = []string{"start", "starttime", "von"}
	endHeaders            = []string{"end", "endtime", "ende", "bis"}
	directFractionHeaders = []string{"directfraction", "fraction", "tagesanteil"}
	dayFractionHeaders    = []string{"dayfraction"}
	notesHeaders          = []string{"notes", "notizen", "bemerkung"}
)

// EntryMapper turns one spreadsheet row into an unprepared entry.
type EntryMapper struct {
	// DefaultEmployee fills rows without an employee column value.
	DefaultEmployee string
}

// Map returns false for blank rows.
func (m EntryMapper) Map(record Record) (*worklog.Entry, bool, error) {
	if record.IsBlank() {
		return nil, false, nil
	}

	date, err := parseDate(record.Get(dateHeaders...))
	if err != nil {
		return nil, false, fmt.Errorf("parse date: %w", err)
	}
	start, err := parseClock(record.Get(startHeaders...))
	if err != nil {
		return nil, false, fmt.Errorf("parse start: %w", err)
	}
	end, err := parseClock(record.Get(endHeaders...))
	if err != nil {
		return nil, false, fmt.Errorf("parse end: %w", err)
	}
	fraction, err := parseFraction(record.Get(directFractionHeaders...))
	if err != nil {
		return nil, false, fmt.Errorf("parse fraction: %w", err)
	}
	// Spreadsheets often carry the computed Tagesanteil next to the times; the times win.
	if start != nil && end != nil {
		fraction = nil
	}
	// Raw exports keep the computed fraction only; use it for rows without any time information.
	if fraction == nil && start == nil && end == nil {
		fraction, err = parseFraction(record.Get(dayFractionHeaders...))
		if err != nil {
			return nil, false, fmt.Errorf("parse day fraction: %w", err)
		}
	}

	employee := record.Get(employeeHeaders...)
	if strings.TrimSpace(employee) == "" {
		employee = m.DefaultEmployee
	}

	entry := &worklog.Entry{
		Date:           date,
		Employee:       employee,
		Site:           record.Get(siteHeaders...),
		CostCenter:     record.Get(costCenterHeaders...),
		Activity:       record.Get(activityHeaders...),
		Result:         record.Get(resultHeaders...),
		Start:          start,
		End:            end,
		DirectFraction: fraction,
		Notes:          record.Get(notesHeaders...),
	}

	return entry, true, nil
}

package classify

import "vermlog/worklog"

type Status int

const (
	StatusOK Status = iota
	StatusOverlap
	StatusDuplicate
)

func (s Status) String() string {
	switch s {
	case StatusOverlap:
		return "overlap"
	case StatusDuplicate:
		return "duplicate"
	default:
		return "ok"
	}
}

// Result is the classification of one entry of a day. Other is the index of
// the entry it collides with, -1 when Status is StatusOK.
type Result struct {
	Status Status
	Other  int
}

// ClassifyDay flags entries that duplicate or overlap an earlier entry of the
// same list; results are aligned with entries. Duplicates win over overlaps.
func ClassifyDay(entries []worklog.Entry) []Result {
	results := make([]Result, len(entries))
	for i, candidate := range entries {
		results[i] = Result{Status: StatusOK, Other: -1}
		for j, other := range entries {
			if i == j {
				continue
			}
			if EntriesEquivalent(candidate, other) {
				results[i] = Result{Status: StatusDuplicate, Other: j}
				break
			}
			if results[i].Status == StatusOK && TimeRangesOverlap(candidate, other) {
				results[i] = Result{Status: StatusOverlap, Other: j}
			}
		}
	}
	return results
}

// ClassifyCandidate checks a not yet saved entry against the stored entries of
// its day. The entry with the candidate's ID is skipped so edits do not
// collide with themselves.
func ClassifyCandidate(candidate worklog.Entry, existing []worklog.Entry) Result {
	result := Result{Status: StatusOK, Other: -1}
	for i, other := range existing {
		if candidate.ID != 0 && candidate.ID == other.ID {
			continue
		}
		if EntriesEquivalent(candidate, other) {
			return Result{Status: StatusDuplicate, Other: i}
		}
		if result.Status == StatusOK && TimeRangesOverlap(candidate, other) {
			result = Result{Status: StatusOverlap, Other: i}
		}
	}
	return result
}

// EntriesEquivalent compares the booking-relevant fields; employee, result and
// notes are ignored.
func EntriesEquivalent(a, b worklog.Entry) bool {
	if a.DateString() != b.DateString() ||
		a.Site != b.Site ||
		a.CostCenter != b.CostCenter ||
		a.Activity != b.Activity {
		return false
	}
	if worklog.FormatClock(a.Start) != worklog.FormatClock(b.Start) ||
		worklog.FormatClock(a.End) != worklog.FormatClock(b.End) {
		return false
	}
	switch {
	case a.DirectFraction == nil && b.DirectFraction == nil:
		return true
	case a.DirectFraction == nil || b.DirectFraction == nil:
		return false
	default:
		return a.DirectFraction.Equal(*b.DirectFraction)
	}
}

// TimeRangesOverlap reports whether two time-range entries of the same day
// share at least one minute. Touching ranges do not overlap.
func TimeRangesOverlap(a, b worklog.Entry) bool {
	if a.Mode() != worklog.ModeTimeRange || b.Mode() != worklog.ModeTimeRange {
		return false
	}
	if a.DateString() != b.DateString() {
		return false
	}
	return *a.Start < *b.End && *b.Start < *a.End
}

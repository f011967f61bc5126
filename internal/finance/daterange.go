package finance

import "time"

// DateRange is an inclusive range of calendar days. A zero Start or End leaves
// that side open. Comparisons happen on local calendar days, so an End of
// 2025-03-31 00:00 still admits 2025-03-31 23:59.
type DateRange struct {
	Start time.Time
	End   time.Time
	// Location used to derive calendar days; nil means time.Local.
	Location *time.Location
}

func (r DateRange) loc() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// IsZero reports whether the range applies no filter at all.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls on a day inside the range. A zero t is never
// contained.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := Day(t, r.loc())
	if !r.Start.IsZero() && d.Before(Day(r.Start, r.loc())) {
		return false
	}
	if !r.End.IsZero() && d.After(Day(r.End, r.loc())) {
		return false
	}
	return true
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MonthRange returns the range covering the calendar month of t.
func MonthRange(t time.Time) DateRange {
	loc := t.Location()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	return DateRange{Start: start, End: end, Location: loc}
}

// Bounds converts the range to a half-open [from, until) interval suitable for
// SQL filters. Open sides are returned as zero times.
func (r DateRange) Bounds() (from, until time.Time) {
	if !r.Start.IsZero() {
		from = Day(r.Start, r.loc())
	}
	if !r.End.IsZero() {
		until = Day(r.End, r.loc()).AddDate(0, 0, 1)
	}
	return from, until
}

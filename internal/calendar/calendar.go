// Package calendar implements the timezone-aware boundary math used for
// snapshot windows and recurring highlights. All functions operate on wall
// clock dates in a single configured location; weeks run Sunday to Saturday.
package calendar

import "time"

// Window is a half-open [Start, End) time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the Sunday at or before t in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth returns midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// StartOfYear returns midnight of January 1st of t's year in loc.
func StartOfYear(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
}

// AlignToWeek snaps t onto its Sunday-to-Saturday calendar week.
func AlignToWeek(t time.Time, loc *time.Location) Window {
	start := StartOfWeek(t, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// AlignToMonth snaps t onto its calendar month.
func AlignToMonth(t time.Time, loc *time.Location) Window {
	start := StartOfMonth(t, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// AlignToYear snaps t onto its calendar year.
func AlignToYear(t time.Time, loc *time.Location) Window {
	start := StartOfYear(t, loc)
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

// IsStartOfWeek reports whether t falls on the first day of its week.
func IsStartOfWeek(t time.Time, loc *time.Location) bool {
	return StartOfDay(t, loc).Equal(StartOfWeek(t, loc))
}

// IsStartOfMonth reports whether t falls on the first day of its month.
func IsStartOfMonth(t time.Time, loc *time.Location) bool {
	return StartOfDay(t, loc).Equal(StartOfMonth(t, loc))
}

// IsStartOfYear reports whether t falls on January 1st.
func IsStartOfYear(t time.Time, loc *time.Location) bool {
	return StartOfDay(t, loc).Equal(StartOfYear(t, loc))
}

var dateLayouts = []string{"1/2/06", "01/02/06"}

// ParseDate parses a user-supplied M/d/yy date in loc. The second return
// value is false for empty or unparseable input; callers fall back to their
// own defaults in that case rather than erroring.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as MM/dd/yy in loc, the format used in message
// footers and no-data notices.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("01/02/06")
}

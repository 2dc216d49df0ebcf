package recap

import (
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
)

// Resolver maps requested time ranges onto the nearest available snapshots.
// Scheduled snapshots can be missing for individual days (fetch failures, the
// entity did not exist yet), so bracketing is loose: the earliest snapshot at
// or after the start and the latest at or before the end, rather than exact
// boundary matches.
type Resolver struct {
	Location *time.Location

	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

// SnapshotPair is the resolved pair of snapshot timestamps to diff.
type SnapshotPair struct {
	Earlier time.Time
	Later   time.Time
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve selects the two bounding snapshots for the requested [start, end)
// range. A zero start defaults to yesterday 00:00 local and a zero end to
// today 00:00 local. available must be sorted ascending. Returns
// InvalidRangeError when start >= end after defaulting, and NotFoundError
// when either bound is missing or the two bounds share a timestamp.
func (r *Resolver) Resolve(start, end time.Time, available []time.Time) (SnapshotPair, error) {
	today := calendar.StartOfDay(r.now(), r.Location)
	if start.IsZero() {
		start = today.AddDate(0, 0, -1)
	}
	if end.IsZero() {
		end = today
	}
	if !start.Before(end) {
		return SnapshotPair{}, &InvalidRangeError{Start: start, End: end}
	}

	var earlier, later time.Time
	for _, ts := range available {
		if !ts.Before(start) && earlier.IsZero() {
			earlier = ts
		}
		if !ts.After(end) {
			later = ts
		}
	}
	// Distinct timestamps, not just distinct records: a single snapshot in
	// range cannot be diffed against itself. The ordering check also rejects
	// the case where the only snapshots lie outside the range on both sides.
	if earlier.IsZero() || later.IsZero() || !earlier.Before(later) {
		return SnapshotPair{}, &NotFoundError{Start: start, End: end}
	}
	return SnapshotPair{Earlier: earlier, Later: later}, nil
}

package recap

import (
	"fmt"
	"time"
)

// InvalidRangeError reports a requested window whose start is not before its
// end after defaulting. User-correctable; surfaced verbatim to the caller.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is not before end %s",
		e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly))
}

// NotFoundError reports that fewer than two distinct snapshots exist inside
// the resolved window. It carries the resolved bounds so callers can build a
// user-facing "no data in range" message. Not a system fault.
type NotFoundError struct {
	Start time.Time
	End   time.Time
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no snapshot pair found in range %s - %s",
		e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly))
}

package scheduler

import (
	"testing"
	"time"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

func TestNextRun(t *testing.T) {
	s := New(nil, testLoc, 23, 55, nil)

	// Before the fire time: fires the same day.
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, testLoc)
	next := s.nextRun(now)
	want := time.Date(2025, time.March, 12, 23, 55, 0, 0, testLoc)
	if !next.Equal(want) {
		t.Errorf("nextRun = %v, want %v", next, want)
	}

	// At or after the fire time: rolls over to tomorrow.
	now = time.Date(2025, time.March, 12, 23, 55, 0, 0, testLoc)
	next = s.nextRun(now)
	want = time.Date(2025, time.March, 13, 23, 55, 0, 0, testLoc)
	if !next.Equal(want) {
		t.Errorf("nextRun at fire time = %v, want %v", next, want)
	}
}

func TestBoundaryHold(t *testing.T) {
	s := New(nil, testLoc, 23, 55, nil)

	// Firing just before midnight holds out the remainder of the day plus
	// the slack.
	now := time.Date(2025, time.March, 12, 23, 55, 0, 0, testLoc)
	if got, want := s.boundaryHold(now), 5*time.Minute+2*time.Second; got != want {
		t.Errorf("boundaryHold at 23:55 = %v, want %v", got, want)
	}

	// A mid-day fire time collects immediately instead of stalling until
	// the next midnight.
	now = time.Date(2025, time.March, 12, 10, 0, 0, 0, testLoc)
	if got := s.boundaryHold(now); got != 0 {
		t.Errorf("boundaryHold at 10:00 = %v, want 0", got)
	}
}

func TestNextRunAcrossDSTTransition(t *testing.T) {
	s := New(nil, testLoc, 23, 55, nil)

	// March 9 2025 is the spring-forward date in America/New_York; the wall
	// clock fire time must survive the shift.
	now := time.Date(2025, time.March, 9, 0, 30, 0, 0, testLoc)
	next := s.nextRun(now)
	if next.Hour() != 23 || next.Minute() != 55 || next.Day() != 9 {
		t.Errorf("nextRun across DST = %v, want 23:55 the same day", next)
	}
}

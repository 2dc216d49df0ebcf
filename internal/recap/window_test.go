package recap

import (
	"errors"
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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, testLoc)
}

func testResolver(now time.Time) *Resolver {
	return &Resolver{Location: testLoc, Now: func() time.Time { return now }}
}

func TestResolveDefaultsToYesterdayToday(t *testing.T) {
	r := testResolver(time.Date(2025, time.March, 12, 15, 30, 0, 0, testLoc))
	available := []time.Time{day(2025, time.March, 10), day(2025, time.March, 11), day(2025, time.March, 12)}

	pair, err := r.Resolve(time.Time{}, time.Time{}, available)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !pair.Earlier.Equal(day(2025, time.March, 11)) || !pair.Later.Equal(day(2025, time.March, 12)) {
		t.Errorf("pair = %v - %v, want yesterday - today", pair.Earlier, pair.Later)
	}
}

func TestResolveInvalidRange(t *testing.T) {
	r := testResolver(day(2025, time.March, 12))
	_, err := r.Resolve(day(2025, time.March, 12), day(2025, time.March, 10), nil)
	var invalid *InvalidRangeError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidRangeError", err)
	}
	// Equal bounds are invalid too.
	_, err = r.Resolve(day(2025, time.March, 12), day(2025, time.March, 12), nil)
	if !errors.As(err, &invalid) {
		t.Fatalf("equal bounds: err = %v, want InvalidRangeError", err)
	}
}

func TestResolveLooseBracketing(t *testing.T) {
	r := testResolver(day(2025, time.March, 20))
	// No snapshots exist exactly at the requested bounds.
	available := []time.Time{day(2025, time.March, 3), day(2025, time.March, 7), day(2025, time.March, 13)}

	pair, err := r.Resolve(day(2025, time.March, 5), day(2025, time.March, 15), available)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !pair.Earlier.Equal(day(2025, time.March, 7)) {
		t.Errorf("earlier = %v, want first snapshot at or after the start", pair.Earlier)
	}
	if !pair.Later.Equal(day(2025, time.March, 13)) {
		t.Errorf("later = %v, want last snapshot at or before the end", pair.Later)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := testResolver(day(2025, time.March, 20))
	var notFound *NotFoundError

	// No snapshots at all.
	_, err := r.Resolve(day(2025, time.March, 5), day(2025, time.March, 15), nil)
	if !errors.As(err, &notFound) {
		t.Fatalf("empty history: err = %v, want NotFoundError", err)
	}
	if !notFound.Start.Equal(day(2025, time.March, 5)) || !notFound.End.Equal(day(2025, time.March, 15)) {
		t.Errorf("NotFoundError should carry the resolved bounds, got %v - %v", notFound.Start, notFound.End)
	}

	// A single snapshot in range cannot be diffed against itself.
	single := []time.Time{day(2025, time.March, 10)}
	if _, err := r.Resolve(day(2025, time.March, 5), day(2025, time.March, 15), single); !errors.As(err, &notFound) {
		t.Fatalf("single snapshot: err = %v, want NotFoundError", err)
	}

	// Snapshots exist only outside the range on both sides; the candidates
	// come out inverted and must be rejected.
	outside := []time.Time{day(2025, time.March, 1), day(2025, time.March, 18)}
	if _, err := r.Resolve(day(2025, time.March, 5), day(2025, time.March, 15), outside); !errors.As(err, &notFound) {
		t.Fatalf("outside range: err = %v, want NotFoundError", err)
	}
}

func TestResolvePairIsOrdered(t *testing.T) {
	r := testResolver(day(2025, time.March, 20))
	available := []time.Time{
		day(2025, time.March, 2), day(2025, time.March, 5), day(2025, time.March, 9),
		day(2025, time.March, 12), day(2025, time.March, 16),
	}
	pair, err := r.Resolve(day(2025, time.March, 4), day(2025, time.March, 14), available)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !pair.Earlier.Before(pair.Later) {
		t.Errorf("resolved pair must be strictly ordered: %v - %v", pair.Earlier, pair.Later)
	}
}

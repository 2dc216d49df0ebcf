package hypixel

import (
	"context"
	"errors"
	"testing"
)

func TestRetryReturnsFirstSuccess(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil || v != 42 {
		t.Fatalf("Retry = %v, %v", v, err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	upstream := errors.New("upstream down")
	calls := 0
	_, err := Retry(ctx, func() (int, error) {
		calls++
		return 0, upstream
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times after cancellation, want 1", calls)
	}
}

package mojang

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := newExpiringCache[string, int](time.Minute)
	if _, ok := c.get("missing"); ok {
		t.Error("empty cache should miss")
	}
	c.set("a", 1)
	if v, ok := c.get("a"); !ok || v != 1 {
		t.Errorf("get = %v, %v", v, ok)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newExpiringCache[string, int](time.Millisecond)
	c.set("a", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.get("a"); ok {
		t.Error("entry should have expired")
	}
}

func TestGetOrFetch(t *testing.T) {
	c := newExpiringCache[string, int](time.Minute)
	calls := 0
	fetch := func() (int, error) {
		calls++
		return 7, nil
	}
	for range 3 {
		v, err := c.getOrFetch("key", fetch)
		if err != nil || v != 7 {
			t.Fatalf("getOrFetch = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestGetOrFetchDoesNotCacheErrors(t *testing.T) {
	c := newExpiringCache[string, int](time.Minute)
	boom := errors.New("boom")
	if _, err := c.getOrFetch("key", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	v, err := c.getOrFetch("key", func() (int, error) { return 9, nil })
	if err != nil || v != 9 {
		t.Errorf("fetch after error = %v, %v, want a fresh fetch", v, err)
	}
}

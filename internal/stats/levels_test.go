package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNetworkLevel(t *testing.T) {
	// Zero experience is exactly level 1.
	if got := NetworkLevel(0); !almostEqual(got, 1) {
		t.Errorf("NetworkLevel(0) = %v, want 1", got)
	}
	// Monotonic in experience.
	if NetworkLevel(100000) <= NetworkLevel(0) {
		t.Error("NetworkLevel should grow with experience")
	}
}

func TestBedWarsLevel(t *testing.T) {
	cases := []struct {
		exp  float64
		want float64
	}{
		{0, 0},
		{250, 0.5},   // halfway through the first 500-xp level
		{500, 1},     // first threshold exactly
		{7000, 4},    // 500+1000+2000+3500 consumed, no onward xp
		{12000, 5},   // one onward level past the thresholds
		{487000, 100}, // one full prestige
	}
	for _, tc := range cases {
		if got := BedWarsLevel(tc.exp); !almostEqual(got, tc.want) {
			t.Errorf("BedWarsLevel(%v) = %v, want %v", tc.exp, got, tc.want)
		}
	}
}

func TestSkyWarsLevel(t *testing.T) {
	// The leading zero threshold grants the first level for free.
	if got := SkyWarsLevel(0); !almostEqual(got, 1) {
		t.Errorf("SkyWarsLevel(0) = %v, want 1", got)
	}
	if got := SkyWarsLevel(10); !almostEqual(got, 1.5) {
		t.Errorf("SkyWarsLevel(10) = %v, want 1.5", got)
	}
	// SkyWars has no prestige stage; levels keep accumulating at the onward
	// rate.
	if got := SkyWarsLevel(15000 + 10000); got <= SkyWarsLevel(15000) {
		t.Error("SkyWarsLevel should keep growing past the threshold table")
	}
}

func TestWoolGamesLevel(t *testing.T) {
	if got := WoolGamesLevel(0); !almostEqual(got, 1) {
		t.Errorf("WoolGamesLevel(0) = %v, want 1", got)
	}
	// 0+1000+2000+3000+4000 consumed exactly.
	if got := WoolGamesLevel(10000); !almostEqual(got, 5) {
		t.Errorf("WoolGamesLevel(10000) = %v, want 5", got)
	}
	// One full prestige is 100 levels.
	if got := WoolGamesLevel(490000); !almostEqual(got, 101) {
		t.Errorf("WoolGamesLevel(490000) = %v, want 101", got)
	}
}

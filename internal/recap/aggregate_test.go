package recap

import (
	"testing"
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/stats"
)

// member builds a MemberWindow whose guild experience grows by exp and whose
// Bed Wars kills grow by kills.
func member(name string, exp, kills float64) MemberWindow {
	return MemberWindow{
		Identity: Identity{UUID: name, DisplayName: name},
		Earlier:  &stats.Record{},
		Later: &stats.Record{
			GuildExperience: exp,
			BedWars:         stats.ModeStats{Kills: kills},
		},
	}
}

func TestAggregateRanksStably(t *testing.T) {
	members := []MemberWindow{
		member("alpha", 10, 0),
		member("bravo", 30, 0),
		member("charlie", 30, 0),
		member("delta", 5, 0),
	}
	agg := Aggregate(members, RankMetricGuildExperience, 0, time.Time{}, time.Time{})

	want := []string{"bravo", "charlie", "alpha", "delta"}
	if len(agg.Members) != len(want) {
		t.Fatalf("got %d members, want %d", len(agg.Members), len(want))
	}
	for i, name := range want {
		if agg.Members[i].Identity.DisplayName != name {
			t.Errorf("rank %d = %q, want %q (ties must keep input order)",
				i+1, agg.Members[i].Identity.DisplayName, name)
		}
	}
}

func TestAggregateExcludesOneSidedMembers(t *testing.T) {
	joined := member("joined-mid-window", 100, 0)
	joined.Earlier = nil
	left := member("left-mid-window", 100, 0)
	left.Later = nil

	agg := Aggregate([]MemberWindow{joined, left, member("steady", 10, 0)},
		RankMetricGuildExperience, 0, time.Time{}, time.Time{})

	if len(agg.Members) != 1 || agg.Members[0].Identity.DisplayName != "steady" {
		t.Errorf("members = %+v, want only the two-sided member", agg.Members)
	}
}

func TestAggregateDropsUnchangedMembers(t *testing.T) {
	idle := MemberWindow{
		Identity: Identity{UUID: "idle", DisplayName: "idle"},
		Earlier:  &stats.Record{Karma: 5},
		Later:    &stats.Record{Karma: 5},
	}
	agg := Aggregate([]MemberWindow{idle, member("active", 1, 0)},
		RankMetricGuildExperience, 0, time.Time{}, time.Time{})
	if len(agg.Members) != 1 {
		t.Errorf("members with an empty delta should be dropped, got %+v", agg.Members)
	}
}

func TestAggregateSubstringTotals(t *testing.T) {
	a := member("a", 1, 3) // 3 Bed Wars kills
	b := member("b", 2, 4) // 4 Bed Wars kills
	// b also wins some Duels games.
	b.Later.Duels = stats.ModeStats{Wins: 6}

	agg := Aggregate([]MemberWindow{a, b}, RankMetricGuildExperience, 0, time.Time{}, time.Time{})
	if agg.TotalKills != 7 {
		t.Errorf("TotalKills = %v, want 7", agg.TotalKills)
	}
	if agg.TotalWins != 6 {
		t.Errorf("TotalWins = %v, want 6", agg.TotalWins)
	}
}

func TestAggregateGroupDeltaIsIndependent(t *testing.T) {
	// The group-level primary metric comes from the group records, not from
	// summing member deltas: members who left still contributed.
	agg := Aggregate([]MemberWindow{member("only", 10, 0)},
		RankMetricGuildExperience, 250, time.Time{}, time.Time{})
	if agg.TotalPrimaryMetricDelta != 250 {
		t.Errorf("TotalPrimaryMetricDelta = %v, want the group delta 250", agg.TotalPrimaryMetricDelta)
	}
}

func TestRankValueMissTreatsAsZero(t *testing.T) {
	m := MemberDelta{Delta: Diff(&stats.Record{}, &stats.Record{Karma: 1})}
	if v := m.RankValue("Guild Experience"); v != 0 {
		t.Errorf("RankValue on a missing metric = %v, want 0", v)
	}
}

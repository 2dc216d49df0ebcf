package recap

import (
	"sort"
	"strings"
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/stats"
)

// RankMetricGuildExperience is the conventional metric guild members are
// ranked by in highlights.
const RankMetricGuildExperience = "Guild Experience"

// Identity describes a guild member for display purposes.
type Identity struct {
	UUID        string
	DisplayName string
	PrefixTag   string // rank prefix, may be empty
	AccentColor int
}

// MemberWindow pairs one member's bounding snapshots. A nil side means the
// member only existed at the other bound (joined or left mid-window).
type MemberWindow struct {
	Identity  Identity
	Earlier   *stats.Record
	Later     *stats.Record
	EarlierAt time.Time
	LaterAt   time.Time
}

// MemberDelta is one member's computed diff inside a guild aggregate.
type MemberDelta struct {
	Identity  Identity
	Delta     Delta
	EarlierAt time.Time
	LaterAt   time.Time
}

// RankValue returns the member's value for the rank metric, zero when the
// metric did not change or does not exist.
func (m *MemberDelta) RankValue(rankMetric string) float64 {
	v, _ := m.Delta.Metric(rankMetric)
	return v
}

// GuildAggregate is the full guild-wide recap over one resolved window.
type GuildAggregate struct {
	Members                 []MemberDelta // ranked descending by the rank metric
	TotalPrimaryMetricDelta float64
	TotalKills              float64
	TotalWins               float64
	WindowStart             time.Time
	WindowEnd               time.Time
}

// Aggregate diffs every member present at both bounds, drops members with no
// measurable change, ranks the rest descending by rankMetric (stable, so
// ties keep their input order), and sums kill/win metrics across all
// surviving deltas. groupDelta is the group-level primary stat change,
// diffed at the group record level rather than summed from members, since
// group counters can include contributions from members who since left.
// Members present at only one bound are silently excluded.
func Aggregate(members []MemberWindow, rankMetric string, groupDelta float64, start, end time.Time) *GuildAggregate {
	agg := &GuildAggregate{
		TotalPrimaryMetricDelta: groupDelta,
		WindowStart:             start,
		WindowEnd:               end,
	}
	for _, mw := range members {
		if mw.Earlier == nil || mw.Later == nil {
			continue
		}
		delta := Diff(mw.Earlier, mw.Later)
		if delta.Empty() {
			continue
		}
		agg.Members = append(agg.Members, MemberDelta{
			Identity:  mw.Identity,
			Delta:     delta,
			EarlierAt: mw.EarlierAt,
			LaterAt:   mw.LaterAt,
		})
	}
	sort.SliceStable(agg.Members, func(i, j int) bool {
		return agg.Members[i].RankValue(rankMetric) > agg.Members[j].RankValue(rankMetric)
	})
	for _, m := range agg.Members {
		for _, cat := range m.Delta.Categories {
			for _, metric := range cat.Metrics {
				// Substring matching on purpose: new game modes with kill or
				// win counters are included without registry changes.
				if strings.Contains(metric.Name, "Kills") {
					agg.TotalKills += metric.Value
				}
				if strings.Contains(metric.Name, "Wins") {
					agg.TotalWins += metric.Value
				}
			}
		}
	}
	return agg
}

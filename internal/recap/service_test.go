package recap

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/stats"
)

// fakeStore serves snapshots from maps keyed by entity and unix millis.
type fakeStore struct {
	playerTimes map[string][]time.Time
	players     map[string]map[int64]*PlayerSnapshot
	guildTimes  map[string][]time.Time
	guilds      map[string]map[int64]*GuildSnapshot
	rosters     map[string]map[int64][]PlayerSnapshot
}

func (f *fakeStore) PlayerSnapshotTimes(_ context.Context, uuid string) ([]time.Time, error) {
	return f.playerTimes[uuid], nil
}

func (f *fakeStore) PlayerSnapshotAt(_ context.Context, uuid string, at time.Time) (*PlayerSnapshot, error) {
	snap, ok := f.players[uuid][at.UnixMilli()]
	if !ok {
		return nil, fmt.Errorf("no snapshot for %s at %v", uuid, at)
	}
	return snap, nil
}

func (f *fakeStore) GuildSnapshotTimes(_ context.Context, guildID string) ([]time.Time, error) {
	return f.guildTimes[guildID], nil
}

func (f *fakeStore) GuildSnapshotAt(_ context.Context, guildID string, at time.Time) (*GuildSnapshot, error) {
	snap, ok := f.guilds[guildID][at.UnixMilli()]
	if !ok {
		return nil, fmt.Errorf("no guild snapshot at %v", at)
	}
	return snap, nil
}

func (f *fakeStore) RosterAt(_ context.Context, guildID string, at time.Time) ([]PlayerSnapshot, error) {
	return f.rosters[guildID][at.UnixMilli()], nil
}

func playerSnap(uuid string, at time.Time, kills int, guildExp int64) PlayerSnapshot {
	doc := fmt.Sprintf(`{"stats": {"Bedwars": {"kills_bedwars": %d}}}`, kills)
	return PlayerSnapshot{
		Identity:   Identity{UUID: uuid, DisplayName: uuid},
		CapturedAt: at,
		RawStats:   []byte(doc),
		Scalars:    stats.Scalars{GuildExperience: guildExp},
	}
}

func TestServicePlayerRecap(t *testing.T) {
	d1 := day(2025, time.March, 10)
	d2 := day(2025, time.March, 11)
	s1 := playerSnap("steve", d1, 40, 100)
	s2 := playerSnap("steve", d2, 47, 150)
	store := &fakeStore{
		playerTimes: map[string][]time.Time{"steve": {d1, d2}},
		players: map[string]map[int64]*PlayerSnapshot{
			"steve": {d1.UnixMilli(): &s1, d2.UnixMilli(): &s2},
		},
	}
	svc := NewService(store, testLoc)

	pr, err := svc.ResolveAndDiffPlayer(context.Background(), "steve", d1, d2)
	if err != nil {
		t.Fatalf("ResolveAndDiffPlayer: %v", err)
	}
	if kills, _ := pr.Delta.Metric("Bed Wars Kills"); kills != 7 {
		t.Errorf("Bed Wars Kills delta = %v, want 7", kills)
	}
	if exp, _ := pr.Delta.Metric("Guild Experience"); exp != 50 {
		t.Errorf("Guild Experience delta = %v, want 50", exp)
	}
	if !pr.EarlierAt.Equal(d1) || !pr.LaterAt.Equal(d2) {
		t.Errorf("window = %v - %v", pr.EarlierAt, pr.LaterAt)
	}
}

func TestServicePlayerRecapNoData(t *testing.T) {
	store := &fakeStore{playerTimes: map[string][]time.Time{}}
	svc := NewService(store, testLoc)

	_, err := svc.ResolveAndDiffPlayer(context.Background(),
		"steve", day(2025, time.March, 10), day(2025, time.March, 12))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestServicePlayerRecapCorruptBlob(t *testing.T) {
	d1 := day(2025, time.March, 10)
	d2 := day(2025, time.March, 11)
	good := playerSnap("steve", d1, 1, 0)
	bad := playerSnap("steve", d2, 0, 0)
	bad.RawStats = []byte("garbage")
	store := &fakeStore{
		playerTimes: map[string][]time.Time{"steve": {d1, d2}},
		players: map[string]map[int64]*PlayerSnapshot{
			"steve": {d1.UnixMilli(): &good, d2.UnixMilli(): &bad},
		},
	}
	svc := NewService(store, testLoc)

	_, err := svc.ResolveAndDiffPlayer(context.Background(), "steve", d1, d2)
	if !errors.Is(err, stats.ErrCorruptSnapshot) {
		t.Fatalf("err = %v, want ErrCorruptSnapshot to propagate", err)
	}
}

func TestServiceGuildRecap(t *testing.T) {
	d1 := day(2025, time.March, 10)
	d2 := day(2025, time.March, 11)
	store := &fakeStore{
		guildTimes: map[string][]time.Time{"g1": {d1, d2}},
		guilds: map[string]map[int64]*GuildSnapshot{
			"g1": {
				d1.UnixMilli(): {CapturedAt: d1, Experience: 1000},
				d2.UnixMilli(): {CapturedAt: d2, Experience: 1400},
			},
		},
		rosters: map[string]map[int64][]PlayerSnapshot{
			"g1": {
				d1.UnixMilli(): {
					playerSnap("steve", d1, 40, 100),
					playerSnap("alex", d1, 10, 100),
				},
				d2.UnixMilli(): {
					playerSnap("steve", d2, 43, 130),
					playerSnap("alex", d2, 10, 180),
					// Joined after the earlier bound; must be excluded.
					playerSnap("newbie", d2, 99, 500),
				},
			},
		},
	}
	svc := NewService(store, testLoc)

	agg, err := svc.ResolveAndDiffGuild(context.Background(), "g1", d1, d2, RankMetricGuildExperience)
	if err != nil {
		t.Fatalf("ResolveAndDiffGuild: %v", err)
	}
	if agg.TotalPrimaryMetricDelta != 400 {
		t.Errorf("group delta = %v, want 400 from the guild records", agg.TotalPrimaryMetricDelta)
	}
	if len(agg.Members) != 2 {
		t.Fatalf("members = %d, want 2 (newbie excluded)", len(agg.Members))
	}
	// alex gained 80 guild experience, steve 30.
	if agg.Members[0].Identity.DisplayName != "alex" || agg.Members[1].Identity.DisplayName != "steve" {
		t.Errorf("ranking = [%s, %s], want [alex, steve]",
			agg.Members[0].Identity.DisplayName, agg.Members[1].Identity.DisplayName)
	}
	if agg.TotalKills != 3 {
		t.Errorf("TotalKills = %v, want 3", agg.TotalKills)
	}
}

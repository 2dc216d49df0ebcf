package recap

import (
	"context"
	"fmt"
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/stats"
)

// PlayerSnapshot is one persisted capture for one player: the raw blob, the
// scalar columns, and display identity. Normalization happens lazily here in
// the service, never at write time.
type PlayerSnapshot struct {
	Identity   Identity
	CapturedAt time.Time
	RawStats   []byte
	Scalars    stats.Scalars
}

// GuildSnapshot is one persisted group-level capture.
type GuildSnapshot struct {
	CapturedAt time.Time
	Experience int64
}

// SnapshotStore is the query surface the recap service needs. Snapshot
// identity is (entity, timestamp); timestamps are unique per entity and the
// time slices are sorted ascending.
type SnapshotStore interface {
	PlayerSnapshotTimes(ctx context.Context, playerUUID string) ([]time.Time, error)
	PlayerSnapshotAt(ctx context.Context, playerUUID string, at time.Time) (*PlayerSnapshot, error)
	GuildSnapshotTimes(ctx context.Context, guildID string) ([]time.Time, error)
	GuildSnapshotAt(ctx context.Context, guildID string, at time.Time) (*GuildSnapshot, error)
	// RosterAt returns every member snapshot captured at the given guild
	// snapshot time, in stored roster order.
	RosterAt(ctx context.Context, guildID string, at time.Time) ([]PlayerSnapshot, error)
}

// PlayerRecap is a single player's diff over a resolved window.
type PlayerRecap struct {
	Identity  Identity
	Delta     Delta
	EarlierAt time.Time
	LaterAt   time.Time
}

// Service composes the window resolver, normalizer, diff engine and
// aggregator over a snapshot store. It holds no mutable state and is safe to
// call concurrently for different entities.
type Service struct {
	store    SnapshotStore
	resolver Resolver
}

func NewService(store SnapshotStore, loc *time.Location) *Service {
	return &Service{store: store, resolver: Resolver{Location: loc}}
}

// ResolveAndDiffPlayer resolves the requested range against the player's
// available snapshots and diffs the bounding pair. Zero start/end times mean
// "absent" and take the resolver defaults.
func (s *Service) ResolveAndDiffPlayer(ctx context.Context, playerUUID string, start, end time.Time) (*PlayerRecap, error) {
	times, err := s.store.PlayerSnapshotTimes(ctx, playerUUID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot times: %w", err)
	}
	pair, err := s.resolver.Resolve(start, end, times)
	if err != nil {
		return nil, err
	}
	earlier, err := s.playerRecord(ctx, playerUUID, pair.Earlier)
	if err != nil {
		return nil, err
	}
	later, err := s.playerRecord(ctx, playerUUID, pair.Later)
	if err != nil {
		return nil, err
	}
	return &PlayerRecap{
		Identity:  later.snapshot.Identity,
		Delta:     Diff(earlier.record, later.record),
		EarlierAt: pair.Earlier,
		LaterAt:   pair.Later,
	}, nil
}

// ResolveAndDiffGuild resolves the requested range against the guild's
// snapshot history, diffs every member present at both bounds, and
// aggregates. Members missing at either bound are excluded, so a partial
// fetch batch degrades output quality, not correctness.
func (s *Service) ResolveAndDiffGuild(ctx context.Context, guildID string, start, end time.Time, rankMetric string) (*GuildAggregate, error) {
	times, err := s.store.GuildSnapshotTimes(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot times: %w", err)
	}
	pair, err := s.resolver.Resolve(start, end, times)
	if err != nil {
		return nil, err
	}
	guildEarlier, err := s.store.GuildSnapshotAt(ctx, guildID, pair.Earlier)
	if err != nil {
		return nil, fmt.Errorf("query guild snapshot: %w", err)
	}
	guildLater, err := s.store.GuildSnapshotAt(ctx, guildID, pair.Later)
	if err != nil {
		return nil, fmt.Errorf("query guild snapshot: %w", err)
	}
	rosterEarlier, err := s.store.RosterAt(ctx, guildID, pair.Earlier)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	rosterLater, err := s.store.RosterAt(ctx, guildID, pair.Later)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}

	laterByUUID := make(map[string]PlayerSnapshot, len(rosterLater))
	for _, snap := range rosterLater {
		laterByUUID[snap.Identity.UUID] = snap
	}
	var members []MemberWindow
	for _, first := range rosterEarlier {
		last, ok := laterByUUID[first.Identity.UUID]
		if !ok {
			continue
		}
		earlierRec, err := normalizeSnapshot(first)
		if err != nil {
			return nil, err
		}
		laterRec, err := normalizeSnapshot(last)
		if err != nil {
			return nil, err
		}
		members = append(members, MemberWindow{
			Identity:  last.Identity,
			Earlier:   earlierRec,
			Later:     laterRec,
			EarlierAt: first.CapturedAt,
			LaterAt:   last.CapturedAt,
		})
	}

	groupDelta := float64(guildLater.Experience - guildEarlier.Experience)
	return Aggregate(members, rankMetric, groupDelta, pair.Earlier, pair.Later), nil
}

type playerRecord struct {
	snapshot *PlayerSnapshot
	record   *stats.Record
}

func (s *Service) playerRecord(ctx context.Context, playerUUID string, at time.Time) (playerRecord, error) {
	snap, err := s.store.PlayerSnapshotAt(ctx, playerUUID, at)
	if err != nil {
		return playerRecord{}, fmt.Errorf("query player snapshot: %w", err)
	}
	rec, err := normalizeSnapshot(*snap)
	if err != nil {
		return playerRecord{}, err
	}
	return playerRecord{snapshot: snap, record: rec}, nil
}

func normalizeSnapshot(snap PlayerSnapshot) (*stats.Record, error) {
	rec, err := stats.Normalize(snap.RawStats, snap.Scalars, snap.CapturedAt)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s at %s: %w", snap.Identity.UUID, snap.CapturedAt.Format(time.RFC3339), err)
	}
	return rec, nil
}

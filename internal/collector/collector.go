// Package collector implements the daily snapshot collection cycle: one
// guild endpoint fetch plus one player fetch per member, persisted as a
// guild_stats row with attached player_stats rows and an archived raw blob.
package collector

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/singleflight"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/hypixel"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/storage"
)

// Collector fetches and persists daily snapshots for every tracked guild.
type Collector struct {
	repo    *storage.Repository
	client  *hypixel.Client
	blobDir string
	loc     *time.Location

	group singleflight.Group
}

// New creates a Collector.
func New(repo *storage.Repository, client *hypixel.Client, blobDir string, loc *time.Location) *Collector {
	return &Collector{
		repo:    repo,
		client:  client,
		blobDir: blobDir,
		loc:     loc,
	}
}

// Collect runs one full collection cycle. At most one cycle runs at a time;
// concurrent callers share the in-flight cycle's result.
func (c *Collector) Collect(ctx context.Context) error {
	_, err, _ := c.group.Do("cycle", func() (any, error) {
		return nil, c.collect(ctx)
	})
	return err
}

func (c *Collector) collect(ctx context.Context) error {
	guilds, err := c.repo.GetAllGuilds(ctx)
	if err != nil {
		return fmt.Errorf("query guilds: %w", err)
	}
	if len(guilds) == 0 {
		slog.Debug("No guilds to collect")
		return nil
	}

	var errs []error
	for _, guild := range guilds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		start := time.Now()
		if err := c.collectGuild(ctx, guild); err != nil {
			slog.Error("Guild collection failed", "guild", guild.Name, "error", err)
			errs = append(errs, fmt.Errorf("guild %s: %w", guild.Name, err))
			continue
		}
		slog.Info("Collected guild snapshot", "guild", guild.Name, "elapsed", time.Since(start))
	}
	return errors.Join(errs...)
}

// memberCapture is one member's fetched data before persistence.
type memberCapture struct {
	member  hypixel.GuildMember
	player  *hypixel.Player
	cookies int64
}

func (c *Collector) collectGuild(ctx context.Context, guild *storage.Guild) error {
	now := time.Now().In(c.loc)
	snapshotAt := calendar.StartOfDay(now, c.loc)
	yesterday := snapshotAt.AddDate(0, 0, -1)
	weekStart := calendar.StartOfWeek(now, c.loc)

	guildData, err := hypixel.Retry(ctx, func() (*hypixel.Guild, error) {
		return c.client.GetGuildByID(ctx, guild.HypixelGuildID)
	})
	if err != nil {
		return fmt.Errorf("fetch guild: %w", err)
	}
	if err := c.repo.UpdateGuildName(ctx, guild.ID, guildData.Name); err != nil {
		return fmt.Errorf("update guild name: %w", err)
	}

	// Sequential member fetches; the client's rate limiter paces them. A
	// failed member degrades the snapshot to a partial batch, which the
	// aggregator already tolerates.
	var captures []memberCapture
	for _, member := range guildData.Members {
		player, err := hypixel.Retry(ctx, func() (*hypixel.Player, error) {
			return c.client.GetPlayer(ctx, member.UUID)
		})
		if err != nil {
			slog.Warn("Skipping member, player fetch failed", "uuid", member.UUID, "error", err)
			continue
		}
		cookies, err := c.client.GetHousingCookies(ctx, member.UUID)
		if err != nil {
			slog.Warn("Housing fetch failed, counting zero cookies", "uuid", member.UUID, "error", err)
			cookies = 0
		}
		captures = append(captures, memberCapture{member: member, player: player, cookies: cookies})
	}

	hash, err := c.archiveBlob(snapshotAt, guildData, captures)
	if err != nil {
		return fmt.Errorf("archive blob: %w", err)
	}

	expByGameType, err := json.Marshal(guildData.ExpByGameType)
	if err != nil {
		return fmt.Errorf("encode exp by game type: %w", err)
	}
	guildStat := &storage.GuildStat{
		GuildID:              guild.ID,
		CreatedAt:            snapshotAt,
		Experience:           guildData.Experience,
		ExperienceByGameType: string(expByGameType),
		RawDataHash:          hash,
	}
	if err := c.repo.InsertGuildStat(ctx, guildStat); err != nil {
		return fmt.Errorf("insert guild stat: %w", err)
	}

	var rows []*storage.PlayerStat
	for _, capture := range captures {
		row, err := c.buildPlayerStat(ctx, capture, guildStat.ID, snapshotAt, yesterday, weekStart)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := c.repo.InsertPlayerStats(ctx, rows); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}
	return nil
}

func (c *Collector) buildPlayerStat(ctx context.Context, capture memberCapture, guildStatID string, snapshotAt, yesterday, weekStart time.Time) (*storage.PlayerStat, error) {
	playerID, err := c.repo.UpsertPlayer(ctx, &storage.Player{
		UUID:          capture.player.UUID,
		Username:      capture.player.Username,
		Prefix:        capture.player.Prefix,
		Color:         capture.player.Color,
		Joined:        capture.member.Joined,
		InitialJoined: capture.member.Joined,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert player %s: %w", capture.player.UUID, err)
	}

	// The guild endpoint only exposes a rolling week of daily experience.
	// The newest entry is the current partial day, so yesterday's completed
	// day is accumulated onto the previous stored total.
	prevExp, err := c.repo.PrevExperience(ctx, capture.player.UUID, yesterday)
	if err != nil {
		return nil, fmt.Errorf("query previous experience: %w", err)
	}
	experience := prevExp
	if len(capture.member.ExpHistory) >= 2 {
		experience += capture.member.ExpHistory[1].Exp
	}

	// Housing cookies reset weekly upstream; accumulate against the last
	// snapshot before the current week.
	prevCookies, err := c.repo.PrevHousingCookies(ctx, capture.player.UUID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("query previous cookies: %w", err)
	}

	raw, err := compress(capture.player.Raw)
	if err != nil {
		return nil, fmt.Errorf("compress player blob: %w", err)
	}
	return &storage.PlayerStat{
		PlayerID:           playerID,
		GuildStatID:        guildStatID,
		CreatedAt:          snapshotAt,
		RawStats:           raw,
		Experience:         experience,
		QuestParticipation: capture.member.QuestParticipation,
		SkyblockExperience: capture.player.SkyblockLevels,
		HousingCookies:     prevCookies + capture.cookies,
	}, nil
}

// archiveBlob writes the full day's raw payload, gzipped, to the blob
// directory keyed by timestamp and content hash. The hash is stored on the
// guild_stats row so corrupt archives can be traced.
func (c *Collector) archiveBlob(snapshotAt time.Time, guildData *hypixel.Guild, captures []memberCapture) (string, error) {
	playerDocs := make([]json.RawMessage, 0, len(captures))
	for _, capture := range captures {
		playerDocs = append(playerDocs, capture.player.Raw)
	}
	payload, err := json.Marshal(map[string]any{
		"createdAt":  snapshotAt.UnixMilli(),
		"guildData":  json.RawMessage(guildData.Raw),
		"playerData": playerDocs,
	})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	if err := os.MkdirAll(c.blobDir, 0755); err != nil {
		return "", err
	}
	compressed, err := compress(payload)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%s", snapshotAt.UnixMilli(), hash)
	if err := os.WriteFile(filepath.Join(c.blobDir, name), compressed, 0644); err != nil {
		return "", err
	}
	return hash, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

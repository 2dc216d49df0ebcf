package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/recap"
)

// Repository handles all database operations. It also implements
// recap.SnapshotStore.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema. Timestamps are stored as unix
// milliseconds so snapshot identity (entity, timestamp) compares exactly.
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS guilds (
			id TEXT PRIMARY KEY,
			discord_guild_id TEXT UNIQUE NOT NULL,
			hypixel_guild_id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			created_at_hypixel INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS guild_stats (
			id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			experience INTEGER NOT NULL,
			experience_by_game_type TEXT NOT NULL,
			raw_data_hash TEXT NOT NULL,
			FOREIGN KEY (guild_id) REFERENCES guilds(id) ON DELETE CASCADE,
			UNIQUE(guild_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			uuid TEXT UNIQUE NOT NULL,
			username TEXT NOT NULL,
			prefix TEXT NOT NULL,
			color INTEGER NOT NULL,
			joined INTEGER NOT NULL,
			initial_joined INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			guild_stats_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			raw_stats BLOB NOT NULL,
			experience INTEGER NOT NULL,
			quest_participation INTEGER NOT NULL,
			skyblock_experience INTEGER NOT NULL,
			housing_cookies INTEGER NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			FOREIGN KEY (guild_stats_id) REFERENCES guild_stats(id) ON DELETE CASCADE,
			UNIQUE(player_id, created_at, guild_stats_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_guild_stats_guild_created ON guild_stats(guild_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_player_stats_player_created ON player_stats(player_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_player_stats_guild_stats ON player_stats(guild_stats_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Guild operations

// CreateGuild inserts a new tracked guild. The row ID is generated here.
func (r *Repository) CreateGuild(ctx context.Context, g *Guild) error {
	g.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guilds (id, discord_guild_id, hypixel_guild_id, name, channel_id, created_at_hypixel) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.DiscordGuildID, g.HypixelGuildID, g.Name, g.ChannelID, g.CreatedAtHypixel.UnixMilli(),
	)
	return err
}

// GetGuildByDiscordID finds the tracked guild bound to a Discord server.
func (r *Repository) GetGuildByDiscordID(ctx context.Context, discordGuildID string) (*Guild, error) {
	g := &Guild{}
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, discord_guild_id, hypixel_guild_id, name, channel_id, created_at_hypixel FROM guilds WHERE discord_guild_id = ?`,
		discordGuildID,
	).Scan(&g.ID, &g.DiscordGuildID, &g.HypixelGuildID, &g.Name, &g.ChannelID, &createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAtHypixel = time.UnixMilli(createdAt)
	return g, nil
}

// GetAllGuilds returns every tracked guild.
func (r *Repository) GetAllGuilds(ctx context.Context) ([]*Guild, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, discord_guild_id, hypixel_guild_id, name, channel_id, created_at_hypixel FROM guilds`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []*Guild
	for rows.Next() {
		g := &Guild{}
		var createdAt int64
		if err := rows.Scan(&g.ID, &g.DiscordGuildID, &g.HypixelGuildID, &g.Name, &g.ChannelID, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAtHypixel = time.UnixMilli(createdAt)
		guilds = append(guilds, g)
	}

	return guilds, rows.Err()
}

// UpdateGuildName refreshes the display name after each fetch.
func (r *Repository) UpdateGuildName(ctx context.Context, guildID, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE guilds SET name = ? WHERE id = ?`, name, guildID)
	return err
}

// Player operations

// UpsertPlayer creates or refreshes a player row keyed by Mojang UUID and
// returns the internal row ID.
func (r *Repository) UpsertPlayer(ctx context.Context, p *Player) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (id, uuid, username, prefix, color, joined, initial_joined) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uuid) DO UPDATE SET username = excluded.username, prefix = excluded.prefix,
		 color = excluded.color, joined = excluded.joined`,
		id, p.UUID, p.Username, p.Prefix, p.Color, p.Joined.UnixMilli(), p.InitialJoined.UnixMilli(),
	)
	if err != nil {
		return "", err
	}
	err = r.db.QueryRowContext(ctx, `SELECT id FROM players WHERE uuid = ?`, p.UUID).Scan(&p.ID)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// GetPlayerByUUID finds a player by Mojang UUID.
func (r *Repository) GetPlayerByUUID(ctx context.Context, playerUUID string) (*Player, error) {
	p := &Player{}
	var joined, initialJoined int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, uuid, username, prefix, color, joined, initial_joined FROM players WHERE uuid = ?`,
		playerUUID,
	).Scan(&p.ID, &p.UUID, &p.Username, &p.Prefix, &p.Color, &joined, &initialJoined)
	if err != nil {
		return nil, err
	}
	p.Joined = time.UnixMilli(joined)
	p.InitialJoined = time.UnixMilli(initialJoined)
	return p, nil
}

// Snapshot writes

// InsertGuildStat inserts one group-level snapshot row.
func (r *Repository) InsertGuildStat(ctx context.Context, gs *GuildStat) error {
	gs.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guild_stats (id, guild_id, created_at, experience, experience_by_game_type, raw_data_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gs.ID, gs.GuildID, gs.CreatedAt.UnixMilli(), gs.Experience, gs.ExperienceByGameType, gs.RawDataHash,
	)
	return err
}

// InsertPlayerStats inserts a whole day's member rows in one transaction.
func (r *Repository) InsertPlayerStats(ctx context.Context, rows []*PlayerStat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, ps := range rows {
		ps.ID = uuid.NewString()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO player_stats (id, player_id, guild_stats_id, created_at, raw_stats,
			 experience, quest_participation, skyblock_experience, housing_cookies)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ps.ID, ps.PlayerID, ps.GuildStatID, ps.CreatedAt.UnixMilli(), ps.RawStats,
			ps.Experience, ps.QuestParticipation, ps.SkyblockExperience, ps.HousingCookies,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PrevExperience returns the stored guild experience for a player at the
// most recent snapshot at or before cutoff, zero when no snapshot exists.
// Used by the collector to accumulate daily experience history.
func (r *Repository) PrevExperience(ctx context.Context, playerUUID string, cutoff time.Time) (int64, error) {
	var exp int64
	err := r.db.QueryRowContext(ctx,
		`SELECT ps.experience FROM player_stats ps
		 JOIN players p ON p.id = ps.player_id
		 WHERE p.uuid = ? AND ps.created_at <= ?
		 ORDER BY ps.created_at DESC LIMIT 1`,
		playerUUID, cutoff.UnixMilli(),
	).Scan(&exp)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return exp, err
}

// PrevHousingCookies mirrors PrevExperience for the cookie counter, which
// upstream resets weekly and is accumulated against the week boundary.
func (r *Repository) PrevHousingCookies(ctx context.Context, playerUUID string, cutoff time.Time) (int64, error) {
	var cookies int64
	err := r.db.QueryRowContext(ctx,
		`SELECT ps.housing_cookies FROM player_stats ps
		 JOIN players p ON p.id = ps.player_id
		 WHERE p.uuid = ? AND ps.created_at <= ?
		 ORDER BY ps.created_at DESC LIMIT 1`,
		playerUUID, cutoff.UnixMilli(),
	).Scan(&cookies)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return cookies, err
}

// GetMetaInfo returns snapshot history stats for one guild.
func (r *Repository) GetMetaInfo(ctx context.Context, guildID string) (*MetaInfo, error) {
	var count int
	var first, last sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM guild_stats WHERE guild_id = ?`,
		guildID,
	).Scan(&count, &first, &last)
	if err != nil {
		return nil, err
	}
	info := &MetaInfo{SnapshotCount: count}
	if first.Valid {
		info.FirstSnapshot = time.UnixMilli(first.Int64)
	}
	if last.Valid {
		info.LastSnapshot = time.UnixMilli(last.Int64)
	}
	return info, nil
}

// recap.SnapshotStore implementation

// PlayerSnapshotTimes returns every snapshot timestamp for a player,
// ascending.
func (r *Repository) PlayerSnapshotTimes(ctx context.Context, playerUUID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ps.created_at FROM player_stats ps
		 JOIN players p ON p.id = ps.player_id
		 WHERE p.uuid = ? ORDER BY ps.created_at ASC`,
		playerUUID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimes(rows)
}

// PlayerSnapshotAt returns the snapshot captured at exactly the given time.
func (r *Repository) PlayerSnapshotAt(ctx context.Context, playerUUID string, at time.Time) (*recap.PlayerSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT p.uuid, p.username, p.prefix, p.color, ps.created_at, ps.raw_stats,
		 ps.experience, ps.quest_participation, ps.skyblock_experience, ps.housing_cookies
		 FROM player_stats ps
		 JOIN players p ON p.id = ps.player_id
		 WHERE p.uuid = ? AND ps.created_at = ?`,
		playerUUID, at.UnixMilli(),
	)
	snap, err := scanPlayerSnapshot(row)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// GuildSnapshotTimes returns every group snapshot timestamp, ascending.
func (r *Repository) GuildSnapshotTimes(ctx context.Context, guildID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at FROM guild_stats WHERE guild_id = ? ORDER BY created_at ASC`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimes(rows)
}

// GuildSnapshotAt returns the group snapshot captured at the given time.
func (r *Repository) GuildSnapshotAt(ctx context.Context, guildID string, at time.Time) (*recap.GuildSnapshot, error) {
	var createdAt, experience int64
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at, experience FROM guild_stats WHERE guild_id = ? AND created_at = ?`,
		guildID, at.UnixMilli(),
	).Scan(&createdAt, &experience)
	if err != nil {
		return nil, err
	}
	return &recap.GuildSnapshot{CapturedAt: time.UnixMilli(createdAt), Experience: experience}, nil
}

// RosterAt returns every member snapshot attached to the guild snapshot at
// the given time, in stored roster order.
func (r *Repository) RosterAt(ctx context.Context, guildID string, at time.Time) ([]recap.PlayerSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.uuid, p.username, p.prefix, p.color, ps.created_at, ps.raw_stats,
		 ps.experience, ps.quest_participation, ps.skyblock_experience, ps.housing_cookies
		 FROM player_stats ps
		 JOIN players p ON p.id = ps.player_id
		 JOIN guild_stats gs ON gs.id = ps.guild_stats_id
		 WHERE gs.guild_id = ? AND gs.created_at = ?
		 ORDER BY ps.rowid ASC`,
		guildID, at.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []recap.PlayerSnapshot
	for rows.Next() {
		snap, err := scanPlayerSnapshot(rows)
		if err != nil {
			return nil, err
		}
		roster = append(roster, *snap)
	}
	return roster, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayerSnapshot(row rowScanner) (*recap.PlayerSnapshot, error) {
	var snap recap.PlayerSnapshot
	var createdAt int64
	err := row.Scan(
		&snap.Identity.UUID, &snap.Identity.DisplayName, &snap.Identity.PrefixTag, &snap.Identity.AccentColor,
		&createdAt, &snap.RawStats,
		&snap.Scalars.GuildExperience, &snap.Scalars.QuestParticipation,
		&snap.Scalars.SkyblockExperience, &snap.Scalars.HousingCookies,
	)
	if err != nil {
		return nil, err
	}
	snap.CapturedAt = time.UnixMilli(createdAt)
	return &snap, nil
}

func scanTimes(rows *sql.Rows) ([]time.Time, error) {
	var times []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		times = append(times, time.UnixMilli(ms))
	}
	return times, rows.Err()
}

var _ recap.SnapshotStore = (*Repository)(nil)

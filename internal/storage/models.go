package storage

import "time"

// Guild links a Discord server to a tracked Hypixel guild.
type Guild struct {
	ID               string
	DiscordGuildID   string
	HypixelGuildID   string
	Name             string
	ChannelID        string // Discord channel scheduled highlights post to
	CreatedAtHypixel time.Time
}

// GuildStat is one daily group-level snapshot.
type GuildStat struct {
	ID                   string
	GuildID              string
	CreatedAt            time.Time
	Experience           int64
	ExperienceByGameType string // JSON object, kept opaque
	RawDataHash          string // sha256 of the archived raw payload
}

// Player is a tracked guild member.
type Player struct {
	ID            string
	UUID          string
	Username      string
	Prefix        string
	Color         int
	Joined        time.Time
	InitialJoined time.Time
}

// PlayerStat is one daily per-member snapshot: the gzipped upstream player
// document plus the scalar columns kept outside the blob.
type PlayerStat struct {
	ID                 string
	PlayerID           string
	GuildStatID        string
	CreatedAt          time.Time
	RawStats           []byte
	Experience         int64
	QuestParticipation int64
	SkyblockExperience int64
	HousingCookies     int64
}

// MetaInfo summarizes the stored snapshot history for one guild.
type MetaInfo struct {
	SnapshotCount int
	FirstSnapshot time.Time
	LastSnapshot  time.Time
}

package stats

import "time"

// Record is one normalized point-in-time measurement for one player. It is
// derived on read from the persisted raw blob plus the scalar columns and is
// never stored in this form.
type Record struct {
	CapturedAt time.Time

	// Network-wide counters from the document root.
	AchievementPoints float64
	NetworkExperience float64
	NetworkLevel      float64
	Karma             float64
	QuestsCompleted   float64

	// Scalar columns stored outside the blob.
	GuildExperience    float64
	QuestParticipation float64
	SkyblockExperience float64
	HousingCookies     float64

	ArcadeWins float64

	ArenaBrawl      ModeStats
	BedWars         ModeStats
	BlitzSG         ModeStats
	BuildBattle     ModeStats
	CopsAndCrims    ModeStats
	Duels           ModeStats
	MegaWalls       ModeStats
	MurderMystery   ModeStats
	Paintball       ModeStats
	Pit             ModeStats
	Quakecraft      ModeStats
	SkyWars         ModeStats
	SmashHeroes     ModeStats
	SpeedUHC        ModeStats
	TurboKartRacers ModeStats
	TNTGames        ModeStats
	UHC             ModeStats
	VampireZ        ModeStats
	TheWalls        ModeStats
	Warlords        ModeStats
	WoolGames       ModeStats
	SkyClash        ModeStats
	CrazyWalls      ModeStats
}

// ModeStats holds the per-game-mode counters the registry extracts from.
// Not every mode populates every field; absent upstream fields are zero.
type ModeStats struct {
	Experience float64
	Level      float64
	Score      float64
	Trophies   float64
	Wins       float64
	Kills      float64
}

// Scalars are the values persisted as columns next to the raw blob. They are
// merged into the flat metric namespace during normalization.
type Scalars struct {
	GuildExperience    int64
	QuestParticipation int64
	SkyblockExperience int64
	HousingCookies     int64
}

package stats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/gjson"
)

// ErrCorruptSnapshot reports a raw blob that cannot be deserialized. This is
// distinct from routine field absence (which normalizes to zero) and is
// propagated to the caller rather than swallowed, since it indicates storage
// or ingestion corruption.
var ErrCorruptSnapshot = errors.New("corrupt snapshot blob")

// Normalize converts a persisted raw snapshot into a Record. rawBlob is the
// gzipped upstream player document; scalars are the columns stored outside
// the blob. Field absence at any nesting level reads as zero. A blob that
// fails to decompress or parse returns ErrCorruptSnapshot.
func Normalize(rawBlob []byte, scalars Scalars, capturedAt time.Time) (*Record, error) {
	doc, err := decompress(rawBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorruptSnapshot)
	}
	root := gjson.ParseBytes(doc)

	r := &Record{
		CapturedAt: capturedAt,

		AchievementPoints: root.Get("achievementPoints").Float(),
		NetworkExperience: root.Get("networkExp").Float(),
		Karma:             root.Get("karma").Float(),
		QuestsCompleted:   questsCompleted(root.Get("quests")),

		GuildExperience:    float64(scalars.GuildExperience),
		QuestParticipation: float64(scalars.QuestParticipation),
		SkyblockExperience: float64(scalars.SkyblockExperience),
		HousingCookies:     float64(scalars.HousingCookies),

		ArcadeWins: arcadeWins(root.Get("stats.Arcade")),
	}
	r.NetworkLevel = NetworkLevel(r.NetworkExperience)

	stats := root.Get("stats")

	r.ArenaBrawl = ModeStats{
		Wins:  stats.Get("Arena.wins").Float(),
		Kills: sum(stats, "Arena.kills_1v1", "Arena.kills_2v2", "Arena.kills_4v4"),
	}
	r.BedWars = ModeStats{
		Experience: stats.Get("Bedwars.Experience").Float(),
		Wins:       stats.Get("Bedwars.wins_bedwars").Float(),
		Kills:      stats.Get("Bedwars.kills_bedwars").Float(),
	}
	r.BedWars.Level = BedWarsLevel(r.BedWars.Experience)
	r.BlitzSG = ModeStats{
		Wins:  sum(stats, "HungerGames.wins_solo_normal", "HungerGames.wins_teams"),
		Kills: stats.Get("HungerGames.kills").Float(),
	}
	r.BuildBattle = ModeStats{
		Score: stats.Get("BuildBattle.score").Float(),
		Wins:  stats.Get("BuildBattle.wins").Float(),
	}
	r.CopsAndCrims = ModeStats{
		Wins:  sum(stats, "MCGO.game_wins", "MCGO.game_wins_deathmatch", "MCGO.game_wins_gungame"),
		Kills: sum(stats, "MCGO.kills", "MCGO.kills_deathmatch", "MCGO.kills_gungame"),
	}
	r.Duels = ModeStats{
		Wins:  stats.Get("Duels.wins").Float(),
		Kills: stats.Get("Duels.kills").Float(),
	}
	r.MegaWalls = ModeStats{
		Wins:  stats.Get("Walls3.wins").Float(),
		Kills: stats.Get("Walls3.kills").Float(),
	}
	r.MurderMystery = ModeStats{
		Wins:  stats.Get("MurderMystery.wins").Float(),
		Kills: stats.Get("MurderMystery.kills").Float(),
	}
	r.Paintball = ModeStats{
		Wins:  stats.Get("Paintball.wins").Float(),
		Kills: stats.Get("Paintball.kills").Float(),
	}
	r.Pit = ModeStats{
		Experience: stats.Get("Pit.profile.xp").Float(),
		Kills:      stats.Get("Pit.pit_stats_ptl.kills").Float(),
	}
	r.Quakecraft = ModeStats{
		Wins:  sum(stats, "Quake.wins", "Quake.wins_teams"),
		Kills: sum(stats, "Quake.kills", "Quake.kills_teams"),
	}
	r.SkyWars = ModeStats{
		Experience: stats.Get("SkyWars.skywars_experience").Float(),
		Wins:       stats.Get("SkyWars.wins").Float(),
		Kills:      stats.Get("SkyWars.kills").Float(),
	}
	r.SkyWars.Level = SkyWarsLevel(r.SkyWars.Experience)
	r.SmashHeroes = ModeStats{
		Experience: stats.Get("SuperSmash.xp").Float(),
		Wins:       stats.Get("SuperSmash.wins").Float(),
		Kills:      stats.Get("SuperSmash.kills").Float(),
	}
	r.SpeedUHC = ModeStats{
		Score: stats.Get("SpeedUHC.score").Float(),
		Wins:  stats.Get("SpeedUHC.wins").Float(),
		Kills: stats.Get("SpeedUHC.kills").Float(),
	}
	r.TurboKartRacers = ModeStats{
		Trophies: sum(stats, "GingerBread.bronze_trophy", "GingerBread.silver_trophy", "GingerBread.gold_trophy"),
		Wins:     stats.Get("GingerBread.wins").Float(),
	}
	r.TNTGames = ModeStats{
		Wins:  stats.Get("TNTGames.wins").Float(),
		Kills: sum(stats, "TNTGames.kills_tntag", "TNTGames.kills_capture"),
	}
	r.UHC = ModeStats{
		Score: stats.Get("UHC.score").Float(),
		Wins:  stats.Get("UHC.wins").Float(),
		Kills: stats.Get("UHC.kills").Float(),
	}
	r.VampireZ = ModeStats{
		Wins:  sum(stats, "VampireZ.human_wins", "VampireZ.vampire_wins"),
		Kills: sum(stats, "VampireZ.human_kills", "VampireZ.vampire_kills"),
	}
	r.TheWalls = ModeStats{
		Wins:  stats.Get("Walls.wins").Float(),
		Kills: stats.Get("Walls.kills").Float(),
	}
	r.Warlords = ModeStats{
		Wins:  stats.Get("Battleground.wins").Float(),
		Kills: stats.Get("Battleground.kills").Float(),
	}
	r.WoolGames = ModeStats{
		Experience: stats.Get("WoolGames.progression.experience").Float(),
		Wins: sum(stats,
			"WoolGames.wool_wars.stats.wins",
			"WoolGames.capture_the_wool.stats.experienced_wins",
			"WoolGames.sheep_wars.stats.wins"),
		Kills: sum(stats, "WoolGames.wool_wars.stats.kills", "WoolGames.sheep_wars.stats.kills"),
	}
	r.WoolGames.Level = WoolGamesLevel(r.WoolGames.Experience)
	r.SkyClash = ModeStats{
		Wins:  stats.Get("SkyClash.wins").Float(),
		Kills: stats.Get("SkyClash.kills").Float(),
	}
	r.CrazyWalls = ModeStats{
		Wins:  stats.Get("TrueCombat.wins").Float(),
		Kills: stats.Get("TrueCombat.kills").Float(),
	}

	return r, nil
}

// decompress gunzips the blob. Blobs written before compression was enabled
// are stored as plain JSON and pass through unchanged.
func decompress(blob []byte) ([]byte, error) {
	if len(blob) < 2 || blob[0] != 0x1f || blob[1] != 0x8b {
		return blob, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func sum(root gjson.Result, paths ...string) float64 {
	total := 0.0
	for _, path := range paths {
		total += root.Get(path).Float()
	}
	return total
}

// questsCompleted counts completions across every quest entry.
func questsCompleted(quests gjson.Result) float64 {
	total := 0.0
	quests.ForEach(func(_, quest gjson.Result) bool {
		total += float64(quest.Get("completions.#").Int())
		return true
	})
	return total
}

// arcadeWins sums wins across all arcade minigames, including the seasonal
// ones. New minigames show up as new counters upstream; missing counters
// read as zero.
func arcadeWins(arcade gjson.Result) float64 {
	if !arcade.Exists() {
		return 0
	}
	return sum(arcade,
		"wins_dayone",           // Blocking Dead
		"wins_oneinthequiver",   // Bounty Hunters
		"wins_dragonwars2",      // Dragon Wars
		"dropper.wins",          // Dropper
		"wins_ender",            // Ender Spleef
		"wins_farm_hunt",        // Farm Hunt
		"wins_soccer",           // Football
		"sw_game_wins",          // Galaxy Wars
		"seeker_wins_hide_and_seek",
		"hider_wins_hide_and_seek",
		"wins_hole_in_the_wall",
		"wins_simon_says", // Hypixel Says
		"wins_mini_walls",
		"wins_party",
		"wins_party_2",
		"wins_party_3",
		"wins_draw_their_thing", // Pixel Painters
		"pixel_party.wins",
		"wins_throw_out",
		"wins_zombies",
		"wins_easter_simulator",
		"wins_grinch_simulator_v2",
		"wins_halloween_simulator",
		"wins_scuba_simulator",
	)
}

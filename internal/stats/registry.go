package stats

// The registry is the single source of truth for which stats exist and the
// order they are reported in. The category template groups the flat metrics
// for display; the flat name of a metric is "<Category> <Label>" except in
// the General category, whose labels are already fully qualified.

// Descriptor is one named metric with its extraction function.
type Descriptor struct {
	Name    string
	Extract func(*Record) float64
}

// TemplateMetric is one metric slot inside a category.
type TemplateMetric struct {
	Label   string // display label within the category, e.g. "Kills"
	Name    string // flat registry name, e.g. "Bed Wars Kills"
	Extract func(*Record) float64
}

// CategoryTemplate is one display category with its ordered metrics.
type CategoryTemplate struct {
	Name      string
	Thumbnail string
	Metrics   []TemplateMetric
}

type metricDef struct {
	label   string
	extract func(*Record) float64
}

type categoryDef struct {
	name      string
	thumbnail string
	metrics   []metricDef
}

var categoryDefs = []categoryDef{
	{"General", "Arcade_Games.png", []metricDef{
		{"Achievement Points", func(r *Record) float64 { return r.AchievementPoints }},
		{"Hypixel Network Experience", func(r *Record) float64 { return r.NetworkExperience }},
		{"Hypixel Network Level", func(r *Record) float64 { return r.NetworkLevel }},
		{"Karma", func(r *Record) float64 { return r.Karma }},
		{"Quests Completed", func(r *Record) float64 { return r.QuestsCompleted }},
		{"Guild Experience", func(r *Record) float64 { return r.GuildExperience }},
		{"Guild Quest Participation", func(r *Record) float64 { return r.QuestParticipation }},
	}},
	{"Arcade Games", "Arcade_Games.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.ArcadeWins }},
	}},
	{"Arena Brawl", "Arena_Brawl.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.ArenaBrawl.Wins }},
		{"Kills", func(r *Record) float64 { return r.ArenaBrawl.Kills }},
	}},
	{"Bed Wars", "Bed_Wars.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.BedWars.Experience }},
		{"Level", func(r *Record) float64 { return r.BedWars.Level }},
		{"Wins", func(r *Record) float64 { return r.BedWars.Wins }},
		{"Kills", func(r *Record) float64 { return r.BedWars.Kills }},
	}},
	{"Blitz Survival Games", "Blitz_Survival_Games.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.BlitzSG.Wins }},
		{"Kills", func(r *Record) float64 { return r.BlitzSG.Kills }},
	}},
	{"Build Battle", "Build_Battle.png", []metricDef{
		{"Score", func(r *Record) float64 { return r.BuildBattle.Score }},
		{"Wins", func(r *Record) float64 { return r.BuildBattle.Wins }},
	}},
	{"Cops and Crims", "Cops_and_Crims.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.CopsAndCrims.Wins }},
		{"Kills", func(r *Record) float64 { return r.CopsAndCrims.Kills }},
	}},
	{"Duels", "Duels.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.Duels.Wins }},
		{"Kills", func(r *Record) float64 { return r.Duels.Kills }},
	}},
	{"Housing", "Housing.png", []metricDef{
		{"Cookies", func(r *Record) float64 { return r.HousingCookies }},
	}},
	{"Mega Walls", "Mega_Walls.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.MegaWalls.Wins }},
		{"Kills", func(r *Record) float64 { return r.MegaWalls.Kills }},
	}},
	{"Murder Mystery", "Murder_Mystery.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.MurderMystery.Wins }},
		{"Kills", func(r *Record) float64 { return r.MurderMystery.Kills }},
	}},
	{"Paintball Warfare", "Paintball_Warfare.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.Paintball.Wins }},
		{"Kills", func(r *Record) float64 { return r.Paintball.Kills }},
	}},
	{"The Hypixel Pit", "The_Hypixel_Pit.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.Pit.Experience }},
		{"Kills", func(r *Record) float64 { return r.Pit.Kills }},
	}},
	{"Quakecraft", "Quakecraft.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.Quakecraft.Wins }},
		{"Kills", func(r *Record) float64 { return r.Quakecraft.Kills }},
	}},
	{"SkyBlock", "SkyBlock.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.SkyblockExperience }},
	}},
	{"SkyWars", "SkyWars.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.SkyWars.Experience }},
		{"Level", func(r *Record) float64 { return r.SkyWars.Level }},
		{"Wins", func(r *Record) float64 { return r.SkyWars.Wins }},
		{"Kills", func(r *Record) float64 { return r.SkyWars.Kills }},
	}},
	{"Smash Heroes", "Smash_Heroes.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.SmashHeroes.Experience }},
		{"Wins", func(r *Record) float64 { return r.SmashHeroes.Wins }},
		{"Kills", func(r *Record) float64 { return r.SmashHeroes.Kills }},
	}},
	{"Speed UHC", "Speed_UHC.png", []metricDef{
		{"Score", func(r *Record) float64 { return r.SpeedUHC.Score }},
		{"Wins", func(r *Record) float64 { return r.SpeedUHC.Wins }},
		{"Kills", func(r *Record) float64 { return r.SpeedUHC.Kills }},
	}},
	{"Turbo Kart Racers", "Turbo_Kart_Racers.png", []metricDef{
		{"Trophies", func(r *Record) float64 { return r.TurboKartRacers.Trophies }},
		{"Wins", func(r *Record) float64 { return r.TurboKartRacers.Wins }},
	}},
	{"The TNT Games", "The_TNT_Games.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.TNTGames.Wins }},
		{"Kills", func(r *Record) float64 { return r.TNTGames.Kills }},
	}},
	{"UHC Champions", "UHC_Champions.png", []metricDef{
		{"Score", func(r *Record) float64 { return r.UHC.Score }},
		{"Wins", func(r *Record) float64 { return r.UHC.Wins }},
		{"Kills", func(r *Record) float64 { return r.UHC.Kills }},
	}},
	{"VampireZ", "VampireZ.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.VampireZ.Wins }},
		{"Kills", func(r *Record) float64 { return r.VampireZ.Kills }},
	}},
	{"The Walls", "The_Walls.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.TheWalls.Wins }},
		{"Kills", func(r *Record) float64 { return r.TheWalls.Kills }},
	}},
	{"Warlords", "Warlords.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.Warlords.Wins }},
		{"Kills", func(r *Record) float64 { return r.Warlords.Kills }},
	}},
	{"Wool Games", "Wool_Games.png", []metricDef{
		{"Experience", func(r *Record) float64 { return r.WoolGames.Experience }},
		{"Level", func(r *Record) float64 { return r.WoolGames.Level }},
		{"Wins", func(r *Record) float64 { return r.WoolGames.Wins }},
		{"Kills", func(r *Record) float64 { return r.WoolGames.Kills }},
	}},
	{"SkyClash", "SkyClash.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.SkyClash.Wins }},
		{"Kills", func(r *Record) float64 { return r.SkyClash.Kills }},
	}},
	{"Crazy Walls", "Crazy_Walls.png", []metricDef{
		{"Wins", func(r *Record) float64 { return r.CrazyWalls.Wins }},
		{"Kills", func(r *Record) float64 { return r.CrazyWalls.Kills }},
	}},
}

var (
	template    []CategoryTemplate
	descriptors []Descriptor
	byName      map[string]Descriptor
)

func init() {
	byName = make(map[string]Descriptor)
	for _, cat := range categoryDefs {
		ct := CategoryTemplate{Name: cat.name, Thumbnail: cat.thumbnail}
		for _, m := range cat.metrics {
			name := flatName(cat.name, m.label)
			ct.Metrics = append(ct.Metrics, TemplateMetric{Label: m.label, Name: name, Extract: m.extract})
			d := Descriptor{Name: name, Extract: m.extract}
			descriptors = append(descriptors, d)
			byName[name] = d
		}
		template = append(template, ct)
	}
}

func flatName(category, label string) string {
	if category == "General" {
		return label
	}
	return category + " " + label
}

// Template returns the ordered category template. The slice is shared;
// callers must not modify it.
func Template() []CategoryTemplate {
	return template
}

// Descriptors returns every metric descriptor in report order.
func Descriptors() []Descriptor {
	return descriptors
}

// Lookup finds a descriptor by its flat name. A miss is not an error;
// ranking callers treat missing metrics as zero.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

package stats

import "math"

// Level formulas below encode undocumented game progression tables. The
// exact constants matter; do not "simplify" them.

// NetworkLevel converts raw network experience to a fractional level.
// https://github.com/HypixelDev/PublicAPI/wiki/Common-Questions
func NetworkLevel(exp float64) float64 {
	return (math.Sqrt(exp+15312.5) - 125/math.Sqrt2) / (25 * math.Sqrt2)
}

// BedWarsLevel converts Bed Wars experience to a fractional star level.
// Prestiges every 487000 xp, with cheap early levels inside each prestige.
func BedWarsLevel(exp float64) float64 {
	return gamemodeLevel(exp, []float64{500, 1000, 2000, 3500}, 5000, 487000)
}

// SkyWarsLevel converts SkyWars experience to a fractional level.
func SkyWarsLevel(exp float64) float64 {
	return gamemodeLevel(exp, []float64{0, 20, 50, 80, 100, 250, 500, 1000, 1500, 2500, 4000, 5000}, 10000, -1)
}

// WoolGamesLevel converts Wool Games experience to a fractional level.
func WoolGamesLevel(exp float64) float64 {
	return gamemodeLevel(exp, []float64{0, 1000, 2000, 3000, 4000}, 5000, 490000)
}

// gamemodeLevel applies the staged threshold formula shared by the per-mode
// progressions: optional fixed-cost prestige blocks of 100 levels, then a
// sequence of per-level thresholds, then a flat onward rate. prestigeCost of
// -1 disables the prestige stage.
func gamemodeLevel(exp float64, expReqs []float64, onwardExpReq float64, prestigeCost float64) float64 {
	level := 0.0
	if prestigeCost != -1 {
		prestiges := math.Floor(exp / prestigeCost)
		level = prestiges * 100
		exp = math.Mod(exp, prestigeCost)
	}
	for _, expReq := range expReqs {
		if exp < expReq {
			return level + exp/expReq
		}
		level++
		exp -= expReq
	}
	return level + exp/onwardExpReq
}

package bot

import "math/rand/v2"

// splashTexts are the subtitle lines rotated through highlight headers.
var splashTexts = []string{
	"Hello World!",
	"Boop!",
	"Hello, ${username}!",
	"Killed",
	"*** stack smashing detected ***: terminated",
	"Segmentation fault (core dumped)",
	"NullPointerException",
	"The cake is a lie.",
}

// randomSplash picks a splash line, never repeating prev back to back.
func randomSplash(prev string) string {
	candidates := make([]string, 0, len(splashTexts))
	for _, s := range splashTexts {
		if s != prev {
			candidates = append(candidates, s)
		}
	}
	return candidates[rand.IntN(len(candidates))]
}

// accentColors mirrors the standard Discord embed palette.
var accentColors = []int{
	0x000000, 0xffffff, 0x1abc9c, 0x57f287, 0x3498db, 0xfee75c,
	0x9b59b6, 0xe91e63, 0xeb459e, 0xf1c40f, 0xe67e22, 0xed4245,
	0x95a5a6, 0x34495e, 0x11806a, 0x1f8b4c, 0x206694, 0x71368a,
	0xad1457, 0xc27c0e, 0xa84300, 0x992d22, 0x979c9f, 0x7f8c8d,
	0xbcc0c0, 0x2c3e50, 0x5865f2, 0x99aab5, 0x2c2f33, 0x23272a,
}

// randomAccentColor picks an embed accent color different from prev.
func randomAccentColor(prev int) int {
	candidates := make([]int, 0, len(accentColors))
	for _, c := range accentColors {
		if c != prev {
			candidates = append(candidates, c)
		}
	}
	return candidates[rand.IntN(len(candidates))]
}

package hypixel

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Player is the decoded player endpoint response. Raw keeps the verbatim
// player object; the normalizer re-parses it on every diff request, so the
// client never interprets the nested stats here.
type Player struct {
	UUID     string
	Username string
	Prefix   string
	Color    int
	// SkyblockLevels mirrors the achievements counter used as the
	// SkyBlock progression scalar.
	SkyblockLevels int64
	Raw            []byte
}

// GetPlayer fetches a player's full stats document.
func (c *Client) GetPlayer(ctx context.Context, playerUUID string) (*Player, error) {
	body, err := c.getRaw(ctx, fmt.Sprintf("%s/player?uuid=%s", BaseURL, playerUUID))
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	root := gjson.GetBytes(body, "player")
	if !root.Exists() || root.Type == gjson.Null {
		return nil, fmt.Errorf("no player found")
	}

	prefix, color := rankPrefix(root)
	return &Player{
		UUID:           root.Get("uuid").String(),
		Username:       root.Get("displayname").String(),
		Prefix:         prefix,
		Color:          color,
		SkyblockLevels: root.Get("achievements.skyblock_sb_levels").Int(),
		Raw:            []byte(root.Raw),
	}, nil
}

// GetHousingCookies sums the current cookie counters across a player's
// houses. The counter resets weekly upstream; accumulation happens in the
// collector, not here.
func (c *Client) GetHousingCookies(ctx context.Context, playerUUID string) (int64, error) {
	body, err := c.getRaw(ctx, fmt.Sprintf("%s/housing/houses?player=%s", BaseURL, playerUUID))
	if err != nil {
		return 0, fmt.Errorf("failed to get houses: %w", err)
	}
	var cookies int64
	gjson.ParseBytes(body).ForEach(func(_, house gjson.Result) bool {
		cookies += house.Get("cookies.current").Int()
		return true
	})
	return cookies, nil
}

// Display colors for the chat rank tiers.
var rankColors = map[string]int{
	"VIP":       0x55FF55,
	"VIP_PLUS":  0x55FF55,
	"MVP":       0x55FFFF,
	"MVP_PLUS":  0x55FFFF,
	"SUPERSTAR": 0xFFAA00, // MVP++
	"ADMIN":     0xFF5555,
	"YOUTUBER":  0xFF5555,
}

// rankPrefix derives the display prefix tag and accent color from the
// player's rank fields. A custom prefix string wins outright; otherwise the
// highest applicable package rank is used.
func rankPrefix(player gjson.Result) (string, int) {
	if custom := player.Get("prefix").String(); custom != "" {
		return stripColorCodes(custom), 0xAAAAAA
	}
	rank := player.Get("rank").String()
	if rank == "" || rank == "NORMAL" {
		rank = player.Get("monthlyPackageRank").String()
	}
	if rank == "" || rank == "NONE" {
		rank = player.Get("newPackageRank").String()
	}
	switch rank {
	case "VIP":
		return "[VIP]", rankColors[rank]
	case "VIP_PLUS":
		return "[VIP+]", rankColors[rank]
	case "MVP":
		return "[MVP]", rankColors[rank]
	case "MVP_PLUS":
		return "[MVP+]", rankColors[rank]
	case "SUPERSTAR":
		return "[MVP++]", rankColors[rank]
	case "ADMIN":
		return "[ADMIN]", rankColors[rank]
	case "YOUTUBER":
		return "[YOUTUBE]", rankColors[rank]
	default:
		return "", 0xAAAAAA
	}
}

// stripColorCodes removes legacy §-style formatting codes.
func stripColorCodes(s string) string {
	var b strings.Builder
	skip := false
	for _, r := range s {
		if skip {
			skip = false
			continue
		}
		if r == '§' {
			skip = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package hypixel

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// GuildMember is one member entry from the guild endpoint.
type GuildMember struct {
	UUID               string
	Joined             time.Time
	QuestParticipation int64
	// ExpHistory holds the last seven daily experience contributions,
	// newest first.
	ExpHistory []DayExp
}

// DayExp is one day of guild experience contribution.
type DayExp struct {
	Date time.Time
	Exp  int64
}

// Guild is the decoded guild endpoint response. Raw keeps the verbatim
// guild object for archival.
type Guild struct {
	ID            string
	Name          string
	Created       time.Time
	Experience    int64
	ExpByGameType map[string]int64
	Members       []GuildMember
	Raw           []byte
}

// GetGuildByPlayer looks up the guild a player belongs to.
func (c *Client) GetGuildByPlayer(ctx context.Context, playerUUID string) (*Guild, error) {
	return c.getGuild(ctx, fmt.Sprintf("%s/guild?player=%s", BaseURL, playerUUID))
}

// GetGuildByID looks up a guild by its Hypixel guild ID.
func (c *Client) GetGuildByID(ctx context.Context, guildID string) (*Guild, error) {
	return c.getGuild(ctx, fmt.Sprintf("%s/guild?id=%s", BaseURL, guildID))
}

func (c *Client) getGuild(ctx context.Context, url string) (*Guild, error) {
	body, err := c.getRaw(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	root := gjson.GetBytes(body, "guild")
	if !root.Exists() || root.Type == gjson.Null {
		return nil, fmt.Errorf("no guild found")
	}

	g := &Guild{
		ID:            root.Get("_id").String(),
		Name:          root.Get("name").String(),
		Created:       time.UnixMilli(root.Get("created").Int()),
		Experience:    root.Get("exp").Int(),
		ExpByGameType: make(map[string]int64),
		Raw:           []byte(root.Raw),
	}
	root.Get("guildExpByGameType").ForEach(func(key, value gjson.Result) bool {
		g.ExpByGameType[key.String()] = value.Int()
		return true
	})
	root.Get("members").ForEach(func(_, member gjson.Result) bool {
		m := GuildMember{
			UUID:               member.Get("uuid").String(),
			Joined:             time.UnixMilli(member.Get("joined").Int()),
			QuestParticipation: member.Get("questParticipation").Int(),
		}
		member.Get("expHistory").ForEach(func(day, exp gjson.Result) bool {
			date, err := time.Parse(time.DateOnly, day.String())
			if err != nil {
				return true
			}
			m.ExpHistory = append(m.ExpHistory, DayExp{Date: date, Exp: exp.Int()})
			return true
		})
		sort.Slice(m.ExpHistory, func(i, j int) bool {
			return m.ExpHistory[i].Date.After(m.ExpHistory[j].Date)
		})
		g.Members = append(g.Members, m)
		return true
	})

	return g, nil
}
